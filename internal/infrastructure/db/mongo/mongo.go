package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/admin-console/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings of the console database.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Store is the MongoDB backend: both repositories over one database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	Users *UserRepository
	Roles *RoleRepository
}

// Open connects, verifies connectivity with a ping and makes sure the unique
// indexes the repositories rely on exist.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(cfg.URI).
		SetAppName("admin-console").
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client: client,
		db:     db,
		Users:  NewUserRepository(db),
		Roles:  NewRoleRepository(db),
	}
	if err := s.Users.EnsureIndexes(ctx); err != nil {
		_ = s.Close(context.Background())
		return nil, fmt.Errorf("user indexes: %w", err)
	}
	if err := s.Roles.EnsureIndexes(ctx); err != nil {
		_ = s.Close(context.Background())
		return nil, fmt.Errorf("role indexes: %w", err)
	}
	return s, nil
}

// Seed loads roles and users into empty collections. Collections that
// already hold data are left alone.
func (s *Store) Seed(ctx context.Context, roles []domain.Role, users []domain.User) error {
	if err := s.Roles.Seed(ctx, roles); err != nil {
		return err
	}
	return s.Users.Seed(ctx, users)
}

// Database exposes the underlying database for health checks.
func (s *Store) Database() *mongo.Database {
	return s.db
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// storeError wraps a driver failure. Network errors and timeouts are reported
// as domain.ErrTransient so callers surface them as "try again".
func storeError(op string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrTransient, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
