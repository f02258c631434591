package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/admin-console/internal/core/domain"
)

const collectionRoles = "roles"

// RoleRepository implements ports.RoleStore on MongoDB.
type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

// roleDoc adds the lower-cased name the unique index is built on and the
// insertion sequence roles are listed by.
type roleDoc struct {
	domain.Role `bson:",inline"`
	NameLower   string `bson:"name_lower"`
	Seq         int64  `bson:"seq"`
}

func toRoleDoc(r domain.Role, seq int64) roleDoc {
	return roleDoc{Role: r, NameLower: strings.ToLower(r.Name), Seq: seq}
}

func (r *RoleRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, storeError("list roles", err)
	}
	var docs []roleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeError("list roles", err)
	}
	out := make([]domain.Role, len(docs))
	for i, d := range docs {
		out[i] = d.Role
	}
	return out, nil
}

func (r *RoleRepository) FindRole(ctx context.Context, id string) (domain.Role, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *RoleRepository) FindRoleByName(ctx context.Context, name string) (domain.Role, error) {
	return r.findOne(ctx, bson.M{"name_lower": strings.ToLower(name)})
}

func (r *RoleRepository) findOne(ctx context.Context, filter bson.M) (domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d roleDoc
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Role{}, domain.ErrRoleNotFound
		}
		return domain.Role{}, storeError("find role", err)
	}
	return d.Role, nil
}

func (r *RoleRepository) InsertRole(ctx context.Context, role domain.Role) (domain.Role, error) {
	if err := checkRole(role); err != nil {
		return domain.Role{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	role.ID = "role_" + uuid.NewString()
	role.Permissions = domain.NormalizePermissions(role.Permissions)
	if _, err := r.col.InsertOne(ctx, toRoleDoc(role, time.Now().UnixNano())); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Role{}, duplicateRoleName(role.Name)
		}
		return domain.Role{}, storeError("insert role", err)
	}
	return role, nil
}

func (r *RoleRepository) UpdateRole(ctx context.Context, id string, patch domain.RolePatch) (domain.Role, error) {
	current, err := r.FindRole(ctx, id)
	if err != nil {
		return domain.Role{}, err
	}
	patch.Apply(&current)
	if err := checkRole(current); err != nil {
		return domain.Role{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"name":        current.Name,
		"name_lower":  strings.ToLower(current.Name),
		"description": current.Description,
		"permissions": current.Permissions,
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	switch {
	case mongo.IsDuplicateKeyError(err):
		return domain.Role{}, duplicateRoleName(current.Name)
	case err != nil:
		return domain.Role{}, storeError("update role", err)
	case res.MatchedCount == 0:
		return domain.Role{}, domain.ErrRoleNotFound
	}
	return current, nil
}

func (r *RoleRepository) DeleteRole(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, storeError("delete role", err)
	}
	return res.DeletedCount > 0, nil
}

// EnsureIndexes creates the unique case-insensitive name index.
func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name_lower", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Seed inserts roles only when the collection is empty, preserving order.
func (r *RoleRepository) Seed(ctx context.Context, roles []domain.Role) error {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil || n > 0 {
		return err
	}
	for i, role := range roles {
		if _, err := r.col.InsertOne(ctx, toRoleDoc(role, int64(i))); err != nil {
			return fmt.Errorf("seed role %s: %w", role.ID, err)
		}
	}
	return nil
}

func checkRole(r domain.Role) error {
	if utf8.RuneCountInString(r.Name) < 2 {
		return domain.NewValidationError("name", "Role name is too short.")
	}
	if len(r.Permissions) == 0 {
		return domain.NewValidationError("permissions", "Role must have at least one permission.")
	}
	return nil
}

func duplicateRoleName(name string) error {
	return domain.NewValidationError("name", fmt.Sprintf("Role with name %q already exists.", name))
}
