package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/admin-console/internal/core/domain"
)

const collectionUsers = "users"

// UserRepository implements ports.UserStore on MongoDB.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

// userDoc adds the lower-cased email the unique index is built on.
type userDoc struct {
	domain.User `bson:",inline"`
	EmailLower  string `bson:"email_lower"`
}

func toUserDoc(u domain.User) userDoc {
	return userDoc{User: u, EmailLower: strings.ToLower(u.Email)}
}

// listUsersSort orders newest first; _id breaks created_at ties so repeated
// listings agree.
var listUsersSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}

// ListUsers returns every user, newest first.
func (r *UserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(listUsersSort))
	if err != nil {
		return nil, storeError("list users", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeError("list users", err)
	}
	out := make([]domain.User, len(docs))
	for i, d := range docs {
		out[i] = d.User
	}
	return out, nil
}

func (r *UserRepository) FindUser(ctx context.Context, id string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"email_lower": strings.ToLower(email)})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, storeError("find user", err)
	}
	return d.User, nil
}

func (r *UserRepository) InsertUser(ctx context.Context, u domain.User) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	u.ID = "usr_" + uuid.NewString()
	u.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.col.InsertOne(ctx, toUserDoc(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, domain.ErrDuplicateEmail
		}
		return domain.User{}, storeError("insert user", err)
	}
	return u, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
		set["email_lower"] = strings.ToLower(*patch.Email)
	}
	if patch.RoleID != nil {
		set["role_id"] = *patch.RoleID
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Department != nil {
		set["department"] = *patch.Department
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.LastLogin != nil {
		set["last_login"] = patch.LastLogin.UTC()
	}
	if patch.PasswordHash != nil {
		set["password_hash"] = *patch.PasswordHash
	}
	if len(set) == 0 {
		return r.FindUser(ctx, id)
	}

	var d userDoc
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&d)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.User{}, domain.ErrUserNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.User{}, domain.ErrDuplicateEmail
	case err != nil:
		return domain.User{}, storeError("update user", err)
	}
	return d.User, nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, storeError("delete user", err)
	}
	return res.DeletedCount > 0, nil
}

// EnsureIndexes creates the unique email index and the listing sort index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email_lower", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// Seed inserts users only when the collection is empty.
func (r *UserRepository) Seed(ctx context.Context, users []domain.User) error {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil || n > 0 {
		return err
	}
	docs := make([]any, len(users))
	for i, u := range users {
		docs[i] = toUserDoc(u)
	}
	_, err = r.col.InsertMany(ctx, docs)
	return err
}
