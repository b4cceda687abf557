package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/authservice/pkg/auth"
)

// UsersCollection is the collection holding user documents.
const UsersCollection = "users"

// DatabaseProvider hands out the live database handle. *mongo.Manager from
// pkg/mongo satisfies it.
type DatabaseProvider interface {
	Database() (*mongo.Database, error)
	RegisterModel(name string)
}

type userDocument struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	Name         string    `bson:"name,omitempty"`
	PasswordHash []byte    `bson:"password_hash"`
	AuthMethod   string    `bson:"auth_method"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d userDocument) toUser() (auth.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return auth.User{}, fmt.Errorf("invalid user id %q: %w", d.ID, err)
	}
	return auth.User{
		ID:         id,
		Email:      d.Email,
		Name:       d.Name,
		AuthMethod: d.AuthMethod,
		CreatedAt:  d.CreatedAt.UTC(),
	}, nil
}

// MongoStorage implements auth.UserStorage on the users collection.
// The database handle is resolved per call so reconnects are picked up.
type MongoStorage struct {
	db DatabaseProvider
}

var _ auth.UserStorage = (*MongoStorage)(nil)

// NewMongoStorage creates the storage and registers the users collection
// with db so it shows up in connection info.
func NewMongoStorage(db DatabaseProvider) *MongoStorage {
	db.RegisterModel(UsersCollection)
	return &MongoStorage{db: db}
}

func (s *MongoStorage) collection() (*mongo.Collection, error) {
	db, err := s.db.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(UsersCollection), nil
}

// EnsureIndexes creates the unique email index and the listing index.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	coll, err := s.collection()
	if err != nil {
		return err
	}

	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("created_at_desc"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

// CreateUser inserts user with its password hash. A unique index violation
// is reported as auth.ErrEmailAlreadyExists.
func (s *MongoStorage) CreateUser(ctx context.Context, user *auth.User, passwordHash []byte) error {
	coll, err := s.collection()
	if err != nil {
		return err
	}

	_, err = coll.InsertOne(ctx, userDocument{
		ID:           user.ID.String(),
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: passwordHash,
		AuthMethod:   user.AuthMethod,
		CreatedAt:    user.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return errors.Join(auth.ErrEmailAlreadyExists, err)
	}
	return err
}

// GetUserByEmail looks up a user by normalised email. It returns
// auth.ErrUserNotFound when no document matches.
func (s *MongoStorage) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	coll, err := s.collection()
	if err != nil {
		return nil, err
	}

	var doc userDocument
	err = coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	user, err := doc.toUser()
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns up to limit users after skipping offset, newest first.
// Password hashes are not loaded.
func (s *MongoStorage) ListUsers(ctx context.Context, limit, offset int) ([]auth.User, error) {
	coll, err := s.collection()
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetProjection(bson.D{{Key: "password_hash", Value: 0}})

	cur, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]auth.User, 0, len(docs))
	for _, d := range docs {
		u, err := d.toUser()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// CountUsers returns the number of stored users.
func (s *MongoStorage) CountUsers(ctx context.Context) (int64, error) {
	coll, err := s.collection()
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, bson.D{})
}
