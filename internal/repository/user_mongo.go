package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/iliyamo/authkit/internal/model"
)

// UsersCollection is the collection every Mongo-backed user lives in.
const UsersCollection = "users"

// userDoc is the stored shape of a user document.
type userDoc struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Name         string        `bson:"name"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"passwordHash,omitempty"`
	IsActive     bool          `bson:"isActive"`
	CreatedAt    time.Time     `bson:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt"`
}

func (d userDoc) user() model.User {
	return model.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// publicProjection hides passwordHash on every read that does not ask for it.
var publicProjection = bson.D{{Key: "passwordHash", Value: 0}}

// MongoUserRepo is the MongoDB backend of UserStore.
type MongoUserRepo struct {
	coll *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{coll: db.Collection(UsersCollection)}
}

// EnsureIndexes creates the unique email index that backs ErrDuplicateKey.
// It is idempotent.
func (r *MongoUserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) Create(ctx context.Context, in model.NewUser) (model.User, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := userDoc{
		ID:           bson.NewObjectID(),
		Name:         in.Name,
		Email:        NormalizeEmail(in.Email),
		PasswordHash: in.PasswordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, ErrDuplicateKey
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	return doc.user(), nil
}

func (r *MongoUserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	doc, err := r.findOne(ctx, bson.D{{Key: "email", Value: NormalizeEmail(email)}}, false)
	if err != nil {
		return model.User{}, err
	}
	return doc.user(), nil
}

func (r *MongoUserRepo) FindByEmailWithSecret(ctx context.Context, email string) (model.UserSecret, error) {
	doc, err := r.findOne(ctx, bson.D{{Key: "email", Value: NormalizeEmail(email)}}, true)
	if err != nil {
		return model.UserSecret{}, err
	}
	return model.UserSecret{User: doc.user(), PasswordHash: doc.PasswordHash}, nil
}

func (r *MongoUserRepo) FindByID(ctx context.Context, id string) (model.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.User{}, ErrNotFound
	}
	doc, err := r.findOne(ctx, bson.D{{Key: "_id", Value: oid}}, false)
	if err != nil {
		return model.User{}, err
	}
	return doc.user(), nil
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.D, withSecret bool) (userDoc, error) {
	opts := options.FindOne()
	if !withSecret {
		opts.SetProjection(publicProjection)
	}
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return userDoc{}, ErrNotFound
		}
		return userDoc{}, fmt.Errorf("find user: %w", err)
	}
	return doc, nil
}
