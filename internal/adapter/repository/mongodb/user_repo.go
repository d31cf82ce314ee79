package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/delta-student/wanderlust/internal/domain"
	"github.com/delta-student/wanderlust/internal/platform/logger"
)

const userCollectionName = "users"

// UserRepository implements domain.UserRepository using MongoDB.
type UserRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewUserRepository creates the repository and ensures the unique indexes on
// username and email that back duplicate-signup detection.
func NewUserRepository(db *mongo.Database, log *logger.Logger) (*UserRepository, error) {
	collection := db.Collection(userCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Indexes may already exist or be created out of band; not fatal.
		log.Warn("Failed to create indexes for users collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for users collection")
	}

	return &UserRepository{
		collection: collection,
		logger:     log.Named("UserRepository"),
	}, nil
}

// Create inserts a new user. A duplicate username or email maps to
// domain.ErrDuplicateUser.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.logger.Info("Creating user in DB", zap.String("username", user.Username))

	doc := fromDomainUser(user)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	user.ID = doc.ID

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate key error on user creation", zap.String("username", user.Username))
			return domain.ErrDuplicateUser
		}
		r.logger.Error("Failed to insert user into DB", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	r.logger.Info("User created successfully in DB", zap.String("user_id", doc.ID.Hex()))
	return nil
}

// FindByID retrieves a user by id.
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.logger.Debug("Getting user by ID from DB", zap.String("user_id", id.Hex()))
	var doc userDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get user by ID from DB", zap.Error(err), zap.String("user_id", id.Hex()))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByUsername retrieves a user by username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.logger.Debug("Getting user by username from DB", zap.String("username", username))
	var doc userDocument
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get user by username from DB", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByIDs resolves a batch of user ids into a map. Missing ids are absent
// from the result.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*domain.User, error) {
	users := make(map[primitive.ObjectID]*domain.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		r.logger.Error("Failed to find users by ids from DB", zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*userDocument
	if err = cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode users by ids from DB", zap.Error(err))
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}
	for _, doc := range docs {
		users[doc.ID] = doc.toDomain()
	}
	return users, nil
}
