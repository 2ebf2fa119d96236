package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/repository"
)

const operatorCollectionName = "operators"

// mongoOperatorRepository implements the repository.OperatorRepository interface using MongoDB.
type mongoOperatorRepository struct {
	collection *mongo.Collection
}

// NewMongoOperatorRepository creates a new instance of mongoOperatorRepository.
// It expects a connected *mongo.Database instance.
func NewMongoOperatorRepository(db *mongo.Database) repository.OperatorRepository {
	return &mongoOperatorRepository{
		collection: db.Collection(operatorCollectionName),
	}
}

// Create inserts a new operator into the database.
func (r *mongoOperatorRepository) Create(ctx context.Context, operator *domain.Operator) (primitive.ObjectID, error) {
	if operator.Username == "" || operator.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("operator username and password hash are required")
	}

	operator.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	operator.CreatedAt = now
	operator.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, operator)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return insertedID(result)
}

// GetByUsername retrieves an operator by username.
func (r *mongoOperatorRepository) GetByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// GetByID retrieves an operator by ID.
func (r *mongoOperatorRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Operator, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoOperatorRepository) findOne(ctx context.Context, filter bson.M) (*domain.Operator, error) {
	var operator domain.Operator
	if err := r.collection.FindOne(ctx, filter).Decode(&operator); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &operator, nil
}

func operatorIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
}
