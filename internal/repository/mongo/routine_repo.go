package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/repository"
)

const routineCollectionName = "routine_versions"

// newestFirst orders versions by creation time; _id breaks ties.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// mongoRoutineRepository implements repository.RoutineRepository.
// A version is a single document embedding its rows and comment.
type mongoRoutineRepository struct {
	collection *mongo.Collection
}

// NewMongoRoutineRepository creates a new routine version repository backed by MongoDB.
func NewMongoRoutineRepository(db *mongo.Database) repository.RoutineRepository {
	return &mongoRoutineRepository{
		collection: db.Collection(routineCollectionName),
	}
}

// Create inserts a complete routine version. CreatedAt must be set by the caller.
func (r *mongoRoutineRepository) Create(ctx context.Context, version *domain.RoutineVersion) (primitive.ObjectID, error) {
	if version.MemberID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("routine version requires a member ID")
	}
	if version.CreatedAt.IsZero() {
		return primitive.NilObjectID, errors.New("routine version requires a creation time")
	}
	if version.Rows == nil {
		version.Rows = []domain.Row{}
	}
	version.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, version)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedID(result)
}

// GetByID retrieves a routine version by ID.
func (r *mongoRoutineRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineVersion, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// Latest returns the member's newest version.
func (r *mongoRoutineRepository) Latest(ctx context.Context, memberID primitive.ObjectID) (*domain.RoutineVersion, error) {
	return r.findOne(ctx, bson.M{"memberId": memberID}, options.FindOne().SetSort(newestFirst))
}

func (r *mongoRoutineRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.RoutineVersion, error) {
	var v domain.RoutineVersion
	if err := r.collection.FindOne(ctx, filter, opts...).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ListByMember returns every version of a member, newest first.
func (r *mongoRoutineRepository) ListByMember(ctx context.Context, memberID primitive.ObjectID) ([]domain.RoutineVersion, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"memberId": memberID}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.RoutineVersion](ctx, cursor)
}

// SetComment replaces the comment of a version in place. A nil comment removes it.
func (r *mongoRoutineRepository) SetComment(ctx context.Context, id primitive.ObjectID, comment *domain.Comment) error {
	update := bson.M{"$unset": bson.M{"comment": ""}}
	if comment != nil {
		update = bson.M{"$set": bson.M{"comment": comment}}
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a version together with its rows and comment.
func (r *mongoRoutineRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByMember removes every version of a member.
func (r *mongoRoutineRepository) DeleteByMember(ctx context.Context, memberID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"memberId": memberID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// ClearExercise sets exerciseId to null on every row pointing at exerciseID.
func (r *mongoRoutineRepository) ClearExercise(ctx context.Context, exerciseID primitive.ObjectID) (int64, error) {
	filter := bson.M{"rows.exerciseId": exerciseID}
	update := bson.M{"$set": bson.M{"rows.$[r].exerciseId": nil}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"r.exerciseId": exerciseID}},
	})
	result, err := r.collection.UpdateMany(ctx, filter, update, opts)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func routineIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "memberId", Value: 1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "rows.exerciseId", Value: 1}},
		},
	}
}
