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

const exportArchiveCollectionName = "export_archives"

// mongoExportArchiveRepository implements repository.ExportArchiveRepository
type mongoExportArchiveRepository struct {
	collection *mongo.Collection
}

// NewMongoExportArchiveRepository creates a new ExportArchive repository backed by MongoDB.
func NewMongoExportArchiveRepository(db *mongo.Database) repository.ExportArchiveRepository {
	return &mongoExportArchiveRepository{
		collection: db.Collection(exportArchiveCollectionName),
	}
}

// Create inserts archive metadata. The object must already be stored.
func (r *mongoExportArchiveRepository) Create(ctx context.Context, archive *domain.ExportArchive) (primitive.ObjectID, error) {
	if archive.ObjectKey == "" {
		return primitive.NilObjectID, errors.New("export archive requires an object key")
	}

	archive.ID = primitive.NewObjectID()
	if archive.CreatedAt.IsZero() {
		archive.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, archive)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedID(result)
}

// GetByID retrieves archive metadata by its ID.
func (r *mongoExportArchiveRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExportArchive, error) {
	var archive domain.ExportArchive
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&archive); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &archive, nil
}

// List returns all archives, newest first.
func (r *mongoExportArchiveRepository) List(ctx context.Context) ([]domain.ExportArchive, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.ExportArchive](ctx, cursor)
}

// Delete removes archive metadata.
func (r *mongoExportArchiveRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func exportArchiveIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	}
}
