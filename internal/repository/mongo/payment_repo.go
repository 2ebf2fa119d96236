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

const paymentCollectionName = "payments"

// mongoPaymentRepository implements repository.PaymentRepository.
// The unique (memberId, month) index turns concurrent upserts into a
// duplicate key error on the loser, which is retried once.
type mongoPaymentRepository struct {
	collection *mongo.Collection
}

// NewMongoPaymentRepository creates a new Payment repository backed by MongoDB.
func NewMongoPaymentRepository(db *mongo.Database) repository.PaymentRepository {
	return &mongoPaymentRepository{
		collection: db.Collection(paymentCollectionName),
	}
}

func monthFilter(memberID primitive.ObjectID, month string) bson.M {
	return bson.M{"memberId": memberID, "month": month}
}

// Toggle inserts initial when the month has no payment yet, otherwise flips paid.
func (r *mongoPaymentRepository) Toggle(ctx context.Context, initial domain.Payment) (*domain.Payment, bool, error) {
	var (
		p       *domain.Payment
		created bool
		err     error
	)
	for attempt := 0; attempt < 2; attempt++ {
		p, created, err = r.toggleOnce(ctx, initial)
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	return p, created, err
}

func (r *mongoPaymentRepository) toggleOnce(ctx context.Context, initial domain.Payment) (*domain.Payment, bool, error) {
	filter := monthFilter(initial.MemberID, initial.Month)
	insert := bson.M{
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"paid":      initial.Paid,
			"voided":    initial.Voided,
			"plan":      initial.Plan,
			"amount":    initial.Amount,
			"paidAt":    initial.PaidAt,
			"createdAt": initial.CreatedAt,
			"updatedAt": initial.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, insert, options.Update().SetUpsert(true))
	if err != nil {
		return nil, false, err
	}
	if res.UpsertedCount == 1 {
		p, err := r.findOne(ctx, filter)
		return p, true, err
	}

	// Existing record: flip paid server side so concurrent toggles serialize.
	flip := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"paid":      bson.M{"$not": bson.A{"$paid"}},
			"updatedAt": initial.UpdatedAt,
		}}},
	}
	var p domain.Payment
	err = r.collection.FindOneAndUpdate(ctx, filter, flip,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, repository.ErrNotFound
		}
		return nil, false, err
	}
	return &p, false, nil
}

// Settle marks the month paid with the given plan and amount, creating it if needed.
func (r *mongoPaymentRepository) Settle(ctx context.Context, memberID primitive.ObjectID, month, plan string, amount domain.Money, at time.Time) (*domain.Payment, error) {
	filter := monthFilter(memberID, month)
	update := bson.M{
		"$set": bson.M{
			"paid":      true,
			"plan":      plan,
			"amount":    amount,
			"paidAt":    at,
			"updatedAt": at,
		},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"voided":    false,
			"createdAt": at,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var (
		p   domain.Payment
		err error
	)
	for attempt := 0; attempt < 2; attempt++ {
		err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a payment by ID.
func (r *mongoPaymentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Payment, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoPaymentRepository) findOne(ctx context.Context, filter bson.M) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.collection.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByMember returns a member's payments, newest month first.
func (r *mongoPaymentRepository) ListByMember(ctx context.Context, memberID primitive.ObjectID) ([]domain.Payment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"memberId": memberID},
		options.Find().SetSort(bson.D{{Key: "month", Value: -1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Payment](ctx, cursor)
}

// ListByMonth returns every payment recorded for a month.
func (r *mongoPaymentRepository) ListByMonth(ctx context.Context, month string) ([]domain.Payment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"month": month},
		options.Find().SetSort(bson.D{{Key: "paidAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Payment](ctx, cursor)
}

// SetVoided updates the voided flag and returns the payment after the change.
func (r *mongoPaymentRepository) SetVoided(ctx context.Context, id primitive.ObjectID, voided bool, at time.Time) (*domain.Payment, error) {
	update := bson.M{"$set": bson.M{"voided": voided, "updatedAt": at}}
	var p domain.Payment
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Delete removes a payment.
func (r *mongoPaymentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByMember removes all payments of a member.
func (r *mongoPaymentRepository) DeleteByMember(ctx context.Context, memberID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"memberId": memberID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func paymentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "memberId", Value: 1}, {Key: "month", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "month", Value: 1}},
		},
	}
}
