package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/repository"
)

// testDB connects to GYM_TEST_MONGO_URI and returns a throwaway database.
func testDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("GYM_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("GYM_TEST_MONGO_URI not set")
	}
	client, err := ConnectDB(uri)
	require.NoError(t, err)

	db := client.Database("gym_admin_test_" + primitive.NewObjectID().Hex())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = DisconnectDB(client)
	})
	require.NoError(t, EnsureIndexes(context.Background(), db))
	return db
}

func TestMemberUniqueDNIAndSearch(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewMongoMemberRepository(db)

	_, err := repo.Create(ctx, &domain.Member{DNI: "100", FullName: "Ana Pérez"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Member{DNI: "200", FullName: "álvaro Díaz"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Member{DNI: "100", FullName: "Otra"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "álvaro Díaz", all[0].FullName, "accents and case do not affect ordering")

	found, err := repo.List(ctx, "PéR")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "100", found[0].DNI)
}

func TestPaymentToggleIsGetOrCreate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewMongoPaymentRepository(db)
	memberID := primitive.NewObjectID()
	now := time.Now().UTC()
	initial := domain.Payment{
		MemberID: memberID, Month: "2024-07", Paid: true, Plan: "2",
		Amount: domain.NewMoney(decimal.NewFromInt(20000)), PaidAt: now, CreatedAt: now, UpdatedAt: now,
	}

	p, created, err := repo.Toggle(ctx, initial)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, p.Paid)

	_, err = repo.SetVoided(ctx, p.ID, true, now)
	require.NoError(t, err)

	p, created, err = repo.Toggle(ctx, initial)
	require.NoError(t, err)
	assert.False(t, created)
	assert.False(t, p.Paid)
	assert.True(t, p.Voided)
	assert.True(t, decimal.NewFromInt(20000).Equal(p.Amount.Decimal))

	list, err := repo.ListByMember(ctx, memberID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRoutineVersionsAndClearExercise(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewMongoRoutineRepository(db)
	memberID := primitive.NewObjectID()
	exerciseID := primitive.NewObjectID()
	base := time.Now().UTC().Truncate(time.Millisecond)

	older := &domain.RoutineVersion{MemberID: memberID, Kind: domain.KindHypertrophy, Week: 1, CreatedAt: base,
		Rows: []domain.Row{{ID: primitive.NewObjectID(), Category: "Piernas", ExerciseID: &exerciseID}}}
	newer := &domain.RoutineVersion{MemberID: memberID, Kind: domain.KindHypertrophy, Week: 2, CreatedAt: base.Add(time.Millisecond),
		Comment: &domain.Comment{Text: "ok"}}
	_, err := repo.Create(ctx, older)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newer)
	require.NoError(t, err)

	latest, err := repo.Latest(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)

	touched, err := repo.ClearExercise(ctx, exerciseID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), touched)

	got, err := repo.GetByID(ctx, older.ID)
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.Nil(t, got.Rows[0].ExerciseID)
	assert.Equal(t, "Piernas", got.Rows[0].Category)

	n, err := repo.DeleteByMember(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	_, err = repo.Latest(ctx, memberID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
