package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/gym-admin/internal/domain"
)

// Error constants for the repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key") // Unique index violation
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// MemberRepository defines the interface for interacting with member data.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) (primitive.ObjectID, error) // ErrDuplicate when the DNI is taken
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Member, error)
	GetByDNI(ctx context.Context, dni string) (*domain.Member, error)
	// List returns members ordered by name. A non-empty query matches a
	// case-insensitive substring of name, email, phone or DNI.
	List(ctx context.Context, query string) ([]domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PaymentRepository defines the interface for interacting with monthly payments.
// (memberId, month) is unique; the get-or-create methods below rely on it.
type PaymentRepository interface {
	// Toggle creates the month's payment from initial when it does not exist,
	// otherwise flips its paid flag. created reports which branch ran.
	Toggle(ctx context.Context, initial domain.Payment) (payment *domain.Payment, created bool, err error)
	// Settle creates or updates the month's payment as paid with the given plan and amount.
	Settle(ctx context.Context, memberID primitive.ObjectID, month, plan string, amount domain.Money, at time.Time) (*domain.Payment, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Payment, error)
	ListByMember(ctx context.Context, memberID primitive.ObjectID) ([]domain.Payment, error)
	ListByMonth(ctx context.Context, month string) ([]domain.Payment, error)
	SetVoided(ctx context.Context, id primitive.ObjectID, voided bool, at time.Time) (*domain.Payment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByMember(ctx context.Context, memberID primitive.ObjectID) (int64, error)
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) // ErrDuplicate when the name is taken
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error)
	ExistingIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]struct{}, error)
	List(ctx context.Context) ([]domain.Exercise, error) // Ordered by name
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// RoutineRepository stores routine versions. Rows and comment are embedded
// in the version document, so Create persists a whole version at once.
type RoutineRepository interface {
	Create(ctx context.Context, version *domain.RoutineVersion) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineVersion, error)
	Latest(ctx context.Context, memberID primitive.ObjectID) (*domain.RoutineVersion, error)
	ListByMember(ctx context.Context, memberID primitive.ObjectID) ([]domain.RoutineVersion, error) // Newest first
	SetComment(ctx context.Context, id primitive.ObjectID, comment *domain.Comment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByMember(ctx context.Context, memberID primitive.ObjectID) (int64, error)
	// ClearExercise nulls every row reference to the exercise and returns the number of versions touched.
	ClearExercise(ctx context.Context, exerciseID primitive.ObjectID) (int64, error)
}

// OperatorRepository defines the interface for interacting with staff accounts.
type OperatorRepository interface {
	Create(ctx context.Context, operator *domain.Operator) (primitive.ObjectID, error) // ErrDuplicate when the username is taken
	GetByUsername(ctx context.Context, username string) (*domain.Operator, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Operator, error)
}

// ExportArchiveRepository defines the interface for interacting with archived export metadata.
type ExportArchiveRepository interface {
	Create(ctx context.Context, archive *domain.ExportArchive) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExportArchive, error)
	List(ctx context.Context) ([]domain.ExportArchive, error) // Newest first
	Delete(ctx context.Context, id primitive.ObjectID) error
}
