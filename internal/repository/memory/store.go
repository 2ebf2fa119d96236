// Package memory keeps every repository in process memory. It backs the
// "memory" database driver and the service and handler tests.
package memory

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"alcyxob/gym-admin/internal/repository"
)

// Store groups the in-memory repositories.
type Store struct {
	Members   *MemberRepository
	Payments  *PaymentRepository
	Exercises *ExerciseRepository
	Routines  *RoutineRepository
	Operators *OperatorRepository
	Archives  *ExportArchiveRepository
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		Members:   NewMemberRepository(),
		Payments:  NewPaymentRepository(),
		Exercises: NewExerciseRepository(),
		Routines:  NewRoutineRepository(),
		Operators: NewOperatorRepository(),
		Archives:  NewExportArchiveRepository(),
	}
}

var (
	_ repository.MemberRepository        = (*MemberRepository)(nil)
	_ repository.PaymentRepository       = (*PaymentRepository)(nil)
	_ repository.ExerciseRepository      = (*ExerciseRepository)(nil)
	_ repository.RoutineRepository       = (*RoutineRepository)(nil)
	_ repository.OperatorRepository      = (*OperatorRepository)(nil)
	_ repository.ExportArchiveRepository = (*ExportArchiveRepository)(nil)
)

// newCollator matches the "es" strength-1 collation of the mongo indexes:
// case and accents are ignored. Collators are not safe for concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.Spanish, collate.IgnoreCase, collate.IgnoreDiacritics)
}
