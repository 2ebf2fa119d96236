package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/repository"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrExerciseExists   = errors.New("an exercise with this name already exists")
)

// ExerciseService manages the flat exercise catalog.
type ExerciseService interface {
	CreateExercise(ctx context.Context, name string) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	// DeleteExercise removes the exercise and clears every routine row that referenced it.
	DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	routineRepo  repository.RoutineRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, routineRepo repository.RoutineRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		routineRepo:  routineRepo,
	}
}

func (s *exerciseService) CreateExercise(ctx context.Context, name string) (*domain.Exercise, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return nil, fmt.Errorf("%w: exercise name is required", ErrValidationFailed)
	}
	if utf8.RuneCountInString(name) > domain.MaxExerciseNameLen {
		return nil, fmt.Errorf("%w: exercise name must be at most %d characters", ErrValidationFailed, domain.MaxExerciseNameLen)
	}

	exercise := &domain.Exercise{Name: name}
	if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrExerciseExists
		}
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		return nil, notFound(err, ErrExerciseNotFound)
	}
	return exercise, nil
}

func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx)
}

// DeleteExercise clears row references first. A failed delete leaves the
// exercise in the catalog with no rows pointing at it.
func (s *exerciseService) DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error {
	if _, err := s.exerciseRepo.GetByID(ctx, exerciseID); err != nil {
		return notFound(err, ErrExerciseNotFound)
	}
	cleared, err := s.routineRepo.ClearExercise(ctx, exerciseID)
	if err != nil {
		return fmt.Errorf("clearing routine references: %w", err)
	}
	if err := s.exerciseRepo.Delete(ctx, exerciseID); err != nil {
		return notFound(err, ErrExerciseNotFound)
	}
	log.Info().Str("exercise", exerciseID.Hex()).Int64("versionsTouched", cleared).Msg("Exercise deleted")
	return nil
}

// exerciseNames resolves the names of every exercise referenced by versions.
func exerciseNames(ctx context.Context, repo repository.ExerciseRepository, versions ...domain.RoutineVersion) (map[primitive.ObjectID]string, error) {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, v := range versions {
		for _, r := range v.Rows {
			if r.ExerciseID != nil && !seen[*r.ExerciseID] {
				seen[*r.ExerciseID] = true
				ids = append(ids, *r.ExerciseID)
			}
		}
	}
	names := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	exercises, err := repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range exercises {
		names[e.ID] = e.Name
	}
	return names, nil
}
