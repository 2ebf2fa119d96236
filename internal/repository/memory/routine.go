package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/repository"
)

// RoutineRepository is an in-memory repository.RoutineRepository.
// Versions are deep-copied on the way in and out.
type RoutineRepository struct {
	mu       sync.RWMutex
	versions map[primitive.ObjectID]domain.RoutineVersion
}

func NewRoutineRepository() *RoutineRepository {
	return &RoutineRepository{versions: map[primitive.ObjectID]domain.RoutineVersion{}}
}

func copyVersion(v domain.RoutineVersion) *domain.RoutineVersion {
	rows := make([]domain.Row, len(v.Rows))
	for i, row := range v.Rows {
		if row.ExerciseID != nil {
			id := *row.ExerciseID
			row.ExerciseID = &id
		}
		rows[i] = row
	}
	v.Rows = rows
	if v.Comment != nil {
		c := *v.Comment
		v.Comment = &c
	}
	return &v
}

// newer orders versions by creation time, then id, descending.
func newer(a, b domain.RoutineVersion) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.Hex() > b.ID.Hex()
}

func (r *RoutineRepository) Create(_ context.Context, version *domain.RoutineVersion) (primitive.ObjectID, error) {
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

	r.mu.Lock()
	defer r.mu.Unlock()
	r.versions[version.ID] = *copyVersion(*version)
	return version.ID, nil
}

func (r *RoutineRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.RoutineVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.versions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyVersion(v), nil
}

func (r *RoutineRepository) Latest(ctx context.Context, memberID primitive.ObjectID) (*domain.RoutineVersion, error) {
	versions, _ := r.ListByMember(ctx, memberID)
	if len(versions) == 0 {
		return nil, repository.ErrNotFound
	}
	return &versions[0], nil
}

func (r *RoutineRepository) ListByMember(_ context.Context, memberID primitive.ObjectID) ([]domain.RoutineVersion, error) {
	r.mu.RLock()
	out := []domain.RoutineVersion{}
	for _, v := range r.versions {
		if v.MemberID == memberID {
			out = append(out, *copyVersion(v))
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return newer(out[i], out[j]) })
	return out, nil
}

func (r *RoutineRepository) SetComment(_ context.Context, id primitive.ObjectID, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.versions[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.Comment = nil
	if comment != nil {
		c := *comment
		v.Comment = &c
	}
	r.versions[id] = v
	return nil
}

func (r *RoutineRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.versions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.versions, id)
	return nil
}

func (r *RoutineRepository) DeleteByMember(_ context.Context, memberID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, v := range r.versions {
		if v.MemberID == memberID {
			delete(r.versions, id)
			n++
		}
	}
	return n, nil
}

func (r *RoutineRepository) ClearExercise(_ context.Context, exerciseID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, v := range r.versions {
		touched := false
		for i, row := range v.Rows {
			if row.ExerciseID != nil && *row.ExerciseID == exerciseID {
				v.Rows[i].ExerciseID = nil
				touched = true
			}
		}
		if touched {
			r.versions[id] = v
			n++
		}
	}
	return n, nil
}
