package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/repository"
)

// ExportArchiveRepository is an in-memory repository.ExportArchiveRepository.
type ExportArchiveRepository struct {
	mu       sync.RWMutex
	archives map[primitive.ObjectID]domain.ExportArchive
}

func NewExportArchiveRepository() *ExportArchiveRepository {
	return &ExportArchiveRepository{archives: map[primitive.ObjectID]domain.ExportArchive{}}
}

func (r *ExportArchiveRepository) Create(_ context.Context, archive *domain.ExportArchive) (primitive.ObjectID, error) {
	if archive.ObjectKey == "" {
		return primitive.NilObjectID, errors.New("export archive requires an object key")
	}
	archive.ID = primitive.NewObjectID()
	if archive.CreatedAt.IsZero() {
		archive.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.archives[archive.ID] = *archive
	return archive.ID, nil
}

func (r *ExportArchiveRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ExportArchive, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.archives[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *ExportArchiveRepository) List(_ context.Context) ([]domain.ExportArchive, error) {
	r.mu.RLock()
	out := make([]domain.ExportArchive, 0, len(r.archives))
	for _, a := range r.archives {
		out = append(out, a)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ExportArchiveRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.archives[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.archives, id)
	return nil
}
