package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/repository"
)

// OperatorRepository is an in-memory repository.OperatorRepository.
type OperatorRepository struct {
	mu        sync.RWMutex
	operators map[primitive.ObjectID]domain.Operator
}

func NewOperatorRepository() *OperatorRepository {
	return &OperatorRepository{operators: map[primitive.ObjectID]domain.Operator{}}
}

func (r *OperatorRepository) Create(_ context.Context, operator *domain.Operator) (primitive.ObjectID, error) {
	if operator.Username == "" || operator.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("operator username and password hash are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.operators {
		if o.Username == operator.Username {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	operator.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	operator.CreatedAt = now
	operator.UpdatedAt = now
	r.operators[operator.ID] = *operator
	return operator.ID, nil
}

func (r *OperatorRepository) GetByUsername(_ context.Context, username string) (*domain.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.operators {
		if o.Username == username {
			return &o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *OperatorRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.operators[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}
