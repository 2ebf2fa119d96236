package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/repository"
)

type monthKey struct {
	member primitive.ObjectID
	month  string
}

// PaymentRepository is an in-memory repository.PaymentRepository.
// The byMonth index plays the role of the unique (memberId, month) index.
type PaymentRepository struct {
	mu       sync.RWMutex
	payments map[primitive.ObjectID]domain.Payment
	byMonth  map[monthKey]primitive.ObjectID
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		payments: map[primitive.ObjectID]domain.Payment{},
		byMonth:  map[monthKey]primitive.ObjectID{},
	}
}

func (r *PaymentRepository) Toggle(_ context.Context, initial domain.Payment) (*domain.Payment, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := monthKey{initial.MemberID, initial.Month}
	if id, ok := r.byMonth[key]; ok {
		p := r.payments[id]
		p.Paid = !p.Paid
		p.UpdatedAt = initial.UpdatedAt
		r.payments[id] = p
		return &p, false, nil
	}

	p := initial
	p.ID = primitive.NewObjectID()
	r.payments[p.ID] = p
	r.byMonth[key] = p.ID
	return &p, true, nil
}

func (r *PaymentRepository) Settle(_ context.Context, memberID primitive.ObjectID, month, plan string, amount domain.Money, at time.Time) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := monthKey{memberID, month}
	p := domain.Payment{ID: primitive.NewObjectID(), MemberID: memberID, Month: month, CreatedAt: at}
	if id, ok := r.byMonth[key]; ok {
		p = r.payments[id]
	}
	p.Paid = true
	p.Plan = plan
	p.Amount = amount
	p.PaidAt = at
	p.UpdatedAt = at
	r.payments[p.ID] = p
	r.byMonth[key] = p.ID
	return &p, nil
}

func (r *PaymentRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *PaymentRepository) ListByMember(_ context.Context, memberID primitive.ObjectID) ([]domain.Payment, error) {
	out := r.filter(func(p domain.Payment) bool { return p.MemberID == memberID })
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out, nil
}

func (r *PaymentRepository) ListByMonth(_ context.Context, month string) ([]domain.Payment, error) {
	out := r.filter(func(p domain.Payment) bool { return p.Month == month })
	sort.Slice(out, func(i, j int) bool { return out[i].PaidAt.Before(out[j].PaidAt) })
	return out, nil
}

func (r *PaymentRepository) filter(keep func(domain.Payment) bool) []domain.Payment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Payment{}
	for _, p := range r.payments {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *PaymentRepository) SetVoided(_ context.Context, id primitive.ObjectID, voided bool, at time.Time) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Voided = voided
	p.UpdatedAt = at
	r.payments[id] = p
	return &p, nil
}

func (r *PaymentRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.payments, id)
	delete(r.byMonth, monthKey{p.MemberID, p.Month})
	return nil
}

func (r *PaymentRepository) DeleteByMember(_ context.Context, memberID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.payments {
		if p.MemberID == memberID {
			delete(r.payments, id)
			delete(r.byMonth, monthKey{p.MemberID, p.Month})
			n++
		}
	}
	return n, nil
}
