package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/repository"
)

// MemberRepository is an in-memory repository.MemberRepository.
type MemberRepository struct {
	mu      sync.RWMutex
	members map[primitive.ObjectID]domain.Member
}

func NewMemberRepository() *MemberRepository {
	return &MemberRepository{members: map[primitive.ObjectID]domain.Member{}}
}

func copyMember(m domain.Member) *domain.Member {
	if m.Age != nil {
		age := *m.Age
		m.Age = &age
	}
	return &m
}

func (r *MemberRepository) dniTaken(dni string, except primitive.ObjectID) bool {
	for id, m := range r.members {
		if id != except && m.DNI == dni {
			return true
		}
	}
	return false
}

func (r *MemberRepository) Create(_ context.Context, member *domain.Member) (primitive.ObjectID, error) {
	if member.DNI == "" || member.FullName == "" {
		return primitive.NilObjectID, errors.New("member dni and full name are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dniTaken(member.DNI, primitive.NilObjectID) {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	member.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if member.JoinedAt.IsZero() {
		member.JoinedAt = now
	}
	member.UpdatedAt = now
	r.members[member.ID] = *copyMember(*member)
	return member.ID, nil
}

func (r *MemberRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyMember(m), nil
}

func (r *MemberRepository) GetByDNI(_ context.Context, dni string) (*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.members {
		if m.DNI == dni {
			return copyMember(m), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *MemberRepository) List(_ context.Context, query string) ([]domain.Member, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	r.mu.RLock()
	out := make([]domain.Member, 0, len(r.members))
	for _, m := range r.members {
		if q == "" || matchesMember(m, q) {
			out = append(out, *copyMember(m))
		}
	}
	r.mu.RUnlock()

	c := newCollator()
	sort.Slice(out, func(i, j int) bool {
		if cmp := c.CompareString(out[i].FullName, out[j].FullName); cmp != 0 {
			return cmp < 0
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out, nil
}

func matchesMember(m domain.Member, q string) bool {
	for _, f := range []string{m.FullName, m.Email, m.Phone, m.DNI} {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func (r *MemberRepository) Update(_ context.Context, member *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.members[member.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.dniTaken(member.DNI, member.ID) {
		return repository.ErrDuplicate
	}
	member.JoinedAt = current.JoinedAt
	member.UpdatedAt = time.Now().UTC()
	r.members[member.ID] = *copyMember(*member)
	return nil
}

func (r *MemberRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.members, id)
	return nil
}
