package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/repository"
)

// --- Error Definitions ---
var (
	ErrMemberNotFound = errors.New("member not found")
	ErrDNITaken       = errors.New("a member with this DNI already exists")
)

const gmailSuffix = "@gmail.com"

// MemberInput carries the editable fields of a member.
type MemberInput struct {
	DNI      string
	FullName string
	Phone    string
	Address  string
	Email    string
	Age      *int
	Intake   domain.MemberIntake
}

// MemberSummary is a member list entry.
type MemberSummary struct {
	domain.Member
	PaidThisMonth bool `json:"paidThisMonth"`
}

// MemberService manages the member registry.
type MemberService interface {
	ListMembers(ctx context.Context, query string) ([]MemberSummary, error)
	CreateMember(ctx context.Context, in MemberInput) (*domain.Member, error)
	GetMember(ctx context.Context, id primitive.ObjectID) (*domain.Member, error)
	UpdateMember(ctx context.Context, id primitive.ObjectID, in MemberInput) (*domain.Member, error)
	UpdateIntake(ctx context.Context, id primitive.ObjectID, intake domain.MemberIntake) (*domain.Member, error)
	// DeleteMember removes the member with all routine versions and payments.
	DeleteMember(ctx context.Context, id primitive.ObjectID) error
}

type memberService struct {
	memberRepo  repository.MemberRepository
	paymentRepo repository.PaymentRepository
	routineRepo repository.RoutineRepository
	loc         *time.Location
	now         Clock
}

// NewMemberService creates a new instance of memberService. loc decides
// which calendar month "this month" is.
func NewMemberService(memberRepo repository.MemberRepository, paymentRepo repository.PaymentRepository, routineRepo repository.RoutineRepository, loc *time.Location, clock Clock) MemberService {
	if loc == nil {
		loc = time.UTC
	}
	return &memberService{
		memberRepo:  memberRepo,
		paymentRepo: paymentRepo,
		routineRepo: routineRepo,
		loc:         loc,
		now:         clockOrDefault(clock),
	}
}

func (s *memberService) ListMembers(ctx context.Context, query string) ([]MemberSummary, error) {
	members, err := s.memberRepo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListByMonth(ctx, domain.MonthKey(s.now().In(s.loc)))
	if err != nil {
		return nil, err
	}
	paid := make(map[primitive.ObjectID]bool, len(payments))
	for i := range payments {
		if payments[i].Settled() {
			paid[payments[i].MemberID] = true
		}
	}

	out := make([]MemberSummary, len(members))
	for i, m := range members {
		out[i] = MemberSummary{Member: m, PaidThisMonth: paid[m.ID]}
	}
	return out, nil
}

func (s *memberService) CreateMember(ctx context.Context, in MemberInput) (*domain.Member, error) {
	in = normalizeMemberInput(in)
	if err := validateMemberInput(in); err != nil {
		return nil, err
	}

	member := &domain.Member{JoinedAt: s.now().UTC()}
	applyMemberInput(member, in)
	if _, err := s.memberRepo.Create(ctx, member); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDNITaken
		}
		return nil, err
	}
	log.Info().Str("member", member.ID.Hex()).Msg("Member created")
	return member, nil
}

func (s *memberService) GetMember(ctx context.Context, id primitive.ObjectID) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}
	return member, nil
}

func (s *memberService) UpdateMember(ctx context.Context, id primitive.ObjectID, in MemberInput) (*domain.Member, error) {
	in = normalizeMemberInput(in)
	if err := validateMemberInput(in); err != nil {
		return nil, err
	}
	member, err := s.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	applyMemberInput(member, in)
	if err := s.memberRepo.Update(ctx, member); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDNITaken
		}
		return nil, notFound(err, ErrMemberNotFound)
	}
	return member, nil
}

func (s *memberService) UpdateIntake(ctx context.Context, id primitive.ObjectID, intake domain.MemberIntake) (*domain.Member, error) {
	intake = normalizeIntake(intake)
	if utf8.RuneCountInString(intake.WeeklyFrequency) > domain.MaxWeeklyFrequencyLen {
		return nil, fmt.Errorf("%w: weekly frequency must be at most %d characters", ErrValidationFailed, domain.MaxWeeklyFrequencyLen)
	}
	member, err := s.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	member.MemberIntake = intake
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}
	return member, nil
}

func (s *memberService) DeleteMember(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.GetMember(ctx, id); err != nil {
		return err
	}
	versions, err := s.routineRepo.DeleteByMember(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting routine versions: %w", err)
	}
	payments, err := s.paymentRepo.DeleteByMember(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting payments: %w", err)
	}
	if err := s.memberRepo.Delete(ctx, id); err != nil {
		return notFound(err, ErrMemberNotFound)
	}
	log.Info().Str("member", id.Hex()).Int64("versions", versions).Int64("payments", payments).Msg("Member deleted")
	return nil
}

func normalizeMemberInput(in MemberInput) MemberInput {
	in.DNI = strings.TrimSpace(in.DNI)
	in.FullName = strings.Join(strings.Fields(in.FullName), " ")
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Intake = normalizeIntake(in.Intake)
	return in
}

func normalizeIntake(i domain.MemberIntake) domain.MemberIntake {
	i.SportHistory = strings.TrimSpace(i.SportHistory)
	i.GymExperience = strings.TrimSpace(i.GymExperience)
	i.InjuryHistory = strings.TrimSpace(i.InjuryHistory)
	i.Illnesses = strings.TrimSpace(i.Illnesses)
	i.Goals = strings.TrimSpace(i.Goals)
	i.WeeklyFrequency = strings.TrimSpace(i.WeeklyFrequency)
	return i
}

func validateMemberInput(in MemberInput) error {
	if in.DNI == "" {
		return fmt.Errorf("%w: dni is required", ErrValidationFailed)
	}
	if in.FullName == "" {
		return fmt.Errorf("%w: full name is required", ErrValidationFailed)
	}
	limits := []struct {
		field string
		value string
		max   int
	}{
		{"dni", in.DNI, domain.MaxDNILen},
		{"fullName", in.FullName, domain.MaxFullNameLen},
		{"phone", in.Phone, domain.MaxPhoneLen},
		{"address", in.Address, domain.MaxAddressLen},
		{"email", in.Email, domain.MaxEmailLen},
		{"weeklyFrequency", in.Intake.WeeklyFrequency, domain.MaxWeeklyFrequencyLen},
	}
	for _, l := range limits {
		if utf8.RuneCountInString(l.value) > l.max {
			return fmt.Errorf("%w: %s must be at most %d characters", ErrValidationFailed, l.field, l.max)
		}
	}
	if in.Email != "" && (!strings.HasSuffix(in.Email, gmailSuffix) || len(in.Email) == len(gmailSuffix)) {
		return fmt.Errorf("%w: email must be a @gmail.com address", ErrValidationFailed)
	}
	if in.Age != nil && *in.Age < 0 {
		return fmt.Errorf("%w: age cannot be negative", ErrValidationFailed)
	}
	return nil
}

func applyMemberInput(m *domain.Member, in MemberInput) {
	m.DNI = in.DNI
	m.FullName = in.FullName
	m.Phone = in.Phone
	m.Address = in.Address
	m.Email = in.Email
	m.Age = in.Age
	m.MemberIntake = in.Intake
}
