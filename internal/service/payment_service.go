package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/repository"
)

// --- Error Definitions ---
var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrUnknownPlan     = errors.New("unknown payment plan")
)

// Plan is a priced membership plan.
type Plan struct {
	Code  string          `json:"code"`
	Price decimal.Decimal `json:"price"`
}

// MonthStatus is one entry of a member's payment history.
type MonthStatus struct {
	Month   string          `json:"month"` // "YYYY-MM"
	Label   string          `json:"label"` // "MM-YYYY"
	Paid    bool            `json:"paid"`  // Paid and not voided
	Payment *domain.Payment `json:"payment,omitempty"`
}

// SummaryEntry is a settled payment with its member.
type SummaryEntry struct {
	Payment    domain.Payment `json:"payment"`
	MemberName string         `json:"memberName"`
	MemberDNI  string         `json:"memberDni"`
}

// PlanTotal aggregates the settled payments of one plan.
type PlanTotal struct {
	Plan  string          `json:"plan"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// MonthlySummary lists the settled payments of a month.
type MonthlySummary struct {
	Month   string          `json:"month"`
	Label   string          `json:"label"`
	Entries []SummaryEntry  `json:"entries"`
	ByPlan  []PlanTotal     `json:"byPlan"`
	Total   decimal.Decimal `json:"total"`
}

// PaymentService manages the monthly payment ledger. Months are accepted as
// "MM-YYYY" or "YYYY-MM"; an empty month means the current one.
type PaymentService interface {
	// ToggleCurrent creates the current month's payment as paid, or flips
	// its paid flag when it exists. Voided is never touched.
	ToggleCurrent(ctx context.Context, memberID primitive.ObjectID) (*domain.Payment, error)
	ToggleMonth(ctx context.Context, memberID primitive.ObjectID, month string) (*domain.Payment, error)
	Record(ctx context.Context, memberID primitive.ObjectID, month, plan string, amount *decimal.Decimal) (*domain.Payment, error)
	Void(ctx context.Context, paymentID primitive.ObjectID) (*domain.Payment, error)
	Delete(ctx context.Context, paymentID primitive.ObjectID) error
	History(ctx context.Context, memberID primitive.ObjectID) ([]MonthStatus, error)
	MonthlySummary(ctx context.Context, month string) (*MonthlySummary, error)
	Plans() []Plan
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	memberRepo  repository.MemberRepository
	plans       map[string]decimal.Decimal
	defaultPlan string
	loc         *time.Location
	now         Clock
}

// NewPaymentService creates a new instance of paymentService.
func NewPaymentService(paymentRepo repository.PaymentRepository, memberRepo repository.MemberRepository, plans map[string]decimal.Decimal, defaultPlan string, loc *time.Location, clock Clock) PaymentService {
	if loc == nil {
		loc = time.UTC
	}
	return &paymentService{
		paymentRepo: paymentRepo,
		memberRepo:  memberRepo,
		plans:       plans,
		defaultPlan: defaultPlan,
		loc:         loc,
		now:         clockOrDefault(clock),
	}
}

func (s *paymentService) currentMonth() string {
	return domain.MonthKey(s.now().In(s.loc))
}

// parseMonth accepts "MM-YYYY", "YYYY-MM" or "" (current month).
func (s *paymentService) parseMonth(month string) (string, error) {
	month = strings.TrimSpace(month)
	if month == "" {
		return s.currentMonth(), nil
	}
	if key, err := domain.ParseMonthLabel(month); err == nil {
		return key, nil
	}
	if _, err := domain.MonthStart(month, s.loc); err == nil {
		return month, nil
	}
	return "", fmt.Errorf("%w: invalid month %q, expected MM-YYYY", ErrValidationFailed, month)
}

func (s *paymentService) ToggleCurrent(ctx context.Context, memberID primitive.ObjectID) (*domain.Payment, error) {
	return s.toggle(ctx, memberID, s.currentMonth())
}

func (s *paymentService) ToggleMonth(ctx context.Context, memberID primitive.ObjectID, month string) (*domain.Payment, error) {
	key, err := s.parseMonth(month)
	if err != nil {
		return nil, err
	}
	return s.toggle(ctx, memberID, key)
}

func (s *paymentService) toggle(ctx context.Context, memberID primitive.ObjectID, month string) (*domain.Payment, error) {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}
	now := s.now().UTC()
	initial := domain.Payment{
		MemberID:  memberID,
		Month:     month,
		Paid:      true,
		Plan:      s.defaultPlan,
		Amount:    domain.NewMoney(s.plans[s.defaultPlan]),
		PaidAt:    now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p, created, err := s.paymentRepo.Toggle(ctx, initial)
	if err != nil {
		return nil, err
	}
	log.Info().Str("member", memberID.Hex()).Str("month", month).Bool("created", created).Bool("paid", p.Paid).Msg("Payment toggled")
	return p, nil
}

func (s *paymentService) Record(ctx context.Context, memberID primitive.ObjectID, month, plan string, amount *decimal.Decimal) (*domain.Payment, error) {
	key, err := s.parseMonth(month)
	if err != nil {
		return nil, err
	}
	plan = strings.TrimSpace(plan)
	if plan == "" {
		plan = s.defaultPlan
	}
	price, ok := s.plans[plan]
	if !ok {
		return nil, fmt.Errorf("%w: %w %q", ErrValidationFailed, ErrUnknownPlan, plan)
	}
	if amount != nil {
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w: amount cannot be negative", ErrValidationFailed)
		}
		price = *amount
	}
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}

	p, err := s.paymentRepo.Settle(ctx, memberID, key, plan, domain.NewMoney(price), s.now().UTC())
	if err != nil {
		return nil, err
	}
	log.Info().Str("member", memberID.Hex()).Str("month", key).Str("plan", plan).Str("amount", price.String()).Msg("Payment recorded")
	return p, nil
}

func (s *paymentService) Void(ctx context.Context, paymentID primitive.ObjectID) (*domain.Payment, error) {
	p, err := s.paymentRepo.SetVoided(ctx, paymentID, true, s.now().UTC())
	if err != nil {
		return nil, notFound(err, ErrPaymentNotFound)
	}
	log.Info().Str("payment", paymentID.Hex()).Msg("Payment voided")
	return p, nil
}

func (s *paymentService) Delete(ctx context.Context, paymentID primitive.ObjectID) error {
	if err := s.paymentRepo.Delete(ctx, paymentID); err != nil {
		return notFound(err, ErrPaymentNotFound)
	}
	log.Info().Str("payment", paymentID.Hex()).Msg("Payment deleted")
	return nil
}

// History lists every month from the member's joining month to the current
// one, oldest first.
func (s *paymentService) History(ctx context.Context, memberID primitive.ObjectID) ([]MonthStatus, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}
	payments, err := s.paymentRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	byMonth := make(map[string]domain.Payment, len(payments))
	for _, p := range payments {
		byMonth[p.Month] = p
	}

	joined := member.JoinedAt.In(s.loc)
	start := time.Date(joined.Year(), joined.Month(), 1, 0, 0, 0, 0, s.loc)
	now := s.now().In(s.loc)
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)

	var out []MonthStatus
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		key := domain.MonthKey(m)
		status := MonthStatus{Month: key, Label: domain.MonthLabel(key)}
		if p, ok := byMonth[key]; ok {
			p := p
			status.Payment = &p
			status.Paid = p.Settled()
		}
		out = append(out, status)
	}
	return out, nil
}

func (s *paymentService) MonthlySummary(ctx context.Context, month string) (*MonthlySummary, error) {
	key, err := s.parseMonth(month)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListByMonth(ctx, key)
	if err != nil {
		return nil, err
	}
	members, err := s.memberRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]domain.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	summary := &MonthlySummary{Month: key, Label: domain.MonthLabel(key), Entries: []SummaryEntry{}, Total: decimal.Zero}
	totals := map[string]*PlanTotal{}
	for _, p := range payments {
		if !p.Settled() {
			continue
		}
		m := byID[p.MemberID]
		summary.Entries = append(summary.Entries, SummaryEntry{Payment: p, MemberName: m.FullName, MemberDNI: m.DNI})
		summary.Total = summary.Total.Add(p.Amount.Decimal)

		t, ok := totals[p.Plan]
		if !ok {
			t = &PlanTotal{Plan: p.Plan, Total: decimal.Zero}
			totals[p.Plan] = t
		}
		t.Count++
		t.Total = t.Total.Add(p.Amount.Decimal)
	}
	sort.Slice(summary.Entries, func(i, j int) bool {
		return summary.Entries[i].MemberName < summary.Entries[j].MemberName
	})
	for _, t := range totals {
		summary.ByPlan = append(summary.ByPlan, *t)
	}
	sort.Slice(summary.ByPlan, func(i, j int) bool { return summary.ByPlan[i].Plan < summary.ByPlan[j].Plan })
	return summary, nil
}

func (s *paymentService) Plans() []Plan {
	out := make([]Plan, 0, len(s.plans))
	for code, price := range s.plans {
		out = append(out, Plan{Code: code, Price: price})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
