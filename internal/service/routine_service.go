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
	"alcyxob/gym-admin/internal/routine"
)

var ErrRoutineNotFound = errors.New("routine version not found")

// DefaultFirstKind is the kind of a member's first, empty version when the
// caller does not pick one.
const DefaultFirstKind = domain.KindHypertrophy

// CategorySuggestions are offered by the editor for free sections.
var CategorySuggestions = []string{
	"Pectorales", "Espalda", "Deltoides", "Bíceps", "Tríceps", "Cuádriceps",
	"Isquiotibiales", "Pantorrilla", "Abdomen", "Trapecios", "Antebrazos",
}

// RoutineEditor is everything the editor needs to show a version.
type RoutineEditor struct {
	Version    *domain.RoutineVersion    `json:"version"`
	Layout     routine.Layout            `json:"layout"`
	KnownKind  bool                      `json:"knownKind"`
	Sections   []routine.RenderedSection `json:"sections"`
	Exercises  []domain.Exercise         `json:"exercises"`
	Categories []string                  `json:"categories"`
	Comment    string                    `json:"comment"`
}

// RoutineService is the versioning engine. Versions are never rewritten:
// every save produces a new version and the previous one stays in history.
// The only in-place change is UpdateComment.
type RoutineService interface {
	// ListVersions returns the member's versions, newest first.
	ListVersions(ctx context.Context, memberID primitive.ObjectID) ([]domain.RoutineVersion, error)
	// ViewOrCreateFirst is ListVersions, creating an empty version of kind
	// when the member has none yet.
	ViewOrCreateFirst(ctx context.Context, memberID primitive.ObjectID, kind domain.Kind) ([]domain.RoutineVersion, error)
	GetVersion(ctx context.Context, versionID primitive.ObjectID) (*domain.RoutineVersion, error)
	// Duplicate clones the newest version (kind, week, rows and comment).
	// With no versions it creates an empty one of fallbackKind.
	Duplicate(ctx context.Context, memberID primitive.ObjectID, fallbackKind domain.Kind) (*domain.RoutineVersion, error)
	// CreateFromKind creates an empty version from a free-text kind label.
	CreateFromKind(ctx context.Context, memberID primitive.ObjectID, label string) (*domain.RoutineVersion, error)
	// SaveEdit validates a submission against the version it was edited from
	// and stores the result as a new version. Nothing is written on failure.
	SaveEdit(ctx context.Context, versionID primitive.ObjectID, sub routine.Submission) (*domain.RoutineVersion, error)
	UpdateComment(ctx context.Context, versionID primitive.ObjectID, text string) (*domain.RoutineVersion, error)
	Delete(ctx context.Context, versionID primitive.ObjectID) error
	Editor(ctx context.Context, versionID primitive.ObjectID) (*RoutineEditor, error)
}

type routineService struct {
	routineRepo  repository.RoutineRepository
	memberRepo   repository.MemberRepository
	exerciseRepo repository.ExerciseRepository
	now          Clock
}

// NewRoutineService creates a new instance of routineService.
func NewRoutineService(routineRepo repository.RoutineRepository, memberRepo repository.MemberRepository, exerciseRepo repository.ExerciseRepository, clock Clock) RoutineService {
	return &routineService{
		routineRepo:  routineRepo,
		memberRepo:   memberRepo,
		exerciseRepo: exerciseRepo,
		now:          clockOrDefault(clock),
	}
}

func (s *routineService) ensureMember(ctx context.Context, memberID primitive.ObjectID) error {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return notFound(err, ErrMemberNotFound)
	}
	return nil
}

func (s *routineService) latest(ctx context.Context, memberID primitive.ObjectID) (*domain.RoutineVersion, error) {
	v, err := s.routineRepo.Latest(ctx, memberID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return v, err
}

// nextCreatedAt keeps creation times strictly increasing per member, at the
// millisecond precision the store keeps.
func (s *routineService) nextCreatedAt(latest *domain.RoutineVersion) time.Time {
	now := s.now().UTC().Truncate(time.Millisecond)
	if latest != nil && !now.After(latest.CreatedAt) {
		return latest.CreatedAt.UTC().Truncate(time.Millisecond).Add(time.Millisecond)
	}
	return now
}

func (s *routineService) create(ctx context.Context, v *domain.RoutineVersion, latest *domain.RoutineVersion, reason string) (*domain.RoutineVersion, error) {
	v.CreatedAt = s.nextCreatedAt(latest)
	if _, err := s.routineRepo.Create(ctx, v); err != nil {
		return nil, err
	}
	ev := log.Info().
		Str("member", v.MemberID.Hex()).
		Str("version", v.ID.Hex()).
		Str("kind", string(v.Kind)).
		Int("week", v.Week).
		Int("rows", len(v.Rows)).
		Str("reason", reason)
	if latest != nil {
		ev = ev.Str("supersedes", latest.ID.Hex())
	}
	ev.Msg("Routine version created")
	return v, nil
}

func (s *routineService) ListVersions(ctx context.Context, memberID primitive.ObjectID) ([]domain.RoutineVersion, error) {
	if err := s.ensureMember(ctx, memberID); err != nil {
		return nil, err
	}
	return s.routineRepo.ListByMember(ctx, memberID)
}

func (s *routineService) ViewOrCreateFirst(ctx context.Context, memberID primitive.ObjectID, kind domain.Kind) ([]domain.RoutineVersion, error) {
	versions, err := s.ListVersions(ctx, memberID)
	if err != nil || len(versions) > 0 {
		return versions, err
	}
	v, err := s.create(ctx, emptyVersion(memberID, kind), nil, "first")
	if err != nil {
		return nil, err
	}
	return []domain.RoutineVersion{*v}, nil
}

func emptyVersion(memberID primitive.ObjectID, kind domain.Kind) *domain.RoutineVersion {
	if !kind.Valid() {
		kind = DefaultFirstKind
	}
	return &domain.RoutineVersion{
		MemberID: memberID,
		Kind:     kind,
		Week:     domain.DefaultWeek,
		Rows:     []domain.Row{},
	}
}

func (s *routineService) GetVersion(ctx context.Context, versionID primitive.ObjectID) (*domain.RoutineVersion, error) {
	v, err := s.routineRepo.GetByID(ctx, versionID)
	if err != nil {
		return nil, notFound(err, ErrRoutineNotFound)
	}
	return v, nil
}

func (s *routineService) Duplicate(ctx context.Context, memberID primitive.ObjectID, fallbackKind domain.Kind) (*domain.RoutineVersion, error) {
	if err := s.ensureMember(ctx, memberID); err != nil {
		return nil, err
	}
	latest, err := s.latest(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return s.create(ctx, emptyVersion(memberID, fallbackKind), nil, "first")
	}

	clone := &domain.RoutineVersion{
		MemberID: memberID,
		Kind:     latest.Kind,
		Week:     latest.Week,
		Rows:     domain.CloneRows(latest.Rows),
	}
	if text := latest.CommentText(); text != "" {
		clone.Comment = &domain.Comment{Text: text}
	}
	return s.create(ctx, clone, latest, "duplicate")
}

func (s *routineService) CreateFromKind(ctx context.Context, memberID primitive.ObjectID, label string) (*domain.RoutineVersion, error) {
	if err := s.ensureMember(ctx, memberID); err != nil {
		return nil, err
	}
	kind, ok := routine.LookupKind(label)
	if !ok {
		kind = routine.DefaultKind
		log.Warn().Str("label", label).Str("kind", string(kind)).Msg("Unknown routine kind label, using default")
	}
	latest, err := s.latest(ctx, memberID)
	if err != nil {
		return nil, err
	}
	v := emptyVersion(memberID, kind)
	return s.create(ctx, v, latest, "kind")
}

func (s *routineService) SaveEdit(ctx context.Context, versionID primitive.ObjectID, sub routine.Submission) (*domain.RoutineVersion, error) {
	source, err := s.GetVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}

	layout, _ := routine.LayoutFor(source.Kind)
	rows, err := routine.Validate(ctx, s.exerciseRepo, sub.Rows, &layout)
	if err != nil {
		var verr *routine.ValidationError
		if errors.As(err, &verr) {
			log.Debug().Str("version", versionID.Hex()).Int("row", verr.Row).Str("field", verr.Field).Msg("Routine submission rejected")
		}
		return nil, err
	}

	v := &domain.RoutineVersion{
		MemberID: source.MemberID,
		Kind:     source.Kind,
		Week:     routine.ParseWeek(sub.Week, source.Week),
		Rows:     rows,
	}
	text := source.CommentText()
	if sub.Comment != nil && strings.TrimSpace(*sub.Comment) != "" {
		text = strings.TrimSpace(*sub.Comment)
		if utf8.RuneCountInString(text) > domain.MaxLongTextLen {
			return nil, &routine.ValidationError{
				Field:  "comentario",
				Reason: fmt.Sprintf("must be at most %d characters", domain.MaxLongTextLen),
			}
		}
	}
	if text != "" {
		v.Comment = &domain.Comment{Text: text}
	}

	latest, err := s.latest(ctx, source.MemberID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, v, latest, "edit")
}

func (s *routineService) UpdateComment(ctx context.Context, versionID primitive.ObjectID, text string) (*domain.RoutineVersion, error) {
	text = strings.TrimSpace(text)
	if len([]rune(text)) > domain.MaxLongTextLen {
		return nil, fmt.Errorf("%w: comment must be at most %d characters", ErrValidationFailed, domain.MaxLongTextLen)
	}
	var comment *domain.Comment
	if text != "" {
		comment = &domain.Comment{Text: text}
	}
	if err := s.routineRepo.SetComment(ctx, versionID, comment); err != nil {
		return nil, notFound(err, ErrRoutineNotFound)
	}
	log.Info().Str("version", versionID.Hex()).Msg("Routine comment updated in place")
	return s.GetVersion(ctx, versionID)
}

func (s *routineService) Delete(ctx context.Context, versionID primitive.ObjectID) error {
	if err := s.routineRepo.Delete(ctx, versionID); err != nil {
		return notFound(err, ErrRoutineNotFound)
	}
	log.Info().Str("version", versionID.Hex()).Msg("Routine version deleted")
	return nil
}

func (s *routineService) Editor(ctx context.Context, versionID primitive.ObjectID) (*RoutineEditor, error) {
	v, err := s.GetVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	exercises, err := s.exerciseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	layout, known := routine.LayoutFor(v.Kind)
	return &RoutineEditor{
		Version:    v,
		Layout:     layout,
		KnownKind:  known,
		Sections:   layout.Render(v.Rows),
		Exercises:  exercises,
		Categories: CategorySuggestions,
		Comment:    v.CommentText(),
	}, nil
}
