package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/repository"
)

// ClientSession is the identity of a member signed in with their DNI.
// It travels with each request; nothing is kept server side.
type ClientSession struct {
	MemberID  primitive.ObjectID
	ExpiresAt time.Time
}

// ViewedRow is a routine row with its exercise name resolved.
type ViewedRow struct {
	domain.Row
	ExerciseName string `json:"exerciseName,omitempty"`
}

// ViewedVersion is the read-only rendition of a version for members.
type ViewedVersion struct {
	ID          primitive.ObjectID `json:"id"`
	Kind        domain.Kind        `json:"kind"`
	KindLabel   string             `json:"kindLabel"`
	Week        int                `json:"week"`
	CreatedAt   time.Time          `json:"createdAt"`
	WarmUp      []ViewedRow        `json:"warmUp"`
	Main        []ViewedRow        `json:"main"`
	Comment     string             `json:"comment,omitempty"`
	CommentHTML string             `json:"commentHtml,omitempty"`
}

// ClientService serves the member-facing routine viewer.
type ClientService interface {
	// Login signs a member in by DNI and returns the session token.
	Login(ctx context.Context, dni string) (token string, session *ClientSession, member *domain.Member, err error)
	// Session verifies a session token.
	Session(token string) (*ClientSession, error)
	// Authorize checks that the session may read memberID's data.
	Authorize(session *ClientSession, memberID primitive.ObjectID) error
	Routines(ctx context.Context, session *ClientSession, memberID primitive.ObjectID) ([]ViewedVersion, error)
}

type clientService struct {
	memberRepo   repository.MemberRepository
	routineRepo  repository.RoutineRepository
	exerciseRepo repository.ExerciseRepository
	tokens       *TokenIssuer
	markdown     goldmark.Markdown
}

// NewClientService creates a new instance of clientService.
func NewClientService(memberRepo repository.MemberRepository, routineRepo repository.RoutineRepository, exerciseRepo repository.ExerciseRepository, tokens *TokenIssuer) ClientService {
	return &clientService{
		memberRepo:   memberRepo,
		routineRepo:  routineRepo,
		exerciseRepo: exerciseRepo,
		tokens:       tokens,
		markdown:     goldmark.New(), // Raw HTML in comments is escaped
	}
}

func (s *clientService) Login(ctx context.Context, dni string) (string, *ClientSession, *domain.Member, error) {
	dni = strings.TrimSpace(dni)
	if dni == "" {
		return "", nil, nil, fmt.Errorf("%w: dni is required", ErrValidationFailed)
	}
	member, err := s.memberRepo.GetByDNI(ctx, dni)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, nil, ErrAuthenticationFailed
		}
		return "", nil, nil, err
	}

	token, expires, err := s.tokens.Issue(member.ID.Hex(), domain.RoleClient)
	if err != nil {
		return "", nil, nil, err
	}
	log.Info().Str("member", member.ID.Hex()).Msg("Client signed in")
	return token, &ClientSession{MemberID: member.ID, ExpiresAt: expires}, member, nil
}

func (s *clientService) Session(token string) (*ClientSession, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.tokens.Parse(token, domain.RoleClient)
	if err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	session := &ClientSession{MemberID: id}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

func (s *clientService) Authorize(session *ClientSession, memberID primitive.ObjectID) error {
	if session == nil || session.MemberID.IsZero() {
		return ErrUnauthenticated
	}
	if session.MemberID != memberID {
		return ErrAccessDenied
	}
	return nil
}

func (s *clientService) Routines(ctx context.Context, session *ClientSession, memberID primitive.ObjectID) ([]ViewedVersion, error) {
	if err := s.Authorize(session, memberID); err != nil {
		return nil, err
	}
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, notFound(err, ErrMemberNotFound)
	}
	versions, err := s.routineRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	names, err := exerciseNames(ctx, s.exerciseRepo, versions...)
	if err != nil {
		return nil, err
	}

	out := make([]ViewedVersion, 0, len(versions))
	for i := range versions {
		v := &versions[i]
		viewed := ViewedVersion{
			ID:        v.ID,
			Kind:      v.Kind,
			KindLabel: v.Kind.Label(),
			Week:      v.Week,
			CreatedAt: v.CreatedAt,
			WarmUp:    viewRows(v.WarmUpRows(), names),
			Main:      viewRows(v.MainRows(), names),
			Comment:   v.CommentText(),
		}
		if viewed.Comment != "" {
			var buf bytes.Buffer
			if err := s.markdown.Convert([]byte(viewed.Comment), &buf); err != nil {
				log.Warn().Err(err).Str("version", v.ID.Hex()).Msg("Failed to render routine comment")
			} else {
				viewed.CommentHTML = buf.String()
			}
		}
		out = append(out, viewed)
	}
	return out, nil
}

func viewRows(rows []domain.Row, names map[primitive.ObjectID]string) []ViewedRow {
	out := make([]ViewedRow, len(rows))
	for i, r := range rows {
		out[i] = ViewedRow{Row: r}
		if r.ExerciseID != nil {
			out[i].ExerciseName = names[*r.ExerciseID]
		}
	}
	return out
}
