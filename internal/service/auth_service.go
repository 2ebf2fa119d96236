package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/repository"
)

// --- Error Definitions ---
var (
	ErrUsernameTaken        = errors.New("an operator with this username already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid credentials")
	ErrHashingFailed        = errors.New("failed to hash password")
)

const minPasswordLen = 8

// AuthService manages operator accounts and their tokens.
type AuthService interface {
	Register(ctx context.Context, username, name, password string) (*domain.Operator, error)
	Login(ctx context.Context, username, password string) (token string, operator *domain.Operator, err error)
	// Authenticate verifies an operator token and returns the operator id.
	Authenticate(token string) (primitive.ObjectID, error)
}

// authService implements the AuthService interface.
type authService struct {
	operatorRepo repository.OperatorRepository
	tokens       *TokenIssuer
}

// NewAuthService creates a new instance of authService.
func NewAuthService(operatorRepo repository.OperatorRepository, tokens *TokenIssuer) AuthService {
	return &authService{
		operatorRepo: operatorRepo,
		tokens:       tokens,
	}
}

// Register creates a staff account.
func (s *authService) Register(ctx context.Context, username, name, password string) (*domain.Operator, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	name = strings.TrimSpace(name)
	if username == "" || name == "" {
		return nil, fmt.Errorf("%w: username and name cannot be empty", ErrValidationFailed)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must have at least %d characters", ErrValidationFailed, minPasswordLen)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	operator := &domain.Operator{
		Username:     username,
		Name:         name,
		PasswordHash: string(hashedPassword),
	}
	if _, err := s.operatorRepo.Create(ctx, operator); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	log.Info().Str("operator", operator.ID.Hex()).Str("username", username).Msg("Operator registered")

	operator.PasswordHash = ""
	return operator, nil
}

// Login checks the password and issues an operator token.
func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.Operator, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return "", nil, ErrAuthenticationFailed
	}

	operator, err := s.operatorRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, _, err := s.tokens.Issue(operator.ID.Hex(), domain.RoleOperator)
	if err != nil {
		return "", nil, err
	}

	operator.PasswordHash = ""
	return token, operator, nil
}

func (s *authService) Authenticate(token string) (primitive.ObjectID, error) {
	claims, err := s.tokens.Parse(token, domain.RoleOperator)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return primitive.NilObjectID, ErrUnauthenticated
	}
	return id, nil
}
