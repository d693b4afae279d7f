package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/domain"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/pkg/slug"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer issues and verifies bearer identity tokens bound to a user id.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
	Verify(token string) (userID string, err error)
}

// Service implements registration, login and token resolution.
type Service struct {
	repo   Repository
	tokens TokenIssuer
}

// NewService creates a new identity service.
func NewService(repo Repository, tokens TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// RegisterInput holds data for registering an organization and its first user.
type RegisterInput struct {
	Email            string
	Password         string
	Name             string
	OrganizationName string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token        string
	User         *domain.User
	Organization *domain.Organization
}

// Register creates an organization and its first user (always admin) in one
// transaction, then issues a token bound to the new user.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	existing, err := s.repo.GetUserByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	orgSlug, err := s.deriveSlug(ctx, input.OrganizationName)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	org := &domain.Organization{
		Name: input.OrganizationName,
		Slug: orgSlug,
	}
	user := &domain.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		Name:         input.Name,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	if err := s.repo.CreateOrganizationTx(ctx, tx, org); err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}

	user.OrganizationID = org.ID
	if err := s.repo.CreateUserTx(ctx, tx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResult{Token: token, User: user, Organization: org}, nil
}

// Login verifies credentials and returns a fresh token. Unknown email,
// wrong password and inactive user all fail with ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	org, err := s.repo.GetOrganizationByID(ctx, user.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResult{Token: token, User: user, Organization: org}, nil
}

// Authenticate resolves a bearer token to the acting user and their
// organization. This is the sole tenant-isolation mechanism: every private
// operation filters by the returned organization's ID.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, *domain.Organization, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	org, err := s.repo.GetOrganizationByID(ctx, user.OrganizationID)
	if err != nil {
		return nil, nil, fmt.Errorf("get organization: %w", err)
	}

	return user, org, nil
}

// GetUserWithOrganization returns the user and organization for /me.
func (s *Service) GetUserWithOrganization(ctx context.Context, userID string) (*domain.User, *domain.Organization, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	org, err := s.repo.GetOrganizationByID(ctx, user.OrganizationID)
	if err != nil {
		return nil, nil, err
	}

	return user, org, nil
}

// GetOrganizationBySlug resolves a public status page slug to its tenant.
func (s *Service) GetOrganizationBySlug(ctx context.Context, orgSlug string) (*domain.Organization, error) {
	return s.repo.GetOrganizationBySlug(ctx, orgSlug)
}

// deriveSlug lowercases the organization name into a URL-safe slug and
// appends a timestamp suffix when the slug is already taken.
func (s *Service) deriveSlug(ctx context.Context, organizationName string) (string, error) {
	candidate := slug.Make(organizationName)

	_, err := s.repo.GetOrganizationBySlug(ctx, candidate)
	switch {
	case errors.Is(err, ErrOrganizationNotFound):
		return candidate, nil
	case err != nil:
		return "", fmt.Errorf("check slug: %w", err)
	}

	return slug.Disambiguate(candidate, time.Now().UTC()), nil
}
