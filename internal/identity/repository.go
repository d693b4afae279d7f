package identity

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/domain"
)

// Repository defines the interface for identity data operations.
type Repository interface {
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	GetOrganizationByID(ctx context.Context, id string) (*domain.Organization, error)
	GetOrganizationBySlug(ctx context.Context, slug string) (*domain.Organization, error)

	// Transaction methods: registration creates the organization and its
	// first admin user atomically.
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CreateOrganizationTx(ctx context.Context, tx pgx.Tx, org *domain.Organization) error
	CreateUserTx(ctx context.Context, tx pgx.Tx, user *domain.User) error
}
