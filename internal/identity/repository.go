package identity

import (
	"context"

	"github.com/bissquit/taskboard/internal/domain"
)

// Repository defines account persistence.
type Repository interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccountByID(ctx context.Context, id int64) (*domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	UpdateRole(ctx context.Context, id int64, role domain.Role) error
	CountAdmins(ctx context.Context) (int64, error)
}

// Authenticator issues and validates bearer tokens.
type Authenticator interface {
	IssueToken(account *domain.Account) (string, error)
	ValidateToken(ctx context.Context, token string) (domain.Caller, error)
}
