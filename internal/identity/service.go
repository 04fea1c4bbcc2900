// Package identity manages accounts, password login and bearer tokens.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bissquit/taskboard/internal/access"
	"github.com/bissquit/taskboard/internal/domain"
	"github.com/bissquit/taskboard/internal/pkg/ctxlog"
	"github.com/bissquit/taskboard/internal/pkg/metrics"
	"golang.org/x/crypto/bcrypt"
)

// Service implements account business logic.
type Service struct {
	repo       Repository
	auth       Authenticator
	bcryptCost int
	// dummyHash is compared against for unknown emails.
	dummyHash []byte
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// NewService creates a new identity service.
func NewService(repo Repository, auth Authenticator, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("taskboard-dummy-password"), bcryptCost)
	return &Service{
		repo:       repo,
		auth:       auth,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
	}
}

// RegisterInput holds registration data.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// LoginInput holds login data.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token   string
	Account *domain.Account
}

// Register creates an account and issues a token for it.
//
// The stored role is "user" unless "admin" was requested and either the
// requester is an authenticated admin or no admin account exists yet.
func (s *Service) Register(ctx context.Context, input RegisterInput, requester *domain.Caller) (*AuthResult, error) {
	name := domain.NormalizeName(input.Name)
	email := domain.NormalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}
	if err := checkAccountInput(name, email, input.Password); err != nil {
		return nil, err
	}

	role, err := s.resolveRegistrationRole(ctx, domain.Role(strings.TrimSpace(input.Role)), requester)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("register", "rejected").Inc()
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, ErrEmailExists) {
			metrics.AuthAttempts.WithLabelValues("register", "conflict").Inc()
		}
		return nil, err
	}

	token, err := s.auth.IssueToken(account)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	ctxlog.FromContext(ctx).Info("account registered", "account_id", account.ID, "role", account.Role)

	return &AuthResult{Token: token, Account: account}, nil
}

func (s *Service) resolveRegistrationRole(ctx context.Context, requested domain.Role, requester *domain.Caller) (domain.Role, error) {
	switch requested {
	case "", domain.RoleUser:
		return domain.RoleUser, nil
	case domain.RoleAdmin:
	default:
		return "", ErrInvalidRole
	}

	if requester != nil && requester.IsAdmin() {
		return domain.RoleAdmin, nil
	}

	admins, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return "", fmt.Errorf("count admins: %w", err)
	}
	if admins == 0 {
		ctxlog.FromContext(ctx).Warn("bootstrapping first admin account via registration")
		return domain.RoleAdmin, nil
	}
	return "", ErrAdminRoleForbidden
}

// Login verifies credentials and issues a token.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := domain.NormalizeEmail(input.Email)

	account, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			ctxlog.FromContext(ctx).Error("login lookup failed", "error", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(input.Password))
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return nil, ErrInvalidCredentials
	}

	token, err := s.auth.IssueToken(account)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	return &AuthResult{Token: token, Account: account}, nil
}

// ValidateToken implements httputil.TokenValidator.
func (s *Service) ValidateToken(ctx context.Context, token string) (domain.Caller, error) {
	return s.auth.ValidateToken(ctx, token)
}

// GetAccount returns the account with the given id.
func (s *Service) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return s.repo.GetAccountByID(ctx, id)
}

// ListAccounts returns all accounts. Admin only.
func (s *Service) ListAccounts(ctx context.Context, caller domain.Caller) ([]domain.Account, error) {
	if err := access.AuthorizeAccountManage(caller); err != nil {
		return nil, err
	}
	return s.repo.ListAccounts(ctx)
}

// SetRole changes the role of an account. Admin only; admins cannot demote themselves.
func (s *Service) SetRole(ctx context.Context, caller domain.Caller, id int64, role domain.Role) (*domain.Account, error) {
	if err := access.AuthorizeAccountManage(caller); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if id == caller.AccountID && role != domain.RoleAdmin {
		return nil, ErrCannotDemoteSelf
	}

	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Info("account role changed", "target_account_id", id, "role", role)
	return s.repo.GetAccountByID(ctx, id)
}

// SeedAdminInput holds the bootstrap admin credentials.
type SeedAdminInput struct {
	Name     string
	Email    string
	Password string
}

// SeedAdmin creates an admin account unless an account with that email
// already exists. Returns true when an account was created.
func (s *Service) SeedAdmin(ctx context.Context, input SeedAdminInput) (bool, error) {
	email := domain.NormalizeEmail(input.Email)
	name := domain.NormalizeName(input.Name)
	if name == "" || email == "" || input.Password == "" {
		return false, ErrMissingFields
	}
	if err := checkAccountInput(name, email, input.Password); err != nil {
		return false, err
	}

	if _, err := s.repo.GetAccountByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrAccountNotFound) {
		return false, fmt.Errorf("check existing admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	err = s.repo.CreateAccount(ctx, &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	})
	if errors.Is(err, ErrEmailExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// checkAccountInput enforces the column widths and the bcrypt input limit.
func checkAccountInput(name, email, password string) error {
	if domain.TooLong(name) || domain.TooLong(email) {
		return ErrFieldTooLong
	}
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}
