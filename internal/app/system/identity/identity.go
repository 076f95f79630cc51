// Package identity is the account side of sign-in: creating accounts,
// changing credentials and looking accounts up by email.
package identity

import (
	"context"
	"errors"
	"fmt"

	accountstore "github.com/dalemusser/daycarehub/internal/app/store/accounts"
	"github.com/dalemusser/daycarehub/internal/app/system/inputval"
	"github.com/dalemusser/daycarehub/internal/app/system/normalize"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password the provider accepts.
const MinPasswordLength = 6

var (
	ErrEmailExists  = errors.New("the email address is already in use by another account")
	ErrInvalidEmail = errors.New("the email address is improperly formatted")
	ErrWeakPassword = fmt.Errorf("the password must be at least %d characters", MinPasswordLength)
	ErrNotFound     = errors.New("no account matches the given uid")
)

// Lookup is the outcome of an account search.
type Lookup int

const (
	NotFound Lookup = iota
	Found
)

// Accounts is the persistence the provider needs.
type Accounts interface {
	Create(ctx context.Context, a models.Account) error
	GetByID(ctx context.Context, uid string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, uid string, upd accountstore.Update) error
}

// Provider manages identity accounts.
type Provider struct {
	accounts Accounts
	cost     int
}

// New returns a Provider backed by accounts.
func New(accounts Accounts) *Provider {
	return &Provider{accounts: accounts, cost: bcrypt.DefaultCost}
}

// WithCost returns a copy of p hashing with the given bcrypt cost.
func (p *Provider) WithCost(cost int) *Provider {
	cp := *p
	cp.cost = cost
	return &cp
}

// NewAccount describes an account to create.
type NewAccount struct {
	Email       string
	Password    string
	DisplayName *string
}

// Create registers a new account and returns it with its generated uid.
func (p *Provider) Create(ctx context.Context, na NewAccount) (models.Account, error) {
	email := normalize.Email(na.Email)
	if !inputval.IsValidEmail(email) {
		return models.Account{}, ErrInvalidEmail
	}
	hash, err := p.hash(na.Password)
	if err != nil {
		return models.Account{}, err
	}

	a := models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  na.DisplayName,
	}
	if err := p.accounts.Create(ctx, a); err != nil {
		if errors.Is(err, accountstore.ErrDuplicateEmail) {
			return models.Account{}, ErrEmailExists
		}
		return models.Account{}, err
	}
	return a, nil
}

// LookupByEmail searches for the account registered under email.
// Absence is reported through the Lookup value, not as an error.
func (p *Provider) LookupByEmail(ctx context.Context, email string) (models.Account, Lookup, error) {
	a, err := p.accounts.GetByEmail(ctx, normalize.Email(email))
	if errors.Is(err, accountstore.ErrNotFound) {
		return models.Account{}, NotFound, nil
	}
	if err != nil {
		return models.Account{}, NotFound, err
	}
	return *a, Found, nil
}

// Get loads an account by uid.
func (p *Provider) Get(ctx context.Context, uid string) (models.Account, error) {
	a, err := p.accounts.GetByID(ctx, uid)
	if errors.Is(err, accountstore.ErrNotFound) {
		return models.Account{}, ErrNotFound
	}
	if err != nil {
		return models.Account{}, err
	}
	return *a, nil
}

// Changes lists the credentials to update. Nil fields are left alone.
type Changes struct {
	Email    *string
	Password *string
}

// Update changes the credentials of an existing account.
func (p *Provider) Update(ctx context.Context, uid string, ch Changes) error {
	var upd accountstore.Update
	if ch.Email != nil {
		email := normalize.Email(*ch.Email)
		if !inputval.IsValidEmail(email) {
			return ErrInvalidEmail
		}
		upd.Email = &email
	}
	if ch.Password != nil {
		hash, err := p.hash(*ch.Password)
		if err != nil {
			return err
		}
		upd.PasswordHash = &hash
	}
	return p.mapErr(p.accounts.Update(ctx, uid, upd))
}

// SetSuperAdmin sets or clears the super-admin claim on an account.
// Tokens minted before the change keep the old claim.
func (p *Provider) SetSuperAdmin(ctx context.Context, uid string, on bool) error {
	return p.mapErr(p.accounts.Update(ctx, uid, accountstore.Update{SuperAdmin: &on}))
}

// CheckPassword reports whether password matches the account's hash.
func CheckPassword(a models.Account, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

func (p *Provider) hash(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func (p *Provider) mapErr(err error) error {
	switch {
	case errors.Is(err, accountstore.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, accountstore.ErrDuplicateEmail):
		return ErrEmailExists
	default:
		return err
	}
}
