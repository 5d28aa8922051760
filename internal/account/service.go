package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nerrad567/gray-logic-accounts/internal/audit"
	"github.com/nerrad567/gray-logic-accounts/internal/auth"
)

// timingPassword is hashed once at startup so unknown emails cost as much
// to reject as wrong passwords.
const timingPassword = "graylogic-accounts-timing-equaliser"

// Login outcomes recorded for every authentication attempt.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeUnverified         = "unverified"
	OutcomeError              = "error"
)

// Session is the result of a successful authentication.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Account   *auth.Account
}

// Deps holds the collaborators of a Service. Events, Metrics and Audit are
// optional.
type Deps struct {
	Accounts auth.AccountRepository
	Hasher   *auth.PasswordHasher
	Tokens   *auth.TokenService
	Events   EventPublisher
	Metrics  ActivityRecorder
	Audit    Auditor
	Logger   *slog.Logger
	Clock    func() time.Time
}

// Service implements the account use cases on top of the auth core.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	accounts  auth.AccountRepository
	hasher    *auth.PasswordHasher
	tokens    *auth.TokenService
	events    EventPublisher
	metrics   ActivityRecorder
	audit     Auditor
	logger    *slog.Logger
	now       func() time.Time
	dummyHash string
}

// NewService wires a Service. Accounts, Hasher and Tokens are required.
func NewService(deps Deps) (*Service, error) {
	if deps.Accounts == nil || deps.Hasher == nil || deps.Tokens == nil {
		return nil, errors.New("account service requires accounts, hasher and tokens")
	}

	dummy, err := deps.Hasher.Hash(timingPassword)
	if err != nil {
		return nil, fmt.Errorf("preparing timing hash: %w", err)
	}

	s := &Service{
		accounts:  deps.Accounts,
		hasher:    deps.Hasher,
		tokens:    deps.Tokens,
		events:    deps.Events,
		metrics:   deps.Metrics,
		audit:     deps.Audit,
		logger:    deps.Logger,
		now:       deps.Clock,
		dummyHash: dummy,
	}
	if s.events == nil {
		s.events = nopPublisher{}
	}
	if s.metrics == nil {
		s.metrics = nopRecorder{}
	}
	if s.audit == nil {
		s.audit = nopAuditor{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.logger = s.logger.With("component", "accounts")
	return s, nil
}

// Register creates an unverified, non-admin account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*auth.Account, error) {
	in = in.normalised()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	acc := &auth.Account{
		ID:           auth.NewAccountID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		RegisteredAt: s.now(),
	}
	if err := s.accounts.Create(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.Info("account registered", "account_id", acc.ID)
	s.audit.Record(audit.ActionRegister, acc.ID, "", nil)
	s.emit(EventRegistered, acc.ID)
	return acc, nil
}

// Verify marks the account with email as verified. Verifying twice succeeds.
func (s *Service) Verify(ctx context.Context, email string) (*auth.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, auth.FieldError("email", "cannot be blank")
	}

	acc, err := s.accounts.MarkVerified(ctx, email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("account verified", "account_id", acc.ID)
	s.audit.Record(audit.ActionVerify, acc.ID, "", nil)
	s.emit(EventVerified, acc.ID)
	return acc, nil
}

// Authenticate checks credentials and issues a session token.
//
// Unknown email and wrong password both return ErrInvalidCredentials. The
// verification flag is only consulted after the password matches, so an
// unverified account is revealed only to someone who knows its password.
func (s *Service) Authenticate(ctx context.Context, in LoginInput) (*Session, error) {
	in = in.normalised()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	acc, err := s.accounts.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			_, _ = s.hasher.Verify(in.Password, s.dummyHash) //nolint:errcheck // timing only
			s.metrics.WriteLogin("", OutcomeInvalidCredentials)
			return nil, auth.ErrInvalidCredentials
		}
		s.metrics.WriteLogin("", OutcomeError)
		return nil, err
	}

	ok, err := s.hasher.Verify(in.Password, acc.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash is unreadable", "account_id", acc.ID, "error", err)
		s.metrics.WriteLogin(acc.ID, OutcomeError)
		return nil, auth.ErrInvalidCredentials
	}
	if !ok {
		s.metrics.WriteLogin(acc.ID, OutcomeInvalidCredentials)
		return nil, auth.ErrInvalidCredentials
	}
	if !acc.Verified {
		s.metrics.WriteLogin(acc.ID, OutcomeUnverified)
		return nil, auth.ErrNotVerified
	}

	now := s.now().UTC().Truncate(time.Second)
	count, err := s.accounts.RecordLogin(ctx, acc.ID, now)
	if err != nil {
		s.metrics.WriteLogin(acc.ID, OutcomeError)
		return nil, err
	}
	acc.LoginCount = count
	acc.LastLoginAt = &now

	token, expiresAt, err := s.tokens.Issue(acc)
	if err != nil {
		s.metrics.WriteLogin(acc.ID, OutcomeError)
		return nil, err
	}

	s.metrics.WriteLogin(acc.ID, OutcomeSuccess)
	s.audit.Record(audit.ActionLogin, acc.ID, acc.ID, map[string]any{"login_count": count})
	s.emit(EventLogin, acc.ID)
	return &Session{Token: token, ExpiresAt: expiresAt, Account: acc}, nil
}

// Get returns the account with id.
func (s *Service) Get(ctx context.Context, id string) (*auth.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// Update applies a partial profile update made by actorID.
// An update with no fields fails before storage is touched.
func (s *Service) Update(ctx context.Context, actorID, id string, in UpdateInput) (*auth.Account, error) {
	in = in.normalised()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	acc, err := s.accounts.Update(ctx, id, auth.AccountChanges{Name: in.Name, Email: in.Email})
	if err != nil {
		return nil, err
	}

	s.logger.Info("account updated", "account_id", id, "actor", actorID)
	s.audit.Record(audit.ActionUpdate, id, actorID, map[string]any{"fields": in.fields()})
	s.emit(EventUpdated, id)
	return acc, nil
}

// Delete removes the account with id on behalf of actorID.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("account deleted", "account_id", id, "actor", actorID)
	s.audit.Record(audit.ActionDelete, id, actorID, nil)
	s.emit(EventDeleted, id)
	return nil
}

// List returns one filtered page of accounts with the total match count.
func (s *Service) List(ctx context.Context, filter auth.AccountFilter) (*auth.AccountPage, error) {
	return s.accounts.List(ctx, filter)
}

// TopLogins returns the accounts with the most logins, at most three.
func (s *Service) TopLogins(ctx context.Context) ([]auth.Account, error) {
	return s.accounts.TopByLogins(ctx, auth.TopLoginsLimit)
}

// Inactive returns accounts whose last login is older than the named
// window. period must be one of hour, day, week or month.
func (s *Service) Inactive(ctx context.Context, period string) (auth.InactivityWindow, []auth.Account, error) {
	window, err := auth.ParseInactivityWindow(period)
	if err != nil {
		return "", nil, err
	}

	accounts, err := s.accounts.InactiveSince(ctx, window.Cutoff(s.now()))
	if err != nil {
		return "", nil, err
	}
	return window, accounts, nil
}

func (in UpdateInput) fields() []string {
	var fields []string
	if in.Name != nil {
		fields = append(fields, "name")
	}
	if in.Email != nil {
		fields = append(fields, "email")
	}
	return fields
}
