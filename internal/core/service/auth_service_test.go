package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs shared by the service tests
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[string]*domain.User // keyed by ID
	nextID  int
	deleted []string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	clone := cloneUser(user)
	clone.ID = "user_" + strconv.Itoa(r.nextID)
	r.users[clone.ID] = cloneUser(clone)
	return cloneUser(clone), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	for _, u := range r.users {
		if u.GoogleID == googleID {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEntityCode(_ context.Context, entityCode string) (*domain.User, error) {
	for _, u := range r.users {
		if u.EntityCode == entityCode {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type stubMailer struct {
	verifications []string // recipient emails
	resets        []string // codes sent
	confirmations []string
	sendErr       error
}

func (m *stubMailer) SendVerification(_ context.Context, to, token string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.verifications = append(m.verifications, to)
	return nil
}

func (m *stubMailer) SendPasswordReset(_ context.Context, to, code string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.resets = append(m.resets, code)
	return nil
}

func (m *stubMailer) SendChangeConfirmation(_ context.Context, to, change string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.confirmations = append(m.confirmations, to)
	return nil
}

type stubLimiter struct {
	allowed bool
	err     error
	calls   int
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, error) {
	l.calls++
	return l.allowed, l.err
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

const goodPassword = "Passw0rd!"

func newTokens(t *testing.T) *TokenService {
	t.Helper()
	tokens, err := NewTokenService("test-secret", time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return tokens
}

func newAuthSvc(t *testing.T, repo *stubUserRepo, mailer *stubMailer) *AuthService {
	t.Helper()
	return NewAuthService(repo, newTokens(t), mailer, &stubLimiter{allowed: true}, zerolog.Nop())
}

func registerVerified(t *testing.T, svc *AuthService, repo *stubUserRepo, email string) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), email, goodPassword)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	stored := repo.users[user.ID]
	stored.IsEmailVerified = true
	return cloneUser(stored)
}

// ---------------------------------------------------------------------------
// Register / verify
// ---------------------------------------------------------------------------

func TestAuthService_Register_HashesPasswordAndSendsEmail(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{}
	svc := newAuthSvc(t, repo, mailer)

	user, err := svc.Register(context.Background(), "a@x.com", goodPassword)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != domain.RoleGuest {
		t.Errorf("expected guest role, got %s", user.Role)
	}
	if user.IsEmailVerified {
		t.Error("new account must start unverified")
	}
	if user.PasswordHash == goodPassword {
		t.Fatal("password stored in clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(goodPassword)); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if len(mailer.verifications) != 1 || mailer.verifications[0] != "a@x.com" {
		t.Fatalf("expected one verification email, got %v", mailer.verifications)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(t, repo, &stubMailer{})

	if _, err := svc.Register(context.Background(), "a@x.com", goodPassword); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), "a@x.com", goodPassword); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_WeakPasswordRejected(t *testing.T) {
	svc := newAuthSvc(t, newStubUserRepo(), &stubMailer{})

	for _, pw := range []string{"short1!", "alllowercase1!", "ALLUPPERCASE1!", "NoDigits!!", "NoSpecial11"} {
		if _, err := svc.Register(context.Background(), "a@x.com", pw); !errors.Is(err, domain.ErrWeakPassword) {
			t.Errorf("password %q: expected ErrWeakPassword, got %v", pw, err)
		}
	}
}

func TestAuthService_Register_MailFailureRollsBack(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{sendErr: errors.New("smtp down")}
	svc := newAuthSvc(t, repo, mailer)

	if _, err := svc.Register(context.Background(), "a@x.com", goodPassword); err == nil {
		t.Fatal("expected error when verification email fails")
	}
	if len(repo.users) != 0 {
		t.Fatalf("expected credential rollback, %d users remain", len(repo.users))
	}

	// Retry must not hit the duplicate conflict.
	mailer.sendErr = nil
	if _, err := svc.Register(context.Background(), "a@x.com", goodPassword); err != nil {
		t.Fatalf("retry after rollback: %v", err)
	}
}

func TestAuthService_VerifyEmail_RoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(t, repo, &stubMailer{})

	user, err := svc.Register(context.Background(), "a@x.com", goodPassword)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	token, err := svc.tokens.Issue(user.ID, ports.PurposeVerifyEmail, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := svc.VerifyEmail(context.Background(), token); err != nil {
		t.Fatalf("verify email: %v", err)
	}
	if !repo.users[user.ID].IsEmailVerified {
		t.Fatal("expected is_email_verified = true")
	}
}

func TestAuthService_VerifyEmail_RejectsSessionToken(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(t, repo, &stubMailer{})

	user, _ := svc.Register(context.Background(), "a@x.com", goodPassword)
	sessionToken, _ := svc.tokens.Issue(user.ID, ports.PurposeSession, time.Hour)

	if err := svc.VerifyEmail(context.Background(), sessionToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong purpose, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(t, repo, &stubMailer{})
	user := registerVerified(t, svc, repo, "a@x.com")

	result, err := svc.Login(context.Background(), "a@x.com", goodPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected session token")
	}
	if result.RedirectURL != "/welcome" {
		t.Errorf("guest redirect: expected /welcome, got %s", result.RedirectURL)
	}

	// The token must verify back to the same identity.
	id, err := svc.tokens.Verify(result.Token, ports.PurposeSession)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if id != user.ID {
		t.Errorf("token identity: expected %s, got %s", user.ID, id)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(t, repo, &stubMailer{})
	registerVerified(t, svc, repo, "a@x.com")

	if _, err := svc.Login(context.Background(), "a@x.com", "Wr0ngPass!"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailIndistinguishable(t *testing.T) {
	svc := newAuthSvc(t, newStubUserRepo(), &stubMailer{})

	if _, err := svc.Login(context.Background(), "ghost@x.com", goodPassword); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnverifiedRejectedEvenWithCorrectPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(t, repo, &stubMailer{})

	if _, err := svc.Register(context.Background(), "a@x.com", goodPassword); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(context.Background(), "a@x.com", goodPassword); !errors.Is(err, domain.ErrEmailNotVerified) {
		t.Fatalf("expected ErrEmailNotVerified, got %v", err)
	}
}

func TestAuthService_Login_RoleRedirects(t *testing.T) {
	cases := map[string]string{
		domain.RoleAdmin:  "/admin",
		domain.RoleAgent:  "/agent",
		domain.RoleClient: "/client",
	}
	for role, want := range cases {
		repo := newStubUserRepo()
		svc := newAuthSvc(t, repo, &stubMailer{})
		user := registerVerified(t, svc, repo, "a@x.com")
		repo.users[user.ID].Role = role

		result, err := svc.Login(context.Background(), "a@x.com", goodPassword)
		if err != nil {
			t.Fatalf("login as %s: %v", role, err)
		}
		if result.RedirectURL != want {
			t.Errorf("role %s: expected redirect %s, got %s", role, want, result.RedirectURL)
		}
	}
}

// ---------------------------------------------------------------------------
// Password reset flow
// ---------------------------------------------------------------------------

func TestAuthService_ResetFlow_EndToEnd(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{}
	svc := newAuthSvc(t, repo, mailer)
	registerVerified(t, svc, repo, "a@x.com")

	if err := svc.RequestPasswordReset(context.Background(), "a@x.com"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if len(mailer.resets) != 1 {
		t.Fatalf("expected one reset email, got %d", len(mailer.resets))
	}
	code := mailer.resets[0]

	if err := svc.VerifyResetCode(context.Background(), "a@x.com", code); err != nil {
		t.Fatalf("verify code: %v", err)
	}

	const newPassword = "N3wPassw0rd!"
	if err := svc.UpdatePassword(context.Background(), "a@x.com", code, newPassword); err != nil {
		t.Fatalf("update password: %v", err)
	}

	// Old password no longer authenticates; new one does.
	if _, err := svc.Login(context.Background(), "a@x.com", goodPassword); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, err := svc.Login(context.Background(), "a@x.com", newPassword); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}

	// The consumed code cannot be replayed.
	if err := svc.UpdatePassword(context.Background(), "a@x.com", code, "An0therPass!"); !errors.Is(err, domain.ErrInvalidResetCode) {
		t.Fatalf("expected ErrInvalidResetCode on replay, got %v", err)
	}
}

func TestAuthService_RequestReset_UnknownEmailIsSilent(t *testing.T) {
	mailer := &stubMailer{}
	svc := newAuthSvc(t, newStubUserRepo(), mailer)

	if err := svc.RequestPasswordReset(context.Background(), "ghost@x.com"); err != nil {
		t.Fatalf("expected generic success for unknown email, got %v", err)
	}
	if len(mailer.resets) != 0 {
		t.Fatal("no email must be sent for unknown accounts")
	}
}

func TestAuthService_VerifyResetCode_WrongCode(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{}
	svc := newAuthSvc(t, repo, mailer)
	registerVerified(t, svc, repo, "a@x.com")

	if err := svc.RequestPasswordReset(context.Background(), "a@x.com"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if err := svc.VerifyResetCode(context.Background(), "a@x.com", "WRONG123"); !errors.Is(err, domain.ErrInvalidResetCode) {
		t.Fatalf("expected ErrInvalidResetCode, got %v", err)
	}
}

func TestAuthService_VerifyResetCode_Expired(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{}
	svc := newAuthSvc(t, repo, mailer)
	registerVerified(t, svc, repo, "a@x.com")

	if err := svc.RequestPasswordReset(context.Background(), "a@x.com"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	code := mailer.resets[0]

	// Jump past the 10-minute expiry.
	svc.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	if err := svc.VerifyResetCode(context.Background(), "a@x.com", code); !errors.Is(err, domain.ErrInvalidResetCode) {
		t.Fatalf("expected ErrInvalidResetCode after expiry, got %v", err)
	}
}

func TestAuthService_UpdatePassword_EnforcesPolicy(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{}
	svc := newAuthSvc(t, repo, mailer)
	registerVerified(t, svc, repo, "a@x.com")

	_ = svc.RequestPasswordReset(context.Background(), "a@x.com")
	code := mailer.resets[0]

	if err := svc.UpdatePassword(context.Background(), "a@x.com", code, "weak"); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestAuthService_ResetFlow_RateLimited(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{allowed: false}
	svc := NewAuthService(repo, newTokens(t), &stubMailer{}, limiter, zerolog.Nop())

	if err := svc.RequestPasswordReset(context.Background(), "a@x.com"); !errors.Is(err, domain.ErrTooManyRequests) {
		t.Fatalf("expected ErrTooManyRequests, got %v", err)
	}
	if err := svc.VerifyResetCode(context.Background(), "a@x.com", "ANYCODE1"); !errors.Is(err, domain.ErrTooManyRequests) {
		t.Fatalf("expected ErrTooManyRequests, got %v", err)
	}
	if limiter.calls != 2 {
		t.Fatalf("expected 2 limiter calls, got %d", limiter.calls)
	}
}

func TestAuthService_UpdatePassword_SpendsResetBudget(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{}
	limiter := &stubLimiter{allowed: true}
	svc := NewAuthService(repo, newTokens(t), mailer, limiter, zerolog.Nop())
	registerVerified(t, svc, repo, "a@x.com")

	if err := svc.RequestPasswordReset(context.Background(), "a@x.com"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	code := mailer.resets[0]

	// Budget exhausted: even the correct code must be refused, so an
	// attacker cannot shift the guessing to this operation.
	limiter.allowed = false
	if err := svc.UpdatePassword(context.Background(), "a@x.com", "WRONGCO1", goodPassword); !errors.Is(err, domain.ErrTooManyRequests) {
		t.Fatalf("expected ErrTooManyRequests, got %v", err)
	}
	if err := svc.UpdatePassword(context.Background(), "a@x.com", code, goodPassword); !errors.Is(err, domain.ErrTooManyRequests) {
		t.Fatalf("expected ErrTooManyRequests, got %v", err)
	}

	limiter.allowed = true
	if err := svc.UpdatePassword(context.Background(), "a@x.com", code, goodPassword); err != nil {
		t.Fatalf("update password within budget: %v", err)
	}
}

func TestAuthService_ResetFlow_LimiterFailureAllows(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{}
	limiter := &stubLimiter{err: errors.New("redis timeout")}
	svc := NewAuthService(repo, newTokens(t), mailer, limiter, zerolog.Nop())
	registerVerified(t, svc, repo, "a@x.com")

	if err := svc.RequestPasswordReset(context.Background(), "a@x.com"); err != nil {
		t.Fatalf("limiter outage must not block resets: %v", err)
	}
	if len(mailer.resets) != 1 {
		t.Fatal("expected reset email despite limiter outage")
	}
}
