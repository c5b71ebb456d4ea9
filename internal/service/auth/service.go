// Package auth registers storefront accounts, signs sessions in and out,
// and streams auth state changes per session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Service handles account signup, login and profile flows.
type Service struct {
	repo        userrepo.Repository
	tokens      *tokenManager
	hub         *Hub
	logger      *zap.Logger
	tokenTTL    time.Duration
	passwordMin int
}

func New(repo userrepo.Repository, tokens tokenrepo.Repository, hub *Hub, tokenTTL time.Duration, logger *zap.Logger) *Service {
	if hub == nil {
		hub = NewHub()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokenTTL <= 0 {
		tokenTTL = 48 * time.Hour
	}
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		hub:         hub,
		logger:      logger,
		tokenTTL:    tokenTTL,
		passwordMin: 6,
	}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Session is a signed-in user with its bearer token.
type Session struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates the account and signs the session in.
func (s *Service) Register(ctx context.Context, sessionID string, in RegisterInput) (*Session, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("email_invalid", "A valid email is required")
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hashed),
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		Role:         domain.RoleUser,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.NewValidationError("email_taken", "An account with this email already exists")
		}
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", u.ID))
	return s.signIn(ctx, sessionID, u)
}

// Login validates credentials and signs the session in.
func (s *Service) Login(ctx context.Context, sessionID, email, password string) (*Session, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.signIn(ctx, sessionID, u)
}

func (s *Service) signIn(ctx context.Context, sessionID string, u *domain.User) (*Session, error) {
	token, err := s.tokens.Issue(ctx, u.ID, sessionID, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	s.hub.Publish(sessionID, SignedIn(u.Profile()))
	return &Session{User: u, Token: token}, nil
}

// Logout revokes token and signs its session out.
func (s *Service) Logout(ctx context.Context, token string) error {
	meta, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return err
	}
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return err
	}
	s.hub.Publish(meta.SessionID, SignedOut())
	return nil
}

// LookupByToken returns the user bound to a valid token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	meta, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, meta.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, &domain.RemoteError{Op: "load user", Err: err}
	}
	return u, nil
}

// Profile fetches the current profile of a user.
func (s *Service) Profile(ctx context.Context, userID string) (*domain.Profile, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := u.Profile()
	return &p, nil
}

// UpdateProfile stores the editable profile fields and notifies watchers of
// the given session.
func (s *Service) UpdateProfile(ctx context.Context, sessionID, userID string, p domain.Profile) (*domain.Profile, error) {
	u, err := s.repo.UpdateProfile(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	out := u.Profile()
	s.hub.Publish(sessionID, SignedIn(out))
	return &out, nil
}

// Watch streams auth state for sessionID, starting with the state implied by token.
func (s *Service) Watch(ctx context.Context, sessionID, token string) <-chan State {
	initial := SignedOut()
	if token != "" {
		if u, err := s.LookupByToken(ctx, token); err == nil {
			initial = SignedIn(u.Profile())
		}
	}
	return s.hub.Watch(ctx, sessionID, initial)
}

// TokenTTLSeconds exposes the token lifetime in seconds.
func (s *Service) TokenTTLSeconds() int {
	return int(s.tokenTTL.Seconds())
}

func validatePassword(p string, min int) error {
	if len(strings.TrimSpace(p)) < min {
		return domain.NewValidationError("weak_password", fmt.Sprintf("Password must be at least %d characters", min))
	}
	return nil
}
