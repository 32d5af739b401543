package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"time"

	pkg_hash "github.com/Skotchmaster/blog/pkg/hash"
	"github.com/Skotchmaster/blog/pkg/events"
	"github.com/Skotchmaster/blog/pkg/logging"
	"github.com/Skotchmaster/blog/pkg/tokens"
	"github.com/Skotchmaster/blog/services/user/internal/models"
	"github.com/Skotchmaster/blog/services/user/internal/repo"
)

var (
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrDuplicateEmail     = errors.New("a user with this email already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternal           = errors.New("internal error")
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

func IsValidEmail(email string) bool {
	return email != "" && emailPattern.MatchString(email)
}

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
}

// TokenLedger is the write side of the token ledger.
type TokenLedger interface {
	Append(ctx context.Context, userID uint64, token string, expiresAt time.Time) (uint64, error)
	RevokeAllForUser(ctx context.Context, userID uint64) (int64, error)
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

type AuthService struct {
	Users  UserStore
	Ledger TokenLedger
	Codec  *tokens.Codec
	Events events.Publisher
	Now    func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Register is not atomic: a user row can outlive a failure while issuing its tokens.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "email", in.Email)

	if !IsValidEmail(in.Email) {
		l.Warn("register_failed", "status", 400, "reason", "invalid_email")
		return nil, ErrInvalidEmail
	}

	if _, err := s.Users.FindByEmail(ctx, in.Email); err == nil {
		l.Warn("register_failed", "status", 400, "reason", "user_exists")
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repo.ErrUserNotFound) {
		l.Error("register_failed", "status", 500, "reason", "db_error", "error", err)
		return nil, ErrInternal
	}

	role, ok := models.ParseRole(in.Role)
	if !ok {
		l.Warn("register_failed", "status", 400, "reason", "invalid_role", "role", in.Role)
		return nil, ErrInvalidRole
	}

	pwHash, err := pkg_hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, ErrInternal
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_failed", "status", 400, "reason", "user_exists")
			return nil, ErrDuplicateEmail
		}
		l.Error("register_failed", "status", 500, "reason", "db_error", "error", err)
		return nil, ErrInternal
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "token_issue", "user_id", user.ID, "error", err)
		return nil, ErrInternal
	}

	events.Emit(ctx, s.Events, l, events.TopicUsers, userKey(user), events.Event{
		"type":     "user_registered",
		"userId":   user.ID,
		"email":    user.Email,
		"username": user.Username,
		"role":     user.Role,
	})

	l.Info("register_success", "status", 201, "user_id", user.ID)
	return pair, nil
}

// Authenticate keeps one live session per user: every earlier access token is revoked first.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.authenticate", "email", email)

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("authenticate_failed", "status", 404, "reason", "user_not_found")
			return nil, ErrUserNotFound
		}
		l.Error("authenticate_failed", "status", 500, "reason", "db_error", "error", err)
		return nil, ErrInternal
	}

	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("authenticate_failed", "status", 401, "reason", "bad_credentials")
		return nil, ErrInvalidCredentials
	}

	if _, err := s.Ledger.RevokeAllForUser(ctx, user.ID); err != nil {
		l.Error("authenticate_failed", "status", 500, "reason", "revoke", "error", err)
		return nil, ErrInternal
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		l.Error("authenticate_failed", "status", 500, "reason", "token_issue", "error", err)
		return nil, ErrInternal
	}

	events.Emit(ctx, s.Events, l, events.TopicUsers, userKey(user), events.Event{
		"type":   "user_authenticated",
		"userId": user.ID,
		"email":  user.Email,
	})

	l.Info("authenticate_success", "status", 200, "user_id", user.ID)
	return pair, nil
}

// Refresh exchanges a refresh token from an Authorization header for a new access token.
// A missing header, an undecodable token or a token that fails validation yields (nil, nil).
// A well-formed token naming an unknown user is an error.
func (s *AuthService) Refresh(ctx context.Context, authHeader string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	refreshToken, ok := tokens.FromBearer(authHeader)
	if !ok {
		l.Warn("refresh_skipped", "reason", "no_bearer")
		return nil, nil
	}

	claims, err := s.Codec.Decode(refreshToken)
	if err != nil {
		l.Warn("refresh_skipped", "reason", "no_subject", "error", err)
		return nil, nil
	}
	l = l.With("email", claims.Subject)

	user, err := s.Users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Error("refresh_failed", "reason", "user_not_found")
			return nil, ErrUserNotFound
		}
		l.Error("refresh_failed", "reason", "db_error", "error", err)
		return nil, ErrInternal
	}

	now := s.now()
	if claims.Kind != tokens.KindRefresh || claims.Subject != user.Email || claims.ExpiredAt(now) {
		l.Warn("refresh_skipped", "reason", "invalid_refresh_token", "kind", claims.Kind)
		return nil, nil
	}

	if _, err := s.Ledger.RevokeAllForUser(ctx, user.ID); err != nil {
		l.Error("refresh_failed", "reason", "revoke", "error", err)
		return nil, ErrInternal
	}

	access, err := s.issueAccess(ctx, user, now)
	if err != nil {
		l.Error("refresh_failed", "reason", "token_issue", "error", err)
		return nil, ErrInternal
	}

	events.Emit(ctx, s.Events, l, events.TopicUsers, userKey(user), events.Event{
		"type":   "token_refreshed",
		"userId": user.ID,
		"email":  user.Email,
	})

	l.Info("token_refreshed", "user_id", user.ID)
	return &TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*TokenPair, error) {
	now := s.now()

	access, err := s.issueAccess(ctx, user, now)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Codec.Encode(identity(user), tokens.KindRefresh, now)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// issueAccess mints an access token and records it in the ledger. Refresh tokens are never ledgered.
func (s *AuthService) issueAccess(ctx context.Context, user *models.User, now time.Time) (string, error) {
	access, err := s.Codec.Encode(identity(user), tokens.KindAccess, now)
	if err != nil {
		return "", err
	}
	if _, err := s.Ledger.Append(ctx, user.ID, access, now.Add(s.Codec.TTL(tokens.KindAccess))); err != nil {
		return "", err
	}
	return access, nil
}

func identity(u *models.User) tokens.Identity {
	return tokens.Identity{Subject: u.Email, Role: string(u.Role)}
}

func userKey(u *models.User) string {
	return strconv.FormatUint(u.ID, 10)
}
