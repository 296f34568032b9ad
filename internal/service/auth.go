package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/stores_api/internal/hash"
	"github.com/Skotchmaster/stores_api/internal/logging"
	"github.com/Skotchmaster/stores_api/internal/models"
	"github.com/Skotchmaster/stores_api/internal/mykafka"
	"github.com/Skotchmaster/stores_api/internal/repo"
	"github.com/Skotchmaster/stores_api/internal/revocation"
	"github.com/Skotchmaster/stores_api/internal/tokens"
)

type AuthService struct {
	Repo     *repo.GormRepo
	Hasher   *hash.Hasher
	Issuer   *tokens.Issuer
	Registry revocation.Registry
	Events   mykafka.Publisher

	// dummyHash is compared against when the user does not exist so that a
	// failed login costs the same whether or not the username is known.
	dummyHash string
}

type LoginResult struct {
	UserID       uint
	AccessToken  tokens.Token
	RefreshToken tokens.Token
}

func NewAuthService(r *repo.GormRepo, h *hash.Hasher, iss *tokens.Issuer, reg revocation.Registry, events mykafka.Publisher) (*AuthService, error) {
	dummy, err := h.Hash("dummy-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	if events == nil {
		events = mykafka.Nop{}
	}
	return &AuthService{
		Repo:      r,
		Hasher:    h,
		Issuer:    iss,
		Registry:  reg,
		Events:    events,
		dummyHash: dummy,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, username, password string) (uint, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", username)

	if strings.TrimSpace(username) == "" || password == "" {
		return 0, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	pwHash, err := s.Hasher.Hash(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return 0, err
	}

	user := models.User{Username: username, PasswordHash: pwHash, Role: models.RoleUser}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return 0, mapRepoErr(err)
		}
		l.Error("register_error", "status", 500, "error", err)
		return 0, err
	}

	s.publish(ctx, mykafka.EventUserRegistered, user.ID, username)
	l.Info("user_registered", "user_id", user.ID)
	return user.ID, nil
}

// VerifyCredentials returns the id of the user owning username when password
// matches. Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) VerifyCredentials(ctx context.Context, username, password string) (uint, error) {
	if username == "" || password == "" {
		return 0, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if s.dummyHash != "" {
			s.Hasher.Verify(s.dummyHash, password)
		}
		return 0, ErrInvalidCredentials
	}
	if err != nil {
		return 0, fmt.Errorf("load user: %w", err)
	}

	if !s.Hasher.Verify(user.PasswordHash, password) {
		return 0, ErrInvalidCredentials
	}
	return user.ID, nil
}

// Login issues a fresh access token and a refresh token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	userID, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrValidation) {
			l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
		} else {
			l.Error("login_failed", "status", 500, "error", err)
		}
		return nil, err
	}

	sub := strconv.FormatUint(uint64(userID), 10)
	access, err := s.Issuer.IssueAccess(ctx, sub, true)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	refresh, err := s.Issuer.IssueRefresh(ctx, sub)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, mykafka.EventUserLoggedIn, userID, username)
	return &LoginResult{UserID: userID, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh mints a non-fresh access token for the subject of a verified
// refresh token. The refresh token itself stays valid.
func (s *AuthService) Refresh(ctx context.Context, refresh *tokens.Claims) (tokens.Token, error) {
	if refresh == nil || refresh.Type != tokens.TypeRefresh {
		return tokens.Token{}, fmt.Errorf("%w: refresh token required", ErrValidation)
	}

	access, err := s.Issuer.IssueAccess(ctx, refresh.Subject, false)
	if err != nil {
		logging.FromContext(ctx).Error("refresh_failed", "svc", "auth.refresh", "status", 500, "error", err)
		return tokens.Token{}, err
	}

	s.publishSubject(ctx, mykafka.EventTokenRefreshed, refresh.Subject, "")
	return access, nil
}

// Logout revokes the presented access token. Its refresh token stays valid.
func (s *AuthService) Logout(ctx context.Context, access *tokens.Claims) error {
	if err := s.revoke(ctx, access); err != nil {
		return err
	}
	s.publishSubject(ctx, mykafka.EventUserLoggedOut, access.Subject, "")
	return nil
}

func (s *AuthService) LogoutRefresh(ctx context.Context, refresh *tokens.Claims) error {
	return s.revoke(ctx, refresh)
}

func (s *AuthService) revoke(ctx context.Context, c *tokens.Claims) error {
	if c == nil || c.ID == "" {
		return fmt.Errorf("%w: token without jti", ErrValidation)
	}
	if err := s.Registry.Revoke(ctx, c.ID, c.Expiry()); err != nil {
		logging.FromContext(ctx).Error("revoke_failed", "svc", "auth.revoke", "status", 500, "error", err)
		return err
	}
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, subject, oldPassword, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.change_password", "user_id", subject)

	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: old and new password are required", ErrValidation)
	}
	id, err := parseSubject(subject)
	if err != nil {
		return err
	}

	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}
	if !s.Hasher.Verify(user.PasswordHash, oldPassword) {
		l.Warn("change_password_failed", "status", 401, "reason", "wrong password")
		return ErrInvalidCredentials
	}

	pwHash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePasswordHash(ctx, id, pwHash); err != nil {
		return mapRepoErr(err)
	}
	l.Info("password_changed")
	return nil
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return user, nil
}

func (s *AuthService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		return mapRepoErr(err)
	}
	s.publish(ctx, mykafka.EventUserDeleted, id, "")
	return nil
}

func (s *AuthService) publish(ctx context.Context, typ string, userID uint, username string) {
	s.publishSubject(ctx, typ, strconv.FormatUint(uint64(userID), 10), username)
}

func (s *AuthService) publishSubject(ctx context.Context, typ, subject, username string) {
	if err := s.Events.PublishEvent(ctx, subject, mykafka.NewUserEvent(typ, subject, username)); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "event", typ, "error", err)
	}
}

func parseSubject(subject string) (uint, error) {
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrValidation, subject)
	}
	return uint(id), nil
}
