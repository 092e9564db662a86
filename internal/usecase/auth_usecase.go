package usecase

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/repo/persistent"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/jwt"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Device   string `json:"-"`
	IP       string `json:"-"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Device   string `json:"-"`
	IP       string `json:"-"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// Principal is the resolved owner of a bearer token.
type Principal struct {
	User    *entity.User
	Session *entity.Session
}

type AuthUseCase interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Authenticate(ctx context.Context, token string) (*Principal, error)
	Me(ctx context.Context, userID string) (*entity.User, error)
	Logout(ctx context.Context, userID, sessionID string) error
	LogoutAll(ctx context.Context, userID string) error
	ListSessions(ctx context.Context, userID, currentSessionID string) ([]*entity.Session, error)
	RevokeSession(ctx context.Context, userID, sessionID string) error
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	jwtService *jwt.Service
	validator  *validation.Validator
	bcryptCost int
	logger     *logger.Logger
	now        func() time.Time
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	jwtService *jwt.Service,
	validator *validation.Validator,
	bcryptCost int,
	logger *logger.Logger,
) AuthUseCase {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authUseCase{
		userRepo:   userRepo,
		jwtService: jwtService,
		validator:  validator,
		bcryptCost: bcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (uc *authUseCase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.bcryptCost)
	if err != nil {
		return nil, apperror.Internal("failed to process registration", err)
	}

	user := &entity.User{
		Name:      in.Name,
		Email:     in.Email,
		Password:  string(hashedPassword),
		Role:      entity.RoleUser,
		Interests: []string{},
		Privacy:   entity.DefaultPrivacy(),
		Badges:    []string{},
		Level:     1,
		IsActive:  true,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("User registered: %s", user.ID)
	return uc.openSession(ctx, user, in.Device, in.IP)
}

func (uc *authUseCase) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	if !user.IsActive {
		return nil, apperror.Forbidden("account is deactivated")
	}

	return uc.openSession(ctx, user, in.Device, in.IP)
}

// openSession issues a token whose jti is a fresh session id and records the
// session with the hash of that token.
func (uc *authUseCase) openSession(ctx context.Context, user *entity.User, device, ip string) (*AuthResult, error) {
	now := uc.now()
	sessionID := uuid.New().String()

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role), sessionID)
	if err != nil {
		return nil, apperror.Internal("failed to generate token", err)
	}

	session := &entity.Session{
		ID:         sessionID,
		UserID:     user.ID,
		TokenHash:  hashToken(token),
		Device:     truncate(device, 255),
		IP:         truncate(ip, 64),
		CreatedAt:  now,
		LastUsedAt: now,
		ExpiresAt:  now.Add(uc.jwtService.Expiration()),
	}
	if err := uc.userRepo.RecordLogin(ctx, session, now); err != nil {
		return nil, err
	}

	user.LastLogin = &now
	return &AuthResult{Token: token, User: user}, nil
}

func (uc *authUseCase) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, apperror.Unauthorized("authorization token required")
	}

	claims, err := uc.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperror.Unauthorized("invalid or expired token")
	}

	session, err := uc.userRepo.GetSession(ctx, claims.SessionID())
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.Unauthorized("session has been revoked")
		}
		return nil, err
	}
	if session.UserID != claims.UserID ||
		subtle.ConstantTimeCompare([]byte(session.TokenHash), []byte(hashToken(token))) != 1 {
		return nil, apperror.Unauthorized("invalid or expired token")
	}
	now := uc.now()
	if now.After(session.ExpiresAt) {
		return nil, apperror.Unauthorized("session has expired")
	}

	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.Unauthorized("user no longer exists")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.Unauthorized("account is deactivated")
	}

	if err := uc.userRepo.TouchSession(ctx, session.ID, now); err != nil {
		uc.logger.Warn("Failed to refresh session %s: %v", session.ID, err)
	}
	session.LastUsedAt = now

	return &Principal{User: user, Session: session}, nil
}

func (uc *authUseCase) Me(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *authUseCase) Logout(ctx context.Context, userID, sessionID string) error {
	if _, err := uc.userRepo.DeleteSession(ctx, userID, sessionID); err != nil {
		return err
	}
	return nil
}

func (uc *authUseCase) LogoutAll(ctx context.Context, userID string) error {
	removed, err := uc.userRepo.DeleteSessions(ctx, userID, "")
	if err != nil {
		return err
	}
	uc.logger.Info("Revoked %d sessions of user %s", removed, userID)
	return nil
}

func (uc *authUseCase) ListSessions(ctx context.Context, userID, currentSessionID string) ([]*entity.Session, error) {
	sessions, err := uc.userRepo.ListSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, session := range sessions {
		session.Current = session.ID == currentSessionID
	}
	return sessions, nil
}

func (uc *authUseCase) RevokeSession(ctx context.Context, userID, sessionID string) error {
	deleted, err := uc.userRepo.DeleteSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("session")
	}
	return nil
}

func (uc *authUseCase) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return uc.userRepo.DeleteExpiredSessions(ctx, uc.now())
}

// truncate caps s at max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
