package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/love-prep/backend/internal/database"
	"github.com/love-prep/backend/internal/mailer"
	"github.com/love-prep/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserBlocked        = errors.New("account is blocked")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrInvalidResetToken  = errors.New("reset link is invalid or has expired")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already registered")
)

const resetBody = `Hello %s,

Open the link below to choose a new password:

%s

The link is valid for %s. If you did not ask for a reset, ignore this message.
`

type Service struct {
	db           *sql.DB
	store        *Store
	tokens       *Tokens
	mail         mailer.Sender
	resetTTL     time.Duration
	resetURLBase string
	cost         int
	log          *zap.Logger
	now          func() time.Time
}

func NewService(db *sql.DB, store *Store, tokens *Tokens, mail mailer.Sender, resetTTL time.Duration, resetURLBase string, log *zap.Logger) *Service {
	return &Service{
		db:           db,
		store:        store,
		tokens:       tokens,
		mail:         mail,
		resetTTL:     resetTTL,
		resetURLBase: resetURLBase,
		cost:         bcrypt.DefaultCost,
		log:          log,
		now:          time.Now,
	}
}

func (s *Service) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (s *Service) respond(u *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: *u}, nil
}

func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.store.Create(ctx, username, normalizeEmail(req.Email), hash)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			if strings.Contains(database.ConstraintName(err), "username") {
				return nil, ErrUsernameTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.log.Info("user registered", zap.Int64("user_id", u.ID), zap.String("role", string(u.Role)))
	return s.respond(u)
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	u, err := s.store.ByLogin(ctx, strings.TrimSpace(req.Login))
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		s.log.Warn("failed login", zap.Int64("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}
	if u.Status == models.StatusBlocked {
		return nil, ErrUserBlocked
	}
	return s.respond(u)
}

func (s *Service) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.store.ByID(ctx, userID)
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, req models.ChangePasswordRequest) error {
	u, err := s.store.ByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}
	if err := ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	hash, err := s.hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	s.log.Info("password changed", zap.Int64("user_id", userID))
	return nil
}

// Forgot creates and mails a reset token when the email belongs to a user.
// Unknown emails succeed silently so callers cannot probe for accounts.
func (s *Service) Forgot(ctx context.Context, email string) error {
	u, err := s.store.ByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, database.ErrNotFound) {
		s.log.Info("password reset for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	token := uuid.New()
	if err := s.store.CreateResetToken(ctx, token, u.ID, s.now().Add(s.resetTTL)); err != nil {
		return err
	}

	link := s.resetURLBase + "?token=" + token.String()
	body := fmt.Sprintf(resetBody, u.Username, link, s.resetTTL)
	if err := s.mail.Send(ctx, mailer.Message{To: u.Email, Subject: "LOVe password reset", Body: body}); err != nil {
		return err
	}
	s.log.Info("password reset requested", zap.Int64("user_id", u.ID))
	return nil
}

// Reset consumes the token and sets the new password in one transaction.
func (s *Service) Reset(ctx context.Context, req models.ResetPasswordRequest) error {
	token, err := uuid.Parse(req.Token)
	if err != nil {
		return ErrInvalidResetToken
	}
	if err := ValidatePassword(req.NewPassword); err != nil {
		return err
	}
	hash, err := s.hash(req.NewPassword)
	if err != nil {
		return err
	}

	return database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		store := s.store.WithDB(tx)
		userID, err := store.ConsumeResetToken(ctx, token, s.now())
		if errors.Is(err, database.ErrNotFound) {
			return ErrInvalidResetToken
		}
		if err != nil {
			return err
		}
		if err := store.UpdatePassword(ctx, userID, hash); err != nil {
			return err
		}
		s.log.Info("password reset", zap.Int64("user_id", userID))
		return nil
	})
}
