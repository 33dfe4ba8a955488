package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"quizboard/internal/notify"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidName        = errors.New("username must be at least 3 characters long")
	ErrSettingsNotFound   = errors.New("settings not found")
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Settings are per-user preferences. The zero value is not the default; use
// DefaultSettings.
type Settings struct {
	Notifications bool `json:"notifications"`
	TimerVisible  bool `json:"timerVisible"`
	Sound         bool `json:"sound"`
}

func DefaultSettings() Settings {
	return Settings{
		Notifications: true,
		TimerVisible:  true,
		Sound:         true,
	}
}

type UserStore interface {
	// CreateUser returns ErrEmailTaken when the email is already registered.
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateUserName(ctx context.Context, id, name string) error
}

type SettingsStore interface {
	// ReadSettings returns ErrSettingsNotFound when nothing was saved yet.
	ReadSettings(ctx context.Context, userID string) (Settings, error)
	WriteSettings(ctx context.Context, userID string, settings Settings) error
}

// Notifier receives the welcome message posted after signup.
type Notifier interface {
	Add(ctx context.Context, userID string, kind notify.Kind, message string) (notify.Notification, error)
}

type Service struct {
	users    UserStore
	settings SettingsStore
	notifier Notifier
	now      func() time.Time
	logger   *zap.Logger
	cost     int
}

type Option func(*Service)

func WithNotifier(notifier Notifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBcryptCost overrides the hashing cost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.cost = cost
	}
}

func NewService(users UserStore, settings SettingsStore, opts ...Option) *Service {
	s := &Service{
		users:    users,
		settings: settings,
		now:      time.Now,
		logger:   zap.NewNop(),
		cost:     bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (User, error) {
	if errs := ValidateSignup(req); errs != nil {
		return User{}, errs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return User{}, err
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID))

	if s.notifier != nil {
		message := fmt.Sprintf("Welcome, %s! Take your first quiz to start a streak.", user.Name)
		if _, err := s.notifier.Add(ctx, user.ID, notify.KindSystem, message); err != nil {
			s.logger.Warn("welcome notification failed", zap.String("user_id", user.ID), zap.Error(err))
		}
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	user, err := s.users.GetUser(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, err
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *Service) Rename(ctx context.Context, id, name string) (User, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) <= 2 {
		return User{}, ErrInvalidName
	}

	if err := s.users.UpdateUserName(ctx, id, name); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, err
		}
		return User{}, fmt.Errorf("rename user: %w", err)
	}
	return s.GetUser(ctx, id)
}

// GetSettings falls back to DefaultSettings for users who never saved any.
func (s *Service) GetSettings(ctx context.Context, userID string) (Settings, error) {
	settings, err := s.settings.ReadSettings(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	return settings, nil
}

func (s *Service) UpdateSettings(ctx context.Context, userID string, settings Settings) (Settings, error) {
	if err := s.settings.WriteSettings(ctx, userID, settings); err != nil {
		return Settings{}, fmt.Errorf("write settings: %w", err)
	}
	return settings, nil
}
