package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"printcalc/internal/apperrors"
	"printcalc/internal/models"
	"printcalc/internal/redis"
	"printcalc/internal/repository"
)

// Claims are carried by the access token. ID (jti) is the session id.
type Claims struct {
	EmployeeID uint        `json:"employee_id"`
	Username   string      `json:"username"`
	Role       models.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) SessionID() string { return c.ID }

type LoginResult struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Employee  *models.Employee `json:"employee"`
}

type AuthService interface {
	// Authenticate checks credentials and records the login. Every failure is
	// apperrors.ErrInvalidCredentials.
	Authenticate(ctx context.Context, username, password string) (*models.Employee, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	ParseToken(ctx context.Context, token string) (*Claims, error)
}

type authService struct {
	employeeRepo repository.EmployeeRepository
	sessions     SessionRegistry
	secret       []byte
	ttl          time.Duration
	log          *zap.Logger

	attempts  int
	mu        sync.Mutex
	limiters  map[string]*loginLimiter
	overflow  *rate.Limiter
	lastSweep time.Time

	now func() time.Time
}

func NewAuthService(
	employeeRepo repository.EmployeeRepository,
	sessions SessionRegistry,
	secret string,
	ttl time.Duration,
	attemptsPerMinute int,
	log *zap.Logger,
) AuthService {
	if attemptsPerMinute <= 0 {
		attemptsPerMinute = 5
	}
	return &authService{
		employeeRepo: employeeRepo,
		sessions:     sessions,
		secret:       []byte(secret),
		ttl:          ttl,
		log:          log,
		attempts:     attemptsPerMinute,
		limiters:     make(map[string]*loginLimiter),
		overflow:     newLoginRateLimiter(attemptsPerMinute),
		now:          time.Now,
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// burnCompare spends the same time as a real password check so unknown
// usernames are not distinguishable by latency.
func burnCompare(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("printcalc-dummy"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

const (
	// maxTrackedLogins caps the per-username limiters; beyond it new usernames
	// share the overflow limiter until the next sweep.
	maxTrackedLogins = 10000
	// limiterIdle is how long a limiter takes to refill completely. Idle
	// limiters are indistinguishable from fresh ones and can be dropped.
	limiterIdle = time.Minute
)

type loginLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLoginRateLimiter(attempts int) *rate.Limiter {
	return rate.NewLimiter(rate.Every(limiterIdle/time.Duration(attempts)), attempts)
}

func (s *authService) limiter(username string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) >= limiterIdle {
		for name, entry := range s.limiters {
			if now.Sub(entry.lastSeen) >= limiterIdle {
				delete(s.limiters, name)
			}
		}
		s.lastSweep = now
	}

	if entry, ok := s.limiters[username]; ok {
		entry.lastSeen = now
		return entry.limiter
	}
	if len(s.limiters) >= maxTrackedLogins {
		return s.overflow
	}
	l := newLoginRateLimiter(s.attempts)
	s.limiters[username] = &loginLimiter{limiter: l, lastSeen: now}
	return l
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (*models.Employee, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	employee, err := s.employeeRepo.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			burnCompare(password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !employee.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.employeeRepo.RecordLogin(ctx, employee.ID, now); err != nil {
		return nil, err
	}
	employee.LastLogin = &now
	employee.LoginCount++
	return employee, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = normalizeUsername(username)
	now := s.now()
	if !s.limiter(username, now).AllowN(now, 1) {
		return nil, apperrors.RateLimited("too many login attempts, try again later")
	}

	employee, err := s.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			s.log.Info("login failed", zap.String("username", username))
		}
		return nil, err
	}

	now = s.now()
	sessionID := uuid.NewString()
	if err := s.sessions.SetSession(ctx, sessionID, &redis.SessionData{
		EmployeeID: employee.ID,
		Username:   employee.Username,
		Role:       string(employee.Role),
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		return nil, apperrors.Internal("failed to create session", err)
	}

	expiresAt := now.Add(s.ttl)
	claims := &Claims{
		EmployeeID: employee.ID,
		Username:   employee.Username,
		Role:       employee.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   fmt.Sprint(employee.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.log.Info("login", zap.Uint("employee_id", employee.ID), zap.String("role", string(employee.Role)))
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Employee: employee}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		return apperrors.Internal("failed to end session", err)
	}
	return nil
}

func (s *authService) ParseToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || claims.ID == "" {
		return nil, apperrors.Unauthenticated("invalid or expired token")
	}

	session, err := s.sessions.GetSession(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return nil, apperrors.Unauthenticated("session has ended")
		}
		return nil, apperrors.Internal("failed to load session", err)
	}
	if session.EmployeeID != claims.EmployeeID {
		return nil, apperrors.Unauthenticated("invalid or expired token")
	}
	return claims, nil
}
