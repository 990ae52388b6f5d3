package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/course-registration/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoActiveSession    = errors.New("no active session")
	ErrSessionReplaced    = errors.New("session replaced by a newer login")
)

// TokenIssuer is the iss claim on every token this service signs and accepts.
const TokenIssuer = "course-registration"

// Claims extends JWT standard claims with the student identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID int    `json:"user_id"`
	Matric string `json:"matric"`
}

// SessionStore remembers the token ID of each student's current session.
type SessionStore interface {
	Replace(ctx context.Context, studentID int, jti string, ttl time.Duration) error
	Current(ctx context.Context, studentID int) (string, error)
	End(ctx context.Context, studentID int) error
}

// RedisSessionStore keeps sessions under config.CacheKey.StudentSessionKey.
type RedisSessionStore struct {
	rdb *redis.Client
}

// Replace overwrites any previous session for the student.
func (r *RedisSessionStore) Replace(ctx context.Context, studentID int, jti string, ttl time.Duration) error {
	return r.rdb.Set(ctx, config.CacheKey.StudentSessionKey(studentID), jti, ttl).Err()
}

// Current returns the active token ID, or ErrNoActiveSession.
func (r *RedisSessionStore) Current(ctx context.Context, studentID int) (string, error) {
	jti, err := r.rdb.Get(ctx, config.CacheKey.StudentSessionKey(studentID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoActiveSession
	}
	return jti, err
}

// End deletes the student's session.
func (r *RedisSessionStore) End(ctx context.Context, studentID int) error {
	return r.rdb.Del(ctx, config.CacheKey.StudentSessionKey(studentID)).Err()
}

// AuthService handles password hashing, JWT, and single-device sessions.
type AuthService struct {
	cfg      *config.Config
	sessions SessionStore
}

// NewAuthService creates a new AuthService. A nil rdb gives a service that
// can hash and verify passwords and tokens but not manage sessions.
func NewAuthService(cfg *config.Config, rdb *redis.Client) *AuthService {
	s := &AuthService{cfg: cfg}
	if rdb != nil {
		s.sessions = &RedisSessionStore{rdb: rdb}
	}
	return s
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateStudentToken creates a JWT for a student and makes it the only
// valid session. A token issued by an earlier login stops passing
// ValidateStudentSession.
func (s *AuthService) GenerateStudentToken(ctx context.Context, studentID int, matric string) (string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    TokenIssuer,
			Subject:   strconv.Itoa(studentID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		UserID: studentID,
		Matric: matric,
	}

	signed, err := s.SignClaims(claims)
	if err != nil {
		return "", err
	}

	if err := s.sessions.Replace(ctx, studentID, jti, s.cfg.JWTExpiry); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return signed, nil
}

// SignClaims signs claims with the configured secret as HS256.
func (s *AuthService) SignClaims(claims Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithIssuer(TokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Matric == "" || claims.UserID <= 0 {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// ValidateStudentSession checks that jti is the student's current session.
func (s *AuthService) ValidateStudentSession(ctx context.Context, studentID int, jti string) error {
	stored, err := s.sessions.Current(ctx, studentID)
	if err != nil {
		if errors.Is(err, ErrNoActiveSession) {
			return err
		}
		return fmt.Errorf("check session: %w", err)
	}
	if stored != jti {
		return ErrSessionReplaced
	}
	return nil
}

// EndStudentSession removes a student's session, logging out every token.
func (s *AuthService) EndStudentSession(ctx context.Context, studentID int) error {
	return s.sessions.End(ctx, studentID)
}
