package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/pingjob/config"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims JWT 载荷
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Manager 签发与校验管理员令牌（HS256）
type Manager struct {
	secret       []byte
	ttl          time.Duration
	issuer       string
	username     string
	passwordHash []byte
	now          func() time.Time
}

func NewManager(jwtCfg config.JWTConfig, admin config.AdminConfig) *Manager {
	return &Manager{
		secret:       []byte(jwtCfg.Secret),
		ttl:          jwtCfg.TTL,
		issuer:       jwtCfg.Issuer,
		username:     admin.Username,
		passwordHash: []byte(admin.PasswordHash),
		now:          time.Now,
	}
}

// Login checks the admin password and issues a token. An empty configured
// hash disables login.
func (m *Manager) Login(username, password string) (string, time.Time, error) {
	if len(m.passwordHash) == 0 || username != m.username {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return m.Issue(username)
}

func (m *Manager) Issue(username string) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, errors.New("jwt secret not configured")
	}
	now := m.now()
	exp := now.Add(m.ttl)
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse accepts only HS256 tokens that carry an expiry. With no secret
// configured every token is rejected.
func (m *Manager) Parse(token string) (*Claims, error) {
	if len(m.secret) == 0 {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
