package jwt

import (
	"time"

	"rental-booking/internal/pkg/config"
	"rental-booking/internal/pkg/errs"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tokens are issued by the external identity service; this package only
// validates them. Role "service" marks trusted service-to-service callers
// (the payment-completion path); "tenant" marks end users.
type Role string

const (
	RoleTenant  Role = "tenant"
	RoleService Role = "service"
)

var (
	ErrInvalidToken = errs.New("invalid or expired token")
	ErrInvalidRole  = errs.New("unknown role claim")
)

type Claims struct {
	UserID uuid.UUID
	Role   Role
}

type tokenClaims struct {
	Role string `json:"role"`
	jwtlib.RegisteredClaims
}

type Manager struct {
	secret []byte
}

func NewManager(cfg config.JWTConfig) *Manager {
	return &Manager{secret: []byte(cfg.Secret)}
}

func (m *Manager) Validate(token string) (Claims, error) {
	parsed, err := jwtlib.ParseWithClaims(token, &tokenClaims{}, func(t *jwtlib.Token) (any, error) {
		return m.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return Claims{}, errs.Mark(err, ErrInvalidToken)
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Claims{}, errs.Mark(err, ErrInvalidToken)
	}

	role := Role(claims.Role)
	if role != RoleTenant && role != RoleService {
		return Claims{}, ErrInvalidRole
	}

	return Claims{UserID: userID, Role: role}, nil
}

// Generate exists for tests and local tooling; production tokens come from
// the identity service signed with the shared secret.
func (m *Manager) Generate(userID uuid.UUID, role Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Role: string(role),
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(m.secret)
}
