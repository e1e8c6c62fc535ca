package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	// ErrInvalidToken covers every verification failure; callers never
	// learn which check rejected the token.
	ErrInvalidToken = errors.New("invalid or expired token")

	ErrMissingSubject = errors.New("auth: token subject must carry an id")
	ErrMissingRole    = errors.New("auth: access token subject must carry a role")
)

type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role,omitempty"`
	Email  string `json:"email,omitempty"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

// Subject is what a token is issued for.
type Subject struct {
	ID    string
	Role  string
	Email string
}

type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	cp := *i
	cp.now = now
	return &cp
}

func (i *Issuer) AccessTTL() time.Duration  { return i.accessTTL }
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

func (i *Issuer) IssueAccessToken(s Subject) (string, error) {
	if s.ID == "" {
		return "", ErrMissingSubject
	}
	if s.Role == "" {
		return "", ErrMissingRole
	}
	return i.sign(Claims{
		UserID: s.ID,
		Role:   s.Role,
		Email:  s.Email,
		Type:   TokenTypeAccess,
	}, i.accessTTL)
}

func (i *Issuer) IssueRefreshToken(s Subject) (string, error) {
	if s.ID == "" {
		return "", ErrMissingSubject
	}
	return i.sign(Claims{
		UserID: s.ID,
		Type:   TokenTypeRefresh,
	}, i.refreshTTL)
}

func (i *Issuer) VerifyAccessToken(token string) (*Claims, error) {
	return i.verify(token, TokenTypeAccess)
}

func (i *Issuer) VerifyRefreshToken(token string) (*Claims, error) {
	return i.verify(token, TokenTypeRefresh)
}

func (i *Issuer) sign(claims Claims, ttl time.Duration) (string, error) {
	now := i.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *Issuer) verify(token, typ string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != typ || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
