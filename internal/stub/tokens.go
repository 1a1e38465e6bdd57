package stub

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "realtyref/pkg/domain-errors"
	"realtyref/pkg/requestcontext"
)

// Claims are the stub's session token claims. The client treats the token as
// opaque and only echoes it back in the token header.
type Claims struct {
	RecordID     string `json:"record_id"`
	Role         string `json:"role"`
	Mobile       string `json:"mobile"`
	ReferralCode string `json:"referral_code,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 session tokens.
type TokenService struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	now        func() time.Time
}

func NewTokenService(signingKey, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Issue signs a token for the record.
func (s *TokenService) Issue(r *Record) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RecordID:     r.ID,
		Role:         string(r.Role),
		Mobile:       r.Mobile,
		ReferralCode: r.ReferralCode,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   r.ID,
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "sign token")
	}
	return signed, nil
}

// ValidateToken parses the token and returns the caller it identifies.
func (s *TokenService) ValidateToken(tokenString string) (requestcontext.Caller, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return requestcontext.Caller{}, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return requestcontext.Caller{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return requestcontext.Caller{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return requestcontext.Caller{
		RecordID:     claims.RecordID,
		Role:         claims.Role,
		Mobile:       claims.Mobile,
		ReferralCode: claims.ReferralCode,
	}, nil
}
