package services

import (
	"contact_flow_app_go/models"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ResumeClaims prove that the holder opened ticket FeedbackID with Email
type ResumeClaims struct {
	FeedbackID uint   `json:"feedback_id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// ResumeTokenIssuer signs and verifies resume tokens with HS256
type ResumeTokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewResumeTokenIssuer(secret string, ttl time.Duration) *ResumeTokenIssuer {
	return &ResumeTokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token scoped to one ticket
func (i *ResumeTokenIssuer) Issue(f *models.Feedback) (string, error) {
	now := time.Now()
	claims := ResumeClaims{
		FeedbackID: f.ID,
		Email:      strings.ToLower(f.Email),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(f.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign resume token: %w", err)
	}
	return token, nil
}

// Verify checks signature and expiry
func (i *ResumeTokenIssuer) Verify(token string) (*ResumeClaims, error) {
	claims := &ResumeClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResumeToken, err)
	}
	return claims, nil
}
