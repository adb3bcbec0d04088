package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	. "attendance-capture/internal/config"
	"attendance-capture/internal/nonce"
)

var (
	ErrInvalidNonce     = errors.New("invalid nonce")
	ErrNonValidToken    = errors.New("token did not pass validation")
	ErrInvalidClaimType = errors.New("invalid claim type")
)

var tokenSignatureAlg = jwt.SigningMethodHS256

// Claim for a deferred install offer. The jti nonce makes the offer
// redeemable exactly once.
type InstallOfferClaim struct {
	OfferID string `json:"offer_id"`
	jwt.RegisteredClaims
}

func NewInstallOfferClaim(offerId string) InstallOfferClaim {
	return InstallOfferClaim{
		OfferID:          offerId,
		RegisteredClaims: mustCreateRegisteredClaim(Cfg.TokenTTL),
	}
}

// DecodeInstallOfferJWT validates the offer token and consumes its nonce.
// A second decode of the same token fails with ErrInvalidNonce.
func DecodeInstallOfferJWT(tokenString string) (*InstallOfferClaim, error) {
	claims, err := decodeJWT(tokenString, &InstallOfferClaim{})
	if err != nil {
		return nil, err
	}
	if ok, err := nonce.Store.Consume(context.Background(), claims.ID); err != nil || !ok {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNonce, err)
		}
		return nil, ErrInvalidNonce
	}
	return claims, nil
}

// PeekInstallOfferJWT validates the offer token without consuming the
// nonce; used when only the offer's liveness is of interest.
func PeekInstallOfferJWT(tokenString string) (*InstallOfferClaim, error) {
	claims, err := decodeJWT(tokenString, &InstallOfferClaim{})
	if err != nil {
		return nil, err
	}
	if !nonce.Store.Exists(context.Background(), claims.ID) {
		return nil, ErrInvalidNonce
	}
	return claims, nil
}

func mustCreateRegisteredClaim(ttl uint) jwt.RegisteredClaims {
	n, err := nonce.Nonce(ttl + 10) // nonce TTL is slightly longer than token TTL to allow for clock skew
	if err != nil {
		panic(fmt.Sprintf("failed to generate nonce: %v", err))
	}

	return jwt.RegisteredClaims{
		ID:        n,
		IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
		ExpiresAt: jwtExpiry(ttl),
	}
}

// Convert TTL to time in future
func tokenTTL(ttl uint) time.Time {
	if ttl <= 0 {
		panic("invalid token TTL")
	}
	return time.Now().UTC().Add(time.Duration(ttl) * time.Second)
}

func jwtExpiry(ttl uint) *jwt.NumericDate {
	expiry := tokenTTL(ttl)
	return jwt.NewNumericDate(expiry)
}

// Generic JWT token generation function
func GenerateJWT(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(tokenSignatureAlg, claims)
	JWTSecret := []byte(Cfg.Secret)
	return token.SignedString(JWTSecret)
}

func decodeJWT[T jwt.Claims](tokenString string, claimsType T) (T, error) {
	var zero T

	parsedToken, err := jwt.ParseWithClaims(tokenString, claimsType, func(token *jwt.Token) (interface{}, error) {
		JWTSecret := []byte(Cfg.Secret)
		return JWTSecret, nil
	}, jwt.WithValidMethods([]string{tokenSignatureAlg.Alg()}))

	if err != nil {
		return zero, err
	} else if parsedToken == nil || !parsedToken.Valid {
		return zero, ErrNonValidToken
	} else if claims, ok := parsedToken.Claims.(T); ok {
		return claims, nil
	}

	return zero, ErrInvalidClaimType
}
