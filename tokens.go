package main

import (
	"log"
	"strconv"
	"time"

	"personaforge/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenPair is the login response payload. Field names follow the wire
// contract the frontend consumes; User is the id rendered as a string.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    string `json:"user"`
	Email   string `json:"email"`
}

// TokenClaims is the decoded, validated content of one of our JWTs.
type TokenClaims struct {
	UserID    uint
	Email     string
	TokenType string
	JTI       string
	ExpiresAt time.Time
}

// mintToken signs a single HS256 JWT for user with the given type and
// lifetime. The email claim snapshots the address at issue time; it goes
// stale if the user later changes email and is not proactively refreshed.
func mintToken(user *models.User, tokenType string, ttl time.Duration) (signed, jti string, err error) {
	jti = uuid.NewString()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    user.ID,
		"email":      user.Email,
		"token_type": tokenType,
		"jti":        jti,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	})
	signed, err = token.SignedString(jwtSecret)
	return signed, jti, err
}

func mintPair(user *models.User) (*TokenPair, error) {
	access, _, err := mintToken(user, tokenTypeAccess, cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, _, err := mintToken(user, tokenTypeRefresh, cfg.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		Access:  access,
		Refresh: refresh,
		User:    strconv.FormatUint(uint64(user.ID), 10),
		Email:   user.Email,
	}, nil
}

// IssueTokenPair authenticates the credentials and mints an access/refresh
// pair with the user id and email embedded as claims.
func IssueTokenPair(email, password string) (*TokenPair, error) {
	user, err := Authenticate(email, password)
	if err != nil {
		return nil, err
	}
	return mintPair(user)
}

// parseToken validates signature and expiry and extracts the custom
// claims. It never consults the revocation ledger; access checks stay
// stateless and revocation only matters to the refresh and logout flows.
func parseToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, ErrTokenInvalid
	}
	tc := &TokenClaims{UserID: uint(userID)}
	tc.Email, _ = claims["email"].(string)
	tc.TokenType, _ = claims["token_type"].(string)
	tc.JTI, _ = claims["jti"].(string)
	if exp, ok := claims["exp"].(float64); ok {
		tc.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return tc, nil
}

// RefreshTokens exchanges a refresh token for a new pair. The old token's
// jti is claimed in the ledger first, so each refresh token is single-use:
// of two concurrent refreshes with the same token, exactly one wins.
func RefreshTokens(refreshToken string) (*TokenPair, error) {
	claims, err := parseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, ErrTokenInvalid
	}
	if IsRevoked(claims.JTI) {
		return nil, ErrTokenInvalid
	}
	var user models.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		return nil, ErrTokenInvalid
	}
	if !user.IsActive {
		return nil, ErrTokenInvalid
	}
	alreadyRevoked, err := revokeJTI(claims)
	if err != nil {
		return nil, err
	}
	if alreadyRevoked {
		return nil, ErrTokenInvalid
	}
	return mintPair(&user)
}

// revokeJTI inserts the id into the revocation ledger and reports whether
// it was already present. The unique index on jti is the point of
// serialization between concurrent refresh and logout calls.
func revokeJTI(claims *TokenClaims) (alreadyRevoked bool, err error) {
	entry := models.RevokedToken{JTI: claims.JTI, UserID: claims.UserID, ExpiresAt: claims.ExpiresAt}
	if err := db.Create(&entry).Error; err != nil {
		if isUniqueConstraintError(err) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// IsRevoked reports ledger membership for a token id.
func IsRevoked(jti string) bool {
	var count int64
	db.Model(&models.RevokedToken{}).Where("jti = ?", jti).Count(&count)
	return count > 0
}

// RevokeRefreshToken handles logout. Revoking twice is a no-op success; a
// malformed or expired token is the only failure.
func RevokeRefreshToken(refreshToken string) error {
	claims, err := parseToken(refreshToken)
	if err != nil {
		return err
	}
	if claims.TokenType != tokenTypeRefresh {
		return ErrTokenInvalid
	}
	_, err = revokeJTI(claims)
	return err
}

// PurgeExpiredRevocations drops ledger rows whose tokens have expired; an
// expired token can never pass validation, so the rows are dead weight.
func PurgeExpiredRevocations() {
	res := db.Where("expires_at < ?", time.Now()).Delete(&models.RevokedToken{})
	if res.Error != nil {
		log.Printf("revocation ledger purge failed: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("revocation ledger: purged %d expired entries", res.RowsAffected)
	}
}
