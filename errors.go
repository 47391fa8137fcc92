package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Error taxonomy. Authentication failures are deliberately low-information:
// an unknown email and a wrong password produce the same error so the login
// endpoint cannot be used to enumerate accounts. An inactive account is the
// one distinguishable case, kept to match the upstream API contract.
var (
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
	ErrAccountInactive    = errors.New("user account is disabled")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
	ErrDuplicateEmail     = errors.New("this email is already in use")
	ErrEmailRequired      = errors.New("the email field must be set")
	ErrPasswordTooShort   = errors.New("password too short (min 6)")
	ErrPasswordMismatch   = errors.New("current password is not correct")
	ErrSuperuserLimit     = errors.New("cannot create more than 2 superusers")
	ErrForbidden          = errors.New("you can only update your own identity")
	ErrUserNotFound       = errors.New("user not found")
)

// errorResponse translates a component error into the client-facing JSON
// shape: field-keyed maps for validation failures, a "detail" object for
// everything else. Unrecognized errors surface as a generic 500 with no
// leaked internals.
func errorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, gin.H{"email": "This email is already in use"})
	case errors.Is(err, ErrEmailRequired):
		c.JSON(http.StatusBadRequest, gin.H{"email": "The Email field must be set"})
	case errors.Is(err, ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"password": "Password too short (min 6 characters)"})
	case errors.Is(err, ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"password": "Current password is not correct"})
	case errors.Is(err, ErrSuperuserLimit):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Cannot create more than 2 superusers."})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": "You can only update your own identity"})
	case errors.Is(err, ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "No active account found with the given credentials"})
	case errors.Is(err, ErrAccountInactive):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "User account is disabled"})
	case errors.Is(err, ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Token is invalid or expired"})
	case errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}

// isUniqueConstraintError detects unique-index violations across drivers by
// message. The unique index is the authority for duplicate detection; any
// optimistic pre-check can lose a race that ends up here.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}
