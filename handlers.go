package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func setupRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/login", loginHandler)
	auth.POST("/login/refresh", refreshHandler)
	auth.POST("/logout", logoutHandler)
	auth.PUT("/change-email", authRequired(), changeEmailHandler)
	auth.POST("/password-reset", passwordResetHandler)
	auth.POST("/password-reset/confirm", passwordResetConfirmHandler)

	registerResource(api, "/user", userResource())
	registerResource(api, "/persona", personaResource())
	registerResource(api, "/financial-transactions", transactionResource())
	registerResource(api, "/conversations", conversationResource())
}

func loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	pair, err := IssueTokenPair(req.Email, req.Password)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// refreshHandler exchanges a refresh token for a new access token, rotating
// the refresh token in the process.
func refreshHandler(c *gin.Context) {
	var req struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	pair, err := RefreshTokens(req.Refresh)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": pair.Access, "refresh": pair.Refresh})
}

// logoutHandler blacklists the presented refresh token. Logging out twice
// with the same token reports success both times.
func logoutHandler(c *gin.Context) {
	var req struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if err := RevokeRefreshToken(req.Refresh); err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// changeEmailHandler is the self-service email change. The password in the
// body is the current password, used for re-authentication.
func changeEmailHandler(c *gin.Context) {
	actingID := c.GetUint(ctxUserID)
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	user, err := ChangeEmail(actingID, actingID, req.Email, req.Password)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func passwordResetHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	RequestPasswordReset(req.Email)
	// same answer whether or not the email matched an account
	c.JSON(http.StatusOK, gin.H{"detail": "Password reset e-mail has been sent."})
}

func passwordResetConfirmHandler(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if err := ConfirmPasswordReset(req.Token, req.Password); err != nil {
		switch err {
		case ErrTokenInvalid:
			c.JSON(http.StatusBadRequest, gin.H{"token": "Invalid or expired reset token"})
		case ErrPasswordTooShort:
			c.JSON(http.StatusBadRequest, gin.H{"password": "Password too short (min 6 characters)"})
		default:
			errorResponse(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Password has been reset."})
}
