package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by the access gate for downstream handlers.
const (
	ctxUserID = "userID"
	ctxEmail  = "email"
)

// Action names follow the conventional REST resource vocabulary.
const (
	actionList          = "list"
	actionCreate        = "create"
	actionRetrieve      = "retrieve"
	actionUpdate        = "update"
	actionPartialUpdate = "partial_update"
	actionDestroy       = "destroy"
)

// resource couples a set of CRUD handlers with the action names that
// require an authenticated caller. Actions outside the protected set are
// served even without credentials, which is how public list endpoints
// stay public.
type resource struct {
	protected []string

	list          gin.HandlerFunc
	create        gin.HandlerFunc
	retrieve      gin.HandlerFunc
	update        gin.HandlerFunc
	partialUpdate gin.HandlerFunc
	destroy       gin.HandlerFunc
}

func (r resource) isProtected(action string) bool {
	for _, a := range r.protected {
		if a == action {
			return true
		}
	}
	return false
}

// bearerClaims extracts and validates the access token on c, if one was
// presented. It returns (claims, "") on success, (nil, "") when no
// Authorization header is present, and (nil, detail) when a credential was
// presented but rejected. Validation is signature and expiry only; the
// revocation ledger is not consulted here.
func bearerClaims(c *gin.Context) (*TokenClaims, string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, ""
	}
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenString == "" {
		return nil, "Authorization header must contain two space-delimited values"
	}
	claims, err := parseToken(tokenString)
	if err != nil || claims.TokenType != tokenTypeAccess {
		return nil, "Given token not valid for any token type"
	}
	return claims, ""
}

// accessGate is the per-action authorization checkpoint every resource
// route passes through. A presented-but-invalid credential is rejected
// regardless of the action's policy; an absent credential is only rejected
// when the action is in the protected set.
func accessGate(res resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, detail := bearerClaims(c)
		if detail != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
			return
		}
		if claims != nil {
			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxEmail, claims.Email)
		}
		if res.isProtected(action) && claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}
		c.Next()
	}
}

// authRequired guards standalone endpoints that live outside the resource
// router (the self-service credential flows). Same validation path as the
// gate, but credentials are always mandatory.
func authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, detail := bearerClaims(c)
		if claims == nil {
			if detail == "" {
				detail = "Authentication credentials were not provided."
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Next()
	}
}

// registerResource wires the six conventional CRUD actions under base.
// Every route goes through the access gate with its own action name; no
// resource re-implements token validation.
func registerResource(rg *gin.RouterGroup, base string, res resource) {
	grp := rg.Group(base)
	route := func(method, path, action string, h gin.HandlerFunc) {
		if h == nil {
			return
		}
		grp.Handle(method, path, accessGate(res, action), h)
	}
	route(http.MethodGet, "", actionList, res.list)
	route(http.MethodPost, "", actionCreate, res.create)
	route(http.MethodGet, "/:id", actionRetrieve, res.retrieve)
	route(http.MethodPut, "/:id", actionUpdate, res.update)
	route(http.MethodPatch, "/:id", actionPartialUpdate, res.partialUpdate)
	route(http.MethodDelete, "/:id", actionDestroy, res.destroy)
}
