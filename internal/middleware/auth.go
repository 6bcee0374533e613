package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Divyaraj25/PaisaTrack/internal/defaults"
	"github.com/Divyaraj25/PaisaTrack/internal/models"
	"github.com/Divyaraj25/PaisaTrack/internal/store"
	"github.com/Divyaraj25/PaisaTrack/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Context keys set by AuthMiddleware.
const (
	CurrentUserKey = "currentUser"
	LedgerKey      = "ledger"
)

const bearerPrefix = "Bearer "

// AuthMiddleware 校验 Authorization: Bearer <token>，并在 context 里放入当前用户
// 和只属于该用户的 Ledger。
//
// Routes listed in public ("METHOD /full/path", as registered) pass through
// untouched. The ledger is built for this request only and its queries are
// not cancelled when the client goes away.
func AuthMiddleware(creds *store.Credentials, db *gorm.DB, content *defaults.Content, public ...string) gin.HandlerFunc {
	allow := make(map[string]struct{}, len(public))
	for _, route := range public {
		allow[route] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := allow[c.Request.Method+" "+c.FullPath()]; ok {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "missing or malformed authorization header")
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, bearerPrefix)
		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "missing or malformed authorization header")
			c.Abort()
			return
		}

		user, err := creds.ResolveToken(tokenStr)
		if err != nil {
			if errors.Is(err, store.ErrInvalidToken) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "token is invalid or expired")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load user")
			}
			c.Abort()
			return
		}

		session := db.Session(&gorm.Session{
			NewDB:   true,
			Context: context.WithoutCancel(c.Request.Context()),
		})
		c.Set(CurrentUserKey, user)
		c.Set(LedgerKey, store.NewLedger(session, user.ID, content))
		c.Next()
	}
}

// CurrentUser returns the user bound by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// CurrentLedger returns the request's ledger. Without an authenticated
// user it is bound to no identity and so sees nothing.
func CurrentLedger(c *gin.Context) *store.Ledger {
	if v, ok := c.Get(LedgerKey); ok {
		if l, ok := v.(*store.Ledger); ok && l != nil {
			return l
		}
	}
	return store.NewLedger(nil, 0, nil)
}
