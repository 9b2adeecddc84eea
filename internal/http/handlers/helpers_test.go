package handlers_test

import (
	"github.com/gin-gonic/gin"
	"github.com/inkwelldev/inkwell/internal/auth"
	"github.com/inkwelldev/inkwell/internal/http/middlewares"
)

// identityMiddleware stands in for the real auth guard: it stamps a
// verified identity onto the context exactly as RequireAuth would.
func identityMiddleware(m *auth.Manager, id int64, email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := m.Issue(id, email)

		if err != nil {
			panic(err)
		}

		claims, err := m.Verify(token)

		if err != nil {
			panic(err)
		}

		c.Set(middlewares.CtxUserID, claims.UserID)
		c.Set(middlewares.CtxEmail, claims.Email)
		c.Set(middlewares.CtxClaims, claims)

		c.Next()
	}
}
