package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/billed/internal/application/port"
	"github.com/garyjia/billed/internal/auth"
	"github.com/garyjia/billed/internal/domain/entity"
)

const sessionKey = "session"

// RequireEmployee loads the session cookie into the request context.
// Requests without a valid employee session are sent to the login page.
func (h *Handlers) RequireEmployee() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(h.cookie.Name)
		if err != nil || token == "" {
			c.Redirect(http.StatusSeeOther, port.RouteLogin)
			c.Abort()
			return
		}

		session, err := h.tokens.Parse(token)
		if err != nil || session.Type != entity.UserTypeEmployee {
			h.logger.Info("Rejected session", "path", c.Request.URL.Path, "error", err)
			h.clearSessionCookie(c)
			c.Redirect(http.StatusSeeOther, port.RouteLogin)
			c.Abort()
			return
		}

		c.Set(sessionKey, session)
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

func currentSession(c *gin.Context) *auth.Session {
	if v, ok := c.Get(sessionKey); ok {
		if session, ok := v.(*auth.Session); ok {
			return session
		}
	}
	return nil
}

// redirectNavigator navigates by answering the request with a redirect
func redirectNavigator(c *gin.Context) port.Navigator {
	return port.NavigatorFunc(func(route string) {
		c.Redirect(http.StatusSeeOther, route)
	})
}
