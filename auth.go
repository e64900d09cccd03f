package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lg/calorie-tracker-go/internal/service"
)

const sessionKey = "session"

// register creates a profile and its first weight entry.
// POST /api/register (public). Body: service.RegisterInput.
func (h *Handler) register(c *gin.Context) {
	var body service.RegisterInput
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.profiles.Register(c, body)
	if err != nil {
		h.apiErrorFrom(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u, "daily_calorie_goal": service.GoalFor(u)})
}

// login verifies username/password and opens a session.
// POST /api/login (public). The returned token goes in "Authorization: Bearer".
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.profiles.Login(c, body.Username, body.Password)
	if err != nil {
		h.apiErrorFrom(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": sess.ID.String(), "user_id": sess.UserID})
}

// logout ends the caller's session. POST /api/logout.
func (h *Handler) logout(c *gin.Context) {
	h.profiles.Logout(sessionFrom(c))
	c.Status(http.StatusNoContent)
}

// sessionMiddleware resolves the Bearer token to a live session and stores it
// on the context.
func (h *Handler) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		sess, err := h.profiles.Session(token)
		if err != nil {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// sessionFrom returns the session set by sessionMiddleware, or nil.
func sessionFrom(c *gin.Context) *service.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*service.Session)
	return sess
}
