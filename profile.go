package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getProfile returns the authenticated user's profile with BMI, BMR, the
// daily calorie goal and the health recommendation.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	view, err := h.profiles.Profile(c, sessionFrom(c))
	if err != nil {
		h.apiErrorFrom(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
