package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/calorie-tracker-go/internal/models"
)

// getWeightLog returns weight entries for the authenticated user within [start, end].
// GET /api/weight-log?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params required.
// Returns an empty array (not null) if no entries exist in the range.
func (h *Handler) getWeightLog(c *gin.Context) {
	if c.Query("start") == "" || c.Query("end") == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return
	}
	start, ok := dateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := dateQuery(c, "end")
	if !ok {
		return
	}

	entries, err := h.profiles.WeightHistory(c, sessionFrom(c), start, end)
	if err != nil {
		h.apiErrorFrom(c, err)
		return
	}
	// Ensure empty array (not null) in JSON
	if entries == nil {
		entries = []models.WeightEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// recordWeight creates or overwrites the weight entry for the given date and
// updates the profile's current weight.
// POST /api/weight-log. Body: { "date": "YYYY-MM-DD", "weight_kg": 72.5 }.
// Date is optional and defaults to today.
func (h *Handler) recordWeight(c *gin.Context) {
	var body struct {
		Date     models.DateOnly `json:"date"`
		WeightKg float64         `json:"weight_kg"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.profiles.RecordWeight(c, sessionFrom(c), body.WeightKg, body.Date)
	if err != nil {
		h.apiErrorFrom(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}
