package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lg/calorie-tracker-go/internal/models"
	"lg/calorie-tracker-go/internal/service"
)

// searchFoods matches the catalog by name or category.
// GET /api/foods?q=term. A blank term lists the first items.
// Returns an empty array (not null) when nothing matches.
func (h *Handler) searchFoods(c *gin.Context) {
	foods, err := h.intake.SearchFoods(c, c.Query("q"))
	if err != nil {
		h.apiErrorFrom(c, err)
		return
	}
	if foods == nil {
		foods = []models.FoodItem{}
	}
	c.JSON(http.StatusOK, foods)
}

// getFood returns a single catalog item. GET /api/foods/:id.
func (h *Handler) getFood(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apiError(c, http.StatusBadRequest, "invalid id")
		return
	}
	food, err := h.intake.Food(c, id)
	if err != nil {
		h.apiErrorFrom(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

// logIntake records a portion of food for a meal.
// POST /api/intake. Body: { "food_id": 11, "quantity_g": 150, "meal_type": "Lunch", "date": "YYYY-MM-DD" }.
// Date is optional and defaults to today. Logging the same food, meal and date
// again adds to the stored quantity.
func (h *Handler) logIntake(c *gin.Context) {
	var body service.LogIntakeInput
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.intake.LogIntake(c, sessionFrom(c), body)
	if err != nil {
		h.apiErrorFrom(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// getDailyReport returns totals, macro ratio and goal status for one day.
// GET /api/report/daily?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDailyReport(c *gin.Context) {
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}
	report, err := h.intake.DailyReport(c, sessionFrom(c), date)
	if err != nil {
		h.apiErrorFrom(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// getWeekSummary returns seven daily summaries.
// GET /api/report/week?week_start=YYYY-MM-DD (defaults to the current Monday).
func (h *Handler) getWeekSummary(c *gin.Context) {
	start, ok := dateQuery(c, "week_start")
	if !ok {
		return
	}
	week, err := h.intake.WeekSummary(c, sessionFrom(c), start)
	if err != nil {
		h.apiErrorFrom(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}
