package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikelGMatos/NutriSense/services"
)

type DiaryController struct {
	diary *services.DiaryService
	users *services.UserService
	hub   *services.RealtimeHub
	log   *zap.Logger
	dev   bool
}

func NewDiaryController(diary *services.DiaryService, users *services.UserService, hub *services.RealtimeHub, log *zap.Logger, dev bool) *DiaryController {
	return &DiaryController{diary: diary, users: users, hub: hub, log: log, dev: dev}
}

type AddEntryBody struct {
	Date          string   `json:"date" binding:"required"`
	MealType      string   `json:"meal_type" binding:"required"`
	FoodName      string   `json:"food_name" binding:"required"`
	Portion       string   `json:"portion"`
	Amount        *float64 `json:"amount"`
	Calories      *float64 `json:"calories"`
	Protein       *float64 `json:"protein"`
	Carbohydrates *float64 `json:"carbohydrates"`
	Fat           *float64 `json:"fat"`
	FoodRef       *string  `json:"food_id"`
}

func (dc *DiaryController) AddEntry(c *gin.Context) {
	var body AddEntryBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields: date, meal_type, food_name"})
		return
	}
	userID := c.GetUint("userID")

	entry, err := dc.diary.AddEntry(userID, services.AddEntryInput{
		Date:          body.Date,
		MealType:      body.MealType,
		FoodName:      body.FoodName,
		Portion:       body.Portion,
		Amount:        body.Amount,
		Calories:      body.Calories,
		Protein:       body.Protein,
		Carbohydrates: body.Carbohydrates,
		Fat:           body.Fat,
		FoodRef:       body.FoodRef,
	})
	if err != nil {
		dc.respondEntryError(c, err, "failed to save the entry")
		return
	}

	dc.notifyDiaryUpdate(userID, body.Date)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "entry added to diary",
		"data":    entry,
	})
}

func (dc *DiaryController) GetEntries(c *gin.Context) {
	userID := c.GetUint("userID")
	date := c.Param("date")

	summary, err := dc.diary.DayEntries(userID, date)
	if err != nil {
		dc.respondEntryError(c, err, "failed to load diary entries")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}

type UpdateEntryBody struct {
	Amount        *float64 `json:"amount" binding:"required"`
	Calories      *float64 `json:"calories"`
	Protein       *float64 `json:"protein"`
	Carbohydrates *float64 `json:"carbohydrates"`
	Fat           *float64 `json:"fat"`
}

func (dc *DiaryController) UpdateEntry(c *gin.Context) {
	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	var body UpdateEntryBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount is required"})
		return
	}
	userID := c.GetUint("userID")

	entry, date, err := dc.diary.UpdateEntry(userID, uint(entryID), services.UpdateEntryInput{
		Amount:        *body.Amount,
		Calories:      body.Calories,
		Protein:       body.Protein,
		Carbohydrates: body.Carbohydrates,
		Fat:           body.Fat,
	})
	if err != nil {
		dc.respondEntryError(c, err, "failed to update the entry")
		return
	}

	dc.notifyDiaryUpdate(userID, date)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "entry updated",
		"data":    entry,
	})
}

func (dc *DiaryController) DeleteEntry(c *gin.Context) {
	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	userID := c.GetUint("userID")

	date, err := dc.diary.DeleteEntry(userID, uint(entryID))
	if err != nil {
		dc.respondEntryError(c, err, "failed to delete the entry")
		return
	}

	dc.notifyDiaryUpdate(userID, date)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "entry deleted"})
}

// GetProgress reports the day's consumption against the stored daily targets.
func (dc *DiaryController) GetProgress(c *gin.Context) {
	userID := c.GetUint("userID")
	date := c.Param("date")

	user, err := dc.users.GetProfile(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	progress, summary, err := dc.diary.Progress(userID, date, user)
	if err != nil {
		dc.respondEntryError(c, err, "failed to compute progress")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"date":     summary.Date,
			"totals":   summary.Totals,
			"progress": progress,
		},
	})
}

// GetSummary returns per-day totals for a date range, defaulting to the
// trailing seven days.
func (dc *DiaryController) GetSummary(c *gin.Context) {
	userID := c.GetUint("userID")

	to := c.Query("to")
	from := c.Query("from")
	if to == "" {
		to = time.Now().Format("2006-01-02")
	}
	if from == "" {
		toDay, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
			return
		}
		from = toDay.AddDate(0, 0, -6).Format("2006-01-02")
	}

	days, err := dc.diary.RangeSummary(userID, from, to)
	if err != nil {
		dc.respondEntryError(c, err, "failed to compute summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"from": from, "to": to, "days": days},
	})
}

// notifyDiaryUpdate pushes freshly recomputed totals to the user's sockets.
func (dc *DiaryController) notifyDiaryUpdate(userID uint, date string) {
	summary, err := dc.diary.DayEntries(userID, date)
	if err != nil {
		dc.log.Warn("realtime recompute failed", zap.String("date", date), zap.Error(err))
		return
	}
	dc.hub.BroadcastDiaryUpdate(userID, date, summary.Totals)
}

func (dc *DiaryController) respondEntryError(c *gin.Context, err error, public string) {
	switch {
	case errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidMealType),
		errors.Is(err, services.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEntryNotFound):
		// a foreign entry and a missing one look the same on purpose
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
	default:
		dc.log.Error("diary operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, serverError(dc.dev, public, err))
	}
}
