package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/utils"
	"gorm.io/gorm"
)

type SettingsController struct {
	DB *gorm.DB
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{DB: db}
}

func (sc *SettingsController) load() (models.Settings, error) {
	settings := models.DefaultSettings()
	err := sc.DB.FirstOrCreate(&settings, models.Settings{ID: 1}).Error
	return settings, err
}

func (sc *SettingsController) GetSettings(c *gin.Context) {
	settings, err := sc.load()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Settings", settings)
}

func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var req struct {
		RestaurantName            *string `json:"restaurantName" binding:"omitempty,min=1"`
		Timezone                  *string `json:"timezone" binding:"omitempty,timezone"`
		Currency                  *string `json:"currency" binding:"omitempty,len=3"`
		DefaultReservationMinutes *int    `json:"defaultReservationMinutes" binding:"omitempty,gt=0"`
		OpeningTime               *string `json:"openingTime" binding:"omitempty,datetime=15:04"`
		ClosingTime               *string `json:"closingTime" binding:"omitempty,datetime=15:04"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	settings, err := sc.load()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if req.RestaurantName != nil {
		settings.RestaurantName = *req.RestaurantName
	}
	if req.Timezone != nil {
		settings.Timezone = *req.Timezone
	}
	if req.Currency != nil {
		settings.Currency = *req.Currency
	}
	if req.DefaultReservationMinutes != nil {
		settings.DefaultReservationMinutes = *req.DefaultReservationMinutes
	}
	if req.OpeningTime != nil {
		settings.OpeningTime = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		settings.ClosingTime = *req.ClosingTime
	}

	if err := sc.DB.Save(&settings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.InfoLogger.Printf("Settings updated for %s", settings.RestaurantName)
	utils.RespondJSON(c, http.StatusOK, "Settings updated", settings)
}
