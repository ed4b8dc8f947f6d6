package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/utils"
	"gorm.io/gorm"
)

type MetricsController struct {
	DB     *gorm.DB
	tables *TableController
}

func NewMetricsController(db *gorm.DB) *MetricsController {
	return &MetricsController{DB: db, tables: NewTableController(db)}
}

// GetSummary -> table occupancy, reservations per status and completed
// revenue, optionally for one ?date=
func (mc *MetricsController) GetSummary(c *gin.Context) {
	date := c.Query("date")
	scoped := func() *gorm.DB {
		q := mc.DB.Model(&models.Reservation{})
		if date != "" {
			q = q.Where("date = ?", date)
		}
		return q
	}

	var summary struct {
		Date         string           `json:"date,omitempty"`
		Tables       map[string]int64 `json:"tables"`
		Reservations map[string]int64 `json:"reservations"`
		Covers       int64            `json:"covers"`
		Revenue      float64          `json:"revenue"`
		TeamActive   int64            `json:"teamActive"`
	}
	summary.Date = date
	tables, err := mc.tables.tableStats()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	summary.Tables = tables
	summary.Reservations = map[string]int64{}

	var total int64
	for _, s := range []models.ReservationStatus{
		models.ReservationPending, models.ReservationConfirmed, models.ReservationSeated,
		models.ReservationCompleted, models.ReservationCancelled,
	} {
		var n int64
		if err := scoped().Where("status = ?", s).Count(&n).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		summary.Reservations[string(s)] = n
		total += n
	}
	summary.Reservations["total"] = total

	for _, q := range []*gorm.DB{
		scoped().Where("status <> ?", models.ReservationCancelled).
			Select("COALESCE(SUM(party_size), 0)").Scan(&summary.Covers),
		scoped().Where("status = ?", models.ReservationCompleted).
			Select("COALESCE(SUM(bill_amount), 0)").Scan(&summary.Revenue),
		mc.DB.Model(&models.TeamMember{}).Where("status = ?", "active").Count(&summary.TeamActive),
	} {
		if q.Error != nil {
			utils.RespondError(c, http.StatusInternalServerError, q.Error)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard summary", summary)
}
