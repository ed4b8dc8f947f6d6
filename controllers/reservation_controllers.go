package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/utils"
	"gorm.io/gorm"
)

type ReservationController struct {
	DB *gorm.DB
}

func NewReservationController(db *gorm.DB) *ReservationController {
	RegisterValidators()
	return &ReservationController{DB: db}
}

// GetAllReservations -> ?date= and ?status= filter, ordered by date and time
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	query := rc.DB.Order("date ASC, time ASC")
	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	reservations := []models.Reservation{}
	if err := query.Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	var r models.Reservation
	if err := rc.DB.First(&r, "id = ?", c.Param("reservation_id")).Error; err != nil {
		respondLookupError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", r)
}

// CreateReservation -> books a table for a guest, status pending
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var draft models.ReservationDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := rc.DB.First(&table, "id = ?", draft.TableID).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, ErrUnknownTable)
		return
	}

	r := draft.Reservation("")
	err := rc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&r).Error; err != nil {
			return err
		}
		if draft.CustomerID != nil {
			return tx.Model(&models.Customer{}).
				Where("id = ?", *draft.CustomerID).
				UpdateColumn("visit_count", gorm.Expr("visit_count + ?", 1)).Error
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Reservation %s created for %s at table %d on %s %s", r.ID, r.GuestName, table.Number, r.Date, r.Time)
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", r)
}

type updateReservationRequest struct {
	GuestName       *string                   `json:"guestName" binding:"omitempty,min=1"`
	GuestEmail      *string                   `json:"guestEmail" binding:"omitempty,email"`
	Date            *string                   `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Time            *string                   `json:"time" binding:"omitempty,datetime=15:04"`
	EndTime         *string                   `json:"endTime" binding:"omitempty,datetime=15:04"`
	PartySize       *int                      `json:"partySize" binding:"omitempty,gt=0"`
	TableID         *string                   `json:"tableId"`
	Status          *models.ReservationStatus `json:"status" binding:"omitempty,reservation_status"`
	SpecialRequests *string                   `json:"specialRequests"`
	TotalAmount     *float64                  `json:"total_amount"`
	BillAmount      *float64                  `json:"billAmount"`
}

// UpdateReservation -> PUT {status, total_amount, ...fields}. Transitions are
// not restricted. Completing without an amount records 0.
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	amount := req.TotalAmount
	if amount == nil {
		amount = req.BillAmount
	}
	if amount != nil && *amount < 0 {
		utils.RespondError(c, http.StatusBadRequest, ErrNegativeAmount)
		return
	}

	var r models.Reservation
	if err := rc.DB.First(&r, "id = ?", c.Param("reservation_id")).Error; err != nil {
		respondLookupError(c, err)
		return
	}

	if req.TableID != nil && *req.TableID != r.TableID {
		var n int64
		if err := rc.DB.Model(&models.Table{}).Where("id = ?", *req.TableID).Count(&n).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if n == 0 {
			utils.RespondError(c, http.StatusBadRequest, ErrUnknownTable)
			return
		}
	}

	models.ReservationPatch{
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		Date:            req.Date,
		Time:            req.Time,
		EndTime:         req.EndTime,
		PartySize:       req.PartySize,
		TableID:         req.TableID,
		Status:          req.Status,
		SpecialRequests: req.SpecialRequests,
		BillAmount:      amount,
	}.Apply(&r)

	if r.Status == models.ReservationCompleted && r.BillAmount == nil {
		zero := 0.0
		r.BillAmount = &zero
	}

	if err := rc.DB.Save(&r).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Reservation %s updated (status=%s)", r.ID, r.Status)
	utils.RespondJSON(c, http.StatusOK, "Reservation updated", r)
}

// ExportReservations -> CSV of reservations (?date= filter), tables shown by
// display number
func (rc *ReservationController) ExportReservations(c *gin.Context) {
	query := rc.DB.Order("date ASC, time ASC")
	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}
	var reservations []models.Reservation
	if err := query.Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var tables []models.Table
	if err := rc.DB.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	numbers := make(map[string]int, len(tables))
	for _, t := range tables {
		numbers[t.ID] = t.Number
	}

	header := []string{"id", "guest", "email", "date", "time", "end_time", "party_size", "table", "status", "bill_amount"}
	rows := make([][]string, 0, len(reservations))
	for _, r := range reservations {
		table := ""
		if n, ok := numbers[r.TableID]; ok {
			table = strconv.Itoa(n)
		}
		bill := ""
		if r.BillAmount != nil {
			bill = strconv.FormatFloat(*r.BillAmount, 'f', 2, 64)
		}
		rows = append(rows, []string{
			r.ID, r.GuestName, r.GuestEmail, r.Date, r.Time, r.EndTime,
			strconv.Itoa(r.PartySize), table, string(r.Status), bill,
		})
	}

	if err := utils.WriteCSV(c, "reservations.csv", header, rows); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
