package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/services"
	"github.com/yeremiapane/restaurant-dashboard/utils"
)

// DashboardController exposes the session commands the view issues. Backend
// writes continue after the response, so they run on a context that outlives
// the request.
type DashboardController struct {
	Session *services.Session
}

func NewDashboardController(session *services.Session) *DashboardController {
	return &DashboardController{Session: session}
}

func detached(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// respondCommandError maps session errors. Validation errors are the user's
// to fix; anything else came from the backend.
func respondCommandError(c *gin.Context, err error) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, utils.JSONResponse{
			Status:  false,
			Message: ve.Message,
			Data:    gin.H{"code": ve.Code},
		})
		return
	}
	var be *services.BackendError
	if errors.As(err, &be) {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondError(c, http.StatusInternalServerError, err)
}

// Refresh -> reload tables and the reservations of ?date=
func (dc *DashboardController) Refresh(c *gin.Context) {
	date := c.Query("date")
	if err := dc.Session.Refresh(c.Request.Context(), date); err != nil {
		respondCommandError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard refreshed", gin.H{
		"date":         date,
		"tables":       dc.Session.TableViews(),
		"reservations": dc.Session.Reservations.List(),
	})
}

// GetTables -> floor plan with link groups and effective capacity
func (dc *DashboardController) GetTables(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Floor plan", gin.H{
		"linkMode":  dc.Session.Links.InLinkMode(),
		"selection": dc.Session.Links.Selection(),
		"tables":    dc.Session.TableViews(),
	})
}

// AvailableTables -> tables free on ?date=
func (dc *DashboardController) AvailableTables(c *gin.Context) {
	tables, err := dc.Session.AvailableTables(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondCommandError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Available tables", tables)
}

func (dc *DashboardController) EnterLinkMode(c *gin.Context) {
	dc.Session.Links.EnterLinkMode()
	utils.RespondJSON(c, http.StatusOK, "Link mode on", gin.H{"linkMode": true})
}

func (dc *DashboardController) ExitLinkMode(c *gin.Context) {
	dc.Session.Links.ExitLinkMode()
	utils.RespondJSON(c, http.StatusOK, "Link mode off", gin.H{"linkMode": false})
}

// ToggleSelection -> select or deselect a table while in link mode
func (dc *DashboardController) ToggleSelection(c *gin.Context) {
	selected := dc.Session.Links.ToggleSelection(c.Param("table_id"))
	utils.RespondJSON(c, http.StatusOK, "Selection updated", gin.H{
		"selected":  selected,
		"selection": dc.Session.Links.Selection(),
	})
}

// LinkTables -> links body.tableIds, or the pending selection when omitted
func (dc *DashboardController) LinkTables(c *gin.Context) {
	var body struct {
		TableIDs []string `json:"tableIds"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}

	var (
		res services.LinkResult
		err error
	)
	if body.TableIDs != nil {
		res, err = dc.Session.Links.LinkTables(body.TableIDs)
	} else {
		res, err = dc.Session.Links.LinkSelection()
	}
	if err != nil {
		respondCommandError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tables linked", res)
}

// UnlinkTables -> dissolves the group of the given table
func (dc *DashboardController) UnlinkTables(c *gin.Context) {
	members := dc.Session.Links.UnlinkTables(c.Param("table_id"))
	if members == nil {
		members = []string{}
	}
	utils.RespondJSON(c, http.StatusOK, "Tables unlinked", gin.H{"tableIds": members})
}

// ExportTables -> CSV of the floor plan including link groups
func (dc *DashboardController) ExportTables(c *gin.Context) {
	header, rows := dc.Session.TablesCSV()
	if err := utils.WriteCSV(c, "tables.csv", header, rows); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

func (dc *DashboardController) GetReservations(c *gin.Context) {
	selected, ok := dc.Session.Reservations.Selected()
	data := gin.H{
		"date":         dc.Session.Date(),
		"reservations": dc.Session.Reservations.List(),
	}
	if ok {
		data["selected"] = selected
	}
	if id, pending := dc.Session.Status.PendingBill(); pending {
		data["billCaptureFor"] = id
	}
	utils.RespondJSON(c, http.StatusOK, "Reservations", data)
}

// SelectReservation -> opens a reservation in the detail view
func (dc *DashboardController) SelectReservation(c *gin.Context) {
	if !dc.Session.Reservations.Select(c.Param("reservation_id")) {
		utils.RespondJSON(c, http.StatusOK, "Selection cleared", nil)
		return
	}
	r, _ := dc.Session.Reservations.Selected()
	utils.RespondJSON(c, http.StatusOK, "Reservation selected", r)
}

// CreateReservation -> optimistic booking, answered with the temporary id
func (dc *DashboardController) CreateReservation(c *gin.Context) {
	var draft models.ReservationDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tempID, _, err := dc.Session.Bookings.Create(detached(c), draft)
	if err != nil {
		respondCommandError(c, err)
		return
	}
	// the backend may already have replaced the temporary record
	utils.RespondJSON(c, http.StatusAccepted, "Reservation pending confirmation", draft.Reservation(tempID))
}

// EditReservation -> optimistic field edit
func (dc *DashboardController) EditReservation(c *gin.Context) {
	var patch models.ReservationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	id := c.Param("reservation_id")
	if _, err := dc.Session.Bookings.Edit(detached(c), id, patch); err != nil {
		respondCommandError(c, err)
		return
	}
	r, _ := dc.Session.Reservations.Get(id)
	utils.RespondJSON(c, http.StatusAccepted, "Reservation updated", r)
}

// SetStatus -> status transition; completed opens the bill capture instead
func (dc *DashboardController) SetStatus(c *gin.Context) {
	var body struct {
		Status models.ReservationStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	id := c.Param("reservation_id")
	settlement, err := dc.Session.Status.SetStatus(detached(c), id, body.Status)
	if err != nil {
		respondCommandError(c, err)
		return
	}
	if settlement == nil {
		utils.RespondJSON(c, http.StatusOK, "Bill amount required", gin.H{"billCaptureFor": id})
		return
	}
	r, _ := dc.Session.Reservations.Get(id)
	utils.RespondJSON(c, http.StatusAccepted, "Status updated", r)
}

// ConfirmBill -> completes the reservation awaiting a bill amount
func (dc *DashboardController) ConfirmBill(c *gin.Context) {
	var body struct {
		Amount json.RawMessage `json:"amount"` // "125.50", 125.5 or absent
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}

	id, _ := dc.Session.Status.PendingBill()
	if _, err := dc.Session.Status.ConfirmBill(detached(c), rawAmount(body.Amount)); err != nil {
		respondCommandError(c, err)
		return
	}
	r, _ := dc.Session.Reservations.Get(id)
	utils.RespondJSON(c, http.StatusAccepted, "Reservation completed", r)
}

// rawAmount returns the user's input as typed, unquoting JSON strings.
func rawAmount(msg json.RawMessage) string {
	raw := strings.TrimSpace(string(msg))
	if raw == "null" {
		return ""
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(msg, &s); err == nil {
			return s
		}
	}
	return raw
}

func (dc *DashboardController) CancelBill(c *gin.Context) {
	dc.Session.Status.CancelBill()
	utils.RespondJSON(c, http.StatusOK, "Bill capture closed", nil)
}

// SearchGuests -> guest lookup for the booking form
func (dc *DashboardController) SearchGuests(c *gin.Context) {
	customers, err := dc.Session.SearchGuests(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondCommandError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Search results", customers)
}
