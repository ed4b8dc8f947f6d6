package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/utils"
	"gorm.io/gorm"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable -> adds a table to the floor plan
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Number   int                `json:"number" binding:"required,gt=0"`
		Capacity int                `json:"capacity" binding:"required,gt=0"`
		Status   models.TableStatus `json:"status"` // optional, default "empty"
		Location string             `json:"location"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidTableStatus)
		return
	}

	var existing int64
	if err := tc.DB.Model(&models.Table{}).Where("number = ?", req.Number).Count(&existing).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if existing > 0 {
		utils.RespondError(c, http.StatusConflict, ErrTableNumberTaken)
		return
	}

	table := models.Table{
		Number:   req.Number,
		Capacity: req.Capacity,
		Status:   req.Status,
		Location: req.Location,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New table created: %d (capacity=%d)", table.Number, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> every table, ?status= filters. With ?date= only tables not
// held by an active reservation that day, under data.availableTables.
func (tc *TableController) GetAllTables(c *gin.Context) {
	query := tc.DB.Order("number ASC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	date := c.Query("date")
	if date != "" {
		held := tc.DB.Model(&models.Reservation{}).
			Select("table_id").
			Where("date = ? AND status IN ? AND table_id IS NOT NULL", date, activeStatuses)
		query = query.Where("id NOT IN (?)", held)
	}

	tables := []models.Table{}
	if err := query.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if date != "" {
		utils.RespondJSON(c, http.StatusOK, "Available tables for "+date, gin.H{
			"date":            date,
			"availableTables": tables,
		})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail of one table
func (tc *TableController) GetTableByID(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, "id = ?", c.Param("table_id")).Error; err != nil {
		respondLookupError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTableStatus -> change seating status (also used by POS integrations)
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	var body struct {
		Status   models.TableStatus `json:"status" binding:"required"`
		Capacity *int               `json:"capacity" binding:"omitempty,gt=0"`
		Location *string            `json:"location"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !body.Status.Valid() {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidTableStatus)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, "id = ?", c.Param("table_id")).Error; err != nil {
		respondLookupError(c, err)
		return
	}

	table.Status = body.Status
	if body.Capacity != nil {
		table.Capacity = *body.Capacity
	}
	if body.Location != nil {
		table.Location = *body.Location
	}
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Table %d status changed to %s", table.Number, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

// DeleteTable -> removes a table that no active reservation points at
func (tc *TableController) DeleteTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, "id = ?", c.Param("table_id")).Error; err != nil {
		respondLookupError(c, err)
		return
	}

	var active int64
	tc.DB.Model(&models.Reservation{}).
		Where("table_id = ? AND status IN ?", table.ID, activeStatuses).
		Count(&active)
	if active > 0 {
		utils.RespondError(c, http.StatusConflict, ErrTableInUse)
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Table %d deleted", table.Number)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": table.ID})
}

// tableStats counts tables per seating status
func (tc *TableController) tableStats() (map[string]int64, error) {
	stats := map[string]int64{}
	var total int64
	for _, s := range []models.TableStatus{models.TableEmpty, models.TableOccupied, models.TableBooked} {
		var n int64
		if err := tc.DB.Model(&models.Table{}).Where("status = ?", s).Count(&n).Error; err != nil {
			return nil, err
		}
		stats[string(s)] = n
		total += n
	}
	stats["total"] = total
	return stats, nil
}

// activeStatuses hold a table for their date.
var activeStatuses = []models.ReservationStatus{
	models.ReservationPending,
	models.ReservationConfirmed,
	models.ReservationSeated,
}

func respondLookupError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondError(c, http.StatusInternalServerError, err)
}
