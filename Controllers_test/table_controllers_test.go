package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-dashboard/controllers"
	"github.com/yeremiapane/restaurant-dashboard/models"
)

func setupTableRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	tableCtrl := controllers.NewTableController(db)
	router.GET("/tables", tableCtrl.GetAllTables)
	router.POST("/tables", tableCtrl.CreateTable)
	router.GET("/tables/:table_id", tableCtrl.GetTableByID)
	router.PATCH("/tables/:table_id", tableCtrl.UpdateTableStatus)
	router.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
	return router
}

func TestCreateAndListTables(t *testing.T) {
	db := setupTestDB(t)
	router := setupTableRouter(db)

	w, env := doJSON(t, router, http.MethodPost, "/tables", gin.H{"number": 2, "capacity": 4, "location": "Bar"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Table created successfully", env.Message)

	var created models.Table
	decode(t, env.Data, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.TableEmpty, created.Status)

	w, _ = doJSON(t, router, http.MethodPost, "/tables", gin.H{"number": 1, "capacity": 2, "status": "booked"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = doJSON(t, router, http.MethodGet, "/tables", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "List of tables", env.Message)

	var tables []models.Table
	decode(t, env.Data, &tables)
	require.Len(t, tables, 2)
	assert.Equal(t, 1, tables[0].Number)
	assert.Equal(t, models.TableBooked, tables[0].Status)

	w, env = doJSON(t, router, http.MethodGet, "/tables?status=empty", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &tables)
	require.Len(t, tables, 1)
	assert.Equal(t, 2, tables[0].Number)
}

func TestCreateTableRejectsBadInput(t *testing.T) {
	db := setupTestDB(t)
	router := setupTableRouter(db)
	seedTables(t, db)

	tests := []struct {
		name string
		body gin.H
		code int
	}{
		{name: "duplicate number", body: gin.H{"number": 1, "capacity": 2}, code: http.StatusConflict},
		{name: "unknown status", body: gin.H{"number": 9, "capacity": 2, "status": "dirty"}, code: http.StatusBadRequest},
		{name: "no capacity", body: gin.H{"number": 9}, code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := doJSON(t, router, http.MethodPost, "/tables", tt.body)
			assert.Equal(t, tt.code, w.Code)
			assert.False(t, env.Status)
		})
	}
}

func TestGetAvailableTablesForDate(t *testing.T) {
	db := setupTestDB(t)
	router := setupTableRouter(db)
	tables := seedTables(t, db)

	reservations := []models.Reservation{
		{GuestName: "Ada", Date: "2024-05-01", Time: "19:00", PartySize: 2, TableID: tables[0].ID, Status: models.ReservationConfirmed},
		{GuestName: "Bob", Date: "2024-05-01", Time: "20:00", PartySize: 4, TableID: tables[1].ID, Status: models.ReservationCancelled},
		{GuestName: "Cy", Date: "2024-05-02", Time: "20:00", PartySize: 6, TableID: tables[2].ID, Status: models.ReservationPending},
	}
	require.NoError(t, db.Create(&reservations).Error)

	w, env := doJSON(t, router, http.MethodGet, "/tables?date=2024-05-01", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Date            string         `json:"date"`
		AvailableTables []models.Table `json:"availableTables"`
	}
	decode(t, env.Data, &data)
	assert.Equal(t, "2024-05-01", data.Date)
	require.Len(t, data.AvailableTables, 2)
	assert.Equal(t, 2, data.AvailableTables[0].Number)
	assert.Equal(t, 3, data.AvailableTables[1].Number)
}

func TestUpdateTableStatus(t *testing.T) {
	db := setupTestDB(t)
	router := setupTableRouter(db)
	tables := seedTables(t, db)

	w, env := doJSON(t, router, http.MethodPatch, "/tables/"+tables[0].ID, gin.H{"status": "occupied", "capacity": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Table status updated", env.Message)

	var updated models.Table
	decode(t, env.Data, &updated)
	assert.Equal(t, models.TableOccupied, updated.Status)
	assert.Equal(t, 3, updated.Capacity)
	assert.Equal(t, "Window", updated.Location)

	w, _ = doJSON(t, router, http.MethodPatch, "/tables/"+tables[0].ID, gin.H{"status": "dirty"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodPatch, "/tables/missing", gin.H{"status": "empty"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = doJSON(t, router, http.MethodGet, "/tables/"+tables[0].ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &updated)
	assert.Equal(t, models.TableOccupied, updated.Status)
}

func TestDeleteTableWithActiveReservation(t *testing.T) {
	db := setupTestDB(t)
	router := setupTableRouter(db)
	tables := seedTables(t, db)

	r := models.Reservation{GuestName: "Ada", Date: "2024-05-01", Time: "19:00", PartySize: 2, TableID: tables[0].ID}
	require.NoError(t, db.Create(&r).Error)

	w, env := doJSON(t, router, http.MethodDelete, "/tables/"+tables[0].ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, controllers.ErrTableInUse.Error(), env.Message)

	require.NoError(t, db.Model(&r).Update("status", models.ReservationCancelled).Error)

	w, _ = doJSON(t, router, http.MethodDelete, "/tables/"+tables[0].ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Table{}).Count(&count)
	assert.Equal(t, int64(2), count)
}
