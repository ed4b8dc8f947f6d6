package Controllers_test

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-dashboard/controllers"
	"github.com/yeremiapane/restaurant-dashboard/models"
)

func setupReservationRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	resCtrl := controllers.NewReservationController(db)
	router.GET("/reservations", resCtrl.GetAllReservations)
	router.GET("/reservations/export", resCtrl.ExportReservations)
	router.POST("/reservations", resCtrl.CreateReservation)
	router.GET("/reservations/:reservation_id", resCtrl.GetReservationByID)
	router.PUT("/reservations/:reservation_id", resCtrl.UpdateReservation)
	return router
}

func TestCreateReservationCountsVisit(t *testing.T) {
	db := setupTestDB(t)
	router := setupReservationRouter(db)
	tables := seedTables(t, db)

	customer := models.Customer{Name: "Ada Lovelace"}
	require.NoError(t, db.Create(&customer).Error)

	w, env := doJSON(t, router, http.MethodPost, "/reservations", gin.H{
		"customerId": customer.ID,
		"guestName":  "Ada Lovelace",
		"date":       "2024-05-01",
		"time":       "19:30",
		"partySize":  2,
		"tableId":    tables[0].ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var r models.Reservation
	decode(t, env.Data, &r)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, models.ReservationPending, r.Status)
	assert.Equal(t, tables[0].ID, r.TableID)

	require.NoError(t, db.First(&customer, customer.ID).Error)
	assert.Equal(t, 1, customer.VisitCount)

	w, env = doJSON(t, router, http.MethodGet, "/reservations/"+r.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Reservation detail", env.Message)
}

func TestCreateReservationValidation(t *testing.T) {
	db := setupTestDB(t)
	router := setupReservationRouter(db)
	tables := seedTables(t, db)

	valid := func() gin.H {
		return gin.H{"guestName": "Ada", "date": "2024-05-01", "time": "19:30", "partySize": 2, "tableId": tables[0].ID}
	}
	tests := []struct {
		name   string
		mutate func(gin.H)
	}{
		{name: "missing guest", mutate: func(b gin.H) { delete(b, "guestName") }},
		{name: "bad date", mutate: func(b gin.H) { b["date"] = "May 1" }},
		{name: "zero party", mutate: func(b gin.H) { b["partySize"] = 0 }},
		{name: "unknown table", mutate: func(b gin.H) { b["tableId"] = "nope" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := valid()
			tt.mutate(body)
			w, env := doJSON(t, router, http.MethodPost, "/reservations", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, env.Status)
		})
	}

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUpdateReservationStatusAndBill(t *testing.T) {
	db := setupTestDB(t)
	router := setupReservationRouter(db)
	tables := seedTables(t, db)

	r := models.Reservation{GuestName: "Ada", Date: "2024-05-01", Time: "19:00", PartySize: 2, TableID: tables[0].ID}
	require.NoError(t, db.Create(&r).Error)
	url := "/reservations/" + r.ID

	var got models.Reservation

	w, env := doJSON(t, router, http.MethodPut, url, gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &got)
	assert.Equal(t, models.ReservationCompleted, got.Status)
	require.NotNil(t, got.BillAmount)
	assert.Equal(t, 0.0, *got.BillAmount)

	w, env = doJSON(t, router, http.MethodPut, url, gin.H{"status": "completed", "total_amount": 125.5})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &got)
	assert.Equal(t, 125.5, *got.BillAmount)

	// leaving completed is allowed
	w, env = doJSON(t, router, http.MethodPut, url, gin.H{"status": "seated", "tableId": tables[1].ID})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &got)
	assert.Equal(t, models.ReservationSeated, got.Status)
	assert.Equal(t, tables[1].ID, got.TableID)

	w, _ = doJSON(t, router, http.MethodPut, url, gin.H{"status": "no_show"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, router, http.MethodPut, url, gin.H{"total_amount": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, controllers.ErrNegativeAmount.Error(), env.Message)

	w, _ = doJSON(t, router, http.MethodPut, url, gin.H{"tableId": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodPut, "/reservations/missing", gin.H{"status": "seated"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAllReservationsFilters(t *testing.T) {
	db := setupTestDB(t)
	router := setupReservationRouter(db)
	tables := seedTables(t, db)

	reservations := []models.Reservation{
		{GuestName: "Late", Date: "2024-05-01", Time: "21:00", PartySize: 2, TableID: tables[0].ID},
		{GuestName: "Early", Date: "2024-05-01", Time: "18:00", PartySize: 2, TableID: tables[1].ID, Status: models.ReservationConfirmed},
		{GuestName: "Other day", Date: "2024-05-02", Time: "18:00", PartySize: 2, TableID: tables[1].ID},
	}
	require.NoError(t, db.Create(&reservations).Error)

	w, env := doJSON(t, router, http.MethodGet, "/reservations?date=2024-05-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Reservation
	decode(t, env.Data, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Early", list[0].GuestName)

	w, env = doJSON(t, router, http.MethodGet, "/reservations?status=confirmed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Early", list[0].GuestName)
}

func TestExportReservationsCSV(t *testing.T) {
	db := setupTestDB(t)
	router := setupReservationRouter(db)
	tables := seedTables(t, db)

	bill := 80.0
	r := models.Reservation{
		GuestName: `Smith, "Jo"`, Date: "2024-05-01", Time: "19:00", PartySize: 3,
		TableID: tables[2].ID, Status: models.ReservationCompleted, BillAmount: &bill,
	}
	require.NoError(t, db.Create(&r).Error)

	w, _ := doJSON(t, router, http.MethodGet, "/reservations/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "reservations.csv")

	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "guest", records[0][1])
	assert.Equal(t, `Smith, "Jo"`, records[1][1])
	assert.Equal(t, "3", records[1][7])
	assert.Equal(t, "80.00", records[1][9])
}

func TestReservationTableLookupsReportDBErrors(t *testing.T) {
	db := setupTestDB(t)
	router := setupReservationRouter(db)
	tables := seedTables(t, db)

	r := models.Reservation{
		GuestName: "Ada", Date: "2024-05-01", Time: "19:00", PartySize: 2,
		TableID: tables[0].ID, Status: models.ReservationConfirmed,
	}
	require.NoError(t, db.Create(&r).Error)
	require.NoError(t, db.Migrator().DropTable(&models.Table{}))

	w, env := doJSON(t, router, http.MethodPut, "/reservations/"+r.ID, gin.H{"tableId": tables[1].ID})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEqual(t, controllers.ErrUnknownTable.Error(), env.Message)

	w, env = doJSON(t, router, http.MethodGet, "/reservations/export", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Status)
}
