package Controllers_test

import (
	"context"
	"encoding/csv"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-dashboard/controllers"
	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/services"
)

// stubBackend serves a fixed floor plan and accepts every write unless
// failUpdates is set. A non-nil gate holds updates until it is closed.
type stubBackend struct {
	mu          sync.Mutex
	failUpdates bool
	gate        chan struct{}
	updates     []services.ReservationUpdate
}

func (b *stubBackend) ListTables(ctx context.Context, date string) ([]models.Table, error) {
	return []models.Table{
		{ID: "t1", Number: 1, Capacity: 2, Status: models.TableEmpty, Location: "Window"},
		{ID: "t2", Number: 2, Capacity: 4, Status: models.TableEmpty, Location: "Patio, south"},
		{ID: "t3", Number: 3, Capacity: 6, Status: models.TableBooked},
	}, nil
}

func (b *stubBackend) ListReservations(ctx context.Context, date string) ([]models.Reservation, error) {
	return []models.Reservation{
		{ID: "r1", GuestName: "Ada", Date: date, Time: "19:00", PartySize: 2, TableID: "t1", Status: models.ReservationConfirmed},
	}, nil
}

func (b *stubBackend) CreateReservation(ctx context.Context, draft models.ReservationDraft) (models.Reservation, error) {
	return draft.Reservation("r2"), nil
}

func (b *stubBackend) UpdateReservation(ctx context.Context, id string, upd services.ReservationUpdate) (models.Reservation, error) {
	if b.gate != nil {
		<-b.gate
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates = append(b.updates, upd)
	if b.failUpdates {
		return models.Reservation{}, &services.BackendError{StatusCode: 500, Message: "write failed"}
	}
	return models.Reservation{ID: id}, nil
}

func (b *stubBackend) SearchCustomers(ctx context.Context, query string) ([]models.Customer, error) {
	return []models.Customer{{ID: 1, Name: "Ada Lovelace"}}, nil
}

func (b *stubBackend) updateCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.updates)
}

func setupDashboardRouter(t *testing.T, backend services.Backend) (*gin.Engine, *services.Session) {
	t.Helper()
	session := services.NewSession(backend, nil)
	dc := controllers.NewDashboardController(session)

	router := gin.New()
	router.POST("/refresh", dc.Refresh)
	router.GET("/tables", dc.GetTables)
	router.GET("/tables/export", dc.ExportTables)
	router.POST("/link-mode", dc.EnterLinkMode)
	router.DELETE("/link-mode", dc.ExitLinkMode)
	router.POST("/tables/:table_id/toggle", dc.ToggleSelection)
	router.POST("/links", dc.LinkTables)
	router.DELETE("/links/:table_id", dc.UnlinkTables)
	router.GET("/reservations", dc.GetReservations)
	router.POST("/reservations", dc.CreateReservation)
	router.PATCH("/reservations/:reservation_id", dc.EditReservation)
	router.POST("/reservations/:reservation_id/select", dc.SelectReservation)
	router.POST("/reservations/:reservation_id/status", dc.SetStatus)
	router.POST("/bill", dc.ConfirmBill)
	router.DELETE("/bill", dc.CancelBill)
	router.GET("/guests", dc.SearchGuests)

	w, _ := doJSON(t, router, http.MethodPost, "/refresh?date=2024-05-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	return router, session
}

type floorPlan struct {
	LinkMode  bool                 `json:"linkMode"`
	Selection []string             `json:"selection"`
	Tables    []services.TableView `json:"tables"`
}

func TestDashboardLinkFlow(t *testing.T) {
	router, _ := setupDashboardRouter(t, &stubBackend{})

	doJSON(t, router, http.MethodPost, "/link-mode", nil)
	doJSON(t, router, http.MethodPost, "/tables/t1/toggle", nil)
	w, env := doJSON(t, router, http.MethodPost, "/links", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var code struct {
		Code string `json:"code"`
	}
	decode(t, env.Data, &code)
	assert.Equal(t, services.CodeInsufficientSelection, code.Code)

	doJSON(t, router, http.MethodPost, "/tables/t2/toggle", nil)
	w, env = doJSON(t, router, http.MethodPost, "/links", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res services.LinkResult
	decode(t, env.Data, &res)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, 6, res.CombinedCapacity)

	w, env = doJSON(t, router, http.MethodGet, "/tables", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var plan floorPlan
	decode(t, env.Data, &plan)
	assert.False(t, plan.LinkMode)
	require.Len(t, plan.Tables, 3)
	assert.Equal(t, []int{2}, plan.Tables[0].LinkedNumbers)
	assert.Equal(t, 6, plan.Tables[0].EffectiveCapacity)
	assert.Equal(t, 6, plan.Tables[2].EffectiveCapacity)

	w, _ = doJSON(t, router, http.MethodGet, "/tables/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"t2", "Table 2", "4", "empty", "Patio, south", "1"}, records[2])

	w, env = doJSON(t, router, http.MethodDelete, "/links/t2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var unlinked struct {
		TableIDs []string `json:"tableIds"`
	}
	decode(t, env.Data, &unlinked)
	assert.ElementsMatch(t, []string{"t1", "t2"}, unlinked.TableIDs)

	w, _ = doJSON(t, router, http.MethodPost, "/links", gin.H{"tableIds": []string{"t1", "t3"}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDashboardBillCapture(t *testing.T) {
	backend := &stubBackend{}
	router, session := setupDashboardRouter(t, backend)

	w, env := doJSON(t, router, http.MethodPost, "/reservations/r1/status", gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bill amount required", env.Message)

	w, env = doJSON(t, router, http.MethodPost, "/bill", gin.H{"amount": "abc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var code struct {
		Code string `json:"code"`
	}
	decode(t, env.Data, &code)
	assert.Equal(t, services.CodeInvalidAmount, code.Code)
	r, _ := session.Reservations.Get("r1")
	assert.Equal(t, models.ReservationConfirmed, r.Status)

	w, env = doJSON(t, router, http.MethodPost, "/bill", gin.H{"amount": 42.5})
	require.Equal(t, http.StatusAccepted, w.Code)
	decode(t, env.Data, &r)
	assert.Equal(t, models.ReservationCompleted, r.Status)
	require.NotNil(t, r.BillAmount)
	assert.Equal(t, 42.5, *r.BillAmount)

	assert.Eventually(t, func() bool { return backend.updateCount() == 1 }, time.Second, 10*time.Millisecond)

	w, _ = doJSON(t, router, http.MethodPost, "/bill", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardStatusRollback(t *testing.T) {
	gate := make(chan struct{})
	backend := &stubBackend{failUpdates: true, gate: gate}
	router, session := setupDashboardRouter(t, backend)

	w, env := doJSON(t, router, http.MethodPost, "/reservations/r1/status", gin.H{"status": "seated"})
	require.Equal(t, http.StatusAccepted, w.Code)
	var r models.Reservation
	decode(t, env.Data, &r)
	assert.Equal(t, models.ReservationSeated, r.Status)

	close(gate)

	assert.Eventually(t, func() bool {
		r, _ := session.Reservations.Get("r1")
		return r.Status == models.ReservationConfirmed
	}, time.Second, 10*time.Millisecond)

	w, _ = doJSON(t, router, http.MethodPost, "/reservations/r1/status", gin.H{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardCreateReservation(t *testing.T) {
	router, session := setupDashboardRouter(t, &stubBackend{})

	w, env := doJSON(t, router, http.MethodPost, "/reservations", gin.H{
		"guestName": "Grace", "date": "2024-05-01", "time": "20:00", "partySize": 4, "tableId": "t2",
	})
	require.Equal(t, http.StatusAccepted, w.Code)
	var temp models.Reservation
	decode(t, env.Data, &temp)
	assert.True(t, strings.HasPrefix(temp.ID, services.TempIDPrefix))

	assert.Eventually(t, func() bool {
		_, ok := session.Reservations.Get("r2")
		return ok
	}, time.Second, 10*time.Millisecond)
	assert.Len(t, session.Reservations.List(), 2)

	w, _ = doJSON(t, router, http.MethodPost, "/reservations", gin.H{
		"guestName": "Grace", "date": "2024-05-01", "time": "20:00", "partySize": 4, "tableId": "t9",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, router, http.MethodPatch, "/reservations/r2", gin.H{"specialRequests": "birthday"})
	require.Equal(t, http.StatusAccepted, w.Code)
	var edited models.Reservation
	decode(t, env.Data, &edited)
	assert.Equal(t, "birthday", edited.SpecialRequests)

	w, env = doJSON(t, router, http.MethodPost, "/reservations/r2/select", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Reservation selected", env.Message)

	w, env = doJSON(t, router, http.MethodGet, "/guests?q=ada", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var guests []models.Customer
	decode(t, env.Data, &guests)
	assert.Len(t, guests, 1)
}
