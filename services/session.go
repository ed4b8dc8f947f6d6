package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/utils"
)

// Session is the dashboard state for one restaurant floor.
type Session struct {
	Tables       *TableRegistry
	Links        *LinkManager
	Reservations *ReservationStore
	Status       *StatusMachine
	Bookings     *Bookings

	backend  Backend
	notifier Notifier

	mu   sync.Mutex
	date string
}

func NewSession(backend Backend, notifier Notifier) *Session {
	notifier = orDiscard(notifier)
	tables := NewTableRegistry()
	store := NewReservationStore()
	return &Session{
		Tables:       tables,
		Links:        NewLinkManager(tables, notifier),
		Reservations: store,
		Status:       NewStatusMachine(store, backend, notifier),
		Bookings:     NewBookings(store, tables, backend, notifier),
		backend:      backend,
		notifier:     notifier,
	}
}

// Refresh reloads tables and the reservations of date. Link groups of tables
// that still exist survive the reload.
func (s *Session) Refresh(ctx context.Context, date string) error {
	if err := s.RefreshTables(ctx); err != nil {
		return err
	}

	list, err := s.backend.ListReservations(ctx, date)
	if err != nil {
		return fmt.Errorf("load reservations: %w", err)
	}
	s.Reservations.Load(list)

	s.mu.Lock()
	s.date = date
	s.mu.Unlock()

	utils.InfoLogger.Printf("Session refreshed: %d tables, %d reservations (date=%q)", s.Tables.Len(), len(list), date)
	return nil
}

// RefreshTables re-reads tables from the backend and merges them into the
// registry.
func (s *Session) RefreshTables(ctx context.Context) error {
	tables, err := s.backend.ListTables(ctx, "")
	if err != nil {
		return fmt.Errorf("load tables: %w", err)
	}
	if dissolved := s.Tables.Merge(tables); dissolved > 0 {
		linkGroupsDissolved.Add(float64(dissolved))
		s.notifier.Notify(Notification{
			Kind:    NotifyInfo,
			Event:   EventTablesUnlinked,
			Message: fmt.Sprintf("%d link groups dissolved after tables changed", dissolved),
		})
	}
	s.notifier.Notify(Notification{Kind: NotifyInfo, Event: EventTablesRefreshed, Data: s.TableViews()})
	return nil
}

// Date is the reservation day currently loaded.
func (s *Session) Date() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.date
}

// AvailableTables asks the backend which tables are free on date.
func (s *Session) AvailableTables(ctx context.Context, date string) ([]models.Table, error) {
	return s.backend.ListTables(ctx, date)
}

func (s *Session) SearchGuests(ctx context.Context, query string) ([]models.Customer, error) {
	return s.backend.SearchCustomers(ctx, query)
}

// TableView is a table as the floor plan renders it.
type TableView struct {
	models.Table
	Name              string `json:"name"`
	LinkedNumbers     []int  `json:"linkedNumbers,omitempty"`
	EffectiveCapacity int    `json:"effectiveCapacity"`
	Selected          bool   `json:"selected"`
}

func (s *Session) TableViews() []TableView {
	selected := make(map[string]bool)
	for _, id := range s.Links.Selection() {
		selected[id] = true
	}

	tables := s.Tables.List()
	out := make([]TableView, 0, len(tables))
	for _, t := range tables {
		out = append(out, TableView{
			Table:             t,
			Name:              tableName(t.Number),
			LinkedNumbers:     s.linkedNumbers(t.ID),
			EffectiveCapacity: s.Links.EffectiveCapacity(t.ID),
			Selected:          selected[t.ID],
		})
	}
	return out
}

// TablesCSV returns the export header and rows for the floor plan.
func (s *Session) TablesCSV() ([]string, [][]string) {
	header := []string{"id", "name", "capacity", "status", "location", "linked"}
	var rows [][]string
	for _, t := range s.Tables.List() {
		linked := make([]string, 0, len(t.LinkedWith))
		for _, n := range s.linkedNumbers(t.ID) {
			linked = append(linked, strconv.Itoa(n))
		}
		rows = append(rows, []string{
			t.ID,
			tableName(t.Number),
			strconv.Itoa(t.Capacity),
			string(t.Status),
			t.Location,
			strings.Join(linked, ";"),
		})
	}
	return header, rows
}

// linkedNumbers lists the display numbers of every other table in id's group.
func (s *Session) linkedNumbers(id string) []int {
	var nums []int
	for _, member := range s.Tables.group(id) {
		if member == id {
			continue
		}
		if n, ok := s.Tables.DisplayNumber(member); ok {
			nums = append(nums, n)
		}
	}
	sort.Ints(nums)
	return nums
}

func tableName(number int) string {
	return "Table " + strconv.Itoa(number)
}
