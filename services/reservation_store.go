package services

import (
	"sync"

	"github.com/yeremiapane/restaurant-dashboard/models"
)

// ReservationStore is the session's in-memory copy of reservations. It also
// tracks the record open in the detail view so both stay consistent.
type ReservationStore struct {
	mu       sync.RWMutex
	items    []models.Reservation
	selected *models.Reservation

	rev     uint64
	pending map[fieldKey][]pendingWrite
}

func NewReservationStore() *ReservationStore {
	return &ReservationStore{pending: make(map[fieldKey][]pendingWrite)}
}

type fieldKey struct {
	id    string
	field string
}

// pendingWrite is an optimistic write of one field that the backend has not
// answered yet. prior is the record as it was before the write.
type pendingWrite struct {
	rev   uint64
	prior models.Reservation
}

// ApplyPending runs fn on the record with id and remembers the overwritten
// value of each field until Settle closes the returned revision.
func (s *ReservationStore) ApplyPending(id string, fields []string, fn func(*models.Reservation)) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return 0, false
	}
	prior := s.items[i].Clone()
	fn(&s.items[i])
	if s.selected != nil && s.selected.ID == id {
		fn(s.selected)
	}

	s.rev++
	for _, f := range fields {
		k := fieldKey{id: id, field: f}
		s.pending[k] = append(s.pending[k], pendingWrite{rev: s.rev, prior: prior})
	}
	return s.rev, true
}

// Settle closes the pending write rev and reports whether a field was rolled
// back. Per field:
//   - success drops the write and every older one, the backend now holds it
//   - failure of the newest write restores the value from before it
//   - failure of an older write hands its prior value to the next newer one,
//     so the field falls back past every write the backend refused
func (s *ReservationStore) Settle(id string, rev uint64, fields []string, ok bool) (restored bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range fields {
		k := fieldKey{id: id, field: f}
		chain := s.pending[k]
		j := -1
		for n := range chain {
			if chain[n].rev == rev {
				j = n
				break
			}
		}
		if j < 0 {
			continue
		}

		switch {
		case ok:
			chain = chain[j+1:]
		case j == len(chain)-1:
			s.restoreField(id, f, chain[j].prior)
			restored = true
			chain = chain[:j]
		default:
			chain[j+1].prior = chain[j].prior
			chain = append(chain[:j], chain[j+1:]...)
		}

		if len(chain) == 0 {
			delete(s.pending, k)
		} else {
			s.pending[k] = chain
		}
	}
	return restored
}

func (s *ReservationStore) restoreField(id, field string, prior models.Reservation) {
	if i := s.indexOf(id); i >= 0 {
		copyField(&s.items[i], prior, field)
	}
	if s.selected != nil && s.selected.ID == id {
		copyField(s.selected, prior, field)
	}
}

// Field names tracked by ApplyPending.
const (
	fieldGuestName       = "guestName"
	fieldGuestEmail      = "guestEmail"
	fieldDate            = "date"
	fieldTime            = "time"
	fieldEndTime         = "endTime"
	fieldPartySize       = "partySize"
	fieldTableID         = "tableId"
	fieldStatus          = "status"
	fieldSpecialRequests = "specialRequests"
	fieldBillAmount      = "billAmount"
)

// patchFields lists the fields p sets.
func patchFields(p models.ReservationPatch) []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(p.GuestName != nil, fieldGuestName)
	add(p.GuestEmail != nil, fieldGuestEmail)
	add(p.Date != nil, fieldDate)
	add(p.Time != nil, fieldTime)
	add(p.EndTime != nil, fieldEndTime)
	add(p.PartySize != nil, fieldPartySize)
	add(p.TableID != nil, fieldTableID)
	add(p.Status != nil, fieldStatus)
	add(p.SpecialRequests != nil, fieldSpecialRequests)
	add(p.BillAmount != nil, fieldBillAmount)
	return out
}

func copyField(dst *models.Reservation, src models.Reservation, field string) {
	switch field {
	case fieldGuestName:
		dst.GuestName = src.GuestName
	case fieldGuestEmail:
		dst.GuestEmail = src.GuestEmail
	case fieldDate:
		dst.Date = src.Date
	case fieldTime:
		dst.Time = src.Time
	case fieldEndTime:
		dst.EndTime = src.EndTime
	case fieldPartySize:
		dst.PartySize = src.PartySize
	case fieldTableID:
		dst.TableID = src.TableID
	case fieldStatus:
		dst.Status = src.Status
	case fieldSpecialRequests:
		dst.SpecialRequests = src.SpecialRequests
	case fieldBillAmount:
		dst.BillAmount = nil
		if src.BillAmount != nil {
			dst.BillAmount = floatPtr(*src.BillAmount)
		}
	}
}

// Load replaces the list. The selected record is refreshed from the new list
// when still present.
func (s *ReservationStore) Load(list []models.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]models.Reservation, len(list))
	for i, r := range list {
		s.items[i] = r.Clone()
	}
	if s.selected != nil {
		if i := s.indexOf(s.selected.ID); i >= 0 {
			sel := s.items[i].Clone()
			s.selected = &sel
		}
	}
}

// Add prepends a record so new bookings show first.
func (s *ReservationStore) Add(r models.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]models.Reservation{r.Clone()}, s.items...)
}

func (s *ReservationStore) Get(id string) (models.Reservation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i].Clone(), true
	}
	return models.Reservation{}, false
}

func (s *ReservationStore) List() []models.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Reservation, len(s.items))
	for i, r := range s.items {
		out[i] = r.Clone()
	}
	return out
}

// Select opens id in the detail view. Unknown ids clear the selection.
func (s *ReservationStore) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		sel := s.items[i].Clone()
		s.selected = &sel
		return true
	}
	s.selected = nil
	return false
}

func (s *ReservationStore) Selected() (models.Reservation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return models.Reservation{}, false
	}
	return s.selected.Clone(), true
}

// UpsertLocal merges patch into the record with id and into the selected
// record when it is the same entity. Unknown ids are a no-op.
func (s *ReservationStore) UpsertLocal(id string, patch models.ReservationPatch) bool {
	return s.Update(id, patch.Apply)
}

// Update runs fn on the record with id and on the matching selected record.
// It reports whether a record was found.
func (s *ReservationStore) Update(id string, fn func(*models.Reservation)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	fn(&s.items[i])
	if s.selected != nil && s.selected.ID == id {
		fn(s.selected)
	}
	return true
}

// Replace swaps the temporary record for the backend one at the same
// position.
func (s *ReservationStore) Replace(tempID string, final models.Reservation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(tempID)
	if i < 0 {
		return false
	}
	s.items[i] = final.Clone()
	if s.selected != nil && s.selected.ID == tempID {
		sel := final.Clone()
		s.selected = &sel
	}
	return true
}

// Discard removes a temporary record.
func (s *ReservationStore) Discard(tempID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(tempID)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	if s.selected != nil && s.selected.ID == tempID {
		s.selected = nil
	}
	return true
}

func (s *ReservationStore) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
