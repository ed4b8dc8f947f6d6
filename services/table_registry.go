package services

import (
	"sort"
	"sync"

	"github.com/yeremiapane/restaurant-dashboard/models"
)

// TableRegistry holds the physical tables of one dashboard session together
// with their local link state. Link state is only mutated through
// LinkManager.
type TableRegistry struct {
	mu     sync.RWMutex
	tables map[string]*models.Table
}

func NewTableRegistry() *TableRegistry {
	return &TableRegistry{tables: make(map[string]*models.Table)}
}

// Load replaces every table and drops all link groups.
func (r *TableRegistry) Load(tables []models.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tables = make(map[string]*models.Table, len(tables))
	for _, t := range tables {
		t := t.Clone()
		t.LinkedWith = nil
		r.tables[t.ID] = &t
	}
}

// Merge refreshes backend fields (number, capacity, status, location) and
// keeps link groups of surviving tables. A group that loses a member is
// dissolved. It returns the number of dissolved groups.
func (r *TableRegistry) Merge(tables []models.Table) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]*models.Table, len(tables))
	for _, t := range tables {
		t := t.Clone()
		t.LinkedWith = nil
		if old, ok := r.tables[t.ID]; ok {
			t.LinkedWith = old.LinkedWith
		}
		next[t.ID] = &t
	}

	dissolved := 0
	for _, old := range r.tables {
		if _, ok := next[old.ID]; ok || len(old.LinkedWith) == 0 {
			continue
		}
		for _, id := range old.LinkedWith {
			if t, ok := next[id]; ok && len(t.LinkedWith) > 0 {
				clearGroup(next, id)
				dissolved++
			}
		}
	}
	r.tables = next
	return dissolved
}

// Get returns a copy of the table.
func (r *TableRegistry) Get(id string) (models.Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tables[id]
	if !ok {
		return models.Table{}, false
	}
	return t.Clone(), true
}

// List returns copies of all tables ordered by display number.
func (r *TableRegistry) List() []models.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Table, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (r *TableRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}

// Capacity returns the table's own capacity, 0 when unknown.
func (r *TableRegistry) Capacity(id string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.tables[id]; ok {
		return t.Capacity
	}
	return 0
}

// DisplayNumber translates a table id to its display number.
func (r *TableRegistry) DisplayNumber(id string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.tables[id]; ok {
		return t.Number, true
	}
	return 0, false
}

// SetStatus updates the seating status. Unknown ids are ignored.
func (r *TableRegistry) SetStatus(id string, status models.TableStatus) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tables[id]
	if !ok {
		return false
	}
	t.Status = status
	return true
}

// link makes the known tables among ids one group and returns the members
// and their combined capacity. Members of other groups have those groups
// dissolved first. Fewer than two known tables changes nothing.
func (r *TableRegistry) link(ids []string) (members []string, capacity, dissolved int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members = r.knownLocked(ids)
	if len(members) < 2 {
		return members, 0, 0
	}
	for _, id := range members {
		if len(r.tables[id].LinkedWith) > 0 {
			clearGroup(r.tables, id)
			dissolved++
		}
	}
	for _, id := range members {
		partners := make([]string, 0, len(members)-1)
		for _, other := range members {
			if other != id {
				partners = append(partners, other)
			}
		}
		r.tables[id].LinkedWith = partners
		capacity += r.tables[id].Capacity
	}
	return members, capacity, dissolved
}

// unlink dissolves the group containing id and returns its former members,
// or nil when id is not linked.
func (r *TableRegistry) unlink(id string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tables[id]
	if !ok || len(t.LinkedWith) == 0 {
		return nil
	}
	return clearGroup(r.tables, id)
}

// known filters ids down to registered tables, dropping duplicates and
// keeping the first occurrence order.
func (r *TableRegistry) known(ids []string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.knownLocked(ids)
}

func (r *TableRegistry) knownLocked(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := r.tables[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// group returns every id reachable from id through LinkedWith, id first.
func (r *TableRegistry) group(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return reachable(r.tables, id)
}

// effectiveCapacity sums the base capacity of id and of every table reachable
// through its links, each counted once.
func (r *TableRegistry) effectiveCapacity(id string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, member := range reachable(r.tables, id) {
		total += r.tables[member].Capacity
	}
	return total
}

func reachable(tables map[string]*models.Table, id string) []string {
	if _, ok := tables[id]; !ok {
		return nil
	}
	seen := map[string]bool{id: true}
	out := []string{id}
	for i := 0; i < len(out); i++ {
		for _, next := range tables[out[i]].LinkedWith {
			if seen[next] {
				continue
			}
			seen[next] = true
			if _, ok := tables[next]; ok {
				out = append(out, next)
			}
		}
	}
	return out
}

func clearGroup(tables map[string]*models.Table, id string) []string {
	members := reachable(tables, id)
	for _, m := range members {
		tables[m].LinkedWith = nil
	}
	return members
}
