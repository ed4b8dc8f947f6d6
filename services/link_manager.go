package services

import (
	"fmt"
	"sync"

	"github.com/yeremiapane/restaurant-dashboard/utils"
)

// LinkResult describes a committed link group.
type LinkResult struct {
	TableIDs         []string `json:"tableIds"`
	Count            int      `json:"count"`
	CombinedCapacity int      `json:"combinedCapacity"`
}

// LinkManager groups tables into linked parties and runs the interactive
// link mode. Link groups are local to the session and never persisted.
type LinkManager struct {
	registry *TableRegistry
	notifier Notifier

	mu        sync.Mutex
	linkMode  bool
	selection []string
}

func NewLinkManager(registry *TableRegistry, notifier Notifier) *LinkManager {
	return &LinkManager{
		registry: registry,
		notifier: orDiscard(notifier),
	}
}

func (lm *LinkManager) EnterLinkMode() {
	lm.mu.Lock()
	lm.linkMode = true
	lm.mu.Unlock()

	lm.notifier.Notify(Notification{Kind: NotifyInfo, Event: EventLinkMode, Message: "Link mode on", Data: true})
}

// ExitLinkMode leaves link mode and drops the uncommitted selection.
func (lm *LinkManager) ExitLinkMode() {
	lm.mu.Lock()
	lm.linkMode = false
	lm.selection = nil
	lm.mu.Unlock()

	lm.notifier.Notify(Notification{Kind: NotifyInfo, Event: EventLinkMode, Message: "Link mode off", Data: false})
}

func (lm *LinkManager) InLinkMode() bool {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.linkMode
}

// ToggleSelection adds id to the pending selection, or removes it when
// already selected. Outside link mode it does nothing. It reports whether id
// is selected afterwards.
func (lm *LinkManager) ToggleSelection(id string) bool {
	lm.mu.Lock()
	if !lm.linkMode {
		lm.mu.Unlock()
		return false
	}

	selected := true
	for i, s := range lm.selection {
		if s == id {
			lm.selection = append(lm.selection[:i:i], lm.selection[i+1:]...)
			selected = false
			break
		}
	}
	if selected {
		lm.selection = append(lm.selection, id)
	}
	current := append([]string(nil), lm.selection...)
	lm.mu.Unlock()

	lm.notifier.Notify(Notification{Kind: NotifyInfo, Event: EventSelectionChanged, Data: current})
	return selected
}

// Selection returns the pending selection in click order.
func (lm *LinkManager) Selection() []string {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return append([]string(nil), lm.selection...)
}

// ComputeCombinedCapacity sums the capacities of ids. Unknown ids add 0 and
// duplicates are counted once.
func (lm *LinkManager) ComputeCombinedCapacity(ids []string) int {
	total := 0
	for _, id := range lm.registry.known(ids) {
		total += lm.registry.Capacity(id)
	}
	return total
}

// LinkTables makes ids one link group. Fewer than two known tables fails with
// ErrInsufficientSelection and leaves everything untouched. On success link
// mode is exited and the selection cleared.
func (lm *LinkManager) LinkTables(ids []string) (LinkResult, error) {
	members, capacity, dissolved := lm.registry.link(ids)
	if len(members) < 2 {
		countValidation(ErrInsufficientSelection)
		lm.notifier.Notify(Notification{
			Kind:    NotifyError,
			Event:   EventValidationFailed,
			Message: ErrInsufficientSelection.Message,
			Data:    CodeInsufficientSelection,
		})
		return LinkResult{}, ErrInsufficientSelection
	}

	if dissolved > 0 {
		linkGroupsDissolved.Add(float64(dissolved))
	}
	linkGroupsCreated.Inc()

	lm.mu.Lock()
	lm.linkMode = false
	lm.selection = nil
	lm.mu.Unlock()

	res := LinkResult{
		TableIDs:         members,
		Count:            len(members),
		CombinedCapacity: capacity,
	}
	utils.InfoLogger.Printf("Linked %d tables (capacity %d)", res.Count, res.CombinedCapacity)
	lm.notifier.Notify(Notification{
		Kind:    NotifySuccess,
		Event:   EventTablesLinked,
		Message: fmt.Sprintf("Linked %d tables, %d seats combined", res.Count, res.CombinedCapacity),
		Data:    res,
	})
	return res, nil
}

// LinkSelection links the pending selection.
func (lm *LinkManager) LinkSelection() (LinkResult, error) {
	return lm.LinkTables(lm.Selection())
}

// UnlinkTables dissolves the whole group that id belongs to and returns the
// former members. An unlinked or unknown id is a no-op.
func (lm *LinkManager) UnlinkTables(id string) []string {
	members := lm.registry.unlink(id)
	if members == nil {
		return nil
	}
	linkGroupsDissolved.Inc()

	utils.InfoLogger.Printf("Unlinked %d tables", len(members))
	lm.notifier.Notify(Notification{
		Kind:    NotifySuccess,
		Event:   EventTablesUnlinked,
		Message: fmt.Sprintf("Unlinked %d tables", len(members)),
		Data:    members,
	})
	return members
}

// LinkGroup returns the other members of id's group.
func (lm *LinkManager) LinkGroup(id string) []string {
	t, ok := lm.registry.Get(id)
	if !ok {
		return nil
	}
	return t.LinkedWith
}

// EffectiveCapacity is the table's own capacity plus that of every table
// reachable through its links.
func (lm *LinkManager) EffectiveCapacity(id string) int {
	return lm.registry.effectiveCapacity(id)
}
