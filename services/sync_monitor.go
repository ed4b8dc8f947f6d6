package services

import (
	"context"
	"time"

	"github.com/yeremiapane/restaurant-dashboard/utils"
)

// SyncMonitor periodically re-reads the floor plan so statuses set elsewhere
// (a POS marking a table occupied) reach the dashboard. Link groups are kept.
type SyncMonitor struct {
	Session  *Session
	StopChan chan struct{}
	Interval time.Duration
}

func NewSyncMonitor(session *Session) *SyncMonitor {
	return &SyncMonitor{
		Session:  session,
		StopChan: make(chan struct{}),
		Interval: 15 * time.Second,
	}
}

func (sm *SyncMonitor) Start() {
	if sm.Interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(sm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sm.sync()
			case <-sm.StopChan:
				return
			}
		}
	}()
}

func (sm *SyncMonitor) Stop() {
	close(sm.StopChan)
}

func (sm *SyncMonitor) sync() {
	if err := sm.Session.RefreshTables(context.Background()); err != nil {
		utils.ErrorLogger.Errorf("Table sync failed: %v", err)
	}
}
