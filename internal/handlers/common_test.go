package handlers

import (
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/corarez/salt-factory-app-sub000/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Arrival{}, &models.Production{}, &models.Sale{}, &models.Transaction{}, &models.Admin{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type recordedEvent struct {
	Event   string
	Payload any
}

// recordingNotifier captures published events instead of fanning them out.
type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) Publish(event string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{Event: event, Payload: payload})
}

func (n *recordingNotifier) eventNames() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	names := make([]string, len(n.events))
	for i, e := range n.events {
		names[i] = e.Event
	}
	return names
}

func (n *recordingNotifier) last() (recordedEvent, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		return recordedEvent{}, false
	}
	return n.events[len(n.events)-1], true
}
