package realtime

import (
	"sync"
	"testing"
)

func TestHubPublishDeliversFullSnapshot(t *testing.T) {
	hub := NewHub()

	var got interface{}
	hub.Subscribe(CollectionIncidents, func(snapshot interface{}) {
		got = snapshot
	})

	snapshot := []string{"a", "b", "c"}
	hub.Publish(CollectionIncidents, snapshot)

	list, ok := got.([]string)
	if !ok {
		t.Fatalf("Expected []string snapshot, got %T", got)
	}
	if len(list) != 3 {
		t.Errorf("Expected full snapshot of 3 items, got %d", len(list))
	}
}

func TestHubCollectionsAreIsolated(t *testing.T) {
	hub := NewHub()

	incidentCalls := 0
	userCalls := 0
	hub.Subscribe(CollectionIncidents, func(interface{}) { incidentCalls++ })
	hub.Subscribe(CollectionUsers, func(interface{}) { userCalls++ })

	hub.Publish(CollectionIncidents, nil)
	hub.Publish(CollectionIncidents, nil)
	hub.Publish(CollectionTags, nil)

	if incidentCalls != 2 {
		t.Errorf("Expected 2 incident callbacks, got %d", incidentCalls)
	}
	if userCalls != 0 {
		t.Errorf("Expected 0 user callbacks, got %d", userCalls)
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()

	calls := 0
	unsubscribe := hub.Subscribe(CollectionRoles, func(interface{}) { calls++ })

	hub.Publish(CollectionRoles, nil)
	unsubscribe()
	hub.Publish(CollectionRoles, nil)

	if calls != 1 {
		t.Errorf("Expected 1 callback before unsubscribe, got %d", calls)
	}
}

func TestHubMultipleSubscribersAllReceive(t *testing.T) {
	hub := NewHub()

	var mu sync.Mutex
	received := make(map[int]bool)
	for i := 0; i < 3; i++ {
		i := i
		hub.Subscribe(CollectionAutomationRules, func(interface{}) {
			mu.Lock()
			received[i] = true
			mu.Unlock()
		})
	}

	hub.Publish(CollectionAutomationRules, nil)

	if len(received) != 3 {
		t.Errorf("Expected all 3 subscribers to receive, got %d", len(received))
	}
}

func TestHubConcurrentPublishAndSubscribe(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unsubscribe := hub.Subscribe(CollectionIncidents, func(interface{}) {})
			unsubscribe()
		}()
		go func() {
			defer wg.Done()
			hub.Publish(CollectionIncidents, nil)
		}()
	}
	wg.Wait()
}
