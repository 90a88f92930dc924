package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"tillsync/internal/domain"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func newOrchestratorUnderTest(b *fakeCatalogBackend, ob *fakeOrderBackend, conn Connectivity, interval time.Duration) (*Orchestrator, *fakeCatalogStore, *fakeOrderStore) {
	cs := &fakeCatalogStore{}
	os := newFakeOrderStore()
	products := NewProductSyncManager(b, cs, 2, nil)
	orders := NewOrderSyncManager(ob, os, nil)
	return NewOrchestrator(products, orders, conn, interval, nil), cs, os
}

func TestInitialSyncPublishesStatusTransitions(t *testing.T) {
	b := &fakeCatalogBackend{pages: [][]domain.Product{products(1, 1)}}
	conn := NewManualConnectivity(true)
	o, cs, _ := newOrchestratorUnderTest(b, &fakeOrderBackend{}, conn, time.Hour)

	var states []SyncState
	cancel := o.ObserveStatus(func(s Status) {
		states = append(states, s.State)
	})
	defer cancel()

	if err := o.InitialSync(context.Background()); err != nil {
		t.Fatalf("InitialSync: %v", err)
	}
	if cs.checkpoint == nil {
		t.Fatalf("expected catalog checkpoint written")
	}
	want := []SyncState{StateIdle, StateSyncing, StateIdle}
	if len(states) != len(want) {
		t.Fatalf("unexpected transitions %v", states)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("transition %d: got %s want %s", i, states[i], want[i])
		}
	}
}

func TestInitialSyncFailureSetsErrorStatus(t *testing.T) {
	b := &fakeCatalogBackend{pageErr: map[int]error{1: errors.New("unreachable")}}
	conn := NewManualConnectivity(true)
	o, _, _ := newOrchestratorUnderTest(b, &fakeOrderBackend{}, conn, time.Hour)

	if err := o.InitialSync(context.Background()); err == nil {
		t.Fatalf("expected initial sync error")
	}
	status := o.Status()
	if status.State != StateError || status.Message == "" {
		t.Fatalf("expected error status with message, got %+v", status)
	}
}

func TestStartDrainsQueueWhenConnectivityReturns(t *testing.T) {
	checkpoint := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	b := &fakeCatalogBackend{}
	ob := &fakeOrderBackend{remote: domain.Order{RemoteID: 500, Number: "WC-500"}}
	conn := NewManualConnectivity(false)
	o, cs, os := newOrchestratorUnderTest(b, ob, conn, time.Hour)
	cs.checkpoint = &checkpoint
	os.orders = []domain.Order{pendingOrder(1, "key-1", time.Now().UTC())}
	os.nextID = 1

	o.Start()
	defer o.Stop()

	// Still offline: nothing should have been pushed.
	time.Sleep(20 * time.Millisecond)
	if ob.pushCount() != 0 {
		t.Fatalf("no pushes expected while offline")
	}

	conn.SetOnline(true)
	waitFor(t, time.Second, func() bool {
		return os.statusOf(1) == domain.OrderProcessing
	})
	if ob.pushCount() != 1 || ob.calls[0].IdempotencyKey != "key-1" {
		t.Fatalf("expected one push with the stored key, got %+v", ob.calls)
	}
	waitFor(t, time.Second, func() bool {
		return b.sinceCalls() > 0
	})
}

func TestPeriodicCycleRunsDeltaSyncWhileOnline(t *testing.T) {
	checkpoint := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	b := &fakeCatalogBackend{}
	conn := NewManualConnectivity(true)
	o, cs, _ := newOrchestratorUnderTest(b, &fakeOrderBackend{}, conn, 10*time.Millisecond)
	cs.checkpoint = &checkpoint

	o.Start()
	defer o.Stop()

	waitFor(t, time.Second, func() bool {
		return b.sinceCalls() >= 2
	})
	if o.Status().State == StateError {
		t.Fatalf("clean cycles must not leave an error status")
	}
}

func TestCycleErrorDoesNotStopLaterCycles(t *testing.T) {
	checkpoint := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	b := &fakeCatalogBackend{sinceErr: errors.New("flaky")}
	conn := NewManualConnectivity(true)
	o, cs, _ := newOrchestratorUnderTest(b, &fakeOrderBackend{}, conn, 10*time.Millisecond)
	cs.checkpoint = &checkpoint

	o.Start()
	defer o.Stop()

	waitFor(t, time.Second, func() bool {
		return b.sinceCalls() >= 1 && o.Status().State == StateError
	})
	seen := b.sinceCalls()
	waitFor(t, time.Second, func() bool {
		return b.sinceCalls() > seen
	})
	if !cs.checkpointAt().Equal(checkpoint) {
		t.Fatalf("checkpoint must survive failed cycles")
	}
}

func TestStopHaltsBackgroundWork(t *testing.T) {
	checkpoint := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	b := &fakeCatalogBackend{}
	conn := NewManualConnectivity(true)
	o, cs, _ := newOrchestratorUnderTest(b, &fakeOrderBackend{}, conn, 10*time.Millisecond)
	cs.checkpoint = &checkpoint

	o.Start()
	waitFor(t, time.Second, func() bool {
		return b.sinceCalls() >= 1
	})
	o.Stop()

	after := b.sinceCalls()
	time.Sleep(50 * time.Millisecond)
	if b.sinceCalls() != after {
		t.Fatalf("cycles must stop after Stop")
	}
	// Stop is idempotent.
	o.Stop()
}

func TestManualConnectivityNotifiesOnlyOnTransitions(t *testing.T) {
	conn := NewManualConnectivity(false)
	var got []bool
	cancel := conn.Subscribe(func(online bool) {
		got = append(got, online)
	})
	defer cancel()

	conn.SetOnline(false)
	conn.SetOnline(true)
	conn.SetOnline(true)
	conn.SetOnline(false)

	want := []bool{false, true, false}
	if len(got) != len(want) {
		t.Fatalf("unexpected notifications %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notification %d: got %v want %v", i, got[i], want[i])
		}
	}
}
