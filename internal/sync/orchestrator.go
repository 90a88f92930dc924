package sync

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"tillsync/internal/observe"
)

// DefaultInterval is the delta-sync period used when the config leaves it unset.
const DefaultInterval = 30 * time.Second

// Orchestrator supervises background sync: a periodic delta cycle and a
// connectivity reactor that drains the order queue the moment the till comes
// back online. It is the sole entry point to both managers while running, and
// every cycle body goes through one mutex, so the timer and the reactor can
// never race two drains over the same order.
type Orchestrator struct {
	products *ProductSyncManager
	orders   *OrderSyncManager
	conn     Connectivity
	interval time.Duration
	logger   *log.Logger

	status *observe.Value[Status]

	cycleMu sync.Mutex

	runMu       sync.Mutex
	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup
}

func NewOrchestrator(products *ProductSyncManager, orders *OrderSyncManager, conn Connectivity, interval time.Duration, logger *log.Logger) *Orchestrator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Orchestrator{
		products: products,
		orders:   orders,
		conn:     conn,
		interval: interval,
		logger:   logger,
		status:   observe.NewValue(idle()),
	}
}

// Status returns the latest sync status snapshot.
func (o *Orchestrator) Status() Status {
	return o.status.Get()
}

// ObserveStatus subscribes to status snapshots.
func (o *Orchestrator) ObserveStatus(fn func(Status)) func() {
	return o.status.Subscribe(fn)
}

// Progress exposes the product sync progress for UI consumption.
func (o *Orchestrator) Progress() Progress {
	return o.products.Progress()
}

// PendingOrderCount exposes the unsynced order count.
func (o *Orchestrator) PendingOrderCount() int64 {
	return o.orders.PendingOrderCount()
}

// Online reports the current connectivity flag.
func (o *Orchestrator) Online() bool {
	return o.conn.Online()
}

// InitialSync runs the full catalog sync once, during setup, surfacing the
// outcome through Status.
func (o *Orchestrator) InitialSync(ctx context.Context) error {
	o.cycleMu.Lock()
	defer o.cycleMu.Unlock()

	o.status.Set(syncing())
	err := o.products.InitialSync(ctx)
	if err != nil {
		o.status.Set(failed(err.Error()))
		return err
	}
	o.status.Set(idle())
	return nil
}

// Start launches the periodic timer and the connectivity reactor. Calling
// Start on a running orchestrator restarts it.
func (o *Orchestrator) Start() {
	o.Stop()

	o.runMu.Lock()
	defer o.runMu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(o.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if o.conn.Online() {
					o.runCycle(ctx)
				}
			}
		}
	}()

	// The reactor goroutine does the work; the subscription callback only
	// signals it, so whoever flips the connectivity flag never blocks on a
	// drain.
	wake := make(chan struct{}, 1)
	o.unsubscribe = o.conn.Subscribe(func(online bool) {
		if !online {
			return
		}
		select {
		case wake <- struct{}{}:
		default:
		}
	})

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-wake:
				o.logger.Printf("sync: connectivity restored, draining order queue")
				o.onOnline(ctx)
			}
		}
	}()

	o.logger.Printf("sync: orchestrator started (interval %s)", o.interval)
}

// Stop cancels the timer and the reactor and waits for in-flight cycles to
// finish. Locally saved orders stay PENDING_SYNC and are retried by the next
// Start.
func (o *Orchestrator) Stop() {
	o.runMu.Lock()
	defer o.runMu.Unlock()

	if o.cancel == nil {
		return
	}
	o.unsubscribe()
	o.cancel()
	o.wg.Wait()
	o.cancel = nil
	o.unsubscribe = nil
	o.logger.Printf("sync: orchestrator stopped")
}

func (o *Orchestrator) onOnline(ctx context.Context) {
	o.cycleMu.Lock()
	defer o.cycleMu.Unlock()

	if err := o.orders.DrainPendingOrders(ctx); err != nil {
		o.logger.Printf("sync: drain on reconnect failed: %v", err)
	}
	o.deltaCycleLocked(ctx)
}

func (o *Orchestrator) runCycle(ctx context.Context) {
	o.cycleMu.Lock()
	defer o.cycleMu.Unlock()
	o.deltaCycleLocked(ctx)
}

// deltaCycleLocked is one sync cycle: delta product sync, then a queue drain.
// Errors become status, never panics. A bad cycle must not stop future ones.
func (o *Orchestrator) deltaCycleLocked(ctx context.Context) {
	o.status.Set(syncing())
	if err := o.products.DeltaSync(ctx); err != nil {
		o.status.Set(failed(err.Error()))
	} else {
		o.status.Set(idle())
	}

	if err := o.orders.DrainPendingOrders(ctx); err != nil {
		o.logger.Printf("sync: drain failed: %v", err)
	}
}
