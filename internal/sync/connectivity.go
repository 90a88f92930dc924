package sync

import (
	"context"
	"net/http"
	"sync"
	"time"

	"tillsync/internal/observe"
)

// Connectivity is the observable online/offline signal consumed by the
// orchestrator. How the flag is detected is outside the core's contract.
type Connectivity interface {
	Online() bool
	// Subscribe delivers the current flag immediately and again on every
	// change. The returned func cancels the subscription.
	Subscribe(fn func(online bool)) func()
}

// ManualConnectivity is a Connectivity whose flag is flipped by the caller.
// Used by embedders that bring their own network detection, and by tests.
type ManualConnectivity struct {
	mu     sync.Mutex
	online bool
	value  *observe.Value[bool]
}

func NewManualConnectivity(online bool) *ManualConnectivity {
	return &ManualConnectivity{online: online, value: observe.NewValue(online)}
}

func (c *ManualConnectivity) Online() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

// SetOnline updates the flag; subscribers are only notified on transitions.
func (c *ManualConnectivity) SetOnline(online bool) {
	c.mu.Lock()
	if c.online == online {
		c.mu.Unlock()
		return
	}
	c.online = online
	c.mu.Unlock()
	c.value.Set(online)
}

func (c *ManualConnectivity) Subscribe(fn func(bool)) func() {
	return c.value.Subscribe(fn)
}

// Prober derives connectivity by polling an HTTP endpoint. Any response,
// including an error status, counts as online: the probe answers "is the
// network there", not "is the backend healthy".
type Prober struct {
	url      string
	interval time.Duration
	client   *http.Client
	inner    *ManualConnectivity
}

func NewProber(url string, interval time.Duration) *Prober {
	return &Prober{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: 5 * time.Second},
		inner:    NewManualConnectivity(false),
	}
}

func (p *Prober) Online() bool {
	return p.inner.Online()
}

func (p *Prober) Subscribe(fn func(bool)) func() {
	return p.inner.Subscribe(fn)
}

// Run probes immediately and then on every tick until ctx is cancelled.
func (p *Prober) Run(ctx context.Context) {
	p.probe(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.probe(ctx)
		}
	}
}

func (p *Prober) probe(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		p.inner.SetOnline(false)
		return
	}
	resp, err := p.client.Do(req)
	if err != nil {
		p.inner.SetOnline(false)
		return
	}
	resp.Body.Close()
	p.inner.SetOnline(true)
}
