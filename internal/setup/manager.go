// Package setup drives the first-run wizard: validate store credentials
// against the live backend, then persist them for every later boot.
package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"tillsync/internal/backend"
	"tillsync/internal/domain"
	"tillsync/internal/observe"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseValidated  Phase = "validated"
	PhaseSaving     Phase = "saving"
	PhaseComplete   Phase = "complete"
	PhaseError      Phase = "error"
)

// State is the observable wizard state. Connection carries the backend's
// verdict once validation finishes, Message explains PhaseError.
type State struct {
	Phase      Phase                     `json:"phase"`
	Connection *backend.ConnectionStatus `json:"connection,omitempty"`
	Message    string                    `json:"message,omitempty"`
}

// ErrNotValidated is returned by SaveConfiguration when no candidate config
// has passed validation in this session.
var ErrNotValidated = errors.New("setup: credentials not validated")

type configStore interface {
	SaveStoreConfig(ctx context.Context, cfg domain.StoreConfig) error
	DeleteStoreConfig(ctx context.Context) error
	StoreConfig(ctx context.Context) (*domain.StoreConfig, error)
}

// BackendFactory builds a backend client for a candidate config. Injected so
// validation can run against a store that is not configured yet.
type BackendFactory func(cfg domain.StoreConfig) backend.Backend

type Manager struct {
	store      configStore
	newBackend BackendFactory
	logger     *log.Logger

	mu        sync.Mutex
	validated *domain.StoreConfig
	state     *observe.Value[State]
}

func NewManager(store configStore, newBackend BackendFactory, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Manager{
		store:      store,
		newBackend: newBackend,
		logger:     logger,
		state:      observe.NewValue(State{Phase: PhaseIdle}),
	}
}

// State returns the latest wizard state snapshot.
func (m *Manager) State() State {
	return m.state.Get()
}

// ObserveState subscribes to wizard state snapshots.
func (m *Manager) ObserveState(fn func(State)) func() {
	return m.state.Subscribe(fn)
}

// IsSetupComplete reports whether a store config is already persisted.
func (m *Manager) IsSetupComplete(ctx context.Context) (bool, error) {
	cfg, err := m.store.StoreConfig(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load store config: %w", err)
	}
	return cfg != nil, nil
}

// ValidateCredentials checks the candidate credentials against the live
// store. On success it also resolves the store currency and holds the
// validated config for a later SaveConfiguration. The returned status is the
// backend's verdict; the error covers validation-flow failures only.
func (m *Manager) ValidateCredentials(ctx context.Context, siteURL, consumerKey, consumerSecret string) (backend.ConnectionStatus, error) {
	candidate := domain.StoreConfig{
		SiteURL:        strings.TrimRight(strings.TrimSpace(siteURL), "/"),
		ConsumerKey:    strings.TrimSpace(consumerKey),
		ConsumerSecret: strings.TrimSpace(consumerSecret),
	}
	if candidate.SiteURL == "" || candidate.ConsumerKey == "" || candidate.ConsumerSecret == "" {
		status := backend.InvalidCredentials()
		m.setState(State{Phase: PhaseError, Connection: &status, Message: "site URL and credentials are required"})
		return status, nil
	}

	m.setState(State{Phase: PhaseValidating})
	client := m.newBackend(candidate)

	status := client.ValidateConnection(ctx)
	if status.State != backend.StateConnected {
		m.logger.Printf("setup: validation failed for %s: %s", candidate.SiteURL, status.State)
		m.setValidated(nil)
		m.setState(State{Phase: PhaseError, Connection: &status, Message: status.Message})
		return status, nil
	}

	currency, err := client.FetchStoreCurrency(ctx)
	if err != nil {
		m.setValidated(nil)
		m.setState(State{Phase: PhaseError, Connection: &status, Message: err.Error()})
		return status, fmt.Errorf("fetch store currency: %w", err)
	}
	candidate.Currency = currency

	m.setValidated(&candidate)
	m.setState(State{Phase: PhaseValidated, Connection: &status})
	m.logger.Printf("setup: credentials validated for %s (currency %s)", candidate.SiteURL, currency)
	return status, nil
}

// SaveConfiguration persists the config validated earlier in this session.
func (m *Manager) SaveConfiguration(ctx context.Context) (domain.StoreConfig, error) {
	m.mu.Lock()
	validated := m.validated
	m.mu.Unlock()
	if validated == nil {
		return domain.StoreConfig{}, ErrNotValidated
	}

	m.setState(State{Phase: PhaseSaving})
	if err := m.store.SaveStoreConfig(ctx, *validated); err != nil {
		m.setState(State{Phase: PhaseError, Message: err.Error()})
		return domain.StoreConfig{}, fmt.Errorf("save store config: %w", err)
	}
	m.setState(State{Phase: PhaseComplete})
	m.logger.Printf("setup: store config saved for %s", validated.SiteURL)
	return *validated, nil
}

// ClearConfiguration deletes the persisted config and resets the wizard.
func (m *Manager) ClearConfiguration(ctx context.Context) error {
	if err := m.store.DeleteStoreConfig(ctx); err != nil {
		return fmt.Errorf("delete store config: %w", err)
	}
	m.Reset()
	m.logger.Printf("setup: store config cleared")
	return nil
}

// Reset drops the in-session validated config and returns to PhaseIdle.
func (m *Manager) Reset() {
	m.setValidated(nil)
	m.setState(State{Phase: PhaseIdle})
}

func (m *Manager) setValidated(cfg *domain.StoreConfig) {
	m.mu.Lock()
	m.validated = cfg
	m.mu.Unlock()
}

func (m *Manager) setState(s State) {
	m.state.Set(s)
}
