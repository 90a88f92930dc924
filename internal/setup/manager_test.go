package setup

import (
	"context"
	"errors"
	"testing"

	"tillsync/internal/backend"
	"tillsync/internal/domain"
)

type stubBackend struct {
	backend.Backend
	status      backend.ConnectionStatus
	currency    string
	currencyErr error
	validations int
}

func (s *stubBackend) ValidateConnection(_ context.Context) backend.ConnectionStatus {
	s.validations++
	return s.status
}

func (s *stubBackend) FetchStoreCurrency(_ context.Context) (string, error) {
	return s.currency, s.currencyErr
}

type stubConfigStore struct {
	saved   *domain.StoreConfig
	saveErr error
	deleted bool
}

func (s *stubConfigStore) SaveStoreConfig(_ context.Context, cfg domain.StoreConfig) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = &cfg
	return nil
}

func (s *stubConfigStore) DeleteStoreConfig(_ context.Context) error {
	s.saved = nil
	s.deleted = true
	return nil
}

func (s *stubConfigStore) StoreConfig(_ context.Context) (*domain.StoreConfig, error) {
	if s.saved == nil {
		return nil, domain.ErrNotFound
	}
	return s.saved, nil
}

func factoryFor(b backend.Backend, gotCfg *domain.StoreConfig) BackendFactory {
	return func(cfg domain.StoreConfig) backend.Backend {
		*gotCfg = cfg
		return b
	}
}

func TestValidateCredentialsSuccess(t *testing.T) {
	b := &stubBackend{status: backend.Connected("My Store"), currency: "EUR"}
	store := &stubConfigStore{}
	var gotCfg domain.StoreConfig
	m := NewManager(store, factoryFor(b, &gotCfg), nil)

	status, err := m.ValidateCredentials(context.Background(), " https://shop.example.com/ ", " ck_1 ", " cs_2 ")
	if err != nil {
		t.Fatalf("ValidateCredentials: %v", err)
	}
	if status.State != backend.StateConnected || status.StoreName != "My Store" {
		t.Fatalf("unexpected status %+v", status)
	}
	if gotCfg.SiteURL != "https://shop.example.com" || gotCfg.ConsumerKey != "ck_1" || gotCfg.ConsumerSecret != "cs_2" {
		t.Fatalf("candidate config not normalized: %+v", gotCfg)
	}
	if m.State().Phase != PhaseValidated {
		t.Fatalf("expected PhaseValidated, got %s", m.State().Phase)
	}
}

func TestValidateCredentialsRejectsBlankInput(t *testing.T) {
	b := &stubBackend{status: backend.Connected("My Store")}
	store := &stubConfigStore{}
	var gotCfg domain.StoreConfig
	m := NewManager(store, factoryFor(b, &gotCfg), nil)

	status, err := m.ValidateCredentials(context.Background(), "https://shop.example.com", "", "cs_2")
	if err != nil {
		t.Fatalf("ValidateCredentials: %v", err)
	}
	if status.State != backend.StateInvalidCredentials {
		t.Fatalf("expected invalid credentials, got %+v", status)
	}
	if b.validations != 0 {
		t.Fatalf("blank input must not reach the backend")
	}
}

func TestValidateCredentialsBackendRejection(t *testing.T) {
	b := &stubBackend{status: backend.InvalidCredentials()}
	store := &stubConfigStore{}
	var gotCfg domain.StoreConfig
	m := NewManager(store, factoryFor(b, &gotCfg), nil)

	status, err := m.ValidateCredentials(context.Background(), "https://shop.example.com", "ck", "cs")
	if err != nil {
		t.Fatalf("ValidateCredentials: %v", err)
	}
	if status.State != backend.StateInvalidCredentials {
		t.Fatalf("unexpected status %+v", status)
	}
	if m.State().Phase != PhaseError {
		t.Fatalf("expected PhaseError, got %s", m.State().Phase)
	}
	if _, err := m.SaveConfiguration(context.Background()); !errors.Is(err, ErrNotValidated) {
		t.Fatalf("save after a failed validation must return ErrNotValidated, got %v", err)
	}
}

func TestSaveConfigurationPersistsValidatedConfig(t *testing.T) {
	b := &stubBackend{status: backend.Connected("My Store"), currency: "USD"}
	store := &stubConfigStore{}
	var gotCfg domain.StoreConfig
	m := NewManager(store, factoryFor(b, &gotCfg), nil)

	if _, err := m.ValidateCredentials(context.Background(), "https://shop.example.com", "ck", "cs"); err != nil {
		t.Fatalf("ValidateCredentials: %v", err)
	}
	saved, err := m.SaveConfiguration(context.Background())
	if err != nil {
		t.Fatalf("SaveConfiguration: %v", err)
	}
	if saved.Currency != "USD" {
		t.Fatalf("expected resolved currency saved, got %+v", saved)
	}
	if store.saved == nil || store.saved.SiteURL != "https://shop.example.com" {
		t.Fatalf("config not persisted: %+v", store.saved)
	}
	if m.State().Phase != PhaseComplete {
		t.Fatalf("expected PhaseComplete, got %s", m.State().Phase)
	}

	complete, err := m.IsSetupComplete(context.Background())
	if err != nil || !complete {
		t.Fatalf("expected setup complete, got %v %v", complete, err)
	}
}

func TestSaveConfigurationWithoutValidation(t *testing.T) {
	m := NewManager(&stubConfigStore{}, func(domain.StoreConfig) backend.Backend { return nil }, nil)
	if _, err := m.SaveConfiguration(context.Background()); !errors.Is(err, ErrNotValidated) {
		t.Fatalf("expected ErrNotValidated, got %v", err)
	}
}

func TestClearConfigurationResetsWizard(t *testing.T) {
	b := &stubBackend{status: backend.Connected("My Store"), currency: "USD"}
	store := &stubConfigStore{}
	var gotCfg domain.StoreConfig
	m := NewManager(store, factoryFor(b, &gotCfg), nil)

	if _, err := m.ValidateCredentials(context.Background(), "https://shop.example.com", "ck", "cs"); err != nil {
		t.Fatalf("ValidateCredentials: %v", err)
	}
	if _, err := m.SaveConfiguration(context.Background()); err != nil {
		t.Fatalf("SaveConfiguration: %v", err)
	}

	if err := m.ClearConfiguration(context.Background()); err != nil {
		t.Fatalf("ClearConfiguration: %v", err)
	}
	if !store.deleted {
		t.Fatalf("expected persisted config deleted")
	}
	if m.State().Phase != PhaseIdle {
		t.Fatalf("expected PhaseIdle after clear, got %s", m.State().Phase)
	}
	complete, err := m.IsSetupComplete(context.Background())
	if err != nil || complete {
		t.Fatalf("expected setup incomplete after clear, got %v %v", complete, err)
	}
	if _, err := m.SaveConfiguration(context.Background()); !errors.Is(err, ErrNotValidated) {
		t.Fatalf("validated config must be dropped on clear, got %v", err)
	}
}

func TestValidateCurrencyFailureSurfacesError(t *testing.T) {
	b := &stubBackend{status: backend.Connected("My Store"), currencyErr: errors.New("settings endpoint down")}
	store := &stubConfigStore{}
	var gotCfg domain.StoreConfig
	m := NewManager(store, factoryFor(b, &gotCfg), nil)

	if _, err := m.ValidateCredentials(context.Background(), "https://shop.example.com", "ck", "cs"); err == nil {
		t.Fatalf("expected currency fetch error")
	}
	if m.State().Phase != PhaseError {
		t.Fatalf("expected PhaseError, got %s", m.State().Phase)
	}
	if _, err := m.SaveConfiguration(context.Background()); !errors.Is(err, ErrNotValidated) {
		t.Fatalf("expected ErrNotValidated, got %v", err)
	}
}
