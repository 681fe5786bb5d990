package core

import (
	"context"
	"errors"
	"testing"
)

type testAdapter struct {
	name   string
	closed bool
}

func (a *testAdapter) Type() string { return "test" }
func (a *testAdapter) Name() string { return a.name }

func (a *testAdapter) Search(ctx context.Context, term string) ([]Match, error) {
	return nil, nil
}

func (a *testAdapter) ConfigType() interface{}            { return &struct{}{} }
func (a *testAdapter) SetConfig(config interface{}) error { return nil }
func (a *testAdapter) GetConfig() interface{}             { return &struct{}{} }

func (a *testAdapter) Close() error {
	a.closed = true
	return nil
}

func (a *testAdapter) Factory(instanceName string, config interface{}) (SourceAdapter, error) {
	return &testAdapter{name: instanceName}, nil
}

type validatingConfig struct {
	err error
}

func (c *validatingConfig) Validate() error { return c.err }

func TestRegisterPrototypeRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()

	if err := registry.RegisterPrototype("test", &testAdapter{}); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := registry.RegisterPrototype("test", &testAdapter{}); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestCreateSource(t *testing.T) {
	registry := NewRegistry()
	if err := registry.RegisterPrototype("test", &testAdapter{}); err != nil {
		t.Fatalf("registering prototype: %v", err)
	}

	if err := registry.CreateSource("tickets", "test", nil); err != nil {
		t.Fatalf("creating source: %v", err)
	}

	adapter, err := registry.GetSource("tickets")
	if err != nil {
		t.Fatalf("getting source: %v", err)
	}
	if adapter.Name() != "tickets" {
		t.Errorf("expected instance name tickets, got %q", adapter.Name())
	}
}

func TestCreateSourceUnknownType(t *testing.T) {
	registry := NewRegistry()
	if err := registry.CreateSource("tickets", "missing", nil); err == nil {
		t.Fatal("expected error for unknown prototype")
	}
}

func TestCreateSourceValidatesConfig(t *testing.T) {
	registry := NewRegistry()
	if err := registry.RegisterPrototype("test", &testAdapter{}); err != nil {
		t.Fatalf("registering prototype: %v", err)
	}

	badConfig := &validatingConfig{err: errors.New("base_url required")}
	if err := registry.CreateSource("tickets", "test", badConfig); err == nil {
		t.Fatal("expected invalid config to fail source creation")
	}
}

func TestListSourcesSorted(t *testing.T) {
	registry := NewRegistry()
	if err := registry.RegisterPrototype("test", &testAdapter{}); err != nil {
		t.Fatalf("registering prototype: %v", err)
	}

	for _, name := range []string{"wiki", "changeset", "ticket"} {
		if err := registry.CreateSource(name, "test", nil); err != nil {
			t.Fatalf("creating source %s: %v", name, err)
		}
	}

	names := registry.ListSources()
	want := []string{"changeset", "ticket", "wiki"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected sorted order %v, got %v", want, names)
		}
	}
}

func TestCloseReleasesSources(t *testing.T) {
	registry := NewRegistry()
	if err := registry.RegisterPrototype("test", &testAdapter{}); err != nil {
		t.Fatalf("registering prototype: %v", err)
	}
	if err := registry.CreateSource("tickets", "test", nil); err != nil {
		t.Fatalf("creating source: %v", err)
	}

	adapter, err := registry.GetSource("tickets")
	if err != nil {
		t.Fatalf("getting source: %v", err)
	}

	if err := registry.Close(); err != nil {
		t.Fatalf("closing registry: %v", err)
	}
	if !adapter.(*testAdapter).closed {
		t.Error("expected adapter closed")
	}
	if _, err := registry.GetSource("tickets"); err == nil {
		t.Error("expected sources cleared after close")
	}
}

func TestPrototypeConfigType(t *testing.T) {
	registry := NewRegistry()
	if err := registry.RegisterPrototype("test", &testAdapter{}); err != nil {
		t.Fatalf("registering prototype: %v", err)
	}

	cfg, err := registry.PrototypeConfigType("test")
	if err != nil {
		t.Fatalf("getting config type: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config type instance")
	}

	if _, err := registry.PrototypeConfigType("missing"); err == nil {
		t.Fatal("expected error for unknown prototype")
	}
}
