package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/ziadkadry99/shop-scout/internal/llm"
)

type mockProvider struct {
	content string
	err     error
	lastReq llm.CompletionRequest
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &llm.CompletionResponse{Content: m.content, Model: "mock"}, nil
}

func TestEnrichParsesStrings(t *testing.T) {
	mock := &mockProvider{content: `{"material":"mesh","style":"running","size":9}`}
	e := NewLLMEnricher(mock)

	got, err := e.Enrich(context.Background(), "sneakers", map[string]string{"brand": "nike"})
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}

	if got["material"] != "mesh" || got["style"] != "running" {
		t.Errorf("unexpected enrichment: %v", got)
	}
	if got["size"] != "9" {
		t.Errorf("expected the numeric value stringified, got %q", got["size"])
	}
	if !mock.lastReq.JSONMode {
		t.Error("expected a JSON-mode request")
	}
}

func TestEnrichDropsNonScalars(t *testing.T) {
	mock := &mockProvider{content: `{"colors":["red","blue"],"brand":"nike","nested":{"a":1}}`}
	e := NewLLMEnricher(mock)

	got, err := e.Enrich(context.Background(), "sneakers", nil)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(got) != 1 || got["brand"] != "nike" {
		t.Errorf("expected only the scalar entry, got %v", got)
	}
}

func TestEnrichProviderError(t *testing.T) {
	e := NewLLMEnricher(&mockProvider{err: errors.New("rate limited")})
	if _, err := e.Enrich(context.Background(), "sneakers", nil); err == nil {
		t.Fatal("expected the provider error to propagate")
	}
}

func TestEnrichMalformedJSON(t *testing.T) {
	e := NewLLMEnricher(&mockProvider{content: "sorry, I can't"})
	if _, err := e.Enrich(context.Background(), "sneakers", nil); err == nil {
		t.Fatal("expected a parse error")
	}
}
