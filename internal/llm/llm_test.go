package llm

import (
	"context"
	"testing"
)

type countingProvider struct {
	calls int
}

func (c *countingProvider) Name() string { return "counting" }

func (c *countingProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	c.calls++
	return &CompletionResponse{Content: "ok"}, nil
}

func TestNewProviderOpenAIRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewProvider("openai", "gpt-4o-mini"); err == nil {
		t.Fatal("expected an error without OPENAI_API_KEY")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	p, err := NewProvider("openai", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("expected provider name openai, got %q", p.Name())
	}
}

func TestNewProviderOllama(t *testing.T) {
	p, err := NewProvider("ollama", "llama3")
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.Name() != "ollama" {
		t.Errorf("expected provider name ollama, got %q", p.Name())
	}
}

func TestNewProviderUnsupported(t *testing.T) {
	if _, err := NewProvider("carrier-pigeon", "x"); err == nil {
		t.Fatal("expected an error for an unsupported provider")
	}
}

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	inner := &countingProvider{}
	limited := NewRateLimitedProvider(inner, 10)

	for i := 0; i < 5; i++ {
		if _, err := limited.Complete(context.Background(), CompletionRequest{}); err != nil {
			t.Fatalf("Complete %d: %v", i, err)
		}
	}
	if inner.calls != 5 {
		t.Errorf("expected 5 calls, got %d", inner.calls)
	}
	if limited.Name() != "counting" {
		t.Errorf("expected the wrapped name, got %q", limited.Name())
	}
}

func TestRateLimiterHonorsCancellation(t *testing.T) {
	inner := &countingProvider{}
	limited := NewRateLimitedProvider(inner, 1)

	// Drain the single token.
	if _, err := limited.Complete(context.Background(), CompletionRequest{}); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := limited.Complete(ctx, CompletionRequest{}); err == nil {
		t.Fatal("expected a cancellation error once the bucket is empty")
	}
	if inner.calls != 1 {
		t.Errorf("expected the second call to never reach the provider, got %d calls", inner.calls)
	}
}
