package llm

import (
	"context"
	"errors"
	"testing"
)

type scriptedProvider struct {
	failures int
	calls    int
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	p.calls++
	if p.calls <= p.failures {
		return "", errors.New("transient")
	}
	return "ok", nil
}

func (p *scriptedProvider) Chat(ctx context.Context, system string, messages []Message) (string, error) {
	return "", errors.New("not implemented")
}

func (p *scriptedProvider) IsConfigured() bool { return true }

func TestGenerateWithRetrySucceedsFirstAttempt(t *testing.T) {
	p := &scriptedProvider{}
	text, err := GenerateWithRetry(context.Background(), p, "hola", 100)
	if err != nil {
		t.Fatal(err)
	}
	if text != "ok" || p.calls != 1 {
		t.Errorf("text=%q calls=%d", text, p.calls)
	}
}

func TestGenerateWithRetryRecoversAfterFailures(t *testing.T) {
	p := &scriptedProvider{failures: 2}
	text, err := GenerateWithRetry(context.Background(), p, "hola", 100)
	if err != nil {
		t.Fatal(err)
	}
	if text != "ok" || p.calls != 3 {
		t.Errorf("text=%q calls=%d", text, p.calls)
	}
}

func TestGenerateWithRetryExhaustsBudget(t *testing.T) {
	p := &scriptedProvider{failures: 10}
	_, err := GenerateWithRetry(context.Background(), p, "hola", 100)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if p.calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", p.calls)
	}
}

func TestGenerateWithRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &scriptedProvider{failures: 10}
	_, err := GenerateWithRetry(ctx, p, "hola", 100)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if p.calls != 1 {
		t.Errorf("expected a single attempt before backoff cancellation, got %d", p.calls)
	}
}
