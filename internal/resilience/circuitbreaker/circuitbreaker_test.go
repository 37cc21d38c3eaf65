package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func testConfig() Config {
	return Config{
		Name:             "test",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          50 * time.Millisecond,
		FailureThreshold: 1.0,
		MinRequests:      3,
	}
}

func TestCircuitBreaker_SuccessKeepsClosed(t *testing.T) {
	cb := New(testConfig())

	result, err := cb.Execute(func() (interface{}, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %v, want ok", result)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("state = %s, want closed", cb.State())
	}
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := New(testConfig())
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		if _, err := cb.Execute(func() (interface{}, error) { return nil, boom }); err == nil {
			t.Fatalf("attempt %d: expected error", i+1)
		}
	}

	if !cb.IsOpen() {
		t.Fatalf("expected open circuit, state = %s", cb.State())
	}

	// Open circuit rejects without invoking the function.
	invoked := false
	_, err := cb.Execute(func() (interface{}, error) {
		invoked = true
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if invoked {
		t.Error("function must not run while circuit is open")
	}
}

func TestCircuitBreaker_RecoversAfterTimeout(t *testing.T) {
	cb := New(testConfig())
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, boom })
	}
	if !cb.IsOpen() {
		t.Fatalf("expected open circuit, state = %s", cb.State())
	}

	time.Sleep(60 * time.Millisecond)

	// Half-open probe succeeds and closes the circuit.
	if _, err := cb.Execute(func() (interface{}, error) { return nil, nil }); err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("state = %s, want closed", cb.State())
	}
}
