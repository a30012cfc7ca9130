package genai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
)

// mockDetector is a test mock for the Detector interface
type mockDetector struct {
	detectFunc  func(ctx context.Context, text, languageCode string) (*Detection, error)
	provider    string
	calls       int
	closeCalled bool
	closeErr    error
}

func (m *mockDetector) Detect(ctx context.Context, text, languageCode string) (*Detection, error) {
	m.calls++
	if m.detectFunc != nil {
		return m.detectFunc(ctx, text, languageCode)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDetector) Provider() string {
	return m.provider
}

func (m *mockDetector) Close() error {
	m.closeCalled = true
	return m.closeErr
}

func nluCount(t *testing.T, m *metrics.Metrics, provider, status string) float64 {
	t.Helper()
	var out dto.Metric
	if err := m.NLURequestsTotal.WithLabelValues(provider, status).Write(&out); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return out.GetCounter().GetValue()
}

func succeed(intent string) func(context.Context, string, string) (*Detection, error) {
	return func(context.Context, string, string) (*Detection, error) {
		return &Detection{Intent: intent, Confidence: 0.9}, nil
	}
}

func fail(err error) func(context.Context, string, string) (*Detection, error) {
	return func(context.Context, string, string) (*Detection, error) {
		return nil, err
	}
}

func TestFallbackDetector_PrimarySucceeds(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	primary := &mockDetector{provider: "gemini", detectFunc: succeed(IntentHostelFee)}
	fallback := &mockDetector{provider: "groq", detectFunc: succeed(IntentCourseDescription)}

	det, err := NewFallbackDetector(primary, fallback, time.Second, m).Detect(context.Background(), "hostel fee", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if det.Intent != IntentHostelFee {
		t.Errorf("Intent = %q, want primary result", det.Intent)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback should not be called, got %d calls", fallback.calls)
	}
	if got := nluCount(t, m, "gemini", StatusOK); got != 1 {
		t.Errorf("gemini ok count = %v, want 1", got)
	}
}

func TestFallbackDetector_FallsBack(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	primary := &mockDetector{provider: "gemini", detectFunc: fail(errors.New("boom"))}
	fallback := &mockDetector{provider: "groq", detectFunc: succeed(IntentPlacementRecord)}

	det, err := NewFallbackDetector(primary, fallback, time.Second, m).Detect(context.Background(), "placements", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if det.Intent != IntentPlacementRecord {
		t.Errorf("Intent = %q, want fallback result", det.Intent)
	}
	if primary.calls != 1 {
		t.Errorf("primary should be tried once, got %d", primary.calls)
	}
	if got := nluCount(t, m, "gemini", StatusError); got != 1 {
		t.Errorf("gemini error count = %v, want 1", got)
	}
	if got := nluCount(t, m, "groq", StatusOK); got != 1 {
		t.Errorf("groq ok count = %v, want 1", got)
	}
}

func TestFallbackDetector_BothFail(t *testing.T) {
	t.Parallel()

	primaryErr := errors.New("primary down")
	fallbackErr := errors.New("fallback down")
	primary := &mockDetector{provider: "gemini", detectFunc: fail(primaryErr)}
	fallback := &mockDetector{provider: "groq", detectFunc: fail(fallbackErr)}

	_, err := NewFallbackDetector(primary, fallback, time.Second, nil).Detect(context.Background(), "x", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, primaryErr) || !errors.Is(err, fallbackErr) {
		t.Errorf("error should wrap both failures, got %v", err)
	}
}

func TestFallbackDetector_NoFallbackOnCancel(t *testing.T) {
	t.Parallel()

	primary := &mockDetector{provider: "gemini", detectFunc: fail(context.Canceled)}
	fallback := &mockDetector{provider: "groq", detectFunc: succeed(IntentHostelFee)}

	_, err := NewFallbackDetector(primary, fallback, time.Second, nil).Detect(context.Background(), "x", "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback should not be called, got %d calls", fallback.calls)
	}
}

func TestFallbackDetector_PerCallTimeout(t *testing.T) {
	t.Parallel()

	primary := &mockDetector{provider: "gemini", detectFunc: func(ctx context.Context, _, _ string) (*Detection, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	fallback := &mockDetector{provider: "groq", detectFunc: succeed(IntentIndustryPartners)}

	det, err := NewFallbackDetector(primary, fallback, 20*time.Millisecond, nil).Detect(context.Background(), "mou", "")
	if err != nil {
		t.Fatalf("timeout on primary should fall back, got %v", err)
	}
	if det.Intent != IntentIndustryPartners {
		t.Errorf("Intent = %q", det.Intent)
	}
}

func TestFallbackDetector_NilPrimary(t *testing.T) {
	t.Parallel()

	if _, err := NewFallbackDetector(nil, nil, 0, nil).Detect(context.Background(), "x", ""); err == nil {
		t.Error("expected error without primary")
	}
	var f *FallbackDetector
	if f.Provider() != "" || f.Close() != nil {
		t.Error("nil FallbackDetector should be inert")
	}
}

func TestFallbackDetector_Close(t *testing.T) {
	t.Parallel()

	closeErr := errors.New("close failed")
	primary := &mockDetector{provider: "gemini"}
	fallback := &mockDetector{provider: "groq", closeErr: closeErr}

	f := NewFallbackDetector(primary, fallback, 0, nil)
	if f.Provider() != "gemini" {
		t.Errorf("Provider() = %q, want gemini", f.Provider())
	}
	if err := f.Close(); !errors.Is(err, closeErr) {
		t.Errorf("Close() = %v, want %v", err, closeErr)
	}
	if !primary.closeCalled || !fallback.closeCalled {
		t.Error("both detectors should be closed")
	}
}
