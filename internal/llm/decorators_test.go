package llm

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/akaun/internal/store"
)

const goodTip = `{"tip":"Susut nilai = kos x kadar.","steps":["Kos 10000","Kadar 10%"]}`

func fastRetry(p Provider) *RetryProvider {
	r := WithRetry(p, RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 4 * time.Millisecond, Multiplier: 2}, nil)
	r.sleep = func(context.Context, time.Duration) error { return nil }
	return r
}

func TestRetry(t *testing.T) {
	down := &ErrProviderUnavailable{Err: errors.New("down")}
	invalid := &ErrInvalidResponse{Err: errors.New("bad")}

	tests := []struct {
		name      string
		script    []MockReply
		wantErr   bool
		wantCalls int
	}{
		{"first try", []MockReply{{Content: []byte(goodTip)}}, false, 1},
		{"transient then ok", []MockReply{{Err: down}, {Content: []byte(goodTip)}}, false, 2},
		{"exhausted", []MockReply{{Err: down}, {Err: down}, {Err: down}, {Content: []byte(goodTip)}}, true, 3},
		{"invalid retried once", []MockReply{{Err: invalid}, {Err: invalid}, {Content: []byte(goodTip)}}, true, 2},
		{"max tokens not retried", []MockReply{{Err: &ErrMaxTokensExceeded{}}, {Content: []byte(goodTip)}}, true, 1},
		{"cancel not retried", []MockReply{{Err: context.Canceled}, {Content: []byte(goodTip)}}, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			_, err := fastRetry(mock).Generate(context.Background(), tipReq)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got := len(mock.Requests()); got != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestRetry_HonoursRetryAfter(t *testing.T) {
	r := fastRetry(NewMockProvider())
	wait := r.backoff(0, &ErrRateLimit{RetryAfter: 7 * time.Second})
	if wait != 7*time.Second {
		t.Fatalf("wait = %s", wait)
	}
}

func TestRetry_BackoffCapped(t *testing.T) {
	r := WithRetry(NewMockProvider(), RetryConfig{MaxAttempts: 5, InitialWait: time.Second, MaxWait: 2 * time.Second, Multiplier: 10}, nil)
	for attempt := range 4 {
		if w := r.backoff(attempt, errors.New("x")); w > 2400*time.Millisecond {
			t.Fatalf("attempt %d wait %s above cap plus jitter", attempt, w)
		}
	}
}

func TestRetry_StopsOnContext(t *testing.T) {
	mock := NewMockProvider(MockReply{Err: &ErrProviderUnavailable{}}, MockReply{Content: []byte(goodTip)})
	r := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Generate(ctx, tipReq); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

type fakeEvents struct {
	store.EventRepo

	mu  sync.Mutex
	got []store.LLMRequestEventData
	err error
}

func (f *fakeEvents) AppendLLMRequest(_ context.Context, d store.LLMRequestEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, d)
	return f.err
}

func (f *fakeEvents) CountLLMRequests(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got), nil
}

func TestRecording(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	events := &fakeEvents{}
	mock := NewMockProvider(
		MockReply{Content: []byte(goodTip), Usage: Usage{InputTokens: 100, OutputTokens: 20}},
		MockReply{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithRecording(mock, events, zap.New(core))

	if _, err := p.Generate(context.Background(), tipReq); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Generate(context.Background(), tipReq); err == nil {
		t.Fatal("expected failure")
	}

	if len(events.got) != 2 {
		t.Fatalf("recorded %d events", len(events.got))
	}
	ok, failed := events.got[0], events.got[1]
	if !ok.Success || ok.Provider != "mock" || ok.Purpose != "coach" || ok.InputTokens != 100 || ok.ResponseBody != goodTip {
		t.Fatalf("success event %+v", ok)
	}
	if failed.Success || failed.ErrorMessage == "" {
		t.Fatalf("failure event %+v", failed)
	}
	if logs.FilterMessage("llm request").Len() != 1 || logs.FilterMessage("llm request failed").Len() != 1 {
		t.Fatalf("log lines: %v", logs.All())
	}
}

func TestRecording_StoreFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	events := &fakeEvents{err: errors.New("disk full")}
	p := WithRecording(NewMockProvider().Reply(goodTip), events, zap.New(core))
	if _, err := p.Generate(context.Background(), tipReq); err != nil {
		t.Fatalf("store failure leaked: %v", err)
	}
	if logs.FilterMessage("record llm request").Len() != 1 {
		t.Fatal("store failure not logged")
	}
}

func TestTranscript(t *testing.T) {
	got := transcript(tipReq)
	for _, want := range []string{"[system]", "[user]\nTerangkan PHR.", "[schema test-tip]"} {
		if !strings.Contains(got, want) {
			t.Errorf("transcript missing %q:\n%s", want, got)
		}
	}
}

func TestMock(t *testing.T) {
	m := NewMockProvider().Reply(goodTip).Fail(errors.New("x"))
	if _, err := m.Generate(context.Background(), tipReq); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Generate(context.Background(), tipReq); err == nil {
		t.Fatal("expected scripted failure")
	}
	var un *ErrProviderUnavailable
	if _, err := m.Generate(context.Background(), tipReq); !errors.As(err, &un) {
		t.Fatalf("empty script err = %v", err)
	}
	m.Fallback = []byte(goodTip)
	if _, err := m.Generate(context.Background(), tipReq); err != nil {
		t.Fatalf("fallback: %v", err)
	}
	if len(m.Requests()) != 4 {
		t.Fatalf("requests = %d", len(m.Requests()))
	}
}

func TestMock_ValidatesSchema(t *testing.T) {
	_, err := NewMockProvider().Reply(`{"tip":"x"}`).Generate(context.Background(), tipReq)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v", err)
	}
}

func TestPrice(t *testing.T) {
	p, ok := PriceOf("gpt-4o-mini")
	if !ok {
		t.Fatal("gpt-4o-mini missing")
	}
	if got := p.Cost(Usage{InputTokens: 1_000_000, OutputTokens: 1_000_000}); math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("cost = %v", got)
	}
	if _, ok := PriceOf("unknown"); ok {
		t.Fatal("unknown model priced")
	}
}
