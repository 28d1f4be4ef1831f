package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/akaun/internal/store"
)

// RecordingProvider appends every request, successful or not, to the
// request log and emits a structured log line with its cost.
type RecordingProvider struct {
	inner  Provider
	events store.EventRepo
	log    *zap.Logger
	now    func() time.Time
}

// WithRecording decorates p. events may be nil when no store is open.
func WithRecording(p Provider, events store.EventRepo, log *zap.Logger) *RecordingProvider {
	if log == nil {
		log = zap.NewNop()
	}
	return &RecordingProvider{inner: p, events: events, log: log, now: time.Now}
}

func (r *RecordingProvider) Name() string    { return r.inner.Name() }
func (r *RecordingProvider) ModelID() string { return r.inner.ModelID() }

func (r *RecordingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := r.now()
	resp, err := r.inner.Generate(ctx, req)
	latency := r.now().Sub(start)

	ev := store.LLMRequestEventData{
		Provider:    r.inner.Name(),
		Model:       r.inner.ModelID(),
		Purpose:     req.Purpose,
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	fields := []zap.Field{
		zap.String("provider", ev.Provider),
		zap.String("purpose", ev.Purpose),
		zap.Duration("latency", latency),
	}
	if resp != nil {
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
		fields = append(fields, zap.Int("tokens", resp.Usage.Total()))
		if p, ok := PriceOf(ev.Model); ok {
			fields = append(fields, zap.Float64("cost_usd", p.Cost(resp.Usage)))
		}
	}
	fields = append(fields, zap.String("model", ev.Model))

	if err != nil {
		ev.ErrorMessage = err.Error()
		r.log.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		r.log.Info("llm request", fields...)
	}

	if r.events != nil {
		if rerr := r.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); rerr != nil {
			r.log.Warn("record llm request", zap.Error(rerr))
		}
	}
	return resp, err
}

// transcript renders req as plain text for the request log.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
