package leaderboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemote_FetchFiltersAndRanks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"name":"A","levelId":"DRILL-TPM","score":4,"time":100,"timestamp":1717236000000},
			{"name":"B","levelId":"DRILL-PHR","score":20,"time":50,"timestamp":1717236000000},
			{"name":"C","levelId":"DRILL-TPM","score":8,"time":300,"timestamp":1717236000000}
		]`)
	}))
	defer srv.Close()

	fallback := &fakeService{}
	r := NewRemote(srv.URL, srv.Client(), 0, fallback)

	got, err := r.FetchScores(context.Background(), "DRILL-TPM")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "C", got[0].Name)
	assert.Equal(t, "A", got[1].Name)
}

func TestRemote_FetchFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"not an array", http.StatusOK, `{"error":"quota"}`},
		{"missing field", http.StatusOK, `[{"name":"A","score":1,"time":1}]`},
		{"not json", http.StatusOK, `<html>`},
		{"server error", http.StatusInternalServerError, `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.payload)
			}))
			defer srv.Close()

			fallback := &fakeService{entries: []Entry{{Name: "local", DrillID: "DRILL-SN", Score: 3}}}
			r := NewRemote(srv.URL, srv.Client(), 0, fallback)

			got, err := r.FetchScores(context.Background(), "DRILL-SN")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "local", got[0].Name)
		})
	}
}

func TestRemote_FetchWithoutFallbackErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	_, err := NewRemote(srv.URL, srv.Client(), 0, nil).FetchScores(context.Background(), "DRILL-SN")
	assert.Error(t, err)
}

func TestRemote_SubmitSavesLocallyFirst(t *testing.T) {
	var (
		mu   sync.Mutex
		got  map[string]any
		seen bool
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		seen = true
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	fallback := &fakeService{}
	r := NewRemote(srv.URL, srv.Client(), 0, fallback)
	e := Entry{Name: "Aina", DrillID: "DRILL-ACC-L1", Score: 16, ElapsedSeconds: 400, Timestamp: time.UnixMilli(1717236000000)}

	err := r.SubmitScore(context.Background(), e)
	assert.Error(t, err)
	assert.Equal(t, 1, fallback.count())

	mu.Lock()
	defer mu.Unlock()
	require.True(t, seen)
	assert.Equal(t, "DRILL-ACC-L1", got["levelId"])
	assert.Equal(t, float64(400), got["time"])
}

func TestRemote_SubmitUnreachable(t *testing.T) {
	fallback := &fakeService{}
	r := NewRemote("http://127.0.0.1:1/scores", nil, 200*time.Millisecond, fallback)

	err := r.SubmitScore(context.Background(), Entry{Name: "A", DrillID: "DRILL-SN", Score: 2})
	assert.Error(t, err)
	assert.Equal(t, 1, fallback.count())
}
