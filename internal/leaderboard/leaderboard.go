// Package leaderboard records completed drill runs and ranks them.
//
// Several backends implement Service: Local (SQLite), Remote (HTTP with a
// local fallback), Redis (one sorted set per drill) and Postgres. Async wraps
// any of them so a drill never waits on, or fails because of, a submission.
package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"
)

// ErrInvalidEntry is returned when an entry is missing its name or drill.
var ErrInvalidEntry = errors.New("invalid leaderboard entry")

// Entry is one completed drill run.
type Entry struct {
	Name           string
	DrillID        string
	Score          int
	ElapsedSeconds int
	Timestamp      time.Time
}

// Validate checks the fields every backend relies on.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.Join(ErrInvalidEntry, errors.New("name is empty"))
	}
	if strings.TrimSpace(e.DrillID) == "" {
		return errors.Join(ErrInvalidEntry, errors.New("drill id is empty"))
	}
	if e.ElapsedSeconds < 0 {
		return errors.Join(ErrInvalidEntry, errors.New("elapsed time is negative"))
	}
	return nil
}

// wireEntry is the JSON shape shared with the remote score sheet.
type wireEntry struct {
	Name      string `json:"name"`
	LevelID   string `json:"levelId"`
	Score     int    `json:"score"`
	Time      int    `json:"time"`
	Timestamp int64  `json:"timestamp"`
}

// MarshalJSON encodes the entry with a millisecond timestamp.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEntry{
		Name:      e.Name,
		LevelID:   e.DrillID,
		Score:     e.Score,
		Time:      e.ElapsedSeconds,
		Timestamp: e.Timestamp.UnixMilli(),
	})
}

// UnmarshalJSON decodes the remote wire shape.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var w wireEntry
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*e = Entry{
		Name:           w.Name,
		DrillID:        w.LevelID,
		Score:          w.Score,
		ElapsedSeconds: w.Time,
		Timestamp:      time.UnixMilli(w.Timestamp),
	}
	return nil
}

// Service submits and fetches leaderboard entries.
type Service interface {
	SubmitScore(ctx context.Context, e Entry) error
	FetchScores(ctx context.Context, drillID string) ([]Entry, error)
}

// Less reports whether a ranks above b: higher score, then faster, then earlier.
func Less(a, b Entry) bool {
	return compare(a, b) < 0
}

func compare(a, b Entry) int {
	if a.Score != b.Score {
		return b.Score - a.Score
	}
	if a.ElapsedSeconds != b.ElapsedSeconds {
		return a.ElapsedSeconds - b.ElapsedSeconds
	}
	return a.Timestamp.Compare(b.Timestamp)
}

// Rank sorts entries in place, best first, and returns them.
func Rank(entries []Entry) []Entry {
	slices.SortStableFunc(entries, compare)
	return entries
}

// ForDrill returns the entries belonging to drillID, ranked.
func ForDrill(entries []Entry, drillID string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.DrillID == drillID {
			out = append(out, e)
		}
	}
	return Rank(out)
}
