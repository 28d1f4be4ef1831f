package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/akaun/internal/leaderboard"
	"github.com/abhisek/akaun/internal/random"
	"github.com/abhisek/akaun/internal/scenario"
	"github.com/abhisek/akaun/internal/store"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeSink struct {
	mu      sync.Mutex
	entries []leaderboard.Entry
}

func (f *fakeSink) SubmitScore(_ context.Context, e leaderboard.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
	return nil
}

type fakeRecorder struct {
	attempts []store.AttemptData
	err      error
}

func (f *fakeRecorder) Record(_ context.Context, a *store.AttemptData) error {
	if f.err != nil {
		return f.err
	}
	f.attempts = append(f.attempts, *a)
	return nil
}

func testSession(t *testing.T, drillID string, opts Options) *Session {
	t.Helper()
	d, err := Lookup(drillID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if opts.Source == nil {
		opts.Source = random.NewSeeded(7)
	}
	s, err := New(d, opts)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func correctInput(s *Session) scenario.Input {
	return s.queue[s.index].Solution()
}

func wrongInput() scenario.Input {
	return scenario.Input{}
}

func TestSubmit_CorrectScoresTwo(t *testing.T) {
	s := testSession(t, "DRILL-PHR", Options{})
	ctx := context.Background()

	res, err := s.Submit(ctx, correctInput(s))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.Verdict.Correct {
		t.Fatal("expected correct verdict")
	}
	if res.Delta != PointsCorrect || res.Score != 2 {
		t.Errorf("delta = %d, score = %d, want 2, 2", res.Delta, res.Score)
	}
	if res.PenaltiesAdded != 0 || s.QueueLen() != QuestionsPerDrill {
		t.Errorf("queue grew on a correct answer: %d", s.QueueLen())
	}
}

func TestSubmit_WrongAppendsTwoPenalties(t *testing.T) {
	s := testSession(t, "DRILL-LOAN", Options{})
	ctx := context.Background()
	before := s.QueueLen()
	first := s.queue[0]

	res, err := s.Submit(ctx, wrongInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Verdict.Correct {
		t.Fatal("expected incorrect verdict")
	}
	if res.Delta != PointsWrong || res.Score != -1 || res.Mistakes != 1 {
		t.Errorf("delta = %d, score = %d, mistakes = %d", res.Delta, res.Score, res.Mistakes)
	}
	if got := s.QueueLen(); got != before+scenario.PenaltiesPerMistake {
		t.Fatalf("queue len = %d, want %d", got, before+2)
	}

	// Penalties go to the back, same family and loan kind, flagged.
	for _, p := range s.queue[before:] {
		if !p.IsPenalty() {
			t.Error("penalty question not flagged")
		}
		if p.Family() != first.Family() {
			t.Errorf("penalty family = %s, want %s", p.Family(), first.Family())
		}
		if p.(*scenario.Loan).Given.IsNew != first.(*scenario.Loan).Given.IsNew {
			t.Error("penalty changed the loan kind")
		}
	}
	if s.queue[1].IsPenalty() {
		t.Error("penalty inserted next instead of at the end")
	}
}

func TestSubmit_PenaltyQuestionScoresOne(t *testing.T) {
	s := testSession(t, "DRILL-SN", Options{})
	ctx := context.Background()

	// Answer everything; the first one wrong.
	if _, err := s.Submit(ctx, wrongInput()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	for {
		done, err := s.Advance(ctx)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if done {
			break
		}
		q := s.queue[s.index]
		res, err := s.Submit(ctx, correctInput(s))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		want := PointsCorrect
		if q.IsPenalty() {
			want = PointsCorrectPenalty
		}
		if res.Delta != want {
			t.Errorf("delta = %d, want %d (penalty=%v)", res.Delta, want, q.IsPenalty())
		}
	}

	// 9 regular × 2 + 2 penalties × 1 − 1.
	sum := s.Summary()
	if sum.Score != 19 {
		t.Errorf("final score = %d, want 19", sum.Score)
	}
	if sum.Answered != 12 || sum.Correct != 11 || sum.Mistakes != 1 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestSubmit_TwiceIsAnError(t *testing.T) {
	s := testSession(t, "DRILL-HL", Options{})
	ctx := context.Background()

	if _, err := s.Submit(ctx, correctInput(s)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := s.Submit(ctx, correctInput(s)); !errors.Is(err, ErrAlreadyGraded) {
		t.Errorf("second submit err = %v, want ErrAlreadyGraded", err)
	}
	if s.Summary().Score != 2 {
		t.Error("second submit changed the score")
	}
}

func TestAdvance_BeforeSubmit(t *testing.T) {
	s := testSession(t, "DRILL-HL", Options{})
	if _, err := s.Advance(context.Background()); !errors.Is(err, ErrNotGraded) {
		t.Errorf("err = %v, want ErrNotGraded", err)
	}
}

func TestComplete_SubmitsScoreAndStopsServing(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 9, 2, 8, 0, 0, 0, time.UTC)}
	sink := &fakeSink{}
	rec := &fakeRecorder{}
	s := testSession(t, "DRILL-DISPOSAL-L1", Options{
		Player:   "Nurul",
		Now:      clock.Now,
		Scores:   sink,
		Attempts: rec,
	})
	ctx := context.Background()

	var lastRes Result
	for i := 0; ; i++ {
		clock.Advance(30 * time.Second)
		res, err := s.Submit(ctx, correctInput(s))
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		lastRes = res
		done, err := s.Advance(ctx)
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		if done {
			break
		}
		if res.Complete {
			t.Fatalf("result %d reported complete before the last question", i)
		}
	}
	if !lastRes.Complete {
		t.Error("last result should report complete")
	}

	if !s.Complete() {
		t.Fatal("expected session to be complete")
	}
	if _, err := s.Current(); !errors.Is(err, ErrNoCurrentQuestion) {
		t.Errorf("current err = %v, want ErrNoCurrentQuestion", err)
	}
	if _, err := s.Submit(ctx, wrongInput()); !errors.Is(err, ErrNoCurrentQuestion) {
		t.Errorf("submit err = %v, want ErrNoCurrentQuestion", err)
	}

	if len(sink.entries) != 1 {
		t.Fatalf("sink got %d entries, want 1", len(sink.entries))
	}
	e := sink.entries[0]
	if e.Name != "Nurul" || e.DrillID != "DRILL-DISPOSAL-L1" || e.Score != 20 || e.ElapsedSeconds != 300 {
		t.Errorf("entry = %+v", e)
	}

	// Elapsed is frozen at completion.
	clock.Advance(time.Hour)
	if s.Elapsed() != 5*time.Minute {
		t.Errorf("elapsed = %v, want 5m", s.Elapsed())
	}

	if len(rec.attempts) != QuestionsPerDrill {
		t.Errorf("recorded %d attempts, want %d", len(rec.attempts), QuestionsPerDrill)
	}
	if rec.attempts[0].SessionID != s.ID() || rec.attempts[0].Family != "disposal" {
		t.Errorf("attempt = %+v", rec.attempts[0])
	}
}

func TestComplete_AnonymousSkipsLeaderboard(t *testing.T) {
	sink := &fakeSink{}
	s := testSession(t, "DRILL-TPM", Options{Scores: sink})
	ctx := context.Background()
	for {
		s.Submit(ctx, correctInput(s))
		if done, _ := s.Advance(ctx); done {
			break
		}
	}
	if len(sink.entries) != 0 {
		t.Errorf("anonymous run submitted %d entries", len(sink.entries))
	}
}

// blockingSink holds SubmitScore until release is closed.
type blockingSink struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSink) SubmitScore(context.Context, leaderboard.Entry) error {
	close(b.entered)
	<-b.release
	return nil
}

func TestComplete_SinkRunsUnlocked(t *testing.T) {
	sink := &blockingSink{entered: make(chan struct{}), release: make(chan struct{})}
	s := testSession(t, "DRILL-TPM", Options{Player: "Aina", Scores: sink})
	ctx := context.Background()

	for s.Progress().Position < s.Progress().Total {
		s.Submit(ctx, correctInput(s))
		s.Advance(ctx)
	}
	s.Submit(ctx, correctInput(s))

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Advance(ctx)
	}()
	<-sink.entered

	read := make(chan bool, 1)
	go func() { read <- s.Complete() }()
	select {
	case complete := <-read:
		if !complete {
			t.Error("expected the session to be complete while the score is submitted")
		}
	case <-time.After(time.Second):
		t.Fatal("readers blocked behind the score sink")
	}

	close(sink.release)
	<-done
}

func TestRecorderFailureDoesNotBreakDrill(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	s := testSession(t, "DRILL-PHR", Options{Attempts: rec})

	res, err := s.Submit(context.Background(), correctInput(s))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.Verdict.Correct {
		t.Error("expected correct verdict")
	}
}

func TestCurrent_HidesAnswers(t *testing.T) {
	s := testSession(t, "DRILL-ACC-L2", Options{})
	v, err := s.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if v.ID != s.queue[0].ID() {
		t.Errorf("view id = %s, want %s", v.ID, s.queue[0].ID())
	}
	if len(v.Form) == 0 {
		t.Error("expected a form")
	}
}

func TestRestart(t *testing.T) {
	s := testSession(t, "DRILL-PHR", Options{})
	ctx := context.Background()
	oldID := s.ID()

	s.Submit(ctx, wrongInput())
	if err := s.Restart(); err != nil {
		t.Fatalf("restart: %v", err)
	}

	if s.ID() == oldID {
		t.Error("restart kept the session id")
	}
	p := s.Progress()
	if p.Score != 0 || p.Mistakes != 0 || p.Position != 1 || p.Total != QuestionsPerDrill {
		t.Errorf("progress after restart = %+v", p)
	}
	if s.Phase() != PhaseAwaiting {
		t.Errorf("phase = %v, want awaiting", s.Phase())
	}
}

func TestProgress_CountsPendingPenalties(t *testing.T) {
	s := testSession(t, "DRILL-SN", Options{})
	ctx := context.Background()

	s.Submit(ctx, wrongInput())
	p := s.Progress()
	if p.Total != 12 || p.PendingPenalties != 2 {
		t.Errorf("progress = %+v", p)
	}
	if p.Remaining() != 11 {
		t.Errorf("remaining = %d, want 11", p.Remaining())
	}

	s.Advance(ctx)
	p = s.Progress()
	if p.Position != 2 || p.Remaining() != 11 {
		t.Errorf("progress after advance = %+v, remaining %d", p, p.Remaining())
	}
}

func TestLastResult(t *testing.T) {
	s := testSession(t, "DRILL-SN", Options{})
	ctx := context.Background()

	if _, ok := s.LastResult(); ok {
		t.Error("expected no result before submit")
	}
	s.Submit(ctx, wrongInput())
	res, ok := s.LastResult()
	if !ok || res.Verdict.Correct {
		t.Errorf("last result = %+v, ok = %v", res, ok)
	}
	s.Advance(ctx)
	if _, ok := s.LastResult(); ok {
		t.Error("expected no result after advance")
	}
}
