// Package drill is the screen where a learner works through one drill:
// question, answer form, feedback and the optional coach.
package drill

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/akaun/internal/coach"
	"github.com/abhisek/akaun/internal/random"
	"github.com/abhisek/akaun/internal/router"
	"github.com/abhisek/akaun/internal/scenario"
	"github.com/abhisek/akaun/internal/screen"
	"github.com/abhisek/akaun/internal/session"
	"github.com/abhisek/akaun/internal/ui/components"
	"github.com/abhisek/akaun/internal/ui/layout"
)

const coachPollInterval = 250 * time.Millisecond

// Deps are the collaborators shared by every drill run.
type Deps struct {
	Player   string
	Scores   session.ScoreSink
	Attempts session.AttemptRecorder
	Coach    *coach.Service
	Logger   *zap.Logger

	// NewSource seeds each run; defaults to random.New.
	NewSource func() random.Source
	Now       func() time.Time

	// Finished builds the screen shown after the last question.
	Finished func(sum session.Summary) screen.Screen
}

// field is one entry of the answer form.
type field struct {
	spec   scenario.FieldSpec
	input  components.TextInput
	choice components.Choice
}

func (f *field) value() string {
	if f.spec.Kind == scenario.FieldChoice {
		return f.choice.Value()
	}
	return f.input.Value()
}

func (f *field) focus() tea.Cmd {
	if f.spec.Kind == scenario.FieldChoice {
		f.choice.Focus()
		return nil
	}
	return f.input.Focus()
}

func (f *field) blur() {
	if f.spec.Kind == scenario.FieldChoice {
		f.choice.Blur()
		return
	}
	f.input.Blur()
}

func (f *field) mark(valid bool) {
	if f.spec.Kind == scenario.FieldChoice {
		f.choice.Submit(valid)
		return
	}
	f.input.Submit(valid)
}

// DrillScreen implements screen.Screen for one drill run.
type DrillScreen struct {
	deps  Deps
	drill session.Drill

	sess   *session.Session
	view   scenario.View
	fields []*field
	focus  int

	answer scenario.Input
	result *session.Result

	advice       *coach.Advice
	coachPending bool

	quitConfirm bool
	elapsed     time.Duration
	errMsg      string
}

var _ screen.Screen = (*DrillScreen)(nil)
var _ screen.KeyHintProvider = (*DrillScreen)(nil)
var _ screen.StatusProvider = (*DrillScreen)(nil)

// New creates the screen; the queue is built in Init.
func New(d session.Drill, deps Deps) *DrillScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.NewSource == nil {
		deps.NewSource = random.New
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &DrillScreen{deps: deps, drill: d}
}

func (s *DrillScreen) Init() tea.Cmd {
	return tea.Batch(s.start(), tickCmd())
}

func (s *DrillScreen) Title() string {
	return s.drill.Title
}

func (s *DrillScreen) Status() layout.Status {
	if s.sess == nil {
		return layout.Status{}
	}
	return layout.Status{Score: s.sess.Progress().Score, Elapsed: s.elapsed}
}

func (s *DrillScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "sebarang kekunci", Description: "Kembali"}}
	case s.quitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Tamatkan latihan"},
			{Key: "N", Description: "Teruskan"},
		}
	case s.result != nil:
		hints := []layout.KeyHint{{Key: "Enter", Description: "Soalan seterusnya"}}
		if s.canAskCoach() {
			hints = append(hints, layout.KeyHint{Key: "T", Description: "Terangkan"})
		}
		return hints
	default:
		return []layout.KeyHint{
			{Key: "Tab/↑↓", Description: "Tukar ruangan"},
			{Key: "Enter", Description: "Hantar"},
			{Key: "Esc", Description: "Keluar"},
		}
	}
}

func (s *DrillScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.sess == nil {
		return renderLoading(width)
	}
	if s.quitConfirm {
		return renderQuitConfirm(width, height)
	}
	return s.renderQuestion(width)
}

func (s *DrillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		return s.handleStarted(msg)

	case timerTickMsg:
		if s.sess == nil || s.sess.Complete() {
			return s, nil
		}
		s.elapsed = s.sess.Elapsed()
		return s, tickCmd()

	case coachPollMsg:
		return s.handleCoachPoll(msg)

	case finishedMsg:
		return s.handleFinished()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if f := s.focused(); f != nil && s.result == nil && f.spec.Kind == scenario.FieldAmount {
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *DrillScreen) start() tea.Cmd {
	return func() tea.Msg {
		sess, err := session.New(s.drill, session.Options{
			Player:   s.deps.Player,
			Source:   s.deps.NewSource(),
			Now:      s.deps.Now,
			Scores:   s.deps.Scores,
			Attempts: s.deps.Attempts,
			Logger:   s.deps.Logger,
		})
		return startedMsg{Session: sess, Err: err}
	}
}

func (s *DrillScreen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.deps.Logger.Error("start drill", zap.String("drill_id", s.drill.ID), zap.Error(msg.Err))
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.sess = msg.Session
	return s, s.load()
}

// load shows the session's current question with an empty form.
func (s *DrillScreen) load() tea.Cmd {
	view, err := s.sess.Current()
	if errors.Is(err, session.ErrNoCurrentQuestion) {
		return func() tea.Msg { return finishedMsg{} }
	}

	s.view = view
	s.result = nil
	s.answer = nil
	s.advice = nil
	s.coachPending = false
	s.fields = s.fields[:0]
	for _, spec := range view.Form {
		f := &field{spec: spec}
		if spec.Kind == scenario.FieldChoice {
			opts := make([]components.ChoiceOption, 0, len(spec.Choices))
			for _, c := range spec.Choices {
				opts = append(opts, components.ChoiceOption{Value: c.Value, Label: c.Label})
			}
			f.choice = components.NewChoice(opts)
		} else {
			f.input = components.NewTextInput("0.00", true, 16)
		}
		s.fields = append(s.fields, f)
	}
	s.focus = 0
	if len(s.fields) == 0 {
		return nil
	}
	return s.fields[0].focus()
}

func (s *DrillScreen) focused() *field {
	if s.focus < 0 || s.focus >= len(s.fields) {
		return nil
	}
	return s.fields[s.focus]
}

func (s *DrillScreen) moveFocus(delta int) tea.Cmd {
	if len(s.fields) == 0 {
		return nil
	}
	s.fields[s.focus].blur()
	s.focus = (s.focus + delta + len(s.fields)) % len(s.fields)
	return s.fields[s.focus].focus()
}

func (s *DrillScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.sess == nil {
		return s, nil
	}

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			s.deps.Logger.Info("drill abandoned",
				zap.String("drill_id", s.drill.ID),
				zap.Int("score", s.sess.Progress().Score))
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.quitConfirm = false
		}
		return s, nil
	}

	if s.result != nil {
		switch key {
		case "enter", "n", "space":
			return s.advance()
		case "t", "T":
			return s.askCoach()
		case "esc":
			s.quitConfirm = true
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.quitConfirm = true
		return s, nil
	case "tab", "down":
		return s, s.moveFocus(1)
	case "shift+tab", "up":
		return s, s.moveFocus(-1)
	case "enter":
		if s.focus < len(s.fields)-1 {
			return s, s.moveFocus(1)
		}
		return s.submit()
	case "ctrl+s":
		return s.submit()
	}

	f := s.focused()
	if f == nil {
		return s, nil
	}
	var cmd tea.Cmd
	if f.spec.Kind == scenario.FieldChoice {
		f.choice, cmd = f.choice.Update(msg)
	} else {
		f.input, cmd = f.input.Update(msg)
	}
	return s, cmd
}

// submit grades whatever is in the form. Blank or malformed amounts are
// graded as wrong, never rejected.
func (s *DrillScreen) submit() (screen.Screen, tea.Cmd) {
	in := make(scenario.Input, len(s.fields))
	for _, f := range s.fields {
		in[f.spec.Key] = f.value()
	}

	res, err := s.sess.Submit(context.Background(), in)
	if err != nil {
		s.deps.Logger.Warn("submit answer", zap.String("drill_id", s.drill.ID), zap.Error(err))
		return s, nil
	}

	wrong := make(map[string]bool, len(res.Verdict.Mismatched))
	for _, k := range res.Verdict.Mismatched {
		wrong[k] = true
	}
	for _, f := range s.fields {
		f.blur()
		f.mark(!wrong[f.spec.Key])
	}
	s.answer = in
	s.result = &res
	return s, nil
}

func (s *DrillScreen) advance() (screen.Screen, tea.Cmd) {
	done, err := s.sess.Advance(context.Background())
	if err != nil && !errors.Is(err, session.ErrNoCurrentQuestion) {
		s.deps.Logger.Warn("advance drill", zap.String("drill_id", s.drill.ID), zap.Error(err))
		return s, nil
	}
	if done {
		return s, func() tea.Msg { return finishedMsg{} }
	}
	return s, s.load()
}

func (s *DrillScreen) canAskCoach() bool {
	return s.result != nil && !s.result.Verdict.Correct && s.deps.Coach.Enabled() &&
		s.advice == nil && !s.coachPending
}

func (s *DrillScreen) askCoach() (screen.Screen, tea.Cmd) {
	if !s.canAskCoach() {
		return s, nil
	}
	s.coachPending = true
	s.deps.Coach.Request(context.Background(), coach.Input{
		View:    s.view,
		Answer:  s.answer,
		Verdict: s.result.Verdict,
	})
	return s, pollCoach(s.view.ID)
}

func (s *DrillScreen) handleCoachPoll(msg coachPollMsg) (screen.Screen, tea.Cmd) {
	if !s.coachPending || msg.QuestionID != s.view.ID {
		return s, nil
	}
	advice, ok := s.deps.Coach.Consume(msg.QuestionID)
	if !ok {
		return s, pollCoach(msg.QuestionID)
	}
	s.coachPending = false
	s.advice = &advice
	return s, nil
}

func (s *DrillScreen) handleFinished() (screen.Screen, tea.Cmd) {
	sum := s.sess.Summary()
	s.elapsed = sum.Elapsed
	if s.deps.Finished == nil {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	next := s.deps.Finished(sum)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func pollCoach(questionID string) tea.Cmd {
	return tea.Tick(coachPollInterval, func(time.Time) tea.Msg {
		return coachPollMsg{QuestionID: questionID}
	})
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
