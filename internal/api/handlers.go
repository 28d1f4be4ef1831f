package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/akaun/internal/leaderboard"
	"github.com/abhisek/akaun/internal/scenario"
	"github.com/abhisek/akaun/internal/session"
)

type drillJSON struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Family      scenario.Family `json:"family"`
	Questions   int             `json:"questions"`
}

type progressJSON struct {
	Position         int    `json:"position"`
	Total            int    `json:"total"`
	Remaining        int    `json:"remaining"`
	PendingPenalties int    `json:"pendingPenalties"`
	Score            int    `json:"score"`
	Mistakes         int    `json:"mistakes"`
	Phase            string `json:"phase"`
}

type summaryJSON struct {
	DrillID        string  `json:"drillId"`
	Player         string  `json:"name,omitempty"`
	Score          int     `json:"score"`
	Mistakes       int     `json:"mistakes"`
	Answered       int     `json:"answered"`
	Correct        int     `json:"correct"`
	Accuracy       float64 `json:"accuracy"`
	ElapsedSeconds int     `json:"time"`
	Complete       bool    `json:"complete"`
}

type stateJSON struct {
	SessionID string         `json:"sessionId"`
	DrillID   string         `json:"drillId"`
	Progress  progressJSON   `json:"progress"`
	Question  *scenario.View `json:"question,omitempty"`
	Summary   *summaryJSON   `json:"summary,omitempty"`
}

type resultJSON struct {
	Correct        bool                 `json:"correct"`
	Mismatched     []string             `json:"mismatched,omitempty"`
	Explanation    scenario.Explanation `json:"explanation"`
	Delta          int                  `json:"delta"`
	Score          int                  `json:"score"`
	Mistakes       int                  `json:"mistakes"`
	PenaltiesAdded int                  `json:"penaltiesAdded"`
	Complete       bool                 `json:"complete"`
}

type createRequest struct {
	DrillID string `json:"drillId" binding:"required"`
	Name    string `json:"name"`
}

type answerRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.len()})
}

func (s *Server) listDrills(c *gin.Context) {
	drills := session.Drills()
	out := make([]drillJSON, 0, len(drills))
	for _, d := range drills {
		out = append(out, drillJSON{ID: d.ID, Title: d.Title, Description: d.Description, Family: d.Family, Questions: d.Size()})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createSession(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	drill, err := session.Lookup(req.DrillID)
	if err != nil {
		abort(c, http.StatusNotFound, err.Error())
		return
	}

	opts := session.Options{
		Player: strings.TrimSpace(req.Name),
		Source: s.opts.NewSource(),
		Now:    s.opts.Now,
		Logger: s.log,
	}
	if s.scores != nil {
		opts.Scores = s.scores
	}
	if s.opts.Attempts != nil {
		opts.Attempts = s.opts.Attempts
	}
	sess, err := session.New(drill, opts)
	if err != nil {
		s.log.Error("create session", zap.String("drill", drill.ID), zap.Error(err))
		abort(c, http.StatusInternalServerError, "gagal membina latihan")
		return
	}
	s.sessions.put(sess)
	s.metrics.active.Set(float64(s.sessions.len()))
	c.JSON(http.StatusCreated, state(sess))
}

// lookup resolves :id or aborts with 404.
func (s *Server) lookup(c *gin.Context) (*session.Session, bool) {
	sess, ok := s.sessions.get(c.Param("id"))
	if !ok {
		abort(c, http.StatusNotFound, "sesi tidak dijumpai")
	}
	return sess, ok
}

func (s *Server) current(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, state(sess))
}

func (s *Server) submit(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	view, err := sess.Current()
	if err != nil {
		conflict(c, err)
		return
	}
	res, err := sess.Submit(c.Request.Context(), scenario.Input(req.Fields))
	if err != nil {
		conflict(c, err)
		return
	}
	s.metrics.answer(string(view.Family), res.Verdict.Correct)
	c.JSON(http.StatusOK, resultJSON{
		Correct:        res.Verdict.Correct,
		Mismatched:     res.Verdict.Mismatched,
		Explanation:    res.Verdict.Explanation,
		Delta:          res.Delta,
		Score:          res.Score,
		Mistakes:       res.Mistakes,
		PenaltiesAdded: res.PenaltiesAdded,
		Complete:       res.Complete,
	})
}

func (s *Server) advance(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	done, err := sess.Advance(c.Request.Context())
	if err != nil {
		conflict(c, err)
		return
	}
	if done {
		s.metrics.finished.WithLabelValues(sess.Drill().ID).Inc()
	}
	c.JSON(http.StatusOK, state(sess))
}

func (s *Server) summary(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, summaryOf(sess.Summary()))
}

func (s *Server) leaderboard(c *gin.Context) {
	drillID := c.Param("drillId")
	if _, err := session.Lookup(drillID); err != nil {
		abort(c, http.StatusNotFound, err.Error())
		return
	}
	if s.opts.Leaderboard == nil {
		c.JSON(http.StatusOK, []leaderboard.Entry{})
		return
	}
	entries, err := s.opts.Leaderboard.FetchScores(c.Request.Context(), drillID)
	if err != nil {
		s.log.Warn("fetch leaderboard", zap.String("drill", drillID), zap.Error(err))
		abort(c, http.StatusBadGateway, "papan markah tidak tersedia")
		return
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

func conflict(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNoCurrentQuestion),
		errors.Is(err, session.ErrAlreadyGraded),
		errors.Is(err, session.ErrNotGraded):
		abort(c, http.StatusConflict, err.Error())
	default:
		abort(c, http.StatusInternalServerError, err.Error())
	}
}

func state(sess *session.Session) stateJSON {
	p := sess.Progress()
	out := stateJSON{
		SessionID: sess.ID(),
		DrillID:   sess.Drill().ID,
		Progress: progressJSON{
			Position:         p.Position,
			Total:            p.Total,
			Remaining:        p.Remaining(),
			PendingPenalties: p.PendingPenalties,
			Score:            p.Score,
			Mistakes:         p.Mistakes,
			Phase:            p.Phase.String(),
		},
	}
	if view, err := sess.Current(); err == nil {
		out.Question = &view
	} else {
		sum := summaryOf(sess.Summary())
		out.Summary = &sum
	}
	return out
}

func summaryOf(sum session.Summary) summaryJSON {
	return summaryJSON{
		DrillID:        sum.DrillID,
		Player:         sum.Player,
		Score:          sum.Score,
		Mistakes:       sum.Mistakes,
		Answered:       sum.Answered,
		Correct:        sum.Correct,
		Accuracy:       sum.Accuracy,
		ElapsedSeconds: sum.ElapsedSeconds(),
		Complete:       sum.Complete,
	}
}
