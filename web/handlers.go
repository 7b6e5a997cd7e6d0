package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/dispatch"
	scribejson "github.com/fwojciec/scribe/json"
	"github.com/gin-gonic/gin"
)

type messageRequest struct {
	Input string `json:"input" form:"input"`
}

type turnResponse struct {
	Outcome scribejson.Outcome `json:"outcome"`
	Session scribejson.Session `json:"session"`
}

type pageData struct {
	Messages []scribe.Message
	History  []scribe.HistoryItem
	Error    string
}

// session resolves the caller's session from the cookie, issuing a new one
// when the cookie is missing or stale.
func (s *Server) session(c *gin.Context) *sessionEntry {
	id, _ := c.Cookie(CookieName)
	entry, created := s.store.lookup(id)
	if created {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, entry.session.ID, 0, "/", "", false, true)
		s.log.Debug().Str("session", entry.session.ID).Msg("session created")
	}
	return entry
}

func (s *Server) index(c *gin.Context) {
	entry := s.session(c)
	entry.mu.Lock()
	data := pageData{
		Messages: append([]scribe.Message(nil), entry.session.Messages...),
		History:  entry.session.RecentHistory(),
		Error:    c.Query("error"),
	}
	entry.mu.Unlock()
	c.HTML(http.StatusOK, "index.html", data)
}

func (s *Server) postMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.Input) == "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	entry := s.session(c)
	entry.mu.Lock()
	_, err := s.runner.Turn(c.Request.Context(), entry.session, req.Input)
	entry.mu.Unlock()
	if err != nil {
		s.redirectError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) replay(c *gin.Context) {
	k, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid history index")
		return
	}
	entry := s.session(c)
	entry.mu.Lock()
	_, err = s.runner.Replay(c.Request.Context(), entry.session, k)
	entry.mu.Unlock()
	if err != nil {
		s.redirectError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) redirectError(c *gin.Context, err error) {
	s.log.Warn().Err(err).Msg("turn rejected")
	c.Redirect(http.StatusSeeOther, "/?error="+url.QueryEscape(err.Error()))
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) apiSession(c *gin.Context) {
	entry := s.session(c)
	entry.mu.Lock()
	snapshot := scribejson.FromSession(entry.session)
	entry.mu.Unlock()
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) apiPostMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	entry := s.session(c)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	out, err := s.runner.Turn(c.Request.Context(), entry.session, req.Input)
	s.respondTurn(c, entry, out, err)
}

func (s *Server) apiReplay(c *gin.Context) {
	k, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid history index"})
		return
	}
	entry := s.session(c)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	out, err := s.runner.Replay(c.Request.Context(), entry.session, k)
	s.respondTurn(c, entry, out, err)
}

// respondTurn writes the turn result. The caller holds entry.mu.
func (s *Server) respondTurn(c *gin.Context, entry *sessionEntry, out dispatch.Outcome, err error) {
	switch {
	case errors.Is(err, scribe.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, scribe.ErrHistoryIndex):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		s.log.Error().Err(err).Str("session", entry.session.ID).Msg("turn failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		c.JSON(http.StatusOK, turnResponse{
			Outcome: scribejson.FromOutcome(out),
			Session: scribejson.FromSession(entry.session),
		})
	}
}
