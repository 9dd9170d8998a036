package web

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jasonisamilehigh/taskme/internal/briefing"
	"github.com/jasonisamilehigh/taskme/internal/dialog"
	"github.com/jasonisamilehigh/taskme/internal/extract"
	"github.com/jasonisamilehigh/taskme/internal/telephony"
)

const maxTranscriptSize = 10 << 10 // 10KB

// Voice webhook handlers

// voiceHandler dispatches one conversational turn into the dialog
// machine. The state comes from the route, the turn from the form, and
// the rendered TwiML arms the next turn.
func (s *Server) voiceHandler(state dialog.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		callID := callID(c)
		ev := eventFromForm(c, state)

		actions, _ := s.machine.Step(c.Request.Context(), callID, state, ev)
		s.renderTwiML(c, actions)
	}
}

// handleBriefingCall answers the outbound briefing call: Twilio fetches
// instructions from this route once the callee picks up.
func (s *Server) handleBriefingCall(c *gin.Context) {
	callID := callID(c)

	due, err := s.briefer.DueNow(c.Request.Context())
	if err != nil {
		// Store failure mid-call: speak the empty-list message rather
		// than dropping the call with no audio.
		s.log.WithError(err).Error("briefing task list unavailable")
		due = nil
	}

	s.renderTwiML(c, s.machine.Briefing(callID, due))
}

func (s *Server) renderTwiML(c *gin.Context, actions []dialog.Action) {
	xml, err := telephony.Render(s.baseURL, actions)
	if err != nil {
		s.log.WithError(err).Error("twiml rendering failed")
		c.String(http.StatusInternalServerError, "rendering failed")
		return
	}
	c.Header("Content-Type", "text/xml")
	c.String(http.StatusOK, xml)
}

func callID(c *gin.Context) string {
	if sid := c.PostForm("CallSid"); sid != "" {
		return sid
	}
	// A gateway that sends no call identifier still gets isolated
	// per-request state.
	return uuid.NewString()
}

func eventFromForm(c *gin.Context, state dialog.State) dialog.Event {
	if state == dialog.StateIdle {
		return dialog.Event{Kind: dialog.EventCallStart}
	}

	if digits := c.PostForm("Digits"); digits != "" {
		return dialog.Event{Kind: dialog.EventDigits, Digits: digits}
	}

	speech := strings.TrimSpace(c.PostForm("SpeechResult"))
	if speech != "" {
		if len(speech) > maxTranscriptSize {
			speech = truncateSpeech(speech, maxTranscriptSize)
		}
		return dialog.Event{Kind: dialog.EventSpeech, Speech: speech}
	}

	return dialog.Event{Kind: dialog.EventTimeout}
}

// truncateSpeech caps s at max bytes without splitting a multi-byte
// rune at the cut.
func truncateSpeech(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Diagnostic API handlers

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"status":       "ok",
		"uptime":       time.Since(s.startedAt).Round(time.Second).String(),
		"active_calls": s.machine.Sessions().Active(),
	})
}

func (s *Server) handleDue(c *gin.Context) {
	due, err := s.briefer.DueNow(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"tasks":    due,
		"count":    len(due),
		"briefing": briefing.Compose(due),
	})
}

func (s *Server) handleTriggerBriefing(c *gin.Context) {
	if err := s.briefer.Run(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "briefing triggered",
	})
}

type addTaskRequest struct {
	Text string `json:"text" binding:"required"`
}

// handleAddTask is the direct text-to-task path: extraction plus
// persistence with no call involved.
func (s *Server) handleAddTask(c *gin.Context) {
	var req addTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	draft, err := s.extractor.Extract(c.Request.Context(), req.Text, time.Now())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, extract.ErrNotTask) || errors.Is(err, extract.ErrParse) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	if err := s.store.Append(c.Request.Context(), *draft); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"task":    draft,
	})
}
