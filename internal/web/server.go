// Package web serves the Twilio voice webhooks and the diagnostic API.
// Each voice route encodes which dialog state the posted turn applies
// to; the handlers are thin dispatchers into the dialog machine.
package web

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jasonisamilehigh/taskme/internal/dialog"
	"github.com/jasonisamilehigh/taskme/internal/scheduler"
	"github.com/jasonisamilehigh/taskme/internal/store"
)

// Server is the taskme webhook and API server.
type Server struct {
	machine   *dialog.Machine
	briefer   *scheduler.Briefer
	store     store.TaskStore
	extractor dialog.Extractor
	baseURL   string
	router    *gin.Engine
	log       *logrus.Logger
	startedAt time.Time
}

// NewServer wires the routes.
func NewServer(machine *dialog.Machine, briefer *scheduler.Briefer, st store.TaskStore, ex dialog.Extractor, baseURL string, log *logrus.Logger) *Server {
	router := gin.Default()

	s := &Server{
		machine:   machine,
		briefer:   briefer,
		store:     st,
		extractor: ex,
		baseURL:   baseURL,
		router:    router,
		log:       log,
		startedAt: time.Now(),
	}

	// Voice webhooks: one route per expected dialog state.
	router.POST(string(dialog.RouteInbound), s.voiceHandler(dialog.StateIdle))
	router.POST(string(dialog.RouteMenu), s.voiceHandler(dialog.StateAwaitingAddChoice))
	router.POST(string(dialog.RouteCapture), s.voiceHandler(dialog.StateAwaitingTaskSpeech))
	router.POST(string(dialog.RouteConfirm), s.voiceHandler(dialog.StateAwaitingConfirmation))
	router.POST(string(dialog.RouteAnother), s.voiceHandler(dialog.StateAwaitingAddAnother))
	router.POST(string(dialog.RouteBriefing), s.handleBriefingCall)

	// Diagnostic API
	api := router.Group("/api")
	{
		api.GET("/status", s.handleStatus)
		api.GET("/due", s.handleDue)
		api.POST("/briefing", s.handleTriggerBriefing)
		api.POST("/task", s.handleAddTask)
	}

	return s
}

// Run starts the server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
