package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/a-korvus/business-management-system/internal/http/handlers"
	httpMW "github.com/a-korvus/business-management-system/internal/http/middleware"
	"github.com/a-korvus/business-management-system/internal/observability"
	"github.com/a-korvus/business-management-system/internal/pkg/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics
	// ExposeMetrics mounts GET /metrics on the API router.
	ExposeMetrics bool
	CORSOrigins   []string
	// ServiceName enables otelgin spans when set.
	ServiceName string

	HealthHandler  *httpH.HealthHandler
	MeetingHandler *httpH.MeetingHandler
	EventHandler   *httpH.EventHandler
	TaskHandler    *httpH.TaskHandler
	CommentHandler *httpH.CommentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(httpMW.Tracing(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.AttachRequestContext())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil && cfg.ExposeMetrics {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api/team")

	// Meetings
	if cfg.MeetingHandler != nil {
		api.POST("/meetings", httpMW.RequireIdentity(), cfg.MeetingHandler.Create)
		api.GET("/meetings/:id", cfg.MeetingHandler.Get)
		api.PATCH("/meetings/:id", cfg.MeetingHandler.Update)
		api.POST("/meetings/:id/members", cfg.MeetingHandler.IncludeUsers)
		api.DELETE("/meetings/:id", cfg.MeetingHandler.Deactivate)
	}

	// Calendar events
	if cfg.EventHandler != nil {
		api.POST("/events", cfg.EventHandler.Create)
		api.GET("/events", cfg.EventHandler.ListForPeriod)
		api.GET("/events/ics", cfg.EventHandler.ExportICS)
		api.GET("/events/:id", cfg.EventHandler.Get)
		api.POST("/events/:id/participants", cfg.EventHandler.IncludeUser)
		api.DELETE("/events/:id", cfg.EventHandler.Deactivate)
		api.GET("/users/:id/events", cfg.EventHandler.ListForUser)
	}

	// Tasks
	if cfg.TaskHandler != nil {
		api.POST("/tasks", httpMW.RequireIdentity(), cfg.TaskHandler.Create)
		api.GET("/tasks/:id", cfg.TaskHandler.Get)
		api.PATCH("/tasks/:id", cfg.TaskHandler.Update)
		api.DELETE("/tasks/:id", cfg.TaskHandler.Deactivate)
		api.GET("/users/:id/tasks", cfg.TaskHandler.ListAssigned)
		api.GET("/users/:id/grades", cfg.TaskHandler.Grades)
		api.GET("/commands/:id/grade", cfg.TaskHandler.CommandGrade)
	}

	// Comments
	if cfg.CommentHandler != nil {
		api.POST("/tasks/:id/comments", httpMW.RequireIdentity(), cfg.CommentHandler.Create)
		api.GET("/tasks/:id/comments", cfg.CommentHandler.Thread)
		api.PATCH("/comments/:id", cfg.CommentHandler.Update)
		api.GET("/comments/:id/replies", cfg.CommentHandler.Replies)
	}

	return r
}
