package api

import (
	"context"
	"embed"
	"html/template"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"go-newscrew/internal/config"
	"go-newscrew/internal/crew"
	"go-newscrew/internal/history"
	"go-newscrew/internal/usage"
)

//go:embed templates/*.html
var templateFS embed.FS

// Analyzer runs the pipeline for one URL.
type Analyzer interface {
	Run(ctx context.Context, url string, observe crew.Observer) *crew.Analysis
}

// Services are the handlers' dependencies. History and Usage may be nil.
type Services struct {
	Analyzer Analyzer
	History  *history.Store
	Usage    *usage.Counter
	Log      zerolog.Logger
}

func SetupRouter(cfg *config.Config, svc *Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(svc.Log))
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	subpath := cfg.Server.Subpath // e.g. "/news", empty for root
	formAction := path.Join("/", subpath) + "/"
	if formAction == "//" {
		formAction = "/"
	}

	group := r.Group(subpath)
	{
		// Web form
		group.GET("/", IndexHandler(formAction))
		group.POST("/", SummarizeFormHandler(formAction, svc))

		group.GET("/health", healthHandler)
		group.GET("/config", configHandler(cfg))

		// JSON API
		group.POST("/api/analyze", AnalyzeHandler(svc))
		group.GET("/api/history", HistoryHandler(svc))
		group.GET("/api/history/:id", HistoryItemHandler(svc))
		group.GET("/api/usage", UsageHandler(svc))

		// Stage-by-stage progress over WebSocket
		group.GET("/ws/analyze", WSAnalyzeHandler(svc))
	}
	return r
}
