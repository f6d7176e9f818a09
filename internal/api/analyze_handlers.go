package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-newscrew/internal/history"
)

// IndexHandler renders the empty form.
func IndexHandler(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{"action": action})
	}
}

// SummarizeFormHandler handles the form POST. An empty url re-renders the form.
func SummarizeFormHandler(action string, svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		url := strings.TrimSpace(c.PostForm("url"))
		data := gin.H{"action": action, "url": url}
		if url != "" {
			data["analysis"] = svc.Analyzer.Run(c.Request.Context(), url, nil)
		}
		c.HTML(http.StatusOK, "index.html", data)
	}
}

type AnalyzeRequest struct {
	URL string `json:"url" binding:"required"`
}

// POST /api/analyze
func AnalyzeHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
			writeError(c, http.StatusBadRequest, "BAD_REQUEST", "url is required")
			return
		}
		a := svc.Analyzer.Run(c.Request.Context(), strings.TrimSpace(req.URL), nil)
		c.JSON(http.StatusOK, gin.H{
			"analysis": a,
			"result":   a.Result(),
		})
	}
}

// GET /api/history?limit=N
func HistoryHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(history.DefaultLimit)))
		if err != nil {
			writeError(c, http.StatusBadRequest, "BAD_REQUEST", "limit must be an integer")
			return
		}
		if !svc.History.Enabled() {
			c.JSON(http.StatusOK, gin.H{"enabled": false, "analyses": []history.Record{}})
			return
		}
		records, err := svc.History.Recent(c.Request.Context(), limit)
		if err != nil {
			svc.Log.Error().Err(err).Msg("history lookup failed")
			writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not load history")
			return
		}
		c.JSON(http.StatusOK, gin.H{"enabled": true, "analyses": records})
	}
}

// GET /api/history/:id
func HistoryItemHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !svc.History.Enabled() {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "history is disabled")
			return
		}
		rec, err := svc.History.Get(c.Request.Context(), c.Param("id"))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "analysis not found")
			return
		}
		if err != nil {
			svc.Log.Error().Err(err).Msg("history lookup failed")
			writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not load analysis")
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// GET /api/usage
func UsageHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := svc.Usage.Today(c.Request.Context())
		if err != nil {
			svc.Log.Error().Err(err).Msg("usage lookup failed")
			writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not load usage")
			return
		}
		c.JSON(http.StatusOK, gin.H{"enabled": svc.Usage != nil, "today": counts})
	}
}
