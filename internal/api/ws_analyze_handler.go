package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"go-newscrew/internal/crew"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StageEvent is one message on /ws/analyze.
type StageEvent struct {
	Stage    crew.Stage     `json:"stage"`
	Title    string         `json:"title,omitempty"`
	Analysis *crew.Analysis `json:"analysis,omitempty"`
	Result   string         `json:"result,omitempty"`
}

// WSAnalyzeHandler runs the pipeline for ?url= and streams an event as each
// stage starts, then the finished analysis, then closes.
func WSAnalyzeHandler(svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		url := strings.TrimSpace(c.Query("url"))
		if url == "" {
			writeError(c, http.StatusBadRequest, "BAD_REQUEST", "url is required")
			return
		}

		conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			svc.Log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		defer conn.Close()

		// Observer runs on this goroutine, so writes are never concurrent.
		send := func(ev StageEvent) {
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(ev); err != nil {
				svc.Log.Debug().Err(err).Msg("websocket write failed")
			}
		}

		a := svc.Analyzer.Run(c.Request.Context(), url, func(stage crew.Stage, a *crew.Analysis) {
			switch stage {
			case crew.StageDone, crew.StageSkipped:
				send(StageEvent{Stage: stage, Analysis: a, Result: a.Result()})
			default:
				send(StageEvent{Stage: stage, Title: a.Title})
			}
		})

		svc.Log.Debug().Str("id", a.ID.String()).Msg("websocket analysis sent")
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
			time.Now().Add(time.Second))
	}
}
