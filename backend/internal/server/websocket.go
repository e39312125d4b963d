package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"portfolio-assistant/backend/internal/faq"
	"portfolio-assistant/backend/internal/services"
	"portfolio-assistant/backend/internal/state"
)

// Frame types exchanged on /ws/chat
const (
	FrameChat  = "chat"
	FramePing  = "ping"
	FramePong  = "pong"
	FrameError = "error"
)

const (
	wsReadLimit     = 64 * 1024
	wsReadTimeout   = 60 * time.Second
	wsWriteTimeout  = 10 * time.Second
	transcriptLimit = 50
)

// wsPingPeriod must stay below wsReadTimeout so an idle client's pong
// arrives before its read deadline passes
var wsPingPeriod = wsReadTimeout * 9 / 10

// WebSocketRequest is a frame sent by the client
type WebSocketRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WebSocketResponse is a frame sent to the client
type WebSocketResponse struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// WebSocketChatResponse carries one answer plus follow-up suggestions
type WebSocketChatResponse struct {
	Message     state.ChatMessage `json:"message"`
	Answer      any               `json:"answer"`
	Suggestions []faq.Record      `json:"suggestions"`
}

func (s *Server) upgrader() websocket.Upgrader {
	allowed := s.opts.AllowedOrigins
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(allowed, r.Header.Get("Origin"))
		},
	}
}

// handleWebSocket serves one chat session. The transcript lives only as long
// as the connection and feeds suggestion ranking.
func (s *Server) handleWebSocket(c *gin.Context) {
	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	done := make(chan struct{})
	defer close(done)
	go s.keepAlive(conn, done)

	ctx := c.Request.Context()
	transcript := state.NewTranscript(transcriptLimit)

	for {
		var req WebSocketRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		var resp WebSocketResponse
		switch req.Type {
		case FrameChat:
			var payload ChatRequest
			if err := json.Unmarshal(req.Payload, &payload); err != nil {
				resp = errorFrame("invalid chat payload")
				break
			}

			transcript.Append(state.NewMessage(state.SenderUser, payload.Message))

			var answer any
			var reply state.ChatMessage
			if payload.Debug {
				d := s.assistant.AskWithDebug(ctx, services.SurfaceWebSocket, payload.Message)
				answer = d
				reply = state.NewMessage(state.SenderBot, d.Answer, d.Links...)
			} else {
				r := s.assistant.Ask(ctx, services.SurfaceWebSocket, payload.Message)
				answer = r
				reply = state.NewMessage(state.SenderBot, r.Answer, r.Links...)
			}
			transcript.Append(reply)

			resp = WebSocketResponse{
				Type: FrameChat,
				Payload: WebSocketChatResponse{
					Message:     reply,
					Answer:      answer,
					Suggestions: s.assistant.Suggest(transcript.Messages(), s.opts.SuggestionLimit),
				},
			}
		case FramePing:
			resp = WebSocketResponse{Type: FramePong}
		default:
			resp = errorFrame("unknown frame type " + req.Type)
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Debug("WebSocket write error", zap.Error(err))
			return
		}
	}
}

// keepAlive pings the client until done is closed or a ping fails.
// WriteControl may run concurrently with the read loop's writes.
func (s *Server) keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				s.logger.Debug("WebSocket ping failed", zap.Error(err))
				return
			}
		}
	}
}

func errorFrame(msg string) WebSocketResponse {
	return WebSocketResponse{Type: FrameError, Payload: gin.H{"error": msg}}
}
