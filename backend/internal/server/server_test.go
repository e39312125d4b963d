package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-assistant/backend/internal/agent"
	"portfolio-assistant/backend/internal/services"
)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	a, err := services.Bootstrap(services.DatasetPaths{})
	require.NoError(t, err)
	return New(a, opts)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, Options{})

	w := do(t, s.Handler(), "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	decode(t, w, &response)
	assert.Equal(t, "ok", response["status"])
}

func TestChatEndpoint(t *testing.T) {
	s := newTestServer(t, Options{})

	tests := []struct {
		name   string
		body   string
		source agent.Source
	}{
		{"faq", `{"message":"What is your email address?"}`, agent.SourceFAQ},
		{"graph", `{"message":"Can you help me learn calculus for machine learning?"}`, agent.SourceGraph},
		{"fallback", `{"message":"What's your favorite pizza topping?"}`, agent.SourceFallback},
		{"blank message is answered", `{"message":""}`, agent.SourceFallback},
		{"missing message is answered", `{}`, agent.SourceFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s.Handler(), "POST", "/api/chat", tt.body)
			require.Equal(t, http.StatusOK, w.Code)
			var resp agent.Response
			decode(t, w, &resp)
			assert.Equal(t, tt.source, resp.Source)
			assert.NotEmpty(t, resp.Answer)
		})
	}
}

func TestChatEndpoint_InvalidRequest(t *testing.T) {
	s := newTestServer(t, Options{})

	for _, body := range []string{"", "{", `{"message": 12}`} {
		w := do(t, s.Handler(), "POST", "/api/chat", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestChatEndpoint_Debug(t *testing.T) {
	s := newTestServer(t, Options{})

	w := do(t, s.Handler(), "POST", "/api/chat", `{"message":"Are you available for a full-time position in AI/ML?","debug":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp agent.DebugResponse
	decode(t, w, &resp)
	assert.Equal(t, agent.SourceFallback, resp.Source)
	assert.Equal(t, "hiring_recruiter", string(resp.Debug.Intent))
	assert.Equal(t, []string{"experience", "skills", "projects", "goals"}, resp.Debug.PriorityAreas)
	assert.Equal(t, "are you available for a full-time position in ai/ml", resp.Debug.NormalizedQuestion)
}

func TestSuggestionsEndpoint(t *testing.T) {
	s := newTestServer(t, Options{SuggestionLimit: 2})

	w := do(t, s.Handler(), "POST", "/api/suggestions", `{"messages":[]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp SuggestionsResponse
	decode(t, w, &resp)
	assert.Len(t, resp.Suggestions, 2)
	assert.Equal(t, "How can I contact you?", resp.Suggestions[0].Question)

	w = do(t, s.Handler(), "POST", "/api/suggestions",
		`{"messages":[{"id":"1","text":"do you have a github?","sender":"user"}],"limit":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, "What is your GitHub profile?", resp.Suggestions[0].Question)

	w = do(t, s.Handler(), "POST", "/api/suggestions", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFAQsEndpoint(t *testing.T) {
	s := newTestServer(t, Options{})

	w := do(t, s.Handler(), "GET", "/api/faqs", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Count int `json:"count"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 33, resp.Count)
}

func TestGraphEndpoints(t *testing.T) {
	s := newTestServer(t, Options{})
	h := s.Handler()

	w := do(t, h, "GET", "/api/graph/entities?type=degree", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Count int `json:"count"`
	}
	decode(t, w, &list)
	assert.Equal(t, 5, list.Count)

	w = do(t, h, "GET", "/api/graph/entities", "")
	decode(t, w, &list)
	assert.Equal(t, 76, list.Count)

	w = do(t, h, "GET", "/api/graph/entities?q=sklearn", "")
	decode(t, w, &list)
	assert.Equal(t, 1, list.Count)

	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/api/graph/entities?type=planet", "").Code)

	w = do(t, h, "GET", "/api/graph/entities/calculus", "")
	require.Equal(t, http.StatusOK, w.Code)
	var entity EntityResponse
	decode(t, w, &entity)
	assert.Equal(t, "Calculus", entity.Entity.Name)
	assert.NotEmpty(t, entity.Incoming)

	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/api/graph/entities/nope", "").Code)

	w = do(t, h, "GET", "/api/graph/entities/calculus/connected", "")
	require.Equal(t, http.StatusOK, w.Code)
	var connected struct {
		Depth     int `json:"depth"`
		Connected []struct {
			ID string `json:"id"`
		} `json:"connected"`
	}
	decode(t, w, &connected)
	assert.Equal(t, 1, connected.Depth)
	assert.Len(t, connected.Connected, 3)

	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/api/graph/entities/calculus/connected?depth=9", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/api/graph/entities/calculus/connected?depth=x", "").Code)

	w = do(t, h, "GET", "/api/graph/paths?from=muneeb_ashraf&to=calculus", "")
	require.Equal(t, http.StatusOK, w.Code)
	var paths PathsResponse
	decode(t, w, &paths)
	assert.Equal(t, 3, paths.Depth)
	assert.Len(t, paths.Paths, 2)

	w = do(t, h, "GET", "/api/graph/paths?from=muneeb_ashraf&to=calculus&depth=1", "")
	decode(t, w, &paths)
	assert.Empty(t, paths.Paths)

	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/api/graph/paths?from=muneeb_ashraf", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/api/graph/paths?from=muneeb_ashraf&to=nope", "").Code)

	w = do(t, h, "GET", "/api/graph/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, Options{AllowedOrigins: []string{"https://example.com"}})

	req, _ := http.NewRequest("OPTIONS", "/api/chat", nil)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req, _ = http.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	open := newTestServer(t, Options{})
	w = do(t, open.Handler(), "GET", "/health", "")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Options{RateLimitRPS: 0.001, RateLimitBurst: 2})

	assert.Equal(t, http.StatusOK, do(t, s.Handler(), "GET", "/api/faqs", "").Code)
	assert.Equal(t, http.StatusOK, do(t, s.Handler(), "GET", "/api/faqs", "").Code)
	w := do(t, s.Handler(), "GET", "/api/faqs", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// health is never limited
	assert.Equal(t, http.StatusOK, do(t, s.Handler(), "GET", "/health", "").Code)
}

func TestIPRateLimiterEvictsIdleVisitors(t *testing.T) {
	l := newIPRateLimiter(1, 1)
	now := time.Now()
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
	assert.Equal(t, 2, l.size())

	now = now.Add(visitorIdleTTL + sweepInterval + time.Second)
	assert.True(t, l.Allow("c"))
	assert.Equal(t, 1, l.size())
}

func TestWebSocketChat(t *testing.T) {
	s := newTestServer(t, Options{SuggestionLimit: 3})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(WebSocketRequest{Type: FramePing}))
	var pong WebSocketResponse
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, FramePong, pong.Type)

	require.NoError(t, conn.WriteJSON(WebSocketRequest{
		Type:    FrameChat,
		Payload: json.RawMessage(`{"message":"What is your email address?"}`),
	}))
	var chat struct {
		Type    string `json:"type"`
		Payload struct {
			Message struct {
				Text   string `json:"text"`
				Sender string `json:"sender"`
			} `json:"message"`
			Answer      agent.Response `json:"answer"`
			Suggestions []struct {
				Question string `json:"question"`
			} `json:"suggestions"`
		} `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&chat))
	assert.Equal(t, FrameChat, chat.Type)
	assert.Equal(t, "muneebashraf.edu@gmail.com", chat.Payload.Message.Text)
	assert.Equal(t, "bot", chat.Payload.Message.Sender)
	assert.Equal(t, agent.SourceFAQ, chat.Payload.Answer.Source)
	require.Len(t, chat.Payload.Suggestions, 3)
	for _, sug := range chat.Payload.Suggestions {
		assert.NotEqual(t, "What is your email address?", sug.Question)
	}

	require.NoError(t, conn.WriteJSON(WebSocketRequest{Type: "shout"}))
	var bad WebSocketResponse
	require.NoError(t, conn.ReadJSON(&bad))
	assert.Equal(t, FrameError, bad.Type)
}

func TestWebSocketKeepAlive(t *testing.T) {
	prev := wsPingPeriod
	wsPingPeriod = 20 * time.Millisecond
	t.Cleanup(func() { wsPingPeriod = prev })

	s := newTestServer(t, Options{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	pings := make(chan struct{}, 1)
	conn.SetPingHandler(func(data string) error {
		select {
		case pings <- struct{}{}:
		default:
		}
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case <-pings:
	case <-time.After(2 * time.Second):
		t.Fatal("server sent no ping to an idle client")
	}
}
