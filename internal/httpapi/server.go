package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sharunashwanth/mittai-agent/internal/config"
	"github.com/sharunashwanth/mittai-agent/internal/ingest"
	"github.com/sharunashwanth/mittai-agent/internal/observability"
	"github.com/sharunashwanth/mittai-agent/internal/orchestrator"
	"github.com/sharunashwanth/mittai-agent/internal/session"
)

// Runner drives one user turn to a streamed, finalized response.
type Runner interface {
	Run(ctx context.Context, conversationID, userText string) <-chan orchestrator.Event
}

type Server struct {
	cfg        config.Config
	sessions   *session.Manager
	runner     Runner
	metrics    *observability.Metrics
	engineMode string
	storeMode  string
	upgrader   websocket.Upgrader
}

func New(cfg config.Config, sessions *session.Manager, runner Runner, metrics *observability.Metrics, engineMode, storeMode string) *Server {
	return &Server{
		cfg:        cfg,
		sessions:   sessions,
		runner:     runner,
		metrics:    metrics,
		engineMode: engineMode,
		storeMode:  storeMode,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only same-origin browser connections unless explicitly
				// opened up; non-browser clients omit Origin and pass.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleHealth)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/chat", s.handleChat)
	r.Get("/chat/ws", s.handleChatWS)
	r.Get("/chat/{id}", s.handleGetTranscript)
	r.Get("/conversations-list", s.handleListConversations)
	r.Post("/ingest-file", s.handleIngestFile)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"engine_mode": s.engineMode,
		"event_store": s.storeMode,
	})
}

type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "message is required")
		return
	}
	if strings.TrimSpace(req.ConversationID) == "" {
		req.ConversationID = uuid.NewString()
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "unsupported", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Conversation-Id", req.ConversationID)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for ev := range s.runner.Run(r.Context(), req.ConversationID, req.Message) {
		payload, err := json.Marshal(frame(ev))
		if err != nil {
			continue
		}
		// One event per line: framing prefix, JSON object, blank line.
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}
}

func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		respondError(w, http.StatusBadRequest, "invalid_conversation_id", "missing conversation id")
		return
	}
	// Unknown ids materialize as empty conversations rather than 404s.
	conv, _ := s.sessions.GetOrCreate(id)
	respondJSON(w, http.StatusOK, map[string]any{
		"status":          "success",
		"conversation_id": conv.ID,
		"messages":        conv.Turns,
		"created_at":      conv.CreatedAt.Format(time.RFC3339),
	})
}

func (s *Server) handleListConversations(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":        "success",
		"conversations": s.sessions.ListRecent(),
	})
}

func (s *Server) handleIngestFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	conversationID := strings.TrimSpace(r.FormValue("conversation_id"))
	if conversationID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "conversation_id is required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	text, chunks, err := ingest.Extract(header.Filename, data)
	if errors.Is(err, ingest.ErrUnsupportedType) {
		respondError(w, http.StatusBadRequest, "unsupported_file_type", "Unsupported file type")
		return
	}
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "extraction_failed", err.Error())
		return
	}

	if s.sessions.HasDocument(conversationID, header.Filename) {
		respondJSON(w, http.StatusOK, map[string]any{
			"status":          "duplicate",
			"conversation_id": conversationID,
			"file":            header.Filename,
			"chunks_added":    0,
		})
		return
	}

	s.sessions.AppendTurn(conversationID, session.Turn{
		Role:    session.RoleSystem,
		Content: ingest.SystemTurnContent(session.DocumentPrefix, header.Filename, text),
	})
	s.metrics.Turns.WithLabelValues(session.RoleSystem).Inc()

	respondJSON(w, http.StatusOK, map[string]any{
		"status":          "success",
		"conversation_id": conversationID,
		"file":            header.Filename,
		"chunks_added":    chunks,
	})
}

func frame(ev orchestrator.Event) map[string]any {
	switch e := ev.(type) {
	case orchestrator.TextDelta:
		return map[string]any{"type": "text", "content": e.Content}
	case orchestrator.ToolCallAnnouncement:
		return map[string]any{"type": "tool_call", "content": e.Calls}
	default:
		return map[string]any{"type": "unknown"}
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
