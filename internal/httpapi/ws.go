package httpapi

import (
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type wsInbound struct {
	Message string `json:"message"`
}

// handleChatWS serves the same turn stream as POST /chat over a
// persistent socket. Each inbound message runs one orchestration turn;
// frames mirror the SSE payloads with an extra "done" frame per turn.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	conversationID := strings.TrimSpace(r.URL.Query().Get("conversation_id"))
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	if err := conn.WriteJSON(map[string]any{
		"type":            "session",
		"conversation_id": conversationID,
	}); err != nil {
		return
	}

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("ws read failed: %v", err)
			}
			return
		}
		if strings.TrimSpace(in.Message) == "" {
			if err := conn.WriteJSON(map[string]any{
				"type":    "error",
				"content": "message is required",
			}); err != nil {
				return
			}
			continue
		}

		for ev := range s.runner.Run(r.Context(), conversationID, in.Message) {
			if err := conn.WriteJSON(frame(ev)); err != nil {
				return
			}
		}
		if err := conn.WriteJSON(map[string]any{"type": "done"}); err != nil {
			return
		}
	}
}
