package server

import (
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/taskhub-ai/taskhub/internal/logging"
)

// chat handles POST /api/agents/semantic-kernel/chat
//
// The consuming UI expects a conversational reply, so this endpoint always
// answers 200 with plain text once the request itself is well-formed; agent
// and model failures arrive as textual replies, never as error statuses.
func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid request body")
		return
	}

	message := r.Form.Get("message")
	if message == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "message is required")
		return
	}

	sessionID := r.Form.Get("sessionId")
	if sessionID == "" {
		// Callers without a session token get a fresh one, echoed back
		// so they can continue the conversation.
		sessionID = ulid.Make().String()
		w.Header().Set("X-Session-Id", sessionID)
	}

	session := s.sessions.GetOrCreate(sessionID)

	logging.Debug().Str("session", sessionID).Int("len", len(message)).Msg("chat message received")

	reply := session.ProcessMessage(r.Context(), message)
	writeText(w, http.StatusOK, reply)
}
