package server

import (
	"encoding/base64"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // same trust model as the plain JSON endpoints
	},
}

// streamResult is one per-message answer on the websocket, mirroring the
// /v1/validate response plus an error slot for malformed messages.
type streamResult struct {
	validateResponse
	Error string `json:"error,omitempty"`
}

// handleStream upgrades to a websocket and validates payloads one message
// at a time. Each client message is a validateRequest; each answer is a
// streamResult. The loop ends when the client closes the connection.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		var req validateRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		data, err := base64.StdEncoding.DecodeString(req.Payload)
		if err != nil {
			if writeErr := conn.WriteJSON(streamResult{Error: "decode payload: " + err.Error()}); writeErr != nil {
				return
			}
			continue
		}

		result := s.svc.Validate(r.Context(), data, req.config(s.defaults))
		msg := streamResult{validateResponse: validateResponse{
			StructurallyValid:  result.StructurallyValid,
			EntropyScore:       result.EntropyScore,
			VerificationTimeMs: result.VerificationTime.Milliseconds(),
			StructuralProof:    result.Proof,
		}}
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Warn("websocket write failed", "error", err)
			return
		}
	}
}
