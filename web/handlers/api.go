package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/campusbot/converse/internal/assistant"
	"github.com/campusbot/converse/internal/engine"
	"github.com/campusbot/converse/internal/storage"
	"github.com/campusbot/converse/pkg/types"
)

// ChatHandler exposes the context engine over REST for the widget.
type ChatHandler struct {
	engine    *engine.Engine
	client    *assistant.Client
	corrector *assistant.Corrector
	snapshots storage.SnapshotStore // optional; nil disables persistence
}

// NewChatHandler creates the chat handler. The assistant client, corrector
// and snapshot store may all be nil.
func NewChatHandler(eng *engine.Engine, client *assistant.Client, corrector *assistant.Corrector, snapshots storage.SnapshotStore) *ChatHandler {
	return &ChatHandler{engine: eng, client: client, corrector: corrector, snapshots: snapshots}
}

// Register wires the chat routes onto the mux.
func (h *ChatHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat/message", h.handleUserMessage)
	mux.HandleFunc("POST /api/chat/assistant", h.handleAssistantMessage)
	mux.HandleFunc("GET /api/chat/context/{id}", h.handleGetContext)
	mux.HandleFunc("GET /api/chat/debug/{id}", h.handleGetDebug)
	mux.HandleFunc("DELETE /api/chat/context/{id}", h.handleDeleteContext)
	mux.HandleFunc("GET /api/stats", h.handleStats)
}

// messageRequest is the inbound body for both message endpoints.
type messageRequest struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

// messageResponse is returned from POST /api/chat/message.
type messageResponse struct {
	ConversationID string                `json:"conversation_id"`
	EnrichedQuery  string                `json:"enriched_query"`
	Snapshot       types.ContextSnapshot `json:"snapshot"`
	Reply          string                `json:"reply,omitempty"`
	ReplyError     string                `json:"reply_error,omitempty"`
}

// handleUserMessage runs the full inbound pipeline: update the context,
// enrich the query, optionally call the assistant, and feed the reply back
// through the bot pass.
func (h *ChatHandler) handleUserMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	h.engine.OnUserMessage(req.ConversationID, req.Text)
	enriched := h.engine.EnrichedQuery(req.ConversationID, req.Text)
	snapshot := h.engine.Snapshot(req.ConversationID)

	resp := messageResponse{
		ConversationID: req.ConversationID,
		EnrichedQuery:  enriched,
		Snapshot:       snapshot,
	}

	if h.client != nil && h.client.Enabled() {
		reply, err := h.client.Ask(r.Context(), enriched, snapshot)
		if err != nil {
			// A failed upstream call must not lose the turn; the
			// context update already happened.
			resp.ReplyError = err.Error()
		} else {
			resp.Reply = reply
			h.engine.OnAssistantMessage(req.ConversationID, reply)
			resp.Snapshot = h.engine.Snapshot(req.ConversationID)
		}
	}

	h.persist(r.Context(), req.ConversationID)
	writeJSON(w, http.StatusOK, resp)
}

// handleAssistantMessage feeds an externally obtained assistant reply into
// the lighter bot pass.
func (h *ChatHandler) handleAssistantMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ConversationID == "" {
		writeError(w, http.StatusBadRequest, "conversation_id is required")
		return
	}

	h.engine.OnAssistantMessage(req.ConversationID, req.Text)
	h.persist(r.Context(), req.ConversationID)
	writeJSON(w, http.StatusOK, h.engine.Snapshot(req.ConversationID))
}

func (h *ChatHandler) handleGetContext(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Snapshot(r.PathValue("id")))
}

func (h *ChatHandler) handleGetDebug(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Debug(r.PathValue("id")))
}

func (h *ChatHandler) handleDeleteContext(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	dropped := h.engine.Drop(id)
	if h.snapshots != nil {
		if err := h.snapshots.Delete(r.Context(), id); err != nil {
			log.Printf("handlers: failed to delete persisted snapshot for %s: %v", id, err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"dropped": dropped})
}

// statsResponse is returned from GET /api/stats.
type statsResponse struct {
	Store        engine.StoreStats `json:"store"`
	BreakerState string            `json:"breaker_state,omitempty"`
}

func (h *ChatHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{Store: h.engine.Stats()}
	if h.client != nil {
		resp.BreakerState = h.client.BreakerState()
	}
	writeJSON(w, http.StatusOK, resp)
}

// persist saves the conversation's serialized context if a snapshot store
// is configured. Persistence failures are logged, never surfaced: losing a
// snapshot must not lose the turn.
func (h *ChatHandler) persist(ctx context.Context, conversationID string) {
	if h.snapshots == nil {
		return
	}
	record, ok := h.engine.Serialize(conversationID)
	if !ok {
		return
	}
	if err := h.snapshots.Save(ctx, record); err != nil {
		log.Printf("handlers: failed to persist snapshot for %s: %v", conversationID, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("handlers: failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
