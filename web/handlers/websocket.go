package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/campusbot/converse/internal/assistant"
)

// wsFrame is one message on the widget channel, in either direction.
type wsFrame struct {
	// Type is "user" for widget input, "assistant" for replies fed back
	// by the host page, "typing" for in-progress input, "context" for
	// outbound snapshots and "correction" for typo-corrected previews.
	Type           string      `json:"type"`
	ConversationID string      `json:"conversation_id,omitempty"`
	Text           string      `json:"text,omitempty"`
	EnrichedQuery  string      `json:"enriched_query,omitempty"`
	Snapshot       interface{} `json:"snapshot,omitempty"`
	Reply          string      `json:"reply,omitempty"`
	Corrected      string      `json:"corrected,omitempty"`
	Error          string      `json:"error,omitempty"`
}

// HandleWebSocket serves the widget chat channel. Each connection carries
// one browser tab; frames run through the same pipeline as the REST
// endpoint and every processed message is answered with a context frame.
func (h *ChatHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // widget is embedded cross-origin
	})
	if err != nil {
		log.Printf("handlers: websocket accept failed: %v", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()

	// Per-connection debouncer: typing frames from this tab coalesce into
	// at most one correction call per pause.
	var debounce *assistant.Debouncer
	if h.corrector.Enabled() {
		debounce = h.corrector.NewDebounce()
		defer debounce.Cancel()
	}

	for {
		var frame wsFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			return
		}

		switch frame.Type {
		case "user":
			h.handleSocketUser(ctx, conn, frame)
		case "assistant":
			if frame.ConversationID != "" {
				h.engine.OnAssistantMessage(frame.ConversationID, frame.Text)
				h.persist(ctx, frame.ConversationID)
			}
		case "typing":
			if debounce != nil {
				h.submitCorrection(ctx, conn, debounce, frame)
			}
		default:
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			_ = wsjson.Write(writeCtx, conn, wsFrame{Type: "error", Error: "unknown frame type"})
			cancel()
		}
	}
}

// handleSocketUser processes one widget message and writes the context frame
// back. Assistant calls happen inline; the connection is per-tab and the
// widget expects exactly one response per input.
func (h *ChatHandler) handleSocketUser(ctx context.Context, conn *websocket.Conn, frame wsFrame) {
	if frame.ConversationID == "" {
		frame.ConversationID = uuid.NewString()
	}

	h.engine.OnUserMessage(frame.ConversationID, frame.Text)
	enriched := h.engine.EnrichedQuery(frame.ConversationID, frame.Text)
	snapshot := h.engine.Snapshot(frame.ConversationID)

	out := wsFrame{
		Type:           "context",
		ConversationID: frame.ConversationID,
		EnrichedQuery:  enriched,
		Snapshot:       snapshot,
	}

	if h.client != nil && h.client.Enabled() {
		reply, err := h.client.Ask(ctx, enriched, snapshot)
		if err != nil {
			out.Error = err.Error()
		} else {
			out.Reply = reply
			h.engine.OnAssistantMessage(frame.ConversationID, reply)
			out.Snapshot = h.engine.Snapshot(frame.ConversationID)
		}
	}

	h.persist(ctx, frame.ConversationID)

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := wsjson.Write(writeCtx, conn, out); err != nil {
		log.Printf("handlers: websocket write failed: %v", err)
	}
}

// submitCorrection schedules a debounced typo-correction call for an
// in-progress input and sends the corrected preview back when it lands.
func (h *ChatHandler) submitCorrection(ctx context.Context, conn *websocket.Conn, debounce *assistant.Debouncer, frame wsFrame) {
	text := frame.Text
	debounce.Submit(func() {
		callCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		corrected, err := h.corrector.Correct(callCtx, text)
		if err != nil {
			log.Printf("handlers: typo correction failed: %v", err)
			return
		}
		if corrected == text {
			return
		}
		out := wsFrame{Type: "correction", ConversationID: frame.ConversationID, Text: text, Corrected: corrected}
		if err := wsjson.Write(callCtx, conn, out); err != nil {
			log.Printf("handlers: websocket write failed: %v", err)
		}
	})
}
