package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KUKRETI07/Rag-chat-bot/internal/history"
)

// Asker answers a question within a chat, creating the chat when id is empty.
type Asker interface {
	Ask(ctx context.Context, chatID, message string) (answer, id string, err error)
}

// HistoryReader is the read/create surface of the history store the
// handlers need.
type HistoryReader interface {
	ListChats() []history.ChatSummary
	Messages(chatID string) []history.Message
	CreateChat() (string, error)
}

type ChatHandler struct {
	svc     Asker
	history HistoryReader
}

func NewChatHandler(svc Asker, hist HistoryReader) *ChatHandler {
	return &ChatHandler{svc: svc, history: hist}
}

type AskRequest struct {
	Message string `json:"message"`
	ChatID  string `json:"chat_id,omitempty"`
}

type AskResponse struct {
	Response string `json:"response"`
	ChatID   string `json:"chat_id"`
}

func (h *ChatHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "RAG Chatbot API is running"})
}

func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusInternalServerError, "invalid request body")
		return
	}

	answer, chatID, err := h.svc.Ask(r.Context(), req.ChatID, req.Message)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{Response: answer, ChatID: chatID})
}

func (h *ChatHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.history.ListChats())
}

// ChatHistory returns the messages of one chat. An unknown id is an empty
// array with status 200, indistinguishable from a chat with no messages.
func (h *ChatHandler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chat_id")
	writeJSON(w, http.StatusOK, h.history.Messages(chatID))
}

func (h *ChatHandler) NewChat(w http.ResponseWriter, r *http.Request) {
	chatID, err := h.history.CreateChat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, AskResponse{Response: "New chat started", ChatID: chatID})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError matches the original wire format: {"detail": "..."}.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
