package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/KUKRETI07/Rag-chat-bot/internal/history"
)

type stubAsker struct {
	answer string
	err    error
}

func (s *stubAsker) Ask(ctx context.Context, chatID, message string) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}
	if chatID == "" {
		chatID = "fresh-chat-id"
	}
	return s.answer, chatID, nil
}

func newTestRouter(t *testing.T, asker Asker) (http.Handler, *history.Store) {
	t.Helper()
	hist := history.NewStore(filepath.Join(t.TempDir(), "chat_history.json"))
	h := NewChatHandler(asker, hist)

	r := chi.NewRouter()
	r.Get("/", h.Root)
	r.Post("/ask", h.Ask)
	r.Get("/history", h.ListHistory)
	r.Get("/history/{chat_id}", h.ChatHistory)
	r.Post("/new", h.NewChat)
	return r, hist
}

func TestRoot_Liveness(t *testing.T) {
	router, _ := newTestRouter(t, &stubAsker{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["message"] != "RAG Chatbot API is running" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestAsk_ReturnsAnswerAndChatID(t *testing.T) {
	router, _ := newTestRouter(t, &stubAsker{answer: "from the handbook"})

	req := httptest.NewRequest("POST", "/ask", strings.NewReader(`{"message":"vacation?"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp AskResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Response != "from the handbook" {
		t.Errorf("response = %q", resp.Response)
	}
	if resp.ChatID != "fresh-chat-id" {
		t.Errorf("chat_id = %q", resp.ChatID)
	}
}

func TestAsk_KeepsSuppliedChatID(t *testing.T) {
	router, _ := newTestRouter(t, &stubAsker{answer: "ok"})

	req := httptest.NewRequest("POST", "/ask", strings.NewReader(`{"message":"hi","chat_id":"abc-123"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp AskResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.ChatID != "abc-123" {
		t.Errorf("chat_id = %q, want abc-123", resp.ChatID)
	}
}

func TestAsk_ServiceErrorIs500WithDetail(t *testing.T) {
	router, _ := newTestRouter(t, &stubAsker{err: fmt.Errorf("disk full")})

	req := httptest.NewRequest("POST", "/ask", strings.NewReader(`{"message":"hi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["detail"] != "disk full" {
		t.Errorf("detail = %q", body["detail"])
	}
}

func TestChatHistory_UnknownIDIsEmptyArrayNot404(t *testing.T) {
	router, _ := newTestRouter(t, &stubAsker{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/history/no-such-chat", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var messages []history.Message
	if err := json.NewDecoder(rec.Body).Decode(&messages); err != nil {
		t.Fatalf("body is not a JSON array: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("expected empty array, got %d messages", len(messages))
	}
}

func TestChatHistory_ReturnsMessages(t *testing.T) {
	router, hist := newTestRouter(t, &stubAsker{})

	chatID, _ := hist.CreateChat()
	hist.AppendMessage(chatID, history.RoleUser, "q")
	hist.AppendMessage(chatID, history.RoleAssistant, "a")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/history/"+chatID, nil))

	var messages []history.Message
	json.NewDecoder(rec.Body).Decode(&messages)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Content != "q" || messages[1].Content != "a" {
		t.Errorf("unexpected messages: %+v", messages)
	}
}

func TestListHistory_ReturnsSummaries(t *testing.T) {
	router, hist := newTestRouter(t, &stubAsker{})

	chatID, _ := hist.CreateChat()
	hist.AppendMessage(chatID, history.RoleUser, "what about parental leave")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/history", nil))

	var chats []history.ChatSummary
	json.NewDecoder(rec.Body).Decode(&chats)
	if len(chats) != 1 {
		t.Fatalf("expected 1 chat, got %d", len(chats))
	}
	if chats[0].ID != chatID {
		t.Errorf("id = %q", chats[0].ID)
	}
	if !strings.HasSuffix(chats[0].Title, "...") {
		t.Errorf("title should carry the truncation marker, got %q", chats[0].Title)
	}
}

func TestNewChat_ReturnsFreshID(t *testing.T) {
	router, hist := newTestRouter(t, &stubAsker{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/new", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp AskResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Response != "New chat started" {
		t.Errorf("response = %q", resp.Response)
	}
	if resp.ChatID == "" {
		t.Fatal("expected a chat id")
	}
	if len(hist.Messages(resp.ChatID)) != 0 {
		t.Error("new chat should be empty")
	}
}
