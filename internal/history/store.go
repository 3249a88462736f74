package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	defaultTitle = "New Chat"
	titleMaxLen  = 30
)

// Message is a single role-tagged entry in a chat. The timestamp is assigned
// by the store at append time, never by the caller.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// ChatSummary is the list view of a chat: id, derived title, and the
// timestamp of its most recent message.
type ChatSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
}

// Store persists all chats as a single JSON document on disk. Every mutation
// reads and rewrites the whole file; the mutex serializes those cycles so
// concurrent appends within the process cannot lose each other's updates.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
		now:  time.Now,
	}
}

// Load returns the full chat mapping. A missing file or a file that fails to
// parse both yield an empty mapping; corruption is logged so it is at least
// visible, but callers never see an error.
func (s *Store) Load() map[string][]Message {
	history, err := s.read()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("chat history unreadable, starting empty", "path", s.path, "error", err)
		}
		return map[string][]Message{}
	}
	return history
}

func (s *Store) read() (map[string][]Message, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var history map[string][]Message
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	if history == nil {
		history = map[string][]Message{}
	}
	return history, nil
}

// Save rewrites the backing file with the given mapping. The write goes
// through a temp file and rename so a crash mid-write cannot truncate the
// previous contents.
func (s *Store) Save(history map[string][]Message) error {
	data, err := json.MarshalIndent(history, "", "    ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".chat_history_*.json")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close history file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}

// CreateChat registers a fresh chat with no messages and returns its id.
func (s *Store) CreateChat() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chatID := uuid.New().String()
	history := s.Load()
	history[chatID] = []Message{}
	if err := s.Save(history); err != nil {
		return "", err
	}
	return chatID, nil
}

// AppendMessage adds a message to a chat, creating the chat entry if it does
// not exist yet, and persists the full history.
func (s *Store) AppendMessage(chatID, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.Load()
	if _, ok := history[chatID]; !ok {
		history[chatID] = []Message{}
	}
	history[chatID] = append(history[chatID], Message{
		Role:      role,
		Content:   content,
		Timestamp: s.now().Format(time.RFC3339),
	})
	return s.Save(history)
}

// Messages returns the message sequence for a chat. An unknown id yields an
// empty sequence, not an error.
func (s *Store) Messages(chatID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, ok := s.Load()[chatID]
	if !ok || messages == nil {
		return []Message{}
	}
	return messages
}

// ListChats returns one summary per chat, most recent first. The title is
// the first user message truncated to 30 characters, or "New Chat" when no
// user message exists yet.
func (s *Store) ListChats() []ChatSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.Load()
	chats := make([]ChatSummary, 0, len(history))
	for chatID, messages := range history {
		title := defaultTitle
		for _, msg := range messages {
			if msg.Role == RoleUser {
				title = truncateTitle(msg.Content)
				break
			}
		}

		timestamp := ""
		if len(messages) > 0 {
			timestamp = messages[len(messages)-1].Timestamp
		}

		chats = append(chats, ChatSummary{ID: chatID, Title: title, Timestamp: timestamp})
	}

	// Most recent first; chats with no messages sort last. Ties break on id
	// so the order is stable across calls.
	sort.Slice(chats, func(i, j int) bool {
		if chats[i].Timestamp != chats[j].Timestamp {
			return chats[i].Timestamp > chats[j].Timestamp
		}
		return chats[i].ID < chats[j].ID
	})
	return chats
}

func truncateTitle(content string) string {
	runes := []rune(content)
	if len(runes) > titleMaxLen {
		runes = runes[:titleMaxLen]
	}
	return string(runes) + "..."
}
