package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "chat_history.json"))
}

func TestCreateChat_StartsEmpty(t *testing.T) {
	store := newTestStore(t)

	chatID, err := store.CreateChat()
	if err != nil {
		t.Fatalf("create chat failed: %v", err)
	}
	if chatID == "" {
		t.Fatal("expected a non-empty chat id")
	}

	messages := store.Messages(chatID)
	if len(messages) != 0 {
		t.Errorf("new chat should have no messages, got %d", len(messages))
	}
}

func TestCreateChat_UniqueIDs(t *testing.T) {
	store := newTestStore(t)

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		id, err := store.CreateChat()
		if err != nil {
			t.Fatalf("create chat failed: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate chat id %s", id)
		}
		seen[id] = true
	}
}

func TestAppendMessage_AssignsTimestamp(t *testing.T) {
	store := newTestStore(t)

	chatID, _ := store.CreateChat()
	if err := store.AppendMessage(chatID, RoleUser, "hello"); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	messages := store.Messages(chatID)
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	last := messages[len(messages)-1]
	if last.Content != "hello" || last.Role != RoleUser {
		t.Errorf("unexpected message: %+v", last)
	}
	if last.Timestamp == "" {
		t.Error("store should assign a timestamp")
	}
}

func TestAppendMessage_CreatesUnknownChat(t *testing.T) {
	store := newTestStore(t)

	if err := store.AppendMessage("ghost", RoleUser, "hi"); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if len(store.Messages("ghost")) != 1 {
		t.Error("append to unknown chat should create it")
	}
}

func TestMessages_UnknownChatIsEmpty(t *testing.T) {
	store := newTestStore(t)

	messages := store.Messages("does-not-exist")
	if messages == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(messages) != 0 {
		t.Errorf("expected no messages, got %d", len(messages))
	}
}

func TestLoad_CorruptFileYieldsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_history.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := NewStore(path)

	history := store.Load()
	if len(history) != 0 {
		t.Errorf("corrupt file should load as empty, got %d chats", len(history))
	}
}

func TestLoad_MissingFileYieldsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope.json"))

	if len(store.Load()) != 0 {
		t.Error("missing file should load as empty")
	}
}

func TestListChats_MatchesStoredChats(t *testing.T) {
	store := newTestStore(t)

	var ids []string
	for i := 0; i < 3; i++ {
		id, _ := store.CreateChat()
		ids = append(ids, id)
	}

	chats := store.ListChats()
	if len(chats) != len(ids) {
		t.Fatalf("expected %d chats, got %d", len(ids), len(chats))
	}
	listed := map[string]bool{}
	for _, c := range chats {
		listed[c.ID] = true
	}
	for _, id := range ids {
		if !listed[id] {
			t.Errorf("chat %s missing from list", id)
		}
	}
}

func TestListChats_TitleAndOrdering(t *testing.T) {
	store := newTestStore(t)

	first, _ := store.CreateChat()
	store.AppendMessage(first, RoleUser, "What is the vacation policy of this company exactly?")
	store.AppendMessage(first, RoleAssistant, "Twenty days.")

	second, _ := store.CreateChat()
	store.AppendMessage(second, RoleUser, "short one")

	chats := store.ListChats()
	if len(chats) != 2 {
		t.Fatalf("expected 2 chats, got %d", len(chats))
	}

	// Same-second timestamps are possible, so only check both orderings of
	// presence, then the derived titles.
	byID := map[string]ChatSummary{}
	for _, c := range chats {
		byID[c.ID] = c
	}

	long := byID[first]
	want := "What is the vacation policy of" + "..."
	if long.Title != want {
		t.Errorf("title = %q, want %q", long.Title, want)
	}
	if len(strings.TrimSuffix(long.Title, "...")) > 30 {
		t.Errorf("title body too long: %q", long.Title)
	}
	if long.Timestamp == "" {
		t.Error("chat with messages should have a timestamp")
	}
}

func TestListChats_DefaultTitleForEmptyChat(t *testing.T) {
	store := newTestStore(t)

	id, _ := store.CreateChat()
	chats := store.ListChats()
	if len(chats) != 1 || chats[0].ID != id {
		t.Fatalf("unexpected list: %+v", chats)
	}
	if chats[0].Title != "New Chat" {
		t.Errorf("title = %q, want New Chat", chats[0].Title)
	}
	if chats[0].Timestamp != "" {
		t.Errorf("empty chat should have empty timestamp, got %q", chats[0].Timestamp)
	}
}

func TestAskScenario_TwoMessagesInOrder(t *testing.T) {
	store := newTestStore(t)

	chatID, _ := store.CreateChat()
	store.AppendMessage(chatID, RoleUser, "What is the vacation policy?")
	store.AppendMessage(chatID, RoleAssistant, "See section 4 of the handbook.")

	messages := store.Messages(chatID)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != RoleUser || messages[1].Role != RoleAssistant {
		t.Errorf("wrong roles: %s, %s", messages[0].Role, messages[1].Role)
	}
}

func TestAppendMessage_ConcurrentAppendsAllSurvive(t *testing.T) {
	store := newTestStore(t)
	chatID, _ := store.CreateChat()

	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			done <- store.AppendMessage(chatID, RoleUser, "ping")
		}()
	}
	for i := 0; i < 10; i++ {
		if err := <-done; err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	if got := len(store.Messages(chatID)); got != 10 {
		t.Errorf("expected 10 messages after concurrent appends, got %d", got)
	}
}
