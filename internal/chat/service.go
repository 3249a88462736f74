package chat

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/KUKRETI07/Rag-chat-bot/internal/cache"
	"github.com/KUKRETI07/Rag-chat-bot/internal/history"
)

// Answerer produces displayable answer text for a question. It never fails:
// pipeline errors come back as error strings in the text itself.
type Answerer interface {
	Answer(ctx context.Context, question string) string
}

// Service orchestrates one ask: record the user message, get an answer,
// record the assistant message.
type Service struct {
	history  *history.Store
	answerer Answerer
	cache    *cache.Cache
	cacheTTL time.Duration
}

func NewService(hist *history.Store, answerer Answerer, c *cache.Cache, cacheTTL time.Duration) *Service {
	return &Service{
		history:  hist,
		answerer: answerer,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

// Ask handles a question within a chat. An empty chatID starts a new chat.
// Returns the answer text and the (possibly fresh) chat id.
func (s *Service) Ask(ctx context.Context, chatID, message string) (string, string, error) {
	if chatID == "" {
		id, err := s.history.CreateChat()
		if err != nil {
			return "", "", err
		}
		chatID = id
	}

	if err := s.history.AppendMessage(chatID, history.RoleUser, message); err != nil {
		return "", "", err
	}

	answer := s.cachedAnswer(ctx, message)

	if err := s.history.AppendMessage(chatID, history.RoleAssistant, answer); err != nil {
		return "", "", err
	}

	return answer, chatID, nil
}

// cachedAnswer consults the answer cache before invoking the pipeline.
// Cache failures are silent; the cache is an optimization, not a dependency.
func (s *Service) cachedAnswer(ctx context.Context, question string) string {
	key := answerCacheKey(question)

	var cached string
	if err := s.cache.Get(ctx, key, &cached); err == nil && cached != "" {
		return cached
	}

	answer := s.answerer.Answer(ctx, question)
	// Error strings are answers too, but not worth pinning in the cache.
	if !strings.HasPrefix(answer, "Error") {
		_ = s.cache.Set(ctx, key, answer, s.cacheTTL)
	}
	return answer
}

func answerCacheKey(question string) string {
	sum := sha256.Sum256([]byte(question))
	return "answer:" + hex.EncodeToString(sum[:])
}
