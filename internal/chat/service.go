package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/suPer8Hu/gopherchat/internal/ai"
	"github.com/suPer8Hu/gopherchat/internal/store/rabbitmq"
	"github.com/suPer8Hu/gopherchat/internal/store/redisstore"
)

type Service struct {
	repo     *Repo
	registry *ai.Registry
	provider string

	cache   *redisstore.Store
	events  *rabbitmq.Publisher
	timeout time.Duration
}

func NewService(repo *Repo, registry *ai.Registry, provider string, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		registry: registry,
		provider: provider,
		timeout:  60 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type Option func(*Service)

// WithCache enables the read-through transcript cache. Cache faults degrade
// to the database silently.
func WithCache(c *redisstore.Store) Option {
	return func(s *Service) { s.cache = c }
}

func WithEvents(p *rabbitmq.Publisher) Option {
	return func(s *Service) { s.events = p }
}

func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// SendMessage appends the user turn, asks the gateway to continue the full
// transcript, and appends the assistant turn. Once the user turn is stored
// this cannot fail outright: a gateway fault, a timeout, or unusable output
// all degrade to the rule-based fallback — a canned answer beats a dead-end
// chat box.
func (s *Service) SendMessage(ctx context.Context, userID uint64, content string) ([]Turn, error) {
	userTurn := &Turn{UserID: userID, Role: RoleUser, Content: content}
	if err := s.repo.InsertTurn(ctx, userTurn); err != nil {
		return nil, fmt.Errorf("append user turn: %w", err)
	}

	turns, err := s.repo.ListTurns(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}

	prompt := BuildPrompt(turns)
	reply := s.generate(ctx, userID, prompt, content)

	assistantTurn := &Turn{UserID: userID, Role: RoleAssistant, Content: reply}
	if err := s.repo.InsertTurn(ctx, assistantTurn); err != nil {
		return nil, fmt.Errorf("append assistant turn: %w", err)
	}

	s.invalidate(ctx, userID)
	s.events.Publish(ctx, rabbitmq.EventChatMessage, userID)

	return append(turns, *assistantTurn), nil
}

// generate runs the gateway call under the configured timeout and falls back
// to the keyword responder whenever it cannot produce usable text.
func (s *Service) generate(ctx context.Context, userID uint64, prompt, message string) string {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var reply string
	provider, err := s.registry.Get(cctx, s.provider)
	if err == nil {
		var generated string
		generated, err = provider.Complete(cctx, prompt)
		if err == nil {
			reply = ExtractReply(generated, prompt)
		}
	}
	if err != nil {
		log.Warn().Err(err).Uint64("user_id", userID).Msg("inference gateway unavailable, using fallback responder")
		reply = Fallback(message)
	}

	if reply == "" {
		reply = FallbackReply
	}
	return reply
}

// History returns the ordered transcript, consulting the cache first.
func (s *Service) History(ctx context.Context, userID uint64) ([]Turn, error) {
	if s.cache != nil {
		if b, err := s.cache.GetTranscript(ctx, userID); err == nil {
			var turns []Turn
			if err := json.Unmarshal(b, &turns); err == nil {
				return turns, nil
			}
		}
	}

	turns, err := s.repo.ListTurns(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}

	if s.cache != nil {
		if b, err := json.Marshal(turns); err == nil {
			if err := s.cache.SetTranscript(ctx, userID, b); err != nil {
				log.Debug().Err(err).Uint64("user_id", userID).Msg("transcript cache write failed")
			}
		}
	}

	return turns, nil
}

// Clear empties the transcript and persists in one unit.
func (s *Service) Clear(ctx context.Context, userID uint64) error {
	if err := s.repo.ClearTurns(ctx, userID); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	s.invalidate(ctx, userID)
	s.events.Publish(ctx, rabbitmq.EventChatClear, userID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		log.Debug().Err(err).Uint64("user_id", userID).Msg("transcript cache invalidate failed")
	}
}
