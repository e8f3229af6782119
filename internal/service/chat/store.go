package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/chat"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/storage/snapshot"
)

var (
	ErrEmptyTranscript  = errors.New("transcript is empty")
	ErrImmutableMessage = errors.New("last message is not a mutable assistant message")
)

// Store owns the ordered session transcript and its persisted snapshot.
// Every mutation persists the full transcript before the lock is released,
// so snapshot writes happen in mutation order.
type Store struct {
	mu        sync.RWMutex
	messages  []chat.Message
	snapshots snapshot.Store
	key       string
	hub       *Hub
	logger    *zap.Logger
}

// NewStore creates a store seeded with the default greeting. Call Restore once
// at startup to load a persisted transcript.
func NewStore(snapshots snapshot.Store, key string, hub *Hub, logger *zap.Logger) *Store {
	return &Store{
		messages:  []chat.Message{chat.DefaultGreeting()},
		snapshots: snapshots,
		key:       key,
		hub:       hub,
		logger:    logger.Named("session"),
	}
}

// Restore loads the persisted transcript. Missing or empty snapshots fall back
// to the default greeting; malformed snapshots are also deleted.
func (s *Store) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = []chat.Message{chat.DefaultGreeting()}

	data, err := s.snapshots.Load(ctx, s.key)
	if errors.Is(err, snapshot.ErrNotFound) {
		s.publishLocked()
		return
	}
	if err != nil {
		s.logger.Warn("failed to load chat history", zap.String("key", s.key), zap.Error(err))
		s.publishLocked()
		return
	}

	messages, err := decodeTranscript(data)
	if err != nil {
		s.logger.Warn("discarding malformed chat history", zap.String("key", s.key), zap.Error(err))
		if delErr := s.snapshots.Delete(ctx, s.key); delErr != nil {
			s.logger.Error("failed to delete malformed chat history", zap.String("key", s.key), zap.Error(delErr))
		}
		s.publishLocked()
		return
	}

	if len(messages) > 0 {
		s.messages = messages
	}
	s.logger.Info("chat history restored", zap.Int("messages", len(s.messages)))
	s.publishLocked()
}

// Append adds messages to the end of the transcript and persists it.
func (s *Store) Append(ctx context.Context, messages ...chat.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range messages {
		s.messages = append(s.messages, m.Clone())
	}
	s.persistLocked(ctx)
	s.publishLocked()
}

// ReplaceLast applies mutate to the last message, which must be from the assistant.
func (s *Store) ReplaceLast(ctx context.Context, mutate func(*chat.Message)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.messages) == 0 {
		return ErrEmptyTranscript
	}
	last := s.messages[len(s.messages)-1].Clone()
	if last.Sender != chat.SenderAssistant {
		return ErrImmutableMessage
	}

	mutate(&last)
	s.messages[len(s.messages)-1] = last
	s.persistLocked(ctx)
	s.publishLocked()
	return nil
}

// Clear resets the transcript to the default greeting and deletes the snapshot.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.snapshots.Delete(ctx, s.key); err != nil {
		s.logger.Error("failed to delete chat history", zap.String("key", s.key), zap.Error(err))
	}
	s.messages = []chat.Message{chat.DefaultGreeting()}
	s.publishLocked()
}

// CanClear reports whether clearing would change anything visible.
func (s *Store) CanClear() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !chat.IsDefaultTranscript(s.messages)
}

// Messages returns a deep copy of the transcript.
func (s *Store) Messages() []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMessages(s.messages)
}

func (s *Store) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.messages)
	if err != nil {
		s.logger.Error("failed to encode chat history", zap.Error(err))
		return
	}
	if err := s.snapshots.Save(ctx, s.key, data); err != nil {
		s.logger.Error("failed to save chat history", zap.String("key", s.key), zap.Error(err))
	}
}

func (s *Store) publishLocked() {
	s.hub.Publish(Event{Type: EventTranscript, Messages: cloneMessages(s.messages)})
}

func decodeTranscript(data []byte) ([]chat.Message, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("transcript snapshot is not an array")
	}

	var messages []chat.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	for i, m := range messages {
		if !m.Sender.Valid() {
			return nil, fmt.Errorf("message %d has no sender", i)
		}
	}
	return messages, nil
}

func cloneMessages(messages []chat.Message) []chat.Message {
	out := make([]chat.Message, len(messages))
	for i, m := range messages {
		out[i] = m.Clone()
	}
	return out
}
