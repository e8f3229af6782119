package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/chat"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/service/ai"
)

var (
	ErrEmptyPrompt = errors.New("prompt is empty")
	ErrInFlight    = errors.New("a response is already in flight")
	// ErrNothingToClear is returned when the transcript only holds the greeting.
	ErrNothingToClear = errors.New("transcript is already empty")
)

// CoordinatorConfig tunes how requests are sent to the assistant.
type CoordinatorConfig struct {
	SystemInstruction string
	// Timeout bounds a single request; zero means no limit.
	Timeout time.Duration
}

// Coordinator drives at most one assistant request at a time and streams its
// output into the last transcript message.
type Coordinator struct {
	store     *Store
	assistant ai.Assistant
	cfg       CoordinatorConfig
	hub       *Hub
	logger    *zap.Logger

	mu      sync.Mutex
	loading bool
	wg      sync.WaitGroup
}

// NewCoordinator wires the coordinator to its session store and assistant.
func NewCoordinator(store *Store, assistant ai.Assistant, cfg CoordinatorConfig, hub *Hub, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		store:     store,
		assistant: assistant,
		cfg:       cfg,
		hub:       hub,
		logger:    logger.Named("coordinator"),
	}
}

// Submit appends the user prompt and an empty assistant placeholder, then
// streams the answer in the background. The request is detached from ctx's
// cancellation: once accepted it always runs to completion or failure.
func (c *Coordinator) Submit(ctx context.Context, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmptyPrompt
	}

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrInFlight
	}
	c.loading = true
	c.wg.Add(1)
	c.mu.Unlock()
	c.publishStatus(true)

	ctx = context.WithoutCancel(ctx)
	c.store.Append(ctx,
		chat.Message{Sender: chat.SenderUser, Text: prompt},
		chat.Message{Sender: chat.SenderAssistant},
	)

	go c.run(ctx, uuid.NewString(), prompt)
	return nil
}

// Clear resets the transcript unless a response is in flight or there is
// nothing beyond the greeting to remove.
func (c *Coordinator) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return ErrInFlight
	}
	if !c.store.CanClear() {
		return ErrNothingToClear
	}
	c.store.Clear(ctx)
	return nil
}

// Loading reports whether a request is in flight.
func (c *Coordinator) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Wait blocks until the in-flight request, if any, has terminated.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Transcript returns the current session view.
func (c *Coordinator) Transcript() chat.Transcript {
	c.mu.Lock()
	loading := c.loading
	c.mu.Unlock()

	messages := c.store.Messages()
	return chat.Transcript{
		Messages: messages,
		Loading:  loading,
		CanClear: !loading && !chat.IsDefaultTranscript(messages),
	}
}

func (c *Coordinator) run(ctx context.Context, requestID, prompt string) {
	defer c.wg.Done()
	defer c.finish()

	logger := c.logger.With(zap.String("request_id", requestID))
	start := time.Now()

	streamCtx := ctx
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		streamCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	result, err := c.consume(streamCtx, ctx, prompt)
	if err != nil {
		logger.Error("assistant request failed", zap.Error(err), zap.Int("chunks", result.chunks), zap.Duration("elapsed", time.Since(start)))
		c.replaceLast(ctx, logger, func(m *chat.Message) {
			*m = chat.Message{Sender: chat.SenderAssistant, Text: chat.ApologyText}
		})
		return
	}

	if len(result.sources) > 0 {
		c.replaceLast(ctx, logger, func(m *chat.Message) {
			m.Sources = result.sources
		})
	}

	logger.Info("assistant response completed",
		zap.Int("chunks", result.chunks),
		zap.Int("length", result.length),
		zap.Int("sources", len(result.sources)),
		zap.Duration("elapsed", time.Since(start)),
	)
}

type streamResult struct {
	chunks  int
	length  int
	sources []chat.Source
}

// consume reads the assistant stream until EOF. streamCtx bounds the request;
// storeCtx is used for transcript writes so they outlive a request timeout.
func (c *Coordinator) consume(streamCtx, storeCtx context.Context, prompt string) (streamResult, error) {
	var result streamResult

	stream, err := c.assistant.Stream(streamCtx, ai.Request{
		Prompt:            prompt,
		SystemInstruction: c.cfg.SystemInstruction,
		WebSearch:         true,
	})
	if err != nil {
		return result, fmt.Errorf("open assistant stream: %w", err)
	}
	defer stream.Close()

	var text strings.Builder
	sources := newSourceSet()

	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return result, fmt.Errorf("receive assistant chunk: %w", recvErr)
		}
		result.chunks++

		if chunk.Text != "" {
			text.WriteString(chunk.Text)
			accumulated := text.String()
			if err := c.store.ReplaceLast(storeCtx, func(m *chat.Message) {
				m.Text = accumulated
			}); err != nil {
				return result, fmt.Errorf("update in-flight message: %w", err)
			}
		}
		sources.add(chunk.Citations...)
	}

	result.length = text.Len()
	result.sources = sources.list()
	return result, nil
}

func (c *Coordinator) replaceLast(ctx context.Context, logger *zap.Logger, mutate func(*chat.Message)) {
	if err := c.store.ReplaceLast(ctx, mutate); err != nil {
		logger.Error("failed to finalize assistant message", zap.Error(err))
	}
}

func (c *Coordinator) finish() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
	c.publishStatus(false)
}

func (c *Coordinator) publishStatus(loading bool) {
	c.hub.Publish(Event{Type: EventStatus, Loading: loading})
}

// sourceSet deduplicates citations by URI, keeping first-seen order.
type sourceSet struct {
	seen  map[string]struct{}
	items []chat.Source
}

func newSourceSet() *sourceSet {
	return &sourceSet{seen: make(map[string]struct{})}
}

func (s *sourceSet) add(sources ...chat.Source) {
	for _, src := range sources {
		if src.URI == "" {
			continue
		}
		if _, ok := s.seen[src.URI]; ok {
			continue
		}
		s.seen[src.URI] = struct{}{}
		s.items = append(s.items, src)
	}
}

func (s *sourceSet) list() []chat.Source {
	if len(s.items) == 0 {
		return nil
	}
	return append([]chat.Source(nil), s.items...)
}
