package ai

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/chat"
)

// Request is one call to the hosted assistant.
type Request struct {
	Prompt            string
	SystemInstruction string
	WebSearch         bool
}

// Chunk is an incremental piece of an assistant answer.
type Chunk struct {
	Text      string
	Citations []chat.Source
}

// Assistant streams answers from a hosted language model.
type Assistant interface {
	Stream(ctx context.Context, req Request) (*schema.StreamReader[Chunk], error)
}

// ErrUnavailable is returned when no assistant backend is configured.
var ErrUnavailable = errors.New("assistant backend not configured")

// Unavailable fails every request, so the session answers with the apology text.
type Unavailable struct{}

// Stream always fails with ErrUnavailable.
func (Unavailable) Stream(context.Context, Request) (*schema.StreamReader[Chunk], error) {
	return nil, ErrUnavailable
}
