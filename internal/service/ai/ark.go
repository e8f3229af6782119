package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/config"
)

// Ark runs the system + user prompt chain against a Volcengine Ark model.
// Ark has no hosted search tool, so answers never carry citations.
type Ark struct {
	chain  compose.Runnable[map[string]any, *schema.Message]
	logger *zap.Logger
}

// NewArk creates the Ark chat model from configuration and compiles the chain.
func NewArk(ctx context.Context, cfg config.ArkConfig, logger *zap.Logger) (*Ark, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewArkFromModel(ctx, chatModel, logger)
}

// NewArkFromModel compiles the chain around an existing chat model.
func NewArkFromModel(ctx context.Context, chatModel model.BaseChatModel, logger *zap.Logger) (*Ark, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Ark{chain: runnable, logger: logger}, nil
}

// Stream runs the chain in streaming mode and converts message deltas into chunks.
func (a *Ark) Stream(ctx context.Context, req Request) (*schema.StreamReader[Chunk], error) {
	if req.WebSearch {
		a.logger.Debug("web search requested but not supported by ark provider")
	}

	stream, err := a.chain.Stream(ctx, map[string]any{
		"system": req.SystemInstruction,
		"query":  req.Prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to stream AI chain output: %w", err)
	}

	return schema.StreamReaderWithConvert(stream, func(msg *schema.Message) (Chunk, error) {
		if msg == nil {
			return Chunk{}, schema.ErrNoValue
		}
		return Chunk{Text: msg.Content}, nil
	}), nil
}
