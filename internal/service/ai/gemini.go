package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/config"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/chat"
)

// Gemini streams answers from the Gemini API with Google Search grounding.
type Gemini struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGemini creates a Gemini-backed assistant.
func NewGemini(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (*Gemini, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{client: client, model: cfg.Model, logger: logger}, nil
}

// Stream starts a generation and forwards every response as a Chunk.
func (g *Gemini) Stream(ctx context.Context, req Request) (*schema.StreamReader[Chunk], error) {
	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
	}
	if req.WebSearch {
		genCfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	sr, sw := schema.Pipe[Chunk](8)
	go func() {
		defer sw.Close()

		responses := 0
		for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, genai.Text(req.Prompt), genCfg) {
			if err != nil {
				sw.Send(Chunk{}, fmt.Errorf("gemini stream: %w", err))
				return
			}
			responses++
			if closed := sw.Send(chunkFromResponse(resp), nil); closed {
				g.logger.Debug("gemini stream abandoned by reader", zap.Int("responses", responses))
				return
			}
		}
		g.logger.Debug("gemini stream finished", zap.String("model", g.model), zap.Int("responses", responses))
	}()

	return sr, nil
}

// chunkFromResponse extracts text and web citations from one streamed response.
func chunkFromResponse(resp *genai.GenerateContentResponse) Chunk {
	if resp == nil {
		return Chunk{}
	}

	chunk := Chunk{Text: resp.Text()}
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return chunk
	}

	for _, gc := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if gc == nil || gc.Web == nil || gc.Web.URI == "" || gc.Web.Title == "" {
			continue
		}
		chunk.Citations = append(chunk.Citations, chat.Source{URI: gc.Web.URI, Title: gc.Web.Title})
	}
	return chunk
}
