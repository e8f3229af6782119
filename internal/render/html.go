package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/chat"
)

// HTML turns transcript messages into markup safe to inject into a page.
type HTML struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewHTML builds a renderer for GitHub-flavoured markdown with hard line breaks.
func NewHTML() *HTML {
	return &HTML{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(goldhtml.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Markdown renders src and strips anything outside the user-content policy.
func (r *HTML) Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return string(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// Message renders assistant text as markdown and user text as literal,
// preformatted text.
func (r *HTML) Message(msg chat.Message) (string, error) {
	if msg.Sender == chat.SenderUser {
		return `<p class="whitespace-pre-wrap">` + html.EscapeString(msg.Text) + `</p>`, nil
	}
	return r.Markdown(msg.Text)
}

// RenderedMessage pairs a message with its HTML.
type RenderedMessage struct {
	chat.Message
	HTML string `json:"html"`
}

// Transcript renders every message. A message that fails to render falls back
// to escaped text.
func (r *HTML) Transcript(messages []chat.Message) []RenderedMessage {
	out := make([]RenderedMessage, len(messages))
	for i, msg := range messages {
		rendered, err := r.Message(msg)
		if err != nil {
			rendered = `<p class="whitespace-pre-wrap">` + html.EscapeString(msg.Text) + `</p>`
		}
		out[i] = RenderedMessage{Message: msg, HTML: rendered}
	}
	return out
}
