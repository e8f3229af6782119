package bridge

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// NarrowViewportWidth is the width in pixels below which asking about a product
// also brings the conversation panel into view.
const NarrowViewportWidth = 1024

// Prompt is a pending question together with the version that set it.
type Prompt struct {
	Text    string
	Version uint64
}

// Bridge is a one-slot, last-write-wins hand-off from catalog views to the
// session owner. Acknowledgment is versioned so a value set while another is
// being consumed is never lost.
type Bridge struct {
	mu      sync.Mutex
	pending Prompt
	has     bool
	version uint64
	signal  chan struct{}
	logger  *zap.Logger
}

// New creates an empty bridge.
func New(logger *zap.Logger) *Bridge {
	return &Bridge{
		signal: make(chan struct{}, 1),
		logger: logger.Named("bridge"),
	}
}

// SetPending overwrites the slot with text. Blank text is ignored.
func (b *Bridge) SetPending(text string) Prompt {
	if strings.TrimSpace(text) == "" {
		return Prompt{}
	}

	b.mu.Lock()
	b.version++
	if b.has {
		b.logger.Debug("pending prompt overwritten", zap.Uint64("version", b.pending.Version))
	}
	b.pending = Prompt{Text: text, Version: b.version}
	b.has = true
	p := b.pending
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
	return p
}

// Pending returns the unhandled prompt, if any.
func (b *Bridge) Pending() (Prompt, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending, b.has
}

// OnHandled clears the slot if it still holds version. It reports whether the
// slot was cleared.
func (b *Bridge) OnHandled(version uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.has || b.pending.Version != version {
		return false
	}
	b.pending = Prompt{}
	b.has = false
	return true
}

// Run delivers each pending prompt to submit exactly once until ctx is done.
// A prompt whose submission fails is still acknowledged and dropped.
func (b *Bridge) Run(ctx context.Context, submit func(context.Context, string) error) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.signal:
		}

		p, ok := b.Pending()
		if !ok {
			continue
		}
		if err := submit(ctx, p.Text); err != nil {
			b.logger.Warn("pending prompt rejected", zap.Uint64("version", p.Version), zap.Error(err))
		}
		b.OnHandled(p.Version)
	}
}

// ProductPrompt is the question asked when a catalog card requests more detail.
func ProductPrompt(productName string) string {
	return fmt.Sprintf("Háblame más sobre el producto \"%s\", sus ventajas y para qué tipo de cliente es ideal.", productName)
}

// ShouldFocusChat reports whether a viewport is narrow enough that the
// conversation panel has to be scrolled into view.
func ShouldFocusChat(viewportWidth int) bool {
	return viewportWidth > 0 && viewportWidth < NarrowViewportWidth
}
