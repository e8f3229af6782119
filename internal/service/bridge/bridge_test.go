package bridge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSetPendingOverwritesUnhandledPrompt(t *testing.T) {
	b := New(zap.NewNop())

	first := b.SetPending("uno")
	second := b.SetPending("dos")

	p, ok := b.Pending()
	if !ok || p.Text != "dos" || p.Version != second.Version {
		t.Fatalf("expected latest prompt pending, got %+v (ok=%v)", p, ok)
	}
	if b.OnHandled(first.Version) {
		t.Fatal("acknowledging a stale version must not clear the slot")
	}
	if !b.OnHandled(second.Version) {
		t.Fatal("expected latest version to be acknowledged")
	}
	if _, ok := b.Pending(); ok {
		t.Fatal("expected empty slot after acknowledgment")
	}
}

func TestSetPendingIgnoresBlankText(t *testing.T) {
	b := New(zap.NewNop())
	b.SetPending("  ")
	if _, ok := b.Pending(); ok {
		t.Fatal("blank prompt must not be pending")
	}
}

func TestRunSubmitsOnlyLatestPromptOnce(t *testing.T) {
	b := New(zap.NewNop())

	var mu sync.Mutex
	var submitted []string
	done := make(chan struct{}, 4)
	submit := func(_ context.Context, text string) error {
		mu.Lock()
		submitted = append(submitted, text)
		mu.Unlock()
		done <- struct{}{}
		return nil
	}

	// Both values are set before the owner loop observes the slot.
	b.SetPending("primero")
	b.SetPending("segundo")

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		b.Run(ctx, submit)
		close(stopped)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pending prompt was not submitted")
	}
	// Give a duplicate submission a chance to show up.
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-stopped

	mu.Lock()
	defer mu.Unlock()
	if len(submitted) != 1 || submitted[0] != "segundo" {
		t.Fatalf("expected only the latest prompt once, got %v", submitted)
	}
	if _, ok := b.Pending(); ok {
		t.Fatal("expected slot cleared after submission")
	}
}

func TestRunAcknowledgesRejectedPrompt(t *testing.T) {
	b := New(zap.NewNop())
	attempts := make(chan string, 1)
	submit := func(_ context.Context, text string) error {
		attempts <- text
		return errors.New("busy")
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		b.Run(ctx, submit)
		close(stopped)
	}()

	b.SetPending("hola")
	if got := <-attempts; got != "hola" {
		t.Fatalf("unexpected submission %q", got)
	}
	cancel()
	<-stopped

	if _, ok := b.Pending(); ok {
		t.Fatal("rejected prompt should be dropped")
	}
}

func TestProductPrompt(t *testing.T) {
	got := ProductPrompt("Adeslas Plena")
	want := `Háblame más sobre el producto "Adeslas Plena", sus ventajas y para qué tipo de cliente es ideal.`
	if got != want {
		t.Fatalf("ProductPrompt = %q, want %q", got, want)
	}
}

func TestShouldFocusChat(t *testing.T) {
	cases := map[int]bool{0: false, 375: true, 1023: true, 1024: false, 1440: false}
	for width, want := range cases {
		if got := ShouldFocusChat(width); got != want {
			t.Fatalf("ShouldFocusChat(%d) = %v, want %v", width, got, want)
		}
	}
}
