package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/catalog"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/chat"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/render"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/service/ai"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/service/bridge"
	chatservice "github.com/zhouzirui/adeslas-assistant/backend/internal/service/chat"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/storage/snapshot"
)

// echoAssistant answers every prompt with its own text, waiting on gate first when set.
type echoAssistant struct {
	gate chan struct{}
}

func (e *echoAssistant) Stream(ctx context.Context, req ai.Request) (*schema.StreamReader[ai.Chunk], error) {
	sr, sw := schema.Pipe[ai.Chunk](1)
	go func() {
		defer sw.Close()
		if e.gate != nil {
			<-e.gate
		}
		sw.Send(ai.Chunk{Text: "eco: " + req.Prompt}, nil)
	}()
	return sr, nil
}

type fixture struct {
	router      *chi.Mux
	coordinator *chatservice.Coordinator
	hub         *chatservice.Hub
	bridge      *bridge.Bridge
}

func setupRouter(t *testing.T, assistant ai.Assistant) fixture {
	t.Helper()
	products, err := catalog.NewMemoryStore(catalog.Seed())
	if err != nil {
		t.Fatalf("NewMemoryStore err: %v", err)
	}

	hub := chatservice.NewHub(32)
	store := chatservice.NewStore(snapshot.NewMemory(), "test", hub, zap.NewNop())
	store.Restore(context.Background())
	coordinator := chatservice.NewCoordinator(store, assistant, chatservice.CoordinatorConfig{}, hub, zap.NewNop())
	br := bridge.New(zap.NewNop())

	r := chi.NewRouter()
	New(coordinator, hub, br, products, render.NewHTML(), zap.NewNop()).RegisterRoutes(r)
	t.Cleanup(coordinator.Wait)
	return fixture{router: r, coordinator: coordinator, hub: hub, bridge: br}
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSubmitMessage(t *testing.T) {
	f := setupRouter(t, &echoAssistant{})

	resp := doJSON(f.router, http.MethodPost, "/messages", `{"text":"hola"}`)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}
	f.coordinator.Wait()

	resp = doJSON(f.router, http.MethodGet, "/transcript", "")
	var view TranscriptView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(view.Messages) != 3 || view.Messages[2].Text != "eco: hola" {
		t.Fatalf("unexpected transcript %+v", view.Messages)
	}
	if !strings.Contains(view.Messages[1].HTML, "whitespace-pre-wrap") {
		t.Fatalf("expected literal user html, got %q", view.Messages[1].HTML)
	}
	if view.Loading || !view.CanClear {
		t.Fatalf("unexpected flags loading=%v canClear=%v", view.Loading, view.CanClear)
	}
}

func TestSubmitBlankMessage(t *testing.T) {
	f := setupRouter(t, &echoAssistant{})

	resp := doJSON(f.router, http.MethodPost, "/messages", `{"text":"   "}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if f.coordinator.Loading() {
		t.Fatal("blank submission must not start loading")
	}
}

func TestSubmitWhileLoadingConflicts(t *testing.T) {
	gate := make(chan struct{})
	f := setupRouter(t, &echoAssistant{gate: gate})

	if resp := doJSON(f.router, http.MethodPost, "/messages", `{"text":"uno"}`); resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}
	if resp := doJSON(f.router, http.MethodPost, "/messages", `{"text":"dos"}`); resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
	if resp := doJSON(f.router, http.MethodDelete, "/transcript", ""); resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 while loading, got %d", resp.Code)
	}
	close(gate)
	f.coordinator.Wait()
}

func TestClearTranscript(t *testing.T) {
	f := setupRouter(t, &echoAssistant{})

	if resp := doJSON(f.router, http.MethodDelete, "/transcript", ""); resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for default transcript, got %d", resp.Code)
	}

	doJSON(f.router, http.MethodPost, "/messages", `{"text":"hola"}`)
	f.coordinator.Wait()

	if resp := doJSON(f.router, http.MethodDelete, "/transcript", ""); resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if msgs := f.coordinator.Transcript().Messages; len(msgs) != 1 || msgs[0].Text != chat.DefaultGreetingText {
		t.Fatalf("unexpected transcript after clear %+v", msgs)
	}
}

func TestAskAboutProduct(t *testing.T) {
	f := setupRouter(t, &echoAssistant{})
	_, events, unsubscribe := f.hub.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		f.bridge.Run(ctx, f.coordinator.Submit)
		close(stopped)
	}()
	defer func() {
		cancel()
		<-stopped
	}()

	resp := doJSON(f.router, http.MethodPost, "/products/adeslas-plena/ask", `{"viewportWidth":390}`)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}
	var body struct {
		Prompt    string `json:"prompt"`
		FocusChat bool   `json:"focusChat"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if body.Prompt != bridge.ProductPrompt("Adeslas Plena") || !body.FocusChat {
		t.Fatalf("unexpected body %+v", body)
	}

	sawFocus := false
	deadline := time.After(2 * time.Second)
	for !sawFocus {
		select {
		case ev := <-events:
			sawFocus = ev.Type == chatservice.EventFocusChat && ev.Prompt == body.Prompt
		case <-deadline:
			t.Fatal("focus_chat event not published")
		}
	}

	waitFor(t, func() bool {
		msgs := f.coordinator.Transcript().Messages
		return len(msgs) == 3 && msgs[1].Text == body.Prompt && !f.coordinator.Loading()
	})
}

func TestAskAboutUnknownProduct(t *testing.T) {
	f := setupRouter(t, &echoAssistant{})
	if resp := doJSON(f.router, http.MethodPost, "/products/missing/ask", `{}`); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
