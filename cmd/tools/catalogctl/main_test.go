package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/chat"
	chatService "github.com/zhouzirui/adeslas-assistant/backend/internal/service/chat"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SNAPSHOT_BACKEND", "memory")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("CATALOG_PATH", "")
	t.Setenv("LOG_FILE", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestProductsFilteredByCategory(t *testing.T) {
	t.Cleanup(func() { categoryFlag = "" })

	out, err := execute(t, "products", "--category", "Dental")
	if err != nil {
		t.Fatalf("products err: %v", err)
	}
	if !strings.Contains(out, "adeslas-dental") || strings.Contains(out, "adeslas-plena") {
		t.Fatalf("unexpected listing:\n%s", out)
	}
}

func TestCompareRendersTable(t *testing.T) {
	out, err := execute(t, "compare", "adeslas-go", "adeslas-plena")
	if err != nil {
		t.Fatalf("compare err: %v", err)
	}
	for _, want := range []string{"Adeslas GO", "Adeslas Plena", "Ventajas"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestCompareRejectsDuplicateIDs(t *testing.T) {
	if _, err := execute(t, "compare", "adeslas-go", "adeslas-go"); err == nil {
		t.Fatal("expected error when the same product is toggled twice")
	}
}

func TestFollowPrintsStreamedText(t *testing.T) {
	rawFlag = true
	t.Cleanup(func() { rawFlag = false })

	events := make(chan chatService.Event, 4)
	assistant := func(text string) chatService.Event {
		return chatService.Event{Type: chatService.EventTranscript, Messages: []chat.Message{
			{Sender: chat.SenderUser, Text: "hola"},
			{Sender: chat.SenderAssistant, Text: text},
		}}
	}
	events <- assistant("Ho")
	events <- assistant("Hola mundo")
	events <- chatService.Event{Type: chatService.EventStatus, Loading: false}

	var out bytes.Buffer
	if err := follow(context.Background(), events, &out); err != nil {
		t.Fatalf("follow err: %v", err)
	}
	if out.String() != "Hola mundo" {
		t.Fatalf("unexpected output %q", out.String())
	}
}
