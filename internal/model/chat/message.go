package chat

import (
	"encoding/json"
	"fmt"
)

// Sender identifies the author of a transcript entry.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"

	// legacySenderBot is how earlier web clients labelled assistant messages.
	legacySenderBot = "bot"
)

// Valid reports whether s is one of the two known senders.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAssistant
}

// UnmarshalJSON maps the legacy "bot" label onto SenderAssistant.
func (s *Sender) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == legacySenderBot {
		raw = string(SenderAssistant)
	}
	if !Sender(raw).Valid() {
		return fmt.Errorf("unknown sender %q", raw)
	}
	*s = Sender(raw)
	return nil
}

// Source is a citation attached to an assistant answer.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Message is one transcript entry.
type Message struct {
	Sender  Sender   `json:"sender"`
	Text    string   `json:"text"`
	Sources []Source `json:"sources,omitempty"`
}

// Clone returns a copy that shares no slices with m.
func (m Message) Clone() Message {
	if m.Sources != nil {
		m.Sources = append([]Source(nil), m.Sources...)
	}
	return m
}

const (
	DefaultGreetingText = "Hola! Soy tu asistente virtual de Adeslas. ¿Cómo puedo ayudarte a entender nuestros productos o buscar información relevante?"
	ApologyText         = "Lo siento, he tenido un problema para procesar tu solicitud. Por favor, inténtalo de nuevo."
)

// DefaultGreeting is the first message of every fresh transcript.
func DefaultGreeting() Message {
	return Message{Sender: SenderAssistant, Text: DefaultGreetingText}
}

// IsDefaultTranscript reports whether messages hold nothing but the greeting.
func IsDefaultTranscript(messages []Message) bool {
	if len(messages) == 0 {
		return true
	}
	return len(messages) == 1 && messages[0].Text == DefaultGreetingText
}
