package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/chat"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/storage/snapshot"
)

const testKey = "adeslas-chat-history"

func newTestStore(t *testing.T, snapshots snapshot.Store) *Store {
	t.Helper()
	return NewStore(snapshots, testKey, NewHub(8), zap.NewNop())
}

func TestRestoreWithoutSnapshotSeedsGreeting(t *testing.T) {
	store := newTestStore(t, snapshot.NewMemory())
	store.Restore(context.Background())

	msgs := store.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, chat.DefaultGreeting(), msgs[0])
	assert.False(t, store.CanClear())
}

func TestRestoreLoadsPersistedTranscript(t *testing.T) {
	ctx := context.Background()
	snapshots := snapshot.NewMemory()
	require.NoError(t, snapshots.Save(ctx, testKey, []byte(`[{"sender":"user","text":"hi"}]`)))

	store := newTestStore(t, snapshots)
	store.Restore(ctx)

	msgs := store.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, chat.Message{Sender: chat.SenderUser, Text: "hi"}, msgs[0])
	assert.True(t, store.CanClear())
}

func TestRestoreReadsLegacyBotSender(t *testing.T) {
	ctx := context.Background()
	snapshots := snapshot.NewMemory()
	raw := `[{"sender":"bot","text":"hola","sources":[{"uri":"https://a.test","title":"A"}]}]`
	require.NoError(t, snapshots.Save(ctx, testKey, []byte(raw)))

	store := newTestStore(t, snapshots)
	store.Restore(ctx)

	msgs := store.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, chat.SenderAssistant, msgs[0].Sender)
	assert.Equal(t, []chat.Source{{URI: "https://a.test", Title: "A"}}, msgs[0].Sources)
}

func TestRestoreDiscardsMalformedSnapshot(t *testing.T) {
	cases := map[string]string{
		"object":         `{}`,
		"quoted object":  `"{}"`,
		"null":           `null`,
		"broken json":    `[{"sender":"user"`,
		"unknown sender": `[{"sender":"robot","text":"x"}]`,
		"missing sender": `[{"text":"x"}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			snapshots := snapshot.NewMemory()
			require.NoError(t, snapshots.Save(ctx, testKey, []byte(raw)))

			store := newTestStore(t, snapshots)
			store.Restore(ctx)

			assert.Equal(t, []chat.Message{chat.DefaultGreeting()}, store.Messages())
			_, err := snapshots.Load(ctx, testKey)
			assert.ErrorIs(t, err, snapshot.ErrNotFound)
		})
	}
}

func TestRestoreEmptyArrayFallsBackToGreeting(t *testing.T) {
	ctx := context.Background()
	snapshots := snapshot.NewMemory()
	require.NoError(t, snapshots.Save(ctx, testKey, []byte(`[]`)))

	store := newTestStore(t, snapshots)
	store.Restore(ctx)

	assert.Equal(t, []chat.Message{chat.DefaultGreeting()}, store.Messages())
}

func TestAppendPersistsFullTranscript(t *testing.T) {
	ctx := context.Background()
	snapshots := snapshot.NewMemory()
	store := newTestStore(t, snapshots)

	store.Append(ctx, chat.Message{Sender: chat.SenderUser, Text: "hola"})

	reloaded := newTestStore(t, snapshots)
	reloaded.Restore(ctx)
	msgs := reloaded.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, chat.DefaultGreetingText, msgs[0].Text)
	assert.Equal(t, "hola", msgs[1].Text)
}

func TestReplaceLastOnlyTouchesAssistantMessage(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, snapshot.NewMemory())

	store.Append(ctx, chat.Message{Sender: chat.SenderUser, Text: "hola"})
	err := store.ReplaceLast(ctx, func(m *chat.Message) { m.Text = "changed" })
	require.ErrorIs(t, err, ErrImmutableMessage)
	assert.Equal(t, "hola", store.Messages()[1].Text)

	store.Append(ctx, chat.Message{Sender: chat.SenderAssistant})
	require.NoError(t, store.ReplaceLast(ctx, func(m *chat.Message) { m.Text = "respuesta" }))
	msgs := store.Messages()
	assert.Equal(t, "hola", msgs[1].Text)
	assert.Equal(t, "respuesta", msgs[2].Text)
}

func TestMessagesReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, snapshot.NewMemory())
	store.Append(ctx, chat.Message{
		Sender:  chat.SenderAssistant,
		Text:    "x",
		Sources: []chat.Source{{URI: "a", Title: "A"}},
	})

	msgs := store.Messages()
	msgs[1].Sources[0].URI = "mutated"

	assert.Equal(t, "a", store.Messages()[1].Sources[0].URI)
}

func TestClearResetsAndRemovesSnapshot(t *testing.T) {
	ctx := context.Background()
	snapshots := snapshot.NewMemory()
	store := newTestStore(t, snapshots)
	store.Append(ctx,
		chat.Message{Sender: chat.SenderUser, Text: "hola"},
		chat.Message{Sender: chat.SenderAssistant, Text: "buenas"},
	)

	store.Clear(ctx)

	assert.Equal(t, []chat.Message{chat.DefaultGreeting()}, store.Messages())
	_, err := snapshots.Load(ctx, testKey)
	assert.ErrorIs(t, err, snapshot.ErrNotFound)

	// Clearing an already default transcript still leaves exactly the greeting.
	store.Clear(ctx)
	assert.Equal(t, []chat.Message{chat.DefaultGreeting()}, store.Messages())
}

type failingSnapshots struct {
	snapshot.Store
	saves int
}

func (f *failingSnapshots) Save(context.Context, string, []byte) error {
	f.saves++
	return errors.New("disk full")
}

func TestPersistenceFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	snapshots := &failingSnapshots{Store: snapshot.NewMemory()}
	store := newTestStore(t, snapshots)

	store.Append(ctx, chat.Message{Sender: chat.SenderUser, Text: "hola"})

	assert.Equal(t, 1, snapshots.saves)
	require.Len(t, store.Messages(), 2)
}

func TestMutationsPublishTranscript(t *testing.T) {
	hub := NewHub(8)
	_, events, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	store := NewStore(snapshot.NewMemory(), testKey, hub, zap.NewNop())
	store.Append(context.Background(), chat.Message{Sender: chat.SenderUser, Text: "hola"})

	ev := <-events
	assert.Equal(t, EventTranscript, ev.Type)
	require.Len(t, ev.Messages, 2)
	assert.Equal(t, "hola", ev.Messages[1].Text)
}
