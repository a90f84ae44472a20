package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/sandevgo/barista/internal/config"
	"github.com/sandevgo/barista/internal/core"
	"github.com/sandevgo/barista/internal/service/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	mu       sync.Mutex
	requests []core.CompletionRequest
	reply    func(req core.CompletionRequest) (string, error)
}

func (f *fakeCompleter) Complete(ctx context.Context, req core.CompletionRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.reply(req)
}

func replyWith(text string) func(core.CompletionRequest) (string, error) {
	return func(core.CompletionRequest) (string, error) { return text, nil }
}

func newTestAgent(cfg *config.AppConfig, ai core.Completer) (*Agent, *memory.Store) {
	store := memory.NewStore()
	renderer, err := memory.NewRenderer(cfg.HistoryFormat)
	if err != nil {
		panic(err)
	}
	return NewAgent(cfg, ai, store, memory.NewLocker(), renderer, nil), store
}

func defaultCfg() *config.AppConfig {
	return &config.AppConfig{
		MaxTurns:      memory.DefaultMaxTurns,
		HistoryFormat: config.HistoryLabeled,
	}
}

func texts(turns []core.Turn) []string {
	out := make([]string, len(turns))
	for i, t := range turns {
		out[i] = t.Text
	}
	return out
}

func TestRun_FirstMessage(t *testing.T) {
	ai := &fakeCompleter{reply: replyWith("Try Cafe A")}
	ag, store := newTestAgent(defaultCfg(), ai)

	got, err := ag.Run(context.Background(), "u1", "Paris")

	require.NoError(t, err)
	assert.Equal(t, "Try Cafe A", got)
	require.Len(t, ai.requests, 1)
	assert.Equal(t, core.CompletionRequest{Context: "Paris", History: ""}, ai.requests[0])
	assert.Equal(t, []string{"Paris", "Try Cafe A"}, texts(store.Get("u1")))
	assert.Equal(t, []string{core.RoleUser, core.RoleAssistant}, []string{store.Get("u1")[0].Role, store.Get("u1")[1].Role})
}

func TestRun_EvictsOldestTurns(t *testing.T) {
	ai := &fakeCompleter{reply: replyWith("Try Cafe B")}
	ag, store := newTestAgent(defaultCfg(), ai)
	store.Put("u1", []core.Turn{
		core.UserTurn("Paris"),
		core.AssistantTurn("Try Cafe A"),
		core.UserTurn("Thanks"),
		core.AssistantTurn("You're welcome"),
	})

	got, err := ag.Run(context.Background(), "u1", "Berlin")

	require.NoError(t, err)
	assert.Equal(t, "Try Cafe B", got)
	assert.Equal(t, []string{"Thanks", "You're welcome", "Berlin", "Try Cafe B"}, texts(store.Get("u1")))
	assert.Equal(t,
		"User: Paris\nAssistant: Try Cafe A\nUser: Thanks\nAssistant: You're welcome",
		ai.requests[0].History,
	)
}

func TestRun_CompletionErrorLeavesHistory(t *testing.T) {
	errRateLimited := errors.New("429 too many requests")
	ai := &fakeCompleter{reply: func(core.CompletionRequest) (string, error) {
		return "", errRateLimited
	}}
	ag, store := newTestAgent(defaultCfg(), ai)
	before := []core.Turn{core.UserTurn("Paris"), core.AssistantTurn("Try Cafe A")}
	store.Put("u1", before)

	got, err := ag.Run(context.Background(), "u1", "Berlin")

	assert.Empty(t, got)
	assert.Same(t, errRateLimited, err)
	assert.Equal(t, before, store.Get("u1"))
}

func TestRun_CompletionErrorForNewUser(t *testing.T) {
	ai := &fakeCompleter{reply: func(core.CompletionRequest) (string, error) {
		return "", errors.New("connection refused")
	}}
	ag, store := newTestAgent(defaultCfg(), ai)

	_, err := ag.Run(context.Background(), "u1", "Paris")

	require.Error(t, err)
	assert.Empty(t, store.Get("u1"))
}

func TestRun_HistoryFormats(t *testing.T) {
	tests := []struct {
		name         string
		format       string
		includeInput bool
		expected     string
	}{
		{"labeled prior turns", config.HistoryLabeled, false, "User: Paris\nAssistant: Try Cafe A"},
		{"flat prior turns", config.HistoryFlat, false, "Paris Try Cafe A"},
		{"flat including input", config.HistoryFlat, true, "Paris Try Cafe A Which one is cheapest?"},
		{"labeled including input", config.HistoryLabeled, true, "User: Paris\nAssistant: Try Cafe A\nUser: Which one is cheapest?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultCfg()
			cfg.HistoryFormat = tt.format
			cfg.HistoryIncludeInput = tt.includeInput

			ai := &fakeCompleter{reply: replyWith("Cafe A")}
			ag, store := newTestAgent(cfg, ai)
			store.Put("u1", []core.Turn{core.UserTurn("Paris"), core.AssistantTurn("Try Cafe A")})

			_, err := ag.Run(context.Background(), "u1", "Which one is cheapest?")
			require.NoError(t, err)

			assert.Equal(t, "Which one is cheapest?", ai.requests[0].Context)
			assert.Equal(t, tt.expected, ai.requests[0].History)
		})
	}
}

func TestRun_FirstMessageIncludingInput(t *testing.T) {
	cfg := defaultCfg()
	cfg.HistoryFormat = config.HistoryFlat
	cfg.HistoryIncludeInput = true
	ai := &fakeCompleter{reply: replyWith("Try Cafe A")}
	ag, _ := newTestAgent(cfg, ai)

	_, err := ag.Run(context.Background(), "u1", "Paris")

	require.NoError(t, err)
	assert.Equal(t, "Paris", ai.requests[0].History)
}

func TestRun_HistoryNeverExceedsBound(t *testing.T) {
	ai := &fakeCompleter{reply: func(req core.CompletionRequest) (string, error) {
		return "re: " + req.Context, nil
	}}
	ag, store := newTestAgent(defaultCfg(), ai)

	for i := 0; i < 10; i++ {
		_, err := ag.Run(context.Background(), "u1", fmt.Sprintf("q%d", i))
		require.NoError(t, err)
		assert.LessOrEqual(t, len(store.Get("u1")), memory.DefaultMaxTurns)
	}
	assert.Equal(t, []string{"q8", "re: q8", "q9", "re: q9"}, texts(store.Get("u1")))
}

func TestRun_SameUserIsSerialized(t *testing.T) {
	cfg := defaultCfg()
	cfg.MaxTurns = 10

	release := make(chan struct{})
	var calls sync.WaitGroup
	calls.Add(1)
	var first sync.Once
	ai := &fakeCompleter{reply: func(req core.CompletionRequest) (string, error) {
		first.Do(func() {
			calls.Done()
			<-release
		})
		return "re: " + req.Context, nil
	}}
	ag, store := newTestAgent(cfg, ai)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = ag.Run(context.Background(), "u1", "a")
	}()
	calls.Wait()
	go func() {
		defer wg.Done()
		_, _ = ag.Run(context.Background(), "u1", "b")
	}()
	close(release)
	wg.Wait()

	assert.Equal(t, []string{"a", "re: a", "b", "re: b"}, texts(store.Get("u1")))
	require.Len(t, ai.requests, 2)
	assert.Equal(t, "User: a\nAssistant: re: a", ai.requests[1].History)
}

func TestRun_UsersAreIndependent(t *testing.T) {
	ai := &fakeCompleter{reply: func(req core.CompletionRequest) (string, error) {
		return "re: " + req.Context, nil
	}}
	ag, store := newTestAgent(defaultCfg(), ai)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := core.UserID(fmt.Sprintf("u%d", i))
			_, err := ag.Run(context.Background(), user, "hello")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, store.Users())
	assert.Equal(t, []string{"hello", "re: hello"}, texts(store.Get("u7")))
}

func TestRun_CancelledWhileWaitingForLock(t *testing.T) {
	ai := &fakeCompleter{reply: replyWith("ok")}
	store := memory.NewStore()
	locker := memory.NewLocker()
	ag := NewAgent(defaultCfg(), ai, store, locker, memory.LabeledRenderer{}, nil)

	unlock, err := locker.Lock(context.Background(), "u1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = ag.Run(ctx, "u1", "Paris")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ai.requests)
	assert.Empty(t, store.Get("u1"))
}

func TestRun_TokenCounterFailureIsIgnored(t *testing.T) {
	ai := &fakeCompleter{reply: replyWith("Try Cafe A")}
	store := memory.NewStore()
	counted := 0
	counter := func(text string) (int, error) {
		counted++
		return 0, errors.New("encoding unavailable")
	}
	ag := NewAgent(defaultCfg(), ai, store, memory.NewLocker(), memory.LabeledRenderer{}, counter)

	_, err := ag.Run(context.Background(), "u1", "Paris")

	require.NoError(t, err)
	assert.Equal(t, 1, counted)
	assert.Len(t, store.Get("u1"), 2)
}
