package rag

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThen(t *testing.T) {
	parse := StageFunc[string, int](func(_ context.Context, s string) (int, error) {
		return strconv.Atoi(s)
	})
	double := StageFunc[int, int](func(_ context.Context, n int) (int, error) {
		return n * 2, nil
	})

	out, err := Then[string, int, int](parse, double).Run(context.Background(), "21")
	require.NoError(t, err)
	assert.Equal(t, 42, out)
}

func TestThen_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	called := false
	first := StageFunc[string, string](func(context.Context, string) (string, error) { return "", boom })
	second := StageFunc[string, string](func(_ context.Context, s string) (string, error) {
		called = true
		return s, nil
	})

	_, err := Then[string, string, string](first, second).Run(context.Background(), "x")
	require.ErrorIs(t, err, boom)
	assert.False(t, called)
}

func TestJoin(t *testing.T) {
	var order []string
	ctxStage := StageFunc[string, string](func(_ context.Context, q string) (string, error) {
		order = append(order, "context")
		return "ctx for " + q, nil
	})
	qStage := StageFunc[string, string](func(ctx context.Context, q string) (string, error) {
		order = append(order, "question")
		return Passthrough[string]().Run(ctx, q)
	})

	out, err := Join[string](ctxStage, qStage).Run(context.Background(), "why?")
	require.NoError(t, err)
	assert.Equal(t, PromptInput{Context: "ctx for why?", Question: "why?"}, out)
	assert.Equal(t, []string{"context", "question"}, order)
}

func TestJoin_ContextError(t *testing.T) {
	boom := errors.New("boom")
	ctxStage := StageFunc[string, string](func(context.Context, string) (string, error) { return "", boom })

	_, err := Join[string](ctxStage, Passthrough[string]()).Run(context.Background(), "q")
	require.ErrorIs(t, err, boom)
}

func TestObserved(t *testing.T) {
	obs := &recordingObserver{}
	boom := errors.New("boom")
	failing := StageFunc[int, int](func(context.Context, int) (int, error) { return 0, boom })

	_, err := Observed("ok", Passthrough[int](), obs).Run(context.Background(), 1)
	require.NoError(t, err)
	_, err = Observed[int, int]("bad", failing, obs).Run(context.Background(), 1)
	require.ErrorIs(t, err, boom)

	require.Len(t, obs.events, 2)
	assert.Equal(t, "ok", obs.events[0].stage)
	assert.NoError(t, obs.events[0].err)
	assert.Equal(t, "bad", obs.events[1].stage)
	assert.ErrorIs(t, obs.events[1].err, boom)
}

func TestObserved_NilObserver(t *testing.T) {
	s := Passthrough[string]()
	out, err := Observed("noop", s, nil).Run(context.Background(), "same")
	require.NoError(t, err)
	assert.Equal(t, "same", out)
}
