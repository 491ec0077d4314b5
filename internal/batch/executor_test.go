package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/debloatkit/debloat/internal/catalog"
	"github.com/debloatkit/debloat/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptRunner answers each command from a table and records the order
// in which commands ran.
type scriptRunner struct {
	outputs map[string]*runner.Output
	errs    map[string]error
	ran     []string
}

func (s *scriptRunner) Name() string { return "script" }

func (s *scriptRunner) Run(_ context.Context, command string) (*runner.Output, error) {
	s.ran = append(s.ran, command)
	if err, ok := s.errs[command]; ok {
		return nil, err
	}
	if out, ok := s.outputs[command]; ok {
		return out, nil
	}
	return &runner.Output{}, nil
}

type countingRecorder struct {
	calls []string
}

func (c *countingRecorder) ObserveOperation(mode string, success bool, _ time.Duration) {
	result := "failure"
	if success {
		result = "success"
	}
	c.calls = append(c.calls, mode+"/"+result)
}

func newStore(t *testing.T, entries ...catalog.Entry) *catalog.Store {
	t.Helper()
	s, err := catalog.NewStore(entries)
	require.NoError(t, err)
	return s
}

func TestExecute_EmptyBatch(t *testing.T) {
	x := &Executor{Catalog: newStore(t), Runner: &scriptRunner{}}
	results := x.Execute(context.Background(), nil)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}

func TestExecute_OrderAndLength(t *testing.T) {
	r := &scriptRunner{outputs: map[string]*runner.Output{
		"remove a": {Stdout: "A"},
		"remove b": {Stdout: "B"},
		"remove c": {Stdout: "C"},
	}}
	x := &Executor{
		Catalog: newStore(t,
			catalog.Entry{ID: "a", Command: "remove a"},
			catalog.Entry{ID: "b", Command: "remove b"},
			catalog.Entry{ID: "c", Command: "remove c"},
		),
		Runner: r,
	}

	reqs := Requests(ModeNormal, "c", "a", "b", "a")
	results := x.Execute(context.Background(), reqs)

	require.Len(t, results, len(reqs))
	assert.Equal(t, []string{"C", "A", "B", "A"}, []string{results[0].Output, results[1].Output, results[2].Output, results[3].Output})
	assert.Equal(t, []string{"remove c", "remove a", "remove b", "remove a"}, r.ran, "no reordering or deduplication")
}

func TestExecute_NoShortCircuit(t *testing.T) {
	r := &scriptRunner{outputs: map[string]*runner.Output{
		"fail 1": {ExitCode: 1, Stderr: "boom"},
		"ok":     {Stdout: "fine"},
		"fail 2": {ExitCode: 3},
	}}
	x := &Executor{
		Catalog: newStore(t,
			catalog.Entry{ID: "one", Command: "fail 1"},
			catalog.Entry{ID: "two", Command: "ok"},
			catalog.Entry{ID: "three", Command: "fail 2"},
		),
		Runner: r,
	}

	results := x.Execute(context.Background(), Requests(ModeNormal, "one", "two", "three"))

	require.Len(t, results, 3)
	assert.Equal(t, []bool{false, true, false}, []bool{results[0].Success, results[1].Success, results[2].Success})
	assert.Equal(t, "boom", results[0].ErrorMessage())
	assert.Nil(t, results[1].Error)
	assert.Equal(t, "command failed with exit code 3", results[2].ErrorMessage())
	assert.Len(t, r.ran, 3)
}

func TestExecute_RollbackFallback(t *testing.T) {
	r := &scriptRunner{}
	x := &Executor{
		Catalog: newStore(t,
			catalog.Entry{ID: "norb", Command: "remove"},
			catalog.Entry{ID: "rb", Command: "remove rb", RollbackCommand: "restore rb"},
		),
		Runner: r,
	}

	results := x.Execute(context.Background(), []Request{
		{EntryID: "norb", Mode: ModeRollback},
		{EntryID: "rb", Mode: ModeRollback},
	})

	assert.Equal(t, Failed("", "no rollback available"), results[0])
	assert.True(t, results[1].Success)
	assert.Equal(t, []string{"restore rb"}, r.ran, "runner is not invoked without a rollback command")
}

func TestExecute_UnknownID(t *testing.T) {
	r := &scriptRunner{}
	x := &Executor{Catalog: newStore(t, catalog.Entry{ID: "a", Command: "x"}), Runner: r}

	results := x.Execute(context.Background(), Requests(ModeNormal, "missing", "a"))

	assert.Equal(t, Result{Success: false, Output: "", Error: results[0].Error}, results[0])
	assert.Equal(t, "entry not found", results[0].ErrorMessage())
	assert.True(t, results[1].Success)
	assert.Equal(t, []string{"x"}, r.ran)
}

func TestExecute_LaunchError(t *testing.T) {
	x := &Executor{Catalog: newStore(t, catalog.Entry{ID: "a", Command: "x"}), Runner: runner.Unsupported{}}

	results := x.Execute(context.Background(), Requests(ModeNormal, "a"))

	assert.False(t, results[0].Success)
	assert.Empty(t, results[0].Output)
	assert.Equal(t, "this application only runs on Windows", results[0].ErrorMessage())
}

func TestExecute_FailureKeepsStdout(t *testing.T) {
	r := &scriptRunner{outputs: map[string]*runner.Output{"x": {ExitCode: 2, Stdout: "partial", Stderr: "  denied\r\n"}}}
	x := &Executor{Catalog: newStore(t, catalog.Entry{ID: "a", Command: "x"}), Runner: r}

	res := x.Execute(context.Background(), Requests(ModeNormal, "a"))[0]
	assert.Equal(t, "partial", res.Output)
	assert.Equal(t, "denied", res.ErrorMessage())
}

func TestExecute_ProgressAndMetrics(t *testing.T) {
	r := &scriptRunner{errs: map[string]error{"bad": errors.New("cannot start")}}
	rec := &countingRecorder{}

	type call struct {
		index, total int
		id           string
		done         bool
	}
	var calls []call
	x := &Executor{
		Catalog: newStore(t,
			catalog.Entry{ID: "a", Command: "good"},
			catalog.Entry{ID: "b", Command: "bad", RollbackCommand: "bad"},
		),
		Runner:  r,
		Metrics: rec,
		Progress: func(index, total int, req Request, res *Result) {
			calls = append(calls, call{index, total, req.EntryID, res != nil})
			if res != nil {
				res.Success = !res.Success
			}
		},
	}

	results := x.Execute(context.Background(), []Request{{EntryID: "a"}, {EntryID: "b", Mode: ModeRollback}})

	assert.Equal(t, []call{{0, 2, "a", false}, {0, 2, "a", true}, {1, 2, "b", false}, {1, 2, "b", true}}, calls)
	assert.True(t, results[0].Success, "progress callback cannot alter results")
	assert.False(t, results[1].Success)
	assert.Equal(t, []string{"normal/success", "rollback/failure"}, rec.calls)
}

func TestExecute_ContextPassedThrough(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var seen []error
	r := runner.Func(func(ctx context.Context, _ string) (*runner.Output, error) {
		seen = append(seen, ctx.Err())
		return nil, ctx.Err()
	})
	x := &Executor{Catalog: newStore(t, catalog.Entry{ID: "a", Command: "x"}), Runner: r}

	results := x.Execute(ctx, Requests(ModeNormal, "a", "a"))
	require.Len(t, results, 2)
	assert.Equal(t, []error{context.Canceled, context.Canceled}, seen)
	assert.Equal(t, "context canceled", results[1].ErrorMessage())
}
