package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/recurring"
)

type stubRunner struct {
	calls  int
	result recurring.CycleResult
	err    error
}

func (s *stubRunner) RunCycle(context.Context) (recurring.CycleResult, error) {
	s.calls++
	return s.result, s.err
}

func TestRecurringCycleHandlerStampsEachExecution(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	runner := &stubRunner{result: recurring.CycleResult{Due: 1, Posted: 1}}
	handler := NewRecurringCycleHandler(logger, runner)

	task := NewRecurringCycleTask()
	require.NoError(t, handler(context.Background(), task))
	require.NoError(t, handler(context.Background(), task))
	require.Equal(t, 2, runner.calls)

	var ids []string
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var line struct {
			CycleID string `json:"cycle_id"`
		}
		require.NoError(t, dec.Decode(&line))
		require.NotEmpty(t, line.CycleID)
		ids = append(ids, line.CycleID)
	}
	require.Len(t, ids, 2)
	require.NotEqual(t, ids[0], ids[1], "reusing one task must not reuse a cycle id")
}
