package scenario

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinSuitePasses(t *testing.T) {
	for _, sc := range Builtin(7) {
		t.Run(sc.Name, func(t *testing.T) {
			results := Run(context.Background(), []Scenario{sc}, BuiltinHarness(sc.Name))
			require.Len(t, results, 1)
			assert.True(t, results[0].Passed, "%s: %s (actual: %s)", sc.Name, results[0].Reason, results[0].Actual)
		})
	}
}

func TestRunReportsFailures(t *testing.T) {
	failing := Scenario{
		Name: "always fails",
		Play: func(_ context.Context, h *Harness) (string, error) {
			h.Advance(3 * time.Second)
			return "nothing", errors.New("boom")
		},
	}
	results := Run(context.Background(), []Scenario{failing}, func() *Harness { return NewHarness(nil, nil) })

	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Equal(t, "boom", results[0].Reason)
	assert.Equal(t, "nothing", results[0].Actual)
	assert.Equal(t, 3*time.Second, results[0].Simulated)
}

func TestReopenCarriesTheSaveSlot(t *testing.T) {
	ctx := context.Background()
	h := NewHarness(nil, nil)
	h.Click(5)
	require.NoError(t, h.Engine.Save(ctx))

	res, err := h.Reopen(ctx, Epoch.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, 5.0, h.State().Cookies)
	assert.EqualValues(t, 5, h.State().ManualClicks)
}
