package progress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateAndOutstanding(t *testing.T) {
	tracker := &Progress{PolicyID: "p1"}
	tracker.Update(Delta{Opened: 3})
	tracker.Update(Delta{ConfirmedByRules: 1})
	tracker.Update(Delta{ConfirmedByIssuer: 1, SpentSettled: 200})

	snapshot := tracker.Snapshot()
	assert.Equal(t, 3, snapshot.OpenedRequests)
	assert.Equal(t, 1, snapshot.ConfirmedByRules)
	assert.Equal(t, 1, snapshot.ConfirmedByIssuer)
	assert.EqualValues(t, 200, snapshot.SpentSettled)
	assert.Equal(t, 1, tracker.Outstanding())
}

func TestOnChange(t *testing.T) {
	tracker := &Progress{}
	var last Progress
	tracker.OnChange(func(p Progress) { last = p })
	tracker.Update(Delta{Opened: 1})
	assert.Equal(t, 1, last.OpenedRequests)
}

func TestContextTracker(t *testing.T) {
	ctx, tracker := WithNewTracker(context.Background(), "p1", nil)
	UpdateCtx(ctx, Delta{Opened: 2, ConfirmedByAdmin: 1})
	assert.Equal(t, 2, tracker.Snapshot().OpenedRequests)
	assert.Equal(t, 1, tracker.Outstanding())

	// A context without a tracker is a no-op.
	UpdateCtx(context.Background(), Delta{Opened: 1})
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
}
