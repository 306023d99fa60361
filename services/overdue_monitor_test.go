package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverdueMonitorPublishesOnce(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	f.ledger.Now = func() time.Time { return now }
	f.ledger.TabTerm = time.Hour
	notifier := &recordingNotifier{}
	f.ledger.Notifier = notifier

	tab, err := f.ledger.ResolveOpenTab(ctx, f.customer.ID)
	require.NoError(t, err)

	monitor := NewOverdueMonitor(f.ledger)

	overdue, err := monitor.Check(ctx)
	require.NoError(t, err)
	assert.Empty(t, overdue)

	now = now.Add(2 * time.Hour)
	overdue, err = monitor.Check(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, tab.ID, overdue[0].ID)

	_, err = monitor.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tab_opened", EventTabOverdue}, notifier.events)

	// closed tabs are no longer overdue
	_, err = f.ledger.CloseTab(ctx, tab.ID)
	require.NoError(t, err)
	overdue, err = monitor.Check(ctx)
	require.NoError(t, err)
	assert.Empty(t, overdue)
}
