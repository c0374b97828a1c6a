package delivery

import (
	"context"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/dryfruit-backend/pkg/errors"
	"github.com/angelmondragon/dryfruit-backend/pkg/kvstore"
	"github.com/angelmondragon/dryfruit-backend/pkg/latency"
	"github.com/angelmondragon/dryfruit-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *service {
	t.Helper()
	svc, err := NewService(kvstore.NewMemoryStore(), kvstore.NewLocalLocker(), latency.None{}, logger.Nop())
	require.NoError(t, err)
	s := svc.(*service)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s
}

func personIDs(personnel []Person) []string {
	out := make([]string, 0, len(personnel))
	for _, p := range personnel {
		out = append(out, p.ID)
	}
	return out
}

func TestRosterIsSeeded(t *testing.T) {
	svc := newTestService(t)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Rahul Kumar", all[0].Name)
	assert.False(t, all[2].IsAvailable)

	available, err := svc.ListAvailable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, personIDs(available))
}

func TestRemove(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Remove(ctx, "2"))
	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, personIDs(all))

	// unknown ids are ignored
	require.NoError(t, svc.Remove(ctx, "99"))
	all, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAddAssignsUniqueIDs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Add(ctx, PersonInput{Name: " Neha ", Phone: "9876543213"})
	require.NoError(t, err)
	second, err := svc.Add(ctx, PersonInput{Name: "Vikram", Phone: "9876543214"})
	require.NoError(t, err)

	assert.Equal(t, "1700000000000", first.ID)
	assert.Equal(t, "1700000000001", second.ID)
	assert.Equal(t, "Neha", first.Name)
	assert.True(t, first.IsAvailable)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestUpdateAndToggle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	name := "Rahul K."
	updated, err := svc.Update(ctx, "1", PersonUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Rahul K.", updated.Name)
	assert.Equal(t, "9876543210", updated.Phone)

	toggled, err := svc.ToggleAvailability(ctx, "3")
	require.NoError(t, err)
	assert.True(t, toggled.IsAvailable)

	got, err := svc.Get(ctx, "3")
	require.NoError(t, err)
	assert.True(t, got.IsAvailable)

	_, err = svc.ToggleAvailability(ctx, "99")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = svc.Update(ctx, "99", PersonUpdate{Name: &name})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = svc.Get(ctx, "99")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestMutationsHonorCancellation(t *testing.T) {
	svc, err := NewService(kvstore.NewMemoryStore(), kvstore.NewLocalLocker(),
		latency.NewFixed(map[latency.Operation]time.Duration{latency.OpDeliveryMutate: time.Minute}, nil), logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, svc.Remove(ctx, "1"), context.Canceled)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
