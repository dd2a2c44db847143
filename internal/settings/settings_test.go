package settings

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/worldle/apps/go-server/internal/geo"
	"github.com/robalobadob/worldle/apps/go-server/internal/store"
)

func ptr[T any](v T) *T { return &v }

func TestLoadDefaults(t *testing.T) {
	svc := NewService(store.NewMemoryStore())
	d, err := svc.Load(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, Default(), d)
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Set(ctx, "p", store.KeySettings, []byte(`{"theme":"dark"}`)))

	d, err := NewService(st).Load(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, Dark, d.Theme)
	assert.Equal(t, geo.Kilometers, d.DistanceUnit)
	assert.True(t, d.CountryListOnly)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := NewService(st)

	d, err := svc.Update(ctx, "p", Patch{
		DistanceUnit:     ptr(geo.Miles),
		AllowShiftingDay: ptr(true),
		ShiftDayCount:    ptr(12),
	})
	require.NoError(t, err)
	assert.Equal(t, geo.Miles, d.DistanceUnit)
	assert.Equal(t, 7, d.ShiftDayCount)
	assert.Equal(t, 7, d.EffectiveShift())

	raw, err := st.Get(ctx, "p", store.KeySettings)
	require.NoError(t, err)
	var stored Data
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, d, stored)

	d, err = svc.Update(ctx, "p", Patch{AllowShiftingDay: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, 0, d.EffectiveShift())
	assert.Equal(t, geo.Miles, d.DistanceUnit)
}

func TestUpdateRejectsInvalid(t *testing.T) {
	svc := NewService(store.NewMemoryStore())
	_, err := svc.Update(context.Background(), "p", Patch{Theme: ptr(Theme("sepia"))})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Update(context.Background(), "p", Patch{DistanceUnit: ptr(geo.Unit("furlongs"))})
	assert.ErrorIs(t, err, ErrInvalid)
}
