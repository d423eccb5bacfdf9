package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/room-booking-api/internal/allocation"
	"github.com/noah-isme/room-booking-api/internal/dto"
	"github.com/noah-isme/room-booking-api/pkg/jobs"
)

func TestAvailabilityKey(t *testing.T) {
	r := allocation.NewTimeRange(allocation.MustParseTimeOfDay("10:00"), allocation.MustParseTimeOfDay("11:30"))
	assert.Equal(t, "availability:g0:10:00-11:30", AvailabilityKey(0, r))
	assert.Equal(t, "availability:g12:10:00-11:30", AvailabilityKey(12, r))
}

func TestAvailabilityCacheRoundTripAndInvalidate(t *testing.T) {
	repo := newMemoryCache()
	cache := NewAvailabilityCache(repo, nil, time.Minute, nil, true)
	ctx := context.Background()
	r := allocation.NewTimeRange(allocation.MustParseTimeOfDay("10:00"), allocation.MustParseTimeOfDay("10:15"))
	view := &dto.ViewRoomResponse{AvailableRooms: []dto.RoomDetails{{Room: "Amaze", Capacity: 3, Time: []string{"10:00 - 10:15"}}}}

	_, key, hit := cache.Lookup(ctx, r)
	require.False(t, hit)
	assert.Equal(t, AvailabilityKey(0, r), key)

	cache.Store(ctx, key, view)
	cached, _, hit := cache.Lookup(ctx, r)
	require.True(t, hit)
	assert.Equal(t, view, cached)

	require.NoError(t, cache.HandleJob(ctx, jobs.Job{Type: JobInvalidateAvailability}))
	_, key, hit = cache.Lookup(ctx, r)
	assert.False(t, hit)
	assert.Equal(t, AvailabilityKey(1, r), key)
	assert.NotContains(t, repo.data, AvailabilityKey(0, r))
}

func TestAvailabilityCacheDiscardsStoreFromBeforeInvalidation(t *testing.T) {
	repo := newMemoryCache()
	cache := NewAvailabilityCache(repo, nil, time.Minute, nil, true)
	ctx := context.Background()
	r := allocation.NewTimeRange(allocation.MustParseTimeOfDay("10:00"), allocation.MustParseTimeOfDay("10:15"))
	stale := &dto.ViewRoomResponse{AvailableRooms: []dto.RoomDetails{{Room: "Amaze", Capacity: 3, Time: []string{"10:00 - 10:15"}}}}

	_, key, hit := cache.Lookup(ctx, r)
	require.False(t, hit)
	require.NoError(t, cache.Invalidate(ctx))
	cache.Store(ctx, key, stale)

	_, freshKey, hit := cache.Lookup(ctx, r)
	assert.False(t, hit)
	assert.NotEqual(t, key, freshKey)
}

func TestAvailabilityCacheInvalidateReportsGenerationFailure(t *testing.T) {
	repo := newMemoryCache()
	repo.incrErr = errors.New("redis unavailable")
	cache := NewAvailabilityCache(repo, nil, time.Minute, nil, true)

	err := cache.Invalidate(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bump availability generation")
	assert.Zero(t, repo.deletes)
}

func TestAvailabilityCacheDisabled(t *testing.T) {
	repo := newMemoryCache()
	cache := NewAvailabilityCache(repo, nil, 0, nil, false)
	r := allocation.NewTimeRange(allocation.MustParseTimeOfDay("10:00"), allocation.MustParseTimeOfDay("10:15"))

	_, key, hit := cache.Lookup(context.Background(), r)
	cache.Store(context.Background(), AvailabilityKey(0, r), &dto.ViewRoomResponse{})

	assert.False(t, hit)
	assert.Empty(t, key)
	assert.Empty(t, repo.data)
	assert.NoError(t, cache.Invalidate(context.Background()))
	assert.Zero(t, repo.deletes)

	var nilCache *AvailabilityCache
	assert.False(t, nilCache.Enabled())
}

func TestAvailabilityCacheIgnoresUnknownJobs(t *testing.T) {
	repo := newMemoryCache()
	cache := NewAvailabilityCache(repo, nil, time.Minute, nil, true)

	require.NoError(t, cache.HandleJob(context.Background(), jobs.Job{Type: "report.generate"}))
	assert.Zero(t, repo.deletes)
}
