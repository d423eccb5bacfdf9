package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/room-booking-api/internal/allocation"
	"github.com/noah-isme/room-booking-api/internal/dto"
	appErrors "github.com/noah-isme/room-booking-api/pkg/errors"
	"github.com/noah-isme/room-booking-api/pkg/jobs"
)

const (
	availabilityKeyPrefix = "availability:"
	// availabilityGenerationKey counts invalidations. It sits outside the
	// key prefix so pattern deletes never reset it.
	availabilityGenerationKey = "availability-generation"
	// JobInvalidateAvailability drops every cached availability view.
	JobInvalidateAvailability = "availability.invalidate"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	DeleteByPattern(ctx context.Context, pattern string) (int, error)
}

// AvailabilityCache caches View results per requested window. Entries are
// scoped to an invalidation generation: bumping the generation retires
// every entry at once, including ones written late by a View that read the
// ledger before the bump.
type AvailabilityCache struct {
	repo    CacheRepository
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	enabled bool
}

// NewAvailabilityCache constructs the cache. A nil repo disables it.
func NewAvailabilityCache(repo CacheRepository, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, enabled bool) *AvailabilityCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityCache{repo: repo, metrics: metrics, ttl: ttl, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (c *AvailabilityCache) Enabled() bool {
	return c != nil && c.enabled && c.repo != nil
}

// AvailabilityKey is the cache key of a window within a generation.
func AvailabilityKey(generation int64, r allocation.TimeRange) string {
	return fmt.Sprintf("%sg%d:%s-%s", availabilityKeyPrefix, generation, r.Start, r.End)
}

func (c *AvailabilityCache) generation(ctx context.Context) (int64, error) {
	var generation int64
	err := c.repo.Get(ctx, availabilityGenerationKey, &generation)
	if errors.Is(err, appErrors.ErrCacheMiss) {
		return 0, nil
	}
	return generation, err
}

// Lookup returns the cached view of r. It also returns the key a later
// Store must write to; the key is empty when nothing may be stored. Callers
// must read the ledger after Lookup so the key never outlives the data.
// Cache failures count as misses.
func (c *AvailabilityCache) Lookup(ctx context.Context, r allocation.TimeRange) (*dto.ViewRoomResponse, string, bool) {
	if !c.Enabled() {
		return nil, "", false
	}
	generation, err := c.generation(ctx)
	if err != nil {
		c.logger.Warn("availability cache generation read failed", zap.Error(err))
		c.metrics.RecordCacheLookup(false)
		return nil, "", false
	}

	key := AvailabilityKey(generation, r)
	var cached dto.ViewRoomResponse
	if err := c.repo.Get(ctx, key, &cached); err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			c.logger.Warn("availability cache get failed", zap.String("window", r.Label()), zap.Error(err))
		}
		c.metrics.RecordCacheLookup(false)
		return nil, key, false
	}
	c.metrics.RecordCacheLookup(true)
	return &cached, key, true
}

// Store caches resp under the key returned by Lookup. Failures are logged
// and otherwise ignored.
func (c *AvailabilityCache) Store(ctx context.Context, key string, resp *dto.ViewRoomResponse) {
	if !c.Enabled() || key == "" || resp == nil {
		return
	}
	if err := c.repo.Set(ctx, key, resp, c.ttl); err != nil {
		c.logger.Warn("availability cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate retires every cached window by bumping the generation, then
// removes the retired entries. Only a failed bump is reported; leftover
// entries are unreachable and expire with their TTL.
func (c *AvailabilityCache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	generation, err := c.repo.Incr(ctx, availabilityGenerationKey)
	if err != nil {
		return fmt.Errorf("bump availability generation: %w", err)
	}
	deleted, err := c.repo.DeleteByPattern(ctx, availabilityKeyPrefix+"*")
	if err != nil {
		c.logger.Warn("availability cache cleanup failed", zap.Int64("generation", generation), zap.Error(err))
		return nil
	}
	c.logger.Debug("availability cache invalidated", zap.Int64("generation", generation), zap.Int("keys", deleted))
	return nil
}

// HandleJob is the job queue handler for invalidation jobs.
func (c *AvailabilityCache) HandleJob(ctx context.Context, job jobs.Job) error {
	if job.Type != JobInvalidateAvailability {
		c.logger.Warn("ignoring unknown cache job", zap.String("type", job.Type), zap.String("job_id", job.ID))
		return nil
	}
	return c.Invalidate(ctx)
}
