package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"news-reporter/internal/schedule"
)

const (
	jobsKey = "news:jobs"
	// firedTTL keeps a claimed slot long enough to cover clock skew between
	// replicas and a full day rollover.
	firedTTL = 48 * time.Hour
)

func firedKey(jobID, slot string) string {
	return fmt.Sprintf("news:fired:%s:%s", jobID, slot)
}

// RedisJobStore keeps jobs as JSON values in one hash keyed by job id.
type RedisJobStore struct {
	rdb *redis.Client
}

func NewRedisJobStore(rdb *redis.Client) *RedisJobStore {
	return &RedisJobStore{rdb: rdb}
}

func (s *RedisJobStore) List(ctx context.Context) ([]schedule.Job, error) {
	vals, err := s.rdb.HGetAll(ctx, jobsKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]schedule.Job, 0, len(vals))
	for id, v := range vals {
		var j schedule.Job
		if err := json.Unmarshal([]byte(v), &j); err != nil {
			return nil, fmt.Errorf("decode job %s: %w", id, err)
		}
		out = append(out, j)
	}
	schedule.SortJobs(out)
	return out, nil
}

func (s *RedisJobStore) Add(ctx context.Context, j schedule.Job) error {
	b, err := json.Marshal(j)
	if err != nil {
		return err
	}
	return s.rdb.HSet(ctx, jobsKey, j.ID, b).Err()
}

func (s *RedisJobStore) Remove(ctx context.Context, id string) error {
	n, err := s.rdb.HDel(ctx, jobsKey, id).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", schedule.ErrJobNotFound, id)
	}
	return nil
}

// RedisLedger claims firing slots with SETNX so several processes sharing
// one Redis fire each job once per minute between them.
type RedisLedger struct {
	rdb *redis.Client
}

func NewRedisLedger(rdb *redis.Client) *RedisLedger {
	return &RedisLedger{rdb: rdb}
}

func (l *RedisLedger) Claim(ctx context.Context, jobID, slot string) (bool, error) {
	return l.rdb.SetNX(ctx, firedKey(jobID, slot), "1", firedTTL).Result()
}
