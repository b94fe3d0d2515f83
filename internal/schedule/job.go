// Package schedule fires report jobs once a day at their local time of day.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"news-reporter/internal/report"
)

const timeLayout = "15:04"

var (
	ErrInvalidTime = errors.New("invalid time of day, expected HH:MM")
	ErrJobNotFound = errors.New("job not found")
)

// Job is a recurring daily report.
type Job struct {
	ID        string         `json:"id"`
	TimeOfDay string         `json:"time_of_day"`
	Request   report.Request `json:"request"`
	CreatedAt time.Time      `json:"created_at"`
}

func (j Job) Topic() string { return j.Request.Topic }

// ParseTimeOfDay validates s and returns it in canonical HH:MM form.
func ParseTimeOfDay(s string) (string, error) {
	t, err := time.Parse(timeLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return t.Format(timeLayout), nil
}

// JobStore holds the job set. Implementations must allow List to run
// concurrently with Add and Remove.
type JobStore interface {
	List(ctx context.Context) ([]Job, error)
	Add(ctx context.Context, j Job) error
	Remove(ctx context.Context, id string) error
}

// MemoryStore keeps jobs for the life of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]Job)}
}

func (m *MemoryStore) List(_ context.Context) ([]Job, error) {
	m.mu.RLock()
	out := make([]Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j)
	}
	m.mu.RUnlock()
	SortJobs(out)
	return out, nil
}

func (m *MemoryStore) Add(_ context.Context, j Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[j.ID] = j
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	delete(m.jobs, id)
	return nil
}

// SortJobs orders jobs by time of day, then id.
func SortJobs(jobs []Job) {
	sort.Slice(jobs, func(a, b int) bool {
		if jobs[a].TimeOfDay != jobs[b].TimeOfDay {
			return jobs[a].TimeOfDay < jobs[b].TimeOfDay
		}
		return jobs[a].ID < jobs[b].ID
	})
}

// Ledger records which (job, slot) pairs have fired. Claim returns true
// only for the first caller of a pair.
type Ledger interface {
	Claim(ctx context.Context, jobID, slot string) (bool, error)
}

// MemoryLedger remembers the last fired slot per job.
type MemoryLedger struct {
	mu   sync.Mutex
	last map[string]string
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{last: make(map[string]string)}
}

func (l *MemoryLedger) Claim(_ context.Context, jobID, slot string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.last[jobID] == slot {
		return false, nil
	}
	l.last[jobID] = slot
	return true, nil
}
