// Package queue provides background job processing.
//
// Order receipt notifications are dispatched here so the commit path never
// waits on anything but the database transaction.
//
//	type ReceiptJob struct { OrderID uint }
//	func (j *ReceiptJob) Handle() error { ... }
//
//	queue.Register("*jobs.ReceiptJob", func() queue.Job { return &ReceiptJob{} })
//	queue.Dispatch(&ReceiptJob{OrderID: order.ID})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/campuseats/canteen/pkg/logger"
)

// Job is the unit of background work. Implementations must be JSON
// round-trippable since payloads cross the queue driver as bytes.
type Job interface {
	Handle() error
}

// FailedJob records a job that exhausted its retries.
type FailedJob struct {
	Job      Job
	Err      error
	FailedAt time.Time
	Attempts int
}

// Driver is the queue storage backend.
type Driver interface {
	Push(payload []byte) error
	// Pop blocks until a payload is ready or ctx is done. A nil payload
	// with nil error means no job was ready; callers should loop.
	Pop(ctx context.Context) ([]byte, error)
}

type envelope struct {
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// Manager owns a driver, the job type registry and the failed-job list.
type Manager struct {
	mu        sync.RWMutex
	driver    Driver
	factories map[string]func() Job
	failed    []FailedJob
	maxRetry  int
}

func NewManager(d Driver) *Manager {
	return &Manager{
		driver:    d,
		factories: make(map[string]func() Job),
		maxRetry:  3,
	}
}

// Register makes a job type available for decoding by name. Call once at
// boot for every job type.
func (m *Manager) Register(name string, factory func() Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[name] = factory
}

// SetDriver swaps the storage backend, e.g. for Redis once it connects.
func (m *Manager) SetDriver(d Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.driver = d
}

// SetMaxRetry sets how many times a failing job runs before parking.
func (m *Manager) SetMaxRetry(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxRetry = n
}

func (m *Manager) currentDriver() Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.driver
}

// Dispatch encodes the job and pushes it onto the queue.
func (m *Manager) Dispatch(job Job) error {
	typeName := fmt.Sprintf("%T", job)
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal job %s: %w", typeName, err)
	}
	env, err := json.Marshal(envelope{Type: typeName, Payload: payload, EnqueuedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}
	return m.currentDriver().Push(env)
}

// DispatchAfter pushes the job after a delay.
func (m *Manager) DispatchAfter(job Job, delay time.Duration) {
	go func() {
		time.Sleep(delay)
		if err := m.Dispatch(job); err != nil {
			logger.Error("queue: delayed dispatch failed", "error", err)
		}
	}()
}

// StartWorkers launches n workers that drain the queue until ctx ends.
func (m *Manager) StartWorkers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		go m.work(ctx)
	}
	logger.Info("queue: workers started", "count", n)
}

func (m *Manager) work(ctx context.Context) {
	for ctx.Err() == nil {
		raw, err := m.currentDriver().Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}
		m.handle(raw)
	}
}

func (m *Manager) handle(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, known := m.factories[env.Type]
	maxRetry := m.maxRetry
	m.mu.RUnlock()
	if !known {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetry; attempt++ {
		lastErr = job.Handle()
		if lastErr == nil {
			logger.Debug("queue: job processed", "type", env.Type, "attempt", attempt)
			return
		}
		logger.Warn("queue: job failed",
			"type", env.Type, "attempt", attempt, "error", lastErr)
		if attempt < maxRetry {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}

	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		Job:      job,
		Err:      lastErr,
		FailedAt: time.Now(),
		Attempts: maxRetry,
	})
	m.mu.Unlock()
	logger.Error("queue: job parked after retries", "type", env.Type, "error", lastErr)
}

// FailedJobs returns a snapshot of parked jobs.
func (m *Manager) FailedJobs() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]FailedJob, len(m.failed))
	copy(out, m.failed)
	return out
}

var std = NewManager(NewMemoryDriver())

// Package-level wrappers operating on the default manager.

func Register(name string, factory func() Job)   { std.Register(name, factory) }
func SetDriver(d Driver)                         { std.SetDriver(d) }
func SetMaxRetry(n int)                          { std.SetMaxRetry(n) }
func Dispatch(job Job) error                     { return std.Dispatch(job) }
func DispatchAfter(job Job, delay time.Duration) { std.DispatchAfter(job, delay) }
func StartWorkers(ctx context.Context, n int)    { std.StartWorkers(ctx, n) }
func FailedJobs() []FailedJob                    { return std.FailedJobs() }
