// Package schedule provides the periodic trigger the cache registers its
// refresh task with. The cache only hands over a plain callable; how and
// when the schedule fires is entirely the scheduler's business, which keeps
// refresh testable without any clock machinery.
package schedule

import (
	"context"
	"sync"
	"time"
)

// Task is a unit of scheduled work. The scheduler does not interpret the
// task's behavior; panics are the task's own problem.
type Task func(ctx context.Context)

// Scheduler triggers a task at a fixed interval. The returned stop function
// cancels the repetition; it is idempotent and waits for an in-flight run
// to finish.
type Scheduler interface {
	Every(name string, interval time.Duration, task Task) (stop func())
}

// Interval is the default Scheduler: one ticker goroutine per task.
// The zero value is ready to use.
type Interval struct {
	wg sync.WaitGroup
}

var _ Scheduler = (*Interval)(nil)

func NewInterval() *Interval { return &Interval{} }

// Every runs task every interval until the returned stop function is
// called. The first run happens one full interval after registration, never
// immediately, matching the cache's "regions start empty" lifecycle.
func (s *Interval) Every(_ string, interval time.Duration, task Task) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	var running sync.WaitGroup
	running.Add(1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer running.Done()
		for {
			select {
			case <-ticker.C:
				task(context.Background())
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			ticker.Stop()
			// block until an in-flight run finishes; callers tear down
			// task resources right after stop returns
			running.Wait()
		})
	}
}

// Wait blocks until every stopped task's goroutine has exited. Intended for
// shutdown paths after all stop functions were called.
func (s *Interval) Wait() { s.wg.Wait() }
