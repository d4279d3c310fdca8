package playable

import (
	"sort"
	"sync"
	"time"
)

// Timer is a cancellable scheduled task
type Timer interface {
	// Stop prevents the task from firing. Returns false if it already fired or was stopped
	Stop() bool
}

// Scheduler arms tasks that run after a delay
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// RealScheduler runs tasks on the wall clock
type RealScheduler struct{}

// AfterFunc wraps time.AfterFunc
func (RealScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// ManualScheduler only fires tasks when the clock is advanced
// This should only be used by tests
type ManualScheduler struct {
	lock  sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
	owner   *ManualScheduler
}

// NewManualScheduler returns a scheduler whose clock starts at zero
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc schedules fn to run once the clock has advanced by d
func (m *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.seq++
	task := &manualTask{
		at:    m.now + d,
		seq:   m.seq,
		fn:    fn,
		owner: m,
	}
	m.tasks = append(m.tasks, task)

	return task
}

// Stop cancels the task
func (t *manualTask) Stop() bool {
	t.owner.lock.Lock()
	defer t.owner.lock.Unlock()

	if t.stopped || t.fired {
		return false
	}

	t.stopped = true
	return true
}

// Advance moves the clock forward and runs every task that became due, in order
// Tasks scheduled by a running task are also run if they fall within the window
func (m *ManualScheduler) Advance(d time.Duration) int {
	m.lock.Lock()
	deadline := m.now + d
	m.lock.Unlock()

	fired := 0
	for {
		task := m.nextDue(deadline)
		if task == nil {
			break
		}

		task.fn()
		fired++
	}

	m.lock.Lock()
	m.now = deadline
	m.lock.Unlock()

	return fired
}

// RunDue runs every task that is due without moving the clock
func (m *ManualScheduler) RunDue() int {
	return m.Advance(0)
}

// Pending returns the number of armed tasks
func (m *ManualScheduler) Pending() int {
	m.lock.Lock()
	defer m.lock.Unlock()

	n := 0
	for _, t := range m.tasks {
		if !t.stopped && !t.fired {
			n++
		}
	}

	return n
}

func (m *ManualScheduler) nextDue(deadline time.Duration) *manualTask {
	m.lock.Lock()
	defer m.lock.Unlock()

	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	m.tasks = live

	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].at != m.tasks[j].at {
			return m.tasks[i].at < m.tasks[j].at
		}

		return m.tasks[i].seq < m.tasks[j].seq
	})

	if len(m.tasks) == 0 || m.tasks[0].at > deadline {
		return nil
	}

	task := m.tasks[0]
	task.fired = true
	if task.at > m.now {
		m.now = task.at
	}

	return task
}
