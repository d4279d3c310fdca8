package playable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualScheduler(t *testing.T) {
	a := assert.New(t)
	s := NewManualScheduler()

	var order []string
	s.AfterFunc(time.Second*2, func() { order = append(order, "b") })
	s.AfterFunc(time.Second, func() { order = append(order, "a") })
	stopped := s.AfterFunc(time.Second, func() { order = append(order, "never") })

	a.True(stopped.Stop())
	a.False(stopped.Stop())
	a.Equal(2, s.Pending())

	a.Equal(0, s.Advance(time.Millisecond*500))
	a.Equal(1, s.Advance(time.Millisecond*500))
	a.Equal([]string{"a"}, order)

	a.Equal(1, s.Advance(time.Second*5))
	a.Equal([]string{"a", "b"}, order)
	a.Equal(0, s.Pending())
}

func TestManualScheduler_chained(t *testing.T) {
	a := assert.New(t)
	s := NewManualScheduler()

	count := 0
	var arm func()
	arm = func() {
		s.AfterFunc(time.Second, func() {
			count++
			if count < 3 {
				arm()
			}
		})
	}
	arm()

	a.Equal(3, s.Advance(time.Second*10))
	a.Equal(3, count)
}

func TestManualScheduler_zeroDelay(t *testing.T) {
	a := assert.New(t)
	s := NewManualScheduler()

	fired := false
	timer := s.AfterFunc(0, func() { fired = true })
	a.Equal(1, s.RunDue())
	a.True(fired)
	a.False(timer.Stop())
}

func TestRealScheduler(t *testing.T) {
	done := make(chan bool, 1)
	RealScheduler{}.AfterFunc(time.Millisecond, func() { done <- true })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}
