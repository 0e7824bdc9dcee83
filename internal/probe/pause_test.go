package probe

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPauserWaitWhileRunning(t *testing.T) {
	p := NewPauser()

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked while running")
	}
}

func TestPauserToggleFlipsState(t *testing.T) {
	p := NewPauser()

	if p.IsPaused() {
		t.Fatal("new Pauser should start running")
	}
	if !p.Toggle() {
		t.Fatal("first Toggle should report paused")
	}
	if !p.IsPaused() {
		t.Fatal("expected paused state")
	}
	if p.Toggle() {
		t.Fatal("second Toggle should report running")
	}
}

func TestPauserGatesAndReleases(t *testing.T) {
	p := NewPauser()
	p.Toggle()

	var passed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Wait()
			passed.Add(1)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	if got := passed.Load(); got != 0 {
		t.Fatalf("%d goroutines passed the gate while paused", got)
	}

	p.Toggle()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("goroutines stuck after resume")
	}
	if got := passed.Load(); got != 8 {
		t.Errorf("passed = %d, want 8", got)
	}
}

func TestPauserAccumulatesPausedTime(t *testing.T) {
	p := NewPauser()

	for i := 0; i < 2; i++ {
		p.Toggle()
		time.Sleep(40 * time.Millisecond)
		p.Toggle()
	}

	got := p.PausedFor()
	if got < 60*time.Millisecond || got > 400*time.Millisecond {
		t.Errorf("PausedFor = %s, want roughly 80ms over two pauses", got)
	}
}

func TestPauserConcurrentToggles(t *testing.T) {
	p := NewPauser()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				p.Wait()
			}
		}()
	}

	go func() {
		for i := 0; i < 10; i++ {
			p.Toggle()
			time.Sleep(2 * time.Millisecond)
		}
		if p.IsPaused() {
			p.Toggle()
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("waiters never drained")
	}
}
