// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package scheduler owns the dashboard's polling timers: one coarse
// timer that refreshes the whole dashboard and one fine timer per
// camera slot.
//
// Timers never call into the dashboard directly. Each running timer is
// a goroutine that forwards clock ticks to a sink as [Tick] values
// tagged with the timer's generation. The consumer (the bubbletea
// Update loop) passes each tick back through [Scheduler.Accept] before
// acting on it: ticks from a timer that has since been stopped or
// replaced are rejected, so a tick already in flight when its timer is
// cancelled never causes a fetch.
//
// Start always stops an existing timer for the same (kind, key) before
// starting the new one, so a slot never has two live timers.
package scheduler

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bureau-foundation/slotdeck/lib/clock"
)

// Kind distinguishes the two timer families.
type Kind int

const (
	// KindDashboard is the whole-dashboard refresh. Its key is always 0.
	KindDashboard Kind = iota
	// KindCamera is a per-camera refresh keyed by slot number.
	KindCamera
)

func (k Kind) String() string {
	switch k {
	case KindDashboard:
		return "dashboard"
	case KindCamera:
		return "camera"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DashboardKey is the only key used with KindDashboard.
const DashboardKey = 0

// Tick is one firing of one timer.
type Tick struct {
	Kind       Kind
	Key        int
	Generation uint64
	Time       time.Time
}

// Intervals are the two polling periods.
type Intervals struct {
	Dashboard time.Duration
	Camera    time.Duration
}

// DefaultIntervals returns 5s for the dashboard and 2s per camera.
func DefaultIntervals() Intervals {
	return Intervals{Dashboard: 5 * time.Second, Camera: 2 * time.Second}
}

type timerKey struct {
	kind Kind
	key  int
}

type timer struct {
	generation uint64
	ticker     *clock.Ticker
	done       chan struct{}
}

// Scheduler tracks every running timer by (kind, key).
type Scheduler struct {
	clock     clock.Clock
	intervals Intervals
	sink      func(Tick)

	mu             sync.Mutex
	timers         map[timerKey]*timer
	nextGeneration uint64
}

// New creates a Scheduler delivering ticks to sink. sink is called
// from timer goroutines and must not block for long; the bubbletea
// program's Send is the intended sink.
func New(clk clock.Clock, intervals Intervals, sink func(Tick)) *Scheduler {
	return &Scheduler{
		clock:          clk,
		intervals:      intervals,
		sink:           sink,
		timers:         make(map[timerKey]*timer),
		nextGeneration: 1,
	}
}

func (s *Scheduler) interval(kind Kind) time.Duration {
	if kind == KindCamera {
		return s.intervals.Camera
	}
	return s.intervals.Dashboard
}

// Start (re)starts the timer for (kind, key) and returns its
// generation. Any existing timer for the same pair is stopped first.
func (s *Scheduler) Start(kind Kind, key int) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := timerKey{kind, key}
	if existing, ok := s.timers[id]; ok {
		existing.stop()
	}

	t := &timer{
		generation: s.nextGeneration,
		ticker:     s.clock.NewTicker(s.interval(kind)),
		done:       make(chan struct{}),
	}
	s.nextGeneration++
	s.timers[id] = t
	go s.run(kind, key, t)
	return t.generation
}

func (s *Scheduler) run(kind Kind, key int, t *timer) {
	for {
		select {
		case <-t.done:
			return
		case now := <-t.ticker.C:
			select {
			case <-t.done:
				return
			default:
			}
			s.sink(Tick{Kind: kind, Key: key, Generation: t.generation, Time: now})
		}
	}
}

func (t *timer) stop() {
	t.ticker.Stop()
	close(t.done)
}

// Stop cancels the timer for (kind, key). Stopping a timer that is not
// running does nothing.
func (s *Scheduler) Stop(kind Kind, key int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := timerKey{kind, key}
	if existing, ok := s.timers[id]; ok {
		existing.stop()
		delete(s.timers, id)
	}
}

// StopAll cancels every timer.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.timers {
		existing.stop()
		delete(s.timers, id)
	}
}

// Accept reports whether tick came from the timer currently registered
// for its (kind, key).
func (s *Scheduler) Accept(tick Tick) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.timers[timerKey{tick.Kind, tick.Key}]
	return ok && current.generation == tick.Generation
}

// Active reports whether a timer is running for (kind, key).
func (s *Scheduler) Active(kind Kind, key int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[timerKey{kind, key}]
	return ok
}

// ActiveCount returns the number of running timers.
func (s *Scheduler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// ActiveKeys returns the sorted keys of running timers of kind.
func (s *Scheduler) ActiveKeys(kind Kind) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []int
	for id := range s.timers {
		if id.kind == kind {
			keys = append(keys, id.key)
		}
	}
	slices.Sort(keys)
	return keys
}
