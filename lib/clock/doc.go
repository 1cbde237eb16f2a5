// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Production code receives Real(); tests receive Fake(t0) and move time
// forward explicitly with Advance. The polling scheduler takes a Clock
// so a test can fire exactly one dashboard cycle or one camera cycle
// without sleeping:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	sched := scheduler.New(fake, scheduler.DefaultIntervals(), sink)
//	sched.Start(scheduler.KindDashboard, 0)
//	fake.Advance(5 * time.Second) // one dashboard tick reaches sink
package clock
