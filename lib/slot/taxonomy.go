// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package slot

import "github.com/bureau-foundation/slotdeck/lib/schema"

// Partition is a slot set split by kind. Each bucket preserves the
// relative order of the input. Unknown collects slots whose type is
// not one of the five kinds so that nothing is silently lost; the
// dashboard does not render them.
type Partition struct {
	Value   []schema.Slot
	Status  []schema.Slot
	Control []schema.Slot
	Camera  []schema.Slot
	Chart   []schema.Slot
	Unknown []schema.Slot
}

// Classify partitions slots by type. It is a stable partition: no
// sorting happens, and every input slot lands in exactly one bucket.
func Classify(slots []schema.Slot) Partition {
	var partition Partition
	for _, s := range slots {
		switch s.Type {
		case schema.KindValue:
			partition.Value = append(partition.Value, s)
		case schema.KindStatus:
			partition.Status = append(partition.Status, s)
		case schema.KindControl:
			partition.Control = append(partition.Control, s)
		case schema.KindCamera:
			partition.Camera = append(partition.Camera, s)
		case schema.KindChart:
			partition.Chart = append(partition.Chart, s)
		default:
			partition.Unknown = append(partition.Unknown, s)
		}
	}
	return partition
}

// Bucket returns the slots of one kind.
func (p Partition) Bucket(kind schema.Kind) []schema.Slot {
	switch kind {
	case schema.KindValue:
		return p.Value
	case schema.KindStatus:
		return p.Status
	case schema.KindControl:
		return p.Control
	case schema.KindCamera:
		return p.Camera
	case schema.KindChart:
		return p.Chart
	}
	return nil
}

// Len returns the number of classified slots, excluding Unknown.
func (p Partition) Len() int {
	return len(p.Value) + len(p.Status) + len(p.Control) + len(p.Camera) + len(p.Chart)
}

// Dedupe drops slots whose SlotNumber already appeared earlier in the
// list and returns the dropped numbers. The backend guarantees
// uniqueness; this keeps a misbehaving backend from producing two
// cards that share one camera timer or one control action.
func Dedupe(slots []schema.Slot) (unique []schema.Slot, duplicates []int) {
	seen := make(map[int]bool, len(slots))
	unique = make([]schema.Slot, 0, len(slots))
	for _, s := range slots {
		if seen[s.SlotNumber] {
			duplicates = append(duplicates, s.SlotNumber)
			continue
		}
		seen[s.SlotNumber] = true
		unique = append(unique, s)
	}
	return unique, duplicates
}
