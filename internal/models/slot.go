package models

import (
	"fmt"
	"strings"
)

// Slot identifies one of the two side-by-side link collections
type Slot int

const (
	SlotA Slot = iota // Persisted as links1/folder1
	SlotB             // Persisted as links2/folder2
)

// SlotCount is the number of link collections
const SlotCount = 2

// Slots lists every slot in display order
var Slots = []Slot{SlotA, SlotB}

// String returns the user-facing slot key ("1" or "2")
func (s Slot) String() string {
	switch s {
	case SlotA:
		return "1"
	case SlotB:
		return "2"
	default:
		return "?"
	}
}

// Title returns the panel title for the slot
func (s Slot) Title() string {
	return "Linklist " + s.String()
}

// Valid reports whether s addresses an existing slot
func (s Slot) Valid() bool {
	return s >= SlotA && s < SlotCount
}

// Other returns the opposite slot
func (s Slot) Other() Slot {
	if s == SlotA {
		return SlotB
	}
	return SlotA
}

// ParseSlot converts "1"/"2" (or "a"/"b") into a Slot
func ParseSlot(value string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "a":
		return SlotA, nil
	case "2", "b":
		return SlotB, nil
	}
	return SlotA, fmt.Errorf("unknown slot %q (expected 1 or 2)", value)
}
