// Package address implements the Virtual Memory Allocator (VMA)
// described in spec.md §4.1: it hands out disjoint integer addresses
// partitioned by (segment, type), exactly as memory.py's MemoryManager
// does for the Python original this spec distills from.
package address

import (
	"fmt"

	"patitolang/internal/types"
)

// Segment names a virtual address range.
type Segment int

const (
	Global Segment = iota
	Local
	Temp
	Const
)

var segNames = [...]string{
	Global: "global",
	Local:  "local",
	Temp:   "temp",
	Const:  "const",
}

func (s Segment) String() string {
	if int(s) < 0 || int(s) >= len(segNames) {
		return "unknown"
	}
	return segNames[s]
}

// RangeSize is the number of addresses reserved per (segment, type) pool.
const RangeSize = 1000

// Address is a non-negative integer encoding (segment, type, offset).
// Its segment is recoverable purely from its numeric range (spec.md §3).
type Address int

// basesFor is indexed [segment][type] and gives the base address for
// that pool. The layout mirrors memory.py's BASES table verbatim so
// address ranges line up with the Python original this spec distills
// from.
var basesFor = map[Segment]map[types.Type]int{
	Global: {types.Integer: 10000, types.Float: 11000, types.Bool: 12000, types.String: 13000},
	Local:  {types.Integer: 20000, types.Float: 21000, types.Bool: 22000, types.String: 23000},
	Temp:   {types.Integer: 30000, types.Float: 31000, types.Bool: 32000, types.String: 33000},
	Const:  {types.Integer: 40000, types.Float: 41000, types.Bool: 42000, types.String: 43000},
}

// ErrOutOfMemory is returned when a (segment, type) pool is exhausted.
type ErrOutOfMemory struct {
	Segment Segment
	Type    types.Type
}

func (e *ErrOutOfMemory) Error() string {
	return fmt.Sprintf("segment-overflow: no space left for %s %s", e.Segment, e.Type)
}

// Allocator hands out virtual addresses for one compilation. It is used
// single-threaded during code generation (spec.md §5), so it carries no
// internal locking.
type Allocator struct {
	counters  map[Segment]map[types.Type]int
	freeTemps map[types.Type][]Address
}

// New returns an Allocator with all counters at their segment bases.
func New() *Allocator {
	a := &Allocator{}
	a.ResetAll()
	return a
}

func copyBases() map[Segment]map[types.Type]int {
	out := make(map[Segment]map[types.Type]int, len(basesFor))
	for seg, byType := range basesFor {
		m := make(map[types.Type]int, len(byType))
		for t, b := range byType {
			m[t] = b
		}
		out[seg] = m
	}
	return out
}

// ResetAll rewinds every segment's counters and clears the temp
// free-lists. The CONST segment must never be reset after its first
// allocation during a single compilation (spec.md §4.1 invariant); this
// is enforced by callers only invoking ResetAll once, at the start of a
// fresh compilation.
func (a *Allocator) ResetAll() {
	a.counters = copyBases()
	a.freeTemps = map[types.Type][]Address{
		types.Integer: nil, types.Float: nil, types.Bool: nil, types.String: nil,
	}
}

// ResetLocals rewinds the LOCAL segment's counters. Used between
// function definitions.
func (a *Allocator) ResetLocals() {
	a.counters[Local] = map[types.Type]int{}
	for t, b := range basesFor[Local] {
		a.counters[Local][t] = b
	}
}

// ResetTemps rewinds the TEMP segment's counters and clears its
// free-lists. Used between function definitions.
func (a *Allocator) ResetTemps() {
	a.counters[Temp] = map[types.Type]int{}
	for t, b := range basesFor[Temp] {
		a.counters[Temp][t] = b
	}
	a.freeTemps = map[types.Type][]Address{
		types.Integer: nil, types.Float: nil, types.Bool: nil, types.String: nil,
	}
}

// Allocate returns the next free address in the (segment, type) pool.
// For TEMP, a non-empty free-list is popped from (LIFO) before a new
// address is minted.
func (a *Allocator) Allocate(seg Segment, t types.Type) (Address, error) {
	if seg == Temp {
		if free := a.freeTemps[t]; len(free) > 0 {
			addr := free[len(free)-1]
			a.freeTemps[t] = free[:len(free)-1]
			return addr, nil
		}
	}

	base := basesFor[seg][t]
	next := a.counters[seg][t]
	if next >= base+RangeSize {
		return 0, &ErrOutOfMemory{Segment: seg, Type: t}
	}
	a.counters[seg][t] = next + 1
	return Address(next), nil
}

// FreeTemp returns a temporary address to the free-list for reuse. The
// allocator does not verify liveness; callers must only free
// temporaries known to be dead (spec.md §4.1).
func (a *Allocator) FreeTemp(t types.Type, addr Address) {
	a.freeTemps[t] = append(a.freeTemps[t], addr)
}

// SegmentOf recovers the segment of addr by pure range comparison.
func SegmentOf(addr Address) (Segment, bool) {
	for seg, byType := range basesFor {
		for _, base := range byType {
			if int(addr) >= base && int(addr) < base+RangeSize {
				return seg, true
			}
		}
	}
	return 0, false
}

// TypeOf recovers the type of addr by pure range comparison.
func TypeOf(addr Address) (types.Type, bool) {
	for _, byType := range basesFor {
		for t, base := range byType {
			if int(addr) >= base && int(addr) < base+RangeSize {
				return t, true
			}
		}
	}
	return 0, false
}

// Usage returns, per type, how many addresses have been allocated in
// segment seg since the last reset of that segment. Used to compute a
// function's activation size (spec.md §3, Function record).
func (a *Allocator) Usage(seg Segment) map[types.Type]int {
	out := make(map[types.Type]int, len(basesFor[seg]))
	for t, base := range basesFor[seg] {
		out[t] = a.counters[seg][t] - base
	}
	return out
}
