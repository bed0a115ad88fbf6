package vm

import (
	"github.com/pkg/errors"

	"patitolang/internal/address"
)

// frame holds the LOCAL and TEMP addresses live in one activation. The
// base frame (index 0) belongs to the program's top level, which is
// never entered through GOSUB but still owns TEMP addresses for its own
// expression evaluation (spec.md §4.5's call-stack/frame-stack depth
// invariant).
type frame map[address.Address]Value

// read routes addr to its backing store by the segment recovered from
// its numeric range, returning the type's zero value on a first touch
// (spec.md §4.5's deliberate tolerance of uninitialized reads).
func (m *Machine) read(addr address.Address) (Value, error) {
	seg, ok := address.SegmentOf(addr)
	if !ok {
		return Value{}, errors.Errorf("address %d is outside every segment range", addr)
	}

	switch seg {
	case address.Const:
		if v, ok := m.consts[addr]; ok {
			return v, nil
		}
	case address.Global:
		if v, ok := m.global[addr]; ok {
			return v, nil
		}
	default: // Local, Temp
		if v, ok := m.top()[addr]; ok {
			return v, nil
		}
	}

	t, _ := address.TypeOf(addr)
	return Zero(t), nil
}

// write routes addr the same way read does. Writes to CONST are
// rejected: a correctly compiled program never targets one, so this
// path signals a compiler bug rather than a user-facing runtime error.
func (m *Machine) write(addr address.Address, v Value) error {
	seg, ok := address.SegmentOf(addr)
	if !ok {
		return errors.Errorf("address %d is outside every segment range", addr)
	}

	switch seg {
	case address.Const:
		return errors.Errorf("illegal write to const address %d", addr)
	case address.Global:
		m.global[addr] = v
	default: // Local, Temp
		m.top()[addr] = v
	}
	return nil
}

func (m *Machine) top() frame {
	return m.frames[len(m.frames)-1]
}
