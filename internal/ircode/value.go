package ircode

import (
	"patitolang/internal/address"
	"patitolang/internal/types"
)

// Value pairs a virtual address with its static type. It is what the
// parser's operand stack holds between reductions: "push (address,
// type)" in spec.md §4.4's expression emission rule.
type Value struct {
	Addr address.Address
	Type types.Type
}
