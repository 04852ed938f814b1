// Package machine drives the demo device exposed to scripts.
package machine

// Object stands in for the runtime owner handle.
type Object struct{}

// Machine runs the demo device.
//
// Pair it with a [Node] in the scene.
//
//godot:class inherit=Reference
type Machine struct {
	level int64
}

// NewMachine builds an idle machine.
//
//godot:export
func NewMachine(owner *Object) *Machine {
	return &Machine{}
}

// Boost raises the level by amount and returns the new level.
//
// ```gdscript
// var m = Machine.new()
// assert_eq(m.boost(3), 3)
// ```
//
//godot:export opt(amount=1)
func (m *Machine) Boost(owner *Object, amount int64) int64 {
	m.level += amount
	return m.level
}

// Mystery returns something unresolvable, in a [WhoKnows] sense.
//
//godot:export
func (m *Machine) Mystery(owner *Object) int64 {
	return m.level
}
