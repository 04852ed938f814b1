// Package shadow declares a class shadowing a builtin name.
package shadow

// Object stands in for the runtime owner handle.
type Object struct{}

// Node shadows the engine class of the same name.
//
//godot:class
type Node struct{}

// Ping reports liveness.
//
//godot:export
func (n *Node) Ping(owner *Object) bool {
	return true
}
