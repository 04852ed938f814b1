// Package sample exposes a small arithmetic class to the scripting runtime.
package sample

// Object stands in for the runtime owner handle.
type Object struct{}

// Counter accumulates integer values.
//
// Use [Counter] together with a [Node] in the scene tree.
//
//godot:class inherit=Node
type Counter struct {
	total int64
}

// NewCounter builds an empty counter.
//
//godot:export
func NewCounter(owner *Object) *Counter {
	return &Counter{}
}

// Add adds x to the running total and returns the new total.
//
// ```gdscript
// var c = Counter.new()
// assert_eq(c.add(2), 2)
// ```
//
//godot:export
func (c *Counter) Add(owner *Object, x int64) int64 {
	c.total += x
	return c.total
}

// ScaleBy multiplies the total by factor.
//
//godot:export opt(factor=2)
func (c *Counter) ScaleBy(owner *Object, factor int64) (int64, error) {
	c.total *= factor
	return c.total, nil
}

// Describe needs a computed default, which stays required.
//
//godot:export opt(prefix=defaultPrefix)
func (c *Counter) Describe(owner *Object, prefix string) string {
	return prefix
}

// reset is internal and never exported.
func (c *Counter) reset(owner *Object) {
	c.total = 0
}

// Broken has no owner parameter and is dropped with a warning.
//
//godot:export
func (c *Counter) Broken() int64 {
	return c.total
}

// NewHelper is a plain constructor helper, not a binding constructor.
func NewHelper() *Object {
	return &Object{}
}

var defaultPrefix = "total: "
