package codegen

// Op is the client instruction opcode.
type Op uint8

const (
	OpCreateElement Op = iota + 1 // Create an element node (Ref, Tag)
	OpSetAttr                     // Set an attribute on Ref (Key, Value)
	OpCreateText                  // Create a text node (Ref, Value)
	OpAppendChild                 // Append Ref under Parent (0 is the mount root)
	OpCondSubtree                 // Chosen conditional branch marker (Parent, Value)
	OpOutlet                      // Outlet site under Parent; substituted content follows
)

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpCreateElement:
		return "CreateElement"
	case OpSetAttr:
		return "SetAttr"
	case OpCreateText:
		return "CreateText"
	case OpAppendChild:
		return "AppendChild"
	case OpCondSubtree:
		return "CondSubtree"
	case OpOutlet:
		return "Outlet"
	default:
		return "Unknown"
	}
}

// Instruction is one DOM-construction step. The client renderer emits
// an ordered sequence of these; applying them in order reproduces the
// structure the server renderer describes as a string.
type Instruction struct {
	Op     Op     `msgpack:"op"`
	Ref    int    `msgpack:"ref,omitempty"`    // Node reference assigned at creation
	Parent int    `msgpack:"parent,omitempty"` // Target parent reference
	Tag    string `msgpack:"tag,omitempty"`
	Key    string `msgpack:"key,omitempty"`
	Value  string `msgpack:"value,omitempty"`
}
