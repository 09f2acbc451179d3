package resource

// Kind classifies a resource. The numeric values match the resource type
// numbers used in packaged data.
type Kind int

const (
	KindNone        Kind = -1
	KindString      Kind = 0
	KindBinary      Kind = 1
	KindTable       Kind = 2
	KindInt32       Kind = 7
	KindArray       Kind = 8
	KindInt32Vector Kind = 14
)

// Kinds lists every kind a node can have
var Kinds = []Kind{KindNone, KindString, KindBinary, KindTable, KindInt32, KindArray, KindInt32Vector}

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindTable:
		return "table"
	case KindInt32:
		return "int"
	case KindArray:
		return "array"
	case KindInt32Vector:
		return "intvector"
	default:
		return "unknown"
	}
}

// IsContainer reports whether resources of this kind hold child resources
func (k Kind) IsContainer() bool {
	return k == KindTable || k == KindArray
}
