package bundle

// Kind identifies a storage backend
type Kind int

const (
	// KindMissing means no backend has data for the base name. It is only a
	// hint; Instantiate still tries both backends.
	KindMissing Kind = iota
	KindBinary
	KindLegacy
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindBinary:
		return "binary"
	case KindLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}
