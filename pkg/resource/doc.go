// Package resource implements the typed resource model and the resolution
// engine that walks locale fallback chains.
//
// A loaded bundle is a tree of immutable Values wrapped in Nodes. Every top-level
// Node (a bundle root) links to the root of the next less specific locale, so
// that a chain such as fr_CA -> fr -> root is a plain linked list fixed at
// construction time. Nested Nodes carry the parent of their container, which is
// the less specific locale's bundle root, not the corresponding nested resource.
//
// Three lookups with deliberately different fallback breadths are provided:
//
//	Get(key)       walks the whole parent chain; only meaningful on bundle roots
//	GetIndex(i)    tries the node, then its direct parent, and stops
//	Object(key)    walks the whole chain from any node, degenerating String
//	               resources to their own value
//
// GetPath(segs...) builds on the roots: it tries the full path against each
// root of the chain in turn, so nested tables inherit members per key.
//
// All accessors check the Kind explicitly and fail with a TYPE_MISMATCH error
// instead of returning zero values.
package resource
