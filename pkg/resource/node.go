package resource

import (
	"strings"
	"sync/atomic"
)

// bundleInfo is shared by every Node of one loaded bundle
type bundleInfo struct {
	baseName string
	localeID string
	resolver Resolver
	root     *Node
}

// Node is a view of one resource inside a loaded bundle. Nodes are immutable
// after construction and safe for concurrent use.
type Node struct {
	val    *Value
	key    string
	hasKey bool
	info   *bundleInfo

	// parent is the next less specific bundle root. Nested nodes carry the
	// parent of their container.
	parent *Node
	top    bool

	keySet atomic.Pointer[[]string]
}

// NewRoot wraps data as the top-level node of the bundle (baseName, localeID).
// parent is the root of the next less specific locale, or nil at the end of the
// chain. A nil resolver selects PlainResolver.
func NewRoot(baseName, localeID string, data *Value, parent *Node, r Resolver) *Node {
	if data == nil {
		data = NewTable(nil)
	}
	if r == nil {
		r = PlainResolver{}
	}
	info := &bundleInfo{baseName: baseName, localeID: localeID, resolver: r}
	n := &Node{val: data, info: info, parent: parent, top: true}
	info.root = n
	return n
}

// child creates a nested node for v. The child inherits the container's parent.
func (n *Node) child(key string, hasKey bool, v *Value) *Node {
	return &Node{val: v, key: key, hasKey: hasKey, info: n.info, parent: n.parent}
}

// Kind returns the kind of the resource
func (n *Node) Kind() Kind { return n.val.Kind() }

// Key returns the key under which the resource was found and whether it has one.
// Bundle roots and array elements reached by position have no key.
func (n *Node) Key() (string, bool) { return n.key, n.hasKey }

// BaseName returns the base name of the bundle the node belongs to
func (n *Node) BaseName() string { return n.info.baseName }

// LocaleID returns the locale of the bundle the node belongs to
func (n *Node) LocaleID() string { return n.info.localeID }

// FullName returns the display name of the node's bundle
func (n *Node) FullName() string { return FullName(n.info.baseName, n.info.localeID) }

// Parent returns the less specific bundle root, or nil
func (n *Node) Parent() *Node { return n.parent }

// IsTopLevel reports whether n is a bundle root
func (n *Node) IsTopLevel() bool { return n.top }

// Root returns the root of the bundle n belongs to
func (n *Node) Root() *Node { return n.info.root }

// Value returns the immutable payload of the node
func (n *Node) Value() *Value { return n.val }

// Resolver returns the resolver installed by the node's backend
func (n *Node) Resolver() Resolver { return n.info.resolver }

// Chain returns the locale identifiers from n's bundle up to the end of its chain
func (n *Node) Chain() []string {
	var ids []string
	for e := n.info.root; e != nil; e = e.parent {
		ids = append(ids, e.info.localeID)
	}
	return ids
}

// FullName joins a base name and locale the way bundle names are displayed.
// Dotted base names use class-style naming (a.b.Names_fr).
func FullName(baseName, localeID string) string {
	if localeID == "" {
		return baseName
	}
	if strings.Contains(baseName, ".") {
		return baseName + "_" + localeID
	}
	return baseName + "/" + localeID
}
