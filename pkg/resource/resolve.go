package resource

import (
	"sort"
	"strconv"
	"strings"
)

// Get looks key up in n and then in every less specific bundle root. It is
// fallback-correct only when n is a bundle root; on a nested node the walk
// continues in the parent locale's top-level table.
func (n *Node) Get(key string) (*Node, error) {
	for e := n; e != nil; e = e.parent {
		c, err := e.info.resolver.HandleKey(e, key, n)
		if err != nil {
			return nil, err
		}
		if c != nil {
			return c, nil
		}
	}
	return nil, errNotFound(n, key)
}

// GetIndex returns the child at position index. When n has no such child the
// direct parent is tried once; the grandparent is never consulted. Nested
// scalars and Int32Vectors have no indexed children and fail with TYPE_MISMATCH
// instead of borrowing a member of the parent locale's root table.
func (n *Node) GetIndex(index int) (*Node, error) {
	if n.Kind() == KindInt32Vector || (!n.top && !n.Kind().IsContainer()) {
		return nil, errTypeMismatch(n, KindArray)
	}

	c, err := n.info.resolver.HandleIndex(n, index, n)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}

	if p := n.parent; p != nil {
		c, err = p.info.resolver.HandleIndex(p, index, n)
		if err != nil {
			return nil, err
		}
		if c != nil {
			return c, nil
		}
	}
	return nil, errIndexNotFound(n, index)
}

// GetPath resolves a list of segments starting at n. On a bundle root the whole
// path is tried against n and then against each less specific root, descending
// from the top every time, so a partially overridden nested table still yields
// the members it inherits. A nested n only searches its own subtree. Numeric
// segments index into Arrays.
func (n *Node) GetPath(segs ...string) (*Node, error) {
	if len(segs) == 0 {
		return n, nil
	}

	roots := []*Node{n}
	if n.top {
		roots = roots[:0]
		for e := n; e != nil; e = e.parent {
			roots = append(roots, e)
		}
	}
	for _, e := range roots {
		c, err := e.descend(segs, n)
		if err != nil {
			return nil, err
		}
		if c != nil {
			return c, nil
		}
	}
	return nil, errNotFound(n, strings.Join(segs, "/"))
}

// descend follows segs below n without any locale fallback. It returns nil when
// a segment is absent.
func (n *Node) descend(segs []string, requested *Node) (*Node, error) {
	cur := n
	for _, seg := range segs {
		var next *Node
		var err error
		if i, convErr := strconv.Atoi(seg); convErr == nil && cur.Kind() == KindArray {
			next, err = cur.info.resolver.HandleIndex(cur, i, requested)
		} else {
			next, err = cur.info.resolver.HandleKey(cur, seg, requested)
		}
		if err != nil || next == nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Children returns the child nodes of a Table (in key order) or Array, and nil
// for other kinds
func (n *Node) Children() []*Node {
	if !n.Kind().IsContainer() {
		return nil
	}
	out := make([]*Node, 0, len(n.val.items))
	for i := range n.val.items {
		c, err := n.info.resolver.HandleIndex(n, i, n)
		if err != nil || c == nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// KeySet returns the sorted keys available from n. For bundle roots this is the
// union over the whole fallback chain, computed once and cached. Other nodes
// report their own table keys.
func (n *Node) KeySet() []string {
	if !n.top {
		return append([]string(nil), n.val.keys...)
	}
	if cached := n.keySet.Load(); cached != nil {
		return append([]string(nil), (*cached)...)
	}

	var inherited []string
	if n.parent != nil {
		inherited = n.parent.KeySet()
	}
	merged := unionSorted(inherited, n.val.keys)

	// Concurrent first calls compute the same set; keep whichever landed first
	n.keySet.CompareAndSwap(nil, &merged)
	return append([]string(nil), (*n.keySet.Load())...)
}

func unionSorted(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	sort.Strings(out)

	uniq := out[:0]
	for _, k := range out {
		if len(uniq) > 0 && uniq[len(uniq)-1] == k {
			continue
		}
		uniq = append(uniq, k)
	}
	return uniq
}
