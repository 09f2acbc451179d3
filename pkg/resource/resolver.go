package resource

import (
	"strconv"
	"strings"

	resberror "github.com/msto63/resb/foundation/core/error"
)

// Resolver is the backend-specific lookup capability installed on every node of
// a bundle. Both methods return (nil, nil) when the node has no such child;
// requested is the node the caller originally asked.
type Resolver interface {
	HandleKey(n *Node, key string, requested *Node) (*Node, error)
	HandleIndex(n *Node, index int, requested *Node) (*Node, error)
}

// PlainResolver looks children up directly in the value tree. Alias values are
// surfaced as plain strings.
type PlainResolver struct{}

// HandleKey returns the table member named key
func (PlainResolver) HandleKey(n *Node, key string, _ *Node) (*Node, error) {
	v, _, ok := n.val.member(key)
	if !ok {
		return nil, nil
	}
	return n.child(key, true, v), nil
}

// HandleIndex returns the child at position index of a Table or Array
func (PlainResolver) HandleIndex(n *Node, index int, _ *Node) (*Node, error) {
	if !n.Kind().IsContainer() {
		return nil, nil
	}
	if index < 0 || index >= len(n.val.items) {
		return nil, errIndexOutOfRange(n, index)
	}
	if n.val.kind == KindTable {
		return n.child(n.val.keys[index], true, n.val.items[index]), nil
	}
	return n.child("", false, n.val.items[index]), nil
}

// AliasResolver behaves like PlainResolver but follows alias values. Alias paths
// are slash separated; the first segment is looked up through the requesting
// bundle's fallback chain, later segments inside the resource found so far.
type AliasResolver struct {
	// MaxDepth bounds alias chains; zero means DefaultMaxAliasDepth
	MaxDepth int
}

// DefaultMaxAliasDepth is the alias chain limit used when none is configured
const DefaultMaxAliasDepth = 32

// HandleKey returns the table member named key, following aliases
func (r AliasResolver) HandleKey(n *Node, key string, requested *Node) (*Node, error) {
	c, err := PlainResolver{}.HandleKey(n, key, requested)
	if err != nil || c == nil {
		return c, err
	}
	return r.follow(c, requested, nil)
}

// HandleIndex returns the child at position index, following aliases
func (r AliasResolver) HandleIndex(n *Node, index int, requested *Node) (*Node, error) {
	c, err := PlainResolver{}.HandleIndex(n, index, requested)
	if err != nil || c == nil {
		return c, err
	}
	return r.follow(c, requested, nil)
}

func (r AliasResolver) follow(c *Node, requested *Node, visited map[string]bool) (*Node, error) {
	for c.val.alias {
		path := c.val.str
		if visited == nil {
			visited = make(map[string]bool)
		}
		limit := r.MaxDepth
		if limit <= 0 {
			limit = DefaultMaxAliasDepth
		}
		if visited[path] || len(visited) >= limit {
			return nil, resberror.Newf("alias loop at %q in bundle %s", path, requested.FullName()).
				WithCode(resberror.CodeAliasLoop).
				WithOperation("resource.AliasResolver").
				WithDetail("path", path)
		}
		visited[path] = true

		target, err := r.walk(path, requested, visited)
		if err != nil {
			return nil, err
		}
		// Keep the key the alias was reached under
		c = &Node{val: target.val, key: c.key, hasKey: c.hasKey, info: target.info, parent: target.parent}
	}
	return c, nil
}

// walk resolves path without following the final alias, which follow handles
func (r AliasResolver) walk(path string, requested *Node, visited map[string]bool) (*Node, error) {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(segs) == 0 || segs[0] == "" {
		return nil, errNotFound(requested, path)
	}

	var cur *Node
	for e := requested.Root(); e != nil; e = e.parent {
		if c, _ := (PlainResolver{}).HandleKey(e, segs[0], requested); c != nil {
			cur = c
			break
		}
	}
	if cur == nil {
		return nil, errNotFound(requested, path)
	}

	for _, seg := range segs[1:] {
		if cur.val.alias {
			next, err := r.follow(cur, requested, visited)
			if err != nil {
				return nil, err
			}
			cur = next
		}
		var next *Node
		var err error
		if i, convErr := strconv.Atoi(seg); convErr == nil && cur.Kind() == KindArray {
			next, err = PlainResolver{}.HandleIndex(cur, i, requested)
		} else {
			next, err = PlainResolver{}.HandleKey(cur, seg, requested)
		}
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, errNotFound(requested, path)
		}
		cur = next
	}
	return cur, nil
}
