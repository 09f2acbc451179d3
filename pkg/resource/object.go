package resource

// ObjectKind tells which payload an Object carries
type ObjectKind int

const (
	ObjectString ObjectKind = iota
	ObjectStrings
	ObjectNode
)

// Object is the result of an Object lookup: a string, a string array, or the
// raw node for every other kind
type Object struct {
	kind ObjectKind
	str  string
	strs []string
	node *Node
}

// Kind returns which payload the object carries
func (o Object) Kind() ObjectKind { return o.kind }

// Text returns the string payload
func (o Object) Text() (string, bool) { return o.str, o.kind == ObjectString }

// Strings returns the string array payload
func (o Object) Strings() ([]string, bool) { return o.strs, o.kind == ObjectStrings }

// Node returns the node payload
func (o Object) Node() (*Node, bool) { return o.node, o.kind == ObjectNode }

// Object looks key up from any node, walking the full fallback chain. A String
// node answers with its own text whatever the key; an Array of strings comes
// back as a string array; everything else is returned as a node.
func (n *Node) Object(key string) (Object, error) {
	return n.object(key, n)
}

func (n *Node) object(key string, requested *Node) (Object, error) {
	for e := n; e != nil; e = e.parent {
		obj, found, err := e.resolveObject(key, requested)
		if err != nil {
			return Object{}, err
		}
		if found {
			return obj, nil
		}
	}
	return Object{}, errNotFound(requested.Root(), key)
}

func (n *Node) resolveObject(key string, requested *Node) (Object, bool, error) {
	if n.Kind() == KindString {
		return Object{kind: ObjectString, str: n.val.str}, true, nil
	}

	c, err := n.info.resolver.HandleKey(n, key, requested)
	if err != nil {
		return Object{}, false, err
	}
	if c == nil {
		return Object{}, false, nil
	}

	switch c.Kind() {
	case KindString:
		return Object{kind: ObjectString, str: c.val.str}, true, nil
	case KindArray:
		if strs, err := c.StringArray(); err == nil {
			return Object{kind: ObjectStrings, strs: strs}, true, nil
		} else if !IsTypeMismatch(err) {
			return Object{}, false, err
		}
	}
	return Object{kind: ObjectNode, node: c}, true, nil
}

// GetString returns the string found by Object, or TYPE_MISMATCH
func (n *Node) GetString(key string) (string, error) {
	obj, err := n.Object(key)
	if err != nil {
		return "", err
	}
	if s, ok := obj.Text(); ok {
		return s, nil
	}
	return "", errTypeMismatch(objectNode(obj, n), KindString)
}

// GetStringArray returns the string array found by Object, or TYPE_MISMATCH
func (n *Node) GetStringArray(key string) ([]string, error) {
	obj, err := n.Object(key)
	if err != nil {
		return nil, err
	}
	if s, ok := obj.Strings(); ok {
		return s, nil
	}
	if node, ok := obj.Node(); ok && node.Kind() == KindArray {
		return node.StringArray()
	}
	return nil, errTypeMismatch(objectNode(obj, n), KindArray)
}

func objectNode(o Object, fallback *Node) *Node {
	if o.node != nil {
		return o.node
	}
	return fallback
}
