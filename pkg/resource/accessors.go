package resource

// Text returns the text of a String resource
func (n *Node) Text() (string, error) {
	if n.Kind() != KindString {
		return "", errTypeMismatch(n, KindString)
	}
	return n.val.str, nil
}

// Binary returns a copy of the bytes of a Binary resource
func (n *Node) Binary() ([]byte, error) {
	if n.Kind() != KindBinary {
		return nil, errTypeMismatch(n, KindBinary)
	}
	out := make([]byte, len(n.val.bin))
	copy(out, n.val.bin)
	return out, nil
}

// Int returns the signed value of an Int32 resource
func (n *Node) Int() (int32, error) {
	if n.Kind() != KindInt32 {
		return 0, errTypeMismatch(n, KindInt32)
	}
	return n.val.num, nil
}

// UInt returns the value of an Int32 resource reinterpreted as unsigned
func (n *Node) UInt() (uint32, error) {
	if n.Kind() != KindInt32 {
		return 0, errTypeMismatch(n, KindInt32)
	}
	return uint32(n.val.num), nil
}

// IntVector returns a copy of an Int32Vector resource
func (n *Node) IntVector() ([]int32, error) {
	if n.Kind() != KindInt32Vector {
		return nil, errTypeMismatch(n, KindInt32Vector)
	}
	out := make([]int32, len(n.val.vec))
	copy(out, n.val.vec)
	return out, nil
}

// StringArray returns the members of an Array whose members are all strings
func (n *Node) StringArray() ([]string, error) {
	if n.Kind() != KindArray {
		return nil, errTypeMismatch(n, KindArray)
	}
	out := make([]string, 0, len(n.val.items))
	for i := range n.val.items {
		c, err := n.info.resolver.HandleIndex(n, i, n)
		if err != nil {
			return nil, err
		}
		s, err := c.Text()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// StringAt returns the string child at position index
func (n *Node) StringAt(index int) (string, error) {
	c, err := n.GetIndex(index)
	if err != nil {
		return "", err
	}
	return c.Text()
}

// Len returns the number of children of a Table or Array and 1 otherwise
func (n *Node) Len() int {
	return n.val.Len()
}
