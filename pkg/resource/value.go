package resource

import (
	"sort"
)

// Value is the immutable payload of a resource. Backends decode their storage
// format into Values; Nodes wrap them with bundle identity and fallback links.
type Value struct {
	kind  Kind
	str   string
	bin   []byte
	num   int32
	vec   []int32
	keys  []string // Table: sorted, unique
	items []*Value // Table: aligned with keys; Array: positional

	// alias marks a String value whose text is a key path to another resource
	alias bool
}

// NewNone returns a value of kind None
func NewNone() *Value {
	return &Value{kind: KindNone}
}

// NewString returns a String value
func NewString(s string) *Value {
	return &Value{kind: KindString, str: s}
}

// NewAlias returns a String value that backends supporting aliases resolve to
// the resource at path ("key/sub/0"), relative to the requesting bundle.
func NewAlias(path string) *Value {
	return &Value{kind: KindString, str: path, alias: true}
}

// NewBinary returns a Binary value holding a copy of b
func NewBinary(b []byte) *Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return &Value{kind: KindBinary, bin: cp}
}

// NewInt returns an Int32 value
func NewInt(i int32) *Value {
	return &Value{kind: KindInt32, num: i}
}

// NewIntVector returns an Int32Vector value holding a copy of v
func NewIntVector(v []int32) *Value {
	cp := make([]int32, len(v))
	copy(cp, v)
	return &Value{kind: KindInt32Vector, vec: cp}
}

// NewArray returns an Array value
func NewArray(items ...*Value) *Value {
	cp := make([]*Value, len(items))
	copy(cp, items)
	return &Value{kind: KindArray, items: cp}
}

// NewTable returns a Table value. Members are stored in key order.
func NewTable(members map[string]*Value) *Value {
	keys := make([]string, 0, len(members))
	for k := range members {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]*Value, len(keys))
	for i, k := range keys {
		items[i] = members[k]
	}
	return &Value{kind: KindTable, keys: keys, items: items}
}

// Kind returns the kind of the value
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNone
	}
	return v.kind
}

// Text returns the string payload
func (v *Value) Text() string { return v.str }

// Bytes returns the binary payload; callers must not modify it
func (v *Value) Bytes() []byte { return v.bin }

// Int returns the Int32 payload
func (v *Value) Int() int32 { return v.num }

// Vector returns the Int32Vector payload; callers must not modify it
func (v *Value) Vector() []int32 { return v.vec }

// Keys returns the sorted table keys; callers must not modify it
func (v *Value) Keys() []string { return v.keys }

// Items returns the child values; callers must not modify it
func (v *Value) Items() []*Value { return v.items }

// IsAlias reports whether the value is an alias path
func (v *Value) IsAlias() bool { return v.alias }

// Len returns the number of children for containers and 1 otherwise
func (v *Value) Len() int {
	if v.Kind().IsContainer() {
		return len(v.items)
	}
	return 1
}

// member returns the table member named key
func (v *Value) member(key string) (*Value, int, bool) {
	if v.kind != KindTable {
		return nil, -1, false
	}
	i := sort.SearchStrings(v.keys, key)
	if i < len(v.keys) && v.keys[i] == key {
		return v.items[i], i, true
	}
	return nil, -1, false
}

// Member returns the direct member of a Table value stored under key
func (v *Value) Member(key string) (*Value, bool) {
	m, _, ok := v.member(key)
	return m, ok
}

// Without returns a copy of a Table value lacking key. Other values are
// returned unchanged.
func (v *Value) Without(key string) *Value {
	if _, _, ok := v.member(key); !ok {
		return v
	}
	members := make(map[string]*Value, len(v.keys)-1)
	for i, k := range v.keys {
		if k != key {
			members[k] = v.items[i]
		}
	}
	return NewTable(members)
}
