package resource

import (
	"fmt"

	resberror "github.com/msto63/resb/foundation/core/error"
)

func errNotFound(n *Node, key string) error {
	return resberror.Newf("can't find resource for bundle %s, key %s", n.FullName(), key).
		WithCode(resberror.CodeResourceNotFound).
		WithOperation("resource.Get").
		WithDetail("bundle", n.FullName()).
		WithDetail("key", key)
}

func errIndexNotFound(n *Node, index int) error {
	return resberror.Newf("can't find resource for bundle %s, index %d", n.FullName(), index).
		WithCode(resberror.CodeResourceNotFound).
		WithOperation("resource.GetIndex").
		WithDetail("bundle", n.FullName()).
		WithDetail("index", index)
}

func errIndexOutOfRange(n *Node, index int) error {
	return resberror.Newf("index %d out of range [0,%d) in bundle %s", index, n.val.Len(), n.FullName()).
		WithCode(resberror.CodeIndexOutOfRange).
		WithOperation("resource.GetIndex").
		WithDetail("bundle", n.FullName()).
		WithDetail("index", index)
}

func errTypeMismatch(n *Node, want Kind) error {
	name := n.FullName()
	if n.hasKey {
		name = fmt.Sprintf("%s, key %s", name, n.key)
	}
	return resberror.Newf("resource in bundle %s is %s, not %s", name, n.Kind(), want).
		WithCode(resberror.CodeTypeMismatch).
		WithOperation("resource.Access").
		WithDetail("have", n.Kind().String()).
		WithDetail("want", want.String())
}

// IsNotFound reports whether err is a RESOURCE_NOT_FOUND failure
func IsNotFound(err error) bool {
	return resberror.HasCode(err, resberror.CodeResourceNotFound)
}

// IsTypeMismatch reports whether err is a TYPE_MISMATCH failure
func IsTypeMismatch(err error) bool {
	return resberror.HasCode(err, resberror.CodeTypeMismatch)
}

// IsIndexOutOfRange reports whether err is an INDEX_OUT_OF_RANGE failure
func IsIndexOutOfRange(err error) bool {
	return resberror.HasCode(err, resberror.CodeIndexOutOfRange)
}
