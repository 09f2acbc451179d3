// Package binres encodes and decodes the structured binary bundle format: a
// deterministic CBOR document holding a small header and the resource tree.
//
// Int32 vectors and aliases have no native CBOR shape and are carried in
// application tags.
package binres

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"

	"github.com/fxamacker/cbor/v2"

	resberror "github.com/msto63/resb/foundation/core/error"
	"github.com/msto63/resb/pkg/resource"
)

const (
	// Format identifies resb binary bundles
	Format = "resb"
	// Version is the current format version
	Version = 1
	// Ext is the file extension of binary bundles
	Ext = ".res"

	tagIntVector = 40100
	tagAlias     = 40101
)

// File is a decoded binary bundle
type File struct {
	Locale string
	// Parent overrides the computed fallback parent when HasParent is set
	Parent    string
	HasParent bool
	Root      *resource.Value
}

type header struct {
	Format  string  `cbor:"fmt"`
	Version uint    `cbor:"ver"`
	Locale  string  `cbor:"locale"`
	Parent  *string `cbor:"parent,omitempty"`
	Root    any     `cbor:"root"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	decOpts := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}
	if decMode, err = decOpts.DecMode(); err != nil {
		panic(err)
	}
}

// Marshal encodes f
func Marshal(f *File) ([]byte, error) {
	root, err := toWire(f.Root)
	if err != nil {
		return nil, err
	}
	h := header{Format: Format, Version: Version, Locale: f.Locale, Root: root}
	if f.HasParent {
		p := f.Parent
		h.Parent = &p
	}
	return encMode.Marshal(h)
}

// Encode writes f to w
func Encode(w io.Writer, f *File) error {
	data, err := Marshal(f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Unmarshal decodes a binary bundle
func Unmarshal(data []byte) (*File, error) {
	var h header
	if err := decMode.Unmarshal(data, &h); err != nil {
		return nil, corrupt("decode", err)
	}
	if h.Format != Format {
		return nil, resberror.Newf("not a %s bundle (format %q)", Format, h.Format).
			WithCode(resberror.CodeInvalidFormat)
	}
	if h.Version != Version {
		return nil, resberror.Newf("unsupported bundle version %d", h.Version).
			WithCode(resberror.CodeInvalidFormat).
			WithDetail("version", h.Version)
	}

	root, err := fromWire(h.Root, "")
	if err != nil {
		return nil, err
	}
	f := &File{Locale: h.Locale, Root: root}
	if h.Parent != nil {
		f.Parent, f.HasParent = *h.Parent, true
	}
	return f, nil
}

// Decode reads and decodes a binary bundle from r
func Decode(r io.Reader) (*File, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return Unmarshal(buf.Bytes())
}

func toWire(v *resource.Value) (any, error) {
	switch v.Kind() {
	case resource.KindNone:
		return nil, nil
	case resource.KindString:
		if v.IsAlias() {
			return cbor.Tag{Number: tagAlias, Content: v.Text()}, nil
		}
		return v.Text(), nil
	case resource.KindBinary:
		return v.Bytes(), nil
	case resource.KindInt32:
		return int64(v.Int()), nil
	case resource.KindInt32Vector:
		vec := make([]int64, len(v.Vector()))
		for i, n := range v.Vector() {
			vec[i] = int64(n)
		}
		return cbor.Tag{Number: tagIntVector, Content: vec}, nil
	case resource.KindArray:
		out := make([]any, len(v.Items()))
		for i, item := range v.Items() {
			w, err := toWire(item)
			if err != nil {
				return nil, err
			}
			out[i] = w
		}
		return out, nil
	case resource.KindTable:
		out := make(map[string]any, len(v.Keys()))
		for i, k := range v.Keys() {
			w, err := toWire(v.Items()[i])
			if err != nil {
				return nil, err
			}
			out[k] = w
		}
		return out, nil
	default:
		return nil, resberror.Newf("cannot encode resource kind %s", v.Kind()).WithCode(resberror.CodeInvalidInput)
	}
}

func fromWire(x any, path string) (*resource.Value, error) {
	switch t := x.(type) {
	case nil:
		return resource.NewNone(), nil
	case string:
		return resource.NewString(t), nil
	case []byte:
		return resource.NewBinary(t), nil
	case uint64, int64:
		n, err := toInt32(t, path)
		if err != nil {
			return nil, err
		}
		return resource.NewInt(n), nil
	case []any:
		items := make([]*resource.Value, len(t))
		for i, e := range t {
			v, err := fromWire(e, fmt.Sprintf("%s/%d", path, i))
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return resource.NewArray(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make(map[string]*resource.Value, len(t))
		for _, k := range keys {
			v, err := fromWire(t[k], path+"/"+k)
			if err != nil {
				return nil, err
			}
			members[k] = v
		}
		return resource.NewTable(members), nil
	case cbor.Tag:
		return fromTag(t, path)
	default:
		return nil, corrupt(path, fmt.Errorf("unexpected %T", x))
	}
}

func fromTag(t cbor.Tag, path string) (*resource.Value, error) {
	switch t.Number {
	case tagAlias:
		s, ok := t.Content.(string)
		if !ok {
			return nil, corrupt(path, fmt.Errorf("alias content %T", t.Content))
		}
		return resource.NewAlias(s), nil
	case tagIntVector:
		items, ok := t.Content.([]any)
		if !ok {
			return nil, corrupt(path, fmt.Errorf("int vector content %T", t.Content))
		}
		vec := make([]int32, len(items))
		for i, e := range items {
			n, err := toInt32(e, path)
			if err != nil {
				return nil, err
			}
			vec[i] = n
		}
		return resource.NewIntVector(vec), nil
	default:
		return nil, corrupt(path, fmt.Errorf("unknown tag %d", t.Number))
	}
}

func toInt32(x any, path string) (int32, error) {
	switch n := x.(type) {
	case uint64:
		if n > math.MaxInt32 {
			return 0, corrupt(path, fmt.Errorf("integer %d exceeds int32", n))
		}
		return int32(n), nil
	case int64:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, corrupt(path, fmt.Errorf("integer %d exceeds int32", n))
		}
		return int32(n), nil
	default:
		return 0, corrupt(path, fmt.Errorf("expected integer, got %T", x))
	}
}

func corrupt(path string, err error) error {
	if path == "" {
		path = "/"
	}
	return resberror.Wrap(err, "corrupt bundle data at "+path).
		WithCode(resberror.CodeDataCorruption)
}
