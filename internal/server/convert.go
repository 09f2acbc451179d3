package server

import (
	"encoding/base64"

	"google.golang.org/protobuf/types/known/structpb"

	resberror "github.com/msto63/resb/foundation/core/error"
	"github.com/msto63/resb/pkg/resource"
)

// Field names shared by requests and responses
const (
	fieldBaseName = "base_name"
	fieldLocale   = "locale"
	fieldPath     = "path"
	fieldDirect   = "direct"
	fieldKind     = "kind"
	fieldKey      = "key"
	fieldValue    = "value"
	fieldKeys     = "keys"
	fieldBackend  = "backend"
)

// request is the decoded form of every ResourceService request
type request struct {
	BaseName string
	Locale   string
	Path     []string
	Direct   bool
}

func decodeRequest(in *structpb.Struct) (request, error) {
	var req request
	fields := in.GetFields()

	req.BaseName = fields[fieldBaseName].GetStringValue()
	if req.BaseName == "" {
		return req, resberror.New("base_name is required").WithCode(resberror.CodeInvalidInput)
	}
	req.Locale = fields[fieldLocale].GetStringValue()
	req.Direct = fields[fieldDirect].GetBoolValue()

	for i, v := range fields[fieldPath].GetListValue().GetValues() {
		seg, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return req, resberror.Newf("path[%d] must be a string", i).WithCode(resberror.CodeInvalidInput)
		}
		req.Path = append(req.Path, seg.StringValue)
	}
	return req, nil
}

func encodeRequest(req request) *structpb.Struct {
	path := make([]*structpb.Value, len(req.Path))
	for i, seg := range req.Path {
		path[i] = structpb.NewStringValue(seg)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldBaseName: structpb.NewStringValue(req.BaseName),
		fieldLocale:   structpb.NewStringValue(req.Locale),
		fieldPath:     structpb.NewListValue(&structpb.ListValue{Values: path}),
		fieldDirect:   structpb.NewBoolValue(req.Direct),
	}}
}

// encodeNode describes n: its kind, the locale it was found in, its key and
// its value
func encodeNode(n *resource.Node) (*structpb.Struct, error) {
	v, err := ToValue(n)
	if err != nil {
		return nil, err
	}
	key, _ := n.Key()
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldBaseName: structpb.NewStringValue(n.BaseName()),
		fieldLocale:   structpb.NewStringValue(n.LocaleID()),
		fieldKey:      structpb.NewStringValue(key),
		fieldKind:     structpb.NewStringValue(n.Kind().String()),
		fieldValue:    v,
	}}, nil
}

// ToValue converts a node and its children to a protobuf value. Binary data is
// base64 encoded; Int32 values become numbers.
func ToValue(n *resource.Node) (*structpb.Value, error) {
	switch n.Kind() {
	case resource.KindNone:
		return structpb.NewNullValue(), nil
	case resource.KindString:
		s, err := n.Text()
		if err != nil {
			return nil, err
		}
		return structpb.NewStringValue(s), nil
	case resource.KindBinary:
		b, err := n.Binary()
		if err != nil {
			return nil, err
		}
		return structpb.NewStringValue(base64.StdEncoding.EncodeToString(b)), nil
	case resource.KindInt32:
		i, err := n.Int()
		if err != nil {
			return nil, err
		}
		return structpb.NewNumberValue(float64(i)), nil
	case resource.KindInt32Vector:
		vec, err := n.IntVector()
		if err != nil {
			return nil, err
		}
		items := make([]*structpb.Value, len(vec))
		for i, x := range vec {
			items[i] = structpb.NewNumberValue(float64(x))
		}
		return structpb.NewListValue(&structpb.ListValue{Values: items}), nil
	case resource.KindArray:
		children := n.Children()
		items := make([]*structpb.Value, 0, len(children))
		for _, c := range children {
			v, err := ToValue(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return structpb.NewListValue(&structpb.ListValue{Values: items}), nil
	case resource.KindTable:
		fields := make(map[string]*structpb.Value, n.Len())
		for _, c := range n.Children() {
			key, _ := c.Key()
			v, err := ToValue(c)
			if err != nil {
				return nil, err
			}
			fields[key] = v
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: fields}), nil
	default:
		return nil, resberror.Newf("unsupported resource kind %s", n.Kind()).
			WithCode(resberror.CodeInternal)
	}
}
