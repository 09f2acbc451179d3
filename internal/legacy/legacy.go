// Package legacy reads text bundles written as TOML or YAML documents and
// converts them into resource trees.
//
// Mapping: strings stay strings; integers that fit in 32 bits become Int32;
// lists of integers become Int32Vector; other lists become Array; tables and
// mappings become Table. Booleans, floats and timestamps are kept as their
// string form.
package legacy

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	resberror "github.com/msto63/resb/foundation/core/error"
	"github.com/msto63/resb/pkg/resource"
)

// Extensions lists the supported file extensions in lookup order
var Extensions = []string{".toml", ".yaml", ".yml"}

// Decode parses data in the format named by ext and returns the bundle table
func Decode(data []byte, ext string) (*resource.Value, error) {
	var doc map[string]any

	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, invalid(ext, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, invalid(ext, err)
		}
	default:
		return nil, resberror.Newf("unsupported bundle extension %q", ext).
			WithCode(resberror.CodeInvalidFormat)
	}

	return convert(doc, "")
}

func convert(x any, path string) (*resource.Value, error) {
	switch t := x.(type) {
	case nil:
		return resource.NewNone(), nil
	case string:
		return resource.NewString(t), nil
	case bool:
		return resource.NewString(strconv.FormatBool(t)), nil
	case float64:
		return resource.NewString(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case time.Time:
		return resource.NewString(t.Format(time.RFC3339)), nil
	case int, int64, uint64:
		n, ok := asInt32(t)
		if !ok {
			return nil, resberror.Newf("integer at %s does not fit in 32 bits", display(path)).
				WithCode(resberror.CodeInvalidFormat)
		}
		return resource.NewInt(n), nil
	case []any:
		return convertList(t, path)
	case []map[string]any:
		items := make([]any, len(t))
		for i, m := range t {
			items[i] = m
		}
		return convertList(items, path)
	case map[string]any:
		members := make(map[string]*resource.Value, len(t))
		for k, v := range t {
			c, err := convert(v, path+"/"+k)
			if err != nil {
				return nil, err
			}
			members[k] = c
		}
		return resource.NewTable(members), nil
	case map[any]any:
		members := make(map[string]any, len(t))
		for k, v := range t {
			members[fmt.Sprint(k)] = v
		}
		return convert(members, path)
	default:
		return nil, resberror.Newf("unsupported value %T at %s", x, display(path)).
			WithCode(resberror.CodeInvalidFormat)
	}
}

func convertList(items []any, path string) (*resource.Value, error) {
	if len(items) > 0 {
		vec := make([]int32, 0, len(items))
		for _, it := range items {
			n, ok := asInt32(it)
			if !ok {
				break
			}
			vec = append(vec, n)
		}
		if len(vec) == len(items) {
			return resource.NewIntVector(vec), nil
		}
	}

	out := make([]*resource.Value, len(items))
	for i, it := range items {
		c, err := convert(it, fmt.Sprintf("%s/%d", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return resource.NewArray(out...), nil
}

func asInt32(x any) (int32, bool) {
	switch n := x.(type) {
	case int:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return int32(n), true
	case int64:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return int32(n), true
	case uint64:
		if n > math.MaxInt32 {
			return 0, false
		}
		return int32(n), true
	}
	return 0, false
}

func display(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func invalid(ext string, err error) error {
	return resberror.Wrap(err, "invalid "+strings.TrimPrefix(ext, ".")+" bundle").
		WithCode(resberror.CodeInvalidFormat)
}
