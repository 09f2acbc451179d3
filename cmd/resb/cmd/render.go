package cmd

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"
)

// renderValue writes v as an indented tree
func renderValue(w io.Writer, v *structpb.Value, indent int) {
	pad := strings.Repeat("  ", indent)

	switch k := v.GetKind().(type) {
	case *structpb.Value_StructValue:
		fields := k.StructValue.GetFields()
		keys := make([]string, 0, len(fields))
		for key := range fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			child := fields[key]
			if isScalar(child) {
				fmt.Fprintf(w, "%s%s: %s\n", pad, keyStyle.Render(key), scalar(child))
				continue
			}
			fmt.Fprintf(w, "%s%s:\n", pad, keyStyle.Render(key))
			renderValue(w, child, indent+1)
		}
	case *structpb.Value_ListValue:
		for i, item := range k.ListValue.GetValues() {
			idx := mutedStyle.Render(fmt.Sprintf("[%d]", i))
			if isScalar(item) {
				fmt.Fprintf(w, "%s%s %s\n", pad, idx, scalar(item))
				continue
			}
			fmt.Fprintf(w, "%s%s\n", pad, idx)
			renderValue(w, item, indent+1)
		}
	default:
		fmt.Fprintf(w, "%s%s\n", pad, scalar(v))
	}
}

func isScalar(v *structpb.Value) bool {
	switch v.GetKind().(type) {
	case *structpb.Value_StructValue, *structpb.Value_ListValue:
		return false
	}
	return true
}

func scalar(v *structpb.Value) string {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_NumberValue:
		return numberStyle.Render(strconv.FormatFloat(k.NumberValue, 'f', -1, 64))
	case *structpb.Value_BoolValue:
		return numberStyle.Render(strconv.FormatBool(k.BoolValue))
	default:
		return mutedStyle.Render("(none)")
	}
}

// describe formats the provenance line printed above a value
func describe(baseName, localeID, kind string) string {
	return fmt.Sprintf("%s %s %s",
		titleStyle.Render(baseName),
		mutedStyle.Render("from "+displayLocale(localeID)),
		mutedStyle.Render("("+kind+")"))
}

func displayLocale(id string) string {
	if id == "" {
		return "root"
	}
	return id
}
