package resource

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	resberror "github.com/msto63/resb/foundation/core/error"
)

// newChain builds units/fr_CA -> units/fr -> units (root)
func newChain(t *testing.T) (frCA, fr, root *Node) {
	t.Helper()

	root = NewRoot("units", "", NewTable(map[string]*Value{
		"Meter": NewString("meter"),
		"Count": NewInt(-1),
		"Vec":   NewIntVector([]int32{1, 2, 3}),
		"Data":  NewBinary([]byte{0xde, 0xad}),
		"Days":  NewArray(NewString("Sun"), NewString("Mon")),
		"Mixed": NewArray(NewString("one"), NewInt(2)),
		"Currencies": NewTable(map[string]*Value{
			"USD": NewString("dollar"),
		}),
	}), nil, nil)

	fr = NewRoot("units", "fr", NewTable(map[string]*Value{
		"Meter":      NewString("mètre"),
		"Currencies": NewString("euro partout"),
	}), root, nil)

	frCA = NewRoot("units", "fr_CA", NewTable(map[string]*Value{
		"Hello": NewString("allo"),
		"Units": NewTable(map[string]*Value{
			"Width": NewString("largeur"),
		}),
	}), fr, nil)

	return frCA, fr, root
}

func mustString(t *testing.T, n *Node, err error) string {
	t.Helper()
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	s, err := n.Text()
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	return s
}

func TestGetWalksChain(t *testing.T) {
	frCA, _, _ := newChain(t)

	tests := []struct {
		key        string
		wantString string
		wantLocale string
	}{
		{"Hello", "allo", "fr_CA"},
		{"Meter", "mètre", "fr"},
		{"Currencies", "euro partout", "fr"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			n, err := frCA.Get(tt.key)
			if got := mustString(t, n, err); got != tt.wantString {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.wantString)
			}
			if n.LocaleID() != tt.wantLocale {
				t.Errorf("LocaleID() = %q, want %q", n.LocaleID(), tt.wantLocale)
			}
			if k, ok := n.Key(); !ok || k != tt.key {
				t.Errorf("Key() = %q, %v, want %q, true", k, ok, tt.key)
			}
		})
	}

	count, err := frCA.Get("Count")
	if err != nil {
		t.Fatalf("Get(Count) error = %v", err)
	}
	if v, _ := count.Int(); v != -1 {
		t.Errorf("Int() = %d, want -1", v)
	}
}

func TestGetNotFound(t *testing.T) {
	frCA, _, _ := newChain(t)

	_, err := frCA.Get("Nope")
	if !IsNotFound(err) {
		t.Fatalf("Get(Nope) error = %v, want RESOURCE_NOT_FOUND", err)
	}
	if !strings.Contains(err.Error(), "units/fr_CA") || !strings.Contains(err.Error(), "Nope") {
		t.Errorf("error %q should name bundle and key", err.Error())
	}
}

func TestNestedParentIsContainerParent(t *testing.T) {
	frCA, fr, _ := newChain(t)

	units, err := frCA.Get("Units")
	if err != nil {
		t.Fatalf("Get(Units) error = %v", err)
	}
	if units.IsTopLevel() {
		t.Error("nested node reports IsTopLevel")
	}
	if units.Parent() != fr {
		t.Error("nested node parent should be the fr bundle root")
	}

	// A nested Get continues in the parent locale's top-level table
	n, err := units.Get("Meter")
	if got := mustString(t, n, err); got != "mètre" {
		t.Errorf("units.Get(Meter) = %q, want mètre", got)
	}
}

func TestGetIndex(t *testing.T) {
	frCA, _, _ := newChain(t)

	days, err := frCA.Get("Days")
	if err != nil {
		t.Fatalf("Get(Days) error = %v", err)
	}

	n, err := days.GetIndex(1)
	if got := mustString(t, n, err); got != "Mon" {
		t.Errorf("GetIndex(1) = %q, want Mon", got)
	}
	if _, ok := n.Key(); ok {
		t.Error("array element should have no key")
	}

	for _, idx := range []int{2, 5, -1} {
		if _, err := days.GetIndex(idx); !IsIndexOutOfRange(err) {
			t.Errorf("GetIndex(%d) error = %v, want INDEX_OUT_OF_RANGE", idx, err)
		}
	}

	// Table members are addressable by position in key order
	cur, err := frCA.Get("Currencies")
	if err != nil {
		t.Fatalf("Get(Currencies) error = %v", err)
	}
	if cur.Kind() != KindString {
		t.Fatalf("Currencies kind = %v, want string", cur.Kind())
	}
	table := NewRoot("t", "", NewTable(map[string]*Value{"b": NewString("B"), "a": NewString("A")}), nil, nil)
	first, err := table.GetIndex(0)
	if got := mustString(t, first, err); got != "A" {
		t.Errorf("table.GetIndex(0) = %q, want A", got)
	}
	if k, _ := first.Key(); k != "a" {
		t.Errorf("table.GetIndex(0).Key() = %q, want a", k)
	}
}

func TestGetIndexFallsBackOneLevel(t *testing.T) {
	root := NewRoot("b", "", NewArray(NewString("r0")), nil, nil)
	fr := NewRoot("b", "fr", NewArray(NewString("p0")), root, nil)
	frCA := NewRoot("b", "fr_CA", NewString("scalar"), fr, nil)

	n, err := frCA.GetIndex(0)
	if got := mustString(t, n, err); got != "p0" {
		t.Errorf("GetIndex(0) = %q, want p0 from the direct parent", got)
	}
}

func TestGetIndexDoesNotReachGrandparent(t *testing.T) {
	root := NewRoot("b", "", NewArray(NewString("r0")), nil, nil)
	fr := NewRoot("b", "fr", NewString("parent scalar"), root, nil)
	frCA := NewRoot("b", "fr_CA", NewString("scalar"), fr, nil)

	_, err := frCA.GetIndex(0)
	if !IsNotFound(err) {
		t.Fatalf("GetIndex(0) error = %v, want RESOURCE_NOT_FOUND", err)
	}
}

func TestObject(t *testing.T) {
	frCA, fr, _ := newChain(t)

	t.Run("string shadows table", func(t *testing.T) {
		obj, err := fr.Object("Currencies")
		if err != nil {
			t.Fatalf("Object() error = %v", err)
		}
		if s, ok := obj.Text(); !ok || s != "euro partout" {
			t.Errorf("Object(Currencies) = %q, %v, want euro partout", s, ok)
		}
	})

	t.Run("string node degenerates", func(t *testing.T) {
		cur, err := fr.Get("Currencies")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		s, err := cur.GetString("USD")
		if err != nil {
			t.Fatalf("GetString() error = %v", err)
		}
		if s != "euro partout" {
			t.Errorf("GetString(USD) = %q, want euro partout", s)
		}
	})

	t.Run("string array", func(t *testing.T) {
		days, err := frCA.GetStringArray("Days")
		if err != nil {
			t.Fatalf("GetStringArray() error = %v", err)
		}
		if want := []string{"Sun", "Mon"}; !reflect.DeepEqual(days, want) {
			t.Errorf("GetStringArray(Days) = %v, want %v", days, want)
		}
	})

	t.Run("mixed array stays a node", func(t *testing.T) {
		obj, err := frCA.Object("Mixed")
		if err != nil {
			t.Fatalf("Object() error = %v", err)
		}
		n, ok := obj.Node()
		if !ok || n.Kind() != KindArray {
			t.Fatalf("Object(Mixed) kind = %v, want raw array node", obj.Kind())
		}
		if _, err := frCA.GetStringArray("Mixed"); !IsTypeMismatch(err) {
			t.Errorf("GetStringArray(Mixed) error = %v, want TYPE_MISMATCH", err)
		}
	})

	t.Run("nested node walks chain", func(t *testing.T) {
		units, err := frCA.Get("Units")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		s, err := units.GetString("Width")
		if err != nil || s != "largeur" {
			t.Errorf("GetString(Width) = %q, %v", s, err)
		}
		s, err = units.GetString("Meter")
		if err != nil || s != "mètre" {
			t.Errorf("GetString(Meter) = %q, %v, want mètre", s, err)
		}
	})

	t.Run("not found names requesting bundle", func(t *testing.T) {
		units, _ := frCA.Get("Units")
		_, err := units.Object("Nope")
		if !IsNotFound(err) {
			t.Fatalf("Object(Nope) error = %v, want RESOURCE_NOT_FOUND", err)
		}
		if !strings.Contains(err.Error(), "units/fr_CA") {
			t.Errorf("error %q should name units/fr_CA", err.Error())
		}
	})
}

func TestKeySet(t *testing.T) {
	frCA, fr, _ := newChain(t)

	want := []string{"Count", "Currencies", "Data", "Days", "Hello", "Meter", "Mixed", "Units", "Vec"}
	got := frCA.KeySet()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("KeySet() = %v, want %v", got, want)
	}

	got[0] = "changed"
	if again := frCA.KeySet(); !reflect.DeepEqual(again, want) {
		t.Errorf("KeySet() after caller mutation = %v, want %v", again, want)
	}

	// fr's set is a subset of fr_CA's
	for _, k := range fr.KeySet() {
		found := false
		for _, w := range want {
			if w == k {
				found = true
			}
		}
		if !found {
			t.Errorf("fr key %q missing from fr_CA key set", k)
		}
	}

	units, _ := frCA.Get("Units")
	if ks := units.KeySet(); !reflect.DeepEqual(ks, []string{"Width"}) {
		t.Errorf("nested KeySet() = %v, want [Width]", ks)
	}
}

func TestKeySetConcurrent(t *testing.T) {
	frCA, _, _ := newChain(t)

	var wg sync.WaitGroup
	results := make([][]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = frCA.KeySet()
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if !reflect.DeepEqual(results[0], results[i]) {
			t.Fatalf("KeySet() results differ: %v vs %v", results[0], results[i])
		}
	}
}

func TestAccessors(t *testing.T) {
	frCA, _, _ := newChain(t)

	count, _ := frCA.Get("Count")
	if u, err := count.UInt(); err != nil || u != 4294967295 {
		t.Errorf("UInt() = %d, %v, want 4294967295", u, err)
	}

	vec, _ := frCA.Get("Vec")
	v, err := vec.IntVector()
	if err != nil || !reflect.DeepEqual(v, []int32{1, 2, 3}) {
		t.Errorf("IntVector() = %v, %v", v, err)
	}

	data, _ := frCA.Get("Data")
	b, err := data.Binary()
	if err != nil || len(b) != 2 {
		t.Fatalf("Binary() = %v, %v", b, err)
	}
	b[0] = 0
	if again, _ := data.Binary(); again[0] != 0xde {
		t.Error("Binary() must return a copy")
	}

	days, _ := frCA.Get("Days")
	if s, err := days.StringAt(0); err != nil || s != "Sun" {
		t.Errorf("StringAt(0) = %q, %v", s, err)
	}
	if days.Len() != 2 {
		t.Errorf("Len() = %d, want 2", days.Len())
	}
	if n := len(days.Children()); n != 2 {
		t.Errorf("len(Children()) = %d, want 2", n)
	}

}

func TestAccessorKindMatrix(t *testing.T) {
	samples := map[Kind]*Value{
		KindNone:        NewNone(),
		KindString:      NewString("s"),
		KindBinary:      NewBinary([]byte{1, 2}),
		KindTable:       NewTable(map[string]*Value{"a": NewString("A"), "b": NewString("B")}),
		KindInt32:       NewInt(7),
		KindArray:       NewArray(NewString("x"), NewString("y"), NewString("z")),
		KindInt32Vector: NewIntVector([]int32{1, 2, 3, 4}),
	}
	wantLen := map[Kind]int{KindTable: 2, KindArray: 3}

	accessors := []struct {
		name  string
		valid Kind
		call  func(n *Node) error
	}{
		{"Text", KindString, func(n *Node) error { _, err := n.Text(); return err }},
		{"Binary", KindBinary, func(n *Node) error { _, err := n.Binary(); return err }},
		{"Int", KindInt32, func(n *Node) error { _, err := n.Int(); return err }},
		{"UInt", KindInt32, func(n *Node) error { _, err := n.UInt(); return err }},
		{"IntVector", KindInt32Vector, func(n *Node) error { _, err := n.IntVector(); return err }},
		{"StringArray", KindArray, func(n *Node) error { _, err := n.StringArray(); return err }},
	}

	for _, kind := range Kinds {
		v, ok := samples[kind]
		if !ok {
			t.Fatalf("no sample value for kind %v", kind)
		}
		root := NewRoot("kinds", "", NewTable(map[string]*Value{"v": v}), nil, nil)
		n, err := root.Get("v")
		if err != nil {
			t.Fatalf("Get(v) for %v error = %v", kind, err)
		}
		if n.Kind() != kind {
			t.Fatalf("Kind() = %v, want %v", n.Kind(), kind)
		}

		want := 1
		if l, ok := wantLen[kind]; ok {
			want = l
		}
		if got := n.Len(); got != want {
			t.Errorf("%v Len() = %d, want %d", kind, got, want)
		}

		for _, a := range accessors {
			t.Run(kind.String()+"/"+a.name, func(t *testing.T) {
				err := a.call(n)
				if kind == a.valid {
					if err != nil {
						t.Errorf("%s() error = %v, want nil", a.name, err)
					}
					return
				}
				if !IsTypeMismatch(err) {
					t.Errorf("%s() error = %v, want TYPE_MISMATCH", a.name, err)
				}
			})
		}
	}
}

func TestStringArrayRejectsMixedArray(t *testing.T) {
	frCA, _, _ := newChain(t)

	mixed, err := frCA.Get("Mixed")
	if err != nil {
		t.Fatalf("Get(Mixed) error = %v", err)
	}
	if _, err := mixed.StringArray(); !IsTypeMismatch(err) {
		t.Errorf("StringArray() error = %v, want TYPE_MISMATCH", err)
	}
}

func TestGetIndexOnNestedScalar(t *testing.T) {
	frCA, fr, root := newChain(t)

	tests := []struct {
		name string
		node *Node
		key  string
	}{
		{"int vector inherited by fr", fr, "Vec"},
		{"int vector in root", root, "Vec"},
		{"int32 inherited by fr_CA", frCA, "Count"},
		{"string in fr", fr, "Meter"},
		{"binary in root", root, "Data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := tt.node.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.key, err)
			}
			if c, err := n.GetIndex(0); !IsTypeMismatch(err) {
				t.Errorf("GetIndex(0) = %v, %v, want TYPE_MISMATCH", c, err)
			}
		})
	}
}

func TestGetPathInheritsNestedMembers(t *testing.T) {
	root := NewRoot("dims", "", NewTable(map[string]*Value{
		"Height": NewString("top-level height"),
		"Units": NewTable(map[string]*Value{
			"Height": NewString("root height"),
			"Width":  NewString("root width"),
		}),
		"Days": NewArray(NewString("Sun"), NewString("Mon")),
	}), nil, nil)
	fr := NewRoot("dims", "fr", NewTable(map[string]*Value{
		"Days": NewArray(NewString("dim.")),
	}), root, nil)
	frCA := NewRoot("dims", "fr_CA", NewTable(map[string]*Value{
		"Units": NewTable(map[string]*Value{
			"Width": NewString("largeur"),
		}),
	}), fr, nil)

	tests := []struct {
		name string
		path []string
		want string
	}{
		{"overridden member", []string{"Units", "Width"}, "largeur"},
		{"member only in root", []string{"Units", "Height"}, "root height"},
		{"top-level key", []string{"Height"}, "top-level height"},
		{"array element from parent", []string{"Days", "0"}, "dim."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := frCA.GetPath(tt.path...)
			if got := mustString(t, n, err); got != tt.want {
				t.Errorf("GetPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}

	if _, err := frCA.GetPath("Units", "Depth"); !IsNotFound(err) {
		t.Errorf("GetPath(Units, Depth) error = %v, want RESOURCE_NOT_FOUND", err)
	}
	if _, err := frCA.GetPath("Days", "3"); !IsIndexOutOfRange(err) {
		t.Errorf("GetPath(Days, 3) error = %v, want INDEX_OUT_OF_RANGE", err)
	}

	units, err := frCA.Get("Units")
	if err != nil {
		t.Fatalf("Get(Units) error = %v", err)
	}
	if _, err := units.GetPath("Height"); !IsNotFound(err) {
		t.Errorf("nested GetPath(Height) error = %v, want RESOURCE_NOT_FOUND", err)
	}
	if n, err := frCA.GetPath(); err != nil || n != frCA {
		t.Errorf("GetPath() = %v, %v, want the receiver", n, err)
	}
}

func TestAliasResolver(t *testing.T) {
	root := NewRoot("alias", "", NewTable(map[string]*Value{
		"Meter": NewString("meter"),
		"Names": NewArray(NewString("zero"), NewString("one")),
	}), nil, AliasResolver{})
	fr := NewRoot("alias", "fr", NewTable(map[string]*Value{
		"Target": NewTable(map[string]*Value{"a": NewString("A")}),
		"Link":   NewAlias("Target/a"),
		"Up":     NewAlias("Meter"),
		"Second": NewAlias("Names/1"),
		"Loop1":  NewAlias("Loop2"),
		"Loop2":  NewAlias("Loop1"),
		"Broken": NewAlias("Nope"),
	}), root, AliasResolver{})

	tests := []struct {
		key  string
		want string
	}{
		{"Link", "A"},
		{"Up", "meter"},
		{"Second", "one"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			n, err := fr.Get(tt.key)
			if got := mustString(t, n, err); got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
			if k, _ := n.Key(); k != tt.key {
				t.Errorf("Key() = %q, want %q", k, tt.key)
			}
		})
	}

	if _, err := fr.Get("Loop1"); !resberror.HasCode(err, resberror.CodeAliasLoop) {
		t.Errorf("Get(Loop1) error = %v, want ALIAS_LOOP", err)
	}
	if _, err := fr.Get("Broken"); !IsNotFound(err) {
		t.Errorf("Get(Broken) error = %v, want RESOURCE_NOT_FOUND", err)
	}

	plain := NewRoot("alias", "", NewTable(map[string]*Value{"Link": NewAlias("Target/a")}), nil, nil)
	n, err := plain.Get("Link")
	if got := mustString(t, n, err); got != "Target/a" {
		t.Errorf("plain Get(Link) = %q, want raw alias path", got)
	}
}

func TestChainAndFullName(t *testing.T) {
	frCA, _, _ := newChain(t)

	if got, want := frCA.Chain(), []string{"fr_CA", "fr", ""}; !reflect.DeepEqual(got, want) {
		t.Errorf("Chain() = %v, want %v", got, want)
	}

	tests := []struct {
		base, locale, want string
	}{
		{"units", "fr", "units/fr"},
		{"units", "", "units"},
		{"com.example.Names", "fr_CA", "com.example.Names_fr_CA"},
	}
	for _, tt := range tests {
		if got := FullName(tt.base, tt.locale); got != tt.want {
			t.Errorf("FullName(%q, %q) = %q, want %q", tt.base, tt.locale, got, tt.want)
		}
	}
}
