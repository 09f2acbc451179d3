package source

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMemory(t *testing.T) {
	m := NewMemory()
	m.Put("units/fr.res", []byte("fr"))

	data, err := ReadAll(m, "units/fr.res")
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "fr" {
		t.Errorf("ReadAll() = %q, want fr", data)
	}

	if _, err := m.Open("units/de.res"); !IsNotFound(err) {
		t.Errorf("Open(missing) error = %v, want not found", err)
	}
	if got := m.Opens("units/de.res"); got != 1 {
		t.Errorf("Opens(missing) = %d, want 1", got)
	}
	if got := m.Names(); !reflect.DeepEqual(got, []string{"units/fr.res"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "units"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "units", "root.toml"), []byte("plain"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Compress(&buf, []byte("compressed")); err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "units", "fr.res.xz"), buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	d := NewDir(dir)

	tests := []struct {
		name string
		want string
	}{
		{"units/root.toml", "plain"},
		{"units/fr.res", "compressed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadAll(d, tt.name)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("ReadAll() = %q, want %q", data, tt.want)
			}
		})
	}

	if _, err := d.Open("units/de.res"); !IsNotFound(err) {
		t.Errorf("Open(missing) error = %v, want not found", err)
	}

	var names []string
	if err := d.Walk(func(name string) error { names = append(names, name); return nil }); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if want := []string{"units/fr.res", "units/root.toml"}; !reflect.DeepEqual(names, want) {
		t.Errorf("Walk() names = %v, want %v", names, want)
	}
}

func TestSQLite(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "bundles.db"))
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Put(ctx, "units/root.res", []byte("v1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Put(ctx, "units/root.res", []byte("v2")); err != nil {
		t.Fatalf("Put() replace error = %v", err)
	}

	data, err := ReadAll(s, "units/root.res")
	if err != nil || string(data) != "v2" {
		t.Errorf("ReadAll() = %q, %v, want v2", data, err)
	}
	if _, err := s.Open("units/fr.res"); !IsNotFound(err) {
		t.Errorf("Open(missing) error = %v, want not found", err)
	}

	names, err := s.Names(ctx)
	if err != nil || !reflect.DeepEqual(names, []string{"units/root.res"}) {
		t.Errorf("Names() = %v, %v", names, err)
	}
}

func TestMulti(t *testing.T) {
	a, b := NewMemory(), NewMemory()
	a.Put("x", []byte("a"))
	b.Put("x", []byte("b"))
	b.Put("y", []byte("b"))

	m := Multi{a, b}
	if data, _ := ReadAll(m, "x"); string(data) != "a" {
		t.Errorf("ReadAll(x) = %q, want a", data)
	}
	if data, _ := ReadAll(m, "y"); string(data) != "b" {
		t.Errorf("ReadAll(y) = %q, want b", data)
	}
	if _, err := m.Open("z"); !IsNotFound(err) {
		t.Errorf("Open(z) error = %v, want not found", err)
	}
}
