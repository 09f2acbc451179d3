// Package pack converts text bundles into the binary bundle format.
package pack

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	resberror "github.com/msto63/resb/foundation/core/error"
	"github.com/msto63/resb/foundation/core/log"
	"github.com/msto63/resb/internal/binres"
	"github.com/msto63/resb/internal/legacy"
	"github.com/msto63/resb/internal/locale"
	"github.com/msto63/resb/internal/source"
	"github.com/msto63/resb/pkg/bundle"
	"github.com/msto63/resb/pkg/resource"
)

// ParentKey is an optional top-level string in a text bundle naming the
// parent locale. It is moved into the binary header.
const ParentKey = "%%Parent"

// Options control packing
type Options struct {
	// Compress writes .res.xz files
	Compress bool
	Logger   *log.Logger
}

// Result describes one packed bundle
type Result struct {
	Source   string
	Target   string
	BaseName string
	Locale   string
}

// ParseName splits a slash-separated source name into base name and locale.
// Lower-case file names use the directory layout (units/fr_CA.toml is base
// "units", locale fr_CA); capitalized ones use the class layout
// (com/example/Names_fr.toml is base "com.example.Names", locale fr).
func ParseName(name string) (baseName, localeID string, ok bool) {
	ext := path.Ext(name)
	if !isLegacyExt(ext) {
		return "", "", false
	}
	dir, file := path.Split(strings.TrimSuffix(name, ext))
	dir = strings.TrimSuffix(dir, "/")
	if file == "" {
		return "", "", false
	}

	first, _ := utf8.DecodeRuneInString(file)
	if unicode.IsUpper(first) {
		class, loc, _ := strings.Cut(file, "_")
		base := class
		if dir != "" {
			base = strings.ReplaceAll(dir, "/", ".") + "." + class
		}
		return base, locale.Canonicalize(loc), true
	}

	if dir == "" {
		return "", "", false
	}
	return dir, locale.Canonicalize(file), true
}

func isLegacyExt(ext string) bool {
	for _, e := range legacy.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// Target returns the name of the binary bundle packed from source name
func Target(name string, compress bool) (string, bool) {
	baseName, localeID, ok := ParseName(name)
	if !ok {
		return "", false
	}
	if localeID == "" {
		localeID = locale.RootFor(baseName)
	}
	target := bundle.FileName(baseName, localeID, binres.Ext)
	if compress {
		target += source.XZSuffix
	}
	return target, true
}

// File packs the text bundle srcDir/name into outDir
func File(srcDir, outDir, name string, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}

	baseName, localeID, ok := ParseName(name)
	if !ok {
		return Result{}, resberror.Newf("not a bundle source file: %s", name).
			WithCode(resberror.CodeInvalidInput).
			WithOperation("pack.File")
	}
	if localeID == "" {
		localeID = locale.RootFor(baseName)
	}

	data, err := source.ReadAll(source.NewDir(srcDir), name)
	if err != nil {
		return Result{}, resberror.Wrap(err, "failed to read "+name)
	}
	root, err := legacy.Decode(data, path.Ext(name))
	if err != nil {
		return Result{}, resberror.Wrap(err, "failed to decode "+name).WithDetail("file", name)
	}

	f := &binres.File{Locale: localeID, Root: root}
	if p, ok := root.Member(ParentKey); ok && p.Kind() == resource.KindString {
		f.Parent, f.HasParent = locale.Canonicalize(p.Text()), true
		f.Root = root.Without(ParentKey)
	}

	encoded, err := binres.Marshal(f)
	if err != nil {
		return Result{}, err
	}

	target, _ := Target(name, opts.Compress)
	if opts.Compress {
		var buf bytes.Buffer
		if err := source.Compress(&buf, encoded); err != nil {
			return Result{}, resberror.Wrap(err, "failed to compress "+target).WithCode(resberror.CodeInternal)
		}
		encoded = buf.Bytes()
	}

	out := filepath.Join(outDir, filepath.FromSlash(target))
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return Result{}, resberror.Wrap(err, "failed to create directory").WithCode(resberror.CodeInternal)
	}
	if err := os.WriteFile(out, encoded, 0644); err != nil {
		return Result{}, resberror.Wrap(err, "failed to write "+target).WithCode(resberror.CodeInternal)
	}

	logger.Debug("bundle packed", log.Fields{
		"source": name,
		"target": target,
		"keys":   f.Root.Len(),
	})
	return Result{Source: name, Target: target, BaseName: baseName, Locale: localeID}, nil
}

// Dir packs every text bundle below srcDir into outDir. Files that are not
// bundle sources are skipped; the first failure stops the walk.
func Dir(srcDir, outDir string, opts Options) ([]Result, error) {
	var results []Result
	err := source.NewDir(srcDir).Walk(func(name string) error {
		if _, _, ok := ParseName(name); !ok {
			return nil
		}
		r, err := File(srcDir, outDir, name, opts)
		if err != nil {
			return err
		}
		results = append(results, r)
		return nil
	})
	return results, err
}
