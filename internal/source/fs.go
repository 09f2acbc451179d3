package source

import (
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	resberror "github.com/msto63/resb/foundation/core/error"
)

// XZSuffix marks compressed bundle files
const XZSuffix = ".xz"

// Dir reads bundles from a directory tree. A missing name is retried with the
// .xz suffix and decompressed transparently.
type Dir struct {
	root string
}

// NewDir creates a directory source rooted at dir
func NewDir(dir string) *Dir {
	return &Dir{root: dir}
}

// Root returns the directory the source reads from
func (d *Dir) Root() string {
	return d.root
}

// Open opens name below the root directory
func (d *Dir) Open(name string) (io.ReadCloser, error) {
	clean := path.Clean("/" + name)[1:]
	if clean == "" || strings.HasPrefix(clean, "../") {
		return nil, resberror.Newf("invalid resource name %q", name).WithCode(resberror.CodeInvalidInput)
	}
	p := filepath.Join(d.root, filepath.FromSlash(clean))

	f, err := os.Open(p)
	if err == nil {
		return f, nil
	}
	if !os.IsNotExist(err) {
		return nil, resberror.Wrap(err, "open "+name).WithCode(resberror.CodeInternal)
	}

	f, err = os.Open(p + XZSuffix)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(name)
		}
		return nil, resberror.Wrap(err, "open "+name+XZSuffix).WithCode(resberror.CodeInternal)
	}

	r, err := xz.NewReader(f)
	if err != nil {
		f.Close()
		return nil, resberror.Wrap(err, "xz header of "+name).WithCode(resberror.CodeDataCorruption)
	}
	return &xzReadCloser{r: r, f: f}, nil
}

// Walk calls fn for every regular file below the root with its slash
// separated name, the .xz suffix removed
func (d *Dir) Walk(fn func(name string) error) error {
	return filepath.WalkDir(d.root, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		return fn(strings.TrimSuffix(filepath.ToSlash(rel), XZSuffix))
	})
}

type xzReadCloser struct {
	r io.Reader
	f *os.File
}

func (x *xzReadCloser) Read(p []byte) (int, error) { return x.r.Read(p) }

func (x *xzReadCloser) Close() error { return x.f.Close() }

// Compress writes data to w in xz format
func Compress(w io.Writer, data []byte) error {
	xw, err := xz.NewWriter(w)
	if err != nil {
		return err
	}
	if _, err := xw.Write(data); err != nil {
		return err
	}
	return xw.Close()
}
