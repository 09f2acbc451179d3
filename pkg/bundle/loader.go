package bundle

import (
	"bytes"
	"path"
	"sync"

	resberror "github.com/msto63/resb/foundation/core/error"
	"github.com/msto63/resb/foundation/core/log"
	"github.com/msto63/resb/internal/binres"
	"github.com/msto63/resb/internal/legacy"
	"github.com/msto63/resb/internal/locale"
	"github.com/msto63/resb/internal/source"
	"github.com/msto63/resb/pkg/resource"
)

// Backend loads bundle roots for one storage format. A Backend reports a
// ResourceMissing error (see IsMissing) when it has no data for the request.
type Backend interface {
	Kind() Kind
	Load(baseName, localeID string, disableFallback bool) (*resource.Node, error)
}

// decoded is one bundle file in backend independent form
type decoded struct {
	root      *resource.Value
	parent    string
	hasParent bool
}

type decodeFunc func(data []byte, ext string) (*decoded, error)

type cacheKey struct {
	baseName        string
	localeID        string
	disableFallback bool
}

// loader builds fallback chains for one backend. Loads are serialized so at
// most one root exists per cache key.
type loader struct {
	kind     Kind
	src      source.Source
	exts     []string
	decode   decodeFunc
	resolver resource.Resolver
	logger   *log.Logger

	mu    sync.Mutex
	cache map[cacheKey]*resource.Node
}

// NewBinaryBackend returns the structured binary backend reading from src.
// Aliases in binary bundles are followed up to maxAliasDepth hops.
func NewBinaryBackend(src source.Source, logger *log.Logger, maxAliasDepth int) Backend {
	return newLoader(KindBinary, src, []string{binres.Ext}, decodeBinary,
		resource.AliasResolver{MaxDepth: maxAliasDepth}, logger)
}

// NewLegacyBackend returns the legacy text bundle backend reading from src
func NewLegacyBackend(src source.Source, logger *log.Logger) Backend {
	return newLoader(KindLegacy, src, legacy.Extensions, decodeLegacy,
		resource.PlainResolver{}, logger)
}

func newLoader(kind Kind, src source.Source, exts []string, decode decodeFunc, r resource.Resolver, logger *log.Logger) *loader {
	if logger == nil {
		logger = log.Discard()
	}
	return &loader{
		kind:     kind,
		src:      src,
		exts:     exts,
		decode:   decode,
		resolver: r,
		logger:   logger.WithField("backend", kind.String()),
		cache:    make(map[cacheKey]*resource.Node),
	}
}

func decodeBinary(data []byte, _ string) (*decoded, error) {
	f, err := binres.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &decoded{root: f.Root, parent: f.Parent, hasParent: f.HasParent}, nil
}

func decodeLegacy(data []byte, ext string) (*decoded, error) {
	v, err := legacy.Decode(data, ext)
	if err != nil {
		return nil, err
	}
	return &decoded{root: v}, nil
}

func (l *loader) Kind() Kind { return l.kind }

// Load returns the root for (baseName, localeID). Without disableFallback a
// locale that has no file of its own is served by its nearest ancestor.
func (l *loader) Load(baseName, localeID string, disableFallback bool) (*resource.Node, error) {
	rootID := locale.RootFor(baseName)
	localeID = normalize(localeID, rootID)

	l.mu.Lock()
	defer l.mu.Unlock()

	if disableFallback {
		key := cacheKey{baseName, localeID, true}
		if n, ok := l.cache[key]; ok {
			return n, nil
		}
		d, err := l.read(baseName, localeID)
		if err != nil {
			return nil, err
		}
		n := resource.NewRoot(baseName, localeID, d.root, nil, l.resolver)
		l.cache[key] = n
		return n, nil
	}

	return l.nearest(baseName, localeID, rootID, make(map[string]bool))
}

// nearest loads the first locale of localeID's fallback chain that has a file
// of its own and caches the result under every locale skipped on the way
func (l *loader) nearest(baseName, localeID, rootID string, visiting map[string]bool) (*resource.Node, error) {
	var skipped []string
	var missing error
	for _, id := range locale.Chain(localeID, rootID) {
		n, err := l.loadChain(baseName, id, rootID, visiting)
		if err == nil {
			for _, s := range skipped {
				l.cache[cacheKey{baseName, s, false}] = n
			}
			return n, nil
		}
		if !IsMissing(err) {
			return nil, err
		}
		skipped = append(skipped, id)
		missing = err
	}
	return nil, missing
}

func (l *loader) loadChain(baseName, localeID, rootID string, visiting map[string]bool) (*resource.Node, error) {
	key := cacheKey{baseName, localeID, false}
	if n, ok := l.cache[key]; ok {
		return n, nil
	}
	if visiting[localeID] {
		return nil, resberror.Newf("parent cycle at locale %q in %s", localeID, baseName).
			WithCode(resberror.CodeDataCorruption)
	}
	visiting[localeID] = true

	d, err := l.read(baseName, localeID)
	if err != nil {
		return nil, err
	}

	parentID, hasParent := d.parent, d.hasParent
	if hasParent {
		parentID = normalize(parentID, rootID)
		hasParent = parentID != localeID
	} else {
		parentID, hasParent = locale.Parent(localeID, rootID)
	}

	var parent *resource.Node
	if hasParent {
		parent, err = l.nearest(baseName, parentID, rootID, visiting)
		if err != nil && !IsMissing(err) {
			return nil, err
		}
	}

	n := resource.NewRoot(baseName, localeID, d.root, parent, l.resolver)
	l.cache[key] = n
	l.logger.Debug("bundle loaded", log.Fields{
		"bundle": n.FullName(),
		"keys":   d.root.Len(),
	})
	return n, nil
}

// read fetches and decodes the bundle file, trying each extension in order
func (l *loader) read(baseName, localeID string) (*decoded, error) {
	for _, ext := range l.exts {
		name := FileName(baseName, localeID, ext)
		data, err := source.ReadAll(l.src, name)
		if source.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, resberror.Wrap(err, "failed to read "+name)
		}

		d, err := l.decode(data, path.Ext(name))
		if err != nil {
			return nil, resberror.Wrap(err, "failed to decode "+name).WithDetail("file", name)
		}
		return d, nil
	}
	return nil, errMissing(l.kind, baseName, localeID)
}

// reset drops every cached root
func (l *loader) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[cacheKey]*resource.Node)
}

func normalize(localeID, rootID string) string {
	localeID = locale.Canonicalize(localeID)
	if localeID == "" || localeID == locale.Root {
		return rootID
	}
	return localeID
}
