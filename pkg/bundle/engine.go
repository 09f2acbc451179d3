package bundle

import (
	"github.com/msto63/resb/foundation/core/log"
	"github.com/msto63/resb/internal/locale"
	"github.com/msto63/resb/internal/source"
	"github.com/msto63/resb/pkg/resource"
)

// Config configures an Engine
type Config struct {
	// Source supplies bundle files to both backends
	Source source.Source
	// DefaultLocale is used by OpenDefault
	DefaultLocale string
	// MaxAliasDepth bounds alias chains in binary bundles
	MaxAliasDepth int
	Logger        *log.Logger

	// Binary and Legacy replace the backends built from Source
	Binary Backend
	Legacy Backend
}

// Engine instantiates bundles through the detected backend. It owns the
// backend caches and the detector; an Engine is safe for concurrent use.
type Engine struct {
	binary        Backend
	legacy        Backend
	detector      *Detector
	defaultLocale string
	logger        *log.Logger
}

// New creates an Engine
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithName("bundle")

	binary := cfg.Binary
	if binary == nil {
		binary = NewBinaryBackend(cfg.Source, logger, cfg.MaxAliasDepth)
	}
	legacyBackend := cfg.Legacy
	if legacyBackend == nil {
		legacyBackend = NewLegacyBackend(cfg.Source, logger)
	}

	defaultLocale := cfg.DefaultLocale
	if defaultLocale == "" {
		defaultLocale = locale.Root
	}

	return &Engine{
		binary:        binary,
		legacy:        legacyBackend,
		detector:      NewDetector(binary, legacyBackend, logger),
		defaultLocale: defaultLocale,
		logger:        logger,
	}
}

// Open returns the bundle root for baseName and localeID with locale fallback
func (e *Engine) Open(baseName, localeID string) (*resource.Node, error) {
	return e.Instantiate(baseName, localeID, false)
}

// OpenDirect returns exactly the bundle for localeID, without parents
func (e *Engine) OpenDirect(baseName, localeID string) (*resource.Node, error) {
	return e.Instantiate(baseName, localeID, true)
}

// OpenDefault opens baseName in the configured default locale
func (e *Engine) OpenDefault(baseName string) (*resource.Node, error) {
	return e.Open(baseName, e.defaultLocale)
}

// DefaultLocale returns the locale used by OpenDefault
func (e *Engine) DefaultLocale() string {
	return e.defaultLocale
}

// Backend returns the backend kind currently recorded for baseName
func (e *Engine) Backend(baseName string) Kind {
	return e.detector.Resolve(baseName)
}

// Instantiate loads through the detected backend. When that backend has no
// data the other one is tried once, and whichever succeeds is recorded.
func (e *Engine) Instantiate(baseName, localeID string, disableFallback bool) (*resource.Node, error) {
	timer := e.logger.StartTimer("bundle.Instantiate").
		WithField("base_name", baseName).
		WithField("locale", localeID)

	detected := e.detector.Resolve(baseName)
	first, second := e.binary, e.legacy
	if detected == KindLegacy {
		first, second = e.legacy, e.binary
	}

	n, err := first.Load(baseName, localeID, disableFallback)
	if err == nil {
		e.detector.Record(baseName, first.Kind())
		timer.Stop()
		return n, nil
	}
	if !IsMissing(err) {
		timer.StopWithError(err)
		return nil, err
	}

	n, err = second.Load(baseName, localeID, disableFallback)
	if err == nil {
		if detected != second.Kind() {
			e.logger.Info("backend switched", log.Fields{
				"base_name": baseName,
				"from":      detected.String(),
				"to":        second.Kind().String(),
			})
		}
		e.detector.Record(baseName, second.Kind())
		timer.Stop()
		return n, nil
	}
	if !IsMissing(err) {
		timer.StopWithError(err)
		return nil, err
	}

	err = errNotFound(baseName, localeID)
	timer.StopWithError(err)
	return nil, err
}

// Reset drops all cached bundles and detection results. Nodes obtained earlier
// stay valid.
func (e *Engine) Reset() {
	for _, b := range []Backend{e.binary, e.legacy} {
		if r, ok := b.(interface{ reset() }); ok {
			r.reset()
		}
	}
	e.detector.Forget()
	e.logger.Debug("bundle caches reset")
}
