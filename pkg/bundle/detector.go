package bundle

import (
	"sync"

	"github.com/msto63/resb/foundation/core/log"
	"github.com/msto63/resb/internal/locale"
)

// Detector remembers which backend serves each base name. Reads are lock-free;
// concurrent probes of the same base name may both run and the last store wins.
type Detector struct {
	binary Backend
	legacy Backend
	logger *log.Logger

	kinds sync.Map // base name -> Kind
}

// NewDetector creates a detector probing binary first, then legacy
func NewDetector(binary, legacy Backend, logger *log.Logger) *Detector {
	if logger == nil {
		logger = log.Discard()
	}
	return &Detector{binary: binary, legacy: legacy, logger: logger}
}

// Resolve returns the backend kind for baseName, probing on first use. It never
// fails; probe errors are logged and reported as KindMissing.
func (d *Detector) Resolve(baseName string) Kind {
	if k, ok := d.kinds.Load(baseName); ok {
		return k.(Kind)
	}
	k := d.probe(baseName)
	d.kinds.Store(baseName, k)
	return k
}

// Record stores the backend kind that served baseName
func (d *Detector) Record(baseName string, k Kind) {
	d.kinds.Store(baseName, k)
}

// Forget drops every remembered kind
func (d *Detector) Forget() {
	d.kinds.Range(func(key, _ any) bool {
		d.kinds.Delete(key)
		return true
	})
}

func (d *Detector) probe(baseName string) Kind {
	// "root", or "" for dotted family names
	probeLocale := locale.RootFor(baseName)

	for _, b := range []Backend{d.binary, d.legacy} {
		_, err := b.Load(baseName, probeLocale, false)
		if err == nil {
			d.logger.Debug("backend detected", log.Fields{
				"base_name": baseName,
				"backend":   b.Kind().String(),
			})
			return b.Kind()
		}
		if !IsMissing(err) {
			d.logger.WarnWithErr("backend probe failed", err, log.Fields{
				"base_name": baseName,
				"backend":   b.Kind().String(),
			})
			return KindMissing
		}
	}

	d.logger.Debug("no backend has data", log.String("base_name", baseName))
	return KindMissing
}
