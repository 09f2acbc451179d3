package bundle

import (
	resberror "github.com/msto63/resb/foundation/core/error"
	"github.com/msto63/resb/pkg/resource"
)

// IsMissing reports whether err means a backend has no data for the request
func IsMissing(err error) bool {
	return resberror.HasCode(err, resberror.CodeResourceMissing)
}

func errMissing(kind Kind, baseName, localeID string) error {
	return resberror.Newf("%s backend has no bundle %s", kind, resource.FullName(baseName, localeID)).
		WithCode(resberror.CodeResourceMissing).
		WithOperation("bundle.Load").
		WithDetail("backend", kind.String())
}

func errNotFound(baseName, localeID string) error {
	return resberror.Newf("can't find bundle for base name %s, locale %s", baseName, localeID).
		WithCode(resberror.CodeResourceNotFound).
		WithOperation("bundle.Instantiate").
		WithDetail("base_name", baseName).
		WithDetail("locale", localeID)
}
