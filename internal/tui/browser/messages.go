package browser

import (
	"github.com/msto63/resb/pkg/resource"
)

// bundleLoadedMsg is sent when a bundle root has been opened
type bundleLoadedMsg struct {
	root *resource.Node
	err  error
}
