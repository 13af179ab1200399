package executors

import (
	"strings"

	"github.com/studiokit/canvasflow/pkg/storage"
)

// stringInput returns inputs[key] as a string, or "".
func stringInput(inputs map[string]any, key string) string {
	s, _ := inputs[key].(string)
	return s
}

// canvasInput returns inputs[key] as a canvas map, or nil when the value is
// absent or not structured.
func canvasInput(inputs map[string]any, key string) map[string]any {
	m, _ := inputs[key].(map[string]any)
	return m
}

// isRemoteRef reports whether an image reference is already addressable by
// external services (an http(s) URL or an inline data URL), as opposed to a
// storage-relative path.
func isRemoteRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "data:")
}

// imageRefURL converts an image reference into something external services
// can consume: remote refs pass through, storage paths become data URLs.
func imageRefURL(store storage.Store, ref string) (string, error) {
	if isRemoteRef(ref) {
		return ref, nil
	}
	return store.DataURL(strings.TrimPrefix(ref, "/storage/"))
}
