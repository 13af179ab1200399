// Package storage persists pipeline assets (uploaded and generated images)
// under a public storage root, scoped per tenant.
package storage

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Store reads and writes assets addressed by storage-relative paths such as
// "pipelines/<tenant>/render_ab12cd34.png".
type Store interface {
	// Put writes data and returns the relative path it was stored under.
	Put(rel string, data []byte) (string, error)
	// Read returns the contents of a stored asset.
	Read(rel string) ([]byte, error)
	// DataURL returns the asset encoded as a data: URL for embedding into
	// a canvas, or an error if the asset does not exist.
	DataURL(rel string) (string, error)
}

// DiskStore is a Store backed by a local directory.
type DiskStore struct {
	root string
}

// NewDiskStore creates a DiskStore rooted at dir.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{root: dir}
}

func (s *DiskStore) fullPath(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(rel, "/")))
}

// Put writes data under rel, creating parent directories as needed.
func (s *DiskStore) Put(rel string, data []byte) (string, error) {
	full := s.fullPath(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storage mkdir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("storage write %q: %w", rel, err)
	}
	return rel, nil
}

// Read returns the contents of rel.
func (s *DiskStore) Read(rel string) ([]byte, error) {
	data, err := os.ReadFile(s.fullPath(rel))
	if err != nil {
		return nil, fmt.Errorf("storage read %q: %w", rel, err)
	}
	return data, nil
}

// DataURL encodes the asset as a base64 data: URL. The media type is guessed
// from the file extension, defaulting to image/png.
func (s *DiskStore) DataURL(rel string) (string, error) {
	data, err := s.Read(rel)
	if err != nil {
		return "", err
	}
	mediaType := mime.TypeByExtension(path.Ext(rel))
	if mediaType == "" {
		mediaType = "image/png"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// AssetPath builds the storage-relative path for a new pipeline asset:
// pipelines/<tenant>/<prefix>_<random>.<ext>.
func AssetPath(tenantID, prefix, ext string) string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		copy(buf, []byte("static"))
	}
	return path.Join("pipelines", tenantID, prefix+"_"+hex.EncodeToString(buf)+"."+ext)
}
