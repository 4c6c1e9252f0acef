// Package filestore is the content-addressed file store collaborator:
// Store(bytes) -> fileId, URLOf(fileId) -> public URL. Files land in a
// local directory that the HTTP server maps under /static/files.
package filestore

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"openbook_server/pkg/errorx"
)

// Store is the collaborator surface the services depend on.
type Store interface {
	Store(data []byte) (string, error)
	URLOf(fileId string) string
}

// DiskStore writes content-addressed files to a directory. The file id
// is the SHA-256 of the content, so duplicate uploads collapse to one
// file and ids are safe to embed in URLs.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errorx.Wrapf(err, errorx.CodeServerBusy, "create file store dir %s", dir)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Store(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	fileId := hex.EncodeToString(sum[:])
	path := filepath.Join(s.dir, fileId)
	if _, err := os.Stat(path); err == nil {
		return fileId, nil // already stored, content-addressed
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errorx.Wrapf(err, errorx.CodeServerBusy, "write file %s", fileId)
	}
	return fileId, nil
}

func (s *DiskStore) URLOf(fileId string) string {
	if fileId == "" {
		return ""
	}
	return "/static/files/" + fileId
}
