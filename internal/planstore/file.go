package planstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileStorage keeps every key in its own <key>.json file under dir.
type FileStorage struct {
	fs  afero.Fs
	dir string
}

// NewFileStorage uses fs rooted at dir. Use afero.NewOsFs() for real data,
// afero.NewMemMapFs() for tests.
func NewFileStorage(fs afero.Fs, dir string) *FileStorage {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileStorage{fs: fs, dir: dir}
}

func (f *FileStorage) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileStorage) Get(key string) ([]byte, bool, error) {
	data, err := afero.ReadFile(f.fs, f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

// Set writes through a temporary file so a crash never leaves half a plan.
func (f *FileStorage) Set(key string, value []byte) error {
	if err := f.fs.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp := f.path(key) + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, value, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.fs.Rename(tmp, f.path(key)); err != nil {
		_ = f.fs.Remove(tmp)
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}
