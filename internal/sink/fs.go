package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FS writes exports into a directory. An existing file is never
// overwritten; a numeric suffix is added instead.
type FS struct {
	dir string
}

// NewFS uses dir, or the current directory when dir is empty.
func NewFS(dir string) (*FS, error) {
	if dir == "" {
		dir = "."
	}
	if strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[2:])
		}
	}
	return &FS{dir: dir}, nil
}

func (s *FS) Driver() Driver { return DriverFS }

func (s *FS) Save(ctx context.Context, name, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", saveError(err, DriverFS, name)
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", saveError(fmt.Errorf("invalid file name %q", name), DriverFS, name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", saveError(fmt.Errorf("creating export directory: %w", err), DriverFS, name)
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 0; i < 1000; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
		}
		path := filepath.Join(s.dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", saveError(err, DriverFS, name)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(path)
			return "", saveError(err, DriverFS, name)
		}
		if err := f.Close(); err != nil {
			return "", saveError(err, DriverFS, name)
		}
		return path, nil
	}
	return "", saveError(fmt.Errorf("too many exports named %s", name), DriverFS, name)
}
