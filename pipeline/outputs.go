package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// outputs records the files and directories created by a build, so that a
// failed build can remove them again. Files and directories which existed
// before the build are never recorded.
type outputs struct {
	mu    sync.Mutex
	files []string
	dirs  []string
}

// ensureDir creates dir and its missing parents. An existing directory is
// not an error.
func (o *outputs) ensureDir(dir string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mkdir(dir)
}

func (o *outputs) mkdir(dir string) error {
	fi, err := os.Stat(dir)
	if err == nil {
		if !fi.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", dir)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if parent := filepath.Dir(dir); parent != dir {
		if err := o.mkdir(parent); err != nil {
			return err
		}
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return err
	}
	o.dirs = append(o.dirs, dir)
	return nil
}

// write writes a file, creating its directory if necessary.
func (o *outputs) write(path string, data []byte) error {
	if err := o.ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		o.mu.Lock()
		o.files = append(o.files, path)
		o.mu.Unlock()
	}
	return os.WriteFile(path, data, 0o644)
}

// rollback removes every recorded file, then every recorded directory which
// is empty.
func (o *outputs) rollback() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.files) - 1; i >= 0; i-- {
		if err := os.Remove(o.files[i]); err != nil && !errors.Is(err, fs.ErrNotExist) {
			tracer().Errorf("cannot remove %s: %v", o.files[i], err)
		}
	}
	for i := len(o.dirs) - 1; i >= 0; i-- {
		_ = os.Remove(o.dirs[i])
	}
	tracer().Infof("removed %d files written by failed build", len(o.files))
	o.files, o.dirs = nil, nil
}
