package snapshot

import (
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// defaultFileMode is the mode of a newly created snapshot file.
const defaultFileMode os.FileMode = 0644

// replaceFile runs write against a temporary file in path's directory and
// renames it over path once write succeeds. On failure the temporary file is
// removed and path is left as it was. The result keeps the mode of the file
// it replaces, or defaultFileMode for a new file.
func replaceFile(path string, write func(tmp string) error) (err error) {
	mode := defaultFileMode
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()
	if err := f.Close(); err != nil {
		return err
	}

	if err := write(tmp); err != nil {
		return err
	}
	// CreateTemp makes the file 0600
	if err := os.Chmod(tmp, mode); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// writeFileAtomic replaces path with data.
func writeFileAtomic(path string, data []byte) error {
	return replaceFile(path, func(tmp string) (err error) {
		f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_TRUNC, 0)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, f.Close())
		}()

		if _, err := f.Write(data); err != nil {
			return err
		}
		return f.Sync()
	})
}
