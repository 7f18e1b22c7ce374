package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
)

const fileMode os.FileMode = 0o644

// writeAtomic replaces path with data so readers see either the old or the
// new content. When the filesystem refuses to rename over an existing file
// the old file is parked as a backup and restored if the swap fails.
func writeAtomic(fs afero.Fs, path string, data []byte) error {
	temp, err := freeSibling(fs, path, ".tmp")
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fs, temp, data, fileMode); err != nil {
		return errors.Join(err, discard(fs, temp))
	}

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return errors.Join(err, discard(fs, temp))
	}

	renameErr := fs.Rename(temp, path)
	if renameErr == nil {
		return nil
	}
	if !exists {
		return errors.Join(renameErr, discard(fs, temp))
	}

	backup, err := freeSibling(fs, path, ".bak")
	if err != nil {
		return errors.Join(err, discard(fs, temp))
	}
	if err := fs.Rename(path, backup); err != nil {
		return errors.Join(err, discard(fs, temp))
	}
	if err := fs.Rename(temp, path); err != nil {
		err = errors.Join(err, discard(fs, temp))
		if restoreErr := fs.Rename(backup, path); restoreErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to restore backup %s: %w", backup, restoreErr))
		}
		return err
	}
	return discard(fs, backup)
}

// freeSibling finds a name next to path that is not taken yet.
func freeSibling(fs afero.Fs, path string, suffix string) (string, error) {
	base := path + ".furr" + suffix
	candidate := base
	for i := 1; i <= 100; i++ {
		exists, err := afero.Exists(fs, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s.%d", base, i)
	}
	return "", fmt.Errorf("no free file name next to %s", path)
}

func discard(fs afero.Fs, path string) error {
	err := fs.Remove(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to remove %s: %w", path, err)
}
