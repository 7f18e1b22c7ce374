// Package modpath decides where a downloaded archive is written. Symlinks in
// the mod folder are followed the way the OS would follow them on write, and
// a destination that ends up outside the folder is refused.
package modpath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

type OutsideFolderError struct {
	Path         string
	ResolvedPath string
	Folder       string
}

func (err OutsideFolderError) Error() string {
	return fmt.Sprintf("%s resolves to %s, outside the mod folder %s", err.Path, err.ResolvedPath, err.Folder)
}

type pathResolver struct {
	evalSymlinks func(string) (string, error)
	abs          func(string) (string, error)
}

var osResolver = pathResolver{evalSymlinks: filepath.EvalSymlinks, abs: filepath.Abs}

// Archive returns the path fileName should be written to inside folder.
// Filesystems without symlink support get the plain join.
func Archive(fs afero.Fs, folder string, fileName string) (string, error) {
	return osResolver.archive(fs, folder, fileName)
}

func (r pathResolver) archive(fs afero.Fs, folder string, fileName string) (string, error) {
	destination := filepath.Join(folder, fileName)

	linkReader, ok := fs.(afero.LinkReader)
	if !ok {
		return destination, nil
	}
	lstater, ok := fs.(afero.Lstater)
	if !ok {
		return destination, nil
	}

	root, err := r.canonical(folder)
	if err != nil {
		return "", err
	}

	info, _, err := lstater.LstatIfPossible(destination)
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}

	resolved := ""
	if err == nil && info.Mode()&os.ModeSymlink != 0 {
		target, err := linkReader.ReadlinkIfPossible(destination)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(destination), target)
		}
		resolved, err = r.canonicalFile(target)
		if err != nil {
			return "", err
		}
	} else {
		resolved, err = r.canonicalFile(destination)
		if err != nil {
			return "", err
		}
	}

	if !within(root, resolved) {
		return "", OutsideFolderError{Path: destination, ResolvedPath: resolved, Folder: root}
	}
	return resolved, nil
}

func (r pathResolver) canonical(path string) (string, error) {
	resolved, err := r.evalSymlinks(path)
	if err != nil {
		return "", err
	}
	return r.abs(resolved)
}

// canonicalFile resolves the directory of path, which may not exist yet
// itself.
func (r pathResolver) canonicalFile(path string) (string, error) {
	dir, err := r.canonical(filepath.Dir(path))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(path)), nil
}

func within(root string, candidate string) bool {
	rel, err := filepath.Rel(root, candidate)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}
