// Package sourcefile holds the in-memory buffer of one file being rewritten.
package sourcefile

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sergi/go-diff/diffmatchpatch"
	"gitlab.com/tozd/go/errors"
)

// File is a loaded file and its working buffer
type File struct {
	Path    string
	Content []byte

	original []byte
	mode     fs.FileMode

	// target is Path with symlinks resolved; writes go there so links survive
	target string
}

// Load reads the whole file at path. A missing file yields an error matching fs.ErrNotExist.
func Load(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, errors.Errorf("%s is a directory", path)
	}

	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, errors.Errorf("resolving %s: %w", path, err)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}

	return &File{
		Path:     path,
		Content:  content,
		original: content,
		mode:     info.Mode().Perm(),
		target:   target,
	}, nil
}

// Original returns the content as it was loaded
func (f *File) Original() []byte {
	return f.original
}

// Changed reports whether the buffer differs from the loaded content
func (f *File) Changed() bool {
	return !bytes.Equal(f.original, f.Content)
}

// Save writes the buffer back if it changed and reports whether it did.
// The write goes to a temp file next to the resolved file which is then
// renamed over it, so readers see either the old or the new content and a
// symlinked Path keeps pointing at the rewritten file.
func (f *File) Save() (bool, error) {
	if !f.Changed() {
		return false, nil
	}

	if err := writeFileAtomic(f.target, f.Content, f.mode); err != nil {
		return false, err
	}

	f.original = f.Content
	return true, nil
}

// Diff returns a textual patch from the loaded content to the buffer, empty when unchanged
func (f *File) Diff() string {
	if !f.Changed() {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(f.original), string(f.Content), false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	patches := dmp.PatchMake(string(f.original), diffs)
	return dmp.PatchToText(patches)
}

func writeFileAtomic(path string, content []byte, mode fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}

	// CreateTemp uses 0600
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("setting file mode: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
