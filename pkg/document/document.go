package document

import (
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
)

// Document is the editable invocation file. Replace is expected to result in
// a change notification carrying the new text.
type Document interface {
	Path() string
	Text() (string, error)
	Replace(text string) error
	Save() error
}

// File is a Document stored directly on a file system. Every Replace is
// written through, so Save only has to make sure the file exists.
type File struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

func NewFile(fs afero.Fs, path string) *File {
	return &File{fs: fs, path: path}
}

func (f *File) Path() string { return f.path }

// Text returns the file contents. A missing file reads as empty.
func (f *File) Text() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, "reading %s", f.path)
	}
	return string(data), nil
}

// Replace overwrites the whole document.
func (f *File) Replace(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := afero.WriteFile(f.fs, f.path, []byte(text), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", f.path)
	}
	return nil
}

// Save creates the file if it does not exist yet.
func (f *File) Save() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	exists, err := afero.Exists(f.fs, f.path)
	if err != nil {
		return errors.Wrapf(err, "checking %s", f.path)
	}
	if exists {
		return nil
	}
	if err := afero.WriteFile(f.fs, f.path, []byte("[]"), 0644); err != nil {
		return errors.Wrapf(err, "creating %s", f.path)
	}
	return nil
}
