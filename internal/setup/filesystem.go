package setup

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem abstracts the filesystem operations the setup workflow performs.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	AbsolutePath(path string) (string, error)
}

// OSFileSystem implements FileSystem using the host operating system.
type OSFileSystem struct{}

// Stat returns file information for the provided path.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// AbsolutePath resolves the provided path to an absolute form.
func (OSFileSystem) AbsolutePath(path string) (string, error) {
	return filepath.Abs(path)
}
