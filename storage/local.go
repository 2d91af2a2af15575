package storage

import (
	"io/fs"
	"os"
	"path"

	"github.com/c2h5oh/datasize"
	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
)

// LocalStorage is a flat directory holding downloaded media files.
type LocalStorage struct {
	path string
}

func Local(path string) LocalStorage {
	return LocalStorage{path}
}

func (s LocalStorage) Path() string {
	return s.path
}

func (s LocalStorage) Delete(name string) error {
	return os.RemoveAll(path.Join(s.path, name))
}

type FileWalker func(fi fs.FileInfo, fullPath, name string) error

func (s LocalStorage) Walk(walker FileWalker) error {
	return godirwalk.Walk(s.path, &godirwalk.Options{
		Callback: func(fullPath string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				if fullPath != s.path {
					return errors.Errorf("%v is a directory while only files are expected here", fullPath)
				}
				return nil
			}
			fi, err := os.Stat(fullPath)
			if err != nil {
				return err
			}
			return walker(fi, fullPath, de.Name())
		},
	})
}

// GetSize sums up sizes of all media files in the storage directory.
func (s LocalStorage) GetSize() (int64, error) {
	var size int64
	err := s.Walk(func(fi fs.FileInfo, fullPath, name string) error {
		size += fi.Size()
		return nil
	})
	return size, err
}

func (s LocalStorage) SizeString() (string, error) {
	size, err := s.GetSize()
	if err != nil {
		return "", err
	}
	return datasize.ByteSize(size).HumanReadable(), nil
}
