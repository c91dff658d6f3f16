package libs

import (
	"github.com/tendermint/tendermint/libs/tempfile"
	"io"
	"os"
)

const DefaultSFilePerm = 0600

// FileIO reads a whole file or replaces it atomically.
type FileIO struct {
	path string
	perm os.FileMode
}

var _ io.Writer = &FileIO{}

func NewFileWriter(path string) *FileIO {
	return &FileIO{
		path: path,
		perm: DefaultSFilePerm,
	}
}

func NewFileReader(path string) *FileIO {
	return &FileIO{
		path: path,
		perm: DefaultSFilePerm,
	}
}

func (fw *FileIO) Write(d []byte) (int, error) {
	if err := tempfile.WriteFileAtomic(fw.path, d, fw.perm); err != nil {
		return 0, err
	}
	return len(d), nil
}

func (fw *FileIO) ReadAll() ([]byte, error) {
	return os.ReadFile(fw.path)
}
