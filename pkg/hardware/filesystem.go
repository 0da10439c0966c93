package hardware

import (
	"os"
	"os/exec"
	"path/filepath"
)

type filesystemManagement interface {
	glob(pattern string) ([]string, error)
	readFile(path string) ([]byte, error)
	loadKernelModule(name string) error
}

type fileManagement struct{}

func (fs *fileManagement) glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

func (fs *fileManagement) readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (fs *fileManagement) loadKernelModule(name string) error {
	return exec.Command("modprobe", name).Run()
}
