package hardware

import "github.com/stretchr/testify/mock"

type fileManagementMock struct {
	mock.Mock
}

func (fm *fileManagementMock) glob(pattern string) ([]string, error) {
	args := fm.Called(pattern)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (fm *fileManagementMock) readFile(path string) ([]byte, error) {
	args := fm.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (fm *fileManagementMock) loadKernelModule(name string) error {
	args := fm.Called(name)
	return args.Error(0)
}
