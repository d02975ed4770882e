package mocks

import (
	"github.com/brettbedarf/imgnav"
	"github.com/stretchr/testify/mock"
)

// MockNavigator implements imgnav.Navigator for testing across packages
type MockNavigator struct {
	mock.Mock
}

func (m *MockNavigator) ChangeVolume(index int) (int, error) {
	args := m.Called(index)
	return args.Int(0), args.Error(1)
}

func (m *MockNavigator) ScanDirectory() (*imgnav.Snapshot, error) {
	args := m.Called()

	// Handle function return types (for tests that build the snapshot lazily)
	if fn, ok := args.Get(0).(func() *imgnav.Snapshot); ok {
		return fn(), args.Error(1)
	}

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*imgnav.Snapshot), args.Error(1)
}

func (m *MockNavigator) ChangeDirectory(index int) error {
	args := m.Called(index)
	return args.Error(0)
}

func (m *MockNavigator) CountSubdirectories() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockNavigator) Boot() imgnav.BootPayload {
	args := m.Called()
	return args.Get(0).(imgnav.BootPayload)
}

func (m *MockNavigator) Location() imgnav.Location {
	args := m.Called()
	return args.Get(0).(imgnav.Location)
}

func (m *MockNavigator) Resolve(index int) (*imgnav.Resource, error) {
	args := m.Called(index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*imgnav.Resource), args.Error(1)
}

var _ imgnav.Navigator = (*MockNavigator)(nil)
