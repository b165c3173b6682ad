package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// NewMockAccountControllerForTest creates a new mock AccountController for testing
func NewMockAccountControllerForTest(t *testing.T) *MockAccountController {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockAccountController(ctrl)
}

// NewMockTokenServiceForTest creates a new mock TokenService for testing
func NewMockTokenServiceForTest(t *testing.T) *MockTokenService {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockTokenService(ctrl)
}
