package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Corphon/TubeGenius/internal/llm"
)

// MockProvider is a mock type for the llm.Provider type
type MockProvider struct {
	mock.Mock
}

// Initialize provides a mock function with given fields: config
func (_m *MockProvider) Initialize(config map[string]string) error {
	ret := _m.Called(config)

	var r0 error
	if rf, ok := ret.Get(0).(func(map[string]string) error); ok {
		r0 = rf(config)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// GetName provides a mock function with given fields:
func (_m *MockProvider) GetName() string {
	ret := _m.Called()

	var r0 string
	if rf, ok := ret.Get(0).(func() string); ok {
		r0 = rf()
	} else {
		r0 = ret.String(0)
	}

	return r0
}

// GetSupportedModels provides a mock function with given fields:
func (_m *MockProvider) GetSupportedModels() []string {
	ret := _m.Called()

	var r0 []string
	if rf, ok := ret.Get(0).(func() []string); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]string)
		}
	}

	return r0
}

// CompleteText provides a mock function with given fields: ctx, req
func (_m *MockProvider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	ret := _m.Called(ctx, req)

	var r0 *llm.CompletionResponse
	if rf, ok := ret.Get(0).(func(context.Context, llm.CompletionRequest) *llm.CompletionResponse); ok {
		r0 = rf(ctx, req)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*llm.CompletionResponse)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, llm.CompletionRequest) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockProvider creates a new instance of MockProvider. It also registers a testing interface on the mock.
func NewMockProvider(t interface {
	mock.TestingT
	Helper()
}) *MockProvider {
	m := &MockProvider{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ llm.Provider = (*MockProvider)(nil)
