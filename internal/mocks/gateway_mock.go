package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Corphon/TubeGenius/internal/models"
	"github.com/Corphon/TubeGenius/internal/views"
)

// MockGateway is a mock type for the views.Gateway type
type MockGateway struct {
	mock.Mock
}

// Analyze provides a mock function with given fields: ctx, scriptText
func (_m *MockGateway) Analyze(ctx context.Context, scriptText string) (models.ScriptAnalysis, error) {
	ret := _m.Called(ctx, scriptText)

	var r0 models.ScriptAnalysis
	if rf, ok := ret.Get(0).(func(context.Context, string) models.ScriptAnalysis); ok {
		r0 = rf(ctx, scriptText)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(models.ScriptAnalysis)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, scriptText)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// SuggestTopics provides a mock function with given fields: ctx, nicheOrContext
func (_m *MockGateway) SuggestTopics(ctx context.Context, nicheOrContext string) ([]models.TopicSuggestion, error) {
	ret := _m.Called(ctx, nicheOrContext)

	var r0 []models.TopicSuggestion
	if rf, ok := ret.Get(0).(func(context.Context, string) []models.TopicSuggestion); ok {
		r0 = rf(ctx, nicheOrContext)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]models.TopicSuggestion)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, nicheOrContext)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GenerateScript provides a mock function with given fields: ctx, cfg
func (_m *MockGateway) GenerateScript(ctx context.Context, cfg models.ScriptConfig) (string, error) {
	ret := _m.Called(ctx, cfg)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, models.ScriptConfig) string); ok {
		r0 = rf(ctx, cfg)
	} else {
		r0 = ret.String(0)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, models.ScriptConfig) error); ok {
		r1 = rf(ctx, cfg)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockGateway creates a new instance of MockGateway. It also registers a testing interface on the mock.
func NewMockGateway(t interface {
	mock.TestingT
	Helper()
}) *MockGateway {
	m := &MockGateway{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ views.Gateway = (*MockGateway)(nil)
