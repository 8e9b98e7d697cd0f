package mocks

import (
	"github.com/stretchr/testify/mock"

	"furnicost/internal/extraction"
)

// MockExtractor stands in for *extraction.Extractor.
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(data []byte, ext string) extraction.Result {
	args := m.Called(data, ext)
	return args.Get(0).(extraction.Result)
}

// MockTextSource returns canned page texts.
type MockTextSource struct {
	mock.Mock
}

func (m *MockTextSource) PageTexts(data []byte) ([]string, error) {
	args := m.Called(data)
	pages, _ := args.Get(0).([]string)
	return pages, args.Error(1)
}
