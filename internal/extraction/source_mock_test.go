package extraction_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"furnicost/internal/extraction"
	"furnicost/internal/extraction/mocks"
)

func TestExtractor_PDFThroughTextSource(t *testing.T) {
	tests := []struct {
		name      string
		pages     []string
		sourceErr error
		wantArea  float64
		wantDiag  string
		wantAnns  int
	}{
		{
			name:     "labels across pages",
			pages:    []string{"Kitchen 2.5 m2", "Hall 1.25m²\nStore 0.5 m2"},
			wantArea: 4.25,
			wantAnns: 3,
		},
		{
			name:     "no labels",
			pages:    []string{"scale 1:50", ""},
			wantArea: 0,
		},
		{
			name:      "source failure",
			sourceErr: errors.New("xref offset out of range"),
			wantDiag:  "unreadable pdf document: xref offset out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := new(mocks.MockTextSource)
			data := []byte("%PDF-1.4 stub")
			src.On("PageTexts", mock.Anything).Return(tt.pages, tt.sourceErr).Once()

			x := extraction.NewExtractor(src, t.TempDir())
			res := x.Extract(data, "PDF")

			assert.True(t, res.Supported)
			assert.Equal(t, extraction.FormatPDF, res.Format)
			assert.InDelta(t, tt.wantArea, res.AreaM2, 1e-9)
			assert.Equal(t, tt.wantDiag, res.Diagnostic)
			assert.Len(t, res.Annotations, tt.wantAnns)
			src.AssertExpectations(t)
		})
	}
}

func TestExtractor_UnsupportedSkipsSource(t *testing.T) {
	src := new(mocks.MockTextSource)

	res := extraction.NewExtractor(src, "").Extract([]byte("GIF89a"), "gif")

	assert.False(t, res.Supported)
	assert.Zero(t, res.AreaM2)
	assert.Empty(t, res.Diagnostic)
	src.AssertNotCalled(t, "PageTexts", mock.Anything)
}

func TestTextAreaScanner_ErrorKind(t *testing.T) {
	src := new(mocks.MockTextSource)
	src.On("PageTexts", mock.Anything).Return(nil, errors.New("not a PDF")).Once()

	_, err := extraction.NewTextAreaScanner(src).Scan([]byte("plain"))
	require.Error(t, err)
	assert.ErrorIs(t, err, extraction.ErrUnreadableDocument)

	var xe *extraction.Error
	require.True(t, errors.As(err, &xe))
	assert.Equal(t, extraction.FormatPDF, xe.Format)
}
