package analyzer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChaosImg/pkg/models"
	"ChaosImg/pkg/pixels"
)

type fakeAnalyzer struct {
	BaseAnalyzer
	err   error
	calls []string
}

func newFake(name string, modes ...string) *fakeAnalyzer {
	return &fakeAnalyzer{BaseAnalyzer: NewBaseAnalyzer(name, "fake "+name, modes)}
}

func (f *fakeAnalyzer) Analyze(arr *pixels.Array, options AnalysisOptions) (*models.AnalysisResult, error) {
	f.calls = append(f.calls, options.Filename)
	if f.err != nil {
		return nil, f.err
	}
	return &models.AnalysisResult{Filename: options.Filename, Mode: arr.Mode(), Width: arr.Width}, nil
}

func TestBaseAnalyzer(t *testing.T) {
	b := NewBaseAnalyzer("n", "d", []string{pixels.ModeGray})
	assert.Equal(t, "n", b.Name())
	assert.Equal(t, "d", b.Description())
	assert.True(t, b.CanAnalyze(pixels.ModeGray))
	assert.False(t, b.CanAnalyze(pixels.ModeRGB))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	gray := newFake("gray", pixels.ModeGray)
	both := newFake("both", pixels.ModeGray, pixels.ModeRGB)
	r.Register(gray)
	r.Register(both)

	assert.Len(t, r.GetAnalyzersForMode(pixels.ModeGray), 2)
	assert.Len(t, r.GetAnalyzersForMode(pixels.ModeRGB), 1)
	assert.Empty(t, r.GetAnalyzersForMode("CMYK"))
	assert.Equal(t, []string{pixels.ModeGray, pixels.ModeRGB}, r.GetSupportedModes())
}

func TestRunAll(t *testing.T) {
	arr, err := pixels.NewSquare(4, 3)
	require.NoError(t, err)

	r := NewRegistry()
	_, err = r.RunAll(arr, AnalysisOptions{})
	assert.Error(t, err)

	r.Register(newFake("rgb", pixels.ModeRGB))
	results, err := r.RunAll(arr, AnalysisOptions{Filename: "x.png"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "x.png", results[0].Filename)

	broken := newFake("broken", pixels.ModeRGB)
	broken.err = errors.New("boom")
	r.Register(broken)
	_, err = r.RunAll(arr, AnalysisOptions{})
	assert.ErrorContains(t, err, "broken")
	assert.ErrorContains(t, err, "boom")
}

func TestCompareNames(t *testing.T) {
	orig, err := pixels.New(6, 4, 1)
	require.NoError(t, err)
	enc, err := pixels.NewSquare(4, 1)
	require.NoError(t, err)

	f := newFake("gray", pixels.ModeGray)
	report, err := Compare(f, orig, enc, "a.png", "b.png", AnalysisOptions{Filename: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png"}, f.calls)
	assert.Equal(t, 6, report.Original.Width)
	assert.Equal(t, 4, report.Encrypted.Width)

	f.err = errors.New("bad")
	_, err = Compare(f, orig, enc, "a.png", "b.png", AnalysisOptions{})
	assert.ErrorContains(t, err, "analyze original")
}
