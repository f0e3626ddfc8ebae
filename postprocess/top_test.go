package postprocess

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rknn-go/go-rknnapi/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indices(probs []Probability) []int32 {

	out := make([]int32, len(probs))

	for i, p := range probs {
		out[i] = p.LabelIndex
	}

	return out
}

func TestGetTop5(t *testing.T) {

	top := GetTop5([]float32{0.1, 0.9, 0.3, 0.7, 0.2, 0.05})

	require.Len(t, top, 5)
	assert.Equal(t, []int32{1, 3, 2, 4, 0}, indices(top))

	want := []float32{0.9, 0.7, 0.3, 0.2, 0.1}

	for i, p := range top {
		assert.Equal(t, want[i], p.Probability)
	}
}

func TestTopK(t *testing.T) {

	tests := []struct {
		name   string
		scores []float32
		k      int
		want   []int32
	}{
		{"ties keep index order", []float32{0.5, 0.2, 0.5, 0.5}, 3, []int32{0, 2, 3}},
		{"fewer scores than k", []float32{0.2, 0.8}, 5, []int32{1, 0}},
		{"negative scores", []float32{-3, -1, -2}, 2, []int32{1, 2}},
		{"zero k", []float32{1, 2}, 0, nil},
		{"empty scores", nil, 5, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TopK(tc.scores, tc.k)

			if tc.want == nil {
				assert.Empty(t, got)
				return
			}

			assert.Equal(t, tc.want, indices(got))
		})
	}
}

func TestTopKDoesNotModifyScores(t *testing.T) {

	scores := []float32{0.1, 0.9, 0.3}
	TopK(scores, 2)

	assert.Equal(t, []float32{0.1, 0.9, 0.3}, scores)
}

func TestProbabilityLabel(t *testing.T) {

	labels := []string{"cat", "dog"}

	assert.Equal(t, "dog", Probability{LabelIndex: 1}.Label(labels))
	assert.Equal(t, "", Probability{LabelIndex: 2}.Label(labels))
	assert.Equal(t, "", Probability{LabelIndex: -1}.Label(labels))
}

func TestReadLabels(t *testing.T) {

	labels, err := ReadLabels(strings.NewReader(" tench \ngoldfish\n\nshark\n"))

	require.NoError(t, err)
	assert.Equal(t, []string{"tench", "goldfish", "", "shark"}, labels)
}

func TestLoadLabels(t *testing.T) {

	file := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(file, []byte("a\nb\n"), 0o644))

	labels, err := LoadLabels(file)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, labels)

	_, err = LoadLabels(filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, errors.Is(err, sdk.ErrIO))
}
