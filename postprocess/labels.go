package postprocess

import (
	"bufio"
	"fmt"
	"github.com/rknn-go/go-rknnapi/sdk"
	"io"
	"os"
	"strings"
)

// LoadLabels reads the class labels a Model was trained with from the given
// text file, one label per line in class index order.
func LoadLabels(file string) ([]string, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("%w: opening labels file: %w", sdk.ErrIO, err)
	}

	defer f.Close()

	labels, err := ReadLabels(f)

	if err != nil {
		return nil, fmt.Errorf("%w: reading labels file %s: %w", sdk.ErrIO, file, err)
	}

	return labels, nil
}

// ReadLabels reads one trimmed label per line from r. Blank lines are kept so
// line numbers stay aligned with class indices.
func ReadLabels(r io.Reader) ([]string, error) {

	scanner := bufio.NewScanner(r)

	var labels []string

	for scanner.Scan() {
		labels = append(labels, strings.TrimSpace(scanner.Text()))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return labels, nil
}
