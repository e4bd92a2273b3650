package recognize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Farfive/expenseflow-pro-sub007/internal/common"
)

// fakeRunner answers the text invocation and the TSV invocation differently,
// keyed on the trailing "tsv" argument.
type fakeRunner struct {
	text    string
	tsv     string
	textErr error
	tsvErr  error
}

func (f *fakeRunner) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	if len(args) > 0 && args[len(args)-1] == "tsv" {
		if f.tsvErr != nil {
			return nil, []byte("tsv failed"), f.tsvErr
		}
		return []byte(f.tsv), nil, nil
	}
	if f.textErr != nil {
		return nil, []byte("boom"), f.textErr
	}
	return []byte(f.text), nil, nil
}

func tsvDoc(confs ...string) string {
	var b strings.Builder
	b.WriteString("level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n")
	for _, c := range confs {
		b.WriteString("5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t" + c + "\tword\n")
	}
	return b.String()
}

func TestRecognizeBlendsTextAndConfidence(t *testing.T) {
	runner := &fakeRunner{
		text: "Total: $12.30\n",
		tsv:  tsvDoc("96", "84", "-1"),
	}
	rec := NewTesseract(common.RecognizerConfig{Lang: "eng", Timeout: time.Second}, runner, nil)

	res, err := rec.Recognize(context.Background(), []byte("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "Total: $12.30\n", res.Text)
	assert.Equal(t, "eng", res.Language)
	// mean of 96 and 84; the -1 layout row is skipped
	assert.InDelta(t, 0.90, float64(res.BaseConfidence), 1e-6)
}

func TestRecognizeTextFailure(t *testing.T) {
	runner := &fakeRunner{textErr: errors.New("exit status 1")}
	rec := NewTesseract(common.RecognizerConfig{}, runner, nil)

	_, err := rec.Recognize(context.Background(), []byte("png-bytes"))
	require.Error(t, err)
}

func TestRecognizeTSVFailureIsNonFatal(t *testing.T) {
	runner := &fakeRunner{
		text:   "some recognized text",
		tsvErr: errors.New("exit status 1"),
	}
	rec := NewTesseract(common.RecognizerConfig{}, runner, nil)

	res, err := rec.Recognize(context.Background(), []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "some recognized text", res.Text)
	assert.Zero(t, res.BaseConfidence)
	assert.NotEmpty(t, res.Warnings)
}

func TestRecognizeEmptyTSVGivesZeroConfidence(t *testing.T) {
	runner := &fakeRunner{text: "text", tsv: tsvDoc()}
	rec := NewTesseract(common.RecognizerConfig{}, runner, nil)

	res, err := rec.Recognize(context.Background(), []byte("png-bytes"))
	require.NoError(t, err)
	assert.Zero(t, res.BaseConfidence)
}
