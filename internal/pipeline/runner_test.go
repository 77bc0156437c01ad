package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ShopifySEO/internal/config"
	"ShopifySEO/internal/domain"
	"ShopifySEO/internal/infrastructure/csvio"
	"ShopifySEO/internal/ports"
	"ShopifySEO/internal/rewrite"
)

// echoGenerator deterministically answers with a shortened version of the
// original title it finds in the prompt.
type echoGenerator struct {
	calls atomic.Int64
	fail  bool
}

func (g *echoGenerator) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	g.calls.Add(1)
	if g.fail {
		return "", errors.New("backend down")
	}

	line, _, _ := strings.Cut(req.Prompt, "\n")
	title := strings.TrimPrefix(line, "Original Title: ")
	words := strings.Fields(title)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " "), nil
}

func testCfg(workers int) config.PipelineConfig {
	return config.PipelineConfig{
		MaxTitleLength: 53,
		APITimeout:     5,
		MaxRetries:     2,
		Workers:        workers,
		TempDir:        "temp",
	}
}

func newRunner(cfg config.PipelineConfig, gen ports.Generator) *Runner {
	engine := rewrite.NewEngine(gen, cfg, nil)
	return NewRunner(cfg, RunnerDeps{Engine: engine})
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const runInput = `Title,Body (HTML),Status,SEO Title,SEO Description,Vendor
Handmade Blue Ceramic Coffee Mug,<p>mug</p>,active,,desc,Acme
Plain Red Shirt,<p>shirt</p>,draft,,desc,Acme
Warm Wool Winter Hat For Cold Days,<p>hat</p>,active,` + "\"" + `aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa` + "\"" + `,desc,Acme
Archived Thing,<p>x</p>,archived,,desc,Acme
`

func TestRunEndToEnd(t *testing.T) {
	t.Parallel()

	gen := &echoGenerator{}
	runner := newRunner(testCfg(2), gen)

	outPath := filepath.Join(t.TempDir(), "out.csv")
	result := runner.Run(context.Background(),
		csvio.NewSource(writeInput(t, runInput)), csvio.NewSink(outPath))

	require.True(t, result.Success, "run should succeed: %s", result.ErrorMessage)
	assert.Equal(t, 4, result.TotalProducts)
	assert.Equal(t, 2, result.ActiveProducts)
	assert.Equal(t, 2, result.EditedTitles)
	assert.Equal(t, outPath, result.OutputFile)
	assert.Empty(t, result.Failures)
	assert.Positive(t, result.Duration)

	catalog, err := csvio.NewSource(outPath).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog.Records, 4)

	// Order and passthrough columns survive.
	assert.Equal(t, "Handmade Blue Ceramic Coffee Mug", catalog.Records[0].Title)
	assert.Equal(t, "Acme", catalog.Records[0].Row[5])

	// Eligible rows got rewritten, everything else is untouched.
	assert.Equal(t, "Handmade Blue Ceramic", catalog.Records[0].SEOTitle)
	assert.Equal(t, "", catalog.Records[1].SEOTitle)
	assert.Equal(t, "Warm Wool Winter", catalog.Records[2].SEOTitle)
	assert.Equal(t, "", catalog.Records[3].SEOTitle)
}

func TestRunIdempotentWithDeterministicBackend(t *testing.T) {
	t.Parallel()

	inPath := writeInput(t, runInput)

	run := func() []byte {
		outPath := filepath.Join(t.TempDir(), "out.csv")
		runner := newRunner(testCfg(3), &echoGenerator{})
		result := runner.Run(context.Background(), csvio.NewSource(inPath), csvio.NewSink(outPath))
		require.True(t, result.Success)
		data, err := os.ReadFile(outPath)
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, run(), run(), "two runs over the same input must be byte-identical")
}

func TestRunBackendFailuresAreNotFatal(t *testing.T) {
	t.Parallel()

	gen := &echoGenerator{fail: true}
	runner := newRunner(testCfg(2), gen)

	outPath := filepath.Join(t.TempDir(), "out.csv")
	result := runner.Run(context.Background(),
		csvio.NewSource(writeInput(t, runInput)), csvio.NewSink(outPath))

	require.True(t, result.Success, "per-record failures must not fail the run")
	assert.Equal(t, 0, result.EditedTitles)
	require.Len(t, result.Failures, 2)
	for _, f := range result.Failures {
		assert.Equal(t, domain.ReasonBackendError, f.Reason)
		assert.Equal(t, 3, f.Attempts)
	}
	// 2 eligible records x (maxRetries+1) attempts.
	assert.EqualValues(t, 6, gen.calls.Load())

	catalog, err := csvio.NewSource(outPath).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", catalog.Records[0].SEOTitle, "failed record keeps its original SEO title")
}

func TestRunMissingColumnFailsBeforeBackend(t *testing.T) {
	t.Parallel()

	gen := &echoGenerator{}
	runner := newRunner(testCfg(1), gen)

	input := "Title,Body (HTML),SEO Title,SEO Description\nMug,<p>x</p>,,\n"
	outPath := filepath.Join(t.TempDir(), "out.csv")
	result := runner.Run(context.Background(),
		csvio.NewSource(writeInput(t, input)), csvio.NewSink(outPath))

	require.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "Status")
	assert.Zero(t, gen.calls.Load(), "no backend call before load succeeds")

	_, err := os.Stat(outPath)
	assert.True(t, os.IsNotExist(err), "no output file on failed run")
}

func TestRunPreCanceledContextFailsLoad(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &echoGenerator{}
	runner := newRunner(testCfg(2), gen)

	outPath := filepath.Join(t.TempDir(), "out.csv")
	result := runner.Run(ctx,
		csvio.NewSource(writeInput(t, runInput)), csvio.NewSink(outPath))

	require.False(t, result.Success, "load under canceled context fails the run")
	assert.Zero(t, gen.calls.Load())
}

func TestRunCancellationDuringRewrites(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	// Cancel once the first rewrite lands; remaining records resolve as
	// canceled and keep their titles.
	gen := &cancelOnFirstCall{cancel: cancel}
	runner := newRunner(testCfg(1), gen)

	outPath := filepath.Join(t.TempDir(), "out.csv")
	result := runner.Run(ctx,
		csvio.NewSource(writeInput(t, runInput)), csvio.NewSink(outPath))

	require.True(t, result.Success, "cancellation is not a run failure: %s", result.ErrorMessage)
	assert.Equal(t, 1, result.EditedTitles)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, domain.ReasonCanceled, result.Failures[0].Reason)

	catalog, err := csvio.NewSource(outPath).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog.Records, 4, "output still carries every row")
}

type cancelOnFirstCall struct {
	calls  atomic.Int64
	cancel context.CancelFunc
}

func (g *cancelOnFirstCall) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	if g.calls.Add(1) == 1 {
		defer g.cancel()
		return "Short Title", nil
	}
	return "", fmt.Errorf("should not be called after cancel: %w", ctx.Err())
}
