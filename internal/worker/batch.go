package worker

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/yksassistant/hakem/internal/llm"
	"github.com/yksassistant/hakem/internal/model"
)

// Assessor scores one raw question record
type Assessor interface {
	Assess(ctx context.Context, raw model.RawQuestion) model.Assessment
}

// Measurer extracts and scores one question image
type Measurer interface {
	Measure(ctx context.Context, img llm.Image, id string) (*model.Measurement, error)
}

// AssessJob represents one record of a batch
type AssessJob struct {
	Index    int
	Raw      model.RawQuestion
	Assessor Assessor
}

// Execute executes the assess job. The scorers are total, so only a panic
// can produce an error here.
func (j *AssessJob) Execute(ctx context.Context) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = &AssessResult{Index: j.Index, ID: j.Raw.ID, Error: fmt.Errorf("assess %s: panic: %v", j.Raw.ID, r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return &AssessResult{Index: j.Index, ID: j.Raw.ID, Error: err}
	}

	a := j.Assessor.Assess(ctx, j.Raw)
	return &AssessResult{Index: j.Index, ID: a.ID, Assessment: &a}
}

// AssessResult represents the result of an assess job
type AssessResult struct {
	Index      int
	ID         string
	Assessment *model.Assessment
	Error      error
}

// GetError returns the error from the assess result
func (r *AssessResult) GetError() error {
	return r.Error
}

// MeasureJob reads one image file and measures it
type MeasureJob struct {
	Index    int
	Path     string
	Measurer Measurer
}

// Execute executes the measure job
func (j *MeasureJob) Execute(ctx context.Context) Result {
	img, err := ReadImage(j.Path)
	if err != nil {
		return &MeasureResult{Index: j.Index, Path: j.Path, Error: err}
	}

	id := strings.TrimSuffix(filepath.Base(j.Path), filepath.Ext(j.Path))
	m, err := j.Measurer.Measure(ctx, img, id)
	if err != nil {
		return &MeasureResult{Index: j.Index, Path: j.Path, Error: err}
	}
	return &MeasureResult{Index: j.Index, Path: j.Path, Measurement: m}
}

// MeasureResult represents the result of a measure job
type MeasureResult struct {
	Index       int
	Path        string
	Measurement *model.Measurement
	Error       error
}

// GetError returns the error from the measure result
func (r *MeasureResult) GetError() error {
	return r.Error
}

// BatchProcessor fans records out over a worker pool. Results are returned
// in input order.
type BatchProcessor struct {
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(concurrency int) *BatchProcessor {
	return &BatchProcessor{
		concurrency: concurrency,
	}
}

// ProcessRecords assesses every record concurrently
func (b *BatchProcessor) ProcessRecords(ctx context.Context, assessor Assessor, raws []model.RawQuestion) []*AssessResult {
	jobs := make([]Job, len(raws))
	for i, raw := range raws {
		jobs[i] = &AssessJob{Index: i, Raw: raw, Assessor: assessor}
	}

	out := make([]*AssessResult, len(raws))
	for _, r := range b.run(ctx, jobs) {
		res := r.(*AssessResult)
		out[res.Index] = res
	}
	// jobs dropped by cancellation never report back
	for i := range out {
		if out[i] == nil {
			out[i] = &AssessResult{Index: i, ID: raws[i].ID, Error: cancelledError(ctx)}
		}
	}
	return out
}

// ProcessImages measures every image file concurrently
func (b *BatchProcessor) ProcessImages(ctx context.Context, measurer Measurer, paths []string) []*MeasureResult {
	jobs := make([]Job, len(paths))
	for i, path := range paths {
		jobs[i] = &MeasureJob{Index: i, Path: path, Measurer: measurer}
	}

	out := make([]*MeasureResult, len(paths))
	for _, r := range b.run(ctx, jobs) {
		res := r.(*MeasureResult)
		out[res.Index] = res
	}
	for i := range out {
		if out[i] == nil {
			out[i] = &MeasureResult{Index: i, Path: paths[i], Error: cancelledError(ctx)}
		}
	}
	return out
}

func (b *BatchProcessor) run(ctx context.Context, jobs []Job) []Result {
	if len(jobs) == 0 {
		return nil
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	for _, job := range jobs {
		pool.Submit(job)
	}
	return pool.Wait()
}

func cancelledError(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return context.Canceled
}

// ReadImage loads an image file and sniffs its MIME type
func ReadImage(path string) (llm.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return llm.Image{}, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return llm.Image{}, fmt.Errorf("read image: %s is empty", path)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return llm.Image{}, fmt.Errorf("read image: %s is %s, not an image", path, mime)
	}
	return llm.Image{Data: data, MimeType: mime}, nil
}
