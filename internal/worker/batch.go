package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rmaragno/sigilo/internal/model"
)

// Processor runs the full pipeline for one document
type Processor interface {
	ProcessDocument(ctx context.Context, id, text string) *model.WarrantProcessingResult
}

// Document is one raw input, identified by its source file or batch id
type Document struct {
	ID   string
	Text string
}

// DocumentJob processes a single document
type DocumentJob struct {
	Doc       Document
	Processor Processor
}

// Execute runs the pipeline for the job's document
func (j *DocumentJob) Execute(ctx context.Context) Result {
	return &DocumentResult{
		ID:     j.Doc.ID,
		Result: j.Processor.ProcessDocument(ctx, j.Doc.ID, j.Doc.Text),
	}
}

// DocumentResult is the outcome of one document job
type DocumentResult struct {
	ID     string
	Result *model.WarrantProcessingResult
}

// GetError surfaces a run that ended in the error state
func (r *DocumentResult) GetError() error {
	if r.Result != nil && r.Result.State == model.StateError {
		return fmt.Errorf("%s: %s", r.ID, r.Result.Error)
	}
	return nil
}

// BatchProcessor fans a set of documents across a worker pool. Documents
// are independent; no state is shared between jobs.
type BatchProcessor struct {
	processor   Processor
	concurrency int
}

func NewBatchProcessor(processor Processor, concurrency int) *BatchProcessor {
	return &BatchProcessor{processor: processor, concurrency: concurrency}
}

// ProcessDocuments runs the pipeline over all documents concurrently
func (b *BatchProcessor) ProcessDocuments(ctx context.Context, docs []Document) []*DocumentResult {
	if len(docs) == 0 {
		return []*DocumentResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// Submissions overlap with draining: a batch larger than the pool's
	// channel buffers would otherwise wedge with every worker blocked on
	// a full results channel nobody is reading yet.
	go func() {
		for _, doc := range docs {
			pool.Submit(&DocumentJob{Doc: doc, Processor: b.processor})
		}
		pool.Close()
	}()

	results := pool.Wait()
	out := make([]*DocumentResult, len(results))
	for i, r := range results {
		out[i] = r.(*DocumentResult)
	}
	return out
}

// ProcessDir reads every .txt file under dir and processes them concurrently
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*DocumentResult, error) {
	docs, err := ReadDocumentsFromDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read documents: %w", err)
	}
	return b.ProcessDocuments(ctx, docs), nil
}

// ReadDocumentsFromDir loads all .txt files in dir, sorted by name so
// batch output order is stable across runs
func ReadDocumentsFromDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("open directory: %w", err)
	}

	var docs []Document
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		docs = append(docs, Document{
			ID:   strings.TrimSuffix(e.Name(), ".txt"),
			Text: string(raw),
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}
