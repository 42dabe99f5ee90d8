package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rmaragno/sigilo/internal/model"
)

type stubProcessor struct {
	calls atomic.Int64
}

func (p *stubProcessor) ProcessDocument(ctx context.Context, id, text string) *model.WarrantProcessingResult {
	p.calls.Add(1)
	res := &model.WarrantProcessingResult{SessionID: id, State: model.StateRouted}
	if strings.Contains(text, "falha") {
		res.State = model.StateError
		res.Error = "processamento falhou"
	}
	return res
}

func TestBatchProcessor_ProcessDocuments(t *testing.T) {
	proc := &stubProcessor{}
	batch := NewBatchProcessor(proc, 4)

	docs := []Document{
		{ID: "oficio-001", Text: "quebra de sigilo bancário"},
		{ID: "oficio-002", Text: "documento com falha"},
		{ID: "oficio-003", Text: "outro ofício"},
	}

	results := batch.ProcessDocuments(context.Background(), docs)

	if len(results) != len(docs) {
		t.Fatalf("expected %d results, got %d", len(docs), len(results))
	}
	if proc.calls.Load() != int64(len(docs)) {
		t.Errorf("expected %d processor calls, got %d", len(docs), proc.calls.Load())
	}

	var failed int
	for _, r := range results {
		if r.GetError() != nil {
			failed++
			if !strings.Contains(r.GetError().Error(), "oficio-002") {
				t.Errorf("error should name the failing document: %v", r.GetError())
			}
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 failed document, got %d", failed)
	}
}

func TestBatchProcessor_BatchLargerThanPoolBuffers(t *testing.T) {
	proc := &stubProcessor{}
	batch := NewBatchProcessor(proc, 2)

	const n = 40
	docs := make([]Document, n)
	for i := range docs {
		docs[i] = Document{ID: fmt.Sprintf("oficio-%03d", i), Text: "quebra de sigilo bancário"}
	}

	done := make(chan []*DocumentResult, 1)
	go func() { done <- batch.ProcessDocuments(context.Background(), docs) }()

	select {
	case results := <-done:
		if len(results) != n {
			t.Errorf("expected %d results, got %d", n, len(results))
		}
		if proc.calls.Load() != n {
			t.Errorf("expected %d processor calls, got %d", n, proc.calls.Load())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("batch stalled processing more documents than the pool buffers hold")
	}
}

func TestBatchProcessor_EmptyInput(t *testing.T) {
	batch := NewBatchProcessor(&stubProcessor{}, 2)

	if results := batch.ProcessDocuments(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestReadDocumentsFromDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b-oficio.txt": "segundo documento",
		"a-oficio.txt": "primeiro documento",
		"notas.md":     "ignorado",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	docs, err := ReadDocumentsFromDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID != "a-oficio" || docs[1].ID != "b-oficio" {
		t.Errorf("expected documents sorted by id, got %q, %q", docs[0].ID, docs[1].ID)
	}
	if docs[0].Text != "primeiro documento" {
		t.Errorf("unexpected content: %q", docs[0].Text)
	}
}

func TestReadDocumentsFromDir_Missing(t *testing.T) {
	if _, err := ReadDocumentsFromDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestProcessDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "oficio.txt"), []byte("sigilo bancário"), 0o644); err != nil {
		t.Fatal(err)
	}

	proc := &stubProcessor{}
	batch := NewBatchProcessor(proc, 2)

	results, err := batch.ProcessDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].ID != "oficio" {
		t.Errorf("unexpected results: %+v", results)
	}
}
