// Package ingest implements the learning pipeline: chunked file reading,
// candidate extraction, parallel phonetic validation, and transactional
// merging into the frequency dictionary.
package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/lekhika-tools/shabda/pkg/db"
)

// Sentinel errors for the fatal failure classes of a learn run. Rejected
// candidates are not errors; they are simply not merged.
var (
	// ErrInput marks file access or read failures. No store mutation has
	// happened for the failing chunk when this is returned.
	ErrInput = errors.New("input file error")

	// ErrWorker marks a validation worker crash. The affected chunk is
	// not committed.
	ErrWorker = errors.New("validation worker failed")

	// ErrStore marks a failed chunk merge. The chunk's transaction has
	// been rolled back; earlier committed chunks stand.
	ErrStore = errors.New("store merge failed")
)

// ChunkProgress describes one processed chunk for progress reporting.
type ChunkProgress struct {
	Chunk       int // zero-based chunk index
	TotalChunks int
	Candidates  int // script runs found in the chunk
	Valid       int // candidates that passed validation
}

// Learner orchestrates chunked learning from a corpus file into the
// dictionary. Chunks are processed strictly one after another, so peak
// memory stays bounded by one chunk regardless of file size.
type Learner struct {
	DB        *sql.DB
	ChunkSize int
	// Workers is the validation pool size. Zero means all available CPUs.
	Workers int
	// Logger receives informational messages. nil means no logging.
	Logger *log.Logger
	// OnProgress is called after each chunk has been merged.
	OnProgress func(ChunkProgress)
}

// NewLearner creates a Learner with the default chunk size.
func NewLearner(conn *sql.DB) *Learner {
	return &Learner{DB: conn, ChunkSize: DefaultChunkSize}
}

// Learn runs the pipeline over the file at path and returns the total
// number of word occurrences merged into the dictionary. On error, every
// chunk merged before the failure remains committed.
func (l *Learner) Learn(ctx context.Context, path string) (int, error) {
	cr, err := OpenChunkReader(path, l.ChunkSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInput, err)
	}
	defer cr.Close()

	l.logf("learning from %s: %d bytes in %d chunk(s)", path, cr.Size(), cr.TotalChunks())

	validator := ParallelValidator{Workers: l.Workers}
	total := 0
	for chunk := 0; ; chunk++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		content, err := cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, fmt.Errorf("%w: chunk %d: %v", ErrInput, chunk, err)
		}

		candidates := ExtractCandidates(content)
		valid, err := validator.Validate(ctx, candidates)
		if err != nil {
			return total, fmt.Errorf("chunk %d: %w", chunk, err)
		}

		if err := db.MergeCounts(ctx, l.DB, valid); err != nil {
			return total, fmt.Errorf("%w: chunk %d: %v", ErrStore, chunk, err)
		}

		total += len(valid)
		if l.OnProgress != nil {
			l.OnProgress(ChunkProgress{
				Chunk:       chunk,
				TotalChunks: cr.TotalChunks(),
				Candidates:  len(candidates),
				Valid:       len(valid),
			})
		}
	}

	l.logf("learned %d word occurrence(s) from %s", total, path)
	return total, nil
}

// LearnText validates and merges the words of an in-memory text as a
// single chunk. Used for HTML inputs, whose readable text is extracted
// whole before tokenization.
func (l *Learner) LearnText(ctx context.Context, text string) (int, error) {
	candidates := ExtractCandidates(text)
	validator := ParallelValidator{Workers: l.Workers}
	valid, err := validator.Validate(ctx, candidates)
	if err != nil {
		return 0, fmt.Errorf("chunk 0: %w", err)
	}

	if err := db.MergeCounts(ctx, l.DB, valid); err != nil {
		return 0, fmt.Errorf("%w: chunk 0: %v", ErrStore, err)
	}

	if l.OnProgress != nil {
		l.OnProgress(ChunkProgress{Chunk: 0, TotalChunks: 1, Candidates: len(candidates), Valid: len(valid)})
	}
	return len(valid), nil
}

// LearnHTML extracts the readable article text from an HTML file and
// merges its words as a single chunk.
func (l *Learner) LearnHTML(ctx context.Context, path string) (int, error) {
	text, err := ExtractHTMLText(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInput, err)
	}
	l.logf("learning from article %s: %d characters of text", path, len(text))
	return l.LearnText(ctx, text)
}

func (l *Learner) logf(format string, args ...interface{}) {
	if l.Logger != nil {
		l.Logger.Printf(format, args...)
	}
}
