package ingest

import (
	"fmt"
	"io"
	"os"
)

// DefaultChunkSize is the window size used when reading corpora. 15 MiB
// matches the chunking other lekhika trainers use, keeping memory bounded
// for files of any size.
const DefaultChunkSize = 15 * 1024 * 1024

// ChunkReader reads a file in fixed-size windows while making sure no
// whitespace-delimited token is split across a window boundary. For every
// non-final window, the bytes after the last whitespace character are
// carried over and prepended to the next window. Concatenating all
// returned chunks reproduces the file exactly.
//
// A window with no whitespace at all is returned unsplit; a multi-byte
// rune cut at the raw window edge then decodes as U+FFFD on both sides
// and splits that pathological token into two candidates.
type ChunkReader struct {
	f         *os.File
	size      int64
	chunkSize int
	total     int
	index     int
	leftover  []byte
	buf       []byte
}

// OpenChunkReader opens path for chunked reading. It fails before any
// byte is consumed if the file cannot be opened or its size determined.
func OpenChunkReader(path string, chunkSize int) (*ChunkReader, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	size := fi.Size()
	total := int((size + int64(chunkSize) - 1) / int64(chunkSize))
	if total == 0 {
		total = 1
	}

	return &ChunkReader{
		f:         f,
		size:      size,
		chunkSize: chunkSize,
		total:     total,
		buf:       make([]byte, chunkSize),
	}, nil
}

// Size returns the file size in bytes.
func (cr *ChunkReader) Size() int64 { return cr.size }

// TotalChunks returns how many chunks Next will yield.
func (cr *ChunkReader) TotalChunks() int { return cr.total }

// Next returns the next chunk, or io.EOF after the final one.
func (cr *ChunkReader) Next() (string, error) {
	if cr.index >= cr.total {
		return "", io.EOF
	}

	n, err := io.ReadFull(cr.f, cr.buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("read chunk %d: %w", cr.index, err)
	}

	content := make([]byte, 0, len(cr.leftover)+n)
	content = append(content, cr.leftover...)
	content = append(content, cr.buf[:n]...)
	cr.leftover = nil
	cr.index++

	// The final window is used verbatim; earlier windows end on the last
	// whitespace so no token straddles the boundary.
	if cr.index < cr.total {
		if cut := lastWhitespace(content); cut >= 0 {
			cr.leftover = append([]byte(nil), content[cut:]...)
			content = content[:cut]
		}
	}

	return string(content), nil
}

// Close releases the underlying file.
func (cr *ChunkReader) Close() error { return cr.f.Close() }

func lastWhitespace(b []byte) int {
	for i := len(b) - 1; i >= 0; i-- {
		switch b[i] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			return i
		}
	}
	return -1
}
