package logreader

import (
	"fmt"
	"io"
	"os"
)

// Reader reads batches from a game log file on disk.
type Reader struct {
	file      *os.File
	tokenizer *Tokenizer
}

// NewReader creates a new Reader for the given log file path.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open game log: %w", err)
	}

	return &Reader{
		file:      file,
		tokenizer: NewTokenizer(file),
	}, nil
}

// Close closes the underlying log file.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// ReadBatch reads the next batch from the file.
// It returns io.EOF when there are no more batches to read.
func (r *Reader) ReadBatch() (Batch, error) {
	return r.tokenizer.Next()
}

// ReadAll reads all batches from the file.
func (r *Reader) ReadAll() ([]Batch, error) {
	var batches []Batch

	for {
		b, err := r.ReadBatch()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}

	return batches, nil
}

// ReadFile tokenizes a whole log file.
func ReadFile(path string) ([]Batch, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return r.ReadAll()
}
