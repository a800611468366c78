package model

import (
	"context"
	"encoding/json"
	"flightfare-core/internal/domain/repository"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore reads the forest artifact from a fixed path.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) LoadModel(ctx context.Context) (repository.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Clean(s.path))
	if err != nil {
		return nil, fmt.Errorf("open model artifact: %w", err)
	}
	defer f.Close()

	var a Artifact
	if err := json.NewDecoder(f).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode model artifact %s: %w", s.path, err)
	}
	forest, err := NewForest(a)
	if err != nil {
		return nil, fmt.Errorf("load model artifact %s: %w", s.path, err)
	}
	return forest, nil
}
