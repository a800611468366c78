package model

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestFileStore_LoadModel(t *testing.T) {
	path := writeArtifact(t, smallArtifact())

	m, err := NewFileStore(path).LoadModel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v-test", m.Schema().Version)

	got, err := m.Predict(context.Background(), make([]float64, 12))
	require.NoError(t, err)
	assert.Equal(t, 3500.0, got)
}

func TestFileStore_MissingFile(t *testing.T) {
	_, err := NewFileStore(filepath.Join(t.TempDir(), "absent.json")).LoadModel(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileStore_InvalidArtifact(t *testing.T) {
	bad := smallArtifact()
	bad.NumFeatures = 10
	_, err := NewFileStore(writeArtifact(t, bad)).LoadModel(context.Background())
	assert.ErrorIs(t, err, errMalformed)

	path := filepath.Join(t.TempDir(), "garbage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err = NewFileStore(path).LoadModel(context.Background())
	assert.Error(t, err)
}

func TestFileStore_ShippedArtifact(t *testing.T) {
	path := filepath.Join("..", "..", "..", "ml", "flight_price_rf.json")
	if _, err := os.Stat(path); err != nil {
		t.Skip("shipped model artifact not present")
	}

	m, err := NewFileStore(path).LoadModel(context.Background())
	require.NoError(t, err)
	s := m.Schema()
	assert.Equal(t, 29, s.NumFeatures)
	assert.Equal(t, 11, s.Airline)
	assert.Equal(t, 4, s.Source)
	assert.Equal(t, 5, s.Destination)
}
