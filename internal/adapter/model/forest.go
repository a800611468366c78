package model

import (
	"context"
	"errors"
	"flightfare-core/internal/domain/repository"
	"fmt"
)

// BaseFeatures is the width of the query-derived prefix: transit count,
// journey day/month, departure h/m, arrival h/m, duration h/m.
const BaseFeatures = 9

// Node is one split or leaf of a regression tree. Leaves have Left == -1.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

type Tree struct {
	Nodes []Node `json:"nodes"`
}

type Layout struct {
	Airline     int `json:"airline"`
	Source      int `json:"source"`
	Destination int `json:"destination"`
}

// Artifact is the on-disk form of an exported random-forest regressor.
type Artifact struct {
	SchemaVersion string `json:"schema_version"`
	NumFeatures   int    `json:"n_features"`
	Layout        Layout `json:"layout"`
	Trees         []Tree `json:"trees"`
}

// Forest averages the leaf values of its trees. It is immutable after
// construction and safe for concurrent Predict calls.
type Forest struct {
	schema repository.ModelSchema
	trees  []Tree
}

var errMalformed = errors.New("malformed model artifact")

func NewForest(a Artifact) (*Forest, error) {
	if len(a.Trees) == 0 {
		return nil, fmt.Errorf("%w: no trees", errMalformed)
	}
	if a.Layout.Airline <= 0 || a.Layout.Source <= 0 || a.Layout.Destination <= 0 {
		return nil, fmt.Errorf("%w: layout widths must be positive", errMalformed)
	}
	want := BaseFeatures + a.Layout.Airline + a.Layout.Source + a.Layout.Destination
	if a.NumFeatures != want {
		return nil, fmt.Errorf("%w: n_features %d does not match layout total %d", errMalformed, a.NumFeatures, want)
	}

	for ti, t := range a.Trees {
		if len(t.Nodes) == 0 {
			return nil, fmt.Errorf("%w: tree %d is empty", errMalformed, ti)
		}
		for ni, n := range t.Nodes {
			if n.Left == -1 {
				continue
			}
			if n.Feature < 0 || n.Feature >= a.NumFeatures {
				return nil, fmt.Errorf("%w: tree %d node %d splits on feature %d", errMalformed, ti, ni, n.Feature)
			}
			// Children must point forward; this also rules out cycles.
			if n.Left <= ni || n.Left >= len(t.Nodes) || n.Right <= ni || n.Right >= len(t.Nodes) {
				return nil, fmt.Errorf("%w: tree %d node %d has invalid children", errMalformed, ti, ni)
			}
		}
	}

	return &Forest{
		schema: repository.ModelSchema{
			Version:     a.SchemaVersion,
			NumFeatures: a.NumFeatures,
			Airline:     a.Layout.Airline,
			Source:      a.Layout.Source,
			Destination: a.Layout.Destination,
		},
		trees: a.Trees,
	}, nil
}

func (f *Forest) Schema() repository.ModelSchema {
	return f.schema
}

func (f *Forest) Predict(ctx context.Context, features []float64) (float64, error) {
	if len(features) != f.schema.NumFeatures {
		return 0, fmt.Errorf("expected %d features, got %d", f.schema.NumFeatures, len(features))
	}
	var sum float64
	for i := range f.trees {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		sum += f.trees[i].eval(features)
	}
	return sum / float64(len(f.trees)), nil
}

func (t *Tree) eval(x []float64) float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Left == -1 {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
