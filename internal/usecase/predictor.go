package usecase

import (
	"context"
	"errors"
	"flightfare-core/internal/domain/entity"
	"flightfare-core/internal/domain/repository"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

type ModelSource interface {
	Get(ctx context.Context) (repository.Model, error)
}

type PredictorConfig struct {
	Workers int           // fan-out bound; defaults to GOMAXPROCS
	Timeout time.Duration // whole batch; zero means none
}

// Predictor runs the price pipeline: normalize, look up reference vectors,
// fan out one inference per airline, aggregate.
type Predictor struct {
	references repository.ReferenceStore
	models     ModelSource
	workers    int
	timeout    time.Duration
}

func NewPredictor(refs repository.ReferenceStore, models ModelSource, cfg PredictorConfig) *Predictor {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Predictor{references: refs, models: models, workers: workers, timeout: cfg.Timeout}
}

// Predict returns one priced flight per known airline, in the order the
// reference store lists airlines.
func (p *Predictor) Predict(ctx context.Context, q entity.FlightQuery) ([]entity.PricedFlight, error) {
	return p.run(ctx, q, nil)
}

// PredictAirline prices the query for a single airline.
func (p *Predictor) PredictAirline(ctx context.Context, q entity.FlightQuery, airline string) (entity.PricedFlight, error) {
	out, err := p.run(ctx, q, func(v entity.ReferenceVector) bool {
		return strings.EqualFold(v.Key, airline)
	})
	if err != nil {
		return entity.PricedFlight{}, err
	}
	if len(out) == 0 {
		return entity.PricedFlight{}, fmt.Errorf("%w: unknown airline %q", entity.ErrResourceNotFound, airline)
	}
	return out[0], nil
}

func (p *Predictor) run(ctx context.Context, q entity.FlightQuery, keep func(entity.ReferenceVector) bool) ([]entity.PricedFlight, error) {
	start := time.Now()

	// 1. Normalize the query
	if strings.TrimSpace(q.Origin) == "" || strings.TrimSpace(q.Destination) == "" {
		return nil, fmt.Errorf("%w: origin and destination are required", entity.ErrInvalidRequest)
	}
	parts, err := Normalize(q)
	if err != nil {
		return nil, err
	}

	// 2. Resolve reference vectors
	source, err := p.references.FindSource(ctx, q.Origin)
	if err != nil {
		return nil, fmt.Errorf("source lookup failed: %w", err)
	}
	destination, err := p.references.FindDestination(ctx, q.Destination)
	if err != nil {
		return nil, fmt.Errorf("destination lookup failed: %w", err)
	}
	parts.Source = source.Array
	parts.Destination = destination.Array

	airlines, err := p.references.ListAirlines(ctx)
	if err != nil {
		return nil, fmt.Errorf("airline listing failed: %w", err)
	}
	if keep != nil {
		airlines = filterVectors(airlines, keep)
	}

	// 3. Shared model + layout check
	model, err := p.models.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := CheckSchema(model.Schema(), parts, airlines); err != nil {
		return nil, err
	}

	// 4. Fan out
	results, err := p.fanOut(ctx, model, parts, airlines)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "price prediction complete",
		"origin", q.Origin, "destination", q.Destination,
		"airlines", len(results), "elapsed_ms", time.Since(start).Milliseconds())

	// 5. Aggregate
	return Aggregate(q, results), nil
}

// fanOut runs one prediction per airline on at most p.workers goroutines.
// The first failure cancels the batch and no partial result is returned.
func (p *Predictor) fanOut(ctx context.Context, model repository.Model, parts entity.FeatureParts, airlines []entity.ReferenceVector) ([]entity.PredictionResult, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	results := make([]entity.PredictionResult, len(airlines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, airline := range airlines {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			price, err := model.Predict(gctx, FeatureVector(parts, airline.Array))
			if err != nil {
				return fmt.Errorf("%w: airline %q: %v", entity.ErrInferenceFailure, airline.Key, err)
			}
			if math.IsNaN(price) || math.IsInf(price, 0) {
				return fmt.Errorf("%w: airline %q: non-finite prediction", entity.ErrInferenceFailure, airline.Key)
			}
			results[i] = entity.PredictionResult{Airline: airline.Key, PredictedPrice: RoundPrice(price)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %v", entity.ErrInferenceFailure, err)
		}
		return nil, err
	}
	return results, nil
}

// CheckSchema verifies every reference array has the width the model was
// trained with. A mismatch would otherwise produce wrong prices silently.
func CheckSchema(schema repository.ModelSchema, parts entity.FeatureParts, airlines []entity.ReferenceVector) error {
	if len(parts.Source) != schema.Source {
		return fmt.Errorf("%w: source width %d, model %s expects %d",
			entity.ErrSchemaMismatch, len(parts.Source), schema.Version, schema.Source)
	}
	if len(parts.Destination) != schema.Destination {
		return fmt.Errorf("%w: destination width %d, model %s expects %d",
			entity.ErrSchemaMismatch, len(parts.Destination), schema.Version, schema.Destination)
	}
	for _, a := range airlines {
		if len(a.Array) != schema.Airline {
			return fmt.Errorf("%w: airline %q width %d, model %s expects %d",
				entity.ErrSchemaMismatch, a.Key, len(a.Array), schema.Version, schema.Airline)
		}
	}
	return nil
}

// Aggregate zips predictions with the echoed query fields. Order follows results.
func Aggregate(q entity.FlightQuery, results []entity.PredictionResult) []entity.PricedFlight {
	out := make([]entity.PricedFlight, 0, len(results))
	for _, r := range results {
		out = append(out, entity.PricedFlight{
			Airline:        r.Airline,
			PredictedPrice: r.PredictedPrice,
			Origin:         q.Origin,
			Destination:    q.Destination,
			DepartureTime:  q.DepartureTime,
			ArrivalTime:    q.ArrivalTime,
			TransitCount:   q.TransitCount,
		})
	}
	return out
}

func RoundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}

func filterVectors(in []entity.ReferenceVector, keep func(entity.ReferenceVector) bool) []entity.ReferenceVector {
	out := make([]entity.ReferenceVector, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
