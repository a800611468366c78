package entity

// ReferenceKind names the categorical feature a vector encodes.
type ReferenceKind string

const (
	KindSource      ReferenceKind = "source"
	KindDestination ReferenceKind = "destination"
	KindAirline     ReferenceKind = "airline"
)

// ReferenceVector is a named one-hot array. It is never mutated after load.
type ReferenceVector struct {
	Key   string    `json:"key"`
	Array []float64 `json:"array"`
}

// Clone returns a copy whose array does not alias the receiver.
func (r ReferenceVector) Clone() ReferenceVector {
	return ReferenceVector{Key: r.Key, Array: append([]float64(nil), r.Array...)}
}
