package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"flightfare-core/internal/domain/entity"
	"flightfare-core/internal/domain/repository"
)

// fakeReferences is an in-memory ReferenceStore.
type fakeReferences struct {
	sources      map[string][]float64
	destinations map[string][]float64
	airlines     []entity.ReferenceVector
	listErr      error
	inserted     map[entity.ReferenceKind][]entity.ReferenceVector
}

func newFakeReferences() *fakeReferences {
	return &fakeReferences{
		sources:      map[string][]float64{"DEL": {1, 0}, "BLR": {0, 1}, "CCU": {0, 0}},
		destinations: map[string][]float64{"BOM": {1, 0}, "HYD": {0, 1}, "COK": {0, 0}},
		airlines: []entity.ReferenceVector{
			{Key: "IndiGo", Array: []float64{1, 0, 0}},
			{Key: "Air India", Array: []float64{0, 1, 0}},
			{Key: "SpiceJet", Array: []float64{0, 0, 1}},
		},
		inserted: map[entity.ReferenceKind][]entity.ReferenceVector{},
	}
}

func (f *fakeReferences) FindSource(_ context.Context, code string) (entity.ReferenceVector, error) {
	arr, ok := f.sources[code]
	if !ok {
		return entity.ReferenceVector{}, fmt.Errorf("%w: source %q", entity.ErrResourceNotFound, code)
	}
	return entity.ReferenceVector{Key: code, Array: arr}, nil
}

func (f *fakeReferences) FindDestination(_ context.Context, code string) (entity.ReferenceVector, error) {
	arr, ok := f.destinations[code]
	if !ok {
		return entity.ReferenceVector{}, fmt.Errorf("%w: destination %q", entity.ErrResourceNotFound, code)
	}
	return entity.ReferenceVector{Key: code, Array: arr}, nil
}

func (f *fakeReferences) ListAirlines(context.Context) ([]entity.ReferenceVector, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]entity.ReferenceVector, len(f.airlines))
	for i, a := range f.airlines {
		out[i] = a.Clone()
	}
	return out, nil
}

func (f *fakeReferences) ListKeys(_ context.Context, kind entity.ReferenceKind) ([]string, error) {
	var keys []string
	switch kind {
	case entity.KindSource:
		for k := range f.sources {
			keys = append(keys, k)
		}
	case entity.KindDestination:
		for k := range f.destinations {
			keys = append(keys, k)
		}
	case entity.KindAirline:
		for _, a := range f.airlines {
			keys = append(keys, a.Key)
		}
	}
	return keys, nil
}

func (f *fakeReferences) InsertMany(_ context.Context, kind entity.ReferenceKind, vectors []entity.ReferenceVector) error {
	f.inserted[kind] = append(f.inserted[kind], vectors...)
	return nil
}

// Test model layout: 9 base + 3 airline + 2 source + 2 destination.
var testSchema = repository.ModelSchema{Version: "test-1", NumFeatures: 16, Airline: 3, Source: 2, Destination: 2}

type fakeModel struct {
	schema  repository.ModelSchema
	predict func(ctx context.Context, features []float64) (float64, error)
	calls   atomic.Int32
}

func (m *fakeModel) Predict(ctx context.Context, features []float64) (float64, error) {
	m.calls.Add(1)
	if len(features) != m.schema.NumFeatures {
		return 0, fmt.Errorf("expected %d features, got %d", m.schema.NumFeatures, len(features))
	}
	return m.predict(ctx, features)
}

func (m *fakeModel) Schema() repository.ModelSchema { return m.schema }

// airlineIndex reads the one-hot airline segment of a test feature vector.
func airlineIndex(features []float64) int {
	for i, v := range features[9:12] {
		if v == 1 {
			return i
		}
	}
	return -1
}

type fakeModelSource struct {
	model repository.Model
	err   error
}

func (s fakeModelSource) Get(context.Context) (repository.Model, error) {
	return s.model, s.err
}

type fakeModelStore struct {
	mu    sync.Mutex
	loads int
	model repository.Model
	err   error
}

func (s *fakeModelStore) LoadModel(context.Context) (repository.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return s.model, nil
}

type fakeUsers struct {
	byEmail map[string]*entity.User
	nextID  int
	deleted []string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*entity.User{}}
}

func (f *fakeUsers) ByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, entity.ErrResourceNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) ByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entity.ErrResourceNotFound
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return entity.ErrConflict
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUsers) Save(_ context.Context, u *entity.User) error {
	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	for email, u := range f.byEmail {
		if u.ID == id {
			delete(f.byEmail, email)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return entity.ErrResourceNotFound
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) bool { return hash == "hashed:"+password }

// fakeTokens encodes tokens as "<kind>:<subject>".
type fakeTokens struct{}

func (fakeTokens) Issue(subject string, kind repository.TokenKind) (string, error) {
	return string(kind) + ":" + subject, nil
}

func (fakeTokens) Parse(token string, kind repository.TokenKind) (string, error) {
	k, subject, ok := strings.Cut(token, ":")
	if !ok || k != string(kind) {
		return "", errors.New("bad token")
	}
	return subject, nil
}

type sentMail struct {
	kind  string
	to    string
	token string
}

type fakeMailer struct {
	mu    sync.Mutex
	sent  []sentMail
	err   error
	calls int
}

func (m *fakeMailer) record(kind, to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{kind: kind, to: to, token: token})
	return nil
}

func (m *fakeMailer) SendVerification(_ context.Context, email, token string) error {
	return m.record("verification", email, token)
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, email, token string) error {
	return m.record("reset", email, token)
}

func (m *fakeMailer) SendBooking(_ context.Context, d entity.BookingDetails) error {
	return m.record("booking", d.Email, d.Reference)
}

func (m *fakeMailer) SendCancellation(_ context.Context, d entity.BookingDetails) error {
	return m.record("cancellation", d.Email, d.Reference)
}

// blockingMailer holds booking mail until release is closed.
type blockingMailer struct {
	*fakeMailer
	release chan struct{}
}

func (m blockingMailer) SendBooking(ctx context.Context, d entity.BookingDetails) error {
	<-m.release
	return m.fakeMailer.SendBooking(ctx, d)
}

type fakeRecords struct {
	records map[string]*entity.FlightRecord
	order   []string
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{records: map[string]*entity.FlightRecord{}}
}

func (f *fakeRecords) Create(_ context.Context, r *entity.FlightRecord) error {
	r.ID = fmt.Sprintf("rec-%d", len(f.order)+1)
	cp := *r
	f.records[r.ID] = &cp
	f.order = append(f.order, r.ID)
	return nil
}

func (f *fakeRecords) FindForUser(_ context.Context, userID, id string) (*entity.FlightRecord, error) {
	r, ok := f.records[id]
	if !ok || r.UserID != userID {
		return nil, fmt.Errorf("%w: no flight info found", entity.ErrResourceNotFound)
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRecords) ListForUser(_ context.Context, userID string, bookedOnly bool) ([]entity.FlightRecord, error) {
	var out []entity.FlightRecord
	for _, id := range f.order {
		r, ok := f.records[id]
		if !ok || r.UserID != userID || (bookedOnly && !r.Booked) {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRecords) MarkBooked(_ context.Context, id string) error {
	r, ok := f.records[id]
	if !ok {
		return entity.ErrResourceNotFound
	}
	if r.Booked {
		return entity.ErrAlreadyBooked
	}
	r.Booked = true
	return nil
}

func (f *fakeRecords) UnmarkBooked(_ context.Context, id string) error {
	r, ok := f.records[id]
	if !ok {
		return entity.ErrResourceNotFound
	}
	r.Booked = false
	return nil
}

func (f *fakeRecords) Delete(_ context.Context, userID, id string) error {
	r, ok := f.records[id]
	if !ok || r.UserID != userID {
		return fmt.Errorf("%w: no record found", entity.ErrResourceNotFound)
	}
	delete(f.records, id)
	return nil
}

type fakeBookings struct {
	bookings  []*entity.Booking
	createErr error
}

func (f *fakeBookings) Create(_ context.Context, b *entity.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	b.ID = fmt.Sprintf("bk-%d", len(f.bookings)+1)
	cp := *b
	f.bookings = append(f.bookings, &cp)
	return nil
}

func (f *fakeBookings) ByFlightID(_ context.Context, flightID string) (*entity.Booking, error) {
	for i := len(f.bookings) - 1; i >= 0; i-- {
		if f.bookings[i].FlightID == flightID {
			cp := *f.bookings[i]
			return &cp, nil
		}
	}
	return nil, entity.ErrResourceNotFound
}

func (f *fakeBookings) MarkCancelled(_ context.Context, id string) error {
	for _, b := range f.bookings {
		if b.ID == id {
			if b.Cancelled {
				return entity.ErrAlreadyCancelled
			}
			b.Cancelled = true
			return nil
		}
	}
	return entity.ErrResourceNotFound
}
