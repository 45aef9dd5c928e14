package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"villastay/database/repository"
	requestRepo "villastay/database/repository/request"
	"villastay/models"
)

type memCounterRepo struct {
	mu  sync.Mutex
	seq map[string]int
	err error
}

func newMemCounterRepo() *memCounterRepo {
	return &memCounterRepo{seq: map[string]int{}}
}

func (r *memCounterRepo) Next(_ context.Context, villaID, date string) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := villaID + "|" + date
	r.seq[key]++
	return r.seq[key], nil
}

func (r *memCounterRepo) EnsureIndexes(context.Context) error { return nil }

type memVillaRepo struct {
	villas map[string]*models.Villa
}

func (r *memVillaRepo) Create(_ context.Context, v *models.Villa) error {
	r.villas[v.ID] = v
	return nil
}

func (r *memVillaRepo) GetByID(_ context.Context, id string) (*models.Villa, error) {
	v, ok := r.villas[id]
	if !ok {
		return nil, fmt.Errorf("villa %s: %w", id, repository.ErrNotFound)
	}
	cp := *v
	return &cp, nil
}

func (r *memVillaRepo) List(context.Context, models.VillaFilter) ([]models.Villa, int64, error) {
	return nil, 0, nil
}

func (r *memVillaRepo) Update(_ context.Context, v *models.Villa) error {
	r.villas[v.ID] = v
	return nil
}

func (r *memVillaRepo) Delete(_ context.Context, id string) error {
	delete(r.villas, id)
	return nil
}

func (r *memVillaRepo) EnsureIndexes(context.Context) error { return nil }

type memRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*models.BookingRequest
	// beforeUpdate runs under the lock ahead of the guard, so tests can
	// change the stored document between a read and the update.
	beforeUpdate func(req *models.BookingRequest)
	// afterGet runs once, after GetByID has copied the document.
	afterGet func()
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: map[string]*models.BookingRequest{}}
}

func (r *memRequestRepo) Create(_ context.Context, req *models.BookingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *memRequestRepo) GetByID(_ context.Context, id string) (*models.BookingRequest, error) {
	r.mu.Lock()
	req, ok := r.requests[id]
	var cp models.BookingRequest
	if ok {
		cp = *req
	}
	hook := r.afterGet
	r.afterGet = nil
	r.mu.Unlock()

	if !ok {
		return nil, repository.ErrNotFound
	}
	if hook != nil {
		hook()
	}
	return &cp, nil
}

func (r *memRequestRepo) List(_ context.Context, f models.RequestFilter) ([]models.BookingRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.BookingRequest
	for _, req := range r.requests {
		if f.Status == "" || req.Status == f.Status {
			out = append(out, *req)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memRequestRepo) UpdateStatus(_ context.Context, id string, from []models.RequestStatus, u requestRepo.StatusUpdate) (*models.BookingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if r.beforeUpdate != nil {
		r.beforeUpdate(req)
	}
	if u.Unbooked && req.BookingID != "" {
		return nil, repository.ErrNotFound
	}
	allowed := false
	for _, st := range from {
		if req.Status == st {
			allowed = true
		}
	}
	if !allowed {
		return nil, repository.ErrNotFound
	}
	req.Status = u.Status
	req.RespondedBy = u.RespondedBy
	at := u.RespondedAt
	req.RespondedAt = &at
	req.UpdatedAt = at
	if u.CustomOffer != nil {
		req.CustomOffer = u.CustomOffer
	}
	cp := *req
	return &cp, nil
}

func (r *memRequestRepo) LinkBooking(_ context.Context, id, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.BookingID != "" {
		return repository.ErrNotFound
	}
	req.BookingID = bookingID
	return nil
}

func (r *memRequestRepo) EnsureIndexes(context.Context) error { return nil }

type memBookingRepo struct {
	mu       sync.Mutex
	bookings []*models.Booking
}

func (r *memBookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bookings {
		if existing.BookingRequestID == b.BookingRequestID || existing.BookingReference == b.BookingReference {
			return repository.ErrDuplicate
		}
	}
	cp := *b
	r.bookings = append(r.bookings, &cp)
	return nil
}

func (r *memBookingRepo) find(match func(*models.Booking) bool) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if match(b) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	return r.find(func(b *models.Booking) bool { return b.ID == id })
}

func (r *memBookingRepo) GetByReference(_ context.Context, ref string) (*models.Booking, error) {
	return r.find(func(b *models.Booking) bool { return b.BookingReference == ref })
}

func (r *memBookingRepo) GetByRequestID(_ context.Context, requestID string) (*models.Booking, error) {
	return r.find(func(b *models.Booking) bool { return b.BookingRequestID == requestID })
}

func (r *memBookingRepo) List(context.Context, models.BookingFilter) ([]models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, id string, u models.BookingStatusUpdate) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id {
			if u.BookingStatus != "" {
				b.BookingStatus = u.BookingStatus
			}
			if u.PaymentStatus != "" {
				b.PaymentStatus = u.PaymentStatus
			}
			cp := *b
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memBookingRepo) EnsureIndexes(context.Context) error { return nil }

type recordingNotifier struct {
	mu        sync.Mutex
	sales     []string
	decisions []models.RequestStatus
}

func (n *recordingNotifier) NotifySalesNewRequest(_ context.Context, req *models.BookingRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sales = append(n.sales, req.ID)
	return nil
}

func (n *recordingNotifier) NotifyGuestDecision(_ context.Context, req *models.BookingRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.decisions = append(n.decisions, req.Status)
	return nil
}

// memStatusCache keeps the newest revision per request, like the Redis cache.
type memStatusCache struct {
	mu      sync.Mutex
	entries map[string]models.BookingRequest
}

func newMemStatusCache() *memStatusCache {
	return &memStatusCache{entries: map[string]models.BookingRequest{}}
}

func (c *memStatusCache) Get(_ context.Context, id string) (*models.BookingRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	req, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	return &req, true
}

func (c *memStatusCache) Set(_ context.Context, req *models.BookingRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.entries[req.ID]; ok && prev.UpdatedAt.After(req.UpdatedAt) {
		return
	}
	c.entries[req.ID] = *req
}

func (c *memStatusCache) Invalidate(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, e models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, e.Type)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fakeGateway struct {
	CreateIntentFunc func(ctx context.Context, amount int64, currency, requestID string) (*models.PaymentIntent, error)
	GetIntentFunc    func(ctx context.Context, id string) (*models.PaymentIntent, error)
}

func (g *fakeGateway) CreateIntent(ctx context.Context, amount int64, currency, requestID string) (*models.PaymentIntent, error) {
	return g.CreateIntentFunc(ctx, amount, currency, requestID)
}

func (g *fakeGateway) GetIntent(ctx context.Context, id string) (*models.PaymentIntent, error) {
	return g.GetIntentFunc(ctx, id)
}

// fixture bundles a service with its in-memory stores.
type fixture struct {
	svc       *BookingService
	villas    *memVillaRepo
	requests  *memRequestRepo
	bookings  *memBookingRepo
	cache     *memStatusCache
	notifier  *recordingNotifier
	publisher *recordingPublisher
	now       time.Time
}

var fixedNow = time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)

func newFixture(gateway PaymentGateway) *fixture {
	f := &fixture{
		villas: &memVillaRepo{villas: map[string]*models.Villa{
			"villa-1": {
				ID: "villa-1", Name: "Ocean Breeze Cottage", PricePerNight: 250, Currency: "usd",
				MaxGuests: 4, IsActive: true, IsPublished: true,
			},
			"villa-hidden": {
				ID: "villa-hidden", Name: "Hidden Retreat", PricePerNight: 100,
				MaxGuests: 2, IsActive: true, IsPublished: false,
			},
		}},
		requests:  newMemRequestRepo(),
		bookings:  &memBookingRepo{},
		cache:     newMemStatusCache(),
		notifier:  &recordingNotifier{},
		publisher: &recordingPublisher{},
		now:       fixedNow,
	}
	deps := Deps{
		Villas:         f.villas,
		Requests:       f.requests,
		Bookings:       f.bookings,
		References:     NewReferenceGenerator(newMemCounterRepo(), time.UTC),
		Cache:          f.cache,
		Notifier:       f.notifier,
		Events:         f.publisher,
		Now:            func() time.Time { return f.now },
		OfferValidDays: 7,
	}
	if gateway != nil {
		deps.Payments = gateway
	}
	f.svc = NewBookingService(deps)
	return f
}
