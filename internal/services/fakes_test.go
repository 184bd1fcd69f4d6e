package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"dresscodeplanner/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID    map[string]*domain.Event
	nextID  int
	err     error // if set, every method returns this error
	purged  []string
	listErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		copy := *e
		return &copy, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListUpcoming(ctx context.Context, date string) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Event, 0)
	for _, e := range f.byID {
		if e.EndDate >= date {
			copy := *e
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate != out[j].StartDate {
			return out[i].StartDate < out[j].StartDate
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, fields domain.EventUpdate) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	apply := func(p *string, dst *string) {
		if p != nil {
			*dst = *p
		}
	}
	apply(fields.Name, &e.Name)
	apply(fields.StartDate, &e.StartDate)
	apply(fields.EndDate, &e.EndDate)
	apply(fields.StartTime, &e.StartTime)
	apply(fields.EndTime, &e.EndTime)
	apply(fields.DressCode, &e.DressCode)
	apply(fields.Description, &e.Description)
	apply(fields.ImageURL, &e.ImageURL)
	apply(fields.Location, &e.Location)
	apply(fields.EventType, &e.EventType)
	copy := *e
	return &copy, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) DeleteEndedBefore(ctx context.Context, date string) (int64, error) {
	var n int64
	for id, e := range f.byID {
		if e.EndDate < date {
			delete(f.byID, id)
			f.purged = append(f.purged, id)
			n++
		}
	}
	return n, nil
}

// fakeInvitationRepo is an in-memory InvitationRepository for tests.
type fakeInvitationRepo struct {
	byID   map[string]*domain.Invitation
	nextID int
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{byID: make(map[string]*domain.Invitation), nextID: 1}
}

func (f *fakeInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	for _, existing := range f.byID {
		if existing.EventID == inv.EventID && strings.EqualFold(existing.RecipientEmail, inv.RecipientEmail) {
			return domain.ErrDuplicateInvite
		}
	}
	inv.ID = fmt.Sprintf("inv-%d", f.nextID)
	f.nextID++
	copy := *inv
	f.byID[inv.ID] = &copy
	return nil
}

func (f *fakeInvitationRepo) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	for _, inv := range f.byID {
		if inv.Token == token {
			copy := *inv
			return &copy, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvitationRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Invitation, error) {
	out := make([]*domain.Invitation, 0)
	for _, inv := range f.byID {
		if inv.EventID == eventID {
			copy := *inv
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (f *fakeInvitationRepo) UpdateStatus(ctx context.Context, id, status string) (*domain.Invitation, error) {
	inv, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	inv.Status = status
	copy := *inv
	return &copy, nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID   map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	copy := *u
	f.byID[u.ID] = &copy
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			copy := *u
			return &copy, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) SetApproved(ctx context.Context, id string, approved bool) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.IsApproved = approved
	copy := *u
	return &copy, nil
}

func (f *fakeUserRepo) SetImageURL(ctx context.Context, id, imageURL string) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.ImageURL = imageURL
	copy := *u
	return &copy, nil
}

func (f *fakeUserRepo) ListUnapproved(ctx context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0)
	for _, u := range f.byID {
		if !u.IsApproved {
			copy := *u
			out = append(out, &copy)
		}
	}
	return out, nil
}

// fakeChatClient returns scripted results keyed by model name.
type fakeChatClient struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (f *fakeChatClient) CreateChatCompletion(ctx context.Context, model, prompt string, temperature float64, maxTokens int) (string, error) {
	f.calls = append(f.calls, model)
	if err, ok := f.errs[model]; ok {
		return "", err
	}
	return f.responses[model], nil
}

// fakeImageClient returns a fixed URL or error.
type fakeImageClient struct {
	url   string
	err   error
	calls int
}

func (f *fakeImageClient) CreateImage(ctx context.Context, model, prompt string, n int, size string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

// fakeObjectStore records saves and serves scripted lookups.
type fakeObjectStore struct {
	saved      map[string][]byte
	saveErr    error
	latest     map[string]string // prefix -> public URL
	removeErrs map[string]error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		saved:  make(map[string][]byte),
		latest: make(map[string]string),
	}
}

func (f *fakeObjectStore) Save(ctx context.Context, bucket, name, contentType string, r io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.saved[name] = data
	return f.PublicURL(bucket, name), nil
}

func (f *fakeObjectStore) FindLatest(ctx context.Context, bucket, prefix string) (string, error) {
	if url, ok := f.latest[prefix]; ok {
		return url, nil
	}
	return "", domain.ErrNotFound
}

func (f *fakeObjectStore) Remove(ctx context.Context, bucket, name string) error {
	if err, ok := f.removeErrs[name]; ok {
		return err
	}
	delete(f.saved, name)
	return nil
}

func (f *fakeObjectStore) PublicURL(bucket, name string) string {
	return fmt.Sprintf("https://cdn.example.com/%s/%s", bucket, name)
}

// fakeEmailService records sent invitations.
type fakeEmailService struct {
	sent []*domain.InvitationEmailData
	err  error
}

func (f *fakeEmailService) SendInvitation(ctx context.Context, data *domain.InvitationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

type fakeSubscription struct{ closed bool }

func (f *fakeSubscription) Close() error {
	f.closed = true
	return nil
}

type capturingSubscriber struct {
	callback func(domain.EventChange)
	sub      *fakeSubscription
}

func (c *capturingSubscriber) Subscribe(ctx context.Context, fn func(domain.EventChange)) (domain.Subscription, error) {
	c.callback = fn
	c.sub = &fakeSubscription{}
	return c.sub, nil
}

// fakeHasher hashes by concatenation; good enough to verify wiring.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }

func (fakeHasher) Hash(salt, password string) (string, error) {
	return salt + ":" + password, nil
}

func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

// fakeTokenIssuer issues predictable tokens.
type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Issue(userID, email string, _ time.Duration) (string, error) {
	return "token-" + userID, nil
}
