package service

import (
	"context"
	"sync"
	"time"

	"app/internal/model"
	"app/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository keyed by email and id.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*model.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrEmailTaken
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (r *fakeUserRepo) ListUsers(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

// fakeListingRepo mirrors the real repository's lifecycle semantics,
// including the accept race behaviour.
type fakeListingRepo struct {
	mu       sync.Mutex
	nextID   int64
	listings map[int64]*model.Listing
	txns     []model.Transaction
	threads  map[int64]int64 // listingID -> threadID
	messages []string
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{
		listings: make(map[int64]*model.Listing),
		threads:  make(map[int64]int64),
	}
}

func (r *fakeListingRepo) Create(_ context.Context, l *model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	l.ID = r.nextID
	l.Status = model.StatusActive
	l.CreatedAt = time.Now()
	cp := *l
	r.listings[l.ID] = &cp
	return nil
}

func (r *fakeListingRepo) List(_ context.Context, kind model.ListingKind) ([]model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Listing
	for _, l := range r.listings {
		if l.Kind == kind {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) Cancel(_ context.Context, kind model.ListingKind, listingID, sellerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[listingID]
	if !ok || l.Kind != kind || l.SellerID != sellerID || l.Status != model.StatusActive {
		return repository.ErrListingNotFound
	}
	l.Status = model.StatusCancelled
	return nil
}

func (r *fakeListingRepo) Accept(_ context.Context, kind model.ListingKind, listingID, buyerID int64, buyerMessage, messageBody string) (*repository.AcceptResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[listingID]
	if !ok || l.Kind != kind || l.Status != model.StatusActive {
		return nil, repository.ErrListingUnavailable
	}
	if l.SellerID == buyerID {
		return nil, repository.ErrSellerIsBuyer
	}
	l.Status = model.StatusAccepted
	l.AcceptedByID = &buyerID
	l.BuyerMessage = buyerMessage

	txn := model.Transaction{
		ID:        int64(len(r.txns) + 1),
		Kind:      kind,
		ListingID: listingID,
		SellerID:  l.SellerID,
		BuyerID:   buyerID,
		CreatedAt: time.Now(),
	}
	r.txns = append(r.txns, txn)

	threadID, ok := r.threads[listingID]
	if !ok {
		threadID = int64(len(r.threads) + 1)
		r.threads[listingID] = threadID
	}
	r.messages = append(r.messages, messageBody)

	return &repository.AcceptResult{Transaction: txn, ThreadID: threadID, SellerID: l.SellerID}, nil
}

func (r *fakeListingRepo) ListTransactions(_ context.Context) ([]model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Transaction(nil), r.txns...), nil
}

// fakeThreadRepo holds threads and messages in memory.
type fakeThreadRepo struct {
	mu       sync.Mutex
	threads  map[int64]*model.Thread
	messages map[int64][]model.Message
	nextMsg  int64
}

func newFakeThreadRepo() *fakeThreadRepo {
	return &fakeThreadRepo{
		threads:  make(map[int64]*model.Thread),
		messages: make(map[int64][]model.Message),
	}
}

func (r *fakeThreadRepo) addThread(t *model.Thread) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.threads[t.ID] = t
}

func (r *fakeThreadRepo) GetThread(_ context.Context, threadID int64) (*model.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.threads[threadID]
	if !ok {
		return nil, repository.ErrThreadNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeThreadRepo) ListThreadsForUser(_ context.Context, userID int64) ([]model.ThreadSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ThreadSummary
	for _, t := range r.threads {
		if t.Involves(userID) {
			out = append(out, model.ThreadSummary{ID: t.ID, Kind: t.Kind})
		}
	}
	return out, nil
}

func (r *fakeThreadRepo) ListMessages(_ context.Context, threadID int64) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Message(nil), r.messages[threadID]...), nil
}

func (r *fakeThreadRepo) CreateMessage(_ context.Context, threadID, senderID int64, body string) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextMsg++
	m := model.Message{
		ID:        r.nextMsg,
		ThreadID:  threadID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: time.Now(),
	}
	r.messages[threadID] = append(r.messages[threadID], m)
	return &m, nil
}

func (r *fakeThreadRepo) ListAllMessages(_ context.Context, limit int) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Message
	for _, msgs := range r.messages {
		out = append(out, msgs...)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeUsageRepo is an in-memory append-only ledger. Entries are stamped
// with the injected clock when set, so tests can pin the ISO week.
type fakeUsageRepo struct {
	mu      sync.Mutex
	now     func() time.Time
	entries []model.UsageAdjustment
}

func (r *fakeUsageRepo) Append(_ context.Context, userID int64, delta int, note string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	at := time.Now()
	if r.now != nil {
		at = r.now()
	}
	r.entries = append(r.entries, model.UsageAdjustment{
		ID:             int64(len(r.entries) + 1),
		UserID:         userID,
		MealsUsedDelta: delta,
		Note:           note,
		At:             at,
	})
	return nil
}

func (r *fakeUsageRepo) ListForUser(_ context.Context, userID int64) ([]model.UsageAdjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.UsageAdjustment
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeUsageRepo) ListAll(_ context.Context) ([]model.UsageAdjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.UsageAdjustment(nil), r.entries...), nil
}

// fakeCommentRepo stores comments in memory, newest last.
type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []model.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, c *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = int64(len(r.comments) + 1)
	c.CreatedAt = time.Now()
	r.comments = append(r.comments, *c)
	return nil
}

func (r *fakeCommentRepo) List(_ context.Context, university string, limit int) ([]model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Comment
	for _, c := range r.comments {
		if university == "" || c.University == university {
			out = append(out, c)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeActivityRepo records audit actions for assertions.
type fakeActivityRepo struct {
	mu      sync.Mutex
	actions []string
}

func (r *fakeActivityRepo) Record(_ context.Context, _ *int64, action, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
	return nil
}

func (r *fakeActivityRepo) ListRecent(_ context.Context, _ int) ([]model.Activity, error) {
	return nil, nil
}

// fakePublisher captures published payloads.
type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *fakePublisher) Publish(_ context.Context, _ string, payload []byte) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return "", nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}
