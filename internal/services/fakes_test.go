package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/models"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/utils"
)

// In-memory stand-ins for the Redis/Mongo repositories so service
// behavior can be exercised without live stores.

type fakePendingCodeRepo struct {
	mu    sync.Mutex
	codes map[string]*models.PendingCode
}

func newFakePendingCodeRepo() *fakePendingCodeRepo {
	return &fakePendingCodeRepo{codes: map[string]*models.PendingCode{}}
}

func (r *fakePendingCodeRepo) Save(_ context.Context, phone string, code *models.PendingCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *code
	r.codes[phone] = &c
	return nil
}

func (r *fakePendingCodeRepo) Get(_ context.Context, phone string) (*models.PendingCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[phone]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakePendingCodeRepo) Delete(_ context.Context, phone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, phone)
	return nil
}

func (r *fakePendingCodeRepo) stored(phone string) *models.PendingCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.codes[phone]
}

func (r *fakePendingCodeRepo) expire(phone string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.codes[phone]; ok {
		c.ExpiresAt = time.Now().Add(-1 * time.Second)
	}
}

type fakeVerifiedPhoneRepo struct {
	mu      sync.Mutex
	upserts map[string]int
	data    map[string]map[string]any
	err     error
	delay   time.Duration
}

func newFakeVerifiedPhoneRepo() *fakeVerifiedPhoneRepo {
	return &fakeVerifiedPhoneRepo{
		upserts: map[string]int{},
		data:    map[string]map[string]any{},
	}
}

func (r *fakeVerifiedPhoneRepo) Upsert(_ context.Context, phone string, browserData map[string]any, _ time.Time) error {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.upserts[phone]++
	r.data[phone] = browserData
	return nil
}

func (r *fakeVerifiedPhoneRepo) Get(_ context.Context, phone string) (*models.VerifiedPhone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upserts[phone] == 0 {
		return nil, nil
	}
	return &models.VerifiedPhone{PhoneNumber: phone, BrowserData: r.data[phone]}, nil
}

func (r *fakeVerifiedPhoneRepo) upsertCount(phone string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upserts[phone]
}

type fakeSMSSender struct {
	mu   sync.Mutex
	sent []string // bodies, in order
	to   []string
	err  error
}

func (s *fakeSMSSender) Send(_ context.Context, to, body string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, body)
	s.to = append(s.to, to)
	return "SM_fake", nil
}

func (s *fakeSMSSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type fakeRateLimiter struct {
	limited bool
}

func (l *fakeRateLimiter) CheckSMSRateLimits(_ context.Context, _, _ string) error {
	if l.limited {
		return utils.ErrRateLimitExceeded
	}
	return nil
}

type fakeTransactionRepo struct {
	mu        sync.Mutex
	txns      map[string]*models.Transaction
	insertErr error
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{txns: map[string]*models.Transaction{}}
}

func (r *fakeTransactionRepo) FindLatestUnpaidSince(_ context.Context, phone string, since time.Time) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *models.Transaction
	for _, t := range r.txns {
		if t.PhoneNumber != phone || t.PaymentReceived || t.CreatedAt.Before(since) {
			continue
		}
		if best == nil || t.CreatedAt.After(best.CreatedAt) {
			best = t
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (r *fakeTransactionRepo) Insert(_ context.Context, txn *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	if _, exists := r.txns[txn.TransactionID]; exists {
		return errors.New("duplicate key")
	}
	cp := *txn
	r.txns[txn.TransactionID] = &cp
	return nil
}

func (r *fakeTransactionRepo) UpdateQRGeneration(_ context.Context, transactionID string, amount float64, browserData map[string]any, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[transactionID]
	if !ok {
		return utils.ErrTransactionNotFound
	}
	t.Amount = amount
	t.BrowserData = browserData
	t.LastQRGenAt = now
	t.UpdatedAt = now
	return nil
}

func (r *fakeTransactionRepo) TouchQRTimestamp(_ context.Context, transactionID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[transactionID]
	if !ok {
		return utils.ErrTransactionNotFound
	}
	t.LastQRGenAt = now
	t.UpdatedAt = now
	return nil
}

func (r *fakeTransactionRepo) Get(_ context.Context, transactionID string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[transactionID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTransactionRepo) DeleteStaleUnpaid(_ context.Context, olderThan time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, t := range r.txns {
		if !t.PaymentReceived && t.CreatedAt.Before(olderThan) {
			delete(r.txns, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeTransactionRepo) markPaid(transactionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.txns[transactionID]; ok {
		t.PaymentReceived = true
	}
}

func (r *fakeTransactionRepo) backdate(transactionID string, createdAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.txns[transactionID]; ok {
		t.CreatedAt = createdAt
	}
}
