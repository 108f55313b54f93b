package withdrawals

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/asospay/rewards_platform/internal/ledger"
	"github.com/asospay/rewards_platform/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// memStore backs both the request store and the account store so that
// Transact can roll both back together, the way the database transaction
// does in production.
type memStore struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	profiles map[string]*models.Profile
	requests map[uint]*models.WithdrawalRequest
	nextID   uint
}

func newMemStore(profiles ...*models.Profile) *memStore {
	m := &memStore{
		profiles: make(map[string]*models.Profile),
		requests: make(map[uint]*models.WithdrawalRequest),
	}
	for _, p := range profiles {
		m.profiles[p.UserID] = p
	}
	return m
}

func (m *memStore) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) SwapWallet(_ context.Context, userID string, old, newBalance decimal.Decimal) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok || !p.Wallet.Equal(old) {
		return false, nil
	}
	p.Wallet = newBalance
	return true, nil
}

func (m *memStore) SwapCommission(_ context.Context, userID string, old, newBalance decimal.Decimal) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok || !p.WithdrawableCommission.Equal(old) {
		return false, nil
	}
	p.WithdrawableCommission = newBalance
	return true, nil
}

func (m *memStore) Insert(_ context.Context, w *models.WithdrawalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	w.ID = m.nextID
	w.CreatedAt = time.Now()
	cp := *w
	m.requests[w.ID] = &cp
	return nil
}

func (m *memStore) GetByID(_ context.Context, id uint) (*models.WithdrawalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *memStore) ListByUser(_ context.Context, userID string) ([]models.WithdrawalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.WithdrawalRequest
	for _, w := range m.requests {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) ListAll(_ context.Context) ([]models.WithdrawalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.WithdrawalRequest
	for _, w := range m.requests {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) MarkCompleted(_ context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.requests[id]
	if !ok || w.Status != models.WithdrawalPending {
		return false, nil
	}
	w.Status = models.WithdrawalCompleted
	return true, nil
}

func (m *memStore) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	profileSnap := make(map[string]*models.Profile, len(m.profiles))
	for k, v := range m.profiles {
		cp := *v
		profileSnap[k] = &cp
	}
	requestSnap := make(map[uint]*models.WithdrawalRequest, len(m.requests))
	for k, v := range m.requests {
		cp := *v
		requestSnap[k] = &cp
	}
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.profiles = profileSnap
		m.requests = requestSnap
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) commission(userID string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[userID].WithdrawableCommission
}

func (m *memStore) status(id uint) models.WithdrawalStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[id].Status
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func profileWithCommission(userID, commission string) *models.Profile {
	return &models.Profile{
		UserID:                 userID,
		Wallet:                 decimal.Zero,
		WithdrawableCommission: dec(commission),
	}
}

func newWorkflow(store *memStore) *Workflow {
	engine := ledger.NewEngine(store, zap.NewNop())
	return NewWorkflow(store, store, engine, zap.NewNop())
}

var payout = Payout{FullName: "Ama Mensah", Method: "momo", RecipientDetails: "0244000000"}

func TestSubmit_BelowMinimumThreshold(t *testing.T) {
	store := newMemStore(profileWithCommission("u1", "164.99"))
	w := newWorkflow(store)

	_, err := w.Submit(context.Background(), "u1", dec("100"), payout)
	assert.ErrorIs(t, err, ErrBelowMinimumThreshold)
}

func TestSubmit_AtMinimumThreshold(t *testing.T) {
	store := newMemStore(profileWithCommission("u1", "165.00"))
	w := newWorkflow(store)

	req, err := w.Submit(context.Background(), "u1", dec("165"), payout)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalPending, req.Status)
	assert.NotEmpty(t, req.Reference)
}

func TestSubmit_ExceedsBalance(t *testing.T) {
	store := newMemStore(profileWithCommission("u1", "200"))
	w := newWorkflow(store)

	_, err := w.Submit(context.Background(), "u1", dec("250"), payout)
	assert.ErrorIs(t, err, ErrExceedsBalance)
}

func TestSubmit_InvalidAmount(t *testing.T) {
	store := newMemStore(profileWithCommission("u1", "200"))
	w := newWorkflow(store)

	_, err := w.Submit(context.Background(), "u1", decimal.Zero, payout)
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
}

func TestSubmit_AccountNotFound(t *testing.T) {
	w := newWorkflow(newMemStore())

	_, err := w.Submit(context.Background(), "missing", dec("170"), payout)
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestSubmit_DoesNotDebitOrReserve(t *testing.T) {
	store := newMemStore(profileWithCommission("u1", "200"))
	w := newWorkflow(store)

	// several pending requests may jointly exceed the balance; enforcement
	// happens per request at approval time
	_, err := w.Submit(context.Background(), "u1", dec("150"), payout)
	require.NoError(t, err)
	_, err = w.Submit(context.Background(), "u1", dec("150"), payout)
	require.NoError(t, err)

	assert.True(t, store.commission("u1").Equal(dec("200")))
}

func TestApprove_DebitsAndCompletes(t *testing.T) {
	store := newMemStore(profileWithCommission("u1", "200"))
	w := newWorkflow(store)

	req, err := w.Submit(context.Background(), "u1", dec("150"), payout)
	require.NoError(t, err)

	approved, newBalance, err := w.Approve(context.Background(), req.ID, "u1", dec("150"))
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalCompleted, approved.Status)
	assert.True(t, newBalance.Equal(dec("50")))
	assert.True(t, store.commission("u1").Equal(dec("50")))
}

func TestApprove_SecondApprovalFails(t *testing.T) {
	store := newMemStore(profileWithCommission("u1", "200"))
	w := newWorkflow(store)

	req, err := w.Submit(context.Background(), "u1", dec("150"), payout)
	require.NoError(t, err)

	_, _, err = w.Approve(context.Background(), req.ID, "u1", dec("150"))
	require.NoError(t, err)

	_, _, err = w.Approve(context.Background(), req.ID, "u1", dec("150"))
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.True(t, store.commission("u1").Equal(dec("50")), "double approval must not double-debit")
}

func TestApprove_InsufficientFundsLeavesRequestPending(t *testing.T) {
	store := newMemStore(profileWithCommission("u1", "50"))
	// pending request for more than the current balance, inserted directly
	// since submission-time checks would reject it now
	req := &models.WithdrawalRequest{UserID: "u1", Amount: dec("80"), Status: models.WithdrawalPending}
	require.NoError(t, store.Insert(context.Background(), req))

	w := newWorkflow(store)

	_, _, err := w.Approve(context.Background(), req.ID, "u1", dec("80"))
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	assert.Equal(t, models.WithdrawalPending, store.status(req.ID))
	assert.True(t, store.commission("u1").Equal(dec("50")))
}

func TestApprove_MismatchedCallerValues(t *testing.T) {
	store := newMemStore(profileWithCommission("u1", "200"), profileWithCommission("u2", "200"))
	w := newWorkflow(store)

	req, err := w.Submit(context.Background(), "u1", dec("150"), payout)
	require.NoError(t, err)

	_, _, err = w.Approve(context.Background(), req.ID, "u2", dec("150"))
	assert.ErrorIs(t, err, ErrRequestMismatch)

	_, _, err = w.Approve(context.Background(), req.ID, "u1", dec("151"))
	assert.ErrorIs(t, err, ErrRequestMismatch)

	assert.Equal(t, models.WithdrawalPending, store.status(req.ID))
	assert.True(t, store.commission("u1").Equal(dec("200")))
}

func TestApprove_UnknownRequest(t *testing.T) {
	store := newMemStore(profileWithCommission("u1", "200"))
	w := newWorkflow(store)

	_, _, err := w.Approve(context.Background(), 999, "u1", dec("150"))
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestApprove_ConcurrentDuplicatesDebitOnce(t *testing.T) {
	store := newMemStore(profileWithCommission("u1", "400"))
	w := newWorkflow(store)

	req, err := w.Submit(context.Background(), "u1", dec("150"), payout)
	require.NoError(t, err)

	const n = 5
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := w.Approve(context.Background(), req.ID, "u1", dec("150"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyCompleted)
		}
	}
	assert.Equal(t, 1, successes)
	assert.True(t, store.commission("u1").Equal(dec("250")))
}

func TestListByUser_NewestFirst(t *testing.T) {
	store := newMemStore(profileWithCommission("u1", "500"))
	w := newWorkflow(store)

	first, err := w.Submit(context.Background(), "u1", dec("170"), payout)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := w.Submit(context.Background(), "u1", dec("180"), payout)
	require.NoError(t, err)

	list, err := w.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}
