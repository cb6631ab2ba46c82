package testinfra

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskquest/internal/models"
	"taskquest/internal/scoring"
)

// MemStore is an in-memory stand-in for the PostgreSQL store. Transactions
// run under a single mutex and stage their writes until commit.
type MemStore struct {
	mu       sync.Mutex
	nextID   int
	accounts map[int]models.Account
	tasks    map[string]models.Task

	// FailSave, when set, is returned by SaveCompletion to exercise rollback.
	FailSave error
	// FailPing, when set, is returned by DBTime.
	FailPing error
}

func NewMemStore() *MemStore {
	return &MemStore{
		accounts: map[int]models.Account{},
		tasks:    map[string]models.Task{},
	}
}

// Accounts returns the account view of the store.
func (m *MemStore) Accounts() *MemAccounts { return &MemAccounts{m: m} }

// Tasks returns the task view of the store.
func (m *MemStore) Tasks() *MemTasks { return &MemTasks{m: m} }

func (m *MemStore) DBTime(ctx context.Context) (time.Time, error) {
	if m.FailPing != nil {
		return time.Time{}, models.NewStorageError("db time", m.FailPing)
	}
	return time.Now().UTC(), nil
}

// Account returns a snapshot of the stored account, for assertions.
func (m *MemStore) Account(id int) (models.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if ok {
		a.Stats = a.Stats.Clone()
	}
	return a, ok
}

// Task returns a snapshot of the stored task, for assertions.
func (m *MemStore) Task(id string) (models.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	return t, ok
}

// SetProgress overwrites an account's progression fields.
func (m *MemStore) SetProgress(id, totalPoints, level int, stats models.Stats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.accounts[id]
	a.TotalPoints = totalPoints
	a.CurrentLevel = level
	a.Stats = stats.Clone()
	m.accounts[id] = a
}

// InTx implements scoring.Transactor.
func (m *MemStore) InTx(ctx context.Context, fn func(uow scoring.UnitOfWork) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	uow := &memUnit{m: m}
	if err := fn(uow); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return models.NewStorageError("commit", err)
	}
	if uow.account != nil {
		m.accounts[uow.account.ID] = *uow.account
	}
	if uow.task != nil {
		m.tasks[uow.task.ID] = *uow.task
	}
	return nil
}

type memUnit struct {
	m       *MemStore
	account *models.Account
	task    *models.Task
}

func (u *memUnit) LockAccount(ctx context.Context, id int) (*models.Account, error) {
	a, ok := u.m.accounts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	a.Stats = a.Stats.Clone()
	return &a, nil
}

func (u *memUnit) LockTask(ctx context.Context, id string) (*models.Task, error) {
	t, ok := u.m.tasks[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &t, nil
}

func (u *memUnit) SaveCompletion(ctx context.Context, task *models.Task, account *models.Account) error {
	if u.m.FailSave != nil {
		return models.NewStorageError("save completion", u.m.FailSave)
	}
	t := *task
	a := *account
	a.Stats = a.Stats.Clone()
	u.task = &t
	u.account = &a
	return nil
}

// MemAccounts is the account half of MemStore.
type MemAccounts struct{ m *MemStore }

func (r *MemAccounts) Create(ctx context.Context, email, passwordHash string) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, a := range r.m.accounts {
		if a.Email == email {
			return 0, models.ErrConflict
		}
	}
	r.m.nextID++
	id := r.m.nextID
	r.m.accounts[id] = models.Account{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		CurrentLevel: 1,
		Stats:        models.NewStats(),
	}
	return id, nil
}

func (r *MemAccounts) Get(ctx context.Context, id int) (*models.Account, error) {
	a, ok := r.m.Account(id)
	if !ok {
		return nil, models.ErrNotFound
	}
	return &a, nil
}

func (r *MemAccounts) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, a := range r.m.accounts {
		if a.Email == email {
			a.Stats = a.Stats.Clone()
			return &a, nil
		}
	}
	return nil, models.ErrNotFound
}

// Delete removes an account and its tasks.
func (r *MemAccounts) Delete(ctx context.Context, id int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.accounts[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.m.accounts, id)
	for tid, t := range r.m.tasks {
		if t.UserID == id {
			delete(r.m.tasks, tid)
		}
	}
	return nil
}

// MemTasks is the task half of MemStore.
type MemTasks struct{ m *MemStore }

func (r *MemTasks) Create(ctx context.Context, task *models.Task) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.tasks[task.ID]; ok {
		return models.ErrConflict
	}
	if _, ok := r.m.accounts[task.UserID]; !ok {
		return models.ErrNotFound
	}
	r.m.tasks[task.ID] = *task
	return nil
}

func (r *MemTasks) Get(ctx context.Context, id string) (*models.Task, error) {
	t, ok := r.m.Task(id)
	if !ok {
		return nil, models.ErrNotFound
	}
	return &t, nil
}

func (r *MemTasks) ListByOwner(ctx context.Context, ownerID int) ([]models.Task, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Task{}
	for _, t := range r.m.tasks {
		if t.UserID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return !out[i].Completed
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *MemTasks) Delete(ctx context.Context, id string, ownerID int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.tasks[id]
	if !ok || t.UserID != ownerID {
		return models.ErrNotFound
	}
	delete(r.m.tasks, id)
	return nil
}
