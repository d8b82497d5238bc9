package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/retroclock/retroclock-backend/internal/logger"
	"github.com/retroclock/retroclock-backend/internal/types"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// testClock is a manually stepped epoch-ms clock wired into the services'
// nowMs hook so pause arithmetic is deterministic.
type testClock struct {
	mu sync.Mutex
	ms int64
}

func newTestClock(startMs int64) *testClock {
	return &testClock{ms: startMs}
}

func (c *testClock) nowMs() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ms
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	c.ms += d.Milliseconds()
	c.mu.Unlock()
}

// fakeWorklogRepo is an in-memory WorklogRepo with the same guarded-update
// semantics as the SQL implementation. beforeGuarded, when set, runs just
// before every guarded update so a test can race a conflicting transition in
// between load and update.
type fakeWorklogRepo struct {
	mu            sync.Mutex
	records       map[uuid.UUID]*types.Worklog
	beforeGuarded func()
}

func newFakeWorklogRepo() *fakeWorklogRepo {
	return &fakeWorklogRepo{records: make(map[uuid.UUID]*types.Worklog)}
}

func copyWorklog(w *types.Worklog) *types.Worklog {
	cp := *w
	if w.PauseStartTime != nil {
		ms := *w.PauseStartTime
		cp.PauseStartTime = &ms
	}
	if w.ProjectID != nil {
		id := *w.ProjectID
		cp.ProjectID = &id
	}
	return &cp
}

func applyWorklogFields(w *types.Worklog, fields map[string]interface{}) {
	for k, v := range fields {
		switch k {
		case "status":
			w.Status = v.(types.WorklogStatus)
		case "pause_start_time":
			if v == nil {
				w.PauseStartTime = nil
			} else {
				ms := v.(int64)
				w.PauseStartTime = &ms
			}
		case "start_time":
			w.StartTime = v.(int64)
		case "end_time":
			w.EndTime = v.(int64)
		case "duration":
			w.Duration = v.(int64)
		case "total_paused_time":
			w.TotalPausedTime = v.(int64)
		case "company_id":
			w.CompanyID = v.(uuid.UUID)
		case "project_id":
			if p, ok := v.(*uuid.UUID); ok {
				w.ProjectID = p
			} else {
				w.ProjectID = nil
			}
		case "description":
			w.Description = v.(string)
		case "source":
			w.Source = v.(types.WorklogSource)
		}
	}
}

func (fr *fakeWorklogRepo) get(worklogID uuid.UUID) *types.Worklog {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	w, ok := fr.records[worklogID]
	if !ok {
		return nil
	}
	return copyWorklog(w)
}

func (fr *fakeWorklogRepo) Create(ctx context.Context, tx *gorm.DB, worklog *types.Worklog) (*types.Worklog, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if worklog.ID == uuid.Nil {
		worklog.ID = uuid.New()
	}
	fr.records[worklog.ID] = copyWorklog(worklog)
	return worklog, nil
}

func (fr *fakeWorklogRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, worklogID uuid.UUID) (*types.Worklog, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	w, ok := fr.records[worklogID]
	if !ok || w.UserID != userID {
		return nil, nil
	}
	return copyWorklog(w), nil
}

func (fr *fakeWorklogRepo) GetActiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Worklog, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	for _, w := range fr.records {
		if w.UserID == userID && w.IsActive() {
			return copyWorklog(w), nil
		}
	}
	return nil, nil
}

func (fr *fakeWorklogRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Worklog, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	var out []*types.Worklog
	for _, w := range fr.records {
		if w.IsActive() {
			out = append(out, copyWorklog(w))
		}
	}
	return out, nil
}

func (fr *fakeWorklogRepo) ListCompletedByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromMs, toMs int64) ([]*types.Worklog, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	var out []*types.Worklog
	for _, w := range fr.records {
		if w.UserID != userID || w.Status != types.WorklogCompleted {
			continue
		}
		if fromMs > 0 && w.StartTime < fromMs {
			continue
		}
		if toMs > 0 && w.StartTime >= toMs {
			continue
		}
		out = append(out, copyWorklog(w))
	}
	// Newest first, mirroring the SQL ordering.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].StartTime > out[i].StartTime {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (fr *fakeWorklogRepo) UpdateGuarded(ctx context.Context, tx *gorm.DB, worklogID uuid.UUID, fromStatuses []types.WorklogStatus, fields map[string]interface{}) (bool, error) {
	if fr.beforeGuarded != nil {
		fr.beforeGuarded()
	}
	fr.mu.Lock()
	defer fr.mu.Unlock()
	w, ok := fr.records[worklogID]
	if !ok {
		return false, nil
	}
	matched := false
	for _, s := range fromStatuses {
		if w.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	applyWorklogFields(w, fields)
	return true, nil
}

func (fr *fakeWorklogRepo) AddPausedTimeGuarded(ctx context.Context, tx *gorm.DB, worklogID uuid.UUID, pausedDeltaMs int64, fields map[string]interface{}) (bool, error) {
	if fr.beforeGuarded != nil {
		fr.beforeGuarded()
	}
	fr.mu.Lock()
	defer fr.mu.Unlock()
	w, ok := fr.records[worklogID]
	if !ok || w.Status != types.WorklogPaused {
		return false, nil
	}
	w.TotalPausedTime += pausedDeltaMs
	applyWorklogFields(w, fields)
	return true, nil
}

func (fr *fakeWorklogRepo) UpdateFields(ctx context.Context, tx *gorm.DB, worklogID uuid.UUID, fields map[string]interface{}) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if w, ok := fr.records[worklogID]; ok {
		applyWorklogFields(w, fields)
	}
	return nil
}

func (fr *fakeWorklogRepo) DeleteCompleted(ctx context.Context, tx *gorm.DB, userID, worklogID uuid.UUID) (bool, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	w, ok := fr.records[worklogID]
	if !ok || w.UserID != userID || w.Status != types.WorklogCompleted {
		return false, nil
	}
	delete(fr.records, worklogID)
	return true, nil
}

func (fr *fakeWorklogRepo) CountByCompanyID(ctx context.Context, tx *gorm.DB, userID, companyID uuid.UUID) (int64, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	var n int64
	for _, w := range fr.records {
		if w.UserID == userID && w.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

type fakeCompanyRepo struct {
	companies map[uuid.UUID]*types.Company
}

func newFakeCompanyRepo(companies ...*types.Company) *fakeCompanyRepo {
	m := make(map[uuid.UUID]*types.Company, len(companies))
	for _, c := range companies {
		m[c.ID] = c
	}
	return &fakeCompanyRepo{companies: m}
}

func (fr *fakeCompanyRepo) Create(ctx context.Context, tx *gorm.DB, company *types.Company) (*types.Company, error) {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	fr.companies[company.ID] = company
	return company, nil
}

func (fr *fakeCompanyRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, companyID uuid.UUID) (*types.Company, error) {
	c, ok := fr.companies[companyID]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	return c, nil
}

func (fr *fakeCompanyRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Company, error) {
	var out []*types.Company
	for _, c := range fr.companies {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (fr *fakeCompanyRepo) Update(ctx context.Context, tx *gorm.DB, userID, companyID uuid.UUID, fields map[string]interface{}) error {
	return nil
}

func (fr *fakeCompanyRepo) Delete(ctx context.Context, tx *gorm.DB, userID, companyID uuid.UUID) (bool, error) {
	if _, ok := fr.companies[companyID]; !ok {
		return false, nil
	}
	delete(fr.companies, companyID)
	return true, nil
}

type fakeProjectRepo struct {
	projects map[uuid.UUID]*types.Project
}

func newFakeProjectRepo(projects ...*types.Project) *fakeProjectRepo {
	m := make(map[uuid.UUID]*types.Project, len(projects))
	for _, p := range projects {
		m[p.ID] = p
	}
	return &fakeProjectRepo{projects: m}
}

func (fr *fakeProjectRepo) Create(ctx context.Context, tx *gorm.DB, project *types.Project) (*types.Project, error) {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	fr.projects[project.ID] = project
	return project, nil
}

func (fr *fakeProjectRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, projectID uuid.UUID) (*types.Project, error) {
	p, ok := fr.projects[projectID]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	return p, nil
}

func (fr *fakeProjectRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Project, error) {
	var out []*types.Project
	for _, p := range fr.projects {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (fr *fakeProjectRepo) Update(ctx context.Context, tx *gorm.DB, userID, projectID uuid.UUID, fields map[string]interface{}) error {
	return nil
}

func (fr *fakeProjectRepo) Delete(ctx context.Context, tx *gorm.DB, userID, projectID uuid.UUID) (bool, error) {
	if _, ok := fr.projects[projectID]; !ok {
		return false, nil
	}
	delete(fr.projects, projectID)
	return true, nil
}

type fakeExpenseRepo struct {
	mu         sync.Mutex
	expenses   map[uuid.UUID]*types.Expense
	categories []string
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{expenses: make(map[uuid.UUID]*types.Expense)}
}

func (fr *fakeExpenseRepo) Create(ctx context.Context, tx *gorm.DB, expense *types.Expense) (*types.Expense, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	fr.expenses[expense.ID] = expense
	return expense, nil
}

func (fr *fakeExpenseRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromMs, toMs int64) ([]*types.Expense, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	var out []*types.Expense
	for _, e := range fr.expenses {
		if e.UserID != userID {
			continue
		}
		if fromMs > 0 && e.CreatedAt < fromMs {
			continue
		}
		if toMs > 0 && e.CreatedAt >= toMs {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (fr *fakeExpenseRepo) Delete(ctx context.Context, tx *gorm.DB, userID, expenseID uuid.UUID) (bool, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	e, ok := fr.expenses[expenseID]
	if !ok || e.UserID != userID {
		return false, nil
	}
	delete(fr.expenses, expenseID)
	return true, nil
}

func (fr *fakeExpenseRepo) SeedCategories(ctx context.Context, tx *gorm.DB, names []string) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	for _, name := range names {
		exists := false
		for _, have := range fr.categories {
			if have == name {
				exists = true
				break
			}
		}
		if !exists {
			fr.categories = append(fr.categories, name)
		}
	}
	return nil
}

func (fr *fakeExpenseRepo) ListCategories(ctx context.Context, tx *gorm.DB) ([]*types.ExpenseCategory, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	out := make([]*types.ExpenseCategory, 0, len(fr.categories))
	for _, name := range fr.categories {
		out = append(out, &types.ExpenseCategory{ID: uuid.New(), Name: name})
	}
	return out, nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*types.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*types.Payment)}
}

func (fr *fakePaymentRepo) Create(ctx context.Context, tx *gorm.DB, payment *types.Payment) (*types.Payment, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	fr.payments[payment.ID] = payment
	return payment, nil
}

func (fr *fakePaymentRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromMs, toMs int64) ([]*types.Payment, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	var out []*types.Payment
	for _, p := range fr.payments {
		if p.UserID != userID {
			continue
		}
		if fromMs > 0 && p.CreatedAt < fromMs {
			continue
		}
		if toMs > 0 && p.CreatedAt >= toMs {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (fr *fakePaymentRepo) Delete(ctx context.Context, tx *gorm.DB, userID, paymentID uuid.UUID) (bool, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	p, ok := fr.payments[paymentID]
	if !ok || p.UserID != userID {
		return false, nil
	}
	delete(fr.payments, paymentID)
	return true, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*types.User
}

func newFakeUserRepo(users ...*types.User) *fakeUserRepo {
	m := make(map[uuid.UUID]*types.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (fr *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	fr.users[user.ID] = user
	return user, nil
}

func (fr *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	u, ok := fr.users[userID]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (fr *fakeUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	for _, u := range fr.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (fr *fakeUserRepo) Update(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fields map[string]interface{}) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	u, ok := fr.users[userID]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "pin_hash":
			u.PinHash = v.(string)
		case "preferences":
			u.Preferences = v.(datatypes.JSON)
		case "approved":
			u.Approved = v.(bool)
		}
	}
	return nil
}
