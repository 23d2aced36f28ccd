package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"printcalc/internal/apperrors"
	"printcalc/internal/models"
	"printcalc/internal/redis"
)

// memoryStore is an in-process SessionStore and SessionRegistry.
type memoryStore struct {
	mu       sync.Mutex
	values   map[string][]byte
	sessions map[string]redis.SessionData
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string][]byte{}, sessions: map[string]redis.SessionData{}}
}

func (m *memoryStore) key(sid, key string) string { return sid + ":" + key }

func (m *memoryStore) GetValue(_ context.Context, sid, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.values[m.key(sid, key)]
	if !ok {
		return redis.ErrNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryStore) SetValue(_ context.Context, sid, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[m.key(sid, key)] = raw
	return nil
}

func (m *memoryStore) UpdateValue(_ context.Context, sid, key string, dest interface{}, mutate func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if raw, ok := m.values[m.key(sid, key)]; ok {
		if err := json.Unmarshal(raw, dest); err != nil {
			return err
		}
	}
	if err := mutate(); err != nil {
		return err
	}
	raw, err := json.Marshal(dest)
	if err != nil {
		return err
	}
	m.values[m.key(sid, key)] = raw
	return nil
}

func (m *memoryStore) DeleteValues(_ context.Context, sid string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, m.key(sid, k))
	}
	return nil
}

func (m *memoryStore) has(sid, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[m.key(sid, key)]
	return ok
}

func (m *memoryStore) SetSession(_ context.Context, sid string, data *redis.SessionData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sid] = *data
	return nil
}

func (m *memoryStore) GetSession(_ context.Context, sid string) (*redis.SessionData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sid]
	if !ok {
		return nil, redis.ErrNotFound
	}
	return &s, nil
}

func (m *memoryStore) DeleteSession(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sid)
	return nil
}

// fakeCatalog implements repository.CatalogRepository over maps.
type fakeCatalog struct {
	years    map[uint]*models.AcademicYear
	subjects map[uint]*models.Subject
	books    map[uint]*models.Book
	nextID   uint
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		years:    map[uint]*models.AcademicYear{},
		subjects: map[uint]*models.Subject{},
		books:    map[uint]*models.Book{},
	}
}

func (f *fakeCatalog) id() uint { f.nextID++; return f.nextID }

// seedBook adds a year, a subject and a book in one go.
func (f *fakeCatalog) seedBook(name string, pages int) *models.Book {
	year := &models.AcademicYear{ID: f.id(), Name: "Year " + name, IsActive: true}
	f.years[year.ID] = year
	subject := &models.Subject{ID: f.id(), Name: "Subject " + name, YearID: year.ID, IsActive: true}
	f.subjects[subject.ID] = subject
	book := &models.Book{ID: f.id(), Name: name, PageCount: pages, SubjectID: subject.ID, IsActive: true}
	f.books[book.ID] = book
	return book
}

func (f *fakeCatalog) CreateYear(_ context.Context, y *models.AcademicYear) error {
	for _, existing := range f.years {
		if existing.Name == y.Name {
			return apperrors.Conflict("academic year already exists")
		}
	}
	y.ID = f.id()
	f.years[y.ID] = y
	return nil
}

func (f *fakeCatalog) GetYear(_ context.Context, id uint) (*models.AcademicYear, error) {
	y, ok := f.years[id]
	if !ok {
		return nil, apperrors.NotFound("academic year", id)
	}
	cp := *y
	return &cp, nil
}

func (f *fakeCatalog) ListYears(_ context.Context, activeOnly bool) ([]models.AcademicYear, error) {
	var out []models.AcademicYear
	for _, y := range f.years {
		if !activeOnly || y.IsActive {
			out = append(out, *y)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCatalog) UpdateYear(_ context.Context, y *models.AcademicYear) error {
	cp := *y
	f.years[y.ID] = &cp
	return nil
}

func (f *fakeCatalog) DeleteYear(_ context.Context, id uint) error {
	if _, ok := f.years[id]; !ok {
		return apperrors.NotFound("academic year", id)
	}
	delete(f.years, id)
	for sid, s := range f.subjects {
		if s.YearID == id {
			_ = f.DeleteSubject(context.Background(), sid)
		}
	}
	return nil
}

func (f *fakeCatalog) CreateSubject(_ context.Context, s *models.Subject) error {
	s.ID = f.id()
	f.subjects[s.ID] = s
	return nil
}

func (f *fakeCatalog) GetSubject(_ context.Context, id uint) (*models.Subject, error) {
	s, ok := f.subjects[id]
	if !ok {
		return nil, apperrors.NotFound("subject", id)
	}
	cp := *s
	return &cp, nil
}

func (f *fakeCatalog) ListSubjects(_ context.Context, yearID uint, activeOnly bool) ([]models.Subject, error) {
	var out []models.Subject
	for _, s := range f.subjects {
		if (yearID == 0 || s.YearID == yearID) && (!activeOnly || s.IsActive) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeCatalog) UpdateSubject(_ context.Context, s *models.Subject) error {
	cp := *s
	f.subjects[s.ID] = &cp
	return nil
}

func (f *fakeCatalog) DeleteSubject(_ context.Context, id uint) error {
	if _, ok := f.subjects[id]; !ok {
		return apperrors.NotFound("subject", id)
	}
	delete(f.subjects, id)
	for bid, b := range f.books {
		if b.SubjectID == id {
			delete(f.books, bid)
		}
	}
	return nil
}

func (f *fakeCatalog) CreateBook(_ context.Context, b *models.Book) error {
	b.ID = f.id()
	f.books[b.ID] = b
	return nil
}

func (f *fakeCatalog) GetBook(_ context.Context, id uint) (*models.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, apperrors.NotFound("book", id)
	}
	cp := *b
	return &cp, nil
}

func (f *fakeCatalog) view(b *models.Book) models.BookView {
	s := f.subjects[b.SubjectID]
	y := f.years[s.YearID]
	return models.BookView{
		ID: b.ID, Name: b.Name, PageCount: b.PageCount, IsActive: b.IsActive,
		SubjectID: s.ID, SubjectName: s.Name, YearID: y.ID, YearName: y.Name,
	}
}

func (f *fakeCatalog) GetBookView(_ context.Context, id uint) (*models.BookView, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, apperrors.NotFound("book", id)
	}
	v := f.view(b)
	return &v, nil
}

func (f *fakeCatalog) ListBookViews(_ context.Context, subjectID uint, activeOnly bool) ([]models.BookView, error) {
	var out []models.BookView
	for _, b := range f.books {
		v := f.view(b)
		if subjectID != 0 && b.SubjectID != subjectID {
			continue
		}
		if activeOnly && !(b.IsActive && f.subjects[b.SubjectID].IsActive && f.years[v.YearID].IsActive) {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCatalog) UpdateBook(_ context.Context, b *models.Book) error {
	cp := *b
	f.books[b.ID] = &cp
	return nil
}

func (f *fakeCatalog) DeleteBook(_ context.Context, id uint) error {
	if _, ok := f.books[id]; !ok {
		return apperrors.NotFound("book", id)
	}
	delete(f.books, id)
	return nil
}

func (f *fakeCatalog) Counts(context.Context) (*models.CatalogCounts, error) {
	return &models.CatalogCounts{Years: int64(len(f.years)), Subjects: int64(len(f.subjects)), Books: int64(len(f.books))}, nil
}

// fakePricing implements repository.PricingRepository.
type fakePricing struct {
	tiers  map[uint]*models.PrintingPrice
	addOns map[uint]*models.AddOn
	nextID uint
}

func newFakePricing() *fakePricing {
	return &fakePricing{tiers: map[uint]*models.PrintingPrice{}, addOns: map[uint]*models.AddOn{}}
}

func (f *fakePricing) CreateTier(_ context.Context, t *models.PrintingPrice) error {
	for _, existing := range f.tiers {
		if existing.Name == t.Name {
			return apperrors.Conflict("printing price already exists")
		}
	}
	f.nextID++
	t.ID = f.nextID
	cp := *t
	f.tiers[t.ID] = &cp
	return nil
}

func (f *fakePricing) GetTier(_ context.Context, id uint) (*models.PrintingPrice, error) {
	t, ok := f.tiers[id]
	if !ok {
		return nil, apperrors.NotFound("printing price", id)
	}
	cp := *t
	return &cp, nil
}

func (f *fakePricing) ListTiers(_ context.Context, activeOnly bool) ([]models.PrintingPrice, error) {
	var out []models.PrintingPrice
	for _, t := range f.tiers {
		if !activeOnly || t.IsActive {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePricing) UpdateTier(_ context.Context, t *models.PrintingPrice) error {
	cp := *t
	f.tiers[t.ID] = &cp
	return nil
}

func (f *fakePricing) DeleteTier(_ context.Context, id uint) error {
	if _, ok := f.tiers[id]; !ok {
		return apperrors.NotFound("printing price", id)
	}
	delete(f.tiers, id)
	return nil
}

func (f *fakePricing) CountTiers(context.Context) (int64, error) { return int64(len(f.tiers)), nil }

func (f *fakePricing) CreateAddOn(_ context.Context, a *models.AddOn) error {
	f.nextID++
	a.ID = f.nextID
	cp := *a
	f.addOns[a.ID] = &cp
	return nil
}

func (f *fakePricing) GetAddOn(_ context.Context, id uint) (*models.AddOn, error) {
	a, ok := f.addOns[id]
	if !ok {
		return nil, apperrors.NotFound("add-on", id)
	}
	cp := *a
	return &cp, nil
}

func (f *fakePricing) ListAddOns(_ context.Context, activeOnly bool) ([]models.AddOn, error) {
	var out []models.AddOn
	for _, a := range f.addOns {
		if !activeOnly || a.IsActive {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePricing) UpdateAddOn(_ context.Context, a *models.AddOn) error {
	cp := *a
	f.addOns[a.ID] = &cp
	return nil
}

func (f *fakePricing) DeleteAddOn(_ context.Context, id uint) error {
	if _, ok := f.addOns[id]; !ok {
		return apperrors.NotFound("add-on", id)
	}
	delete(f.addOns, id)
	return nil
}

func (f *fakePricing) CountAddOns(context.Context) (int64, error) { return int64(len(f.addOns)), nil }

// fakeOrders implements repository.OrderRepository.
type fakeOrders struct {
	mu      sync.Mutex
	orders  []*models.Order
	failing error
	// afterCreate runs once an order is stored.
	afterCreate func()
}

func (f *fakeOrders) CreateWithItems(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing != nil {
		return f.failing
	}
	for _, existing := range f.orders {
		if existing.OrderNumber == o.OrderNumber {
			return apperrors.Conflict("order already exists")
		}
	}
	o.ID = uint(len(f.orders) + 1)
	o.CreatedAt = time.Now().Add(time.Duration(o.ID) * time.Millisecond)
	for i := range o.Items {
		o.Items[i].ID = uint(i + 1)
		o.Items[i].OrderID = o.ID
	}
	cp := *o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	f.orders = append(f.orders, &cp)
	if f.afterCreate != nil {
		f.afterCreate()
	}
	return nil
}

func (f *fakeOrders) GetByNumber(_ context.Context, number string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.OrderNumber == number {
			cp := *o
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("order", number)
}

func (f *fakeOrders) List(_ context.Context, status models.OrderStatus, offset, limit int) ([]models.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []models.Order
	for i := len(f.orders) - 1; i >= 0; i-- {
		if status == "" || f.orders[i].Status == status {
			matched = append(matched, *f.orders[i])
		}
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, o *models.Order, from models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.orders {
		if existing.ID == o.ID {
			if existing.Status != from {
				return apperrors.Conflict("order status changed")
			}
			existing.Status = o.Status
			existing.CompletedAt = o.CompletedAt
			existing.EmployeeID = o.EmployeeID
			return nil
		}
	}
	return apperrors.NotFound("order", o.ID)
}

func (f *fakeOrders) Stats(context.Context) (*models.OrderStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var s models.OrderStats
	for _, o := range f.orders {
		s.Total++
		switch o.Status {
		case models.OrderNew:
			s.New++
		case models.OrderInProgress:
			s.InProgress++
		case models.OrderCompleted:
			s.Completed++
		}
	}
	return &s, nil
}

// fakeEmployees implements repository.EmployeeRepository.
type fakeEmployees struct {
	mu        sync.Mutex
	employees map[uint]*models.Employee
	nextID    uint
}

func newFakeEmployees() *fakeEmployees {
	return &fakeEmployees{employees: map[uint]*models.Employee{}}
}

func (f *fakeEmployees) Create(_ context.Context, e *models.Employee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.employees {
		if existing.Username == e.Username {
			return apperrors.Conflict("employee already exists")
		}
	}
	f.nextID++
	e.ID = f.nextID
	cp := *e
	f.employees[e.ID] = &cp
	return nil
}

func (f *fakeEmployees) GetByID(_ context.Context, id uint) (*models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.employees[id]
	if !ok {
		return nil, apperrors.NotFound("employee", id)
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEmployees) GetByUsername(_ context.Context, username string) (*models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.employees {
		if e.Username == username {
			cp := *e
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("employee", username)
}

func (f *fakeEmployees) GetAll(context.Context) ([]models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Employee
	for _, e := range f.employees {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEmployees) Update(_ context.Context, e *models.Employee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *e
	f.employees[e.ID] = &cp
	return nil
}

func (f *fakeEmployees) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.employees[id]; !ok {
		return apperrors.NotFound("employee", id)
	}
	delete(f.employees, id)
	return nil
}

func (f *fakeEmployees) RecordLogin(_ context.Context, id uint, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.employees[id]
	if !ok {
		return apperrors.NotFound("employee", id)
	}
	e.LastLogin = &at
	e.LoginCount++
	return nil
}

func (f *fakeEmployees) CountByRole(_ context.Context, role models.Role) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, e := range f.employees {
		if e.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeEmployees) Summary(_ context.Context, recent int) (*models.EmployeeSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &models.EmployeeSummary{}
	for _, e := range f.employees {
		s.Total++
		if e.IsActive {
			s.Active++
		}
	}
	return s, nil
}

// recordingNotifier remembers what it was asked to send.
type recordingNotifier struct {
	mu        sync.Mutex
	placed    []string
	completed []string
	err       error
}

func (n *recordingNotifier) OrderPlaced(_ context.Context, o *models.Order, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.placed = append(n.placed, o.OrderNumber)
	return n.err
}

func (n *recordingNotifier) OrderCompleted(_ context.Context, o *models.Order, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, o.OrderNumber)
	return n.err
}

func sequentialNumbers(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func testLogger() *zap.Logger { return zap.NewNop() }
