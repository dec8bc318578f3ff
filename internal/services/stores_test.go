package services

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"couple-space-backend/internal/models"
	"couple-space-backend/internal/repository"
)

// In-memory stores used by the service tests. They mirror the repository
// contracts, including repository.ErrNotFound for missing rows.

type memUsers struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	listErr error
}

func newMemUsers(users ...*models.User) *memUsers {
	m := &memUsers{byID: make(map[string]*models.User)}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.PartnerID != nil {
		p := *u.PartnerID
		c.PartnerID = &p
	}
	return &c
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	m.byID[user.ID] = cloneUser(user)
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) ListWithAnniversary(_ context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.User
	for _, u := range m.byID {
		if u.AnniversaryDate != nil {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// memPairs links users inside a memUsers. Like the SQL guard, a row linked
// to someone else is never overwritten. beforeLink runs ahead of the write
// so tests can interleave a competing link.
type memPairs struct {
	users      *memUsers
	calls      int
	beforeLink func()
}

func (p *memPairs) Link(_ context.Context, userID, partnerID string) error {
	if p.beforeLink != nil {
		hook := p.beforeLink
		p.beforeLink = nil
		hook()
	}

	p.users.mu.Lock()
	defer p.users.mu.Unlock()
	p.calls++
	a, ok := p.users.byID[userID]
	if !ok {
		return repository.ErrNotFound
	}
	b, ok := p.users.byID[partnerID]
	if !ok {
		return repository.ErrNotFound
	}
	if (a.PartnerID != nil && *a.PartnerID != b.ID) || (b.PartnerID != nil && *b.PartnerID != a.ID) {
		return repository.ErrConflict
	}
	aID, bID := a.ID, b.ID
	a.PartnerID = &bID
	b.PartnerID = &aID
	return nil
}

type memLetters struct {
	byID map[string]*models.Letter
}

func newMemLetters() *memLetters { return &memLetters{byID: make(map[string]*models.Letter)} }

func (m *memLetters) Create(_ context.Context, l *models.Letter) error {
	m.byID[l.ID] = l
	return nil
}

func (m *memLetters) GetByID(_ context.Context, id string) (*models.Letter, error) {
	l, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return l, nil
}

func (m *memLetters) ListForUsers(_ context.Context, userIDs []string) ([]*models.Letter, error) {
	var out []*models.Letter
	for _, l := range m.byID {
		if contains(userIDs, l.FromUserID) || contains(userIDs, l.ToUserID) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLetters) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memMoods struct {
	rows []*models.Mood
}

func (m *memMoods) Create(_ context.Context, mood *models.Mood) error {
	m.rows = append(m.rows, mood)
	return nil
}

func (m *memMoods) ListByUsers(_ context.Context, userIDs []string) ([]*models.Mood, error) {
	var out []*models.Mood
	for i := len(m.rows) - 1; i >= 0; i-- {
		if contains(userIDs, m.rows[i].UserID) {
			out = append(out, m.rows[i])
		}
	}
	return out, nil
}

func (m *memMoods) Latest(_ context.Context, userID string) (*models.Mood, error) {
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].UserID == userID {
			return m.rows[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

type memPhotos struct {
	byID map[string]*models.Photo
}

func newMemPhotos() *memPhotos { return &memPhotos{byID: make(map[string]*models.Photo)} }

func (m *memPhotos) Create(_ context.Context, p *models.Photo) error {
	c := *p
	m.byID[p.ID] = &c
	return nil
}

func (m *memPhotos) GetByID(_ context.Context, id string) (*models.Photo, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (m *memPhotos) ListByUploaders(_ context.Context, userIDs []string) ([]*models.Photo, error) {
	var out []*models.Photo
	for _, p := range m.byID {
		if contains(userIDs, p.UploadedBy) {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memPhotos) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memBlobs struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (b *memBlobs) Put(_ context.Context, key string, data []byte, contentType string) error {
	b.objects[key] = data
	b.types[key] = contentType
	return nil
}

func (b *memBlobs) URL(_ context.Context, key string) (string, error) {
	return "https://blobs.test/" + key, nil
}

func (b *memBlobs) Delete(_ context.Context, key string) error {
	delete(b.objects, key)
	return nil
}

// memQuestions enforces one question per date like the unique constraint
type memQuestions struct {
	mu     sync.Mutex
	byDate map[string]*models.Question
	order  []string
}

func newMemQuestions() *memQuestions { return &memQuestions{byDate: make(map[string]*models.Question)} }

func (m *memQuestions) CreateIfAbsent(_ context.Context, q *models.Question) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byDate[q.Date]; ok {
		return false, nil
	}
	c := *q
	m.byDate[q.Date] = &c
	m.order = append(m.order, q.Date)
	return true, nil
}

func (m *memQuestions) GetByDate(_ context.Context, date string) (*models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.byDate[date]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *q
	return &c, nil
}

func (m *memQuestions) GetByID(_ context.Context, id string) (*models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.byDate {
		if q.ID == id {
			c := *q
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memQuestions) ListRecent(_ context.Context, limit int) ([]*models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dates := append([]string(nil), m.order...)
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > limit {
		dates = dates[:limit]
	}
	out := make([]*models.Question, 0, len(dates))
	for _, d := range dates {
		c := *m.byDate[d]
		out = append(out, &c)
	}
	return out, nil
}

type memAnswers struct {
	rows []*models.Answer
}

func (m *memAnswers) Upsert(_ context.Context, a *models.Answer) (*models.Answer, error) {
	for _, row := range m.rows {
		if row.QuestionID == a.QuestionID && row.UserID == a.UserID {
			row.AnswerText = a.AnswerText
			c := *row
			return &c, nil
		}
	}
	c := *a
	m.rows = append(m.rows, &c)
	return a, nil
}

func (m *memAnswers) ListByQuestion(_ context.Context, questionID string, userIDs []string) ([]*models.Answer, error) {
	var out []*models.Answer
	for _, row := range m.rows {
		if row.QuestionID == questionID && contains(userIDs, row.UserID) {
			out = append(out, row)
		}
	}
	return out, nil
}

// memNotifications enforces uniqueness of (user_id, type, date, message)
type memNotifications struct {
	mu      sync.Mutex
	rows    []*models.Notification
	failFor string
}

func (m *memNotifications) Exists(_ context.Context, userID, notifType, date, message string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if userID == m.failFor {
		return false, errStoreDown
	}
	for _, n := range m.rows {
		if n.UserID == userID && n.Type == notifType && n.Date == date && n.Message == message {
			return true, nil
		}
	}
	return false, nil
}

func (m *memNotifications) CreateIfAbsent(_ context.Context, n *models.Notification) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.UserID == n.UserID && row.Type == n.Type && row.Date == n.Date && row.Message == n.Message {
			return false, nil
		}
	}
	c := *n
	m.rows = append(m.rows, &c)
	return true, nil
}

func (m *memNotifications) GetByID(_ context.Context, id string) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.rows {
		if n.ID == id {
			c := *n
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memNotifications) ListByUser(_ context.Context, userID string, limit int) ([]*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Notification
	for i := len(m.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if m.rows[i].UserID == userID {
			c := *m.rows[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memNotifications) MarkRead(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.rows {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memNotifications) CountUnread(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, n := range m.rows {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *memNotifications) forUser(userID string) []*models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Notification
	for _, n := range m.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// memCache is a map-backed Cache with SetNX lock semantics
type memCache struct {
	mu      sync.Mutex
	values  map[string][]byte
	lockErr error
}

func newMemCache() *memCache { return &memCache{values: make(map[string][]byte)} }

func (c *memCache) GetJSON(_ context.Context, key string, dst any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.values[key]
	if !ok {
		return errCacheMiss
	}
	return json.Unmarshal(raw, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = raw
	return nil
}

func (c *memCache) TryLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lockErr != nil {
		return false, c.lockErr
	}
	if _, ok := c.values[key]; ok {
		return false, nil
	}
	c.values[key] = []byte("1")
	return true, nil
}

func (c *memCache) Unlock(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

type storeError string

func (e storeError) Error() string { return string(e) }

const errStoreDown = storeError("store unavailable")

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func strPtr(s string) *string { return &s }

func mustDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func principalOf(u *models.User) models.Principal {
	return models.PrincipalFromUser(u)
}
