package service

import (
	"context"
	"sort"
	"sync"

	"github.com/socialconnect/social-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories sharing one backing store
// ---------------------------------------------------------------------------

type memDB struct {
	mu       sync.Mutex
	seq      int64
	users    map[int64]*domain.User
	posts    map[int64]*domain.Post
	likes    map[int64]*domain.Like
	comments map[int64]*domain.Comment
}

func newMemDB() *memDB {
	return &memDB{
		users:    make(map[int64]*domain.User),
		posts:    make(map[int64]*domain.Post),
		likes:    make(map[int64]*domain.Like),
		comments: make(map[int64]*domain.Comment),
	}
}

func (db *memDB) nextID() int64 {
	db.seq++
	return db.seq
}

func (db *memDB) repos() Repositories {
	return Repositories{
		Users:    &stubUserRepo{db: db},
		Posts:    &stubPostRepo{db: db},
		Likes:    &stubLikeRepo{db: db},
		Comments: &stubCommentRepo{db: db},
	}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

// newestFirst mirrors ORDER BY created_at DESC, id DESC.
func newestFirst[T any](items []T, key func(T) (int64, int64)) {
	sort.Slice(items, func(i, j int) bool {
		ti, ii := key(items[i])
		tj, ij := key(items[j])
		if ti != tj {
			return ti > tj
		}
		return ii > ij
	})
}

// ---- users ----

type stubUserRepo struct {
	db        *memDB
	createErr error
	updates   int
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.db.users {
		if existing.Email == u.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	c := cloneUser(u)
	c.ID = r.db.nextID()
	r.db.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.users[u.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	stored.Name, stored.Bio, stored.ProfilePicture = u.Name, u.Bio, u.ProfilePicture
	r.updates++
	return cloneUser(stored), nil
}

// ---- posts ----

type stubPostRepo struct {
	db        *memDB
	createErr error
	created   int
}

func (r *stubPostRepo) withAuthor(p *domain.Post) *domain.Post {
	c := *p
	if u, ok := r.db.users[p.UserID]; ok {
		c.Author = cloneUser(u)
	}
	return &c
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) (*domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	c := *p
	c.ID = r.db.nextID()
	r.db.posts[c.ID] = &c
	r.created++
	return r.withAuthor(&c), nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id int64) (*domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return r.withAuthor(p), nil
}

func (r *stubPostRepo) list(keep func(*domain.Post) bool) []*domain.Post {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*domain.Post{}
	for _, p := range r.db.posts {
		if keep(p) {
			out = append(out, r.withAuthor(p))
		}
	}
	newestFirst(out, func(p *domain.Post) (int64, int64) { return p.CreatedAt.UnixNano(), p.ID })
	return out
}

func (r *stubPostRepo) ListRecent(_ context.Context) ([]*domain.Post, error) {
	return r.list(func(*domain.Post) bool { return true }), nil
}

func (r *stubPostRepo) ListByUser(_ context.Context, userID int64) ([]*domain.Post, error) {
	return r.list(func(p *domain.Post) bool { return p.UserID == userID }), nil
}

func (r *stubPostRepo) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.db.posts, id)
	// mirrors ON DELETE CASCADE
	for lid, l := range r.db.likes {
		if l.PostID == id {
			delete(r.db.likes, lid)
		}
	}
	for cid, c := range r.db.comments {
		if c.PostID == id {
			delete(r.db.comments, cid)
		}
	}
	return nil
}

// ---- likes ----

type stubLikeRepo struct {
	db *memDB
	// raceOnce makes the next Create behave as if another request inserted
	// the same like first.
	raceOnce bool
	// vanishOnce makes the next Create conflict with a like that a concurrent
	// unlike has already removed.
	vanishOnce bool
}

func (r *stubLikeRepo) Create(_ context.Context, l *domain.Like) (*domain.Like, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.vanishOnce {
		r.vanishOnce = false
		return nil, domain.ErrConflict
	}
	if r.raceOnce {
		r.raceOnce = false
		c := *l
		c.ID = r.db.nextID()
		r.db.likes[c.ID] = &c
		return nil, domain.ErrConflict
	}
	for _, existing := range r.db.likes {
		if existing.UserID == l.UserID && existing.PostID == l.PostID {
			return nil, domain.ErrConflict
		}
	}
	c := *l
	c.ID = r.db.nextID()
	r.db.likes[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubLikeRepo) FindByUserAndPost(_ context.Context, userID, postID int64) (*domain.Like, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, l := range r.db.likes {
		if l.UserID == userID && l.PostID == postID {
			c := *l
			return &c, nil
		}
	}
	return nil, domain.ErrLikeNotFound
}

func (r *stubLikeRepo) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.likes[id]; !ok {
		return domain.ErrLikeNotFound
	}
	delete(r.db.likes, id)
	return nil
}

func (r *stubLikeRepo) CountByPost(ctx context.Context, postID int64) (int64, error) {
	counts, _ := r.CountByPosts(ctx, []int64{postID})
	return counts[postID], nil
}

func (r *stubLikeRepo) CountByPosts(_ context.Context, postIDs []int64) (map[int64]int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	want := make(map[int64]bool, len(postIDs))
	for _, id := range postIDs {
		want[id] = true
	}
	out := make(map[int64]int64)
	for _, l := range r.db.likes {
		if want[l.PostID] {
			out[l.PostID]++
		}
	}
	return out, nil
}

func (r *stubLikeRepo) LikedPostIDs(_ context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	want := make(map[int64]bool, len(postIDs))
	for _, id := range postIDs {
		want[id] = true
	}
	out := make(map[int64]bool)
	for _, l := range r.db.likes {
		if l.UserID == userID && want[l.PostID] {
			out[l.PostID] = true
		}
	}
	return out, nil
}

// ---- comments ----

type stubCommentRepo struct {
	db *memDB
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.posts[c.PostID]; !ok {
		return nil, domain.ErrPostNotFound
	}
	stored := *c
	stored.ID = r.db.nextID()
	r.db.comments[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *stubCommentRepo) ListByPost(ctx context.Context, postID int64) ([]*domain.Comment, error) {
	grouped, _ := r.ListByPosts(ctx, []int64{postID})
	if grouped[postID] == nil {
		return []*domain.Comment{}, nil
	}
	return grouped[postID], nil
}

func (r *stubCommentRepo) ListByPosts(_ context.Context, postIDs []int64) (map[int64][]*domain.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	want := make(map[int64]bool, len(postIDs))
	for _, id := range postIDs {
		want[id] = true
	}
	out := make(map[int64][]*domain.Comment)
	for _, c := range r.db.comments {
		if !want[c.PostID] {
			continue
		}
		cc := *c
		if u, ok := r.db.users[c.UserID]; ok {
			cc.Author = cloneUser(u)
		}
		out[c.PostID] = append(out[c.PostID], &cc)
	}
	for _, list := range out {
		newestFirst(list, func(c *domain.Comment) (int64, int64) { return c.CreatedAt.UnixNano(), c.ID })
	}
	return out, nil
}

// ---- activity ----

type stubRecorder struct {
	mu      sync.Mutex
	records []domain.Activity
}

func (r *stubRecorder) Record(a domain.Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, a)
}

func (r *stubRecorder) kinds() []domain.ActivityKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ActivityKind, len(r.records))
	for i, a := range r.records {
		out[i] = a.Kind
	}
	return out
}

// ---- idempotency ----

type stubIdem struct {
	keys       map[string]int64 // 0 = in flight
	reserveErr error
	released   []string
}

func newStubIdem() *stubIdem {
	return &stubIdem{keys: make(map[string]int64)}
}

func (s *stubIdem) Reserve(_ context.Context, key string) (bool, int64, error) {
	if s.reserveErr != nil {
		return false, 0, s.reserveErr
	}
	if id, ok := s.keys[key]; ok {
		return false, id, nil
	}
	s.keys[key] = 0
	return true, 0, nil
}

func (s *stubIdem) Complete(_ context.Context, key string, postID int64) error {
	s.keys[key] = postID
	return nil
}

func (s *stubIdem) Release(_ context.Context, key string) error {
	delete(s.keys, key)
	s.released = append(s.released, key)
	return nil
}
