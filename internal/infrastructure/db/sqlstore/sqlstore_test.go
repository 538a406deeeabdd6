package sqlstore_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/socialconnect/social-api/internal/core/domain"
	"github.com/socialconnect/social-api/internal/infrastructure/db/sqlite"
	"github.com/socialconnect/social-api/internal/infrastructure/db/sqlstore"
)

var base = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "social.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustUser(t *testing.T, s *sqlstore.Store, email string) *domain.User {
	t.Helper()
	u, err := s.Users.Create(context.Background(), &domain.User{
		Email: email, Name: email, PasswordHash: "hash", CreatedAt: base,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func mustPost(t *testing.T, s *sqlstore.Store, userID int64, content string, at time.Time) *domain.Post {
	t.Helper()
	p, err := s.Posts.Create(context.Background(), &domain.Post{UserID: userID, Content: content, CreatedAt: at})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func TestUsers_CreateFindUpdate(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	u := mustUser(t, s, "a@x.com")
	if u.ID == 0 {
		t.Fatal("expected an assigned ID")
	}

	got, err := s.Users.FindByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if got.ID != u.ID || got.PasswordHash != "hash" || !got.CreatedAt.Equal(base) {
		t.Errorf("unexpected user %+v", got)
	}

	exists, err := s.Users.ExistsByEmail(ctx, "a@x.com")
	if err != nil || !exists {
		t.Errorf("expected email to exist, got %v, %v", exists, err)
	}

	got.Bio = "hi"
	got.ProfilePicture = "data:image/png;base64,AA=="
	if _, err := s.Users.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	reread, _ := s.Users.FindByID(ctx, u.ID)
	if reread.Bio != "hi" || reread.ProfilePicture == "" {
		t.Errorf("update not persisted: %+v", reread)
	}

	if _, err := s.Users.FindByID(ctx, 999); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := s.Users.Update(ctx, &domain.User{ID: 999}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("update missing: expected ErrUserNotFound, got %v", err)
	}
}

func TestUsers_UniqueEmail(t *testing.T) {
	s := openStore(t)
	mustUser(t, s, "a@x.com")

	_, err := s.Users.Create(context.Background(), &domain.User{Email: "a@x.com", Name: "b", PasswordHash: "h", CreatedAt: base})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Posts
// ---------------------------------------------------------------------------

func TestPosts_OrderingAndAuthor(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	a := mustUser(t, s, "a@x.com")
	b := mustUser(t, s, "b@x.com")

	p1 := mustPost(t, s, a.ID, "one", base.Add(time.Minute))
	p2 := mustPost(t, s, b.ID, "two", base.Add(2*time.Minute))
	// same timestamp as p2; the higher id sorts first
	p3 := mustPost(t, s, a.ID, "three", base.Add(2*time.Minute))

	if p1.Author == nil || p1.Author.Email != "a@x.com" {
		t.Errorf("expected author joined on create, got %+v", p1.Author)
	}

	all, err := s.Posts.ListRecent(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []int64{p3.ID, p2.ID, p1.ID}
	if len(all) != len(want) {
		t.Fatalf("expected %d posts, got %d", len(want), len(all))
	}
	for i, p := range all {
		if p.ID != want[i] {
			t.Errorf("position %d: expected %d, got %d", i, want[i], p.ID)
		}
	}

	mine, err := s.Posts.ListByUser(ctx, a.ID)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != p3.ID {
		t.Errorf("unexpected user posts %+v", mine)
	}
}

func TestPosts_UnknownUser(t *testing.T) {
	s := openStore(t)
	_, err := s.Posts.Create(context.Background(), &domain.Post{UserID: 42, Content: "x", CreatedAt: base})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPosts_DeleteCascades(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	a := mustUser(t, s, "a@x.com")
	b := mustUser(t, s, "b@x.com")
	p := mustPost(t, s, a.ID, "x", base)

	if _, err := s.Likes.Create(ctx, &domain.Like{UserID: b.ID, PostID: p.ID, CreatedAt: base}); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := s.Comments.Create(ctx, &domain.Comment{PostID: p.ID, UserID: b.ID, Content: "c", CreatedAt: base}); err != nil {
		t.Fatalf("comment: %v", err)
	}

	if err := s.Posts.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n, _ := s.Likes.CountByPost(ctx, p.ID); n != 0 {
		t.Errorf("expected likes removed, got %d", n)
	}
	comments, err := s.Comments.ListByPost(ctx, p.ID)
	if err != nil || len(comments) != 0 {
		t.Errorf("expected comments removed, got %d, %v", len(comments), err)
	}
	if err := s.Posts.Delete(ctx, p.ID); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("second delete: expected ErrPostNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Likes
// ---------------------------------------------------------------------------

func TestLikes_UniquePairAndCounts(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	a := mustUser(t, s, "a@x.com")
	b := mustUser(t, s, "b@x.com")
	p1 := mustPost(t, s, a.ID, "1", base)
	p2 := mustPost(t, s, a.ID, "2", base.Add(time.Second))

	like, err := s.Likes.Create(ctx, &domain.Like{UserID: b.ID, PostID: p1.ID, CreatedAt: base})
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := s.Likes.Create(ctx, &domain.Like{UserID: b.ID, PostID: p1.ID, CreatedAt: base}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate like, got %v", err)
	}
	if _, err := s.Likes.Create(ctx, &domain.Like{UserID: a.ID, PostID: p1.ID, CreatedAt: base}); err != nil {
		t.Fatalf("second liker: %v", err)
	}
	if _, err := s.Likes.Create(ctx, &domain.Like{UserID: a.ID, PostID: 999, CreatedAt: base}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("like on missing post: expected ErrNotFound, got %v", err)
	}

	counts, err := s.Likes.CountByPosts(ctx, []int64{p1.ID, p2.ID})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[p1.ID] != 2 || counts[p2.ID] != 0 {
		t.Errorf("unexpected counts %v", counts)
	}

	liked, err := s.Likes.LikedPostIDs(ctx, b.ID, []int64{p1.ID, p2.ID})
	if err != nil {
		t.Fatalf("liked: %v", err)
	}
	if !liked[p1.ID] || liked[p2.ID] {
		t.Errorf("unexpected liked set %v", liked)
	}

	found, err := s.Likes.FindByUserAndPost(ctx, b.ID, p1.ID)
	if err != nil || found.ID != like.ID {
		t.Fatalf("find: %+v, %v", found, err)
	}
	if err := s.Likes.Delete(ctx, like.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Likes.Delete(ctx, like.ID); !errors.Is(err, domain.ErrLikeNotFound) {
		t.Errorf("expected ErrLikeNotFound, got %v", err)
	}
	if _, err := s.Likes.FindByUserAndPost(ctx, b.ID, p1.ID); !errors.Is(err, domain.ErrLikeNotFound) {
		t.Errorf("expected ErrLikeNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Comments
// ---------------------------------------------------------------------------

func TestComments_GroupedNewestFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	a := mustUser(t, s, "a@x.com")
	p1 := mustPost(t, s, a.ID, "1", base)
	p2 := mustPost(t, s, a.ID, "2", base)

	c1, _ := s.Comments.Create(ctx, &domain.Comment{PostID: p1.ID, UserID: a.ID, Content: "old", CreatedAt: base})
	c2, _ := s.Comments.Create(ctx, &domain.Comment{PostID: p1.ID, UserID: a.ID, Content: "new", CreatedAt: base.Add(time.Hour)})
	c3, _ := s.Comments.Create(ctx, &domain.Comment{PostID: p2.ID, UserID: a.ID, Content: "other", CreatedAt: base})

	grouped, err := s.Comments.ListByPosts(ctx, []int64{p1.ID, p2.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := grouped[p1.ID]; len(got) != 2 || got[0].ID != c2.ID || got[1].ID != c1.ID {
		t.Errorf("unexpected p1 comments %+v", got)
	}
	if got := grouped[p2.ID]; len(got) != 1 || got[0].ID != c3.ID || got[0].Author.Email != "a@x.com" {
		t.Errorf("unexpected p2 comments %+v", got)
	}

	if _, err := s.Comments.Create(ctx, &domain.Comment{PostID: 999, UserID: a.ID, Content: "x", CreatedAt: base}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUsers_DeleteCascadesToContent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	a := mustUser(t, s, "a@x.com")
	p := mustPost(t, s, a.ID, "x", base)

	if _, err := s.DB().ExecContext(ctx, `DELETE FROM users WHERE id = $1`, a.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := s.Posts.FindByID(ctx, p.ID); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("expected post removed with its author, got %v", err)
	}
}

func TestFeedAggregates_SpanSeveralBatches(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	defer sqlstore.SetBatchSize(3)()

	a := mustUser(t, s, "a@x.com")
	b := mustUser(t, s, "b@x.com")
	var ids []int64
	for i := 0; i < 10; i++ {
		ids = append(ids, mustPost(t, s, a.ID, "p", base.Add(time.Duration(i)*time.Minute)).ID)
	}
	for _, like := range []struct{ user, post int64 }{
		{a.ID, ids[0]}, {a.ID, ids[4]}, {a.ID, ids[9]}, {b.ID, ids[9]},
	} {
		if _, err := s.Likes.Create(ctx, &domain.Like{UserID: like.user, PostID: like.post, CreatedAt: base}); err != nil {
			t.Fatalf("like: %v", err)
		}
	}
	for i, at := range []time.Time{base, base.Add(time.Hour)} {
		if _, err := s.Comments.Create(ctx, &domain.Comment{PostID: ids[7], UserID: b.ID, Content: string(rune('a' + i)), CreatedAt: at}); err != nil {
			t.Fatalf("comment: %v", err)
		}
	}

	// duplicates must not split a post across batches
	query := append(append([]int64{}, ids...), ids[9], ids[7])

	counts, err := s.Likes.CountByPosts(ctx, query)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if len(counts) != 3 || counts[ids[0]] != 1 || counts[ids[4]] != 1 || counts[ids[9]] != 2 {
		t.Errorf("unexpected counts %v", counts)
	}

	liked, err := s.Likes.LikedPostIDs(ctx, b.ID, query)
	if err != nil {
		t.Fatalf("liked: %v", err)
	}
	if len(liked) != 1 || !liked[ids[9]] {
		t.Errorf("unexpected liked set %v", liked)
	}

	grouped, err := s.Comments.ListByPosts(ctx, query)
	if err != nil {
		t.Fatalf("comments: %v", err)
	}
	got := grouped[ids[7]]
	if len(grouped) != 1 || len(got) != 2 || got[0].Content != "b" {
		t.Errorf("expected two comments newest first on one post, got %v", grouped)
	}
}

func TestFeedAggregates_BeyondBindParameterLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("bulk insert")
	}
	s := openStore(t)
	ctx := context.Background()
	a := mustUser(t, s, "a@x.com")

	const total = 33000
	if _, err := s.DB().ExecContext(ctx, `
		WITH RECURSIVE seq(n) AS (SELECT 1 UNION ALL SELECT n + 1 FROM seq WHERE n < $1)
		INSERT INTO posts (user_id, content, created_at) SELECT $2, 'p', $3 FROM seq`,
		total, a.ID, base); err != nil {
		t.Fatalf("bulk insert: %v", err)
	}

	posts, err := s.Posts.ListRecent(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != total {
		t.Fatalf("expected %d posts, got %d", total, len(posts))
	}
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	last := ids[len(ids)-1]
	if _, err := s.Likes.Create(ctx, &domain.Like{UserID: a.ID, PostID: last, CreatedAt: base}); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := s.Comments.Create(ctx, &domain.Comment{PostID: last, UserID: a.ID, Content: "c", CreatedAt: base}); err != nil {
		t.Fatalf("comment: %v", err)
	}

	counts, err := s.Likes.CountByPosts(ctx, ids)
	if err != nil || counts[last] != 1 {
		t.Fatalf("count: %v %v", counts[last], err)
	}
	liked, err := s.Likes.LikedPostIDs(ctx, a.ID, ids)
	if err != nil || !liked[last] {
		t.Fatalf("liked: %v %v", liked[last], err)
	}
	grouped, err := s.Comments.ListByPosts(ctx, ids)
	if err != nil || len(grouped[last]) != 1 {
		t.Fatalf("comments: %d %v", len(grouped[last]), err)
	}
}
