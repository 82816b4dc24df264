package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"blog-api/internal/domain/entity"
	"blog-api/internal/domain/repository"
)

// In-memory repository fakes mirroring the storage contracts, cascade
// behavior included.

type memUserRepo struct {
	mu       sync.Mutex
	users    map[string]*entity.User
	profiles map[string]*entity.Profile // keyed by user id
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}, profiles: map[string]*entity.Profile{}}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = uuid.NewString()
	u.DateJoined = time.Now()
	r.users[u.ID] = u
	p.ID = uuid.NewString()
	p.UserID = u.ID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.profiles[u.ID] = p
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) GetProfile(_ context.Context, userID string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[userID]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) UpdateProfile(_ context.Context, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.UserID]; !ok {
		return repository.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	r.profiles[p.UserID] = p
	return nil
}

type memCategoryRepo struct {
	mu         sync.Mutex
	categories map[string]*entity.Category
	posts      *memPostRepo
}

func newMemCategoryRepo(posts *memPostRepo) *memCategoryRepo {
	return &memCategoryRepo{categories: map[string]*entity.Category{}, posts: posts}
}

func (r *memCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	r.categories[c.ID] = c
	return nil
}

func (r *memCategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.categories[id]; ok {
		return c, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memCategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	r.categories[c.ID] = c
	return nil
}

func (r *memCategoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.categories, id)
	if r.posts != nil {
		r.posts.mu.Lock()
		for _, p := range r.posts.posts {
			if p.CategoryID != nil && *p.CategoryID == id {
				p.CategoryID = nil
			}
		}
		r.posts.mu.Unlock()
	}
	return nil
}

func (r *memCategoryRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCategoryRepo) PublishedPostCounts(_ context.Context, ids []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(ids))
	if r.posts == nil {
		return counts, nil
	}
	r.posts.mu.Lock()
	defer r.posts.mu.Unlock()
	for _, id := range ids {
		for _, p := range r.posts.posts {
			if p.Status == entity.StatusPublished && p.CategoryID != nil && *p.CategoryID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

type memPostRepo struct {
	mu    sync.Mutex
	posts map[string]*entity.Post
	seq   int
	users *memUserRepo
}

func newMemPostRepo(users *memUserRepo) *memPostRepo {
	return &memPostRepo{posts: map[string]*entity.Post{}, users: users}
}

func (r *memPostRepo) Create(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.NewString()
	r.seq++
	p.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	p.UpdatedAt = p.CreatedAt
	r.posts[p.ID] = p
	return nil
}

func (r *memPostRepo) GetByID(_ context.Context, id string) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[id]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memPostRepo) GetBySlug(_ context.Context, slug string) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memPostRepo) List(_ context.Context, f repository.PostFilter) ([]*entity.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Post
	for _, p := range r.posts {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
			continue
		}
		if f.AuthorID != "" && p.AuthorID != f.AuthorID {
			continue
		}
		if f.Search != "" && !r.matchesSearch(p, f.Search) {
			continue
		}
		matched = append(matched, p)
	}
	if f.Ordering == "views_count" {
		sort.Slice(matched, func(i, j int) bool {
			if matched[i].ViewsCount != matched[j].ViewsCount {
				return matched[i].ViewsCount > matched[j].ViewsCount
			}
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	} else {
		sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	}
	total := int64(len(matched))
	if f.Limit > 0 {
		if f.Offset >= len(matched) {
			return nil, total, nil
		}
		end := f.Offset + f.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[f.Offset:end]
	}
	return matched, total, nil
}

func (r *memPostRepo) matchesSearch(p *entity.Post, term string) bool {
	t := strings.ToLower(term)
	if strings.Contains(strings.ToLower(p.Title), t) || strings.Contains(strings.ToLower(p.Content), t) {
		return true
	}
	if r.users != nil {
		if u, ok := r.users.users[p.AuthorID]; ok && strings.Contains(strings.ToLower(u.Username), t) {
			return true
		}
	}
	return false
}

func (r *memPostRepo) Update(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[p.ID]; !ok {
		return repository.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	r.posts[p.ID] = p
	return nil
}

func (r *memPostRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *memPostRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPostRepo) IncrementViews(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	p.ViewsCount++
	return p.ViewsCount, nil
}

type memCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*entity.Comment
	seq      int
}

func newMemCommentRepo() *memCommentRepo {
	return &memCommentRepo{comments: map[string]*entity.Comment{}}
}

func (r *memCommentRepo) Create(_ context.Context, c *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.NewString()
	r.seq++
	c.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	c.UpdatedAt = c.CreatedAt
	r.comments[c.ID] = c
	return nil
}

func (r *memCommentRepo) GetByID(_ context.Context, id string) (*entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.comments[id]; ok {
		return c, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memCommentRepo) ListApprovedByPost(_ context.Context, postID string) ([]*entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Comment
	for _, c := range r.comments {
		if c.PostID == postID && c.IsApproved {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memCommentRepo) Update(_ context.Context, c *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[c.ID]; !ok {
		return repository.ErrNotFound
	}
	c.UpdatedAt = time.Now()
	r.comments[c.ID] = c
	return nil
}

// Delete cascades to the reply subtree, like the FK does in Postgres.
func (r *memCommentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return repository.ErrNotFound
	}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		delete(r.comments, cur)
		for cid, c := range r.comments {
			if c.ParentID != nil && *c.ParentID == cur {
				queue = append(queue, cid)
			}
		}
	}
	return nil
}

func (r *memCommentRepo) CountsByPost(_ context.Context, postIDs []string) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64, len(postIDs))
	for _, id := range postIDs {
		for _, c := range r.comments {
			if c.PostID == id && c.IsApproved {
				counts[id]++
			}
		}
	}
	return counts, nil
}

type memTokenStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{revoked: map[string]time.Time{}}
}

func (s *memTokenStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (s *memTokenStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.revoked[jti]
	return ok && time.Now().Before(exp), nil
}

type memPublisher struct {
	mu   sync.Mutex
	jobs []any
}

func (p *memPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, body)
	return nil
}

var (
	_ repository.UserRepository     = (*memUserRepo)(nil)
	_ repository.CategoryRepository = (*memCategoryRepo)(nil)
	_ repository.PostRepository     = (*memPostRepo)(nil)
	_ repository.CommentRepository  = (*memCommentRepo)(nil)
	_ TokenStore                    = (*memTokenStore)(nil)
	_ EmailPublisher                = (*memPublisher)(nil)
)
