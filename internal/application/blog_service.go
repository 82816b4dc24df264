package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"blog-api/internal/domain/entity"
	repo "blog-api/internal/domain/repository"
	"blog-api/pkg/helpers"
)

type BlogService struct {
	Posts      repo.PostRepository
	Categories repo.CategoryRepository
	Comments   repo.CommentRepository
	Users      repo.UserRepository
	GCS        *storage.Client
	GCSBucket  string
	ES         *elasticsearch.Client
	ESIndex    string
	Logger     *logrus.Logger
}

// ---- categories ----

type CategoryInput struct {
	Name        string
	Slug        string
	Description string
}

func (s *BlogService) CreateCategory(ctx context.Context, in CategoryInput) (*entity.Category, error) {
	existing, err := s.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if strings.EqualFold(c.Name, in.Name) {
			return nil, ErrCategoryTaken
		}
	}
	slug := in.Slug
	if slug == "" {
		slug = helpers.Slugify(in.Name)
	}
	slug, err = uniqueSlug(ctx, slug, s.Categories.SlugExists)
	if err != nil {
		return nil, err
	}
	c := &entity.Category{Name: in.Name, Slug: slug, Description: in.Description}
	if err := s.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// CategoryView pairs a category with its published-post count.
type CategoryView struct {
	Category   *entity.Category
	PostsCount int64
}

func (s *BlogService) ListCategories(ctx context.Context) ([]CategoryView, error) {
	cats, err := s.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	counts, err := s.Categories.PublishedPostCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryView, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryView{Category: c, PostsCount: counts[c.ID]})
	}
	return out, nil
}

func (s *BlogService) GetCategory(ctx context.Context, id string) (CategoryView, error) {
	c, err := s.Categories.GetByID(ctx, id)
	if err != nil {
		return CategoryView{}, mapNotFound(err)
	}
	counts, err := s.Categories.PublishedPostCounts(ctx, []string{c.ID})
	if err != nil {
		return CategoryView{}, err
	}
	return CategoryView{Category: c, PostsCount: counts[c.ID]}, nil
}

// UpdateCategory changes name/description; the slug stays as created.
func (s *BlogService) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*entity.Category, error) {
	c, err := s.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if in.Name != "" {
		c.Name = in.Name
	}
	if in.Description != "" {
		c.Description = in.Description
	}
	if err := s.Categories.Update(ctx, c); err != nil {
		return nil, mapNotFound(err)
	}
	return c, nil
}

func (s *BlogService) DeleteCategory(ctx context.Context, id string) error {
	return mapNotFound(s.Categories.Delete(ctx, id))
}

// ---- posts ----

type CreatePostInput struct {
	Title      string
	CategoryID *string
	Content    string
	Excerpt    string
	Status     string
}

// CreatePost derives the slug from the title exactly once; later title
// updates never touch it.
func (s *BlogService) CreatePost(ctx context.Context, authorID string, in CreatePostInput) (*entity.Post, error) {
	if len([]rune(in.Title)) < 5 {
		return nil, ErrTitleTooShort
	}
	status := in.Status
	if status == "" {
		status = entity.StatusDraft
	}
	slug, err := uniqueSlug(ctx, helpers.Slugify(in.Title), s.Posts.SlugExists)
	if err != nil {
		return nil, err
	}
	p := &entity.Post{
		Title:      in.Title,
		Slug:       slug,
		AuthorID:   authorID,
		CategoryID: in.CategoryID,
		Content:    in.Content,
		Excerpt:    in.Excerpt,
		Status:     status,
	}
	if status == entity.StatusPublished {
		now := time.Now()
		p.PublishedAt = &now
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	s.indexPost(ctx, p)
	return p, nil
}

// PostView decorates a post with its author, category, and approved
// comment count for serialization.
type PostView struct {
	Post          *entity.Post
	Author        *entity.User
	Category      *entity.Category
	CommentsCount int64
}

type ListPostsInput struct {
	CategoryID string
	AuthorID   string
	Search     string
	Ordering   string
	Page       int
	PageSize   int
}

// ListPosts returns published posts only, regardless of filters. When a
// search term is given and Elasticsearch is configured the term is
// resolved there first; otherwise the SQL ILIKE path serves it.
func (s *BlogService) ListPosts(ctx context.Context, in ListPostsInput) ([]PostView, int64, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 || size > 100 {
		size = 20
	}
	f := repo.PostFilter{
		Status:     entity.StatusPublished,
		CategoryID: in.CategoryID,
		AuthorID:   in.AuthorID,
		Search:     in.Search,
		Ordering:   in.Ordering,
		Limit:      size,
		Offset:     (page - 1) * size,
	}

	if in.Search != "" && s.ES != nil && s.ESIndex != "" {
		if views, total, err := s.searchPosts(ctx, in, f); err == nil {
			return views, total, nil
		} else if s.Logger != nil {
			s.Logger.WithError(err).Warn("es search failed, falling back to sql")
		}
	}

	posts, total, err := s.Posts.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.decorate(ctx, posts)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// MyPosts lists the author's own posts, drafts included.
func (s *BlogService) MyPosts(ctx context.Context, authorID string, page, size int) ([]PostView, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	posts, total, err := s.Posts.List(ctx, repo.PostFilter{
		AuthorID: authorID,
		Limit:    size,
		Offset:   (page - 1) * size,
	})
	if err != nil {
		return nil, 0, err
	}
	views, err := s.decorate(ctx, posts)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// ViewPost fetches a published post by slug and counts the view. The
// increment happens in storage, so every successful fetch adds exactly
// one even under concurrency.
func (s *BlogService) ViewPost(ctx context.Context, slug string) (PostView, error) {
	p, err := s.Posts.GetBySlug(ctx, slug)
	if err != nil {
		return PostView{}, mapNotFound(err)
	}
	if !p.Published() {
		return PostView{}, ErrNotFound
	}
	n, err := s.Posts.IncrementViews(ctx, p.ID)
	if err != nil {
		return PostView{}, err
	}
	p.ViewsCount = n
	s.indexPost(ctx, p)
	views, err := s.decorate(ctx, []*entity.Post{p})
	if err != nil {
		return PostView{}, err
	}
	return views[0], nil
}

type UpdatePostInput struct {
	Title      *string
	CategoryID *string
	Content    *string
	Excerpt    *string
	Status     *string
}

// UpdatePost is ownership-gated; a non-owner gets ErrNotFound so the
// post's existence is not disclosed. The slug is never regenerated.
func (s *BlogService) UpdatePost(ctx context.Context, actorID, slug string, in UpdatePostInput) (*entity.Post, error) {
	p, err := s.Posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !canMutate(actorID, p.AuthorID) {
		return nil, ErrNotFound
	}
	if in.Title != nil {
		if len([]rune(*in.Title)) < 5 {
			return nil, ErrTitleTooShort
		}
		p.Title = *in.Title
	}
	if in.CategoryID != nil {
		if *in.CategoryID == "" {
			p.CategoryID = nil
		} else {
			p.CategoryID = in.CategoryID
		}
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.Excerpt != nil {
		p.Excerpt = *in.Excerpt
	}
	if in.Status != nil && *in.Status != p.Status {
		p.Status = *in.Status
		if p.Status == entity.StatusPublished && p.PublishedAt == nil {
			now := time.Now()
			p.PublishedAt = &now
		}
	}
	if err := s.Posts.Update(ctx, p); err != nil {
		return nil, mapNotFound(err)
	}
	s.indexPost(ctx, p)
	return p, nil
}

func (s *BlogService) DeletePost(ctx context.Context, actorID, slug string) error {
	p, err := s.Posts.GetBySlug(ctx, slug)
	if err != nil {
		return mapNotFound(err)
	}
	if !canMutate(actorID, p.AuthorID) {
		return ErrNotFound
	}
	if err := s.Posts.Delete(ctx, p.ID); err != nil {
		return mapNotFound(err)
	}
	s.deleteFromIndex(ctx, p.ID)
	return nil
}

// UploadPostImage stores the image in GCS and records its URL on the
// post. Owner only.
func (s *BlogService) UploadPostImage(ctx context.Context, actorID, slug string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("object storage not configured")
	}
	p, err := s.Posts.GetBySlug(ctx, slug)
	if err != nil {
		return "", mapNotFound(err)
	}
	if !canMutate(actorID, p.AuthorID) {
		return "", ErrNotFound
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("posts", p.ID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	p.ImageURL = url
	if err := s.Posts.Update(ctx, p); err != nil {
		return "", err
	}
	return url, nil
}

// decorate loads authors, categories, and comment counts for a batch
// of posts.
func (s *BlogService) decorate(ctx context.Context, posts []*entity.Post) ([]PostView, error) {
	users := map[string]*entity.User{}
	cats := map[string]*entity.Category{}
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
		if _, ok := users[p.AuthorID]; !ok {
			u, err := s.Users.GetByID(ctx, p.AuthorID)
			if err != nil {
				return nil, err
			}
			users[p.AuthorID] = u
		}
		if p.CategoryID != nil {
			if _, ok := cats[*p.CategoryID]; !ok {
				c, err := s.Categories.GetByID(ctx, *p.CategoryID)
				if err != nil && !errors.Is(err, repo.ErrNotFound) {
					return nil, err
				}
				cats[*p.CategoryID] = c
			}
		}
	}
	counts, err := s.Comments.CountsByPost(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		v := PostView{Post: p, Author: users[p.AuthorID], CommentsCount: counts[p.ID]}
		if p.CategoryID != nil {
			v.Category = cats[*p.CategoryID]
		}
		out = append(out, v)
	}
	return out, nil
}

// ---- elasticsearch ----

// indexPost mirrors the post into the search index; failures are
// logged, never surfaced, since SQL search still works.
func (s *BlogService) indexPost(ctx context.Context, p *entity.Post) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	author, err := s.Users.GetByID(ctx, p.AuthorID)
	if err != nil {
		return
	}
	categoryID := ""
	if p.CategoryID != nil {
		categoryID = *p.CategoryID
	}
	doc := map[string]any{
		"id":              p.ID,
		"title":           p.Title,
		"slug":            p.Slug,
		"content":         p.Content,
		"author_id":       p.AuthorID,
		"author_username": author.Username,
		"category_id":     categoryID,
		"status":          p.Status,
		"views_count":     p.ViewsCount,
		"created_at":      p.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", p.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("post_id", p.ID).Warn("es index response error")
	}
}

func (s *BlogService) deleteFromIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if res, err := req.Do(c, s.ES); err == nil {
		_ = res.Body.Close()
	}
}

// buildSearchQuery translates the listing filter into an ES request.
// Category, author, and ordering all live in the query itself, so the
// reported total and the page boundaries are computed server-side.
func buildSearchQuery(term string, f repo.PostFilter) map[string]any {
	filters := []map[string]any{
		{"term": map[string]any{"status": entity.StatusPublished}},
	}
	if f.CategoryID != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"category_id": f.CategoryID}})
	}
	if f.AuthorID != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"author_id": f.AuthorID}})
	}
	q := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  term,
						"fields": []string{"title^2", "content", "author_username"},
					},
				},
				"filter": filters,
			},
		},
		"size": f.Limit,
		"from": f.Offset,
	}
	if f.Ordering == "views_count" {
		q["sort"] = []map[string]any{
			{"views_count": map[string]any{"order": "desc"}},
			{"created_at": map[string]any{"order": "desc"}},
		}
	}
	return q
}

// searchPosts resolves the search term via a multi_match over title,
// content, and author username, then hydrates the matching posts from
// storage.
func (s *BlogService) searchPosts(ctx context.Context, in ListPostsInput, f repo.PostFilter) ([]PostView, int64, error) {
	b, _ := json.Marshal(buildSearchQuery(in.Search, f))

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, 0, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, err
	}

	var posts []*entity.Post
	for _, h := range parsed.Hits.Hits {
		p, err := s.Posts.GetByID(ctx, h.ID)
		if err != nil {
			continue // index may lag behind deletes
		}
		if !p.Published() {
			continue
		}
		posts = append(posts, p)
	}
	views, err := s.decorate(ctx, posts)
	if err != nil {
		return nil, 0, err
	}
	return views, parsed.Hits.Total.Value, nil
}

// ---- shared ----

// uniqueSlug appends -2, -3, ... until the slug is free.
func uniqueSlug(ctx context.Context, base string, exists func(context.Context, string) (bool, error)) (string, error) {
	if base == "" {
		base = uuid.NewString()[:8]
	}
	slug := base
	for i := 2; ; i++ {
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
