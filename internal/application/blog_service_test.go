package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-api/internal/domain/entity"
	repo "blog-api/internal/domain/repository"
)

type blogFixture struct {
	svc        *BlogService
	users      *memUserRepo
	posts      *memPostRepo
	categories *memCategoryRepo
	comments   *memCommentRepo
	authorID   string
	otherID    string
}

func newBlogFixture(t *testing.T) *blogFixture {
	t.Helper()
	users := newMemUserRepo()
	posts := newMemPostRepo(users)
	categories := newMemCategoryRepo(posts)
	comments := newMemCommentRepo()

	ctx := context.Background()
	author := &entity.User{Email: "author@example.com", Username: "author", IsActive: true}
	require.NoError(t, users.Create(ctx, author, &entity.Profile{}))
	other := &entity.User{Email: "other@example.com", Username: "other", IsActive: true}
	require.NoError(t, users.Create(ctx, other, &entity.Profile{}))

	return &blogFixture{
		svc: &BlogService{
			Posts:      posts,
			Categories: categories,
			Comments:   comments,
			Users:      users,
		},
		users:      users,
		posts:      posts,
		categories: categories,
		comments:   comments,
		authorID:   author.ID,
		otherID:    other.ID,
	}
}

func (f *blogFixture) createPost(t *testing.T, title, status string) *entity.Post {
	t.Helper()
	p, err := f.svc.CreatePost(context.Background(), f.authorID, CreatePostInput{
		Title:   title,
		Content: "some content",
		Status:  status,
	})
	require.NoError(t, err)
	return p
}

func TestCreatePostDerivesSlug(t *testing.T) {
	f := newBlogFixture(t)
	p := f.createPost(t, "Hello, World! Again", "")
	assert.Equal(t, "hello-world-again", p.Slug)
	assert.Equal(t, entity.StatusDraft, p.Status, "draft by default")
	assert.Nil(t, p.PublishedAt)
}

func TestCreatePostSlugCollisionGetsSuffix(t *testing.T) {
	f := newBlogFixture(t)
	first := f.createPost(t, "Same Title", "")
	second := f.createPost(t, "Same Title", "")
	third := f.createPost(t, "Same Title", "")
	assert.Equal(t, "same-title", first.Slug)
	assert.Equal(t, "same-title-2", second.Slug)
	assert.Equal(t, "same-title-3", third.Slug)
}

func TestCreatePostRejectsShortTitle(t *testing.T) {
	f := newBlogFixture(t)
	_, err := f.svc.CreatePost(context.Background(), f.authorID, CreatePostInput{Title: "Hi"})
	assert.ErrorIs(t, err, ErrTitleTooShort)
}

func TestUpdatePostNeverRegeneratesSlug(t *testing.T) {
	f := newBlogFixture(t)
	p := f.createPost(t, "Original Title", "")

	newTitle := "A Completely Different Title"
	updated, err := f.svc.UpdatePost(context.Background(), f.authorID, p.Slug, UpdatePostInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "A Completely Different Title", updated.Title)
	assert.Equal(t, "original-title", updated.Slug)
}

func TestPublishStampsPublishedAtOnce(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	p := f.createPost(t, "Draft First", "")
	require.Nil(t, p.PublishedAt)

	published := entity.StatusPublished
	updated, err := f.svc.UpdatePost(ctx, f.authorID, p.Slug, UpdatePostInput{Status: &published})
	require.NoError(t, err)
	require.NotNil(t, updated.PublishedAt)
	stamp := *updated.PublishedAt

	draft := entity.StatusDraft
	_, err = f.svc.UpdatePost(ctx, f.authorID, p.Slug, UpdatePostInput{Status: &draft})
	require.NoError(t, err)
	updated, err = f.svc.UpdatePost(ctx, f.authorID, p.Slug, UpdatePostInput{Status: &published})
	require.NoError(t, err)
	require.NotNil(t, updated.PublishedAt)
	assert.Equal(t, stamp, *updated.PublishedAt, "republish keeps the first timestamp")
}

func TestListPostsExcludesDrafts(t *testing.T) {
	f := newBlogFixture(t)
	f.createPost(t, "Published One", entity.StatusPublished)
	f.createPost(t, "Secret Draft", "")

	views, total, err := f.svc.ListPosts(context.Background(), ListPostsInput{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, views, 1)
	assert.Equal(t, "Published One", views[0].Post.Title)
}

func TestMyPostsIncludesDrafts(t *testing.T) {
	f := newBlogFixture(t)
	f.createPost(t, "Published One", entity.StatusPublished)
	f.createPost(t, "My Draft Post", "")

	views, total, err := f.svc.MyPosts(context.Background(), f.authorID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, views, 2)
}

func TestViewPostIncrementsViews(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	p := f.createPost(t, "Popular Post", entity.StatusPublished)

	v1, err := f.svc.ViewPost(ctx, p.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v1.Post.ViewsCount)

	v2, err := f.svc.ViewPost(ctx, p.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 2, v2.Post.ViewsCount)
	assert.Equal(t, "author", v2.Author.Username)
}

func TestViewPostHidesDrafts(t *testing.T) {
	f := newBlogFixture(t)
	p := f.createPost(t, "Hidden Draft", "")
	_, err := f.svc.ViewPost(context.Background(), p.Slug)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePostOwnershipIs404(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	p := f.createPost(t, "Owned Post", entity.StatusPublished)

	title := "Hijacked Title"
	_, err := f.svc.UpdatePost(ctx, f.otherID, p.Slug, UpdatePostInput{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound, "non-owner must not learn the post exists")

	err = f.svc.DeletePost(ctx, f.otherID, p.Slug)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.posts.GetBySlug(ctx, p.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Owned Post", got.Title)
}

func TestAdminFlagsGrantNoOwnership(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	p := f.createPost(t, "Owned Post", entity.StatusPublished)

	admin, err := f.users.GetByID(ctx, f.otherID)
	require.NoError(t, err)
	admin.IsStaff = true
	admin.IsSuperuser = true
	require.NoError(t, f.users.Update(ctx, admin))

	err = f.svc.DeletePost(ctx, f.otherID, p.Slug)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePostByOwner(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	p := f.createPost(t, "Short Lived", entity.StatusPublished)

	require.NoError(t, f.svc.DeletePost(ctx, f.authorID, p.Slug))
	_, err := f.posts.GetBySlug(ctx, p.Slug)
	assert.Error(t, err)
}

func TestCategoryLifecycle(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	c, err := f.svc.CreateCategory(ctx, CategoryInput{Name: "Engineering"})
	require.NoError(t, err)
	assert.Equal(t, "engineering", c.Slug)

	_, err = f.svc.CreateCategory(ctx, CategoryInput{Name: "engineering"})
	assert.ErrorIs(t, err, ErrCategoryTaken, "names are unique, case-insensitively")

	sibling, err := f.svc.CreateCategory(ctx, CategoryInput{Name: "Engineering Weekly", Slug: "engineering"})
	require.NoError(t, err)
	assert.Equal(t, "engineering-2", sibling.Slug, "slug collisions get a suffix")

	cat := c.ID
	_, err = f.svc.CreatePost(ctx, f.authorID, CreatePostInput{
		Title:      "Categorized Post",
		CategoryID: &cat,
		Status:     entity.StatusPublished,
	})
	require.NoError(t, err)
	f.createPost(t, "Uncategorized Post", entity.StatusPublished)

	views, err := f.svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	byName := map[string]int64{}
	for _, v := range views {
		byName[v.Category.Name] = v.PostsCount
	}
	assert.EqualValues(t, 1, byName["Engineering"])
	assert.EqualValues(t, 0, byName["Engineering Weekly"])
}

func TestDeleteCategoryKeepsPosts(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	c, err := f.svc.CreateCategory(ctx, CategoryInput{Name: "Doomed"})
	require.NoError(t, err)
	cat := c.ID
	p, err := f.svc.CreatePost(ctx, f.authorID, CreatePostInput{
		Title:      "Surviving Post",
		CategoryID: &cat,
		Status:     entity.StatusPublished,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteCategory(ctx, c.ID))

	got, err := f.posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID, "post loses the category, not its life")
}

func TestListPostsSearchFallback(t *testing.T) {
	f := newBlogFixture(t)
	f.createPost(t, "Concurrency in Practice", entity.StatusPublished)
	f.createPost(t, "Gardening Notes", entity.StatusPublished)

	views, total, err := f.svc.ListPosts(context.Background(), ListPostsInput{Search: "concurrency"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, views, 1)
	assert.Equal(t, "Concurrency in Practice", views[0].Post.Title)
}

func TestSearchQueryFiltersAndSortsServerSide(t *testing.T) {
	q := buildSearchQuery("concurrency", repo.PostFilter{
		Status:     entity.StatusPublished,
		CategoryID: "cat-1",
		AuthorID:   "user-1",
		Ordering:   "views_count",
		Limit:      20,
		Offset:     40,
	})

	assert.Equal(t, 20, q["size"])
	assert.Equal(t, 40, q["from"])

	boolQ := q["query"].(map[string]any)["bool"].(map[string]any)
	filters := boolQ["filter"].([]map[string]any)
	require.Len(t, filters, 3, "status, category, and author must all reach the engine")
	assert.Equal(t, entity.StatusPublished, filters[0]["term"].(map[string]any)["status"])
	assert.Equal(t, "cat-1", filters[1]["term"].(map[string]any)["category_id"])
	assert.Equal(t, "user-1", filters[2]["term"].(map[string]any)["author_id"])

	sorts, ok := q["sort"].([]map[string]any)
	require.True(t, ok, "views ordering must be applied by the engine")
	require.Len(t, sorts, 2)
	assert.Contains(t, sorts[0], "views_count")
	assert.Contains(t, sorts[1], "created_at")
}

func TestSearchQueryDefaultsToRelevance(t *testing.T) {
	q := buildSearchQuery("concurrency", repo.PostFilter{
		Status: entity.StatusPublished,
		Limit:  20,
	})

	boolQ := q["query"].(map[string]any)["bool"].(map[string]any)
	filters := boolQ["filter"].([]map[string]any)
	require.Len(t, filters, 1, "only the status filter when nothing else is requested")

	_, sorted := q["sort"]
	assert.False(t, sorted, "no explicit sort means relevance order")
}

func TestListPostsPagination(t *testing.T) {
	f := newBlogFixture(t)
	for _, title := range []string{"First Post", "Second Post", "Third Post"} {
		f.createPost(t, title, entity.StatusPublished)
	}

	views, total, err := f.svc.ListPosts(context.Background(), ListPostsInput{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, views, 1)
	assert.Equal(t, "First Post", views[0].Post.Title, "newest first, so the oldest lands on the last page")
}
