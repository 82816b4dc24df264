package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blog-api/internal/application"
	"blog-api/pkg/response"
	"blog-api/pkg/validation"
)

type PostHandler struct {
	Svc      *application.BlogService
	Comments *application.CommentService
	Logger   *logrus.Logger
}

func NewPostHandler(svc *application.BlogService, comments *application.CommentService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Comments: comments, Logger: logger}
}

type createPostRequest struct {
	Title      string  `json:"title" binding:"required,title,max=200"`
	CategoryID *string `json:"category" binding:"omitempty,uuid"`
	Content    string  `json:"content" binding:"required"`
	Excerpt    string  `json:"excerpt" binding:"max=300"`
	Status     string  `json:"status" binding:"omitempty,oneof=draft published"`
}

type updatePostRequest struct {
	Title      *string `json:"title" binding:"omitempty,title,max=200"`
	CategoryID *string `json:"category"`
	Content    *string `json:"content"`
	Excerpt    *string `json:"excerpt" binding:"omitempty,max=300"`
	Status     *string `json:"status" binding:"omitempty,oneof=draft published"`
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// List GET /api/posts: published posts only, whatever the filters.
func (h *PostHandler) List(c *gin.Context) {
	in := application.ListPostsInput{
		CategoryID: c.Query("category"),
		AuthorID:   c.Query("author"),
		Search:     c.Query("search"),
		Ordering:   c.Query("ordering"),
		Page:       intQuery(c, "page", 1),
		PageSize:   intQuery(c, "page_size", 20),
	}
	views, total, err := h.Svc.ListPosts(c.Request.Context(), in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := make([]gin.H, 0, len(views))
	for _, v := range views {
		out = append(out, postListJSON(v))
	}
	response.Success(c, http.StatusOK, out, "posts", gin.H{"total": total, "page": in.Page})
}

// Detail GET /api/posts/:slug: counts the view and embeds the
// approved comment tree.
func (h *PostHandler) Detail(c *gin.Context) {
	v, err := h.Svc.ViewPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	tree, err := h.Comments.TreeForPost(c.Request.Context(), v.Post.ID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, postDetailJSON(v, tree), "post", nil)
}

// Create POST /api/posts/create
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.CreatePost(c.Request.Context(), c.GetString("userID"), application.CreatePostInput{
		Title:      req.Title,
		CategoryID: req.CategoryID,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		Status:     req.Status,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"id":     p.ID,
		"title":  p.Title,
		"slug":   p.Slug,
		"status": p.Status,
	}, "post created", nil)
}

// Update PUT/PATCH /api/posts/:slug/update: owner only; the slug is
// never regenerated, even when the title changes.
func (h *PostHandler) Update(c *gin.Context) {
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.UpdatePost(c.Request.Context(), c.GetString("userID"), c.Param("slug"), application.UpdatePostInput{
		Title:      req.Title,
		CategoryID: req.CategoryID,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		Status:     req.Status,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":     p.ID,
		"title":  p.Title,
		"slug":   p.Slug,
		"status": p.Status,
	}, "post updated", nil)
}

// Delete DELETE /api/posts/:slug/delete: owner only.
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeletePost(c.Request.Context(), c.GetString("userID"), c.Param("slug")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "post deleted", nil)
}

// Mine GET /api/posts/mine: the caller's posts, drafts included.
func (h *PostHandler) Mine(c *gin.Context) {
	views, total, err := h.Svc.MyPosts(c.Request.Context(), c.GetString("userID"),
		intQuery(c, "page", 1), intQuery(c, "page_size", 20))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := make([]gin.H, 0, len(views))
	for _, v := range views {
		out = append(out, postListJSON(v))
	}
	response.Success(c, http.StatusOK, out, "my posts", gin.H{"total": total})
}

// UploadImage POST /api/posts/:slug/image (multipart field "image")
func (h *PostHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image file is required", nil)
		return
	}
	f, err := file.Open()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadPostImage(c.Request.Context(), c.GetString("userID"), c.Param("slug"),
		f, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"image_url": url}, "image uploaded", nil)
}
