package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blog-api/internal/application"
	"blog-api/pkg/response"
	"blog-api/pkg/validation"
)

type CommentHandler struct {
	Svc    *application.CommentService
	Logger *logrus.Logger
}

func NewCommentHandler(svc *application.CommentService, logger *logrus.Logger) *CommentHandler {
	return &CommentHandler{Svc: svc, Logger: logger}
}

type createCommentRequest struct {
	PostID   string  `json:"post" binding:"required,uuid"`
	Content  string  `json:"content" binding:"required,comment"`
	ParentID *string `json:"parent" binding:"omitempty,uuid"`
}

type updateCommentRequest struct {
	Content string `json:"content" binding:"required,comment"`
}

// List GET /api/comments?post=<id>: approved top-level comments of
// the post, newest first, replies nested inside.
func (h *CommentHandler) List(c *gin.Context) {
	postID := c.Query("post")
	if postID == "" {
		response.Error[any](c, http.StatusBadRequest, "post query parameter is required", nil)
		return
	}
	tree, err := h.Svc.TreeForPost(c.Request.Context(), postID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, commentsJSON(tree), "comments", nil)
}

// Create POST /api/comments/create
func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cm, err := h.Svc.CreateComment(c.Request.Context(), c.GetString("userID"), application.CreateCommentInput{
		PostID:   req.PostID,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, commentJSON(cm), "comment created", nil)
}

// Update PUT/PATCH /api/comments/:id/update: owner only.
func (h *CommentHandler) Update(c *gin.Context) {
	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cm, err := h.Svc.UpdateComment(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Content)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, commentJSON(cm), "comment updated", nil)
}

// Delete DELETE /api/comments/:id/delete: owner only; the whole reply
// subtree goes with it.
func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteComment(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "comment deleted", nil)
}
