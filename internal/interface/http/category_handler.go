package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blog-api/internal/application"
	"blog-api/pkg/response"
	"blog-api/pkg/validation"
)

type CategoryHandler struct {
	Svc    *application.BlogService
	Logger *logrus.Logger
}

func NewCategoryHandler(svc *application.BlogService, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{Svc: svc, Logger: logger}
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"omitempty,max=100"`
	Description string `json:"description"`
}

// List GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	views, err := h.Svc.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := make([]gin.H, 0, len(views))
	for _, v := range views {
		out = append(out, categoryJSON(v))
	}
	response.Success(c, http.StatusOK, out, "categories", nil)
}

// Create POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cat, err := h.Svc.CreateCategory(c.Request.Context(), application.CategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, categoryJSON(application.CategoryView{Category: cat}), "category created", nil)
}

// Get GET /api/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	v, err := h.Svc.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, categoryJSON(v), "category", nil)
}

// Update PUT/PATCH /api/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"omitempty,max=100"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cat, err := h.Svc.UpdateCategory(c.Request.Context(), c.Param("id"), application.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, categoryJSON(application.CategoryView{Category: cat}), "category updated", nil)
}

// Delete DELETE /api/categories/:id: posts keep living, their
// category reference is nulled at the storage layer.
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "category deleted", nil)
}
