package api

import (
	"net/http"

	"github.com/raushankrgupta/phoneswap-server/apperr"
	"github.com/raushankrgupta/phoneswap-server/models"
	"github.com/raushankrgupta/phoneswap-server/utils"
	"go.uber.org/zap"
)

type categoryRequest struct {
	Name  string `json:"name" validate:"required"`
	Label string `json:"label"`
	Image string `json:"image"`
}

// ListCategories lists all product categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	log := h.log("List Categories")

	categories, err := h.store.Categories().List(r.Context())
	if err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if len(categories) == 0 {
		h.fail(w, log, apperr.NotFound("No Categories Found"))
		return
	}
	utils.RespondData(w, categories)
}

// GetCategory returns one category.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	log := h.log("Get Category")

	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, log, err)
		return
	}
	category, err := h.store.Categories().FindByID(r.Context(), id)
	if err != nil {
		h.fail(w, log, lookupErr(err, "Category Not Found"))
		return
	}
	utils.RespondData(w, category)
}

// CreateCategory adds a product category.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	log := h.log("Create Category")

	var req categoryRequest
	if err := h.decodeAndValidate(r, &req, "Category Name is required"); err != nil {
		h.fail(w, log, err)
		return
	}

	category := models.ProductCategory{Name: req.Name, Label: req.Label, Image: req.Image}
	if err := h.store.Categories().Insert(r.Context(), &category); err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}

	log.Info("category created", zap.String("id", category.ID.String()), zap.String("name", category.Name))
	utils.RespondJSON(w, http.StatusOK, utils.Envelope{Success: true, Message: "Category Created Successfully", Data: category})
}

// UpdateCategory replaces a category's fields.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	log := h.log("Update Category")

	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, log, err)
		return
	}
	var req categoryRequest
	if err := h.decodeAndValidate(r, &req, "Category Name is required"); err != nil {
		h.fail(w, log, err)
		return
	}

	res, err := h.store.Categories().Update(r.Context(), models.ProductCategory{ID: id, Name: req.Name, Label: req.Label, Image: req.Image})
	if err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if res.Modified == 0 {
		h.fail(w, log, apperr.Invalid("Category Update Failed"))
		return
	}
	utils.RespondMessage(w, "Category Updated Successfully")
}

// DeleteCategory removes a category. Products keep their category reference.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	log := h.log("Delete Category")

	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, log, err)
		return
	}
	n, err := h.store.Categories().Delete(r.Context(), id)
	if err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if n == 0 {
		h.fail(w, log, apperr.NotFound("Category Deletion Failed"))
		return
	}

	log.Info("category deleted", zap.String("id", id.String()))
	utils.RespondMessage(w, "Category Deleted Successfully")
}
