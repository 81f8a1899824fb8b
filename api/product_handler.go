package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/raushankrgupta/phoneswap-server/apperr"
	"github.com/raushankrgupta/phoneswap-server/models"
	"github.com/raushankrgupta/phoneswap-server/utils"
	"go.uber.org/zap"
)

type createProductRequest struct {
	Name          string  `json:"name" validate:"required"`
	CategoryID    string  `json:"categoryId" validate:"required"`
	Price         float64 `json:"price" validate:"gt=0"`
	OriginalPrice float64 `json:"originalPrice" validate:"gte=0"`
	Condition     string  `json:"condition" validate:"required"`
	Location      string  `json:"location" validate:"required"`
	YearsOfUse    string  `json:"yearsOfUse"`
	Description   string  `json:"description"`
	Image         string  `json:"image"`
	Phone         string  `json:"phone"`
}

// CreateProduct lists a new product for the calling seller.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	log := h.log("Create Product")

	seller, err := caller(r)
	if err != nil {
		h.fail(w, log, err)
		return
	}

	var req createProductRequest
	if err := h.decodeAndValidate(r, &req, "Missing Product Information"); err != nil {
		h.fail(w, log, err)
		return
	}

	product := models.Product{
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Condition:     req.Condition,
		Location:      req.Location,
		YearsOfUse:    req.YearsOfUse,
		Description:   req.Description,
		Image:         req.Image,
		Phone:         req.Phone,
		PostedAt:      h.now(),
		SellerID:      seller.ID.String(),
		Status:        models.StatusAvailable,
	}
	if product.Phone == "" {
		product.Phone = seller.Phone
	}
	if err := h.store.Products().Insert(r.Context(), &product); err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}

	product.IsSellerVerified = seller.IsVerified
	log.Info("product created", zap.String("id", product.ID.String()), zap.String("seller", product.SellerID))
	utils.RespondJSON(w, http.StatusOK, utils.Envelope{Success: true, Message: "Product Added Successfully", Data: product})
}

// ProductImage is the response of an image upload.
type ProductImage struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// UploadProductImage stores a listing image in S3. It accepts a multipart
// "image" file or a JSON body {"url": ...} pointing at a remote image to mirror.
func (h *Handler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	log := h.log("Upload Product Image")

	seller, err := caller(r)
	if err != nil {
		h.fail(w, log, err)
		return
	}
	if h.images == nil {
		h.fail(w, log, apperr.Invalid("Image Uploads Are Disabled"))
		return
	}

	folder := "products/" + seller.ID.String()
	var key string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		key, err = h.uploadMultipartImage(w, r, folder)
	} else {
		var req struct {
			URL string `json:"url" validate:"required,http_url"`
		}
		if err = h.decodeAndValidate(r, &req, "Image URL is required"); err == nil {
			key, err = utils.MirrorImage(r.Context(), h.httpClient, h.images, req.URL, folder)
			switch {
			case errors.Is(err, utils.ErrBlockedAddress):
				err = apperr.Wrap(err, apperr.CodeInvalid, "Image URL Not Allowed")
			case errors.Is(err, utils.ErrNotImage):
				err = apperr.Wrap(err, apperr.CodeInvalid, "Only Images Are Allowed")
			case err != nil:
				err = apperr.Wrap(err, apperr.CodeInvalid, "Image Upload Failed")
			}
		}
	}
	if err != nil {
		h.fail(w, log, err)
		return
	}

	url, err := h.images.PresignURL(r.Context(), key)
	if err != nil {
		h.fail(w, log, apperr.Wrap(err, apperr.CodeInvalid, "Image Upload Failed"))
		return
	}

	log.Info("image uploaded", zap.String("key", key))
	utils.RespondData(w, ProductImage{Key: key, URL: url})
}

func (h *Handler) uploadMultipartImage(w http.ResponseWriter, r *http.Request, folder string) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, utils.MaxImageBytes+(1<<20))
	if err := r.ParseMultipartForm(utils.MaxImageBytes); err != nil {
		return "", apperr.Wrap(err, apperr.CodeInvalid, "Error Parsing Form Data")
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeInvalid, "Image is required")
	}
	defer file.Close()

	body, err := io.ReadAll(io.LimitReader(file, utils.MaxImageBytes+1))
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeInvalid, "Image Upload Failed")
	}
	if len(body) > utils.MaxImageBytes {
		return "", apperr.Wrap(utils.ErrImageTooLarge, apperr.CodeInvalid, "Image Too Large")
	}

	contentType := http.DetectContentType(body)
	if !strings.HasPrefix(contentType, "image/") {
		return "", apperr.Invalid("Only Images Are Allowed")
	}

	key, err := h.images.Upload(r.Context(), bytes.NewReader(body), utils.ImageKey(folder, header.Filename), contentType)
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeInvalid, "Image Upload Failed")
	}
	return key, nil
}

// ListSellerProducts lists the calling seller's own products.
func (h *Handler) ListSellerProducts(w http.ResponseWriter, r *http.Request) {
	log := h.log("List Seller Products")

	seller, err := caller(r)
	if err != nil {
		h.fail(w, log, err)
		return
	}
	if chi.URLParam(r, "sellerId") != seller.ID.String() {
		h.fail(w, log, apperr.New(apperr.CodeUnauthorized, "Unauthorized Access"))
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		h.fail(w, log, err)
		return
	}

	h.respondProducts(w, r, log, models.ProductFilter{SellerID: seller.ID.String(), Limit: limit}, "No Products Found")
}

// DeleteSellerProduct deletes one of the calling seller's products.
func (h *Handler) DeleteSellerProduct(w http.ResponseWriter, r *http.Request) {
	log := h.log("Delete Product")

	seller, err := caller(r)
	if err != nil {
		h.fail(w, log, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, log, err)
		return
	}

	n, err := h.store.Products().Delete(r.Context(), id, seller.ID.String())
	if err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if n == 0 {
		h.fail(w, log, apperr.NotFound("Product Deletion Failed"))
		return
	}

	log.Info("product deleted", zap.String("id", id.String()))
	utils.RespondMessage(w, "Product Deleted Successfully")
}

// PromoteProduct sets the promoted flag on one of the calling seller's products.
// The body {"isPromoted": bool} is optional and defaults to true.
func (h *Handler) PromoteProduct(w http.ResponseWriter, r *http.Request) {
	log := h.log("Promote Product")

	seller, err := caller(r)
	if err != nil {
		h.fail(w, log, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, log, err)
		return
	}

	var req struct {
		IsPromoted *bool `json:"isPromoted"`
	}
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(w, log, err)
		return
	}
	promoted := req.IsPromoted == nil || *req.IsPromoted

	res, err := h.store.Products().SetPromoted(r.Context(), id, seller.ID.String(), promoted)
	if err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if res.Modified == 0 {
		h.fail(w, log, apperr.Invalid("Product Promotion Failed"))
		return
	}

	log.Info("product promotion changed", zap.String("id", id.String()), zap.Bool("promoted", promoted))
	utils.RespondMessage(w, "Product Promotion Updated Successfully")
}

// ListPromoted lists available promoted products.
func (h *Handler) ListPromoted(w http.ResponseWriter, r *http.Request) {
	log := h.log("List Promoted Products")

	limit, err := queryLimit(r)
	if err != nil {
		h.fail(w, log, err)
		return
	}
	promoted := true
	h.respondProducts(w, r, log, models.ProductFilter{
		Status:   models.StatusAvailable,
		Promoted: &promoted,
		Limit:    limit,
	}, "No Promoted Products Found")
}

// ListByCategory lists available products in a category.
func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	log := h.log("List Category Products")

	categoryID, err := pathID(r, "cat_id")
	if err != nil {
		h.fail(w, log, err)
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		h.fail(w, log, err)
		return
	}
	h.respondProducts(w, r, log, models.ProductFilter{
		CategoryID: categoryID.String(),
		Status:     models.StatusAvailable,
		Limit:      limit,
	}, "No Products Found")
}

// GetProduct returns a single product.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	log := h.log("Get Product")

	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, log, err)
		return
	}
	product, err := h.store.Products().FindByID(r.Context(), id)
	if err != nil {
		h.fail(w, log, lookupErr(err, "Product Not Found"))
		return
	}

	list := []models.Product{*product}
	if err := h.enrichSellers(r, list); err != nil {
		h.fail(w, log, err)
		return
	}
	utils.RespondData(w, list[0])
}

func (h *Handler) respondProducts(w http.ResponseWriter, r *http.Request, log *zap.Logger, filter models.ProductFilter, empty string) {
	products, err := h.store.Products().List(r.Context(), filter)
	if err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if len(products) == 0 {
		h.fail(w, log, apperr.NotFound(empty))
		return
	}
	if err := h.enrichSellers(r, products); err != nil {
		h.fail(w, log, err)
		return
	}
	utils.RespondData(w, products)
}
