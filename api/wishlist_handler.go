package api

import (
	"net/http"

	"github.com/raushankrgupta/phoneswap-server/apperr"
	"github.com/raushankrgupta/phoneswap-server/models"
	"github.com/raushankrgupta/phoneswap-server/utils"
	"go.uber.org/zap"
)

type addWishlistRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// AddToWishlist saves a product snapshot to the caller's wishlist.
func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	log := h.log("Add To Wishlist")
	email := pathEmail(r)

	var req addWishlistRequest
	if err := h.decodeAndValidate(r, &req, "Product ID is required"); err != nil {
		h.fail(w, log, err)
		return
	}
	productID, err := models.ParseID(req.ProductID)
	if err != nil {
		h.fail(w, log, apperr.Wrap(err, apperr.CodeInvalidIdentifier, "Invalid Identifier"))
		return
	}

	product, err := h.store.Products().FindByID(r.Context(), productID)
	if err != nil {
		h.fail(w, log, lookupErr(err, "Product Not Found"))
		return
	}

	exists, err := h.store.Wishlist().Exists(r.Context(), productID.String(), email)
	if err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if exists {
		h.fail(w, log, apperr.New(apperr.CodeConflict, "Product Already Added to Wishlist"))
		return
	}

	entry := models.SnapshotWishlistEntry(*product, email, h.now())
	if err := h.store.Wishlist().Insert(r.Context(), &entry); err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}

	log.Info("wishlist entry added", zap.String("product", entry.ProductID), zap.String("email", email))
	utils.RespondJSON(w, http.StatusOK, utils.Envelope{Success: true, Message: "Product Added to Wishlist", Data: entry})
}

// ListWishlist lists the caller's wishlist.
func (h *Handler) ListWishlist(w http.ResponseWriter, r *http.Request) {
	log := h.log("List Wishlist")

	entries, err := h.store.Wishlist().ListByEmail(r.Context(), pathEmail(r))
	if err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if len(entries) == 0 {
		h.fail(w, log, apperr.NotFound("No Products Found in Wishlist"))
		return
	}
	utils.RespondData(w, entries)
}

// RemoveFromWishlist deletes one of the caller's wishlist entries.
func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	log := h.log("Remove From Wishlist")

	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, log, err)
		return
	}
	n, err := h.store.Wishlist().Delete(r.Context(), id, pathEmail(r))
	if err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if n == 0 {
		h.fail(w, log, apperr.NotFound("Wishlist Item Removal Failed"))
		return
	}
	utils.RespondMessage(w, "Product Removed from Wishlist")
}
