package api

import (
	"context"
	"html"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/raushankrgupta/phoneswap-server/apperr"
	"github.com/raushankrgupta/phoneswap-server/models"
	"github.com/raushankrgupta/phoneswap-server/utils"
	"go.uber.org/zap"
)

// BookProduct reserves an available product for the calling buyer. Marking the
// product booked and recording the booking happen in one transaction.
func (h *Handler) BookProduct(w http.ResponseWriter, r *http.Request) {
	log := h.log("Book Product")

	buyer, err := caller(r)
	if err != nil {
		h.fail(w, log, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, log, err)
		return
	}

	payload := map[string]any{}
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		h.fail(w, log, err)
		return
	}

	product, err := h.store.Products().FindByID(r.Context(), id)
	if err != nil {
		h.fail(w, log, lookupErr(err, "Product Not Found"))
		return
	}
	if product.Status != models.StatusAvailable {
		h.fail(w, log, apperr.New(apperr.CodeConflict, "Product Already Booked"))
		return
	}

	booking := models.NewBooking(id.String(), buyer.Email, payload, h.now())
	err = h.store.WithTransaction(r.Context(), func(ctx context.Context) error {
		res, err := h.store.Products().MarkBooked(ctx, id)
		if err != nil {
			return apperr.Store(err)
		}
		if res.Modified == 0 {
			return apperr.New(apperr.CodeConflict, "Product Already Booked")
		}
		if err := h.store.Bookings().Insert(ctx, &booking); err != nil {
			return apperr.Store(err)
		}
		return nil
	})
	if err != nil {
		h.fail(w, log, err)
		return
	}

	log.Info("product booked", zap.String("product", id.String()), zap.String("buyer", buyer.Email))
	h.notifySeller(r.Context(), log, product, buyer)
	utils.RespondJSON(w, http.StatusOK, utils.Envelope{Success: true, Message: "Product Booked Successfully", Data: booking})
}

// notifySeller e-mails the seller about a booking. Delivery problems are only logged.
func (h *Handler) notifySeller(ctx context.Context, log *zap.Logger, product *models.Product, buyer *models.User) {
	sellerID, err := models.ParseID(product.SellerID)
	if err != nil {
		log.Warn("product has malformed seller id", zap.String("seller", product.SellerID))
		return
	}
	seller, err := h.store.Users().FindByID(ctx, sellerID)
	if err != nil {
		log.Warn("seller lookup failed", zap.String("seller", product.SellerID), zap.Error(err))
		return
	}

	subject := fmt.Sprintf("Your listing %q has been booked", product.Name)
	text := fmt.Sprintf("Hi %s,\n\n%s (%s) booked %s on PhoneSwap.", seller.Name, buyer.Name, buyer.Email, product.Name)
	body := fmt.Sprintf("<p>Hi %s,</p><p><strong>%s</strong> (%s) booked <strong>%s</strong> on PhoneSwap.</p>",
		html.EscapeString(seller.Name), html.EscapeString(buyer.Name), html.EscapeString(buyer.Email), html.EscapeString(product.Name))
	if err := h.mailer.Send(ctx, seller.Name, seller.Email, subject, text, body); err != nil {
		log.Warn("booking notification failed", zap.String("to", seller.Email), zap.Error(err))
	}
}

// ListBookings lists the caller's bookings.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	log := h.log("List Bookings")

	bookings, err := h.store.Bookings().ListByEmail(r.Context(), pathEmail(r))
	if err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if len(bookings) == 0 {
		h.fail(w, log, apperr.NotFound("No Bookings Found"))
		return
	}
	utils.RespondData(w, bookings)
}

// GetBooking returns one of the caller's bookings.
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	log := h.log("Get Booking")

	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, log, err)
		return
	}
	booking, err := h.store.Bookings().FindByID(r.Context(), id, pathEmail(r))
	if err != nil {
		h.fail(w, log, lookupErr(err, "Booking Not Found"))
		return
	}
	utils.RespondData(w, booking)
}
