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
	"github.com/raushankrgupta/phoneswap-server/store"
	"github.com/raushankrgupta/phoneswap-server/utils"
	"go.uber.org/zap"
)

type verificationRequest struct {
	Phone string `json:"phone"`
	Image string `json:"image"`
}

// SubmitVerification files the calling seller's verification request. A seller
// may hold at most one request.
func (h *Handler) SubmitVerification(w http.ResponseWriter, r *http.Request) {
	log := h.log("Submit Seller Verification")

	seller, err := caller(r)
	if err != nil {
		h.fail(w, log, err)
		return
	}
	if seller.IsVerified {
		h.fail(w, log, apperr.New(apperr.CodeConflict, "Seller Already Verified"))
		return
	}

	var req verificationRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(w, log, err)
		return
	}

	_, err = h.store.Verifications().FindByUserID(r.Context(), seller.ID.String())
	switch {
	case err == nil:
		h.fail(w, log, apperr.New(apperr.CodeConflict, "Verification Request Already Submitted"))
		return
	case !errors.Is(err, store.ErrNotFound):
		h.fail(w, log, apperr.Store(err))
		return
	}

	v := models.SellerVerificationRequest{
		UserID:      seller.ID.String(),
		Name:        seller.Name,
		Image:       firstNonEmpty(req.Image, seller.Image),
		Email:       seller.Email,
		Phone:       firstNonEmpty(req.Phone, seller.Phone),
		Status:      models.VerificationPending,
		SubmittedAt: h.now(),
	}
	if err := h.store.Verifications().Insert(r.Context(), &v); err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}

	log.Info("verification submitted", zap.String("id", v.ID.String()), zap.String("email", v.Email))
	utils.RespondJSON(w, http.StatusOK, utils.Envelope{Success: true, Message: "Verification Request Submitted Successfully", Data: v})
}

// ListVerifications lists requests, optionally filtered by the status query parameter.
func (h *Handler) ListVerifications(w http.ResponseWriter, r *http.Request) {
	log := h.log("List Seller Verifications")

	status := models.VerificationStatus(r.URL.Query().Get("status"))
	switch status {
	case "", models.VerificationPending, models.VerificationApproved:
	default:
		h.fail(w, log, apperr.Invalid("Invalid Status"))
		return
	}

	requests, err := h.store.Verifications().List(r.Context(), status)
	if err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if len(requests) == 0 {
		h.fail(w, log, apperr.NotFound("No Verification Requests Found"))
		return
	}
	utils.RespondData(w, requests)
}

// GetVerification returns the caller's own request.
func (h *Handler) GetVerification(w http.ResponseWriter, r *http.Request) {
	log := h.log("Get Seller Verification")

	v, err := h.store.Verifications().FindByEmail(r.Context(), pathEmail(r))
	if err != nil {
		h.fail(w, log, lookupErr(err, "Verification Request Not Found"))
		return
	}
	utils.RespondData(w, v)
}

// ApproveVerification approves a pending request and marks its seller verified
// in one transaction. Approving twice fails because nothing is modified.
func (h *Handler) ApproveVerification(w http.ResponseWriter, r *http.Request) {
	log := h.log("Approve Seller Verification")

	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, log, err)
		return
	}
	v, err := h.store.Verifications().FindByID(r.Context(), id)
	if err != nil {
		h.fail(w, log, lookupErr(err, "Verification Request Not Found"))
		return
	}
	userID, err := models.ParseID(v.UserID)
	if err != nil {
		h.fail(w, log, apperr.Wrap(err, apperr.CodeInvalidIdentifier, "Invalid Identifier"))
		return
	}

	failed := apperr.Invalid("Seller Verification Failed")
	err = h.store.WithTransaction(r.Context(), func(ctx context.Context) error {
		res, err := h.store.Verifications().SetStatus(ctx, id, models.VerificationApproved)
		if err != nil {
			return apperr.Store(err)
		}
		if res.Modified == 0 {
			return failed
		}
		// matched rather than modified: an already verified seller still counts
		res, err = h.store.Users().SetVerified(ctx, userID, true)
		if err != nil {
			return apperr.Store(err)
		}
		if res.Matched == 0 {
			return failed
		}
		return nil
	})
	if err != nil {
		h.fail(w, log, err)
		return
	}

	log.Info("seller verified", zap.String("request", id.String()), zap.String("user", v.UserID))
	h.notifyApplicant(r.Context(), log, v)
	utils.RespondMessage(w, "Seller Verified Successfully")
}

func (h *Handler) notifyApplicant(ctx context.Context, log *zap.Logger, v *models.SellerVerificationRequest) {
	subject := "You are now a verified PhoneSwap seller"
	text := fmt.Sprintf("Hi %s,\n\nYour seller verification request has been approved. Your listings now carry the verified badge.", v.Name)
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your seller verification request has been approved. Your listings now carry the verified badge.</p>", html.EscapeString(v.Name))
	if err := h.mailer.Send(ctx, v.Name, v.Email, subject, text, body); err != nil {
		log.Warn("approval notification failed", zap.String("to", v.Email), zap.Error(err))
	}
}

// DeleteVerification removes a request, which also lets the seller submit again.
func (h *Handler) DeleteVerification(w http.ResponseWriter, r *http.Request) {
	log := h.log("Delete Seller Verification")

	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, log, err)
		return
	}
	n, err := h.store.Verifications().Delete(r.Context(), id)
	if err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if n == 0 {
		h.fail(w, log, apperr.NotFound("Verification Request Deletion Failed"))
		return
	}
	utils.RespondMessage(w, "Verification Request Deleted Successfully")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
