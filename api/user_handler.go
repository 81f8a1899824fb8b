package api

import (
	"errors"
	"net/http"

	"github.com/raushankrgupta/phoneswap-server/apperr"
	"github.com/raushankrgupta/phoneswap-server/auth"
	"github.com/raushankrgupta/phoneswap-server/models"
	"github.com/raushankrgupta/phoneswap-server/utils"
	"go.uber.org/zap"
)

// Token issues an access token for a registered email.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	log := h.log("Token")
	email := r.URL.Query().Get("email")

	token, err := h.tokens.Issue(r.Context(), email)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidEmail):
		h.fail(w, log, apperr.Invalid("Email is required"))
		return
	case errors.Is(err, auth.ErrUserNotFound):
		h.fail(w, log, apperr.NotFound("User not found"))
		return
	case errors.Is(err, auth.ErrSecretMissing):
		log.Error("token secret missing")
		h.fail(w, log, apperr.New(apperr.CodeInvalid, "Token Generation Failed"))
		return
	default:
		h.fail(w, log, apperr.Store(err))
		return
	}

	log.Info("token issued", zap.String("email", email))
	utils.RespondJSON(w, http.StatusOK, utils.Envelope{Success: true, Token: token})
}

type upsertUserRequest struct {
	Email string `json:"email" validate:"required,contains=@"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// UpsertUser registers a user on first login and refreshes the profile on later ones.
// The role is only honoured on insert and may not be admin.
func (h *Handler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	log := h.log("Upsert User")

	var req upsertUserRequest
	if err := h.decodeAndValidate(r, &req, "Email is required"); err != nil {
		h.fail(w, log, err)
		return
	}

	role := models.RoleBuyer
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil || parsed == models.RoleAdmin {
			h.fail(w, log, apperr.Invalid("Invalid Role"))
			return
		}
		role = parsed
	}

	res, err := h.store.Users().Upsert(r.Context(), models.User{
		Email:     req.Email,
		Name:      req.Name,
		Image:     req.Image,
		Phone:     req.Phone,
		Role:      role,
		CreatedAt: h.now(),
	})
	if err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if res.Matched+res.Upserted == 0 {
		h.fail(w, log, apperr.Invalid("User Creation Failed"))
		return
	}

	log.Info("user upserted", zap.String("email", req.Email), zap.Bool("created", res.Upserted > 0))
	utils.RespondMessage(w, "User Created Successfully")
}

// GetUserRole returns the role of the user with the path email.
func (h *Handler) GetUserRole(w http.ResponseWriter, r *http.Request) {
	log := h.log("Get User Role")

	user, err := h.store.Users().FindByEmail(r.Context(), pathEmail(r))
	if err != nil {
		h.fail(w, log, lookupErr(err, "User Not Found"))
		return
	}
	utils.RespondData(w, map[string]models.Role{"role": user.Role})
}

// GetUser returns the user with the path email.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	log := h.log("Get User")

	user, err := h.store.Users().FindByEmail(r.Context(), pathEmail(r))
	if err != nil {
		h.fail(w, log, lookupErr(err, "User Not Found"))
		return
	}
	utils.RespondData(w, user)
}

// ListUsers lists users, optionally filtered by the role query parameter.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	log := h.log("List Users")

	var role models.Role
	if raw := r.URL.Query().Get("role"); raw != "" {
		parsed, err := models.ParseRole(raw)
		if err != nil {
			h.fail(w, log, apperr.Invalid("Invalid Role"))
			return
		}
		role = parsed
	}

	users, err := h.store.Users().List(r.Context(), role)
	if err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if len(users) == 0 {
		h.fail(w, log, apperr.NotFound("No "+role.Title()+" Found"))
		return
	}
	utils.RespondData(w, users)
}

// DeleteUser removes a user by id.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	log := h.log("Delete User")

	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, log, err)
		return
	}
	n, err := h.store.Users().Delete(r.Context(), id)
	if err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if n == 0 {
		h.fail(w, log, apperr.NotFound("User Deletion Failed"))
		return
	}

	log.Info("user deleted", zap.String("id", id.String()))
	utils.RespondMessage(w, "User Deleted Successfully")
}

// MakeAdmin promotes a user to admin.
func (h *Handler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	log := h.log("Make Admin")

	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, log, err)
		return
	}
	res, err := h.store.Users().SetRole(r.Context(), id, models.RoleAdmin)
	if err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if res.Modified == 0 {
		h.fail(w, log, apperr.Invalid("Admin Creation Failed"))
		return
	}

	log.Info("user promoted to admin", zap.String("id", id.String()))
	utils.RespondMessage(w, "Admin Created Successfully")
}

// VerifyUser sets the seller trust flag directly.
func (h *Handler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	log := h.log("Verify User")

	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, log, err)
		return
	}
	res, err := h.store.Users().SetVerified(r.Context(), id, true)
	if err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if res.Modified == 0 {
		h.fail(w, log, apperr.Invalid("User Verification Failed"))
		return
	}
	utils.RespondMessage(w, "User Verified Successfully")
}

// DashboardStats are the admin dashboard counters.
type DashboardStats struct {
	ProductCount   int64 `json:"productCount"`
	SellerCount    int64 `json:"sellerCount"`
	BuyerCount     int64 `json:"buyerCount"`
	TotalUserCount int64 `json:"totalUserCount"`
}

// Dashboard reports product and user counts.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	log := h.log("Dashboard")
	ctx := r.Context()

	var (
		stats DashboardStats
		err   error
	)
	if stats.ProductCount, err = h.store.Products().Count(ctx); err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if stats.SellerCount, err = h.store.Users().Count(ctx, models.RoleSeller); err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if stats.BuyerCount, err = h.store.Users().Count(ctx, models.RoleBuyer); err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	if stats.TotalUserCount, err = h.store.Users().Count(ctx, ""); err != nil {
		h.fail(w, log, apperr.Store(err))
		return
	}
	utils.RespondData(w, stats)
}
