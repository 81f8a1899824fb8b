// Package api holds the HTTP handlers and router for the marketplace.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/raushankrgupta/phoneswap-server/apperr"
	"github.com/raushankrgupta/phoneswap-server/auth"
	"github.com/raushankrgupta/phoneswap-server/models"
	"github.com/raushankrgupta/phoneswap-server/store"
	"github.com/raushankrgupta/phoneswap-server/utils"
	"go.uber.org/zap"
)

// Deps are the collaborators shared by every handler.
type Deps struct {
	Store  store.Store
	Tokens *auth.TokenService
	Mailer utils.Mailer
	// Images is nil when no bucket is configured; image uploads then fail.
	Images     utils.ObjectUploader
	HTTPClient *http.Client
	Logger     *zap.Logger
	Now        func() time.Time
}

// Handler serves every route. Handlers are thin: decode, call the store,
// respond with the envelope.
type Handler struct {
	store      store.Store
	tokens     *auth.TokenService
	mailer     utils.Mailer
	images     utils.ObjectUploader
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
	started    time.Time
	validate   *validator.Validate
}

func NewHandler(d Deps) *Handler {
	h := &Handler{
		store:      d.Store,
		tokens:     d.Tokens,
		mailer:     d.Mailer,
		images:     d.Images,
		httpClient: d.HTTPClient,
		logger:     d.Logger,
		now:        d.Now,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.mailer == nil {
		h.mailer = utils.LogMailer{Logger: h.logger}
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.httpClient == nil {
		h.httpClient = utils.NewImageClient(30 * time.Second)
	}
	h.started = h.now()
	return h
}

func (h *Handler) log(api string) *zap.Logger {
	return h.logger.With(zap.String("api", api))
}

// statusFor maps error codes to HTTP statuses. Only the access control
// failures leave 200.
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeUnauthenticated, apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.CodeForbidden:
		return http.StatusForbidden
	}
	return http.StatusOK
}

// fail writes err as a failure envelope. Store failures are logged with their
// cause and reach the client only as a generic message.
func (h *Handler) fail(w http.ResponseWriter, log *zap.Logger, err error) {
	ae := apperr.As(err)
	if ae.Code == apperr.CodeStoreFailure {
		log.Error("store operation failed", zap.Error(ae.Err))
	} else {
		log.Info("request rejected", zap.String("code", string(ae.Code)), zap.String("reason", ae.Message))
	}
	utils.RespondError(w, statusFor(ae.Code), ae.Message)
}

// lookupErr turns a store lookup error into a domain error.
func lookupErr(err error, notFound string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(notFound)
	}
	return apperr.Store(err)
}

func pathID(r *http.Request, key string) (models.ID, error) {
	id, err := models.ParseID(chi.URLParam(r, key))
	if err != nil {
		return models.ID{}, apperr.Wrap(err, apperr.CodeInvalidIdentifier, "Invalid Identifier")
	}
	return id, nil
}

func pathEmail(r *http.Request) string {
	return chi.URLParam(r, "email")
}

// queryLimit reads the optional positive limit query parameter.
func queryLimit(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, apperr.Invalid("Invalid Limit")
	}
	return n, nil
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(err, apperr.CodeInvalid, "Invalid Request Body")
	}
	return nil
}

// decodeAndValidate decodes the body into v and runs its presence checks,
// failing with message when a required field is missing.
func (h *Handler) decodeAndValidate(r *http.Request, v any, message string) error {
	if err := decodeJSON(r, v); err != nil {
		return err
	}
	if err := h.validate.Struct(v); err != nil {
		return apperr.Wrap(err, apperr.CodeInvalid, message)
	}
	return nil
}

// caller returns the user loaded by Authorize.
func caller(r *http.Request) (*models.User, error) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return nil, apperr.New(apperr.CodeUnauthenticated, "Unauthorized Access")
	}
	return user, nil
}

// enrichSellers sets IsSellerVerified on each product from its seller's record.
func (h *Handler) enrichSellers(r *http.Request, products []models.Product) error {
	users, err := h.store.Users().List(r.Context(), "")
	if err != nil {
		return apperr.Store(err)
	}
	verified := make(map[string]bool, len(users))
	for _, u := range users {
		verified[u.ID.String()] = u.IsVerified
	}
	for i := range products {
		products[i].IsSellerVerified = verified[products[i].SellerID]
	}
	return nil
}
