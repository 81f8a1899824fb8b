package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/raushankrgupta/phoneswap-server/auth"
	"github.com/raushankrgupta/phoneswap-server/models"
	"github.com/raushankrgupta/phoneswap-server/utils"
	"go.uber.org/zap"
)

// NewRouter wires every route with its access control stages.
//
// Ownership checks run before role checks so that a mismatched path email is
// always answered with 401, whatever the caller's role.
func NewRouter(h *Handler, guard *auth.Guard, logger *zap.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(utils.RequestID)
	r.Use(chimid.RealIP)
	r.Use(utils.Recovery(logger))
	r.Use(utils.AccessLog(logger))
	r.Use(utils.CORS(allowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusNotFound, "Route Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	// public
	r.Get("/", h.Root)
	r.Get("/healthz", h.Health)
	r.Get("/token", h.Token)
	r.Put("/users", h.UpsertUser)
	r.Get("/products/promoted", h.ListPromoted)
	r.Get("/products/{id}", h.GetProduct)
	r.Get("/productCategory", h.ListCategories)
	r.Get("/productCategory/{id}", h.GetCategory)

	r.Group(func(r chi.Router) {
		r.Use(guard.Authenticate)
		self := guard.RequireSelf(pathEmail)
		admin := guard.Authorize(models.RoleAdmin)
		seller := guard.Authorize(models.RoleSeller)
		buyer := guard.Authorize(models.RoleBuyer)

		selfOrAdmin := guard.SelfOrRole(pathEmail, models.RoleAdmin)
		r.With(selfOrAdmin).Get("/users/role/{email}", h.GetUserRole)
		r.With(selfOrAdmin).Get("/users/{email}", h.GetUser)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Get("/users", h.ListUsers)
			r.Delete("/users/{id}", h.DeleteUser)
			r.Put("/users/admin/{id}", h.MakeAdmin)
			r.Put("/users/verify/{id}", h.VerifyUser)
			r.Get("/dashboard", h.Dashboard)

			r.Post("/productCategory", h.CreateCategory)
			r.Put("/productCategory/{id}", h.UpdateCategory)
			r.Delete("/productCategory/{id}", h.DeleteCategory)

			r.Get("/seller-verification", h.ListVerifications)
			r.Put("/seller-verification/{id}", h.ApproveVerification)
			r.Delete("/seller-verification/{id}", h.DeleteVerification)
		})

		r.Group(func(r chi.Router) {
			r.Use(seller)
			r.Post("/products", h.CreateProduct)
			r.Post("/product", h.CreateProduct)
			r.Post("/products/image", h.UploadProductImage)
			r.Get("/products/seller/{sellerId}", h.ListSellerProducts)
			r.Delete("/products/seller/{id}", h.DeleteSellerProduct)
			r.Patch("/products/seller/promote/{id}", h.PromoteProduct)
			r.Post("/seller-verification", h.SubmitVerification)
		})
		r.With(self, seller).Get("/seller-verification/{email}", h.GetVerification)

		r.With(buyer).Get("/products/category/{cat_id}", h.ListByCategory)
		r.With(buyer).Post("/products/book/{id}", h.BookProduct)
		r.Group(func(r chi.Router) {
			r.Use(self, buyer)
			r.Get("/products/booked/{email}", h.ListBookings)
			r.Get("/products/booked/{email}/{id}", h.GetBooking)
			r.Post("/wishlist/{email}", h.AddToWishlist)
			r.Get("/wishlist/{email}", h.ListWishlist)
			r.Delete("/wishlist/{email}/{id}", h.RemoveFromWishlist)
		})
	})

	return r
}
