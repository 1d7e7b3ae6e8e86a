package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	agentcontroller "omegashop/internal/agent/controller"
	"omegashop/internal/auth"
	authcontroller "omegashop/internal/auth/controller"
	categorycontroller "omegashop/internal/category/controller"
	chatcontroller "omegashop/internal/chat/controller"
	"omegashop/internal/domain"
	"omegashop/internal/infrastructure/metrics"
	ordercontroller "omegashop/internal/order/controller"
	productcontroller "omegashop/internal/product/controller"
	usercontroller "omegashop/internal/user/controller"
	vendorcontroller "omegashop/internal/vendors/controller"
)

type Controllers struct {
	Auth     *authcontroller.AuthController
	User     *usercontroller.UserController
	Product  *productcontroller.ProductController
	Category *categorycontroller.CategoryController
	Vendor   *vendorcontroller.VendorController
	Order    *ordercontroller.OrderController
	Chat     *chatcontroller.ChatController
	Agent    *agentcontroller.AgentController
}

// NewRouter mounts the public catalog reads, the auth endpoints and the
// authenticated API. Write access to the catalog is role-guarded.
func NewRouter(ctrl Controllers, resolver auth.TokenResolver, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", ctrl.Auth.Signup)
		r.Post("/signin", ctrl.Auth.Signin)
	})

	// Catalog reads are public.
	r.Get("/products", ctrl.Product.ListProducts)
	r.Get("/products/vendors/{vendorId}", ctrl.Product.ListVendorProducts)
	r.Get("/products/{slug}", ctrl.Product.GetProduct)
	r.Get("/categories", ctrl.Category.ListCategories)
	r.Get("/categories/{slug}", ctrl.Category.GetCategory)
	r.Get("/vendors/{vendorId}", ctrl.Vendor.GetVendor)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(resolver))

		r.With(auth.RequireRole(domain.RoleAdmin)).Get("/users", ctrl.User.ListUsers)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(domain.RoleVendor, domain.RoleAdmin))
			r.Post("/products", ctrl.Product.CreateProduct)
			r.Put("/products/{slug}", ctrl.Product.UpdateProduct)
			r.Delete("/products/{slug}", ctrl.Product.DeleteProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(domain.RoleAdmin))
			r.Post("/categories", ctrl.Category.CreateCategory)
			r.Put("/categories/{slug}", ctrl.Category.UpdateCategory)
			r.Delete("/categories/{categoryId}", ctrl.Category.DeleteCategory)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(domain.RoleVendor, domain.RoleAdmin))
			r.Post("/vendors", ctrl.Vendor.CreateVendor)
			r.Put("/vendors/{vendorId}", ctrl.Vendor.UpdateVendor)
			r.Delete("/vendors/{vendorId}", ctrl.Vendor.DeleteVendor)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", ctrl.Order.CreateOrder)
			r.With(auth.RequireRole(domain.RoleAdmin)).Get("/", ctrl.Order.ListOrders)
			r.Get("/customers/{customerId}", ctrl.Order.ListCustomerOrders)
			r.Get("/{orderId}", ctrl.Order.GetOrder)
			r.With(auth.RequireRole(domain.RoleAdmin)).Patch("/{orderId}/status", ctrl.Order.UpdateStatus)
		})

		r.Route("/conversations", func(r chi.Router) {
			r.Post("/", ctrl.Chat.StartConversation)
			r.Post("/{conversationId}/messages", ctrl.Chat.SendMessage)
			r.Get("/{conversationId}/messages", ctrl.Chat.ListMessages)
		})

		r.Post("/agent/prompt", ctrl.Agent.Prompt)
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
