package routes

import (
	"net/http"

	"github.com/asospay/rewards_platform/internal/auth"
	"github.com/asospay/rewards_platform/internal/handlers"
	appmw "github.com/asospay/rewards_platform/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRoutes(resolver auth.Resolver, api *handlers.API) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello from the backend server!"))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Works Fine!"))
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(appmw.Authenticated(resolver))

		r.Post("/create-profile", api.CreateProfile)
		r.Get("/profile", api.GetProfile)

		r.Get("/tasks", api.GetTasks)
		r.Post("/add-tasks", api.AddTask)
		r.Delete("/sell-all-tasks", api.SellAllTasks)
		r.Put("/update-commission", api.UpdateCommission)

		r.Post("/withdrawal-request", api.SubmitWithdrawal)
		r.Get("/user-withdrawals", api.UserWithdrawals)

		r.With(appmw.AdminOnly).Get("/all-profiles", api.ListProfiles)
		r.With(appmw.AdminOnly).Put("/top-up-wallet", api.TopUpWallet)

		r.Route("/admin", func(r chi.Router) {
			r.Use(appmw.AdminOnly)
			r.Get("/withdrawals", api.AdminWithdrawals)
			r.Put("/withdrawals/approve", api.ApproveWithdrawal)
		})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
