package router

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/handlers"
	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/middleware"
	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func SetupRouter(db *sql.DB, logger zerolog.Logger) *mux.Router {
	authHandler := handlers.NewAuthHandler(db, logger)
	userHandler := handlers.NewUserHandler(db, logger)
	customerHandler := handlers.NewCustomerHandler(db, logger)
	itemHandler := handlers.NewItemHandler(db, logger)
	billHandler := handlers.NewBillHandler(db, logger)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		logger.Warn().Msg("JWT_SECRET not set, using default key")
	}

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(10), 20)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api/v1").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")

	adminOnly := middleware.RequireRole(string(models.RoleAdmin))
	staffOrAdmin := middleware.RequireRole(string(models.RoleAdmin), string(models.RoleStaff))

	customers := api.PathPrefix("/customers").Subrouter()
	customers.Use(middleware.Authentication(jwtSecret, logger))
	customers.HandleFunc("", customerHandler.GetCustomers).Methods("GET")
	customers.HandleFunc("", customerHandler.CreateCustomer).Methods("POST")
	customers.HandleFunc("/{id}", customerHandler.GetCustomer).Methods("GET")
	customers.HandleFunc("/{id}", customerHandler.UpdateCustomer).Methods("PUT")
	customers.Handle("/{id}", adminOnly(http.HandlerFunc(customerHandler.DeleteCustomer))).Methods("DELETE")
	customers.HandleFunc("/{id}/bills", customerHandler.HasBills).Methods("GET")

	items := api.PathPrefix("/items").Subrouter()
	items.Use(middleware.Authentication(jwtSecret, logger))
	items.HandleFunc("", itemHandler.GetItems).Methods("GET")
	items.HandleFunc("/{id}", itemHandler.GetItem).Methods("GET")
	items.Handle("", staffOrAdmin(http.HandlerFunc(itemHandler.CreateItem))).Methods("POST")
	items.Handle("/{id}", staffOrAdmin(http.HandlerFunc(itemHandler.UpdateItem))).Methods("PUT")
	items.Handle("/{id}", adminOnly(http.HandlerFunc(itemHandler.DeleteItem))).Methods("DELETE")

	bills := api.PathPrefix("/bills").Subrouter()
	bills.Use(middleware.Authentication(jwtSecret, logger))
	bills.HandleFunc("", billHandler.GetBills).Methods("GET")
	bills.HandleFunc("/{id}", billHandler.GetBill).Methods("GET")
	bills.Handle("", staffOrAdmin(http.HandlerFunc(billHandler.CreateBill))).Methods("POST")
	bills.Handle("/{id}", adminOnly(http.HandlerFunc(billHandler.DeleteBill))).Methods("DELETE")

	users := api.PathPrefix("/admin/users").Subrouter()
	users.Use(middleware.Authentication(jwtSecret, logger))
	users.Use(adminOnly)
	users.HandleFunc("", userHandler.GetUsers).Methods("GET")
	users.HandleFunc("", userHandler.CreateUser).Methods("POST")
	users.HandleFunc("/{id}", userHandler.GetUser).Methods("GET")
	users.HandleFunc("/{id}", userHandler.UpdateUser).Methods("PUT")
	users.HandleFunc("/{id}/password", userHandler.ChangePassword).Methods("PATCH")
	users.HandleFunc("/{id}", userHandler.DeleteUser).Methods("DELETE")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
