package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ray-remotestate/swiftserve/handlers"
	"github.com/ray-remotestate/swiftserve/middlewares"
	"github.com/ray-remotestate/swiftserve/models"
)

type Server struct {
	Router  *mux.Router
	handler http.Handler
	server  *http.Server
}

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
)

type Deps struct {
	Handler     *handlers.Handler
	Auth        *middlewares.Auth
	Limiter     *middlewares.RateLimiter
	Realtime    http.Handler
	CORSOrigins []string
}

func SetupRoutes(d Deps) *Server {
	h := d.Handler
	router := mux.NewRouter()
	if d.Realtime != nil {
		router.Handle("/ws", d.Realtime).Methods("GET")
	}

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", h.Health).Methods("GET")
	api.HandleFunc("/features", h.Features).Methods("GET")
	api.HandleFunc("/menu", h.ListMenu).Methods("GET")
	api.HandleFunc("/menu/categories", h.ListCategories).Methods("GET")
	api.HandleFunc("/orders", h.ListOrders).Methods("GET")
	api.HandleFunc("/orders/{id}", h.GetOrder).Methods("GET")
	api.HandleFunc("/orders/{id}/history", h.OrderHistory).Methods("GET")
	api.HandleFunc("/settings", h.GetSettings).Methods("GET")

	api.HandleFunc("/auth/login", h.Login).Methods("POST")
	api.HandleFunc("/auth/refresh", h.RefreshToken).Methods("POST")
	api.HandleFunc("/auth/logout", h.Logout).Methods("POST")

	// customer writes and assistant calls are throttled per IP
	limited := api.NewRoute().Subrouter()
	limited.Use(d.Limiter.Middleware)
	limited.HandleFunc("/orders", h.CreateOrder).Methods("POST")
	limited.HandleFunc("/ai/customize", h.Customize).Methods("POST")
	limited.HandleFunc("/ai/menu-recommendations", h.MenuRecommendations).Methods("POST")

	staff := api.NewRoute().Subrouter()
	staff.Use(d.Auth.AuthMiddleware, d.Auth.RoleBasedMiddleware(models.RoleStaff, models.RoleAdmin))
	staff.HandleFunc("/menu", h.CreateMenuItem).Methods("POST")
	staff.HandleFunc("/menu/bulk-price", h.BulkUpdatePrices).Methods("POST")
	staff.HandleFunc("/menu/{id}", h.UpdateMenuItem).Methods("PUT")
	staff.HandleFunc("/menu/{id}", h.DeleteMenuItem).Methods("DELETE")
	staff.HandleFunc("/menu/{id}/toggle", h.ToggleAvailability).Methods("POST")
	staff.HandleFunc("/orders/{id}", h.UpdateOrderStatus).Methods("PATCH")
	staff.HandleFunc("/kitchen", h.KitchenBoard).Methods("GET")
	staff.HandleFunc("/analytics", h.Analytics).Methods("GET")
	staff.Handle("/ai/suggest_action", d.Limiter.Middleware(http.HandlerFunc(h.SuggestAction))).Methods("POST")

	// admin only
	admin := api.NewRoute().Subrouter()
	admin.Use(d.Auth.AuthMiddleware, d.Auth.RoleBasedMiddleware(models.RoleAdmin))
	admin.HandleFunc("/settings", h.UpdateSettings).Methods("PUT")

	return &Server{
		Router:  router,
		handler: middlewares.CORS(d.CORSOrigins)(middlewares.RequestLogger(router)),
	}
}

func (svr *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	svr.handler.ServeHTTP(w, r)
}

func (svr *Server) Run(port string) error {
	svr.server = &http.Server{
		Addr:              port,
		Handler:           svr.handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	return svr.server.ListenAndServe()
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	if svr.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svr.server.Shutdown(ctx)
}
