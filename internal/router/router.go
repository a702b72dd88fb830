package router

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"procurement/internal/controller"
	"procurement/internal/logger"

	"github.com/google/uuid"
)

func NewRouter(c *controller.Controller, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.Discard()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/ping", c.Ping)

	mux.HandleFunc("POST /api/login", c.Login)
	mux.HandleFunc("POST /api/logout", c.Logout)
	mux.HandleFunc("POST /api/reset-password", c.ResetPassword)
	mux.HandleFunc("POST /api/reset-password/{userId}", c.ConfirmPasswordReset)
	mux.HandleFunc("POST /api/change-password", c.ChangePassword)

	mux.HandleFunc("GET /api/auctions", c.Auctions)
	mux.HandleFunc("GET /api/auctions/{id}", c.Auction)
	mux.HandleFunc("GET /api/auctions/{id}/lines", c.AuctionLines)
	mux.HandleFunc("GET /api/auctions/{id}/comparison", c.Comparison)
	mux.HandleFunc("GET /api/auctions/{id}/comments", c.Comments)
	mux.HandleFunc("POST /api/auctions/{id}/comments", c.PostComment)
	mux.HandleFunc("POST /api/auctions/{id}/bids", c.SubmitBid)

	mux.HandleFunc("GET /api/purchase-orders", c.PurchaseOrders)
	mux.HandleFunc("GET /api/purchase-orders/statuses", c.PurchaseOrderStatuses)
	mux.HandleFunc("GET /api/purchase-orders/{id}", c.PurchaseOrder)
	mux.HandleFunc("POST /api/purchase-orders/{id}/status", c.SetPurchaseOrderStatus)

	mux.HandleFunc("GET /api/products", c.Products)
	mux.HandleFunc("POST /api/products", c.CreateProduct)
	mux.HandleFunc("PATCH /api/products", c.UpdateProduct)
	mux.HandleFunc("GET /api/products/{id}", c.Product)
	mux.HandleFunc("GET /api/enquiries", c.Enquiries)
	mux.HandleFunc("PATCH /api/enquiries/{id}", c.UpdateEnquiry)
	mux.HandleFunc("DELETE /api/enquiries/{id}", c.DeleteEnquiry)

	mux.HandleFunc("GET /api/organisations/sellers", c.Sellers)
	mux.HandleFunc("GET /api/organisations/clients", c.Clients)

	mux.HandleFunc("GET /api/tasks", c.Tasks)
	mux.HandleFunc("POST /api/tasks/{id}/action", c.TaskAction)

	mux.HandleFunc("POST /api/notifications/init", c.InitNotifications)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("page not found"))
	})

	cors := http.NewServeMux()
	cors.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		w.Header().Set("Accept", "*/*")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
		} else {
			mux.ServeHTTP(w, r)
		}
	})

	return recovery(cors, c, log)
}

// recovery keeps one broken handler from taking the process down.
// The client gets a fallback body it can act on.
func recovery(next http.Handler, c *controller.Controller, log *logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get("X-Request-ID")
		if len(requestId) == 0 {
			requestId = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestId)

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Errorf("router: request %s %s %s panicked: %v\n%s", requestId, r.Method, r.URL.Path, rec, debug.Stack())
			c.RecoveryResponse(w, fmt.Sprintf("something went wrong handling request %s", requestId))
		}()

		next.ServeHTTP(w, r)
	})
}
