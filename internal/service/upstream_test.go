package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"procurement/internal/api"
	"procurement/internal/models"
	"procurement/internal/session"

	gofakeit "github.com/brianvoe/gofakeit/v7"
)

// upstream is an in-memory stand-in for the procurement API.
type upstream struct {
	mu        sync.Mutex
	auctions  []models.Auction
	lines     map[models.ID][]models.AuctionLine
	orders    []models.PurchaseOrder
	statuses  []models.PurchaseOrderStatus
	enquiries []models.ProductEnquiry
	tasks     []models.WorkflowTask
	comments  map[models.ID][]models.Comment
	bids      []api.BidRequest

	ordersDown atomic.Bool
	linesDown  atomic.Bool
	calls      atomic.Int32
}

func newUpstream() *upstream {
	return &upstream{
		lines:    map[models.ID][]models.AuctionLine{},
		comments: map[models.ID][]models.Comment{},
	}
}

func (u *upstream) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, api.LoginResponse{Token: gofakeit.UUID(), UserId: "1"})
	})
	mux.HandleFunc("GET /auctions/{$}", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		defer u.mu.Unlock()
		writeJSON(w, map[string]any{"results": u.auctions})
	})
	mux.HandleFunc("GET /auctions/{id}", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		defer u.mu.Unlock()
		for _, a := range u.auctions {
			if a.Id == models.ID(r.PathValue("id")) {
				writeJSON(w, a)
				return
			}
		}
		http.Error(w, `{"detail": "Not found."}`, http.StatusNotFound)
	})
	mux.HandleFunc("GET /auctions/{id}/auction-lines", func(w http.ResponseWriter, r *http.Request) {
		if u.linesDown.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		u.mu.Lock()
		defer u.mu.Unlock()
		writeJSON(w, u.lines[models.ID(r.PathValue("id"))])
	})
	mux.HandleFunc("GET /auctions/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		defer u.mu.Unlock()
		writeJSON(w, u.comments[models.ID(r.PathValue("id"))])
	})
	mux.HandleFunc("POST /auctions/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		var c models.Comment
		json.NewDecoder(r.Body).Decode(&c)
		u.mu.Lock()
		defer u.mu.Unlock()
		id := models.ID(r.PathValue("id"))
		u.comments[id] = append(u.comments[id], c)
		writeJSON(w, c)
	})
	mux.HandleFunc("POST /auctions/{id}/bids", func(w http.ResponseWriter, r *http.Request) {
		var req api.BidRequest
		json.NewDecoder(r.Body).Decode(&req)
		u.mu.Lock()
		defer u.mu.Unlock()
		u.bids = append(u.bids, req)
		writeJSON(w, models.Bid{
			Id:         "b1",
			AuctionId:  models.ID(r.PathValue("id")),
			TotalPrice: req.TotalPrice,
			Currency:   req.Currency,
			LinePrices: req.LinePrices,
		})
	})
	mux.HandleFunc("GET /purchase-orders/{$}", func(w http.ResponseWriter, r *http.Request) {
		if u.ordersDown.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		u.mu.Lock()
		defer u.mu.Unlock()
		writeJSON(w, u.orders)
	})
	mux.HandleFunc("GET /purchase-orders/{id}/", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		defer u.mu.Unlock()
		for _, po := range u.orders {
			if po.Id == models.ID(r.PathValue("id")) {
				writeJSON(w, po)
				return
			}
		}
		http.Error(w, `{"detail": "Not found."}`, http.StatusNotFound)
	})
	mux.HandleFunc("GET /purchase-order-status/", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		defer u.mu.Unlock()
		writeJSON(w, u.statuses)
	})
	mux.HandleFunc("POST /purchase-order-status/", func(w http.ResponseWriter, r *http.Request) {
		var st models.PurchaseOrderStatus
		json.NewDecoder(r.Body).Decode(&st)
		u.mu.Lock()
		defer u.mu.Unlock()
		u.statuses = append(u.statuses, st)
		for i := range u.orders {
			if u.orders[i].Id == st.PurchaseOrderId {
				u.orders[i].Status = st.Status
			}
		}
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("GET /product/enquiries/", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		defer u.mu.Unlock()
		writeJSON(w, u.enquiries)
	})
	mux.HandleFunc("PATCH /product/enquiries/{id}/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Status models.EnquiryStatus `json:"int_status"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		u.mu.Lock()
		defer u.mu.Unlock()
		for i := range u.enquiries {
			if u.enquiries[i].Id == models.ID(r.PathValue("id")) {
				u.enquiries[i].Status = body.Status
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /workflow/tasks/", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		defer u.mu.Unlock()
		writeJSON(w, u.tasks)
	})
	mux.HandleFunc("POST /workflow/tasks/{id}/action/", func(w http.ResponseWriter, r *http.Request) {
		var req api.TaskActionRequest
		json.NewDecoder(r.Body).Decode(&req)
		u.mu.Lock()
		defer u.mu.Unlock()
		for i := range u.tasks {
			if u.tasks[i].Id == models.ID(r.PathValue("id")) {
				u.tasks[i].Status = req.Status
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		mux.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// startService wires a Service to a fresh upstream. loggedIn stores a token first.
func startService(t *testing.T, loggedIn bool) (*Service, *upstream) {
	t.Helper()

	u := newUpstream()
	srv := httptest.NewServer(u.handler())
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	if loggedIn {
		err := session.Save(context.Background(), store, models.User{Token: gofakeit.UUID(), UserId: "1", Email: gofakeit.Email()})
		if err != nil {
			t.Fatal(err)
		}
	}

	return NewService(api.NewClient(srv.URL, store), nil, nil), u
}
