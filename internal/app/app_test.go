package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"procurement/internal/auction"
	"procurement/internal/config"
	"procurement/internal/controller"
	"procurement/internal/models"
	"procurement/internal/session"

	gofakeit "github.com/brianvoe/gofakeit/v7"
)

func TestAppStartup(t *testing.T) {
	app := StartupApp(t)
	StopApp(app)
}

func TestPing(t *testing.T) {
	app := StartupApp(t)
	defer StopApp(app)

	resp := DoRequest(t, app, "GET", "/api/ping", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/api/ping should return status code 200, got %d", resp.StatusCode)
	}
}

func TestLoginAndAuctions(t *testing.T) {
	app := StartupApp(t)
	defer StopApp(app)

	resp := DoRequest(t, app, "GET", "/api/auctions", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("/api/auctions without session should return 401, got %d", resp.StatusCode)
	}

	Login(t, app)

	resp = DoRequest(t, app, "GET", "/api/auctions?sort=-created_at", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/api/auctions should return status code 200, got %d: %s", resp.StatusCode, ReadBody(t, resp))
	}

	var buckets auction.Buckets
	if err := json.Unmarshal(ReadBody(t, resp), &buckets); err != nil {
		t.Fatal(err)
	}
	if len(buckets.Completed) != 1 || buckets.Completed[0].Id != "1" {
		t.Errorf("Auction with purchase order should be completed, got %+v", buckets.Completed)
	}
	if len(buckets.InProgress) != 1 || buckets.InProgress[0].Id != "2" {
		t.Errorf("Expected auction 2 in progress, got %+v", buckets.InProgress)
	}
	if len(buckets.Draft) != 0 {
		t.Errorf("Expected no drafts, got %+v", buckets.Draft)
	}
}

func TestLoginValidation(t *testing.T) {
	app := StartupApp(t)
	defer StopApp(app)

	body, _ := json.Marshal(controller.LoginReq{Email: "nobody", Password: "x"})
	resp := DoRequest(t, app, "POST", "/api/login", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("/api/login with malformed email should return 400, got %d", resp.StatusCode)
	}

	body, _ = json.Marshal(controller.LoginReq{Email: gofakeit.Email(), Password: "wrong"})
	resp = DoRequest(t, app, "POST", "/api/login", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("/api/login with rejected credentials should pass upstream 400, got %d", resp.StatusCode)
	}
}

func TestLogout(t *testing.T) {
	app := StartupApp(t)
	defer StopApp(app)

	Login(t, app)

	resp := DoRequest(t, app, "POST", "/api/logout", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("/api/logout should return 204, got %d", resp.StatusCode)
	}

	resp = DoRequest(t, app, "GET", "/api/auctions", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("/api/auctions after logout should return 401, got %d", resp.StatusCode)
	}
}

func TestUpstreamFailure(t *testing.T) {
	app := StartupApp(t)
	defer StopApp(app)

	Login(t, app)

	resp := DoRequest(t, app, "GET", "/api/tasks", nil)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("/api/tasks with failing upstream should return 502, got %d", resp.StatusCode)
	}
}

func TestNotificationsDisabled(t *testing.T) {
	app := StartupApp(t)
	defer StopApp(app)

	resp := DoRequest(t, app, "POST", "/api/notifications/init", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("/api/notifications/init without permission should return 403, got %d", resp.StatusCode)
	}
}

// Service

const password = "correct-horse"

func FakeUpstream(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /login/", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != password {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"detail": "Invalid credentials"}`)
			return
		}
		fmt.Fprintf(w, `{"token": "%s", "user_id": 42}`, gofakeit.UUID())
	})
	mux.HandleFunc("GET /auctions/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"count": 2, "results": [
			{"id": 1, "title": "Steel pipes", "status": "In-Progress", "created_at": "2024-01-01T10:00:00Z"},
			{"id": 2, "title": "Copper wire", "status": "in-progress", "created_at": "2024-02-01T10:00:00Z"}
		]}`)
	})
	mux.HandleFunc("GET /purchase-orders/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id": 5, "po_number": "PO-5", "bid": {"id": 9, "bid_header_details": {"auction": 1}}, "int_status": 0}]`)
	})
	mux.HandleFunc("GET /workflow/tasks/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func StartupApp(t *testing.T) *App {
	gofakeit.Seed(0)

	cfg, err := config.NewConfig()
	if err != nil {
		t.Fatal(err)
	}
	cfg.ServerAddress = FreeAddress(t)
	cfg.BaseURL = FakeUpstream(t).URL
	cfg.LogLevel = "ERROR"
	cfg.NotifyConfig.Enabled = false

	app, err := NewApp(WithConfig(cfg), WithStore(session.NewMemoryStore()))
	if err != nil {
		t.Fatal(err)
	}

	go app.Run()
	WaitReady(t, app)

	return app
}

func StopApp(app *App) {
	app.stopSig <- os.Interrupt
	<-app.Done
}

func FreeAddress(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return l.Addr().String()
}

func WaitReady(t *testing.T, app *App) {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(fmt.Sprintf("http://%s/api/ping", app.cfg.ServerAddress))
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("gateway did not start in time")
}

func Login(t *testing.T, app *App) {
	body, err := json.Marshal(controller.LoginReq{Email: gofakeit.Email(), Password: password})
	if err != nil {
		t.Fatal(err)
	}

	resp := DoRequest(t, app, "POST", "/api/login", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/api/login should return status code 200, got %d: %s", resp.StatusCode, ReadBody(t, resp))
	}

	var user struct {
		UserId models.ID `json:"user_id"`
	}
	if err := json.Unmarshal(ReadBody(t, resp), &user); err != nil {
		t.Fatal(err)
	}
	if user.UserId != "42" {
		t.Fatalf("Expected user id 42, got '%s'", user.UserId)
	}
}

func DoRequest(t *testing.T, app *App, method, path string, body []byte) *http.Response {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, fmt.Sprintf("http://%s%s", app.cfg.ServerAddress, path), reader)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func ReadBody(t *testing.T, resp *http.Response) []byte {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return data
}
