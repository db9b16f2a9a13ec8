package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/foodwaste/portal/internal/bus"
	"github.com/foodwaste/portal/internal/domain"
	"github.com/foodwaste/portal/internal/repository"

	_ "modernc.org/sqlite"
)

// createTestServer creates a server over a fresh SQLite file seeded with two
// providers, two receivers, two listings and three claims.
func createTestServer(t *testing.T, eventBus domain.EventBus) (*Server, *repository.SQLRepository) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "portal.db")
	repo, err := repository.New(domain.RepositoryConfig{
		Driver:     "sqlite",
		SQLitePath: path,
	})
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open seed connection: %v", err)
	}
	defer db.Close()

	seed := []string{
		`INSERT INTO providers (Name, Type, Address, City, Contact) VALUES ('Green Grocer', 'Grocery Store', '1 Main St', 'Springfield', '555-0100')`,
		`INSERT INTO providers (Name, Type, Address, City, Contact) VALUES ('Daily Bread', 'Restaurant', '9 Elm St', 'Shelbyville', '555-0199')`,
		`INSERT INTO receivers (Name, City, Contact) VALUES ('City Shelter', 'Springfield', '555-0200')`,
		`INSERT INTO receivers (Name, City, Contact) VALUES ('Food Bank', 'Shelbyville', '555-0299')`,
		`INSERT INTO food_listings (Food_Name, Quantity, Expiry_Date, Location, Food_Type, Meal_Type, Provider_ID) VALUES ('Rice', 30, '2025-03-17', 'Springfield', 'Vegetarian', 'Lunch', 1)`,
		`INSERT INTO food_listings (Food_Name, Quantity, Expiry_Date, Location, Food_Type, Meal_Type, Provider_ID) VALUES ('Chicken', 15, '2025-03-18', 'Shelbyville', 'Non-Vegetarian', 'Dinner', 2)`,
		`INSERT INTO claims (Food_ID, Receiver_ID, Status) VALUES (1, 1, 'Completed')`,
		`INSERT INTO claims (Food_ID, Receiver_ID, Status) VALUES (2, 1, 'Completed')`,
		`INSERT INTO claims (Food_ID, Receiver_ID, Status) VALUES (1, 2, 'Pending')`,
	}
	for _, stmt := range seed {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed failed: %v\n%s", err, stmt)
		}
	}

	cfg := domain.ServerConfig{
		Host:         "localhost",
		Port:         8080,
		ReadTimeout:  30,
		WriteTimeout: 30,
	}
	return NewServer(cfg, repo, eventBus, "test-v1"), repo
}

func doRequest(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to parse response: %v: %s", err, rr.Body.String())
	}
	return v
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := createTestServer(t, nil)

	rr := doRequest(server, http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	resp := decode[map[string]string](t, rr)
	if resp["status"] != "healthy" {
		t.Errorf("expected status healthy, got %s", resp["status"])
	}
	if resp["version"] != "test-v1" {
		t.Errorf("expected version test-v1, got %s", resp["version"])
	}

	if rr.Header().Get(RequestIDHeader) == "" {
		t.Error("expected X-Request-ID header")
	}
	if rr.Header().Get(TraceIDHeader) == "" {
		t.Error("expected X-Trace-ID header")
	}
}

func TestHandlerHealthDegraded(t *testing.T) {
	server, repo := createTestServer(t, nil)
	h := server.Handler()

	call := func() map[string]string {
		rr := httptest.NewRecorder()
		h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		return decode[map[string]string](t, rr)
	}

	if resp := call(); resp["status"] != "healthy" {
		t.Fatalf("expected status healthy, got %s", resp["status"])
	}

	repo.Close()

	if resp := call(); resp["status"] != "degraded" {
		t.Errorf("expected status degraded after store closed, got %s", resp["status"])
	}
}

func TestReadyEndpoint(t *testing.T) {
	server, _ := createTestServer(t, nil)

	rr := doRequest(server, http.MethodGet, "/ready", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	server, _ := createTestServer(t, nil)

	rr := doRequest(server, http.MethodGet, "/dashboard", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	summary := decode[domain.DashboardSummary](t, rr)
	want := domain.DashboardSummary{TotalProviders: 2, TotalReceivers: 2, TotalFood: 45, TotalClaims: 3}
	if summary != want {
		t.Errorf("expected %+v, got %+v", want, summary)
	}
}

func TestReportEndpoints(t *testing.T) {
	server, _ := createTestServer(t, nil)

	t.Run("ListReports", func(t *testing.T) {
		rr := doRequest(server, http.MethodGet, "/reports", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}

		resp := decode[struct {
			Reports []ReportInfo `json:"reports"`
			Count   int          `json:"count"`
		}](t, rr)
		if resp.Count != len(domain.Reports()) {
			t.Errorf("expected %d reports, got %d", len(domain.Reports()), resp.Count)
		}
		if resp.Reports[0].Name != domain.ReportProvidersPerCity {
			t.Errorf("expected first report %s, got %s", domain.ReportProvidersPerCity, resp.Reports[0].Name)
		}
		if resp.Reports[0].Title == "" {
			t.Error("expected report title")
		}
	})

	t.Run("RunReport", func(t *testing.T) {
		rr := doRequest(server, http.MethodGet, "/reports/claims-by-status", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}

		resp := decode[struct {
			Report domain.Report         `json:"report"`
			Title  string                `json:"title"`
			Rows   []domain.StatusShare `json:"rows"`
		}](t, rr)
		if resp.Report != domain.ReportClaimsByStatus {
			t.Errorf("expected report %s, got %s", domain.ReportClaimsByStatus, resp.Report)
		}

		var total float64
		for _, row := range resp.Rows {
			total += row.Percentage
		}
		if total < 99.99 || total > 100.01 {
			t.Errorf("expected percentages to sum to 100, got %f", total)
		}
	})

	t.Run("UnknownReport", func(t *testing.T) {
		rr := doRequest(server, http.MethodGet, "/reports/no-such-report", nil)
		if rr.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rr.Code)
		}

		resp := decode[map[string]string](t, rr)
		if resp["error"] == "" {
			t.Error("expected error message")
		}
	})

	t.Run("RunAllReports", func(t *testing.T) {
		rr := doRequest(server, http.MethodGet, "/reports/all", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}

		resp := decode[struct {
			Reports []struct {
				Report domain.Report `json:"report"`
			} `json:"reports"`
			Count int `json:"count"`
		}](t, rr)
		if resp.Count != len(domain.Reports()) {
			t.Fatalf("expected %d results, got %d", len(domain.Reports()), resp.Count)
		}
		for i, rep := range domain.Reports() {
			if resp.Reports[i].Report != rep {
				t.Errorf("result %d: expected %s, got %s", i, rep, resp.Reports[i].Report)
			}
		}
	})
}

func TestSearchFoodEndpoint(t *testing.T) {
	server, _ := createTestServer(t, nil)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"NoFilter", "/food", 2},
		{"Location", "/food?location=spring", 1},
		{"Provider", "/food?provider=BREAD", 1},
		{"FoodType", "/food?food_type=vegetarian", 2},
		{"Combined", "/food?location=shelby&food_type=non", 1},
		{"NoMatch", "/food?location=ityX", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(server, http.MethodGet, tt.query, nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rr.Code)
			}

			resp := decode[struct {
				Results []domain.FoodSearchRow `json:"results"`
				Count   int                    `json:"count"`
			}](t, rr)
			if resp.Count != tt.want || len(resp.Results) != tt.want {
				t.Errorf("expected %d results, got %d", tt.want, resp.Count)
			}
		})
	}
}

func TestContactsEndpoint(t *testing.T) {
	server, _ := createTestServer(t, nil)

	t.Run("Providers", func(t *testing.T) {
		rr := doRequest(server, http.MethodGet, "/contacts/providers", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}

		resp := decode[struct {
			Contacts []domain.Contact `json:"contacts"`
		}](t, rr)
		if len(resp.Contacts) != 2 {
			t.Errorf("expected 2 contacts, got %d", len(resp.Contacts))
		}
	})

	t.Run("UnknownKind", func(t *testing.T) {
		rr := doRequest(server, http.MethodGet, "/contacts/volunteers", nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})
}

func TestTableEndpoints(t *testing.T) {
	server, _ := createTestServer(t, nil)

	rr := doRequest(server, http.MethodGet, "/food-listings", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	listings := decode[struct {
		FoodListings []domain.FoodListing `json:"foodListings"`
	}](t, rr)
	if len(listings.FoodListings) != 2 {
		t.Errorf("expected 2 listings, got %d", len(listings.FoodListings))
	}

	rr = doRequest(server, http.MethodGet, "/claims", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	claims := decode[struct {
		Claims []domain.Claim `json:"claims"`
	}](t, rr)
	if len(claims.Claims) != 3 {
		t.Errorf("expected 3 claims, got %d", len(claims.Claims))
	}
}

func TestProviderEndpoints(t *testing.T) {
	server, _ := createTestServer(t, nil)

	listProviders := func(t *testing.T) []domain.Provider {
		t.Helper()
		rr := doRequest(server, http.MethodGet, "/providers", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		return decode[struct {
			Providers []domain.Provider `json:"providers"`
		}](t, rr).Providers
	}

	t.Run("Add", func(t *testing.T) {
		body, _ := json.Marshal(domain.ProviderInput{
			Name:    "Corner Cafe",
			Type:    "Restaurant",
			Address: "3 Oak St",
			City:    "Springfield",
			Contact: "555-0300",
		})
		rr := doRequest(server, http.MethodPost, "/providers", body)
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
		}

		providers := listProviders(t)
		if len(providers) != 3 || providers[2].Name != "Corner Cafe" {
			t.Errorf("expected new provider last, got %+v", providers)
		}
	})

	t.Run("Update", func(t *testing.T) {
		body, _ := json.Marshal(domain.ProviderInput{Name: "Green Grocer II", City: "Springfield"})
		rr := doRequest(server, http.MethodPut, "/providers/1", body)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}

		providers := listProviders(t)
		if providers[0].Name != "Green Grocer II" {
			t.Errorf("expected updated name, got %s", providers[0].Name)
		}
		if providers[1].Name != "Daily Bread" {
			t.Errorf("expected other provider untouched, got %s", providers[1].Name)
		}
	})

	t.Run("UpdateMissingID", func(t *testing.T) {
		body, _ := json.Marshal(domain.ProviderInput{Name: "Ghost"})
		rr := doRequest(server, http.MethodPut, "/providers/999", body)
		if rr.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rr.Code)
		}
	})

	t.Run("NonIntegerID", func(t *testing.T) {
		rr := doRequest(server, http.MethodDelete, "/providers/abc", nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		rr := doRequest(server, http.MethodPost, "/providers", []byte("not-json"))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		rr := doRequest(server, http.MethodDelete, "/providers/2", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}

		for _, p := range listProviders(t) {
			if p.ID == 2 {
				t.Error("expected provider 2 to be deleted")
			}
		}
	})
}

func TestReceiverEndpoints(t *testing.T) {
	server, _ := createTestServer(t, nil)

	body, _ := json.Marshal(domain.ReceiverInput{Name: "Youth Club", City: "Springfield", Contact: "555-0400"})
	rr := doRequest(server, http.MethodPost, "/receivers", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	body, _ = json.Marshal(domain.ReceiverInput{Name: "Youth Club", City: "Shelbyville", Contact: "555-0400"})
	rr = doRequest(server, http.MethodPut, "/receivers/3", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	rr = doRequest(server, http.MethodDelete, "/receivers/1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	rr = doRequest(server, http.MethodGet, "/receivers", nil)
	receivers := decode[struct {
		Receivers []domain.Receiver `json:"receivers"`
		Count     int               `json:"count"`
	}](t, rr)
	if receivers.Count != 2 {
		t.Fatalf("expected 2 receivers, got %d", receivers.Count)
	}
	if receivers.Receivers[1].City != "Shelbyville" || receivers.Receivers[1].Name != "Youth Club" {
		t.Errorf("expected updated receiver, got %+v", receivers.Receivers[1])
	}
}

func TestWritePublishesChange(t *testing.T) {
	eventBus := bus.NewChannelBus(10)
	defer eventBus.Close()

	server, _ := createTestServer(t, eventBus)

	received := make(chan *domain.Message, 1)
	_, err := eventBus.Subscribe(context.Background(), domain.TopicReceiverUpdated, func(ctx context.Context, msg *domain.Message) error {
		received <- msg
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	body, _ := json.Marshal(domain.ReceiverInput{Name: "City Shelter", City: "Capital City"})
	req := httptest.NewRequest(http.MethodPut, "/receivers/1", bytes.NewReader(body))
	req.Header.Set(RequestIDHeader, "req-123")
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	select {
	case msg := <-received:
		var change domain.RecordChange
		if err := json.Unmarshal(msg.Payload, &change); err != nil {
			t.Fatalf("failed to parse change: %v", err)
		}
		if change.Entity != "receiver" || change.Action != "updated" || change.ID != 1 {
			t.Errorf("unexpected change: %+v", change)
		}
		if change.RequestID != "req-123" {
			t.Errorf("expected request id req-123, got %s", change.RequestID)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for change event")
	}
}

func TestFailedWritePublishesNothing(t *testing.T) {
	eventBus := bus.NewChannelBus(10)
	defer eventBus.Close()

	server, _ := createTestServer(t, eventBus)

	received := make(chan *domain.Message, 1)
	eventBus.Subscribe(context.Background(), domain.TopicProviderDeleted, func(ctx context.Context, msg *domain.Message) error {
		received <- msg
		return nil
	})

	rr := doRequest(server, http.MethodDelete, "/providers/not-a-number", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	select {
	case msg := <-received:
		t.Errorf("expected no change event, got %s", msg.Topic)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStoreUnavailable(t *testing.T) {
	server, repo := createTestServer(t, nil)
	repo.Close()

	for _, path := range []string{"/dashboard", "/providers", "/reports/top-receivers", "/food"} {
		t.Run(path, func(t *testing.T) {
			rr := doRequest(server, http.MethodGet, path, nil)
			if rr.Code != http.StatusServiceUnavailable {
				t.Errorf("expected status 503, got %d", rr.Code)
			}

			resp := decode[map[string]string](t, rr)
			if resp["error"] != domain.ErrStoreUnavailable.Error() {
				t.Errorf("expected store unavailable error, got %q", resp["error"])
			}
		})
	}

	rr := doRequest(server, http.MethodGet, "/health", nil)
	if resp := decode[map[string]string](t, rr); resp["status"] != "degraded" {
		t.Errorf("expected degraded health, got %s", resp["status"])
	}
}

func TestCORSPreflight(t *testing.T) {
	server, _ := createTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/providers", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("expected origin echoed, got %s", got)
	}
}
