package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rfpflow/backend/config"
	"github.com/rfpflow/backend/internal/domain"
	"github.com/rfpflow/backend/internal/infrastructure/store"
	"github.com/rfpflow/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

// stubListing serves canned RFPs or an error
type stubListing struct {
	rfps []domain.RFPRequirement
	err  error
}

func (s *stubListing) FetchRFPs(ctx context.Context) ([]domain.RFPRequirement, error) {
	return s.rfps, s.err
}

// stubCatalogue serves a canned product snapshot or an error
type stubCatalogue struct {
	products []domain.ProductRecord
	err      error
}

func (s *stubCatalogue) Load(ctx context.Context) ([]domain.ProductRecord, error) {
	return s.products, s.err
}

func stubRFPs() []domain.RFPRequirement {
	return []domain.RFPRequirement{
		{
			ID:           "RFP-1",
			Title:        "Supply of 11kV cables",
			Organization: "State Utility",
			Specs: domain.TechSpecs{
				"conductor_material": domain.TextSpec("Copper"),
				"voltage_rating":     domain.NumberSpec(11),
				"standard":           domain.TextSpec("IS:7098"),
			},
		},
	}
}

func stubProducts() []domain.ProductRecord {
	return []domain.ProductRecord{
		{
			SKU:      "CAB-A",
			Name:     "XLPE Copper Cable 11kV",
			Category: "Power Cables",
			Specs: domain.TechSpecs{
				"conductor_material": domain.TextSpec("Copper"),
				"voltage_rating":     domain.NumberSpec(11),
			},
			Standards: []string{"IS:7098"},
			UnitPrice: 1500,
			TestPrice: 200,
		},
	}
}

// setupTestRouter creates a test router backed by stub collaborators
func setupTestRouter(t *testing.T, listing domain.ListingSource, catalogue domain.CatalogueStore) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}

	matcher, err := usecase.NewMatcherService(usecase.MatcherConfig{})
	if err != nil {
		t.Fatalf("NewMatcherService() error = %v", err)
	}
	pipeline := usecase.NewPipelineService(listing, catalogue, store.NewMemoryStore(0), matcher)

	return SetupRouter(cfg, NewHandler(pipeline))
}

func doRequest(router *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter(t, &stubListing{rfps: stubRFPs()}, &stubCatalogue{products: stubProducts()})

	w := doRequest(router, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", response["status"])
	}
}

func TestRunPipelineEndpoint(t *testing.T) {
	t.Run("returns summary and proposals on success", func(t *testing.T) {
		router := setupTestRouter(t, &stubListing{rfps: stubRFPs()}, &stubCatalogue{products: stubProducts()})

		w := doRequest(router, "GET", "/api/v1/pipeline/run", "")
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var response struct {
			Success bool `json:"success"`
			Summary struct {
				TotalRFPs   int `json:"total_rfps"`
				MatchedRFPs int `json:"matched_rfps"`
			} `json:"summary"`
			Proposals []map[string]interface{} `json:"proposals"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if !response.Success {
			t.Error("success = false, want true")
		}
		if response.Summary.TotalRFPs != 1 || response.Summary.MatchedRFPs != 1 {
			t.Errorf("summary = %+v, want 1/1", response.Summary)
		}
		if len(response.Proposals) != 1 {
			t.Errorf("proposals = %d, want 1", len(response.Proposals))
		}
	})

	t.Run("names the scraping stage when the listing fails", func(t *testing.T) {
		router := setupTestRouter(t, &stubListing{err: domain.ErrListingUnavailable}, &stubCatalogue{products: stubProducts()})

		w := doRequest(router, "GET", "/api/v1/pipeline/run", "")
		if w.Code != http.StatusBadGateway {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusBadGateway)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["stage"] != "scraping" {
			t.Errorf("stage = %v, want scraping", response["stage"])
		}
	})

	t.Run("names the matching stage when the catalogue fails", func(t *testing.T) {
		router := setupTestRouter(t, &stubListing{rfps: stubRFPs()}, &stubCatalogue{err: domain.ErrCatalogueUnavailable})

		w := doRequest(router, "GET", "/api/v1/pipeline/run", "")
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["stage"] != "matching" {
			t.Errorf("stage = %v, want matching", response["stage"])
		}
	})
}

func TestScrapeEndpoint(t *testing.T) {
	t.Run("returns scraped RFPs", func(t *testing.T) {
		router := setupTestRouter(t, &stubListing{rfps: stubRFPs()}, &stubCatalogue{products: stubProducts()})

		w := doRequest(router, "GET", "/api/v1/pipeline/scrape", "")
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response struct {
			Count int                      `json:"count"`
			Data  []map[string]interface{} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response.Count != 1 {
			t.Errorf("count = %d, want 1", response.Count)
		}
	})

	t.Run("reports empty listings as not found", func(t *testing.T) {
		router := setupTestRouter(t, &stubListing{rfps: nil, err: domain.ErrNoListings}, &stubCatalogue{products: stubProducts()})

		w := doRequest(router, "GET", "/api/v1/pipeline/scrape", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

func TestMatchEndpoint(t *testing.T) {
	t.Run("rejects matching before any scrape", func(t *testing.T) {
		router := setupTestRouter(t, &stubListing{rfps: stubRFPs()}, &stubCatalogue{products: stubProducts()})

		w := doRequest(router, "POST", "/api/v1/pipeline/match", "")
		if w.Code != http.StatusConflict {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusConflict)
		}
	})

	t.Run("matches caller-supplied requirements", func(t *testing.T) {
		router := setupTestRouter(t, &stubListing{rfps: stubRFPs()}, &stubCatalogue{products: stubProducts()})

		body := `{"rfps": [{"rfp_id": "RFP-9", "title": "Cables", "tech_specs": {"conductor_material": "Copper"}}]}`
		w := doRequest(router, "POST", "/api/v1/pipeline/match", body)
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var response struct {
			Count int `json:"count"`
			Data  []struct {
				Record *domain.MatchRecord `json:"record"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response.Count != 1 || response.Data[0].Record == nil {
			t.Fatalf("response = %+v, want one record", response)
		}
		if response.Data[0].Record.RFPID != "RFP-9" {
			t.Errorf("RFPID = %s, want RFP-9", response.Data[0].Record.RFPID)
		}
	})

	t.Run("scrape then match succeeds", func(t *testing.T) {
		router := setupTestRouter(t, &stubListing{rfps: stubRFPs()}, &stubCatalogue{products: stubProducts()})

		if w := doRequest(router, "GET", "/api/v1/pipeline/scrape", ""); w.Code != http.StatusOK {
			t.Fatalf("scrape status = %d, want %d", w.Code, http.StatusOK)
		}
		w := doRequest(router, "POST", "/api/v1/pipeline/match", "")
		if w.Code != http.StatusOK {
			t.Fatalf("match status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		router := setupTestRouter(t, &stubListing{rfps: stubRFPs()}, &stubCatalogue{products: stubProducts()})

		w := doRequest(router, "POST", "/api/v1/pipeline/match", "{not json")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestProposalsEndpoint(t *testing.T) {
	router := setupTestRouter(t, &stubListing{rfps: stubRFPs()}, &stubCatalogue{products: stubProducts()})

	t.Run("rejects proposals before any match", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/pipeline/proposals", "")
		if w.Code != http.StatusConflict {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusConflict)
		}
	})

	t.Run("renders proposals after a full flow", func(t *testing.T) {
		if w := doRequest(router, "GET", "/api/v1/pipeline/scrape", ""); w.Code != http.StatusOK {
			t.Fatalf("scrape failed: %d", w.Code)
		}
		if w := doRequest(router, "POST", "/api/v1/pipeline/match", ""); w.Code != http.StatusOK {
			t.Fatalf("match failed: %d", w.Code)
		}

		w := doRequest(router, "GET", "/api/v1/pipeline/proposals", "")
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "PROPOSAL FOR REQUEST FOR PROPOSAL") {
			t.Error("response should contain rendered proposal text")
		}
	})
}
