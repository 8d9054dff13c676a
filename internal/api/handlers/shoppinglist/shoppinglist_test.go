package shoppinglist

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"shopping-planner/internal/api/middleware"
	"shopping-planner/internal/core/mealplan"
	"shopping-planner/internal/core/shopping"
	"shopping-planner/internal/infrastructure/config"
	"shopping-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const testToken = "test-token"

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestRouter() *gin.Engine {
	cfg := &config.Config{
		PlanStore: config.PlanStoreConfig{
			MaxSize:         100,
			TTL:             time.Hour,
			CleanupInterval: time.Minute,
		},
	}

	plans := mealplan.NewStore(cfg)
	service := shopping.NewService(
		plans,
		shopping.NoopNormalizer{},
		shopping.NewCheckStateStore(shopping.NewMemoryCheckStateRepository()),
	)
	handler := NewHandler(plans, service)

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(middleware.BearerAuth(testToken))
	planGroup := api.Group("/meal-plans/:id")
	planGroup.PUT("", handler.HandleRegisterPlan)
	listGroup := planGroup.Group("/shopping-list")
	listGroup.GET("/categorized", handler.HandleCategorized)
	listGroup.GET("/status", handler.HandleStatus)
	listGroup.PATCH("/check", handler.HandleCheck)
	listGroup.POST("/reset", handler.HandleReset)
	listGroup.GET("/printable", handler.HandlePrintable)
	return router
}

func doRequest(router *gin.Engine, method, path, body string, authorized bool) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const samplePlan = `{
	"name": "Week 12",
	"week": "2026-03-16",
	"plan": {
		"monday": {
			"breakfast": {
				"mealType": "breakfast",
				"recipe": "recipe-a",
				"recipeDetails": {
					"title": "Recipe A",
					"ingredients": [{"name": "eggs", "quantity": 2, "unit": "count"}]
				}
			}
		},
		"tuesday": {
			"breakfast": {
				"mealType": "breakfast",
				"recipe": "recipe-b",
				"recipeDetails": {
					"title": "Recipe B",
					"ingredients": [{"name": "eggs", "quantity": 1, "unit": "count"}]
				}
			}
		}
	}
}`

func registerSamplePlan(t *testing.T, router *gin.Engine) {
	t.Helper()
	w := doRequest(router, http.MethodPut, "/api/v1/meal-plans/plan-1", samplePlan, true)
	if w.Code != http.StatusOK {
		t.Fatalf("failed to register plan: %d %s", w.Code, w.Body.String())
	}
}

func TestMissingCredentialIsPreconditionFailure(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(router, http.MethodGet, "/api/v1/meal-plans/plan-1/shopping-list/categorized", "", false)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without credential, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "MISSING_CREDENTIAL") {
		t.Errorf("expected MISSING_CREDENTIAL code, got %s", w.Body.String())
	}
}

func TestCategorizedAggregate(t *testing.T) {
	router := setupTestRouter()
	registerSamplePlan(t, router)

	w := doRequest(router, http.MethodGet, "/api/v1/meal-plans/plan-1/shopping-list/categorized", "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Categories []string `json:"categories"`
		Items      map[string][]struct {
			Name     string          `json:"name"`
			Quantity json.RawMessage `json:"quantity"`
			Unit     string          `json:"unit"`
			Recipes  []string        `json:"recipes"`
		} `json:"items"`
		Summary struct {
			TotalItems   int `json:"total_items"`
			TotalRecipes int `json:"total_recipes"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if resp.Summary.TotalItems != 1 || resp.Summary.TotalRecipes != 2 {
		t.Errorf("unexpected summary: %+v", resp.Summary)
	}
	eggs := resp.Items["Dairy & Eggs"]
	if len(eggs) != 1 || eggs[0].Name != "eggs" || string(eggs[0].Quantity) != "3" {
		t.Errorf("unexpected consolidated eggs: %+v", resp.Items)
	}
	if len(eggs) == 1 && len(eggs[0].Recipes) != 2 {
		t.Errorf("expected both recipes attributed, got %v", eggs[0].Recipes)
	}
}

func TestCategorizedPlanNotFound(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(router, http.MethodGet, "/api/v1/meal-plans/nope/shopping-list/categorized", "", true)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCheckAndStatusRoundTrip(t *testing.T) {
	router := setupTestRouter()
	registerSamplePlan(t, router)

	// 單一項目
	w := doRequest(router, http.MethodPatch, "/api/v1/meal-plans/plan-1/shopping-list/check",
		`{"items": ["Dairy & Eggs-eggs"], "checked": true}`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("item check failed: %d %s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodGet, "/api/v1/meal-plans/plan-1/shopping-list/status", "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("status failed: %d", w.Code)
	}
	var status StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if !status.Status["Dairy & Eggs-eggs"] {
		t.Errorf("expected eggs checked, got %+v", status.Status)
	}

	// 整個分類一次請求
	w = doRequest(router, http.MethodPatch, "/api/v1/meal-plans/plan-1/shopping-list/check",
		`{"category": "Dairy & Eggs", "checked": false}`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("category check failed: %d %s", w.Code, w.Body.String())
	}

	// 全部項目
	w = doRequest(router, http.MethodPatch, "/api/v1/meal-plans/plan-1/shopping-list/check",
		`{"checkAll": true, "checked": true}`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("check all failed: %d %s", w.Code, w.Body.String())
	}

	// 重設後所有鍵都是未勾選
	w = doRequest(router, http.MethodPost, "/api/v1/meal-plans/plan-1/shopping-list/reset", "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("reset failed: %d %s", w.Code, w.Body.String())
	}
	w = doRequest(router, http.MethodGet, "/api/v1/meal-plans/plan-1/shopping-list/status", "", true)
	var afterReset StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &afterReset); err != nil {
		t.Fatal(err)
	}
	for key, checked := range afterReset.Status {
		if checked {
			t.Errorf("key %q should be unchecked after reset", key)
		}
	}
}

func TestCheckRejectsAmbiguousShapes(t *testing.T) {
	router := setupTestRouter()
	registerSamplePlan(t, router)

	for _, body := range []string{
		`{"checked": true}`,
		`{"items": ["a"], "category": "Pantry", "checked": true}`,
		`{"items": ["a"]}`,
		`{"category": "Electronics", "checked": true}`,
	} {
		w := doRequest(router, http.MethodPatch, "/api/v1/meal-plans/plan-1/shopping-list/check", body, true)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestPrintableFormats(t *testing.T) {
	router := setupTestRouter()
	registerSamplePlan(t, router)

	w := doRequest(router, http.MethodGet, "/api/v1/meal-plans/plan-1/shopping-list/printable?format=text", "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("text export failed: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "☐ eggs: 3 count") {
		t.Errorf("unexpected text export:\n%s", w.Body.String())
	}

	w = doRequest(router, http.MethodGet, "/api/v1/meal-plans/plan-1/shopping-list/printable", "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("json export failed: %d", w.Code)
	}
	var doc shopping.PrintableDocument
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.PlanName != "Week 12" || len(doc.Categories) != 1 {
		t.Errorf("unexpected printable document: %+v", doc)
	}

	w = doRequest(router, http.MethodGet, "/api/v1/meal-plans/plan-1/shopping-list/printable?format=xml", "", true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unsupported format, got %d", w.Code)
	}
}

func TestEmptyPlanYieldsEmptyAggregate(t *testing.T) {
	router := setupTestRouter()

	w := doRequest(router, http.MethodPut, "/api/v1/meal-plans/plan-1",
		`{"name": "Empty", "week": "2026-03-16", "plan": {}}`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("failed to register empty plan: %d", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/api/v1/meal-plans/plan-1/shopping-list/categorized", "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("empty plan must not be an error: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Summary struct {
			TotalItems   int `json:"total_items"`
			TotalRecipes int `json:"total_recipes"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Summary.TotalItems != 0 || resp.Summary.TotalRecipes != 0 {
		t.Errorf("expected {items:0, recipes:0}, got %+v", resp.Summary)
	}
}
