package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Autocity-R/autocity-sales-hub-sub004/internal/competitors"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/enums"
	pkgerrors "github.com/Autocity-R/autocity-sales-hub-sub004/pkg/errors"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/logger"
)

type testDealerService struct {
	createFn func(ctx context.Context, params competitors.CreateDealerParams) (competitors.DealerDTO, error)
	listFn   func(ctx context.Context) ([]competitors.DealerDTO, error)
	getFn    func(ctx context.Context, id uuid.UUID) (competitors.DealerDTO, error)
}

func (s *testDealerService) CreateDealer(ctx context.Context, params competitors.CreateDealerParams) (competitors.DealerDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, params)
	}
	return competitors.DealerDTO{}, nil
}

func (s *testDealerService) ListDealers(ctx context.Context) ([]competitors.DealerDTO, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s *testDealerService) GetDealer(ctx context.Context, id uuid.UUID) (competitors.DealerDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return competitors.DealerDTO{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateDealerSuccess(t *testing.T) {
	var captured competitors.CreateDealerParams
	svc := &testDealerService{
		createFn: func(ctx context.Context, params competitors.CreateDealerParams) (competitors.DealerDTO, error) {
			captured = params
			return competitors.DealerDTO{ID: uuid.New(), Name: params.Name}, nil
		},
	}

	body := `{"name":"Van Dam Auto's","scrapeUrl":"https://vandam.example.nl/aanbod","tags":["premium"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/competitors", strings.NewReader(body))
	resp := httptest.NewRecorder()

	CreateDealer(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.Name != "Van Dam Auto's" {
		t.Fatalf("unexpected name %q", captured.Name)
	}
	if len(captured.Tags) != 1 || captured.Tags[0] != "premium" {
		t.Fatalf("unexpected tags %v", captured.Tags)
	}
}

func TestCreateDealerRejectsInvalidBody(t *testing.T) {
	svc := &testDealerService{
		createFn: func(ctx context.Context, params competitors.CreateDealerParams) (competitors.DealerDTO, error) {
			t.Fatal("service must not be called on validation failure")
			return competitors.DealerDTO{}, nil
		},
	}

	body := `{"name":"x","scrapeUrl":"not-a-url"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/competitors", strings.NewReader(body))
	resp := httptest.NewRecorder()

	CreateDealer(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGetDealerNotFound(t *testing.T) {
	svc := &testDealerService{
		getFn: func(ctx context.Context, id uuid.UUID) (competitors.DealerDTO, error) {
			return competitors.DealerDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "competitor dealer not found")
		},
	}

	dealerID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/competitors/"+dealerID.String(), nil)
	req = withURLParam(req, "dealerID", dealerID.String())
	resp := httptest.NewRecorder()

	GetDealer(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestGetDealerInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/competitors/not-a-uuid", nil)
	req = withURLParam(req, "dealerID", "not-a-uuid")
	resp := httptest.NewRecorder()

	GetDealer(&testDealerService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

type testInventoryService struct {
	listFn func(ctx context.Context, dealerID uuid.UUID, status *enums.VehicleStatus) ([]competitors.VehicleDTO, error)
}

func (s *testInventoryService) ListVehicles(ctx context.Context, dealerID uuid.UUID, status *enums.VehicleStatus) ([]competitors.VehicleDTO, error) {
	if s.listFn != nil {
		return s.listFn(ctx, dealerID, status)
	}
	return nil, nil
}

func (s *testInventoryService) PriceHistory(ctx context.Context, vehicleID uuid.UUID) ([]competitors.PriceHistoryDTO, error) {
	return nil, nil
}

func (s *testInventoryService) ScrapeLogs(ctx context.Context, dealerID uuid.UUID, limit int) ([]competitors.ScrapeLogDTO, error) {
	return nil, nil
}

func TestListVehiclesStatusFilter(t *testing.T) {
	dealerID := uuid.New()
	var gotStatus *enums.VehicleStatus
	svc := &testInventoryService{
		listFn: func(ctx context.Context, id uuid.UUID, status *enums.VehicleStatus) ([]competitors.VehicleDTO, error) {
			gotStatus = status
			return []competitors.VehicleDTO{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/competitors/"+dealerID.String()+"/vehicles?status=sold", nil)
	req = withURLParam(req, "dealerID", dealerID.String())
	resp := httptest.NewRecorder()

	ListVehicles(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if gotStatus == nil || *gotStatus != enums.VehicleStatusSold {
		t.Fatalf("expected sold filter, got %v", gotStatus)
	}

	var envelope struct {
		Data []competitors.VehicleDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestListVehiclesRejectsUnknownStatus(t *testing.T) {
	dealerID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/competitors/"+dealerID.String()+"/vehicles?status=parked", nil)
	req = withURLParam(req, "dealerID", dealerID.String())
	resp := httptest.NewRecorder()

	ListVehicles(&testInventoryService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
