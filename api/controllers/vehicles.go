package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Autocity-R/autocity-sales-hub-sub004/api/responses"
	"github.com/Autocity-R/autocity-sales-hub-sub004/api/validators"
	"github.com/Autocity-R/autocity-sales-hub-sub004/internal/competitors"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/enums"
	pkgerrors "github.com/Autocity-R/autocity-sales-hub-sub004/pkg/errors"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/logger"
)

// InventoryService is the slice of the competitors service the inventory
// endpoints use.
type InventoryService interface {
	ListVehicles(ctx context.Context, dealerID uuid.UUID, status *enums.VehicleStatus) ([]competitors.VehicleDTO, error)
	PriceHistory(ctx context.Context, vehicleID uuid.UUID) ([]competitors.PriceHistoryDTO, error)
	ScrapeLogs(ctx context.Context, dealerID uuid.UUID, limit int) ([]competitors.ScrapeLogDTO, error)
}

// ListVehicles returns a dealer's tracked vehicles, optionally filtered with
// ?status=in_stock|sold.
func ListVehicles(svc InventoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealerID, err := pathUUID(r, "dealerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.VehicleStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseVehicleStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = &parsed
		}

		vehicles, err := svc.ListVehicles(r.Context(), dealerID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicles)
	}
}

// PriceHistory returns the append-only price ledger of one vehicle, newest
// first.
func PriceHistory(svc InventoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID, err := pathUUID(r, "vehicleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.PriceHistory(r.Context(), vehicleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// ScrapeLogs returns a dealer's recent scrape run audit rows.
func ScrapeLogs(svc InventoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealerID, err := pathUUID(r, "dealerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logs, err := svc.ScrapeLogs(r.Context(), dealerID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, logs)
	}
}
