package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Autocity-R/autocity-sales-hub-sub004/api/responses"
	"github.com/Autocity-R/autocity-sales-hub-sub004/api/validators"
	"github.com/Autocity-R/autocity-sales-hub-sub004/internal/competitors"
	pkgerrors "github.com/Autocity-R/autocity-sales-hub-sub004/pkg/errors"
	"github.com/Autocity-R/autocity-sales-hub-sub004/pkg/logger"
)

// DealerService is the slice of the competitors service the dealer endpoints
// use.
type DealerService interface {
	CreateDealer(ctx context.Context, params competitors.CreateDealerParams) (competitors.DealerDTO, error)
	ListDealers(ctx context.Context) ([]competitors.DealerDTO, error)
	GetDealer(ctx context.Context, id uuid.UUID) (competitors.DealerDTO, error)
}

type createDealerRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=120"`
	ScrapeURL     string   `json:"scrapeUrl" validate:"required,url"`
	Tags          []string `json:"tags" validate:"omitempty,dive,min=1,max=40"`
	MissThreshold *int     `json:"missThreshold" validate:"omitempty,min=1,max=10"`
}

// CreateDealer registers a competitor storefront for tracking.
func CreateDealer(svc DealerService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createDealerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dealer, err := svc.CreateDealer(r.Context(), competitors.CreateDealerParams{
			Name:          body.Name,
			ScrapeURL:     body.ScrapeURL,
			Tags:          body.Tags,
			MissThreshold: body.MissThreshold,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dealer)
	}
}

func ListDealers(svc DealerService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealers, err := svc.ListDealers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dealers)
	}
}

func GetDealer(svc DealerService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealerID, err := pathUUID(r, "dealerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dealer, err := svc.GetDealer(r.Context(), dealerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dealer)
	}
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id in path").WithDetails(map[string]any{"field": param})
	}
	return id, nil
}
