// Package handlers provides the HTTP presentation layer over the lookup flows.
// Handlers never classify failures themselves: they render whichever Result
// variant the lookup returned.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/giygas/yakguide/entities"
	"github.com/giygas/yakguide/interfaces"
	"github.com/giygas/yakguide/logging"
	"github.com/giygas/yakguide/lookup"
	"github.com/giygas/yakguide/validation"
	"github.com/go-chi/chi/v5"
)

// maxAddressBody caps the JSON body of POST /v1/addresses
const maxAddressBody = 4096

// Lookups is the set of lookup flows the handlers expose
type Lookups interface {
	ByExactName(ctx context.Context, name string) lookup.Result[entities.Medication]
	BySymptom(ctx context.Context, phrase string) lookup.Result[entities.Medication]
	NearAddress(ctx context.Context, address string) lookup.Result[entities.Pharmacy]
}

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	lookups       Lookups
	addresses     interfaces.AddressStore
	healthChecker interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(lookups Lookups, addresses interfaces.AddressStore, healthChecker interfaces.HealthChecker) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		lookups:       lookups,
		addresses:     addresses,
		healthChecker: healthChecker,
	}
}

// LookupResponse is the body of every successful or empty lookup
type LookupResponse struct {
	Status  string `json:"status"`
	Count   int    `json:"count"`
	Results any    `json:"results"`
}

// PharmacyView renders a pharmacy with both the raw rating and its display label
type PharmacyView struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Rating      *float64 `json:"rating"`
	RatingLabel string   `json:"rating_label"`
}

// AddressListResponse is the body of the address endpoints
type AddressListResponse struct {
	Count     int                     `json:"count"`
	Addresses []entities.AddressEntry `json:"addresses"`
}

type addAddressRequest struct {
	Address string `json:"address"`
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	h.RespondWithJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// respondWithFailure maps a failed lookup onto an HTTP status
func (h *HTTPHandlerImpl) respondWithFailure(w http.ResponseWriter, err error, missingPrompt string) {
	switch {
	case errors.Is(err, validation.ErrMissingInput):
		h.RespondWithError(w, http.StatusBadRequest, missingPrompt)
	case validation.IsValidationError(err):
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
		h.RespondWithError(w, http.StatusGatewayTimeout, err.Error())
	default:
		h.RespondWithError(w, http.StatusBadGateway, err.Error())
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// renderResult writes a lookup Result using view to shape each item
func renderResult[T, V any](h *HTTPHandlerImpl, w http.ResponseWriter, result lookup.Result[T], view func(T) V, missingPrompt string) {
	if result.Status == lookup.StatusFailed {
		h.respondWithFailure(w, result.Err, missingPrompt)
		return
	}

	views := make([]V, 0, len(result.Items))
	for _, item := range result.Items {
		views = append(views, view(item))
	}

	h.RespondWithJSON(w, http.StatusOK, LookupResponse{
		Status:  result.Status.String(),
		Count:   len(views),
		Results: views,
	})
}

// FindMedicationByName handles GET /v1/medications/{name}
func (h *HTTPHandlerImpl) FindMedicationByName(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	result := h.lookups.ByExactName(r.Context(), name)
	renderResult(h, w, result, func(m entities.Medication) entities.Medication { return m }, "Please enter a medication name")
}

// FindMedicationsBySymptom handles GET /v1/medications?symptom=
func (h *HTTPHandlerImpl) FindMedicationsBySymptom(w http.ResponseWriter, r *http.Request) {
	result := h.lookups.BySymptom(r.Context(), r.URL.Query().Get("symptom"))
	renderResult(h, w, result, entities.Medication.Summary, "Please enter a symptom")
}

// FindPharmacies handles GET /v1/pharmacies?address=
func (h *HTTPHandlerImpl) FindPharmacies(w http.ResponseWriter, r *http.Request) {
	result := h.lookups.NearAddress(r.Context(), r.URL.Query().Get("address"))
	renderResult(h, w, result, func(p entities.Pharmacy) PharmacyView {
		return PharmacyView{
			Name:        p.Name,
			Address:     p.Address,
			Rating:      p.Rating,
			RatingLabel: p.RatingLabel(),
		}
	}, "Please enter an address")
}

// AddAddress handles POST /v1/addresses
func (h *HTTPHandlerImpl) AddAddress(w http.ResponseWriter, r *http.Request) {
	var req addAddressRequest

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAddressBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.RespondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		h.RespondWithError(w, http.StatusBadRequest, "Request body must be a JSON object with an \"address\" field")
		return
	}

	if err := h.addresses.Append(req.Address); err != nil {
		h.respondWithFailure(w, err, "Please enter an address")
		return
	}

	h.RespondWithJSON(w, http.StatusCreated, h.addressList())
}

// ListAddresses handles GET /v1/addresses
func (h *HTTPHandlerImpl) ListAddresses(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, h.addressList())
}

func (h *HTTPHandlerImpl) addressList() AddressListResponse {
	entries := h.addresses.List()
	return AddressListResponse{Count: len(entries), Addresses: entries}
}

// HealthCheck handles GET /health
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, data, httpStatus := h.healthChecker.HealthCheck()
	if data == nil {
		data = map[string]any{}
	}
	data["status"] = status
	data["time"] = time.Now().UTC().Format(time.RFC3339)
	h.RespondWithJSON(w, httpStatus, data)
}

// pathParam returns the decoded chi URL parameter. chi matches on RawPath
// when it is set, which leaves escapes such as %2F in the value.
func pathParam(r *http.Request, key string) string {
	value := chi.URLParam(r, key)
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(value); err == nil {
			return unescaped
		}
	}
	return value
}
