package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"refurrm/internal/ambassador"
	"refurrm/internal/appraisal"
	"refurrm/internal/authenticity"
	"refurrm/internal/deal"
	"refurrm/internal/listing"
	"refurrm/internal/llm"
	"refurrm/internal/store"
)

// Message shown when the model returns nothing usable.
const generationFailureMessage = "The AI could not determine the value. Please try again."

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps domain errors onto HTTP statuses. Validation
// failures are 400s, generation failures 502s, missing rows 404s.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var appraisalErr *appraisal.ValidationError
	var ambassadorErr *ambassador.ValidationError
	var dealErr *deal.ValidationError
	var listingErr *listing.ValidationError

	switch {
	case errors.As(err, &appraisalErr),
		errors.As(err, &ambassadorErr),
		errors.As(err, &dealErr),
		errors.As(err, &listingErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case llm.IsGenerationError(err):
		s.logger.Error("generation failure", zap.Error(err))
		writeError(w, http.StatusBadGateway, generationFailureMessage)
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, "not found")
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type scanRequest struct {
	PhotoDataURI string `json:"photoDataUri"`
	ListingID    string `json:"listingId,omitempty"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.engine.Scan(r.Context(), req.PhotoDataURI)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	if s.store != nil {
		if _, err := s.store.SaveAppraisal(req.ListingID, *result); err != nil {
			s.logger.Warn("failed to persist appraisal", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req appraisal.VerificationInput
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.engine.Verify(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type scoutRequest struct {
	ItemName      string                     `json:"itemName"`
	CheckLocation authenticity.CheckLocation `json:"checkLocation"`
}

func (s *Server) handleScout(w http.ResponseWriter, r *http.Request) {
	var req scoutRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ItemName == "" {
		writeError(w, http.StatusBadRequest, "itemName is required")
		return
	}
	if req.CheckLocation != authenticity.CheckAuctionPhoto && req.CheckLocation != authenticity.CheckInHandScan {
		writeError(w, http.StatusBadRequest, `checkLocation must be "Auction Photo" or "In-Hand Scan"`)
		return
	}

	report := s.scout.Inspect(req.ItemName, req.CheckLocation)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleUPC(w http.ResponseWriter, r *http.Request) {
	var req deal.Input
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// An unknown UPC is a valid negative result, not an error.
	result, err := s.evaluator.Evaluate(req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListAmbassadors(w http.ResponseWriter, r *http.Request) {
	zip := r.URL.Query().Get("zip")
	service := ambassador.Service(r.URL.Query().Get("service"))

	if zip != "" && service != "" {
		if !ambassador.ValidService(service) {
			writeError(w, http.StatusBadRequest, "unknown service")
			return
		}
		writeJSON(w, http.StatusOK, s.directory.FindLocal(zip, service))
		return
	}
	writeJSON(w, http.StatusOK, s.directory.All())
}

func (s *Server) handleSelectAmbassadors(w http.ResponseWriter, r *http.Request) {
	var req ambassador.SelectionInput
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// An empty candidate list is a valid outcome.
	result, err := s.selector.Select(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type serviceRequestBody struct {
	UserID      string             `json:"userId"`
	ZipCode     string             `json:"zipCode"`
	ServiceType ambassador.Service `json:"serviceType"`
	Notes       string             `json:"notes,omitempty"`
}

func (s *Server) handleRequestService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequestBody
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.directory.RequestService(req.UserID, req.ZipCode, req.ServiceType, req.Notes)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	if s.store != nil {
		if err := s.store.SaveServiceRequest(*result); err != nil {
			s.logger.Warn("failed to persist service request", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetServiceRequest(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	req, err := s.store.GetServiceRequest(chi.URLParam(r, "requestID"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleConsignment(w http.ResponseWriter, r *http.Request) {
	var req ambassador.ConsignmentInput
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.directory.InitiateConsignment(req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	// Keep the stored listing in sync when it exists.
	if s.store != nil {
		if err := s.store.UpdateListingFulfillment(req.ListingID, *result); err != nil && !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to update listing fulfillment", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "listing storage unavailable")
		return
	}

	var req store.Listing
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	created, err := s.store.CreateListing(req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "listing storage unavailable")
		return
	}

	listings, err := s.store.ListListings(100)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if listings == nil {
		listings = []store.Listing{}
	}
	writeJSON(w, http.StatusOK, listings)
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "listing storage unavailable")
		return
	}

	l, err := s.store.GetListing(chi.URLParam(r, "listingID"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

type generateListingRequest struct {
	PhotoDataURI      string `json:"photoDataUri"`
	AdditionalDetails string `json:"additionalDetails,omitempty"`
}

func (s *Server) handleGenerateListing(w http.ResponseWriter, r *http.Request) {
	var req generateListingRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	details, err := s.generator.Generate(r.Context(), req.PhotoDataURI, req.AdditionalDetails)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

type priceSuggestionRequest struct {
	Description  string `json:"description"`
	PhotoDataURI string `json:"photoDataUri"`
}

func (s *Server) handlePriceSuggestion(w http.ResponseWriter, r *http.Request) {
	var req priceSuggestionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	suggestion, err := s.generator.SuggestPrice(r.Context(), req.Description, req.PhotoDataURI)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestion)
}

func (s *Server) handleComparables(w http.ResponseWriter, r *http.Request) {
	comps := listing.Comparables(r.URL.Query().Get("q"))
	if comps == nil {
		comps = []listing.Comparable{}
	}
	writeJSON(w, http.StatusOK, comps)
}
