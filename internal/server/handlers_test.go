package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refurrm/internal/ambassador"
	"refurrm/internal/appraisal"
	"refurrm/internal/authenticity"
	"refurrm/internal/deal"
	"refurrm/internal/listing"
	"refurrm/internal/llm"
	"refurrm/internal/store"
)

func newTestServer(t *testing.T, stub *llm.StubClient) *Server {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	scout := authenticity.NewScout(1)
	directory := ambassador.NewDirectory()

	return New(Options{
		Engine:    appraisal.NewEngine(stub, scout),
		Scout:     scout,
		Directory: directory,
		Selector:  ambassador.NewSelector(directory, nil),
		Evaluator: deal.NewEvaluator(),
		Generator: listing.NewGenerator(stub),
		Store:     st,
	})
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, &llm.StubClient{})

	rec := doJSON(t, s.Router(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestVerifyEndpoint(t *testing.T) {
	stub := &llm.StubClient{Responses: []string{
		`{"itemName":"Gaming Laptop (Mid-Tier)","minResaleValue":100,"maxResaleValue":999,"justification":"adjusted","categoryTag":"GENERAL","estimatedRetailPrice":1299.99}`,
	}}
	s := newTestServer(t, stub)

	rec := doJSON(t, s.Router(), http.MethodPost, "/api/verify", map[string]interface{}{
		"itemName":  "Gaming Laptop (Mid-Tier)",
		"condition": "Good (Used, Working)",
		"source":    "Yard Sale/Flea Market (Buying)",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result appraisal.VerificationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Gaming Laptop (Mid-Tier)", result.ItemName)
	assert.InDelta(t, 437.29, result.MaxResaleValue, 0.01)
	assert.LessOrEqual(t, result.MinResaleValue, result.MaxResaleValue)
}

func TestVerifyValidationIs400(t *testing.T) {
	s := newTestServer(t, &llm.StubClient{})

	rec := doJSON(t, s.Router(), http.MethodPost, "/api/verify", map[string]interface{}{
		"itemName":  "X",
		"condition": "Mint",
		"source":    "Yard Sale/Flea Market (Buying)",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyGenerationFailureIs502(t *testing.T) {
	s := newTestServer(t, &llm.StubClient{}) // No responses configured

	rec := doJSON(t, s.Router(), http.MethodPost, "/api/verify", map[string]interface{}{
		"itemName":  "Gaming Laptop (Mid-Tier)",
		"condition": "Good (Used, Working)",
		"source":    "Yard Sale/Flea Market (Buying)",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "try again")
}

func TestScanEndpointPersistsAppraisal(t *testing.T) {
	stub := &llm.StubClient{Responses: []string{
		`{"suggestedTitle":"PS1 Satchel","suggestedDescription":"Black leather.","categoryTag":"LUXURY_GOODS","priceType":"RESALE","minPrice":380,"maxPrice":450,"appraisalNote":"ok","authenticityVerdict":"AUTHENTIC","isConsignmentViable":true}`,
	}}
	s := newTestServer(t, stub)

	created, err := s.store.CreateListing(store.Listing{Title: "PS1 Satchel", Price: 400})
	require.NoError(t, err)

	rec := doJSON(t, s.Router(), http.MethodPost, "/api/scan", map[string]interface{}{
		"photoDataUri": "data:image/jpeg;base64,AAAA",
		"listingId":    created.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	history, err := s.store.AppraisalsForListing(created.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestScoutEndpoint(t *testing.T) {
	s := newTestServer(t, &llm.StubClient{})

	rec := doJSON(t, s.Router(), http.MethodPost, "/api/authenticity/scout", map[string]interface{}{
		"itemName":      "Toaster",
		"checkLocation": "In-Hand Scan",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var report authenticity.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, authenticity.VerdictLowRisk, report.Verdict)
	assert.Equal(t, 100, report.ConfidenceScore)
}

func TestScoutEndpointValidation(t *testing.T) {
	s := newTestServer(t, &llm.StubClient{})

	rec := doJSON(t, s.Router(), http.MethodPost, "/api/authenticity/scout", map[string]interface{}{
		"itemName":      "Toaster",
		"checkLocation": "Telepathy",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUPCEndpoint(t *testing.T) {
	s := newTestServer(t, &llm.StubClient{})

	rec := doJSON(t, s.Router(), http.MethodPost, "/api/deals/upc", map[string]interface{}{
		"upcCode":     "850020123456",
		"askingPrice": 700,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result deal.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, deal.VerdictPotentialDeal, result.Verdict)
	assert.InDelta(t, 150.00, result.PotentialProfit, 0.001)
}

func TestUPCEndpointUnknownIs200(t *testing.T) {
	s := newTestServer(t, &llm.StubClient{})

	rec := doJSON(t, s.Router(), http.MethodPost, "/api/deals/upc", map[string]interface{}{
		"upcCode":     "9999999999",
		"askingPrice": 10,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown Product")
}

func TestUPCEndpointShortCodeIs400(t *testing.T) {
	s := newTestServer(t, &llm.StubClient{})

	rec := doJSON(t, s.Router(), http.MethodPost, "/api/deals/upc", map[string]interface{}{
		"upcCode":     "123",
		"askingPrice": 10,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectAmbassadorsEndpoint(t *testing.T) {
	s := newTestServer(t, &llm.StubClient{})

	rec := doJSON(t, s.Router(), http.MethodPost, "/api/ambassadors/select", map[string]interface{}{
		"title":   "Vintage Receiver",
		"price":   120,
		"action":  "SELL",
		"zipCode": "90210",
		"service": "pickup",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result ambassador.SelectionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Ambassadors, 1)
	assert.Equal(t, "AMB001", result.Ambassadors[0].ID)
}

func TestSelectAmbassadorsEmptyIs200(t *testing.T) {
	s := newTestServer(t, &llm.StubClient{})

	rec := doJSON(t, s.Router(), http.MethodPost, "/api/ambassadors/select", map[string]interface{}{
		"action":  "DONATE",
		"zipCode": "60601",
		"service": "pickup",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ambassadors":[]}`, rec.Body.String())
}

func TestServiceRequestEndpointPersists(t *testing.T) {
	s := newTestServer(t, &llm.StubClient{})

	rec := doJSON(t, s.Router(), http.MethodPost, "/api/services/requests", map[string]interface{}{
		"userId":      "user-1",
		"zipCode":     "90210",
		"serviceType": "cleanout",
		"notes":       "garage",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var req ambassador.ServiceRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &req))
	assert.Equal(t, ambassador.StatusMatched, req.Status)
	assert.Equal(t, "AMB004", req.AssignedAmbassadorID)

	getRec := doJSON(t, s.Router(), http.MethodGet, "/api/services/requests/"+req.RequestID, nil)
	assert.Equal(t, http.StatusOK, getRec.Code)

	missing := doJSON(t, s.Router(), http.MethodGet, "/api/services/requests/NOPE1234", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestConsignmentEndpointUpdatesListing(t *testing.T) {
	s := newTestServer(t, &llm.StubClient{})

	created, err := s.store.CreateListing(store.Listing{Title: "Vinyl Record", Price: 15, Status: "ACTIVE"})
	require.NoError(t, err)

	rec := doJSON(t, s.Router(), http.MethodPost, "/api/consignments", map[string]interface{}{
		"listingId":         created.ID,
		"itemName":          "Vintage Vinyl Record",
		"userZipCode":       "90210",
		"fulfillmentNeeded": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result ambassador.ConsignmentResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, ambassador.StatusPickupScheduled, result.ListingStatus)

	got, err := s.store.GetListing(created.ID)
	require.NoError(t, err)
	assert.Equal(t, ambassador.StatusPickupScheduled, got.Status)
	assert.Equal(t, "AMB001", got.AssignedAmbassadorID)
}

func TestListingCRUDEndpoints(t *testing.T) {
	s := newTestServer(t, &llm.StubClient{})

	rec := doJSON(t, s.Router(), http.MethodPost, "/api/listings", map[string]interface{}{
		"title": "KitchenAid Stand Mixer",
		"price": 150,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created store.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	getRec := doJSON(t, s.Router(), http.MethodGet, "/api/listings/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, getRec.Code)

	listRec := doJSON(t, s.Router(), http.MethodGet, "/api/listings", nil)
	assert.Equal(t, http.StatusOK, listRec.Code)

	missing := doJSON(t, s.Router(), http.MethodGet, "/api/listings/01HZZZZZZZZZZZZZZZZZZZZZZZ", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestListingEndpointsWithoutStore(t *testing.T) {
	scout := authenticity.NewScout(1)
	directory := ambassador.NewDirectory()
	s := New(Options{
		Engine:    appraisal.NewEngine(&llm.StubClient{}, scout),
		Scout:     scout,
		Directory: directory,
		Selector:  ambassador.NewSelector(directory, nil),
		Evaluator: deal.NewEvaluator(),
		Generator: listing.NewGenerator(&llm.StubClient{}),
	})

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
	}{
		{"create", http.MethodPost, "/api/listings", map[string]interface{}{"title": "X"}},
		{"list", http.MethodGet, "/api/listings", nil},
		{"get", http.MethodGet, "/api/listings/some-id", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s.Router(), tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		})
	}
}

func TestGenerateListingEndpoint(t *testing.T) {
	stub := &llm.StubClient{Responses: []string{
		`{"title":"Generated Title","description":"Generated description.","tags":["a","b"]}`,
	}}
	s := newTestServer(t, stub)

	rec := doJSON(t, s.Router(), http.MethodPost, "/api/listings/generate", map[string]interface{}{
		"photoDataUri": "data:image/jpeg;base64,AAAA",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Generated Title")
}

func TestComparablesEndpoint(t *testing.T) {
	s := newTestServer(t, &llm.StubClient{})

	rec := doJSON(t, s.Router(), http.MethodGet, "/api/comparables?q=iphone", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var comps []listing.Comparable
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comps))
	assert.Len(t, comps, 7)
}

func TestAmbassadorsEndpoint(t *testing.T) {
	s := newTestServer(t, &llm.StubClient{})

	rec := doJSON(t, s.Router(), http.MethodGet, "/api/ambassadors", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var all []ambassador.Ambassador
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 4)

	filtered := doJSON(t, s.Router(), http.MethodGet, "/api/ambassadors?zip=90210&service=pickup", nil)
	require.Equal(t, http.StatusOK, filtered.Code)

	var matches []ambassador.Ambassador
	require.NoError(t, json.Unmarshal(filtered.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "AMB001", matches[0].ID)
}
