package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refurrm/internal/ambassador"
	"refurrm/internal/appraisal"
	"refurrm/internal/authenticity"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "refurrm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetListing(t *testing.T) {
	s := newTestStore(t)

	created, err := s.CreateListing(Listing{
		Title:       "KitchenAid Stand Mixer",
		Description: "Empire red, well cared for",
		Price:       150.00,
		ZipCode:     "90210",
	})
	require.NoError(t, err)
	assert.Len(t, created.ID, 26) // ULID
	assert.Equal(t, "DRAFT", created.Status)

	got, err := s.GetListing(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "KitchenAid Stand Mixer", got.Title)
	assert.Equal(t, 150.00, got.Price)
	assert.Equal(t, "90210", got.ZipCode)
}

func TestGetListingMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetListing("01HZZZZZZZZZZZZZZZZZZZZZZZ")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCreateListingRequiresTitle(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateListing(Listing{Price: 10})
	assert.Error(t, err)
}

func TestListListingsNewestFirst(t *testing.T) {
	s := newTestStore(t)

	first, err := s.CreateListing(Listing{Title: "First", Price: 1})
	require.NoError(t, err)
	second, err := s.CreateListing(Listing{Title: "Second", Price: 2})
	require.NoError(t, err)

	all, err := s.ListListings(0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// created_at can tie at sub-millisecond resolution, so assert
	// membership rather than strict order.
	ids := []string{all[0].ID, all[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)

	limited, err := s.ListListings(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestUpdateListingFulfillment(t *testing.T) {
	s := newTestStore(t)

	created, err := s.CreateListing(Listing{Title: "Vinyl Record", Price: 15, Status: "ACTIVE"})
	require.NoError(t, err)

	err = s.UpdateListingFulfillment(created.ID, ambassador.ConsignmentResult{
		ListingID:              created.ID,
		ListingStatus:          ambassador.StatusPickupScheduled,
		AssignedAmbassadorID:   "AMB001",
		AssignedAmbassadorName: "Alex Johnson",
		PickupFee:              15.00,
	})
	require.NoError(t, err)

	got, err := s.GetListing(created.ID)
	require.NoError(t, err)
	assert.Equal(t, ambassador.StatusPickupScheduled, got.Status)
	assert.Equal(t, "AMB001", got.AssignedAmbassadorID)
	assert.Equal(t, 15.00, got.PickupFee)
}

func TestUpdateListingFulfillmentMissing(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateListingFulfillment("nope", ambassador.ConsignmentResult{ListingStatus: "X"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSaveAndFetchAppraisal(t *testing.T) {
	s := newTestStore(t)

	created, err := s.CreateListing(Listing{Title: "PS1 Satchel", Price: 400})
	require.NoError(t, err)

	a := appraisal.Appraisal{
		SuggestedTitle:      "Proenza Schouler PS1 Tiny Satchel",
		CategoryTag:         appraisal.CategoryLuxuryGoods,
		PriceType:           appraisal.PriceResale,
		MinPrice:            380,
		MaxPrice:            450,
		AuthenticityVerdict: authenticity.VerdictAuthentic,
		IsConsignmentViable: true,
	}
	rec, err := s.SaveAppraisal(created.ID, a)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)

	history, err := s.AppraisalsForListing(created.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	if diff := cmp.Diff(a, history[0].Appraisal); diff != "" {
		t.Errorf("appraisal mismatch after round trip (-want +got):\n%s", diff)
	}
}

func TestSaveAppraisalWithoutListing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SaveAppraisal("", appraisal.Appraisal{SuggestedTitle: "Loose scan"})
	require.NoError(t, err)
}

func TestServiceRequestRoundTrip(t *testing.T) {
	s := newTestStore(t)

	d := ambassador.NewDirectory()
	req, err := d.RequestService("user-9", "90210", ambassador.ServiceCleanout, "garage")
	require.NoError(t, err)

	require.NoError(t, s.SaveServiceRequest(*req))

	got, err := s.GetServiceRequest(req.RequestID)
	require.NoError(t, err)
	assert.Equal(t, req.Status, got.Status)
	assert.Equal(t, req.AssignedAmbassadorID, got.AssignedAmbassadorID)
	assert.Equal(t, req.ServiceType, got.ServiceType)

	mine, err := s.RequestsForUser("user-9")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = s.GetServiceRequest("UNKNOWN1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
