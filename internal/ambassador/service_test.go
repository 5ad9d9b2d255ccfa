package ambassador

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestServiceMatched(t *testing.T) {
	d := NewDirectory()

	req, err := d.RequestService("user-1", "90210", ServiceCleanout, "garage full of tools")
	require.NoError(t, err)

	assert.Equal(t, StatusMatched, req.Status)
	assert.Equal(t, "AMB004", req.AssignedAmbassadorID)
	assert.Equal(t, "Josh Smith", req.AssignedAmbassadorName)
	assert.Equal(t, "Contact Ambassador Josh Smith to schedule. Fee will be determined after on-site review.", req.Message)
	assert.Equal(t, "user-1", req.UserID)
	assert.Equal(t, "garage full of tools", req.Notes)
	assert.WithinDuration(t, time.Now().UTC(), req.DateRequested, time.Minute)
}

func TestRequestServiceAssignsHighestRated(t *testing.T) {
	d := NewDirectoryWithRoster([]Ambassador{
		{ID: "A1", Name: "Lower", Zip: "30301", Services: []Service{ServiceDownsize}, Rating: 4.1, Active: true},
		{ID: "A2", Name: "Higher", Zip: "30301", Services: []Service{ServiceDownsize}, Rating: 4.7, Active: true},
	})

	req, err := d.RequestService("user-2", "30301", ServiceDownsize, "")
	require.NoError(t, err)
	assert.Equal(t, "A2", req.AssignedAmbassadorID)
}

func TestRequestServiceNoMatch(t *testing.T) {
	d := NewDirectory()

	req, err := d.RequestService("user-3", "60601", ServiceOrganize, "")
	require.NoError(t, err)

	assert.Equal(t, StatusNoMatchFound, req.Status)
	assert.Empty(t, req.AssignedAmbassadorID)
	assert.Equal(t, "No active ambassador available for this service in your area. We will notify you when an Ambassador becomes available in your area.", req.Message)
}

func TestRequestServiceRejectsPickup(t *testing.T) {
	d := NewDirectory()

	_, err := d.RequestService("user-4", "90210", ServicePickup, "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "serviceType", verr.Field)
}

func TestRequestServiceRequiresZip(t *testing.T) {
	d := NewDirectory()

	_, err := d.RequestService("user-5", "", ServiceCleanout, "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "zipCode", verr.Field)
}

func TestRequestIDShape(t *testing.T) {
	d := NewDirectory()

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		req, err := d.RequestService("user-6", "90210", ServiceCleanout, "")
		require.NoError(t, err)
		assert.Len(t, req.RequestID, 8)
		assert.Equal(t, strings.ToUpper(req.RequestID), req.RequestID)
		assert.False(t, seen[req.RequestID], "request ids should be unique")
		seen[req.RequestID] = true
	}
}
