package ambassador

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsignmentUserHandlesFulfillment(t *testing.T) {
	d := NewDirectory()

	result, err := d.InitiateConsignment(ConsignmentInput{
		ListingID:         "LST-1",
		ItemName:          "KitchenAid Stand Mixer",
		UserZipCode:       "90210",
		FulfillmentNeeded: false,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompletedByUser, result.ListingStatus)
	assert.Empty(t, result.AssignedAmbassadorID)
	assert.Zero(t, result.PickupFee)
}

func TestConsignmentSchedulesPickup(t *testing.T) {
	d := NewDirectory()

	result, err := d.InitiateConsignment(ConsignmentInput{
		ListingID:         "LST-2",
		ItemName:          "Vintage Vinyl Record",
		UserZipCode:       "90210",
		FulfillmentNeeded: true,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPickupScheduled, result.ListingStatus)
	assert.Equal(t, "AMB001", result.AssignedAmbassadorID)
	assert.Equal(t, "Alex Johnson", result.AssignedAmbassadorName)
	assert.Equal(t, 15.00, result.PickupFee)
}

func TestConsignmentAssignsFirstAvailable(t *testing.T) {
	d := NewDirectoryWithRoster([]Ambassador{
		{ID: "A1", Name: "First", Zip: "30301", Services: []Service{ServicePickup}, Rating: 4.0, Active: true},
		{ID: "A2", Name: "Better", Zip: "30301", Services: []Service{ServicePickup}, Rating: 4.9, Active: true},
	})

	result, err := d.InitiateConsignment(ConsignmentInput{
		ListingID:         "LST-3",
		UserZipCode:       "30301",
		FulfillmentNeeded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "A1", result.AssignedAmbassadorID)
}

func TestConsignmentPickupUnavailable(t *testing.T) {
	d := NewDirectory()

	result, err := d.InitiateConsignment(ConsignmentInput{
		ListingID:         "LST-4",
		UserZipCode:       "60601",
		FulfillmentNeeded: true,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPickupUnavailable, result.ListingStatus)
	assert.Equal(t, "No active pickup ambassadors in this ZIP code.", result.Notes)
	assert.Zero(t, result.PickupFee)
}

func TestConsignmentRequiresListingID(t *testing.T) {
	d := NewDirectory()

	_, err := d.InitiateConsignment(ConsignmentInput{UserZipCode: "90210"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "listingId", verr.Field)
}
