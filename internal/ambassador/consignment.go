package ambassador

import (
	"refurrm/internal/logging"
)

// Listing fulfillment statuses.
const (
	StatusAwaitingFulfillment = "AWAITING_FULFILLMENT"
	StatusCompletedByUser     = "COMPLETED_BY_USER"
	StatusPickupScheduled     = "PICKUP_SCHEDULED"
	StatusPickupUnavailable   = "PICKUP_UNAVAILABLE"
)

// Flat pickup fee charged when an ambassador is assigned.
const pickupFee = 15.00

// ConsignmentInput starts the consignment process for a listing.
type ConsignmentInput struct {
	ListingID         string `json:"listingId"`
	ItemName          string `json:"itemName"`
	UserZipCode       string `json:"userZipCode"`
	FulfillmentNeeded bool   `json:"fulfillmentNeeded"`
}

// ConsignmentResult records the fulfillment outcome for a listing.
type ConsignmentResult struct {
	ListingID              string  `json:"listingId"`
	ListingStatus          string  `json:"listingStatus"`
	AssignedAmbassadorID   string  `json:"assignedAmbassadorId,omitempty"`
	AssignedAmbassadorName string  `json:"assignedAmbassadorName,omitempty"`
	PickupFee              float64 `json:"pickupFee,omitempty"`
	Notes                  string  `json:"notes,omitempty"`
}

// InitiateConsignment starts consignment for a listing. When the user
// handles shipping themselves the listing completes immediately;
// otherwise a local pickup ambassador is assigned. Assignment takes
// the first available match.
func (d *Directory) InitiateConsignment(input ConsignmentInput) (*ConsignmentResult, error) {
	if input.ListingID == "" {
		return nil, &ValidationError{Field: "listingId", Message: "listing id is required"}
	}

	result := &ConsignmentResult{ListingID: input.ListingID}

	if !input.FulfillmentNeeded {
		result.ListingStatus = StatusCompletedByUser
		logging.Matcher("consignment %s: user handles fulfillment", input.ListingID)
		return result, nil
	}

	result.ListingStatus = StatusAwaitingFulfillment
	matches := d.FindLocal(input.UserZipCode, ServicePickup)

	if len(matches) == 0 {
		result.ListingStatus = StatusPickupUnavailable
		result.Notes = "No active pickup ambassadors in this ZIP code."
		logging.Matcher("consignment %s: no pickup ambassador in zip %s", input.ListingID, input.UserZipCode)
		return result, nil
	}

	assigned := matches[0]
	result.ListingStatus = StatusPickupScheduled
	result.AssignedAmbassadorID = assigned.ID
	result.AssignedAmbassadorName = assigned.Name
	result.PickupFee = pickupFee
	logging.Matcher("consignment %s: %s (%s) assigned for pickup", input.ListingID, assigned.ID, assigned.Name)

	return result, nil
}
