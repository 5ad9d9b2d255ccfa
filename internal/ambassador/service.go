package ambassador

import (
	"fmt"
	"strings"
	"time"

	"refurrm/internal/logging"

	"github.com/google/uuid"
)

// RequestStatus tracks a secondary service request.
type RequestStatus string

const (
	StatusMatched      RequestStatus = "MATCHED"
	StatusNoMatchFound RequestStatus = "NO_MATCH_FOUND"
	StatusPendingMatch RequestStatus = "PENDING_MATCH"
)

// ServiceRequest is a user request for a non-pickup service such as a
// cleanout or a downsizing consultation.
type ServiceRequest struct {
	RequestID              string        `json:"requestId"`
	UserID                 string        `json:"userId"`
	DateRequested          time.Time     `json:"dateRequested"`
	ServiceType            Service       `json:"serviceType"`
	ZipCode                string        `json:"zipCode"`
	Notes                  string        `json:"notes,omitempty"`
	Status                 RequestStatus `json:"status"`
	AssignedAmbassadorID   string        `json:"assignedAmbassadorId,omitempty"`
	AssignedAmbassadorName string        `json:"assignedAmbassadorName,omitempty"`
	Message                string        `json:"message"`
}

// secondaryServices are the services the request pipeline accepts.
// Pickup goes through the consignment flow instead.
var secondaryServices = map[Service]bool{
	ServiceCleanout: true,
	ServiceOrganize: true,
	ServiceDownsize: true,
}

// RequestService matches a secondary service request with the
// highest-rated local ambassador. Requests that cannot be matched are
// recorded as NO_MATCH_FOUND so the user can be notified later.
func (d *Directory) RequestService(userID, zipCode string, serviceType Service, notes string) (*ServiceRequest, error) {
	if !secondaryServices[serviceType] {
		return nil, &ValidationError{
			Field:   "serviceType",
			Message: fmt.Sprintf("service must be one of cleanout, organize, downsize; got %q", serviceType),
		}
	}
	if zipCode == "" {
		return nil, &ValidationError{Field: "zipCode", Message: "zip code is required"}
	}

	req := &ServiceRequest{
		RequestID:     newRequestID(),
		UserID:        userID,
		DateRequested: time.Now().UTC(),
		ServiceType:   serviceType,
		ZipCode:       zipCode,
		Notes:         notes,
		Status:        StatusPendingMatch,
	}

	matches := d.FindLocal(zipCode, serviceType)
	if assigned, ok := BestMatch(matches); ok {
		req.Status = StatusMatched
		req.AssignedAmbassadorID = assigned.ID
		req.AssignedAmbassadorName = assigned.Name
		req.Message = fmt.Sprintf("Contact Ambassador %s to schedule. Fee will be determined after on-site review.", assigned.Name)
		logging.Matcher("request %s matched to %s (%s)", req.RequestID, assigned.ID, assigned.Name)
	} else {
		req.Status = StatusNoMatchFound
		req.Message = "No active ambassador available for this service in your area. We will notify you when an Ambassador becomes available in your area."
		logging.Matcher("request %s: no match in zip %s", req.RequestID, zipCode)
	}

	return req, nil
}

// newRequestID returns a short human-referenceable request ID.
func newRequestID() string {
	return strings.ToUpper(strings.SplitN(uuid.NewString(), "-", 2)[0])
}
