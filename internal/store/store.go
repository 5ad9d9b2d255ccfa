// Package store persists listings, appraisals, and service requests
// in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"refurrm/internal/ambassador"
	"refurrm/internal/appraisal"
	"refurrm/internal/logging"
)

// Listing is a persisted marketplace listing.
type Listing struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Price                float64   `json:"price"`
	Status               string    `json:"status"`
	ZipCode              string    `json:"zipCode"`
	AssignedAmbassadorID string    `json:"assignedAmbassadorId,omitempty"`
	PickupFee            float64   `json:"pickupFee,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// AppraisalRecord is a persisted scan result, kept for history and
// later listing creation.
type AppraisalRecord struct {
	ID        string              `json:"id"`
	ListingID string              `json:"listingId,omitempty"`
	Appraisal appraisal.Appraisal `json:"appraisal"`
	CreatedAt time.Time           `json:"createdAt"`
}

// Store manages the ReFurrm database.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex

	entropy *ulid.MonotonicEntropy
}

// New creates or opens the database at path.
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{
		db:      db,
		dbPath:  dbPath,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Store("opened database at %s", dbPath)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// initSchema creates the database schema.
func (s *Store) initSchema() error {
	schema := `
	-- Marketplace listings
	CREATE TABLE IF NOT EXISTS listings (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		price REAL NOT NULL,
		status TEXT NOT NULL,
		zip_code TEXT,
		assigned_ambassador_id TEXT,
		pickup_fee REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status);
	CREATE INDEX IF NOT EXISTS idx_listings_created ON listings(created_at);

	-- Appraisal history
	CREATE TABLE IF NOT EXISTS appraisals (
		id TEXT PRIMARY KEY,
		listing_id TEXT,
		appraisal_json TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (listing_id) REFERENCES listings(id)
	);
	CREATE INDEX IF NOT EXISTS idx_appraisals_listing ON appraisals(listing_id);

	-- Secondary service requests
	CREATE TABLE IF NOT EXISTS service_requests (
		request_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date_requested DATETIME NOT NULL,
		service_type TEXT NOT NULL,
		zip_code TEXT NOT NULL,
		notes TEXT,
		status TEXT NOT NULL,
		assigned_ambassador_id TEXT,
		assigned_ambassador_name TEXT,
		message TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_requests_user ON service_requests(user_id);
	CREATE INDEX IF NOT EXISTS idx_requests_status ON service_requests(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// newID returns a monotonic ULID.
func (s *Store) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// CreateListing persists a new listing and returns it with its ID
// and timestamps filled in.
func (s *Store) CreateListing(l Listing) (*Listing, error) {
	if l.Title == "" {
		return nil, fmt.Errorf("listing title is required")
	}

	l.ID = s.newID()
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now
	if l.Status == "" {
		l.Status = "DRAFT"
	}

	_, err := s.db.Exec(`
		INSERT INTO listings (id, title, description, price, status, zip_code, assigned_ambassador_id, pickup_fee, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Title, l.Description, l.Price, l.Status, l.ZipCode, l.AssignedAmbassadorID, l.PickupFee, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert listing: %w", err)
	}

	logging.Store("created listing %s (%s)", l.ID, l.Title)
	return &l, nil
}

// GetListing fetches a listing by ID. Returns sql.ErrNoRows when
// absent.
func (s *Store) GetListing(id string) (*Listing, error) {
	row := s.db.QueryRow(`
		SELECT id, title, description, price, status, zip_code, assigned_ambassador_id, pickup_fee, created_at, updated_at
		FROM listings WHERE id = ?`, id)

	var l Listing
	err := row.Scan(&l.ID, &l.Title, &l.Description, &l.Price, &l.Status, &l.ZipCode, &l.AssignedAmbassadorID, &l.PickupFee, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListListings returns listings newest first, up to limit (0 means
// no limit).
func (s *Store) ListListings(limit int) ([]Listing, error) {
	query := `
		SELECT id, title, description, price, status, zip_code, assigned_ambassador_id, pickup_fee, created_at, updated_at
		FROM listings ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var out []Listing
	for rows.Next() {
		var l Listing
		if err := rows.Scan(&l.ID, &l.Title, &l.Description, &l.Price, &l.Status, &l.ZipCode, &l.AssignedAmbassadorID, &l.PickupFee, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// UpdateListingFulfillment records the consignment outcome for a
// listing.
func (s *Store) UpdateListingFulfillment(id string, result ambassador.ConsignmentResult) error {
	res, err := s.db.Exec(`
		UPDATE listings
		SET status = ?, assigned_ambassador_id = ?, pickup_fee = ?, updated_at = ?
		WHERE id = ?`,
		result.ListingStatus, result.AssignedAmbassadorID, result.PickupFee, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	logging.Store("listing %s fulfillment -> %s", id, result.ListingStatus)
	return nil
}

// SaveAppraisal records a scan result, optionally linked to a
// listing.
func (s *Store) SaveAppraisal(listingID string, a appraisal.Appraisal) (*AppraisalRecord, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal appraisal: %w", err)
	}

	rec := AppraisalRecord{
		ID:        s.newID(),
		ListingID: listingID,
		Appraisal: a,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.Exec(`
		INSERT INTO appraisals (id, listing_id, appraisal_json, created_at)
		VALUES (?, ?, ?, ?)`,
		rec.ID, nullable(listingID), string(data), rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert appraisal: %w", err)
	}

	return &rec, nil
}

// AppraisalsForListing returns the appraisal history for a listing,
// newest first.
func (s *Store) AppraisalsForListing(listingID string) ([]AppraisalRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, listing_id, appraisal_json, created_at
		FROM appraisals WHERE listing_id = ? ORDER BY created_at DESC`, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query appraisals: %w", err)
	}
	defer rows.Close()

	var out []AppraisalRecord
	for rows.Next() {
		var rec AppraisalRecord
		var listingRef sql.NullString
		var raw string
		if err := rows.Scan(&rec.ID, &listingRef, &raw, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.ListingID = listingRef.String
		if err := json.Unmarshal([]byte(raw), &rec.Appraisal); err != nil {
			return nil, fmt.Errorf("corrupt appraisal %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveServiceRequest persists a secondary service request.
func (s *Store) SaveServiceRequest(req ambassador.ServiceRequest) error {
	_, err := s.db.Exec(`
		INSERT INTO service_requests (request_id, user_id, date_requested, service_type, zip_code, notes, status, assigned_ambassador_id, assigned_ambassador_name, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.RequestID, req.UserID, req.DateRequested, string(req.ServiceType), req.ZipCode, req.Notes,
		string(req.Status), req.AssignedAmbassadorID, req.AssignedAmbassadorName, req.Message)
	if err != nil {
		return fmt.Errorf("failed to insert service request: %w", err)
	}
	return nil
}

// GetServiceRequest fetches a service request by ID. Returns
// sql.ErrNoRows when absent.
func (s *Store) GetServiceRequest(requestID string) (*ambassador.ServiceRequest, error) {
	row := s.db.QueryRow(`
		SELECT request_id, user_id, date_requested, service_type, zip_code, notes, status, assigned_ambassador_id, assigned_ambassador_name, message
		FROM service_requests WHERE request_id = ?`, requestID)

	var req ambassador.ServiceRequest
	var serviceType, status string
	err := row.Scan(&req.RequestID, &req.UserID, &req.DateRequested, &serviceType, &req.ZipCode, &req.Notes,
		&status, &req.AssignedAmbassadorID, &req.AssignedAmbassadorName, &req.Message)
	if err != nil {
		return nil, err
	}
	req.ServiceType = ambassador.Service(serviceType)
	req.Status = ambassador.RequestStatus(status)
	return &req, nil
}

// RequestsForUser returns a user's service requests, newest first.
func (s *Store) RequestsForUser(userID string) ([]ambassador.ServiceRequest, error) {
	rows, err := s.db.Query(`
		SELECT request_id, user_id, date_requested, service_type, zip_code, notes, status, assigned_ambassador_id, assigned_ambassador_name, message
		FROM service_requests WHERE user_id = ? ORDER BY date_requested DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query service requests: %w", err)
	}
	defer rows.Close()

	var out []ambassador.ServiceRequest
	for rows.Next() {
		var req ambassador.ServiceRequest
		var serviceType, status string
		if err := rows.Scan(&req.RequestID, &req.UserID, &req.DateRequested, &serviceType, &req.ZipCode, &req.Notes,
			&status, &req.AssignedAmbassadorID, &req.AssignedAmbassadorName, &req.Message); err != nil {
			return nil, err
		}
		req.ServiceType = ambassador.Service(serviceType)
		req.Status = ambassador.RequestStatus(status)
		out = append(out, req)
	}
	return out, rows.Err()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
