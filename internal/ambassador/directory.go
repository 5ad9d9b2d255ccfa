// Package ambassador implements the fulfillment network: the local
// ambassador directory, consignment pickup assignment, secondary
// service requests, and AI-assisted candidate selection.
package ambassador

import (
	"sort"
	"sync"

	"refurrm/internal/logging"
)

// Service identifies a service an ambassador can perform.
type Service string

const (
	ServicePickup   Service = "pickup"
	ServiceCleanout Service = "cleanout"
	ServiceOrganize Service = "organize"
	ServiceDownsize Service = "downsize"
)

// ServiceDisplayNames maps service keys to their customer-facing names.
var ServiceDisplayNames = map[Service]string{
	ServicePickup:   "Item Pickup/Shipping Drop-off",
	ServiceCleanout: "Full Home/Storage Unit Clean-out Services",
	ServiceOrganize: "Organizational Services (e.g., Garage Facelift)",
	ServiceDownsize: "Downsizing Consultation/Assistance",
}

// ValidService reports whether s is a known service key.
func ValidService(s Service) bool {
	_, ok := ServiceDisplayNames[s]
	return ok
}

// Ambassador is a member of the fulfillment network.
type Ambassador struct {
	ID        string    `yaml:"id" json:"id"`
	Name      string    `yaml:"name" json:"name"`
	Zip       string    `yaml:"location_zip" json:"locationZip"`
	City      string    `yaml:"location_city" json:"locationCity,omitempty"`
	Services  []Service `yaml:"services" json:"services"`
	Rating    float64   `yaml:"rating" json:"rating"` // 1-5, zero when unrated
	Active    bool      `yaml:"is_active" json:"isActive"`
	Specialty string    `yaml:"specialty" json:"specialty,omitempty"`
}

// Offers reports whether the ambassador performs the given service.
func (a Ambassador) Offers(service Service) bool {
	for _, s := range a.Services {
		if s == service {
			return true
		}
	}
	return false
}

// Directory holds the ambassador roster. It is safe for concurrent
// use; the roster can be swapped wholesale on reload.
type Directory struct {
	mu     sync.RWMutex
	roster []Ambassador
}

// seedRoster is the built-in network used when no roster file is
// configured.
var seedRoster = []Ambassador{
	{
		ID:        "AMB001",
		Name:      "Alex Johnson",
		Zip:       "90210",
		City:      "Beverly Hills",
		Services:  []Service{ServicePickup, ServiceOrganize},
		Rating:    4.8,
		Active:    true,
		Specialty: "Electronics & Media",
	},
	{
		ID:        "AMB002",
		Name:      "Maria Rodriguez",
		Zip:       "10001",
		City:      "New York",
		Services:  []Service{ServicePickup, ServiceCleanout, ServiceDownsize},
		Rating:    4.9,
		Active:    true,
		Specialty: "Furniture & Decor",
	},
	{
		ID:        "AMB003",
		Name:      "Thomas Lee",
		Zip:       "90210",
		City:      "Beverly Hills",
		Services:  []Service{ServicePickup},
		Rating:    4.5,
		Active:    false,
		Specialty: "General Goods",
	},
	{
		ID:       "AMB004",
		Name:     "Josh Smith",
		Zip:      "90210",
		Services: []Service{ServiceCleanout},
		Active:   true,
	},
}

// NewDirectory returns a directory seeded with the built-in network.
func NewDirectory() *Directory {
	roster := make([]Ambassador, len(seedRoster))
	copy(roster, seedRoster)
	return &Directory{roster: roster}
}

// NewDirectoryWithRoster returns a directory holding the given roster.
func NewDirectoryWithRoster(roster []Ambassador) *Directory {
	d := &Directory{}
	d.Replace(roster)
	return d
}

// Replace swaps the roster atomically.
func (d *Directory) Replace(roster []Ambassador) {
	copied := make([]Ambassador, len(roster))
	copy(copied, roster)

	d.mu.Lock()
	d.roster = copied
	d.mu.Unlock()

	logging.Matcher("roster replaced: %d ambassadors", len(copied))
}

// All returns a copy of the full roster.
func (d *Directory) All() []Ambassador {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Ambassador, len(d.roster))
	copy(out, d.roster)
	return out
}

// FindLocal returns active ambassadors in the given ZIP code that
// offer the required service.
func (d *Directory) FindLocal(zipCode string, service Service) []Ambassador {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var matches []Ambassador
	for _, a := range d.roster {
		if a.Zip == zipCode && a.Active && a.Offers(service) {
			matches = append(matches, a)
		}
	}

	logging.MatcherDebug("FindLocal zip=%s service=%s matches=%d", zipCode, service, len(matches))
	return matches
}

// BestMatch returns the highest-rated ambassador from candidates.
// Ties keep the earlier candidate. ok is false when candidates is
// empty.
func BestMatch(candidates []Ambassador) (Ambassador, bool) {
	if len(candidates) == 0 {
		return Ambassador{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Rating > best.Rating {
			best = c
		}
	}
	return best, true
}

// sortByRatingDesc orders candidates by rating, highest first, stable.
func sortByRatingDesc(candidates []Ambassador) []Ambassador {
	out := make([]Ambassador, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rating > out[j].Rating
	})
	return out
}
