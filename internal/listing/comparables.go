package listing

import "strings"

// Comparable is a recent sale or live listing for a similar item.
type Comparable struct {
	ID          string  `json:"id"`
	ImageURL    string  `json:"imageUrl"`
	Title       string  `json:"title"`
	Marketplace string  `json:"marketplace"` // eBay, Mercari, Poshmark, Local Sale
	Condition   string  `json:"condition"`   // New, Like new, Good, Fair, For parts
	Price       float64 `json:"price"`
	Type        string  `json:"type"` // Sold or Listed
	Date        string  `json:"date"`
}

// mockComparables simulates a comparable-sales feed.
var mockComparables = []Comparable{
	{ID: "comp1", ImageURL: "https://picsum.photos/seed/comp1/48/48", Title: "iPhone 13 Pro Max 256GB - Graphite (Unlocked)", Marketplace: "eBay", Condition: "Good", Price: 475.00, Type: "Sold", Date: "2024-05-15"},
	{ID: "comp2", ImageURL: "https://picsum.photos/seed/comp2/48/48", Title: "Apple iPhone 13 Pro Max 256GB Sierra Blue A2484", Marketplace: "Mercari", Condition: "Good", Price: 450.00, Type: "Sold", Date: "2024-05-12"},
	{ID: "comp3", ImageURL: "https://picsum.photos/seed/comp3/48/48", Title: "iPhone 13 Pro Max - Good Condition", Marketplace: "Poshmark", Condition: "Good", Price: 490.00, Type: "Listed", Date: "2024-05-20"},
	{ID: "comp4", ImageURL: "https://picsum.photos/seed/comp4/48/48", Title: "iPhone 13 Pro Max 256GB", Marketplace: "Local Sale", Condition: "Fair", Price: 420.00, Type: "Sold", Date: "2024-05-18"},
	{ID: "comp5", ImageURL: "https://picsum.photos/seed/comp5/48/48", Title: "Mint iPhone 13 Pro Max", Marketplace: "eBay", Condition: "Like new", Price: 520.00, Type: "Sold", Date: "2024-05-19"},
	{ID: "comp6", ImageURL: "https://picsum.photos/seed/comp6/48/48", Title: "iPhone 13 Pro Max (For parts)", Marketplace: "eBay", Condition: "For parts", Price: 150.00, Type: "Sold", Date: "2024-05-10"},
	{ID: "comp7", ImageURL: "https://picsum.photos/seed/comp7/48/48", Title: "iPhone 13 Pro Max - Unlocked - 256GB - Excellent", Marketplace: "Mercari", Condition: "Like new", Price: 535.00, Type: "Listed", Date: "2024-05-22"},
	{ID: "comp8", ImageURL: "https://picsum.photos/seed/comp8/48/48", Title: "Vintage wooden rocking chair - Restored", Marketplace: "Local Sale", Condition: "Good", Price: 120.00, Type: "Sold", Date: "2024-05-21"},
}

// Comparables returns comparable sales, optionally filtered by a
// case-insensitive title substring.
func Comparables(query string) []Comparable {
	if query == "" {
		out := make([]Comparable, len(mockComparables))
		copy(out, mockComparables)
		return out
	}

	q := strings.ToLower(query)
	var out []Comparable
	for _, c := range mockComparables {
		if strings.Contains(strings.ToLower(c.Title), q) {
			out = append(out, c)
		}
	}
	return out
}

// SoldAverage returns the average price of sold comparables matching
// the query. ok is false when nothing sold matches.
func SoldAverage(query string) (float64, bool) {
	var sum float64
	var n int
	for _, c := range Comparables(query) {
		if c.Type == "Sold" {
			sum += c.Price
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
