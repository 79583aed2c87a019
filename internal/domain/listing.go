package domain

// ListingSummary is a read-only snapshot of one published product card,
// carrying only the fields the duplicate detector needs.
type ListingSummary struct {
	NativeID     int64  `json:"nativeId"`
	GroupID      int64  `json:"groupId,omitempty"` // 0 = not merged with anything yet
	VendorCode   string `json:"vendorCode"`
	Title        string `json:"title"`
	Brand        string `json:"brand,omitempty"`
	CategoryID   int64  `json:"categoryId"`
	CategoryName string `json:"categoryName,omitempty"`
}

// Strategy tags identifying which heuristic produced a candidate group.
const (
	StrategyBaseVendorCode = "base_vendor_code"
	StrategySimilarTitles  = "similar_titles"
	StrategyVendorPrefix   = "vendor_prefix"
)

// CandidateGroup is a proposed set of duplicate listings, pending human
// approval. It lives only for the duration of one recommendation request.
type CandidateGroup struct {
	Members          []ListingSummary `json:"members"`
	Score            float64          `json:"score"`
	Reason           string           `json:"reason"`
	SuggestedPrimary ListingSummary   `json:"suggestedPrimary"`
	CategoryID       int64            `json:"categoryId"`
	Brand            string           `json:"brand,omitempty"`
	Strategy         string           `json:"strategy"`
}

// PairScore is the explainable result of comparing exactly two listings.
type PairScore struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}
