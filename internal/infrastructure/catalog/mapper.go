package catalog

import "github.com/shelfsync/backend/internal/domain"

// cardsResponse is the wire shape of the catalog listings endpoint.
type cardsResponse struct {
	Cards []card `json:"cards"`
}

// card is one published listing as the catalog API reports it. Only the
// fields the duplicate detector needs are decoded.
type card struct {
	NmID        int64  `json:"nmId"`
	ImtID       int64  `json:"imtId"` // shared by variants already merged; 0 if standalone
	VendorCode  string `json:"vendorCode"`
	Title       string `json:"title"`
	Brand       string `json:"brand"`
	SubjectID   int64  `json:"subjectId"`
	SubjectName string `json:"subjectName"`
}

// mapCards converts catalog wire cards to domain listing summaries.
func mapCards(cards []card) []domain.ListingSummary {
	listings := make([]domain.ListingSummary, 0, len(cards))
	for _, c := range cards {
		listings = append(listings, domain.ListingSummary{
			NativeID:     c.NmID,
			GroupID:      c.ImtID,
			VendorCode:   c.VendorCode,
			Title:        c.Title,
			Brand:        c.Brand,
			CategoryID:   c.SubjectID,
			CategoryName: c.SubjectName,
		})
	}
	return listings
}
