package domain

// MatchCandidate is the best product one source offered for a reference title,
// with its similarity score (0-100).
type MatchCandidate struct {
	Product RawProduct `json:"product"`
	Score   float64    `json:"score"`
}

// MatchGroup collects the at-most-one-per-source products believed to be the
// same physical item. The reference source is always present with score 100.
// Groups are built once per reference product and never mutated afterwards.
type MatchGroup struct {
	ReferenceSource string
	Products        map[string]RawProduct
	Scores          map[string]float64
}

// FormattedProduct is the canonical per-source view of a product. Every field
// is always populated; unknown values carry the Unknown marker.
type FormattedProduct struct {
	Title         string `json:"title"`
	Price         string `json:"price"`
	OriginalPrice string `json:"originalPrice"`
	Image         string `json:"image"`
	Rating        string `json:"rating"`
	Reviews       int    `json:"reviews"`
	URL           string `json:"url"`
	Discount      string `json:"discount"`
	Source        string `json:"source"`
}

// ComparisonRecord is the user-facing unit of a comparison. PriceDifference,
// CheaperOn, and YouSave are nil unless at least two sources have a known
// price.
type ComparisonRecord struct {
	SimilarityScore float64                      `json:"similarity_score"`
	Products        map[string]*FormattedProduct `json:"products"`
	Scores          map[string]float64           `json:"scores"`
	AllPrices       map[string]int               `json:"all_prices"`
	PriceDifference *int                         `json:"price_difference"`
	CheaperOn       *string                      `json:"cheaper_on"`
	YouSave         *int                         `json:"you_save"`
}

// CompareResponse is the envelope for a full cross-source comparison.
type CompareResponse struct {
	Success bool               `json:"success"`
	Query   string             `json:"query"`
	Results []ComparisonRecord `json:"results"`
	Count   int                `json:"count"`
	Error   string             `json:"error,omitempty"`
}

// SearchResponse is the envelope for a single-source passthrough search.
type SearchResponse struct {
	Success bool         `json:"success"`
	Query   string       `json:"query"`
	Source  string       `json:"source"`
	Results []RawProduct `json:"results"`
	Count   int          `json:"count"`
	Error   string       `json:"error,omitempty"`
}
