package model

// OutfitItem is a single garment or accessory in an outfit.
type OutfitItem struct {
	Name       string `json:"name"`
	Brand      string `json:"brand"`
	PriceCents int64  `json:"price_cents"`
	ImageURL   string `json:"image_url"`
}

// Outfit is a structured suggestion: a bundle of items with a
// precomputed total. Pure data, assembled from the static catalog.
type Outfit struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Items      []OutfitItem `json:"items"`
	TotalCents int64        `json:"total_cents"`
}
