package script

import (
	"github.com/atelier-ai/styling-assistant/internal/model"
)

// The catalog is fixed data; totals are the only computed field.

var catalog = []model.Outfit{
	{
		ID:   "outfit-weekend-brunch",
		Name: "Weekend Brunch",
		Items: []model.OutfitItem{
			{Name: "Linen Blend Shirt", Brand: "Arket", PriceCents: 8900, ImageURL: "/images/outfits/linen-shirt.jpg"},
			{Name: "Straight-Leg Trousers", Brand: "COS", PriceCents: 11500, ImageURL: "/images/outfits/straight-trousers.jpg"},
			{Name: "Leather Loafers", Brand: "G.H. Bass", PriceCents: 17500, ImageURL: "/images/outfits/leather-loafers.jpg"},
			{Name: "Canvas Tote", Brand: "Baggu", PriceCents: 4200, ImageURL: "/images/outfits/canvas-tote.jpg"},
		},
	},
	{
		ID:   "outfit-city-casual",
		Name: "City Casual",
		Items: []model.OutfitItem{
			{Name: "Boxy Crewneck Tee", Brand: "Uniqlo U", PriceCents: 2490, ImageURL: "/images/outfits/boxy-tee.jpg"},
			{Name: "Relaxed Denim", Brand: "Levi's", PriceCents: 9800, ImageURL: "/images/outfits/relaxed-denim.jpg"},
			{Name: "Retro Runners", Brand: "New Balance", PriceCents: 12000, ImageURL: "/images/outfits/retro-runners.jpg"},
		},
	},
	{
		ID:   "outfit-evening-edit",
		Name: "Evening Edit",
		Items: []model.OutfitItem{
			{Name: "Satin Slip Dress", Brand: "Reformation", PriceCents: 24800, ImageURL: "/images/outfits/slip-dress.jpg"},
			{Name: "Cropped Blazer", Brand: "The Frankie Shop", PriceCents: 31500, ImageURL: "/images/outfits/cropped-blazer.jpg"},
			{Name: "Strappy Heels", Brand: "Mango", PriceCents: 7990, ImageURL: "/images/outfits/strappy-heels.jpg"},
			{Name: "Mini Shoulder Bag", Brand: "Polène", PriceCents: 35000, ImageURL: "/images/outfits/mini-bag.jpg"},
		},
	},
}

// Outfits returns the suggestion payload: a fresh copy of the catalog
// with totals summed, safe for the caller to hold across commits.
func Outfits() []model.Outfit {
	outfits := make([]model.Outfit, len(catalog))
	for i, o := range catalog {
		cp := o
		cp.Items = make([]model.OutfitItem, len(o.Items))
		copy(cp.Items, o.Items)
		var total int64
		for _, item := range cp.Items {
			total += item.PriceCents
		}
		cp.TotalCents = total
		outfits[i] = cp
	}
	return outfits
}
