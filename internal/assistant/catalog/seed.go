package catalog

import (
	"context"

	"github.com/llamale/server/internal/assistant/model"
	errx "github.com/llamale/server/internal/core/error"
	logx "github.com/llamale/server/pkg/logger"
)

// Seed populates an empty catalog with the fixture beers. Idempotent:
// an already populated catalog is left untouched.
func (s *Store) Seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM beers").Scan(&count); err != nil {
		return errx.WrapCatalog(err)
	}
	if count > 0 {
		return nil
	}

	for _, b := range SeedBeers {
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO beers (name, full_name, style, brewery, description, abv, min_ibu, max_ibu, rating) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			b.Name, b.FullName, b.Style, b.Brewery, b.Description, b.ABV, b.MinIBU, b.MaxIBU, b.Rating,
		)
		if err != nil {
			return errx.WrapCatalog(err)
		}
	}
	logx.Debug().Int("beers", len(SeedBeers)).Msg("catalog seeded")
	return nil
}

// SeedBeers is a small fixture catalog for demos and tests.
var SeedBeers = []model.BeerRecord{
	{
		Name:        "Westmalle Tripel",
		FullName:    "Brouwerij Westmalle Tripel",
		Style:       "Belgian Tripel",
		Brewery:     "Brouwerij Westmalle",
		Description: "Golden Trappist tripel with fruity esters and a dry, hoppy finish",
		ABV:         9.5, MinIBU: 35, MaxIBU: 40, Rating: 4.45,
	},
	{
		Name:        "La Fin Du Monde",
		FullName:    "Unibroue La Fin Du Monde",
		Style:       "Belgian Tripel",
		Brewery:     "Unibroue",
		Description: "Triple fermentation ale with coriander and a champagne-like effervescence",
		ABV:         9.0, MinIBU: 19, MaxIBU: 30, Rating: 4.30,
	},
	{
		Name:        "Chimay Blue",
		FullName:    "Chimay Grande Réserve (Blue)",
		Style:       "Belgian Strong Dark Ale",
		Brewery:     "Bières de Chimay",
		Description: "Dark Trappist ale with dried fruit and peppery spice",
		ABV:         9.0, MinIBU: 20, MaxIBU: 35, Rating: 4.25,
	},
	{
		Name:        "Guinness Draught",
		FullName:    "Guinness Draught Stout",
		Style:       "Irish Dry Stout",
		Brewery:     "Guinness",
		Description: "Roasty dry stout with a creamy nitrogen head",
		ABV:         4.2, MinIBU: 35, MaxIBU: 45, Rating: 3.80,
	},
	{
		Name:        "Ten FIDY",
		FullName:    "Oskar Blues Ten FIDY Imperial Stout",
		Style:       "Imperial Stout",
		Brewery:     "Oskar Blues",
		Description: "Viscous imperial stout loaded with chocolate and roasted malt",
		ABV:         10.5, MinIBU: 65, MaxIBU: 98, Rating: 4.35,
	},
	{
		Name:        "Pliny the Elder",
		FullName:    "Russian River Pliny the Elder",
		Style:       "Double IPA",
		Brewery:     "Russian River",
		Description: "Benchmark double IPA, resinous and citrusy with a dry finish",
		ABV:         8.0, MinIBU: 90, MaxIBU: 100, Rating: 4.60,
	},
	{
		Name:        "Two Hearted Ale",
		FullName:    "Bell's Two Hearted Ale",
		Style:       "American IPA",
		Brewery:     "Bell's Brewery",
		Description: "Centennial-hopped IPA with grapefruit and pine",
		ABV:         7.0, MinIBU: 55, MaxIBU: 60, Rating: 4.40,
	},
	{
		Name:        "Pilsner Urquell",
		FullName:    "Pilsner Urquell",
		Style:       "Czech Pilsner",
		Brewery:     "Plzeňský Prazdroj",
		Description: "The original pale lager, floral Saaz hops over soft maltiness",
		ABV:         4.4, MinIBU: 35, MaxIBU: 45, Rating: 3.95,
	},
	{
		Name:        "Augustiner Helles",
		FullName:    "Augustiner-Bräu Lagerbier Hell",
		Style:       "Munich Helles",
		Brewery:     "Augustiner-Bräu",
		Description: "Soft, bready Munich helles with gentle bitterness",
		ABV:         5.2, MinIBU: 18, MaxIBU: 25, Rating: 4.10,
	},
	{
		Name:        "Duvel",
		FullName:    "Duvel Belgian Golden Ale",
		Style:       "Belgian Strong Golden Ale",
		Brewery:     "Duvel Moortgat",
		Description: "Deceptively pale strong golden ale with a rocky white head",
		ABV:         8.5, MinIBU: 30, MaxIBU: 35, Rating: 4.20,
	},
	{
		Name:        "Saison Dupont",
		FullName:    "Brasserie Dupont Saison Dupont",
		Style:       "Saison",
		Brewery:     "Brasserie Dupont",
		Description: "Earthy, peppery farmhouse ale with a bone-dry finish",
		ABV:         6.5, MinIBU: 30, MaxIBU: 32, Rating: 4.15,
	},
	{
		Name:        "Weihenstephaner Hefeweissbier",
		FullName:    "Weihenstephaner Hefeweissbier",
		Style:       "Hefeweizen",
		Brewery:     "Bayerische Staatsbrauerei Weihenstephan",
		Description: "Banana and clove wheat beer from the world's oldest brewery",
		ABV:         5.4, MinIBU: 10, MaxIBU: 15, Rating: 4.25,
	},
}
