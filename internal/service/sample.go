package service

import (
	"time"

	"github.com/shopspring/decimal"

	"nft-storefront/internal/model"
)

// sampleListings is the built-in catalog shown when the backend list
// call fails, so the storefront stays browsable offline.
func sampleListings() []model.Listing {
	createdAt := func(day int) time.Time {
		return time.Date(2025, time.March, day, 12, 0, 0, 0, time.UTC)
	}

	return []model.Listing{
		{
			ID:          1,
			Title:       "Neon Genesis",
			Description: "Generative neon skyline, single edition",
			ImageURL:    "/images/1.png",
			PriceINR:    decimal.NewFromInt(12500),
			PriceUSD:    decimal.NewFromInt(150),
			Category:    "art",
			CreatorName: "Asha Verma",
			CreatedAt:   createdAt(2),
		},
		{
			ID:          2,
			Title:       "Pixel Raga",
			Description: "8-bit rendition of a morning raga",
			ImageURL:    "/images/2.png",
			PriceINR:    decimal.NewFromInt(8300),
			PriceUSD:    decimal.NewFromInt(99),
			Category:    "music",
			CreatorName: "Dev Iyer",
			CreatedAt:   createdAt(5),
		},
		{
			ID:          3,
			Title:       "Monsoon Alley",
			Description: "Street photograph, Mumbai, hand-tinted",
			ImageURL:    "/images/3.png",
			PriceINR:    decimal.NewFromInt(20750),
			PriceUSD:    decimal.NewFromInt(249),
			Category:    "photography",
			CreatorName: "Asha Verma",
			CreatedAt:   createdAt(9),
		},
		{
			ID:          4,
			Title:       "Cartridge Ghost",
			Description: "Retro console sprite sheet",
			ImageURL:    "/images/4.png",
			PriceINR:    decimal.NewFromInt(4100),
			PriceUSD:    decimal.NewFromInt(49),
			Category:    "gaming",
			CreatorName: "Lena Okoye",
			IsSold:      true,
			CreatedAt:   createdAt(12),
		},
		{
			ID:          5,
			Title:       "Teak Tessellation",
			Description: "Scanned woodblock pattern, utility license included",
			ImageURL:    "/images/5.png",
			PriceINR:    decimal.NewFromInt(6650),
			PriceUSD:    decimal.NewFromInt(79),
			Category:    "utility",
			CreatorName: "Dev Iyer",
			IsReserved:  true,
			CreatedAt:   createdAt(17),
		},
		{
			ID:          6,
			Title:       "Saffron Circuit",
			Description: "Macro shot of a hand-soldered synth board",
			ImageURL:    "/images/6.png",
			PriceINR:    decimal.NewFromInt(15400),
			PriceUSD:    decimal.NewFromInt(185),
			Category:    "collectible",
			CreatorName: "Lena Okoye",
			CreatedAt:   createdAt(21),
		},
	}
}
