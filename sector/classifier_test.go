package sector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-sector-analyzer/models"
)

func TestClassifyFintechKeywords(t *testing.T) {
	inputs := []string{
		"fintech",
		"  FinTech  ",
		"Financial Tech Services",
		"FINANCIAL TECH",
		"تقنية مالية",
		"  شركات تقنية مالية ناشئة ",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, Fintech, Classify(in))
		})
	}
}

func TestClassifyFallback(t *testing.T) {
	for _, in := range []string{"", "   ", "Miscellaneous", "Technology", "xyz"} {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, Other, Classify(in))
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		sector string
		want   string
	}{
		{"renewable beats energy", "Renewable Energy", RenewableEnergy},
		{"clean energy beats energy", "Clean Energy Producers", RenewableEnergy},
		{"arabic renewable beats arabic energy", "طاقة متجددة", RenewableEnergy},
		{"plain energy", "Energy", Energy},
		{"oil and gas", "Oil & Gas", Energy},
		{"e-commerce beats retail", "E-Commerce & Online Retail", ECommerce},
		{"medical devices", "Medical Devices", MedicalDevices},
		{"investment wins over real estate", "Real Estate Investment Trust", Investment},
		{"semiconductor equipment", "Semiconductor Equipment", Semiconductors},
		{"banking", "Regional Banks", Banks},
		{"insurance", "Life Insurance", Insurance},
		{"software", "Software - Infrastructure", Software},
		{"reit", "REIT - Residential", RealEstate},
		{"agriculture", "Agriculture", Agriculture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.sector))
		})
	}
}

func TestLabelsAreUniqueAndEndWithOther(t *testing.T) {
	labels := Labels()
	require.Len(t, labels, 28)
	assert.Equal(t, Other, labels[len(labels)-1])

	seen := make(map[string]bool)
	for _, l := range labels {
		assert.False(t, seen[l], "duplicate label %q", l)
		seen[l] = true
	}
}

func TestGroupStocks(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		grouped := GroupStocks(nil)
		require.NotNil(t, grouped)
		assert.Empty(t, grouped)
	})

	t.Run("never drops a record and keeps order", func(t *testing.T) {
		stocks := []models.StockRecord{
			{Ticker: "SQ", Sector: "Fintech", Country: "US"},
			{Ticker: "XOM", Sector: " Oil & Gas ", Country: "US"},
			{Ticker: "PYPL", Sector: "financial tech", Country: "US"},
			{Ticker: "ENPH", Sector: "Solar", Country: "US"},
			{Ticker: "ZZZ", Sector: "Unclassifiable", Country: "GB"},
		}

		grouped := GroupStocks(stocks)

		assert.Equal(t, len(stocks), grouped.Count())
		assert.Equal(t, []models.StockRecord{stocks[0], stocks[2]}, grouped[Fintech])
		assert.Equal(t, []models.StockRecord{stocks[1]}, grouped[Energy])
		assert.Equal(t, []models.StockRecord{stocks[3]}, grouped[RenewableEnergy])
		assert.Equal(t, []models.StockRecord{stocks[4]}, grouped[Other])
	})
}

func TestSortedNames(t *testing.T) {
	grouped := models.GroupedStocks{
		Insurance: nil,
		Banks:     nil,
		Other:     nil,
	}

	// البنوك < التأمين on the letter after the article (ب before ت), and ق sorts after ا
	assert.Equal(t, []string{Banks, Insurance, Other}, SortedNames(grouped))
}
