package sector

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"stock-sector-analyzer/models"
)

// GroupStocks partitions stocks by canonical group, keeping input order
// within each group. An empty input yields an empty, non-nil map.
func GroupStocks(stocks []models.StockRecord) models.GroupedStocks {
	grouped := make(models.GroupedStocks)
	for _, s := range stocks {
		name := Classify(strings.TrimSpace(s.Sector))
		grouped[name] = append(grouped[name], s)
	}
	return grouped
}

// SortedNames returns the group names in Arabic collation order
func SortedNames(grouped models.GroupedStocks) []string {
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	collate.New(language.Arabic).SortStrings(names)
	return names
}
