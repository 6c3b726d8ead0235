package sheets

import (
	"strings"

	"stock-sector-analyzer/models"
)

// ParseCSV turns a gviz CSV export into stock records. The first non-empty
// line is the header. Cells are split on commas with quotes stripped; the
// export never quotes commas inside the three columns used here.
func ParseCSV(text string) []models.StockRecord {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return []models.StockRecord{}
	}

	stocks := make([]models.StockRecord, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if stock, ok := parseRow(line); ok {
			stocks = append(stocks, stock)
		}
	}
	return stocks
}

func parseRow(line string) (models.StockRecord, bool) {
	cols := strings.Split(line, ",")
	if len(cols) < 3 {
		return models.StockRecord{}, false
	}
	for i := range cols[:3] {
		cols[i] = cleanCell(cols[i])
	}

	ticker, sectorText, country := cols[0], cols[1], cols[2]
	if ticker == "" || sectorText == "" || country == "" {
		return models.StockRecord{}, false
	}
	if !models.TickerPattern.MatchString(ticker) {
		return models.StockRecord{}, false
	}

	return models.StockRecord{Ticker: ticker, Sector: sectorText, Country: country}, true
}

func cleanCell(cell string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.TrimSpace(cell), `"`, ""))
}
