package api

// ChartStudy is an indicator overlay with optional inputs
type ChartStudy struct {
	ID     string         `json:"id"`
	Inputs map[string]int `json:"inputs,omitempty"`
}

// ChartConfig is the TradingView widget configuration for a ticker
type ChartConfig struct {
	Symbol            string       `json:"symbol"`
	Interval          string       `json:"interval"`
	Timezone          string       `json:"timezone"`
	Theme             string       `json:"theme"`
	Style             string       `json:"style"`
	Locale            string       `json:"locale"`
	Autosize          bool         `json:"autosize"`
	ToolbarBg         string       `json:"toolbar_bg"`
	EnablePublishing  bool         `json:"enable_publishing"`
	AllowSymbolChange bool         `json:"allow_symbol_change"`
	HideSideToolbar   bool         `json:"hide_side_toolbar"`
	Studies           []ChartStudy `json:"studies"`
}

// NewChartConfig returns the 4-hour RSI, MACD and SMA50 chart for ticker
func NewChartConfig(ticker string) ChartConfig {
	return ChartConfig{
		Symbol:            ticker,
		Interval:          "240",
		Timezone:          "Etc/UTC",
		Theme:             "dark",
		Style:             "1",
		Locale:            "ar_AE",
		Autosize:          true,
		ToolbarBg:         "#f1f3f6",
		EnablePublishing:  false,
		AllowSymbolChange: false,
		HideSideToolbar:   true,
		Studies: []ChartStudy{
			{ID: "RSI@tv-basicstudies"},
			{ID: "MACD@tv-basicstudies"},
			{ID: "MASimple@tv-basicstudies", Inputs: map[string]int{"length": 50}},
		},
	}
}
