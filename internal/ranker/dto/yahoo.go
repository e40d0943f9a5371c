package dto

// YahooChartResponse mirrors the v8 chart API payload, trimmed to the fields
// the ranker reads.
type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *YahooAPIError `json:"error"`
	} `json:"chart"`
}

// YahooQuoteSummaryResponse mirrors the v10 quoteSummary payload for the
// defaultKeyStatistics, summaryDetail and price modules.
type YahooQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			DefaultKeyStatistics struct {
				TrailingEps YahooRawValue `json:"trailingEps"`
				BookValue   YahooRawValue `json:"bookValue"`
				SharesOut   YahooRawValue `json:"sharesOutstanding"`
			} `json:"defaultKeyStatistics"`
			SummaryDetail struct {
				MarketCap YahooRawValue `json:"marketCap"`
			} `json:"summaryDetail"`
			Price struct {
				RegularMarketPrice YahooRawValue `json:"regularMarketPrice"`
			} `json:"price"`
		} `json:"result"`
		Error *YahooAPIError `json:"error"`
	} `json:"quoteSummary"`
}

// YahooRawValue is Yahoo's {"raw": 1.23, "fmt": "1.23"} number wrapper.
type YahooRawValue struct {
	Raw *float64 `json:"raw"`
}

// Float returns the raw value, or ok=false when the field was absent.
func (v YahooRawValue) Float() (float64, bool) {
	if v.Raw == nil {
		return 0, false
	}
	return *v.Raw, true
}

// YahooAPIError is the error object embedded in Yahoo responses.
type YahooAPIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
