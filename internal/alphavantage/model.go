package alphavantage

// Quote is a provider quote result. Sector and AssetType are only populated
// by the overview endpoint; the quote endpoint carries price alone.
type Quote struct {
	Ticker       string
	CurrentPrice float64
	Sector       string
	AssetType    string
}

// Transcript is a raw earnings-call transcript for one (ticker, quarter).
// Text may legitimately be empty when the provider has no transcript for
// that quarter; that is not an error.
type Transcript struct {
	Ticker  string
	Quarter string
	Text    string
}

// globalQuoteResponse maps the GLOBAL_QUOTE endpoint's response format.
// Note and Information are how Alpha Vantage reports rate limiting: a 200
// response whose payload is an apology instead of data.
type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
	} `json:"Global Quote"`
	Note        string `json:"Note"`
	Information string `json:"Information"`
}

// overviewResponse maps the OVERVIEW endpoint's response format.
type overviewResponse struct {
	Symbol      string `json:"Symbol"`
	Sector      string `json:"Sector"`
	AssetType   string `json:"AssetType"`
	Note        string `json:"Note"`
	Information string `json:"Information"`
}

// transcriptResponse maps the EARNINGS_CALL_TRANSCRIPT endpoint's response
// format. The transcript arrives as a list of speaker segments.
type transcriptResponse struct {
	Symbol     string `json:"symbol"`
	Quarter    string `json:"quarter"`
	Transcript []struct {
		Speaker string `json:"speaker"`
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"transcript"`
	Note        string `json:"Note"`
	Information string `json:"Information"`
}
