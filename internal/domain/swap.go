package domain

type QuoteRequest struct {
	From        string
	To          string
	Amount      string
	SwapMode    SwapMode
	SlippageBps uint16
	Chopped     bool
}

type MemoRequest struct {
	From             string
	To               string
	Amount           string
	Destination      string
	SlippageBps      uint16
	Version          uint
	Affiliate        string
	AffiliatePercent string
	Chopped          bool
}

type MemoResponse struct {
	Memo      string `json:"memo"`
	AmountIn  string `json:"amountIn"`
	AmountOut string `json:"amountOut"`
	MinReturn string `json:"minReturn"`
	Slippage  string `json:"slippage"`

	Route    []string `json:"route"`
	HopCount int      `json:"hopCount"`
	Pools    []string `json:"pools"`
}
