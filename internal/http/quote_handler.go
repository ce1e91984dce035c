package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hxuan190/relay-router/internal/aggregator"
	"github.com/hxuan190/relay-router/internal/domain"
	"github.com/hxuan190/relay-router/internal/http/httputil"
	"github.com/hxuan190/relay-router/internal/services/router"
)

var bpsDenom = decimal.NewFromInt(10_000)

type QuoteHandler struct {
	aggregatorSvc *aggregator.Service
}

func NewQuoteHandler(aggregatorSvc *aggregator.Service) *QuoteHandler {
	return &QuoteHandler{aggregatorSvc: aggregatorSvc}
}

func (h *QuoteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getQuote)
}

func (h *QuoteHandler) Root() string {
	return "/quote"
}

// QuoteRequest represents the parameters for requesting a conversion quote
type QuoteRequest struct {
	// Source token id, "{issuing contract}-{symbol code}"
	From string `form:"from" binding:"required" example:"eosio.token-EOS"`

	// Destination token id
	To string `form:"to" binding:"required" example:"bntbntbntbnt-BNT"`

	// Decimal amount in whole tokens. Digits beyond the token precision are
	// truncated.
	Amount string `form:"amount" binding:"required" example:"10.0000"`

	// - "ExactIn": Amount is paid in the source token, output is estimated
	// - "ExactOut": Amount is wanted in the destination token, input is estimated
	SwapMode string `form:"swapMode" enums:"ExactIn,ExactOut" example:"ExactIn"`

	// Slippage tolerance in basis points (1 bps = 0.01%)
	// Default: 50 bps (0.5%)
	SlippageBps uint16 `form:"slippageBps" example:"50"`

	// Route through pool halves, allowing paths through smart tokens
	Chopped bool `form:"chopped" example:"false"`
}

// RouteInfo describes a single hop in the conversion route
type RouteInfo struct {
	// Pool identity, "{contract}:{smart token symbol}"
	Pool string `json:"pool" example:"bancorc11144:bnteos"`

	// simple or composite
	PoolType string `json:"poolType" example:"simple"`

	InputToken  string `json:"inputToken" example:"eosio.token-EOS"`
	OutputToken string `json:"outputToken" example:"bntbntbntbnt-BNT"`
	AmountIn    string `json:"amountIn" example:"10.0000 EOS"`
	AmountOut   string `json:"amountOut" example:"9.0909 BNT"`

	// Curve slippage of this hop as a ratio
	Slippage string `json:"slippage" example:"0.1"`
}

// QuoteResponse contains the priced conversion with routing information
type QuoteResponse struct {
	From string `json:"from" example:"eosio.token-EOS"`
	To   string `json:"to" example:"bntbntbntbnt-BNT"`

	// For ExactIn mode: the requested amount
	// For ExactOut mode: the amount needed to receive AmountOut
	AmountIn string `json:"amountIn" example:"10.0000 EOS"`

	// For ExactIn mode: the estimated return
	// For ExactOut mode: the requested amount
	AmountOut string `json:"amountOut" example:"9.0364 BNT"`

	// Worst single-hop curve slippage as a ratio
	Slippage string `json:"slippage" example:"0.1"`

	// Price impact in basis points (1 bps = 0.01%)
	PriceImpactBps uint16 `json:"priceImpactBps" example:"1000"`

	// Human-readable price impact percentage
	PriceImpactPercent string `json:"priceImpactPercent" example:"10.00%"`

	// Price impact severity classification
	// - "none": < 1% (< 100 bps)
	// - "low": 1% - 3%
	// - "moderate": 3% - 5%
	// - "high": 5% - 10%
	// - "extreme": >= 10%
	PriceImpactSeverity string `json:"priceImpactSeverity" enums:"none,low,moderate,high,extreme" example:"extreme"`

	// User-friendly warning message about price impact
	// Empty if impact is negligible
	PriceImpactWarning string `json:"priceImpactWarning"`

	// Sum of the pool fee rates along the route in basis points
	FeeBps uint32 `json:"feeBps" example:"30"`

	Routes []RouteInfo `json:"routes"`

	// Complete token path from source to destination
	RoutePath []string `json:"routePath"`

	HopCount int `json:"hopCount" example:"1"`

	// Minimum output (ExactIn) or maximum input (ExactOut) after applying slippage
	// For ExactIn: amountOut * (1 - slippage), truncated
	// For ExactOut: amountIn / (1 - slippage), rounded up
	OtherAmountThreshold string `json:"otherAmountThreshold" example:"8.9912 BNT"`
}

func (h *QuoteHandler) parseQuoteRequest(c *gin.Context) (*QuoteRequest, domain.QuoteRequest, bool) {
	var req QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, "invalid query parameters: "+err.Error())
		return nil, domain.QuoteRequest{}, false
	}

	mode := domain.SwapModeExactIn
	switch req.SwapMode {
	case "", string(domain.SwapModeExactIn):
	case string(domain.SwapModeExactOut):
		mode = domain.SwapModeExactOut
	default:
		httputil.BadRequest(c, "invalid swapMode: must be ExactIn or ExactOut")
		return nil, domain.QuoteRequest{}, false
	}

	if req.SlippageBps > 10_000 {
		httputil.BadRequest(c, "invalid slippageBps: must be at most 10000")
		return nil, domain.QuoteRequest{}, false
	}

	return &req, domain.QuoteRequest{
		From:        req.From,
		To:          req.To,
		Amount:      req.Amount,
		SwapMode:    mode,
		SlippageBps: req.SlippageBps,
		Chopped:     req.Chopped,
	}, true
}

// otherAmountThreshold bounds the counter amount by the slippage tolerance.
func otherAmountThreshold(quote *domain.Quote, slippageBps uint16) (domain.Quantity, error) {
	keep := bpsDenom.Sub(decimal.NewFromInt(int64(slippageBps)))
	if quote.Mode == domain.SwapModeExactIn {
		return quote.AmountOut.WithAmount(quote.AmountOut.Amount().Mul(keep).Shift(-4))
	}
	if !keep.IsPositive() {
		return quote.AmountIn, nil
	}
	// Max Input = AmountIn * 10000 / (10000 - slippageBps)
	prec := int32(quote.AmountIn.Symbol().Precision)
	maxIn, rem := quote.AmountIn.Amount().Mul(bpsDenom).QuoRem(keep, prec)
	if !rem.IsZero() {
		maxIn = maxIn.Add(decimal.New(1, -prec))
	}
	return quote.AmountIn.WithAmount(maxIn)
}

func buildQuoteResponse(quote *domain.Quote, slippageBps uint16) (QuoteResponse, error) {
	threshold, err := otherAmountThreshold(quote, slippageBps)
	if err != nil {
		return QuoteResponse{}, err
	}

	impactBps := router.SlippageBps(quote.Slippage)
	severity := router.GetPriceImpactSeverity(impactBps)
	warning := router.GetPriceImpactWarning(impactBps)

	routes := make([]RouteInfo, 0, len(quote.Hops))
	var totalFeeBps uint32
	for _, hop := range quote.Hops {
		routes = append(routes, RouteInfo{
			Pool:        hop.Pool.Key().String(),
			PoolType:    hop.Pool.Type.String(),
			InputToken:  reserveTokenID(hop.Pool, hop.AmountIn.Symbol()),
			OutputToken: reserveTokenID(hop.Pool, hop.AmountOut.Symbol()),
			AmountIn:    hop.AmountIn.String(),
			AmountOut:   hop.AmountOut.String(),
			Slippage:    hop.Slippage.String(),
		})
		totalFeeBps += uint32(hop.Pool.Fee.Mul(bpsDenom).RoundCeil(0).IntPart())
	}

	return QuoteResponse{
		From:                 quote.From,
		To:                   quote.To,
		AmountIn:             quote.AmountIn.String(),
		AmountOut:            quote.AmountOut.String(),
		Slippage:             quote.Slippage.String(),
		PriceImpactBps:       impactBps,
		PriceImpactPercent:   fmt.Sprintf("%.2f%%", float64(impactBps)/100.0),
		PriceImpactSeverity:  string(severity),
		PriceImpactWarning:   warning,
		FeeBps:               totalFeeBps,
		Routes:               routes,
		RoutePath:            quote.Path,
		HopCount:             len(quote.Hops),
		OtherAmountThreshold: threshold.String(),
	}, nil
}

// reserveTokenID names the reserve of p holding s. Hops in a chopped route
// span two path entries, so the path cannot be indexed per hop.
func reserveTokenID(p domain.Pool, s domain.Symbol) string {
	if r, ok := p.ReserveFor(s); ok {
		return r.Token().ID()
	}
	return s.Code
}

// @Summary Get conversion quote
// @Description Price a conversion between two reserve tokens. The route is the first path a
// @Description depth-first search over the pool graph finds; where several pools serve a hop
// @Description the best priced one is used. Each hop applies the bonding curve and then the
// @Description pool fee twice.
// @Tags quote
// @Produce json
// @Param from query string true "Source token id" example("eosio.token-EOS")
// @Param to query string true "Destination token id" example("bntbntbntbnt-BNT")
// @Param amount query string true "Decimal amount" example("10.0000")
// @Param swapMode query string false "ExactIn or ExactOut" Enums(ExactIn, ExactOut) default(ExactIn)
// @Param slippageBps query int false "Slippage tolerance in basis points. Default: 50" default(50)
// @Param chopped query bool false "Route through smart tokens" default(false)
// @Success 200 {object} QuoteResponse
// @Failure 400 {object} httputil.Response "Invalid request parameters"
// @Failure 404 {object} httputil.Response "Unknown token or no route"
// @Failure 422 {object} httputil.Response "Amount exceeds pool reserves"
// @Router /api/v1/quote [get]
func (h *QuoteHandler) getQuote(c *gin.Context) {
	_, req, ok := h.parseQuoteRequest(c)
	if !ok {
		return
	}

	quote, err := h.aggregatorSvc.Quote(c.Request.Context(), req)
	if err != nil {
		httputil.Abort(c, toHTTPError(err))
		return
	}

	slippageBps := req.SlippageBps
	if slippageBps == 0 {
		slippageBps = h.aggregatorSvc.DefaultSlippageBps()
	}

	resp, err := buildQuoteResponse(quote, slippageBps)
	if err != nil {
		httputil.Abort(c, toHTTPError(err))
		return
	}
	httputil.Success(c, resp)
}
