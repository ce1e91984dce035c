package http

import (
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/relay-router/internal/aggregator"
	"github.com/hxuan190/relay-router/internal/domain"
	"github.com/hxuan190/relay-router/internal/http/httputil"
)

// SwapHandler builds settlement memos for conversions. The memo is attached to
// the transfer of the source token; settlement itself happens elsewhere.
type SwapHandler struct {
	aggregatorSvc *aggregator.Service
}

func NewSwapHandler(aggregatorSvc *aggregator.Service) *SwapHandler {
	return &SwapHandler{aggregatorSvc: aggregatorSvc}
}

func (h *SwapHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("/memo", h.buildMemo)
}

func (h *SwapHandler) Root() string {
	return "/swap"
}

// MemoRequest represents the parameters for building a settlement memo
type MemoRequest struct {
	From   string `json:"from" binding:"required" example:"eosio.token-EOS"`
	To     string `json:"to" binding:"required" example:"bntbntbntbnt-BNT"`
	Amount string `json:"amount" binding:"required" example:"10.0000"`

	// Account receiving the converted tokens
	Destination string `json:"destination" binding:"required" example:"alice"`

	// Slippage tolerance in basis points used for the minimum return
	// Default: 50 bps (0.5%) if not specified
	SlippageBps uint16 `json:"slippageBps" binding:"lte=10000" example:"50"`

	// Memo format version. Default: 1
	Version uint `json:"version" example:"1"`

	// Optional affiliate account and fee share; both or neither
	Affiliate        string `json:"affiliate,omitempty" example:"affiliate123"`
	AffiliatePercent string `json:"affiliatePercent,omitempty" example:"0.5"`

	Chopped bool `json:"chopped" example:"false"`
}

// @Summary Build settlement memo
// @Description Quote an exact-in conversion and render the memo that instructs the settlement
// @Description layer to carry it out: "{version},{hops},{minReturn},{destination}[,{affiliate},{percent}]".
// @Tags swap
// @Accept json
// @Produce json
// @Param request body MemoRequest true "Memo request"
// @Success 200 {object} domain.MemoResponse
// @Failure 400 {object} httputil.Response "Invalid request"
// @Failure 404 {object} httputil.Response "Unknown token or no route"
// @Router /api/v1/swap/memo [post]
func (h *SwapHandler) buildMemo(c *gin.Context) {
	var req MemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.aggregatorSvc.BuildMemo(c.Request.Context(), domain.MemoRequest{
		From:             req.From,
		To:               req.To,
		Amount:           req.Amount,
		Destination:      req.Destination,
		SlippageBps:      req.SlippageBps,
		Version:          req.Version,
		Affiliate:        req.Affiliate,
		AffiliatePercent: req.AffiliatePercent,
		Chopped:          req.Chopped,
	})
	if err != nil {
		httputil.Abort(c, toHTTPError(err))
		return
	}
	httputil.Success(c, resp)
}
