package http

import (
	gohttp "net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hxuan190/relay-router/internal/aggregator"
	"github.com/hxuan190/relay-router/internal/domain"
	"github.com/hxuan190/relay-router/internal/http/httputil"
)

type PoolHandler struct {
	aggregatorSvc *aggregator.Service
}

func NewPoolHandler(aggregatorSvc *aggregator.Service) *PoolHandler {
	return &PoolHandler{aggregatorSvc: aggregatorSvc}
}

func (h *PoolHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/stats", h.getStats)
	pub.GET("/list", h.listPools)
	pub.GET("/:contract/:symbol", h.getPool)

	admin.PUT("", h.upsertPools)
	admin.DELETE("/:contract/:symbol", h.removePool)
}

func (h *PoolHandler) Root() string {
	return "/pools"
}

// PoolStatsResponse contains aggregated statistics about the pool registry
type PoolStatsResponse struct {
	PoolCount  int `json:"pool_count" example:"42"`
	TokenCount int `json:"token_count" example:"30"`

	// Registry version; moves on every pool change
	Version uint64 `json:"version" example:"17"`

	QuoteCacheSize int    `json:"quote_cache_size" example:"120"`
	CacheHits      uint64 `json:"cache_hits" example:"9001"`
	CacheMisses    uint64 `json:"cache_misses" example:"311"`
	UptimeSeconds  int64  `json:"uptime_seconds" example:"3600"`
}

func (h *PoolHandler) getStats(c *gin.Context) {
	s := h.aggregatorSvc.Stats()
	httputil.Success(c, PoolStatsResponse{
		PoolCount:      s.PoolCount,
		TokenCount:     s.TokenCount,
		Version:        s.Version,
		QuoteCacheSize: s.QuoteCacheSize,
		CacheHits:      s.CacheHits,
		CacheMisses:    s.CacheMisses,
		UptimeSeconds:  int64(s.Uptime / time.Second),
	})
}

// PoolInfo is a pool as served and accepted by the API
type PoolInfo struct {
	Key string `json:"key" example:"bancorc11144:bnteos"`
	domain.Pool
}

// PoolListResponse contains paginated list of pools
type PoolListResponse struct {
	Pools []PoolInfo `json:"pools"`
	Total int        `json:"total" example:"42"`
	Page  int        `json:"page" example:"1"`

	// Number of pools per page (max 500)
	Limit int `json:"limit" example:"100"`
	Pages int `json:"pages" example:"1"`
}

func (h *PoolHandler) listPools(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}

	allPools := h.aggregatorSvc.Pools()
	total := len(allPools)

	pages := (total + limit - 1) / limit
	offset := (page - 1) * limit
	end := offset + limit
	if offset > total {
		offset = total
	}
	if end > total {
		end = total
	}

	pools := make([]PoolInfo, 0, end-offset)
	for _, pool := range allPools[offset:end] {
		pools = append(pools, PoolInfo{Key: pool.Key().String(), Pool: pool})
	}

	httputil.Success(c, PoolListResponse{
		Pools: pools,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	})
}

func (h *PoolHandler) getPool(c *gin.Context) {
	key := domain.PoolKey{Contract: c.Param("contract"), SmartSymbol: c.Param("symbol")}
	pool, err := h.aggregatorSvc.Pool(key)
	if err != nil {
		httputil.Abort(c, toHTTPError(err))
		return
	}
	httputil.Success(c, PoolInfo{Key: pool.Key().String(), Pool: pool})
}

// UpsertPoolsRequest replaces or inserts pools by key
type UpsertPoolsRequest struct {
	Pools []domain.Pool `json:"pools" binding:"required,min=1"`
}

func (h *PoolHandler) upsertPools(c *gin.Context) {
	var req UpsertPoolsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := h.aggregatorSvc.UpsertPools(req.Pools...); err != nil {
		httputil.Abort(c, toHTTPError(err))
		return
	}
	httputil.Success(c, gin.H{"upserted": len(req.Pools), "version": h.aggregatorSvc.Stats().Version})
}

func (h *PoolHandler) removePool(c *gin.Context) {
	key := domain.PoolKey{Contract: c.Param("contract"), SmartSymbol: c.Param("symbol")}
	if err := h.aggregatorSvc.RemovePool(key); err != nil {
		httputil.Abort(c, toHTTPError(err))
		return
	}
	c.Status(gohttp.StatusNoContent)
}
