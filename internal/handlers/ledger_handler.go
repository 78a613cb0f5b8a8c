package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/donation-checkout/internal/ledger"
)

// RegisterLedgerRoutes registers the success and failure donor tables, as a
// single page and as a live stream of pages. Without cfg.Streaming the stream
// route answers 501.
func RegisterLedgerRoutes(r *gin.Engine, cfg HandlerConfig) {
	r.GET("/ledger/:view", func(c *gin.Context) {
		keep, page, ok := ledgerParams(c)
		if !ok {
			return
		}
		recs, err := cfg.Ledger.List(c.Request.Context())
		if err != nil {
			cfg.Log.ErrorContext(c.Request.Context(), "list donations failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, ledger.Paginate(ledger.Select(recs, keep), page, cfg.PageSize))
	})

	if !cfg.Streaming {
		r.GET("/ledger/:view/stream", func(c *gin.Context) {
			c.JSON(http.StatusNotImplemented, gin.H{"error": "streaming_unavailable"})
		})
		return
	}

	r.GET("/ledger/:view/stream", func(c *gin.Context) {
		ctx := c.Request.Context()
		keep, page, ok := ledgerParams(c)
		if !ok {
			return
		}

		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		view := ledger.NewView(keep, cfg.PageSize)
		first := true
		for snap, err := range cfg.Ledger.Snapshots(ctx, cfg.PollInterval) {
			if err != nil {
				cfg.Log.WarnContext(ctx, "ledger snapshot failed", "error", err)
				c.SSEvent("error", gin.H{"error": "snapshot_failed"})
				c.Writer.Flush()
				continue
			}
			if !view.Apply(snap) {
				continue
			}
			if first {
				view.SetPage(page)
				first = false
			}
			c.SSEvent("page", view.Page())
			c.Writer.Flush()
		}
	})
}

func ledgerParams(c *gin.Context) (ledger.Predicate, int, bool) {
	keep, ok := ledger.ByName(c.Param("view"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown_ledger_view"})
		return nil, 0, false
	}
	page := 1
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_page"})
			return nil, 0, false
		}
		page = n
	}
	return keep, page, true
}
