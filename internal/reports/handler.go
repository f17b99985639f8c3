package reports

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"civicsight/internal/config"
	"civicsight/internal/httputil"
	"civicsight/internal/logging"
)

// Storer is the operation the HTTP handler exposes.
type Storer interface {
	Store(ctx context.Context, req StoreRequest) (Stored, error)
}

// Handler handles POST /api/reports.
func Handler(svc Storer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StoreRequest
		if err := httputil.DecodeJSON(c, config.MaxStoreBodyBytes, &req); err != nil {
			httputil.Fail(c, httputil.DecodeStatus(err), err.Error())
			return
		}

		stored, err := svc.Store(c.Request.Context(), req)
		if err != nil {
			status := MapHTTPStatus(err)
			if status >= http.StatusInternalServerError {
				logging.FromContext(c.Request.Context(), nil).Error("store report failed", zap.Error(err))
			}
			httputil.Fail(c, status, err.Error())
			return
		}
		httputil.OK(c, http.StatusOK, gin.H{
			"report_id":     stored.ID,
			"report_number": stored.ReportNumber,
		})
	}
}
