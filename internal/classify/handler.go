package classify

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"civicsight/internal/config"
	"civicsight/internal/httputil"
	"civicsight/internal/logging"
)

// Classifier is the operation the HTTP handler exposes.
type Classifier interface {
	Classify(ctx context.Context, req Request) (Result, error)
}

// Handler handles POST /api/classify.
func Handler(svc Classifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request
		if err := httputil.DecodeJSON(c, config.MaxClassifyBodyBytes, &req); err != nil {
			httputil.Fail(c, httputil.DecodeStatus(err), err.Error())
			return
		}

		res, err := svc.Classify(c.Request.Context(), req)
		if err != nil {
			status := MapHTTPStatus(err)
			if status >= http.StatusInternalServerError {
				logging.FromContext(c.Request.Context(), nil).Error("classification failed", zap.Error(err))
			}
			httputil.Fail(c, status, err.Error())
			return
		}
		httputil.OK(c, http.StatusOK, gin.H{"classification": res})
	}
}
