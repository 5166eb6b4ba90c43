package httpapi

import (
	"errors"
	"net/http"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// fail writes the error body for err. summary is the generic message used
// for upstream and unexpected failures; upstream text goes in "details".
func fail(c *gin.Context, err error, summary string) {
	failWithNotFound(c, err, summary, http.StatusNotFound)
}

func failWithNotFound(c *gin.Context, err error, summary string, notFoundStatus int) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.IsNotFound(err):
		c.JSON(notFoundStatus, gin.H{"error": err.Error()})
	case domain.IsUpstream(err):
		var ue *domain.UpstreamError
		if errors.As(err, &ue) {
			zerolog.Ctx(c.Request.Context()).Warn().Str("upstream", ue.Describe()).Msg(summary)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": summary, "details": err.Error()})
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg(summary)
		c.JSON(http.StatusInternalServerError, gin.H{"error": summary})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
