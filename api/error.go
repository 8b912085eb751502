package api

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	errorInternalServer     = errorResponse{1000, "internal server error"}
	errorInvalidParameters  = errorResponse{1001, "invalid parameters"}
	errorCannotParseRequest = errorResponse{1002, "cannot parse request"}
	errorUnknownDisease     = errorResponse{1100, "unknown disease"}
	errorInsufficientData   = errorResponse{1101, "not enough case records"}
	errorInvalidHorizon     = errorResponse{1102, "forecast horizon out of range"}
	errorScoreNotFound      = errorResponse{1103, "risk score not found"}
	errorIdentityConflict   = errorResponse{1104, "conflicting identity key"}
)

func abortWithEncoding(c *gin.Context, status int, resp errorResponse, errs ...error) {
	for _, err := range errs {
		if err != nil {
			c.Error(err)
			log.WithFields(log.Fields{
				"prefix": "api",
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
				"error":  err,
			}).Error(resp.Message)
		}
	}
	c.AbortWithStatusJSON(status, gin.H{"error": resp})
}
