package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/epiwatch/epiwatch-api/schema"
	"github.com/epiwatch/epiwatch-api/store"
)

func (s *Server) ingestRegions(c *gin.Context) {
	var params struct {
		Regions []schema.Region `json:"regions"`
	}
	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}
	if len(params.Regions) == 0 {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	updated, err := s.mongoStore.UpsertRegions(params.Regions)
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (s *Server) ingestCases(c *gin.Context) {
	var params struct {
		Records []schema.CaseRecord `json:"records"`
	}
	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	for _, r := range params.Records {
		if err := r.Key().Validate(); err != nil {
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
			return
		}
	}

	inserted, err := s.mongoStore.UpsertCaseRecords(params.Records)
	if err != nil {
		if errors.Is(err, store.ErrIdentityConflict) {
			abortWithEncoding(c, http.StatusConflict, errorIdentityConflict, err)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"received": len(params.Records),
		"inserted": inserted,
	})
}
