package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/epiwatch/epiwatch-api/schema"
)

func (s *Server) listForecasts(c *gin.Context) {
	regionID := c.Query("region_id")
	disease := c.Query("disease")
	model := c.Query("model")
	if disease == "" {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}
	if model != "" && model != schema.ForecastModelNaive && model != schema.ForecastModelAR {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	points, err := s.mongoStore.ListForecasts(regionID, disease, model)
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"disease": disease,
		"results": points,
	})
}

func (s *Server) evaluation(c *gin.Context) {
	disease := c.Query("disease")
	regionID := c.Query("region_id")
	if disease == "" {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	metrics, err := s.pipeline.Evaluate(disease, regionID)
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}
