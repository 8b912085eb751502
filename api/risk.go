package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/epiwatch/epiwatch-api/store"
)

func (s *Server) listRiskScores(c *gin.Context) {
	date := c.Query("date")
	disease := c.Query("disease")

	if date == "" {
		latest, err := s.mongoStore.LatestRiskDate(disease)
		if err != nil {
			if errors.Is(err, store.ErrInsufficientData) {
				abortWithEncoding(c, http.StatusNotFound, errorInsufficientData, err)
				return
			}
			abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
			return
		}
		date = latest
	}

	scores, err := s.mongoStore.ListRiskScores(date, disease)
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":    date,
		"results": scores,
	})
}

// riskSummary returns the average score for a region over a date range.
func (s *Server) riskSummary(c *gin.Context) {
	regionID := c.Query("region_id")
	disease := c.Query("disease")
	start := c.Query("start")
	end := c.Query("end")
	if regionID == "" || disease == "" || start == "" || end == "" {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	average, err := s.mongoStore.GetRiskScoreAverage(regionID, disease, start, end)
	if err != nil {
		if errors.Is(err, store.ErrRiskScoreNotFound) {
			abortWithEncoding(c, http.StatusNotFound, errorScoreNotFound, err)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"region_id":     regionID,
		"disease":       disease,
		"start":         start,
		"end":           end,
		"average_score": average,
	})
}

func (s *Server) hotspots(c *gin.Context) {
	date := c.Query("date")
	disease := c.Query("disease")
	if date == "" || disease == "" {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	limit := int64(10)
	if q := c.Query("limit"); q != "" {
		parsed, err := strconv.ParseInt(q, 10, 64)
		if err != nil || parsed < 1 {
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
			return
		}
		limit = parsed
	}

	scores, err := s.mongoStore.TopRiskRegions(date, disease, limit)
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":    date,
		"disease": disease,
		"results": scores,
	})
}
