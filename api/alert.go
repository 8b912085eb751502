package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listAlerts(c *gin.Context) {
	date := c.Query("date")
	disease := c.Query("disease")
	if date == "" {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	alerts, err := s.mongoStore.ListAlerts(date, disease)
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":    date,
		"results": alerts,
	})
}

func (s *Server) listRegionAlerts(c *gin.Context) {
	regionID := c.Param("regionID")
	disease := c.Query("disease")
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	alerts, err := s.mongoStore.ListRegionAlerts(regionID, disease, start, end)
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"region_id": regionID,
		"results":   alerts,
	})
}
