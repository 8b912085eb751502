package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/epiwatch/epiwatch-api/forecast"
)

type runParams struct {
	Disease string `json:"disease"`
	Date    string `json:"date"`
	Horizon int    `json:"horizon"`
}

func (s *Server) runPipeline(c *gin.Context) {
	var params runParams
	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}
	if params.Horizon == 0 {
		params.Horizon = 7
	}

	summary, err := s.pipeline.Run(params.Disease, params.Date, params.Horizon)
	if err != nil {
		if errors.Is(err, forecast.ErrInvalidHorizon) {
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidHorizon, err)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (s *Server) computeRiskScores(c *gin.Context) {
	var params runParams
	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}
	if params.Disease == "" || params.Date == "" {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	scored, err := s.pipeline.ComputeRiskScores(params.Disease, params.Date, uuid.NewString())
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scored_regions": scored})
}

func (s *Server) generateAlerts(c *gin.Context) {
	var params runParams
	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}
	if params.Disease == "" || params.Date == "" {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	inserted, err := s.pipeline.GenerateAlerts(params.Disease, params.Date, uuid.NewString())
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": inserted})
}

func (s *Server) generateForecasts(c *gin.Context) {
	var params runParams
	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}
	if params.Disease == "" || params.Date == "" {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}
	if params.Horizon == 0 {
		params.Horizon = 7
	}

	forecasted, err := s.pipeline.GenerateForecasts(params.Disease, params.Date, params.Horizon, uuid.NewString())
	if err != nil {
		if errors.Is(err, forecast.ErrInvalidHorizon) {
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidHorizon, err)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"forecast_regions": forecasted})
}
