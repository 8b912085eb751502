package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/epiwatch/epiwatch-api/api"
	"github.com/epiwatch/epiwatch-api/climate"
	"github.com/epiwatch/epiwatch-api/config"
	webhook "github.com/epiwatch/epiwatch-api/external/notifier"
	"github.com/epiwatch/epiwatch-api/forecast"
	"github.com/epiwatch/epiwatch-api/pipeline"
	"github.com/epiwatch/epiwatch-api/schema"
	"github.com/epiwatch/epiwatch-api/score"
	"github.com/epiwatch/epiwatch-api/store"
)

func initLog(level string) {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}

func pipelineConfig(cfg *config.Config) pipeline.Config {
	p := cfg.Pipeline
	return pipeline.Config{
		RiskWindowDays:  p.RiskWindowDays,
		MinObservations: p.MinObservations,
		Thresholds: score.Thresholds{
			Growth:     p.GrowthThreshold,
			Volatility: p.VolatilityThreshold,
			DeathRatio: p.DeathRatioThreshold,
		},
		HighRiskThreshold: p.HighRiskThreshold,
		CriticalThreshold: p.CriticalThreshold,
		ForecastLookback:  p.ForecastLookback,
		Climate:           climateConfig(cfg.ClimateMultipliers),
		Forecast: forecast.Config{
			MaxHorizonDays:       p.MaxHorizonDays,
			MinModelObservations: p.MinModelObservations,
			MaxGapFraction:       p.MaxGapFraction,
			ConfidenceZ:          p.ConfidenceZ,
		},
		Workers: p.Workers,
	}
}

func climateConfig(overrides map[int]float64) climate.Config {
	cfg := climate.DefaultConfig()
	for month, multiplier := range overrides {
		cfg.MonthMultipliers[time.Month(month)] = multiplier
	}
	return cfg
}

func main() {
	var runDisease string
	var runDate string
	var runOnce bool
	flag.StringVar(&runDisease, "disease", "", "run the pipeline for one disease instead of all")
	flag.StringVar(&runDate, "date", "", "anchor date for a one-shot run (defaults to latest ingested)")
	flag.BoolVar(&runOnce, "run", false, "execute one pipeline run and exit instead of serving")
	flag.Parse()

	cfg := config.Load()
	initLog(cfg.LogLevel)

	ctx := context.Background()
	opts := options.Client().
		ApplyURI(cfg.Mongo.ConnURI).
		SetMaxPoolSize(cfg.Mongo.Pool)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Panicf("connect mongo database with error: %s", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Panicf("ping mongo database with error: %s", err)
	}

	if err := schema.NewMongoDBIndexer(cfg.Mongo.ConnURI, cfg.Mongo.Database).IndexAll(); err != nil {
		log.Panicf("create mongodb indexes with error: %s", err)
	}

	mongoStore := store.NewMongoStore(client, cfg.Mongo.Database)

	var notifier pipeline.Notifier
	if cfg.NotifierURL != "" {
		notifier = webhook.New(cfg.NotifierURL, "")
	}

	p := pipeline.New(mongoStore, pipelineConfig(cfg), schema.DefaultDiseaseRegistry(), notifier)

	if runOnce {
		summary, err := p.Run(runDisease, runDate, cfg.Pipeline.ForecastHorizon)
		if err != nil {
			log.Panicf("pipeline run failed with error: %s", err)
		}
		fmt.Printf("run %s: scored %d regions, %d alerts, %d forecasts\n",
			summary.RunID, summary.ScoredRegions, summary.Alerts, summary.ForecastRegions)
		return
	}

	if cfg.TraceMode {
		gin.SetMode(gin.DebugMode)
	}

	server := api.NewServer(mongoStore, p, cfg.TraceMode)
	log.WithFields(log.Fields{
		"prefix": "main",
		"addr":   cfg.ListenAddr,
	}).Info("server starting")
	if err := server.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server stopped with error: %s", err)
	}
}
