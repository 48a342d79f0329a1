package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/creditorural/forecaster/internal/config"
	"github.com/creditorural/forecaster/internal/dataset"
	"github.com/creditorural/forecaster/internal/features"
	"github.com/creditorural/forecaster/internal/models"
	"github.com/creditorural/forecaster/internal/regression"
	"github.com/creditorural/forecaster/internal/utils"
)

// ForecastService drives the full series x model grid: for each pair it
// selects data, derives features, trains, evaluates, forecasts, and
// estimates bands, recording either a populated forecast or a typed error
// marker. One pair's failure never blocks another.
type ForecastService struct {
	cfg    *config.Config
	logger *logrus.Logger
	engine *features.Engine
}

// NewForecastService creates a forecast service from the run configuration.
func NewForecastService(cfg *config.Config, logger *logrus.Logger) *ForecastService {
	return &ForecastService{
		cfg:    cfg,
		logger: logger,
		engine: features.NewEngine(cfg.Pipeline),
	}
}

// Run executes one batch: load the aggregate, forecast the grid, persist
// the bundle. A malformed aggregate is fatal; there is no partial bundle
// to produce without the base dataset.
func (s *ForecastService) Run(ctx context.Context) error {
	data, err := dataset.Load(s.cfg.Input.AggregatedPath)
	if err != nil {
		return err
	}

	bundle := s.Forecast(ctx, data)
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.WriteBundle(bundle); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"run_id": bundle.Meta.RunID,
		"path":   s.cfg.Output.ForecastsPath,
	}).Info("forecast bundle written")
	return nil
}

type pairTask struct {
	serie        string
	kind         string
	observations []models.Observation
}

// Forecast builds a fresh result bundle for the configured grid. Pairs are
// independent, so they fan out over a worker pool; each worker trains its
// own model instance and results are assembled under a mutex.
func (s *ForecastService) Forecast(ctx context.Context, data *models.AggregatedData) *models.ResultBundle {
	pipeline := s.cfg.Pipeline
	bundle := models.NewResultBundle(models.BundleMeta{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Horizon:     pipeline.Horizon,
	})

	s.logger.WithFields(logrus.Fields{
		"run_id":           bundle.Meta.RunID,
		"series":           pipeline.Series,
		"models":           pipeline.Models,
		"available_models": regression.Available(),
	}).Info("forecast grid starting")

	var tasks []pairTask
	for _, serie := range pipeline.Series {
		bundle.Series[serie] = make(map[string]*models.SeriesForecast, len(pipeline.Models))

		observations := dataset.Select(data, serie)
		if len(observations) == 0 {
			s.logger.WithField("serie", serie).Warn("no data for series")
			continue
		}
		s.logger.WithFields(logrus.Fields{
			"serie":  serie,
			"points": len(observations),
		}).Info("series selected")

		for _, kind := range pipeline.Models {
			tasks = append(tasks, pairTask{serie: serie, kind: kind, observations: observations})
		}
	}

	workers := pipeline.Workers
	if workers > len(tasks) {
		workers = len(tasks)
	}

	taskCh := make(chan pairTask)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskCh {
				result := s.forecastPair(task)
				mu.Lock()
				bundle.Series[task.serie][task.kind] = result
				mu.Unlock()
			}
		}()
	}

feed:
	for _, task := range tasks {
		select {
		case <-ctx.Done():
			break feed
		case taskCh <- task:
		}
	}
	close(taskCh)
	wg.Wait()

	return bundle
}

// forecastPair runs the pipeline for one series x model pair. Insufficient
// data and model unavailability are recorded as markers, never returned.
func (s *ForecastService) forecastPair(task pairTask) *models.SeriesForecast {
	pipeline := s.cfg.Pipeline
	logger := s.logger.WithFields(logrus.Fields{"serie": task.serie, "model": task.kind})

	frame, err := s.engine.Featurize(task.observations)
	if err != nil {
		logger.WithError(err).Warn("series not featurizable")
		return models.NewErrorForecast(err.Error())
	}

	model, err := regression.New(task.kind, pipeline.Seed)
	if err != nil {
		if utils.IsModelUnavailable(err) {
			logger.Warn("model backend not available")
			return models.NewErrorForecast(err.Error())
		}
		logger.WithError(err).Error("model construction failed")
		return models.NewErrorForecast(err.Error())
	}

	eval, err := splitTrailing(frame, pipeline.TestSize)
	if err != nil {
		logger.WithError(err).Warn("not enough rows to evaluate")
		return models.NewErrorForecast(err.Error())
	}

	if err := model.Fit(eval.TrainX, eval.TrainY); err != nil {
		logger.WithError(err).Error("training failed")
		return models.NewErrorForecast(fmt.Sprintf("%s training failed", task.kind))
	}

	testPredictions, err := model.Predict(eval.TestX)
	if err != nil {
		logger.WithError(err).Error("test prediction failed")
		return models.NewErrorForecast(fmt.Sprintf("%s prediction failed", task.kind))
	}
	metrics := computeMetrics(eval.TestY, testPredictions)

	futureRows, futurePeriods := futureFrame(frame, pipeline.LagOffsets, pipeline.RollingWindows, pipeline.Horizon)
	predictions, err := model.Predict(futureRows)
	if err != nil {
		logger.WithError(err).Error("future prediction failed")
		return models.NewErrorForecast(fmt.Sprintf("%s prediction failed", task.kind))
	}

	bands := confidenceBands(predictions)

	points := make([]models.PredictionPoint, len(predictions))
	for i := range predictions {
		points[i] = models.PredictionPoint{
			Ano:     futurePeriods[i].Ano,
			Mes:     futurePeriods[i].Mes,
			Valor:   math.Max(0, predictions[i]),
			Lower80: math.Max(0, bands.Lower80[i]),
			Upper80: math.Max(0, bands.Upper80[i]),
			Lower95: math.Max(0, bands.Lower95[i]),
			Upper95: math.Max(0, bands.Upper95[i]),
		}
	}

	logger.WithFields(logrus.Fields{
		"mape": metrics.MAPE,
		"r2":   metrics.R2,
	}).Info("forecast generated")

	m := metrics
	return &models.SeriesForecast{
		Predictions: points,
		Metrics:     &m,
		MAPE:        &m.MAPE,
		RMSE:        &m.RMSE,
		R2:          &m.R2,
	}
}

// WriteBundle persists the bundle atomically: encode to a temp file in the
// destination directory, then rename over the final path.
func (s *ForecastService) WriteBundle(bundle *models.ResultBundle) error {
	path := s.cfg.Output.ForecastsPath
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".forecasts-*.json")
	if err != nil {
		return fmt.Errorf("cannot create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(bundle); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cannot encode forecast bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot flush forecast bundle: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("cannot publish forecast bundle: %w", err)
	}
	return nil
}
