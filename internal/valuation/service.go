package valuation

import (
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/cmarkle/trade-analyzer/internal/models"
)

// Service owns the full player-valuation pipeline: feature schema, position
// profiles, fitted scaler, and the trained regression model. Load runs once
// at startup; until it succeeds every prediction returns ErrNotReady.
// After Load the components are read-only and safe for concurrent requests.
type Service struct {
	modelPath   string
	datasetPath string
	logger      *logrus.Logger

	schema   *Schema
	profiles PositionProfiles
	scaler   *StandardScaler
	builder  *Builder
	model    Predictor

	loaded atomic.Bool
}

// NewService creates an unloaded valuation service.
func NewService(modelPath, datasetPath string, logger *logrus.Logger) *Service {
	return &Service{
		modelPath:   modelPath,
		datasetPath: datasetPath,
		logger:      logger,
	}
}

// Load reads the historical dataset, derives the feature schema, builds the
// position profiles, fits the scaler, and loads the model artifact, in that
// order. Any failure leaves the service not ready; callers must treat that
// as fatal to request serving.
func (s *Service) Load() error {
	dataset, err := LoadDataset(s.datasetPath)
	if err != nil {
		return err
	}

	schema, err := NewSchema(dataset.FeatureColumns)
	if err != nil {
		return err
	}

	profiles := BuildPositionProfiles(dataset)

	scaler, err := FitStandardScaler(dataset)
	if err != nil {
		return err
	}

	model, err := LoadNetwork(s.modelPath)
	if err != nil {
		return err
	}
	if model.InputSize() != schema.Len() {
		return fmt.Errorf("%w: model input size %d does not match feature count %d", ErrDataLoad, model.InputSize(), schema.Len())
	}

	s.schema = schema
	s.profiles = profiles
	s.scaler = scaler
	s.builder = NewBuilder(schema, profiles)
	s.model = model
	s.loaded.Store(true)

	s.logger.WithFields(logrus.Fields{
		"features":  schema.Len(),
		"rows":      dataset.NumRows(),
		"positions": len(profiles),
	}).Info("Valuation service loaded")

	return nil
}

// IsLoaded reports whether the pipeline is ready to serve predictions.
func (s *Service) IsLoaded() bool {
	return s.loaded.Load()
}

// FeatureCount returns the schema width, or 0 before loading.
func (s *Service) FeatureCount() int {
	if !s.loaded.Load() {
		return 0
	}
	return s.schema.Len()
}

// PredictFantasyPoints estimates a player's season PPR point production from
// a sparse descriptor: build the feature vector, standardize it, run the
// model.
func (s *Service) PredictFantasyPoints(player models.PlayerDescriptor) (float64, error) {
	if !s.loaded.Load() {
		return 0, ErrNotReady
	}

	vector := s.builder.Build(player)
	scaled, err := s.scaler.Transform(vector)
	if err != nil {
		return 0, err
	}
	return s.model.Predict(scaled)
}
