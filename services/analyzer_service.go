package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"github.com/Bekzhanizb/GreenVerseBackend/store"
	"github.com/Bekzhanizb/GreenVerseBackend/utils"
	"go.uber.org/zap"
)

// Score ranges the analyzer draws from when the caller supplies none.
var (
	dehydrationRange = [2]float64{0.2, 0.9}
	stressRange      = [2]float64{0.1, 0.8}
	sunlightRange    = [2]float64{0.4, 0.9}
)

type AnalyzerService struct {
	store    *store.Store
	clock    Clock
	rnd      *Random
	notifier *NotificationDispatcher
	logger   *zap.Logger
}

func NewAnalyzerService(store *store.Store, clock Clock, rnd *Random, notifier *NotificationDispatcher, logger *zap.Logger) *AnalyzerService {
	return &AnalyzerService{store: store, clock: clock, rnd: rnd, notifier: notifier, logger: logger}
}

// Analyze produces and stores a plant report for the user. When raw is nil
// the scores are drawn at random.
func (s *AnalyzerService) Analyze(ctx context.Context, userID, imageRef string, raw *RawScores) (*models.PlantAnalysis, error) {
	if strings.TrimSpace(imageRef) == "" {
		return nil, fmt.Errorf("%w: image reference is required", models.ErrInvalidArgument)
	}
	if raw != nil {
		if err := raw.Validate(); err != nil {
			return nil, err
		}
	}
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}

	scores := s.drawScores(raw)
	plant := PlantCatalog[s.rnd.IntN(len(PlantCatalog))]
	now := s.clock.Now()

	analysis := Score(ScoreInput{
		Plant:  plant,
		Scores: scores,
		Seed:   s.rnd.Uint64(),
		At:     now,
	})
	analysis.ID = newID()
	analysis.UserID = userID
	analysis.ImageRef = imageRef
	analysis.CreatedAt = now

	if err := s.store.CreatePlantAnalysis(ctx, &analysis); err != nil {
		return nil, fmt.Errorf("store analysis: %w", err)
	}

	utils.AnalysisCount.WithLabelValues(string(analysis.UrgencyLevel)).Inc()
	s.logger.Info("analysis_created",
		zap.String("user_id", userID),
		zap.String("analysis_id", analysis.ID),
		zap.String("plant", analysis.PlantName),
		zap.String("urgency", string(analysis.UrgencyLevel)),
		zap.Float64("overall_health", analysis.OverallHealthScore),
	)

	if analysis.UrgencyLevel == models.UrgencyHigh {
		s.notifier.Notify(NotificationJob{
			UserID:  userID,
			Type:    models.NotificationPlantAlert,
			Title:   analysis.PlantName + " needs attention",
			Message: fmt.Sprintf("Urgent care recommended. Next check on %s.", analysis.FollowUpDate),
			Data: map[string]string{
				"analysis_id": analysis.ID,
				"urgency":     string(analysis.UrgencyLevel),
			},
		})
	}

	return &analysis, nil
}

func (s *AnalyzerService) drawScores(raw *RawScores) RawScores {
	if raw != nil {
		return *raw
	}
	return RawScores{
		Dehydration: s.rnd.Uniform(dehydrationRange[0], dehydrationRange[1]),
		Stress:      s.rnd.Uniform(stressRange[0], stressRange[1]),
		Sunlight:    s.rnd.Uniform(sunlightRange[0], sunlightRange[1]),
	}
}
