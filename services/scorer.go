package services

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/Bekzhanizb/GreenVerseBackend/models"
)

type Plant struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

var PlantCatalog = []Plant{
	{Name: "Monstera Deliciosa", Type: "Tropical"},
	{Name: "Fiddle Leaf Fig", Type: "Indoor Tree"},
	{Name: "Snake Plant", Type: "Succulent"},
	{Name: "Pothos", Type: "Trailing Vine"},
	{Name: "Peace Lily", Type: "Flowering"},
	{Name: "Rubber Plant", Type: "Tree"},
	{Name: "ZZ Plant", Type: "Succulent"},
	{Name: "Philodendron", Type: "Tropical"},
}

// RawScores are the per-axis measurements, each in [0,1].
type RawScores struct {
	Dehydration float64 `json:"dehydration"`
	Stress      float64 `json:"stress"`
	Sunlight    float64 `json:"sunlight"`
}

func (r RawScores) Validate() error {
	for name, v := range map[string]float64{
		"dehydration": r.Dehydration,
		"stress":      r.Stress,
		"sunlight":    r.Sunlight,
	} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: %s score %v outside [0,1]", models.ErrInvalidArgument, name, v)
		}
	}
	return nil
}

type ScoreInput struct {
	Plant  Plant
	Scores RawScores
	// Seed drives confidence, watering, fertilizer, disease and pest picks.
	Seed uint64
	// At is the instant the follow-up date is counted from.
	At time.Time
}

var (
	dehydrationSymptoms = []string{"Wilting leaves", "Dry soil", "Brown leaf edges"}
	dehydrationActions  = []string{"Water thoroughly", "Check soil moisture regularly"}
	stressSymptoms      = []string{"Yellowing leaves", "Stunted growth", "Leaf drop"}
	stressActions       = []string{"Remove damaged leaves", "Ensure proper drainage"}
	lowLightSymptoms    = []string{"Leggy growth", "Pale leaves", "Slow growth"}
	lowLightActions     = []string{"Move to brighter location", "Consider grow light"}
	healthySymptoms     = []string{"Healthy appearance", "Good color", "Strong growth"}
	healthyActions      = []string{"Continue current routine", "Monitor regularly"}

	preventionTips = []string{
		"Establish consistent watering schedule",
		"Monitor soil moisture weekly",
		"Ensure proper drainage",
		"Maintain appropriate humidity",
		"Rotate plant weekly",
		"Inspect for pests regularly",
	}

	cureByUrgency = map[models.Urgency][]string{
		models.UrgencyHigh: {
			"IMMEDIATE INTERVENTION REQUIRED",
			"Assess root system for rot",
			"Trim all dead/damaged leaves",
			"Repot in fresh soil if needed",
			"Apply fungicide if infection detected",
			"Quarantine to prevent spread",
		},
		models.UrgencyMedium: {
			"Adjust watering schedule",
			"Improve growing conditions",
			"Apply appropriate fertilizer",
			"Prune damaged areas",
			"Monitor closely for improvement",
		},
		models.UrgencyLow: {
			"Continue current care routine",
			"Fine-tune conditions as needed",
			"Regular maintenance pruning",
		},
	}

	recoveryByUrgency = map[models.Urgency]string{
		models.UrgencyLow:    "1-3 days",
		models.UrgencyMedium: "3-7 days",
		models.UrgencyHigh:   "1-3 weeks",
	}

	followUpDays = map[models.Urgency]int{
		models.UrgencyLow:    14,
		models.UrgencyMedium: 7,
		models.UrgencyHigh:   3,
	}

	fertilizers = []string{
		"Balanced liquid fertilizer monthly",
		"Diluted fertilizer bi-weekly",
		"Slow-release fertilizer quarterly",
		"Organic compost monthly",
	}
	diseases = []string{"Leaf Spot", "Root Rot", "Powdery Mildew", "Bacterial Blight"}
	pests    = []string{"Spider Mites", "Aphids", "Scale Insects", "Fungus Gnats"}
)

func DehydrationBand(score float64) models.DehydrationLevel {
	switch {
	case score < 0.3:
		return models.WellHydrated
	case score < 0.6:
		return models.SlightlyDehydrated
	case score < 0.8:
		return models.ModeratelyDehydrated
	default:
		return models.SeverelyDehydrated
	}
}

func StressBand(score float64) models.StressLevel {
	switch {
	case score < 0.2:
		return models.NoStress
	case score < 0.4:
		return models.LowStress
	case score < 0.6:
		return models.ModerateStress
	default:
		return models.HighStress
	}
}

func SunlightBand(score float64) models.SunlightExposure {
	switch {
	case score > 0.8:
		return models.SunlightExcellent
	case score > 0.6:
		return models.SunlightGood
	case score > 0.4:
		return models.SunlightAdequate
	default:
		return models.SunlightInsufficient
	}
}

func OverallHealth(s RawScores) float64 {
	return clamp01(((1 - s.Dehydration) + s.Sunlight + (1 - s.Stress)) / 3)
}

func UrgencyFor(s RawScores, overall float64) models.Urgency {
	switch {
	case overall <= 0.5 || s.Dehydration > 0.7 || s.Stress > 0.7:
		return models.UrgencyHigh
	case overall <= 0.7 || s.Dehydration > 0.4 || s.Stress > 0.4:
		return models.UrgencyMedium
	default:
		return models.UrgencyLow
	}
}

// Score builds the body of a plant report: everything except the id, owner,
// image reference and creation time. It is pure and never fails; scores
// outside [0,1] are clamped.
func Score(in ScoreInput) models.PlantAnalysis {
	s := RawScores{
		Dehydration: clamp01(in.Scores.Dehydration),
		Stress:      clamp01(in.Scores.Stress),
		Sunlight:    clamp01(in.Scores.Sunlight),
	}
	overall := OverallHealth(s)
	urgency := UrgencyFor(s, overall)

	var symptoms, recommendations []string
	if s.Dehydration > 0.6 {
		symptoms = append(symptoms, dehydrationSymptoms...)
		recommendations = append(recommendations, dehydrationActions...)
	}
	if s.Stress > 0.5 {
		symptoms = append(symptoms, stressSymptoms...)
		recommendations = append(recommendations, stressActions...)
	}
	if s.Sunlight < 0.5 {
		symptoms = append(symptoms, lowLightSymptoms...)
		recommendations = append(recommendations, lowLightActions...)
	}
	if len(symptoms) == 0 {
		symptoms = slices.Clone(healthySymptoms)
	}
	if len(recommendations) == 0 {
		recommendations = slices.Clone(healthyActions)
	}

	// Draw order is fixed so a seed always yields the same fields.
	rng := rand.New(rand.NewPCG(in.Seed, 0))
	confidence := 85 + rng.IntN(14)
	wateringDays := 3 + rng.IntN(12)
	fertilizer := fertilizers[rng.IntN(len(fertilizers))]
	diseaseRoll, disease := rng.Float64(), diseases[rng.IntN(len(diseases))]
	pestRoll, pest := rng.Float64(), pests[rng.IntN(len(pests))]

	if !(s.Stress > 0.6 && diseaseRoll > 0.7) {
		disease = "None"
	}
	if pestRoll <= 0.8 {
		pest = "None"
	}

	return models.PlantAnalysis{
		PlantName:                in.Plant.Name,
		PlantType:                in.Plant.Type,
		DehydrationScore:         s.Dehydration,
		DehydrationLevel:         DehydrationBand(s.Dehydration),
		StressScore:              s.Stress,
		StressLevel:              StressBand(s.Stress),
		SunlightScore:            s.Sunlight,
		SunlightExposure:         SunlightBand(s.Sunlight),
		OverallHealthScore:       overall,
		ConfidenceScore:          confidence,
		DiseaseDetected:          disease,
		PestDetected:             pest,
		Symptoms:                 symptoms,
		Recommendations:          recommendations,
		PreventionTips:           slices.Clone(preventionTips),
		CureSuggestions:          slices.Clone(cureByUrgency[urgency]),
		UrgencyLevel:             urgency,
		RecoveryTime:             recoveryByUrgency[urgency],
		FollowUpDate:             in.At.AddDate(0, 0, followUpDays[urgency]).Format("2006-01-02"),
		WateringSchedule:         fmt.Sprintf("Water every %d days when top inch is dry", wateringDays),
		FertilizerRecommendation: fertilizer,
	}
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
