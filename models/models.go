package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	FirstName    string    `gorm:"not null" json:"first_name"`
	LastName     string    `gorm:"not null" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type DehydrationLevel string

const (
	WellHydrated         DehydrationLevel = "Well Hydrated"
	SlightlyDehydrated   DehydrationLevel = "Slightly Dehydrated"
	ModeratelyDehydrated DehydrationLevel = "Moderately Dehydrated"
	SeverelyDehydrated   DehydrationLevel = "Severely Dehydrated"
)

type StressLevel string

const (
	NoStress       StressLevel = "No Stress"
	LowStress      StressLevel = "Low Stress"
	ModerateStress StressLevel = "Moderate Stress"
	HighStress     StressLevel = "High Stress"
)

// SunlightExposure: Excessive is part of the vocabulary but is not produced by
// the current banding.
type SunlightExposure string

const (
	SunlightInsufficient SunlightExposure = "Insufficient"
	SunlightAdequate     SunlightExposure = "Adequate"
	SunlightGood         SunlightExposure = "Good"
	SunlightExcellent    SunlightExposure = "Excellent"
	SunlightExcessive    SunlightExposure = "Excessive"
)

type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

// PlantAnalysis is a persisted plant health report. It is written once and
// never updated.
type PlantAnalysis struct {
	ID       string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID   string `gorm:"index;not null;type:varchar(36)" json:"user_id"`
	ImageRef string `gorm:"not null" json:"image_ref"`

	PlantName string `json:"plant_name"`
	PlantType string `json:"plant_type"`

	DehydrationScore float64          `json:"dehydration_score"`
	DehydrationLevel DehydrationLevel `gorm:"not null" json:"dehydration_level"`
	StressScore      float64          `json:"stress_score"`
	StressLevel      StressLevel      `json:"stress_level"`
	SunlightScore    float64          `json:"sunlight_score"`
	SunlightExposure SunlightExposure `json:"sunlight_exposure"`

	OverallHealthScore float64 `json:"overall_health_score"`
	ConfidenceScore    int     `json:"confidence_score"`
	DiseaseDetected    string  `json:"disease_detected"`
	PestDetected       string  `json:"pest_detected"`

	Symptoms        []string `gorm:"serializer:json" json:"symptoms"`
	Recommendations []string `gorm:"serializer:json" json:"recommendations"`
	PreventionTips  []string `gorm:"serializer:json" json:"prevention_tips"`
	CureSuggestions []string `gorm:"serializer:json" json:"cure_suggestions"`

	UrgencyLevel             Urgency `json:"urgency_level"`
	RecoveryTime             string  `json:"recovery_time"`
	FollowUpDate             string  `json:"follow_up_date"`
	WateringSchedule         string  `json:"watering_schedule"`
	FertilizerRecommendation string  `json:"fertilizer_recommendation"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// AfterFind keeps list fields non-nil for rows stored with empty arrays.
func (a *PlantAnalysis) AfterFind(tx *gorm.DB) error {
	a.Symptoms = nonNil(a.Symptoms)
	a.Recommendations = nonNil(a.Recommendations)
	a.PreventionTips = nonNil(a.PreventionTips)
	a.CureSuggestions = nonNil(a.CureSuggestions)
	return nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

type QuizLevel string

const (
	LevelEasy    QuizLevel = "easy"
	LevelHard    QuizLevel = "hard"
	LevelHardest QuizLevel = "hardest"
)

var QuizLevels = []QuizLevel{LevelEasy, LevelHard, LevelHardest}

func ParseQuizLevel(s string) (QuizLevel, error) {
	for _, l := range QuizLevels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: unknown quiz level %q", ErrInvalidArgument, s)
}

type QuizAttempt struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID         string    `gorm:"index;not null;type:varchar(36)" json:"user_id"`
	Level          QuizLevel `gorm:"not null" json:"level"`
	Score          int       `gorm:"not null" json:"score"`
	TotalQuestions int       `gorm:"not null" json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`
}

func (a QuizAttempt) Perfect() bool {
	return a.TotalQuestions > 0 && a.Score == a.TotalQuestions
}

type Achievement struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID         string    `gorm:"index;not null;type:varchar(36)" json:"user_id"`
	QuizAttemptID  string    `gorm:"uniqueIndex;type:varchar(36)" json:"quiz_attempt_id"`
	FlowerTitle    string    `gorm:"not null" json:"flower_title"`
	FlowerImageRef string    `gorm:"not null" json:"flower_image_ref"`
	Level          QuizLevel `gorm:"not null" json:"level"`
	EarnedAt       time.Time `json:"earned_at"`
}

// QuizLevelStats summarises a user's attempts at one level. BestScore is nil
// when the level has never been attempted.
type QuizLevelStats struct {
	Attempts  int     `json:"attempts"`
	AvgScore  float64 `json:"avg_score"`
	BestScore *int    `json:"best_score"`
}

type LeaderboardEntry struct {
	Username       string    `json:"username"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Level          QuizLevel `json:"level"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     float64   `json:"percentage"`
	CompletedAt    time.Time `json:"completed_at"`
}

const (
	NotificationAchievement = "achievement"
	NotificationPlantAlert  = "plant_alert"
)

type Notification struct {
	ID        string            `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string            `gorm:"index;not null;type:varchar(36)" json:"user_id"`
	Type      string            `gorm:"not null" json:"type"`
	Title     string            `gorm:"not null" json:"title"`
	Message   string            `gorm:"not null" json:"message"`
	Data      map[string]string `gorm:"serializer:json" json:"data,omitempty"`
	IsRead    bool              `gorm:"default:false" json:"read"`
	CreatedAt time.Time         `gorm:"index" json:"created_at"`
}
