package utils

import (
	"errors"
	"math"
)

// Activity multipliers applied to BMR to get total daily energy expenditure.
var ActivityFactors = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// Calorie adjustment per goal. Historical clients disagreed between ±300
// and ±500; ±300 is the canonical value here (see DESIGN.md).
var GoalAdjustments = map[string]float64{
	"lose":     -300,
	"maintain": 0,
	"gain":     300,
}

// Macro split of the daily calorie target: protein 30%, carbs 45%, fat 25%.
const (
	proteinShare = 0.30
	carbsShare   = 0.45
	fatShare     = 0.25
)

type DailyTargets struct {
	Calories float64
	Protein  float64 // g
	Carbs    float64 // g
	Fat      float64 // g
}

// CalculateBMR implements the revised Harris-Benedict equation.
// Height in cm, weight in kg.
func CalculateBMR(gender string, weightKg, heightCm float64, age int) (float64, error) {
	switch gender {
	case "male":
		return 10*weightKg + 6.25*heightCm - 5*float64(age) + 5, nil
	case "female":
		return 10*weightKg + 6.25*heightCm - 5*float64(age) - 161, nil
	default:
		return 0, errors.New("gender must be male or female")
	}
}

// CalculateDailyTargets derives the goal-adjusted calorie target and macro
// gram amounts from the full physiological profile.
func CalculateDailyTargets(gender string, weightKg, heightCm float64, age int, activityLevel, goal string) (*DailyTargets, error) {
	bmr, err := CalculateBMR(gender, weightKg, heightCm, age)
	if err != nil {
		return nil, err
	}

	factor, ok := ActivityFactors[activityLevel]
	if !ok {
		return nil, errors.New("unknown activity level")
	}

	adjustment, ok := GoalAdjustments[goal]
	if !ok {
		return nil, errors.New("unknown goal")
	}

	tdee := bmr * factor
	calories := math.Round(tdee + adjustment)

	return &DailyTargets{
		Calories: calories,
		Protein:  math.Round(calories * proteinShare / 4), // 4 kcal per gram
		Carbs:    math.Round(calories * carbsShare / 4),
		Fat:      math.Round(calories * fatShare / 9), // 9 kcal per gram
	}, nil
}
