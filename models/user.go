package models

import (
	"gorm.io/gorm"
)

// Profile enums accepted by the profile update endpoint.
var (
	Genders        = []string{"male", "female"}
	ActivityLevels = []string{"sedentary", "light", "moderate", "active", "very_active"}
	Goals          = []string{"lose", "maintain", "gain"}
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `json:"name"`

	// Profile attributes, each independently nullable
	Age           *int     `json:"age"`
	Height        *float64 `json:"height"` // cm
	Weight        *float64 `json:"weight"` // kg
	Gender        *string  `gorm:"size:10" json:"gender"`
	ActivityLevel *string  `gorm:"size:20" json:"activity_level"`
	Goal          *string  `gorm:"size:10" json:"goal"`

	// Derived daily targets, persisted whenever the calculator runs
	DailyCalories *float64 `json:"daily_calories"`
	DailyProtein  *float64 `json:"daily_protein"`
	DailyCarbs    *float64 `json:"daily_carbs"`
	DailyFat      *float64 `json:"daily_fat"`
}
