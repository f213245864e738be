package models

import (
	"gorm.io/gorm"
)

// The five meal slots carried over from both historical schema variants.
// "almuerzo" and "comida" are distinct slots on purpose.
var MealTypes = []string{"desayuno", "almuerzo", "comida", "merienda", "cena"}

func ValidMealType(mt string) bool {
	for _, v := range MealTypes {
		if v == mt {
			return true
		}
	}
	return false
}

// One Diary per (user, calendar date). The composite unique index makes
// concurrent get-or-create calls collapse onto a single row.
type Diary struct {
	gorm.Model
	UserID uint   `gorm:"uniqueIndex:idx_diaries_user_date;not null" json:"user_id"`
	Date   string `gorm:"size:10;uniqueIndex:idx_diaries_user_date;not null" json:"date"` // YYYY-MM-DD
}

// DiaryEntry stores absolute nutrition values for the recorded amount,
// not per-100g reference values. Editing the amount requires the caller
// to resend all four macros already scaled.
type DiaryEntry struct {
	gorm.Model
	DiaryID       uint    `gorm:"index;not null" json:"diary_id"`
	MealType      string  `gorm:"size:20;not null" json:"meal_type"`
	FoodName      string  `gorm:"not null" json:"food_name"`
	Portion       string  `json:"portion"`
	Amount        float64 `json:"amount"` // grams
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	FoodRef       *string `gorm:"size:255" json:"food_ref,omitempty"`
}
