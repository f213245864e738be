package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/MikelGMatos/NutriSense/models"
	"github.com/MikelGMatos/NutriSense/utils"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ProfilePatch is a partial update: nil means "leave unchanged". Sending an
// empty patch is a no-op, not a reset.
type ProfilePatch struct {
	Name          *string  `json:"name"`
	Age           *int     `json:"age"`
	Height        *float64 `json:"height"`
	Weight        *float64 `json:"weight"`
	Gender        *string  `json:"gender"`
	ActivityLevel *string  `json:"activity_level"`
	Goal          *string  `json:"goal"`

	DailyCalories *float64 `json:"daily_calories"`
	DailyProtein  *float64 `json:"daily_protein"`
	DailyCarbs    *float64 `json:"daily_carbs"`
	DailyFat      *float64 `json:"daily_fat"`
}

// ValidationError rejects the whole patch before anything is written.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func oneOf(value string, allowed []string) bool {
	for _, v := range allowed {
		if v == value {
			return true
		}
	}
	return false
}

func (p *ProfilePatch) validate() error {
	if p.Age != nil && (*p.Age < 15 || *p.Age > 100) {
		return validationErrorf("age must be between 15 and 100")
	}
	if p.Height != nil && (*p.Height < 100 || *p.Height > 250) {
		return validationErrorf("height must be between 100 and 250 cm")
	}
	if p.Weight != nil && (*p.Weight < 30 || *p.Weight > 300) {
		return validationErrorf("weight must be between 30 and 300 kg")
	}
	if p.Gender != nil && !oneOf(*p.Gender, models.Genders) {
		return validationErrorf("invalid gender")
	}
	if p.ActivityLevel != nil && !oneOf(*p.ActivityLevel, models.ActivityLevels) {
		return validationErrorf("invalid activity level")
	}
	if p.Goal != nil && !oneOf(*p.Goal, models.Goals) {
		return validationErrorf("invalid goal")
	}
	return nil
}

func (p *ProfilePatch) hasTargets() bool {
	return p.DailyCalories != nil || p.DailyProtein != nil ||
		p.DailyCarbs != nil || p.DailyFat != nil
}

func (s *UserService) GetProfile(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a validated partial update. Only supplied fields are
// written. Targets submitted by the client are persisted as-is; otherwise,
// once the full physiological profile is known, they are recomputed here.
func (s *UserService) UpdateProfile(userID uint, patch ProfilePatch) (*models.User, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
		user.Name = *patch.Name
	}
	if patch.Age != nil {
		updates["age"] = *patch.Age
		user.Age = patch.Age
	}
	if patch.Height != nil {
		updates["height"] = *patch.Height
		user.Height = patch.Height
	}
	if patch.Weight != nil {
		updates["weight"] = *patch.Weight
		user.Weight = patch.Weight
	}
	if patch.Gender != nil {
		updates["gender"] = *patch.Gender
		user.Gender = patch.Gender
	}
	if patch.ActivityLevel != nil {
		updates["activity_level"] = *patch.ActivityLevel
		user.ActivityLevel = patch.ActivityLevel
	}
	if patch.Goal != nil {
		updates["goal"] = *patch.Goal
		user.Goal = patch.Goal
	}

	if patch.hasTargets() {
		if patch.DailyCalories != nil {
			updates["daily_calories"] = *patch.DailyCalories
		}
		if patch.DailyProtein != nil {
			updates["daily_protein"] = *patch.DailyProtein
		}
		if patch.DailyCarbs != nil {
			updates["daily_carbs"] = *patch.DailyCarbs
		}
		if patch.DailyFat != nil {
			updates["daily_fat"] = *patch.DailyFat
		}
	} else if user.Age != nil && user.Height != nil && user.Weight != nil &&
		user.Gender != nil && user.ActivityLevel != nil && user.Goal != nil {
		targets, err := utils.CalculateDailyTargets(
			*user.Gender, *user.Weight, *user.Height, *user.Age,
			*user.ActivityLevel, *user.Goal,
		)
		if err != nil {
			return nil, err
		}
		updates["daily_calories"] = targets.Calories
		updates["daily_protein"] = targets.Protein
		updates["daily_carbs"] = targets.Carbs
		updates["daily_fat"] = targets.Fat
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetProfile(userID)
}
