package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/MikelGMatos/NutriSense/models"
)

var (
	ErrEntryNotFound   = errors.New("entry not found")
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidMealType = errors.New("invalid meal type")
	ErrInvalidAmount   = errors.New("amount must be greater than 0")
)

type DiaryService struct {
	db *gorm.DB
}

func NewDiaryService(db *gorm.DB) *DiaryService {
	return &DiaryService{db: db}
}

const dateLayout = "2006-01-02"

func parseDate(date string) (string, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", ErrInvalidDate
	}
	return d.Format(dateLayout), nil
}

// GetOrCreateDiary resolves the diary row for (user, date), creating it on
// first use. An insert conflict from a concurrent caller is resolved by
// re-reading the winner's row.
func (s *DiaryService) GetOrCreateDiary(userID uint, date string) (*models.Diary, error) {
	date, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	var diary models.Diary
	err = s.db.Where("user_id = ? AND date = ?", userID, date).First(&diary).Error
	if err == nil {
		return &diary, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	diary = models.Diary{UserID: userID, Date: date}
	if err := s.db.Create(&diary).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.Diary
			if rerr := s.db.Where("user_id = ? AND date = ?", userID, date).First(&existing).Error; rerr != nil {
				return nil, rerr
			}
			return &existing, nil
		}
		return nil, err
	}
	return &diary, nil
}

type AddEntryInput struct {
	Date          string
	MealType      string
	FoodName      string
	Portion       string
	Amount        *float64
	Calories      *float64
	Protein       *float64
	Carbohydrates *float64
	Fat           *float64
	FoodRef       *string
}

// EntryView is the wire shape of a stored entry. Per-entry values are
// returned exactly as stored, without rounding.
type EntryView struct {
	ID            uint      `json:"id"`
	DiaryID       uint      `json:"diary_id"`
	MealType      string    `json:"meal_type"`
	FoodName      string    `json:"food_name"`
	Portion       string    `json:"portion"`
	Amount        float64   `json:"amount"`
	Calories      float64   `json:"calories"`
	Protein       float64   `json:"protein"`
	Carbohydrates float64   `json:"carbohydrates"`
	Fat           float64   `json:"fat"`
	CreatedAt     time.Time `json:"created_at"`
}

func entryView(e models.DiaryEntry) EntryView {
	return EntryView{
		ID:            e.ID,
		DiaryID:       e.DiaryID,
		MealType:      e.MealType,
		FoodName:      e.FoodName,
		Portion:       e.Portion,
		Amount:        e.Amount,
		Calories:      e.Calories,
		Protein:       e.Protein,
		Carbohydrates: e.Carbohydrates,
		Fat:           e.Fat,
		CreatedAt:     e.CreatedAt,
	}
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// AddEntry validates, resolves the diary for the date, and inserts the entry.
// Unrecognized meal types are rejected up front rather than stored and
// silently dropped from every aggregation.
func (s *DiaryService) AddEntry(userID uint, in AddEntryInput) (*EntryView, error) {
	if !models.ValidMealType(in.MealType) {
		return nil, ErrInvalidMealType
	}

	diary, err := s.GetOrCreateDiary(userID, in.Date)
	if err != nil {
		return nil, err
	}

	amount := 100.0
	if in.Amount != nil {
		amount = *in.Amount
	}
	portion := in.Portion
	if portion == "" {
		portion = fmt.Sprintf("%gg", amount)
	}

	entry := models.DiaryEntry{
		DiaryID:       diary.ID,
		MealType:      in.MealType,
		FoodName:      in.FoodName,
		Portion:       portion,
		Amount:        amount,
		Calories:      orZero(in.Calories),
		Protein:       orZero(in.Protein),
		Carbohydrates: orZero(in.Carbohydrates),
		Fat:           orZero(in.Fat),
		FoodRef:       in.FoodRef,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}

	v := entryView(entry)
	return &v, nil
}

type DayTotals struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
}

type DaySummary struct {
	Date   string                 `json:"date"`
	Meals  map[string][]EntryView `json:"meals"`
	Totals DayTotals              `json:"totals"`
}

// rounded applies the compatibility policy: whole calories, one decimal
// for each macro.
func (t DayTotals) rounded() DayTotals {
	round1 := func(v float64) float64 { return math.Round(v*10) / 10 }
	return DayTotals{
		Calories:      math.Round(t.Calories),
		Protein:       round1(t.Protein),
		Carbohydrates: round1(t.Carbohydrates),
		Fat:           round1(t.Fat),
	}
}

func emptyMeals() map[string][]EntryView {
	meals := make(map[string][]EntryView, len(models.MealTypes))
	for _, mt := range models.MealTypes {
		meals[mt] = []EntryView{}
	}
	return meals
}

// DayEntries returns the day's entries bucketed by meal type plus totals.
// Totals are recomputed from the full entry set on every call; nothing is
// cached. A read never creates a diary.
func (s *DiaryService) DayEntries(userID uint, date string) (*DaySummary, error) {
	date, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	summary := &DaySummary{Date: date, Meals: emptyMeals()}

	var diary models.Diary
	err = s.db.Where("user_id = ? AND date = ?", userID, date).First(&diary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return summary, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []models.DiaryEntry
	if err := s.db.
		Where("diary_id = ?", diary.ID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	var totals DayTotals
	for _, e := range entries {
		summary.Meals[e.MealType] = append(summary.Meals[e.MealType], entryView(e))
		totals.Calories += e.Calories
		totals.Protein += e.Protein
		totals.Carbohydrates += e.Carbohydrates
		totals.Fat += e.Fat
	}
	summary.Totals = totals.rounded()

	return summary, nil
}

// ownedEntries scopes an entry query to diaries belonging to userID, so the
// ownership check and the mutation run as one statement.
func (s *DiaryService) ownedEntries(userID uint, entryID uint) *gorm.DB {
	return s.db.
		Where("id = ? AND diary_id IN (?)", entryID,
			s.db.Model(&models.Diary{}).Select("id").Where("user_id = ?", userID))
}

type UpdateEntryInput struct {
	Amount        float64
	Calories      *float64
	Protein       *float64
	Carbohydrates *float64
	Fat           *float64
}

// UpdateEntry overwrites the amount and the four absolute nutrition values in
// place. The caller is responsible for scaling macros to the new amount; no
// proportional scaling happens here. A missing or foreign entry reports the
// same not-found error. The second return value is the diary's date.
func (s *DiaryService) UpdateEntry(userID, entryID uint, in UpdateEntryInput) (*EntryView, string, error) {
	if in.Amount <= 0 {
		return nil, "", ErrInvalidAmount
	}

	res := s.ownedEntries(userID, entryID).
		Model(&models.DiaryEntry{}).
		Updates(map[string]interface{}{
			"amount":        in.Amount,
			"portion":       fmt.Sprintf("%gg", in.Amount),
			"calories":      orZero(in.Calories),
			"protein":       orZero(in.Protein),
			"carbohydrates": orZero(in.Carbohydrates),
			"fat":           orZero(in.Fat),
		})
	if res.Error != nil {
		return nil, "", res.Error
	}
	if res.RowsAffected == 0 {
		return nil, "", ErrEntryNotFound
	}

	var entry models.DiaryEntry
	if err := s.db.First(&entry, entryID).Error; err != nil {
		return nil, "", err
	}
	var diary models.Diary
	if err := s.db.First(&diary, entry.DiaryID).Error; err != nil {
		return nil, "", err
	}
	v := entryView(entry)
	return &v, diary.Date, nil
}

// DeleteEntry removes the entry permanently. The parent diary stays.
func (s *DiaryService) DeleteEntry(userID, entryID uint) (string, error) {
	var entry models.DiaryEntry
	if err := s.ownedEntries(userID, entryID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrEntryNotFound
		}
		return "", err
	}

	var diary models.Diary
	if err := s.db.First(&diary, entry.DiaryID).Error; err != nil {
		return "", err
	}

	res := s.ownedEntries(userID, entryID).Unscoped().Delete(&models.DiaryEntry{})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", ErrEntryNotFound
	}
	return diary.Date, nil
}

type NutrientProgress struct {
	Consumed float64 `json:"consumed"`
	Goal     float64 `json:"goal"`
	Percent  float64 `json:"percent"`
}

// Progress compares the day's consumption against the user's stored targets.
// Percentages are capped at 1 for the dashboard rings.
func (s *DiaryService) Progress(userID uint, date string, user *models.User) (map[string]NutrientProgress, *DaySummary, error) {
	summary, err := s.DayEntries(userID, date)
	if err != nil {
		return nil, nil, err
	}

	goal := func(v *float64) float64 {
		if v == nil {
			return 0
		}
		return *v
	}
	pct := func(consumed, target float64) float64 {
		if target <= 0 {
			return 0
		}
		p := consumed / target
		if p > 1 {
			return 1
		}
		return p
	}

	t := summary.Totals
	progress := map[string]NutrientProgress{
		"calories":      {Consumed: t.Calories, Goal: goal(user.DailyCalories), Percent: pct(t.Calories, goal(user.DailyCalories))},
		"protein":       {Consumed: t.Protein, Goal: goal(user.DailyProtein), Percent: pct(t.Protein, goal(user.DailyProtein))},
		"carbohydrates": {Consumed: t.Carbohydrates, Goal: goal(user.DailyCarbs), Percent: pct(t.Carbohydrates, goal(user.DailyCarbs))},
		"fat":           {Consumed: t.Fat, Goal: goal(user.DailyFat), Percent: pct(t.Fat, goal(user.DailyFat))},
	}
	return progress, summary, nil
}

type DaySummaryRow struct {
	Date   string    `json:"date"`
	Totals DayTotals `json:"totals"`
}

// RangeSummary returns one rounded totals row per calendar day in [from, to],
// including zero rows for days without a diary.
func (s *DiaryService) RangeSummary(userID uint, from, to string) ([]DaySummaryRow, error) {
	fromDay, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, ErrInvalidDate
	}
	toDay, err := time.Parse(dateLayout, to)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if toDay.Before(fromDay) {
		return nil, ErrInvalidDate
	}

	type row struct {
		Date          string
		Calories      float64
		Protein       float64
		Carbohydrates float64
		Fat           float64
	}
	var rows []row
	if err := s.db.
		Table("diary_entries").
		Select("diaries.date AS date, SUM(diary_entries.calories) AS calories, SUM(diary_entries.protein) AS protein, SUM(diary_entries.carbohydrates) AS carbohydrates, SUM(diary_entries.fat) AS fat").
		Joins("JOIN diaries ON diaries.id = diary_entries.diary_id").
		Where("diaries.user_id = ? AND diaries.date >= ? AND diaries.date <= ?", userID, from, to).
		Where("diary_entries.deleted_at IS NULL").
		Group("diaries.date").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	idx := make(map[string]DayTotals, len(rows))
	for _, r := range rows {
		idx[r.Date] = DayTotals{
			Calories:      r.Calories,
			Protein:       r.Protein,
			Carbohydrates: r.Carbohydrates,
			Fat:           r.Fat,
		}
	}

	var out []DaySummaryRow
	for d := fromDay; !d.After(toDay); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		out = append(out, DaySummaryRow{Date: key, Totals: idx[key].rounded()})
	}
	return out, nil
}
