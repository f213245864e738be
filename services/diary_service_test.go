package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MikelGMatos/NutriSense/config"
	"github.com/MikelGMatos/NutriSense/models"
	"github.com/MikelGMatos/NutriSense/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Email: email, Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func f(v float64) *float64 { return &v }

func TestDayEntriesEmptyDay(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewDiaryService(db)
	user := createUser(t, db, "empty@test.com")

	summary, err := svc.DayEntries(user.ID, "2025-01-10")
	require.NoError(t, err)

	assert.Equal(t, "2025-01-10", summary.Date)
	assert.Len(t, summary.Meals, 5)
	for _, mt := range models.MealTypes {
		assert.Empty(t, summary.Meals[mt])
	}
	assert.Equal(t, services.DayTotals{}, summary.Totals)

	// a read must not create a diary as a side effect
	var count int64
	db.Model(&models.Diary{}).Count(&count)
	assert.Zero(t, count)
}

func TestGetOrCreateDiaryIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewDiaryService(db)
	user := createUser(t, db, "diary@test.com")

	first, err := svc.GetOrCreateDiary(user.ID, "2025-01-10")
	require.NoError(t, err)
	second, err := svc.GetOrCreateDiary(user.ID, "2025-01-10")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.Diary{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestGetOrCreateDiaryRejectsBadDate(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewDiaryService(db)
	user := createUser(t, db, "baddate@test.com")

	_, err := svc.GetOrCreateDiary(user.ID, "10-01-2025")
	assert.ErrorIs(t, err, services.ErrInvalidDate)
}

func TestAddEntryDefaults(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewDiaryService(db)
	user := createUser(t, db, "defaults@test.com")

	entry, err := svc.AddEntry(user.ID, services.AddEntryInput{
		Date:     "2025-01-10",
		MealType: "cena",
		FoodName: "Rice",
	})
	require.NoError(t, err)

	assert.Equal(t, 100.0, entry.Amount)
	assert.Equal(t, "100g", entry.Portion)
	assert.Zero(t, entry.Calories)
	assert.Zero(t, entry.Protein)
	assert.Zero(t, entry.Carbohydrates)
	assert.Zero(t, entry.Fat)
}

func TestAddEntryRejectsUnknownMealType(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewDiaryService(db)
	user := createUser(t, db, "mealtype@test.com")

	_, err := svc.AddEntry(user.ID, services.AddEntryInput{
		Date:     "2025-01-10",
		MealType: "brunch",
		FoodName: "Toast",
	})
	assert.ErrorIs(t, err, services.ErrInvalidMealType)

	// validation failures leave no partial writes behind
	var diaries, entries int64
	db.Model(&models.Diary{}).Count(&diaries)
	db.Model(&models.DiaryEntry{}).Count(&entries)
	assert.Zero(t, diaries)
	assert.Zero(t, entries)
}

func TestAggregationBucketsAndRounding(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewDiaryService(db)
	user := createUser(t, db, "agg@test.com")

	add := func(meal, name string, cal, prot, carb, fat float64) {
		t.Helper()
		_, err := svc.AddEntry(user.ID, services.AddEntryInput{
			Date: "2025-01-10", MealType: meal, FoodName: name,
			Calories: f(cal), Protein: f(prot), Carbohydrates: f(carb), Fat: f(fat),
		})
		require.NoError(t, err)
	}

	add("desayuno", "Oatmeal", 150.4, 5.2, 27.3, 3.1)
	add("desayuno", "Milk", 64.2, 3.3, 4.7, 3.6)
	add("comida", "Chicken", 239.0, 27.0, 0, 14.0)

	summary, err := svc.DayEntries(user.ID, "2025-01-10")
	require.NoError(t, err)

	assert.Len(t, summary.Meals["desayuno"], 2)
	assert.Len(t, summary.Meals["comida"], 1)
	assert.Empty(t, summary.Meals["almuerzo"])
	assert.Empty(t, summary.Meals["merienda"])
	assert.Empty(t, summary.Meals["cena"])

	// insertion order inside the bucket
	assert.Equal(t, "Oatmeal", summary.Meals["desayuno"][0].FoodName)
	assert.Equal(t, "Milk", summary.Meals["desayuno"][1].FoodName)

	// whole calories, one decimal for macros
	assert.Equal(t, 454.0, summary.Totals.Calories) // 453.6
	assert.Equal(t, 35.5, summary.Totals.Protein)
	assert.Equal(t, 32.0, summary.Totals.Carbohydrates)
	assert.Equal(t, 20.7, summary.Totals.Fat)

	// per-entry values come back unrounded
	assert.Equal(t, 150.4, summary.Meals["desayuno"][0].Calories)
	assert.Equal(t, 5.2, summary.Meals["desayuno"][0].Protein)
}

func TestEntryRoundTripUnrounded(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewDiaryService(db)
	user := createUser(t, db, "roundtrip@test.com")

	_, err := svc.AddEntry(user.ID, services.AddEntryInput{
		Date: "2025-02-01", MealType: "merienda", FoodName: "Yogurt",
		Amount: f(150), Calories: f(247.5),
	})
	require.NoError(t, err)

	summary, err := svc.DayEntries(user.ID, "2025-02-01")
	require.NoError(t, err)

	require.Len(t, summary.Meals["merienda"], 1)
	assert.Equal(t, 247.5, summary.Meals["merienda"][0].Calories)
	assert.Equal(t, 150.0, summary.Meals["merienda"][0].Amount)
	assert.Equal(t, 248.0, summary.Totals.Calories)
}

func TestUpdateEntry(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewDiaryService(db)
	user := createUser(t, db, "update@test.com")

	created, err := svc.AddEntry(user.ID, services.AddEntryInput{
		Date: "2025-01-10", MealType: "comida", FoodName: "Pasta",
		Amount: f(100), Calories: f(131), Protein: f(5), Carbohydrates: f(25), Fat: f(1.1),
	})
	require.NoError(t, err)

	updated, date, err := svc.UpdateEntry(user.ID, created.ID, services.UpdateEntryInput{
		Amount: 200, Calories: f(262), Protein: f(10), Carbohydrates: f(50), Fat: f(2.2),
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-01-10", date)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 200.0, updated.Amount)
	assert.Equal(t, 262.0, updated.Calories)
	assert.Equal(t, 2.2, updated.Fat)
}

func TestUpdateEntryRejectsNonPositiveAmount(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewDiaryService(db)
	user := createUser(t, db, "badamount@test.com")

	created, err := svc.AddEntry(user.ID, services.AddEntryInput{
		Date: "2025-01-10", MealType: "cena", FoodName: "Soup", Calories: f(90),
	})
	require.NoError(t, err)

	_, _, err = svc.UpdateEntry(user.ID, created.ID, services.UpdateEntryInput{Amount: 0})
	assert.ErrorIs(t, err, services.ErrInvalidAmount)

	summary, err := svc.DayEntries(user.ID, "2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, 90.0, summary.Meals["cena"][0].Calories)
}

func TestUpdateEntryMissingMacrosDefaultToZero(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewDiaryService(db)
	user := createUser(t, db, "macros@test.com")

	created, err := svc.AddEntry(user.ID, services.AddEntryInput{
		Date: "2025-01-10", MealType: "cena", FoodName: "Soup",
		Calories: f(90), Protein: f(4),
	})
	require.NoError(t, err)

	updated, _, err := svc.UpdateEntry(user.ID, created.ID, services.UpdateEntryInput{Amount: 50})
	require.NoError(t, err)
	assert.Zero(t, updated.Calories)
	assert.Zero(t, updated.Protein)
}

func TestEntryOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewDiaryService(db)
	alice := createUser(t, db, "alice@test.com")
	bob := createUser(t, db, "bob@test.com")

	created, err := svc.AddEntry(alice.ID, services.AddEntryInput{
		Date: "2025-01-10", MealType: "desayuno", FoodName: "Eggs", Calories: f(155),
	})
	require.NoError(t, err)

	_, _, err = svc.UpdateEntry(bob.ID, created.ID, services.UpdateEntryInput{Amount: 10, Calories: f(1)})
	assert.ErrorIs(t, err, services.ErrEntryNotFound)

	_, err = svc.DeleteEntry(bob.ID, created.ID)
	assert.ErrorIs(t, err, services.ErrEntryNotFound)

	// the entry is untouched
	summary, err := svc.DayEntries(alice.ID, "2025-01-10")
	require.NoError(t, err)
	require.Len(t, summary.Meals["desayuno"], 1)
	assert.Equal(t, 155.0, summary.Meals["desayuno"][0].Calories)
}

func TestDeleteEntry(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewDiaryService(db)
	user := createUser(t, db, "delete@test.com")

	created, err := svc.AddEntry(user.ID, services.AddEntryInput{
		Date: "2025-01-10", MealType: "almuerzo", FoodName: "Salad", Calories: f(50),
	})
	require.NoError(t, err)

	date, err := svc.DeleteEntry(user.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", date)

	// hard delete, diary left in place
	var entries int64
	db.Unscoped().Model(&models.DiaryEntry{}).Count(&entries)
	assert.Zero(t, entries)
	var diaries int64
	db.Model(&models.Diary{}).Count(&diaries)
	assert.EqualValues(t, 1, diaries)

	_, err = svc.DeleteEntry(user.ID, created.ID)
	assert.ErrorIs(t, err, services.ErrEntryNotFound)
}

func TestProgressAgainstTargets(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewDiaryService(db)
	user := createUser(t, db, "progress@test.com")
	user.DailyCalories = f(2000)
	user.DailyProtein = f(150)
	require.NoError(t, db.Save(user).Error)

	_, err := svc.AddEntry(user.ID, services.AddEntryInput{
		Date: "2025-01-10", MealType: "comida", FoodName: "Steak",
		Calories: f(500), Protein: f(200),
	})
	require.NoError(t, err)

	progress, summary, err := svc.Progress(user.ID, "2025-01-10", user)
	require.NoError(t, err)

	assert.Equal(t, 500.0, summary.Totals.Calories)
	assert.Equal(t, 0.25, progress["calories"].Percent)
	assert.Equal(t, 1.0, progress["protein"].Percent) // capped
	assert.Zero(t, progress["fat"].Percent)           // no target set
}

func TestRangeSummary(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewDiaryService(db)
	user := createUser(t, db, "range@test.com")

	_, err := svc.AddEntry(user.ID, services.AddEntryInput{
		Date: "2025-01-10", MealType: "desayuno", FoodName: "Oatmeal", Calories: f(150.4),
	})
	require.NoError(t, err)
	_, err = svc.AddEntry(user.ID, services.AddEntryInput{
		Date: "2025-01-12", MealType: "cena", FoodName: "Fish", Calories: f(320), Protein: f(30.25),
	})
	require.NoError(t, err)

	days, err := svc.RangeSummary(user.ID, "2025-01-09", "2025-01-12")
	require.NoError(t, err)
	require.Len(t, days, 4)

	assert.Equal(t, "2025-01-09", days[0].Date)
	assert.Equal(t, services.DayTotals{}, days[0].Totals)
	assert.Equal(t, 150.0, days[1].Totals.Calories)
	assert.Equal(t, services.DayTotals{}, days[2].Totals)
	assert.Equal(t, 320.0, days[3].Totals.Calories)
	assert.Equal(t, 30.3, days[3].Totals.Protein)
}

func TestRangeSummaryRejectsInvertedWindow(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewDiaryService(db)
	user := createUser(t, db, "window@test.com")

	_, err := svc.RangeSummary(user.ID, "2025-01-12", "2025-01-09")
	assert.ErrorIs(t, err, services.ErrInvalidDate)
}
