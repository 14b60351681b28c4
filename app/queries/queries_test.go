package queries

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gilanghuda/habit-tracker-backend/app/models"
	"github.com/gilanghuda/habit-tracker-backend/pkg/database"
	"github.com/gilanghuda/habit-tracker-backend/pkg/engine"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, database.DriverSQLite))
	return db
}

func createUser(t *testing.T, db *sql.DB, email string) models.User {
	t.Helper()
	now := time.Now()
	u := models.User{
		ID:           uuid.New(),
		Username:     "tester",
		Email:        email,
		PasswordHash: "hash",
		Preferences:  models.DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	uq := UserQueries{DB: db}
	require.NoError(t, uq.CreateUser(&u))
	return u
}

func newEntry(userID uuid.UUID, date string, total int) *models.HabitEntry {
	now := time.Now()
	return &models.HabitEntry{
		ID:                uuid.New(),
		UserID:            userID,
		Date:              date,
		LoggedAt:          now,
		SleepHours:        7,
		WaterIntake:       2,
		HealthyMeals:      2,
		Mood:              engine.MoodGood,
		ProductivityLevel: engine.ProductivityMedium,
		Category:          engine.CategoryHealth,
		Score:             engine.ScoreBreakdown{Total: total, Health: 86},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestUserRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	uq := UserQueries{DB: db}
	u := createUser(t, db, "Alice@Example.com")

	got, err := uq.GetUserByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, models.DefaultPreferences(), got.Preferences)
	assert.Zero(t, got.StatsVersion)

	_, err = uq.GetUserByID(uuid.New())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "dup@example.com")

	u := models.User{ID: uuid.New(), Username: "x", Email: "dup@example.com", PasswordHash: "h",
		Preferences: models.DefaultPreferences(), CreatedAt: time.Now(), UpdatedAt: time.Now()}
	uq := UserQueries{DB: db}
	err := uq.CreateUser(&u)
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestUpdateUserAndPreferences(t *testing.T) {
	db := setupTestDB(t)
	uq := UserQueries{DB: db}
	u := createUser(t, db, "bob@example.com")

	name := "bobby"
	require.NoError(t, uq.UpdateUser(u.ID, &models.UpdateUserRequest{Username: &name}))
	assert.Error(t, uq.UpdateUser(u.ID, &models.UpdateUserRequest{}))

	prefs := models.Preferences{DailyReminders: false, WeeklyReport: true, Theme: models.ThemeDark}
	require.NoError(t, uq.UpdatePreferences(u.ID, prefs))

	got, err := uq.GetUserByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "bobby", got.Username)
	assert.Equal(t, prefs, got.Preferences)
}

func TestRefreshTokens(t *testing.T) {
	db := setupTestDB(t)
	u := createUser(t, db, "rt@example.com")
	rq := RefreshTokenQueries{DB: db}

	rt := &models.RefreshToken{ID: uuid.New(), UserID: u.ID, Token: "abc", CreatedAt: time.Now()}
	require.NoError(t, rq.CreateRefreshToken(rt))

	got, err := rq.GetRefreshTokenByToken("abc")
	require.NoError(t, err)
	assert.True(t, got.ExpiresAt.IsZero())
	assert.True(t, got.Usable(time.Now()))

	require.NoError(t, rq.RevokeRefreshTokenByToken(u.ID, "abc"))
	got, err = rq.GetRefreshTokenByToken("abc")
	require.NoError(t, err)
	assert.False(t, got.Usable(time.Now()))

	assert.True(t, errors.Is(rq.RevokeRefreshTokenByToken(u.ID, "missing"), ErrNotFound))
}

func TestCommitStatsWritesEntryAndBumpsVersion(t *testing.T) {
	db := setupTestDB(t)
	u := createUser(t, db, "stats@example.com")
	sq := StatsQueries{DB: db}
	hq := HabitQueries{DB: db}
	uq := UserQueries{DB: db}

	e := newEntry(u.ID, "2024-06-01", 75)
	w := &models.StatsWrite{Counters: models.StatsCounters{TotalPoints: 75, CompletedHabits: 1}, InsertEntry: e, Now: time.Now()}
	require.NoError(t, sq.CommitStats(u.ID, 0, w))

	got, err := uq.GetUserByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.StatsVersion)
	assert.Equal(t, 75, got.Counters.TotalPoints)

	entries, err := hq.GetEntriesByUser(u.ID, "", "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-06-01", entries[0].Date)
	assert.Equal(t, 75, entries[0].Score.Total)
	assert.True(t, entries[0].Completed)
}

func TestCommitStatsStaleVersionWritesNothing(t *testing.T) {
	db := setupTestDB(t)
	u := createUser(t, db, "stale@example.com")
	sq := StatsQueries{DB: db}
	hq := HabitQueries{DB: db}

	require.NoError(t, sq.CommitStats(u.ID, 0, &models.StatsWrite{Counters: models.StatsCounters{TotalPoints: 10}, Now: time.Now()}))

	err := sq.CommitStats(u.ID, 0, &models.StatsWrite{
		Counters:    models.StatsCounters{TotalPoints: 999},
		InsertEntry: newEntry(u.ID, "2024-06-02", 50),
		Now:         time.Now(),
	})
	assert.True(t, errors.Is(err, ErrStatsConflict))

	entries, err := hq.GetEntriesByUser(u.ID, "", "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func seedCatalogRows(t *testing.T, db *sql.DB) {
	t.Helper()
	cq := ChallengeQueries{DB: db}
	bq := BadgeQueries{DB: db}
	require.NoError(t, bq.UpsertBadge(engine.Badge{ID: "b1", Name: "B1", Category: engine.CategoryOverall,
		Tier: engine.TierBronze, Criteria: engine.Criteria{Type: engine.CriteriaStreak, Target: 1}}))
	require.NoError(t, cq.UpsertChallenge(engine.Challenge{ID: "c1", Title: "C1", Category: engine.CategoryOverall,
		Criteria: engine.Criteria{Type: engine.CriteriaStreak, Target: 2}, DurationDays: 5, PointReward: 10}))
	// upsert twice is fine
	require.NoError(t, cq.UpsertChallenge(engine.Challenge{ID: "c1", Title: "C1 again", Category: engine.CategoryOverall,
		Criteria: engine.Criteria{Type: engine.CriteriaStreak, Target: 2}, DurationDays: 5, PointReward: 10}))
}

func TestBadgeGrantedOnce(t *testing.T) {
	db := setupTestDB(t)
	seedCatalogRows(t, db)
	u := createUser(t, db, "badge@example.com")
	sq := StatsQueries{DB: db}
	bq := BadgeQueries{DB: db}

	require.NoError(t, sq.CommitStats(u.ID, 0, &models.StatsWrite{
		Counters: models.StatsCounters{TotalPoints: 5, BadgesEarned: 1}, BadgeGrants: []string{"b1"}, Now: time.Now(),
	}))

	err := sq.CommitStats(u.ID, 1, &models.StatsWrite{
		Counters: models.StatsCounters{TotalPoints: 10, BadgesEarned: 2}, BadgeGrants: []string{"b1"}, Now: time.Now(),
	})
	assert.True(t, errors.Is(err, ErrStatsConflict))

	earned, err := bq.GetEarnedBadgeIDs(u.ID)
	require.NoError(t, err)
	assert.Len(t, earned, 1)
	assert.Contains(t, earned, "b1")

	got, err := (&UserQueries{DB: db}).GetUserByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Counters.TotalPoints)
}

func TestChallengeLifecycle(t *testing.T) {
	db := setupTestDB(t)
	seedCatalogRows(t, db)
	u := createUser(t, db, "ch@example.com")
	sq := StatsQueries{DB: db}
	cq := ChallengeQueries{DB: db}

	uc := &models.UserChallenge{ID: uuid.New(), UserID: u.ID, ChallengeID: "c1", StartDate: "2024-06-01",
		State: engine.ChallengeActive, CreatedAt: time.Now()}
	require.NoError(t, sq.CommitStats(u.ID, 0, &models.StatsWrite{StartChallenge: uc, Now: time.Now()}))

	dup := *uc
	dup.ID = uuid.New()
	err := sq.CommitStats(u.ID, 1, &models.StatsWrite{StartChallenge: &dup, Now: time.Now()})
	assert.True(t, errors.Is(err, ErrDuplicate))

	active, err := cq.GetUserChallenges(u.ID, engine.ChallengeActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Nil(t, active[0].LastProgressDay)

	done := active[0]
	day := "2024-06-02"
	now := time.Now()
	done.Progress = 100
	done.State = engine.ChallengeCompleted
	done.LastProgressDay = &day
	done.CompletedAt = &now
	require.NoError(t, sq.CommitStats(u.ID, 1, &models.StatsWrite{
		Counters: models.StatsCounters{TotalPoints: 10, CompletedChallenges: 1}, Challenges: []models.UserChallenge{done}, Now: now,
	}))

	// completing again is rejected because the row is no longer active
	err = sq.CommitStats(u.ID, 2, &models.StatsWrite{
		Counters: models.StatsCounters{TotalPoints: 20, CompletedChallenges: 2}, Challenges: []models.UserChallenge{done}, Now: now,
	})
	assert.True(t, errors.Is(err, ErrStatsConflict))

	got, err := cq.GetUserChallenge(u.ID, "c1")
	require.NoError(t, err)
	assert.Equal(t, engine.ChallengeCompleted, got.State)
	require.NotNil(t, got.LastProgressDay)
	assert.Equal(t, "2024-06-02", *got.LastProgressDay)
	assert.NotNil(t, got.CompletedAt)

	_, err = cq.GetUserChallenge(u.ID, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestHabitEntriesByRangeAndUpdateDelete(t *testing.T) {
	db := setupTestDB(t)
	u := createUser(t, db, "range@example.com")
	sq := StatsQueries{DB: db}
	hq := HabitQueries{DB: db}

	var version int64
	for _, d := range []string{"2024-06-01", "2024-06-03", "2024-06-05"} {
		require.NoError(t, sq.CommitStats(u.ID, version, &models.StatsWrite{InsertEntry: newEntry(u.ID, d, 40), Now: time.Now()}))
		version++
	}

	mid, err := hq.GetEntriesByUser(u.ID, "2024-06-02", "2024-06-05")
	require.NoError(t, err)
	require.Len(t, mid, 2)
	assert.Equal(t, "2024-06-03", mid[0].Date)

	byDate, err := hq.GetEntriesByDate(u.ID, "2024-06-05")
	require.NoError(t, err)
	require.Len(t, byDate, 1)

	edited := byDate[0]
	edited.Score.Total = 90
	edited.UpdatedAt = time.Now()
	require.NoError(t, sq.CommitStats(u.ID, version, &models.StatsWrite{UpdateEntry: &edited, Now: time.Now()}))
	version++

	got, err := hq.GetEntryByID(u.ID, edited.ID)
	require.NoError(t, err)
	assert.Equal(t, 90, got.Score.Total)

	require.NoError(t, sq.CommitStats(u.ID, version, &models.StatsWrite{DeleteEntry: &edited.ID, Now: time.Now()}))
	version++
	_, err = hq.GetEntryByID(u.ID, edited.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	// another user's entry is invisible
	_, err = hq.GetEntryByID(uuid.New(), mid[0].ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	err = sq.CommitStats(u.ID, version, &models.StatsWrite{DeleteEntry: &edited.ID, Now: time.Now()})
	assert.True(t, errors.Is(err, ErrNotFound))
}
