package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gilanghuda/habit-tracker-backend/pkg/catalog"
	"github.com/gilanghuda/habit-tracker-backend/pkg/config"
	"github.com/gilanghuda/habit-tracker-backend/pkg/database"
	"github.com/gilanghuda/habit-tracker-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app *fiber.App
	now time.Time
}

func setupApp(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		DBDriver:        database.DriverSQLite,
		DBPath:          filepath.Join(t.TempDir(), "api.db"),
		JWTSecret:       "test-secret",
		RefreshTokenTTL: 24 * time.Hour,
		Location:        time.UTC,
		CORSOrigins:     "*",
	}
	now := time.Now().UTC().Truncate(24 * time.Hour).Add(12 * time.Hour)

	prevCfg, prevNow := config.Cfg, utils.Now
	config.Cfg = cfg
	utils.Now = func() time.Time { return now }

	db, err := database.InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.CloseDB()
		config.Cfg, utils.Now = prevCfg, prevNow
	})
	require.NoError(t, database.Migrate(db, database.Driver))

	cat, err := catalog.Default()
	require.NoError(t, err)
	_, err = catalog.Seed(db, cat)
	require.NoError(t, err)

	return &testEnv{app: NewApp(cfg), now: now}
}

func (e *testEnv) day(offset int) string {
	return e.now.AddDate(0, 0, -offset).Format("2006-01-02")
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (e *testEnv) register(t *testing.T, email string) (access, refresh string) {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email": email, "username": "tester", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status, body)
	tokens := body["tokens"].(map[string]interface{})
	return tokens["access_token"].(string), tokens["refresh_token"].(string)
}

func perfectDay(date string) fiber.Map {
	return fiber.Map{
		"date": date, "sleep_hours": 7, "water_intake": 2.5, "exercise_done": true,
		"healthy_meals": 3, "mood": "great", "productivity_level": "high", "category": "health",
	}
}

func zeroDay(date string) fiber.Map {
	return fiber.Map{
		"date": date, "sleep_hours": 4, "water_intake": 0.5, "exercise_done": false,
		"healthy_meals": 0, "mood": "sad", "productivity_level": "low",
	}
}

func statsOf(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	stats, ok := body["stats"].(map[string]interface{})
	require.True(t, ok, body)
	return stats
}

func TestAuthFlow(t *testing.T) {
	env := setupApp(t)
	access, refresh := env.register(t, "Ana@Example.com")

	status, _ := env.do(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email": "ana@example.com", "username": "other", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, body := env.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "ana@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, status, body)

	status, body = env.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "ana@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, status, body)
	assert.NotEmpty(t, body["tokens"].(map[string]interface{})["access_token"])

	status, body = env.do(t, http.MethodGet, "/api/users/profile", access, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "ana@example.com", body["email"])
	assert.NotContains(t, body, "password_hash")
	prefs := body["preferences"].(map[string]interface{})
	assert.Equal(t, "system", prefs["theme"])

	status, _ = env.do(t, http.MethodGet, "/api/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = env.do(t, http.MethodGet, "/api/users/profile", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = env.do(t, http.MethodPost, "/api/auth/refresh", "", fiber.Map{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, status, body)
	assert.NotEmpty(t, body["access_token"])

	status, _ = env.do(t, http.MethodPost, "/api/auth/logout", access, fiber.Map{"refresh_token": refresh})
	assert.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, http.MethodPost, "/api/auth/refresh", "", fiber.Map{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestProfileAndPreferences(t *testing.T) {
	env := setupApp(t)
	access, _ := env.register(t, "ben@example.com")

	status, body := env.do(t, http.MethodPut, "/api/users/profile", access, fiber.Map{"username": "benny"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "benny", body["user"].(map[string]interface{})["username"])

	status, body = env.do(t, http.MethodPut, "/api/users/preferences", access, fiber.Map{"theme": "neon"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "theme", body["field"])

	status, body = env.do(t, http.MethodPut, "/api/users/preferences", access, fiber.Map{"theme": "dark", "daily_reminders": false})
	require.Equal(t, http.StatusOK, status, body)
	prefs := body["preferences"].(map[string]interface{})
	assert.Equal(t, "dark", prefs["theme"])
	assert.Equal(t, false, prefs["daily_reminders"])
	assert.Equal(t, true, prefs["weekly_report"])
}

func TestHabitLifecycle(t *testing.T) {
	env := setupApp(t)
	access, _ := env.register(t, "cara@example.com")

	status, body := env.do(t, http.MethodPost, "/api/habits", access, perfectDay(env.day(0)))
	require.Equal(t, http.StatusCreated, status, body)
	habit := body["habit"].(map[string]interface{})
	assert.Equal(t, float64(100), habit["score"].(map[string]interface{})["total"])
	assert.Equal(t, true, habit["completed"])
	stats := statsOf(t, body)
	assert.Equal(t, float64(100), stats["total_points"])
	assert.Equal(t, float64(1), stats["completed_habits"])
	assert.Equal(t, float64(1), stats["current_streak"])
	assert.Equal(t, float64(100), stats["today_score"])
	id := habit["id"].(string)

	status, body = env.do(t, http.MethodGet, "/api/habits/date/"+env.day(0), access, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, body["habits"], 1)

	status, body = env.do(t, http.MethodGet, "/api/habits/weekly", access, nil)
	require.Equal(t, http.StatusOK, status, body)
	series := body["series"].([]interface{})
	require.Len(t, series, 7)
	last := series[6].(map[string]interface{})
	assert.Equal(t, float64(100), last["total_score"])
	assert.Equal(t, float64(0), series[0].(map[string]interface{})["entries"])

	status, body = env.do(t, http.MethodPut, "/api/habits/"+id, access, zeroDay(""))
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, float64(0), body["habit"].(map[string]interface{})["score"].(map[string]interface{})["total"])
	stats = statsOf(t, body)
	assert.Equal(t, float64(0), stats["total_points"])
	assert.Equal(t, float64(1), stats["completed_habits"])

	status, body = env.do(t, http.MethodDelete, "/api/habits/"+id, access, nil)
	require.Equal(t, http.StatusOK, status, body)
	stats = statsOf(t, body)
	assert.Equal(t, float64(0), stats["completed_habits"])
	assert.Equal(t, float64(0), stats["current_streak"])

	status, _ = env.do(t, http.MethodDelete, "/api/habits/"+id, access, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = env.do(t, http.MethodGet, "/api/habits", access, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["count"])
}

func TestHabitValidation(t *testing.T) {
	env := setupApp(t)
	access, _ := env.register(t, "dan@example.com")

	missingMood := perfectDay(env.day(0))
	delete(missingMood, "mood")
	status, body := env.do(t, http.MethodPost, "/api/habits", access, missingMood)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "mood", body["field"])

	badMood := perfectDay(env.day(0))
	badMood["mood"] = "ecstatic"
	status, body = env.do(t, http.MethodPost, "/api/habits", access, badMood)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "mood", body["field"])

	tooMuchWater := perfectDay(env.day(0))
	tooMuchWater["water_intake"] = 40
	status, body = env.do(t, http.MethodPost, "/api/habits", access, tooMuchWater)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "water_intake", body["field"])

	status, _ = env.do(t, http.MethodPost, "/api/habits", access, perfectDay(env.day(-1)))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodPost, "/api/habits", access, perfectDay("14/03/2026"))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodGet, "/api/habits/weekly?start="+env.day(0)+"&end="+env.day(5), access, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = env.do(t, http.MethodPost, "/api/habits/score", access, zeroDay(""))
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, float64(0), body["score"].(map[string]interface{})["total"])

	status, body = env.do(t, http.MethodGet, "/api/users/stats", access, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, float64(0), statsOf(t, body)["completed_habits"])
}

func TestHabitSummary(t *testing.T) {
	env := setupApp(t)
	access, _ := env.register(t, "eve@example.com")

	for _, body := range []fiber.Map{perfectDay(env.day(2)), zeroDay(env.day(1)), perfectDay(env.day(0))} {
		status, resp := env.do(t, http.MethodPost, "/api/habits", access, body)
		require.Equal(t, http.StatusCreated, status, resp)
	}

	status, body := env.do(t, http.MethodGet, "/api/habits/stats", access, nil)
	require.Equal(t, http.StatusOK, status, body)
	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, float64(3), summary["total_entries"])
	assert.Equal(t, float64(67), summary["average_score"])
	assert.Equal(t, float64(0), summary["worst_day"].(map[string]interface{})["score"])

	status, body = env.do(t, http.MethodGet, "/api/habits?from="+env.day(1)+"&to="+env.day(0), access, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, float64(2), body["count"])
}

func TestChallengeCompletionAndBadges(t *testing.T) {
	env := setupApp(t)
	access, _ := env.register(t, "fay@example.com")

	status, _ := env.do(t, http.MethodPost, "/api/challenges/no-such-challenge/start", access, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body := env.do(t, http.MethodPost, "/api/challenges/early-bird/start", access, nil)
	require.Equal(t, http.StatusCreated, status, body)
	status, _ = env.do(t, http.MethodPost, "/api/challenges/early-bird/start", access, nil)
	assert.Equal(t, http.StatusConflict, status)

	for _, offset := range []int{2, 1} {
		status, body = env.do(t, http.MethodPost, "/api/habits", access, perfectDay(env.day(offset)))
		require.Equal(t, http.StatusCreated, status, body)
	}
	status, body = env.do(t, http.MethodGet, "/api/challenges/active", access, nil)
	require.Equal(t, http.StatusOK, status, body)
	active := body["challenges"].([]interface{})
	require.Len(t, active, 1)
	instance := active[0].(map[string]interface{})["instance"].(map[string]interface{})
	assert.Equal(t, float64(67), instance["progress"])

	status, body = env.do(t, http.MethodPost, "/api/habits", access, perfectDay(env.day(0)))
	require.Equal(t, http.StatusCreated, status, body)
	progress := body["challenges"].([]interface{})
	require.Len(t, progress, 1)
	reward := progress[0].(map[string]interface{})["reward"].(map[string]interface{})
	assert.Equal(t, float64(100), reward["points"])
	assert.Equal(t, "early-bird", reward["badge_id"])
	stats := statsOf(t, body)
	assert.Equal(t, float64(400), stats["total_points"])
	assert.Equal(t, float64(1), stats["completed_challenges"])
	assert.Equal(t, float64(1), stats["badges_earned"])

	// a later tick must not pay the reward again
	status, body = env.do(t, http.MethodPut, "/api/challenges/update-progress", access, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Empty(t, body["challenges"])
	assert.Equal(t, float64(400), statsOf(t, body)["total_points"])

	status, body = env.do(t, http.MethodGet, "/api/challenges/completed", access, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, body["challenges"], 1)

	status, body = env.do(t, http.MethodGet, "/api/badges", access, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, []interface{}{"active-achiever", "exercise-expert", "habit-hero"}, body["newly_granted"])
	assert.Equal(t, float64(1500), statsOf(t, body)["total_points"])
	assert.Equal(t, float64(4), statsOf(t, body)["badges_earned"])

	for _, raw := range body["badges"].([]interface{}) {
		b := raw.(map[string]interface{})
		if b["id"] == "night-owl" {
			assert.Equal(t, "???", b["name"])
			assert.Equal(t, false, b["is_earned"])
		}
	}

	status, body = env.do(t, http.MethodGet, "/api/badges", access, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Empty(t, body["newly_granted"])
	assert.Equal(t, float64(1500), statsOf(t, body)["total_points"])

	status, body = env.do(t, http.MethodGet, "/api/badges/mine", access, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, float64(4), body["count"])

	status, body = env.do(t, http.MethodGet, "/api/challenges", access, nil)
	require.Equal(t, http.StatusOK, status, body)
	joined := 0
	for _, raw := range body["challenges"].([]interface{}) {
		if raw.(map[string]interface{})["joined"] == true {
			joined++
		}
	}
	assert.Equal(t, 1, joined)
}

func TestConcurrentLogsKeepEveryPoint(t *testing.T) {
	env := setupApp(t)
	access, _ := env.register(t, "gus@example.com")

	const n = 8
	var wg sync.WaitGroup
	statuses := make([]int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			statuses[i], _ = env.do(t, http.MethodPost, "/api/habits", access, perfectDay(env.day(i%3)))
		}(i)
	}
	wg.Wait()
	for _, s := range statuses {
		assert.Equal(t, http.StatusCreated, s)
	}

	status, body := env.do(t, http.MethodGet, "/api/users/stats", access, nil)
	require.Equal(t, http.StatusOK, status, body)
	stats := statsOf(t, body)
	assert.Equal(t, float64(n*100), stats["total_points"])
	assert.Equal(t, float64(n), stats["completed_habits"])
	assert.Equal(t, float64(3), stats["current_streak"])
}
