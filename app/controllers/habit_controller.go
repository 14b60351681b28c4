package controllers

import (
	"github.com/gilanghuda/habit-tracker-backend/app/models"
	"github.com/gilanghuda/habit-tracker-backend/app/queries"
	"github.com/gilanghuda/habit-tracker-backend/pkg/database"
	"github.com/gilanghuda/habit-tracker-backend/pkg/engine"
	"github.com/gilanghuda/habit-tracker-backend/pkg/logger"
	"github.com/gilanghuda/habit-tracker-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// maxSeriesDays bounds the window a client may request from the weekly endpoint.
const maxSeriesDays = 366

// scoreRequest validates and scores a request body.
func scoreRequest(req *models.HabitRequest) (engine.HabitInput, engine.ScoreBreakdown, error) {
	in := req.Input()
	score, err := engine.ComputeScore(in)
	if err != nil {
		return in, engine.ScoreBreakdown{}, err
	}
	return in, score, nil
}

// entryDay resolves the request date (default today) and rejects future days.
func entryDay(date string) (string, error) {
	now := appNow()
	if date == "" {
		return engine.DayKey(now).Format(engine.DateLayout), nil
	}
	d, err := engine.ParseDay(date, appLocation())
	if err != nil {
		return "", err
	}
	if engine.DaysBetween(d, now) < 0 {
		return "", &engine.InvalidDateError{Input: date, Reason: "date is in the future"}
	}
	return d.Format(engine.DateLayout), nil
}

func habitID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, badRequest("Invalid habit id")
	}
	return id, nil
}

func GetHabits(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, err.Error())
	}
	from, err := parseDayParam(c.Query("from"))
	if err != nil {
		return respondError(c, err)
	}
	to, err := parseDayParam(c.Query("to"))
	if err != nil {
		return respondError(c, err)
	}
	if from != "" && to != "" && to < from {
		return respondBadRequest(c, "to must not be before from")
	}

	habitQueries := queries.HabitQueries{DB: database.DB}
	entries, err := habitQueries.GetEntriesByUser(userID, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"habits": entries, "count": len(entries)})
}

func CreateHabit(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, err.Error())
	}
	req := &models.HabitRequest{}
	if err := bindBody(c, req); err != nil {
		return respondError(c, err)
	}
	date, err := entryDay(req.Date)
	if err != nil {
		return respondError(c, err)
	}
	in, score, err := scoreRequest(req)
	if err != nil {
		return respondError(c, err)
	}

	var created models.HabitEntry
	res, err := mutateStats(userID, func(snap statsSnapshot) (*statsMutation, error) {
		entry := models.HabitEntry{
			ID:        uuid.New(),
			UserID:    userID,
			Date:      date,
			LoggedAt:  snap.Now,
			CreatedAt: snap.Now,
			UpdatedAt: snap.Now,
		}
		entry.Apply(in, score)
		created = entry

		return &statsMutation{
			Events:            []engine.StatsEvent{{Kind: engine.EventHabitLogged, Score: score.Total}},
			Write:             models.StatsWrite{InsertEntry: &entry},
			Entries:           append(append([]models.HabitEntry{}, snap.Entries...), entry),
			AdvanceChallenges: true,
		}, nil
	})
	if err != nil {
		return respondError(c, err)
	}
	logger.Debug("habit logged", "user_id", userID, "date", date, "score", score.Total)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Habit logged",
		"habit":      created,
		"stats":      res.Stats,
		"challenges": res.Challenges,
	})
}

// PreviewScore scores a body without storing it.
func PreviewScore(c *fiber.Ctx) error {
	req := &models.HabitRequest{}
	if err := bindBody(c, req); err != nil {
		return respondError(c, err)
	}
	_, score, err := scoreRequest(req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"score": score, "completed": score.Completed()})
}

func GetWeeklyHabits(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, err.Error())
	}
	loc := appLocation()
	w := engine.WeekEnding(appNow())
	if s := c.Query("start"); s != "" {
		if w.Start, err = engine.ParseDay(s, loc); err != nil {
			return respondError(c, err)
		}
	}
	if e := c.Query("end"); e != "" {
		if w.End, err = engine.ParseDay(e, loc); err != nil {
			return respondError(c, err)
		}
	}
	if err := w.Validate(); err != nil {
		return respondError(c, err)
	}
	if w.Days() > maxSeriesDays {
		return respondBadRequest(c, "range is too large")
	}

	habitQueries := queries.HabitQueries{DB: database.DB}
	entries, err := habitQueries.GetEntriesByUser(userID, w.Start.Format(engine.DateLayout), w.End.Format(engine.DateLayout))
	if err != nil {
		return respondError(c, err)
	}
	scored, err := models.ScoredEntries(entries, loc)
	if err != nil {
		return respondError(c, err)
	}
	series, err := engine.BuildDailySeries(scored, w)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"start":      w.Start.Format(engine.DateLayout),
		"end":        w.End.Format(engine.DateLayout),
		"series":     series,
		"average":    engine.AverageTotal(series),
		"categories": engine.AverageCategories(series),
	})
}

func GetHabitStats(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, err.Error())
	}
	habitQueries := queries.HabitQueries{DB: database.DB}
	entries, err := habitQueries.GetEntriesByUser(userID, "", "")
	if err != nil {
		return respondError(c, err)
	}
	scored, err := models.ScoredEntries(entries, appLocation())
	if err != nil {
		return respondError(c, err)
	}
	report, err := engine.ComputeWeeklyReport(scored, appNow())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"summary": engine.Summarize(scored),
		"weekly":  report,
	})
}

func GetHabitsByDate(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, err.Error())
	}
	date, err := parseDayParam(c.Params("date"))
	if err != nil {
		return respondError(c, err)
	}
	habitQueries := queries.HabitQueries{DB: database.DB}
	entries, err := habitQueries.GetEntriesByDate(userID, date)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"date": date, "habits": entries})
}

func UpdateHabit(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, err.Error())
	}
	id, err := habitID(c)
	if err != nil {
		return respondError(c, err)
	}
	req := &models.HabitRequest{}
	if err := bindBody(c, req); err != nil {
		return respondError(c, err)
	}
	in, score, err := scoreRequest(req)
	if err != nil {
		return respondError(c, err)
	}
	var date string
	if req.Date != "" {
		if date, err = entryDay(req.Date); err != nil {
			return respondError(c, err)
		}
	}

	var updated models.HabitEntry
	res, err := mutateStats(userID, func(snap statsSnapshot) (*statsMutation, error) {
		entries := make([]models.HabitEntry, 0, len(snap.Entries))
		found := false
		var previous int
		for _, e := range snap.Entries {
			if e.ID == id {
				found = true
				previous = e.Score.Total
				if date != "" {
					e.Date = date
				}
				e.Apply(in, score)
				e.UpdatedAt = snap.Now
				updated = e
			}
			entries = append(entries, e)
		}
		if !found {
			return nil, queries.ErrNotFound
		}
		return &statsMutation{
			Events:            []engine.StatsEvent{{Kind: engine.EventHabitUpdated, Score: score.Total, PreviousScore: previous}},
			Write:             models.StatsWrite{UpdateEntry: &updated},
			Entries:           entries,
			AdvanceChallenges: true,
		}, nil
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":    "Habit updated",
		"habit":      updated,
		"stats":      res.Stats,
		"challenges": res.Challenges,
	})
}

// DeleteHabit removes an entry and reverses its contribution. Challenge
// progress already recorded is left as is.
func DeleteHabit(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, err.Error())
	}
	id, err := habitID(c)
	if err != nil {
		return respondError(c, err)
	}

	res, err := mutateStats(userID, func(snap statsSnapshot) (*statsMutation, error) {
		entries := make([]models.HabitEntry, 0, len(snap.Entries))
		var removed *models.HabitEntry
		for i := range snap.Entries {
			if snap.Entries[i].ID == id {
				removed = &snap.Entries[i]
				continue
			}
			entries = append(entries, snap.Entries[i])
		}
		if removed == nil {
			return nil, queries.ErrNotFound
		}
		return &statsMutation{
			Events:  []engine.StatsEvent{{Kind: engine.EventHabitDeleted, Score: removed.Score.Total}},
			Write:   models.StatsWrite{DeleteEntry: &id},
			Entries: entries,
		}, nil
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Habit deleted", "stats": res.Stats})
}
