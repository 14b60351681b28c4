package catalog

import (
	"database/sql"

	"github.com/gilanghuda/habit-tracker-backend/app/queries"
)

type SeedResult struct {
	Badges     int
	Challenges int
}

// Seed upserts every badge and then every challenge of c into db.
func Seed(db *sql.DB, c *Catalog) (SeedResult, error) {
	res := SeedResult{}
	bq := queries.BadgeQueries{DB: db}
	for _, b := range c.Badges {
		if err := bq.UpsertBadge(b); err != nil {
			return res, err
		}
		res.Badges++
	}
	cq := queries.ChallengeQueries{DB: db}
	for _, ch := range c.Challenges {
		if err := cq.UpsertChallenge(ch); err != nil {
			return res, err
		}
		res.Challenges++
	}
	return res, nil
}
