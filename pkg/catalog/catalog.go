package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gilanghuda/habit-tracker-backend/pkg/engine"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the set of challenge and badge definitions offered to users.
type Catalog struct {
	Challenges []engine.Challenge `yaml:"challenges"`
	Badges     []engine.Badge     `yaml:"badges"`
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every definition, id uniqueness, and that challenge badge
// rewards point at a badge in the catalog.
func (c *Catalog) Validate() error {
	badges := make(map[string]bool, len(c.Badges))
	for _, b := range c.Badges {
		if err := b.Validate(); err != nil {
			return err
		}
		if badges[b.ID] {
			return fmt.Errorf("duplicate badge id %q", b.ID)
		}
		badges[b.ID] = true
	}

	seen := make(map[string]bool, len(c.Challenges))
	for _, ch := range c.Challenges {
		if err := ch.Validate(); err != nil {
			return err
		}
		if seen[ch.ID] {
			return fmt.Errorf("duplicate challenge id %q", ch.ID)
		}
		seen[ch.ID] = true
		if ch.BadgeReward != "" && !badges[ch.BadgeReward] {
			return fmt.Errorf("challenge %s: unknown badge reward %q", ch.ID, ch.BadgeReward)
		}
	}
	return nil
}

func (c *Catalog) Challenge(id string) (engine.Challenge, error) {
	return engine.FindChallenge(c.Challenges, id)
}

func (c *Catalog) Badge(id string) (engine.Badge, error) {
	return engine.FindBadge(c.Badges, id)
}

var (
	once    sync.Once
	loaded  *Catalog
	loadErr error
)

// Default returns the embedded catalog, parsed once.
func Default() (*Catalog, error) {
	once.Do(func() {
		loaded, loadErr = Parse(defaultCatalog)
	})
	return loaded, loadErr
}
