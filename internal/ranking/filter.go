package ranking

import (
	"errors"
	"fmt"
	"math"

	"pullupboard/internal/models"
)

var (
	// ErrInvalidFilter is returned when a filter carries an unknown value
	ErrInvalidFilter = errors.New("invalid leaderboard filter")

	// ErrInvalidRecord is returned when a submission has an impossible shape
	ErrInvalidRecord = errors.New("invalid submission record")
)

// AgeGroup is an inclusive age bracket
type AgeGroup struct {
	Name string
	Min  int
	Max  int
}

// Contains reports whether age falls inside the bracket, both ends included
func (g AgeGroup) Contains(age int) bool {
	return age >= g.Min && age <= g.Max
}

var ageGroups = []AgeGroup{
	{Name: "Under 18", Min: 0, Max: 17},
	{Name: "18-24", Min: 18, Max: 24},
	{Name: "25-29", Min: 25, Max: 29},
	{Name: "30-39", Min: 30, Max: 39},
	{Name: "40-49", Min: 40, Max: 49},
	{Name: "50+", Min: 50, Max: math.MaxInt},
}

// AgeGroups returns the brackets in ascending order
func AgeGroups() []AgeGroup {
	out := make([]AgeGroup, len(ageGroups))
	copy(out, ageGroups)
	return out
}

// ParseAgeGroup resolves a bracket by its display name
func ParseAgeGroup(name string) (AgeGroup, error) {
	for _, g := range ageGroups {
		if g.Name == name {
			return g, nil
		}
	}
	return AgeGroup{}, fmt.Errorf("%w: unknown age group %q", ErrInvalidFilter, name)
}

// criteria is the parsed form of models.LeaderboardFilters
type criteria struct {
	filters  models.LeaderboardFilters
	ageGroup *AgeGroup
	tier     Tier
}

func parseCriteria(f models.LeaderboardFilters) (criteria, error) {
	c := criteria{filters: f}

	if f.Gender != "" && !models.Gender(f.Gender).Valid() {
		return c, fmt.Errorf("%w: unknown gender %q", ErrInvalidFilter, f.Gender)
	}

	if f.AgeGroup != "" {
		g, err := ParseAgeGroup(f.AgeGroup)
		if err != nil {
			return c, err
		}
		c.ageGroup = &g
	}

	if f.Badge != "" {
		t, ok := TierByID(f.Badge)
		if !ok {
			return c, fmt.Errorf("%w: unknown badge %q", ErrInvalidFilter, f.Badge)
		}
		c.tier = t
	}

	return c, nil
}

func (c criteria) match(s models.Submission) bool {
	f := c.filters
	if f.Club != "" && s.ClubAffiliation != f.Club {
		return false
	}
	if f.Gender != "" && string(s.Gender) != f.Gender {
		return false
	}
	if f.Region != "" && s.Region != f.Region {
		return false
	}
	if c.ageGroup != nil && !c.ageGroup.Contains(s.Age) {
		return false
	}
	if c.tier != TierNone && ClassifyTier(s.EffectiveScore()) != c.tier {
		return false
	}
	return true
}

// ValidateFilters checks every enumerated filter value without touching records
func ValidateFilters(f models.LeaderboardFilters) error {
	_, err := parseCriteria(f)
	return err
}

// Filter keeps the submissions matching every set criterion. An empty
// filter set keeps everything.
func Filter(records []models.Submission, f models.LeaderboardFilters) ([]models.Submission, error) {
	c, err := parseCriteria(f)
	if err != nil {
		return nil, err
	}

	out := make([]models.Submission, 0, len(records))
	for _, rec := range records {
		if c.match(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Validate rejects submissions that would corrupt a ranking
func Validate(s models.Submission) error {
	switch {
	case s.Age < 0:
		return fmt.Errorf("%w: submission %s has negative age %d", ErrInvalidRecord, s.ID, s.Age)
	case s.PullUpCount < 0:
		return fmt.Errorf("%w: submission %s has negative pull-up count", ErrInvalidRecord, s.ID)
	case s.ActualPullUpCount != nil && *s.ActualPullUpCount < 0:
		return fmt.Errorf("%w: submission %s has negative confirmed count", ErrInvalidRecord, s.ID)
	case !s.Gender.Valid():
		return fmt.Errorf("%w: submission %s has unknown gender %q", ErrInvalidRecord, s.ID, s.Gender)
	}
	return nil
}
