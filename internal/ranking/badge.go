package ranking

import "pullupboard/internal/models"

// Tier is an ordered badge level. TierNone sorts below every real tier.
type Tier int

const (
	TierNone Tier = iota
	TierRecruit
	TierProven
	TierHardened
	TierOperator
	TierElite
)

const assetBase = "https://cdn.shopify.com/s/files/1/0567/5237/3945/files/"

type tierSpec struct {
	tier        Tier
	id          string
	name        string
	description string
	threshold   int
	image       string
	femaleImage string
}

// tiers is ordered from the highest threshold down; ClassifyTier relies on it.
var tiers = []tierSpec{
	{TierElite, "elite", "Elite", "Achieved 25+ pull-ups", 25,
		assetBase + "Elite.png?v=1746488886", assetBase + "Elite_Female.png?v=1747583270"},
	{TierOperator, "operator", "Operator", "Achieved 20-24 pull-ups", 20,
		assetBase + "Operator.png?v=1746488886", assetBase + "Operator_-_Female.png?v=1747583270"},
	{TierHardened, "hardened", "Hardened", "Achieved 15-19 pull-ups", 15,
		assetBase + "Hardened.png?v=1746488887", assetBase + "Hardened_1_-_Female.png?v=1747583270"},
	{TierProven, "proven", "Proven", "Achieved 10-14 pull-ups", 10,
		assetBase + "Proven.png?v=1746488886", assetBase + "Proven_-_Female.png?v=1747583270"},
	{TierRecruit, "recruit", "Recruit", "Achieved 5-9 pull-ups", 5,
		assetBase + "Recruit.png?v=1746488886", assetBase + "Recruit_-_Female.png?v=1747583270"},
}

func specFor(t Tier) (tierSpec, bool) {
	for _, s := range tiers {
		if s.tier == t {
			return s, true
		}
	}
	return tierSpec{}, false
}

// ClassifyTier maps an effective score to its tier, checking thresholds
// from the highest down.
func ClassifyTier(score int) Tier {
	for _, s := range tiers {
		if score >= s.threshold {
			return s.tier
		}
	}
	return TierNone
}

// ID returns the badge id of the tier, or "" for TierNone
func (t Tier) ID() string {
	s, ok := specFor(t)
	if !ok {
		return ""
	}
	return s.id
}

// Compare orders tiers: negative when t ranks below o, zero when equal.
func (t Tier) Compare(o Tier) int {
	return int(t) - int(o)
}

// TierByID resolves a badge id such as "operator" to its tier
func TierByID(id string) (Tier, bool) {
	for _, s := range tiers {
		if s.id == id {
			return s.tier, true
		}
	}
	return TierNone, false
}

// BadgeFor builds the display badge for a tier. The female asset replaces
// the default one when gender is Female; eligibility is never affected.
func BadgeFor(t Tier, gender models.Gender) (models.Badge, bool) {
	s, ok := specFor(t)
	if !ok {
		return models.Badge{}, false
	}
	image := s.image
	if gender == models.GenderFemale && s.femaleImage != "" {
		image = s.femaleImage
	}
	return models.Badge{
		ID:          s.id,
		Name:        s.name,
		Description: s.description,
		ImageURL:    image,
		Threshold:   s.threshold,
	}, true
}

// Classify returns the badge earned by an effective score, if any
func Classify(score int, gender models.Gender) (models.Badge, bool) {
	return BadgeFor(ClassifyTier(score), gender)
}

// BadgeOf classifies a submission by its effective score
func BadgeOf(s models.Submission) (models.Badge, bool) {
	return Classify(s.EffectiveScore(), s.Gender)
}

// Badges lists the catalog from the lowest tier up with default assets
func Badges() []models.Badge {
	out := make([]models.Badge, 0, len(tiers))
	for i := len(tiers) - 1; i >= 0; i-- {
		b, _ := BadgeFor(tiers[i].tier, models.GenderMale)
		out = append(out, b)
	}
	return out
}
