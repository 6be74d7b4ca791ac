package main

import (
	"strconv"
	"strings"
	"time"

	"pullupboard/internal/eligibility"
	"pullupboard/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

var (
	regions = []string{"North America", "South America", "Europe", "Africa", "Asia", "Oceania"}
	clubs   = []string{"None", "Battle Bunker Elite", "Iron Grip", "Night Owls", "Bar Brothers", "Garage Gym Co"}
	genders = []models.Gender{models.GenderMale, models.GenderMale, models.GenderFemale, models.GenderOther}
)

// generateSubmissions builds a submission history for count athletes.
// Each athlete gets one to three attempts spaced past the cooldown; the
// latest may still be pending or rejected.
func generateSubmissions(seed uint64, count int, now time.Time) []models.Submission {
	f := gofakeit.New(seed)
	subs := make([]models.Submission, 0, count*2)

	for i := 0; i < count; i++ {
		first, last := f.FirstName(), f.LastName()
		email := strings.ToLower(first+"."+last) + strconv.Itoa(i+1) + "@" + f.DomainName()
		gender := genders[f.IntRange(0, len(genders)-1)]
		age := f.IntRange(14, 68)
		region := f.RandomString(regions)
		club := f.RandomString(clubs)

		var handle *string
		if f.Bool() {
			h := strings.ToLower(f.Username())
			handle = &h
		}

		attempts := f.IntRange(1, 3)
		base := f.IntRange(0, 22)
		date := now.Add(-time.Duration(attempts) * (eligibility.Cooldown + 24*time.Hour)).
			Add(-time.Duration(f.IntRange(0, 240)) * time.Hour)

		for a := 0; a < attempts; a++ {
			claimed := base + f.IntRange(0, 4)*a
			sub := models.Submission{
				ID:              uuid.NewString(),
				FullName:        first + " " + last,
				Email:           email,
				Age:             age,
				Gender:          gender,
				Region:          region,
				ClubAffiliation: club,
				PullUpCount:     claimed,
				VideoLink:       "https://youtube.com/watch?v=" + f.LetterN(11),
				SubmissionDate:  date,
				Status:          models.StatusApproved,
				Featured:        true,
				SocialHandle:    handle,
			}

			switch roll := f.IntRange(1, 100); {
			case a == attempts-1 && roll <= 15:
				sub.Status, sub.Featured = models.StatusPending, false
			case roll > 88:
				sub.Status, sub.Featured = models.StatusRejected, false
			case roll <= 40:
				confirmed := claimed - f.IntRange(0, 3)
				if confirmed < 0 {
					confirmed = 0
				}
				sub.ActualPullUpCount = &confirmed
			}

			subs = append(subs, sub)
			date = date.Add(eligibility.Cooldown + time.Duration(f.IntRange(24, 200))*time.Hour)
		}
	}

	return subs
}
