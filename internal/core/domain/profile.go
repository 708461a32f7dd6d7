package domain

import "time"

type Role string

const (
	RoleVolunteer Role = "volunteer"
	RoleNeedy     Role = "needy"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleVolunteer, RoleNeedy, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Role   Role
}

type Volunteer struct {
	UserID              string
	ProgramIDs          []string
	SkillIDs            []string
	CityID              *string
	Points              int
	CompletedTasksCount int
	Rating              *float64
	RatingCount         int
}

func (v Volunteer) InProgram(programID string) bool {
	for _, id := range v.ProgramIDs {
		if id == programID {
			return true
		}
	}
	return false
}

type Needy struct {
	UserID  string
	CityID  *string
	Address *string
}

type Program struct {
	ID   string
	Name string
}

type Category struct {
	ID   string
	Name string
}

type Skill struct {
	ID         string
	Name       string
	CategoryID *string
}

type City struct {
	ID        string
	Name      string
	Latitude  *float64
	Longitude *float64
	GroupID   *string
}

// Coordinates returns the city's location when both coordinates are known.
func (c City) Coordinates() (GeoPoint, bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Latitude: *c.Latitude, Longitude: *c.Longitude}, true
}

type VolunteerRating struct {
	ID            string
	VolunteerID   string
	TaskID        string
	RatedByUserID string
	Score         int
	Comment       *string
	CreatedAt     time.Time
}

type RateVolunteerInput struct {
	VolunteerID string
	TaskID      string
	Score       int
	Comment     *string
}

type RatingSummary struct {
	Rating      float64
	RatingCount int
}

// NextRating folds score into a running average, capped at 5 and rounded
// to two decimals.
func NextRating(current RatingSummary, score int) RatingSummary {
	count := current.RatingCount + 1
	avg := (current.Rating*float64(current.RatingCount) + float64(score)) / float64(count)
	if avg > 5 {
		avg = 5
	}
	avg = float64(int64(avg*100+0.5)) / 100
	return RatingSummary{Rating: avg, RatingCount: count}
}
