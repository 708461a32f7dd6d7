package domain

// SkillMatch keeps tasks that require no skills or share at least one
// skill with SkillIDs.
type SkillMatch struct {
	SkillIDs []string
}

// CityMatch keeps tasks without a city or whose city is in CityIDs. An
// empty CityIDs keeps only tasks without a city.
type CityMatch struct {
	CityIDs []string
}

type TaskFilter struct {
	ProgramID           *string
	ProgramIDs          []string
	Status              *TaskStatus
	CategoryID          *string
	NeedyID             *string
	AssignedVolunteerID *string
	IDs                 []string
	Skills              *SkillMatch
	Cities              *CityMatch
}

// Match is the in-process form of the filter; the SQL store builds the
// equivalent WHERE clause.
func (f TaskFilter) Match(t Task) bool {
	if f.ProgramID != nil && t.ProgramID != *f.ProgramID {
		return false
	}
	if f.ProgramIDs != nil && !contains(f.ProgramIDs, t.ProgramID) {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *f.CategoryID) {
		return false
	}
	if f.NeedyID != nil && t.NeedyID != *f.NeedyID {
		return false
	}
	if f.AssignedVolunteerID != nil && !t.AssignedTo(*f.AssignedVolunteerID) {
		return false
	}
	if f.IDs != nil && !contains(f.IDs, t.ID) {
		return false
	}
	if f.Skills != nil && t.HasSkills() && !intersects(t.SkillIDs, f.Skills.SkillIDs) {
		return false
	}
	if f.Cities != nil && t.CityID != nil && !contains(f.Cities.CityIDs, *t.CityID) {
		return false
	}
	return true
}

// EffectiveCityIDs resolves a volunteer's city filter: no city yields an
// empty set (only city-less tasks), a grouped city yields the whole group.
func EffectiveCityIDs(cityID *string, groupCityIDs []string) []string {
	if cityID == nil {
		return []string{}
	}
	if len(groupCityIDs) == 0 {
		return []string{*cityID}
	}
	return groupCityIDs
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, v := range a {
		if contains(b, v) {
			return true
		}
	}
	return false
}

// UniqueIDs drops empty and repeated ids, preserving order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
