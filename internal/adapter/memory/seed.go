package memory

import (
	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
)

// The Add* helpers load reference data and profiles, which this service
// reads but does not own.

func (s *Store) AddProgram(program domain.Program) {
	_ = s.write(func(d *dataset) error {
		d.programs[program.ID] = program
		return nil
	})
}

func (s *Store) AddCategory(category domain.Category) {
	_ = s.write(func(d *dataset) error {
		d.categories[category.ID] = category
		return nil
	})
}

func (s *Store) AddSkill(skill domain.Skill) {
	_ = s.write(func(d *dataset) error {
		d.skills[skill.ID] = skill
		return nil
	})
}

func (s *Store) AddCity(city domain.City) {
	_ = s.write(func(d *dataset) error {
		d.cities[city.ID] = city
		return nil
	})
}

func (s *Store) AddVolunteer(volunteer domain.Volunteer) {
	volunteer.ProgramIDs = copyIDs(volunteer.ProgramIDs)
	volunteer.SkillIDs = copyIDs(volunteer.SkillIDs)
	_ = s.write(func(d *dataset) error {
		d.volunteers[volunteer.UserID] = volunteer
		return nil
	})
}

func (s *Store) AddNeedy(needy domain.Needy) {
	_ = s.write(func(d *dataset) error {
		d.needies[needy.UserID] = needy
		return nil
	})
}

// SetLanguage sets the language notifications are rendered in for userID.
func (s *Store) SetLanguage(userID, lang string) {
	_ = s.write(func(d *dataset) error {
		d.languages[userID] = lang
		return nil
	})
}

// LedgerEntries returns every points transaction, oldest first.
func (s *Store) LedgerEntries() []domain.PointsTransaction {
	var entries []domain.PointsTransaction
	_ = s.read(func(d *dataset) error {
		entries = append(entries, d.ledger...)
		return nil
	})
	return entries
}
