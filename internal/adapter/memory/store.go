package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
)

type taskRecord struct {
	task domain.Task
	seq  int64
}

type responseRecord struct {
	response domain.TaskResponse
	seq      int64
}

type dataset struct {
	seq           int64
	tasks         map[string]taskRecord
	responses     map[string]responseRecord
	volunteers    map[string]domain.Volunteer
	needies       map[string]domain.Needy
	ledger        []domain.PointsTransaction
	ratings       []domain.VolunteerRating
	programs      map[string]domain.Program
	categories    map[string]domain.Category
	skills        map[string]domain.Skill
	cities        map[string]domain.City
	languages     map[string]string
	subscriptions map[string]domain.PushSubscription
}

func newDataset() *dataset {
	return &dataset{
		tasks:         map[string]taskRecord{},
		responses:     map[string]responseRecord{},
		volunteers:    map[string]domain.Volunteer{},
		needies:       map[string]domain.Needy{},
		programs:      map[string]domain.Program{},
		categories:    map[string]domain.Category{},
		skills:        map[string]domain.Skill{},
		cities:        map[string]domain.City{},
		languages:     map[string]string{},
		subscriptions: map[string]domain.PushSubscription{},
	}
}

// clone copies every collection. Stored values are replaced, never mutated
// in place, so copying the maps is enough to isolate a transaction.
func (d *dataset) clone() *dataset {
	c := &dataset{
		seq:           d.seq,
		tasks:         make(map[string]taskRecord, len(d.tasks)),
		responses:     make(map[string]responseRecord, len(d.responses)),
		volunteers:    make(map[string]domain.Volunteer, len(d.volunteers)),
		needies:       make(map[string]domain.Needy, len(d.needies)),
		ledger:        append([]domain.PointsTransaction(nil), d.ledger...),
		ratings:       append([]domain.VolunteerRating(nil), d.ratings...),
		programs:      make(map[string]domain.Program, len(d.programs)),
		categories:    make(map[string]domain.Category, len(d.categories)),
		skills:        make(map[string]domain.Skill, len(d.skills)),
		cities:        make(map[string]domain.City, len(d.cities)),
		languages:     make(map[string]string, len(d.languages)),
		subscriptions: make(map[string]domain.PushSubscription, len(d.subscriptions)),
	}
	for k, v := range d.tasks {
		c.tasks[k] = v
	}
	for k, v := range d.responses {
		c.responses[k] = v
	}
	for k, v := range d.volunteers {
		c.volunteers[k] = v
	}
	for k, v := range d.needies {
		c.needies[k] = v
	}
	for k, v := range d.programs {
		c.programs[k] = v
	}
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.skills {
		c.skills[k] = v
	}
	for k, v := range d.cities {
		c.cities[k] = v
	}
	for k, v := range d.languages {
		c.languages[k] = v
	}
	for k, v := range d.subscriptions {
		c.subscriptions[k] = v
	}
	return c
}

func (d *dataset) next() int64 {
	d.seq++
	return d.seq
}

type shared struct {
	mu   sync.RWMutex
	data *dataset
}

// Store keeps everything in process. Transactions are serialised: WithinTx
// holds the write lock for its whole duration, works on a copy of the
// data and publishes it only when fn succeeds.
type Store struct {
	shared *shared
	tx     *dataset
}

var _ ports.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{shared: &shared{data: newDataset()}}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.Store) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()

	work := s.shared.data.clone()
	if err := fn(ctx, &Store{shared: s.shared, tx: work}); err != nil {
		return err
	}
	s.shared.data = work
	return nil
}

func (s *Store) read(fn func(d *dataset) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.shared.mu.RLock()
	defer s.shared.mu.RUnlock()
	return fn(s.shared.data)
}

func (s *Store) write(fn func(d *dataset) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()
	return fn(s.shared.data)
}

func (s *Store) Tasks() ports.TaskRepository {
	return taskRepository{s}
}

func (s *Store) Responses() ports.TaskResponseRepository {
	return responseRepository{s}
}

func (s *Store) Profiles() ports.ProfileRepository {
	return profileRepository{s}
}

func (s *Store) Ledger() ports.PointsRepository {
	return ledgerRepository{s}
}

func (s *Store) Ratings() ports.RatingRepository {
	return ratingRepository{s}
}

func (s *Store) Catalog() ports.CatalogRepository {
	return catalogRepository{s}
}

func copyIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	return append([]string(nil), ids...)
}

func copyTask(t domain.Task) domain.Task {
	t.SkillIDs = copyIDs(t.SkillIDs)
	return t
}

type taskRepository struct{ s *Store }

func (r taskRepository) Create(_ context.Context, task domain.Task) error {
	return r.s.write(func(d *dataset) error {
		d.tasks[task.ID] = taskRecord{task: copyTask(task), seq: d.next()}
		return nil
	})
}

func (r taskRepository) Get(_ context.Context, id string) (domain.Task, error) {
	var task domain.Task
	err := r.s.read(func(d *dataset) error {
		rec, ok := d.tasks[id]
		if !ok {
			return domain.ErrTaskNotFound
		}
		task = copyTask(rec.task)
		return nil
	})
	return task, err
}

// GetForUpdate needs no extra locking: transactions already hold the store lock.
func (r taskRepository) GetForUpdate(ctx context.Context, id string) (domain.Task, error) {
	return r.Get(ctx, id)
}

func (r taskRepository) Update(_ context.Context, task domain.Task) error {
	return r.s.write(func(d *dataset) error {
		rec, ok := d.tasks[task.ID]
		if !ok {
			return domain.ErrTaskNotFound
		}
		rec.task = copyTask(task)
		d.tasks[task.ID] = rec
		return nil
	})
}

func (r taskRepository) ReplaceSkills(_ context.Context, taskID string, skillIDs []string) error {
	return r.s.write(func(d *dataset) error {
		rec, ok := d.tasks[taskID]
		if !ok {
			return domain.ErrTaskNotFound
		}
		rec.task.SkillIDs = copyIDs(skillIDs)
		d.tasks[taskID] = rec
		return nil
	})
}

func (r taskRepository) List(_ context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	var records []taskRecord
	err := r.s.read(func(d *dataset) error {
		for _, rec := range d.tasks {
			if filter.Match(rec.task) {
				records = append(records, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.task.CreatedAt.Equal(b.task.CreatedAt) {
			return a.task.CreatedAt.After(b.task.CreatedAt)
		}
		return a.seq > b.seq
	})

	tasks := make([]domain.Task, 0, len(records))
	for _, rec := range records {
		tasks = append(tasks, copyTask(rec.task))
	}
	return tasks, nil
}

type responseRepository struct{ s *Store }

func (r responseRepository) Create(_ context.Context, response domain.TaskResponse) error {
	return r.s.write(func(d *dataset) error {
		for _, rec := range d.responses {
			if rec.response.TaskID == response.TaskID && rec.response.VolunteerID == response.VolunteerID {
				return domain.ErrAlreadyResponded
			}
		}
		if response.Status == domain.TaskResponseStatusApproved && hasApproved(d, response.TaskID, response.ID) {
			return domain.ErrDuplicateApproval
		}
		d.responses[response.ID] = responseRecord{response: response, seq: d.next()}
		return nil
	})
}

func hasApproved(d *dataset, taskID, exceptID string) bool {
	for id, rec := range d.responses {
		if id != exceptID && rec.response.TaskID == taskID && rec.response.Status == domain.TaskResponseStatusApproved {
			return true
		}
	}
	return false
}

func (r responseRepository) Find(_ context.Context, taskID, volunteerID string) (domain.TaskResponse, error) {
	var found domain.TaskResponse
	err := r.s.read(func(d *dataset) error {
		for _, rec := range d.responses {
			if rec.response.TaskID == taskID && rec.response.VolunteerID == volunteerID {
				found = rec.response
				return nil
			}
		}
		return domain.ErrResponseNotFound
	})
	return found, err
}

func (r responseRepository) UpdateStatus(_ context.Context, id string, status domain.TaskResponseStatus) error {
	return r.s.write(func(d *dataset) error {
		rec, ok := d.responses[id]
		if !ok {
			return domain.ErrResponseNotFound
		}
		if status == domain.TaskResponseStatusApproved && hasApproved(d, rec.response.TaskID, id) {
			return domain.ErrDuplicateApproval
		}
		rec.response.Status = status
		d.responses[id] = rec
		return nil
	})
}

func (r responseRepository) RejectPendingExcept(_ context.Context, taskID, volunteerID string) (int64, error) {
	var changed int64
	err := r.s.write(func(d *dataset) error {
		for id, rec := range d.responses {
			if rec.response.TaskID != taskID || rec.response.VolunteerID == volunteerID {
				continue
			}
			if rec.response.Status != domain.TaskResponseStatusPending {
				continue
			}
			rec.response.Status = domain.TaskResponseStatusRejected
			d.responses[id] = rec
			changed++
		}
		return nil
	})
	return changed, err
}

func (r responseRepository) Delete(_ context.Context, id string) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.responses[id]; !ok {
			return domain.ErrResponseNotFound
		}
		delete(d.responses, id)
		return nil
	})
}

func (r responseRepository) list(keep func(domain.TaskResponse) bool) ([]domain.TaskResponse, error) {
	var records []responseRecord
	err := r.s.read(func(d *dataset) error {
		for _, rec := range d.responses {
			if keep(rec.response) {
				records = append(records, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.response.CreatedAt.Equal(b.response.CreatedAt) {
			return a.response.CreatedAt.After(b.response.CreatedAt)
		}
		return a.seq > b.seq
	})

	responses := make([]domain.TaskResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, rec.response)
	}
	return responses, nil
}

func (r responseRepository) ListByTask(_ context.Context, taskID string) ([]domain.TaskResponse, error) {
	return r.list(func(resp domain.TaskResponse) bool {
		return resp.TaskID == taskID
	})
}

func (r responseRepository) ListByVolunteer(_ context.Context, volunteerID string, status *domain.TaskResponseStatus) ([]domain.TaskResponse, error) {
	return r.list(func(resp domain.TaskResponse) bool {
		return resp.VolunteerID == volunteerID && (status == nil || resp.Status == *status)
	})
}

func (r responseRepository) RespondedTaskIDs(_ context.Context, volunteerID string, taskIDs []string) (map[string]bool, error) {
	wanted := make(map[string]struct{}, len(taskIDs))
	for _, id := range taskIDs {
		wanted[id] = struct{}{}
	}

	responded := make(map[string]bool)
	err := r.s.read(func(d *dataset) error {
		for _, rec := range d.responses {
			if rec.response.VolunteerID != volunteerID {
				continue
			}
			if _, ok := wanted[rec.response.TaskID]; ok {
				responded[rec.response.TaskID] = true
			}
		}
		return nil
	})
	return responded, err
}

type profileRepository struct{ s *Store }

func (r profileRepository) GetVolunteer(_ context.Context, userID string) (domain.Volunteer, error) {
	var volunteer domain.Volunteer
	err := r.s.read(func(d *dataset) error {
		v, ok := d.volunteers[userID]
		if !ok {
			return domain.ErrVolunteerNotFound
		}
		volunteer = v
		volunteer.ProgramIDs = copyIDs(v.ProgramIDs)
		volunteer.SkillIDs = copyIDs(v.SkillIDs)
		return nil
	})
	return volunteer, err
}

func (r profileRepository) GetNeedy(_ context.Context, userID string) (domain.Needy, error) {
	var needy domain.Needy
	err := r.s.read(func(d *dataset) error {
		n, ok := d.needies[userID]
		if !ok {
			return domain.ErrNeedyNotFound
		}
		needy = n
		return nil
	})
	return needy, err
}

type ledgerRepository struct{ s *Store }

func (r ledgerRepository) LockVolunteerBalance(_ context.Context, volunteerID string) (domain.Balance, error) {
	var balance domain.Balance
	err := r.s.read(func(d *dataset) error {
		v, ok := d.volunteers[volunteerID]
		if !ok {
			return domain.ErrVolunteerNotFound
		}
		balance = domain.Balance{Points: v.Points, CompletedTasksCount: v.CompletedTasksCount}
		return nil
	})
	return balance, err
}

func (r ledgerRepository) UpdateVolunteerBalance(_ context.Context, volunteerID string, balance domain.Balance) error {
	return r.s.write(func(d *dataset) error {
		v, ok := d.volunteers[volunteerID]
		if !ok {
			return domain.ErrVolunteerNotFound
		}
		v.Points = balance.Points
		v.CompletedTasksCount = balance.CompletedTasksCount
		d.volunteers[volunteerID] = v
		return nil
	})
}

func (r ledgerRepository) Insert(_ context.Context, txn domain.PointsTransaction) error {
	return r.s.write(func(d *dataset) error {
		if txn.TaskID != nil && txn.Type == domain.PointsTransactionTaskCompletion {
			for _, existing := range d.ledger {
				if existing.TaskID != nil && *existing.TaskID == *txn.TaskID && existing.Type == domain.PointsTransactionTaskCompletion {
					return domain.ErrDuplicateTaskCredit
				}
			}
		}
		d.ledger = append(d.ledger, txn)
		return nil
	})
}

func (r ledgerRepository) ListByVolunteer(_ context.Context, volunteerID string, limit, offset int) ([]domain.PointsTransaction, int, error) {
	var matched []domain.PointsTransaction
	err := r.s.read(func(d *dataset) error {
		for i := len(d.ledger) - 1; i >= 0; i-- {
			if d.ledger[i].VolunteerID == volunteerID {
				matched = append(matched, d.ledger[i])
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	total := len(matched)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

type ratingRepository struct{ s *Store }

func (r ratingRepository) Create(_ context.Context, rating domain.VolunteerRating) error {
	return r.s.write(func(d *dataset) error {
		for _, existing := range d.ratings {
			if existing.TaskID == rating.TaskID && existing.RatedByUserID == rating.RatedByUserID {
				return domain.ErrAlreadyRated
			}
		}
		d.ratings = append(d.ratings, rating)
		return nil
	})
}

func (r ratingRepository) Exists(_ context.Context, taskID, ratedByUserID string) (bool, error) {
	var exists bool
	err := r.s.read(func(d *dataset) error {
		for _, existing := range d.ratings {
			if existing.TaskID == taskID && existing.RatedByUserID == ratedByUserID {
				exists = true
				return nil
			}
		}
		return nil
	})
	return exists, err
}

func (r ratingRepository) LockSummary(_ context.Context, volunteerID string) (domain.RatingSummary, error) {
	var summary domain.RatingSummary
	err := r.s.read(func(d *dataset) error {
		v, ok := d.volunteers[volunteerID]
		if !ok {
			return domain.ErrVolunteerNotFound
		}
		if v.Rating != nil {
			summary.Rating = *v.Rating
		}
		summary.RatingCount = v.RatingCount
		return nil
	})
	return summary, err
}

func (r ratingRepository) UpdateSummary(_ context.Context, volunteerID string, summary domain.RatingSummary) error {
	return r.s.write(func(d *dataset) error {
		v, ok := d.volunteers[volunteerID]
		if !ok {
			return domain.ErrVolunteerNotFound
		}
		rating := summary.Rating
		v.Rating = &rating
		v.RatingCount = summary.RatingCount
		d.volunteers[volunteerID] = v
		return nil
	})
}

func (r ratingRepository) ListByVolunteer(_ context.Context, volunteerID string) ([]domain.VolunteerRating, error) {
	var ratings []domain.VolunteerRating
	err := r.s.read(func(d *dataset) error {
		for i := len(d.ratings) - 1; i >= 0; i-- {
			if d.ratings[i].VolunteerID == volunteerID {
				ratings = append(ratings, d.ratings[i])
			}
		}
		return nil
	})
	return ratings, err
}

type catalogRepository struct{ s *Store }

func (r catalogRepository) FindProgram(_ context.Context, id string) (domain.Program, error) {
	var program domain.Program
	err := r.s.read(func(d *dataset) error {
		p, ok := d.programs[id]
		if !ok {
			return domain.ErrProgramNotFound
		}
		program = p
		return nil
	})
	return program, err
}

func (r catalogRepository) FindCategory(_ context.Context, id string) (domain.Category, error) {
	var category domain.Category
	err := r.s.read(func(d *dataset) error {
		c, ok := d.categories[id]
		if !ok {
			return domain.ErrCategoryNotFound
		}
		category = c
		return nil
	})
	return category, err
}

func (r catalogRepository) FindSkillsByIDs(_ context.Context, ids []string) ([]domain.Skill, error) {
	skills := make([]domain.Skill, 0, len(ids))
	err := r.s.read(func(d *dataset) error {
		for _, id := range ids {
			if skill, ok := d.skills[id]; ok {
				skills = append(skills, skill)
			}
		}
		return nil
	})
	return skills, err
}

func (r catalogRepository) FindCity(_ context.Context, id string) (domain.City, error) {
	var city domain.City
	err := r.s.read(func(d *dataset) error {
		c, ok := d.cities[id]
		if !ok {
			return domain.ErrCityNotFound
		}
		city = c
		return nil
	})
	return city, err
}

func (r catalogRepository) CityIDsForCity(_ context.Context, cityID string) ([]string, error) {
	var ids []string
	err := r.s.read(func(d *dataset) error {
		city, ok := d.cities[cityID]
		if !ok {
			ids = []string{}
			return nil
		}
		if city.GroupID == nil {
			ids = []string{city.ID}
			return nil
		}
		for _, c := range d.cities {
			if c.GroupID != nil && *c.GroupID == *city.GroupID {
				ids = append(ids, c.ID)
			}
		}
		sort.Strings(ids)
		return nil
	})
	return ids, err
}
