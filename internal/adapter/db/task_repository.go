package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
)

const taskColumns = `
  t.id, t.program_id, t.needy_id, t.type, t.title, t.description, t.details, t.points, t.status,
  t.category_id, t.first_response_mode, t.assigned_volunteer_id, t.approve_by, t.city_id, t.address,
  t.latitude, t.longitude, t.created_at, t.updated_at`

const insertTaskQuery = `
INSERT INTO tasks (
  id, program_id, needy_id, type, title, description, details, points, status, category_id,
  first_response_mode, assigned_volunteer_id, approve_by, city_id, address, latitude, longitude,
  created_at, updated_at
) VALUES (
  :id, :program_id, :needy_id, :type, :title, :description, :details, :points, :status, :category_id,
  :first_response_mode, :assigned_volunteer_id, :approve_by, :city_id, :address, :latitude, :longitude,
  :created_at, :updated_at
);
`

const updateTaskQuery = `
UPDATE tasks SET
  type = :type,
  title = :title,
  description = :description,
  details = :details,
  points = :points,
  status = :status,
  category_id = :category_id,
  first_response_mode = :first_response_mode,
  assigned_volunteer_id = :assigned_volunteer_id,
  approve_by = :approve_by,
  updated_at = :updated_at
WHERE id = :id;
`

type TaskRepository struct {
	q sqlx.ExtContext
}

type taskRow struct {
	ID                  string          `db:"id"`
	ProgramID           string          `db:"program_id"`
	NeedyID             string          `db:"needy_id"`
	Type                string          `db:"type"`
	Title               string          `db:"title"`
	Description         string          `db:"description"`
	Details             sql.NullString  `db:"details"`
	Points              int             `db:"points"`
	Status              string          `db:"status"`
	CategoryID          sql.NullString  `db:"category_id"`
	FirstResponseMode   bool            `db:"first_response_mode"`
	AssignedVolunteerID sql.NullString  `db:"assigned_volunteer_id"`
	ApproveBy           uint8           `db:"approve_by"`
	CityID              sql.NullString  `db:"city_id"`
	Address             sql.NullString  `db:"address"`
	Latitude            sql.NullFloat64 `db:"latitude"`
	Longitude           sql.NullFloat64 `db:"longitude"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
}

type taskSkillRow struct {
	TaskID  string `db:"task_id"`
	SkillID string `db:"skill_id"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func (r *TaskRepository) Create(ctx context.Context, task domain.Task) error {
	if _, err := sqlx.NamedExecContext(ctx, r.q, insertTaskQuery, mapDomainTaskToRow(task)); err != nil {
		return err
	}
	return r.insertSkills(ctx, task.ID, task.SkillIDs)
}

func (r *TaskRepository) Get(ctx context.Context, id string) (domain.Task, error) {
	return r.get(ctx, "SELECT"+taskColumns+" FROM tasks t WHERE t.id = ?", id)
}

func (r *TaskRepository) GetForUpdate(ctx context.Context, id string) (domain.Task, error) {
	return r.get(ctx, "SELECT"+taskColumns+" FROM tasks t WHERE t.id = ? FOR UPDATE", id)
}

func (r *TaskRepository) get(ctx context.Context, query, id string) (domain.Task, error) {
	var row taskRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, err
	}

	skills, err := r.skillsFor(ctx, []string{id})
	if err != nil {
		return domain.Task{}, err
	}

	task := mapTaskRowToDomainTask(row)
	task.SkillIDs = skills[id]
	return task, nil
}

func (r *TaskRepository) Update(ctx context.Context, task domain.Task) error {
	res, err := sqlx.NamedExecContext(ctx, r.q, updateTaskQuery, mapDomainTaskToRow(task))
	if err != nil {
		return err
	}
	return requireAffected(res, func() (bool, error) { return r.exists(ctx, task.ID) }, domain.ErrTaskNotFound)
}

func (r *TaskRepository) ReplaceSkills(ctx context.Context, taskID string, skillIDs []string) error {
	if _, err := r.q.ExecContext(ctx, "DELETE FROM task_skills WHERE task_id = ?", taskID); err != nil {
		return err
	}
	return r.insertSkills(ctx, taskID, skillIDs)
}

func (r *TaskRepository) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	where, args := taskFilterClause(filter)
	query, args, err := in(r.q, "SELECT"+taskColumns+" FROM tasks t"+where+" ORDER BY t.created_at DESC, t.id DESC", args...)
	if err != nil {
		return nil, err
	}

	var rows []taskRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	skills, err := r.skillsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		task := mapTaskRowToDomainTask(row)
		task.SkillIDs = skills[row.ID]
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// taskFilterClause renders the SQL form of domain.TaskFilter.Match. Slice
// arguments are expanded by sqlx.In.
func taskFilterClause(f domain.TaskFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, values ...interface{}) {
		conds = append(conds, cond)
		args = append(args, values...)
	}

	if f.ProgramID != nil {
		add("t.program_id = ?", *f.ProgramID)
	}
	if f.ProgramIDs != nil {
		if len(f.ProgramIDs) == 0 {
			add("1 = 0")
		} else {
			add("t.program_id IN (?)", f.ProgramIDs)
		}
	}
	if f.Status != nil {
		add("t.status = ?", string(*f.Status))
	}
	if f.CategoryID != nil {
		add("t.category_id = ?", *f.CategoryID)
	}
	if f.NeedyID != nil {
		add("t.needy_id = ?", *f.NeedyID)
	}
	if f.AssignedVolunteerID != nil {
		add("t.assigned_volunteer_id = ?", *f.AssignedVolunteerID)
	}
	if f.IDs != nil {
		if len(f.IDs) == 0 {
			add("1 = 0")
		} else {
			add("t.id IN (?)", f.IDs)
		}
	}
	if f.Skills != nil {
		noSkills := "NOT EXISTS (SELECT 1 FROM task_skills ts WHERE ts.task_id = t.id)"
		if len(f.Skills.SkillIDs) == 0 {
			add(noSkills)
		} else {
			add("("+noSkills+" OR EXISTS (SELECT 1 FROM task_skills ts WHERE ts.task_id = t.id AND ts.skill_id IN (?)))", f.Skills.SkillIDs)
		}
	}
	if f.Cities != nil {
		if len(f.Cities.CityIDs) == 0 {
			add("t.city_id IS NULL")
		} else {
			add("(t.city_id IS NULL OR t.city_id IN (?))", f.Cities.CityIDs)
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *TaskRepository) insertSkills(ctx context.Context, taskID string, skillIDs []string) error {
	if len(skillIDs) == 0 {
		return nil
	}
	rows := make([]taskSkillRow, 0, len(skillIDs))
	for _, id := range skillIDs {
		rows = append(rows, taskSkillRow{TaskID: taskID, SkillID: id})
	}
	_, err := sqlx.NamedExecContext(ctx, r.q, "INSERT INTO task_skills (task_id, skill_id) VALUES (:task_id, :skill_id)", rows)
	return err
}

func (r *TaskRepository) skillsFor(ctx context.Context, taskIDs []string) (map[string][]string, error) {
	skills := make(map[string][]string, len(taskIDs))
	if len(taskIDs) == 0 {
		return skills, nil
	}

	query, args, err := in(r.q, "SELECT task_id, skill_id FROM task_skills WHERE task_id IN (?) ORDER BY task_id, skill_id", taskIDs)
	if err != nil {
		return nil, err
	}
	var rows []taskSkillRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		skills[row.TaskID] = append(skills[row.TaskID], row.SkillID)
	}
	return skills, nil
}

func (r *TaskRepository) exists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, "SELECT COUNT(*) FROM tasks WHERE id = ?", id); err != nil {
		return false, err
	}
	return n > 0, nil
}

// requireAffected returns notFound when nothing changed and the row does
// not exist. MySQL reports zero affected rows for a no-op update.
func requireAffected(res sql.Result, exists func() (bool, error), notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	ok, err := exists()
	if err != nil {
		return err
	}
	if !ok {
		return notFound
	}
	return nil
}

func mapDomainTaskToRow(task domain.Task) taskRow {
	row := taskRow{
		ID:                  task.ID,
		ProgramID:           task.ProgramID,
		NeedyID:             task.NeedyID,
		Type:                task.Type,
		Title:               task.Title,
		Description:         task.Description,
		Details:             nullString(task.Details),
		Points:              task.Points,
		Status:              string(task.Status),
		CategoryID:          nullString(task.CategoryID),
		FirstResponseMode:   task.FirstResponseMode,
		AssignedVolunteerID: nullString(task.AssignedVolunteerID),
		ApproveBy:           uint8(task.ApproveBy),
		CityID:              nullString(task.CityID),
		Address:             nullString(task.Address),
		CreatedAt:           task.CreatedAt,
		UpdatedAt:           task.UpdatedAt,
	}
	if task.Location != nil {
		row.Latitude = sql.NullFloat64{Float64: task.Location.Latitude, Valid: true}
		row.Longitude = sql.NullFloat64{Float64: task.Location.Longitude, Valid: true}
	}
	return row
}

func mapTaskRowToDomainTask(row taskRow) domain.Task {
	task := domain.Task{
		ID:                  row.ID,
		ProgramID:           row.ProgramID,
		NeedyID:             row.NeedyID,
		Type:                row.Type,
		Title:               row.Title,
		Description:         row.Description,
		Details:             stringPtr(row.Details),
		Points:              row.Points,
		Status:              domain.TaskStatus(row.Status),
		CategoryID:          stringPtr(row.CategoryID),
		FirstResponseMode:   row.FirstResponseMode,
		AssignedVolunteerID: stringPtr(row.AssignedVolunteerID),
		ApproveBy:           domain.Confirmations(row.ApproveBy),
		CityID:              stringPtr(row.CityID),
		Address:             stringPtr(row.Address),
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}

	if row.Latitude.Valid && row.Longitude.Valid {
		task.Location = &domain.GeoPoint{
			Latitude:  row.Latitude.Float64,
			Longitude: row.Longitude.Float64,
		}
	}

	return task
}
