package handler

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gestion-entretiens/backend/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeStore struct {
	mu     sync.Mutex
	nextID int64

	managers           map[int64]*domain.Manager
	pending            map[int64]*domain.PendingVerification
	employees          map[int64]*domain.Employee
	interviews         map[int64]*domain.Interview
	notes              map[int64]*domain.Note
	interviewTemplates map[int64]*domain.InterviewTemplate
	goalTemplates      map[int64]*domain.GoalTemplate
	assignments        map[int64]*domain.GoalAssignment

	pingErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		managers:           map[int64]*domain.Manager{},
		pending:            map[int64]*domain.PendingVerification{},
		employees:          map[int64]*domain.Employee{},
		interviews:         map[int64]*domain.Interview{},
		notes:              map[int64]*domain.Note{},
		interviewTemplates: map[int64]*domain.InterviewTemplate{},
		goalTemplates:      map[int64]*domain.GoalTemplate{},
		assignments:        map[int64]*domain.GoalAssignment{},
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) Ping(ctx context.Context) error {
	return s.pingErr
}

func (s *fakeStore) GetManagerByID(ctx context.Context, id int64) (*domain.Manager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.managers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := *m
	return &c, nil
}

func (s *fakeStore) GetManagerByEmail(ctx context.Context, email string) (*domain.Manager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.managers {
		if strings.EqualFold(m.Email, email) {
			c := *m
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeStore) CheckEmailIfExists(ctx context.Context, email string) (bool, error) {
	_, err := s.GetManagerByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *fakeStore) addManager(m *domain.Manager) *domain.Manager {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.id()
	s.managers[m.ID] = m
	return m
}

func (s *fakeStore) ReplacePendingVerification(ctx context.Context, pv *domain.PendingVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.pending {
		if strings.EqualFold(p.Email, pv.Email) && !p.Verified {
			delete(s.pending, id)
		}
	}

	pv.ID = s.id()
	pv.CreatedAt = time.Now()
	c := *pv
	s.pending[pv.ID] = &c
	return nil
}

func (s *fakeStore) GetPendingVerification(ctx context.Context, email string, code string) (*domain.PendingVerification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.pending {
		if strings.EqualFold(p.Email, email) && p.Code == code && !p.Verified {
			c := *p
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeStore) DeletePendingVerification(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, id)
	return nil
}

func (s *fakeStore) CompleteSignup(ctx context.Context, pv *domain.PendingVerification) (*domain.Manager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.managers {
		if strings.EqualFold(m.Email, pv.Email) {
			return nil, &pgconn.PgError{Code: "23505", ConstraintName: "managers_email_key"}
		}
	}

	m := &domain.Manager{
		ID:           s.id(),
		Name:         pv.Name,
		Email:        pv.Email,
		PasswordHash: pv.PasswordHash,
		Department:   pv.Department,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.managers[m.ID] = m
	delete(s.pending, pv.ID)

	c := *m
	return &c, nil
}

func (s *fakeStore) GetEmployees(ctx context.Context, managerID int64) ([]*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	employees := []*domain.Employee{}
	for _, e := range s.employees {
		if e.ManagerID == managerID {
			c := *e
			employees = append(employees, &c)
		}
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].Name < employees[j].Name })
	return employees, nil
}

func (s *fakeStore) GetEmployee(ctx context.Context, managerID int64, id int64) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[id]
	if !ok || e.ManagerID != managerID {
		return nil, sql.ErrNoRows
	}
	c := *e
	return &c, nil
}

func (s *fakeStore) CreateEmployee(ctx context.Context, employee *domain.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	employee.ID = s.id()
	employee.Version = 1
	c := *employee
	s.employees[employee.ID] = &c
	return nil
}

func (s *fakeStore) UpdateEmployee(ctx context.Context, employee *domain.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[employee.ID]
	if !ok || e.ManagerID != employee.ManagerID || e.Version != employee.Version {
		return sql.ErrNoRows
	}
	employee.Version++
	c := *employee
	s.employees[employee.ID] = &c
	return nil
}

func (s *fakeStore) DeleteEmployee(ctx context.Context, managerID int64, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[id]
	if !ok || e.ManagerID != managerID {
		return sql.ErrNoRows
	}

	for aid, a := range s.assignments {
		if a.EmployeeID == id {
			delete(s.assignments, aid)
		}
	}
	for iid, iv := range s.interviews {
		if iv.EmployeeID != id {
			continue
		}
		for nid, n := range s.notes {
			if n.InterviewID == iid {
				delete(s.notes, nid)
			}
		}
		delete(s.interviews, iid)
	}
	delete(s.employees, id)
	return nil
}

func (s *fakeStore) embedInterview(iv *domain.Interview) *domain.Interview {
	c := *iv
	if e, ok := s.employees[iv.EmployeeID]; ok {
		c.Employee = &domain.EmployeeSummary{ID: e.ID, Name: e.Name, Email: e.Email, Position: e.Position}
	}
	if iv.TemplateID != nil {
		if t, ok := s.interviewTemplates[*iv.TemplateID]; ok {
			c.Template = &domain.InterviewTemplateSummary{ID: t.ID, Name: t.Name, Type: t.Type, Structure: t.Structure}
		}
	}
	return &c
}

func (s *fakeStore) GetInterviews(ctx context.Context, managerID int64) ([]*domain.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	interviews := []*domain.Interview{}
	for _, iv := range s.interviews {
		if iv.ManagerID == managerID {
			interviews = append(interviews, s.embedInterview(iv))
		}
	}
	sort.Slice(interviews, func(i, j int) bool { return interviews[i].ScheduledAt.After(interviews[j].ScheduledAt) })
	return interviews, nil
}

func (s *fakeStore) GetInterview(ctx context.Context, managerID int64, id int64) (*domain.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	iv, ok := s.interviews[id]
	if !ok || iv.ManagerID != managerID {
		return nil, sql.ErrNoRows
	}
	return s.embedInterview(iv), nil
}

func (s *fakeStore) CreateInterview(ctx context.Context, interview *domain.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	interview.ID = s.id()
	interview.Version = 1
	c := *interview
	s.interviews[interview.ID] = &c
	return nil
}

func (s *fakeStore) UpdateInterview(ctx context.Context, interview *domain.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	iv, ok := s.interviews[interview.ID]
	if !ok || iv.ManagerID != interview.ManagerID || iv.Version != interview.Version {
		return sql.ErrNoRows
	}
	interview.Version++
	c := *interview
	s.interviews[interview.ID] = &c
	return nil
}

func (s *fakeStore) DeleteInterview(ctx context.Context, managerID int64, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	iv, ok := s.interviews[id]
	if !ok || iv.ManagerID != managerID {
		return sql.ErrNoRows
	}
	for nid, n := range s.notes {
		if n.InterviewID == id {
			delete(s.notes, nid)
		}
	}
	for _, a := range s.assignments {
		if a.InterviewID != nil && *a.InterviewID == id {
			a.InterviewID = nil
		}
	}
	delete(s.interviews, id)
	return nil
}

func (s *fakeStore) GetNotes(ctx context.Context, interviewID int64) ([]*domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := []*domain.Note{}
	for _, n := range s.notes {
		if n.InterviewID == interviewID {
			c := *n
			notes = append(notes, &c)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
	return notes, nil
}

func (s *fakeStore) GetNote(ctx context.Context, managerID int64, id int64) (*domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	iv, ok := s.interviews[n.InterviewID]
	if !ok || iv.ManagerID != managerID {
		return nil, sql.ErrNoRows
	}
	c := *n
	return &c, nil
}

func (s *fakeStore) CreateNote(ctx context.Context, note *domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	note.ID = s.id()
	c := *note
	s.notes[note.ID] = &c
	return nil
}

func (s *fakeStore) UpdateNote(ctx context.Context, note *domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[note.ID]; !ok {
		return sql.ErrNoRows
	}
	c := *note
	s.notes[note.ID] = &c
	return nil
}

func (s *fakeStore) DeleteNote(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.notes, id)
	return nil
}

func (s *fakeStore) GetInterviewTemplates(ctx context.Context) ([]*domain.InterviewTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates := []*domain.InterviewTemplate{}
	for _, t := range s.interviewTemplates {
		c := *t
		templates = append(templates, &c)
	}
	sort.Slice(templates, func(i, j int) bool {
		if templates[i].Type != templates[j].Type {
			return templates[i].Type < templates[j].Type
		}
		return templates[i].Name < templates[j].Name
	})
	return templates, nil
}

func (s *fakeStore) GetInterviewTemplate(ctx context.Context, id int64) (*domain.InterviewTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.interviewTemplates[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := *t
	return &c, nil
}

func (s *fakeStore) addInterviewTemplate(t *domain.InterviewTemplate) *domain.InterviewTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.id()
	s.interviewTemplates[t.ID] = t
	return t
}

func (s *fakeStore) GetActiveGoalTemplates(ctx context.Context) ([]*domain.GoalTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates := []*domain.GoalTemplate{}
	for _, t := range s.goalTemplates {
		if t.Active {
			c := *t
			templates = append(templates, &c)
		}
	}
	sort.Slice(templates, func(i, j int) bool {
		if templates[i].Category != templates[j].Category {
			return templates[i].Category < templates[j].Category
		}
		return templates[i].Title < templates[j].Title
	})
	return templates, nil
}

func (s *fakeStore) GetGoalTemplate(ctx context.Context, id int64) (*domain.GoalTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.goalTemplates[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := *t
	return &c, nil
}

func (s *fakeStore) CreateGoalTemplate(ctx context.Context, template *domain.GoalTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	template.ID = s.id()
	template.Active = true
	template.Version = 1
	c := *template
	s.goalTemplates[template.ID] = &c
	return nil
}

func (s *fakeStore) UpdateGoalTemplate(ctx context.Context, template *domain.GoalTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.goalTemplates[template.ID]
	if !ok || t.Version != template.Version {
		return sql.ErrNoRows
	}
	template.Version++
	c := *template
	s.goalTemplates[template.ID] = &c
	return nil
}

func (s *fakeStore) DeactivateGoalTemplate(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.goalTemplates[id]
	if !ok {
		return sql.ErrNoRows
	}
	t.Active = false
	t.Version++
	return nil
}

func (s *fakeStore) filterAssignments(managerID int64, keep func(a *domain.GoalAssignment) bool) []*domain.GoalAssignment {
	assignments := []*domain.GoalAssignment{}
	for _, a := range s.assignments {
		e, ok := s.employees[a.EmployeeID]
		if !ok || e.ManagerID != managerID || !keep(a) {
			continue
		}
		c := *a
		assignments = append(assignments, &c)
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].AssignedAt.After(assignments[j].AssignedAt) })
	return assignments
}

func (s *fakeStore) GetGoalAssignments(ctx context.Context, managerID int64) ([]*domain.GoalAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filterAssignments(managerID, func(*domain.GoalAssignment) bool { return true }), nil
}

func (s *fakeStore) GetGoalAssignmentsByEmployee(ctx context.Context, managerID int64, employeeID int64) ([]*domain.GoalAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filterAssignments(managerID, func(a *domain.GoalAssignment) bool { return a.EmployeeID == employeeID }), nil
}

func (s *fakeStore) GetGoalAssignmentsByInterview(ctx context.Context, managerID int64, interviewID int64) ([]*domain.GoalAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filterAssignments(managerID, func(a *domain.GoalAssignment) bool {
		return a.InterviewID != nil && *a.InterviewID == interviewID
	}), nil
}

func (s *fakeStore) GetGoalAssignment(ctx context.Context, managerID int64, id int64) (*domain.GoalAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assignments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	e, ok := s.employees[a.EmployeeID]
	if !ok || e.ManagerID != managerID {
		return nil, sql.ErrNoRows
	}
	c := *a
	return &c, nil
}

func (s *fakeStore) CreateGoalAssignment(ctx context.Context, assignment *domain.GoalAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	assignment.ID = s.id()
	assignment.Version = 1
	c := *assignment
	s.assignments[assignment.ID] = &c
	return nil
}

func (s *fakeStore) UpdateGoalAssignment(ctx context.Context, assignment *domain.GoalAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assignments[assignment.ID]
	if !ok || a.Version != assignment.Version {
		return sql.ErrNoRows
	}
	assignment.Version++
	c := *assignment
	s.assignments[assignment.ID] = &c
	return nil
}

func (s *fakeStore) DeleteGoalAssignment(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assignments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.assignments, id)
	return nil
}

func (s *fakeStore) GetDashboardStats(ctx context.Context, managerID int64, now time.Time) (*domain.DashboardStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &domain.DashboardStats{GoalsByStatus: map[domain.GoalStatus]int{}}
	for _, status := range domain.GoalStatuses {
		stats.GoalsByStatus[status] = 0
	}

	scheduled := map[int64]bool{}
	for _, iv := range s.interviews {
		if iv.ManagerID != managerID {
			continue
		}
		if iv.Status == domain.InterviewStatusCompleted {
			stats.CompletedInterviews++
		}
		if iv.Status.IsUpcoming() {
			scheduled[iv.EmployeeID] = true
			if !iv.ScheduledAt.Before(now) {
				stats.UpcomingInterviews++
			}
		}
	}
	for _, e := range s.employees {
		if e.ManagerID != managerID {
			continue
		}
		stats.TotalEmployees++
		if !scheduled[e.ID] {
			stats.EmployeesToSchedule++
		}
	}
	for _, a := range s.filterAssignments(managerID, func(*domain.GoalAssignment) bool { return true }) {
		stats.GoalsByStatus[a.Status]++
	}

	return stats, nil
}

type fakeQueue struct {
	mu       sync.Mutex
	messages []domain.MailMessage
	failOn   map[domain.MailType]error
}

func (q *fakeQueue) Publish(ctx context.Context, msg domain.MailMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.failOn[msg.Type]; err != nil {
		return err
	}
	q.messages = append(q.messages, msg)
	return nil
}

func (q *fakeQueue) last(t domain.MailType) (domain.MailMessage, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i := len(q.messages) - 1; i >= 0; i-- {
		if q.messages[i].Type == t {
			return q.messages[i], true
		}
	}
	return domain.MailMessage{}, false
}

type fakeLimiter struct {
	mu       sync.Mutex
	max      int
	attempts map[string]int
	err      error
}

func (l *fakeLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return false, l.err
	}
	return l.attempts[key] < l.max, nil
}

func (l *fakeLimiter) Hit(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return l.err
	}
	l.attempts[key]++
	return nil
}

func (l *fakeLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.attempts, key)
	return nil
}
