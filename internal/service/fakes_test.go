package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return repository.ErrConflict
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := []domain.User{}
	for _, u := range r.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

// fakeGroupRepo keeps versions in memory with the same append-only rules as
// the postgres implementation.
type fakeGroupRepo struct {
	nextID       int64
	workouts     map[int64]domain.GroupWorkout
	exercises    map[int64][]domain.GroupWorkoutExercise
	participants map[int64][]domain.GroupWorkoutParticipant
	assignments  []domain.UserWorkout
	completed    []domain.CompletedGroupWorkout
	suggestions  []domain.SuggestionRow
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		workouts:     map[int64]domain.GroupWorkout{},
		exercises:    map[int64][]domain.GroupWorkoutExercise{},
		participants: map[int64][]domain.GroupWorkoutParticipant{},
	}
}

func (r *fakeGroupRepo) Create(_ context.Context, w *domain.GroupWorkout, exercises []domain.GroupWorkoutExercise, participants []domain.GroupWorkoutParticipant) error {
	r.nextID++
	w.ID = r.nextID
	w.CreatedAt = time.Now()
	r.workouts[w.ID] = *w
	r.exercises[w.ID] = append([]domain.GroupWorkoutExercise(nil), exercises...)
	r.participants[w.ID] = append([]domain.GroupWorkoutParticipant(nil), participants...)
	for _, p := range participants {
		id := w.ID
		r.assignments = append(r.assignments, domain.UserWorkout{
			UserID:         p.UserID,
			GroupWorkoutID: &id,
			AssignedBy:     w.TrainerID,
			Status:         domain.StatusAssigned,
		})
	}
	return nil
}

func (r *fakeGroupRepo) CreateVersion(_ context.Context, parentID int64, f domain.GroupWorkoutFields, exercises []domain.GroupWorkoutExercise) (*domain.GroupWorkout, error) {
	parent, ok := r.workouts[parentID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	child := parent
	r.nextID++
	child.ID = r.nextID
	child.UsageCount = 0
	child.ParentWorkoutID = &parentID
	if f.Name != nil {
		child.Name = *f.Name
	}
	if f.TrainerID != nil {
		child.TrainerID = f.TrainerID
	}
	if f.Date != nil {
		child.Date = *f.Date
	}
	if f.Notes != nil {
		child.Notes = f.Notes
	}
	if f.Level != nil {
		child.Level = f.Level
	}
	if f.Duration != nil {
		child.Duration = f.Duration
	}
	if exercises == nil {
		exercises = r.exercises[parentID]
	}
	r.workouts[child.ID] = child
	r.exercises[child.ID] = append([]domain.GroupWorkoutExercise(nil), exercises...)
	r.participants[child.ID] = append([]domain.GroupWorkoutParticipant(nil), r.participants[parentID]...)
	for i := range r.assignments {
		if a := r.assignments[i].GroupWorkoutID; a != nil && *a == parentID {
			id := child.ID
			r.assignments[i].GroupWorkoutID = &id
		}
	}
	return &child, nil
}

func (r *fakeGroupRepo) Finish(_ context.Context, id, userID int64, actuals domain.Actuals) (*domain.CompletedGroupWorkout, error) {
	w, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	matched := false
	for i := range r.assignments {
		a := &r.assignments[i]
		if a.UserID != userID || a.GroupWorkoutID == nil || *a.GroupWorkoutID != id {
			continue
		}
		if a.Status == domain.StatusCompleted {
			return nil, repository.ErrConflict
		}
		a.Status = domain.StatusCompleted
		matched = true
	}
	if !matched {
		gid := id
		r.assignments = append(r.assignments, domain.UserWorkout{UserID: userID, GroupWorkoutID: &gid, Status: domain.StatusCompleted})
	}
	done := domain.CompletedGroupWorkout{
		ID:             int64(len(r.completed) + 1),
		GroupWorkoutID: id,
		UserID:         userID,
		ActualSets:     actuals.Sets,
		ActualReps:     actuals.Reps,
		ActualWeight:   actuals.Weight,
		CompletedAt:    time.Now(),
	}
	r.completed = append(r.completed, done)
	w.UsageCount++
	r.workouts[id] = w
	return &done, nil
}

func (r *fakeGroupRepo) GetByID(_ context.Context, id int64) (*domain.GroupWorkout, error) {
	w, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (r *fakeGroupRepo) ListExercises(_ context.Context, id int64) ([]domain.GroupWorkoutExercise, error) {
	return append([]domain.GroupWorkoutExercise{}, r.exercises[id]...), nil
}

func (r *fakeGroupRepo) ListParticipantReps(_ context.Context, id int64) ([]domain.ParticipantRep, error) {
	rows := []domain.ParticipantRep{}
	for _, p := range r.participants[id] {
		for _, ex := range r.exercises[id] {
			reps := ex.Reps
			if p.CustomReps != nil {
				reps = *p.CustomReps
			}
			rows = append(rows, domain.ParticipantRep{UserID: p.UserID, ExerciseID: ex.ExerciseID, Reps: reps})
		}
	}
	return rows, nil
}

func (r *fakeGroupRepo) SuggestionRows(_ context.Context, _ int64) ([]domain.SuggestionRow, error) {
	return r.suggestions, nil
}

func (r *fakeGroupRepo) sorted(keep func(domain.GroupWorkout) bool) []domain.GroupWorkout {
	out := []domain.GroupWorkout{}
	for _, w := range r.workouts {
		if keep(w) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *fakeGroupRepo) List(_ context.Context) ([]domain.GroupWorkout, error) {
	return r.sorted(func(domain.GroupWorkout) bool { return true }), nil
}

func (r *fakeGroupRepo) ListByLevel(_ context.Context, level string) ([]domain.GroupWorkout, error) {
	return r.sorted(func(w domain.GroupWorkout) bool {
		return level == "" || (w.Level != nil && *w.Level == level)
	}), nil
}

func (r *fakeGroupRepo) ListByTrainer(_ context.Context, trainerID int64) ([]domain.GroupWorkout, error) {
	return r.sorted(func(w domain.GroupWorkout) bool {
		return w.TrainerID != nil && *w.TrainerID == trainerID
	}), nil
}

func (r *fakeGroupRepo) ListPublic(_ context.Context, limit int) ([]domain.GroupWorkout, error) {
	out := r.sorted(func(w domain.GroupWorkout) bool { return w.TrainerID == nil })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeGroupRepo) ListMostUsed(_ context.Context, limit int) ([]domain.GroupWorkout, error) {
	out := r.sorted(func(domain.GroupWorkout) bool { return true })
	sort.SliceStable(out, func(i, j int) bool { return out[i].UsageCount > out[j].UsageCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeGroupRepo) Search(_ context.Context, query string) ([]domain.GroupWorkout, error) {
	return r.sorted(func(w domain.GroupWorkout) bool { return w.Name == query }), nil
}

func (r *fakeGroupRepo) History(_ context.Context, id int64) ([]domain.GroupWorkout, error) {
	var chain []domain.GroupWorkout
	for {
		w, ok := r.workouts[id]
		if !ok {
			break
		}
		chain = append(chain, w)
		if w.ParentWorkoutID == nil {
			break
		}
		id = *w.ParentWorkoutID
	}
	if len(chain) == 0 {
		return nil, repository.ErrNotFound
	}
	return chain, nil
}

type fakeIntakeRepo struct {
	byUser map[int64]domain.Intake
}

func newFakeIntakeRepo() *fakeIntakeRepo {
	return &fakeIntakeRepo{byUser: map[int64]domain.Intake{}}
}

func (r *fakeIntakeRepo) Create(_ context.Context, intake *domain.Intake) error {
	if _, ok := r.byUser[intake.UserID]; ok {
		return repository.ErrConflict
	}
	intake.ID = int64(len(r.byUser) + 1)
	r.byUser[intake.UserID] = *intake
	return nil
}

func (r *fakeIntakeRepo) GetByUserID(_ context.Context, userID int64) (*domain.Intake, error) {
	intake, ok := r.byUser[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &intake, nil
}

type fakeLifestyleRepo struct {
	entries []domain.LifestyleEntry
}

func (r *fakeLifestyleRepo) Create(_ context.Context, entry *domain.LifestyleEntry) error {
	entry.ID = int64(len(r.entries) + 1)
	entry.Date = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeLifestyleRepo) ListByUser(_ context.Context, userID int64) ([]domain.LifestyleEntry, error) {
	out := []domain.LifestyleEntry{}
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID == userID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func int64p(v int64) *int64 { return &v }

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func strp(v string) *string { return &v }
