package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"horizon/coach-api/internal/cache"
	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
)

type fakeExerciseRepo struct {
	nextID    int64
	exercises map[int64]domain.Exercise
	listCalls int
	inUse     map[int64]bool
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: map[int64]domain.Exercise{}, inUse: map[int64]bool{}}
}

func (r *fakeExerciseRepo) nameTaken(name string, except int64) bool {
	for id, e := range r.exercises {
		if id != except && e.Name == name {
			return true
		}
	}
	return false
}

func (r *fakeExerciseRepo) Create(_ context.Context, e *domain.Exercise) error {
	if r.nameTaken(e.Name, 0) {
		return repository.ErrConflict
	}
	r.nextID++
	e.ID = r.nextID
	r.exercises[e.ID] = *e
	return nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id int64) (*domain.Exercise, error) {
	e, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *fakeExerciseRepo) List(_ context.Context) ([]domain.Exercise, error) {
	r.listCalls++
	out := []domain.Exercise{}
	for i := int64(1); i <= r.nextID; i++ {
		if e, ok := r.exercises[i]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, e *domain.Exercise) error {
	if _, ok := r.exercises[e.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.nameTaken(e.Name, e.ID) {
		return repository.ErrConflict
	}
	r.exercises[e.ID] = *e
	return nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	if r.inUse[id] {
		return repository.ErrInvalidReference
	}
	delete(r.exercises, id)
	return nil
}

func (r *fakeExerciseRepo) SetMediaKey(_ context.Context, id int64, key string) error {
	e, ok := r.exercises[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.MediaKey = &key
	r.exercises[id] = e
	return nil
}

type memCache struct {
	items map[string][]byte
}

func (c *memCache) Get(_ context.Context, key string, dest interface{}) error {
	data, ok := c.items[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

type fakeMedia struct {
	deleted []string
	fail    bool
}

func (m *fakeMedia) PresignUpload(_ context.Context, key, contentType string, _ time.Duration) (string, error) {
	if m.fail {
		return "", errors.New("s3 down")
	}
	return "https://bucket.example/" + key + "?upload", nil
}

func (m *fakeMedia) PresignDownload(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://bucket.example/" + key, nil
}

func (m *fakeMedia) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	return nil
}

func squatInput() ExerciseInput {
	return ExerciseInput{
		Name:        " Back Squat ",
		MuscleGroup: "legs",
		Difficulty:  "intermediate",
		Baselines:   domain.Baselines{WomenIntermediate: floatp(30)},
	}
}

func TestExerciseService_CRUD(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc := NewExerciseService(repo, nil, time.Minute, nil, zap.NewNop())
	ctx := context.Background()

	created, err := svc.CreateExercise(ctx, squatInput())
	require.NoError(t, err)
	assert.Equal(t, "Back Squat", created.Name)
	assert.Equal(t, 30.0, *created.WomenIntermediateWeight)

	_, err = svc.CreateExercise(ctx, squatInput())
	assert.ErrorIs(t, err, ErrExerciseNameTaken)

	_, err = svc.CreateExercise(ctx, ExerciseInput{Name: "x", MuscleGroup: " "})
	assert.ErrorIs(t, err, ErrExerciseFieldsMissing)

	in := squatInput()
	in.Baselines.MenAdvanced = floatp(-5)
	_, err = svc.CreateExercise(ctx, in)
	assert.ErrorIs(t, err, ErrNegativeBaseline)

	in = squatInput()
	in.Name = "Front Squat"
	updated, err := svc.UpdateExercise(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Front Squat", updated.Name)

	_, err = svc.UpdateExercise(ctx, 999, in)
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	repo.inUse[created.ID] = true
	assert.ErrorIs(t, svc.DeleteExercise(ctx, created.ID), ErrExerciseInUse)

	repo.inUse[created.ID] = false
	require.NoError(t, svc.DeleteExercise(ctx, created.ID))
	_, err = svc.GetExerciseByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestExerciseService_ListUsesCacheUntilWrite(t *testing.T) {
	repo := newFakeExerciseRepo()
	c := &memCache{items: map[string][]byte{}}
	svc := NewExerciseService(repo, c, time.Minute, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.CreateExercise(ctx, squatInput())
	require.NoError(t, err)

	first, err := svc.ListExercises(ctx)
	require.NoError(t, err)
	second, err := svc.ListExercises(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, first[0].Name, second[0].Name)

	in := squatInput()
	in.Name = "Deadlift"
	_, err = svc.CreateExercise(ctx, in)
	require.NoError(t, err)

	third, err := svc.ListExercises(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
	assert.Len(t, third, 2)
}

func TestExerciseService_Media(t *testing.T) {
	repo := newFakeExerciseRepo()
	media := &fakeMedia{}
	svc := NewExerciseService(repo, nil, time.Minute, media, zap.NewNop())
	ctx := context.Background()
	ex, err := svc.CreateExercise(ctx, squatInput())
	require.NoError(t, err)

	_, err = svc.GetMediaURL(ctx, ex.ID)
	assert.ErrorIs(t, err, ErrMediaNotFound)

	_, err = svc.CreateMediaUpload(ctx, ex.ID, "application/pdf")
	assert.ErrorIs(t, err, ErrMediaContentType)

	upload, err := svc.CreateMediaUpload(ctx, ex.ID, "video/mp4")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(upload.ObjectKey, ".mp4"))
	assert.Contains(t, upload.UploadURL, upload.ObjectKey)

	url, err := svc.GetMediaURL(ctx, ex.ID)
	require.NoError(t, err)
	assert.Contains(t, url, upload.ObjectKey)

	require.NoError(t, svc.DeleteExercise(ctx, ex.ID))
	assert.Equal(t, []string{upload.ObjectKey}, media.deleted)
}

func TestExerciseService_MediaDisabled(t *testing.T) {
	repo := newFakeExerciseRepo()
	svc := NewExerciseService(repo, nil, time.Minute, nil, zap.NewNop())

	_, err := svc.CreateMediaUpload(context.Background(), 1, "video/mp4")
	assert.ErrorIs(t, err, ErrMediaDisabled)
	_, err = svc.GetMediaURL(context.Background(), 1)
	assert.ErrorIs(t, err, ErrMediaDisabled)
}
