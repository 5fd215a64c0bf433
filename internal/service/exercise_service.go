package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"horizon/coach-api/internal/apperr"
	"horizon/coach-api/internal/cache"
	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
	"horizon/coach-api/internal/storage"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound      = apperr.New(apperr.KindNotFound, "Exercise not found")
	ErrExerciseNameTaken     = apperr.New(apperr.KindConflict, "An exercise with this name already exists.")
	ErrExerciseFieldsMissing = apperr.Validation("Name, muscle group, and difficulty are required.")
	ErrExerciseInUse         = apperr.New(apperr.KindConflict, "Exercise is used by existing workouts.")
	ErrNegativeBaseline      = apperr.Validation("Baseline weights cannot be negative.")
	ErrMediaNotFound         = apperr.New(apperr.KindNotFound, "Exercise has no media.")
	ErrMediaDisabled         = apperr.New(apperr.KindUnavailable, "Media storage is not configured.")
	ErrMediaContentType      = apperr.Validation("Unsupported media content type.")
)

const exerciseCatalogKey = "exercises:all"

// ExerciseInput carries the writable fields of an exercise.
type ExerciseInput struct {
	Name        string
	MuscleGroup string
	Difficulty  string
	Baselines   domain.Baselines
}

// MediaUpload tells the client where to PUT a demo video.
type MediaUpload struct {
	UploadURL   string    `json:"upload_url"`
	ObjectKey   string    `json:"object_key"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type ExerciseService interface {
	CreateExercise(ctx context.Context, in ExerciseInput) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, id int64) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, id int64, in ExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, id int64) error
	CreateMediaUpload(ctx context.Context, id int64, contentType string) (*MediaUpload, error)
	GetMediaURL(ctx context.Context, id int64) (string, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	cache        cache.Cache
	cacheTTL     time.Duration
	media        storage.MediaStorage // nil when storage is disabled
	logger       *zap.Logger
}

// NewExerciseService creates a new instance of exerciseService. media may be
// nil, in which case the media endpoints report ErrMediaDisabled.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, c cache.Cache, cacheTTL time.Duration, media storage.MediaStorage, logger *zap.Logger) ExerciseService {
	if c == nil {
		c = cache.Noop{}
	}
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		cache:        c,
		cacheTTL:     cacheTTL,
		media:        media,
		logger:       logger,
	}
}

func (in *ExerciseInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.MuscleGroup = strings.TrimSpace(in.MuscleGroup)
	in.Difficulty = strings.TrimSpace(in.Difficulty)
	if in.Name == "" || in.MuscleGroup == "" || in.Difficulty == "" {
		return ErrExerciseFieldsMissing
	}
	b := in.Baselines
	for _, w := range []*float64{b.MenStarter, b.MenIntermediate, b.MenAdvanced, b.WomenStarter, b.WomenIntermediate, b.WomenAdvanced} {
		if w != nil && *w < 0 {
			return ErrNegativeBaseline
		}
	}
	return nil
}

func (in ExerciseInput) apply(e *domain.Exercise) {
	e.Name = in.Name
	e.MuscleGroup = in.MuscleGroup
	e.Difficulty = in.Difficulty
	e.MenStarterWeight = in.Baselines.MenStarter
	e.MenIntermediateWeight = in.Baselines.MenIntermediate
	e.MenAdvancedWeight = in.Baselines.MenAdvanced
	e.WomenStarterWeight = in.Baselines.WomenStarter
	e.WomenIntermediateWeight = in.Baselines.WomenIntermediate
	e.WomenAdvancedWeight = in.Baselines.WomenAdvanced
}

// CreateExercise adds an exercise to the catalog.
func (s *exerciseService) CreateExercise(ctx context.Context, in ExerciseInput) (*domain.Exercise, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{}
	in.apply(exercise)
	if err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		return nil, translate(err, nil, ErrExerciseNameTaken)
	}
	s.invalidateCatalog(ctx)
	return exercise, nil
}

// GetExerciseByID retrieves a single exercise.
func (s *exerciseService) GetExerciseByID(ctx context.Context, id int64) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrExerciseNotFound, nil)
	}
	return exercise, nil
}

// ListExercises serves the catalog from cache when possible. Cache failures
// only cost a database read.
func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	err := s.cache.Get(ctx, exerciseCatalogKey, &exercises)
	if err == nil {
		return exercises, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("exercise cache read failed", zap.Error(err))
	}

	exercises, err = s.exerciseRepo.List(ctx)
	if err != nil {
		return nil, translate(err, nil, nil)
	}
	if err := s.cache.Set(ctx, exerciseCatalogKey, exercises, s.cacheTTL); err != nil {
		s.logger.Warn("exercise cache write failed", zap.Error(err))
	}
	return exercises, nil
}

func (s *exerciseService) UpdateExercise(ctx context.Context, id int64, in ExerciseInput) (*domain.Exercise, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{ID: id}
	in.apply(exercise)
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, translate(err, ErrExerciseNotFound, ErrExerciseNameTaken)
	}
	s.invalidateCatalog(ctx)
	return exercise, nil
}

// DeleteExercise removes an exercise and, best effort, its media object.
func (s *exerciseService) DeleteExercise(ctx context.Context, id int64) error {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		return translate(err, ErrExerciseNotFound, nil)
	}
	if err := s.exerciseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return ErrExerciseInUse
		}
		return translate(err, ErrExerciseNotFound, nil)
	}
	s.invalidateCatalog(ctx)

	if exercise.HasMedia() && s.media != nil {
		if err := s.media.Delete(ctx, *exercise.MediaKey); err != nil {
			s.logger.Warn("orphaned exercise media", zap.Int64("exercise_id", id), zap.Error(err))
		}
	}
	return nil
}

// CreateMediaUpload records a fresh object key for the exercise and returns a
// presigned PUT URL for it.
func (s *exerciseService) CreateMediaUpload(ctx context.Context, id int64, contentType string) (*MediaUpload, error) {
	if s.media == nil {
		return nil, ErrMediaDisabled
	}
	if !storage.AllowedContentType(contentType) {
		return nil, ErrMediaContentType
	}
	if _, err := s.exerciseRepo.GetByID(ctx, id); err != nil {
		return nil, translate(err, ErrExerciseNotFound, nil)
	}

	key := storage.ExerciseMediaKey(id, contentType)
	url, err := s.media.PresignUpload(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "Could not prepare media upload.", err)
	}
	if err := s.exerciseRepo.SetMediaKey(ctx, id, key); err != nil {
		return nil, translate(err, ErrExerciseNotFound, nil)
	}
	s.invalidateCatalog(ctx)

	return &MediaUpload{
		UploadURL:   url,
		ObjectKey:   key,
		ContentType: contentType,
		ExpiresAt:   time.Now().Add(storage.DefaultPresignedURLExpiry),
	}, nil
}

func (s *exerciseService) GetMediaURL(ctx context.Context, id int64) (string, error) {
	if s.media == nil {
		return "", ErrMediaDisabled
	}
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		return "", translate(err, ErrExerciseNotFound, nil)
	}
	if !exercise.HasMedia() {
		return "", ErrMediaNotFound
	}
	url, err := s.media.PresignDownload(ctx, *exercise.MediaKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUnavailable, "Could not prepare media download.", err)
	}
	return url, nil
}

func (s *exerciseService) invalidateCatalog(ctx context.Context) {
	if err := s.cache.Delete(ctx, exerciseCatalogKey); err != nil {
		s.logger.Warn("exercise cache invalidation failed", zap.Error(err))
	}
}
