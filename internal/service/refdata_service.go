package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MaximusTitan/cms-api/internal/dto"
	appErrors "github.com/MaximusTitan/cms-api/pkg/errors"
)

const refCacheKeyPrefix = "refdata:"

type refDataCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// refCacheInvalidator is implemented by RefDataService and consumed by
// the entity services that mutate reference data.
type refCacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type teacherRefLister interface {
	ListRefs(ctx context.Context) ([]dto.TeacherRef, error)
}

type gradeRefLister interface {
	ListRefs(ctx context.Context) ([]dto.GradeRef, error)
}

type dmRefLister interface {
	ListRefs(ctx context.Context) ([]dto.DMRef, error)
}

type batchRefLister interface {
	ListRefs(ctx context.Context) ([]dto.BatchRef, error)
}

type subjectRefLister interface {
	ListRefs(ctx context.Context) ([]dto.SubjectRef, error)
}

// RefDataService serves the per-form reference lists. Every form kind
// maps to a fixed struct of lookup lists; payloads are cached in Redis
// with a TTL and flushed whenever an underlying entity mutates.
type RefDataService struct {
	cache    refDataCache
	teachers teacherRefLister
	grades   gradeRefLister
	managers dmRefLister
	batches  batchRefLister
	subjects subjectRefLister
	ttl      time.Duration
	logger   *zap.Logger
}

// NewRefDataService constructs a RefDataService.
func NewRefDataService(cache refDataCache, teachers teacherRefLister, grades gradeRefLister, managers dmRefLister, batches batchRefLister, subjects subjectRefLister, ttl time.Duration, logger *zap.Logger) *RefDataService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefDataService{
		cache:    cache,
		teachers: teachers,
		grades:   grades,
		managers: managers,
		batches:  batches,
		subjects: subjects,
		ttl:      ttl,
		logger:   logger,
	}
}

// FormRefs returns the reference lists backing the named entity form.
func (s *RefDataService) FormRefs(ctx context.Context, entity string) (interface{}, error) {
	switch entity {
	case "batch":
		return s.batchFormRefs(ctx)
	case "lesson":
		return s.lessonFormRefs(ctx)
	case "student":
		return s.studentFormRefs(ctx)
	case "subject":
		return s.subjectFormRefs(ctx)
	case "teacher":
		return s.teacherFormRefs(ctx)
	case "dm":
		return s.dmFormRefs(ctx)
	case "event":
		return s.eventFormRefs(ctx)
	case "announcement":
		return s.announcementFormRefs(ctx)
	case "recording":
		return s.recordingFormRefs(ctx)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown form entity")
	}
}

// Invalidate flushes every cached reference payload.
func (s *RefDataService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeleteByPattern(ctx, refCacheKeyPrefix+"*")
}

func (s *RefDataService) cached(ctx context.Context, key string, dest interface{}, load func() (interface{}, error)) (interface{}, error) {
	if s.cache != nil {
		if err := s.cache.Get(ctx, refCacheKeyPrefix+key, dest); err == nil {
			return dest, nil
		} else if !appErrors.Is(err, appErrors.ErrCacheMiss.Code) {
			s.logger.Warn("reference data cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	payload, err := load()
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, refCacheKeyPrefix+key, payload, s.ttl); err != nil {
			s.logger.Warn("reference data cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return payload, nil
}

func (s *RefDataService) batchFormRefs(ctx context.Context) (interface{}, error) {
	return s.cached(ctx, "batch", &dto.BatchFormRefs{}, func() (interface{}, error) {
		teachers, err := s.teachers.ListRefs(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher refs")
		}
		grades, err := s.grades.ListRefs(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade refs")
		}
		managers, err := s.managers.ListRefs(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load delivery manager refs")
		}
		return &dto.BatchFormRefs{Teachers: teachers, Grades: grades, DeliveryManagers: managers}, nil
	})
}

func (s *RefDataService) lessonFormRefs(ctx context.Context) (interface{}, error) {
	return s.cached(ctx, "lesson", &dto.LessonFormRefs{}, func() (interface{}, error) {
		subjects, err := s.subjects.ListRefs(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject refs")
		}
		batches, err := s.batches.ListRefs(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch refs")
		}
		teachers, err := s.teachers.ListRefs(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher refs")
		}
		return &dto.LessonFormRefs{Subjects: subjects, Batches: batches, Teachers: teachers}, nil
	})
}

func (s *RefDataService) studentFormRefs(ctx context.Context) (interface{}, error) {
	return s.cached(ctx, "student", &dto.StudentFormRefs{}, func() (interface{}, error) {
		grades, err := s.grades.ListRefs(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade refs")
		}
		batches, err := s.batches.ListRefs(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch refs")
		}
		return &dto.StudentFormRefs{Grades: grades, Batches: batches}, nil
	})
}

func (s *RefDataService) subjectFormRefs(ctx context.Context) (interface{}, error) {
	return s.cached(ctx, "subject", &dto.SubjectFormRefs{}, func() (interface{}, error) {
		teachers, err := s.teachers.ListRefs(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher refs")
		}
		return &dto.SubjectFormRefs{Teachers: teachers}, nil
	})
}

func (s *RefDataService) teacherFormRefs(ctx context.Context) (interface{}, error) {
	return s.cached(ctx, "teacher", &dto.TeacherFormRefs{}, func() (interface{}, error) {
		subjects, err := s.subjects.ListRefs(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject refs")
		}
		return &dto.TeacherFormRefs{Subjects: subjects}, nil
	})
}

func (s *RefDataService) dmFormRefs(ctx context.Context) (interface{}, error) {
	return s.cached(ctx, "dm", &dto.DMFormRefs{}, func() (interface{}, error) {
		batches, err := s.batches.ListRefs(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch refs")
		}
		return &dto.DMFormRefs{Batches: batches}, nil
	})
}

func (s *RefDataService) eventFormRefs(ctx context.Context) (interface{}, error) {
	return s.cached(ctx, "event", &dto.EventFormRefs{}, func() (interface{}, error) {
		batches, err := s.batches.ListRefs(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch refs")
		}
		return &dto.EventFormRefs{Batches: batches}, nil
	})
}

func (s *RefDataService) announcementFormRefs(ctx context.Context) (interface{}, error) {
	return s.cached(ctx, "announcement", &dto.AnnouncementFormRefs{}, func() (interface{}, error) {
		batches, err := s.batches.ListRefs(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch refs")
		}
		return &dto.AnnouncementFormRefs{Batches: batches}, nil
	})
}

func (s *RefDataService) recordingFormRefs(ctx context.Context) (interface{}, error) {
	return s.cached(ctx, "recording", &dto.RecordingFormRefs{}, func() (interface{}, error) {
		batches, err := s.batches.ListRefs(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch refs")
		}
		teachers, err := s.teachers.ListRefs(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher refs")
		}
		return &dto.RecordingFormRefs{Batches: batches, Teachers: teachers}, nil
	})
}
