package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MaximusTitan/cms-api/internal/dto"
	appErrors "github.com/MaximusTitan/cms-api/pkg/errors"
)

type memoryCache struct {
	values   map[string][]byte
	getCalls int
	setCalls int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.getCalls++
	raw, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.setCalls++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.values = map[string][]byte{}
	return nil
}

type mockRefListers struct {
	teacherCalls int
}

func (m *mockRefListers) ListRefs(ctx context.Context) ([]dto.TeacherRef, error) {
	m.teacherCalls++
	return []dto.TeacherRef{{ID: "teacher-1", Name: "Ada", Surname: "Lovelace"}}, nil
}

type gradeListers struct{}

func (gradeListers) ListRefs(ctx context.Context) ([]dto.GradeRef, error) {
	return []dto.GradeRef{{ID: "grade-1", Level: "Grade 9"}}, nil
}

type dmListers struct{}

func (dmListers) ListRefs(ctx context.Context) ([]dto.DMRef, error) {
	return []dto.DMRef{{ID: "dm-1", Name: "Max", Surname: "Byrd"}}, nil
}

type batchListers struct{}

func (batchListers) ListRefs(ctx context.Context) ([]dto.BatchRef, error) {
	return []dto.BatchRef{{ID: "batch-1", Name: "Batch Alpha", Capacity: 30}}, nil
}

type subjectListers struct{}

func (subjectListers) ListRefs(ctx context.Context) ([]dto.SubjectRef, error) {
	return []dto.SubjectRef{{ID: "subject-1", Name: "Algebra"}}, nil
}

func newRefDataFixture() (*RefDataService, *memoryCache, *mockRefListers) {
	cache := newMemoryCache()
	teachers := &mockRefListers{}
	svc := NewRefDataService(cache, teachers, gradeListers{}, dmListers{}, batchListers{}, subjectListers{}, time.Minute, nil)
	return svc, cache, teachers
}

func TestFormRefsLoadsAndCachesBatchKind(t *testing.T) {
	svc, cache, teachers := newRefDataFixture()

	first, err := svc.FormRefs(context.Background(), "batch")
	require.NoError(t, err)
	refs, ok := first.(*dto.BatchFormRefs)
	require.True(t, ok)
	require.Len(t, refs.Teachers, 1)
	require.Len(t, refs.Grades, 1)
	require.Len(t, refs.DeliveryManagers, 1)
	require.Equal(t, 1, cache.setCalls)

	_, err = svc.FormRefs(context.Background(), "batch")
	require.NoError(t, err)
	require.Equal(t, 1, teachers.teacherCalls)
}

func TestFormRefsServesTeacherDMAndEventKinds(t *testing.T) {
	svc, _, _ := newRefDataFixture()

	teacherRefs, err := svc.FormRefs(context.Background(), "teacher")
	require.NoError(t, err)
	teacherForm, ok := teacherRefs.(*dto.TeacherFormRefs)
	require.True(t, ok)
	require.Len(t, teacherForm.Subjects, 1)
	require.Equal(t, "Algebra", teacherForm.Subjects[0].Name)

	dmRefs, err := svc.FormRefs(context.Background(), "dm")
	require.NoError(t, err)
	dmForm, ok := dmRefs.(*dto.DMFormRefs)
	require.True(t, ok)
	require.Len(t, dmForm.Batches, 1)

	eventRefs, err := svc.FormRefs(context.Background(), "event")
	require.NoError(t, err)
	eventForm, ok := eventRefs.(*dto.EventFormRefs)
	require.True(t, ok)
	require.Len(t, eventForm.Batches, 1)
	require.Equal(t, "Batch Alpha", eventForm.Batches[0].Name)
}

func TestFormRefsRejectsUnknownEntity(t *testing.T) {
	svc, _, _ := newRefDataFixture()

	_, err := svc.FormRefs(context.Background(), "mystery")

	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation.Code))
}

func TestInvalidateFlushesCachedRefs(t *testing.T) {
	svc, _, teachers := newRefDataFixture()

	_, err := svc.FormRefs(context.Background(), "subject")
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(context.Background()))
	_, err = svc.FormRefs(context.Background(), "subject")
	require.NoError(t, err)

	require.Equal(t, 2, teachers.teacherCalls)
}
