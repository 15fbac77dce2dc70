package testimonial

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/dental-api/internal/model"
	"github.com/jwalitptl/dental-api/pkg/errors"
	"github.com/jwalitptl/dental-api/pkg/logger"
	"github.com/jwalitptl/dental-api/pkg/validator"
)

type memRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*model.Testimonial
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[int64]*model.Testimonial)}
}

func (r *memRepo) Create(ctx context.Context, t *model.Testimonial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t.ID = r.nextID
	cp := *t
	r.rows[t.ID] = &cp
	return nil
}

func (r *memRepo) Get(ctx context.Context, id int64) (*model.Testimonial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[id]
	if !ok {
		return nil, errors.NotFound("testimonial", nil)
	}
	cp := *t
	return &cp, nil
}

func (r *memRepo) Update(ctx context.Context, t *model.Testimonial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[t.ID]; !ok {
		return errors.NotFound("testimonial", nil)
	}
	cp := *t
	r.rows[t.ID] = &cp
	return nil
}

func (r *memRepo) SetApproved(ctx context.Context, id int64, approved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[id]
	if !ok {
		return errors.NotFound("testimonial", nil)
	}
	t.Approved = approved
	return nil
}

func (r *memRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return errors.NotFound("testimonial", nil)
	}
	delete(r.rows, id)
	return nil
}

func (r *memRepo) List(ctx context.Context, filter model.TestimonialFilter) ([]*model.Testimonial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Testimonial{}
	for _, t := range r.rows {
		if filter.Approved != nil && t.Approved != *filter.Approved {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func intPtr(v int) *int { return &v }

func TestSubmitIsHiddenUntilApproved(t *testing.T) {
	svc := NewService(newMemRepo(), validator.New(), logger.Nop())
	ctx := context.Background()

	created, err := svc.Submit(ctx, model.CreateTestimonialRequest{Name: "Ana", Content: "Great care", Rating: intPtr(5)})
	require.NoError(t, err)
	assert.False(t, created.Approved)

	public, err := svc.ListApproved(ctx)
	require.NoError(t, err)
	assert.Empty(t, public)

	approved := true
	require.NoError(t, svc.SetApproved(ctx, created.ID, model.ApproveTestimonialRequest{Approved: &approved}))

	public, err = svc.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Ana", public[0].Name)
}

func TestSubmitValidation(t *testing.T) {
	svc := NewService(newMemRepo(), validator.New(), logger.Nop())

	_, err := svc.Submit(context.Background(), model.CreateTestimonialRequest{Name: "Ana", Content: "ok", Rating: intPtr(6)})
	assert.True(t, errors.IsValidation(err))

	_, err = svc.Submit(context.Background(), model.CreateTestimonialRequest{Name: "Ana"})
	assert.True(t, errors.IsValidation(err))
}

func TestSetApprovedRequiresValue(t *testing.T) {
	svc := NewService(newMemRepo(), validator.New(), logger.Nop())

	err := svc.SetApproved(context.Background(), 1, model.ApproveTestimonialRequest{})
	assert.True(t, errors.IsValidation(err))
}

func TestUpdateAndDelete(t *testing.T) {
	svc := NewService(newMemRepo(), validator.New(), logger.Nop())
	ctx := context.Background()

	created, err := svc.Submit(ctx, model.CreateTestimonialRequest{Name: "Ana", Content: "Great care"})
	require.NoError(t, err)

	content := "Great care, friendly staff"
	updated, err := svc.Update(ctx, created.ID, model.UpdateTestimonialRequest{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, content, updated.Content)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.True(t, errors.IsNotFound(err))
}
