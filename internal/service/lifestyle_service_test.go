package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horizon/coach-api/internal/domain"
)

func TestLifestyleEntries(t *testing.T) {
	repo := &fakeLifestyleRepo{}
	svc := NewLifestyleService(repo)
	ctx := context.Background()
	me := Caller{UserID: 3, Role: domain.RoleClient}

	_, err := svc.AddEntry(ctx, me, 3, domain.LifestyleEntry{Stress: intp(2), Sleep: floatp(7.5)})
	require.NoError(t, err)
	second, err := svc.AddEntry(ctx, me, 3, domain.LifestyleEntry{Stress: intp(4), Note: strp("bad night")})
	require.NoError(t, err)
	assert.Equal(t, int64(3), second.UserID)

	entries, err := svc.ListEntries(ctx, me, 3)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID)

	_, err = svc.AddEntry(ctx, me, 3, domain.LifestyleEntry{Weight: floatp(-1)})
	assert.ErrorIs(t, err, ErrLifestyleInvalid)

	_, err = svc.ListEntries(ctx, me, 4)
	assert.ErrorIs(t, err, ErrForbidden)

	trainer := Caller{UserID: 9, Role: domain.RolePT}
	entries, err = svc.ListEntries(ctx, trainer, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
