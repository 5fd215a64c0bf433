package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"horizon/coach-api/internal/domain"
)

func TestSubmitIntake_SecondSubmissionConflicts(t *testing.T) {
	repo := newFakeIntakeRepo()
	svc := NewIntakeService(repo, zap.NewNop())
	ctx := context.Background()
	caller := Caller{UserID: 5, Role: domain.RoleClient}

	first, err := svc.SubmitIntake(ctx, caller, 5, domain.Intake{ClientName: " Anna ", Sex: 1, Age: 3})
	require.NoError(t, err)
	assert.Equal(t, "Anna", first.ClientName)
	assert.Equal(t, int64(5), first.UserID)

	_, err = svc.SubmitIntake(ctx, caller, 5, domain.Intake{ClientName: "Changed", Sex: 2, Age: 4})
	assert.ErrorIs(t, err, ErrIntakeAlreadyExists)

	stored, err := svc.GetIntake(ctx, caller, 5)
	require.NoError(t, err)
	assert.Equal(t, "Anna", stored.ClientName)
	assert.Equal(t, 1, stored.Sex)
}

func TestSubmitIntake_Validation(t *testing.T) {
	svc := NewIntakeService(newFakeIntakeRepo(), zap.NewNop())
	caller := Caller{UserID: 5, Role: domain.RoleClient}

	for _, in := range []domain.Intake{
		{Sex: 1, Age: 2},
		{ClientName: "Anna", Age: 2},
		{ClientName: "Anna", Sex: 1},
	} {
		_, err := svc.SubmitIntake(context.Background(), caller, 5, in)
		assert.ErrorIs(t, err, ErrIntakeInvalid)
	}
}

func TestIntake_Access(t *testing.T) {
	repo := newFakeIntakeRepo()
	svc := NewIntakeService(repo, zap.NewNop())
	ctx := context.Background()

	_, err := svc.GetIntake(ctx, Caller{UserID: 5, Role: domain.RoleClient}, 6)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetIntake(ctx, Caller{UserID: 1, Role: domain.RolePT}, 6)
	assert.ErrorIs(t, err, ErrIntakeNotFound)

	_, err = svc.SubmitIntake(ctx, Caller{UserID: 5, Role: domain.RoleUser}, 6, domain.Intake{ClientName: "x", Sex: 1, Age: 1})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, repo.byUser)
}
