package fund

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivamnarkar47/ClearGive/internal/domain"
)

func TestCosignerAddRemoveRoundTrip(t *testing.T) {
	backend := newFakeBackend(t, testCharity())
	svc := NewCosignerService(backend.client(), testOwner())
	ctx := context.Background()

	before := len(backend.charity.Cosigners)

	added, err := svc.Add(ctx, 7, "newsigner@cleargive.org", "fb-new", false)
	require.NoError(t, err)
	assert.Equal(t, "newsigner@cleargive.org", added.Email)
	assert.Len(t, backend.charity.Cosigners, before+1)

	require.NoError(t, svc.Remove(ctx, 7, added.ID))
	assert.Len(t, backend.charity.Cosigners, before)
}

func TestCosignerAddRequiresOwner(t *testing.T) {
	backend := newFakeBackend(t, testCharity())
	svc := NewCosignerService(backend.client(), testCosigner(1))

	_, err := svc.Add(context.Background(), 7, "x@y.org", "", false)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCosignerAddRejectsEmptyEmail(t *testing.T) {
	backend := newFakeBackend(t, testCharity())
	svc := NewCosignerService(backend.client(), testOwner())

	_, err := svc.Add(context.Background(), 7, "   ", "", false)
	assert.ErrorIs(t, err, domain.ErrEmptyField)
}

func TestCosignerSecondPrimaryRejected(t *testing.T) {
	charity := testCharity()
	charity.Cosigners[0].IsPrimary = true
	backend := newFakeBackend(t, charity)
	svc := NewCosignerService(backend.client(), testOwner())

	_, err := svc.Add(context.Background(), 7, "another@cleargive.org", "", true)
	assert.ErrorIs(t, err, ErrPrimaryCosignerExists)
}

func TestCosignerRemoveUnknown(t *testing.T) {
	backend := newFakeBackend(t, testCharity())
	svc := NewCosignerService(backend.client(), testOwner())

	err := svc.Remove(context.Background(), 7, 4242)
	assert.Error(t, err)
}

func TestUpdateMultiSigValidation(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		required int
		wantErr  error
	}{
		{"enable with threshold 2", true, 2, nil},
		{"enable with threshold at signer count", true, 3, nil}, // 2 cosigners + owner
		{"enable with threshold 1", true, 1, domain.ErrThresholdTooLow},
		{"enable beyond signer pool", true, 4, domain.ErrThresholdTooHigh},
		{"disable ignores threshold", false, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend(t, testCharity())
			svc := NewCosignerService(backend.client(), testOwner())

			updated, err := svc.UpdateMultiSig(context.Background(), 7, tt.enabled, tt.required)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.enabled, updated.IsMultiSig)
		})
	}
}

func TestDisablingMultiSigLeavesPendingApprovalsUntouched(t *testing.T) {
	backend := newFakeBackend(t, testCharity())
	fl := newFakeLedger()
	ctx := context.Background()

	approvalSvc := NewApprovalService(backend.client(), fl, memSecrets{}, testOwner())
	created, err := approvalSvc.Create(ctx, 7, CreateApprovalRequest{Amount: "100", Description: "x"})
	require.NoError(t, err)
	require.Equal(t, 2, created.RequiredSignatures)

	cosignerSvc := NewCosignerService(backend.client(), testOwner())
	_, err = cosignerSvc.UpdateMultiSig(ctx, 7, false, 0)
	require.NoError(t, err)

	// The in-flight approval keeps its snapshotted threshold.
	approvals, err := backend.client().ListApprovals(ctx, 7)
	require.NoError(t, err)
	require.Len(t, approvals, 1)
	assert.Equal(t, 2, approvals[0].RequiredSignatures)

	// New approvals snapshot the relaxed owner-only requirement.
	next, err := approvalSvc.Create(ctx, 7, CreateApprovalRequest{Amount: "50", Description: "y"})
	require.NoError(t, err)
	assert.Equal(t, 1, next.RequiredSignatures)
}
