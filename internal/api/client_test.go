package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shivamnarkar47/ClearGive/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Token: "firebase-uid-1"}, NoopObserver{})
}

func writeEnvelope(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"status": "success", "data": data})
}

func TestClient_BearerCredential(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, 200, []domain.Charity{})
	})

	_, err := c.ListCharities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer firebase-uid-1", gotAuth)
}

func TestClient_CreateApproval(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/charities/3/approvals", r.URL.Path)

		var in CreateApprovalInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "500", in.Amount)

		writeEnvelope(w, 201, domain.TransactionApproval{
			Meta:               domain.Meta{ID: 12},
			CharityID:          3,
			Amount:             in.Amount,
			Description:        in.Description,
			RequiredSignatures: 2,
			Status:             domain.ApprovalPending,
		})
	})

	got, err := c.CreateApproval(context.Background(), 3, CreateApprovalInput{
		Amount:      "500",
		Description: "Medical supplies",
		Category:    "Program Services",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(12), got.ID)
	assert.Equal(t, domain.ApprovalPending, got.Status)
	assert.Equal(t, 0, got.CurrentSignatures)
}

func TestClient_RefundApproval_AmountBesideEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/charities/approvals/12/refund", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":       "success",
			"message":      "Unspent funds refunded successfully",
			"refundAmount": 300.0,
			"data": domain.TransactionApproval{
				Meta:   domain.Meta{ID: 12},
				Status: domain.ApprovalRefunded,
			},
		})
	})

	got, err := c.RefundApproval(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, 300.0, got.RefundAmount)
	assert.Equal(t, domain.ApprovalRefunded, got.Approval.Status)
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name string
		code int
		want error
	}{
		{"validation", 400, ErrValidation},
		{"unauthorized", 401, ErrUnauthorized},
		{"forbidden", 403, ErrUnauthorized},
		{"not found", 404, ErrNotFound},
		{"server error", 500, ErrRemote},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": "nope"})
			})
			_, err := c.GetCharity(context.Background(), 1)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorContains(t, err, "nope")
		})
	}
}

func TestClient_UnreachableServerIsRemoteError(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1", TimeoutMs: 200}, NoopObserver{})
	_, err := c.ListCharities(context.Background())
	assert.ErrorIs(t, err, ErrRemote)
}

func TestClient_VerifyMilestone(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/charities/milestones/7/verify", r.URL.Path)
		writeEnvelope(w, 200, map[string]any{
			"milestone":    domain.Milestone{Meta: domain.Meta{ID: 7}, Status: domain.MilestoneVerified},
			"verification": domain.MilestoneVerification{Meta: domain.Meta{ID: 1}, Status: domain.VerificationApproved},
		})
	})

	got, err := c.VerifyMilestone(context.Background(), 7, "looks good", domain.VerificationApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.MilestoneVerified, got.Milestone.Status)
	assert.Equal(t, domain.VerificationApproved, got.Verification.Status)
}

func TestClient_ObserverReceivesEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": "Charity not found"})
	}))
	defer srv.Close()

	var events []CallEvent
	c := NewClient(Config{BaseURL: srv.URL}, observerFunc(func(e CallEvent) { events = append(events, e) }))

	_, err := c.GetCharity(context.Background(), 99)
	require.Error(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "NOT_FOUND", events[0].ErrorCode)
	assert.Equal(t, 404, events[0].StatusCode)
	assert.False(t, events[0].Success)
}

type observerFunc func(CallEvent)

func (f observerFunc) OnCallComplete(e CallEvent) { f(e) }
