package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shivamnarkar47/ClearGive/internal/domain"
)

// Config holds connection settings for the persistence service.
type Config struct {
	BaseURL   string
	Token     string // opaque bearer credential identifying the caller
	TimeoutMs int
}

// Client is the persistence-service REST client. It is a thin, stateless
// request/response wrapper: no retries, no local caching. Mutations return
// the authoritative entity from the response; callers re-fetch aggregates
// rather than patching local copies.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = 15000
	}
	return &Client{
		cfg:      cfg,
		http:     &http.Client{},
		observer: observer,
	}
}

// envelope is the persistence service's response wrapper.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data"`

	raw []byte // full response body, for fields carried beside the envelope
}

// do performs one request and decodes the body. The decoded envelope is
// returned for success responses; failures map onto the error taxonomy with
// the server's message preserved.
func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	start := time.Now()
	env, code, err := c.roundTrip(ctx, method, path, body)

	event := CallEvent{
		Method:     method,
		Path:       path,
		StatusCode: code,
		LatencyMs:  time.Since(start).Milliseconds(),
		Success:    err == nil,
	}
	if err != nil {
		event.ErrorCode = errorCode(err)
	}
	c.observer.OnCallComplete(event)

	return env, err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any) (*envelope, int, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: reading response: %v", ErrRemote, err)
	}

	var env envelope
	if len(respBody) > 0 {
		// Tolerate non-JSON error bodies; the status code still classifies.
		_ = json.Unmarshal(respBody, &env)
		env.raw = respBody
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &env, resp.StatusCode, nil
	}

	msg := env.Message
	if msg == "" {
		msg = string(respBody)
	}
	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return nil, resp.StatusCode, fmt.Errorf("%w: %s", ErrValidation, msg)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, resp.StatusCode, fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case resp.StatusCode == http.StatusNotFound:
		return nil, resp.StatusCode, fmt.Errorf("%w: %s", ErrNotFound, msg)
	default:
		return nil, resp.StatusCode, fmt.Errorf("%w: status %d: %s", ErrRemote, resp.StatusCode, msg)
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decodeData(env, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	env, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	return decodeData(env, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	env, err := c.do(ctx, http.MethodPatch, path, body)
	if err != nil {
		return err
	}
	return decodeData(env, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

func decodeData(env *envelope, out any) error {
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decoding response data: %v", ErrRemote, err)
	}
	return nil
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "VALIDATION"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrRemote):
		return "REMOTE"
	default:
		return "UNKNOWN"
	}
}

func id(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}

// --- Users ---

type CreateUserInput struct {
	FirebaseID string `json:"firebase_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

func (c *Client) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	var u domain.User
	if err := c.post(ctx, "/users", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUser resolves a user by their opaque identity (Firebase ID).
func (c *Client) GetUser(ctx context.Context, firebaseID string) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/users/"+firebaseID, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// --- Charities ---

type CreateCharityInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Website     string `json:"website,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

func (c *Client) ListCharities(ctx context.Context) ([]domain.Charity, error) {
	var out []domain.Charity
	if err := c.get(ctx, "/charities", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCharity(ctx context.Context, charityID uint) (*domain.Charity, error) {
	var out domain.Charity
	if err := c.get(ctx, "/charities/"+id(charityID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCharity(ctx context.Context, in CreateCharityInput) (*domain.Charity, error) {
	var out domain.Charity
	if err := c.post(ctx, "/charities", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TransferOwnership(ctx context.Context, charityID uint, newOwnerEmail string) (*domain.Charity, error) {
	var out domain.Charity
	body := map[string]string{"newOwnerEmail": newOwnerEmail}
	if err := c.patch(ctx, "/charities/"+id(charityID)+"/transfer-ownership", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Cosigners & multi-sig settings ---

type CosignerInput struct {
	Email     string `json:"email"`
	UserID    string `json:"userId,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
}

type MultiSigInput struct {
	IsMultiSig         bool `json:"isMultiSig"`
	RequiredSignatures int  `json:"requiredSignatures"`
}

func (c *Client) AddCosigner(ctx context.Context, charityID uint, in CosignerInput) (*domain.Cosigner, error) {
	var out domain.Cosigner
	if err := c.post(ctx, "/charities/"+id(charityID)+"/cosigners", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveCosigner(ctx context.Context, charityID, cosignerID uint) error {
	return c.delete(ctx, "/charities/"+id(charityID)+"/cosigners/"+id(cosignerID))
}

func (c *Client) UpdateMultiSig(ctx context.Context, charityID uint, in MultiSigInput) (*domain.Charity, error) {
	var out domain.Charity
	if err := c.patch(ctx, "/charities/"+id(charityID)+"/multisig", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Budget categories ---

type BudgetCategoryInput struct {
	Name       string  `json:"name"`
	Allocation float64 `json:"allocation"`
}

func (c *Client) AddBudgetCategory(ctx context.Context, charityID uint, in BudgetCategoryInput) (*domain.BudgetCategory, error) {
	var out domain.BudgetCategory
	if err := c.post(ctx, "/charities/"+id(charityID)+"/budget", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBudgetCategory(ctx context.Context, charityID, categoryID uint, in BudgetCategoryInput) (*domain.BudgetCategory, error) {
	var out domain.BudgetCategory
	if err := c.patch(ctx, "/charities/"+id(charityID)+"/budget/"+id(categoryID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBudgetCategory(ctx context.Context, charityID, categoryID uint) error {
	return c.delete(ctx, "/charities/"+id(charityID)+"/budget/"+id(categoryID))
}

// --- Transaction approvals ---

type CreateApprovalInput struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Destination string `json:"destination,omitempty"`
}

// RefundResult carries the refund amount computed by the persistence
// service; the client never recomputes it.
type RefundResult struct {
	RefundAmount float64                    `json:"refundAmount"`
	Approval     domain.TransactionApproval `json:"approval"`
}

func (c *Client) ListApprovals(ctx context.Context, charityID uint) ([]domain.TransactionApproval, error) {
	var out []domain.TransactionApproval
	if err := c.get(ctx, "/charities/"+id(charityID)+"/approvals", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateApproval(ctx context.Context, charityID uint, in CreateApprovalInput) (*domain.TransactionApproval, error) {
	var out domain.TransactionApproval
	if err := c.post(ctx, "/charities/"+id(charityID)+"/approvals", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SignApproval(ctx context.Context, approvalID uint, email string) (*domain.TransactionApproval, error) {
	var out domain.TransactionApproval
	body := map[string]string{"email": email}
	if err := c.post(ctx, "/charities/approvals/"+id(approvalID)+"/sign", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExecuteApproval records an execution. The ledger payment already happened
// client-side; txHash is the real hash, recorded in place of a server-minted
// placeholder.
func (c *Client) ExecuteApproval(ctx context.Context, approvalID uint, txHash string) (*domain.TransactionApproval, error) {
	var out domain.TransactionApproval
	body := map[string]string{"txHash": txHash}
	if err := c.post(ctx, "/charities/approvals/"+id(approvalID)+"/execute", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RefundApproval(ctx context.Context, approvalID uint) (*RefundResult, error) {
	env, err := c.do(ctx, http.MethodPost, "/charities/approvals/"+id(approvalID)+"/refund", struct{}{})
	if err != nil {
		return nil, err
	}
	// The refund response carries refundAmount beside the envelope fields.
	var out RefundResult
	if err := decodeData(env, &out.Approval); err != nil {
		return nil, err
	}
	var extra struct {
		RefundAmount float64 `json:"refundAmount"`
	}
	if err := json.Unmarshal(env.raw, &extra); err == nil {
		out.RefundAmount = extra.RefundAmount
	}
	return &out, nil
}

// --- Milestones ---

type MilestoneInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	DueDate     time.Time `json:"dueDate"`
}

type VerifyResult struct {
	Milestone    domain.Milestone             `json:"milestone"`
	Verification domain.MilestoneVerification `json:"verification"`
}

type ReleaseResult struct {
	Milestone domain.Milestone `json:"milestone"`
	TxHash    string           `json:"txHash"`
}

func (c *Client) ListMilestones(ctx context.Context, approvalID uint) ([]domain.Milestone, error) {
	var out []domain.Milestone
	if err := c.get(ctx, "/charities/approvals/"+id(approvalID)+"/milestones", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateMilestone(ctx context.Context, approvalID uint, in MilestoneInput) (*domain.Milestone, error) {
	var out domain.Milestone
	if err := c.post(ctx, "/charities/approvals/"+id(approvalID)+"/milestones", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompleteMilestone(ctx context.Context, milestoneID uint, proof string) (*domain.Milestone, error) {
	var out domain.Milestone
	body := map[string]string{"proof": proof}
	if err := c.patch(ctx, "/charities/milestones/"+id(milestoneID)+"/complete", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyMilestone(ctx context.Context, milestoneID uint, comments string, status domain.VerificationStatus) (*VerifyResult, error) {
	var out VerifyResult
	body := map[string]string{"comments": comments, "status": string(status)}
	if err := c.patch(ctx, "/charities/milestones/"+id(milestoneID)+"/verify", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReleaseMilestone(ctx context.Context, milestoneID uint, txHash string) (*ReleaseResult, error) {
	var out ReleaseResult
	body := map[string]string{"txHash": txHash}
	if err := c.post(ctx, "/charities/milestones/"+id(milestoneID)+"/release", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Donations & certificates ---

type DonationInput struct {
	Amount    string `json:"amount"`
	CharityID uint   `json:"charityId"`
	DonorID   string `json:"donorId"`
	Message   string `json:"message,omitempty"`
	TxHash    string `json:"txHash"`
	Status    string `json:"status"`
	Category  string `json:"category,omitempty"`
}

func (c *Client) ListDonations(ctx context.Context) ([]domain.Donation, error) {
	var out []domain.Donation
	if err := c.get(ctx, "/donations", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateDonation(ctx context.Context, in DonationInput) (*domain.Donation, error) {
	var out domain.Donation
	if err := c.post(ctx, "/donations", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GenerateCertificate(ctx context.Context, donationID uint) (*domain.Certificate, error) {
	var out domain.Certificate
	body := map[string]uint{"donationId": donationID}
	if err := c.post(ctx, "/certificates/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCertificateByToken(ctx context.Context, tokenID string) (*domain.Certificate, error) {
	var out domain.Certificate
	if err := c.get(ctx, "/certificates/token/"+tokenID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUserCertificates(ctx context.Context, userID string) ([]domain.Certificate, error) {
	var out []domain.Certificate
	if err := c.get(ctx, "/certificates/user/"+userID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) VerifyCertificate(ctx context.Context, tokenID string) (*domain.Certificate, error) {
	var out domain.Certificate
	if err := c.get(ctx, "/certificates/verify/"+tokenID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
