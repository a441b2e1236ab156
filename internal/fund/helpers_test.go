package fund

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shivamnarkar47/ClearGive/internal/api"
	"github.com/shivamnarkar47/ClearGive/internal/domain"
	"github.com/shivamnarkar47/ClearGive/internal/keystore"
	"github.com/shivamnarkar47/ClearGive/internal/ledger"
)

// fakeBackend is an in-memory stand-in for the persistence service. It
// mirrors the endpoint shapes and the state transitions the real service
// performs: signature accumulation, threshold flips, spend tracking, and
// milestone transitions.
type fakeBackend struct {
	t       *testing.T
	srv     *httptest.Server
	charity domain.Charity

	approvals  []domain.TransactionApproval
	milestones map[uint][]domain.Milestone
	donations  []domain.Donation
	nextID     uint
}

func newFakeBackend(t *testing.T, charity domain.Charity) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		t:          t,
		charity:    charity,
		milestones: make(map[uint][]domain.Milestone),
		nextID:     100,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/charities/{id}", b.getCharity)
	mux.HandleFunc("GET /api/charities/{id}/approvals", b.listApprovals)
	mux.HandleFunc("POST /api/charities/{id}/approvals", b.createApproval)
	mux.HandleFunc("POST /api/charities/approvals/{id}/sign", b.signApproval)
	mux.HandleFunc("POST /api/charities/approvals/{id}/execute", b.executeApproval)
	mux.HandleFunc("POST /api/charities/approvals/{id}/refund", b.refundApproval)
	mux.HandleFunc("POST /api/charities/{id}/cosigners", b.addCosigner)
	mux.HandleFunc("DELETE /api/charities/{id}/cosigners/{cid}", b.removeCosigner)
	mux.HandleFunc("PATCH /api/charities/{id}/multisig", b.updateMultiSig)
	mux.HandleFunc("POST /api/charities/{id}/budget", b.addCategory)
	mux.HandleFunc("PATCH /api/charities/{id}/budget/{cid}", b.updateCategory)
	mux.HandleFunc("DELETE /api/charities/{id}/budget/{cid}", b.deleteCategory)
	mux.HandleFunc("GET /api/charities/approvals/{id}/milestones", b.listMilestones)
	mux.HandleFunc("POST /api/charities/approvals/{id}/milestones", b.createMilestone)
	mux.HandleFunc("POST /api/charities/milestones/{id}/release", b.releaseMilestone)
	mux.HandleFunc("GET /api/donations", b.listDonations)
	mux.HandleFunc("POST /api/donations", b.createDonation)
	mux.HandleFunc("POST /api/certificates/", b.generateCertificate)

	// ServeMux cannot register "PATCH /api/charities/milestones/{id}/..."
	// alongside "PATCH /api/charities/{id}/budget/{cid}" (neither pattern is
	// more specific), so the milestone PATCH routes live on a sub-mux keyed
	// off the literal "milestones" prefix.
	milestonePatch := http.NewServeMux()
	milestonePatch.HandleFunc("PATCH /api/charities/milestones/{id}/complete", b.completeMilestone)
	milestonePatch.HandleFunc("PATCH /api/charities/milestones/{id}/verify", b.verifyMilestone)
	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/api/charities/milestones/") {
			milestonePatch.ServeHTTP(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})

	b.srv = httptest.NewServer(root)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) client() *api.Client {
	return api.NewClient(api.Config{BaseURL: b.srv.URL + "/api", Token: "test-token"}, api.NoopObserver{})
}

func (b *fakeBackend) id() uint {
	b.nextID++
	return b.nextID
}

func (b *fakeBackend) writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "data": data})
}

func (b *fakeBackend) writeErr(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "error", "message": msg})
}

func pathID(r *http.Request, key string) uint {
	n, _ := strconv.ParseUint(r.PathValue(key), 10, 64)
	return uint(n)
}

func (b *fakeBackend) findApproval(id uint) *domain.TransactionApproval {
	for i := range b.approvals {
		if b.approvals[i].ID == id {
			return &b.approvals[i]
		}
	}
	return nil
}

func (b *fakeBackend) findMilestone(id uint) *domain.Milestone {
	for approvalID := range b.milestones {
		ms := b.milestones[approvalID]
		for i := range ms {
			if ms[i].ID == id {
				return &ms[i]
			}
		}
	}
	return nil
}

func (b *fakeBackend) getCharity(w http.ResponseWriter, r *http.Request) {
	if pathID(r, "id") != b.charity.ID {
		b.writeErr(w, http.StatusNotFound, "charity not found")
		return
	}
	b.writeData(w, b.charity)
}

func (b *fakeBackend) listApprovals(w http.ResponseWriter, r *http.Request) {
	b.writeData(w, b.approvals)
}

func (b *fakeBackend) createApproval(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Amount      string `json:"amount"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Destination string `json:"destination"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	a := domain.TransactionApproval{
		Meta:               domain.Meta{ID: b.id(), CreatedAt: time.Now()},
		CharityID:          b.charity.ID,
		Amount:             in.Amount,
		Description:        in.Description,
		Category:           in.Category,
		Destination:        in.Destination,
		RequiredSignatures: b.charity.EffectiveThreshold(),
		Status:             domain.ApprovalPending,
	}
	b.approvals = append(b.approvals, a)
	b.writeData(w, a)
}

func (b *fakeBackend) signApproval(w http.ResponseWriter, r *http.Request) {
	a := b.findApproval(pathID(r, "id"))
	if a == nil {
		b.writeErr(w, http.StatusNotFound, "approval not found")
		return
	}
	var in struct {
		Email string `json:"email"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	for _, s := range a.Signers {
		if strings.EqualFold(s, in.Email) {
			b.writeErr(w, http.StatusBadRequest, "already signed")
			return
		}
	}
	a.Signers = append(a.Signers, in.Email)
	a.CurrentSignatures = len(a.Signers)
	if a.CurrentSignatures >= a.RequiredSignatures {
		a.Status = domain.ApprovalApproved
	}
	b.writeData(w, a)
}

func (b *fakeBackend) executeApproval(w http.ResponseWriter, r *http.Request) {
	a := b.findApproval(pathID(r, "id"))
	if a == nil {
		b.writeErr(w, http.StatusNotFound, "approval not found")
		return
	}
	var in struct {
		TxHash string `json:"txHash"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	a.Status = domain.ApprovalExecuted
	a.TxHash = in.TxHash
	for i := range b.charity.BudgetCategories {
		if b.charity.BudgetCategories[i].Name == a.Category {
			amt, _ := strconv.ParseFloat(a.Amount, 64)
			b.charity.BudgetCategories[i].Spent += amt
		}
	}
	b.writeData(w, a)
}

func (b *fakeBackend) refundApproval(w http.ResponseWriter, r *http.Request) {
	a := b.findApproval(pathID(r, "id"))
	if a == nil {
		b.writeErr(w, http.StatusNotFound, "approval not found")
		return
	}
	total, _ := strconv.ParseFloat(a.Amount, 64)
	released, _ := domain.ReleasedTotal(b.milestones[a.ID]).Float64()
	a.Status = domain.ApprovalRefunded
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":       "success",
		"data":         a,
		"refundAmount": total - released,
	})
}

func (b *fakeBackend) addCosigner(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email     string `json:"email"`
		UserID    string `json:"userId"`
		IsPrimary bool   `json:"isPrimary"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	for _, cs := range b.charity.Cosigners {
		if strings.EqualFold(cs.Email, in.Email) {
			b.writeErr(w, http.StatusBadRequest, "cosigner already exists")
			return
		}
	}
	cs := domain.Cosigner{
		Meta:      domain.Meta{ID: b.id()},
		CharityID: b.charity.ID,
		Email:     in.Email,
		UserID:    in.UserID,
		IsPrimary: in.IsPrimary,
	}
	b.charity.Cosigners = append(b.charity.Cosigners, cs)
	b.writeData(w, cs)
}

func (b *fakeBackend) removeCosigner(w http.ResponseWriter, r *http.Request) {
	cid := pathID(r, "cid")
	for i, cs := range b.charity.Cosigners {
		if cs.ID == cid {
			b.charity.Cosigners = append(b.charity.Cosigners[:i], b.charity.Cosigners[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	b.writeErr(w, http.StatusNotFound, "cosigner not found")
}

func (b *fakeBackend) updateMultiSig(w http.ResponseWriter, r *http.Request) {
	var in struct {
		IsMultiSig         bool `json:"isMultiSig"`
		RequiredSignatures int  `json:"requiredSignatures"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	b.charity.IsMultiSig = in.IsMultiSig
	b.charity.RequiredSignatures = in.RequiredSignatures
	b.writeData(w, b.charity)
}

func (b *fakeBackend) addCategory(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name       string  `json:"name"`
		Allocation float64 `json:"allocation"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	bc := domain.BudgetCategory{
		Meta:       domain.Meta{ID: b.id()},
		CharityID:  b.charity.ID,
		Name:       in.Name,
		Allocation: in.Allocation,
	}
	b.charity.BudgetCategories = append(b.charity.BudgetCategories, bc)
	b.writeData(w, bc)
}

func (b *fakeBackend) updateCategory(w http.ResponseWriter, r *http.Request) {
	cid := pathID(r, "cid")
	var in struct {
		Name       string  `json:"name"`
		Allocation float64 `json:"allocation"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	for i := range b.charity.BudgetCategories {
		if b.charity.BudgetCategories[i].ID == cid {
			b.charity.BudgetCategories[i].Name = in.Name
			b.charity.BudgetCategories[i].Allocation = in.Allocation
			b.writeData(w, b.charity.BudgetCategories[i])
			return
		}
	}
	b.writeErr(w, http.StatusNotFound, "category not found")
}

func (b *fakeBackend) deleteCategory(w http.ResponseWriter, r *http.Request) {
	cid := pathID(r, "cid")
	for i := range b.charity.BudgetCategories {
		if b.charity.BudgetCategories[i].ID == cid {
			b.charity.BudgetCategories = append(b.charity.BudgetCategories[:i], b.charity.BudgetCategories[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	b.writeErr(w, http.StatusNotFound, "category not found")
}

func (b *fakeBackend) listMilestones(w http.ResponseWriter, r *http.Request) {
	b.writeData(w, b.milestones[pathID(r, "id")])
}

func (b *fakeBackend) createMilestone(w http.ResponseWriter, r *http.Request) {
	approvalID := pathID(r, "id")
	var in struct {
		Name        string    `json:"name"`
		Description string    `json:"description"`
		Amount      string    `json:"amount"`
		DueDate     time.Time `json:"dueDate"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	m := domain.Milestone{
		Meta:        domain.Meta{ID: b.id()},
		ApprovalID:  approvalID,
		Name:        in.Name,
		Description: in.Description,
		Amount:      in.Amount,
		DueDate:     in.DueDate,
		Status:      domain.MilestonePending,
	}
	b.milestones[approvalID] = append(b.milestones[approvalID], m)
	b.writeData(w, m)
}

func (b *fakeBackend) completeMilestone(w http.ResponseWriter, r *http.Request) {
	m := b.findMilestone(pathID(r, "id"))
	if m == nil {
		b.writeErr(w, http.StatusNotFound, "milestone not found")
		return
	}
	var in struct {
		Proof string `json:"proof"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	now := time.Now()
	m.Status = domain.MilestoneCompleted
	m.CompletionDate = &now
	m.VerificationProof = in.Proof
	b.writeData(w, m)
}

func (b *fakeBackend) verifyMilestone(w http.ResponseWriter, r *http.Request) {
	m := b.findMilestone(pathID(r, "id"))
	if m == nil {
		b.writeErr(w, http.StatusNotFound, "milestone not found")
		return
	}
	var in struct {
		Comments string `json:"comments"`
		Status   string `json:"status"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	if in.Status == string(domain.VerificationApproved) {
		m.Status = domain.MilestoneVerified
	} else {
		m.Status = domain.MilestoneRejected
	}
	v := domain.MilestoneVerification{
		Meta:        domain.Meta{ID: b.id()},
		MilestoneID: m.ID,
		Comments:    in.Comments,
		Status:      domain.VerificationStatus(in.Status),
	}
	b.writeData(w, map[string]any{"milestone": m, "verification": v})
}

func (b *fakeBackend) releaseMilestone(w http.ResponseWriter, r *http.Request) {
	m := b.findMilestone(pathID(r, "id"))
	if m == nil {
		b.writeErr(w, http.StatusNotFound, "milestone not found")
		return
	}
	var in struct {
		TxHash string `json:"txHash"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	m.Status = domain.MilestoneReleased
	m.TxHash = in.TxHash
	b.writeData(w, map[string]any{"milestone": m, "txHash": in.TxHash})
}

func (b *fakeBackend) listDonations(w http.ResponseWriter, r *http.Request) {
	b.writeData(w, b.donations)
}

func (b *fakeBackend) createDonation(w http.ResponseWriter, r *http.Request) {
	var in api.DonationInput
	_ = json.NewDecoder(r.Body).Decode(&in)
	d := domain.Donation{
		Meta:      domain.Meta{ID: b.id()},
		Amount:    in.Amount,
		CharityID: in.CharityID,
		DonorID:   in.DonorID,
		Message:   in.Message,
		TxHash:    in.TxHash,
		Status:    domain.DonationStatus(in.Status),
		Category:  in.Category,
	}
	b.donations = append(b.donations, d)
	b.writeData(w, d)
}

func (b *fakeBackend) generateCertificate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		DonationID uint `json:"donationId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	b.writeData(w, domain.Certificate{
		Meta:       domain.Meta{ID: b.id()},
		DonationID: in.DonationID,
		TokenID:    fmt.Sprintf("CERT-%d", in.DonationID),
		IssueDate:  time.Now(),
		Status:     "issued",
	})
}

// fakeLedger records payments and hands out deterministic hashes.
type fakeLedger struct {
	payments []ledger.PaymentParams
	balances map[string]string
	history  []ledger.TxRecord
	payErr   error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{balances: make(map[string]string)}
}

func (f *fakeLedger) ValidAddress(addr string) bool {
	return strings.HasPrefix(addr, "G") && len(addr) > 10
}

func (f *fakeLedger) AccountExists(ctx context.Context, addr string) (bool, error) {
	_, ok := f.balances[addr]
	return ok, nil
}

func (f *fakeLedger) NativeBalance(ctx context.Context, addr string) (string, error) {
	if bal, ok := f.balances[addr]; ok {
		return bal, nil
	}
	return "", ledger.ErrAccountNotFound
}

func (f *fakeLedger) Pay(ctx context.Context, p ledger.PaymentParams) (string, error) {
	if f.payErr != nil {
		return "", f.payErr
	}
	f.payments = append(f.payments, p)
	return fmt.Sprintf("txhash-%04d", len(f.payments)), nil
}

func (f *fakeLedger) Transactions(ctx context.Context, addr string) ([]ledger.TxRecord, error) {
	return f.history, nil
}

// memSecrets is an in-memory SecretSource keyed by address.
type memSecrets map[string]string

func (m memSecrets) Seed(ctx context.Context, address string) (string, error) {
	if seed, ok := m[address]; ok {
		return seed, nil
	}
	return "", keystore.ErrNoKey
}

// memReceipts is an in-memory ReceiptSink.
type memReceipts struct {
	saved []keystore.Receipt
}

func (m *memReceipts) SaveReceipt(ctx context.Context, r keystore.Receipt) error {
	m.saved = append(m.saved, r)
	return nil
}

func (m *memReceipts) Summarize(ctx context.Context, donorID string, year int) (*keystore.TaxSummary, error) {
	sum := &keystore.TaxSummary{Year: year, ByCharity: make(map[string]string)}
	var total float64
	for _, r := range m.saved {
		if r.DonorID != donorID || r.DonatedAt.Year() != year {
			continue
		}
		amt, _ := strconv.ParseFloat(r.Amount, 64)
		total += amt
		sum.DonationCount++
	}
	sum.Total = strconv.FormatFloat(total, 'f', -1, 64)
	return sum, nil
}

// Test fixture identities shared across the service tests.
const (
	charityWallet = "GCHARITYWALLETXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX"
	escrowWallet  = "GESCROWWALLETXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX"
	donorWallet   = "GDONORWALLETXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX"
)

func testOwner() *domain.User {
	return &domain.User{
		Meta:          domain.Meta{ID: 1},
		FirebaseID:    "fb-owner",
		Email:         "owner@cleargive.org",
		StellarWallet: domain.StellarWallet{PublicKey: donorWallet},
	}
}

func testCosigner(n int) *domain.User {
	return &domain.User{
		Meta:       domain.Meta{ID: uint(10 + n)},
		FirebaseID: fmt.Sprintf("fb-cosigner-%d", n),
		Email:      fmt.Sprintf("cosigner%d@cleargive.org", n),
	}
}

func testStranger() *domain.User {
	return &domain.User{
		Meta:       domain.Meta{ID: 99},
		FirebaseID: "fb-stranger",
		Email:      "stranger@example.com",
	}
}

// testCharity is a multi-sig charity with two cosigners and a threshold of 2.
func testCharity() domain.Charity {
	return domain.Charity{
		Meta:               domain.Meta{ID: 7},
		Name:               "Clean Water Fund",
		WalletAddress:      charityWallet,
		OwnerID:            1,
		IsMultiSig:         true,
		RequiredSignatures: 2,
		Cosigners: []domain.Cosigner{
			{Meta: domain.Meta{ID: 21}, CharityID: 7, Email: "cosigner1@cleargive.org"},
			{Meta: domain.Meta{ID: 22}, CharityID: 7, Email: "cosigner2@cleargive.org"},
		},
		BudgetCategories: []domain.BudgetCategory{
			{Meta: domain.Meta{ID: 31}, CharityID: 7, Name: "Program Services", Allocation: 60},
			{Meta: domain.Meta{ID: 32}, CharityID: 7, Name: "Operations", Allocation: 30},
		},
	}
}
