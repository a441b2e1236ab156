package keystore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shivamnarkar47/ClearGive/internal/domain"
)

var ErrNoKey = errors.New("no signing key stored for address")

// WalletKey is a locally held signing seed for a ledger account the caller
// controls (their own wallet, charity wallets they own, escrow accounts).
type WalletKey struct {
	ID        string
	Address   string
	Seed      string
	Label     string
	CreatedAt time.Time
}

// Receipt is a locally cached record of a completed donation, kept for
// offline tax-report listings. The persistence service stays authoritative;
// this cache only ever adds rows.
type Receipt struct {
	ID          string
	DonationID  uint
	CharityID   uint
	CharityName string
	DonorID     string
	Amount      string
	TxHash      string
	Category    string
	DonatedAt   time.Time
}

// TaxSummary aggregates a donor's cached receipts for one calendar year.
type TaxSummary struct {
	Year          int
	DonationCount int
	Total         string
	ByCharity     map[string]string
}

// Store persists wallet keys and donation receipts in the local sqlite
// database. It is the client's only stateful component.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// SaveKey stores a signing seed, replacing any prior seed for the address.
func (s *Store) SaveKey(ctx context.Context, address, seed, label string) error {
	query := `INSERT INTO wallet_keys (id, address, seed, label, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(address) DO UPDATE SET seed = excluded.seed, label = excluded.label`
	_, err := s.db.ExecContext(ctx, query,
		uuid.New().String(), address, seed, label, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving wallet key: %w", err)
	}
	return nil
}

// Seed returns the signing seed for an address.
func (s *Store) Seed(ctx context.Context, address string) (string, error) {
	var seed string
	query := `SELECT seed FROM wallet_keys WHERE address = ?`
	err := s.db.QueryRowContext(ctx, query, address).Scan(&seed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNoKey, address)
	}
	if err != nil {
		return "", fmt.Errorf("loading wallet key: %w", err)
	}
	return seed, nil
}

// ListKeys returns all stored keys, oldest first, seeds included.
func (s *Store) ListKeys(ctx context.Context) ([]WalletKey, error) {
	query := `SELECT id, address, seed, label, created_at FROM wallet_keys ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing wallet keys: %w", err)
	}
	defer rows.Close()

	var keys []WalletKey
	for rows.Next() {
		var k WalletKey
		var created string
		if err := rows.Scan(&k.ID, &k.Address, &k.Seed, &k.Label, &created); err != nil {
			return nil, fmt.Errorf("scanning wallet key: %w", err)
		}
		k.CreatedAt, _ = time.Parse(time.RFC3339, created)
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// DeleteKey removes the seed for an address. Missing rows are not an error.
func (s *Store) DeleteKey(ctx context.Context, address string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM wallet_keys WHERE address = ?`, address)
	if err != nil {
		return fmt.Errorf("deleting wallet key: %w", err)
	}
	return nil
}

// SaveReceipt caches a completed donation. Duplicate transaction hashes are
// ignored so re-recording after a reload stays idempotent.
func (s *Store) SaveReceipt(ctx context.Context, r Receipt) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	query := `INSERT INTO receipts
		(id, donation_id, charity_id, charity_name, donor_id, amount, tx_hash, category, donated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(tx_hash) DO NOTHING`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.DonationID, r.CharityID, r.CharityName, r.DonorID,
		r.Amount, r.TxHash, r.Category, r.DonatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving receipt: %w", err)
	}
	return nil
}

// ReceiptsByYear lists a donor's cached receipts for a calendar year,
// newest first.
func (s *Store) ReceiptsByYear(ctx context.Context, donorID string, year int) ([]Receipt, error) {
	query := `SELECT id, donation_id, charity_id, charity_name, donor_id, amount, tx_hash, category, donated_at
		FROM receipts
		WHERE donor_id = ? AND donated_at >= ? AND donated_at < ?
		ORDER BY donated_at DESC`
	from := fmt.Sprintf("%04d-01-01T00:00:00Z", year)
	to := fmt.Sprintf("%04d-01-01T00:00:00Z", year+1)

	rows, err := s.db.QueryContext(ctx, query, donorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	defer rows.Close()

	var receipts []Receipt
	for rows.Next() {
		var r Receipt
		var donated string
		if err := rows.Scan(&r.ID, &r.DonationID, &r.CharityID, &r.CharityName, &r.DonorID,
			&r.Amount, &r.TxHash, &r.Category, &donated); err != nil {
			return nil, fmt.Errorf("scanning receipt: %w", err)
		}
		r.DonatedAt, _ = time.Parse(time.RFC3339, donated)
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

// Summarize aggregates a donor's receipts into a per-year tax summary.
func (s *Store) Summarize(ctx context.Context, donorID string, year int) (*TaxSummary, error) {
	receipts, err := s.ReceiptsByYear(ctx, donorID, year)
	if err != nil {
		return nil, err
	}

	summary := &TaxSummary{Year: year, ByCharity: map[string]string{}}
	totals := map[string][]string{}
	var all []string
	for _, r := range receipts {
		summary.DonationCount++
		all = append(all, r.Amount)
		totals[r.CharityName] = append(totals[r.CharityName], r.Amount)
	}
	summary.Total = domain.SumAmounts(all).String()
	for name, amounts := range totals {
		summary.ByCharity[name] = domain.SumAmounts(amounts).String()
	}
	return summary, nil
}
