package ledger

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/txnbuild"
)

// submitTimeout bounds how long a submitted transaction stays valid.
const submitTimeout = 30

// historyPageSize bounds transaction history queries.
const historyPageSize = 10

// Account is a keypair for a newly created ledger account. The secret key
// exists only at creation time; callers are expected to keystore it.
type Account struct {
	PublicKey string `json:"publicKey"`
	SecretKey string `json:"secretKey"`
}

// PaymentParams describes a single native-asset payment.
type PaymentParams struct {
	FromSeed string // signing seed of the source account
	To       string // destination address
	Amount   string // ledger-native decimal string
	Memo     string // text memo, truncated to the 28-byte network limit
}

// TxRecord is a minimal view of a ledger transaction for history listings.
type TxRecord struct {
	Hash       string
	Ledger     int32
	CreatedAt  time.Time
	Memo       string
	Successful bool
}

// Config holds connection settings for the ledger network.
type Config struct {
	HorizonURL   string
	FriendbotURL string
	Passphrase   string
}

// Client wraps the Horizon API as a value-transfer oracle: account creation,
// balance queries, payment submission, history. It holds no state beyond
// connection settings and performs no retries; failed submissions surface to
// the caller for an explicit retry.
type Client struct {
	horizon    *horizonclient.Client
	http       *http.Client
	friendbot  string
	passphrase string
}

func NewClient(cfg Config) *Client {
	if cfg.Passphrase == "" {
		cfg.Passphrase = network.TestNetworkPassphrase
	}
	httpClient := &http.Client{Timeout: 60 * time.Second}
	return &Client{
		horizon: &horizonclient.Client{
			HorizonURL: cfg.HorizonURL,
			HTTP:       httpClient,
		},
		http:       httpClient,
		friendbot:  cfg.FriendbotURL,
		passphrase: cfg.Passphrase,
	}
}

// ValidAddress reports whether addr is a well-formed ed25519 public key.
func (c *Client) ValidAddress(addr string) bool {
	return strkey.IsValidEd25519PublicKey(addr)
}

// AccountExists reports whether the account is funded on the network.
func (c *Client) AccountExists(ctx context.Context, addr string) (bool, error) {
	if !c.ValidAddress(addr) {
		return false, fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	_, err := c.horizon.AccountDetail(horizonclient.AccountRequest{AccountID: addr})
	if err != nil {
		if horizonclient.IsNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("loading account %s: %w", addr, err)
	}
	return true, nil
}

// NativeBalance returns the account's native-asset balance as a decimal
// string, "0" when the account holds no native balance line.
func (c *Client) NativeBalance(ctx context.Context, addr string) (string, error) {
	if !c.ValidAddress(addr) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	account, err := c.horizon.AccountDetail(horizonclient.AccountRequest{AccountID: addr})
	if err != nil {
		if horizonclient.IsNotFoundError(err) {
			return "", fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
		}
		return "", fmt.Errorf("loading account %s: %w", addr, err)
	}
	balance, err := account.GetNativeBalance()
	if err != nil {
		return "0", nil
	}
	return balance, nil
}

// CreateAccount generates a keypair and funds it through the faucet.
func (c *Client) CreateAccount(ctx context.Context) (*Account, error) {
	kp, err := keypair.Random()
	if err != nil {
		return nil, fmt.Errorf("generating keypair: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.friendbot+"?addr="+kp.Address(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating faucet request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFaucet, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFaucet, resp.StatusCode)
	}

	return &Account{PublicKey: kp.Address(), SecretKey: kp.Seed()}, nil
}

// Pay builds, signs, and submits a single-operation native-asset payment,
// returning the transaction hash. Validation order follows the donation
// flow: destination format, destination existence, source seed, source
// balance, then submission.
func (c *Client) Pay(ctx context.Context, p PaymentParams) (string, error) {
	if !c.ValidAddress(p.To) {
		return "", fmt.Errorf("%w: destination %q", ErrInvalidAddress, p.To)
	}
	exists, err := c.AccountExists(ctx, p.To)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%w: destination %s", ErrAccountNotFound, p.To)
	}

	kp, err := keypair.ParseFull(p.FromSeed)
	if err != nil {
		return "", ErrInvalidSeed
	}

	source, err := c.horizon.AccountDetail(horizonclient.AccountRequest{AccountID: kp.Address()})
	if err != nil {
		if horizonclient.IsNotFoundError(err) {
			return "", fmt.Errorf("%w: source %s", ErrAccountNotFound, kp.Address())
		}
		return "", fmt.Errorf("loading source account: %w", err)
	}

	amount, err := decimal.NewFromString(p.Amount)
	if err != nil || !amount.IsPositive() {
		return "", fmt.Errorf("invalid payment amount %q", p.Amount)
	}
	if balance, err := source.GetNativeBalance(); err == nil {
		if have, err := decimal.NewFromString(balance); err == nil && have.LessThan(amount) {
			return "", fmt.Errorf("%w: %s available", ErrInsufficientFunds, balance)
		}
	}

	memo := p.Memo
	if memo == "" {
		memo = "Donation"
	}
	if len(memo) > 28 {
		memo = memo[:28]
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &source,
		IncrementSequenceNum: true,
		Operations: []txnbuild.Operation{
			&txnbuild.Payment{
				Destination: p.To,
				Amount:      p.Amount,
				Asset:       txnbuild.NativeAsset{},
			},
		},
		BaseFee:       c.baseFee(),
		Memo:          txnbuild.MemoText(memo),
		Preconditions: txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(submitTimeout)},
	})
	if err != nil {
		return "", fmt.Errorf("building transaction: %w", err)
	}

	tx, err = tx.Sign(c.passphrase, kp)
	if err != nil {
		return "", fmt.Errorf("signing transaction: %w", err)
	}

	resp, err := c.horizon.SubmitTransaction(tx)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrSubmission, submissionDetail(err))
	}
	return resp.Hash, nil
}

// Transactions lists the account's most recent transactions, newest first.
func (c *Client) Transactions(ctx context.Context, addr string) ([]TxRecord, error) {
	if !c.ValidAddress(addr) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	page, err := c.horizon.Transactions(horizonclient.TransactionRequest{
		ForAccount: addr,
		Order:      horizonclient.OrderDesc,
		Limit:      historyPageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching transactions for %s: %w", addr, err)
	}

	records := make([]TxRecord, 0, len(page.Embedded.Records))
	for _, tx := range page.Embedded.Records {
		records = append(records, TxRecord{
			Hash:       tx.Hash,
			Ledger:     tx.Ledger,
			CreatedAt:  tx.LedgerCloseTime,
			Memo:       tx.Memo,
			Successful: tx.Successful,
		})
	}
	return records, nil
}

// baseFee asks Horizon for the last ledger's base fee, falling back to the
// protocol minimum when fee stats are unavailable.
func (c *Client) baseFee() int64 {
	stats, err := c.horizon.FeeStats()
	if err != nil || stats.LastLedgerBaseFee <= 0 {
		return txnbuild.MinBaseFee
	}
	return stats.LastLedgerBaseFee
}

// submissionDetail extracts network result codes from a Horizon problem
// response so failures surface with the underlying reason.
func submissionDetail(err error) string {
	herr := horizonclient.GetError(err)
	if herr == nil {
		return err.Error()
	}
	codes, cerr := herr.ResultCodes()
	if cerr != nil || codes == nil {
		return herr.Problem.Title
	}
	detail := codes.TransactionCode
	if len(codes.OperationCodes) > 0 {
		detail += ": " + strings.Join(codes.OperationCodes, ", ")
	}
	return detail
}

// AccountExplorerURL returns the public explorer page for an account.
func (c *Client) AccountExplorerURL(addr string) string {
	return fmt.Sprintf("https://stellar.expert/explorer/%s/account/%s", c.networkName(), addr)
}

// TransactionExplorerURL returns the public explorer page for a transaction.
func (c *Client) TransactionExplorerURL(hash string) string {
	return fmt.Sprintf("https://stellar.expert/explorer/%s/tx/%s", c.networkName(), hash)
}

func (c *Client) networkName() string {
	if c.passphrase == network.PublicNetworkPassphrase {
		return "public"
	}
	return "testnet"
}
