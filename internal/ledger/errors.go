package ledger

import "errors"

var (
	// ErrInvalidAddress indicates a string that is not a valid ed25519
	// public key in strkey form.
	ErrInvalidAddress = errors.New("invalid stellar address")

	// ErrInvalidSeed indicates an unparseable signing seed.
	ErrInvalidSeed = errors.New("invalid signing seed")

	// ErrAccountNotFound indicates the account does not exist on the network.
	ErrAccountNotFound = errors.New("account does not exist on the network")

	// ErrInsufficientFunds indicates the source balance cannot cover the
	// payment. Checked before submission; the network re-checks anyway.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSubmission indicates Horizon rejected the transaction. The wrapped
	// message carries the network result codes when available.
	ErrSubmission = errors.New("transaction submission failed")

	// ErrFaucet indicates the testnet faucet refused to fund a new account.
	ErrFaucet = errors.New("faucet funding failed")
)
