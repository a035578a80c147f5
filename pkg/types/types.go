package types

import "time"

// Environment selects the contract address table, RPC endpoint and key
// generation strategy. It is resolved once at process start and never mutated.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTest        Environment = "test"
	EnvProduction  Environment = "production"
)

// Valid reports whether e is one of the known environments.
func (e Environment) Valid() bool {
	switch e {
	case EnvDevelopment, EnvTest, EnvProduction:
		return true
	}
	return false
}

// Wallet is a custodial wallet record. The document is write-once: address and
// key ciphertext are never updated after creation, since rewriting either
// would orphan the funds held at the old address.
type Wallet struct {
	UserID        string    `json:"id"`
	Address       string    `json:"address"`
	KeyCiphertext []byte    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// HasKeyMaterial reports whether the record is complete. A document with a
// missing address or key is treated as absent and re-provisioned.
func (w *Wallet) HasKeyMaterial() bool {
	return w != nil && w.Address != "" && len(w.KeyCiphertext) > 0
}

// MintResult is the parsed outcome of a station mint. TokenID is nil when the
// transaction confirmed but the StationMinted event could not be located in
// the receipt.
type MintResult struct {
	TokenID *int64 `json:"token_id"`
	TxHash  string `json:"tx_hash"`
}

// TipResult is the parsed outcome of a tip transfer. Amount and Fee are
// decimal ether strings derived from the TipsTransferred event, or from the
// recomputed tip price when the event is absent.
type TipResult struct {
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Amount string `json:"amount"`
	Fee    string `json:"fee,omitempty"`
	TxHash string `json:"tx_hash"`
}

// TipQuote is the on-chain price for a tip quantity at the moment of the read.
type TipQuote struct {
	Qty    int64  `json:"qty"`
	Wei    string `json:"wei"`
	Amount string `json:"amount"`
}

// Status values recorded for publish/upload progress documents.
const (
	StatusPending        = "pending"
	StatusPublishUpdated = "updated"
	StatusUploadFinished = "finished"
	StatusFailed         = "failed"
)

// ValidPublishStatus reports whether s is an accepted publish pipeline state.
func ValidPublishStatus(s string) bool {
	switch s {
	case StatusPending, StatusPublishUpdated, StatusFailed:
		return true
	}
	return false
}

// ValidUploadStatus reports whether s is an accepted upload pipeline state.
func ValidUploadStatus(s string) bool {
	switch s {
	case StatusPending, StatusUploadFinished, StatusFailed:
		return true
	}
	return false
}

// StatusRecord informs the UI that a publish or upload task reached a state.
type StatusRecord struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}
