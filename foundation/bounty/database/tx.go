package database

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ardanlabs/bounty/foundation/bounty/signature"
)

// Op names the operation a transaction asks the node to perform.
type Op string

// Set of supported operations.
const (
	OpInitialize      Op = "initialize"
	OpCreateChallenge Op = "create_challenge"
	OpSubmitSolution  Op = "submit_solution"
	OpSelectWinner    Op = "select_winner"
	OpTransfer        Op = "transfer"
)

// =============================================================================

// Tx is the request a participant signs. Only the fields used by the
// operation need to be set. ChallengeID targets submit_solution and
// select_winner, ToID names the winner for select_winner and the receiver
// for transfer.
type Tx struct {
	ChainID      uint16    `json:"chain_id"`
	Nonce        uint64    `json:"nonce"`
	Op           Op        `json:"op" validate:"required,oneof=initialize create_challenge submit_solution select_winner transfer"`
	ChallengeID  uint64    `json:"challenge_id,omitempty"`
	Title        string    `json:"title,omitempty"`
	Description  string    `json:"description,omitempty"`
	BountyAmount uint64    `json:"bounty_amount,omitempty"`
	DeadlineDays uint64    `json:"deadline_days,omitempty"`
	ProofURL     string    `json:"proof_url,omitempty"`
	ToID         AccountID `json:"to,omitempty" validate:"omitempty,account"`
	Value        uint64    `json:"value,omitempty"`
}

// Sign uses the specified private key to sign the transaction.
func (tx Tx) Sign(privateKey *ecdsa.PrivateKey) (SignedTx, error) {
	if tx.ToID != "" && !tx.ToID.IsAccountID() {
		return SignedTx{}, fmt.Errorf("to account is not properly formatted")
	}

	v, r, s, err := signature.Sign(tx, privateKey)
	if err != nil {
		return SignedTx{}, err
	}

	signedTx := SignedTx{
		Tx: tx,
		V:  v,
		R:  r,
		S:  s,
	}

	return signedTx, nil
}

// =============================================================================

// SignedTx is a signed version of the transaction. This is how clients
// provide requests to the node.
type SignedTx struct {
	Tx
	V *big.Int `json:"v"` // Recovery identifier, either 29 or 30.
	R *big.Int `json:"r"` // First coordinate of the ECDSA signature.
	S *big.Int `json:"s"` // Second coordinate of the ECDSA signature.
}

// Validate verifies the transaction has a proper signature that conforms to
// our standards. It also checks the format of the to account.
func (tx SignedTx) Validate() error {
	if tx.ToID != "" && !tx.ToID.IsAccountID() {
		return errors.New("invalid account for to account")
	}

	if err := signature.VerifySignature(tx.V, tx.R, tx.S); err != nil {
		return err
	}

	return nil
}

// FromAccount extracts the account id that signed the transaction.
func (tx SignedTx) FromAccount() (AccountID, error) {
	address, err := signature.FromAddress(tx.Tx, tx.V, tx.R, tx.S)
	return AccountID(address), err
}

// SignatureString returns the signature as a string.
func (tx SignedTx) SignatureString() string {
	return signature.SignatureString(tx.V, tx.R, tx.S)
}

// String implements the fmt.Stringer interface for logging.
func (tx SignedTx) String() string {
	from, err := tx.FromAccount()
	if err != nil {
		from = "unknown"
	}

	return fmt.Sprintf("%s:%d:%s", from, tx.Nonce, tx.Op)
}
