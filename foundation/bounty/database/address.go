package database

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Seeds used to derive the accounts the system holds funds in.
const (
	SeedChallenge         = "challenge"
	SeedSubmission        = "submission"
	SeedChallengeCounter  = "challenge_counter"
	SeedSubmissionCounter = "submission_counter"
)

// derivationStamp separates derived addresses from any other keccak output.
var derivationStamp = []byte("\x19Bounty Derived Account:\n")

// DeriveAccountID produces an account id from a set of seeds. Every seed is
// length prefixed before hashing so distinct seed lists never collide by
// concatenation. No private key exists for a derived account.
func DeriveAccountID(seeds ...[]byte) AccountID {
	data := make([][]byte, 0, 1+2*len(seeds))
	data = append(data, derivationStamp)

	for _, seed := range seeds {
		var size [4]byte
		binary.BigEndian.PutUint32(size[:], uint32(len(seed)))
		data = append(data, size[:], seed)
	}

	hash := crypto.Keccak256(data...)
	return AccountID(common.BytesToAddress(hash[12:]).Hex())
}

// EscrowAccountID returns the account that holds the bounty for the
// specified challenge.
func EscrowAccountID(challengeID uint64) AccountID {
	return DeriveAccountID([]byte(SeedChallenge), le64(challengeID))
}

// SubmissionAccountID returns the account that holds the reserve for the
// specified submission record.
func SubmissionAccountID(challengeID uint64, submissionID uint64) AccountID {
	return DeriveAccountID([]byte(SeedSubmission), le64(challengeID), le64(submissionID))
}

// CounterAccountID returns the account that holds the reserve for the
// specified counter.
func CounterAccountID(kind Kind) AccountID {
	switch kind {
	case KindChallenge:
		return DeriveAccountID([]byte(SeedChallengeCounter))
	default:
		return DeriveAccountID([]byte(SeedSubmissionCounter))
	}
}

func le64(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

// =============================================================================

// Key locates a record in the store. Keys are built from the record kind and
// its numeric ids so any record can be found without a separate index.
type Key string

// AccountKey returns the key for an account record.
func AccountKey(accountID AccountID) Key {
	return Key("account/" + string(accountID))
}

// ChallengeKey returns the key for a challenge record.
func ChallengeKey(challengeID uint64) Key {
	return Key(fmt.Sprintf("challenge/%d", challengeID))
}

// SubmissionKey returns the key for a submission record. Submissions live
// under the namespace of the challenge they were made against.
func SubmissionKey(challengeID uint64, submissionID uint64) Key {
	return Key(fmt.Sprintf("submission/%d/%d", challengeID, submissionID))
}

// CounterKey returns the key for a counter record.
func CounterKey(kind Kind) Key {
	return Key("counter/" + string(kind))
}
