// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"math/bits"
	"os"
	"time"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date     time.Time         `json:"date"`
	ChainID  uint16            `json:"chain_id"` // The chain id signed transactions must carry.
	Rent     Rent              `json:"rent"`     // Reserve rules for accounts that hold records.
	Balances map[string]uint64 `json:"balances"`
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	err = json.Unmarshal(content, &genesis)
	if err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Save writes the genesis information to the specified path.
func Save(path string, genesis Genesis) error {
	data, err := json.MarshalIndent(genesis, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// =============================================================================

// AccountStorageOverhead is the number of bytes charged for every account on
// top of the data it stores.
const AccountStorageOverhead = 128

// Rent describes the minimum balance an account must retain for the data
// it stores.
type Rent struct {
	PerByteYear    uint64 `json:"per_byte_year"`
	ExemptionYears uint64 `json:"exemption_years"`
}

// MinimumBalance returns the reserve required for an account storing dataLen
// bytes. The result saturates at the largest uint64 rather than wrapping.
func (r Rent) MinimumBalance(dataLen uint64) uint64 {
	size, carry := bits.Add64(dataLen, AccountStorageOverhead, 0)
	if carry != 0 {
		return ^uint64(0)
	}

	hi, perYear := bits.Mul64(size, r.PerByteYear)
	if hi != 0 {
		return ^uint64(0)
	}

	hi, total := bits.Mul64(perYear, r.ExemptionYears)
	if hi != 0 {
		return ^uint64(0)
	}

	return total
}
