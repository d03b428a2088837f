package signature_test

import (
	"math/big"
	"testing"

	"github.com/ardanlabs/bounty/foundation/bounty/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	pkHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	from     = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
)

// =============================================================================

func Test_Signing(t *testing.T) {
	value := struct {
		Title string
	}{
		Title: "Build a parser",
	}

	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	v, r, s, err := signature.Sign(value, pk)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	if err := signature.VerifySignature(v, r, s); err != nil {
		t.Fatalf("Should be able to verify the signature: %s", err)
	}

	addr, err := signature.FromAddress(value, v, r, s)
	if err != nil {
		t.Fatalf("Should be able to generate from address: %s", err)
	}

	if from != addr {
		t.Logf("got: %s", addr)
		t.Logf("exp: %s", from)
		t.Fatalf("Should get back the right address.")
	}

	str := signature.SignatureString(v, r, s)
	if len(str) != 2+2*crypto.SignatureLength {
		t.Logf("got: %d", len(str))
		t.Logf("exp: %d", 2+2*crypto.SignatureLength)
		t.Fatalf("Should get back a full length signature string.")
	}
}

func Test_TamperedValue(t *testing.T) {
	value := struct {
		Bounty uint64
	}{
		Bounty: 100,
	}

	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	v, r, s, err := signature.Sign(value, pk)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	value.Bounty = 1_000_000

	addr, err := signature.FromAddress(value, v, r, s)
	if err == nil && addr == from {
		t.Fatalf("Should not recover the signer for a tampered value.")
	}
}

func Test_InvalidRecoveryID(t *testing.T) {
	if err := signature.VerifySignature(big.NewInt(5), big.NewInt(1), big.NewInt(1)); err == nil {
		t.Fatalf("Should reject a recovery id without the bounty offset.")
	}

	if err := signature.VerifySignature(nil, nil, nil); err == nil {
		t.Fatalf("Should reject missing signature values.")
	}
}

func Test_Hash(t *testing.T) {
	value := struct {
		Name string
	}{
		Name: "Bill",
	}
	hash := "0x0f6887ac85101d6d6425a617edf35bd721b5f619fb92c36c3d2224e3bdb0ee5a"

	h := signature.Hash(value)
	if h != hash {
		t.Logf("got: %s", h)
		t.Logf("exp: %s", hash)
		t.Fatalf("Should get back the right hash: %s", h[:6])
	}

	h = signature.Hash(value)
	if h != hash {
		t.Logf("got: %s", h)
		t.Logf("exp: %s", hash)
		t.Fatalf("Should get back the same hash twice.")
	}
}
