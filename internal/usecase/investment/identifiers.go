package usecase

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/jaevor/go-nanoid"
)

type identifiers struct {
	nonce func() string
}

func newIdentifiers() (*identifiers, error) {
	nonce, err := nanoid.Standard(21)
	if err != nil {
		return nil, err
	}
	return &identifiers{nonce: nonce}, nil
}

// transactionHash returns 64 lowercase hex characters without a 0x prefix.
func (g *identifiers) transactionHash(investmentID string) string {
	return crypto.Keccak256Hash([]byte(investmentID), []byte(g.nonce())).Hex()[2:]
}

func (g *identifiers) paymentTransactionID() string {
	return "PAY-" + g.nonce()
}

// contractAddress derives a stable placeholder address for an escrow that has
// not been bound to a deployed contract yet.
func contractAddress(investmentID string) string {
	return common.BytesToAddress(crypto.Keccak256([]byte("escrow:" + investmentID))[12:]).Hex()
}
