package auction

import (
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/auction-house-client/pkg/solana"
)

// Signer signs serialized transactions on behalf of a wallet. Sign receives
// an unsigned, marshalled transaction and returns it with the wallet's
// signature in place. Implementations may block on user interaction.
type Signer interface {
	PublicKey() ed25519.PublicKey
	Sign(ctx context.Context, unsigned []byte) ([]byte, error)
}

type keypairSigner struct {
	key ed25519.PrivateKey
}

// NewKeypairSigner returns a Signer backed by a local private key.
func NewKeypairSigner(key ed25519.PrivateKey) Signer {
	return &keypairSigner{
		key: key,
	}
}

func (s *keypairSigner) PublicKey() ed25519.PublicKey {
	return s.key.Public().(ed25519.PublicKey)
}

func (s *keypairSigner) Sign(ctx context.Context, unsigned []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var txn solana.Transaction
	if err := txn.Unmarshal(unsigned); err != nil {
		return nil, errors.Wrap(err, "invalid transaction")
	}

	if err := txn.Sign(s.key); err != nil {
		return nil, err
	}
	return txn.Marshal(), nil
}
