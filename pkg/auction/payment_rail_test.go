package auction

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/auction-house-client/pkg/solana/token"
	"github.com/code-payments/auction-house-client/pkg/solana/tokenmetadata"
)

func TestNativeRail(t *testing.T) {
	rail := NewPaymentRail(token.NativeMint)
	assert.True(t, rail.IsNative())
	assert.EqualValues(t, token.NativeMint, rail.Mint())

	owner := generateKey(t)
	payment, err := rail.PaymentAccount(owner)
	require.NoError(t, err)
	assert.EqualValues(t, owner, payment)

	creators := []tokenmetadata.Creator{
		{Address: generateKey(t), Share: 60},
		{Address: generateKey(t), Share: 40},
	}
	metas, err := rail.CreatorAccounts(creators)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	for i, creator := range creators {
		assertMeta(t, metas[i], creator.Address, false, true)
	}
}

func TestTokenRail(t *testing.T) {
	mint := generateKey(t)
	rail := NewPaymentRail(mint)
	assert.False(t, rail.IsNative())
	assert.EqualValues(t, mint, rail.Mint())

	owner := generateKey(t)
	payment, err := rail.PaymentAccount(owner)
	require.NoError(t, err)
	expected, err := token.GetAssociatedAccount(owner, mint)
	require.NoError(t, err)
	assert.EqualValues(t, expected, payment)

	creators := []tokenmetadata.Creator{
		{Address: generateKey(t), Share: 60},
		{Address: generateKey(t), Share: 40},
	}
	metas, err := rail.CreatorAccounts(creators)
	require.NoError(t, err)
	require.Len(t, metas, 4)
	for i, creator := range creators {
		ata, err := token.GetAssociatedAccount(creator.Address, mint)
		require.NoError(t, err)

		assertMeta(t, metas[2*i], creator.Address, false, false)
		assertMeta(t, metas[2*i+1], ata, false, true)
	}

	metas, err = rail.CreatorAccounts(nil)
	require.NoError(t, err)
	assert.Empty(t, metas)
}

func TestPaymentRail_Consistency(t *testing.T) {
	mint := generateKey(t)
	owners := []ed25519.PublicKey{generateKey(t), generateKey(t), generateKey(t)}

	for _, treasuryMint := range []ed25519.PublicKey{token.NativeMint, mint} {
		rail := NewPaymentRail(treasuryMint)
		for _, owner := range owners {
			payment, err := rail.PaymentAccount(owner)
			require.NoError(t, err)

			if rail.IsNative() {
				assert.EqualValues(t, owner, payment)
			} else {
				assert.NotEqualValues(t, owner, payment)
			}
		}

		// Resolution never changes branch for the same mint.
		assert.Equal(t, rail.IsNative(), NewPaymentRail(treasuryMint).IsNative())
	}
}
