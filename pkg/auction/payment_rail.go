package auction

import (
	"crypto/ed25519"

	"github.com/code-payments/auction-house-client/pkg/solana"
	"github.com/code-payments/auction-house-client/pkg/solana/token"
	"github.com/code-payments/auction-house-client/pkg/solana/tokenmetadata"
)

// PaymentRail resolves where funds move for a marketplace's treasury mint.
// It is resolved once per operation, and every payment account in that
// operation comes from the same rail.
type PaymentRail interface {
	// IsNative reports whether payments settle in lamports.
	IsNative() bool

	Mint() ed25519.PublicKey

	// PaymentAccount returns the account that holds owner's funds on this
	// rail.
	PaymentAccount(owner ed25519.PublicKey) (ed25519.PublicKey, error)

	// CreatorAccounts returns the remaining accounts needed to pay royalties
	// to creators, in creator order.
	CreatorAccounts(creators []tokenmetadata.Creator) ([]solana.AccountMeta, error)
}

// NewPaymentRail returns the native rail for the native mint sentinel and a
// token rail for any other mint.
func NewPaymentRail(treasuryMint ed25519.PublicKey) PaymentRail {
	if token.IsNativeMint(treasuryMint) {
		return nativeRail{}
	}
	return tokenRail{mint: treasuryMint}
}

func railName(rail PaymentRail) string {
	if rail.IsNative() {
		return "native"
	}
	return "token"
}

type nativeRail struct{}

func (nativeRail) IsNative() bool {
	return true
}

func (nativeRail) Mint() ed25519.PublicKey {
	return token.NativeMint
}

func (nativeRail) PaymentAccount(owner ed25519.PublicKey) (ed25519.PublicKey, error) {
	return owner, nil
}

func (nativeRail) CreatorAccounts(creators []tokenmetadata.Creator) ([]solana.AccountMeta, error) {
	metas := make([]solana.AccountMeta, 0, len(creators))
	for _, creator := range creators {
		metas = append(metas, solana.NewAccountMeta(creator.Address, false))
	}
	return metas, nil
}

type tokenRail struct {
	mint ed25519.PublicKey
}

func (r tokenRail) IsNative() bool {
	return false
}

func (r tokenRail) Mint() ed25519.PublicKey {
	return r.mint
}

func (r tokenRail) PaymentAccount(owner ed25519.PublicKey) (ed25519.PublicKey, error) {
	return token.GetAssociatedAccount(owner, r.mint)
}

func (r tokenRail) CreatorAccounts(creators []tokenmetadata.Creator) ([]solana.AccountMeta, error) {
	metas := make([]solana.AccountMeta, 0, 2*len(creators))
	for _, creator := range creators {
		ata, err := r.PaymentAccount(creator.Address)
		if err != nil {
			return nil, err
		}

		metas = append(
			metas,
			solana.NewReadonlyAccountMeta(creator.Address, false),
			solana.NewAccountMeta(ata, false),
		)
	}
	return metas, nil
}
