package auctionhouse

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58/base58"
)

const AuctionHouseAccountSize = (8 + // discriminator
	32 + // auction_house_fee_account
	32 + // auction_house_treasury
	32 + // treasury_withdrawal_destination
	32 + // fee_withdrawal_destination
	32 + // treasury_mint
	32 + // authority
	32 + // creator
	1 + // bump
	1 + // treasury_bump
	1 + // fee_payer_bump
	2 + // seller_fee_basis_points
	1 + // requires_sign_off
	1 + // can_change_sale_price
	1) // escrow_payment_bump

var auctionHouseAccountDiscriminator = []byte{40, 108, 215, 107, 213, 85, 245, 48}

type AuctionHouseAccount struct {
	FeeAccount                    ed25519.PublicKey
	Treasury                      ed25519.PublicKey
	TreasuryWithdrawalDestination ed25519.PublicKey
	FeeWithdrawalDestination      ed25519.PublicKey
	TreasuryMint                  ed25519.PublicKey
	Authority                     ed25519.PublicKey
	Creator                       ed25519.PublicKey
	Bump                          uint8
	TreasuryBump                  uint8
	FeePayerBump                  uint8
	SellerFeeBasisPoints          uint16
	RequiresSignOff               bool
	CanChangeSalePrice            bool
	EscrowPaymentBump             uint8
}

func (obj *AuctionHouseAccount) Marshal() []byte {
	data := make([]byte, AuctionHouseAccountSize)

	var offset int
	putDiscriminator(data, auctionHouseAccountDiscriminator, &offset)
	putKey(data, obj.FeeAccount, &offset)
	putKey(data, obj.Treasury, &offset)
	putKey(data, obj.TreasuryWithdrawalDestination, &offset)
	putKey(data, obj.FeeWithdrawalDestination, &offset)
	putKey(data, obj.TreasuryMint, &offset)
	putKey(data, obj.Authority, &offset)
	putKey(data, obj.Creator, &offset)
	putUint8(data, obj.Bump, &offset)
	putUint8(data, obj.TreasuryBump, &offset)
	putUint8(data, obj.FeePayerBump, &offset)
	putUint16(data, obj.SellerFeeBasisPoints, &offset)
	putBool(data, obj.RequiresSignOff, &offset)
	putBool(data, obj.CanChangeSalePrice, &offset)
	putUint8(data, obj.EscrowPaymentBump, &offset)

	return data
}

// Unmarshal accepts data longer than AuctionHouseAccountSize, since deployed
// accounts may carry padding for later fields.
func (obj *AuctionHouseAccount) Unmarshal(data []byte) error {
	if len(data) < AuctionHouseAccountSize {
		return ErrInvalidAccountData
	}

	var offset int
	var discriminator []byte
	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, auctionHouseAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	getKey(data, &obj.FeeAccount, &offset)
	getKey(data, &obj.Treasury, &offset)
	getKey(data, &obj.TreasuryWithdrawalDestination, &offset)
	getKey(data, &obj.FeeWithdrawalDestination, &offset)
	getKey(data, &obj.TreasuryMint, &offset)
	getKey(data, &obj.Authority, &offset)
	getKey(data, &obj.Creator, &offset)
	getUint8(data, &obj.Bump, &offset)
	getUint8(data, &obj.TreasuryBump, &offset)
	getUint8(data, &obj.FeePayerBump, &offset)
	getUint16(data, &obj.SellerFeeBasisPoints, &offset)
	getBool(data, &obj.RequiresSignOff, &offset)
	getBool(data, &obj.CanChangeSalePrice, &offset)
	getUint8(data, &obj.EscrowPaymentBump, &offset)

	return nil
}

func (obj *AuctionHouseAccount) String() string {
	return fmt.Sprintf(
		"AuctionHouseAccount{fee_account=%s,treasury=%s,treasury_mint=%s,authority=%s,creator=%s,seller_fee_basis_points=%d,requires_sign_off=%v}",
		base58.Encode(obj.FeeAccount),
		base58.Encode(obj.Treasury),
		base58.Encode(obj.TreasuryMint),
		base58.Encode(obj.Authority),
		base58.Encode(obj.Creator),
		obj.SellerFeeBasisPoints,
		obj.RequiresSignOff,
	)
}
