package auctionhouse

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58/base58"
)

const BidAccountSize = (8 + // discriminator
	32 + // auction
	32 + // buyer
	8 + // price
	1) // bump

var bidAccountDiscriminator = []byte{143, 246, 48, 245, 42, 145, 180, 88}

type BidAccount struct {
	Auction ed25519.PublicKey
	Buyer   ed25519.PublicKey
	Price   uint64
	Bump    uint8
}

func (obj *BidAccount) Marshal() []byte {
	data := make([]byte, BidAccountSize)

	var offset int
	putDiscriminator(data, bidAccountDiscriminator, &offset)
	putKey(data, obj.Auction, &offset)
	putKey(data, obj.Buyer, &offset)
	putUint64(data, obj.Price, &offset)
	putUint8(data, obj.Bump, &offset)

	return data
}

func (obj *BidAccount) Unmarshal(data []byte) error {
	if len(data) < BidAccountSize {
		return ErrInvalidAccountData
	}

	var offset int
	var discriminator []byte
	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, bidAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	getKey(data, &obj.Auction, &offset)
	getKey(data, &obj.Buyer, &offset)
	getUint64(data, &obj.Price, &offset)
	getUint8(data, &obj.Bump, &offset)

	return nil
}

func (obj *BidAccount) String() string {
	return fmt.Sprintf(
		"BidAccount{auction=%s,buyer=%s,price=%d}",
		base58.Encode(obj.Auction),
		base58.Encode(obj.Buyer),
		obj.Price,
	)
}
