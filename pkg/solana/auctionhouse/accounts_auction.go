package auctionhouse

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"strconv"

	"github.com/mr-tron/base58/base58"
)

type AuctionStatus uint8

const (
	AuctionStatusCreated AuctionStatus = iota
	AuctionStatusActive
	AuctionStatusSettled
	AuctionStatusCancelled
)

func (s AuctionStatus) String() string {
	switch s {
	case AuctionStatusCreated:
		return "created"
	case AuctionStatusActive:
		return "active"
	case AuctionStatusSettled:
		return "settled"
	case AuctionStatusCancelled:
		return "cancelled"
	}
	return "unknown(" + strconv.Itoa(int(s)) + ")"
}

const AuctionAccountSize = (8 + // discriminator
	32 + // auction_house
	32 + // seller
	32 + // nft_mint
	8 + // start_time
	8 + // bidding_period
	8 + // starting_bid
	8 + // tick_size
	1 + 8 + // buy_now_price
	1 + 32 + // highest_bid
	1 + // status
	1 + // bump
	1) // authority_bump

var auctionAccountDiscriminator = []byte{218, 94, 247, 242, 126, 233, 131, 81}

type AuctionAccount struct {
	AuctionHouse ed25519.PublicKey
	Seller       ed25519.PublicKey
	NftMint      ed25519.PublicKey

	StartTime     int64
	BiddingPeriod uint64
	StartingBid   uint64
	TickSize      uint64
	BuyNowPrice   *uint64

	// HighestBid is the address of the leading bid record, if any.
	HighestBid ed25519.PublicKey

	Status        AuctionStatus
	Bump          uint8
	AuthorityBump uint8
}

// EndTime is the unix timestamp after which bids are no longer accepted.
func (obj *AuctionAccount) EndTime() int64 {
	return obj.StartTime + int64(obj.BiddingPeriod)
}

// IsClosed reports whether the auction no longer accepts bids or purchases
// at the provided unix time.
func (obj *AuctionAccount) IsClosed(now int64) bool {
	if obj.Status == AuctionStatusSettled || obj.Status == AuctionStatusCancelled {
		return true
	}
	return now > obj.EndTime()
}

func (obj *AuctionAccount) Marshal() []byte {
	data := make([]byte, AuctionAccountSize)

	var offset int
	putDiscriminator(data, auctionAccountDiscriminator, &offset)
	putKey(data, obj.AuctionHouse, &offset)
	putKey(data, obj.Seller, &offset)
	putKey(data, obj.NftMint, &offset)
	putInt64(data, obj.StartTime, &offset)
	putUint64(data, obj.BiddingPeriod, &offset)
	putUint64(data, obj.StartingBid, &offset)
	putUint64(data, obj.TickSize, &offset)
	putOptionalUint64(data, obj.BuyNowPrice, &offset)
	putOptionalKey(data, obj.HighestBid, &offset)
	putUint8(data, uint8(obj.Status), &offset)
	putUint8(data, obj.Bump, &offset)
	putUint8(data, obj.AuthorityBump, &offset)

	return data
}

func (obj *AuctionAccount) Unmarshal(data []byte) error {
	if len(data) < AuctionAccountSize {
		return ErrInvalidAccountData
	}

	var offset int
	var discriminator []byte
	getDiscriminator(data, &discriminator, &offset)
	if !bytes.Equal(discriminator, auctionAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	var status uint8
	getKey(data, &obj.AuctionHouse, &offset)
	getKey(data, &obj.Seller, &offset)
	getKey(data, &obj.NftMint, &offset)
	getInt64(data, &obj.StartTime, &offset)
	getUint64(data, &obj.BiddingPeriod, &offset)
	getUint64(data, &obj.StartingBid, &offset)
	getUint64(data, &obj.TickSize, &offset)
	getOptionalUint64(data, &obj.BuyNowPrice, &offset)
	getOptionalKey(data, &obj.HighestBid, &offset)
	getUint8(data, &status, &offset)
	getUint8(data, &obj.Bump, &offset)
	getUint8(data, &obj.AuthorityBump, &offset)

	obj.Status = AuctionStatus(status)
	if obj.Status > AuctionStatusCancelled {
		return ErrInvalidAccountData
	}

	return nil
}

func (obj *AuctionAccount) String() string {
	buyNow := "none"
	if obj.BuyNowPrice != nil {
		buyNow = strconv.FormatUint(*obj.BuyNowPrice, 10)
	}

	highestBid := "none"
	if obj.HighestBid != nil {
		highestBid = base58.Encode(obj.HighestBid)
	}

	return fmt.Sprintf(
		"AuctionAccount{auction_house=%s,seller=%s,nft_mint=%s,start_time=%d,bidding_period=%d,starting_bid=%d,tick_size=%d,buy_now_price=%s,highest_bid=%s,status=%s}",
		base58.Encode(obj.AuctionHouse),
		base58.Encode(obj.Seller),
		base58.Encode(obj.NftMint),
		obj.StartTime,
		obj.BiddingPeriod,
		obj.StartingBid,
		obj.TickSize,
		buyNow,
		highestBid,
		obj.Status,
	)
}
