package tokenmetadata

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/auction-house-client/pkg/solana/binary"
)

// KeyMetadataV1 is the account key tag of a metadata account.
const KeyMetadataV1 uint8 = 4

// Creator is a royalty recipient listed on an asset's metadata. Shares across
// all creators sum to 100.
type Creator struct {
	Address  ed25519.PublicKey
	Verified bool
	Share    uint8
}

// MetadataAccount is the prefix of a metadata account up to and including the
// mutability flag. Trailing fields are ignored.
//
// Reference: https://github.com/metaplex-foundation/mpl-token-metadata/blob/main/programs/token-metadata/program/src/state/metadata.rs
type MetadataAccount struct {
	UpdateAuthority      ed25519.PublicKey
	Mint                 ed25519.PublicKey
	Name                 string
	Symbol               string
	Uri                  string
	SellerFeeBasisPoints uint16
	Creators             []Creator
	PrimarySaleHappened  bool
	IsMutable            bool
}

func (obj *MetadataAccount) Marshal() []byte {
	e := binary.NewEncoder(0)
	e.Uint8(KeyMetadataV1)
	e.Key(obj.UpdateAuthority)
	e.Key(obj.Mint)
	e.String(obj.Name)
	e.String(obj.Symbol)
	e.String(obj.Uri)
	e.Uint16(obj.SellerFeeBasisPoints)

	e.Bool(len(obj.Creators) > 0)
	if len(obj.Creators) > 0 {
		e.Uint32(uint32(len(obj.Creators)))
		for _, creator := range obj.Creators {
			e.Key(creator.Address)
			e.Bool(creator.Verified)
			e.Uint8(creator.Share)
		}
	}

	e.Bool(obj.PrimarySaleHappened)
	e.Bool(obj.IsMutable)
	return e.Bytes()
}

func (obj *MetadataAccount) Unmarshal(data []byte) error {
	d := binary.NewDecoder(data)

	if key := d.Uint8(); d.Err() == nil && key != KeyMetadataV1 {
		return ErrInvalidAccountData
	}

	obj.UpdateAuthority = d.Key()
	obj.Mint = d.Key()
	obj.Name = d.String()
	obj.Symbol = d.String()
	obj.Uri = d.String()
	obj.SellerFeeBasisPoints = d.Uint16()

	obj.Creators = nil
	if d.Bool() {
		count := d.Uint32()
		if count > MaxCreators {
			return errors.Wrapf(ErrTooManyCreators, "%d listed", count)
		}

		if d.Err() == nil {
			obj.Creators = make([]Creator, count)
		}
		for i := range obj.Creators {
			obj.Creators[i] = Creator{
				Address:  d.Key(),
				Verified: d.Bool(),
				Share:    d.Uint8(),
			}
		}
	}

	obj.PrimarySaleHappened = d.Bool()
	obj.IsMutable = d.Bool()

	if err := d.Err(); err != nil {
		return errors.Wrap(ErrInvalidAccountData, err.Error())
	}
	return nil
}

func (obj *MetadataAccount) String() string {
	creators := make([]string, len(obj.Creators))
	for i, creator := range obj.Creators {
		creators[i] = fmt.Sprintf("%s:%d", base58.Encode(creator.Address), creator.Share)
	}

	return fmt.Sprintf(
		"Metadata{mint=%s,update_authority=%s,name=%s,symbol=%s,seller_fee_basis_points=%d,creators=[%s]}",
		base58.Encode(obj.Mint),
		base58.Encode(obj.UpdateAuthority),
		obj.Name,
		obj.Symbol,
		obj.SellerFeeBasisPoints,
		strings.Join(creators, ","),
	)
}
