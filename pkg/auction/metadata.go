package auction

import (
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/auction-house-client/pkg/solana"
	"github.com/code-payments/auction-house-client/pkg/solana/tokenmetadata"
)

// MetadataReader looks up the royalty recipients of an asset.
type MetadataReader interface {
	GetCreators(ctx context.Context, mint ed25519.PublicKey) ([]tokenmetadata.Creator, error)
}

type onChainMetadataReader struct {
	fetcher AccountFetcher
}

// NewOnChainMetadataReader reads creators from the asset's token metadata
// account. An asset without a metadata account has no creators.
func NewOnChainMetadataReader(fetcher AccountFetcher) MetadataReader {
	return &onChainMetadataReader{
		fetcher: fetcher,
	}
}

func (r *onChainMetadataReader) GetCreators(ctx context.Context, mint ed25519.PublicKey) ([]tokenmetadata.Creator, error) {
	address, _, err := tokenmetadata.GetMetadataAddress(&tokenmetadata.GetMetadataAddressArgs{
		Mint: mint,
	})
	if err != nil {
		return nil, err
	}

	data, err := r.fetcher.GetAccount(ctx, address)
	if errors.Is(err, solana.ErrNoAccountInfo) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var metadata tokenmetadata.MetadataAccount
	if err := metadata.Unmarshal(data); err != nil {
		return nil, errors.Wrapf(ErrIncompatibleAsset, "invalid metadata account: %s", err)
	}
	return metadata.Creators, nil
}
