package auction

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/code-payments/auction-house-client/pkg/solana"
	"github.com/code-payments/auction-house-client/pkg/solana/auctionhouse"
)

const (
	programConfigKey      = "program"
	auctionHouseConfigKey = "auction_house"
	authorityConfigKey    = "authority"
	treasuryMintConfigKey = "treasury_mint"
	feeAccountConfigKey   = "fee_account"
	clusterConfigKey      = "cluster"

	marketplaceEnvPrefix = "MARKETPLACE"
)

// Marketplace identifies an auction house instance. All values are supplied
// by the caller and are never derived by the client.
type Marketplace struct {
	Program      ed25519.PublicKey
	AuctionHouse ed25519.PublicKey
	Authority    ed25519.PublicKey
	TreasuryMint ed25519.PublicKey
	FeeAccount   ed25519.PublicKey

	// Endpoint is the RPC endpoint of the cluster hosting the marketplace. It
	// is optional and only informs callers constructing a solana.Client.
	Endpoint solana.Environment
}

func (m *Marketplace) Validate() error {
	for name, key := range map[string]ed25519.PublicKey{
		programConfigKey:      m.Program,
		auctionHouseConfigKey: m.AuctionHouse,
		authorityConfigKey:    m.Authority,
		treasuryMintConfigKey: m.TreasuryMint,
		feeAccountConfigKey:   m.FeeAccount,
	} {
		if len(key) != ed25519.PublicKeySize {
			return errors.Errorf("invalid marketplace %s", name)
		}
	}
	return nil
}

func (m *Marketplace) String() string {
	return fmt.Sprintf(
		"Marketplace{program=%s,auction_house=%s,authority=%s,treasury_mint=%s}",
		base58.Encode(m.Program),
		base58.Encode(m.AuctionHouse),
		base58.Encode(m.Authority),
		base58.Encode(m.TreasuryMint),
	)
}

// LoadMarketplace reads a marketplace definition from a config file in any
// format viper supports. Values may be overridden with MARKETPLACE_ prefixed
// environment variables. The program defaults to the mainnet deployment.
func LoadMarketplace(path string) (*Marketplace, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(marketplaceEnvPrefix)
	v.AutomaticEnv()
	v.SetDefault(programConfigKey, base58.Encode(auctionhouse.PROGRAM_ID))

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read marketplace config %s", path)
	}

	return marketplaceFromViper(v)
}

func marketplaceFromViper(v *viper.Viper) (*Marketplace, error) {
	var m Marketplace

	for _, field := range []struct {
		key string
		dst *ed25519.PublicKey
	}{
		{programConfigKey, &m.Program},
		{auctionHouseConfigKey, &m.AuctionHouse},
		{authorityConfigKey, &m.Authority},
		{treasuryMintConfigKey, &m.TreasuryMint},
		{feeAccountConfigKey, &m.FeeAccount},
	} {
		value := v.GetString(field.key)
		if len(value) == 0 {
			return nil, errors.Errorf("marketplace config is missing %s", field.key)
		}

		decoded, err := base58.Decode(value)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid base58 value for %s", field.key)
		}
		*field.dst = decoded
	}

	if cluster := v.GetString(clusterConfigKey); len(cluster) > 0 {
		m.Endpoint = solana.EnvironmentFromString(cluster)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
