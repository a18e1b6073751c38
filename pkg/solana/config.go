package solana

type Environment string

const (
	EnvironmentDev  Environment = "https://api.devnet.solana.com"
	EnvironmentTest Environment = "https://api.testnet.solana.com"
	EnvironmentProd Environment = "https://api.mainnet-beta.solana.com"
)

// EnvironmentFromString resolves a cluster name to its public endpoint. Any
// other value is treated as a custom RPC endpoint.
func EnvironmentFromString(value string) Environment {
	switch value {
	case "devnet":
		return EnvironmentDev
	case "testnet":
		return EnvironmentTest
	case "mainnet", "mainnet-beta":
		return EnvironmentProd
	}
	return Environment(value)
}
