package auction

import (
	"time"

	"github.com/code-payments/auction-house-client/pkg/config"
	"github.com/code-payments/auction-house-client/pkg/config/env"
	"github.com/code-payments/auction-house-client/pkg/config/memory"
	"github.com/code-payments/auction-house-client/pkg/config/wrapper"
)

const (
	envConfigPrefix = "AUCTION_CLIENT_"

	ConfirmationTimeoutConfigEnvName = envConfigPrefix + "CONFIRMATION_TIMEOUT"
	defaultConfirmationTimeout       = 60 * time.Second

	ConfirmationPollIntervalConfigEnvName = envConfigPrefix + "CONFIRMATION_POLL_INTERVAL"
	defaultConfirmationPollInterval       = 500 * time.Millisecond

	StartTimeToleranceConfigEnvName = envConfigPrefix + "START_TIME_TOLERANCE"
	defaultStartTimeTolerance       = 30 * time.Second

	CommitmentConfigEnvName = envConfigPrefix + "COMMITMENT"
	defaultCommitment       = "confirmed"

	RpcReadRateConfigEnvName = envConfigPrefix + "RPC_READ_RATE"
	defaultRpcReadRate       = 10.0

	ComputeUnitLimitConfigEnvName = envConfigPrefix + "COMPUTE_UNIT_LIMIT"
	defaultComputeUnitLimit       = 0

	ComputeUnitPriceConfigEnvName = envConfigPrefix + "COMPUTE_UNIT_PRICE"
	defaultComputeUnitPrice       = 0

	MemoEnabledConfigEnvName = envConfigPrefix + "MEMO_ENABLED"
	defaultMemoEnabled       = false
)

type conf struct {
	confirmationTimeout      config.Duration
	confirmationPollInterval config.Duration
	startTimeTolerance       config.Duration
	commitment               config.String
	rpcReadRate              config.Float64
	computeUnitLimit         config.Uint64
	computeUnitPrice         config.Uint64
	memoEnabled              config.Bool
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			confirmationTimeout:      env.NewDurationConfig(ConfirmationTimeoutConfigEnvName, defaultConfirmationTimeout),
			confirmationPollInterval: env.NewDurationConfig(ConfirmationPollIntervalConfigEnvName, defaultConfirmationPollInterval),
			startTimeTolerance:       env.NewDurationConfig(StartTimeToleranceConfigEnvName, defaultStartTimeTolerance),
			commitment:               env.NewStringConfig(CommitmentConfigEnvName, defaultCommitment),
			rpcReadRate:              env.NewFloat64Config(RpcReadRateConfigEnvName, defaultRpcReadRate),
			computeUnitLimit:         env.NewUint64Config(ComputeUnitLimitConfigEnvName, defaultComputeUnitLimit),
			computeUnitPrice:         env.NewUint64Config(ComputeUnitPriceConfigEnvName, defaultComputeUnitPrice),
			memoEnabled:              env.NewBoolConfig(MemoEnabledConfigEnvName, defaultMemoEnabled),
		}
	}
}

type testOverrides struct {
	confirmationTimeout      time.Duration
	confirmationPollInterval time.Duration
	startTimeTolerance       time.Duration
	computeUnitLimit         uint64
	computeUnitPrice         uint64
	memoEnabled              bool
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			confirmationTimeout:      wrapper.NewDurationConfig(memory.NewConfig(overrides.confirmationTimeout), defaultConfirmationTimeout),
			confirmationPollInterval: wrapper.NewDurationConfig(memory.NewConfig(overrides.confirmationPollInterval), defaultConfirmationPollInterval),
			startTimeTolerance:       wrapper.NewDurationConfig(memory.NewConfig(overrides.startTimeTolerance), defaultStartTimeTolerance),
			commitment:               wrapper.NewStringConfig(memory.NewConfig(defaultCommitment), defaultCommitment),
			rpcReadRate:              wrapper.NewFloat64Config(memory.NewConfig(defaultRpcReadRate), defaultRpcReadRate),
			computeUnitLimit:         wrapper.NewUint64Config(memory.NewConfig(overrides.computeUnitLimit), defaultComputeUnitLimit),
			computeUnitPrice:         wrapper.NewUint64Config(memory.NewConfig(overrides.computeUnitPrice), defaultComputeUnitPrice),
			memoEnabled:              wrapper.NewBoolConfig(memory.NewConfig(overrides.memoEnabled), defaultMemoEnabled),
		}
	}
}
