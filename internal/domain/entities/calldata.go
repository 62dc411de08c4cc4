package entities

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Transformation is one step of the transform pipeline
type Transformation struct {
	DeploymentNonce uint32
	Data            []byte
}

// CallDataInfo is a compiled proxy call
type CallDataInfo struct {
	CallData        []byte
	EthAmount       *big.Int
	ToAddress       common.Address
	AllowanceTarget common.Address
	// GasOverhead covers effects that gas simulation cannot see
	GasOverhead uint64
}

// StrategyEligibility explains which execution strategies fit a quote
type StrategyEligibility struct {
	RequiresTransformERC20 bool            `json:"requiresTransformErc20"`
	DirectRules            map[string]bool `json:"directRules"`
	MultiplexBatchFill     bool            `json:"multiplexBatchFill"`
	MultiplexMultiHopFill  bool            `json:"multiplexMultiHopFill"`
}

// CompiledSwap is the result of compiling a quote with the selected rule
type CompiledSwap struct {
	ChainID     ChainID             `json:"chainId"`
	Rule        string              `json:"rule"`
	CallData    *CallDataInfo       `json:"callData"`
	Eligibility StrategyEligibility `json:"eligibility"`
}

// RuleDescription describes one registered feature rule
type RuleDescription struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"`
	Deployed bool   `json:"deployed"`
	Generic  bool   `json:"generic"`
}
