package entities

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// DirectRuleKind names a direct-call ("VIP") entry point of the proxy
type DirectRuleKind string

const (
	DirectRuleUniswapV2VIP   DirectRuleKind = "uniswap_v2_vip"
	DirectRulePancakeSwapVIP DirectRuleKind = "pancakeswap_vip"
)

// DefaultDirectRulePriority is the evaluation order used when a deployment
// does not list its direct rules.
var DefaultDirectRulePriority = []DirectRuleKind{
	DirectRuleUniswapV2VIP,
	DirectRulePancakeSwapVIP,
}

// TransformerAddresses are the reference implementations deployed by the
// transformer deployer.
type TransformerAddresses struct {
	Wrap                common.Address `json:"wrap"`
	PayTaker            common.Address `json:"payTaker"`
	FillQuote           common.Address `json:"fillQuote"`
	AffiliateFee        common.Address `json:"affiliateFee"`
	PositiveSlippageFee common.Address `json:"positiveSlippageFee"`
}

// ProxyDeployment is the proxy contract address book and network profile of
// one chain.
type ProxyDeployment struct {
	ID                  uuid.UUID            `json:"id"`
	ChainID             ChainID              `json:"chainId"`
	Network             string               `json:"network"`
	ExchangeProxy       common.Address       `json:"exchangeProxy"`
	TransformerDeployer common.Address       `json:"transformerDeployer"`
	WrappedNativeToken  common.Address       `json:"wrappedNativeToken"`
	Transformers        TransformerAddresses `json:"transformers"`
	// SupportsNativeWrap is false on networks whose native asset has no
	// wrap/unwrap transformer.
	SupportsNativeWrap bool `json:"supportsNativeWrap"`
	// DirectRules lists the deployed direct-call entry points in priority order
	DirectRules []DirectRuleKind `json:"directRules"`
	IsActive    bool             `json:"isActive"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// HasDirectRule reports whether kind is deployed on this chain
func (d *ProxyDeployment) HasDirectRule(kind DirectRuleKind) bool {
	for _, k := range d.DirectRules {
		if k == kind {
			return true
		}
	}
	return false
}
