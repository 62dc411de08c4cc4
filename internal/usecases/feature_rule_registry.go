package usecases

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"swap-calldata.backend/internal/domain/entities"
	domainerrors "swap-calldata.backend/internal/domain/errors"
)

// TransformerNonceResolver maps a transformer deployed by deployer to its
// deployment nonce.
type TransformerNonceResolver interface {
	FindNonce(deployer, transformer common.Address) (uint32, error)
}

type directRule interface {
	FeatureRule
	Deployed() bool
}

// FeatureRuleRegistry owns the feature rules of one chain. It is immutable
// after construction.
type FeatureRuleRegistry struct {
	chainID        entities.ChainID
	network        string
	directRules    []directRule
	transformERC20 *TransformERC20Rule
}

// NewFeatureRuleRegistry builds the rules of a proxy deployment. Direct rules
// keep the deployment's priority order; rules it does not deploy follow in
// default order and are never compatible.
func NewFeatureRuleRegistry(deployment *entities.ProxyDeployment, resolver TransformerNonceResolver) (*FeatureRuleRegistry, error) {
	if deployment == nil {
		return nil, fmt.Errorf("nil proxy deployment: %w", domainerrors.ErrConfiguration)
	}

	nonces, err := resolveTransformerNonces(deployment, resolver)
	if err != nil {
		return nil, fmt.Errorf("chain %s: %w", deployment.ChainID, err)
	}

	order := make([]entities.DirectRuleKind, 0, len(entities.DefaultDirectRulePriority))
	seen := make(map[entities.DirectRuleKind]bool)
	for _, kind := range append(append([]entities.DirectRuleKind(nil), deployment.DirectRules...), entities.DefaultDirectRulePriority...) {
		if seen[kind] {
			continue
		}
		seen[kind] = true
		order = append(order, kind)
	}

	registry := &FeatureRuleRegistry{
		chainID: deployment.ChainID,
		network: deployment.Network,
		transformERC20: NewTransformERC20Rule(
			deployment.ExchangeProxy,
			deployment.WrappedNativeToken,
			deployment.SupportsNativeWrap,
			nonces,
		),
	}
	for _, kind := range order {
		deployed := deployment.HasDirectRule(kind)
		switch kind {
		case entities.DirectRuleUniswapV2VIP:
			registry.directRules = append(registry.directRules, NewUniswapV2VIPRule(deployment.ExchangeProxy, deployed))
		case entities.DirectRulePancakeSwapVIP:
			registry.directRules = append(registry.directRules, NewPancakeSwapVIPRule(deployment.ExchangeProxy, deployed))
		default:
			return nil, fmt.Errorf("chain %s: unknown direct rule %q: %w", deployment.ChainID, kind, domainerrors.ErrConfiguration)
		}
	}
	return registry, nil
}

func resolveTransformerNonces(d *entities.ProxyDeployment, resolver TransformerNonceResolver) (TransformerNonces, error) {
	if resolver == nil {
		return TransformerNonces{}, fmt.Errorf("nil transformer nonce resolver: %w", domainerrors.ErrConfiguration)
	}
	find := func(name string, addr common.Address) (uint32, error) {
		nonce, err := resolver.FindNonce(d.TransformerDeployer, addr)
		if err != nil {
			return 0, fmt.Errorf("%s transformer: %w", name, err)
		}
		return nonce, nil
	}

	var (
		nonces TransformerNonces
		err    error
	)
	if d.SupportsNativeWrap {
		if nonces.Wrap, err = find("wrap", d.Transformers.Wrap); err != nil {
			return nonces, err
		}
	}
	if nonces.PayTaker, err = find("pay taker", d.Transformers.PayTaker); err != nil {
		return nonces, err
	}
	if nonces.FillQuote, err = find("fill quote", d.Transformers.FillQuote); err != nil {
		return nonces, err
	}
	if nonces.AffiliateFee, err = find("affiliate fee", d.Transformers.AffiliateFee); err != nil {
		return nonces, err
	}
	if nonces.PositiveSlippageFee, err = find("positive slippage fee", d.Transformers.PositiveSlippageFee); err != nil {
		return nonces, err
	}
	return nonces, nil
}

func (r *FeatureRuleRegistry) ChainID() entities.ChainID { return r.chainID }

// DirectRules returns the direct-call rules in priority order
func (r *FeatureRuleRegistry) DirectRules() []FeatureRule {
	out := make([]FeatureRule, 0, len(r.directRules))
	for _, rule := range r.directRules {
		out = append(out, rule)
	}
	return out
}

// TransformERC20Rule returns the fallback rule
func (r *FeatureRuleRegistry) TransformERC20Rule() *TransformERC20Rule {
	return r.transformERC20
}

// Rules returns every rule in evaluation order, the fallback last
func (r *FeatureRuleRegistry) Rules() []FeatureRule {
	return append(r.DirectRules(), r.transformERC20)
}

// Select returns the first compatible direct rule, or the fallback rule
func (r *FeatureRuleRegistry) Select(quote *entities.SwapQuote, opts entities.ExecutionOptions) FeatureRule {
	for _, rule := range r.directRules {
		if rule.IsCompatible(quote, opts) {
			return rule
		}
	}
	return r.transformERC20
}

// Eligibility reports which execution strategies fit the quote
func (r *FeatureRuleRegistry) Eligibility(quote *entities.SwapQuote, opts entities.ExecutionOptions) entities.StrategyEligibility {
	direct := make(map[string]bool, len(r.directRules))
	for _, rule := range r.directRules {
		direct[rule.Name()] = rule.IsCompatible(quote, opts)
	}
	return entities.StrategyEligibility{
		RequiresTransformERC20: RequiresTransformERC20(opts),
		DirectRules:            direct,
		MultiplexBatchFill:     IsMultiplexBatchFillCompatible(quote, opts),
		MultiplexMultiHopFill:  IsMultiplexMultiHopFillCompatible(quote, opts),
	}
}

// Describe lists the rules in evaluation order
func (r *FeatureRuleRegistry) Describe() []entities.RuleDescription {
	out := make([]entities.RuleDescription, 0, len(r.directRules)+1)
	for i, rule := range r.directRules {
		out = append(out, entities.RuleDescription{
			Name:     rule.Name(),
			Priority: i,
			Deployed: rule.Deployed(),
		})
	}
	return append(out, entities.RuleDescription{
		Name:     r.transformERC20.Name(),
		Priority: len(r.directRules),
		Deployed: true,
		Generic:  true,
	})
}
