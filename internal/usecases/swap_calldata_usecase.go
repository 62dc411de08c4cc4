package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"swap-calldata.backend/internal/domain/entities"
	domainerrors "swap-calldata.backend/internal/domain/errors"
	"swap-calldata.backend/internal/domain/repositories"
	"swap-calldata.backend/internal/infrastructure/metrics"
	"swap-calldata.backend/pkg/logger"
)

// SwapCalldataUsecase compiles swap quotes into exchange proxy calls
type SwapCalldataUsecase struct {
	registries map[entities.ChainID]*FeatureRuleRegistry
	recorder   *metrics.Recorder
	now        func() time.Time
}

// NewSwapCalldataUsecase creates a new swap calldata usecase
func NewSwapCalldataUsecase(registries []*FeatureRuleRegistry, recorder *metrics.Recorder) *SwapCalldataUsecase {
	if recorder == nil {
		recorder = metrics.NewNopRecorder()
	}
	byChain := make(map[entities.ChainID]*FeatureRuleRegistry, len(registries))
	for _, r := range registries {
		byChain[r.ChainID()] = r
	}
	return &SwapCalldataUsecase{
		registries: byChain,
		recorder:   recorder,
		now:        time.Now,
	}
}

// LoadFeatureRuleRegistries builds a registry for every active deployment
func LoadFeatureRuleRegistries(
	ctx context.Context,
	repo repositories.ProxyDeploymentRepository,
	resolver TransformerNonceResolver,
) ([]*FeatureRuleRegistry, error) {
	deployments, err := repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list proxy deployments: %w", err)
	}

	registries := make([]*FeatureRuleRegistry, 0, len(deployments))
	for _, d := range deployments {
		registry, err := NewFeatureRuleRegistry(d, resolver)
		if err != nil {
			return nil, err
		}
		logger.Info(ctx, "Feature rules loaded",
			zap.String("chain_id", d.ChainID.String()),
			zap.String("network", d.Network),
			zap.Int("direct_rules", len(d.DirectRules)),
		)
		registries = append(registries, registry)
	}
	return registries, nil
}

// Chains returns the supported chains in ascending order
func (u *SwapCalldataUsecase) Chains() []entities.ChainID {
	out := make([]entities.ChainID, 0, len(u.registries))
	for id := range u.registries {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CompileCalldata selects the cheapest compatible rule and compiles quote with it
func (u *SwapCalldataUsecase) CompileCalldata(
	ctx context.Context,
	chainID entities.ChainID,
	quote *entities.SwapQuote,
	opts entities.ExecutionOptions,
) (*entities.CompiledSwap, error) {
	registry, ok := u.registries[chainID]
	if !ok {
		u.recorder.ObserveError(chainID.String(), "unsupported_chain")
		return nil, fmt.Errorf("chain %s: %w", chainID, domainerrors.ErrUnsupportedChain)
	}
	if quote == nil || quote.Path == nil {
		u.recorder.ObserveError(chainID.String(), "invalid_quote")
		return nil, fmt.Errorf("quote has no path: %w", domainerrors.ErrInvalidInput)
	}

	start := u.now()
	rule := registry.Select(quote, opts)
	callData, err := rule.CreateCalldata(quote, opts)
	if err != nil {
		reason := "encoding"
		if errors.Is(err, domainerrors.ErrConfiguration) {
			reason = "configuration"
		}
		u.recorder.ObserveError(chainID.String(), reason)
		logger.Error(ctx, "Failed to compile swap calldata",
			zap.String("chain_id", chainID.String()),
			zap.String("rule", rule.Name()),
			zap.Error(err),
		)
		return nil, err
	}
	u.recorder.ObserveCompilation(chainID.String(), rule.Name(), u.now().Sub(start))

	logger.Info(ctx, "Swap calldata compiled",
		zap.String("chain_id", chainID.String()),
		zap.String("rule", rule.Name()),
		zap.String("side", quote.Side.String()),
		zap.Int("calldata_bytes", len(callData.CallData)),
		zap.Uint64("gas_overhead", callData.GasOverhead),
	)

	return &entities.CompiledSwap{
		ChainID:     chainID,
		Rule:        rule.Name(),
		CallData:    callData,
		Eligibility: registry.Eligibility(quote, opts),
	}, nil
}

// ListRules describes the feature rules of a chain
func (u *SwapCalldataUsecase) ListRules(chainID entities.ChainID) ([]entities.RuleDescription, error) {
	registry, ok := u.registries[chainID]
	if !ok {
		return nil, fmt.Errorf("chain %s: %w", chainID, domainerrors.ErrUnsupportedChain)
	}
	return registry.Describe(), nil
}
