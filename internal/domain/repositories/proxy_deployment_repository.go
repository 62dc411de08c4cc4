package repositories

import (
	"context"

	"swap-calldata.backend/internal/domain/entities"
)

// ProxyDeploymentRepository defines proxy deployment data operations
type ProxyDeploymentRepository interface {
	Create(ctx context.Context, deployment *entities.ProxyDeployment) error
	// GetActiveByChain returns the most recently updated active deployment of a chain
	GetActiveByChain(ctx context.Context, chainID entities.ChainID) (*entities.ProxyDeployment, error)
	ListActive(ctx context.Context) ([]*entities.ProxyDeployment, error)
}
