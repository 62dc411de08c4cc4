package repositories

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"swap-calldata.backend/internal/domain/entities"
	domainerrors "swap-calldata.backend/internal/domain/errors"
	domainrepos "swap-calldata.backend/internal/domain/repositories"
	"swap-calldata.backend/internal/infrastructure/models"
	"swap-calldata.backend/pkg/utils"
)

type proxyDeploymentRepo struct {
	db *gorm.DB
}

func NewProxyDeploymentRepository(db *gorm.DB) domainrepos.ProxyDeploymentRepository {
	return &proxyDeploymentRepo{db: db}
}

func (r *proxyDeploymentRepo) Create(ctx context.Context, deployment *entities.ProxyDeployment) error {
	if deployment.ID == uuid.Nil {
		deployment.ID = utils.NewID()
	}
	now := time.Now()
	deployment.CreatedAt = now
	deployment.UpdatedAt = now

	row := toProxyDeploymentModel(deployment)
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *proxyDeploymentRepo) GetActiveByChain(ctx context.Context, chainID entities.ChainID) (*entities.ProxyDeployment, error) {
	var row models.ProxyDeployment
	tx := r.db.WithContext(ctx).
		Where("chain_id = ? AND is_active = ?", int64(chainID), true).
		Order("updated_at DESC").
		Limit(1).
		Find(&row)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return toProxyDeploymentEntity(&row), nil
}

func (r *proxyDeploymentRepo) ListActive(ctx context.Context) ([]*entities.ProxyDeployment, error) {
	var rows []models.ProxyDeployment
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("chain_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.ProxyDeployment, 0, len(rows))
	for i := range rows {
		items = append(items, toProxyDeploymentEntity(&rows[i]))
	}
	return items, nil
}

func toProxyDeploymentModel(d *entities.ProxyDeployment) *models.ProxyDeployment {
	rules := make(pq.StringArray, 0, len(d.DirectRules))
	for _, k := range d.DirectRules {
		rules = append(rules, string(k))
	}
	return &models.ProxyDeployment{
		ID:                             d.ID,
		ChainID:                        int64(d.ChainID),
		Network:                        d.Network,
		ExchangeProxy:                  d.ExchangeProxy.Hex(),
		TransformerDeployer:            d.TransformerDeployer.Hex(),
		WrappedNativeToken:             d.WrappedNativeToken.Hex(),
		WrapTransformer:                d.Transformers.Wrap.Hex(),
		PayTakerTransformer:            d.Transformers.PayTaker.Hex(),
		FillQuoteTransformer:           d.Transformers.FillQuote.Hex(),
		AffiliateFeeTransformer:        d.Transformers.AffiliateFee.Hex(),
		PositiveSlippageFeeTransformer: d.Transformers.PositiveSlippageFee.Hex(),
		SupportsNativeWrap:             d.SupportsNativeWrap,
		DirectRules:                    rules,
		IsActive:                       d.IsActive,
		CreatedAt:                      d.CreatedAt,
		UpdatedAt:                      d.UpdatedAt,
	}
}

func toProxyDeploymentEntity(m *models.ProxyDeployment) *entities.ProxyDeployment {
	rules := make([]entities.DirectRuleKind, 0, len(m.DirectRules))
	for _, k := range m.DirectRules {
		rules = append(rules, entities.DirectRuleKind(k))
	}
	return &entities.ProxyDeployment{
		ID:                  m.ID,
		ChainID:             entities.ChainID(m.ChainID),
		Network:             m.Network,
		ExchangeProxy:       common.HexToAddress(m.ExchangeProxy),
		TransformerDeployer: common.HexToAddress(m.TransformerDeployer),
		WrappedNativeToken:  common.HexToAddress(m.WrappedNativeToken),
		Transformers: entities.TransformerAddresses{
			Wrap:                common.HexToAddress(m.WrapTransformer),
			PayTaker:            common.HexToAddress(m.PayTakerTransformer),
			FillQuote:           common.HexToAddress(m.FillQuoteTransformer),
			AffiliateFee:        common.HexToAddress(m.AffiliateFeeTransformer),
			PositiveSlippageFee: common.HexToAddress(m.PositiveSlippageFeeTransformer),
		},
		SupportsNativeWrap: m.SupportsNativeWrap,
		DirectRules:        rules,
		IsActive:           m.IsActive,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
