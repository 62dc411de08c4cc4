package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ProxyDeployment struct {
	ID                             uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v7()"`
	ChainID                        int64          `gorm:"not null;index"`
	Network                        string         `gorm:"type:varchar(50);not null"`
	ExchangeProxy                  string         `gorm:"type:varchar(42);not null"`
	TransformerDeployer            string         `gorm:"type:varchar(42);not null"`
	WrappedNativeToken             string         `gorm:"type:varchar(42);not null"`
	WrapTransformer                string         `gorm:"type:varchar(42)"`
	PayTakerTransformer            string         `gorm:"type:varchar(42);not null"`
	FillQuoteTransformer           string         `gorm:"type:varchar(42);not null"`
	AffiliateFeeTransformer        string         `gorm:"type:varchar(42);not null"`
	PositiveSlippageFeeTransformer string         `gorm:"type:varchar(42);not null"`
	SupportsNativeWrap             bool           `gorm:"not null"`
	DirectRules                    pq.StringArray `gorm:"type:text[];default:'{}'"` // priority order
	IsActive                       bool           `gorm:"not null;index"`
	CreatedAt                      time.Time
	UpdatedAt                      time.Time
	DeletedAt                      gorm.DeletedAt `gorm:"index"`
}

func (ProxyDeployment) TableName() string {
	return "proxy_deployments"
}
