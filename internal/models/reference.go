package models

import "time"

// MasterAgreement is a contract under which purchase orders are issued.
type MasterAgreement struct {
	AwardDate    *time.Time    `gorm:"column:award_date" json:"award_date,omitempty"`
	Code         AgreementCode `gorm:"column:master_agreement;primaryKey;type:varchar(100)" json:"code"`
	ContractName string        `gorm:"column:contract_name;type:varchar(500);not null;default:''" json:"contract_name"`
}

// TableName specifies the table name for GORM.
func (MasterAgreement) TableName() string {
	return "master_agreements"
}

// Commodity is a purchasable item category.
type Commodity struct {
	ID          CommodityID `gorm:"column:commodity_id;primaryKey;type:varchar(50)" json:"id"`
	Description string      `gorm:"column:commodity_description;type:varchar(500);not null;default:''" json:"description"`
}

// TableName specifies the table name for GORM.
func (Commodity) TableName() string {
	return "commodities"
}
