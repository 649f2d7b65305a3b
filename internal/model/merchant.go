package model

// Merchant represents a vendor account that owns products. Accounts are
// created by the merchant registration service; this service only reads them.
// Column set mirrors the merchants schema migration.
type Merchant struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"type:varchar(255);not null"`
	Email       string `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password    string `json:"-" gorm:"type:varchar(255);not null"` // hashed, never exposed
	Description string `json:"description" gorm:"type:text"`
	Address     string `json:"address" gorm:"type:text"`
	Type        string `json:"type" gorm:"type:varchar(255)"`
	Owner       string `json:"owner" gorm:"type:varchar(255)"`
	Logo        string `json:"logo" gorm:"type:varchar(255)"`
	Cover       string `json:"cover" gorm:"type:varchar(255)"`

	// Relations
	Products []Product `json:"products,omitempty" gorm:"foreignKey:MerchantID"`
}
