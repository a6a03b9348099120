package models

import (
	"time"
)

// Product 商品表（ID 由供应商数据源提供，不自增）
type Product struct {
	ID         uint      `gorm:"primaryKey;autoIncrement:false" json:"id"` // 外部商品ID
	Model      string    `gorm:"type:varchar(100);not null" json:"model"`  // 型号
	CategoryID *uint     `gorm:"index" json:"category_id"`                 // 分类ID（缺失分类时为空）
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                  // 创建时间
	UpdatedAt  time.Time `json:"updated_at"`                               // 更新时间

	// 关联
	Category *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
	Infos    []ProductInfo `gorm:"foreignKey:ProductID" json:"listings,omitempty"` // 店铺报价
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// ProductInfo 店铺商品报价表，(product_id, shop_id) 唯一
type ProductInfo struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                           // 主键
	ProductID uint      `gorm:"not null;uniqueIndex:idx_product_infos_product_shop" json:"product_id"`          // 商品ID
	ShopID    uint      `gorm:"not null;uniqueIndex:idx_product_infos_product_shop;index" json:"shop_id"`       // 店铺ID
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`                                         // 报价名称
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`                                             // 库存数量
	Price     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`                             // 批发价
	PriceRRC  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price_rrc"`                         // 建议零售价
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                                        // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                                     // 更新时间

	Shop       *Shop              `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	Parameters []ProductParameter `gorm:"foreignKey:ProductInfoID" json:"parameters,omitempty"`
}

// TableName 指定表名
func (ProductInfo) TableName() string {
	return "product_infos"
}

// Parameter 参数名称表
type Parameter struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (Parameter) TableName() string {
	return "parameters"
}

// ProductParameter 报价参数值表，(product_info_id, parameter_id) 唯一
type ProductParameter struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	ProductInfoID uint      `gorm:"not null;uniqueIndex:idx_product_parameters_info_param" json:"product_info_id"`
	ParameterID   uint      `gorm:"not null;uniqueIndex:idx_product_parameters_info_param;index" json:"parameter_id"`
	Value         string    `gorm:"type:varchar(255);not null" json:"value"` // 参数值
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Parameter *Parameter `gorm:"foreignKey:ParameterID" json:"parameter,omitempty"`
}

// TableName 指定表名
func (ProductParameter) TableName() string {
	return "product_parameters"
}
