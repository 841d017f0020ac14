package models

import "time"

// Rows in these tables reference items and block their deletion.

// StockInModel records goods received for an item
type StockInModel struct {
	IDModel
	ItemID     int64 `gorm:"not null;index"`
	Quantity   int   `gorm:"not null"`
	ReceivedAt time.Time
}

// TableName returns the table name for GORM
func (StockInModel) TableName() string {
	return "stock_in"
}

// StockOutModel records goods issued for an item
type StockOutModel struct {
	IDModel
	ItemID   int64 `gorm:"not null;index"`
	Quantity int   `gorm:"not null"`
	IssuedAt time.Time
}

// TableName returns the table name for GORM
func (StockOutModel) TableName() string {
	return "stock_out"
}

// RequestModel is a user's request for an item
type RequestModel struct {
	IDModel
	ItemID    int64  `gorm:"not null;index"`
	UserID    *int64 `gorm:"index"`
	Quantity  int    `gorm:"not null"`
	Status    string `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (RequestModel) TableName() string {
	return "requests"
}
