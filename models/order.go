package models

import "time"

type OrderStatus string

const (
	StatusNew        OrderStatus = "new"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
)

// statusCycle is the order the admin panel steps through when advancing.
var statusCycle = []OrderStatus{StatusNew, StatusProcessing, StatusCompleted}

// Valid reports whether s is one of the three known statuses.
func (s OrderStatus) Valid() bool {
	for _, known := range statusCycle {
		if s == known {
			return true
		}
	}
	return false
}

// Next returns the following status in the cycle. Completed wraps back to
// new so the admin button keeps cycling.
func (s OrderStatus) Next() OrderStatus {
	for i, known := range statusCycle {
		if s == known {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return StatusNew
}

type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	ShopName    string      `gorm:"type:varchar(255);not null" json:"shop_name"`
	Phone       *string     `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Email       *string     `gorm:"type:varchar(255)" json:"email,omitempty"`
	TotalAmount float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;default:'new'" json:"status"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
	Items       []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}
