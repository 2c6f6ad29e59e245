package services

import (
	"fmt"
	"time"
)

type CartItem struct {
	Name      string  `json:"name" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1,max=100"`
	UnitPrice float64 `json:"unit_price" binding:"required,gt=0"`
}

type PersonalInfo struct {
	Name  string `json:"name" binding:"required,min=2,max=100"`
	Phone string `json:"phone" binding:"required,min=8"`
	Email string `json:"email" binding:"omitempty,email"`
}

// CartRequest is the client-asserted cart, submitted at intent creation and
// replayed verbatim at capture. The total is schema-validated only; it is
// not re-derived from a trusted price source.
type CartRequest struct {
	Items          []CartItem   `json:"items" binding:"required,min=1,dive"`
	Total          float64      `json:"total" binding:"required,gt=0"`
	DeliveryMethod string       `json:"delivery_method" binding:"required,oneof=pickup courier"`
	ScheduledDate  string       `json:"scheduled_date" binding:"required"`
	Notes          string       `json:"notes" binding:"max=500"`
	PersonalInfo   PersonalInfo `json:"personal_info" binding:"required"`
}

// ScheduledFor parses the client-supplied date, accepting RFC3339 or a bare
// calendar date.
func (c *CartRequest) ScheduledFor() (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, c.ScheduledDate); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", c.ScheduledDate); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparseable scheduled date %q", c.ScheduledDate)
}

// Description summarizes the cart for the gateway order.
func (c *CartRequest) Description() string {
	return fmt.Sprintf("%s order, %d item(s), scheduled %s", c.DeliveryMethod, len(c.Items), c.ScheduledDate)
}
