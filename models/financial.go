package models

import "time"

// FinancialRecord is the view shared by bookings and quotations for status
// filtering, revenue listings and summaries.
type FinancialRecord interface {
	RecordID() string
	RecordDate() time.Time
	Revenue() float64
	PickupName() string
	DropName() string
	FilterFields() map[string]any
}

// Lifecycle holds the status flags and provenance common to bookings and quotations.
type Lifecycle struct {
	ActiveDelivery  bool       `json:"activeDelivery" bson:"activeDelivery"`
	TotalCancelled  int        `json:"totalCancelled" bson:"totalCancelled" validate:"gte=0"`
	IsDelivered     bool       `json:"isDelivered" bson:"isDelivered"`
	IsApproved      bool       `json:"isApproved" bson:"isApproved"`
	CreatedByUser   string     `json:"createdByUser,omitempty" bson:"createdByUser,omitempty"`
	CreatedByRole   string     `json:"createdByRole,omitempty" bson:"createdByRole,omitempty" validate:"omitempty,oneof=admin supervisor"`
	RequestedByRole string     `json:"requestedByRole,omitempty" bson:"requestedByRole,omitempty" validate:"omitempty,oneof=admin supervisor public"`
	ApprovedBy      string     `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt" bson:"createdAt"`
}

func (l Lifecycle) fields() map[string]any {
	return map[string]any{
		"activeDelivery":  l.ActiveDelivery,
		"totalCancelled":  l.TotalCancelled,
		"isDelivered":     l.IsDelivered,
		"isApproved":      l.IsApproved,
		"createdByUser":   l.CreatedByUser,
		"createdByRole":   l.CreatedByRole,
		"requestedByRole": l.RequestedByRole,
	}
}

// FullName joins first, optional middle and last names with single spaces.
func FullName(first, middle, last string) string {
	name := ""
	for _, part := range []string{first, middle, last} {
		if part == "" {
			continue
		}
		if name != "" {
			name += " "
		}
		name += part
	}
	return name
}
