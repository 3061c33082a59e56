package filters

import (
	"strings"

	"bharatparcel/models"
)

const (
	FieldActiveDelivery  = "activeDelivery"
	FieldTotalCancelled  = "totalCancelled"
	FieldIsDelivered     = "isDelivered"
	FieldIsApproved      = "isApproved"
	FieldCreatedByUser   = "createdByUser"
	FieldCreatedByRole   = "createdByRole"
	FieldRequestedByRole = "requestedByRole"
	FieldBookingDate     = "bookingDate"
	FieldQuotationDate   = "quotationDate"
	FieldStartStation    = "startStation"
	FieldEndStation      = "endStation"
	FieldCustomerID      = "customerId"
	FieldCGST            = "cgst"
	FieldSGST            = "sgst"
	FieldIGST            = "igst"
)

type StatusType string

const (
	StatusActive    StatusType = "active"
	StatusCancelled StatusType = "cancelled"
	StatusRequest   StatusType = "request"
)

// ParseStatusType maps anything unrecognised, including "", to StatusRequest.
func ParseStatusType(s string) StatusType {
	switch StatusType(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive
	case StatusCancelled:
		return StatusCancelled
	}
	return StatusRequest
}

// BuildStatusFilter returns the predicate selecting records of the given
// status class, scoped to the caller's own records for supervisors.
//
// A cancelled record that was later re-activated has activeDelivery=true and
// totalCancelled>0; it is listed as active only, so the three classes never overlap.
func BuildStatusFilter(status StatusType, user models.RequestingUser) Predicate {
	var base Predicate
	switch status {
	case StatusActive:
		base = Eq(FieldActiveDelivery, true)
	case StatusCancelled:
		base = And(
			Gt(FieldTotalCancelled, 0),
			Ne(FieldActiveDelivery, true),
		)
	default:
		base = And(
			Eq(FieldActiveDelivery, false),
			Ne(FieldIsDelivered, true),
			Eq(FieldTotalCancelled, 0),
			Or(
				In(FieldCreatedByRole, models.RoleAdmin, models.RoleSupervisor),
				And(
					Eq(FieldRequestedByRole, models.RolePublic),
					Eq(FieldIsApproved, true),
				),
			),
		)
	}
	return scope(base, user)
}

// BuildRevenueFilter is the status filter restricted to delivered records.
// Every clause of the status filter, including supervisor scoping, is kept.
func BuildRevenueFilter(status StatusType, user models.RequestingUser) Predicate {
	return And(Eq(FieldIsDelivered, true), BuildStatusFilter(status, user))
}

// OwnedBy restricts p to records created by a supervisor; admins are unrestricted.
func OwnedBy(p Predicate, user models.RequestingUser) Predicate {
	return scope(p, user)
}

func scope(p Predicate, user models.RequestingUser) Predicate {
	if !user.IsSupervisor() {
		return p
	}
	return And(p, Eq(FieldCreatedByUser, user.ID))
}

// PendingPublic selects public requests awaiting approval.
func PendingPublic() Predicate {
	return And(
		Eq(FieldRequestedByRole, models.RolePublic),
		Eq(FieldIsApproved, false),
	)
}

// DateWindow bounds field by r; open bounds add no clause.
func DateWindow(field string, r models.DateRange) Predicate {
	p := And()
	if !r.From.IsZero() {
		p = And(p, Gte(field, r.From))
	}
	if !r.To.IsZero() {
		p = And(p, Lte(field, r.To))
	}
	return p
}
