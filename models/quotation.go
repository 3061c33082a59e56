package models

import "time"

type Product struct {
	Name     string  `json:"name" bson:"name" validate:"required"`
	Quantity float64 `json:"quantity" bson:"quantity" validate:"gte=0"`
	Price    float64 `json:"price" bson:"price" validate:"gte=0"`
	Weight   float64 `json:"weight" bson:"weight" validate:"gte=0"`
}

type Quotation struct {
	ID         string `json:"_id,omitempty" bson:"_id,omitempty"`
	BookingID  string `json:"bookingId" bson:"bookingId"`
	CustomerID string `json:"customerId,omitempty" bson:"customerId,omitempty"`

	StartStation     string `json:"startStation" bson:"startStation"`
	StartStationName string `json:"startStationName" bson:"startStationName"`
	EndStation       string `json:"endStation" bson:"endStation"`

	FirstName  string `json:"firstName" bson:"firstName"`
	MiddleName string `json:"middleName" bson:"middleName"`
	LastName   string `json:"lastName" bson:"lastName"`
	Mobile     string `json:"mobile" bson:"mobile"`
	Email      string `json:"email" bson:"email"`
	Locality   string `json:"locality" bson:"locality"`

	QuotationDate        time.Time `json:"quotationDate" bson:"quotationDate"`
	ProposedDeliveryDate time.Time `json:"proposedDeliveryDate" bson:"proposedDeliveryDate"`

	FromCustomerName string `json:"fromCustomerName" bson:"fromCustomerName"`
	FromAddress      string `json:"fromAddress" bson:"fromAddress"`
	FromCity         string `json:"fromCity" bson:"fromCity"`
	FromState        string `json:"fromState" bson:"fromState"`
	FromPincode      string `json:"fromPincode" bson:"fromPincode"`

	ToCustomerName string `json:"toCustomerName" bson:"toCustomerName"`
	ToAddress      string `json:"toAddress" bson:"toAddress"`
	ToCity         string `json:"toCity" bson:"toCity"`
	ToState        string `json:"toState" bson:"toState"`
	ToPincode      string `json:"toPincode" bson:"toPincode"`

	AdditionalCmt  string    `json:"additionalCmt,omitempty" bson:"additionalCmt,omitempty"`
	ProductDetails []Product `json:"productDetails" bson:"productDetails"`

	Amount     float64 `json:"amount" bson:"amount"`
	STax       float64 `json:"sTax" bson:"sTax"`
	GrandTotal float64 `json:"grandTotal" bson:"grandTotal"`

	CancelReason string `json:"cancelReason,omitempty" bson:"cancelReason,omitempty"`

	Lifecycle `bson:",inline"`
}

// QuotationInput is the create payload; customer and start station are resolved by name.
type QuotationInput struct {
	FirstName            string    `json:"firstName" validate:"required"`
	MiddleName           string    `json:"middleName"`
	LastName             string    `json:"lastName" validate:"required"`
	StartStationName     string    `json:"startStationName" validate:"required"`
	EndStation           string    `json:"endStation" validate:"required"`
	Locality             string    `json:"locality"`
	QuotationDate        time.Time `json:"quotationDate"`
	ProposedDeliveryDate time.Time `json:"proposedDeliveryDate"`
	FromCustomerName     string    `json:"fromCustomerName"`
	FromAddress          string    `json:"fromAddress"`
	FromCity             string    `json:"fromCity"`
	FromState            string    `json:"fromState"`
	FromPincode          string    `json:"fromPincode"`
	ToCustomerName       string    `json:"toCustomerName"`
	ToAddress            string    `json:"toAddress"`
	ToCity               string    `json:"toCity"`
	ToState              string    `json:"toState"`
	ToPincode            string    `json:"toPincode"`
	AdditionalCmt        string    `json:"additionalCmt"`
	ProductDetails       []Product `json:"productDetails" validate:"required,min=1,dive"`
	Amount               float64   `json:"amount" validate:"gte=0"`
	STax                 float64   `json:"sTax" validate:"gte=0"`
	GrandTotal           float64   `json:"grandTotal" validate:"gte=0"`
}

type QuotationUpdate struct {
	EndStation           *string    `json:"endStation,omitempty"`
	QuotationDate        *time.Time `json:"quotationDate,omitempty"`
	ProposedDeliveryDate *time.Time `json:"proposedDeliveryDate,omitempty"`
	ToCustomerName       *string    `json:"toCustomerName,omitempty"`
	ToAddress            *string    `json:"toAddress,omitempty"`
	AdditionalCmt        *string    `json:"additionalCmt,omitempty"`
	ProductDetails       *[]Product `json:"productDetails,omitempty" validate:"omitempty,dive"`
	Amount               *float64   `json:"amount,omitempty" validate:"omitempty,gte=0"`
	STax                 *float64   `json:"sTax,omitempty" validate:"omitempty,gte=0"`
	GrandTotal           *float64   `json:"grandTotal,omitempty" validate:"omitempty,gte=0"`
}

func (u QuotationUpdate) Fields() map[string]any {
	out := map[string]any{}
	if u.EndStation != nil {
		out["endStation"] = *u.EndStation
	}
	if u.QuotationDate != nil {
		out["quotationDate"] = *u.QuotationDate
	}
	if u.ProposedDeliveryDate != nil {
		out["proposedDeliveryDate"] = *u.ProposedDeliveryDate
	}
	if u.ToCustomerName != nil {
		out["toCustomerName"] = *u.ToCustomerName
	}
	if u.ToAddress != nil {
		out["toAddress"] = *u.ToAddress
	}
	if u.AdditionalCmt != nil {
		out["additionalCmt"] = *u.AdditionalCmt
	}
	if u.ProductDetails != nil {
		out["productDetails"] = *u.ProductDetails
	}
	if u.Amount != nil {
		out["amount"] = *u.Amount
	}
	if u.STax != nil {
		out["sTax"] = *u.STax
	}
	if u.GrandTotal != nil {
		out["grandTotal"] = *u.GrandTotal
	}
	return out
}

func (q *Quotation) CustomerName() string {
	return FullName(q.FirstName, q.MiddleName, q.LastName)
}

func (q *Quotation) RecordID() string      { return q.BookingID }
func (q *Quotation) RecordDate() time.Time { return q.QuotationDate }

// Revenue for a quotation is amount plus service tax; the stored grand total is not used.
func (q *Quotation) Revenue() float64 { return q.Amount + q.STax }

func (q *Quotation) PickupName() string { return q.StartStationName }
func (q *Quotation) DropName() string   { return q.EndStation }

func (q *Quotation) FilterFields() map[string]any {
	f := q.Lifecycle.fields()
	f["quotationDate"] = q.QuotationDate
	f["startStation"] = q.StartStation
	f["customerId"] = q.CustomerID
	return f
}
