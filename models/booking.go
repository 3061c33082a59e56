package models

import "time"

const (
	PaymentPaid = "paid"
	PaymentPay  = "pay"
)

type Item struct {
	ReceiptNo string  `json:"receiptNo,omitempty" bson:"receiptNo,omitempty"`
	RefNo     string  `json:"refNo,omitempty" bson:"refNo,omitempty"`
	Insurance float64 `json:"insurance" bson:"insurance" validate:"gte=0"`
	VPPAmount float64 `json:"vppAmount" bson:"vppAmount" validate:"gte=0"`
	ToPay     string  `json:"toPay" bson:"toPay" validate:"omitempty,oneof=paid pay"`
	Weight    float64 `json:"weight" bson:"weight" validate:"gte=0"`
	Amount    float64 `json:"amount" bson:"amount" validate:"gte=0"`
}

type Booking struct {
	ID         string `json:"_id,omitempty" bson:"_id,omitempty"`
	BookingID  string `json:"bookingId" bson:"bookingId"`
	CustomerID string `json:"customerId,omitempty" bson:"customerId,omitempty"`

	StartStation string `json:"startStation" bson:"startStation" validate:"required"`
	EndStation   string `json:"endStation" bson:"endStation" validate:"required"`

	FirstName  string `json:"firstName" bson:"firstName"`
	MiddleName string `json:"middleName" bson:"middleName"`
	LastName   string `json:"lastName" bson:"lastName"`
	Mobile     string `json:"mobile" bson:"mobile"`
	Email      string `json:"email" bson:"email" validate:"required,email"`

	BookingDate  time.Time `json:"bookingDate" bson:"bookingDate" validate:"required"`
	DeliveryDate time.Time `json:"deliveryDate" bson:"deliveryDate" validate:"required"`

	SenderName     string `json:"senderName" bson:"senderName"`
	SenderGgt      string `json:"senderGgt" bson:"senderGgt"`
	SenderLocality string `json:"senderLocality" bson:"senderLocality" validate:"required"`
	FromState      string `json:"fromState" bson:"fromState"`
	FromCity       string `json:"fromCity" bson:"fromCity"`
	SenderPincode  string `json:"senderPincode" bson:"senderPincode"`

	ReceiverName     string `json:"receiverName" bson:"receiverName"`
	ReceiverGgt      string `json:"receiverGgt" bson:"receiverGgt"`
	ReceiverLocality string `json:"receiverLocality" bson:"receiverLocality" validate:"required"`
	ToState          string `json:"toState" bson:"toState"`
	ToCity           string `json:"toCity" bson:"toCity"`
	ToPincode        string `json:"toPincode" bson:"toPincode"`

	Items      []Item `json:"items" bson:"items" validate:"required,dive"`
	AddComment string `json:"addComment,omitempty" bson:"addComment,omitempty"`

	Freight    float64 `json:"freight" bson:"freight" validate:"gte=0"`
	InsVPP     float64 `json:"ins_vpp" bson:"ins_vpp" validate:"gte=0"`
	CGST       float64 `json:"cgst" bson:"cgst" validate:"gte=0"`
	SGST       float64 `json:"sgst" bson:"sgst" validate:"gte=0"`
	IGST       float64 `json:"igst" bson:"igst" validate:"gte=0"`
	BillTotal  float64 `json:"billTotal" bson:"billTotal" validate:"gte=0"`
	GrandTotal float64 `json:"grandTotal" bson:"grandTotal" validate:"gte=0"`

	Lifecycle `bson:",inline"`

	// Populated on read, never stored.
	StartStationDoc *Station `json:"startStationDetails,omitempty" bson:"-"`
	EndStationDoc   *Station `json:"endStationDetails,omitempty" bson:"-"`
}

// BookingInput is the create/update payload. Stations are given by name and
// resolved by the service.
type BookingInput struct {
	Email            string    `json:"email" validate:"required,email"`
	FirstName        string    `json:"firstName"`
	MiddleName       string    `json:"middleName"`
	LastName         string    `json:"lastName"`
	Mobile           string    `json:"mobile"`
	StartStation     string    `json:"startStation" validate:"required"`
	EndStation       string    `json:"endStation" validate:"required"`
	BookingDate      time.Time `json:"bookingDate" validate:"required"`
	DeliveryDate     time.Time `json:"deliveryDate" validate:"required"`
	SenderName       string    `json:"senderName"`
	SenderGgt        string    `json:"senderGgt"`
	SenderLocality   string    `json:"senderLocality" validate:"required"`
	FromState        string    `json:"fromState"`
	FromCity         string    `json:"fromCity"`
	SenderPincode    string    `json:"senderPincode"`
	ReceiverName     string    `json:"receiverName"`
	ReceiverGgt      string    `json:"receiverGgt"`
	ReceiverLocality string    `json:"receiverLocality" validate:"required"`
	ToState          string    `json:"toState"`
	ToCity           string    `json:"toCity"`
	ToPincode        string    `json:"toPincode"`
	Items            []Item    `json:"items" validate:"required,dive"`
	AddComment       string    `json:"addComment"`
	Freight          float64   `json:"freight" validate:"gte=0"`
	InsVPP           float64   `json:"ins_vpp" validate:"gte=0"`
	CGST             float64   `json:"cgst" validate:"gte=0"`
	SGST             float64   `json:"sgst" validate:"gte=0"`
	IGST             float64   `json:"igst" validate:"gte=0"`
	BillTotal        float64   `json:"billTotal" validate:"gte=0"`
	GrandTotal       float64   `json:"grandTotal" validate:"gte=0"`
}

// BookingUpdate carries a partial update; nil fields are left untouched.
type BookingUpdate struct {
	StartStation     *string    `json:"startStation,omitempty"`
	EndStation       *string    `json:"endStation,omitempty"`
	BookingDate      *time.Time `json:"bookingDate,omitempty"`
	DeliveryDate     *time.Time `json:"deliveryDate,omitempty"`
	SenderName       *string    `json:"senderName,omitempty"`
	SenderLocality   *string    `json:"senderLocality,omitempty" validate:"omitempty,min=1"`
	ReceiverName     *string    `json:"receiverName,omitempty"`
	ReceiverLocality *string    `json:"receiverLocality,omitempty" validate:"omitempty,min=1"`
	Items            *[]Item    `json:"items,omitempty" validate:"omitempty,dive"`
	AddComment       *string    `json:"addComment,omitempty"`
	Freight          *float64   `json:"freight,omitempty" validate:"omitempty,gte=0"`
	InsVPP           *float64   `json:"ins_vpp,omitempty" validate:"omitempty,gte=0"`
	CGST             *float64   `json:"cgst,omitempty" validate:"omitempty,gte=0"`
	SGST             *float64   `json:"sgst,omitempty" validate:"omitempty,gte=0"`
	IGST             *float64   `json:"igst,omitempty" validate:"omitempty,gte=0"`
	BillTotal        *float64   `json:"billTotal,omitempty" validate:"omitempty,gte=0"`
	GrandTotal       *float64   `json:"grandTotal,omitempty" validate:"omitempty,gte=0"`
}

// Fields returns the store field names and values that are set.
func (u BookingUpdate) Fields() map[string]any {
	out := map[string]any{}
	set := func(key string, ok bool, v any) {
		if ok {
			out[key] = v
		}
	}
	if u.StartStation != nil {
		out["startStation"] = *u.StartStation
	}
	if u.EndStation != nil {
		out["endStation"] = *u.EndStation
	}
	if u.BookingDate != nil {
		out["bookingDate"] = *u.BookingDate
	}
	if u.DeliveryDate != nil {
		out["deliveryDate"] = *u.DeliveryDate
	}
	if u.SenderName != nil {
		out["senderName"] = *u.SenderName
	}
	if u.SenderLocality != nil {
		out["senderLocality"] = *u.SenderLocality
	}
	if u.ReceiverName != nil {
		out["receiverName"] = *u.ReceiverName
	}
	if u.ReceiverLocality != nil {
		out["receiverLocality"] = *u.ReceiverLocality
	}
	if u.Items != nil {
		out["items"] = *u.Items
	}
	if u.AddComment != nil {
		out["addComment"] = *u.AddComment
	}
	set("freight", u.Freight != nil, deref(u.Freight))
	set("ins_vpp", u.InsVPP != nil, deref(u.InsVPP))
	set("cgst", u.CGST != nil, deref(u.CGST))
	set("sgst", u.SGST != nil, deref(u.SGST))
	set("igst", u.IGST != nil, deref(u.IGST))
	set("billTotal", u.BillTotal != nil, deref(u.BillTotal))
	set("grandTotal", u.GrandTotal != nil, deref(u.GrandTotal))
	return out
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func (b *Booking) CustomerName() string {
	return FullName(b.FirstName, b.MiddleName, b.LastName)
}

func (b *Booking) TotalWeight() float64 {
	var total float64
	for _, it := range b.Items {
		total += it.Weight
	}
	return total
}

func (b *Booking) RecordID() string      { return b.BookingID }
func (b *Booking) RecordDate() time.Time { return b.BookingDate }
func (b *Booking) Revenue() float64      { return b.GrandTotal }

func (b *Booking) PickupName() string {
	if b.StartStationDoc == nil {
		return ""
	}
	return b.StartStationDoc.StationName
}

func (b *Booking) DropName() string {
	if b.EndStationDoc == nil {
		return ""
	}
	return b.EndStationDoc.StationName
}

func (b *Booking) FilterFields() map[string]any {
	f := b.Lifecycle.fields()
	f["bookingDate"] = b.BookingDate
	f["startStation"] = b.StartStation
	f["endStation"] = b.EndStation
	f["customerId"] = b.CustomerID
	f["cgst"] = b.CGST
	f["sgst"] = b.SGST
	f["igst"] = b.IGST
	return f
}
