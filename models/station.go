package models

type Station struct {
	ID          string `json:"_id,omitempty" bson:"_id,omitempty"`
	StationID   string `json:"stationId" bson:"stationId"`
	StationName string `json:"stationName" bson:"stationName" validate:"required"`
	Contact     string `json:"contact" bson:"contact" validate:"required"`
	EmailID     string `json:"emailId" bson:"emailId" validate:"required,email"`
	Address     string `json:"address" bson:"address" validate:"required"`
	State       string `json:"state" bson:"state" validate:"required"`
	City        string `json:"city" bson:"city" validate:"required"`
	Pincode     string `json:"pincode" bson:"pincode" validate:"required"`
	GST         string `json:"gst" bson:"gst" validate:"required"`
}

type StationUpdate struct {
	StationName *string `json:"stationName,omitempty" validate:"omitempty,min=1"`
	Contact     *string `json:"contact,omitempty" validate:"omitempty,min=1"`
	EmailID     *string `json:"emailId,omitempty" validate:"omitempty,email"`
	Address     *string `json:"address,omitempty"`
	State       *string `json:"state,omitempty"`
	City        *string `json:"city,omitempty"`
	Pincode     *string `json:"pincode,omitempty"`
	GST         *string `json:"gst,omitempty"`
}

func (u StationUpdate) Fields() map[string]any {
	out := map[string]any{}
	for key, v := range map[string]*string{
		"stationName": u.StationName,
		"contact":     u.Contact,
		"emailId":     u.EmailID,
		"address":     u.Address,
		"state":       u.State,
		"city":        u.City,
		"pincode":     u.Pincode,
		"gst":         u.GST,
	} {
		if v != nil {
			out[key] = *v
		}
	}
	return out
}

// StationListRow is one line of the station listing.
type StationListRow struct {
	SNo           int    `json:"sNo"`
	StationID     string `json:"stationId"`
	StationName   string `json:"stationName"`
	ContactNumber string `json:"contactNumber"`
}
