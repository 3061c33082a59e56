package models

import "time"

type Customer struct {
	ID            string    `json:"_id,omitempty" bson:"_id,omitempty"`
	FirstName     string    `json:"firstName" bson:"firstName" validate:"required"`
	MiddleName    string    `json:"middleName" bson:"middleName"`
	LastName      string    `json:"lastName" bson:"lastName" validate:"required"`
	ContactNumber string    `json:"contactNumber" bson:"contactNumber" validate:"required"`
	EmailID       string    `json:"emailId" bson:"emailId" validate:"required,email"`
	Address       string    `json:"address" bson:"address"`
	State         string    `json:"state" bson:"state"`
	City          string    `json:"city" bson:"city"`
	District      string    `json:"district" bson:"district"`
	Pincode       string    `json:"pincode" bson:"pincode"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

func (c *Customer) FullName() string {
	return FullName(c.FirstName, c.MiddleName, c.LastName)
}
