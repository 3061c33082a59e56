package models

// InvoiceLine is one booking row on a customer invoice.
type InvoiceLine struct {
	SNo      int
	Date     string
	Receiver string
	Amount   float64
	CGST     float64
	SGST     float64
}

// InvoicePDFData is everything a renderer needs to produce a customer tax invoice.
type InvoicePDFData struct {
	CompanyName    string
	CompanyAddress string
	CompanyGSTIN   string
	PartyName      string
	PartyEmail     string
	Lines          []InvoiceLine
	TotalAmount    float64
	TotalCGST      float64
	TotalSGST      float64
	GrandTotal     float64
	TotalWords     string
}
