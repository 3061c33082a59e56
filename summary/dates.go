package summary

import "time"

const (
	displayLayout = "02-01-2006"
	isoLayout     = "2006-01-02"
	notAvailable  = "N/A"
)

// DisplayDate formats t as DD-MM-YYYY; zero yields "".
func DisplayDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(displayLayout)
}

// ISODate formats t as YYYY-MM-DD in UTC; zero yields "N/A".
func ISODate(t time.Time) string {
	if t.IsZero() {
		return notAvailable
	}
	return t.UTC().Format(isoLayout)
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
