package api

import "time"

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"
)

func formatDate(t time.Time) string {
	return t.Local().Format(dateLayout)
}

func formatDateTime(t time.Time) string {
	return t.Local().Format(dateTimeLayout)
}
