package entity

const (
	PayCash  = "CASH"
	PayCard  = "CARD"
	PayInApp = "UPI_IN_APP"
	PaySplit = "SPLIT"
)

func ValidPaymentMethod(m string) bool {
	switch m {
	case PayCash, PayCard, PayInApp, PaySplit:
		return true
	}
	return false
}
