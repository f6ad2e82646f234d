package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentStatus represents the payment state of a ticket
type PaymentStatus int

const (
	PaymentStatusUnpaid   PaymentStatus = 0
	PaymentStatusAwaiting PaymentStatus = 1
	PaymentStatusPaid     PaymentStatus = 2
)

func (s PaymentStatus) String() string {
	names := [...]string{"unpaid", "awaiting_payment", "paid"}
	if int(s) < 0 || int(s) >= len(names) {
		return "unpaid"
	}
	return names[s]
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PaymentStatus(i)
		return nil
	}
	switch str {
	case "unpaid":
		*s = PaymentStatusUnpaid
	case "awaiting_payment":
		*s = PaymentStatusAwaiting
	case "paid":
		*s = PaymentStatusPaid
	}
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatusUnpaid
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PaymentStatus(v)
	case int:
		*s = PaymentStatus(v)
	}
	return nil
}

// Payment actions. A reference is obtained from the gateway, invalidated
// when the ticket's items change, and completion is user triggered; paid
// is terminal.
const (
	ActionObtainReference     = "obtain_reference"
	ActionInvalidateReference = "invalidate_reference"
	ActionCompletePayment     = "complete_payment"
)

var paymentTransitions = map[string][]PaymentStatus{
	ActionObtainReference:     {PaymentStatusUnpaid, PaymentStatusAwaiting},
	ActionInvalidateReference: {PaymentStatusAwaiting},
	ActionCompletePayment:     {PaymentStatusAwaiting},
}

// ValidPaymentTransition reports whether action may be applied to a ticket
// currently in fromStatus.
func ValidPaymentTransition(action string, fromStatus PaymentStatus) bool {
	allowed, ok := paymentTransitions[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}
	return false
}
