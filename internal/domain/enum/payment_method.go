package enum

import "encoding/json"

// PaymentMethod is how a completed order was paid.
type PaymentMethod string

const (
	PaymentMethodAlipay PaymentMethod = "alipay"
	PaymentMethodCash   PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodAlipay || m == PaymentMethodCash
}

func (m PaymentMethod) String() string {
	return string(m)
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*m = PaymentMethod(str)
	return nil
}
