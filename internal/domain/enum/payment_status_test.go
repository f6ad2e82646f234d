package enum

import "testing"

func TestValidPaymentTransition(t *testing.T) {
	cases := []struct {
		action string
		from   PaymentStatus
		valid  bool
	}{
		{ActionObtainReference, PaymentStatusUnpaid, true},
		{ActionObtainReference, PaymentStatusAwaiting, true},
		{ActionObtainReference, PaymentStatusPaid, false},
		{ActionInvalidateReference, PaymentStatusAwaiting, true},
		{ActionInvalidateReference, PaymentStatusUnpaid, false},
		{ActionInvalidateReference, PaymentStatusPaid, false},
		{ActionCompletePayment, PaymentStatusAwaiting, true},
		{ActionCompletePayment, PaymentStatusUnpaid, false},
		{ActionCompletePayment, PaymentStatusPaid, false},
		{"unknown", PaymentStatusUnpaid, false},
	}

	for _, tt := range cases {
		if got := ValidPaymentTransition(tt.action, tt.from); got != tt.valid {
			t.Fatalf("ValidPaymentTransition(%q, %q)=%v, want %v", tt.action, tt.from, got, tt.valid)
		}
	}
}

func TestPaymentStatusString(t *testing.T) {
	if PaymentStatusAwaiting.String() != "awaiting_payment" {
		t.Fatalf("unexpected name: %s", PaymentStatusAwaiting)
	}
	if PaymentStatus(99).String() != "unpaid" {
		t.Fatalf("out-of-range status should render as unpaid")
	}
}
