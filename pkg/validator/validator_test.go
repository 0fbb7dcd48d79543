package validator

import "testing"

type sample struct {
	Username string  `json:"username" validate:"required,min=3"`
	Status   string  `json:"status" validate:"omitempty,oneof=CONFIRMED CANCELLED"`
	Report   *string `json:"report_url" validate:"omitempty,url"`
}

func TestFormatValidationErrors(t *testing.T) {
	v := NewValidator()
	bad := "nope"

	err := v.Validate(&sample{Username: "ab", Status: "DONE", Report: &bad})
	if err == nil {
		t.Fatal("expected validation error")
	}

	got := v.FormatValidationErrors(err)
	want := map[string]string{
		"username":   "username must be at least 3 characters",
		"status":     "status must be one of: CONFIRMED, CANCELLED",
		"report_url": "report_url must be a valid URL",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("%s: expected %q, got %q", field, msg, got[field])
		}
	}

	if err := v.Validate(&sample{Username: "asha"}); err != nil {
		t.Errorf("expected valid sample, got %v", err)
	}
}
