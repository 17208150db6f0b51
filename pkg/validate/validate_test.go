package validate_test

import (
	"testing"

	"github.com/campuseats/canteen/pkg/validate"
)

type registerInput struct {
	Name                 string `json:"name"                  validate:"required,min=2,max=100"`
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
	Notes                string `json:"notes"                 validate:"nullable,max=10"`
	Quantity             int    `json:"quantity"              validate:"required,gte=1"`
	Status               string `json:"status"                validate:"required,in=PENDING,PROCESSING,READY"`
}

func valid() registerInput {
	return registerInput{
		Name:                 "Asha",
		Email:                "asha@campus.test",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
		Quantity:             2,
		Status:               "PENDING",
	}
}

func TestValidInput(t *testing.T) {
	if errs := validate.Struct(valid()); validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	for _, field := range []string{"name", "email", "password", "quantity", "status"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
}

func TestEmailRule(t *testing.T) {
	in := valid()
	in.Email = "not-an-email"
	if _, ok := validate.Struct(in)["email"]; !ok {
		t.Error("expected email validation error")
	}
}

func TestConfirmedRule(t *testing.T) {
	in := valid()
	in.PasswordConfirmation = "different"
	if _, ok := validate.Struct(in)["password"]; !ok {
		t.Error("expected confirmation mismatch error")
	}
}

func TestGteRule(t *testing.T) {
	in := valid()
	in.Quantity = -1
	if _, ok := validate.Struct(in)["quantity"]; !ok {
		t.Error("expected quantity error")
	}
}

func TestInRuleKeepsMultiValueList(t *testing.T) {
	in := valid()
	in.Status = "READY"
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		t.Errorf("READY should be accepted, got: %v", errs)
	}
	in.Status = "SHIPPED"
	if _, ok := validate.Struct(in)["status"]; !ok {
		t.Error("expected status error for SHIPPED")
	}
}

func TestNullableSkipsWhenEmpty(t *testing.T) {
	in := valid()
	in.Notes = ""
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		t.Errorf("empty nullable field should pass, got: %v", errs)
	}
	in.Notes = "this note is far too long"
	if _, ok := validate.Struct(in)["notes"]; !ok {
		t.Error("expected max error for long notes")
	}
}
