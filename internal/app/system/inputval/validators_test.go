package inputval

import "testing"

func TestValidate(t *testing.T) {
	type TestInput struct {
		Name  string `validate:"required,max=10" label:"Full name"`
		Email string `validate:"required,email" label:"Email address"`
	}

	tests := []struct {
		name       string
		input      TestInput
		wantErrors bool
		wantFirst  string
	}{
		{
			name:       "valid input",
			input:      TestInput{Name: "John", Email: "john@example.com"},
			wantErrors: false,
		},
		{
			name:       "missing name",
			input:      TestInput{Name: "", Email: "john@example.com"},
			wantErrors: true,
			wantFirst:  "Full name is required.",
		},
		{
			name:       "name too long",
			input:      TestInput{Name: "VeryLongNameThatExceedsLimit", Email: "john@example.com"},
			wantErrors: true,
			wantFirst:  "Full name must be at most 10 characters.",
		},
		{
			name:       "invalid email",
			input:      TestInput{Name: "John", Email: "not-an-email"},
			wantErrors: true,
			wantFirst:  "A valid email address is required.",
		},
		{
			name:       "missing both",
			input:      TestInput{Name: "", Email: ""},
			wantErrors: true,
			wantFirst:  "Full name is required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)

			if result.HasErrors() != tt.wantErrors {
				t.Errorf("Validate() HasErrors = %v, want %v", result.HasErrors(), tt.wantErrors)
			}
			if tt.wantErrors && result.Messages()[0] != tt.wantFirst {
				t.Errorf("Validate() first message = %q, want %q", result.Messages()[0], tt.wantFirst)
			}
		})
	}
}

func TestValidate_PatientRules(t *testing.T) {
	type patient struct {
		Sex     string `validate:"required,sex" label:"Sex"`
		Age     int    `validate:"gte=0,lte=130" label:"Age"`
		Pass    string `validate:"required" label:"Password"`
		Confirm string `validate:"required,eqfield=Pass" label:"Confirm password"`
	}

	t.Run("valid", func(t *testing.T) {
		if r := Validate(patient{Sex: "female", Age: 130, Pass: "x", Confirm: "x"}); r.HasErrors() {
			t.Errorf("unexpected errors: %v", r.All())
		}
	})

	t.Run("age out of range", func(t *testing.T) {
		r := Validate(patient{Sex: "male", Age: 131, Pass: "x", Confirm: "x"})
		if r.All() != "Age must be at most 130." {
			t.Errorf("All() = %q", r.All())
		}
	})

	t.Run("bad sex", func(t *testing.T) {
		r := Validate(patient{Sex: "unknown", Age: 3, Pass: "x", Confirm: "x"})
		if r.All() != "Sex must be male, female or other." {
			t.Errorf("All() = %q", r.All())
		}
	})

	t.Run("mismatch", func(t *testing.T) {
		r := Validate(patient{Sex: "other", Age: 3, Pass: "x", Confirm: "y"})
		if r.All() != "Passwords do not match." {
			t.Errorf("All() = %q", r.All())
		}
	})
}

func TestResult_All(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		r := &Result{}
		if r.All() != "" {
			t.Errorf("All() = %q, want empty", r.All())
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		r := &Result{
			Errors: []FieldError{
				{Message: "Error 1"},
				{Message: "Error 2"},
			},
		}
		want := "Error 1; Error 2"
		if r.All() != want {
			t.Errorf("All() = %q, want %q", r.All(), want)
		}
		if len(r.Messages()) != 2 {
			t.Errorf("Messages() = %v", r.Messages())
		}
	})
}

func TestResult_NilIsEmpty(t *testing.T) {
	var nilResult *Result
	if nilResult.HasErrors() || nilResult.All() != "" || nilResult.Messages() != nil {
		t.Error("nil result should report no errors")
	}
}
