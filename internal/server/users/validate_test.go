package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() RegisterInput {
	return RegisterInput{
		Name:            "Ann",
		Email:           "a@x.com",
		Password:        "Aa1!aaaa",
		ConfirmPassword: "Aa1!aaaa",
	}
}

func TestValidateRegistration_OK(t *testing.T) {
	require.Nil(t, ValidateRegistration(validInput()))
}

func TestValidateRegistration_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"name too short", func(in *RegisterInput) { in.Name = "Al" }},
		{"name too long", func(in *RegisterInput) { in.Name = string(make([]byte, 51)) }},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"password too short", func(in *RegisterInput) { in.Password = "Aa1!a"; in.ConfirmPassword = "Aa1!a" }},
		{"password too long", func(in *RegisterInput) {
			in.Password = "Aa1!aaaaaaaaaaaaaaaaaaaaa"
			in.ConfirmPassword = in.Password
		}},
		{"no uppercase", func(in *RegisterInput) { in.Password = "aa1!aaaa"; in.ConfirmPassword = "aa1!aaaa" }},
		{"no lowercase", func(in *RegisterInput) { in.Password = "AA1!AAAA"; in.ConfirmPassword = "AA1!AAAA" }},
		{"no digit", func(in *RegisterInput) { in.Password = "Aab!aaaa"; in.ConfirmPassword = "Aab!aaaa" }},
		{"no special", func(in *RegisterInput) { in.Password = "Aa1baaaa"; in.ConfirmPassword = "Aa1baaaa" }},
		{"character outside allowed set", func(in *RegisterInput) { in.Password = "Aa1!aaa~"; in.ConfirmPassword = "Aa1!aaa~" }},
		{"confirmation mismatch", func(in *RegisterInput) { in.ConfirmPassword = "Aa1!bbbb" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			e := ValidateRegistration(in)
			require.NotNil(t, e, "expected a violation")
			assert.NotEmpty(t, e.Violations)
		})
	}
}

func TestValidateRegistration_CollectsAllViolations(t *testing.T) {
	e := ValidateRegistration(RegisterInput{Name: "x", Email: "bad", Password: "short", ConfirmPassword: "other"})
	require.NotNil(t, e)
	assert.GreaterOrEqual(t, len(e.Violations), 3)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.Com "))
}
