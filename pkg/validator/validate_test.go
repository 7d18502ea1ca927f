package validator_test

import (
	"testing"

	"github.com/gitlite/gitlite/pkg/validator"
	"github.com/stretchr/testify/require"
)

func TestValidateFileName(t *testing.T) {
	cases := []struct {
		name  string
		value string
		valid bool
	}{
		{"simple", "a", true},
		{"dotted", "notes.txt", true},
		{"dashes", "a-b_c.d", true},
		{"digit first", "1file", true},
		{"empty", "", false},
		{"leading dot", ".hidden", false},
		{"leading dash", "-flag", false},
		{"separator", "dir/file", false},
		{"space", "a b", false},
		{"message slot", "_MESSAGE", false},
		{"leading underscore", "_x", false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateFileName(tt.value)
			if tt.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, validator.ErrInvalid)
			}
		})
	}
}

func TestValidateBranchName(t *testing.T) {
	require.NoError(t, validator.ValidateBranchName("trunk"))
	require.NoError(t, validator.ValidateBranchName("release-1.0"))
	require.ErrorIs(t, validator.ValidateBranchName(""), validator.ErrInvalid)
	require.ErrorIs(t, validator.ValidateBranchName("-d"), validator.ErrInvalid)
	require.ErrorIs(t, validator.ValidateBranchName("a/b"), validator.ErrInvalid)
}

func TestValidate(t *testing.T) {
	err := validator.Validate([]validator.ValidateArg{
		{Name: "file", Value: "a", Fn: validator.ValidateFileName},
		{Name: "message", Value: "", Fn: validator.ValidateRequiredString},
	})
	require.ErrorIs(t, err, validator.ErrRequiredValue)
	require.Contains(t, err.Error(), "argument message")
}
