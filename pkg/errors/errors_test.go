// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/composer-merge/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "parse_error",
			code:    errors.ErrParse,
			message: "document is not valid JSON",
			wantStr: "[PARSE] document is not valid JSON",
		},
		{
			name:    "invalid_input_error",
			code:    errors.ErrInvalidInput,
			message: "marker size must be positive",
			wantStr: "[INVALID_INPUT] marker size must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrParse, "top level must be an object or array, got %s", "String")
	if err.Message != "top level must be an object or array, got String" {
		t.Errorf("Newf() message = %q", err.Message)
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrFileRead, "cannot read ours")

		if err.Code != errors.ErrFileRead {
			t.Errorf("Wrap() code = %v, want %v", err.Code, errors.ErrFileRead)
		}

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[FILE_READ] cannot read ours: base error"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		err := errors.Wrap(nil, errors.ErrInternal, "internal error")
		if err != nil {
			t.Error("Wrap(nil) should return nil")
		}
	})

	t.Run("wrapf_formats_message", func(t *testing.T) {
		err := errors.Wrapf(baseErr, errors.ErrFileWrite, "cannot write %s", "composer.json")
		if err.Message != "cannot write composer.json" {
			t.Errorf("Wrapf() message = %q", err.Message)
		}
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrParse, "invalid").
		WithDetail("state", "theirs").
		WithDetail("path", "/tmp/theirs.json")

	if err.Details["state"] != "theirs" {
		t.Errorf("WithDetail() state = %v, want %v", err.Details["state"], "theirs")
	}

	if err.Details["path"] != "/tmp/theirs.json" {
		t.Errorf("WithDetail() path = %v", err.Details["path"])
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrParse, "error 1")
	err2 := errors.New(errors.ErrParse, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	t.Run("same_code_is_equal", func(t *testing.T) {
		if !err1.Is(err2) {
			t.Error("Is() should return true for same code")
		}
	})

	t.Run("different_code_not_equal", func(t *testing.T) {
		if err1.Is(err3) {
			t.Error("Is() should return false for different codes")
		}
	})

	t.Run("works_with_errors_Is", func(t *testing.T) {
		if !stderrors.Is(err1, err2) {
			t.Error("errors.Is() should work with MergeError")
		}
	})
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{
			name:     "matching_code",
			err:      errors.New(errors.ErrConflicts, "2 conflicts"),
			code:     errors.ErrConflicts,
			expected: true,
		},
		{
			name:     "different_code",
			err:      errors.New(errors.ErrConflicts, "2 conflicts"),
			code:     errors.ErrParse,
			expected: false,
		},
		{
			name:     "wrapped_error",
			err:      errors.Wrap(stderrors.New("base"), errors.ErrFileRead, "denied"),
			code:     errors.ErrFileRead,
			expected: true,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			code:     errors.ErrParse,
			expected: false,
		},
		{
			name:     "nil_error",
			err:      nil,
			code:     errors.ErrParse,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected errors.ErrorCode
	}{
		{
			name:     "merge_error",
			err:      errors.New(errors.ErrConfigLoad, "bad config"),
			expected: errors.ErrConfigLoad,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			expected: errors.ErrUnknown,
		},
		{
			name:     "nil_error",
			err:      nil,
			expected: errors.ErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorDetails(t *testing.T) {
	err := errors.New(errors.ErrParse, "bad").WithDetail("state", "ours")
	details := errors.GetErrorDetails(err)
	if details["state"] != "ours" {
		t.Errorf("GetErrorDetails() state = %v", details["state"])
	}

	if errors.GetErrorDetails(stderrors.New("plain")) != nil {
		t.Error("GetErrorDetails() should be nil for standard errors")
	}
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	fileErr := errors.Wrap(rootCause, errors.ErrFileRead, "cannot read file")
	configErr := errors.Wrap(fileErr, errors.ErrConfigLoad, "failed to load config")

	t.Run("top_level_has_correct_code", func(t *testing.T) {
		if !errors.IsErrorCode(configErr, errors.ErrConfigLoad) {
			t.Error("Top level should have ErrConfigLoad code")
		}
	})

	t.Run("can_find_middle_error", func(t *testing.T) {
		var mergeErr *errors.MergeError
		if stderrors.As(configErr.Unwrap(), &mergeErr) {
			if !errors.IsErrorCode(mergeErr, errors.ErrFileRead) {
				t.Error("Middle error should have ErrFileRead code")
			}
		}
	})

	t.Run("can_find_root_cause", func(t *testing.T) {
		if !stderrors.Is(configErr, rootCause) {
			t.Error("Should find root cause with errors.Is")
		}
	})
}
