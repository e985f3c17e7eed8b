package errors

import (
	stdErrors "errors"
	"fmt"
	"os"
	"testing"
	"time"
)

func TestRateLimitError(t *testing.T) {
	err := NewRateLimitError("slow down")

	if err.Error() != "slow down" {
		t.Fatalf("Error message = %q, want %q", err.Error(), "slow down")
	}

	if !IsRateLimitError(err) {
		t.Fatalf("IsRateLimitError returned false for RateLimitError")
	}

	wrapped := stdErrors.Join(err)
	if !IsRateLimitError(wrapped) {
		t.Fatalf("IsRateLimitError returned false for wrapped RateLimitError")
	}
}

func TestStopProcessingError(t *testing.T) {
	err := NewStopProcessingError("user stopped")

	if err.Error() != "user stopped" {
		t.Fatalf("Error message = %q, want %q", err.Error(), "user stopped")
	}

	if !IsStopProcessingError(err) {
		t.Fatalf("IsStopProcessingError returned false for StopProcessingError")
	}

	wrapped := stdErrors.Join(err)
	if !IsStopProcessingError(wrapped) {
		t.Fatalf("IsStopProcessingError returned false for wrapped StopProcessingError")
	}
}

func TestRateLimitErrorWithRetry(t *testing.T) {
	err := NewRateLimitErrorWithRetry("too many requests", 2*time.Minute)

	expected := "too many requests (retry after 2m0s)"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}

	if !IsRateLimitError(err) {
		t.Fatalf("IsRateLimitError returned false for RateLimitErrorWithRetry")
	}

	if err.RetryAfter.Minutes() != 2.0 {
		t.Fatalf("RetryAfter = %v, want 2 minutes", err.RetryAfter)
	}
}

func TestRateLimitErrorWithRetry_ZeroDuration(t *testing.T) {
	err := NewRateLimitErrorWithRetry("rate limited", 0)

	// When RetryAfter is 0, the implementation only adds retry info if > 0
	expected := "rate limited"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}

	if err.RetryAfter != 0 {
		t.Fatalf("RetryAfter = %v, want 0", err.RetryAfter)
	}
}

func TestRateLimitErrorWithRetry_VariousDurations(t *testing.T) {
	tests := []struct {
		name            string
		duration        time.Duration
		expectedMessage string
	}{
		{
			name:            "1 second",
			duration:        1 * time.Second,
			expectedMessage: "rate limited (retry after 1s)",
		},
		{
			name:            "30 seconds",
			duration:        30 * time.Second,
			expectedMessage: "rate limited (retry after 30s)",
		},
		{
			name:            "1 hour",
			duration:        1 * time.Hour,
			expectedMessage: "rate limited (retry after 1h0m0s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRateLimitErrorWithRetry("rate limited", tt.duration)
			if err.Error() != tt.expectedMessage {
				t.Fatalf("Error message = %q, want %q", err.Error(), tt.expectedMessage)
			}
		})
	}
}

func TestParseInputError(t *testing.T) {
	err := NewParseInputError("history.html", os.ErrNotExist)

	if !IsParseInputError(err) {
		t.Fatalf("IsParseInputError returned false for ParseInputError")
	}

	if !stdErrors.Is(err, os.ErrNotExist) {
		t.Fatalf("ParseInputError does not unwrap to the cause")
	}

	wrapped := fmt.Errorf("extract: %w", err)
	if !IsParseInputError(wrapped) {
		t.Fatalf("IsParseInputError returned false for wrapped ParseInputError")
	}

	if IsNoDataFoundError(wrapped) {
		t.Fatalf("IsNoDataFoundError returned true for ParseInputError")
	}
}

func TestNoDataFoundError(t *testing.T) {
	err := NewNoDataFoundError("history.html")

	expected := "no book records found in history.html"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}

	if NewNoDataFoundError("").Error() != "no book records found" {
		t.Fatalf("unexpected message without path: %q", NewNoDataFoundError("").Error())
	}

	if !IsNoDataFoundError(stdErrors.Join(err)) {
		t.Fatalf("IsNoDataFoundError returned false for wrapped NoDataFoundError")
	}
}

func TestDownloadError(t *testing.T) {
	tests := []struct {
		name string
		kind DownloadErrorKind
	}{
		{name: "transport", kind: KindTransport},
		{name: "timeout", kind: KindTimeout},
		{name: "status", kind: KindStatus},
		{name: "undersized", kind: KindUndersized},
		{name: "write", kind: KindWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cause := stdErrors.New("boom")
			err := NewDownloadError(tt.kind, "https://example.com/a.jpg", cause)

			expected := string(tt.kind) + " error downloading https://example.com/a.jpg: boom"
			if err.Error() != expected {
				t.Fatalf("Error message = %q, want %q", err.Error(), expected)
			}

			wrapped := fmt.Errorf("item 3: %w", err)
			if !IsDownloadError(wrapped) {
				t.Fatalf("IsDownloadError returned false for wrapped DownloadError")
			}
			if DownloadErrorKindOf(wrapped) != tt.kind {
				t.Fatalf("DownloadErrorKindOf = %q, want %q", DownloadErrorKindOf(wrapped), tt.kind)
			}
			if !stdErrors.Is(wrapped, cause) {
				t.Fatalf("DownloadError does not unwrap to the cause")
			}
		})
	}

	if DownloadErrorKindOf(stdErrors.New("plain")) != "" {
		t.Fatalf("DownloadErrorKindOf should be empty for a plain error")
	}
}

func TestBatchFatalError(t *testing.T) {
	cause := os.ErrPermission
	err := NewBatchFatalError(cause)

	if !IsBatchFatalError(fmt.Errorf("job: %w", err)) {
		t.Fatalf("IsBatchFatalError returned false for wrapped BatchFatalError")
	}

	if !stdErrors.Is(err, os.ErrPermission) {
		t.Fatalf("BatchFatalError does not unwrap to the cause")
	}

	if IsDownloadError(err) {
		t.Fatalf("IsDownloadError returned true for BatchFatalError")
	}
}

func TestExportError(t *testing.T) {
	err := NewExportError("out/books.json", stdErrors.New("disk full"))

	expected := "failed to write out/books.json: disk full"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}

	if !IsExportError(stdErrors.Join(err)) {
		t.Fatalf("IsExportError returned false for wrapped ExportError")
	}
}
