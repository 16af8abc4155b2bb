package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(CodeNotFound, "student not found")
	if err.Code() != CodeNotFound {
		t.Fatalf("expected code %s got %s", CodeNotFound, err.Code())
	}
	if err.Message() != "student not found" {
		t.Fatalf("unexpected message %q", err.Message())
	}
	if err.Error() != "NOT_FOUND: student not found" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "query documents")
	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("expected dependency code got %s", err.Code())
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	inner := New(CodeUnsupportedQuery, "range and order fields differ")
	wrapped := Wrap(CodeDependency, inner, "execute query")

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeDependency {
		t.Fatalf("expected outermost code, got %s", typed.Code())
	}
}

func TestAsReturnsNilForPlainError(t *testing.T) {
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
}

func TestHasCode(t *testing.T) {
	err := New(CodeTimeout, "list timed out")
	if !HasCode(err, CodeTimeout) {
		t.Fatal("expected HasCode to match")
	}
	if HasCode(err, CodeNotFound) {
		t.Fatal("unexpected match")
	}
	if HasCode(nil, CodeTimeout) {
		t.Fatal("nil error must not match")
	}
}

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code      Code
		status    int
		retryable bool
	}{
		{CodeNotFound, http.StatusNotFound, false},
		{CodeUnsupportedQuery, http.StatusBadRequest, false},
		{CodeTimeout, http.StatusGatewayTimeout, true},
		{CodeDependency, http.StatusServiceUnavailable, true},
	}
	for _, tc := range cases {
		meta := MetadataFor(tc.code)
		if meta.HTTPStatus != tc.status {
			t.Fatalf("%s: expected status %d got %d", tc.code, tc.status, meta.HTTPStatus)
		}
		if meta.Retryable != tc.retryable {
			t.Fatalf("%s: expected retryable %v", tc.code, tc.retryable)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("BOGUS"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "bad input").WithDetails(map[string]string{"title": "is required"})
	details, ok := err.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details type %T", err.Details())
	}
	if details["title"] != "is required" {
		t.Fatalf("unexpected details %v", details)
	}
}
