package domain

import (
	"errors"
	"testing"
)

func TestImageFilename(t *testing.T) {
	cases := map[string]string{
		"http://localhost:8000/uploads/abc.jpg":         "abc.jpg",
		"http://localhost:8000/uploads/abc.jpg?v=2":     "abc.jpg",
		"/uploads/../../etc/passwd":                     "passwd",
		"abc.png":                                       "abc.png",
		"http://localhost:8000/":                        "",
		"":                                              "",
		"http://localhost:8000/assets/placeholder.jpeg": "placeholder.jpeg",
	}
	for in, want := range cases {
		if got := ImageFilename(in); got != want {
			t.Fatalf("ImageFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := NewValidationError("All fields are required")
	if err.Error() != "All fields are required" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ValidationError to match ErrValidation")
	}
}
