package ux

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	apperrors "github.com/reciplore/reciplore/internal/errors"
)

type recipe struct {
	Title string `json:"title" yaml:"title"`
	Price int    `json:"price" yaml:"price"`
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{"json", "*ux.JSONFormatter", false},
		{"yaml", "*ux.YAMLFormatter", false},
		{"text", "*ux.TextFormatter", false},
		{"", "*ux.TextFormatter", false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := NewFormatter(tt.format, nil)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewFormatter(%q) expected error", tt.format)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFormatter(%q) unexpected error: %v", tt.format, err)
			}
			if got := fmt.Sprintf("%T", f); got != tt.want {
				t.Errorf("NewFormatter(%q) = %s, want %s", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormatters_Document(t *testing.T) {
	doc := Document{
		Data: recipe{Title: "Koshari", Price: 40},
		Text: func(w io.Writer, _ bool) error {
			_, err := fmt.Fprintln(w, "Koshari (40)")
			return err
		},
	}

	tests := []struct {
		format string
		want   string
	}{
		{"json", "{\n  \"title\": \"Koshari\",\n  \"price\": 40\n}\n"},
		{"yaml", "title: Koshari\nprice: 40\n"},
		{"text", "Koshari (40)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			f, err := NewFormatter(tt.format, &FormatterOptions{Writer: &buf})
			if err != nil {
				t.Fatalf("NewFormatter: %v", err)
			}
			if err := f.Format(doc); err != nil {
				t.Fatalf("Format: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Format() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestTextFormatter_Fallbacks(t *testing.T) {
	var buf bytes.Buffer
	f := &TextFormatter{opts: &FormatterOptions{Writer: &buf}}

	if err := f.Format("hello"); err != nil {
		t.Fatalf("Format string: %v", err)
	}
	if err := f.Format(recipe{Title: "Falafel", Price: 5}); err != nil {
		t.Fatalf("Format struct: %v", err)
	}
	if err := f.Format(&Document{Data: map[string]int{"servings": 4}}); err != nil {
		t.Fatalf("Format document without text: %v", err)
	}

	want := "hello\ntitle: Falafel\nprice: 5\nservings: 4\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestJSONFormatter_Compact(t *testing.T) {
	var buf bytes.Buffer
	f, _ := NewFormatter("json", &FormatterOptions{Writer: &buf, Compact: true})
	if err := f.Format(recipe{Title: "Ful", Price: 3}); err != nil {
		t.Fatalf("Format: %v", err)
	}
	if got := buf.String(); got != "{\"title\":\"Ful\",\"price\":3}\n" {
		t.Errorf("compact JSON = %q", got)
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTable(&buf, true, []string{"ID", "TITLE"}, [][]string{
		{"r1", "Koshari"},
		{"r2", "Molokhia"},
	}, "No recipes.")
	if err != nil {
		t.Fatalf("WriteTable: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"ID", "TITLE", "r1", "Koshari", "r2", "Molokhia"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, true, []string{"ID"}, nil, "No recipes."); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	if buf.String() != "No recipes.\n" {
		t.Errorf("empty table = %q", buf.String())
	}
}

func TestWriteFields(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFields(&buf, true, []Field{
		{Key: "Name", Value: "Mona"},
		{Key: "Phone", Value: ""},
		{Key: "Email", Value: "mona@example.com"},
	})
	if err != nil {
		t.Fatalf("WriteFields: %v", err)
	}

	want := "Name:  Mona\nEmail: mona@example.com\n"
	if buf.String() != want {
		t.Errorf("WriteFields() = %q, want %q", buf.String(), want)
	}
}

func TestEnhanceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantSuggestion string
	}{
		{
			name:           "nil",
			err:            nil,
			wantSuggestion: "",
		},
		{
			name:           "transport failure",
			err:            apperrors.New(apperrors.ErrCodeTransportFailed, apperrors.KindNetworkFailure, "network error"),
			wantSuggestion: "api.base_url",
		},
		{
			name: "unauthorized",
			err: apperrors.New(apperrors.ErrCodeRequestFailed, apperrors.KindNetworkFailure, "jwt expired").
				WithStatus(http.StatusUnauthorized),
			wantSuggestion: "reciplore auth login",
		},
		{
			name:           "stale session",
			err:            apperrors.NewStaleSessionError("update_user"),
			wantSuggestion: "reciplore auth status",
		},
		{
			name:           "response shape",
			err:            apperrors.New(apperrors.ErrCodeDecodeFailed, apperrors.KindResponseShape, "bad body"),
			wantSuggestion: "unexpected body",
		},
		{
			name:           "connection refused",
			err:            errors.New("dial tcp 127.0.0.1:5000: connection refused"),
			wantSuggestion: "network connection",
		},
		{
			name:           "permission denied",
			err:            errors.New("open cookies.json: permission denied"),
			wantSuggestion: "~/.reciplore",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnhanceError(tt.err)
			if tt.err == nil {
				if got != nil {
					t.Errorf("EnhanceError(nil) = %v, want nil", got)
				}
				return
			}

			var withSuggestion *ErrorWithSuggestion
			if !errors.As(got, &withSuggestion) {
				t.Fatalf("EnhanceError() = %T, want *ErrorWithSuggestion", got)
			}
			if !strings.Contains(withSuggestion.Suggestion, tt.wantSuggestion) {
				t.Errorf("suggestion = %q, want it to contain %q", withSuggestion.Suggestion, tt.wantSuggestion)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("enhanced error does not wrap original")
			}
		})
	}
}

func TestEnhanceError_KeepsExistingSuggestions(t *testing.T) {
	err := apperrors.NewNoAccessTokenError()
	if got := EnhanceError(err); got != error(err) {
		t.Errorf("EnhanceError() rewrapped an error that already had suggestions")
	}

	plain := errors.New("something else")
	if got := EnhanceError(plain); got != plain {
		t.Errorf("EnhanceError() rewrapped an unrecognized error")
	}
}

func TestFormatError(t *testing.T) {
	err := FormatError(errors.New("connection refused"), "load recipes")
	if err == nil {
		t.Fatal("FormatError() returned nil")
	}
	if !strings.HasPrefix(err.Error(), "load recipes: connection refused") {
		t.Errorf("FormatError() = %q", err.Error())
	}
	if !strings.Contains(err.Error(), "Suggestion:") {
		t.Errorf("FormatError() lost the suggestion: %q", err.Error())
	}
	if FormatError(nil, "x") != nil {
		t.Error("FormatError(nil) should be nil")
	}
}
