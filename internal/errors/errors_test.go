package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "drag error",
			code:    "E201",
			wantMsg: "Duplicate item ID",
			wantCat: CategoryDrag,
		},
		{
			name:    "protocol error",
			code:    "E302",
			wantMsg: "Unknown message type",
			wantCat: CategoryProtocol,
		},
		{
			name:    "config error",
			code:    "E403",
			wantMsg: "Invalid config",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "board.yaml")
	if err.Message != `file "board.yaml" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "board.yaml" not found`)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestDragError_Error(t *testing.T) {
	err := New("E203")
	if got, want := err.Error(), "E203: Item not measured"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err.WithDetailf("item %q", "a")
	if got, want := err.Error(), `E203: Item not measured (item "a")`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &DragError{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestDragError_IsAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := New("E402").Wrap(cause)
	wrapped := fmt.Errorf("loading: %w", err)

	if !stderrors.Is(wrapped, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !stderrors.Is(wrapped, New("E402")) {
		t.Error("errors.Is should match a template with the same code")
	}
	if stderrors.Is(wrapped, New("E401")) {
		t.Error("errors.Is should not match a different code")
	}
	if !HasCode(wrapped, "E402") {
		t.Error("HasCode(E402) = false, want true")
	}
	if HasCode(cause, "E402") {
		t.Error("HasCode on a plain error = true, want false")
	}
}

func TestHasCodeNested(t *testing.T) {
	inner := New("E301")
	outer := New("E501").Wrap(inner)
	if !HasCode(outer, "E301") {
		t.Error("HasCode should walk nested DragErrors")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E402") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("E201")
	if FromError(orig, "E402") != orig {
		t.Error("FromError should return an existing DragError unchanged")
	}

	plain := stderrors.New("boom")
	got := FromError(plain, "E402")
	if got.Code != "E402" || got.Wrapped != plain {
		t.Errorf("FromError = %+v, want E402 wrapping boom", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E201").
		WithDetail(`item "a" appears twice`).
		WithSuggestion("Use unique IDs")

	out := err.Format()
	for _, want := range []string{
		"ERROR E201: Duplicate item ID",
		`item "a" appears twice`,
		"Hint: Use unique IDs",
		"Learn more: https://vango.dev/docs/dragsort/errors/E201",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatFallsBackToTemplateDetail(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("E203").Format()
	// Detail is wrapped, so compare with line breaks folded away.
	flat := strings.Join(strings.Fields(out), " ")
	if !strings.Contains(flat, "Geometry is available after the first layout pass.") {
		t.Errorf("Format() should include the registered detail, got:\n%s", out)
	}
}

func TestFormatCompact(t *testing.T) {
	if got := New("E204").FormatCompact(); got != "E204: Unknown container" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(New("E302").WithDetail(`type "zoom"`))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got["code"] != "E302" || got["category"] != "protocol" || got["detail"] != `type "zoom"` {
		t.Errorf("json = %v", got)
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("PrintError(plain) = %q", buf.String())
	}

	buf.Reset()
	PrintError(&buf, New("E401"))
	if !strings.Contains(buf.String(), "ERROR E401") {
		t.Errorf("PrintError(DragError) = %q", buf.String())
	}
}

func TestRegistryComplete(t *testing.T) {
	for _, code := range Codes() {
		tmpl, ok := Lookup(code)
		if !ok {
			t.Fatalf("Lookup(%s) missing", code)
		}
		if tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("%s: incomplete template %+v", code, tmpl)
		}
		if !strings.HasSuffix(tmpl.DocURL, code) {
			t.Errorf("%s: DocURL = %q", code, tmpl.DocURL)
		}
	}
}
