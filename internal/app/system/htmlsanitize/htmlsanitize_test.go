package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/aman124598/TeacherHQ/internal/app/system/htmlsanitize"
)

func TestSanitize_RemovesScripts(t *testing.T) {
	in := `<p>Grade the quizzes</p><script>alert("x")</script>`
	out := htmlsanitize.Sanitize(in)

	if strings.Contains(out, "script") || strings.Contains(out, "alert") {
		t.Errorf("script survived sanitization: %q", out)
	}
	if !strings.Contains(out, "Grade the quizzes") {
		t.Errorf("content lost: %q", out)
	}
}

func TestSanitize_KeepsBasicFormatting(t *testing.T) {
	in := `<b>Staff meeting</b> at <a href="https://example.com">room 4</a>`
	out := htmlsanitize.Sanitize(in)

	if !strings.Contains(out, "<b>Staff meeting</b>") {
		t.Errorf("bold lost: %q", out)
	}
	if !strings.Contains(out, "room 4") {
		t.Errorf("link text lost: %q", out)
	}
}

func TestPlainText(t *testing.T) {
	in := "  <p>Sports day <em>postponed</em></p>  "
	if got := htmlsanitize.PlainText(in); got != "Sports day postponed" {
		t.Errorf("PlainText = %q", got)
	}
}
