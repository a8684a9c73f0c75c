package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorMode
		wantErr bool
	}{
		{in: "", want: ColorAuto},
		{in: "auto", want: ColorAuto},
		{in: "always", want: ColorAlways},
		{in: "never", want: ColorNever},
		{in: "bogus", want: ColorAuto, wantErr: true},
		{in: "Always", want: ColorAuto, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColorMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColorMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseColorMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if err != nil && GetExitCode(err) != ExitUserError {
				t.Errorf("exit code = %d, want %d", GetExitCode(err), ExitUserError)
			}
		})
	}
}

func TestColorMode_Enabled(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	tests := []struct {
		mode  ColorMode
		isTTY bool
		want  bool
	}{
		{ColorNever, true, false},
		{ColorAlways, false, true},
		{ColorAuto, true, true},
		{ColorAuto, false, false},
	}
	for _, tt := range tests {
		if got := tt.mode.Enabled(tt.isTTY); got != tt.want {
			t.Errorf("%s.Enabled(%v) = %v, want %v", tt.mode, tt.isTTY, got, tt.want)
		}
	}
}

func TestColorMode_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if ColorAuto.Enabled(true) {
		t.Error("auto should disable colors when NO_COLOR is set")
	}
	if !ColorAlways.Enabled(false) {
		t.Error("always should win over NO_COLOR")
	}
}

func TestIsTTY_Buffer(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("IsTTY(buffer) should return false")
	}
}

func TestColorAlways_StylesTable(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, ColorAlways.Enabled(false))

	if printer.styles.Header.GetForeground() == lipgloss.NewStyle().GetForeground() {
		t.Error("Header style should keep its color when color=always")
	}
}

func TestColorNever_NoANSI(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, ColorNever.Enabled(true))

	printer.Error(NewExternalError("git", 1, "error: pathspec 'nope' did not match", nil))
	printer.Table([]string{"PR #", "Checks"}, [][]string{{"12", "✅ 2/2 passed"}})

	if out := buf.String(); strings.Contains(out, "\x1b[") {
		t.Errorf("--color never should produce no ANSI codes, got: %q", out)
	}
}
