package cli

import (
	"bytes"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompleteFormats(t *testing.T) {
	tests := []struct {
		toComplete string
		want       []string
	}{
		{"", []string{"dot", "json", "pdf", "png", "svg"}},
		{"p", []string{"pdf", "png"}},
		{"svg,", []string{"svg,dot", "svg,json", "svg,pdf", "svg,png"}},
		{"svg,dot,j", []string{"svg,dot,json"}},
		{"x", nil},
	}

	for _, tt := range tests {
		t.Run(tt.toComplete, func(t *testing.T) {
			got, directive := completeFormats(nil, nil, tt.toComplete)
			if !slices.Equal(got, tt.want) {
				t.Errorf("completeFormats(%q) = %v, want %v", tt.toComplete, got, tt.want)
			}
			if directive&cobra.ShellCompDirectiveNoSpace == 0 {
				t.Error("format completion should not append a space")
			}
		})
	}
}

func TestCompleteSystems(t *testing.T) {
	got, _ := completeSystems(nil, nil, "")
	if len(got) != 2 || !strings.HasPrefix(got[0], "three-phase\t") || !strings.HasPrefix(got[1], "single-phase\t") {
		t.Errorf("completeSystems = %q", got)
	}
}

func TestCompleteDocument(t *testing.T) {
	exts, directive := completeDocument(nil, nil, "")
	if !slices.Equal(exts, []string{"json", "toml"}) || directive != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("completeDocument = %v, %v", exts, directive)
	}
	if got, _ := completeDocument(nil, []string{"yard.json"}, ""); got != nil {
		t.Errorf("second argument completed to %v", got)
	}
}

func TestRenderFormatFlagCompletes(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{cobra.ShellCompRequestCmd, "render", "yard.json", "-f", "svg,p"})
	if err := root.Execute(); err != nil {
		t.Fatalf("complete: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{"svg,pdf", "svg,png", ":6"}
	if !slices.Equal(lines, want) {
		t.Errorf("completion output = %q, want %q", lines, want)
	}
}
