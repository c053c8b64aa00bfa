package cli

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cablemoment/pkg/pipeline"
	"github.com/matzehuels/cablemoment/pkg/sizing"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for cablemoment.

Besides commands and flags, the scripts complete network documents
(*.json, *.toml) for compute, render and inspect, the output formats of
render -f (comma-separated, e.g. "svg,dot"), and the sizing systems of
compute --system.

Bash:
  $ source <(cablemoment completion bash)
  $ cablemoment completion bash > /etc/bash_completion.d/cablemoment

Zsh:
  $ cablemoment completion zsh > "${fpath[1]}/_cablemoment"

Fish:
  $ cablemoment completion fish > ~/.config/fish/completions/cablemoment.fish

PowerShell:
  PS> cablemoment completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeDocument offers network documents for the single file argument.
func completeDocument(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json", "toml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats completes the last entry of a comma-separated format list,
// leaving out formats already named.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	chosen := strings.Split(prefix, ",")

	var out []string
	for _, f := range formatNamesSorted() {
		if slices.Contains(chosen, f) {
			continue
		}
		if strings.HasPrefix(prefix+f, toComplete) {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeSystems completes the sizing systems.
func completeSystems(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{
		string(sizing.ThreePhase) + "\tthree-phase, 380 V by default",
		string(sizing.SinglePhase) + "\tsingle-phase, 220 V by default",
	}, cobra.ShellCompDirectiveNoFileComp
}

func formatNamesSorted() []string {
	names := make([]string, 0, len(pipeline.ValidFormats))
	for f := range pipeline.ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}
