// Package cli implements the manustruct command line interface.
package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var version = "dev"

// SetVersion sets the version string shown by the version command.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "manustruct",
	Short: "Classify manuscript blocks into semantic document structure",
	Long: `manustruct takes a stream of manuscript text blocks and assigns each one a
semantic type: title, headings, abstract, authors, captions, references and
so on. It runs a three stage pipeline (normalize, structure, classify) and
emits the typed blocks with heading hierarchy and section names.

Examples:
  manustruct process paper.json
  manustruct process paper.txt -o typed.json --pretty
  manustruct outline paper.json
  manustruct process paper.json --hints --provider anthropic`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("manustruct %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// detectProviderFromModel infers the hint provider from a model name. An
// empty result means the configured default should be used.
func detectProviderFromModel(model string) string {
	m := strings.ToLower(model)
	switch {
	case m == "":
		return ""
	case strings.HasPrefix(m, "claude"):
		return "anthropic"
	case strings.HasPrefix(m, "gpt"), strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"):
		return "openai"
	case strings.HasPrefix(m, "gemini"):
		return "gemini"
	default:
		return ""
	}
}
