package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roboco-io/manustruct/internal/ir"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Print the heading outline of a manuscript",
	Long: `Run the classification pipeline and print the document outline: the
title and every detected heading, indented by nesting level, with the
canonical section name and detection confidence.

Examples:
  manustruct outline paper.json
  manustruct outline paper.txt --style acm`,
	Args: cobra.ExactArgs(1),
	RunE: runOutline,
}

func init() {
	outlineCmd.Flags().StringVar(&processFormat, "format", "auto", "input format (json, text, auto)")
	outlineCmd.Flags().StringVar(&processStyle, "style", "", "publication style for section contracts (ieee, acm)")
	outlineCmd.Flags().StringVar(&processRemote, "remote", "", "remote parse service endpoint")
	outlineCmd.Flags().BoolVarP(&processVerbose, "verbose", "v", false, "verbose output")
	outlineCmd.Flags().BoolVarP(&processQuiet, "quiet", "q", false, "quiet mode")

	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
	doc, logger, err := runPipeline(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	out := cmd.OutOrStdout()
	for _, b := range doc.Blocks {
		switch {
		case b.Type == ir.BlockTypeTitle:
			fmt.Fprintf(out, "%s\n", b.Text)
		case b.Type.IsHeading():
			indent := strings.Repeat("  ", b.Level)
			name := b.SectionName
			if name == "" {
				name = b.Text
			}
			fmt.Fprintf(out, "%s%s  [%s, %.2f]\n", indent, b.Text, name, b.Confidence)
		}
	}
	return nil
}
