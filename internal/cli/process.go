package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roboco-io/manustruct/internal/classify"
	"github.com/roboco-io/manustruct/internal/config"
	"github.com/roboco-io/manustruct/internal/contract"
	"github.com/roboco-io/manustruct/internal/hint"
	"github.com/roboco-io/manustruct/internal/ingest"
	"github.com/roboco-io/manustruct/internal/ir"
	"github.com/roboco-io/manustruct/internal/logging"
	"github.com/roboco-io/manustruct/internal/normalize"
	"github.com/roboco-io/manustruct/internal/pipeline"
	"github.com/roboco-io/manustruct/internal/structure"
)

var (
	processOutput   string
	processFormat   string
	processStyle    string
	processUseHints bool
	processProvider string
	processModel    string
	processRemote   string
	processPretty   bool
	processVerbose  bool
	processQuiet    bool
)

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Classify the blocks of a manuscript",
	Long: `Run the full classification pipeline over a manuscript block stream.

The input is a JSON block stream (bare array or envelope with "blocks"),
plain text split on blank lines, or a document uploaded to a remote parse
service with --remote. The output is the typed document as JSON.

Environment variables:
  MANUSTRUCT_HINTS=true   enable provider hints
  MANUSTRUCT_MODEL=xxx    hint model name (provider auto-detected)

Examples:
  manustruct process paper.json
  manustruct process paper.txt -o typed.json --pretty
  manustruct process paper.json --hints --provider anthropic
  manustruct process paper.hwp --remote https://parse.example.com/v1/parse`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "output file path (default: stdout)")
	processCmd.Flags().StringVar(&processFormat, "format", "auto", "input format (json, text, auto)")
	processCmd.Flags().StringVar(&processStyle, "style", "", "publication style for section contracts (ieee, acm)")
	processCmd.Flags().BoolVar(&processUseHints, "hints", false, "enable NLP provider hints")
	processCmd.Flags().StringVar(&processProvider, "provider", "", "hint provider (openai, anthropic, gemini)")
	processCmd.Flags().StringVar(&processModel, "model", "", "hint model name")
	processCmd.Flags().StringVar(&processRemote, "remote", "", "remote parse service endpoint")
	processCmd.Flags().BoolVar(&processPretty, "pretty", false, "indent the JSON output")
	processCmd.Flags().BoolVarP(&processVerbose, "verbose", "v", false, "verbose output")
	processCmd.Flags().BoolVarP(&processQuiet, "quiet", "q", false, "quiet mode")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	doc, logger, err := runPipeline(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var data []byte
	if processPretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if processOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	if err := os.WriteFile(processOutput, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !processQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "written: %s\n", processOutput)
	}
	return nil
}

// runPipeline loads configuration, ingests the input, and runs the three
// stage pipeline. Shared by the process and outline commands.
func runPipeline(ctx context.Context, inputPath string) (*ir.Document, *zap.Logger, error) {
	loader, err := config.NewLoader()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if processVerbose {
		cfg.Logging.Level = "debug"
	}
	if processQuiet {
		cfg.Logging.Level = "error"
	}
	logger, err := logging.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	doc, err := ingestDocument(ctx, inputPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("input ingested", zap.String("path", inputPath), zap.Int("blocks", len(doc.Blocks)))

	useHints := processUseHints || config.GetEnvBool("MANUSTRUCT_HINTS")
	if useHints {
		if err := applyHints(ctx, doc, cfg, logger); err != nil {
			// Hints are advisory; a failing provider must not block the run.
			logger.Warn("hint provider failed", zap.Error(err))
		}
	}

	contracts, err := loadContracts(cfg)
	if err != nil {
		return nil, nil, err
	}
	style := processStyle
	if style == "" {
		style = cfg.Style
	}

	p := pipeline.New(logger,
		normalize.New(cfg.Scoring, logger),
		structure.New(cfg.Scoring, contracts, style, logger),
		classify.New(cfg.Scoring, logger),
	)
	if err := p.Run(doc); err != nil {
		return nil, nil, fmt.Errorf("pipeline failed: %w", err)
	}
	return doc, logger, nil
}

func ingestDocument(ctx context.Context, inputPath string) (*ir.Document, error) {
	if processRemote != "" {
		client, err := ingest.NewRemoteClient(ingest.RemoteConfig{
			APIKey:  os.Getenv("MANUSTRUCT_PARSE_API_KEY"),
			BaseURL: processRemote,
		})
		if err != nil {
			return nil, err
		}
		return client.Parse(ctx, inputPath)
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer file.Close()

	format := ingest.FormatUnknown
	switch processFormat {
	case "json":
		format = ingest.FormatJSON
	case "text":
		format = ingest.FormatText
	case "auto", "":
		format = ingest.DetectFormat(inputPath)
	default:
		return nil, fmt.Errorf("unknown input format: %s", processFormat)
	}

	switch format {
	case ingest.FormatJSON:
		return ingest.ReadJSON(file)
	case ingest.FormatText:
		return ingest.ReadText(file)
	default:
		return nil, fmt.Errorf("cannot detect input format for %s (use --format or --remote)", inputPath)
	}
}

func applyHints(ctx context.Context, doc *ir.Document, cfg *config.Config, logger *zap.Logger) error {
	registry := hint.NewRegistry()
	for name, pc := range cfg.Providers {
		if processModel != "" {
			pc.Model = processModel
		}
		var p hint.Provider
		switch name {
		case "openai":
			p = hint.NewOpenAIProvider(pc)
		case "anthropic":
			p = hint.NewAnthropicProvider(pc)
		case "gemini":
			p = hint.NewGeminiProvider(pc)
		default:
			continue
		}
		if err := registry.Register(p); err != nil {
			return err
		}
	}
	if registry.Has(cfg.DefaultProvider) {
		if err := registry.SetDefault(cfg.DefaultProvider); err != nil {
			return err
		}
	}

	name := processProvider
	if name == "" {
		name = detectProviderFromModel(getEnvModel())
	}

	provider, err := registry.Resolve(name)
	if err != nil {
		return err
	}
	if err := provider.Validate(); err != nil {
		return err
	}

	suggestions, err := provider.Suggest(ctx, doc, hint.DefaultSuggestOptions())
	if err != nil {
		return err
	}
	applied := hint.Annotate(doc, suggestions)
	logger.Debug("hints applied",
		zap.String("provider", provider.Name()),
		zap.Int("suggestions", len(suggestions)),
		zap.Int("applied", applied))
	return nil
}

func getEnvModel() string {
	if processModel != "" {
		return processModel
	}
	return os.Getenv("MANUSTRUCT_MODEL")
}

func loadContracts(cfg *config.Config) (*contract.Table, error) {
	if cfg.ContractsPath == "" {
		return contract.Default(), nil
	}
	table, err := contract.LoadFile(cfg.ContractsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load section contracts: %w", err)
	}
	return table, nil
}
