package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bulkclean/internal/config"
	"bulkclean/internal/logging"
	"bulkclean/internal/pipeline"
	"bulkclean/internal/train"
	"bulkclean/internal/watch"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Shared column overrides
	primaryKey    string
	sourceColumns []string

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bulkclean",
	Short: "bulkclean - model-assisted bulk upload cleaning",
	Long: `bulkclean turns messy free-text bulk upload files into structured,
validated output ready for import.

Each record is sent through a fine-tuned completion model, graded by a
battery of validators, repaired where possible, and written back out with
severity highlighting for human review. Every input record appears in the
output; nothing is silently dropped.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Initialize(verbose); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cfg.Logging.Verbose && !verbose {
			return logging.Initialize(true)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

// contactsCmd cleans primary contact information.
var contactsCmd = &cobra.Command{
	Use:   "contacts <file>",
	Short: "Extract and validate primary contacts from a bulk upload file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if primaryKey != "" {
			cfg.Contacts.PrimaryKey = primaryKey
		}
		if len(sourceColumns) > 0 {
			cfg.Contacts.SourceColumns = sourceColumns
		}
		if len(cfg.Contacts.SourceColumns) == 0 {
			return fmt.Errorf("no contact columns configured; pass --columns")
		}

		out, err := pipeline.New(cfg, nil).RunContacts(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", out)
		return nil
	},
}

// hoursCmd cleans hours notes into structured schedules.
var hoursCmd = &cobra.Command{
	Use:   "hours <file>",
	Short: "Clean free-text hours notes into structured schedule rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if primaryKey != "" {
			cfg.Hours.PrimaryKey = primaryKey
		}
		if len(sourceColumns) > 0 {
			cfg.Hours.SourceColumns = sourceColumns
		}

		out, err := pipeline.New(cfg, nil).RunHours(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", out)
		return nil
	},
}

// tagsCmd derives location tags.
var tagsCmd = &cobra.Command{
	Use:   "tags <file>",
	Short: "Derive language and feature tags for locations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if primaryKey != "" {
			cfg.Tags.PrimaryKey = primaryKey
		}

		out, err := pipeline.New(cfg, nil).RunTags(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", out)
		return nil
	},
}

// trainCmd exports fine-tune data.
var (
	trainInputColumn  string
	trainOutputColumn string

	trainCmd = &cobra.Command{
		Use:   "train <input-file> <output.jsonl>",
		Short: "Export prompt/completion JSONL for fine-tune preparation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := train.ExportFile(args[0], args[1], trainInputColumn, trainOutputColumn)
			if err != nil {
				return err
			}
			fmt.Printf("Wrote %d examples to %s\n", n, args[1])
			return nil
		},
	}
)

// watchCmd runs a task continuously over a drop directory.
var watchCmd = &cobra.Command{
	Use:   "watch <task>",
	Short: "Watch a drop directory and clean each new file (task: contacts, hours, tags)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := pipeline.New(cfg, nil)

		var run watch.RunFunc
		switch args[0] {
		case "contacts":
			run = p.RunContacts
		case "hours":
			run = p.RunHours
		case "tags":
			run = p.RunTags
		default:
			return fmt.Errorf("unknown task %q (want contacts, hours, or tags)", args[0])
		}

		fmt.Printf("Watching %s for %s files...\n", cfg.Watch.Directory, cfg.Watch.Pattern)
		err := watch.New(cfg.Watch.Directory, cfg.Watch.Pattern, run).Run(cmd.Context())
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "bulkclean.yaml", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	for _, c := range []*cobra.Command{contactsCmd, hoursCmd, tagsCmd} {
		c.Flags().StringVar(&primaryKey, "key", "", "Primary key column (overrides config)")
	}
	contactsCmd.Flags().StringSliceVar(&sourceColumns, "columns", nil, "Columns holding contact information")
	hoursCmd.Flags().StringSliceVar(&sourceColumns, "columns", nil, "Columns holding hours notes")

	trainCmd.Flags().StringVar(&trainInputColumn, "input-column", "", "Column holding the prompt text")
	trainCmd.Flags().StringVar(&trainOutputColumn, "output-column", "", "Column holding the completion text")
	_ = trainCmd.MarkFlagRequired("input-column")
	_ = trainCmd.MarkFlagRequired("output-column")

	rootCmd.AddCommand(contactsCmd, hoursCmd, tagsCmd, trainCmd, watchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
