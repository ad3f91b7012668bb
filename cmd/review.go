package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prodsuite/advisor/internal/advisor"
	"github.com/prodsuite/advisor/internal/app"
	"github.com/prodsuite/advisor/internal/config"
	"github.com/prodsuite/advisor/internal/log"
)

var reviewFlags struct {
	projectID    string
	moduleType   string
	artifactID   string
	targetFile   string
	projectName  string
	artifactType string
	artifactName string
	emphasis     []string
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run a single review from the command line",
	Long: `Run one review invocation and print the result to stdout.

The review target comes from --artifact-id (a stored artifact), --file,
or stdin. When both literal text and an artifact id are given, the
literal text is reviewed and the stored artifact receives the feedback
backlink.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runReview(cmd.Context())
	},
}

func init() {
	reviewCmd.Flags().StringVar(&reviewFlags.projectID, "project-id", "", "project UUID (required)")
	reviewCmd.Flags().StringVar(&reviewFlags.moduleType, "module-type", "", "module that produced the target (required)")
	reviewCmd.Flags().StringVar(&reviewFlags.artifactID, "artifact-id", "", "stored artifact to review")
	reviewCmd.Flags().StringVar(&reviewFlags.targetFile, "file", "", "file with the target text (\"-\" for stdin)")
	reviewCmd.Flags().StringVar(&reviewFlags.projectName, "project-name", "", "project display name")
	reviewCmd.Flags().StringVar(&reviewFlags.artifactType, "artifact-type", "", "declared type of the target")
	reviewCmd.Flags().StringVar(&reviewFlags.artifactName, "artifact-name", "", "name for the stored review artifact")
	reviewCmd.Flags().StringSliceVar(&reviewFlags.emphasis, "emphasis", nil, "aspects to emphasize in the review")

	_ = reviewCmd.MarkFlagRequired("project-id")
	_ = reviewCmd.MarkFlagRequired("module-type")

	rootCmd.AddCommand(reviewCmd)
}

// readTarget loads the review target text from --file or stdin.
// Returns empty when neither is given (the pipeline then resolves
// --artifact-id from the store).
func readTarget() (string, error) {
	switch reviewFlags.targetFile {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(reviewFlags.targetFile)
		if err != nil {
			return "", fmt.Errorf("reading target file: %w", err)
		}
		return string(data), nil
	}
}

func runReview(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	target, err := readTarget()
	if err != nil {
		return err
	}
	if strings.TrimSpace(target) == "" && reviewFlags.artifactID == "" {
		return fmt.Errorf("a review target is required: pass --file, pipe stdin, or set --artifact-id")
	}

	logger := log.New(log.Config{Level: slog.LevelWarn})

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	res, err := a.Pipeline.Review(ctx, advisor.Request{
		ProjectID:       reviewFlags.projectID,
		ArtifactOutput:  target,
		ArtifactID:      reviewFlags.artifactID,
		ModuleType:      reviewFlags.moduleType,
		ProjectName:     reviewFlags.projectName,
		ArtifactType:    reviewFlags.artifactType,
		ArtifactName:    reviewFlags.artifactName,
		SelectedOutputs: reviewFlags.emphasis,
	})
	if err != nil {
		return fmt.Errorf("review failed: %w", err)
	}

	fmt.Println(res.Output)

	if res.ArtifactID != nil {
		fmt.Fprintf(os.Stderr, "\nstored as artifact %s (%d context artifacts)\n",
			res.ArtifactID, res.ContextCount)
	} else {
		fmt.Fprintln(os.Stderr, "\nwarning: review was not persisted")
	}
	return nil
}
