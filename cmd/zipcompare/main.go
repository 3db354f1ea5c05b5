package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yuya-takeyama/zipcompare/internal/config"
	"github.com/yuya-takeyama/zipcompare/internal/logging"
	"github.com/yuya-takeyama/zipcompare/pkg/archive"
	"github.com/yuya-takeyama/zipcompare/pkg/compare"
	"github.com/yuya-takeyama/zipcompare/pkg/report"
	"github.com/yuya-takeyama/zipcompare/pkg/s3client"
	"github.com/yuya-takeyama/zipcompare/pkg/verify"
	"github.com/yuya-takeyama/zipcompare/pkg/walker"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// errDifferences is returned with --exit-code when the report is not clean.
var errDifferences = errors.New("differences found")

type options struct {
	excludes    []string
	includes    []string
	checksum    string
	concurrency int
	format      string
	jsonFile    string
	exitCode    bool
	configFile  string
	profile     string
	region      string
	verbose     bool
	quiet       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		code := reportError(os.Stderr, err)
		stop()
		os.Exit(code)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "zipcompare <ArchivePath|S3Uri> <DirectoryPath>",
		Short: "Compare a ZIP archive with a directory without extracting it",
		Long: `zipcompare lists the files that exist only in a ZIP archive, only in a
directory, or in both with different sizes. With --checksum it also compares
content of files whose sizes agree.`,
		Version:       fmt.Sprintf("%s (commit: %s, built at: %s by %s)", version, commit, date, builtBy),
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, &opts)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.Flags().StringSliceVar(&opts.excludes, "exclude", nil, "Exclude patterns (multiple allowed)")
	rootCmd.Flags().StringSliceVar(&opts.includes, "include", nil, "Include patterns (multiple allowed)")
	rootCmd.Flags().StringVar(&opts.checksum, "checksum", config.DefaultChecksum, "Content check for equal-size files: none, crc32 or content")
	rootCmd.Flags().IntVar(&opts.concurrency, "concurrency", config.DefaultConcurrency, "Number of concurrent checksum workers")
	rootCmd.Flags().StringVar(&opts.format, "format", config.DefaultFormat, "Report format: text or json")
	rootCmd.Flags().StringVar(&opts.jsonFile, "json-file", "", "Path to also write the report as JSON")
	rootCmd.Flags().BoolVar(&opts.exitCode, "exit-code", false, "Exit with status 1 when differences are found")
	rootCmd.Flags().StringVar(&opts.configFile, "config", "", "Path to a YAML config file")
	rootCmd.Flags().StringVar(&opts.profile, "profile", "", "AWS profile to use for s3:// archives")
	rootCmd.Flags().StringVar(&opts.region, "region", "", "AWS region (uses default if not specified)")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print debug logs to stderr")
	rootCmd.Flags().BoolVar(&opts.quiet, "quiet", false, "Only print errors to stderr")

	return rootCmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	archivePath := args[0]
	dirPath := args[1]
	ctx := cmd.Context()

	logger, err := logging.New(opts.verbose, opts.quiet)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(opts.configFile, cmd.Flags())
	if err != nil {
		return err
	}

	mode, err := verify.ParseMode(cfg.Checksum)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	compareOpts := compare.Options{
		Includes:    cfg.Include,
		Excludes:    cfg.Exclude,
		Checksum:    mode,
		Concurrency: cfg.Concurrency,
		Logger:      logger,
	}

	if s3client.IsS3URI(archivePath) {
		client, err := newS3Client(ctx, opts)
		if err != nil {
			return err
		}
		compareOpts.S3 = client
	}

	comparer, err := compare.New(compareOpts)
	if err != nil {
		return err
	}

	result, err := comparer.Run(ctx, archivePath, dirPath)
	if err != nil {
		return err
	}

	reportOpts := report.Options{Verified: comparer.Verified()}
	if err := report.Write(cmd.OutOrStdout(), format, result, reportOpts); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if opts.jsonFile != "" {
		if err := report.WriteJSONFile(opts.jsonFile, result, reportOpts); err != nil {
			return fmt.Errorf("failed to write JSON report: %w", err)
		}
		logger.Debug("wrote JSON report", zap.String("path", opts.jsonFile))
	}

	if opts.exitCode && result.HasDifferences() {
		return errDifferences
	}
	return nil
}

func newS3Client(ctx context.Context, opts *options) (s3client.Client, error) {
	var configOpts []func(*awsconfig.LoadOptions) error
	if opts.profile != "" {
		configOpts = append(configOpts, awsconfig.WithSharedConfigProfile(opts.profile))
	}
	if opts.region != "" {
		configOpts = append(configOpts, awsconfig.WithRegion(opts.region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3client.NewAWSClient(cfg), nil
}

// reportError prints a diagnostic for err and returns the process exit code.
func reportError(w io.Writer, err error) int {
	var archiveNotFound *archive.NotFoundError
	var archiveFormat *archive.FormatError
	var dirNotFound *walker.NotFoundError

	switch {
	case errors.Is(err, errDifferences):
		// The report already says what differs
	case errors.As(err, &archiveNotFound):
		fmt.Fprintf(w, "Error: ZIP file '%s' does not exist.\n", archiveNotFound.Path)
	case errors.As(err, &archiveFormat):
		fmt.Fprintf(w, "Error: '%s' is not a valid ZIP file: %v\n", archiveFormat.Path, archiveFormat.Err)
	case errors.As(err, &dirNotFound):
		fmt.Fprintf(w, "Error: Directory '%s' does not exist.\n", dirNotFound.Path)
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	return 1
}
