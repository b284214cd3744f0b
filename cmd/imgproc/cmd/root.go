package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/MeKo-Tech/imgproc/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by one command tree.
type app struct {
	v       *viper.Viper
	cfgFile string
	loader  *config.Loader
	config  *config.Config
	logger  *slog.Logger
}

// NewRootCommand builds the imgproc command tree. Every call returns an
// independent tree with its own viper instance, so tests can execute
// commands repeatedly without leaking flag state.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "imgproc",
		Short: "Batch image transformation engine",
		Long: `imgproc applies an ordered list of image operations to one or more image
files and writes the results atomically.

Operations:
- Geometry: rotate90, rotate180, flipx, flipy, flipxy, crop
- Filters: blur, sharpen
- Color: grayscale, sepia
- Resizing: resize-pixel, resize-ratio

Examples:
  imgproc edit photo.jpg --rotate90 --grayscale -o out/
  imgproc edit images/ --recursive --op blur:5 --op sepia -o edited/
  imgproc edit scan.png --crop 10,10,200,100 -o scan_cropped.png
  imgproc ops`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
		PersistentPreRunE: a.setup,
	}

	// Global flags that apply to all commands
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "",
		"config file (default is search in ., $HOME, $HOME/.config/imgproc, /etc/imgproc)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (json, text)")
	rootCmd.Flags().Bool("version", false, "print version information and exit")

	_ = a.v.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = a.v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(
		newEditCommand(a),
		newOpsCommand(),
		newBenchCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)

	return rootCmd
}

// Execute runs the command tree. This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and installs the structured logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.loader = config.NewLoaderWithViper(a.v)
	cfg, err := a.loader.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	a.config = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(a.logger)
	return nil
}

// newLogger builds the slog logger selected by the configuration. Logs go
// to w so that reports on stdout stay machine readable.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevel(cfg)}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func logLevel(cfg *config.Config) slog.Level {
	// verbose wins over log_level
	if cfg.Verbose {
		return slog.LevelDebug
	}
	switch cfg.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
