// Command bjpeg encodes a binary PPM image into a baseline JFIF file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tjaden/bjpeg"
	"github.com/tjaden/bjpeg/internal/config"
	"github.com/tjaden/bjpeg/internal/ppmimage"
)

var cfgFile string

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		logger, lerr := newLogger("error")
		if lerr == nil {
			logger.Error("encode failed", zap.Error(err))
			logger.Sync()
		}
	}
	os.Exit(bjpeg.ExitCode(err))
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bjpeg",
		Short:         "Baseline JFIF encoder",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (quality/subsampling/dct defaults)")
	root.AddCommand(newEncodeCommand())
	return root
}

func newEncodeCommand() *cobra.Command {
	defaults := config.Defaults()

	cmd := &cobra.Command{
		Use:   "encode <input.ppm> <output.jpg>",
		Short: "Encode a binary PPM image to baseline JFIF",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}
			return runEncode(cmd, args[0], args[1], cfg)
		},
	}

	flags := cmd.Flags()
	flags.Int("quality", defaults.Quality, "JPEG quality, 1-100")
	flags.String("subsampling", defaults.Subsampling, "chroma subsampling: 4:4:4, 4:2:2, or 4:2:0")
	flags.String("dct", defaults.DCTMode, "forward DCT implementation: arai, direct, or matrix")
	flags.String("log-level", defaults.LogLevel, "zap log level: debug, info, warn, error")
	return cmd
}

// runEncode reads inputPath as a binary PPM, encodes it, and writes the
// result to outputPath. The destination is only ever replaced atomically
// on success — a failed encode never leaves a partial or corrupt file at
// outputPath — by encoding into a temp file in the same directory and
// renaming it into place last.
func runEncode(cmd *cobra.Command, inputPath, outputPath string, cfg config.Config) error {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	sampling, err := bjpeg.ParseSubsampling(cfg.Subsampling)
	if err != nil {
		return fmt.Errorf("bjpeg: invalid --subsampling %q: %w", cfg.Subsampling, err)
	}
	dctMode, err := bjpeg.ParseDCTMode(cfg.DCTMode)
	if err != nil {
		return fmt.Errorf("bjpeg: invalid --dct %q: %w", cfg.DCTMode, err)
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	img, err := ppmimage.Read(in)
	if err != nil {
		return fmt.Errorf("%w: %w", bjpeg.ErrInvalidInput, err)
	}

	tmp, err := os.CreateTemp(dirOf(outputPath), ".bjpeg-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	opts := &bjpeg.Options{
		Quality:     cfg.Quality,
		Subsampling: sampling,
		DCTMode:     dctMode,
		Logger:      logger,
	}

	encErr := bjpeg.Encode(cmd.Context(), tmp, img, opts)
	closeErr := tmp.Close()
	if encErr != nil {
		return encErr
	}
	if closeErr != nil {
		return closeErr
	}

	return os.Rename(tmpPath, outputPath)
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("bjpeg: invalid --log-level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
