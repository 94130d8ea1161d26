package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"blip/internal/config"
	"blip/internal/gme"
	"blip/internal/logging"
	"blip/internal/output"
	"blip/internal/preflight"
	"blip/internal/render"
)

// environment carries the process streams and the decoder factory so tests
// can substitute both.
type environment struct {
	stdin  io.Reader
	stdout *os.File
	stderr io.Writer

	// openDecoder overrides the libgme decoder when set.
	openDecoder render.DecoderOpener
}

type options struct {
	configPath string
	output     string
	track      int
	sampleRate int
	duration   int
	fadeout    int
	pan        float64
	list       bool
	logLevel   string
	logFormat  string
	noProgress bool
}

func newRootCommand() *cobra.Command {
	return newCommand(environment{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr})
}

func newCommand(env environment) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "blip [flags] [input]",
		Short: "Render game music tracks to WAV",
		Long: "blip renders the tracks of a game music container (NSF, SPC, GBS, VGM, ...)\n" +
			"to 16-bit stereo WAV files with a fade-out. The input is read from the\n" +
			"given path or from standard input when the path is absent or \"-\".",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return render.Wrap(render.ErrUsage, -1, "arguments", fmt.Sprintf("expected at most one input, got %d", len(args)), nil)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return run(cmd, env, opts, input)
		},
	}
	cmd.SetIn(env.stdin)
	cmd.SetErr(env.stderr)
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return render.Wrap(render.ErrUsage, -1, "flags", "", err)
	})

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Output path pattern; %d is replaced by the track index, otherwise \"<index>-\" is prefixed (default: standard output)")
	flags.IntVarP(&opts.track, "track", "t", render.AllTracks, "Render only this track index (-1 renders all tracks)")
	flags.IntVarP(&opts.sampleRate, "samplerate", "s", 0, "Output sample rate in Hz (default 44100)")
	flags.IntVarP(&opts.duration, "duration", "d", 0, "Rendered length of each track in seconds (default 180)")
	flags.IntVarP(&opts.fadeout, "fadeout", "f", 0, "Fade-out length before the end in seconds (default 5)")
	flags.Float64VarP(&opts.pan, "pan", "p", 0, "Stereo depth")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Configuration file path (default ~/.config/blip/config.toml)")
	flags.BoolVarP(&opts.list, "list", "l", false, "List the container's tracks instead of rendering")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: console or json")
	flags.BoolVar(&opts.noProgress, "no-progress", false, "Disable the progress bar")

	return cmd
}

func run(cmd *cobra.Command, env environment, opts *options, input string) error {
	cfg, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: env.stderr,
	})
	if err != nil {
		return render.Wrap(render.ErrUsage, -1, "logging", "", err)
	}
	logger = logger.With(logging.String(logging.FieldRunID, uuid.NewString()))

	rcfg := render.Config{
		Track:      opts.track,
		SampleRate: cfg.Render.SampleRate,
		Duration:   cfg.Render.Duration,
		Fadeout:    cfg.Render.Fadeout,
		Pan:        cfg.Render.Pan,
		Output:     cfg.Render.Output,
	}
	if err := rcfg.Validate(); err != nil {
		return err
	}

	for _, result := range preflight.RunAll(input, rcfg.Output) {
		if !result.Passed {
			logger.Warn("preflight check failed", logging.String("check", result.Name), logging.String("detail", result.Detail))
		}
	}

	in, closeInput, err := openInput(env, input)
	if err != nil {
		return err
	}
	defer closeInput()

	openDecoder := env.openDecoder
	if openDecoder == nil {
		openDecoder = gmeOpener(logger)
	}
	runner := &render.Runner{
		OpenDecoder: openDecoder,
		OpenSink:    render.WAVSinks(output.NewOpener(output.WithStdout(env.stdout), output.WithLogger(logger))),
		Logger:      logger,
	}

	if opts.list {
		infos, err := runner.List(rcfg, in)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTrackTable(infos))
		return nil
	}

	if !opts.noProgress && isTerminal(env.stderr) {
		runner.Progress = newProgressBar(env.stderr)
	}

	summary, err := runner.Render(rcfg, in)
	if err != nil {
		return err
	}
	logger.Info("render complete",
		logging.Int("rendered", summary.Rendered()),
		logging.Int("failed", summary.Failed()),
	)
	return nil
}

// loadSettings reads the config file and overlays every flag the user set.
func loadSettings(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, _, _, err := config.Load(strings.TrimSpace(opts.configPath))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Render.Output = strings.TrimSpace(opts.output)
	}
	if flags.Changed("samplerate") {
		cfg.Render.SampleRate = opts.sampleRate
	}
	if flags.Changed("duration") {
		cfg.Render.Duration = opts.duration
	}
	if flags.Changed("fadeout") {
		cfg.Render.Fadeout = opts.fadeout
	}
	if flags.Changed("pan") {
		cfg.Render.Pan = opts.pan
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(opts.logLevel))
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(opts.logFormat))
	}

	if err := cfg.Validate(); err != nil {
		return nil, render.Wrap(render.ErrUsage, -1, "flags", "", err)
	}
	if strings.HasPrefix(cfg.Render.Output, "~") {
		expanded, err := config.ExpandPath(cfg.Render.Output)
		if err != nil {
			return nil, fmt.Errorf("expand output pattern: %w", err)
		}
		cfg.Render.Output = expanded
	}
	return cfg, nil
}

func openInput(env environment, path string) (io.Reader, func(), error) {
	if output.IsStdin(path) {
		if env.stdin == nil {
			return nil, nil, render.Wrap(render.ErrInputIO, -1, "open input", "standard input", errors.New("not available"))
		}
		return env.stdin, func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, render.Wrap(render.ErrInputIO, -1, "open input", path, err)
	}
	return file, func() { _ = file.Close() }, nil
}

func gmeOpener(logger *slog.Logger) render.DecoderOpener {
	return func(data []byte, sampleRate int) (render.Decoder, error) {
		emu, err := gme.Open(data, sampleRate)
		if err != nil {
			return nil, err
		}
		if warning := emu.Warning(); warning != "" {
			logger.Warn("container warning", logging.String("warning", warning))
		}
		return emu, nil
	}
}
