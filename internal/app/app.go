// Package app implements the poeticapic command line.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/menta2k/poeticapic"
	"github.com/menta2k/poeticapic/internal/config"
	"github.com/menta2k/poeticapic/internal/utils"
)

// annotationNewConfig marks commands that accept a --config file that does
// not exist yet.
const annotationNewConfig = "new-config"

// globals holds the persistent flags and the configuration they resolve to.
type globals struct {
	configPath string
	level      string
	dev        bool

	backend string
	url     string
	format  string
	outDir  string
	workers int
	seed    uint64
	texture string

	cfg *config.Config
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:           "poeticapic",
		Short:         "Photo filters, decorative borders and generated captions",
		Version:       poeticapic.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "Configuration file")
	pf.StringVarP(&g.level, "level", "l", "", "Log level")
	pf.BoolVar(&g.dev, "dev", false, "Colored, verbose logs")
	pf.StringVar(&g.backend, "backend", "", "Caption backend: ollama or llamacpp")
	pf.StringVar(&g.url, "url", "", "Caption server URL")
	pf.StringVar(&g.format, "format", "", "Output format: jpg|png|webp")
	pf.StringVarP(&g.outDir, "out", "o", "", "Output directory")
	pf.IntVar(&g.workers, "workers", 0, "Images processed at once in batch mode")
	pf.Uint64Var(&g.seed, "seed", 0, "Seed for the random border patterns")
	pf.StringVar(&g.texture, "texture", "", "Texture image for the wooden frame")

	rootCmd.AddCommand(
		newApplyCommand(g),
		newBatchCommand(g),
		newListCommand(),
		newConfigCommand(g),
	)
	return rootCmd
}

// setup loads the configuration, applies flag overrides and configures
// the logger.
func (g *globals) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" && !utils.FileExists(g.configPath) && cmd.Annotations[annotationNewConfig] == "true" {
		cfg = config.Default()
	} else if cfg, err = loadConfig(g.configPath); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("level") {
		cfg.Log.Level = g.level
	}
	if flags.Changed("dev") {
		cfg.Log.Dev = g.dev
	}
	if flags.Changed("backend") {
		cfg.Service.Backend = g.backend
	}
	if flags.Changed("url") {
		cfg.Service.URL = g.url
	}
	if flags.Changed("format") {
		cfg.Output.DefaultFormat = g.format
	}
	if flags.Changed("out") {
		cfg.Output.OutputDir = g.outDir
	}
	if flags.Changed("workers") {
		cfg.Output.Workers = g.workers
	}
	if flags.Changed("seed") {
		seed := g.seed
		cfg.Border.Seed = &seed
	}
	if flags.Changed("texture") {
		cfg.Border.TexturePath = g.texture
	}

	setupLogger(cfg.Log, cmd.ErrOrStderr())
	g.cfg = cfg
	return nil
}

// loadConfig reads path when given. Otherwise the file at the default
// location is used when present, and the defaults when not.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.GetConfigPath()
		if !utils.FileExists(path) {
			return config.Default(), nil
		}
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration (%s)", err)
	}
	log.WithField("path", path).Debug("configuration loaded")
	return cfg, nil
}

func setupLogger(c config.LogConfig, out io.Writer) {
	lvl, err := log.ParseLevel(c.Level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetOutput(out)
	log.SetLevel(lvl)
	if c.Dev {
		log.SetFormatter(&log.TextFormatter{
			ForceColors: true,
		})
		log.SetOutput(colorable.NewColorableStderr())
		log.SetLevel(log.DebugLevel)
	}
	log.WithField("log_level", log.GetLevel()).Debug()
}

func (g *globals) studio() (*poeticapic.Studio, error) {
	return poeticapic.NewWithConfig(g.cfg)
}

// Run executes the command line and stops on SIGINT or SIGTERM.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCommand().ExecuteContext(ctx)
	if errors.Is(err, context.Canceled) {
		log.Warn("interrupted")
	}
	return err
}
