package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	// Packages
	kong "github.com/alecthomas/kong"
	zerolog "github.com/rs/zerolog"

	config "github.com/newjec/bizbrain/pkg/config"
	logger "github.com/newjec/bizbrain/pkg/logger"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	// Debugging
	Debug   bool `name:"debug" help:"Enable debug output"`
	Verbose bool `name:"verbose" help:"Enable verbose output"`

	// Configuration
	Config string `name:"config" env:"BIZBRAIN_CONFIG" help:"Path to YAML configuration file"`

	// HTTP options
	HTTP struct {
		Addr    string        `name:"addr" default:"localhost:8080" help:"Listen address or endpoint"`
		Prefix  string        `name:"prefix" default:"/api/v1" help:"Path prefix"`
		Origin  string        `name:"origin" default:"*" help:"CORS origin"`
		Timeout time.Duration `name:"timeout" default:"15m" help:"Client timeout"`
	} `embed:"" prefix:"http."`

	// Context
	ctx      context.Context
	cfg      config.Config
	logger   zerolog.Logger
	execName string
}

type CLI struct {
	Globals

	// Commands
	Run     RunCmd     `cmd:"" help:"Run the analysis server"`
	Analyze AnalyzeCmd `cmd:"" help:"Stream a company analysis from a running server"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(execName()),
		kong.Description("Company analysis service"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{},
	)

	// Create a context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	cli.Globals.ctx = ctx
	cli.Globals.execName = execName()

	// Configure logging
	level := "info"
	if cli.Debug {
		level = "debug"
	}
	logger.Configure(logger.Config{Level: level, Console: cli.Verbose})
	cli.Globals.logger = logger.Base()

	// Load configuration
	cfg, err := config.Load(cli.Globals.Config)
	cmd.FatalIfErrorf(err)
	cli.Globals.cfg = cfg

	// Run the command
	if err := cmd.Run(&cli.Globals); err != nil {
		cmd.FatalIfErrorf(err)
		return
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func execName() string {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	} else {
		return filepath.Base(name)
	}
}
