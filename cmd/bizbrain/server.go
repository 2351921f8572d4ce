package main

import (
	"crypto/tls"
	"fmt"
	"os"

	// Packages
	client "github.com/mutablelogic/go-client"
	httprouter "github.com/mutablelogic/go-server/pkg/httprouter"
	httpserver "github.com/mutablelogic/go-server/pkg/httpserver"

	bizbrain "github.com/newjec/bizbrain"
	chat "github.com/newjec/bizbrain/pkg/chat"
	httphandler "github.com/newjec/bizbrain/pkg/httphandler"
	opt "github.com/newjec/bizbrain/pkg/opt"
	pptx "github.com/newjec/bizbrain/pkg/pptx"
	anthropic "github.com/newjec/bizbrain/pkg/provider/anthropic"
	relay "github.com/newjec/bizbrain/pkg/relay"
	version "github.com/newjec/bizbrain/pkg/version"
	websearch "github.com/newjec/bizbrain/pkg/websearch"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type RunCmd struct {
	// API keys
	AnthropicAPIKey string `name:"anthropic-api-key" env:"ANTHROPIC_API_KEY" required:"" help:"Anthropic API key"`
	TavilyAPIKey    string `name:"tavily-api-key" env:"TAVILY_API_KEY" help:"Tavily API key"`

	// PowerPoint backend
	PowerPointURL string `name:"powerpoint-url" env:"POWERPOINT_URL" default:"http://localhost:8001" help:"PowerPoint generation backend URL"`

	// TLS server options
	TLS struct {
		ServerName string `name:"name" help:"TLS server name"`
		CertFile   string `name:"cert" help:"TLS certificate file"`
		KeyFile    string `name:"key" help:"TLS key file"`
	} `embed:"" prefix:"tls."`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *RunCmd) Run(ctx *Globals) error {
	// Client options for upstream services
	clientOpts := []client.ClientOpt{}
	if ctx.Debug {
		clientOpts = append(clientOpts, client.OptTrace(os.Stderr, ctx.Verbose))
	}
	if ctx.HTTP.Timeout != 0 {
		clientOpts = append(clientOpts, client.OptTimeout(ctx.HTTP.Timeout))
	}

	// Model provider
	generator, err := anthropic.New(cmd.AnthropicAPIKey, clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}

	// Search providers, in fallback order. The placeholder keeps the
	// pipeline alive when no search backend is reachable.
	providers := []bizbrain.Searcher{}
	if cmd.TavilyAPIKey != "" {
		tavily, err := websearch.NewTavily(cmd.TavilyAPIKey, clientOpts...)
		if err != nil {
			return fmt.Errorf("failed to create search client: %w", err)
		}
		providers = append(providers, tavily)
	}
	duckduckgo, err := websearch.NewDuckDuckGo(clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create search client: %w", err)
	}
	providers = append(providers, duckduckgo, websearch.Placeholder{})

	aggregator, err := websearch.NewAggregator(providers...)
	if err != nil {
		return err
	}
	aggregator = aggregator.WithCap(int(ctx.cfg.Search.MaxResults))

	// Generation parameters from configuration
	genOpts := []opt.Opt{}
	if ctx.cfg.Model.Name != "" {
		genOpts = append(genOpts, opt.WithModel(ctx.cfg.Model.Name))
	}
	if ctx.cfg.Model.MaxTokens != 0 {
		genOpts = append(genOpts, opt.WithMaxTokens(ctx.cfg.Model.MaxTokens))
	}
	if ctx.cfg.Model.Temperature != nil {
		genOpts = append(genOpts, opt.WithTemperature(*ctx.cfg.Model.Temperature))
	}

	// Analysis pipeline
	relayOpts := []relay.Opt{
		relay.WithSectionStep(int(ctx.cfg.Analysis.SectionStep)),
		relay.WithGenerateOpts(genOpts...),
		relay.WithLogger(ctx.logger),
	}
	if len(ctx.cfg.Analysis.Queries) > 0 {
		relayOpts = append(relayOpts, relay.WithQueries(ctx.cfg.Analysis.Queries))
	}
	analyzer, err := relay.New(generator, aggregator, relayOpts...)
	if err != nil {
		return err
	}

	// Chat channel
	assistant, err := chat.New(generator,
		chat.WithMaxMessageLen(int(ctx.cfg.Chat.MaxMessageLen)),
		chat.WithLogger(ctx.logger),
	)
	if err != nil {
		return err
	}

	// PowerPoint proxy
	slides, err := pptx.New(cmd.PowerPointURL, clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create powerpoint client: %w", err)
	}

	// Create the HTTP router and register handlers
	router, err := httprouter.NewRouter(ctx.ctx, ctx.HTTP.Prefix, ctx.HTTP.Origin, "BizBrain", version.Version())
	if err != nil {
		return err
	} else if err := httphandler.RegisterHandlers(analyzer, assistant, aggregator, slides, router, true); err != nil {
		return err
	}

	// Create the TLS config if TLS options are provided
	tlsConfig, err := cmd.tlsConfig()
	if err != nil {
		return err
	}

	// Create the server
	httpserver, err := httpserver.New(ctx.HTTP.Addr, router, tlsConfig)
	if err != nil {
		return err
	}

	// Run the server
	ctx.logger.Info().Str("addr", ctx.HTTP.Addr).Str("version", version.Version()).Msg("server started")
	if err := httpserver.Run(ctx.ctx); err != nil {
		return err
	}

	ctx.logger.Info().Msg("server stopped")
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (cmd *RunCmd) tlsConfig() (*tls.Config, error) {
	if cmd.TLS.CertFile == "" && cmd.TLS.KeyFile == "" {
		return nil, nil
	}
	var pemData [][]byte
	if cmd.TLS.CertFile != "" {
		certData, err := os.ReadFile(cmd.TLS.CertFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read TLS certificate: %w", err)
		}
		pemData = append(pemData, certData)
	}
	if cmd.TLS.KeyFile != "" {
		keyData, err := os.ReadFile(cmd.TLS.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read TLS key: %w", err)
		}
		pemData = append(pemData, keyData)
	}
	return httpserver.TLSConfig(cmd.TLS.ServerName, false, pemData...)
}
