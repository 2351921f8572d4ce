package main

import (
	"fmt"
	"os"
	"time"

	// Packages
	decision "github.com/newjec/bizbrain/pkg/decision"
	extract "github.com/newjec/bizbrain/pkg/extract"
	httpclient "github.com/newjec/bizbrain/pkg/httpclient"
	schema "github.com/newjec/bizbrain/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type AnalyzeCmd struct {
	Company  string `arg:"" help:"Company name to analyze"`
	Endpoint string `name:"endpoint" default:"http://localhost:8080/api/v1/analyze-stream" help:"Analysis stream endpoint"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *AnalyzeCmd) Run(ctx *Globals) error {
	consumer, err := httpclient.NewConsumer(cmd.Endpoint,
		httpclient.WithDecisionConfig(ctx.cfg.Decision),
		httpclient.WithTransition(func(session *httpclient.Session) {
			// Stream is complete enough: print the assembled deck
			fmt.Println()
			for _, slide := range extract.DeckTemplate().Fill(session.Sections()) {
				fmt.Printf("== %s ==\n%s\n\n", slide.Title, slide.Body)
			}
		}),
		httpclient.WithLogger(ctx.logger),
	)
	if err != nil {
		return err
	}

	handle, err := consumer.Open(ctx.ctx, cmd.Company)
	if err != nil {
		return err
	}

	// Print tokens as they arrive until the session retires
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	last := 0
	flush := func() {
		text := handle.Session().AccumulatedText()
		if len(text) > last {
			fmt.Fprint(os.Stdout, text[last:])
			last = len(text)
		}
	}
loop:
	for {
		select {
		case <-handle.Done():
			break loop
		case <-ctx.ctx.Done():
			handle.Cancel()
			<-handle.Done()
			break loop
		case <-ticker.C:
			flush()
		}
	}
	flush()

	// The dwell timer can outlive the stream, so wait for the deck to
	// be printed whenever the machine is still completing
	switch handle.State() {
	case decision.Completing, decision.Transitioned:
		<-handle.Transitioned()
	}

	// Report the outcome
	session := handle.Session()
	if stage := session.Stage(); stage == schema.StageError {
		return fmt.Errorf("analysis failed: %s", session.LastError())
	}
	return nil
}
