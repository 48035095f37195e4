package main

import (
	"context"
	"os"

	"github.com/davecgh/go-spew/spew"

	"slicerweb/internal/config"
	"slicerweb/internal/engine"
	"slicerweb/internal/schema"
	"slicerweb/internal/slicerr"
)

// ExtractSchema asks the engine to describe its configuration and writes
// the payload to Output, after checking that it parses.
func ExtractSchema(c *config.Config) error {
	cs, err := setup(c)
	if err != nil {
		return err
	}

	data, err := engine.Describe(context.Background(), cs.engine)
	if err != nil {
		return err
	}

	p, err := schema.ParsePayload(data)
	if err != nil {
		return err
	}

	if err := os.WriteFile(c.Output, data, 0o644); err != nil {
		return slicerr.Wrap(slicerr.KindConfiguration, "extract-schema", c.Output, err)
	}

	cs.logger.Info("schema payload written", "path", c.Output, "options", len(p.Options()), "bytes", len(data))

	return nil
}

// DumpSchema builds the schema and prints it along with its diagnostics.
func DumpSchema(c *config.Config) error {
	cs, err := setup(c)
	if err != nil {
		return err
	}

	ctx := context.Background()

	sc, err := cs.loadSchema(ctx, c.Schema)
	if err != nil {
		return err
	}

	spew.Fdump(os.Stdout, sc)

	sc.Diagnostics.Log(ctx, cs.logger)

	return nil
}
