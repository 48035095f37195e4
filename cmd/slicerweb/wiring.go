package main

import (
	"context"
	"log/slog"
	"os"

	"slicerweb/internal/config"
	"slicerweb/internal/engine"
	"slicerweb/internal/logging"
	"slicerweb/internal/schema"
	"slicerweb/internal/slice"
	"slicerweb/internal/translate"
)

// components are the long-lived pieces shared by every command.
type components struct {
	logger   *slog.Logger
	table    *translate.Table
	registry *schema.Registry
	engine   *engine.Process
	client   *slice.Client
}

func setup(c *config.Config) (*components, error) {
	logger, err := logging.New(os.Stderr, c.Log.Level, c.Log.Format)
	if err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	table, err := loadTable(c.Rules)
	if err != nil {
		return nil, err
	}

	registry, err := loadRegistry(c.Sections)
	if err != nil {
		return nil, err
	}

	eng := engine.NewProcess(c.Engine.Path, c.Engine.Args, c.Engine.Timeout, logger)

	return &components{
		logger:   logger,
		table:    table,
		registry: registry,
		engine:   eng,
		client:   slice.NewClient(eng, table, logger),
	}, nil
}

func loadTable(path string) (*translate.Table, error) {
	if path == "" {
		return translate.Default(), nil
	}

	rf, err := translate.LoadFile(path)
	if err != nil {
		return nil, err
	}

	return translate.NewTable(rf, nil)
}

func loadRegistry(path string) (*schema.Registry, error) {
	if path == "" {
		return schema.DefaultRegistry(), nil
	}

	return schema.LoadRegistryFile(path)
}

// loadSchema builds the schema from the prebuilt payload file when one is
// configured, otherwise from a live describe call. Either way the slice
// client ends up ready.
func (cs *components) loadSchema(ctx context.Context, schemaPath string) (*schema.Schema, error) {
	var (
		p   *schema.Payload
		err error
	)

	if schemaPath != "" {
		p, err = schema.LoadPayloadFile(schemaPath)
		if err != nil {
			return nil, err
		}

		cs.client.MarkReady()
	} else {
		data, err := cs.client.Start(ctx)
		if err != nil {
			return nil, err
		}

		if p, err = schema.ParsePayload(data); err != nil {
			return nil, err
		}
	}

	return schema.NewBuilder(cs.table, cs.registry, cs.logger).Build(ctx, p), nil
}
