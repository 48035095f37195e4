// Command extract-profiles converts a vendor profile tree into the tiered
// storage layout served to the browser: index.json plus one flattened
// <tier>/<vendor>.json per vendor.
//
//	extract-profiles [-tier popular|extended|all] [-all] <source>
package main

import (
	"context"
	"os"

	"cogentcore.org/core/cli"

	"slicerweb/internal/config"
	"slicerweb/internal/extract"
	"slicerweb/internal/logging"
)

func main() {
	opts := cli.DefaultOptions("extract-profiles", "Extract vendor printer profiles into the tiered storage layout.")
	cli.Run(opts, &config.ExtractConfig{},
		&cli.Cmd[*config.ExtractConfig]{
			Func: Extract,
			Name: "extract",
			Doc:  "Extract reads Source and writes the storage layout under Output.",
			Root: true,
		},
	)
}

// Extract runs one extraction.
func Extract(c *config.ExtractConfig) error {
	logger, err := logging.New(os.Stderr, c.Log.Level, c.Log.Format)
	if err != nil {
		return err
	}

	if err := c.Validate(); err != nil {
		return err
	}

	tiering := extract.DefaultTiering()
	if c.Popular != nil {
		tiering.Popular = c.Popular
	}

	if c.Extended != nil {
		tiering.Extended = c.Extended
	}

	opts := extract.Options{
		Vendors:      c.Vendors,
		Tiering:      tiering,
		MaxPrinters:  c.MaxPrinters,
		MaxFilaments: c.MaxFilaments,
		MaxProcesses: c.MaxProcesses,
	}

	if opts.Vendors == nil {
		opts.Vendors = tiering.Selection(c.Tier)
	}

	if c.All {
		opts.MaxPrinters, opts.MaxFilaments, opts.MaxProcesses = 0, 0, 0
	}

	ctx := context.Background()

	report, err := extract.New(os.DirFS(c.Source), c.Output, opts, logger).Run(ctx)
	if err != nil {
		return err
	}

	report.Diagnostics.Log(ctx, logger)

	logger.Info("extraction complete",
		"printers", report.Printers,
		"filaments", report.Filaments,
		"processes", report.Processes,
		"skipped", len(report.Skipped),
		"popular_bytes", report.TierSizes["popular"],
		"extended_bytes", report.TierSizes["extended"],
		"complete_bytes", report.TierSizes["complete"],
	)

	return nil
}
