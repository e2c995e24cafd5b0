// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/ptm-survey/internal/convert"
	"github.com/pdiddy/ptm-survey/internal/stage"
	"github.com/pdiddy/ptm-survey/pkg/types"
)

var pandocCmd = &cobra.Command{
	Use:   "pandoc",
	Short: "Convert stored JATS XML to Markdown",
	Long: `Pandoc prunes each stored JATS document (front and back matter dropped
except title and abstract, cross-references removed) and posts it to the
conversion service, storing the re-wrapped Markdown. Documents that
already have a Markdown row are not converted again.`,
	RunE: runPandoc,
}

func init() {
	pandocCmd.Flags().String("converter-uri", convert.DefaultConverterURI, "pandoc server endpoint")
	pandocCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	pandocCmd.Flags().Int("max-retries", 0, "HTTP retry budget (default 10)")

	rootCmd.AddCommand(pandocCmd)
}

func runPandoc(cmd *cobra.Command, args []string) error {
	uri, _ := cmd.Flags().GetString("converter-uri")

	return runStage(cmd, stage.StagePandoc, stage.Params{
		Pandoc: types.PandocConfig{
			HTTPConfig:   httpConfig(cmd),
			DBPath:       dbPath(cmd),
			ConverterURI: uri,
		},
	})
}
