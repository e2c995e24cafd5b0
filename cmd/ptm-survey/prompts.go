// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ptm-survey/internal/prompts"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Print the LLM prompt catalog",
	Long: `Prompts renders the built-in prompt catalog as YAML for inspection: one
entry per tag with the full system prompt text. The same catalog is seeded
into the store by init.`,
	RunE: runPrompts,
}

func init() {
	promptsCmd.Flags().String("tag", "", "print only the prompt with this tag")

	rootCmd.AddCommand(promptsCmd)
}

// promptDump is the YAML shape printed per catalog entry.
type promptDump struct {
	Tag    string `yaml:"tag"`
	Prompt string `yaml:"prompt"`
}

func runPrompts(cmd *cobra.Command, args []string) error {
	only, _ := cmd.Flags().GetString("tag")

	catalog, err := prompts.Catalog()
	if err != nil {
		return err
	}

	var dump []promptDump
	for _, p := range catalog {
		if only != "" && p.Tag != only {
			continue
		}
		dump = append(dump, promptDump{Tag: p.Tag, Prompt: p.Text})
	}
	if len(dump) == 0 {
		return fmt.Errorf("no prompt with tag %q", only)
	}

	data, err := yaml.Marshal(dump)
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}
