package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/thema/internal/content"
)

var definitionsFormat string

// definitionsCmd lists the content-type definitions in the configured
// directory.
var definitionsCmd = &cobra.Command{
	Use:   "definitions",
	Short: "List content-type definitions",
	Long: `List the content-type definitions loaded from the configured
definition directory, with their stereotypes and part attachments.

Examples:
  thema definitions
  thema definitions --format json`,
	RunE: runDefinitionsCommand,
}

func init() {
	rootCmd.AddCommand(definitionsCmd)

	definitionsCmd.Flags().StringVarP(&definitionsFormat, "format", "f", "text", "Output format (text, json)")
}

func runDefinitionsCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	definitions, err := content.LoadDir(cfg.Definitions.Path)
	if err != nil {
		return fmt.Errorf("failed to load definitions from %s: %w", cfg.Definitions.Path, err)
	}

	switch definitionsFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(definitionSummaries(definitions))
	case "text":
		printDefinitions(cmd, definitions)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", definitionsFormat)
	}
}

type definitionSummary struct {
	Name       string        `json:"name"`
	Stereotype string        `json:"stereotype,omitempty"`
	Parts      []partSummary `json:"parts"`
}

type partSummary struct {
	Name   string `json:"name"`
	Part   string `json:"part"`
	Editor string `json:"editor,omitempty"`
}

func definitionSummaries(definitions []*content.ContentTypeDefinition) []definitionSummary {
	summaries := make([]definitionSummary, 0, len(definitions))
	for _, definition := range definitions {
		summary := definitionSummary{
			Name:       definition.Name,
			Stereotype: definition.Stereotype(),
			Parts:      make([]partSummary, 0, len(definition.Parts)),
		}
		for _, part := range definition.Parts {
			summary.Parts = append(summary.Parts, partSummary{
				Name:   part.Name,
				Part:   part.PartTypeName(),
				Editor: part.Editor(),
			})
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func printDefinitions(cmd *cobra.Command, definitions []*content.ContentTypeDefinition) {
	out := cmd.OutOrStdout()

	if len(definitions) == 0 {
		fmt.Fprintln(out, "No content-type definitions found")
		return
	}

	for _, definition := range definitions {
		fmt.Fprintf(out, "%s", definition.Name)
		if stereotype := definition.Stereotype(); stereotype != "" {
			fmt.Fprintf(out, " (stereotype: %s)", stereotype)
		}
		fmt.Fprintln(out)

		for _, part := range definition.Parts {
			fmt.Fprintf(out, "  %s", part.Name)
			if part.PartTypeName() != part.Name {
				fmt.Fprintf(out, " [%s]", part.PartTypeName())
			}
			if editor := part.Editor(); editor != "" {
				fmt.Fprintf(out, " editor=%s", editor)
			}
			fmt.Fprintln(out)
		}
	}
}
