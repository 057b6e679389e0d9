package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/thema/internal/content"
	"github.com/conneroisu/thema/internal/display"
)

var (
	alternatesType        string
	alternatesPart        string
	alternatesShape       string
	alternatesDisplayType string
	alternatesEditor      bool
)

// alternatesCmd resolves the template alternates a part shape would carry.
var alternatesCmd = &cobra.Command{
	Use:   "alternates",
	Short: "Resolve template alternates for a part shape",
	Long: `Resolve the ordered template alternates for a part attached to a
content type, using the definitions in the configured directory.

The shape type defaults to the part's type name. With --editor the editor
shape is resolved instead, honoring the attachment's editor setting.

Examples:
  thema alternates --type BlogPost --part Body --display-type Summary
  thema alternates --type BlogPost --part Body --shape HtmlBodyPart_Summary__Custom
  thema alternates --type BlogPost --part Body --editor`,
	RunE: runAlternatesCommand,
}

func init() {
	rootCmd.AddCommand(alternatesCmd)

	alternatesCmd.Flags().StringVarP(&alternatesType, "type", "t", "", "content type name (required)")
	alternatesCmd.Flags().StringVarP(&alternatesPart, "part", "p", "", "part attachment name (required)")
	alternatesCmd.Flags().StringVarP(&alternatesShape, "shape", "s", "", "shape type (defaults to the part's type name)")
	alternatesCmd.Flags().StringVarP(&alternatesDisplayType, "display-type", "d", "", "display type, e.g. Detail or Summary")
	alternatesCmd.Flags().BoolVar(&alternatesEditor, "editor", false, "resolve the editor shape")

	alternatesCmd.MarkFlagRequired("type")
	alternatesCmd.MarkFlagRequired("part")
}

func runAlternatesCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	definitions, err := content.LoadDir(cfg.Definitions.Path)
	if err != nil {
		return fmt.Errorf("failed to load definitions from %s: %w", cfg.Definitions.Path, err)
	}

	typePart, err := findTypePart(definitions, alternatesType, alternatesPart)
	if err != nil {
		return err
	}

	editorShapeType := display.EditorShapeType(typePart.PartTypeName()+"_Edit", typePart)

	shapeType := alternatesShape
	if shapeType == "" {
		shapeType = typePart.PartTypeName()
	}
	if alternatesEditor {
		shapeType = editorShapeType
	}

	differentiator, alternates := display.Resolve(typePart, shapeType, alternatesDisplayType, editorShapeType)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Shape:          %s\n", shapeType)
	fmt.Fprintf(out, "Differentiator: %s\n", differentiator)
	fmt.Fprintln(out, "Alternates (most specific last):")
	for _, alternate := range alternates {
		fmt.Fprintf(out, "  %s\n", alternate)
	}

	return nil
}

func findTypePart(definitions []*content.ContentTypeDefinition, typeName, partName string) (*content.ContentTypePartDefinition, error) {
	for _, definition := range definitions {
		if definition.Name != typeName {
			continue
		}

		typePart := definition.Part(partName)
		if typePart == nil {
			return nil, fmt.Errorf("content type %s has no part %s", typeName, partName)
		}
		return typePart, nil
	}

	return nil, fmt.Errorf("unknown content type %s", typeName)
}
