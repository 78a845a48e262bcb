package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/devmojahid/restu-food-sub005/internal/model"
	"github.com/devmojahid/restu-food-sub005/internal/variation"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "varctl",
		Short: "Preview product variations offline",
		Long: `varctl expands a product attribute file into its variations without
touching the catalog service.

The attribute file is YAML, either a list or an "attributes:" key:

  attributes:
    - name: Size
      values: [Small, Large]
      used_for_variations: true`,
		SilenceUsage: true,
	}
	root.AddCommand(generateCmd())
	root.AddCommand(countCmd())
	return root
}

func generateCmd() *cobra.Command {
	var (
		file     string
		existing string
		output   string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Regenerate variations from an attribute file",
		Long: `Regenerate variations from an attribute file.

With --existing, variations from a JSON array whose key tuple is still
generated keep their id and fields; the rest are dropped.

Examples:
  varctl generate -f pizza.yaml
  varctl generate -f pizza.yaml --existing current.json --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := loadAttributes(file)
			if err != nil {
				return err
			}
			current, err := loadVariations(existing)
			if err != nil {
				return err
			}

			result := variation.Regenerate(attrs, current)
			switch output {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			case "table":
				return writeTable(cmd.OutOrStdout(), attrs, current, result)
			default:
				return fmt.Errorf("unknown output %q (table or json)", output)
			}
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "attribute YAML file")
	cmd.Flags().StringVar(&existing, "existing", "", "JSON array of current variations")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table or json")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func countCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print how many variations an attribute file generates",
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := loadAttributes(file)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), variation.Count(attrs))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "attribute YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

type attributeFile struct {
	Attributes model.AttributeSet `yaml:"attributes"`
}

func loadAttributes(path string) (model.AttributeSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var attrs model.AttributeSet
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		err = node.Decode(&attrs)
	} else {
		var f attributeFile
		err = node.Decode(&f)
		attrs = f.Attributes
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return variation.NormalizeAttributes(attrs)
}

func loadVariations(path string) ([]model.Variation, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list []model.Variation
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return list, nil
}

func writeTable(w io.Writer, attrs model.AttributeSet, current, result []model.Variation) error {
	var columns []string
	for _, a := range attrs {
		if a.UsedForVariations {
			columns = append(columns, a.Name)
		}
	}

	known := make(map[string]struct{}, len(current))
	for _, v := range current {
		known[v.ID] = struct{}{}
	}

	keep := color.New(color.FgBlue).SprintFunc()
	create := color.New(color.FgGreen).SprintFunc()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "STATUS\tID\t%s\tSKU\tPRICE\tSTOCK\n", strings.ToUpper(strings.Join(columns, "\t")))
	kept := 0
	for _, v := range result {
		status := create("NEW")
		if _, ok := known[v.ID]; ok {
			status = keep("KEEP")
			kept++
		}
		values := make([]string, len(columns))
		for i, c := range columns {
			values[i] = v.KeyTuple[c]
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", status, v.ID, strings.Join(values, "\t"), v.SKU, v.Price, v.Stock)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	dropped := len(current) - kept
	fmt.Fprintf(w, "\n%d variations (%d kept, %d new, %d dropped)\n", len(result), kept, len(result)-kept, dropped)
	return nil
}
