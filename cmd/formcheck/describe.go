package main

import (
	"context"
	"os"

	"github.com/aretw0/formcheck/internal/cli"
	"github.com/aretw0/formcheck/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe [schema-file]",
	Short: "Describe a schema",
	Long: `Prints a schema as a markdown table, a Mermaid diagram, or normalized JSON/YAML.

With --format mermaid and --value, the fields that fail validation are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		format, _ := cmd.Flags().GetString("format")
		valuePath, _ := cmd.Flags().GetString("value")

		opts := cli.DescribeOptions{
			SchemaName: name,
			Format:     format,
			ValuePath:  valuePath,
			Styled:     tui.IsTerminal(os.Stdout),
		}
		if len(args) > 0 {
			opts.SchemaPath = args[0]
		}
		if (opts.SchemaPath == "") == (name == "") {
			fail("Error: give either a schema file or --name")
		}

		ctx := context.Background()
		_, _, v, closeStore, err := setup(ctx, cmd)
		if err != nil {
			fail("Error: %v", err)
		}
		defer closeStore()

		if err := cli.RunDescribe(ctx, v, opts, os.Stdin, os.Stdout); err != nil {
			closeStore()
			fail("Error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringP("name", "n", "", "Stored schema name")
	describeCmd.Flags().StringP("format", "f", "markdown", "Output format: markdown, mermaid, json or yaml")
	describeCmd.Flags().String("value", "", "Value file whose failures are highlighted (mermaid only)")
}
