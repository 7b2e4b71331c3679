package main

import (
	"context"
	"os"

	"github.com/aretw0/formcheck/internal/cli"
	"github.com/aretw0/formcheck/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <value-file|->",
	Short: "Validate a JSON value against a schema",
	Long: `Validates a JSON value read from a file (or "-" for stdin) against a schema file
or a stored schema and prints every failure.

Exit status is 0 when the value is valid, 1 when it is not and 2 on usage,
schema or I/O errors.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		schemaPath, _ := cmd.Flags().GetString("schema")
		name, _ := cmd.Flags().GetString("name")
		path, _ := cmd.Flags().GetStringSlice("path")
		jsonMode, _ := cmd.Flags().GetBool("json")

		if (schemaPath == "") == (name == "") {
			fail("Error: exactly one of --schema or --name is required")
		}

		ctx := context.Background()
		_, _, v, closeStore, err := setup(ctx, cmd)
		if err != nil {
			fail("Error: %v", err)
		}
		defer closeStore()

		res, err := cli.RunValidate(ctx, v, cli.ValidateOptions{
			SchemaPath: schemaPath,
			SchemaName: name,
			ValuePath:  args[0],
			Path:       path,
			JSON:       jsonMode,
			Color:      tui.IsTerminal(os.Stdout),
		}, os.Stdin, os.Stdout)
		if err != nil {
			closeStore()
			fail("Error: %v", err)
		}
		if !res.Valid() {
			closeStore()
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("schema", "s", "", `Schema file (JSON or YAML, "-" for stdin)`)
	validateCmd.Flags().StringP("name", "n", "", "Stored schema name")
	validateCmd.Flags().StringSlice("path", nil, "Validate only the field at this path (e.g. --path address,zip)")
	validateCmd.Flags().Bool("json", false, "Print the result as JSON")
}
