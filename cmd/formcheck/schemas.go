package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/formcheck/internal/cli"
	"github.com/spf13/cobra"
)

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "Manage stored schemas",
}

var schemasPutCmd = &cobra.Command{
	Use:   "put <name> <schema-file|->",
	Short: "Store a schema under a name",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		_, _, v, closeStore, err := setup(ctx, cmd)
		if err != nil {
			fail("Error: %v", err)
		}
		defer closeStore()

		if err := cli.PutSchema(ctx, v, args[0], args[1], os.Stdin); err != nil {
			closeStore()
			fail("Error: %v", err)
		}
		fmt.Printf("Schema %q stored.\n", args[0])
	},
}

var schemasGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print a stored schema",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")

		ctx := context.Background()
		_, _, v, closeStore, err := setup(ctx, cmd)
		if err != nil {
			fail("Error: %v", err)
		}
		defer closeStore()

		opts := cli.DescribeOptions{SchemaName: args[0], Format: format}
		if err := cli.RunDescribe(ctx, v, opts, os.Stdin, os.Stdout); err != nil {
			closeStore()
			fail("Error: %v", err)
		}
	},
}

var schemasListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored schema names",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		_, _, v, closeStore, err := setup(ctx, cmd)
		if err != nil {
			fail("Error: %v", err)
		}
		defer closeStore()

		if err := cli.ListSchemas(ctx, v, os.Stdout); err != nil {
			closeStore()
			fail("Error: %v", err)
		}
	},
}

var schemasRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a stored schema",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		_, _, v, closeStore, err := setup(ctx, cmd)
		if err != nil {
			fail("Error: %v", err)
		}
		defer closeStore()

		if err := v.DeleteSchema(ctx, args[0]); err != nil {
			closeStore()
			fail("Error: %v", err)
		}
		fmt.Printf("Schema %q deleted.\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(schemasCmd)
	schemasCmd.AddCommand(schemasPutCmd, schemasGetCmd, schemasListCmd, schemasRmCmd)
	schemasGetCmd.Flags().StringP("format", "f", "json", "Output format: json, yaml, markdown or mermaid")
}
