package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/formcheck"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of formcheck",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("formcheck version %s\n", strings.TrimSpace(formcheck.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
