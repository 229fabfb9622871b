package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/web"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the browser protocol JSON schema",
	Long: `Print the JSON schema of the messages exchanged over the web
server's /ws socket.

Examples:
  flappy schema > protocol.schema.json`,
	Args: cobra.NoArgs,
	Run:  runSchema,
}

func runSchema(_ *cobra.Command, _ []string) {
	data, err := json.MarshalIndent(web.Schema(), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
