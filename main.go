package main

import (
	"fmt"
	"os"

	"bscpro/bank-export/cmd/batch"
	"bscpro/bank-export/cmd/classify"
	"bscpro/bank-export/cmd/export"
	"bscpro/bank-export/cmd/extract"
	"bscpro/bank-export/cmd/root"
	"bscpro/bank-export/cmd/rules"
	"bscpro/bank-export/cmd/serve"
	"bscpro/bank-export/cmd/summary"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(extract.Cmd)
	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
