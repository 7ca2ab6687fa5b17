package main

import "github.com/biosentience/bioctl/pkg/cli"

func main() {
	cli.Execute()
}
