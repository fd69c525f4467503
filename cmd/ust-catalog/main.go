package main

import "github.com/pfrederiksen/ust-catalog/internal/cli"

func main() {
	cli.Execute()
}
