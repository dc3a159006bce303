package main

import (
	"os"

	"github.com/patilgayatri22/agentic-ecommerce/cmd/agentic"
)

func main() {
	if err := agentic.Execute(); err != nil {
		os.Exit(1)
	}
}
