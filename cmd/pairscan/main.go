package main

import (
	"os"

	"github.com/wonny/pairscan/cmd/pairscan/commands"
)

// main is the entry point for the pairscan CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/pairscan [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
