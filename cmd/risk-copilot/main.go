// Command risk-copilot answers risk and compliance questions from a local
// document corpus with cited, guardrailed LLM answers.
package main

import (
	"context"
	"os"

	"github.com/custodia-labs/risk-copilot/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
