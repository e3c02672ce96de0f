package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// CLI for the shop tools, in-process or against a running server.
//
// Examples:
//
//	go run ./cmd/shop-cli search wireless headphones
//	go run ./cmd/shop-cli recommend gaming --budget 50_200
//	go run ./cmd/shop-cli order ORD12345 --email customer@example.com
//	go run ./cmd/shop-cli --remote localhost:8080 tools
//
// With --json, output is shaped like an MCP tool result: {"content":[...]}
func main() {
	_ = godotenv.Load()

	if err := newRootCmd(&app{}).Execute(); err != nil {
		if !errors.Is(err, errToolFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
