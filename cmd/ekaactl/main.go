// Command ekaactl is the operator CLI for EKAA Hub: it creates admin
// accounts and checks routing files before they are deployed.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
