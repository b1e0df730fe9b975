package main

import (
	"github.com/joho/godotenv"

	"github.com/kamusis/agent-scout/cmd"
)

func main() {
	// A .env in the working directory fills in unset variables; ~/.scout/.env
	// is consulted later by config.GetConfigValue.
	_ = godotenv.Load()
	cmd.Execute()
}
