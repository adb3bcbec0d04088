package main

import (
	"attendance-capture/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// Environment overrides may live in a .env file
	godotenv.Load()

	cmd.Execute()
}
