package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/elvannunal/portfolio/cmd"
)

func main() {
	cmd.Execute()
}
