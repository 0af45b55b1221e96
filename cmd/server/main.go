package main

import (
	"log"

	"github.com/vkarpenko/drivespace/internal/server"
	"github.com/vkarpenko/drivespace/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()
	if err := server.Run(cfg); err != nil {
		log.Fatal(err)
	}
}
