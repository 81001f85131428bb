/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ssargent/pixelsteg/cmd/pixelsteg/cmd"
	"github.com/ssargent/pixelsteg/pkg/di"
)

func main() {
	// Initialize dependency injection container
	container := di.NewContainer()

	cmd.Execute(container)
}
