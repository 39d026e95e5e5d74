package main

import "github.com/rebelpaulo/mission-control-data/internal/cli"

func main() {
	cli.Execute()
}
