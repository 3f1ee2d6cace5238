package main

import "github.com/smartclipper/smartclip/internal/cli"

func main() {
	cli.Main()
}
