package main

import "canvasbridge/cmd"

func main() {
	cmd.Execute()
}
