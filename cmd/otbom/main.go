package main

import "github.com/OpenTraceLab/OpenTraceBOM/cmd/otbom/cmd"

func main() {
	cmd.Execute()
}
