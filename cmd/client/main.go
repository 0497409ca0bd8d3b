package main

import "attendform/cmd/client/cmd"

func main() {
	cmd.Execute()
}
