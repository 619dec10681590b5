package main

import "orcaview/cmd"

func main() {
	cmd.Execute()
}
