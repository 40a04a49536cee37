package main

import "artify/cmd"

func main() {
	cmd.Execute()
}
