package main

import "listing_tool/cmd"

func main() {
	cmd.Execute()
}
