package main

import "tontonin/cmd"

func main() {
	cmd.Execute()
}
