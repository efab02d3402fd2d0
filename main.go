package main

import "nathanbeddoewebdev/actionrunner/cmd"

func main() {
	cmd.Execute()
}
