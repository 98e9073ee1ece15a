package main

import "github.com/KaramelBytes/coursecharts-cli/cmd"

func main() {
	cmd.Execute()
}
