package main

import "github.com/joshday/DataJamboree2022/cmd"

func main() {
	cmd.Execute()
}
