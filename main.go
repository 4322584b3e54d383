package main

import "github.com/stokerbuild/stoker/cmd"

func main() {
	cmd.Execute()
}
