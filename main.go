package main

import "github.com/frahmantamala/docdraft/cmd"

func main() {
	cmd.Execute()
}
