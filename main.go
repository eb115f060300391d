package main

import "github.com/kitlaan/edmc-cargo-manifest/cmd"

func main() {
	cmd.Execute()
}
