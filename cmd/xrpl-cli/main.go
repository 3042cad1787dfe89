package main

import "xrpl-signer/cmd/xrpl-cli/cmd"

func main() {
	cmd.Execute()
}
