package main

import "likedao_wallet/cmd/portfolio/cmd"

func main() {
	cmd.Execute()
}
