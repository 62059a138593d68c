package main

import "github.com/oshokin/winestream-updater/cmd/winestream-updater/cmd"

func main() {
	cmd.Execute()
}
