package main

import "github.com/vektora/capacity-admin/cmd"

func main() {
	cmd.Execute()
}
