package main

import "github.com/dbsmedya/situations/cmd/situations/cmd"

func main() {
	cmd.Execute()
}
