package main

import "github.com/hosana-alex/leave-management/cmd"

func main() {
	cmd.Execute()
}
