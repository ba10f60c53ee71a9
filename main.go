package main

import "catalogadmin/cmd"

func main() {
	cmd.Execute()
}
