package main

import "studentadmin/cmd/client/cmd"

func main() {
	cmd.Execute()
}
