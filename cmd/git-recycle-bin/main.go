package main

import "github.com/treeverse/git-recycle-bin/cmd/git-recycle-bin/cmd"

func main() {
	cmd.Execute()
}
