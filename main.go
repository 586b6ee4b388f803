/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package main

import "github.com/Hypha-Media-UK/Porter-Task-Management/cmd"

func main() {
	cmd.Execute()
}
