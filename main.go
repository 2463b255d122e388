package main

import "github.com/vibeguard/vibeguard/cmd/vibeguard"

func main() { vibeguard.Execute() }
