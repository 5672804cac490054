//go:build !unix

package main

const brokenPipeExitCode = 141

func ignoreSIGPIPE() {}
