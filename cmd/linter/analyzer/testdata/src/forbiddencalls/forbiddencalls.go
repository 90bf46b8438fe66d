package forbiddencalls

import (
	"log"
	"os"
)

func SomePanicFunction() {
	panic("this is forbidden") // want "panic is forbidden"
}

func SomeLogFatalFunction() {
	log.Fatal("this is forbidden") // want "log.Fatal is forbidden outside main function"
}

func SomeOsExitFunction() {
	os.Exit(1) // want "os.Exit is forbidden outside main function"
}

// main outside package main gets no exemption.
func main() {
	log.Fatal("not the program entry") // want "log.Fatal is forbidden outside main function"
}

func ShadowedPanic() {
	panic := func(string) {}
	panic("a local func named panic")
}
