package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

const defaultKeyBytesLen = 32

// Prints a random hex key suitable for the SECRET_KEY setting
func main() {
	length := pflag.IntP("length", "n", defaultKeyBytesLen, "Key length in bytes")
	pflag.Parse()

	if *length <= 0 {
		fmt.Fprintln(os.Stderr, "key length must be positive")
		os.Exit(2)
	}

	b := make([]byte, *length)

	_, err := rand.Read(b)
	if err != nil {
		fmt.Printf("error while generating secret key: %v", err)
		os.Exit(1)
	}

	fmt.Println(hex.EncodeToString(b))
}
