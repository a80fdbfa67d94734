// Command vcrfixture inspects the cassettes recorded by vcrfixture tests.
//
//	vcrfixture list [dir]
//	vcrfixture show <cassette>
//	vcrfixture decrypt --cassette-file <cassette> --key-file <key>
//
// Encrypted cassettes are read with --key-file and --cipher.
package main
