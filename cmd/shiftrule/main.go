// Shiftrule computes shift rules from the command line.
//
//	shiftrule solve --freq 2,3 --order 1 --support=-1/12,1/12,5/12,-5/12 --prec 256
//	shiftrule sweep --config problem.yaml --precs 64,256,1024,4096
package main

import (
	"log"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("shiftrule: ")

	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}
