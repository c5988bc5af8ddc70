// Command fstlookup is a small command-line front end for analyzing and
// generating word forms against a gzip-compressed Foma network.
//
// Usage:
//
//	fstlookup analyze   -fst network.fst <surface form>
//	fstlookup generate  -fst network.fst <analysis string>
//	fstlookup sigma     -fst network.fst
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	fstlookup "github.com/cours-de-latin/fst-lookup"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "analyze":
		runAnalyze(args)
	case "generate":
		runGenerate(args)
	case "sigma":
		runSigma(args)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: fstlookup <analyze|generate|sigma> -fst network.fst [args]")
}

func runAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	fstPath := fs.String("fst", "", "path to a gzip-compressed Foma network (required)")
	invert := fs.Bool("invert", false, "swap the upper and lower sides of the network")
	fs.Parse(args)

	rest := fs.Args()
	if *fstPath == "" || len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "usage: fstlookup analyze -fst network.fst <surface form>")
		os.Exit(2)
	}

	fst, err := fstlookup.FromFile(*fstPath, fstlookup.Options{Invert: *invert})
	if err != nil {
		log.Fatalf("failed to load network: %v", err)
	}

	for _, analysis := range fst.Analyze(rest[0]).All() {
		fmt.Println(joinAnalysis(analysis))
	}
}

func runGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	fstPath := fs.String("fst", "", "path to a gzip-compressed Foma network (required)")
	invert := fs.Bool("invert", false, "swap the upper and lower sides of the network")
	fs.Parse(args)

	rest := fs.Args()
	if *fstPath == "" || len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "usage: fstlookup generate -fst network.fst <analysis string>")
		os.Exit(2)
	}

	fst, err := fstlookup.FromFile(*fstPath, fstlookup.Options{Invert: *invert})
	if err != nil {
		log.Fatalf("failed to load network: %v", err)
	}

	for _, form := range fst.Generate(rest[0]).All() {
		fmt.Println(form)
	}
}

func runSigma(args []string) {
	fs := flag.NewFlagSet("sigma", flag.ExitOnError)
	fstPath := fs.String("fst", "", "path to a gzip-compressed Foma network (required)")
	fs.Parse(args)

	if *fstPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fstlookup sigma -fst network.fst")
		os.Exit(2)
	}

	fst, err := fstlookup.FromFile(*fstPath, fstlookup.Options{})
	if err != nil {
		log.Fatalf("failed to load network: %v", err)
	}

	sigma := fst.Sigma()
	for id := 0; id < sigma.Len(); id++ {
		sym, ok := sigma.Lookup(fstlookup.SymbolID(id))
		if !ok {
			continue
		}
		fmt.Printf("%d\t%s\t%s\n", id, sym.Kind, sym.String())
	}
}

func joinAnalysis(a fstlookup.Analysis) string {
	out := ""
	for _, piece := range a {
		out += piece
	}
	return out
}
