package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"dicelang/internal/dice"
)

func main() {
	seed := flag.Int64("seed", 1, "seed for the dice RNG")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatalf("usage: %s [-seed n] <expression>", flag.CommandLine.Name())
	}
	input := strings.Join(flag.Args(), " ")

	expr, err := dice.Parse(input)
	if err != nil {
		log.Fatal(err)
	}

	value, trace, rngCount, err := dice.Eval(expr, dice.NewRng(*seed))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s\n= %d\n(%d random draws)\n", trace, value, rngCount)
}
