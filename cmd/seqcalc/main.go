package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/milk9111/sequencer/anim"
	"github.com/milk9111/sequencer/prefabs"
	"github.com/milk9111/sequencer/script"
)

func main() {
	step := flag.Duration("step", 10*time.Millisecond, "fixed step of the continuous run")
	limit := flag.Int("limit", 10000, "maximum ticks per run")
	all := flag.Bool("all", false, "evaluate every embedded definition")
	flag.Parse()

	log.SetFlags(0)

	names := flag.Args()
	if *all {
		names = append(names, prefabs.Names()...)
	}
	if len(names) == 0 {
		log.Fatal("usage: seqcalc [-step d] [-limit n] [-all] definition...")
	}

	scripts := script.NewRuntime(prefabs.LoadScript)
	failed := false
	for _, name := range names {
		spec, err := load(name)
		if err != nil {
			log.Printf("%s: %v", name, err)
			failed = true
			continue
		}

		ev, err := prefabs.Evaluate(spec, scripts, *step, *limit)
		if err != nil {
			log.Printf("%s: %v", name, err)
			failed = true
			continue
		}
		fmt.Print(ev.Summary(spec.Name))
		fmt.Println()

		// Looping definitions never drain; hitting the limit is their normal end.
		if err := ev.Err(); err != nil && !(spec.Loop && onlyStepLimit(ev)) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// load reads a definition from a path on disk or, failing that, by name from
// the prefabs set.
func load(name string) (prefabs.SequenceSpec, error) {
	if strings.ContainsRune(name, os.PathSeparator) {
		if data, err := os.ReadFile(name); err == nil {
			return prefabs.Decode(name, data)
		}
	}
	return prefabs.LoadSequence(name)
}

func onlyStepLimit(ev prefabs.Evaluation) bool {
	for _, err := range []error{ev.ContinuousErr, ev.EventErr} {
		if err != nil && !errors.Is(err, anim.ErrStepLimit) {
			return false
		}
	}
	return true
}
