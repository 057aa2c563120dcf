package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	pager "gitea.narnian.us/lordwelch/comic-pager"
)

func main() {
	strategy := pager.ConcatenatedDigits
	dir := flag.String("d", "", "directory to list in page order")
	flag.Var(&strategy, "strategy", "how digits in a filename become a page number (concatenated, first)")
	flag.Parse()
	if *dir == "" {
		flag.Usage()
		os.Exit(1)
	}

	entries, dropped, err := pager.Order(*dir, strategy)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\n", e.Key, e.Entry.Path)
	}
	w.Flush()

	if len(dropped) == 0 {
		return
	}
	// Depending on locale punctuation or numbers might come first
	c := collate.New(language.English, collate.Loose, collate.Numeric, collate.Force)
	unordered := make([]string, 0, len(dropped))
	for _, d := range dropped {
		unordered = append(unordered, d.Path)
	}
	c.SortStrings(unordered)
	fmt.Printf("\n%d without a page number:\n", len(unordered))
	for _, path := range unordered {
		fmt.Println(path)
	}
}
