package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/chazu/binop/vm"
	"github.com/chazu/binop/vm/tracefile"
)

type TableCmd struct{}

func (t *TableCmd) Run(g *Globals) error {
	if _, err := g.load(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "OP\tLEFT\tRIGHT\tRESULT")
	for _, e := range vm.FastPathTable() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Op, e.Left, e.Right, e.Result)
	}
	return w.Flush()
}

type TraceCmd struct {
	File string `arg:"" help:"Trace file written by eval --trace." type:"existingfile"`
}

func (t *TraceCmd) Run(g *Globals) error {
	if _, err := g.load(); err != nil {
		return err
	}

	f, err := tracefile.ReadFile(t.File)
	if err != nil {
		return err
	}
	fmt.Printf("session %s started %s, %d events\n",
		f.SessionID(), f.StartTime().Format("2006-01-02 15:04:05"), len(f.Events))
	for i, ev := range f.Events {
		fmt.Printf("%4d  %s\n", i, tracefile.Format(ev))
	}
	return nil
}
