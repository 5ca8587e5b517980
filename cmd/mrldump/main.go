// Package main provides the mrldump CLI tool for inspecting a
// mrecordlog directory.
//
// Usage:
//
//	mrldump --dir=<path> [options]
//
// Commands:
//
//	list     List queue names and last positions
//	dump     Dump one queue's live records in a position range
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/quickwit-oss/mrecordlog"
	"github.com/quickwit-oss/mrecordlog/internal/exportcodec"
)

var (
	dir     = flag.String("dir", "", "Path to the log directory (required)")
	command = flag.String("command", "list", "Command: list, dump")
	queue   = flag.String("queue", "", "Queue name (required for dump)")
	from    = flag.Uint64("from", 0, "Start position (inclusive)")
	to      = flag.Uint64("to", ^uint64(0), "End position (inclusive)")
	codec   = flag.String("codec", "none", "Export codec for dump: none, gzip, snappy, lz4")
)

func main() {
	flag.Parse()
	if *dir == "" {
		fmt.Fprintln(os.Stderr, "Error: --dir flag is required")
		os.Exit(1)
	}

	var err error
	switch *command {
	case "list":
		err = cmdList()
	case "dump":
		err = cmdDump()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", *command)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func cmdList() error {
	log, err := mrecordlog.Open(*dir)
	if err != nil {
		return err
	}
	defer log.Close()
	for _, name := range log.ListQueues() {
		pos, ok, err := log.LastPosition(name)
		if err != nil {
			return err
		}
		if ok {
			fmt.Printf("%s\tlast=%d\n", name, pos)
		} else {
			fmt.Printf("%s\t(empty)\n", name)
		}
	}
	return nil
}

func cmdDump() error {
	if *queue == "" {
		return fmt.Errorf("--queue is required for dump")
	}
	ct, err := exportcodec.ParseType(*codec)
	if err != nil {
		return err
	}

	log, err := mrecordlog.Open(*dir)
	if err != nil {
		return err
	}
	defer log.Close()

	it, err := log.Range(*queue, *from, *to)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for it.Next() {
		payload, err := exportcodec.Encode(ct, it.Payload())
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%d\t", it.Position(), len(payload))
		w.Write(payload)
		w.WriteByte('\n')
	}
	return nil
}
