// Command motdump prints the structure of a single MOT segment read from
// a file or stdin, for debugging a captured carousel capture. It is a Go
// port of the decode mode selector in the reference print_segment tool.
package main

import (
	"fmt"
	"io"
	"os"

	mot "github.com/globalradio/go-mot"
	"github.com/spf13/pflag"
)

func main() {
	mode := pflag.StringP("mode", "m", "h", "segment decode mode: h (header), d (directory), b (body)")
	pflag.Parse()

	var in io.Reader = os.Stdin
	if pflag.NArg() > 0 {
		f, err := os.Open(pflag.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
		fmt.Fprintf(os.Stderr, "decoding from %s\n", pflag.Arg(0))
	}

	buf, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, "reading input:", err)
		os.Exit(1)
	}

	seg, err := mot.DecodeSegment(buf)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decoding segment preamble:", err)
		os.Exit(1)
	}

	switch *mode {
	case "h":
		dumpHeaderSegment(seg)
	case "d":
		dumpDirectorySegment(seg)
	case "b":
		dumpBodySegment(seg)
	default:
		fmt.Fprintln(os.Stderr, "unknown mode:", *mode)
		os.Exit(1)
	}
}

func printSegmentPreamble(title string, seg *mot.Segment) {
	fmt.Println(title)
	fmt.Println("=======")
	fmt.Println("repetition:", seg.Repetition)
	fmt.Println("size:", seg.Size)
	fmt.Println()
}

func dumpBodySegment(seg *mot.Segment) {
	printSegmentPreamble("Body Segment", seg)
}

func dumpHeaderSegment(seg *mot.Segment) {
	printSegmentPreamble("Header Segment", seg)
	r := mot.NewBitReader(seg.Data)
	core, err := mot.DecodeHeaderCore(r)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decoding header core:", err)
		os.Exit(1)
	}
	printHeaderCore(core)

	params, err := mot.ParseHeaderParameters(r, uint(core.HeaderSize)*8, nil)
	dumpHeaderParameters(params)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decoding header parameters:", err)
		os.Exit(1)
	}
}

func dumpDirectorySegment(seg *mot.Segment) {
	printSegmentPreamble("Directory Segment", seg)

	r := mot.NewBitReader(seg.Data)
	dh, err := mot.DecodeDirectoryHeader(r)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decoding directory header:", err)
		os.Exit(1)
	}
	fmt.Println("Directory Header")
	fmt.Println("================")
	fmt.Println("directory size:", dh.DirectorySize)
	fmt.Println("number of objects:", dh.NumberOfObjects)
	fmt.Println("carousel period:", dh.CarouselPeriod)
	fmt.Println("segment size:", dh.SegmentSize)
	fmt.Println("directory extension length:", dh.DirectoryExtensionLength)
	fmt.Println()

	extEnd := r.Pos() + uint(dh.DirectoryExtensionLength)*8
	for r.Pos() < extEnd {
		p, err := mot.DecodeDirectoryParameter(r)
		if err != nil {
			if !mot.IsErrUnknownHeaderParameter(err) {
				fmt.Fprintln(os.Stderr, "decoding directory parameter:", err)
				return
			}
			fmt.Println("unknown directory parameter:", err)
			continue
		}
		fmt.Printf("%s: %+v\n", p.Kind(), p)
	}

	for i := 0; i < int(dh.NumberOfObjects); i++ {
		fmt.Printf("=================\nObject %d\n=================\n", i+1)
		tid, err := r.ReadBits(16)
		if err != nil {
			fmt.Fprintln(os.Stderr, "reading transport id:", err)
			return
		}
		fmt.Println("transport id:", tid)

		coreStart := r.Pos()
		core, err := mot.DecodeHeaderCore(r)
		if err != nil {
			fmt.Fprintln(os.Stderr, "decoding header core:", err)
			return
		}
		printHeaderCore(core)

		params, err := mot.ParseHeaderParameters(r, coreStart+uint(core.HeaderSize)*8, nil)
		dumpHeaderParameters(params)
		if err != nil {
			fmt.Fprintln(os.Stderr, "decoding header parameters:", err)
			return
		}
	}
}

func printHeaderCore(core mot.HeaderCore) {
	fmt.Println("Header Core")
	fmt.Println("===========")
	fmt.Println("body size:", core.BodySize)
	fmt.Println("header size:", core.HeaderSize)
	fmt.Println("content type:", core.ContentType)
	fmt.Println()
}

func dumpHeaderParameters(params []mot.HeaderParameter) {
	for i, p := range params {
		fmt.Printf("Parameter %d\n============\n%s: %+v\n\n", i+1, p.Kind(), p)
	}
}
