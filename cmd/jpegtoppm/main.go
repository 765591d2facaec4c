// Command jpegtoppm decodes a baseline JFIF/JPEG file and writes it out as
// a binary PPM (P6).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/avnerm/gojpeg"
)

func main() {
	var in string
	var out string
	flag.StringVar(&in, "i", "", "input JPEG file path")
	flag.StringVar(&out, "o", "", "output PPM file path")
	flag.Parse()

	if in == "" || out == "" {
		fmt.Fprintf(os.Stderr, "jpegtoppm: -i and -o are required\n")
		os.Exit(1)
	}

	data, err := os.ReadFile(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jpegtoppm: cant read %s: %s\n", in, err)
		os.Exit(1)
	}

	img, err := jpeg.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jpegtoppm: cant decode %s: %s\n", in, err)
		os.Exit(1)
	}

	output, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jpegtoppm: cant open %s: %s\n", out, err)
		os.Exit(1)
	}
	defer output.Close()

	if _, err := jpeg.WritePPM(output, img); err != nil {
		fmt.Fprintf(os.Stderr, "jpegtoppm: cant write %s: %s\n", out, err)
		os.Exit(1)
	}
}
