// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Lc3obj converts between LC-3 object files and a txtar listing
// in which every word is written in hexadecimal, one per line.
//
// Usage:
//
//	lc3obj [-o dir] listing.txtar
//	lc3obj -x [-o out.txtar] file.obj...
//
// In the first form, lc3obj writes each NAME.obj file in the listing
// as an object file in the directory named by -o (default the current directory).
// In a listing, the first word is the origin and a ';' starts a comment
// that runs to the end of the line.
//
// The -x flag inverts the operation: lc3obj reads the object files and
// writes a listing, with each word commented by its address and disassembly,
// to the file named by -o (default standard output).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/txtar"

	"rsc.io/lc3/lc3"
)

var (
	outfile = flag.String("o", "", "write output to `file` or directory")
	xflag   = flag.Bool("x", false, "extract listing from object files")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: lc3obj [-o dir] listing.txtar\n")
	fmt.Fprintf(os.Stderr, "       lc3obj -x [-o out.txtar] file.obj...\n")
	os.Exit(2)
}

func main() {
	log.SetPrefix("lc3obj: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	if *xflag {
		if flag.NArg() == 0 {
			usage()
		}
		data, err := extract(flag.Args())
		if err != nil {
			log.Fatal(err)
		}
		if *outfile == "" {
			os.Stdout.Write(data)
			return
		}
		if err := os.WriteFile(*outfile, data, 0666); err != nil {
			log.Fatal(err)
		}
		return
	}

	if flag.NArg() != 1 {
		usage()
	}
	ar, err := txtar.ParseFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	dir := *outfile
	if dir == "" {
		dir = "."
	}
	if err := build(ar, dir); err != nil {
		log.Fatal(err)
	}
}

// build writes every NAME.obj file in ar into dir as an object file.
func build(ar *txtar.Archive, dir string) error {
	n := 0
	for _, f := range ar.Files {
		if !strings.HasSuffix(f.Name, ".obj") {
			continue
		}
		obj, err := lc3.ParseListing(f.Data)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		file := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(file), 0777); err != nil {
			return err
		}
		fd, err := os.Create(file)
		if err != nil {
			return err
		}
		if _, err := obj.WriteTo(fd); err != nil {
			fd.Close()
			return err
		}
		if err := fd.Close(); err != nil {
			return err
		}
		n++
	}
	if n == 0 {
		return fmt.Errorf("no .obj files in listing")
	}
	return nil
}

// extract returns a txtar listing of the named object files.
func extract(files []string) ([]byte, error) {
	ar := new(txtar.Archive)
	for _, file := range files {
		obj, err := lc3.ReadObjectFile(file)
		if err != nil {
			return nil, err
		}
		ar.Files = append(ar.Files, txtar.File{
			Name: filepath.ToSlash(filepath.Base(file)),
			Data: obj.Listing(),
		})
	}
	return txtar.Format(ar), nil
}
