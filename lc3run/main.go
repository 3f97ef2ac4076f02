// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Lc3run runs an LC-3 object file with the terminal as its console.
//
// Usage:
//
//	lc3run [--trace=file] [--prompt=text] [--cpuprofile=file] [--no-raw] image.obj
//
// When standard input is a terminal, lc3run puts it in raw mode so that
// GETC sees each key as it is typed. Typing Ctrl-\ exits immediately,
// whether or not the program is waiting for input.
//
// The --trace flag logs every instruction executed and every trap taken to file.
//
// Lc3run exits with status 0 when the program halts and 1 when it fails.
package main

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"
	"golang.org/x/term"

	"rsc.io/lc3/lc3"
)

type cliArgs struct {
	Image      string `arg:"" name:"image" help:"Object file to run."`
	Trace      string `name:"trace" placeholder:"FILE" help:"Log every instruction to FILE."`
	Prompt     string `name:"prompt" default:"${prompt}" help:"Prompt printed by the IN trap."`
	CPUProfile string `name:"cpuprofile" placeholder:"FILE" help:"Write a CPU profile to FILE."`
	NoRaw      bool   `name:"no-raw" help:"Leave the terminal in line mode."`
}

func newParser(cli *cliArgs, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("lc3run"),
		kong.Description("Run an LC-3 object file."),
		kong.Vars{"prompt": lc3.DefaultPrompt},
		kong.UsageOnError(),
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	log.SetPrefix("lc3run: ")
	log.SetFlags(0)

	var cli cliArgs
	parser, err := newParser(&cli, kong.Exit(atexit.Exit))
	if err != nil {
		log.Fatal(err)
	}
	_, err = parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := cli.Run(); err != nil {
		log.Print(err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

// Run runs the program on the process's terminal.
func (cli *cliArgs) Run() error {
	if cli.CPUProfile != "" {
		f, err := os.Create(cli.CPUProfile)
		if err != nil {
			return err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		atexit.Register(pprof.StopCPUProfile)
		defer pprof.StopCPUProfile()
	}

	var (
		in   io.Reader = os.Stdin
		out  io.Writer = os.Stdout
		quit <-chan struct{}
	)
	if !cli.NoRaw {
		if restore, ok := makeRaw(os.Stdin); ok {
			defer restore()
			keys := newKeyReader(os.Stdin)
			in, quit = keys, keys.quit
			out = crlfWriter{w: os.Stdout}
		}
	}

	err := cli.exec(in, out, quit)
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// stepsPerPoll is how many instructions run between checks for quit.
const stepsPerPoll = 10000

// exec loads the image and runs it until it halts,
// with in and out as the console.
// If quit is closed, exec stops the program and returns errQuit.
func (cli *cliArgs) exec(in io.Reader, out io.Writer, quit <-chan struct{}) error {
	mem := lc3.NewArrayMem(lc3.DefaultOrigin)
	if _, err := lc3.LoadProgram(cli.Image, mem); err != nil {
		return err
	}
	cpu := lc3.NewCPU(mem, lc3.NewStreamConsole(in, out))
	cpu.Trap.Prompt = cli.Prompt

	if cli.Trace != "" {
		f, err := os.Create(cli.Trace)
		if err != nil {
			return err
		}
		defer f.Close()
		logger := logrus.New()
		logger.SetOutput(f)
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		cpu.Log = logger
	}

	cpu.State = lc3.Running
	for cpu.State == lc3.Running {
		select {
		case <-quit:
			return errQuit
		default:
		}
		if err := cpu.Step(stepsPerPoll); err != nil {
			return err
		}
	}
	return nil
}

// makeRaw puts the terminal f in raw mode.
// The returned restore may be called any number of times;
// it also runs at atexit.Exit.
func makeRaw(f *os.File) (restore func(), ok bool) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, false
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		log.Printf("raw mode: %v", err)
		return nil, false
	}
	var once sync.Once
	restore = func() {
		once.Do(func() { term.Restore(fd, old) })
	}
	atexit.Register(restore)
	return restore, true
}

var errQuit = errors.New("quit")

const ctrlBackslash = 0x1c

// A keyReader reads keys from a raw terminal on its own goroutine,
// so that Ctrl-\ is seen even while the program is not reading.
// It turns CR into LF and drops keys typed beyond its buffer.
// At Ctrl-\ it closes quit and its reads fail with errQuit.
type keyReader struct {
	c    chan byte
	quit chan struct{}
	err  error // set before c is closed
}

func newKeyReader(r io.Reader) *keyReader {
	k := &keyReader{
		c:    make(chan byte, 1000),
		quit: make(chan struct{}),
	}
	go k.loop(r)
	return k
}

func (k *keyReader) loop(r io.Reader) {
	defer close(k.c)
	buf := make([]byte, 100)
	for {
		n, err := r.Read(buf)
		for _, c := range buf[:n] {
			switch c {
			case ctrlBackslash:
				k.err = errQuit
				close(k.quit)
				return
			case '\r':
				c = '\n'
			}
			select {
			case k.c <- c:
			default:
			}
		}
		if err != nil {
			k.err = err
			return
		}
	}
}

// Read blocks for at least one key, then returns
// whatever else has already arrived.
func (k *keyReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	c, ok := <-k.c
	if !ok {
		return 0, k.err
	}
	p[0] = c
	n := 1
	for n < len(p) {
		select {
		case c, ok := <-k.c:
			if !ok {
				return n, nil
			}
			p[n] = c
			n++
		default:
			return n, nil
		}
	}
	return n, nil
}

// A crlfWriter writes to a raw terminal, turning LF into CR LF.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
