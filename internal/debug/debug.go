// Package debug provides an opt-in debug log. Messages are only written
// when the environment variable DEBUG_LOG names a file; otherwise all calls
// are cheap no-ops. The format includes the source position and function so
// storage and index interactions can be traced after the fact.
package debug

import (
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"runtime"
)

var opts struct {
	isEnabled bool
	logger    *log.Logger
}

// make sure that all the initialization happens before the init() functions
// are called, cf https://golang.org/ref/spec#Package_initialization
var _ = initDebug()

func initDebug() bool {
	debugfile := os.Getenv("DEBUG_LOG")
	if debugfile == "" {
		return false
	}

	fmt.Fprintf(os.Stderr, "debug log file %v\n", debugfile)

	f, err := os.OpenFile(debugfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to open debug log file: %v\n", err)
		os.Exit(2)
	}

	opts.logger = log.New(f, "", log.LstdFlags)
	opts.isEnabled = true

	return true
}

// Enabled returns true when a debug log file is configured.
func Enabled() bool {
	return opts.isEnabled
}

func getPosition() (fn, pos string) {
	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		return "", ""
	}

	dirname := filepath.Base(filepath.Dir(file))
	goFunc := runtime.FuncForPC(pc)

	return path.Base(goFunc.Name()), fmt.Sprintf("%s/%s:%d", dirname, filepath.Base(file), line)
}

// Log prints a message to the debug log (if debug is enabled).
func Log(f string, args ...interface{}) {
	if !opts.isEnabled {
		return
	}

	fn, pos := getPosition()

	if len(f) == 0 || f[len(f)-1] != '\n' {
		f += "\n"
	}

	opts.logger.Printf(fmt.Sprintf("%s\t%s\t%s", pos, fn, f), args...)
}

// DumpStacktrace returns the stacks of all running goroutines.
func DumpStacktrace() string {
	buf := make([]byte, 128*1024)

	for {
		l := runtime.Stack(buf, true)
		if l < len(buf) {
			return string(buf[:l])
		}
		buf = make([]byte, len(buf)*2)
	}
}
