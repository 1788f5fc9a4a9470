package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"golang.org/x/term"

	"github.com/fitsthaw/fitsthaw/internal/archive"
	"github.com/fitsthaw/fitsthaw/internal/archive/dryrun"
	"github.com/fitsthaw/fitsthaw/internal/archive/s3"
	"github.com/fitsthaw/fitsthaw/internal/debug"
	"github.com/fitsthaw/fitsthaw/internal/errors"
	"github.com/fitsthaw/fitsthaw/internal/index"
	"github.com/fitsthaw/fitsthaw/internal/options"
	"github.com/fitsthaw/fitsthaw/internal/transport"
)

var version = "0.4.0-dev (compiled manually)"

// TimeFormat is the format used for all timestamps printed by fitsthaw.
const TimeFormat = "2006-01-02 15:04:05"

type storeWrapper func(s archive.Store) (archive.Store, error)
type searcherWrapper func(s index.Searcher) (index.Searcher, error)

// GlobalOptions hold all global options for fitsthaw.
type GlobalOptions struct {
	Bucket    string
	Region    string
	KeyID     string
	Secret    string
	IndexHost string
	IndexName string
	Quiet     bool
	Verbose   int

	RootCertFilenames []string
	InsecureTLS       bool

	indexUser     string
	indexPassword string

	stdout io.Writer
	stderr io.Writer

	storeTestHook    storeWrapper
	searcherTestHook searcherWrapper

	// verbosity is set as follows:
	//  0 means: don't print any messages except errors, this is used when --quiet is specified
	//  1 is the default: print essential messages
	//  2 means: print more messages, report minor things, this is used when --verbose is specified
	//  3 means: print very detailed debug messages, this is used when --verbose=2 is specified
	verbosity uint

	Options []string

	extended options.Options
}

var globalOptions = GlobalOptions{
	stdout: os.Stdout,
	stderr: os.Stderr,
}

func init() {
	f := cmdRoot.PersistentFlags()
	f.StringVarP(&globalOptions.Bucket, "bucket", "b", "", "archive `bucket` holding the frames (default: $FITSTHAW_BUCKET)")
	f.StringVar(&globalOptions.Region, "region", "", "AWS `region` of the archive bucket")
	f.StringVar(&globalOptions.KeyID, "aws-access-key-id", "", "S3 access key `ID` (default: the usual credential chain)")
	f.StringVar(&globalOptions.Secret, "aws-secret-access-key", "", "S3 secret access `key` (default: the usual credential chain)")
	f.StringVar(&globalOptions.IndexHost, "index-host", "", "`URL` of the metadata index (default: $FITSTHAW_INDEX_HOST)")
	f.StringVar(&globalOptions.IndexName, "index-name", "fitsheaders", "`name` of the index holding the frame headers (default: $FITSTHAW_INDEX_NAME)")
	f.BoolVarP(&globalOptions.Quiet, "quiet", "q", false, "do not output comprehensive progress report")
	f.CountVarP(&globalOptions.Verbose, "verbose", "v", "be verbose (specify multiple times or a level using --verbose=n``, max level/times is 2)")
	f.StringSliceVar(&globalOptions.RootCertFilenames, "cacert", nil, "`file` to load root certificates from (default: use system certificates)")
	f.BoolVar(&globalOptions.InsecureTLS, "insecure-tls", false, "skip TLS certificate verification when connecting to the archive or the index (insecure)")
	f.StringSliceVarP(&globalOptions.Options, "option", "o", []string{}, "set extended option (`key=value`, can be specified multiple times)")

	if bucket := os.Getenv("FITSTHAW_BUCKET"); bucket != "" {
		globalOptions.Bucket = bucket
	}
	if host := os.Getenv("FITSTHAW_INDEX_HOST"); host != "" {
		globalOptions.IndexHost = host
	}
	if name := os.Getenv("FITSTHAW_INDEX_NAME"); name != "" {
		globalOptions.IndexName = name
	}
	globalOptions.indexUser = os.Getenv("FITSTHAW_INDEX_USER")
	globalOptions.indexPassword = os.Getenv("FITSTHAW_INDEX_PASSWORD")
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func stdoutTerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}

// clearLine creates a platform dependent string to clear the current
// line, so it can be overwritten.
//
// w should be the terminal width, or 0 to let clearLine figure it out.
func clearLine(w int) string {
	if runtime.GOOS != "windows" {
		return "\x1b[2K"
	}

	// ANSI sequences are not supported on Windows cmd shell.
	if w <= 0 {
		if w = stdoutTerminalWidth(); w <= 0 {
			return ""
		}
	}
	return strings.Repeat(" ", w-1) + "\r"
}

// Printf writes the message to the configured stdout stream.
func Printf(format string, args ...interface{}) {
	_, err := fmt.Fprintf(globalOptions.stdout, format, args...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to write to stdout: %v\n", err)
		Exit(100)
	}
}

// Verbosef calls Printf to write the message when the verbose flag is set.
func Verbosef(format string, args ...interface{}) {
	if globalOptions.verbosity >= 1 {
		Printf(format, args...)
	}
}

// Verboseff calls Printf to write the message when the verbosity is >= 2.
func Verboseff(format string, args ...interface{}) {
	if globalOptions.verbosity >= 2 {
		Printf(format, args...)
	}
}

// Warnf writes the message to the configured stderr stream.
func Warnf(format string, args ...interface{}) {
	_, err := fmt.Fprintf(globalOptions.stderr, format, args...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to write to stderr: %v\n", err)
		Exit(100)
	}
}

// Exitf uses Warnf to write the message and then calls Exit(exitcode).
func Exitf(exitcode int, format string, args ...interface{}) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}

	Warnf(format, args...)
	Exit(exitcode)
}

// openStore connects to the archive bucket. With dryRun set, the returned
// Store fakes all mutating operations, reads still hit the real bucket.
func openStore(gopts GlobalOptions, dryRun bool) (archive.Store, error) {
	if gopts.Bucket == "" {
		return nil, errors.Fatal("Please specify the archive bucket (-b or $FITSTHAW_BUCKET)")
	}

	cfg := s3.NewConfig()
	cfg.Bucket = gopts.Bucket
	cfg.Region = gopts.Region
	cfg.KeyID = gopts.KeyID
	cfg.Secret = options.NewSecretString(gopts.Secret)

	opts := gopts.extended.Extract("s3")
	if err := opts.Apply("s3", &cfg); err != nil {
		return nil, err
	}

	rt, err := transport.New(transport.Options{
		RootCertFilenames: gopts.RootCertFilenames,
		InsecureTLS:       gopts.InsecureTLS,
	})
	if err != nil {
		return nil, err
	}

	debug.Log("opening archive bucket %v", cfg.Bucket)
	var store archive.Store
	store, err = s3.Open(cfg, rt)
	if err != nil {
		return nil, err
	}

	// wrap store if a test specified a hook
	if gopts.storeTestHook != nil {
		store, err = gopts.storeTestHook(store)
		if err != nil {
			return nil, err
		}
	}

	if dryRun {
		store = dryrun.New(store)
	}

	return store, nil
}

// openSearcher connects to the metadata index.
func openSearcher(gopts GlobalOptions) (index.Searcher, error) {
	if gopts.IndexHost == "" {
		return nil, errors.Fatal("Please specify the metadata index (--index-host or $FITSTHAW_INDEX_HOST)")
	}

	cfg := index.NewConfig()
	cfg.Address = gopts.IndexHost
	cfg.Name = gopts.IndexName
	cfg.Username = gopts.indexUser
	cfg.Password = options.NewSecretString(gopts.indexPassword)

	opts := gopts.extended.Extract("index")
	if err := opts.Apply("index", &cfg); err != nil {
		return nil, err
	}

	rt, err := transport.New(transport.Options{
		RootCertFilenames: gopts.RootCertFilenames,
		InsecureTLS:       gopts.InsecureTLS,
	})
	if err != nil {
		return nil, err
	}

	debug.Log("opening index %v at %v", cfg.Name, cfg.Address)
	var searcher index.Searcher
	searcher, err = index.Open(cfg, rt)
	if err != nil {
		return nil, err
	}

	// wrap searcher if a test specified a hook
	if gopts.searcherTestHook != nil {
		searcher, err = gopts.searcherTestHook(searcher)
		if err != nil {
			return nil, err
		}
	}

	return searcher, nil
}
