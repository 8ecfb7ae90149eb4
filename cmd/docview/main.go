// Command docview formats, parses and bundles enhanced docview property values.
//
// Usage:
//
//	docview format [-name n] [-type T] [-multi] [-sort] [-refs] value...
//	docview parse [-name n] value
//	docview pack -in props.json -out node.dvb [-comp zstd]
//	docview unpack -in node.dvb
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	docview "github.com/logicossoftware/go-docview"
	"github.com/logicossoftware/go-docview/internal/logger"
)

// bundleFile is the JSON form of a bundle used by pack and unpack.
type bundleFile struct {
	Path       string              `json:"path"`
	Properties []*docview.Property `json:"properties"`
}

func main() {
	global := flag.NewFlagSet("docview", flag.ExitOnError)
	logLevel := global.String("log-level", "info", "log level (debug, info, warn, error)")
	logPretty := global.Bool("log-pretty", false, "human readable logs")
	global.Usage = usage
	_ = global.Parse(os.Args[1:])

	log := logger.New(logger.Config{Level: *logLevel, Pretty: *logPretty})
	args := global.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "format":
		err = runFormat(os.Stdout, args[1:])
	case "parse":
		err = runParse(os.Stdout, args[1:])
	case "pack":
		err = runPack(log.Command("pack"), args[1:])
	case "unpack":
		err = runUnpack(log.Command("unpack"), os.Stdout, args[1:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Command(args[0]).Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: docview [-log-level L] [-log-pretty] format|parse|pack|unpack [flags] [args]")
}

func runFormat(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("format", flag.ContinueOnError)
	name := fs.String("name", "value", "property name")
	typeName := fs.String("type", "String", "property type name")
	multi := fs.Bool("multi", false, "multi-value property")
	sort := fs.Bool("sort", false, "sort multi-value properties")
	refs := fs.Bool("refs", false, "treat Binary values as reference tokens")
	if err := fs.Parse(args); err != nil {
		return err
	}
	typ, err := docview.TypeFromName(*typeName)
	if err != nil {
		return err
	}
	values := make([]docview.Value, 0, fs.NArg())
	for _, s := range fs.Args() {
		v, err := docview.ParseValue(typ, s)
		if err != nil {
			return err
		}
		values = append(values, v)
	}
	p, err := docview.FromValues(*name, values, typ, *multi, docview.WithSort(*sort), docview.WithBinaryReferences(*refs))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, p.FormatValue())
	return err
}

func runParse(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	name := fs.String("name", "value", "property name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("parse takes exactly one value argument")
	}
	p, err := docview.Parse(*name, fs.Arg(0))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func runPack(log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("pack", flag.ContinueOnError)
	inPath := fs.String("in", "", "input JSON file")
	outPath := fs.String("out", "", "output bundle file")
	compName := fs.String("comp", "zstd", "compression (none, zip, zstd, lz4, br)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return fmt.Errorf("-in and -out are required")
	}
	comp, err := docview.CompressionFromName(*compName)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(*inPath)
	if err != nil {
		return err
	}
	var bf bundleFile
	if err := json.Unmarshal(raw, &bf); err != nil {
		return fmt.Errorf("read %s: %w", *inPath, err)
	}

	start := time.Now()
	f, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	err = docview.EncodeBundle(f, &docview.Bundle{Path: bf.Path, Properties: bf.Properties}, docview.WithCompression(comp))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	log.LogBundle("encode", *outPath, len(bf.Properties), time.Since(start), err)
	return err
}

func runUnpack(log *logger.Logger, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("unpack", flag.ContinueOnError)
	inPath := fs.String("in", "", "input bundle file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return fmt.Errorf("-in is required")
	}
	f, err := os.Open(*inPath)
	if err != nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	b, err := docview.DecodeBundle(f)
	if err != nil {
		log.LogBundle("decode", *inPath, 0, time.Since(start), err)
		return err
	}
	log.LogBundle("decode", *inPath, len(b.Properties), time.Since(start), nil)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(bundleFile{Path: b.Path, Properties: b.Properties})
}
