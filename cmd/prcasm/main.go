/*
 * PRC68K - Main process.
 *
 * Copyright 2025, PRC68K Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/prc68k/asmctx"
	"github.com/rcornwell/prc68k/assembler"
	"github.com/rcornwell/prc68k/listing"
	"github.com/rcornwell/prc68k/prcfile"
	"github.com/rcornwell/prc68k/util/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	optExpand := getopt.BoolLong("expand", 'c', "Continue long DC lines in the listing instead of eliding")
	optListing := getopt.BoolLong("listing", 'l', "Produce a listing file at input.lis")
	optVerbose := getopt.BoolLong("verbose", 'd', "Verbose logging")
	optResOnly := getopt.BoolLong("resources", 'r', "Resources-only output; skip code/data")
	optMacsbug := getopt.BoolLong("macsbug", 's', "Append Macsbug-style procedure symbols")
	optDBType := getopt.StringLong("type", 't', "appl", "Four-character database type")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	args := getopt.Args()
	if *optHelp || len(args) != 1 {
		getopt.Usage()
		return 0
	}
	input := args[0]

	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	handler := logger.NewHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel}, *optVerbose)
	log := slog.New(handler)
	slog.SetDefault(log)

	opts := asmctx.DefaultOptions()
	opts.ExpandDC = *optExpand
	opts.Listing = *optListing
	opts.Verbose = *optVerbose
	opts.ResourceOnly = *optResOnly
	opts.MacsbugSyms = *optMacsbug
	if *optDBType != "" {
		opts.DBType = *optDBType
	}

	r, err := assembler.New(input, opts)
	if err != nil {
		log.Error("opening source", "file", input, "err", err)
		return 1
	}
	r.Ctx.Log = log

	log.Info("assembly started", "file", input)
	if err := r.Run(); err != nil {
		log.Error("assembly aborted", "err", err)
		return 1
	}

	errCount := r.Ctx.ErrorCount()
	log.Info("assembly finished", "errors", errCount)

	if *optVerbose {
		log.Debug(listing.DumpContext(r.Ctx))
	}

	if r.Listing != nil {
		listPath := strings.TrimSuffix(input, filepath.Ext(input)) + ".lis"
		if err := os.WriteFile(listPath, []byte(r.Listing.Render()), 0o644); err != nil {
			log.Error("writing listing", "file", listPath, "err", err)
			return 1
		}
	}

	if errCount > 0 {
		return errCount
	}

	out, err := buildPRC(r.Ctx, opts)
	if err != nil {
		log.Error("building output", "err", err)
		return 1
	}
	outPath := strings.TrimSuffix(input, filepath.Ext(input)) + ".prc"
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		log.Error("writing output", "file", outPath, "err", err)
		return 1
	}
	log.Info("wrote database", "file", outPath, "bytes", len(out))
	return 0
}

// buildPRC assembles the finished container from the context's segment
// buffers, slicing the resource segment into its RES/WBMP-declared entries
// at the boundaries recorded during pass 2.
func buildPRC(c *asmctx.Context, opts asmctx.Options) ([]byte, error) {
	b := &prcfile.Builder{
		Name:         baseName(c),
		Creator:      c.Creator,
		DBType:       opts.DBType,
		Code:         c.Segs.Bytes(asmctx.SegCode),
		Data:         c.Segs.Bytes(asmctx.SegData),
		Resources:    resourcesFrom(c),
		ResourceOnly: opts.ResourceOnly,
	}
	return b.Build(time.Now())
}

func resourcesFrom(c *asmctx.Context) []prcfile.Resource {
	buf := c.Segs.Bytes(asmctx.SegRes)
	marks := c.ResMarks
	out := make([]prcfile.Resource, 0, len(marks))
	for i, m := range marks {
		end := uint32(len(buf))
		if i+1 < len(marks) {
			end = marks[i+1].Offset
		}
		out = append(out, prcfile.Resource{Type: m.Type, ID: m.ID, Name: m.Name, Data: buf[m.Offset:end]})
	}
	return out
}

func baseName(c *asmctx.Context) string {
	if c.Creator != "" {
		return c.Creator
	}
	return "PRC68K"
}
