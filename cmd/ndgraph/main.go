// Package main provides the ndgraph CLI, which evaluates HCL tensor programs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"k8s.io/klog/v2"

	"github.com/born-ml/ndgraph/internal/backend/cpu"
	"github.com/born-ml/ndgraph/internal/parallel"
	"github.com/born-ml/ndgraph/internal/program"
	"github.com/born-ml/ndgraph/internal/serialization"
	"github.com/born-ml/ndgraph/internal/source"
	"github.com/born-ml/ndgraph/internal/tensor"
)

const version = "v0.1.0-dev"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) > 0 && args[0] == "version" {
		fmt.Fprintf(stdout, "ndgraph %s\n", version)
		return nil
	}

	fs := flag.NewFlagSet("ndgraph", flag.ContinueOnError)
	klog.InitFlags(fs)

	workers := 0
	out := ""
	showGraph := false
	metadata := metadataFlag{}
	fs.IntVar(&workers, "workers", workers, "goroutines used for element-wise operations (0 or 1 = sequential)")
	fs.StringVar(&out, "out", out, "write outputs to this SafeTensors file (local path or gs://bucket/object)")
	fs.BoolVar(&showGraph, "graph", showGraph, "print each output's expression graph before evaluating it")
	fs.Var(metadata, "metadata", "key=value metadata for -out (repeatable)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: ndgraph [flags] <program.hcl | gs://bucket/program.hcl>\n       ndgraph version\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one program, got %d", fs.NArg())
	}

	log := klog.FromContext(ctx)

	loc, err := source.Parse(fs.Arg(0))
	if err != nil {
		return err
	}

	backend := cpu.NewWithConfig(parallel.WithWorkers(workers))
	log.V(2).Info("using backend", "name", backend.Name(), "workers", workers)

	prog, err := program.Load(ctx, loc, backend)
	if err != nil {
		return err
	}

	for _, o := range prog.Outputs {
		graph := fmt.Sprint(o.Value)
		log.V(2).Info("output graph", "name", o.Name, "graph", graph)
		if showGraph {
			fmt.Fprintf(stdout, "%s:\n%s\n", o.Name, graph)
		}
	}

	results, err := prog.Evaluate()
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Fprintf(stdout, "%s = %v\n", r.Name, r.Tensor)
	}

	if out == "" {
		return nil
	}
	return export(ctx, out, results, metadata)
}

func export(ctx context.Context, out string, results []program.Result, metadata map[string]string) error {
	log := klog.FromContext(ctx)

	loc, err := source.Parse(out)
	if err != nil {
		return err
	}

	tensors := make(map[string]*tensor.RawTensor, len(results))
	for _, r := range results {
		tensors[r.Name] = r.Tensor.Raw()
	}

	w, err := source.Create(ctx, loc)
	if err != nil {
		return err
	}
	if err := serialization.Encode(w, tensors, metadata); err != nil {
		if aerr := w.Abort(); aerr != nil {
			log.Error(aerr, "discarding partial output", "location", loc.String())
		}
		return fmt.Errorf("writing %s: %w", loc, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", loc, err)
	}

	log.Info("wrote outputs", "location", loc.String(), "tensors", len(tensors))
	return nil
}

// metadataFlag collects repeated -metadata key=value flags.
type metadataFlag map[string]string

func (m metadataFlag) String() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + m[k]
	}
	return strings.Join(parts, ",")
}

func (m metadataFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return errors.New("expected key=value")
	}
	m[k] = v
	return nil
}
