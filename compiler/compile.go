package compiler

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// CompilerOptions tunes one compile. The zero value compiles with condensed
// whitespace, {{ }} delimiters and a package main / Render output.
type CompilerOptions struct {
	Whitespace WhitespaceStrategy
	Delimiters [2]string
	// PackageName and FuncName shape the emitted Go source.
	PackageName string
	FuncName    string
	// FilenameHint labels diagnostics, not output.
	FilenameHint string
	// OnError receives each syntax error as it is found. Errors are also
	// collected on the result.
	OnError func(*SyntaxError)
}

// CompileResult is shared between callers on cache hits; treat it as
// read-only.
type CompileResult struct {
	Code   string
	AST    *RootNode
	Errors []*SyntaxError
}

type resultCache struct {
	mu      sync.Mutex
	entries map[uint64]*CompileResult
}

var cache = resultCache{entries: map[uint64]*CompileResult{}}

func cacheKey(source string, opts *CompilerOptions) uint64 {
	d := xxhash.New()
	for _, s := range []string{
		source, opts.Delimiters[0], opts.Delimiters[1],
		string(opts.Whitespace), opts.PackageName, opts.FuncName,
	} {
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// Parse builds the raw template AST without transforming it or generating
// code. Syntax errors are collected and returned alongside the tree.
func Parse(source string, opts *CompilerOptions) (*RootNode, []*SyntaxError) {
	if opts == nil {
		opts = &CompilerOptions{}
	}
	var errs []*SyntaxError
	p := newParser(source, opts.Whitespace, func(e *SyntaxError) {
		errs = append(errs, e)
		if opts.OnError != nil {
			opts.OnError(e)
		}
	})
	return p.parse(opts.Delimiters), errs
}

// Compile turns a template into Go render-function source. The result always
// carries whatever could be compiled; if syntax errors were found the first
// one is returned as the error value.
func Compile(source string, opts *CompilerOptions) (*CompileResult, error) {
	if opts == nil {
		opts = &CompilerOptions{}
	}

	key := cacheKey(source, opts)
	cache.mu.Lock()
	cached, ok := cache.entries[key]
	cache.mu.Unlock()
	if ok {
		return deliver(cached, opts)
	}

	result := &CompileResult{}
	collect := func(e *SyntaxError) {
		result.Errors = append(result.Errors, e)
	}

	p := newParser(source, opts.Whitespace, collect)
	root := p.parse(opts.Delimiters)

	ctx := newTransformContext(root, collect)
	transformAST(root, ctx)

	result.AST = root
	result.Code = generate(root, ctx, opts.PackageName, opts.FuncName)

	cache.mu.Lock()
	cache.entries[key] = result
	cache.mu.Unlock()

	return deliver(result, opts)
}

func deliver(result *CompileResult, opts *CompilerOptions) (*CompileResult, error) {
	if opts.OnError != nil {
		for _, e := range result.Errors {
			opts.OnError(e)
		}
	}
	if len(result.Errors) > 0 {
		return result, result.Errors[0]
	}
	return result, nil
}
