package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/chibivue-land/chibivue/compiler"
	"github.com/urfave/cli/v3"
)

const (
	inKey         = "in"
	outKey        = "out"
	pkgKey        = "pkg"
	funcKey       = "func"
	whitespaceKey = "whitespace"
)

func main() {
	cmd := &cli.Command{
		Name:  "chibigen",
		Usage: "Compile templates into Go render functions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     inKey,
				Usage:    "Template file to compile",
				Required: true,
			},
			&cli.StringFlag{
				Name:  outKey,
				Usage: "Output file; stdout when empty",
			},
			&cli.StringFlag{
				Name:  pkgKey,
				Usage: "Package name of the generated file",
				Value: "main",
			},
			&cli.StringFlag{
				Name:  funcKey,
				Usage: "Render function name",
				Value: "Render",
			},
			&cli.StringFlag{
				Name:  whitespaceKey,
				Usage: "Whitespace handling: condense or preserve",
				Value: string(compiler.WhitespaceCondense),
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	in := cmd.String(inKey)
	log.Printf("Compiling %s", in)
	defer func() {
		log.Printf("Compiled %s in %v", in, time.Since(start))
	}()

	source, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	ws := compiler.WhitespaceStrategy(cmd.String(whitespaceKey))
	if ws != compiler.WhitespaceCondense && ws != compiler.WhitespacePreserve {
		return fmt.Errorf("unknown whitespace strategy %q", ws)
	}

	result, err := compiler.Compile(string(source), &compiler.CompilerOptions{
		Whitespace:   ws,
		PackageName:  cmd.String(pkgKey),
		FuncName:     cmd.String(funcKey),
		FilenameHint: in,
		OnError: func(e *compiler.SyntaxError) {
			log.Printf("%s: %v", in, e)
		},
	})
	if err != nil {
		return fmt.Errorf("%s: %d syntax error(s): %w", in, len(result.Errors), err)
	}

	out := cmd.String(outKey)
	if out == "" {
		_, err = os.Stdout.WriteString(result.Code)
		return err
	}
	return os.WriteFile(out, []byte(result.Code), 0o644)
}
