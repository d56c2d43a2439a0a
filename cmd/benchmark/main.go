package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime/pprof"
	"time"

	"github.com/chibivue-land/chibivue/hostmem"
	"github.com/chibivue-land/chibivue/reactivity"
	"github.com/chibivue-land/chibivue/runtime"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/olekukonko/tablewriter"
)

func main() {
	flag.Parse()

	f, err := os.Create("default.pgo")
	if err != nil {
		log.Fatal(err)
	}
	pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	log.Printf("warming up")

	benchmarkPropagation(true)
	benchmarkReconciler(true)
}

var (
	ww    = []int{1, 10, 100, 1_000}
	hh    = []int{1, 10, 100, 1_000}
	iters = 100
)

// benchmarkPropagation times one source write rippling through w parallel
// chains of h computeds each, every chain observed by an effect.
func benchmarkPropagation(shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Reactivity Propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rs := reactivity.NewReactiveSystem(func(from reactivity.Source, err error) {
				log.Panic(err)
			})
			src := reactivity.NewRef(rs, 1)
			for i := 0; i < w; i++ {
				last := src.Value
				for j := 0; j < h; j++ {
					prev := last
					c := reactivity.NewComputed(rs, func(oldValue int) int {
						return prev() + 1
					})
					last = c.Value
				}

				final := last
				reactivity.NewEffect(rs, func() error {
					final()
					return nil
				})
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.SetValue(src.Value() + 1)
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

type reconcilerConfig struct {
	name   string
	items  int
	swaps  int // -1 full shuffle, -2 reverse
	rounds int
}

// benchmarkReconciler re-renders a keyed list under different churn shapes
// and reports the host mutations the diff produced.
func benchmarkReconciler(shouldRender bool) {
	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{
		"test", "items", "rounds", "total time", "moves", "removes", "rounds/sec",
	})

	cfgs := []reconcilerConfig{
		{name: "swap two", items: 1_000, swaps: 1, rounds: 1_000},
		{name: "shuffle 5%", items: 1_000, swaps: 50, rounds: 500},
		{name: "full shuffle", items: 1_000, swaps: -1, rounds: 100},
		{name: "reverse", items: 1_000, swaps: -2, rounds: 100},
	}

	rng := rand.New(rand.NewSource(1))
	for _, cfg := range cfgs {
		ops := &hostmem.Ops{}
		r := runtime.NewRenderer(ops)
		container := hostmem.NewContainer()

		keys := make([]int, cfg.items)
		for i := range keys {
			keys[i] = i
		}
		render := func() {
			children := make([]*runtime.VNode, len(keys))
			for i, k := range keys {
				children[i] = runtime.CreateElementVNode(
					"li", map[string]any{"key": k}, fmt.Sprintf("item %d", k))
			}
			r.Render(runtime.CreateElementVNode("ul", nil, children), container)
		}
		render()
		ops.ResetCounters()

		start := time.Now()
		for round := 0; round < cfg.rounds; round++ {
			switch cfg.swaps {
			case -1:
				rng.Shuffle(len(keys), func(i, j int) {
					keys[i], keys[j] = keys[j], keys[i]
				})
			case -2:
				for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
					keys[i], keys[j] = keys[j], keys[i]
				}
			default:
				for s := 0; s < cfg.swaps; s++ {
					i, j := rng.Intn(len(keys)), rng.Intn(len(keys))
					keys[i], keys[j] = keys[j], keys[i]
				}
			}
			render()
		}
		elapsed := time.Since(start)

		tbl.Append([]string{
			cfg.name,
			humanize.Comma(int64(cfg.items)),
			humanize.Comma(int64(cfg.rounds)),
			elapsed.Round(time.Microsecond).String(),
			humanize.Comma(int64(ops.Moves)),
			humanize.Comma(int64(ops.Removes)),
			humanize.CommafWithDigits(float64(cfg.rounds)/elapsed.Seconds(), 1),
		})
	}

	if shouldRender {
		tbl.Render()
	}
}
