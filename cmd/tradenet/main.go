package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/terralab/tradenet/pkg/basket"
	"github.com/terralab/tradenet/pkg/centrality"
	"github.com/terralab/tradenet/pkg/ces"
	"github.com/terralab/tradenet/pkg/config"
	"github.com/terralab/tradenet/pkg/dataset"
	"github.com/terralab/tradenet/pkg/graph"
	"github.com/terralab/tradenet/pkg/logging"
	"github.com/terralab/tradenet/pkg/metrics"
	"github.com/terralab/tradenet/pkg/network"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func main() {
	var (
		inputPath  = flag.String("input", "", "CSV trade file to load (required)")
		configPath = flag.String("config", "", "optional YAML config file")
		withFlow   = flag.Bool("flow", false, "file carries a flow column needing harmonization")
		withQty    = flag.Bool("quantity", false, "file carries a quantity column")
		period     = flag.String("period", "", "period to analyze; empty runs centrality for every period")
		product    = flag.String("product", "", "product to restrict to; empty aggregates across products")
		shockFrom  = flag.String("shock-from", "", "supplier country to remove in the CES simulation")
		shockTo    = flag.String("shock-to", "", "importing country hit by the CES simulation")
		sigma      = flag.Float64("sigma", 0, "elasticity of substitution; 0 uses the configured value")
		basketOf   = flag.String("basket", "", "country whose trade basket to extract")
		basketDir  = flag.String("basket-direction", "E", "basket direction: E exports, I imports")
		basketVar  = flag.Bool("basket-var", false, "report basket period-over-period variation")
	)
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: tradenet -input trade.csv [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("invalid configuration", err)
	}
	logging.DefaultLogger().SetLevel(logging.ParseLevel(cfg.LogLevel))
	reg := metrics.NewRegistry()

	ds := loadDataset(*inputPath, cfg, reg, *withFlow, *withQty)
	edges := buildNetwork(ds, cfg, reg, *withFlow)
	index := graph.NewIndex(edges)

	runCentrality(index, reg, *period, *product)

	if *shockFrom != "" || *shockTo != "" {
		if *shockFrom == "" || *shockTo == "" || *period == "" {
			fatal("simulation needs -shock-from, -shock-to and -period", nil)
		}
		effectiveSigma := *sigma
		if effectiveSigma == 0 {
			effectiveSigma = cfg.Sigma
		}
		runSimulation(index, reg, *shockFrom, *shockTo, *period, *product, effectiveSigma)
	}

	if *basketOf != "" {
		runBasket(ds, *basketOf, basket.Options{
			Product:   *product,
			Direction: basket.Direction(*basketDir),
			Variation: *basketVar,
		})
	}
}

func loadDataset(path string, cfg config.Config, reg *metrics.Registry, withFlow, withQty bool) *dataset.Dataset {
	start := time.Now()
	ds, err := dataset.Load(path, dataset.LoadOptions{
		Separator:    rune(cfg.Loader.Separator[0]),
		Encoding:     cfg.Loader.Encoding,
		WithFlow:     withFlow,
		WithQuantity: withQty,
	})
	if err != nil {
		fatal("load failed", err)
	}
	reg.RecordLoad(len(ds.Records), time.Since(start))
	return ds
}

func buildNetwork(ds *dataset.Dataset, cfg config.Config, reg *metrics.Registry, withFlow bool) []graph.Edge {
	mode, err := network.ParseMode(cfg.Network.Mode)
	if err != nil {
		fatal("bad network mode", err)
	}
	builder, err := network.NewBuilder(withFlow, mode, [2]string{cfg.Network.ImportLabel, cfg.Network.ExportLabel})
	if err != nil {
		fatal("bad builder options", err)
	}

	start := time.Now()
	edges, err := builder.Build(ds.Records)
	if err != nil {
		reg.RecordBuild(mode.String(), "error", time.Since(start))
		fatal("network build failed", err)
	}
	reg.RecordBuild(mode.String(), "ok", time.Since(start))
	return edges
}

func runCentrality(index *graph.Index, reg *metrics.Registry, period, product string) {
	engine := centrality.NewEngine()
	start := time.Now()

	var rows []centrality.Row
	var err error
	switch {
	case period == "":
		rows, err = engine.ComputeAll(index)
	case product == "":
		var s *graph.Slice
		if s, err = index.Aggregate(period); err == nil {
			reg.SetGraphSize(s.NodeCount(), s.EdgeCount())
			rows, err = engine.Compute(s)
		}
	default:
		var s *graph.Slice
		if s, err = index.Slice(period, product); err == nil {
			reg.SetGraphSize(s.NodeCount(), s.EdgeCount())
			rows, err = engine.Compute(s)
		}
	}
	if err != nil {
		reg.RecordCentrality("error", time.Since(start))
		fatal("centrality failed", err)
	}
	reg.RecordCentrality("ok", time.Since(start))

	fmt.Println(titleStyle.Render("Centrality"))
	t := newTable("Period", "Node", "Degree", "Out", "In", "Closeness", "Betweenness", "Vulnerability", "Distinctiveness")
	for _, r := range rows {
		t.Row(r.Period, r.Node,
			num(r.Degree), num(r.OutDegree), num(r.InDegree),
			num(r.Closeness), num(r.Betweenness),
			num(r.Vulnerability), num(r.Distinctiveness))
	}
	fmt.Println(t)
}

func runSimulation(index *graph.Index, reg *metrics.Registry, from, to, period, product string, sigma float64) {
	sim, err := ces.NewSimulator(sigma)
	if err != nil {
		fatal("bad simulator options", err)
	}

	var s *graph.Slice
	if product == "" {
		s, err = index.Aggregate(period)
	} else {
		s, err = index.Slice(period, product)
	}
	if err != nil {
		fatal("no slice for simulation", err)
	}

	start := time.Now()
	result, err := sim.Simulate(s, from, to)
	if err != nil {
		reg.RecordSimulation("error", time.Since(start))
		fatal("simulation failed", err)
	}
	reg.RecordSimulation("ok", time.Since(start))

	fmt.Println(titleStyle.Render(fmt.Sprintf(
		"CES shock: remove %s from suppliers of %s (period %s, sigma %.1f)",
		from, to, period, result.Sigma)))
	t := newTable("Supplier", "Price", "Alpha", "Share", "Share'", "Qty", "Qty'", "Delta Qty")
	for _, sp := range result.Suppliers {
		t.Row(sp.Country, num(sp.Price), num(sp.Alpha),
			num(sp.BaselineShare), num(sp.ShockedShare),
			num(sp.BaselineQuantity), num(sp.ShockedQuantity),
			num(sp.DeltaQuantity))
	}
	fmt.Println(t)
	fmt.Printf("expenditure %s  price index %s -> %s\n",
		num(result.TotalExpenditure), num(result.PriceIndexBase), num(result.PriceIndexPost))
}

func runBasket(ds *dataset.Dataset, country string, opts basket.Options) {
	series, err := basket.Series(ds, country, opts)
	if err != nil {
		fatal("basket extraction failed", err)
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Trade basket: %s (%s)", country, opts.Direction)))
	t := newTable("Period", "Weight")
	for _, p := range series {
		t.Row(p.Period, num(p.Weight))
	}
	fmt.Println(t)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers(headers...)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func fatal(msg string, err error) {
	logging.ErrorLog(msg, logging.Error(err))
	os.Exit(1)
}
