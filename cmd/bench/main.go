package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cflpGA/internal/bench"
	"cflpGA/internal/cflp"
	"cflpGA/internal/ga"
	"cflpGA/internal/opt"
	"cflpGA/internal/sa"
	"cflpGA/internal/ts"
)

// Фабрики

func newGAFactory(cfg ga.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		engine, _ := ga.New(cfg, rand.New(rand.NewSource(seed)))
		return engine
	}
}

func newSAFactory(cfg sa.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := sa.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newTSFactory(cfg ts.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := ts.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// CLI флаги для настройки параметров алгоритмов и политики запуска
	var (
		out      = flag.String("out", "artifacts/results.csv", "путь к выходному CSV-файлу")
		datasets = flag.String("datasets", "", "файлы экземпляров OR-Library (через запятую)")
		algos    = flag.String("algos", "GA,SA,TS", "список алгоритмов: GA, SA, TS (через запятую)")
		runs     = flag.Int("runs", 30, "количество запусков каждого алгоритма (с разными сидами)")
		baseSeed = flag.Int64("seed", 1000, "базовый сид для запусков алгоритмов")
		perRunTO = flag.Duration("per_run_timeout", 0, "таймаут одного запуска; 0 — без ограничения")
		relaxed  = flag.Bool("relaxed", false, "разрешить делить спрос клиента между складами")
		verbose  = flag.Bool("v", false, "подробный лог по поколениям")

		// --- Генетический алгоритм ---
		gaPop  = flag.Int("ga_pop", 24, "размер популяции (чётный, >= 4)")
		gaGen  = flag.Int("ga_gen", 5, "количество поколений")
		gaTour = flag.Int("ga_tour", 3, "размер турнирной выборки")
		gaCx   = flag.Float64("ga_cx", 0.90, "вероятность применения кроссовера")
		gaMut  = flag.Float64("ga_mut", -1, "вероятность мутации бита; < 0 — 1/число складов")

		// --- Алгоритм имитации отжига ---
		saIter  = flag.Int("sa_iter", 200, "количество итераций")
		saT0    = flag.Float64("sa_t0", 2000.0, "начальная температура")
		saTmin  = flag.Float64("sa_tmin", 0.5, "конечная температура")
		saAlpha = flag.Float64("sa_alpha", 0.98, "коэффициент охлаждения (alpha)")

		// --- Табу-поиск ---
		tsIter       = flag.Int("ts_iter", 100, "количество итераций")
		tsTenure     = flag.Int("ts_tenure", 5, "срок запрета повторной инверсии бита (в итерациях)")
		tsTenureRand = flag.Int("ts_tenure_rand", 2, "случайное добавление к сроку табу [0..rand]")
		tsNeighbors  = flag.Int("ts_neighbors", 10, "количество рассматриваемых соседей на итерацию")
	)
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx := context.Background()

	mode := cflp.ModeSingleSource
	if *relaxed {
		mode = cflp.ModeSplit
	}

	cases, err := loadCases(*datasets)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт:", err)
		os.Exit(2)
	}

	mutation := *gaMut
	if mutation < 0 {
		mutation = ga.AutoMutationRate
	}
	gaCfg := ga.Config{
		Population:     *gaPop,
		Generations:    *gaGen,
		TournamentSize: *gaTour,
		CrossoverRate:  *gaCx,
		MutationRate:   mutation,
	}
	if err := gaCfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт в конфигурации генетического алгоритма:", err)
		os.Exit(2)
	}

	saCfg := sa.Config{
		Iterations:  *saIter,
		InitialTemp: *saT0,
		FinalTemp:   *saTmin,
		Alpha:       *saAlpha,
	}
	if err := saCfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт в конфигурации алгоритма имитации отжига:", err)
		os.Exit(2)
	}

	tsCfg := ts.Config{
		Iterations:       *tsIter,
		TabuTenure:       *tsTenure,
		TabuTenureRand:   *tsTenureRand,
		NeighborsPerIter: *tsNeighbors,
	}
	if err := tsCfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт в конфигурации табу-поиска:", err)
		os.Exit(2)
	}

	available := map[string]bench.Algorithm{
		"GA": {Name: "GA", Factory: newGAFactory(gaCfg)},
		"SA": {Name: "SA", Factory: newSAFactory(saCfg)},
		"TS": {Name: "TS", Factory: newTSFactory(tsCfg)},
	}

	var selected []bench.Algorithm
	for _, a := range splitCSV(*algos) {
		al, ok := available[strings.ToUpper(a)]
		if !ok {
			fmt.Fprintf(os.Stderr, "Алгоритм не предоставлен в программе %q; доступные: %v\n", a, keys(available))
			os.Exit(2)
		}
		selected = append(selected, al)
	}

	runner := bench.Runner{
		Runs:          *runs,
		BaseSeed:      *baseSeed,
		PerRunTimeout: *perRunTO,
		Mode:          mode,
	}

	var records []bench.Record
	for _, c := range cases {
		for _, a := range selected {
			log.Info().
				Str("algo", a.Name).
				Str("dataset", c.Name).
				Int("facilities", c.Instance.Facilities).
				Int("clients", c.Instance.Clients).
				Int("runs", runner.Runs).
				Msg("benchmark started")

			rec, err := runner.RunCase(ctx, c, a)
			if err != nil {
				log.Error().Err(err).Str("algo", a.Name).Str("dataset", c.Name).Msg("benchmark failed")
				os.Exit(1)
			}
			records = append(records, rec)

			fmt.Printf("%s %s: допустимых=%d/%d | стоимость: лучшая=%.2f средняя=%.2f отклонение=%.2f | время: среднее=%.2fms отклонение=%.2fms\n",
				a.Name, c.Name, rec.Feasible, rec.Runs,
				rec.CostBest, rec.CostMean, rec.CostStd,
				rec.TimeMeanMs, rec.TimeStdMs,
			)
		}
	}

	if err := bench.WriteCSV(*out, records); err != nil {
		log.Error().Err(err).Str("path", *out).Msg("failed to write csv")
		os.Exit(1)
	}
	fmt.Println("Saved:", *out)
}

// helpers

func loadCases(s string) ([]bench.Case, error) {
	paths := splitCSV(s)
	if len(paths) == 0 {
		return nil, fmt.Errorf("не задан ни один файл экземпляра (-datasets)")
	}
	cases := make([]bench.Case, 0, len(paths))
	for _, p := range paths {
		inst, err := cflp.LoadFile(p)
		if err != nil {
			return nil, err
		}
		cases = append(cases, bench.Case{Name: inst.Name, Instance: inst})
	}
	return cases, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func keys(m map[string]bench.Algorithm) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
