package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cflpGA/internal/cflp"
	"cflpGA/internal/config"
	"cflpGA/internal/ga"
	"cflpGA/internal/report"
	"cflpGA/internal/solver"
	"cflpGA/internal/store"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var (
		cfgPath = flag.String("config", "", "файл конфигурации (.toml или .ini)")
		dataset = flag.String("d", "", "файл экземпляра OR-Library")
		dir     = flag.String("dir", "", "каталог с экземплярами; решаются все файлы по порядку имён")
		iters   = flag.Int("i", 5, "количество поколений генетического алгоритма")
		relaxed = flag.Bool("r", false, "разрешить делить спрос клиента между складами")
		seed    = flag.Int64("seed", 1, "сид генератора случайных чисел")
		results = flag.String("results", "results", "каталог для графиков сходимости; пусто — не строить")
		dataDir = flag.String("data", "", "каталог для экспорта AMPL .dat; пусто — не экспортировать")
		dbPath  = flag.String("db", "", "файл SQLite для истории запусков; пусто — не сохранять")
		level   = flag.String("log", "info", "уровень логирования: debug | info | warn | error")
	)
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Ошибка в конфигурации:", err)
			os.Exit(2)
		}
		cfg = loaded
	}

	// явно заданные флаги важнее файла
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "d":
			cfg.General.Dataset = *dataset
		case "dir":
			cfg.General.Dataset = ""
			cfg.General.DatasetDir = *dir
		case "i":
			cfg.GA.Generations = *iters
		case "r":
			if *relaxed {
				cfg.General.Mode = string(cflp.ModeSplit)
			} else {
				cfg.General.Mode = string(cflp.ModeSingleSource)
			}
		case "seed":
			cfg.General.Seed = *seed
		case "results":
			cfg.Output.ResultsDir = *results
		case "data":
			cfg.Output.DataDir = *dataDir
		case "db":
			cfg.Output.Database = *dbPath
		case "log":
			cfg.General.LogLevel = *level
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка в конфигурации:", err)
		os.Exit(2)
	}
	zerolog.SetGlobalLevel(cfg.Level())

	paths, err := datasetPaths(cfg.General)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, paths); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.File, paths []string) error {
	var st *store.Store
	if cfg.Output.Database != "" {
		var err error
		st, err = store.Open(cfg.Output.Database)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	for _, path := range paths {
		inst, err := cflp.LoadFile(path)
		if err != nil {
			return err
		}

		// у каждого экземпляра свой генератор: результат не зависит от порядка файлов
		engine, err := ga.New(cfg.GAConfig(), rand.New(rand.NewSource(cfg.General.Seed)))
		if err != nil {
			return err
		}

		s := &solver.Solver{
			Engine:     engine,
			Algorithm:  "GA",
			Mode:       cfg.Mode(),
			Seed:       cfg.General.Seed,
			PlotDir:    cfg.Output.ResultsDir,
			PlotFormat: cfg.Output.PlotFormat,
			DataDir:    cfg.Output.DataDir,
			Store:      st,
		}
		res, err := s.Solve(ctx, inst)
		if err != nil {
			return err
		}
		if err := report.WriteSummary(os.Stdout, inst.Name, res); err != nil {
			return err
		}
	}
	return nil
}

func datasetPaths(g config.General) ([]string, error) {
	if g.Dataset != "" {
		return []string{g.Dataset}, nil
	}
	if g.DatasetDir == "" {
		return nil, errors.New("не задан ни экземпляр (-d), ни каталог (-dir)")
	}

	entries, err := os.ReadDir(g.DatasetDir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			paths = append(paths, filepath.Join(g.DatasetDir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("в каталоге %s нет файлов", g.DatasetDir)
	}
	sort.Strings(paths)
	return paths, nil
}
