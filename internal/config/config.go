package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	ini "gopkg.in/ini.v1"

	"cflpGA/internal/cflp"
	"cflpGA/internal/ga"
	"cflpGA/internal/sa"
)

type File struct {
	General General `toml:"general" ini:"general"`
	GA      GA      `toml:"ga" ini:"ga"`
	SA      SA      `toml:"sa" ini:"sa"`
	Output  Output  `toml:"output" ini:"output"`
}

type General struct {
	// Dataset is a single cap*.txt file; DatasetDir is used when it is empty.
	Dataset    string `toml:"dataset" ini:"dataset"`
	DatasetDir string `toml:"dataset_dir" ini:"dataset_dir"`
	Mode       string `toml:"mode" ini:"mode"`
	Seed       int64  `toml:"seed" ini:"seed"`
	LogLevel   string `toml:"log_level" ini:"log_level"`
}

type GA struct {
	Generations    int     `toml:"generations" ini:"generations"`
	Population     int     `toml:"population" ini:"population"`
	TournamentSize int     `toml:"tournament_size" ini:"tournament_size"`
	CrossoverRate  float64 `toml:"crossover_rate" ini:"crossover_rate"`
	// MutationRate < 0 means 1/n_facilities.
	MutationRate float64 `toml:"mutation_rate" ini:"mutation_rate"`
}

type SA struct {
	Iterations  int     `toml:"iterations" ini:"iterations"`
	InitialTemp float64 `toml:"initial_temp" ini:"initial_temp"`
	FinalTemp   float64 `toml:"final_temp" ini:"final_temp"`
	Alpha       float64 `toml:"alpha" ini:"alpha"`
}

type Output struct {
	ResultsDir string `toml:"results_dir" ini:"results_dir"`
	DataDir    string `toml:"data_dir" ini:"data_dir"`
	Database   string `toml:"database" ini:"database"`
	PlotFormat string `toml:"plot_format" ini:"plot_format"`
}

func Default() File {
	gaCfg := ga.DefaultConfig()
	saCfg := sa.DefaultConfig()
	return File{
		General: General{
			DatasetDir: "datasets",
			Mode:       string(cflp.ModeSingleSource),
			Seed:       1,
			LogLevel:   "info",
		},
		GA: GA{
			Generations:    gaCfg.Generations,
			Population:     gaCfg.Population,
			TournamentSize: gaCfg.TournamentSize,
			CrossoverRate:  gaCfg.CrossoverRate,
			MutationRate:   gaCfg.MutationRate,
		},
		SA: SA{
			Iterations:  saCfg.Iterations,
			InitialTemp: saCfg.InitialTemp,
			FinalTemp:   saCfg.FinalTemp,
			Alpha:       saCfg.Alpha,
		},
		Output: Output{
			ResultsDir: "results",
			PlotFormat: "png",
		},
	}
}

// Load reads a .toml or .ini file on top of Default().
func Load(path string) (File, error) {
	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		f, err := os.Open(path)
		if err != nil {
			return File{}, err
		}
		defer f.Close()
		if _, err := toml.NewDecoder(f).Decode(&cfg); err != nil {
			return File{}, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	case ".ini":
		if err := ini.MapTo(&cfg, path); err != nil {
			return File{}, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	default:
		return File{}, fmt.Errorf("unsupported config format %q (want .toml or .ini)", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (f File) Validate() error {
	if _, err := cflp.ParseMode(f.General.Mode); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(f.General.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	switch f.Output.PlotFormat {
	case "png", "jpg", "jpeg":
	default:
		return fmt.Errorf("unsupported plot format %q", f.Output.PlotFormat)
	}
	if err := f.GAConfig().Validate(); err != nil {
		return fmt.Errorf("ga: %w", err)
	}
	if err := f.SAConfig().Validate(); err != nil {
		return fmt.Errorf("sa: %w", err)
	}
	return nil
}

func (f File) GAConfig() ga.Config {
	rate := f.GA.MutationRate
	if rate < 0 {
		rate = ga.AutoMutationRate
	}
	return ga.Config{
		Generations:    f.GA.Generations,
		Population:     f.GA.Population,
		TournamentSize: f.GA.TournamentSize,
		CrossoverRate:  f.GA.CrossoverRate,
		MutationRate:   rate,
	}
}

func (f File) SAConfig() sa.Config {
	return sa.Config{
		Iterations:  f.SA.Iterations,
		InitialTemp: f.SA.InitialTemp,
		FinalTemp:   f.SA.FinalTemp,
		Alpha:       f.SA.Alpha,
	}
}

func (f File) Mode() cflp.Mode {
	return cflp.Mode(f.General.Mode)
}

// Level returns the configured log level, falling back to info.
func (f File) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(f.General.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
