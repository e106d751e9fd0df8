package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cflpGA/internal/cflp"
	"cflpGA/internal/ga"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ga.AutoMutationRate, cfg.GAConfig().MutationRate)
	assert.Equal(t, 24, cfg.GAConfig().Population)
	assert.Equal(t, cflp.ModeSingleSource, cfg.Mode())
}

func TestLoadTOML(t *testing.T) {
	cfg, err := Load("testdata/run.toml")
	require.NoError(t, err)

	assert.Equal(t, "datasets/cap41.txt", cfg.General.Dataset)
	assert.Equal(t, cflp.ModeSplit, cfg.Mode())
	assert.Equal(t, int64(42), cfg.General.Seed)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())

	gaCfg := cfg.GAConfig()
	assert.Equal(t, 30, gaCfg.Generations)
	assert.Equal(t, 40, gaCfg.Population)
	assert.Equal(t, 3, gaCfg.TournamentSize)
	assert.Equal(t, 0.8, gaCfg.CrossoverRate)
	assert.Equal(t, 0.05, gaCfg.MutationRate)

	assert.Equal(t, "out/runs.db", cfg.Output.Database)
	assert.Equal(t, "jpg", cfg.Output.PlotFormat)
}

func TestLoadINI(t *testing.T) {
	cfg, err := Load("testdata/run.ini")
	require.NoError(t, err)

	assert.Equal(t, "data/cap", cfg.General.DatasetDir)
	assert.Equal(t, cflp.ModeSingleSource, cfg.Mode())
	assert.Equal(t, int64(7), cfg.General.Seed)
	assert.Equal(t, 12, cfg.GAConfig().Generations)
	assert.Equal(t, 4, cfg.GAConfig().TournamentSize)
	assert.Equal(t, 24, cfg.GAConfig().Population)
	assert.Equal(t, ga.AutoMutationRate, cfg.GAConfig().MutationRate)
	assert.Equal(t, 500, cfg.SAConfig().Iterations)
	assert.Equal(t, 0.99, cfg.SAConfig().Alpha)
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load("testdata/bad.toml")
	require.Error(t, err)

	_, err = Load("testdata/run.yaml")
	require.Error(t, err)

	_, err = Load("testdata/missing.toml")
	require.Error(t, err)
}
