package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	cp "github.com/jinzhu/copier"
	gorm "gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cflpGA/internal/opt"
)

type Run struct {
	ID            string `gorm:"primaryKey;size:36"`
	Dataset       string `gorm:"index"`
	Algorithm     string
	Mode          string
	Seed          int64
	Generations   int
	Evaluations   int
	Found         int
	Feasible      bool
	BestScore     float64
	BestCandidate string
	DurationMs    float64
	CreatedAt     time.Time
	History       []HistoryPoint `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

type HistoryPoint struct {
	ID         uint   `gorm:"primaryKey"`
	RunID      string `gorm:"index;size:36"`
	Seq        int
	Generation int
	Score      float64
	Candidate  string
}

// RunMeta describes how a result was produced.
type RunMeta struct {
	Dataset   string
	Algorithm string
	Mode      string
	Seed      int64
}

type Store struct {
	DB *gorm.DB
}

// Open opens (or creates) the SQLite database at path and migrates the schema.
// ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	if len(path) == 0 {
		return nil, errors.New("path to database must be defined")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers, and every :memory: connection is a separate database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Run{}, &HistoryPoint{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate run store: %w", err)
	}
	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveRun persists the result with its convergence history and returns the run ID.
func (s *Store) SaveRun(ctx context.Context, meta RunMeta, res opt.Result) (string, error) {
	run := Run{
		ID:          uuid.NewString(),
		Generations: res.Generations,
		Evaluations: res.Evaluations,
		Found:       len(res.Found),
		Feasible:    res.Best != nil,
		DurationMs:  float64(res.Duration.Microseconds()) / 1000.0,
		History:     make([]HistoryPoint, len(res.History)),
	}
	// Dataset, Algorithm, Mode, Seed
	if err := cp.Copy(&run, &meta); err != nil {
		return "", fmt.Errorf("failed to copy run meta: %w", err)
	}
	if res.Best != nil {
		run.BestScore = res.Best.Score
		run.BestCandidate = res.Best.Candidate.String()
	}
	for i, h := range res.History {
		run.History[i] = HistoryPoint{
			Seq:        i,
			Generation: h.Generation,
			Score:      h.Score,
			Candidate:  h.Candidate.String(),
		}
	}

	if err := s.DB.WithContext(ctx).Create(&run).Error; err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}
	return run.ID, nil
}

// Runs lists stored runs, newest first. An empty dataset lists every run.
func (s *Store) Runs(ctx context.Context, dataset string) ([]Run, error) {
	q := s.DB.WithContext(ctx).Order("created_at DESC")
	if dataset != "" {
		q = q.Where("dataset = ?", dataset)
	}
	var runs []Run
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	return runs, nil
}

// History returns the convergence history of a run in recorded order.
func (s *Store) History(ctx context.Context, runID string) ([]opt.Solution, error) {
	var points []HistoryPoint
	err := s.DB.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("seq ASC").
		Find(&points).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query history of run %s: %w", runID, err)
	}

	out := make([]opt.Solution, len(points))
	for i, p := range points {
		c, err := opt.ParseCandidate(p.Candidate)
		if err != nil {
			return nil, err
		}
		out[i] = opt.Solution{Candidate: c, Score: p.Score, Generation: p.Generation}
	}
	return out, nil
}
