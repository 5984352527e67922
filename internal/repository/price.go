package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OER-Club/CS39AE-Fall25/internal/models"
)

const source = "coingecko"

type PriceRepo struct {
	pool *pgxpool.Pool
}

func NewPriceRepo(pool *pgxpool.Pool) *PriceRepo {
	return &PriceRepo{pool: pool}
}

// RecordPoints inserts one row per polled instrument in a single batch.
func (r *PriceRepo) RecordPoints(ctx context.Context, points []models.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range points {
		batch.Queue(
			`INSERT INTO price_history (timestamp, instrument, price, trading_day, source)
			 VALUES ($1, $2, $3, $4, $5)`,
			p.Timestamp, p.Instrument, p.Price, Day(p.Timestamp), source,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range points {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *PriceRepo) GetByDay(ctx context.Context, day string) ([]models.StoredPrice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, timestamp, instrument, price, trading_day, source, created_at
		 FROM price_history WHERE trading_day = $1 ORDER BY timestamp ASC, instrument ASC`,
		day,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPrices(rows)
}

func (r *PriceRepo) GetAvailableDays(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT trading_day FROM price_history ORDER BY trading_day ASC LIMIT 30`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		days = append(days, d.Format("2006-01-02"))
	}
	return days, rows.Err()
}

func (r *PriceRepo) GetLatest(ctx context.Context, instrument string) (*models.StoredPrice, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, timestamp, instrument, price, trading_day, source, created_at
		 FROM price_history WHERE instrument = $1 ORDER BY timestamp DESC LIMIT 1`,
		instrument,
	)
	p, err := scanPrice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

func scanPrice(row scannable) (*models.StoredPrice, error) {
	var p models.StoredPrice
	var td time.Time
	err := row.Scan(&p.ID, &p.Timestamp, &p.Instrument, &p.Price, &td, &p.Source, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.TradingDay = td.Format("2006-01-02")
	return &p, nil
}

type rowsIter interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func collectPrices(rows rowsIter) ([]models.StoredPrice, error) {
	var out []models.StoredPrice
	for rows.Next() {
		var p models.StoredPrice
		var td time.Time
		if err := rows.Scan(&p.ID, &p.Timestamp, &p.Instrument, &p.Price, &td, &p.Source, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.TradingDay = td.Format("2006-01-02")
		out = append(out, p)
	}
	return out, rows.Err()
}
