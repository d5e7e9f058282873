package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Totarae/shortener/internal/database"
	"github.com/Totarae/shortener/internal/model"
	"github.com/jackc/pgx/v5"
)

// PostgresRepository хранит сопоставления в таблице shortens.
type PostgresRepository struct {
	DB *database.DB
}

// NewPostgresRepository создаёт новый экземпляр PostgresRepository.
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

// Insert сохраняет сопоставление. Конфликт по первичному ключу не перезаписывает
// запись, а возвращает model.ErrDuplicateID.
func (r *PostgresRepository) Insert(ctx context.Context, m model.Mapping) error {
	query := `INSERT INTO shortens (id, url) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`

	tag, err := r.DB.Pool.Exec(ctx, query, m.ID, m.URL)
	if err != nil {
		return fmt.Errorf("database insert error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDuplicateID
	}
	return nil
}

// Get извлекает оригинальный URL по идентификатору.
func (r *PostgresRepository) Get(ctx context.Context, id string) (string, error) {
	var url string
	err := r.DB.Pool.QueryRow(ctx, `SELECT url FROM shortens WHERE id = $1`, id).Scan(&url)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("database error: %w", err)
	}
	return url, nil
}

// Count количество сохранённых сопоставлений
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM shortens`).Scan(&count); err != nil {
		return 0, fmt.Errorf("database count error: %w", err)
	}
	return count, nil
}

// Ping проверяет доступность базы данных.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.DB.Ping(ctx)
}

func (r *PostgresRepository) Close(context.Context) error {
	r.DB.Close()
	return nil
}
