package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Totarae/shortener/internal/model"
	"go.uber.org/zap"
)

// MemoryRepository - потокобезопасное хранилище в памяти.
// Если задан файл, каждая вставка дописывается в него строкой JSON,
// а при создании файл загружается обратно.
type MemoryRepository struct {
	data   map[string]string
	logger *zap.Logger
	file   string
	mutex  sync.RWMutex
}

// NewMemoryRepository создаёт хранилище; пустой file означает режим только в памяти.
func NewMemoryRepository(file string, logger *zap.Logger) (*MemoryRepository, error) {
	r := &MemoryRepository{
		data:   make(map[string]string),
		logger: logger,
		file:   file,
	}

	if err := r.LoadFromFile(); err != nil {
		return nil, fmt.Errorf("load %s: %w", file, err)
	}
	return r, nil
}

// Insert сохраняет сопоставление, если id свободен. Запись в файл
// выполняется до записи в память, поэтому неудачная вставка не видна.
func (r *MemoryRepository) Insert(ctx context.Context, m model.Mapping) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if _, exists := r.data[m.ID]; exists {
		return model.ErrDuplicateID
	}
	if err := r.appendToFile(model.Entry{ID: m.ID, URL: m.URL}); err != nil {
		return fmt.Errorf("append to file: %w", err)
	}
	r.data[m.ID] = m.URL
	return nil
}

// Get retrieves the original URL by its id
func (r *MemoryRepository) Get(_ context.Context, id string) (string, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	url, exists := r.data[id]
	if !exists {
		return "", model.ErrNotFound
	}
	return url, nil
}

func (r *MemoryRepository) Count(context.Context) (int64, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return int64(len(r.data)), nil
}

func (r *MemoryRepository) Ping(context.Context) error {
	return nil
}

func (r *MemoryRepository) Close(context.Context) error {
	return nil
}

// LoadFromFile загружает данные из файла при старте сервера
func (r *MemoryRepository) LoadFromFile() error {
	if r.file == "" {
		return nil
	}

	file, err := os.Open(r.file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // Файл ещё не создан, это не ошибка
		}
		return err
	}
	defer file.Close()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	decoder := json.NewDecoder(file)
	for {
		var entry model.Entry
		if err := decoder.Decode(&entry); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			// обрезанная последняя строка после аварийной остановки
			r.logger.Warn("stopped reading storage file", zap.String("file", r.file), zap.Error(err))
			break
		}
		if entry.ID == "" {
			continue
		}
		r.data[entry.ID] = entry.URL
	}

	r.logger.Info("Загружены сопоставления из файла", zap.Int("count", len(r.data)), zap.String("file", r.file))
	return nil
}

// appendToFile добавляет новую запись в файл
func (r *MemoryRepository) appendToFile(entry model.Entry) error {
	if r.file == "" {
		return nil
	}

	file, err := os.OpenFile(r.file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	_, err = file.Write(append(data, '\n')) // Записываем с новой строки
	return err
}
