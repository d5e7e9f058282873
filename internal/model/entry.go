package model

// Entry представляет структуру записи сопоставления в файле хранилища
type Entry struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
