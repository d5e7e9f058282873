package model

// Mapping - сохранённое сопоставление идентификатора и исходного URL.
// После создания не изменяется.
type Mapping struct {
	ID  string `json:"id" bson:"_id"`
	URL string `json:"url" bson:"url"`
}
