package db

import "time"

// Video enrichment status values for articles.
const (
	VideoStatusPending    = "pending"
	VideoStatusProcessing = "processing"
	VideoStatusComplete   = "complete"
	VideoStatusFailed     = "failed"
)

// Playlist item kinds.
const (
	PlaylistKindSong   = "song"
	PlaylistKindJingle = "jingle"
	PlaylistKindAd     = "ad"
)

type Article struct {
	ID               int64      `gorm:"primaryKey" json:"id"`
	ArticleUUID      string     `gorm:"type:uuid;uniqueIndex" json:"articleUuid"`
	NaturalKey       string     `gorm:"size:1024;uniqueIndex" json:"naturalKey"`
	Title            string     `gorm:"size:512;not null" json:"titulo"`
	ShortDescription string     `gorm:"type:text;not null" json:"descripcion"`
	Category         string     `gorm:"size:64;index" json:"categoria"`
	SiteTag          string     `gorm:"size:128;index;not null" json:"sitio"`
	Country          string     `gorm:"size:8;index" json:"pais"`
	SourceURL        string     `gorm:"size:1024" json:"url"`
	ImageURL         string     `gorm:"size:1024" json:"imagen"`
	EnrichedBody     *string    `gorm:"type:text" json:"contenido,omitempty"`
	Language         string     `gorm:"size:8" json:"idioma,omitempty"`
	VideoStatus      string     `gorm:"size:16;default:pending" json:"videoStatus"`
	VideoURL         *string    `gorm:"size:1024" json:"videoUrl,omitempty"`
	TelegramPostedAt *time.Time `json:"-"`
	PublishedAt      time.Time  `gorm:"index" json:"publicadoEn"`
	CreatedAt        time.Time  `json:"creadoEn"`
	UpdatedAt        time.Time  `json:"actualizadoEn"`
}

type Game struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	GameUUID         string    `gorm:"type:uuid;uniqueIndex" json:"gameUuid"`
	Slug             string    `gorm:"size:256;uniqueIndex" json:"slug"`
	Title            string    `gorm:"size:512;not null" json:"titulo"`
	ShortDescription string    `gorm:"type:text;not null" json:"descripcion"`
	Category         string    `gorm:"size:64;index" json:"categoria"`
	ThumbnailURL     string    `gorm:"size:1024" json:"imagen"`
	PlayURL          string    `gorm:"size:1024" json:"playUrl"`
	EnrichedBody     *string   `gorm:"type:text" json:"contenido,omitempty"`
	PublishedAt      time.Time `gorm:"index" json:"publicadoEn"`
	CreatedAt        time.Time `json:"creadoEn"`
	UpdatedAt        time.Time `json:"actualizadoEn"`
}

type RadioStation struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	StationUUID string    `gorm:"type:uuid;uniqueIndex" json:"stationUuid"`
	Name        string    `gorm:"size:512;not null" json:"nombre"`
	Country     string    `gorm:"size:8;index" json:"pais"`
	Genre       string    `gorm:"size:128;index" json:"genero"`
	StreamURL   string    `gorm:"size:1024;not null" json:"streamUrl"`
	FaviconURL  string    `gorm:"size:1024" json:"favicon"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

type PlaylistItem struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:512;not null" json:"titulo"`
	MediaURL        string    `gorm:"size:1024;not null" json:"mediaUrl"`
	DurationSeconds int       `json:"duracionSegundos"`
	Kind            string    `gorm:"size:16;default:song" json:"tipo"`
	Position        int       `gorm:"index" json:"orden"`
	IsActive        bool      `gorm:"default:true" json:"activo"`
	CreatedAt       time.Time `json:"creadoEn"`
	UpdatedAt       time.Time `json:"actualizadoEn"`
}

func autoMigrateModels() []any {
	return []any{
		&Article{},
		&Game{},
		&RadioStation{},
		&PlaylistItem{},
	}
}
