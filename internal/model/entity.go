package model

import "time"

// Credential — сохранённый телефон и bearer-токен текущего пользователя (GORM).
type Credential struct {
	ID        uint      `gorm:"primaryKey"`
	Phone     string    `gorm:"size:32;not null;uniqueIndex"`
	Token     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Credential) TableName() string { return "credentials" }

// CachedVideo — запись ленты, сохранённая после последней успешной загрузки (GORM).
type CachedVideo struct {
	ID        int       `gorm:"primaryKey;autoIncrement:false"`
	Position  int       `gorm:"not null;index"`
	OwnerID   int       `gorm:"not null;index"`
	Location  string    `gorm:"size:255;not null;default:''"`
	Name      string    `gorm:"size:255;not null;default:''"`
	URL       string    `gorm:"type:text;not null"`
	FetchedAt time.Time `gorm:"not null"`
}

func (CachedVideo) TableName() string { return "cached_videos" }

// Record converts the cache row back to a feed record.
func (c CachedVideo) Record() VideoRecord {
	return VideoRecord{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		Location:    c.Location,
		DisplayName: c.Name,
		MediaURL:    c.URL,
	}
}
