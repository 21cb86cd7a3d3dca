// Package store persists local state with GORM: the credential and the last fetched feed.
package store

import (
	"context"
	"errors"

	"github.com/psds-microservice/citypeople-service/internal/errs"
	"github.com/psds-microservice/citypeople-service/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CredentialRepo stores one credential per phone; the most recently updated one is current.
type CredentialRepo struct {
	db *gorm.DB
}

// NewCredentialRepo creates a credential repository.
func NewCredentialRepo(db *gorm.DB) *CredentialRepo {
	return &CredentialRepo{db: db}
}

// Latest returns the most recently saved credential.
func (r *CredentialRepo) Latest(ctx context.Context) (*model.Credential, error) {
	var c model.Credential
	if err := r.db.WithContext(ctx).Order("updated_at DESC").First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrCredentialAbsent
		}
		return nil, err
	}
	return &c, nil
}

// Save upserts the token for phone.
func (r *CredentialRepo) Save(ctx context.Context, phone, token string) error {
	c := &model.Credential{Phone: phone, Token: token}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "updated_at"}),
	}).Create(c).Error
}
