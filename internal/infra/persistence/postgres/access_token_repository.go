package postgres

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"plantcare/internal/domain/entity"
	domainerrors "plantcare/internal/domain/errors"
	"plantcare/internal/domain/repository"
	"plantcare/internal/infra/persistence/model"
)

// accessTokenRepository implements repository.AccessTokenRepository using GORM.
type accessTokenRepository struct {
	db *gorm.DB
}

// NewAccessTokenRepository is the constructor for accessTokenRepository.
func NewAccessTokenRepository(db *gorm.DB) repository.AccessTokenRepository {
	return &accessTokenRepository{db: db}
}

// Create persists a new access token record.
func (repo *accessTokenRepository) Create(ctx context.Context, token *entity.AccessToken) error {
	tokenM := fromAccessTokenDomain(token)

	if err := repo.db.WithContext(ctx).Create(tokenM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid owner reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create access token")
	}

	token.ID = tokenM.ID
	token.CreatedAt = tokenM.CreatedAt

	return nil
}

// FindBySecret retrieves a record by its opaque secret string.
func (repo *accessTokenRepository) FindBySecret(ctx context.Context, secret string) (*entity.AccessToken, error) {
	var tokenM model.AccessTokenModel
	err := repo.db.WithContext(ctx).
		Where("secret = ?", secret).
		First(&tokenM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccessTokenNotFound
		}

		return nil, errors.Wrap(err, "failed to find access token by secret")
	}

	return toAccessTokenDomain(&tokenM), nil
}

// FindByIDAndOwner retrieves a record by id, scoped to the owning account.
func (repo *accessTokenRepository) FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*entity.AccessToken, error) {
	var tokenM model.AccessTokenModel
	err := repo.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&tokenM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccessTokenNotFound
		}

		return nil, errors.Wrap(err, "failed to find access token")
	}

	return toAccessTokenDomain(&tokenM), nil
}

// ListByOwner retrieves all access tokens created by an account.
func (repo *accessTokenRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*entity.AccessToken, error) {
	var tokenModels []model.AccessTokenModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("end_date DESC").
		Find(&tokenModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list access tokens")
	}

	tokens := make([]*entity.AccessToken, 0, len(tokenModels))
	for i := range tokenModels {
		tokens = append(tokens, toAccessTokenDomain(&tokenModels[i]))
	}

	return tokens, nil
}

// DeleteByIDAndOwner removes a record, scoped to the owning account.
func (repo *accessTokenRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID int64) error {
	result := repo.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&model.AccessTokenModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete access token")
	}

	// If no rows were affected, the token was not found (or not owned).
	if result.RowsAffected == 0 {
		return repository.ErrAccessTokenNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toAccessTokenDomain converts a GORM AccessTokenModel to a domain AccessToken entity.
func toAccessTokenDomain(data *model.AccessTokenModel) *entity.AccessToken {
	if data == nil {
		return nil
	}

	return &entity.AccessToken{
		ID:        data.ID,
		Secret:    data.Secret,
		Label:     data.Label,
		StartDate: data.StartDate,
		EndDate:   data.EndDate,
		UserID:    data.UserID,
		CreatedAt: data.CreatedAt,
	}
}

// fromAccessTokenDomain converts a domain AccessToken entity to a GORM AccessTokenModel.
func fromAccessTokenDomain(data *entity.AccessToken) *model.AccessTokenModel {
	if data == nil {
		return nil
	}

	return &model.AccessTokenModel{
		ID:        data.ID,
		Secret:    data.Secret,
		Label:     data.Label,
		StartDate: data.StartDate,
		EndDate:   data.EndDate,
		UserID:    data.UserID,
	}
}
