package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"plantcare/internal/domain/entity"
	"plantcare/internal/domain/repository"
	"plantcare/internal/domain/service"
)

// The fakes below are small in-memory stand-ins for the persistence and
// infra interfaces, enough to drive the services without a database.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- transaction manager ---

type fakeTxManager struct {
	factory repository.RepositoryFactory
}

func (f *fakeTxManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(f.factory)
}

type fakeRepoFactory struct {
	userRepo        repository.UserRepository
	plantRepo       repository.PlantRepository
	diseaseRepo     repository.DiseaseRepository
	accessTokenRepo repository.AccessTokenRepository
}

func (f *fakeRepoFactory) UserRepo() repository.UserRepository { return f.userRepo }

func (f *fakeRepoFactory) PlantRepo() repository.PlantRepository { return f.plantRepo }

func (f *fakeRepoFactory) DiseaseRepo() repository.DiseaseRepository { return f.diseaseRepo }

func (f *fakeRepoFactory) AccessTokenRepo() repository.AccessTokenRepository {
	return f.accessTokenRepo
}

// --- user repository ---

type fakeUserRepo struct {
	users  map[int64]*entity.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*entity.User), nextID: 1}
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user

	return &copied, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user

			return &copied, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	user.ID = f.nextID
	f.nextID++
	copied := *user
	f.users[user.ID] = &copied

	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	copied := *user
	f.users[user.ID] = &copied

	return nil
}

// --- plant repository ---

type fakePlantRepo struct {
	plants     map[int64]*entity.Plant
	waterLogs  []*entity.WaterLog
	fertLogs   []*entity.FertilizerLog
	episodes   []*entity.PlantDisease
	nextID     int64
	nextLogID  int64
	waterLogsE error // forced error on AddWaterLogs
}

func newFakePlantRepo() *fakePlantRepo {
	return &fakePlantRepo{plants: make(map[int64]*entity.Plant), nextID: 1, nextLogID: 1}
}

func (f *fakePlantRepo) Create(ctx context.Context, plant *entity.Plant) error {
	plant.ID = f.nextID
	f.nextID++
	copied := *plant
	f.plants[plant.ID] = &copied

	return nil
}

func (f *fakePlantRepo) FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*entity.Plant, error) {
	plant, ok := f.plants[id]
	if !ok || plant.UserID != ownerID {
		return nil, repository.ErrPlantNotFound
	}
	copied := *plant
	for _, log := range f.waterLogs {
		if log.PlantID == id {
			copied.WaterLogs = append(copied.WaterLogs, *log)
		}
	}
	for _, episode := range f.episodes {
		if episode.PlantID == id {
			copied.Diseases = append(copied.Diseases, *episode)
		}
	}

	return &copied, nil
}

func (f *fakePlantRepo) FindByIDsAndOwner(ctx context.Context, ids []int64, ownerID int64) ([]*entity.Plant, error) {
	// Set semantics, like an IN clause: each matching plant appears once no
	// matter how often its id repeats.
	seen := make(map[int64]struct{}, len(ids))
	var result []*entity.Plant
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if plant, ok := f.plants[id]; ok && plant.UserID == ownerID {
			copied := *plant
			result = append(result, &copied)
		}
	}

	return result, nil
}

func (f *fakePlantRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Plant, error) {
	var result []*entity.Plant
	for _, plant := range f.plants {
		if plant.UserID != ownerID {
			continue
		}
		copied, err := f.FindByIDAndOwner(ctx, plant.ID, ownerID)
		if err != nil {
			return nil, err
		}
		result = append(result, copied)
	}

	return result, nil
}

func (f *fakePlantRepo) Update(ctx context.Context, plant *entity.Plant) error {
	existing, ok := f.plants[plant.ID]
	if !ok || existing.UserID != plant.UserID {
		return repository.ErrPlantNotFound
	}
	copied := *plant
	f.plants[plant.ID] = &copied

	return nil
}

func (f *fakePlantRepo) Delete(ctx context.Context, id, ownerID int64) error {
	plant, ok := f.plants[id]
	if !ok || plant.UserID != ownerID {
		return repository.ErrPlantNotFound
	}
	delete(f.plants, id)

	return nil
}

func (f *fakePlantRepo) AddWaterLogs(ctx context.Context, logs []*entity.WaterLog) error {
	if f.waterLogsE != nil {
		return f.waterLogsE
	}
	for _, log := range logs {
		log.ID = f.nextLogID
		f.nextLogID++
		copied := *log
		f.waterLogs = append(f.waterLogs, &copied)
	}

	return nil
}

func (f *fakePlantRepo) AddFertilizerLog(ctx context.Context, log *entity.FertilizerLog) error {
	log.ID = f.nextLogID
	f.nextLogID++
	copied := *log
	f.fertLogs = append(f.fertLogs, &copied)

	return nil
}

func (f *fakePlantRepo) LatestWaterLog(ctx context.Context, plantID int64) (*entity.WaterLog, error) {
	var latest *entity.WaterLog
	for _, log := range f.waterLogs {
		if log.PlantID != plantID {
			continue
		}
		if latest == nil || log.DateTime.After(latest.DateTime) {
			latest = log
		}
	}
	if latest == nil {
		return nil, repository.ErrWaterLogNotFound
	}
	copied := *latest

	return &copied, nil
}

func (f *fakePlantRepo) LatestFertilizerLog(ctx context.Context, plantID int64) (*entity.FertilizerLog, error) {
	var latest *entity.FertilizerLog
	for _, log := range f.fertLogs {
		if log.PlantID != plantID {
			continue
		}
		if latest == nil || log.DateTime.After(latest.DateTime) {
			latest = log
		}
	}
	if latest == nil {
		return nil, repository.ErrFertilizerLogNotFound
	}
	copied := *latest

	return &copied, nil
}

func (f *fakePlantRepo) ListDiseaseEpisodes(ctx context.Context, plantID int64, limit int) ([]*entity.PlantDisease, error) {
	var result []*entity.PlantDisease
	for _, episode := range f.episodes {
		if episode.PlantID != plantID {
			continue
		}
		copied := *episode
		result = append(result, &copied)
		if limit > 0 && len(result) == limit {
			break
		}
	}

	return result, nil
}

func (f *fakePlantRepo) HasRecentDiseaseEpisode(ctx context.Context, plantID, diseaseID int64, startDate, endedSince time.Time) (bool, error) {
	for _, episode := range f.episodes {
		if episode.PlantID != plantID || episode.DiseaseID != diseaseID || !episode.StartDate.Equal(startDate) {
			continue
		}
		if episode.EndDate != nil && !episode.EndDate.Before(endedSince) {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakePlantRepo) AddDiseaseEpisode(ctx context.Context, episode *entity.PlantDisease) error {
	copied := *episode
	f.episodes = append(f.episodes, &copied)

	return nil
}

// --- disease repository ---

type fakeDiseaseRepo struct {
	diseases map[int64]*entity.Disease
}

func newFakeDiseaseRepo(diseases ...*entity.Disease) *fakeDiseaseRepo {
	repo := &fakeDiseaseRepo{diseases: make(map[int64]*entity.Disease)}
	for _, disease := range diseases {
		repo.diseases[disease.ID] = disease
	}

	return repo
}

func (f *fakeDiseaseRepo) FindByID(ctx context.Context, id int64) (*entity.Disease, error) {
	disease, ok := f.diseases[id]
	if !ok {
		return nil, repository.ErrDiseaseNotFound
	}

	return disease, nil
}

func (f *fakeDiseaseRepo) List(ctx context.Context) ([]*entity.Disease, error) {
	result := make([]*entity.Disease, 0, len(f.diseases))
	for _, disease := range f.diseases {
		result = append(result, disease)
	}

	return result, nil
}

// --- access token repository ---

type fakeAccessTokenRepo struct {
	tokens map[int64]*entity.AccessToken
	nextID int64
}

func newFakeAccessTokenRepo() *fakeAccessTokenRepo {
	return &fakeAccessTokenRepo{tokens: make(map[int64]*entity.AccessToken), nextID: 1}
}

func (f *fakeAccessTokenRepo) Create(ctx context.Context, token *entity.AccessToken) error {
	token.ID = f.nextID
	f.nextID++
	copied := *token
	f.tokens[token.ID] = &copied

	return nil
}

func (f *fakeAccessTokenRepo) FindBySecret(ctx context.Context, secret string) (*entity.AccessToken, error) {
	for _, token := range f.tokens {
		if token.Secret == secret {
			copied := *token

			return &copied, nil
		}
	}

	return nil, repository.ErrAccessTokenNotFound
}

func (f *fakeAccessTokenRepo) FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*entity.AccessToken, error) {
	token, ok := f.tokens[id]
	if !ok || token.UserID != ownerID {
		return nil, repository.ErrAccessTokenNotFound
	}
	copied := *token

	return &copied, nil
}

func (f *fakeAccessTokenRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*entity.AccessToken, error) {
	var result []*entity.AccessToken
	for _, token := range f.tokens {
		if token.UserID == ownerID {
			copied := *token
			result = append(result, &copied)
		}
	}

	return result, nil
}

func (f *fakeAccessTokenRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID int64) error {
	token, ok := f.tokens[id]
	if !ok || token.UserID != ownerID {
		return repository.ErrAccessTokenNotFound
	}
	delete(f.tokens, id)

	return nil
}

// --- domain services ---

type fakeHasher struct{}

func (f *fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (f *fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

// fakeTokenService records the last Issue call.
type fakeTokenService struct {
	issuedSubject  string
	issuedAudience entity.Audience
	issuedTTL      time.Duration
}

func (f *fakeTokenService) Issue(subject string, audience entity.Audience, ttl time.Duration) (string, error) {
	f.issuedSubject = subject
	f.issuedAudience = audience
	f.issuedTTL = ttl

	return "token-" + string(audience), nil
}

func (f *fakeTokenService) Decode(token string) (*service.Claims, error) {
	return nil, service.ErrTokenInvalid
}

func (f *fakeTokenService) DefaultTTL() time.Duration {
	return 5 * 24 * time.Hour
}

type fakePhotoStorage struct{}

func (f *fakePhotoStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	return nil
}

func (f *fakePhotoStorage) URL(key string) string {
	if key == "" {
		return ""
	}

	return "https://cdn.test/" + key
}

// fakeQRService records the URL it rendered.
type fakeQRService struct {
	renderedURL string
}

func (f *fakeQRService) GuestInviteQR(authorizeURL string) ([]byte, error) {
	f.renderedURL = authorizeURL

	return []byte("png-bytes"), nil
}
