package datastore

import (
	"context"
	"database/sql"
	"time"

	"rewardportal/internal/models"

	"github.com/uptrace/bun"
)

// Store is the transactional repository the services run against.
// Lookups of a single row return sql.ErrNoRows when nothing matches.
type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error

	FindUserByID(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUserPassword(ctx context.Context, userID string, password string) (int64, error)
	DeleteUser(ctx context.Context, userID string) (int64, error)
	ChangeUserCredits(ctx context.Context, userID string, delta int) (int, error)
	RefreshUserClaimView(ctx context.Context, userID string) error

	FindRewardByID(ctx context.Context, rewardID string) (*models.Reward, error)
	ListRewards(ctx context.Context) ([]*models.Reward, error)
	ListAvailableRewards(ctx context.Context, category models.Category) ([]*models.Reward, error)
	CreateReward(ctx context.Context, reward *models.Reward) error
	DeleteReward(ctx context.Context, rewardID string) (int64, error)
	DecrementRewardStock(ctx context.Context, rewardID string) (int64, error)

	EnsureGameModes(ctx context.Context, categories []models.Category, cost int) error
	ListGameModes(ctx context.Context) ([]*models.GameMode, error)
	FindGameModeByID(ctx context.Context, id string) (*models.GameMode, error)
	FindGameModeByCategory(ctx context.Context, category models.Category) (*models.GameMode, error)
	UpdateGameMode(ctx context.Context, id string, update models.GameModeUpdate) (int64, error)

	FindActiveAssignment(ctx context.Context, userID string) (*models.RewardAssignment, error)
	ListAssignments(ctx context.Context, userID string) ([]*models.RewardAssignment, error)
	CreateAssignment(ctx context.Context, assignment *models.RewardAssignment) error
	ExpireUserAssignments(ctx context.Context, userID string) (int64, error)
	ExpireRewardAssignments(ctx context.Context, rewardID string) (int64, error)
	ClaimAssignment(ctx context.Context, assignmentID string, at time.Time) (int64, error)

	InsertCreditHistory(ctx context.Context, history *models.CreditHistory) error
	ListCreditHistory(ctx context.Context, userID string, limit int) ([]*models.CreditHistory, error)
	SumCreditHistory(ctx context.Context, userID string) (int, error)

	InsertClaim(ctx context.Context, claim *models.Claim) error
	ListClaims(ctx context.Context, userID string, limit int) ([]*models.Claim, error)

	FindAdminByUsername(ctx context.Context, username string) (*models.Admin, error)
	InsertAdminIfMissing(ctx context.Context, admin *models.Admin) error

	ListConfigs(ctx context.Context) ([]*models.Config, error)
	UpsertConfig(ctx context.Context, config *models.Config) error
	InsertConfigIfMissing(ctx context.Context, config *models.Config) error
}

type BunStore struct {
	db bun.IDB
}

func NewBunStore(db bun.IDB) *BunStore {
	return &BunStore{db}
}

func (s *BunStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &BunStore{tx})
	})
}

// CreateTables runs every table migration in dependency order.
func CreateTables(ctx context.Context, db bun.IDB) error {
	migrations := []func(context.Context, bun.IDB) error{
		CreateTableUser,
		CreateTableAdmin,
		CreateTableConfig,
		CreateTableReward,
		CreateTableGameMode,
		CreateTableRewardAssignment,
		CreateTableCreditHistory,
		CreateTableClaim,
	}
	for _, migrate := range migrations {
		if err := migrate(ctx, db); err != nil {
			return err
		}
	}
	return nil
}

func (s *BunStore) FindUserByID(ctx context.Context, userID string) (*models.User, error) {
	return FindUserByID(ctx, s.db, userID)
}

func (s *BunStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	return GetUsersSortedByCreatedAt(ctx, s.db)
}

func (s *BunStore) CreateUser(ctx context.Context, user *models.User) error {
	return CreateUser(ctx, s.db, user)
}

func (s *BunStore) UpdateUserPassword(ctx context.Context, userID string, password string) (int64, error) {
	return UpdateUserPassword(ctx, s.db, userID, password)
}

func (s *BunStore) DeleteUser(ctx context.Context, userID string) (int64, error) {
	return DeleteUser(ctx, s.db, userID)
}

func (s *BunStore) ChangeUserCredits(ctx context.Context, userID string, delta int) (int, error) {
	return ChangeUserCredits(ctx, s.db, userID, delta)
}

func (s *BunStore) RefreshUserClaimView(ctx context.Context, userID string) error {
	return RefreshUserClaimView(ctx, s.db, userID)
}

func (s *BunStore) FindRewardByID(ctx context.Context, rewardID string) (*models.Reward, error) {
	return FindRewardByID(ctx, s.db, rewardID)
}

func (s *BunStore) ListRewards(ctx context.Context) ([]*models.Reward, error) {
	return GetRewards(ctx, s.db)
}

func (s *BunStore) ListAvailableRewards(ctx context.Context, category models.Category) ([]*models.Reward, error) {
	return GetAvailableRewardsByCategory(ctx, s.db, category)
}

func (s *BunStore) CreateReward(ctx context.Context, reward *models.Reward) error {
	return CreateReward(ctx, s.db, reward)
}

func (s *BunStore) DeleteReward(ctx context.Context, rewardID string) (int64, error) {
	return DeleteReward(ctx, s.db, rewardID)
}

func (s *BunStore) DecrementRewardStock(ctx context.Context, rewardID string) (int64, error) {
	return DecrementRewardStock(ctx, s.db, rewardID)
}

func (s *BunStore) EnsureGameModes(ctx context.Context, categories []models.Category, cost int) error {
	return EnsureGameModes(ctx, s.db, categories, cost)
}

func (s *BunStore) ListGameModes(ctx context.Context) ([]*models.GameMode, error) {
	return GetGameModes(ctx, s.db)
}

func (s *BunStore) FindGameModeByID(ctx context.Context, id string) (*models.GameMode, error) {
	return FindGameModeByID(ctx, s.db, id)
}

func (s *BunStore) FindGameModeByCategory(ctx context.Context, category models.Category) (*models.GameMode, error) {
	return FindGameModeByCategory(ctx, s.db, category)
}

func (s *BunStore) UpdateGameMode(ctx context.Context, id string, update models.GameModeUpdate) (int64, error) {
	return UpdateGameMode(ctx, s.db, id, update)
}

func (s *BunStore) FindActiveAssignment(ctx context.Context, userID string) (*models.RewardAssignment, error) {
	return FindActiveAssignment(ctx, s.db, userID)
}

func (s *BunStore) ListAssignments(ctx context.Context, userID string) ([]*models.RewardAssignment, error) {
	return GetAssignmentsByUserID(ctx, s.db, userID)
}

func (s *BunStore) CreateAssignment(ctx context.Context, assignment *models.RewardAssignment) error {
	return CreateAssignment(ctx, s.db, assignment)
}

func (s *BunStore) ExpireUserAssignments(ctx context.Context, userID string) (int64, error) {
	return ExpireUserAssignments(ctx, s.db, userID)
}

func (s *BunStore) ExpireRewardAssignments(ctx context.Context, rewardID string) (int64, error) {
	return ExpireRewardAssignments(ctx, s.db, rewardID)
}

func (s *BunStore) ClaimAssignment(ctx context.Context, assignmentID string, at time.Time) (int64, error) {
	return ClaimAssignment(ctx, s.db, assignmentID, at)
}

func (s *BunStore) InsertCreditHistory(ctx context.Context, history *models.CreditHistory) error {
	return InsertCreditHistory(ctx, s.db, history)
}

func (s *BunStore) ListCreditHistory(ctx context.Context, userID string, limit int) ([]*models.CreditHistory, error) {
	return GetCreditHistoryByUserID(ctx, s.db, userID, limit)
}

func (s *BunStore) SumCreditHistory(ctx context.Context, userID string) (int, error) {
	return GetUserCreditHistorySum(ctx, s.db, userID)
}

func (s *BunStore) InsertClaim(ctx context.Context, claim *models.Claim) error {
	return InsertClaim(ctx, s.db, claim)
}

func (s *BunStore) ListClaims(ctx context.Context, userID string, limit int) ([]*models.Claim, error) {
	return GetClaimsByUserID(ctx, s.db, userID, limit)
}

func (s *BunStore) FindAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return FindAdminByUsername(ctx, s.db, username)
}

func (s *BunStore) InsertAdminIfMissing(ctx context.Context, admin *models.Admin) error {
	return InsertAdminIfMissing(ctx, s.db, admin)
}

func (s *BunStore) ListConfigs(ctx context.Context) ([]*models.Config, error) {
	return GetConfigs(ctx, s.db)
}

func (s *BunStore) UpsertConfig(ctx context.Context, config *models.Config) error {
	return UpsertConfig(ctx, s.db, config)
}

func (s *BunStore) InsertConfigIfMissing(ctx context.Context, config *models.Config) error {
	return InsertConfigIfMissing(ctx, s.db, config)
}
