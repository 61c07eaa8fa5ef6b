// Package memstore is an in-memory datastore.Store. Transactions are fully
// serialised and work on a copy of the state that is swapped in on commit,
// so a failed transaction leaves nothing behind.
package memstore

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"rewardportal/internal/datastore"
	"rewardportal/internal/models"

	"github.com/google/uuid"
)

var ErrForeignKey = errors.New("insert violates foreign key constraint")

type shared struct {
	mu     sync.Mutex
	st     *state
	faults map[string]error
}

type Store struct {
	shared *shared
	st     *state
	tx     bool
}

var _ datastore.Store = (*Store)(nil)

func New() *Store {
	return &Store{shared: &shared{st: &state{}, faults: map[string]error{}}}
}

// Fail makes every later call of the named operation return err. A nil err clears it.
func (s *Store) Fail(op string, err error) {
	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()

	if err == nil {
		delete(s.shared.faults, op)
		return
	}
	s.shared.faults[op] = err
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx datastore.Store) error) error {
	if s.tx {
		return fn(ctx, s)
	}

	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.shared.st.clone()
	if err := fn(ctx, &Store{shared: s.shared, st: work, tx: true}); err != nil {
		return err
	}

	s.shared.st = work
	return nil
}

func (s *Store) with(ctx context.Context, op string, fn func(st *state) error) error {
	if !s.tx {
		s.shared.mu.Lock()
		defer s.shared.mu.Unlock()
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.shared.faults[op]; err != nil {
		return err
	}

	if s.tx {
		return fn(s.st)
	}
	return fn(s.shared.st)
}

type state struct {
	seq         int64
	users       []*models.User
	rewards     []*models.Reward
	modes       []*models.GameMode
	assignments []*models.RewardAssignment
	history     []*models.CreditHistory
	claims      []*models.Claim
	admins      []*models.Admin
	configs     []*models.Config
}

func cloneAll[T any](in []*T) []*T {
	out := make([]*T, 0, len(in))
	for _, v := range in {
		c := *v
		out = append(out, &c)
	}
	return out
}

func (st *state) clone() *state {
	return &state{
		seq:         st.seq,
		users:       cloneAll(st.users),
		rewards:     cloneAll(st.rewards),
		modes:       cloneAll(st.modes),
		assignments: cloneAll(st.assignments),
		history:     cloneAll(st.history),
		claims:      cloneAll(st.claims),
		admins:      cloneAll(st.admins),
		configs:     cloneAll(st.configs),
	}
}

// now keeps created_at strictly increasing so newest-first ordering is stable.
func (st *state) now() time.Time {
	st.seq++
	return time.Now().UTC().Add(time.Duration(st.seq) * time.Microsecond)
}

func (st *state) user(id string) *models.User {
	for _, u := range st.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (st *state) reward(id string) *models.Reward {
	for _, r := range st.rewards {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func copyOf[T any](v *T) *T {
	c := *v
	return &c
}

func newest[T any](in []*T, limit int) []*T {
	out := make([]*T, 0, len(in))
	for i := len(in) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, copyOf(in[i]))
	}
	return out
}

func (s *Store) FindUserByID(ctx context.Context, userID string) (*models.User, error) {
	var out *models.User
	err := s.with(ctx, "FindUserByID", func(st *state) error {
		u := st.user(userID)
		if u == nil {
			return sql.ErrNoRows
		}
		out = copyOf(u)
		return nil
	})
	return out, err
}

func (s *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	err := s.with(ctx, "ListUsers", func(st *state) error {
		out = newest(st.users, 0)
		return nil
	})
	return out, err
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return s.with(ctx, "CreateUser", func(st *state) error {
		if st.user(user.ID) != nil {
			return datastore.ErrDuplicateKey
		}
		now := st.now()
		if user.CreatedAt.IsZero() {
			user.CreatedAt = now
		}
		if user.UpdatedAt.IsZero() {
			user.UpdatedAt = now
		}
		st.users = append(st.users, copyOf(user))
		return nil
	})
}

func (s *Store) UpdateUserPassword(ctx context.Context, userID string, password string) (int64, error) {
	var n int64
	err := s.with(ctx, "UpdateUserPassword", func(st *state) error {
		if u := st.user(userID); u != nil {
			u.Password = password
			u.UpdatedAt = st.now()
			n = 1
		}
		return nil
	})
	return n, err
}

func (s *Store) DeleteUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.with(ctx, "DeleteUser", func(st *state) error {
		before := len(st.users)
		st.users = filter(st.users, func(u *models.User) bool { return u.ID != userID })
		n = int64(before - len(st.users))
		if n == 0 {
			return nil
		}

		st.assignments = filter(st.assignments, func(a *models.RewardAssignment) bool { return a.UserID != userID })
		st.history = filter(st.history, func(h *models.CreditHistory) bool { return h.UserID != userID })
		st.claims = filter(st.claims, func(c *models.Claim) bool { return c.UserID != userID })
		return nil
	})
	return n, err
}

func filter[T any](in []*T, keep func(*T) bool) []*T {
	out := make([]*T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (s *Store) ChangeUserCredits(ctx context.Context, userID string, delta int) (int, error) {
	var credits int
	err := s.with(ctx, "ChangeUserCredits", func(st *state) error {
		u := st.user(userID)
		if u == nil || u.Credits+delta < 0 {
			return sql.ErrNoRows
		}
		u.Credits += delta
		u.UpdatedAt = st.now()
		credits = u.Credits
		return nil
	})
	return credits, err
}

func (s *Store) RefreshUserClaimView(ctx context.Context, userID string) error {
	return s.with(ctx, "RefreshUserClaimView", func(st *state) error {
		u := st.user(userID)
		if u == nil {
			return nil
		}

		u.IsClaimed = false
		u.AssignedRewardName = nil
		u.LastPlayedCategory = nil
		for i := len(st.claims) - 1; i >= 0; i-- {
			c := st.claims[i]
			if c.UserID != userID {
				continue
			}
			name, category := c.RewardName, c.Category
			u.IsClaimed = true
			u.AssignedRewardName = &name
			u.LastPlayedCategory = &category
			break
		}
		u.UpdatedAt = st.now()
		return nil
	})
}

func (s *Store) FindRewardByID(ctx context.Context, rewardID string) (*models.Reward, error) {
	var out *models.Reward
	err := s.with(ctx, "FindRewardByID", func(st *state) error {
		r := st.reward(rewardID)
		if r == nil {
			return sql.ErrNoRows
		}
		out = copyOf(r)
		return nil
	})
	return out, err
}

func (s *Store) ListRewards(ctx context.Context) ([]*models.Reward, error) {
	var out []*models.Reward
	err := s.with(ctx, "ListRewards", func(st *state) error {
		out = newest(st.rewards, 0)
		return nil
	})
	return out, err
}

func (s *Store) ListAvailableRewards(ctx context.Context, category models.Category) ([]*models.Reward, error) {
	var out []*models.Reward
	err := s.with(ctx, "ListAvailableRewards", func(st *state) error {
		for _, r := range st.rewards {
			if r.Category == category && r.Available() {
				out = append(out, copyOf(r))
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) CreateReward(ctx context.Context, reward *models.Reward) error {
	return s.with(ctx, "CreateReward", func(st *state) error {
		if reward.Stock < models.StockUnlimited {
			return errors.New("new row violates check constraint reward_stock_check")
		}
		if reward.ID == "" {
			reward.ID = uuid.NewString()
		}
		if st.reward(reward.ID) != nil {
			return datastore.ErrDuplicateKey
		}
		if reward.CreatedAt.IsZero() {
			reward.CreatedAt = st.now()
		}
		st.rewards = append(st.rewards, copyOf(reward))
		return nil
	})
}

func (s *Store) DeleteReward(ctx context.Context, rewardID string) (int64, error) {
	var n int64
	err := s.with(ctx, "DeleteReward", func(st *state) error {
		before := len(st.rewards)
		st.rewards = filter(st.rewards, func(r *models.Reward) bool { return r.ID != rewardID })
		n = int64(before - len(st.rewards))

		for _, c := range st.claims {
			if c.RewardID != nil && *c.RewardID == rewardID {
				c.RewardID = nil
			}
		}
		return nil
	})
	return n, err
}

func (s *Store) DecrementRewardStock(ctx context.Context, rewardID string) (int64, error) {
	var n int64
	err := s.with(ctx, "DecrementRewardStock", func(st *state) error {
		r := st.reward(rewardID)
		if r == nil || r.Stock <= 0 {
			return nil
		}
		r.Stock--
		n = 1
		return nil
	})
	return n, err
}

func (s *Store) EnsureGameModes(ctx context.Context, categories []models.Category, cost int) error {
	return s.with(ctx, "EnsureGameModes", func(st *state) error {
		for _, category := range categories {
			exists := false
			for _, m := range st.modes {
				if m.Category == category {
					exists = true
					break
				}
			}
			if exists {
				continue
			}
			st.modes = append(st.modes, &models.GameMode{
				ID:        uuid.NewString(),
				Category:  category,
				Cost:      cost,
				Enabled:   true,
				UpdatedAt: st.now(),
			})
		}
		return nil
	})
}

func (s *Store) ListGameModes(ctx context.Context) ([]*models.GameMode, error) {
	var out []*models.GameMode
	err := s.with(ctx, "ListGameModes", func(st *state) error {
		out = cloneAll(st.modes)
		return nil
	})
	return out, err
}

func (s *Store) findMode(ctx context.Context, op string, match func(*models.GameMode) bool) (*models.GameMode, error) {
	var out *models.GameMode
	err := s.with(ctx, op, func(st *state) error {
		for _, m := range st.modes {
			if match(m) {
				out = copyOf(m)
				return nil
			}
		}
		return sql.ErrNoRows
	})
	return out, err
}

func (s *Store) FindGameModeByID(ctx context.Context, id string) (*models.GameMode, error) {
	return s.findMode(ctx, "FindGameModeByID", func(m *models.GameMode) bool { return m.ID == id })
}

func (s *Store) FindGameModeByCategory(ctx context.Context, category models.Category) (*models.GameMode, error) {
	return s.findMode(ctx, "FindGameModeByCategory", func(m *models.GameMode) bool { return m.Category == category })
}

func (s *Store) UpdateGameMode(ctx context.Context, id string, update models.GameModeUpdate) (int64, error) {
	var n int64
	err := s.with(ctx, "UpdateGameMode", func(st *state) error {
		for _, m := range st.modes {
			if m.ID != id {
				continue
			}
			if update.Cost != nil {
				m.Cost = *update.Cost
			}
			if update.Enabled != nil {
				m.Enabled = *update.Enabled
			}
			m.UpdatedAt = st.now()
			n = 1
		}
		return nil
	})
	return n, err
}

func (st *state) withReward(a *models.RewardAssignment) *models.RewardAssignment {
	out := copyOf(a)
	if r := st.reward(a.RewardID); r != nil {
		out.Reward = copyOf(r)
	}
	return out
}

func (s *Store) FindActiveAssignment(ctx context.Context, userID string) (*models.RewardAssignment, error) {
	var out *models.RewardAssignment
	err := s.with(ctx, "FindActiveAssignment", func(st *state) error {
		for i := len(st.assignments) - 1; i >= 0; i-- {
			a := st.assignments[i]
			if a.UserID == userID && a.Status == models.AssignmentStatusAssigned {
				out = st.withReward(a)
				return nil
			}
		}
		return sql.ErrNoRows
	})
	return out, err
}

func (s *Store) ListAssignments(ctx context.Context, userID string) ([]*models.RewardAssignment, error) {
	var out []*models.RewardAssignment
	err := s.with(ctx, "ListAssignments", func(st *state) error {
		for i := len(st.assignments) - 1; i >= 0; i-- {
			if a := st.assignments[i]; a.UserID == userID {
				out = append(out, st.withReward(a))
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) CreateAssignment(ctx context.Context, assignment *models.RewardAssignment) error {
	return s.with(ctx, "CreateAssignment", func(st *state) error {
		if st.user(assignment.UserID) == nil {
			return ErrForeignKey
		}
		if assignment.Status == models.AssignmentStatusAssigned {
			for _, a := range st.assignments {
				if a.UserID == assignment.UserID && a.Status == models.AssignmentStatusAssigned {
					return datastore.ErrDuplicateKey
				}
			}
		}
		if assignment.ID == "" {
			assignment.ID = uuid.NewString()
		}
		if assignment.CreatedAt.IsZero() {
			assignment.CreatedAt = st.now()
		}
		stored := copyOf(assignment)
		stored.Reward = nil
		st.assignments = append(st.assignments, stored)
		return nil
	})
}

func (s *Store) expireAssignments(ctx context.Context, op string, match func(*models.RewardAssignment) bool) (int64, error) {
	var n int64
	err := s.with(ctx, op, func(st *state) error {
		for _, a := range st.assignments {
			if a.Status == models.AssignmentStatusAssigned && match(a) {
				a.Status = models.AssignmentStatusExpired
				n++
			}
		}
		return nil
	})
	return n, err
}

func (s *Store) ExpireUserAssignments(ctx context.Context, userID string) (int64, error) {
	return s.expireAssignments(ctx, "ExpireUserAssignments", func(a *models.RewardAssignment) bool { return a.UserID == userID })
}

func (s *Store) ExpireRewardAssignments(ctx context.Context, rewardID string) (int64, error) {
	return s.expireAssignments(ctx, "ExpireRewardAssignments", func(a *models.RewardAssignment) bool { return a.RewardID == rewardID })
}

func (s *Store) ClaimAssignment(ctx context.Context, assignmentID string, at time.Time) (int64, error) {
	var n int64
	err := s.with(ctx, "ClaimAssignment", func(st *state) error {
		for _, a := range st.assignments {
			if a.ID == assignmentID && a.Status == models.AssignmentStatusAssigned {
				claimedAt := at
				a.Status = models.AssignmentStatusClaimed
				a.ClaimedAt = &claimedAt
				n = 1
			}
		}
		return nil
	})
	return n, err
}

func (s *Store) InsertCreditHistory(ctx context.Context, history *models.CreditHistory) error {
	return s.with(ctx, "InsertCreditHistory", func(st *state) error {
		if st.user(history.UserID) == nil {
			return ErrForeignKey
		}
		if history.ID == "" {
			history.ID = uuid.NewString()
		}
		if history.CreatedAt.IsZero() {
			history.CreatedAt = st.now()
		}
		st.history = append(st.history, copyOf(history))
		return nil
	})
}

func (s *Store) ListCreditHistory(ctx context.Context, userID string, limit int) ([]*models.CreditHistory, error) {
	var out []*models.CreditHistory
	err := s.with(ctx, "ListCreditHistory", func(st *state) error {
		mine := filter(st.history, func(h *models.CreditHistory) bool { return h.UserID == userID })
		out = newest(mine, limit)
		return nil
	})
	return out, err
}

func (s *Store) SumCreditHistory(ctx context.Context, userID string) (int, error) {
	var total int
	err := s.with(ctx, "SumCreditHistory", func(st *state) error {
		for _, h := range st.history {
			if h.UserID == userID {
				total += h.Amount
			}
		}
		return nil
	})
	return total, err
}

func (s *Store) InsertClaim(ctx context.Context, claim *models.Claim) error {
	return s.with(ctx, "InsertClaim", func(st *state) error {
		if st.user(claim.UserID) == nil {
			return ErrForeignKey
		}
		if claim.ID == "" {
			claim.ID = uuid.NewString()
		}
		if claim.CreatedAt.IsZero() {
			claim.CreatedAt = st.now()
		}
		st.claims = append(st.claims, copyOf(claim))
		return nil
	})
}

func (s *Store) ListClaims(ctx context.Context, userID string, limit int) ([]*models.Claim, error) {
	var out []*models.Claim
	err := s.with(ctx, "ListClaims", func(st *state) error {
		mine := filter(st.claims, func(c *models.Claim) bool { return c.UserID == userID })
		out = newest(mine, limit)
		return nil
	})
	return out, err
}

func (s *Store) FindAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var out *models.Admin
	err := s.with(ctx, "FindAdminByUsername", func(st *state) error {
		for _, a := range st.admins {
			if a.Username == username {
				out = copyOf(a)
				return nil
			}
		}
		return sql.ErrNoRows
	})
	return out, err
}

func (s *Store) InsertAdminIfMissing(ctx context.Context, admin *models.Admin) error {
	return s.with(ctx, "InsertAdminIfMissing", func(st *state) error {
		for _, a := range st.admins {
			if a.Username == admin.Username {
				return nil
			}
		}
		if admin.CreatedAt.IsZero() {
			admin.CreatedAt = st.now()
		}
		st.admins = append(st.admins, copyOf(admin))
		return nil
	})
}

func (s *Store) ListConfigs(ctx context.Context) ([]*models.Config, error) {
	var out []*models.Config
	err := s.with(ctx, "ListConfigs", func(st *state) error {
		out = cloneAll(st.configs)
		sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
		return nil
	})
	return out, err
}

func (s *Store) putConfig(ctx context.Context, op string, config *models.Config, overwrite bool) error {
	return s.with(ctx, op, func(st *state) error {
		for _, c := range st.configs {
			if c.Key == config.Key {
				if overwrite {
					c.Value = config.Value
				}
				return nil
			}
		}
		st.configs = append(st.configs, copyOf(config))
		return nil
	})
}

func (s *Store) UpsertConfig(ctx context.Context, config *models.Config) error {
	return s.putConfig(ctx, "UpsertConfig", config, true)
}

func (s *Store) InsertConfigIfMissing(ctx context.Context, config *models.Config) error {
	return s.putConfig(ctx, "InsertConfigIfMissing", config, false)
}
