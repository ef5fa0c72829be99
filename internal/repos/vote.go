package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/confpulse/confpulse-backend/internal/logger"
	"github.com/confpulse/confpulse-backend/internal/types"
)

type VoteRepo interface {
	Get(ctx context.Context, tx *gorm.DB, sessionID uint, userIdentifier string) (*types.Vote, error)
	Create(ctx context.Context, tx *gorm.DB, vote *types.Vote) error
	UpdateValue(ctx context.Context, tx *gorm.DB, voteID uint, value int) (*types.Vote, error)
	Delete(ctx context.Context, tx *gorm.DB, voteID uint) error
	TallyForSession(ctx context.Context, tx *gorm.DB, sessionID uint) (types.VoteCounts, error)
	TalliesForSessions(ctx context.Context, tx *gorm.DB, sessionIDs []uint) (map[uint]types.VoteCounts, error)
	TalliesForAll(ctx context.Context, tx *gorm.DB) (map[uint]types.VoteCounts, error)
}

type voteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVoteRepo(db *gorm.DB, baseLog *logger.Logger) VoteRepo {
	return &voteRepo{db: db, log: baseLog.With("repo", "VoteRepo")}
}

func (vr *voteRepo) resolve(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return vr.db
}

func (vr *voteRepo) Get(ctx context.Context, tx *gorm.DB, sessionID uint, userIdentifier string) (*types.Vote, error) {
	var vote types.Vote
	err := vr.resolve(tx).WithContext(ctx).
		Where("session_id = ? AND user_identifier = ?", sessionID, userIdentifier).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (vr *voteRepo) Create(ctx context.Context, tx *gorm.DB, vote *types.Vote) error {
	return vr.resolve(tx).WithContext(ctx).Create(vote).Error
}

func (vr *voteRepo) UpdateValue(ctx context.Context, tx *gorm.DB, voteID uint, value int) (*types.Vote, error) {
	transaction := vr.resolve(tx)

	if err := transaction.WithContext(ctx).
		Model(&types.Vote{}).
		Where("id = ?", voteID).
		Update("value", value).Error; err != nil {
		return nil, err
	}
	var vote types.Vote
	if err := transaction.WithContext(ctx).First(&vote, voteID).Error; err != nil {
		return nil, err
	}
	return &vote, nil
}

func (vr *voteRepo) Delete(ctx context.Context, tx *gorm.DB, voteID uint) error {
	return vr.resolve(tx).WithContext(ctx).Delete(&types.Vote{}, voteID).Error
}

type voteGroup struct {
	SessionID uint
	Value     int
	Count     int64
}

func (vr *voteRepo) TallyForSession(ctx context.Context, tx *gorm.DB, sessionID uint) (types.VoteCounts, error) {
	tallies, err := vr.groupedTallies(ctx, vr.resolve(tx).Where("session_id = ?", sessionID))
	if err != nil {
		return types.VoteCounts{}, err
	}
	return tallies[sessionID], nil
}

func (vr *voteRepo) TalliesForSessions(ctx context.Context, tx *gorm.DB, sessionIDs []uint) (map[uint]types.VoteCounts, error) {
	if len(sessionIDs) == 0 {
		return map[uint]types.VoteCounts{}, nil
	}
	return vr.groupedTallies(ctx, vr.resolve(tx).Where("session_id IN ?", sessionIDs))
}

func (vr *voteRepo) TalliesForAll(ctx context.Context, tx *gorm.DB) (map[uint]types.VoteCounts, error) {
	return vr.groupedTallies(ctx, vr.resolve(tx))
}

func (vr *voteRepo) groupedTallies(ctx context.Context, query *gorm.DB) (map[uint]types.VoteCounts, error) {
	var groups []voteGroup
	err := query.WithContext(ctx).
		Model(&types.Vote{}).
		Select("session_id, value, COUNT(*) AS count").
		Group("session_id").
		Group("value").
		Scan(&groups).Error
	if err != nil {
		return nil, err
	}

	tallies := make(map[uint]types.VoteCounts, len(groups))
	for _, g := range groups {
		counts := tallies[g.SessionID]
		switch g.Value {
		case 1:
			counts.Upvotes = int(g.Count)
		case -1:
			counts.Downvotes = int(g.Count)
		}
		counts.NetVotes = counts.Upvotes - counts.Downvotes
		tallies[g.SessionID] = counts
	}
	return tallies, nil
}
