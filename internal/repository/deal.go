package repository

import (
	"context"
	"strconv"

	"github.com/dealhive/dealhive/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// dealRepository 协调层，协调缓存和数据库
type dealRepository struct {
	db          domain.DealRepository
	cache       domain.DealCache
	userRepo    domain.UserRepository
	commentRepo domain.CommentRepository

	rebuildGroup singleflight.Group
}

var _ domain.DealRepository = (*dealRepository)(nil)

// NewDealRepository 创建协调层repository
func NewDealRepository(db domain.DealRepository, cache domain.DealCache, userRepo domain.UserRepository, commentRepo domain.CommentRepository) *dealRepository {
	return &dealRepository{
		db:          db,
		cache:       cache,
		userRepo:    userRepo,
		commentRepo: commentRepo,
	}
}

// Fetch 获取deal列表；首页走缓存
func (r *dealRepository) Fetch(ctx context.Context, cursor string, num int64) ([]domain.Deal, error) {
	if cursor == "" {
		deals, err := r.cache.GetHome(ctx)
		if err == nil {
			return deals, nil
		}
	}

	deals, err := r.db.Fetch(ctx, cursor, num)
	if err != nil {
		return nil, err
	}

	deals, err = r.fillUserDetails(ctx, deals)
	if err != nil {
		return nil, err
	}

	if cursor == "" {
		go func(data []domain.Deal) {
			if err := r.cache.SetHome(context.Background(), data); err != nil {
				logrus.Warnf("failed to set home cache: %v", err)
			}
		}(deals)
	}

	return deals, nil
}

// GetByID 根据ID获取deal，singleflight避免缓存击穿
func (r *dealRepository) GetByID(ctx context.Context, id int64) (domain.Deal, error) {
	deal, err := r.cache.GetDeal(ctx, id)
	if err == nil {
		return deal, nil
	}

	key := "deal:" + strconv.FormatInt(id, 10)
	result, err, _ := r.rebuildGroup.Do(key, func() (interface{}, error) {
		d, err := r.db.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		// 填充发布者信息
		if d.User != nil {
			user, err := r.userRepo.GetByID(ctx, d.User.ID)
			if err == nil {
				d.User = &user
			} else {
				logrus.Warnf("poster %d of deal %d not found: %v", d.User.ID, id, err)
				d.User = nil
			}
		}

		// 加载可见评论并填充作者
		comments, err := r.commentRepo.FetchByDeal(ctx, id)
		if err != nil {
			return nil, err
		}
		comments, err = r.fillCommentUsers(ctx, comments)
		if err != nil {
			return nil, err
		}
		d.Comments = comments

		if err := r.cache.SetDeal(context.Background(), &d); err != nil {
			logrus.Warnf("failed to set deal cache: %v", err)
		}

		return d, nil
	})

	if err != nil {
		return domain.Deal{}, err
	}

	return result.(domain.Deal), nil
}

func (r *dealRepository) AddHeat(ctx context.Context, id int64, delta int64) error {
	err := r.db.AddHeat(ctx, id, delta)
	if err != nil {
		return err
	}

	// 异步删除缓存
	go func(id int64) {
		_ = r.cache.DeleteDeal(context.Background(), id)
	}(id)

	return nil
}

func (r *dealRepository) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	return r.db.FetchIDs(ctx, cursor, limit)
}

// fillUserDetails 批量填充deal发布者信息
func (r *dealRepository) fillUserDetails(ctx context.Context, deals []domain.Deal) ([]domain.Deal, error) {
	if len(deals) == 0 {
		return deals, nil
	}

	userIDs := make([]int64, 0, len(deals))
	existMap := make(map[int64]bool)
	for i := range deals {
		if deals[i].User == nil {
			continue
		}
		uid := deals[i].User.ID
		if !existMap[uid] {
			userIDs = append(userIDs, uid)
			existMap[uid] = true
		}
	}
	if len(userIDs) == 0 {
		return deals, nil
	}

	users, err := r.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	userMap := make(map[int64]domain.User)
	for _, u := range users {
		userMap[u.ID] = u
	}

	for i := range deals {
		if deals[i].User == nil {
			continue
		}
		if u, ok := userMap[deals[i].User.ID]; ok {
			deals[i].User = &u
		}
	}

	return deals, nil
}

// fillCommentUsers 并发填充评论作者信息
func (r *dealRepository) fillCommentUsers(ctx context.Context, comments []domain.Comment) ([]domain.Comment, error) {
	if len(comments) == 0 {
		return comments, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	mapUsers := map[int64]domain.User{}
	for _, comment := range comments {
		mapUsers[comment.UserID] = domain.User{}
	}

	chanUser := make(chan domain.User)
	for userID := range mapUsers {
		userID := userID
		g.Go(func() error {
			res, err := r.userRepo.GetByID(ctx, userID)
			if err != nil {
				return err
			}
			chanUser <- res
			return nil
		})
	}

	go func() {
		defer close(chanUser)
		if err := g.Wait(); err != nil {
			logrus.Error(err)
			return
		}
	}()

	for user := range chanUser {
		if user != (domain.User{}) {
			mapUsers[user.ID] = user
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range comments {
		if u, ok := mapUsers[comments[i].UserID]; ok && u.ID != 0 {
			u := u
			comments[i].User = &u
		}
	}
	return comments, nil
}
