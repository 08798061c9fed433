package service

import (
	"context"
	"log"
	"time"

	"NewsPortal/internal/model"
	"NewsPortal/internal/pkg"
	"NewsPortal/internal/repository/mysql"
)

const (
	// DigestInterval 摘要周期
	DigestInterval = 7 * 24 * time.Hour
	// DigestLookback 分类第一次参与摘要时的回看窗口
	DigestLookback = 7 * 24 * time.Hour
)

// DigestScheduler 每周把订阅分类里的新帖汇总成一封邮件发给订阅者
// 每个分类维护一条水位线，调度延迟时不会重复纳入也不会漏掉帖子
type DigestScheduler struct {
	catRepo  *mysql.CategoryRepository
	subRepo  *mysql.SubscriptionRepository
	postRepo *mysql.PostRepository
	userRepo *mysql.UserRepository
	wmRepo   *mysql.DigestWatermarkRepository
	send     Sender
	postURL  func(postID uint64) string
	interval time.Duration
	lookback time.Duration
}

func NewDigestScheduler(emailSvc *EmailService) *DigestScheduler {
	return &DigestScheduler{
		catRepo:  &mysql.CategoryRepository{DB: mysql.DB},
		subRepo:  &mysql.SubscriptionRepository{DB: mysql.DB},
		postRepo: &mysql.PostRepository{DB: mysql.DB},
		userRepo: &mysql.UserRepository{DB: mysql.DB},
		wmRepo:   &mysql.DigestWatermarkRepository{DB: mysql.DB},
		send:     emailSvc.Sender(),
		postURL:  emailSvc.PostURL,
		interval: DigestInterval,
		lookback: DigestLookback,
	}
}

// Run 摘要定时任务启动器
func (s *DigestScheduler) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.RunOnce(ctx, time.Now())
		}
	}
}

// RunOnce 跑一轮摘要。失败只记日志，这一轮照样算完成
// 同一用户跨分类的新帖合进一封邮件，按帖子去重
func (s *DigestScheduler) RunOnce(ctx context.Context, now time.Time) {
	cats, err := s.catRepo.List()
	if err != nil {
		log.Printf("digest categories err: %v", err)
		return
	}

	type userDigest struct {
		items map[uint64]pkg.DigestItem // 按 post id 去重
	}
	perUser := make(map[uint64]*userDigest)

	// 只有整条查询链路走完的分类才推水位线
	// 中途失败的分类保持原水位，下一轮把这个窗口补回来，不丢帖子
	completed := make([]model.Category, 0, len(cats))

	for _, cat := range cats {
		since, found, err := s.wmRepo.Get(ctx, cat.ID)
		if err != nil {
			log.Printf("digest watermark err: category=%d err=%v", cat.ID, err)
			continue
		}
		if !found {
			since = now.Add(-s.lookback)
		}

		posts, err := s.postRepo.ListByCategoryBetween(ctx, cat.ID, since, now)
		if err != nil {
			log.Printf("digest posts err: category=%d err=%v", cat.ID, err)
			continue
		}
		if len(posts) == 0 {
			completed = append(completed, cat)
			continue
		}

		subIDs, err := s.subRepo.SubscriberIDs(ctx, cat.ID)
		if err != nil {
			log.Printf("digest subscribers err: category=%d err=%v", cat.ID, err)
			continue
		}
		completed = append(completed, cat)
		for _, uid := range subIDs {
			ud, ok := perUser[uid]
			if !ok {
				ud = &userDigest{items: make(map[uint64]pkg.DigestItem)}
				perUser[uid] = ud
			}
			for _, p := range posts {
				ud.items[p.ID] = pkg.DigestItem{
					Title:    p.Title,
					URL:      s.postURL(p.ID),
					Category: cat.Name,
				}
			}
		}
	}

	uids := make([]uint64, 0, len(perUser))
	for uid := range perUser {
		uids = append(uids, uid)
	}
	users, err := s.userRepo.FindByIDs(uids)
	if err != nil {
		// 收件人都查不出来就整轮作废，水位不动，下一轮重来
		log.Printf("digest recipients err: %v", err)
		return
	}

	sent, failed := 0, 0
	for i := range users {
		user := users[i]
		ud := perUser[user.ID]
		if ud == nil {
			continue
		}
		items := make([]pkg.DigestItem, 0, len(ud.items))
		for _, it := range ud.items {
			items = append(items, it)
		}
		html := pkg.DigestHTML(user.Username, items)
		if err := s.send(user.Email, "Your weekly NewsPortal digest", html); err != nil {
			failed++
			log.Printf("digest send err: user=%d err=%v", user.ID, err)
			continue
		}
		sent++
	}

	// 整轮跑完把走完链路的分类推到本次起点
	for _, cat := range completed {
		if err := s.wmRepo.Advance(ctx, cat.ID, now); err != nil {
			log.Printf("digest advance err: category=%d err=%v", cat.ID, err)
		}
	}
	log.Printf("digest run done: recipients=%d sent=%d failed=%d", len(perUser), sent, failed)
}
