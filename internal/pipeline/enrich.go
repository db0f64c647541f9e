package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nova-labs/influencer-cli/internal/model"
	"github.com/nova-labs/influencer-cli/pkg/social"
)

// Enricher decorates records with live platform statistics on a best-effort
// basis. Each lookup is dispatched with a hard wall-clock deadline; on
// expiry the caller detaches and the eventual result is discarded, never
// merged late. A failed or abandoned lookup leaves the record unenriched.
type Enricher struct {
	client  social.Client
	timeout time.Duration
}

// NewEnricher builds an Enricher. A zero timeout defaults to 8 seconds per
// record.
func NewEnricher(client social.Client, timeout time.Duration) *Enricher {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Enricher{client: client, timeout: timeout}
}

// enrichResult carries one record's platform stats back from the fetch
// goroutine. The channel is buffered so an abandoned fetch can still send
// and terminate without anyone listening.
type enrichResult struct {
	stats map[string]*social.Profile
	err   error
}

// Enrich processes records sequentially, attaching real platform data where
// a lookup completes within the deadline. Records without handles are
// returned untouched. Each lookup reads only its own record's handles, so
// abandoned fetches cannot corrupt results already returned.
func (e *Enricher) Enrich(ctx context.Context, records []model.ContactRecord) []model.ContactRecord {
	if e == nil || e.client == nil {
		return records
	}
	for i := range records {
		r := &records[i]
		if !r.HasAnyHandle() {
			continue
		}

		ch := make(chan enrichResult, 1)
		handles := make(map[string]string, len(r.Handles))
		for p, h := range r.Handles {
			handles[p] = h
		}
		go func() {
			stats, err := e.fetchAll(ctx, handles)
			ch <- enrichResult{stats: stats, err: err}
		}()

		timer := time.NewTimer(e.timeout)
		select {
		case res := <-ch:
			timer.Stop()
			if res.err != nil {
				zap.L().Warn("enrich: lookup failed, keeping estimated data",
					zap.String("contact", r.FullName), zap.Error(res.err))
				continue
			}
			applyStats(r, res.stats)
		case <-timer.C:
			zap.L().Warn("enrich: lookup deadline expired, skipping",
				zap.String("contact", r.FullName),
				zap.Duration("timeout", e.timeout))
		case <-ctx.Done():
			timer.Stop()
			return records
		}
	}
	return records
}

func (e *Enricher) fetchAll(ctx context.Context, handles map[string]string) (map[string]*social.Profile, error) {
	stats := make(map[string]*social.Profile, len(handles))
	var lastErr error
	for platform, handle := range handles {
		p, err := e.client.ProfileStats(ctx, platform, handle)
		if err != nil {
			lastErr = err
			continue
		}
		stats[platform] = p
	}
	if len(stats) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return stats, nil
}

// applyStats merges fetched platform stats into the record. Instagram wins
// for follower counts, then Twitter; LinkedIn contributes profile text only.
func applyStats(r *model.ContactRecord, stats map[string]*social.Profile) {
	if len(stats) == 0 {
		return
	}
	for _, platform := range []string{"instagram", "twitter"} {
		p, ok := stats[platform]
		if !ok || p.Followers <= 0 {
			continue
		}
		if r.FollowerCount == 0 || platform == "instagram" {
			r.FollowerCount = p.Followers
			r.Followers = model.FormatFollowers(p.Followers)
		}
		if p.AverageLikes > 0 && r.AvgLikesPerPost == 0 {
			r.AvgLikesPerPost = p.AverageLikes
		} else if p.TotalLikes > 0 && p.Posts > 0 && r.AvgLikesPerPost == 0 {
			r.AvgLikesPerPost = p.TotalLikes / p.Posts
		}
		if r.FollowerCount > 0 && r.AvgLikesPerPost > 0 && r.EngagementRate == 0 {
			rate := float64(r.AvgLikesPerPost) / float64(r.FollowerCount) * 100
			r.EngagementRate = roundRate(rate)
			r.EstimatedReach = int(float64(r.FollowerCount) * rate / 100)
		}
	}
	if p, ok := stats["linkedin"]; ok && p.Bio != "" && r.Bio == "" {
		r.Bio = p.Bio
	}
	r.Verified = true
	r.DataSource = "real"
}

// EstimateEngagement fills engagement metrics from tier-typical rates for
// records that carry no real platform data.
func EstimateEngagement(records []model.ContactRecord) {
	for i := range records {
		r := &records[i]
		if r.Verified || r.FollowerCount == 0 {
			continue
		}
		var rate float64
		switch r.Tier {
		case model.TierTopMacro:
			rate = 1.5
		case model.TierMid:
			rate = 2.5
		case model.TierMicro:
			rate = 4.0
		case model.TierNano:
			rate = 6.0
		default:
			rate = 3.0
		}
		if r.EngagementRate == 0 {
			r.EngagementRate = rate
		}
		if r.AvgLikesPerPost == 0 {
			r.AvgLikesPerPost = int(float64(r.FollowerCount) * rate / 100)
		}
		if r.AvgCommentsPerPost == 0 {
			r.AvgCommentsPerPost = int(float64(r.FollowerCount) * rate / 1000)
		}
		if r.EstimatedReach == 0 {
			r.EstimatedReach = int(float64(r.FollowerCount) * rate / 100)
		}
	}
}

func roundRate(rate float64) float64 {
	return float64(int(rate*100+0.5)) / 100
}
