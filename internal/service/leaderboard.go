package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"pullupboard/internal/models"
	"pullupboard/internal/ranking"
)

// ErrMemberNotRanked is returned when a member has no leaderboard entry
var ErrMemberNotRanked = errors.New("member not on leaderboard")

// LeaderboardStore is the record store as seen by the leaderboard
type LeaderboardStore interface {
	ListLeaderboardSubmissions(ctx context.Context) ([]models.Submission, error)
	Ping(ctx context.Context) error
}

// SnapshotCache holds the last leaderboard snapshot and its version
type SnapshotCache interface {
	GetSnapshot(ctx context.Context) ([]models.Submission, bool, error)
	StoreSnapshot(ctx context.Context, subs []models.Submission) error
	GetLeaderboardVersion(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// LeaderboardService handles business logic for the leaderboard
type LeaderboardService struct {
	store LeaderboardStore
	cache SnapshotCache
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(store LeaderboardStore, cache SnapshotCache) *LeaderboardService {
	return &LeaderboardService{
		store: store,
		cache: cache,
	}
}

// Snapshot returns the leaderboard-visible submissions, reading through the cache.
// A cache failure degrades to the store rather than failing the request.
func (s *LeaderboardService) Snapshot(ctx context.Context) ([]models.Submission, error) {
	subs, ok, err := s.cache.GetSnapshot(ctx)
	if err != nil {
		log.Printf("Snapshot cache read failed, falling back to store: %v", err)
	}
	if ok {
		return subs, nil
	}

	subs, err = s.store.ListLeaderboardSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}

	if err := s.cache.StoreSnapshot(ctx, subs); err != nil {
		log.Printf("Failed to cache leaderboard snapshot: %v", err)
	}
	return subs, nil
}

// RefreshSnapshot reloads the snapshot from the store into the cache
func (s *LeaderboardService) RefreshSnapshot(ctx context.Context) error {
	subs, err := s.store.ListLeaderboardSubmissions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load submissions: %w", err)
	}
	if err := s.cache.StoreSnapshot(ctx, subs); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// Groups runs the ranking pipeline over the current snapshot
func (s *LeaderboardService) Groups(ctx context.Context, filters models.LeaderboardFilters) ([]ranking.RankGroup, error) {
	if err := ranking.ValidateFilters(filters); err != nil {
		return nil, err
	}

	subs, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return ranking.Board(subs, filters)
}

// GetLeaderboard returns the grouped leaderboard for the given filters
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, filters models.LeaderboardFilters) (*models.LeaderboardResponse, error) {
	groups, err := s.Groups(ctx, filters)
	if err != nil {
		return nil, err
	}

	version, err := s.cache.GetLeaderboardVersion(ctx)
	if err != nil {
		log.Printf("Failed to read leaderboard version: %v", err)
	}

	resp := &models.LeaderboardResponse{
		Groups:  make([]models.LeaderboardGroup, 0, len(groups)),
		Version: version,
		Filters: filters,
	}
	for _, g := range groups {
		resp.Groups = append(resp.Groups, toGroup(g))
		resp.Total += g.Size()
	}
	return resp, nil
}

// GetPreview returns the first limit ranked entries of the unfiltered board
func (s *LeaderboardService) GetPreview(ctx context.Context, limit int) (*models.PreviewResponse, error) {
	switch {
	case limit <= 0:
		limit = 5
	case limit > 50:
		limit = 50
	}

	groups, err := s.Groups(ctx, models.LeaderboardFilters{})
	if err != nil {
		return nil, err
	}

	subs, ranks := ranking.Flatten(groups)
	if len(subs) > limit {
		subs, ranks = subs[:limit], ranks[:limit]
	}

	entries := make([]models.LeaderboardEntry, len(subs))
	for i := range subs {
		entries[i] = toEntry(subs[i], ranks[i])
	}
	return &models.PreviewResponse{Data: entries, Limit: limit}, nil
}

// SearchMember finds a member's best ranked submission on the unfiltered board
func (s *LeaderboardService) SearchMember(ctx context.Context, email string) (*models.SearchResponse, error) {
	groups, err := s.Groups(ctx, models.LeaderboardFilters{})
	if err != nil {
		return nil, err
	}

	for _, g := range groups {
		for i, sub := range g.Submissions {
			if sub.Email == email {
				return &models.SearchResponse{
					Email:     email,
					StartRank: g.StartRank,
					EndRank:   g.EndRank,
					Entry:     toEntry(sub, g.RankOf(i)),
				}, nil
			}
		}
	}
	return nil, ErrMemberNotRanked
}

// Clubs lists the distinct club affiliations present on the board, sorted.
// Unaffiliated athletes are not a club.
func (s *LeaderboardService) Clubs(ctx context.Context) ([]string, error) {
	subs, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	clubs := make([]string, 0)
	for _, sub := range subs {
		if sub.ClubAffiliation == "" || sub.ClubAffiliation == models.NoClub || seen[sub.ClubAffiliation] {
			continue
		}
		seen[sub.ClubAffiliation] = true
		clubs = append(clubs, sub.ClubAffiliation)
	}
	sort.Strings(clubs)
	return clubs, nil
}

// Badges returns the badge catalog
func (s *LeaderboardService) Badges() []models.Badge {
	return ranking.Badges()
}

// Version returns the current leaderboard version
func (s *LeaderboardService) Version(ctx context.Context) (int64, error) {
	return s.cache.GetLeaderboardVersion(ctx)
}

// HealthCheck checks the health of both the cache and the store
func (s *LeaderboardService) HealthCheck(ctx context.Context) error {
	if err := s.cache.Ping(ctx); err != nil {
		return fmt.Errorf("Redis health check failed: %w", err)
	}

	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("PostgreSQL health check failed: %w", err)
	}

	return nil
}

func toGroup(g ranking.RankGroup) models.LeaderboardGroup {
	entries := make([]models.LeaderboardEntry, len(g.Submissions))
	for i, sub := range g.Submissions {
		entries[i] = toEntry(sub, g.RankOf(i))
	}
	return models.LeaderboardGroup{
		PullUps:   g.Score,
		StartRank: g.StartRank,
		EndRank:   g.EndRank,
		Size:      g.Size(),
		Collapsed: g.Collapsible(),
		Entries:   entries,
	}
}

func toEntry(sub models.Submission, rank int) models.LeaderboardEntry {
	entry := models.LeaderboardEntry{
		Rank:            rank,
		ID:              sub.ID,
		FullName:        sub.FullName,
		Region:          sub.Region,
		ClubAffiliation: sub.ClubAffiliation,
		Age:             sub.Age,
		Gender:          sub.Gender,
		PullUps:         sub.EffectiveScore(),
		SubmissionDate:  sub.SubmissionDate,
		SocialHandle:    sub.SocialHandle,
	}
	if sub.ActualPullUpCount != nil && *sub.ActualPullUpCount != sub.PullUpCount {
		claimed := sub.PullUpCount
		entry.ClaimedPullUps = &claimed
	}
	if badge, ok := ranking.BadgeOf(sub); ok {
		entry.Badge = &badge
	}
	return entry
}

func memberView(sub models.Submission) models.MemberSubmission {
	view := models.MemberSubmission{Submission: sub, PullUps: sub.EffectiveScore()}
	if badge, ok := ranking.BadgeOf(sub); ok {
		view.Badge = &badge
	}
	return view
}
