package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finishlast/officesim/internal/protocol"
)

// WeeklyReview is one persisted end-of-week performance review.
type WeeklyReview struct {
	ID              int64
	RoomID          string
	PlayerID        string
	Week            int
	SlackPoints     int
	MeetingsAvoided int
	WorkDone        int
	CoffeeDrunk     int
	BathroomTrips   int
	CoworkerShame   []string
	Rank            string
	CreatedAt       time.Time
}

// ErrReviewNotFound is returned when a review lookup yields no results.
var ErrReviewNotFound = errors.New("weekly review not found")

// WeeklyReviewRepository persists end-of-week reviews.
type WeeklyReviewRepository struct {
	db *pgxpool.Pool
}

// NewWeeklyReviewRepository creates a WeeklyReviewRepository backed by the
// given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewWeeklyReviewRepository(db *pgxpool.Pool) *WeeklyReviewRepository {
	return &WeeklyReviewRepository{db: db}
}

// RecordWeekly inserts one player's weekly review. It satisfies the room
// package's recorder interface.
//
// Postcondition: Returns nil once the review row is durably inserted.
func (r *WeeklyReviewRepository) RecordWeekly(ctx context.Context, roomID, playerID string, week int, stats protocol.WeeklyStats, rank string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO weekly_reviews
		   (room_id, player_id, week, slack_points, meetings_avoided,
		    work_done, coffee_drunk, bathroom_trips, coworker_shame, rank)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		roomID, playerID, week,
		stats.SlackPoints, stats.MeetingsAvoided, stats.WorkDone,
		stats.CoffeeDrunk, stats.BathroomTrips, stats.CoworkerShame, rank,
	)
	if err != nil {
		return fmt.Errorf("inserting weekly review: %w", err)
	}
	return nil
}

// Latest returns a player's most recent review in a room, or
// ErrReviewNotFound.
func (r *WeeklyReviewRepository) Latest(ctx context.Context, roomID, playerID string) (WeeklyReview, error) {
	var review WeeklyReview
	err := r.db.QueryRow(ctx,
		`SELECT id, room_id, player_id, week, slack_points, meetings_avoided,
		        work_done, coffee_drunk, bathroom_trips, coworker_shame, rank, created_at
		 FROM weekly_reviews
		 WHERE room_id = $1 AND player_id = $2
		 ORDER BY week DESC, created_at DESC
		 LIMIT 1`,
		roomID, playerID,
	).Scan(
		&review.ID, &review.RoomID, &review.PlayerID, &review.Week,
		&review.SlackPoints, &review.MeetingsAvoided, &review.WorkDone,
		&review.CoffeeDrunk, &review.BathroomTrips, &review.CoworkerShame,
		&review.Rank, &review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return WeeklyReview{}, ErrReviewNotFound
		}
		return WeeklyReview{}, fmt.Errorf("querying latest review: %w", err)
	}
	return review, nil
}

// ListForWeek returns every review recorded for a room's week, ordered by
// slack points descending.
func (r *WeeklyReviewRepository) ListForWeek(ctx context.Context, roomID string, week int) ([]WeeklyReview, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, room_id, player_id, week, slack_points, meetings_avoided,
		        work_done, coffee_drunk, bathroom_trips, coworker_shame, rank, created_at
		 FROM weekly_reviews
		 WHERE room_id = $1 AND week = $2
		 ORDER BY slack_points DESC, player_id`,
		roomID, week,
	)
	if err != nil {
		return nil, fmt.Errorf("querying reviews: %w", err)
	}
	defer rows.Close()

	var reviews []WeeklyReview
	for rows.Next() {
		var review WeeklyReview
		if err := rows.Scan(
			&review.ID, &review.RoomID, &review.PlayerID, &review.Week,
			&review.SlackPoints, &review.MeetingsAvoided, &review.WorkDone,
			&review.CoffeeDrunk, &review.BathroomTrips, &review.CoworkerShame,
			&review.Rank, &review.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reviews: %w", err)
	}
	return reviews, nil
}
