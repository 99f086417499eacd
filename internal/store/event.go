package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// RegionRecord is the stored form of one detected region.
type RegionRecord struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	W    int `json:"w"`
	H    int `json:"h"`
	Area int `json:"area"`
}

// Event represents one motion detection persisted to the database.
type Event struct {
	ID         string
	OccurredAt time.Time
	Count      int
	Regions    []RegionRecord
	Notified   bool
	CreatedAt  time.Time
}

// EventRepository provides access to stored motion events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts a new event. An empty ID is assigned a fresh UUID.
func (r *EventRepository) Create(e *Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now()

	regions, err := json.Marshal(e.Regions)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		`INSERT INTO events (id, occurred_at, count, regions, notified, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.OccurredAt, e.Count, string(regions), e.Notified, e.CreatedAt,
	)
	return err
}

// GetByID retrieves an event by its ID.
func (r *EventRepository) GetByID(id string) (*Event, error) {
	row := r.db.QueryRow(
		`SELECT id, occurred_at, count, regions, notified, created_at
		 FROM events WHERE id = ?`,
		id,
	)

	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// List retrieves up to limit events, newest first. A non-positive limit
// returns everything.
func (r *EventRepository) List(limit int) ([]*Event, error) {
	query := `SELECT id, occurred_at, count, regions, notified, created_at
		 FROM events ORDER BY occurred_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountSince returns the number of events that occurred at or after t.
func (r *EventRepository) CountSince(t time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM events WHERE occurred_at >= ?`, t,
	).Scan(&count)
	return count, err
}

// Delete removes an event by its ID.
func (r *EventRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBefore removes events that occurred before t and returns how many
// rows were deleted. Used to keep the log bounded on long-running installs.
func (r *EventRepository) DeleteBefore(t time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM events WHERE occurred_at < ?`, t)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (*Event, error) {
	e := &Event{}
	var regions string

	if err := s.Scan(&e.ID, &e.OccurredAt, &e.Count, &regions, &e.Notified, &e.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(regions), &e.Regions); err != nil {
		return nil, err
	}
	return e, nil
}
