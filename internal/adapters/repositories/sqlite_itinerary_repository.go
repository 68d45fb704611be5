package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"trip-map-service/internal/domain"
)

// SQLite-backed implementation of the ItineraryRepository port.
//
// The day/activity structure is stored as a JSON document in the shape the
// upstream generator produces; destination and summary are lifted into
// columns for listing without decoding every blob.
type SqliteItineraryRepository struct{ DB *sql.DB }

func NewSqliteItineraryRepository(db *sql.DB) *SqliteItineraryRepository {
	return &SqliteItineraryRepository{DB: db}
}

// dayDoc mirrors the upstream generator's JSON for one itinerary day.
type dayDoc struct {
	Day        int           `json:"day"`
	Title      string        `json:"title"`
	Activities []activityDoc `json:"activities"`
}

type activityDoc struct {
	Time        string `json:"time"`
	Description string `json:"description"`
	Location    string `json:"location"`
	ImageURL    string `json:"imageUrl,omitempty"`
	TicketPrice string `json:"ticketPrice,omitempty"`
}

// Return all stored itineraries, oldest first.
func (s *SqliteItineraryRepository) ListItineraries(ctx context.Context) ([]domain.StoredItinerary, error) {
	if s.DB == nil {
		return nil, errors.New("itinerary repository: DB is nil")
	}

	query := `
	SELECT id, destination, summary, days
	FROM itineraries
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list itineraries: query itineraries table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.StoredItinerary, 0, 16)
	for rows.Next() {
		item, err := scanItinerary(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list itineraries: %w", err)
		}
		out = append(out, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list itineraries: row iteration: %w", err)
	}

	return out, nil
}

// Return one itinerary by id.
func (s *SqliteItineraryRepository) GetItinerary(ctx context.Context, id int64) (domain.StoredItinerary, error) {
	if s.DB == nil {
		return domain.StoredItinerary{}, errors.New("itinerary repository: DB is nil")
	}

	query := `
	SELECT id, destination, summary, days
	FROM itineraries
	WHERE id = ?;
	`
	item, err := scanItinerary(s.DB.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StoredItinerary{}, fmt.Errorf("get itinerary id=%d: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.StoredItinerary{}, fmt.Errorf("get itinerary id=%d: %w", id, err)
	}

	return item, nil
}

// Store a new itinerary and return its assigned id.
func (s *SqliteItineraryRepository) CreateItinerary(ctx context.Context, itinerary domain.Itinerary) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("itinerary repository: DB is nil")
	}

	blob, err := json.Marshal(daysToDoc(itinerary.Days))
	if err != nil {
		return 0, fmt.Errorf("create itinerary: encode days: %w", err)
	}

	query := `
	INSERT INTO itineraries (destination, summary, days)
	VALUES (?, ?, ?);
	`
	res, err := s.DB.ExecContext(ctx, query, itinerary.Destination, itinerary.Summary, string(blob))
	if err != nil {
		return 0, fmt.Errorf("create itinerary: insert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create itinerary: last insert id: %w", err)
	}

	return id, nil
}

// ErrNotFound marks lookups for itineraries that do not exist.
var ErrNotFound = errors.New("itinerary not found")

func scanItinerary(scan func(dest ...any) error) (domain.StoredItinerary, error) {
	var (
		id                         int64
		destination, summary, days string
	)
	if err := scan(&id, &destination, &summary, &days); err != nil {
		return domain.StoredItinerary{}, err
	}

	var docs []dayDoc
	if err := json.Unmarshal([]byte(days), &docs); err != nil {
		return domain.StoredItinerary{}, fmt.Errorf("decode days for id=%d: %w", id, err)
	}

	return domain.StoredItinerary{
		ID: id,
		Itinerary: domain.Itinerary{
			Destination: destination,
			Summary:     summary,
			Days:        daysFromDoc(docs),
		},
	}, nil
}

func daysToDoc(days []domain.Day) []dayDoc {
	docs := make([]dayDoc, 0, len(days))
	for _, d := range days {
		acts := make([]activityDoc, 0, len(d.Activities))
		for _, a := range d.Activities {
			acts = append(acts, activityDoc{
				Time:        a.Time,
				Description: a.Description,
				Location:    a.Location,
				ImageURL:    a.ImageURL,
				TicketPrice: a.TicketPrice,
			})
		}
		docs = append(docs, dayDoc{Day: d.Day, Title: d.Title, Activities: acts})
	}
	return docs
}

func daysFromDoc(docs []dayDoc) []domain.Day {
	days := make([]domain.Day, 0, len(docs))
	for _, d := range docs {
		acts := make([]domain.Activity, 0, len(d.Activities))
		for _, a := range d.Activities {
			acts = append(acts, domain.Activity{
				Time:        a.Time,
				Description: a.Description,
				Location:    a.Location,
				ImageURL:    a.ImageURL,
				TicketPrice: a.TicketPrice,
			})
		}
		days = append(days, domain.Day{Day: d.Day, Title: d.Title, Activities: acts})
	}
	return days
}
