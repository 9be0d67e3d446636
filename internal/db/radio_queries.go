package db

import (
	"context"
	"fmt"
	"strings"

	"noticias.lat/hub/internal/globaltime"
	"noticias.lat/hub/internal/source/radio"
)

// UpsertStations snapshots a directory result into radio_stations, keyed by
// the directory's station UUID.
func (p *Pool) UpsertStations(ctx context.Context, stations []radio.Station) (inserted, updated int, err error) {
	if len(stations) == 0 {
		return 0, 0, nil
	}

	now := globaltime.UTC()
	const cols = 8
	placeholders := make([]string, 0, len(stations))
	args := make([]any, 0, len(stations)*cols)

	for i, st := range stations {
		base := i * cols
		marks := make([]string, cols)
		for j := range marks {
			marks[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")

		args = append(args,
			st.StationUUID,
			st.Name,
			strings.ToUpper(strings.TrimSpace(st.CountryCode)),
			strings.ToLower(strings.TrimSpace(st.Genre)),
			st.StreamURL,
			st.FaviconURL,
			now,
			now,
		)
	}

	query := fmt.Sprintf(`
INSERT INTO radio_stations (
	station_uuid, name, country, genre, stream_url, favicon_url, created_at, updated_at
)
VALUES %s
ON CONFLICT (station_uuid) DO UPDATE SET
	name = EXCLUDED.name,
	country = EXCLUDED.country,
	genre = EXCLUDED.genre,
	stream_url = EXCLUDED.stream_url,
	favicon_url = EXCLUDED.favicon_url,
	updated_at = EXCLUDED.updated_at
RETURNING (xmax = 0) AS inserted
`, strings.Join(placeholders, ",\n"))

	rows, err := p.Query(ctx, query, args...)
	if err != nil {
		return 0, 0, fmt.Errorf("bulk upsert stations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var wasInsert bool
		if err := rows.Scan(&wasInsert); err != nil {
			return inserted, updated, fmt.Errorf("scan station outcome: %w", err)
		}
		if wasInsert {
			inserted++
		} else {
			updated++
		}
	}
	if err := rows.Err(); err != nil {
		return inserted, updated, fmt.Errorf("iterate station outcomes: %w", err)
	}
	return inserted, updated, nil
}

// ListStations serves the persisted snapshot, filtered by country and genre.
func (p *Pool) ListStations(ctx context.Context, country, genre string, limit int) ([]RadioStation, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be >= 1")
	}

	const q = `
SELECT id, station_uuid, name, country, genre, stream_url, favicon_url, created_at, updated_at
FROM radio_stations
WHERE ($1 = '' OR country = $1)
  AND ($2 = '' OR genre = $2)
ORDER BY name ASC
LIMIT $3
`
	rows, err := p.Query(ctx, q,
		strings.ToUpper(strings.TrimSpace(country)),
		strings.ToLower(strings.TrimSpace(genre)),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query stations: %w", err)
	}
	defer rows.Close()

	stations := make([]RadioStation, 0, limit)
	for rows.Next() {
		var st RadioStation
		if err := rows.Scan(
			&st.ID,
			&st.StationUUID,
			&st.Name,
			&st.Country,
			&st.Genre,
			&st.StreamURL,
			&st.FaviconURL,
			&st.CreatedAt,
			&st.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan station row: %w", err)
		}
		stations = append(stations, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate station rows: %w", err)
	}
	return stations, nil
}
