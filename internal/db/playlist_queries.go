package db

import (
	"context"
	"fmt"

	"noticias.lat/hub/internal/globaltime"
)

func scanPlaylistItem(s scanner) (PlaylistItem, error) {
	var item PlaylistItem
	err := s.Scan(
		&item.ID,
		&item.Title,
		&item.MediaURL,
		&item.DurationSeconds,
		&item.Kind,
		&item.Position,
		&item.IsActive,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}

const playlistColumns = `id, title, media_url, duration_seconds, kind, position, is_active, created_at, updated_at`

// ListPlaylistItems returns items in play order. Position values only need
// to be monotonic, not contiguous.
func (p *Pool) ListPlaylistItems(ctx context.Context, activeOnly bool) ([]PlaylistItem, error) {
	q := fmt.Sprintf(`
SELECT %s
FROM playlist_items
WHERE ($1 = FALSE OR is_active = TRUE)
ORDER BY position ASC, id ASC
`, playlistColumns)

	rows, err := p.Query(ctx, q, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("query playlist items: %w", err)
	}
	defer rows.Close()

	items := make([]PlaylistItem, 0, 32)
	for rows.Next() {
		item, err := scanPlaylistItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan playlist item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlist items: %w", err)
	}
	return items, nil
}

// CreatePlaylistItem appends an item after the current highest position.
func (p *Pool) CreatePlaylistItem(ctx context.Context, item *PlaylistItem) error {
	if item == nil {
		return fmt.Errorf("playlist item is nil")
	}
	if item.Kind == "" {
		item.Kind = PlaylistKindSong
	}

	now := globaltime.UTC()
	const q = `
INSERT INTO playlist_items (title, media_url, duration_seconds, kind, position, is_active, created_at, updated_at)
VALUES (
	$1, $2, $3, $4,
	COALESCE((SELECT MAX(position) FROM playlist_items), 0) + 10,
	TRUE, $5, $5
)
RETURNING id, position
`
	if err := p.QueryRow(ctx, q,
		item.Title,
		item.MediaURL,
		item.DurationSeconds,
		item.Kind,
		now,
	).Scan(&item.ID, &item.Position); err != nil {
		return fmt.Errorf("insert playlist item: %w", err)
	}
	item.IsActive = true
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

// PlaylistReorder is one {id, position} pair of a reorder batch.
type PlaylistReorder struct {
	ID       int64 `json:"id"`
	Position int   `json:"orden"`
}

// ReorderPlaylistItems applies a batch of position changes in one
// transaction so a half-applied reorder never becomes visible.
func (p *Pool) ReorderPlaylistItems(ctx context.Context, changes []PlaylistReorder) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := p.BeginTx(ctx, TxOptions{})
	if err != nil {
		return fmt.Errorf("begin reorder tx: %w", err)
	}

	now := globaltime.UTC()
	for _, change := range changes {
		tag, err := tx.Exec(ctx,
			"UPDATE playlist_items SET position = $1, updated_at = $2 WHERE id = $3",
			change.Position, now, change.ID,
		)
		if err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("reorder item %d: %w", change.ID, err)
		}
		if tag.RowsAffected() == 0 {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("reorder item %d: %w", change.ID, ErrNoRows)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reorder tx: %w", err)
	}
	return nil
}

// SoftDeletePlaylistItem flags the item inactive; the file stays on disk.
func (p *Pool) SoftDeletePlaylistItem(ctx context.Context, id int64) error {
	tag, err := p.Exec(ctx,
		"UPDATE playlist_items SET is_active = FALSE, updated_at = $1 WHERE id = $2 AND is_active = TRUE",
		globaltime.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("soft delete playlist item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}
