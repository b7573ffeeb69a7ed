package rankdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	rankdomain "github.com/rankwatch/rankwatch/app/modules/rank/domain"
)

// RankDBImpl handles database operations for viewer ranks.
type RankDBImpl struct {
	DB *bun.DB
}

var _ Repository = (*RankDBImpl)(nil)

func (db *RankDBImpl) GetViewerRank(ctx context.Context, viewerID string) (*ViewerRank, error) {
	row := new(ViewerRank)
	err := db.DB.NewSelect().
		Model(row).
		Where("viewer_id = ?", viewerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrViewerRankNotFound
		}
		return nil, fmt.Errorf("failed to fetch rank for viewer %s: %w", viewerID, err)
	}
	return row, nil
}

func (db *RankDBImpl) GetViewerRanks(ctx context.Context, viewerIDs []string) ([]ViewerRank, error) {
	if len(viewerIDs) == 0 {
		return nil, nil
	}

	// Stable order: downstream top-N tie-breaks depend on scan order.
	var rows []ViewerRank
	err := db.DB.NewSelect().
		Model(&rows).
		Where("viewer_id IN (?)", bun.In(viewerIDs)).
		Order("viewer_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ranks for %d viewers: %w", len(viewerIDs), err)
	}
	return rows, nil
}

// UpsertCurrentRank writes the current-rank columns in one statement so a
// racing writer can never observe a half-written row.
func (db *RankDBImpl) UpsertCurrentRank(ctx context.Context, row *ViewerRank) error {
	row.UpdatedAt = time.Now().UTC()

	_, err := db.DB.NewInsert().
		Model(row).
		On("CONFLICT (viewer_id) DO UPDATE").
		Set("display_name = EXCLUDED.display_name").
		Set("current_tier = EXCLUDED.current_tier").
		Set("current_division = EXCLUDED.current_division").
		Set("current_points = EXCLUDED.current_points").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert current rank for viewer %s: %w", row.ViewerID, err)
	}
	return nil
}

func (db *RankDBImpl) UpdatePeak(ctx context.Context, viewerID string, peak rankdomain.Observation) error {
	res, err := db.DB.NewUpdate().
		Model((*ViewerRank)(nil)).
		Set("peak_tier = ?", peak.Tier.String()).
		Set("peak_division = ?", peak.Division.String()).
		Set("peak_points = ?", peak.Points).
		Set("updated_at = ?", time.Now().UTC()).
		Where("viewer_id = ?", viewerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update peak for viewer %s: %w", viewerID, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrViewerRankNotFound
	}
	return nil
}

func (db *RankDBImpl) SetShowPeak(ctx context.Context, viewerID string, showPeak bool) error {
	res, err := db.DB.NewUpdate().
		Model((*ViewerRank)(nil)).
		Set("show_peak = ?", showPeak).
		Set("updated_at = ?", time.Now().UTC()).
		Where("viewer_id = ?", viewerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set show_peak for viewer %s: %w", viewerID, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrViewerRankNotFound
	}
	return nil
}
