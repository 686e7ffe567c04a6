package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/housie/internal/domain/preference"
	qb "github.com/riskibarqy/housie/internal/platform/querybuilder"
)

const preferencesTable = "preferences"

type PreferenceRepository struct {
	db *sqlx.DB
}

func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) Get(ctx context.Context, key string) (preference.Preference, bool, error) {
	query, args, err := qb.Select("*").From(preferencesTable).
		Where(
			qb.Eq("key", key),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return preference.Preference{}, false, crerr.Wrap(err, "build get preference query")
	}

	var row preferenceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return preference.Preference{}, false, nil
		}
		return preference.Preference{}, false, crerr.Wrapf(err, "get preference %s", key)
	}

	return preference.Preference{
		Key:       row.Key,
		Enabled:   row.Enabled,
		UpdatedAt: row.UpdatedAt,
	}, true, nil
}

func (r *PreferenceRepository) Upsert(ctx context.Context, item preference.Preference) error {
	insertModel := preferenceInsertModel{
		Key:       item.Key,
		Enabled:   item.Enabled,
		UpdatedAt: item.UpdatedAt,
	}
	query, args, err := qb.InsertModel(preferencesTable, insertModel, `ON CONFLICT (key)
DO UPDATE SET
    enabled = EXCLUDED.enabled,
    updated_at = EXCLUDED.updated_at,
    deleted_at = NULL`)
	if err != nil {
		return crerr.Wrap(err, "build upsert preference query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "upsert preference %s", item.Key)
	}

	return nil
}
