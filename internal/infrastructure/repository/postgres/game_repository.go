package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/housie/internal/domain/game"
	qb "github.com/riskibarqy/housie/internal/platform/querybuilder"
)

const gamesTable = "games"

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) List(ctx context.Context) ([]game.Game, error) {
	query, args, err := qb.Select("*").From(gamesTable).
		Where(qb.IsNull("deleted_at")).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build select games query")
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select games")
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}

	return out, nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From(gamesTable).
		Where(
			qb.Eq("public_id", gameID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return game.Game{}, false, crerr.Wrap(err, "build get game by id query")
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, crerr.Wrapf(err, "get game %s", gameID)
	}

	return gameFromRow(row), true, nil
}

func (r *GameRepository) Create(ctx context.Context, item game.Game) error {
	insertModel := gameInsertModel{
		PublicID:  item.ID,
		Name:      item.Name,
		Drawn:     intsToArray(item.Drawn),
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	query, args, err := qb.InsertModel(gamesTable, insertModel, "")
	if err != nil {
		return crerr.Wrap(err, "build insert game query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "insert game %s", item.ID)
	}

	return nil
}

func (r *GameRepository) UpdateDrawn(ctx context.Context, gameID string, drawn []int) error {
	query, args, err := qb.Update(gamesTable).
		Set("drawn", intsToArray(drawn)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", gameID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build update game drawn query")
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return crerr.Wrapf(err, "update drawn numbers of game %s", gameID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return crerr.Wrap(err, "read affected rows")
	}
	if affected == 0 {
		return crerr.Newf("game %s not found", gameID)
	}

	return nil
}

func (r *GameRepository) Delete(ctx context.Context, gameID string) (bool, error) {
	query, args, err := qb.Update(gamesTable).
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", gameID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, crerr.Wrap(err, "build delete game query")
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, crerr.Wrapf(err, "delete game %s", gameID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, crerr.Wrap(err, "read affected rows")
	}

	return affected > 0, nil
}

func (r *GameRepository) DeleteAll(ctx context.Context) error {
	query, args, err := qb.Update(gamesTable).
		SetExpr("deleted_at", "NOW()").
		Where(qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build delete all games query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "delete all games")
	}

	return nil
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:        row.PublicID,
		Name:      row.Name,
		Drawn:     arrayToInts(row.Drawn),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
