package repository

import (
	"context"
	"errors"
	"time"

	"applyforge/internal/database"
	"applyforge/internal/domain/changeflag"
	"applyforge/internal/domain/persona"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrFlagNotFound    = errors.New("change flag not found")
	ErrAlreadyResolved = errors.New("change flag already resolved")
)

type ChangeFlagRepository interface {
	// CreatePending inserts a flag unless a Pending one already exists for
	// the same (change_type, item_id); repeated edits to one item collapse
	// into the existing flag.
	CreatePending(ctx context.Context, flag changeflag.Flag) (changeflag.Flag, bool, error)
	GetByID(ctx context.Context, personaID, flagID uuid.UUID) (changeflag.Flag, error)
	ListPending(ctx context.Context, personaID uuid.UUID) ([]changeflag.Flag, error)
	// Claim moves a Pending flag to Resolving so exactly one resolver
	// gets to apply side effects; the loser of a race gets
	// ErrAlreadyResolved before anything was mutated.
	Claim(ctx context.Context, personaID, flagID uuid.UUID) (changeflag.Flag, error)
	// Release puts a claimed flag back to Pending so a failed apply stays
	// retryable.
	Release(ctx context.Context, personaID, flagID uuid.UUID) error
	// Resolve retires a claimed flag.
	Resolve(ctx context.Context, personaID, flagID uuid.UUID, res changeflag.Resolution, at time.Time) (changeflag.Flag, error)
}

type PostgresChangeFlagRepository struct {
	db database.DB
}

func NewPostgresChangeFlagRepository(db database.DB) *PostgresChangeFlagRepository {
	return &PostgresChangeFlagRepository{db: db}
}

const changeFlagColumns = `id, persona_id, change_type, item_id, COALESCE(item_description,''),
	COALESCE(item_value,''), status, resolution, created_at, resolved_at`

func scanChangeFlag(scan func(dest ...any) error) (changeflag.Flag, error) {
	var f changeflag.Flag
	var changeType, status string
	var resolution *string
	err := scan(&f.ID, &f.PersonaID, &changeType, &f.ItemID, &f.ItemDescription,
		&f.ItemValue, &status, &resolution, &f.CreatedAt, &f.ResolvedAt)
	if err != nil {
		return changeflag.Flag{}, err
	}
	f.ChangeType = persona.ChangeType(changeType)
	f.Status = changeflag.Status(status)
	if resolution != nil {
		r := changeflag.Resolution(*resolution)
		f.Resolution = &r
	}
	return f, nil
}

func (r *PostgresChangeFlagRepository) CreatePending(ctx context.Context, flag changeflag.Flag) (changeflag.Flag, bool, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO change_flags (id, persona_id, change_type, item_id, item_description, item_value, status, created_at)
		 SELECT $1, $2, $3, $4, $5, $6, 'Pending', $7
		 WHERE NOT EXISTS (
		     SELECT 1 FROM change_flags
		     WHERE persona_id = $2 AND change_type = $3 AND item_id = $4 AND status IN ('Pending', 'Resolving')
		 )
		 RETURNING `+changeFlagColumns,
		flag.ID, flag.PersonaID, string(flag.ChangeType), flag.ItemID,
		flag.ItemDescription, flag.ItemValue, flag.CreatedAt,
	)
	created, err := scanChangeFlag(row.Scan)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return changeflag.Flag{}, false, err
	}

	// Insert was suppressed; hand back the flag that blocked it.
	row = r.db.QueryRow(ctx,
		`SELECT `+changeFlagColumns+` FROM change_flags
		 WHERE persona_id = $1 AND change_type = $2 AND item_id = $3 AND status IN ('Pending', 'Resolving')`,
		flag.PersonaID, string(flag.ChangeType), flag.ItemID,
	)
	existing, err := scanChangeFlag(row.Scan)
	if err != nil {
		return changeflag.Flag{}, false, err
	}
	return existing, false, nil
}

func (r *PostgresChangeFlagRepository) GetByID(ctx context.Context, personaID, flagID uuid.UUID) (changeflag.Flag, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+changeFlagColumns+` FROM change_flags WHERE id = $1 AND persona_id = $2`,
		flagID, personaID,
	)
	f, err := scanChangeFlag(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return changeflag.Flag{}, ErrFlagNotFound
		}
		return changeflag.Flag{}, err
	}
	return f, nil
}

func (r *PostgresChangeFlagRepository) ListPending(ctx context.Context, personaID uuid.UUID) ([]changeflag.Flag, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+changeFlagColumns+` FROM change_flags
		 WHERE persona_id = $1 AND status = 'Pending'
		 ORDER BY created_at DESC`,
		personaID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flags := make([]changeflag.Flag, 0)
	for rows.Next() {
		f, err := scanChangeFlag(rows.Scan)
		if err != nil {
			return nil, err
		}
		flags = append(flags, f)
	}
	return flags, rows.Err()
}

func (r *PostgresChangeFlagRepository) Claim(ctx context.Context, personaID, flagID uuid.UUID) (changeflag.Flag, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE change_flags SET status = 'Resolving'
		 WHERE id = $1 AND persona_id = $2 AND status = 'Pending'
		 RETURNING `+changeFlagColumns,
		flagID, personaID,
	)
	f, err := scanChangeFlag(row.Scan)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return changeflag.Flag{}, err
	}
	if _, err := r.GetByID(ctx, personaID, flagID); err != nil {
		return changeflag.Flag{}, err
	}
	// The flag exists but was not Pending: another resolver holds or
	// finished it.
	return changeflag.Flag{}, ErrAlreadyResolved
}

func (r *PostgresChangeFlagRepository) Release(ctx context.Context, personaID, flagID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE change_flags SET status = 'Pending'
		 WHERE id = $1 AND persona_id = $2 AND status = 'Resolving'`,
		flagID, personaID,
	)
	return err
}

func (r *PostgresChangeFlagRepository) Resolve(ctx context.Context, personaID, flagID uuid.UUID, res changeflag.Resolution, at time.Time) (changeflag.Flag, error) {
	n, err := r.db.Exec(ctx,
		`UPDATE change_flags SET status = 'Resolved', resolution = $3, resolved_at = $4
		 WHERE id = $1 AND persona_id = $2 AND status = 'Resolving'`,
		flagID, personaID, string(res), at,
	)
	if err != nil {
		return changeflag.Flag{}, err
	}
	if n == 0 {
		f, err := r.GetByID(ctx, personaID, flagID)
		if err != nil {
			return changeflag.Flag{}, err
		}
		if f.Status == changeflag.StatusResolved {
			return changeflag.Flag{}, ErrAlreadyResolved
		}
		return changeflag.Flag{}, ErrFlagNotFound
	}
	return r.GetByID(ctx, personaID, flagID)
}

var _ ChangeFlagRepository = (*PostgresChangeFlagRepository)(nil)
