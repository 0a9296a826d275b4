package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"hotel_directory/internal/adapters/observability"
	"hotel_directory/internal/domain"
)

const backend = "mysql"

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valBool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}
func valJSON(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode price range: %w", err)
	}
	return string(b), nil
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// EnsureSchema creates the hotels table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createHotelsSQL); err != nil {
		return fmt.Errorf("create hotels table: %w", err)
	}
	return nil
}

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *Repo) Create(ctx context.Context, h domain.Hotel) (out domain.Hotel, err error) {
	defer observe("create", time.Now(), &err)

	h.ID = bson.NewObjectID().Hex()
	price, err := valJSON(h.PriceRange)
	if err != nil {
		return domain.Hotel{}, err
	}
	_, err = r.db.ExecContext(ctx, insertHotelSQL,
		h.ID,
		valStr(h.Name),
		valStr(h.Category),
		price,
		valF64(h.Rating),
		valStr(h.PhoneNumber),
		valBool(h.IsParkingAvailable),
		valBool(h.IsRestaurantAvailable),
	)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("insert hotel: %w", err)
	}
	return h, nil
}

func (r *Repo) Find(ctx context.Context, f domain.Filter) (out []domain.Hotel, err error) {
	defer observe("find", time.Now(), &err)

	where, args, err := whereFor(f)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, selectHotelCols+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("select hotels: %w", err)
	}
	defer rows.Close()

	out = []domain.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) UpdateByID(ctx context.Context, id string, patch domain.Hotel) (out domain.Hotel, err error) {
	defer observe("update_by_id", time.Now(), &err)
	return r.update(ctx, domain.Filter{Field: "_id", Value: id}, patch)
}

func (r *Repo) UpdateOne(ctx context.Context, f domain.Filter, patch domain.Hotel) (out domain.Hotel, err error) {
	defer observe("update_one", time.Now(), &err)
	return r.update(ctx, f, patch)
}

func (r *Repo) DeleteByID(ctx context.Context, id string) (out domain.Hotel, err error) {
	defer observe("delete_by_id", time.Now(), &err)
	return r.delete(ctx, domain.Filter{Field: "_id", Value: id})
}

func (r *Repo) DeleteOne(ctx context.Context, f domain.Filter) (out domain.Hotel, err error) {
	defer observe("delete_one", time.Now(), &err)
	return r.delete(ctx, f)
}

// update locks the first matching row, merges patch into it and writes the
// changed columns back in the same transaction.
func (r *Repo) update(ctx context.Context, f domain.Filter, patch domain.Hotel) (domain.Hotel, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Hotel{}, err
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := lockFirst(ctx, tx, f)
	if err != nil {
		return domain.Hotel{}, err
	}

	fields := patch.SetFields()
	if len(fields) > 0 {
		sets := make([]string, 0, len(fields))
		args := make([]any, 0, len(fields)+1)
		for _, fv := range fields {
			col := columns[string(fv.Field)]
			v := fv.Value
			if fv.Field == domain.FieldPriceRange {
				if v, err = valJSON(v); err != nil {
					return domain.Hotel{}, err
				}
			}
			sets = append(sets, col+" = ?")
			args = append(args, v)
		}
		args = append(args, cur.ID)
		q := "UPDATE hotels SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return domain.Hotel{}, fmt.Errorf("update hotel: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Hotel{}, err
	}
	return cur.Merge(patch), nil
}

func (r *Repo) delete(ctx context.Context, f domain.Filter) (domain.Hotel, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Hotel{}, err
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := lockFirst(ctx, tx, f)
	if err != nil {
		return domain.Hotel{}, err
	}
	if _, err := tx.ExecContext(ctx, deleteHotelSQL, cur.ID); err != nil {
		return domain.Hotel{}, fmt.Errorf("delete hotel: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Hotel{}, err
	}
	return cur, nil
}

func lockFirst(ctx context.Context, tx *sql.Tx, f domain.Filter) (domain.Hotel, error) {
	where, args, err := whereFor(f)
	if err != nil {
		return domain.Hotel{}, err
	}
	row := tx.QueryRowContext(ctx, selectHotelCols+where+" ORDER BY id LIMIT 1 FOR UPDATE", args...)
	h, err := scanHotel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, err
}

// whereFor builds the WHERE clause for f. The pseudo-field "_id" selects by
// primary key.
func whereFor(f domain.Filter) (string, []any, error) {
	if f.IsZero() {
		return "", nil, nil
	}
	if f.Field == "_id" {
		return " WHERE id = ?", []any{f.Value}, nil
	}
	col, ok := columns[string(f.Field)]
	if !ok {
		return "", nil, fmt.Errorf("field %q: %w", f.Field, domain.ErrInvalidValue)
	}
	if f.Field == domain.FieldPriceRange {
		v, err := valJSON(f.Value)
		if err != nil {
			return "", nil, err
		}
		return " WHERE " + col + " = CAST(? AS JSON)", []any{v}, nil
	}
	return " WHERE " + col + " = ?", []any{f.Value}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHotel(row scanner) (domain.Hotel, error) {
	var h domain.Hotel
	var (
		name, category, phone sql.NullString
		price                 []byte
		rating                sql.NullFloat64
		parking, restaurant   sql.NullBool
	)
	if err := row.Scan(&h.ID, &name, &category, &price, &rating, &phone, &parking, &restaurant); err != nil {
		return domain.Hotel{}, err
	}
	if name.Valid {
		v := name.String
		h.Name = &v
	}
	if category.Valid {
		v := category.String
		h.Category = &v
	}
	if len(price) > 0 {
		var v any
		if err := json.Unmarshal(price, &v); err != nil {
			return domain.Hotel{}, fmt.Errorf("decode price range: %w", err)
		}
		h.PriceRange = v
	}
	if rating.Valid {
		f := rating.Float64
		h.Rating = &f
	}
	if phone.Valid {
		v := phone.String
		h.PhoneNumber = &v
	}
	if parking.Valid {
		b := parking.Bool
		h.IsParkingAvailable = &b
	}
	if restaurant.Valid {
		b := restaurant.Bool
		h.IsRestaurantAvailable = &b
	}
	return h, nil
}

func observe(op string, start time.Time, err *error) {
	observability.ObserveStore(backend, op, *err, time.Since(start))
}
