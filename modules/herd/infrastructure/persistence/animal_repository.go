package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iota-uz/herdbook/modules/herd/domain/aggregates/animal"
	"github.com/iota-uz/herdbook/pkg/composables"
)

var (
	animalColumns = func() []string {
		cols := []string{"id", "owner_id", "ear_num"}
		for _, f := range animal.Fields() {
			cols = append(cols, f.Key)
		}
		return cols
	}()

	selectAnimalSQL = "SELECT " + strings.Join(animalColumns, ", ") + ", created_at, updated_at FROM herd_animals"

	insertAnimalSQL = fmt.Sprintf(
		"INSERT INTO herd_animals (%s) VALUES (%s) RETURNING created_at, updated_at",
		strings.Join(animalColumns, ", "),
		placeholders(1, len(animalColumns)),
	)

	updateAnimalSQL = func() string {
		fields := animal.Fields()
		sets := make([]string, 0, len(fields)+1)
		for i, f := range fields {
			sets = append(sets, fmt.Sprintf("%s = $%d", f.Key, i+3))
		}
		sets = append(sets, "updated_at = now()")
		return "UPDATE herd_animals SET " + strings.Join(sets, ", ") +
			" WHERE owner_id = $1 AND id = $2 RETURNING created_at, updated_at"
	}()
)

func placeholders(from, n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(out, ", ")
}

type AnimalRepository struct{}

func NewAnimalRepository() animal.Repository {
	return &AnimalRepository{}
}

func (r *AnimalRepository) GetByEarNum(ctx context.Context, earNum string) (animal.Animal, error) {
	_, pgOwnerID, err := ownerIDs(ctx)
	if err != nil {
		return animal.Animal{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return animal.Animal{}, err
	}

	rows, err := tx.Query(ctx, selectAnimalSQL+" WHERE owner_id = $1 AND ear_num = $2", pgOwnerID, strings.TrimSpace(earNum))
	if err != nil {
		return animal.Animal{}, gerrors.Wrap(err, "get animal by ear number")
	}
	out, err := collectAnimals(rows)
	if err != nil {
		return animal.Animal{}, err
	}
	if len(out) == 0 {
		return animal.Animal{}, animal.ErrNotFound
	}
	return out[0], nil
}

func (r *AnimalRepository) EarNumIndex(ctx context.Context) (map[string]uuid.UUID, error) {
	_, pgOwnerID, err := ownerIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, "SELECT ear_num, id FROM herd_animals WHERE owner_id = $1", pgOwnerID)
	if err != nil {
		return nil, gerrors.Wrap(err, "load ear number index")
	}
	defer rows.Close()

	index := map[string]uuid.UUID{}
	for rows.Next() {
		var earNum string
		var id pgtype.UUID
		if err := rows.Scan(&earNum, &id); err != nil {
			return nil, gerrors.Wrap(err, "scan ear number index")
		}
		index[earNum] = uuidFromPg(id)
	}
	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrap(err, "iterate ear number index")
	}
	return index, nil
}

func (r *AnimalRepository) List(ctx context.Context) ([]animal.Animal, error) {
	_, pgOwnerID, err := ownerIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectAnimalSQL+" WHERE owner_id = $1 ORDER BY ear_num", pgOwnerID)
	if err != nil {
		return nil, gerrors.Wrap(err, "list animals")
	}
	return collectAnimals(rows)
}

func (r *AnimalRepository) Create(ctx context.Context, a animal.Animal) (animal.Animal, error) {
	ownerID, pgOwnerID, err := ownerIDs(ctx)
	if err != nil {
		return animal.Animal{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return animal.Animal{}, err
	}

	id := a.ID()
	if id == uuid.Nil {
		id = uuid.New()
	}
	args := append([]any{pgUUIDFromUUID(id), pgOwnerID, a.EarNum()}, attributeArgs(a.Attributes())...)

	var createdAt, updatedAt time.Time
	if err := tx.QueryRow(ctx, insertAnimalSQL, args...).Scan(&createdAt, &updatedAt); err != nil {
		if isUniqueViolation(err) {
			return animal.Animal{}, animal.ErrEarNumTaken
		}
		return animal.Animal{}, gerrors.Wrap(err, "create animal")
	}
	return animal.Hydrate(id, ownerID, a.EarNum(), a.Attributes(), createdAt, updatedAt), nil
}

func (r *AnimalRepository) Update(ctx context.Context, a animal.Animal) (animal.Animal, error) {
	ownerID, pgOwnerID, err := ownerIDs(ctx)
	if err != nil {
		return animal.Animal{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return animal.Animal{}, err
	}

	args := append([]any{pgOwnerID, pgUUIDFromUUID(a.ID())}, attributeArgs(a.Attributes())...)

	var createdAt, updatedAt time.Time
	if err := tx.QueryRow(ctx, updateAnimalSQL, args...).Scan(&createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return animal.Animal{}, animal.ErrNotFound
		}
		return animal.Animal{}, gerrors.Wrap(err, "update animal")
	}
	return animal.Hydrate(a.ID(), ownerID, a.EarNum(), a.Attributes(), createdAt, updatedAt), nil
}

func attributeArgs(attrs animal.Attributes) []any {
	fields := animal.Fields()
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		if f.Kind == animal.KindDate {
			args = append(args, pgDate(f.Text(attrs)))
			continue
		}
		args = append(args, f.Value(attrs))
	}
	return args
}

// attributeScanner holds one scan destination per catalog field.
type attributeScanner struct {
	fields   []animal.Field
	texts    []*string
	dates    []pgtype.Date
	numbers  []*float64
	integers []*int
}

func newAttributeScanner() *attributeScanner {
	fields := animal.Fields()
	return &attributeScanner{
		fields:   fields,
		texts:    make([]*string, len(fields)),
		dates:    make([]pgtype.Date, len(fields)),
		numbers:  make([]*float64, len(fields)),
		integers: make([]*int, len(fields)),
	}
}

func (s *attributeScanner) dest() []any {
	out := make([]any, len(s.fields))
	for i, f := range s.fields {
		switch f.Kind {
		case animal.KindDate:
			out[i] = &s.dates[i]
		case animal.KindNumber:
			out[i] = &s.numbers[i]
		case animal.KindInteger:
			out[i] = &s.integers[i]
		default:
			out[i] = &s.texts[i]
		}
	}
	return out
}

func (s *attributeScanner) attributes() animal.Attributes {
	var attrs animal.Attributes
	for i, f := range s.fields {
		switch f.Kind {
		case animal.KindDate:
			f.SetText(&attrs, dateFromPg(s.dates[i]))
		case animal.KindNumber:
			f.SetNumber(&attrs, s.numbers[i])
		case animal.KindInteger:
			f.SetInteger(&attrs, s.integers[i])
		default:
			f.SetText(&attrs, s.texts[i])
		}
	}
	return attrs
}

func collectAnimals(rows pgx.Rows) ([]animal.Animal, error) {
	defer rows.Close()

	var out []animal.Animal
	for rows.Next() {
		var (
			id, ownerID          pgtype.UUID
			earNum               string
			createdAt, updatedAt time.Time
		)
		scanner := newAttributeScanner()
		dest := append([]any{&id, &ownerID, &earNum}, scanner.dest()...)
		dest = append(dest, &createdAt, &updatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, gerrors.Wrap(err, "scan animal")
		}
		out = append(out, animal.Hydrate(
			uuidFromPg(id),
			uuidFromPg(ownerID),
			earNum,
			scanner.attributes(),
			createdAt,
			updatedAt,
		))
	}
	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrap(err, "iterate animals")
	}
	return out, nil
}
