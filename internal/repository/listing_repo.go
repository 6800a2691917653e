package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrListingUnavailable covers the missing listing, the non-active
	// listing, and the loser of a concurrent accept race.
	ErrListingUnavailable = errors.New("listing unavailable")
	// ErrListingNotFound is returned on cancel when the listing does not
	// exist, is not active, or is not owned by the caller. The three cases
	// are deliberately indistinguishable to the caller.
	ErrListingNotFound = errors.New("listing not found")
	// ErrSellerIsBuyer is returned when a seller tries to accept their own listing.
	ErrSellerIsBuyer = errors.New("seller cannot accept own listing")
)

// AcceptResult carries everything created by a successful acceptance.
type AcceptResult struct {
	Transaction model.Transaction
	ThreadID    int64
	SellerID    int64
}

type ListingRepository interface {
	Create(ctx context.Context, l *model.Listing) error
	List(ctx context.Context, kind model.ListingKind) ([]model.Listing, error)
	Cancel(ctx context.Context, kind model.ListingKind, listingID, sellerID int64) error
	Accept(ctx context.Context, kind model.ListingKind, listingID, buyerID int64, buyerMessage, messageBody string) (*AcceptResult, error)
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
}

type listingRepo struct {
	pool *pgxpool.Pool
}

func NewListingRepo(pool *pgxpool.Pool) ListingRepository {
	return &listingRepo{pool: pool}
}

func (r *listingRepo) Create(ctx context.Context, l *model.Listing) error {
	query := `
		INSERT INTO listings (kind, seller_id, price, status, meals, location, meal_type, name, category, img_url, baseline)
		VALUES ($1, $2, $3, 'active', $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, status, created_at
	`
	var meals sql.NullInt32
	var location, mealType, name, category, imgURL sql.NullString
	var baseline sql.NullFloat64
	switch {
	case l.Meal != nil:
		meals = sql.NullInt32{Int32: int32(l.Meal.Meals), Valid: true}
		location = sql.NullString{String: l.Meal.Location, Valid: true}
		mealType = sql.NullString{String: l.Meal.MealType, Valid: true}
	case l.Item != nil:
		name = sql.NullString{String: l.Item.Name, Valid: true}
		category = sql.NullString{String: l.Item.Category, Valid: true}
		imgURL = sql.NullString{String: l.Item.ImgURL, Valid: true}
		baseline = sql.NullFloat64{Float64: l.Item.Baseline, Valid: true}
	}
	err := r.pool.QueryRow(ctx, query, l.Kind, l.SellerID, l.Price,
		meals, location, mealType, name, category, imgURL, baseline).
		Scan(&l.ID, &l.Status, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating %s listing: %w", l.Kind, err)
	}
	return nil
}

func (r *listingRepo) List(ctx context.Context, kind model.ListingKind) ([]model.Listing, error) {
	query := `
		SELECT l.id, l.kind, l.seller_id, u.email, l.price, l.status, l.accepted_by_id, l.created_at,
		       l.meals, l.location, l.meal_type, l.name, l.category, l.img_url, l.baseline
		FROM listings l
		JOIN users u ON u.id = l.seller_id
		WHERE l.kind = $1
		ORDER BY l.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("querying %s listings: %w", kind, err)
	}
	defer rows.Close()

	var listings []model.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating listing rows: %w", err)
	}
	return listings, nil
}

func scanListing(rows pgx.Rows) (*model.Listing, error) {
	var l model.Listing
	var meals sql.NullInt32
	var location, mealType, name, category, imgURL sql.NullString
	var baseline sql.NullFloat64
	if err := rows.Scan(&l.ID, &l.Kind, &l.SellerID, &l.SellerEmail, &l.Price, &l.Status,
		&l.AcceptedByID, &l.CreatedAt,
		&meals, &location, &mealType, &name, &category, &imgURL, &baseline); err != nil {
		return nil, fmt.Errorf("scanning listing row: %w", err)
	}
	switch l.Kind {
	case model.KindMeal:
		l.Meal = &model.MealDetails{
			Meals:    int(meals.Int32),
			Location: location.String,
			MealType: mealType.String,
		}
	case model.KindItem:
		l.Item = &model.ItemDetails{
			Name:     name.String,
			Category: category.String,
			ImgURL:   imgURL.String,
			Baseline: baseline.Float64,
		}
	}
	return &l, nil
}

// Cancel transitions active -> cancelled, but only for the owning seller.
// The WHERE clause folds the existence, ownership and status checks into a
// single conditional update.
func (r *listingRepo) Cancel(ctx context.Context, kind model.ListingKind, listingID, sellerID int64) error {
	query := `
		UPDATE listings
		SET status = 'cancelled'
		WHERE id = $1 AND kind = $2 AND seller_id = $3 AND status = 'active'
	`
	result, err := r.pool.Exec(ctx, query, listingID, kind, sellerID)
	if err != nil {
		return fmt.Errorf("cancelling listing %d: %w", listingID, err)
	}
	if result.RowsAffected() == 0 {
		return ErrListingNotFound
	}
	return nil
}

// Accept performs the whole handoff as one database transaction: the
// compare-and-set status transition, the transaction record, the thread
// ensure, and the initiating message. On any failure the listing keeps its
// previous state. Two racing accepts serialize on the row update; the loser
// matches zero rows and gets ErrListingUnavailable.
func (r *listingRepo) Accept(ctx context.Context, kind model.ListingKind, listingID, buyerID int64, buyerMessage, messageBody string) (*AcceptResult, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("starting accept transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	const transition = `
		UPDATE listings
		SET status = 'accepted', accepted_by_id = $3, buyer_message = $4
		WHERE id = $1 AND kind = $2 AND status = 'active'
		RETURNING seller_id
	`
	var sellerID int64
	if err := tx.QueryRow(ctx, transition, listingID, kind, buyerID, buyerMessage).Scan(&sellerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListingUnavailable
		}
		return nil, fmt.Errorf("accepting listing %d: %w", listingID, err)
	}
	if sellerID == buyerID {
		// Rolling back undoes the status transition above.
		return nil, ErrSellerIsBuyer
	}

	result := AcceptResult{SellerID: sellerID}
	const insertTxn = `
		INSERT INTO transactions (kind, listing_id, seller_id, buyer_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, kind, listing_id, seller_id, buyer_id, created_at
	`
	if err := tx.QueryRow(ctx, insertTxn, kind, listingID, sellerID, buyerID).Scan(
		&result.Transaction.ID, &result.Transaction.Kind, &result.Transaction.ListingID,
		&result.Transaction.SellerID, &result.Transaction.BuyerID, &result.Transaction.CreatedAt); err != nil {
		return nil, fmt.Errorf("recording transaction for listing %d: %w", listingID, err)
	}

	// Lookup-or-create on the (kind, listing_id) unique key. The conflict
	// branch is a defensive no-op reachable only if a thread already exists
	// for this listing; the upsert form still returns its id.
	const ensureThread = `
		INSERT INTO threads (kind, listing_id, seller_id, buyer_id, open)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (kind, listing_id) DO UPDATE SET listing_id = EXCLUDED.listing_id
		RETURNING id
	`
	if err := tx.QueryRow(ctx, ensureThread, kind, listingID, sellerID, buyerID).Scan(&result.ThreadID); err != nil {
		return nil, fmt.Errorf("ensuring thread for listing %d: %w", listingID, err)
	}

	const insertMessage = `INSERT INTO messages (thread_id, sender_id, body) VALUES ($1, $2, $3)`
	if _, err := tx.Exec(ctx, insertMessage, result.ThreadID, buyerID, messageBody); err != nil {
		return nil, fmt.Errorf("posting initial message for listing %d: %w", listingID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing accept for listing %d: %w", listingID, err)
	}
	return &result, nil
}

func (r *listingRepo) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	query := `
		SELECT id, kind, listing_id, seller_id, buyer_id, created_at
		FROM transactions
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.Kind, &t.ListingID, &t.SellerID, &t.BuyerID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}
	return txns, nil
}
